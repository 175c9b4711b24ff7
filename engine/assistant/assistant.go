// Package assistant orchestrates the query pipeline: it interprets a raw
// question, routes it to the catalog or the ledger, and renders the result
// into a formatted reply. It owns no mutable state beyond its immutable
// stores, so a single Assistant serves concurrent requests.
package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/CartWise/cartwise-mvp/engine/catalog"
	"github.com/CartWise/cartwise-mvp/engine/domain"
	"github.com/CartWise/cartwise-mvp/engine/intent"
	"github.com/CartWise/cartwise-mvp/engine/ledger"
	"github.com/CartWise/cartwise-mvp/engine/render"
	"github.com/CartWise/cartwise-mvp/pkg/embed"
	"github.com/CartWise/cartwise-mvp/pkg/metrics"
)

// QueryEvent is published after each handled chat query.
type QueryEvent struct {
	Intent     string    `json:"intent"`
	CustomerID int       `json:"customer_id,omitempty"`
	DurationMS int64     `json:"duration_ms"`
	At         time.Time `json:"at"`
}

// EventSink receives QueryEvents. Publishing is fire-and-forget; failures
// are logged and never affect the reply.
type EventSink interface {
	Publish(ctx context.Context, ev QueryEvent) error
}

// Assistant is the long-lived session object owning the stores and the
// embedding provider.
type Assistant struct {
	catalog  *catalog.Store
	ledger   *ledger.Store
	embedder embed.Embedder
	logger   *slog.Logger

	events EventSink // optional
	met    *metrics.Registry
}

// Option configures optional collaborators.
type Option func(*Assistant)

// WithEvents attaches a query-event sink.
func WithEvents(sink EventSink) Option {
	return func(a *Assistant) { a.events = sink }
}

// WithMetrics attaches a metrics registry.
func WithMetrics(reg *metrics.Registry) Option {
	return func(a *Assistant) { a.met = reg }
}

// New creates an Assistant.
func New(cat *catalog.Store, led *ledger.Store, embedder embed.Embedder, logger *slog.Logger, opts ...Option) *Assistant {
	if logger == nil {
		logger = slog.Default()
	}
	a := &Assistant{catalog: cat, ledger: led, embedder: embedder, logger: logger}
	for _, o := range opts {
		o(a)
	}
	return a
}

// ProcessQuery answers one natural-language question. customerID <= 0 means
// the caller did not identify themselves; order queries then get a prompt
// for the id instead of a lookup. The returned error is non-nil only for
// upstream failures (embedding); every other condition degrades into a
// descriptive message.
func (a *Assistant) ProcessQuery(ctx context.Context, query string, customerID int) (string, error) {
	ctx, span := otel.Tracer("engine/assistant").Start(ctx, "assistant.process_query")
	defer span.End()

	start := time.Now()
	it := intent.Parse(strings.ToLower(query))
	span.SetAttributes(attribute.String("intent", it.Kind.String()))

	reply, err := a.dispatch(ctx, it, query, customerID)
	if err != nil {
		a.logger.Error("query failed", "intent", it.Kind.String(), "err", err)
		return "", err
	}

	a.observe(ctx, it.Kind.String(), customerID, time.Since(start))
	return reply, nil
}

func (a *Assistant) dispatch(ctx context.Context, it intent.Intent, query string, customerID int) (string, error) {
	switch it.Kind {
	case intent.KindHighPriorityOrders:
		orders := a.ledger.HighPriority(it.Limit)
		return render.HighPriorityOrders(orders), nil

	case intent.KindCustomerOrders:
		if customerID <= 0 {
			return render.CustomerIDPrompt, nil
		}
		orders, err := a.ledger.CustomerOrders(customerID, 0)
		if err != nil {
			return render.NoOrdersForCustomer(customerID), nil
		}
		// The chat path renders only the most recent order.
		return render.SingleOrder(orders[0]), nil

	default:
		return a.productSearch(ctx, query, it)
	}
}

// productSearch embeds the raw (original-case) query and ranks the catalog.
func (a *Assistant) productSearch(ctx context.Context, query string, it intent.Intent) (string, error) {
	vec, err := a.embedder.Embed(ctx, query)
	if err != nil {
		return "", fmt.Errorf("assistant: embed query: %w", err)
	}

	scored := a.catalog.Search(vec, it.MinRating, it.MaxPrice)
	if len(scored) == 0 {
		return render.NoProducts(it.MinRating, it.MaxPrice), nil
	}

	products := make([]domain.Product, len(scored))
	for i, s := range scored {
		products[i] = s.Product
	}
	return render.ProductList(products), nil
}

func (a *Assistant) observe(ctx context.Context, kind string, customerID int, dur time.Duration) {
	if a.met != nil {
		a.met.Counter(metrics.WithLabels("cartwise_queries_total", "intent", kind), "Chat queries handled").Inc()
		a.met.Histogram("cartwise_query_duration_seconds", "End-to-end query handling time", nil).Observe(dur.Seconds())
	}
	if a.events != nil {
		ev := QueryEvent{Intent: kind, CustomerID: customerID, DurationMS: dur.Milliseconds(), At: time.Now().UTC()}
		if err := a.events.Publish(ctx, ev); err != nil {
			a.logger.Warn("event publish failed", "err", err)
		}
	}
}
