package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/CartWise/cartwise-mvp/engine/catalog"
	"github.com/CartWise/cartwise-mvp/engine/domain"
	"github.com/CartWise/cartwise-mvp/engine/ledger"
	"github.com/CartWise/cartwise-mvp/engine/render"
	"github.com/CartWise/cartwise-mvp/pkg/metrics"
)

// stubEmbedder returns a fixed vector, or an error when set.
type stubEmbedder struct {
	vec []float32
	err error
}

func (s *stubEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	return s.vec, s.err
}

func (s *stubEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range out {
		out[i] = s.vec
	}
	return out, s.err
}

// captureSink records published events.
type captureSink struct {
	events []QueryEvent
	err    error
}

func (c *captureSink) Publish(_ context.Context, ev QueryEvent) error {
	c.events = append(c.events, ev)
	return c.err
}

func day(d int) time.Time {
	return time.Date(2025, time.June, d, 9, 0, 0, 0, time.UTC)
}

func newTestAssistant(t *testing.T, opts ...Option) *Assistant {
	t.Helper()

	products := []domain.Product{
		{ID: "1", Title: "Acoustic Guitar", Description: "Spruce top", Category: "Music", Price: 120, Rating: 4.5},
		{ID: "2", Title: "Guitar Strings", Description: "Light gauge", Category: "Music", Price: 9.99, Rating: 4.2},
		{ID: "3", Title: "Espresso Machine", Description: "15 bar", Category: "Kitchen", Price: 199, Rating: 3.9},
	}
	matrix := [][]float32{{3}, {2}, {1}}
	cat, err := catalog.New(products, matrix)
	if err != nil {
		t.Fatal(err)
	}

	orders := []domain.Order{
		{ID: 1, CustomerID: 100, PlacedAt: day(1), Product: "Lamp", Sales: 35, ShippingCost: 5, Priority: "Medium"},
		{ID: 2, CustomerID: 100, PlacedAt: day(9), Product: "Guitar", Sales: 120, ShippingCost: 12, Priority: "High"},
		{ID: 3, CustomerID: 200, PlacedAt: day(4), Product: "Kettle", Sales: 40, ShippingCost: 4, Priority: "High"},
	}

	return New(cat, ledger.New(orders), &stubEmbedder{vec: []float32{1}}, nil, opts...)
}

func TestProcessQuery_ProductSearch(t *testing.T) {
	a := newTestAssistant(t)

	reply, err := a.ProcessQuery(context.Background(), "show me guitars", 0)
	if err != nil {
		t.Fatalf("ProcessQuery: %v", err)
	}
	if !strings.Contains(reply, "Here are some products that might interest you:") {
		t.Errorf("missing header: %q", reply)
	}
	// Highest dot product first.
	if !strings.Contains(reply, "1. Acoustic Guitar") {
		t.Errorf("best match not first: %q", reply)
	}
}

func TestProcessQuery_PriceFilterEmpty(t *testing.T) {
	a := newTestAssistant(t)

	reply, err := a.ProcessQuery(context.Background(), "anything under $5", 0)
	if err != nil {
		t.Fatalf("ProcessQuery: %v", err)
	}
	if !strings.Contains(reply, "price under $5.00") {
		t.Errorf("empty-result message should name the price filter: %q", reply)
	}
}

func TestProcessQuery_RatingFilter(t *testing.T) {
	a := newTestAssistant(t)

	reply, err := a.ProcessQuery(context.Background(), "products rated above 4", 0)
	if err != nil {
		t.Fatalf("ProcessQuery: %v", err)
	}
	if strings.Contains(reply, "Espresso Machine") {
		t.Errorf("3.9-star product slipped past the 4.0 floor: %q", reply)
	}
}

func TestProcessQuery_CustomerOrdersNeedsID(t *testing.T) {
	a := newTestAssistant(t)

	reply, err := a.ProcessQuery(context.Background(), "where are my orders", 0)
	if err != nil {
		t.Fatalf("ProcessQuery: %v", err)
	}
	if reply != render.CustomerIDPrompt {
		t.Errorf("got %q, want the customer-id prompt", reply)
	}
}

func TestProcessQuery_CustomerOrdersMostRecentOnly(t *testing.T) {
	a := newTestAssistant(t)

	reply, err := a.ProcessQuery(context.Background(), "show my orders", 100)
	if err != nil {
		t.Fatalf("ProcessQuery: %v", err)
	}
	if !strings.Contains(reply, "Guitar") {
		t.Errorf("most recent order missing: %q", reply)
	}
	if strings.Contains(reply, "Lamp") {
		t.Errorf("older order should not be rendered: %q", reply)
	}
}

func TestProcessQuery_UnknownCustomer(t *testing.T) {
	a := newTestAssistant(t)

	reply, err := a.ProcessQuery(context.Background(), "show my orders", 999)
	if err != nil {
		t.Fatalf("ProcessQuery: %v", err)
	}
	if !strings.Contains(reply, "No orders found for customer <strong>999</strong>") {
		t.Errorf("got %q", reply)
	}
}

func TestProcessQuery_HighPriority(t *testing.T) {
	a := newTestAssistant(t)

	reply, err := a.ProcessQuery(context.Background(), "show high priority orders", 0)
	if err != nil {
		t.Fatalf("ProcessQuery: %v", err)
	}
	if !strings.Contains(reply, "Here are the 2 most recent high-priority orders:") {
		t.Errorf("got %q", reply)
	}
	if strings.Contains(reply, "Lamp") {
		t.Errorf("medium-priority order included: %q", reply)
	}
}

func TestProcessQuery_EmbedFailure(t *testing.T) {
	a := newTestAssistant(t)
	a.embedder = &stubEmbedder{err: errors.New("model down")}

	_, err := a.ProcessQuery(context.Background(), "show me guitars", 0)
	if err == nil {
		t.Fatal("expected error when embedding fails")
	}
}

func TestProcessQuery_Idempotent(t *testing.T) {
	a := newTestAssistant(t)

	first, err := a.ProcessQuery(context.Background(), "show me guitars", 0)
	if err != nil {
		t.Fatal(err)
	}
	second, err := a.ProcessQuery(context.Background(), "show me guitars", 0)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("same query produced different replies")
	}
}

func TestProcessQuery_PublishesEvents(t *testing.T) {
	sink := &captureSink{}
	a := newTestAssistant(t, WithEvents(sink))

	if _, err := a.ProcessQuery(context.Background(), "show high priority orders", 7); err != nil {
		t.Fatal(err)
	}
	if len(sink.events) != 1 {
		t.Fatalf("got %d events, want 1", len(sink.events))
	}
	ev := sink.events[0]
	if ev.Intent != "high_priority_orders" || ev.CustomerID != 7 {
		t.Errorf("event = %+v", ev)
	}
}

func TestProcessQuery_SinkFailureIsNonFatal(t *testing.T) {
	sink := &captureSink{err: errors.New("nats down")}
	a := newTestAssistant(t, WithEvents(sink))

	reply, err := a.ProcessQuery(context.Background(), "show me guitars", 0)
	if err != nil {
		t.Fatalf("sink failure must not fail the query: %v", err)
	}
	if reply == "" {
		t.Error("empty reply")
	}
}

func TestProcessQuery_RecordsMetrics(t *testing.T) {
	reg := metrics.New()
	a := newTestAssistant(t, WithMetrics(reg))

	if _, err := a.ProcessQuery(context.Background(), "show me guitars", 0); err != nil {
		t.Fatal(err)
	}
	out := reg.Render()
	if !strings.Contains(out, `cartwise_queries_total{intent="product_search"} 1`) {
		t.Errorf("counter missing from:\n%s", out)
	}
	if !strings.Contains(out, "cartwise_query_duration_seconds_count 1") {
		t.Errorf("histogram missing from:\n%s", out)
	}
}
