package embed

import (
	"context"

	"github.com/CartWise/cartwise-mvp/pkg/resilience"
)

// Guarded wraps an Embedder with a circuit breaker so a dead model server
// fails fast instead of stacking up blocked requests. There is no retry:
// a failed embed surfaces to the caller immediately.
type Guarded struct {
	inner   Embedder
	breaker *resilience.Breaker
}

// NewGuarded wraps inner with the given breaker (nil gets defaults).
func NewGuarded(inner Embedder, breaker *resilience.Breaker) *Guarded {
	if breaker == nil {
		breaker = resilience.NewBreaker(resilience.DefaultBreakerOpts)
	}
	return &Guarded{inner: inner, breaker: breaker}
}

// Embed implements Embedder.
func (g *Guarded) Embed(ctx context.Context, text string) ([]float32, error) {
	var out []float32
	err := g.breaker.Call(ctx, func(ctx context.Context) error {
		var err error
		out, err = g.inner.Embed(ctx, text)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// EmbedBatch implements Embedder.
func (g *Guarded) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	var out [][]float32
	err := g.breaker.Call(ctx, func(ctx context.Context) error {
		var err error
		out, err = g.inner.EmbedBatch(ctx, texts)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
