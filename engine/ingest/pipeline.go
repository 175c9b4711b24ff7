package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/CartWise/cartwise-mvp/engine/domain"
	"github.com/CartWise/cartwise-mvp/pkg/embed"
	"github.com/CartWise/cartwise-mvp/pkg/fn"
)

// EmbedBatchSize is the max texts per embedding request.
const EmbedBatchSize = 100

// Paths names the two input CSVs.
type Paths struct {
	Products string
	Orders   string
}

// Datasets is the cleaned, canonical-schema output of the load stage.
type Datasets struct {
	Products []domain.Product
	Orders   []domain.Order
}

// Processed adds the embedding matrix, row-aligned with Products.
type Processed struct {
	Datasets
	Matrix [][]float32
	Model  string
}

// Deps holds the external collaborators of the preprocessing pipeline.
type Deps struct {
	Embedder embed.Embedder
	Model    string
	Logger   *slog.Logger
}

// BuildMatrix embeds every product's combined text in batches, returning
// one vector per product in table order.
func BuildMatrix(ctx context.Context, embedder embed.Embedder, products []domain.Product) ([][]float32, error) {
	matrix := make([][]float32, 0, len(products))

	for i := 0; i < len(products); i += EmbedBatchSize {
		end := i + EmbedBatchSize
		if end > len(products) {
			end = len(products)
		}
		texts := make([]string, end-i)
		for j, p := range products[i:end] {
			texts[j] = p.CombinedText()
		}

		vecs, err := embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("ingest: embed batch at %d: %w", i, err)
		}
		if len(vecs) != len(texts) {
			return nil, fmt.Errorf("ingest: embed batch at %d: got %d vectors for %d texts", i, len(vecs), len(texts))
		}
		matrix = append(matrix, vecs...)
	}
	return matrix, nil
}

// NewLoad creates the load stage: CSVs in, canonical datasets out.
func NewLoad(logger *slog.Logger) fn.Stage[Paths, Datasets] {
	return func(_ context.Context, p Paths) fn.Result[Datasets] {
		products, err := LoadProducts(p.Products, logger)
		if err != nil {
			return fn.Err[Datasets](err)
		}
		orders, err := LoadOrders(p.Orders, logger)
		if err != nil {
			return fn.Err[Datasets](err)
		}
		return fn.Ok(Datasets{Products: products, Orders: orders})
	}
}

// NewEmbed creates the embedding stage.
func NewEmbed(deps Deps) fn.Stage[Datasets, Processed] {
	return func(ctx context.Context, ds Datasets) fn.Result[Processed] {
		matrix, err := BuildMatrix(ctx, deps.Embedder, ds.Products)
		if err != nil {
			return fn.Err[Processed](err)
		}
		return fn.Ok(Processed{Datasets: ds, Matrix: matrix, Model: deps.Model})
	}
}

// NewPipeline wires load and embed with tracing.
func NewPipeline(deps Deps) fn.Stage[Paths, Processed] {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	load := fn.TracedStage("ingest.load", NewLoad(log))
	embedStage := fn.TracedStage("ingest.embed", NewEmbed(deps))
	return fn.Then(load, embedStage)
}
