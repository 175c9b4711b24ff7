// Package embed defines the embedding provider contract and its Ollama
// implementation. Vectors are fixed-length, deterministic for a given model
// and input, and pre-normalized by the model, so callers compare them with a
// plain dot product.
package embed

import "context"

// Embedder maps text to dense vectors.
type Embedder interface {
	// Embed encodes one string.
	Embed(ctx context.Context, text string) ([]float32, error)
	// EmbedBatch encodes a sequence of strings, one vector per input, in
	// input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}
