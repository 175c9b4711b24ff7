// Command backfill mirrors the preprocessed catalog into Qdrant so other
// services can run similarity search against it. It is idempotent: point ids
// derive from product ids, so re-running overwrites in place.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/CartWise/cartwise-mvp/engine/ingest"
	"github.com/CartWise/cartwise-mvp/engine/semantic"
)

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	productCSV := envOr("PRODUCT_CSV", "data/products_processed.csv")
	embeddingsFile := envOr("EMBEDDINGS_FILE", "data/embeddings.gob")
	qdrantAddr := envOr("QDRANT_URL", "localhost:6334")
	collection := envOr("QDRANT_COLLECTION", "cartwise_products")

	products, err := ingest.LoadProducts(productCSV, nil)
	if err != nil {
		log.Fatalf("load products: %v", err)
	}
	model, matrix, err := ingest.LoadMatrix(embeddingsFile)
	if err != nil {
		log.Fatalf("load embeddings: %v", err)
	}
	if len(products) != len(matrix) {
		log.Fatalf("%d products but %d vectors; re-run ingest", len(products), len(matrix))
	}
	if len(matrix) == 0 {
		log.Fatal("nothing to mirror: empty catalog")
	}

	store, err := semantic.New(qdrantAddr, collection)
	if err != nil {
		log.Fatalf("qdrant connect: %v", err)
	}
	defer store.Close()

	dims := len(matrix[0])
	if err := store.EnsureCollection(ctx, dims); err != nil {
		log.Fatalf("ensure collection: %v", err)
	}
	if err := store.UpsertProducts(ctx, products, matrix); err != nil {
		log.Fatalf("upsert: %v", err)
	}
	log.Printf("Mirrored %d products (model %s, %d dims) into %s", len(products), model, dims, collection)

	// Probe with the first product's own vector; it should come back first.
	hits, err := store.Search(ctx, matrix[0], 1, "")
	if err != nil {
		log.Fatalf("probe search: %v", err)
	}
	if len(hits) == 0 || hits[0].ProductID != products[0].ID {
		log.Printf("probe warning: expected product %s first, got %+v", products[0].ID, hits)
	} else {
		log.Printf("Probe OK: %q score %.3f", hits[0].Title, hits[0].Score)
	}
}
