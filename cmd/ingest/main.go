// Command ingest runs the offline preprocessing pipeline: it loads the raw
// product and order CSVs, cleans them into the canonical schema, embeds the
// product texts, and writes the processed CSVs plus the embedding matrix.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/CartWise/cartwise-mvp/engine/ingest"
	"github.com/CartWise/cartwise-mvp/pkg/embed"
)

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func main() {
	_ = godotenv.Load()

	var (
		productsIn  = flag.String("products", envOr("PRODUCT_CSV", "data/products.csv"), "input product CSV (raw or processed schema)")
		ordersIn    = flag.String("orders", envOr("ORDER_CSV", "data/orders.csv"), "input order CSV (raw or processed schema)")
		productsOut = flag.String("products-out", "data/products_processed.csv", "output product CSV")
		ordersOut   = flag.String("orders-out", "data/orders_processed.csv", "output order CSV")
		matrixOut   = flag.String("embeddings-out", envOr("EMBEDDINGS_FILE", "data/embeddings.gob"), "output embedding matrix")
		ollamaURL   = flag.String("ollama", envOr("OLLAMA_URL", "http://localhost:11434"), "Ollama base URL")
		model       = flag.String("model", envOr("EMBED_MODEL", "nomic-embed-text"), "embedding model")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	embedder := embed.NewGuarded(embed.NewOllamaClient(*ollamaURL, *model), nil)
	pipeline := ingest.NewPipeline(ingest.Deps{Embedder: embedder, Model: *model, Logger: logger})

	start := time.Now()
	result := pipeline(ctx, ingest.Paths{Products: *productsIn, Orders: *ordersIn})
	processed, err := result.Unwrap()
	if err != nil {
		logger.Error("pipeline failed", "err", err)
		os.Exit(1)
	}

	if err := ingest.WriteProducts(*productsOut, processed.Products); err != nil {
		logger.Error("write products", "err", err)
		os.Exit(1)
	}
	if err := ingest.WriteOrders(*ordersOut, processed.Orders); err != nil {
		logger.Error("write orders", "err", err)
		os.Exit(1)
	}
	if err := ingest.SaveMatrix(*matrixOut, processed.Model, processed.Matrix); err != nil {
		logger.Error("write embeddings", "err", err)
		os.Exit(1)
	}

	logger.Info("preprocessing complete",
		"products", len(processed.Products),
		"orders", len(processed.Orders),
		"vectors", len(processed.Matrix),
		"model", processed.Model,
		"duration", time.Since(start),
	)
}
