// Package main implements the CartWise API server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"golang.org/x/time/rate"

	"github.com/CartWise/cartwise-mvp/engine/assistant"
	"github.com/CartWise/cartwise-mvp/engine/catalog"
	"github.com/CartWise/cartwise-mvp/engine/ingest"
	"github.com/CartWise/cartwise-mvp/engine/ledger"
	"github.com/CartWise/cartwise-mvp/pkg/embed"
	"github.com/CartWise/cartwise-mvp/pkg/metrics"
	"github.com/CartWise/cartwise-mvp/pkg/mid"
	"github.com/CartWise/cartwise-mvp/pkg/natsutil"
)

// Config holds all environment-based configuration.
type Config struct {
	Port           string
	OllamaURL      string
	EmbedModel     string
	ProductCSV     string
	OrderCSV       string
	EmbeddingsFile string
	NATSURL        string
	CORSOrigin     string
}

func loadConfig() Config {
	return Config{
		Port:           envOr("PORT", "8080"),
		OllamaURL:      envOr("OLLAMA_URL", "http://localhost:11434"),
		EmbedModel:     envOr("EMBED_MODEL", "nomic-embed-text"),
		ProductCSV:     envOr("PRODUCT_CSV", "data/products.csv"),
		OrderCSV:       envOr("ORDER_CSV", "data/orders.csv"),
		EmbeddingsFile: envOr("EMBEDDINGS_FILE", "data/embeddings.gob"),
		NATSURL:        os.Getenv("NATS_URL"),
		CORSOrigin:     envOr("CORS_ORIGIN", "*"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg := loadConfig()

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited with error", "err", err)
		os.Exit(1)
	}
}

func run(cfg Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	embedder := embed.NewGuarded(embed.NewOllamaClient(cfg.OllamaURL, cfg.EmbedModel), nil)

	// --- Load datasets ---
	products, err := ingest.LoadProducts(cfg.ProductCSV, logger)
	if err != nil {
		return fmt.Errorf("load products: %w", err)
	}
	orders, err := ingest.LoadOrders(cfg.OrderCSV, logger)
	if err != nil {
		return fmt.Errorf("load orders: %w", err)
	}

	// --- Embedding matrix: reuse the preprocessed file when present ---
	var matrix [][]float32
	if model, vecs, lerr := ingest.LoadMatrix(cfg.EmbeddingsFile); lerr == nil {
		if model != cfg.EmbedModel {
			logger.Warn("embeddings file built with a different model", "file_model", model, "configured", cfg.EmbedModel)
		}
		matrix = vecs
		logger.Info("embeddings loaded", "path", cfg.EmbeddingsFile, "rows", len(vecs))
	} else {
		logger.Info("embeddings file missing, building matrix", "path", cfg.EmbeddingsFile, "err", lerr)
		matrix, err = ingest.BuildMatrix(ctx, embedder, products)
		if err != nil {
			return fmt.Errorf("build matrix: %w", err)
		}
	}

	cat, err := catalog.New(products, matrix)
	if err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	led := ledger.New(orders)

	// --- Optional NATS event sink ---
	opts := []assistant.Option{}
	reg := metrics.New()
	opts = append(opts, assistant.WithMetrics(reg))
	if cfg.NATSURL != "" {
		nc, nerr := nats.Connect(cfg.NATSURL, nats.Name("cartwise-api"))
		if nerr != nil {
			logger.Warn("nats connect failed, events disabled", "url", cfg.NATSURL, "err", nerr)
		} else {
			defer nc.Close()
			opts = append(opts, assistant.WithEvents(&natsSink{nc: nc, subject: "assistant.query.handled"}))
		}
	}

	asst := assistant.New(cat, led, embedder, logger, opts...)

	// --- Build HTTP server ---
	mux := newRouter(asst, cat, led, reg, logger)

	handler := mid.Chain(mux,
		mid.Recover(logger),
		mid.Logger(logger),
		mid.CORS(cfg.CORSOrigin),
		mid.OTel("cartwise-api"),
		mid.RateLimit(rate.NewLimiter(rate.Limit(50), 100)),
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// --- Graceful shutdown ---
	errCh := make(chan error, 1)
	go func() {
		logger.Info("api server starting", "port", cfg.Port, "products", cat.Len(), "orders", led.Len())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutCtx)
}

// natsSink publishes query events to NATS.
type natsSink struct {
	nc      *nats.Conn
	subject string
}

func (s *natsSink) Publish(ctx context.Context, ev assistant.QueryEvent) error {
	return natsutil.Publish(ctx, s.nc, s.subject, ev)
}
