// Package main implements an interactive terminal session against the
// assistant: type a question, get the rendered reply. "set customer <id>"
// attaches a customer id to subsequent order queries.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/CartWise/cartwise-mvp/engine/assistant"
	"github.com/CartWise/cartwise-mvp/engine/catalog"
	"github.com/CartWise/cartwise-mvp/engine/ingest"
	"github.com/CartWise/cartwise-mvp/engine/ledger"
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

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	slog.SetDefault(logger)

	ollamaURL := envOr("OLLAMA_URL", "http://localhost:11434")
	embedModel := envOr("EMBED_MODEL", "nomic-embed-text")
	productCSV := envOr("PRODUCT_CSV", "data/products.csv")
	orderCSV := envOr("ORDER_CSV", "data/orders.csv")
	embeddingsFile := envOr("EMBEDDINGS_FILE", "data/embeddings.gob")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, ollamaURL, embedModel, productCSV, orderCSV, embeddingsFile, logger); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, ollamaURL, embedModel, productCSV, orderCSV, embeddingsFile string, logger *slog.Logger) error {
	embedder := embed.NewGuarded(embed.NewOllamaClient(ollamaURL, embedModel), nil)

	products, err := ingest.LoadProducts(productCSV, logger)
	if err != nil {
		return err
	}
	orders, err := ingest.LoadOrders(orderCSV, logger)
	if err != nil {
		return err
	}

	var matrix [][]float32
	if _, vecs, lerr := ingest.LoadMatrix(embeddingsFile); lerr == nil {
		matrix = vecs
	} else {
		fmt.Println("Building embeddings, this can take a while...")
		matrix, err = ingest.BuildMatrix(ctx, embedder, products)
		if err != nil {
			return err
		}
	}

	cat, err := catalog.New(products, matrix)
	if err != nil {
		return err
	}
	asst := assistant.New(cat, ledger.New(orders), embedder, logger)

	fmt.Printf("CartWise assistant ready (%d products, %d orders).\n", len(products), len(orders))
	fmt.Println(`Ask about products or orders. "set customer <id>" to identify yourself, "quit" to leave.`)

	customerID := 0
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			fmt.Println("Please type a question.")
			continue
		}

		switch strings.ToLower(line) {
		case "quit", "exit", "bye":
			fmt.Println("Goodbye!")
			return nil
		}

		if rest, ok := strings.CutPrefix(strings.ToLower(line), "set customer "); ok {
			id, err := strconv.Atoi(strings.TrimSpace(rest))
			if err != nil || id <= 0 {
				fmt.Println("Customer id must be a positive number.")
				continue
			}
			customerID = id
			fmt.Printf("Customer ID set to %d.\n", customerID)
			continue
		}

		reply, err := asst.ProcessQuery(ctx, line, customerID)
		if err != nil {
			fmt.Printf("Sorry, I encountered an error: %v\n", err)
			continue
		}
		fmt.Println(reply)
	}
	return scanner.Err()
}
