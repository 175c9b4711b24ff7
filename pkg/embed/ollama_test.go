package embed

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/CartWise/cartwise-mvp/pkg/resilience"
)

func TestOllamaClient_Embed(t *testing.T) {
	var gotReq ollamaEmbedReq
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embeddings" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatal(err)
		}
		json.NewEncoder(w).Encode(ollamaEmbedResp{Embedding: []float64{0.1, 0.2, 0.3}})
	}))
	defer srv.Close()

	c := NewOllamaClient(srv.URL, "test-model")
	vec, err := c.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if gotReq.Model != "test-model" || gotReq.Prompt != "hello" {
		t.Errorf("request = %+v", gotReq)
	}
	if len(vec) != 3 || vec[1] != float32(0.2) {
		t.Errorf("vec = %v", vec)
	}
}

func TestOllamaClient_EmbedErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewOllamaClient(srv.URL, "missing")
	if _, err := c.Embed(context.Background(), "hello"); err == nil {
		t.Fatal("expected error on non-200")
	}
}

func TestOllamaClient_EmbedBatch(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		json.NewEncoder(w).Encode(ollamaEmbedResp{Embedding: []float64{float64(calls)}})
	}))
	defer srv.Close()

	c := NewOllamaClient(srv.URL, "test-model")
	vecs, err := c.EmbedBatch(context.Background(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("EmbedBatch: %v", err)
	}
	if len(vecs) != 3 || calls != 3 {
		t.Fatalf("vecs = %d, calls = %d", len(vecs), calls)
	}
	// One vector per text, in order.
	if vecs[0][0] != 1 || vecs[2][0] != 3 {
		t.Errorf("vecs = %v", vecs)
	}
}

func TestGuarded_TripsBreaker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	breaker := resilience.NewBreaker(resilience.BreakerOpts{FailThreshold: 2, Timeout: 0})
	g := NewGuarded(NewOllamaClient(srv.URL, "m"), breaker)

	ctx := context.Background()
	_, _ = g.Embed(ctx, "a")
	_, _ = g.Embed(ctx, "b")

	_, err := g.Embed(ctx, "c")
	if !errors.Is(err, resilience.ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen after threshold, got %v", err)
	}
}

func TestGuarded_PassesThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(ollamaEmbedResp{Embedding: []float64{1}})
	}))
	defer srv.Close()

	g := NewGuarded(NewOllamaClient(srv.URL, "m"), nil)
	vec, err := g.Embed(context.Background(), "a")
	if err != nil || len(vec) != 1 {
		t.Fatalf("got (%v, %v)", vec, err)
	}
}
