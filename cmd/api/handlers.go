package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/CartWise/cartwise-mvp/engine/assistant"
	"github.com/CartWise/cartwise-mvp/engine/catalog"
	"github.com/CartWise/cartwise-mvp/engine/domain"
	"github.com/CartWise/cartwise-mvp/engine/ledger"
	"github.com/CartWise/cartwise-mvp/engine/render"
	"github.com/CartWise/cartwise-mvp/pkg/metrics"
)

func newRouter(asst *assistant.Assistant, cat *catalog.Store, led *ledger.Store, reg *metrics.Registry, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", handleHealth)
	mux.HandleFunc("POST /api/chat", handleChat(asst, logger))

	mux.HandleFunc("GET /api/products/search", handleProductSearch(cat))
	mux.HandleFunc("GET /api/products/top-rated", handleTopRated(cat))
	mux.HandleFunc("GET /api/products/category/{name}", handleProductsByCategory(cat))
	mux.HandleFunc("GET /api/products/{id}", handleProductByID(cat))
	mux.HandleFunc("GET /api/products/{id}/recommendations", handleRecommendations(cat))
	mux.HandleFunc("GET /api/categories", handleCategories(cat))

	mux.HandleFunc("GET /api/customers/{id}/orders", handleCustomerOrders(led))
	mux.HandleFunc("GET /api/orders", handleOrders(led))
	mux.HandleFunc("GET /api/orders/priority/{name}", handleOrdersByPriority(led))
	mux.HandleFunc("GET /api/orders/stats", handleOrderStats(led))

	mux.Handle("GET /metrics", reg.Handler())

	return mux
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ChatRequest is the JSON body for POST /api/chat.
type ChatRequest struct {
	Query      string `json:"query"`
	CustomerID int    `json:"customer_id,omitempty"`
}

// ChatResponse carries the rendered HTML reply.
type ChatResponse struct {
	Response string `json:"response"`
}

func handleChat(asst *assistant.Assistant, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, domain.NewValidationError("body", "", domain.ErrInvalidInput))
			return
		}
		if err := domain.ValidateQueryText(req.Query); err != nil {
			writeError(w, err)
			return
		}

		reply, err := asst.ProcessQuery(r.Context(), req.Query, req.CustomerID)
		if err != nil {
			// Upstream failure (embedding). The chat surface degrades to an
			// apology rather than a bare error payload.
			logger.Error("chat query failed", "err", err)
			writeJSON(w, http.StatusOK, ChatResponse{Response: render.Apology})
			return
		}
		writeJSON(w, http.StatusOK, ChatResponse{Response: reply})
	}
}

func handleProductSearch(cat *catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		products, err := cat.KeywordSearch(
			q.Get("q"),
			q.Get("category"),
			floatParam(q.Get("min_rating")),
			floatParam(q.Get("max_price")),
			intParam(q.Get("limit"), 10),
		)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"products": products, "count": len(products)})
	}
}

func handleTopRated(cat *catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		minRating := 4.0
		if v := floatParam(q.Get("min_rating")); v != nil {
			minRating = *v
		}
		products, err := cat.TopRated(minRating, q.Get("category"), intParam(q.Get("limit"), 10))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"products": products, "count": len(products)})
	}
}

func handleProductsByCategory(cat *catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		products, err := cat.ByCategory(r.PathValue("name"), intParam(q.Get("limit"), 10), floatParam(q.Get("min_rating")))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"products": products, "count": len(products)})
	}
}

func handleProductByID(cat *catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := cat.ByID(r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func handleRecommendations(cat *catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := cat.Recommendations(r.PathValue("id"), intParam(r.URL.Query().Get("limit"), 5))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"products": products, "count": len(products)})
	}
}

func handleCategories(cat *catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		cats := cat.Categories()
		writeJSON(w, http.StatusOK, map[string]any{"categories": cats, "count": len(cats)})
	}
}

func handleCustomerOrders(led *ledger.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(r.PathValue("id"))
		if err != nil || id <= 0 {
			writeError(w, domain.NewValidationError("customer_id", r.PathValue("id"), domain.ErrBadCustomerID))
			return
		}
		orders, err := led.CustomerOrders(id, intParam(r.URL.Query().Get("limit"), 0))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"orders": orders, "count": len(orders)})
	}
}

func handleOrders(led *ledger.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		from, to, err := domain.ParseDateRange(q.Get("start_date"), q.Get("end_date"))
		if err != nil {
			writeError(w, err)
			return
		}
		orders := led.Between(from, to)
		if limit := intParam(q.Get("limit"), 0); limit > 0 && len(orders) > limit {
			orders = orders[:limit]
		}
		writeJSON(w, http.StatusOK, map[string]any{"orders": orders, "count": len(orders)})
	}
}

func handleOrdersByPriority(led *ledger.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orders, err := led.ByPriority(r.PathValue("name"), intParam(r.URL.Query().Get("limit"), 10))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"orders": orders, "count": len(orders)})
	}
}

func handleOrderStats(led *ledger.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, led.Stats())
	}
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidInput):
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func floatParam(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func intParam(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return v
}
