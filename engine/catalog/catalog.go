// Package catalog holds the in-memory product table together with its
// row-aligned embedding matrix, and implements every product retrieval
// operation: semantic search, keyword search, category and rating lookups,
// id resolution, and recommendations.
//
// A Store is immutable after construction and safe for concurrent readers.
package catalog

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/CartWise/cartwise-mvp/engine/domain"
)

// Store is the catalog: products plus one embedding vector per product.
// Row i of the matrix always corresponds to products[i].
type Store struct {
	products   []domain.Product
	embeddings [][]float32
}

// New builds a Store. The embedding matrix must have exactly one row per
// product; a mismatch means the two were produced from different loads and
// every similarity score would be attached to the wrong product.
func New(products []domain.Product, embeddings [][]float32) (*Store, error) {
	if len(products) != len(embeddings) {
		return nil, fmt.Errorf("catalog: %d products but %d embedding rows", len(products), len(embeddings))
	}
	return &Store{products: products, embeddings: embeddings}, nil
}

// Len returns the number of products.
func (s *Store) Len() int { return len(s.products) }

// Products returns the product table. Callers must not mutate it.
func (s *Store) Products() []domain.Product { return s.products }

// ByID resolves a product id. Match order: string equality on the primary
// id, then numeric equality if the id parses as an integer, then string
// equality on the raw source id. First success wins.
func (s *Store) ByID(id string) (domain.Product, error) {
	for _, p := range s.products {
		if p.ID == id {
			return p, nil
		}
	}

	if n, err := strconv.Atoi(id); err == nil {
		for _, p := range s.products {
			if pn, err := strconv.Atoi(p.ID); err == nil && pn == n {
				return p, nil
			}
		}
	}

	for _, p := range s.products {
		if p.RawID != "" && p.RawID == id {
			return p, nil
		}
	}

	return domain.Product{}, fmt.Errorf("catalog: product %q: %w", id, domain.ErrNotFound)
}

// KeywordSearch filters products by a case-insensitive substring match
// across title, description, and category, applies the optional filters,
// and returns up to limit results sorted by rating descending.
func (s *Store) KeywordSearch(query, category string, minRating, maxPrice *float64, limit int) ([]domain.Product, error) {
	if err := domain.ValidateQueryText(query); err != nil {
		return nil, err
	}

	q := strings.ToLower(query)
	var out []domain.Product
	for _, p := range s.products {
		if !strings.Contains(strings.ToLower(p.Title), q) &&
			!strings.Contains(strings.ToLower(p.Description), q) &&
			!strings.Contains(strings.ToLower(p.Category), q) {
			continue
		}
		if category != "" && !strings.Contains(strings.ToLower(p.Category), strings.ToLower(category)) {
			continue
		}
		if minRating != nil && p.Rating < *minRating {
			continue
		}
		if maxPrice != nil && p.Price > *maxPrice {
			continue
		}
		out = append(out, p)
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("catalog: search %q: %w", query, domain.ErrNotFound)
	}
	sortByRating(out)
	return truncate(out, limit), nil
}

// ByCategory returns products whose category contains name
// (case-insensitive), sorted by rating descending.
func (s *Store) ByCategory(name string, limit int, minRating *float64) ([]domain.Product, error) {
	lower := strings.ToLower(name)
	var out []domain.Product
	for _, p := range s.products {
		if !strings.Contains(strings.ToLower(p.Category), lower) {
			continue
		}
		if minRating != nil && p.Rating < *minRating {
			continue
		}
		out = append(out, p)
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("catalog: category %q: %w", name, domain.ErrNotFound)
	}
	sortByRating(out)
	return truncate(out, limit), nil
}

// TopRated returns products rated at or above minRating, optionally within
// a category, sorted by rating descending.
func (s *Store) TopRated(minRating float64, category string, limit int) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range s.products {
		if p.Rating < minRating {
			continue
		}
		if category != "" && !strings.Contains(strings.ToLower(p.Category), strings.ToLower(category)) {
			continue
		}
		out = append(out, p)
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("catalog: top rated: %w", domain.ErrNotFound)
	}
	sortByRating(out)
	return truncate(out, limit), nil
}

// Recommendations returns other products in the same category as the given
// product, excluding the product itself, sorted by rating descending.
func (s *Store) Recommendations(id string, limit int) ([]domain.Product, error) {
	target, err := s.ByID(id)
	if err != nil {
		return nil, err
	}

	var out []domain.Product
	for _, p := range s.products {
		if p.Category != target.Category || p.ID == target.ID {
			continue
		}
		out = append(out, p)
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("catalog: recommendations for %q: %w", id, domain.ErrNotFound)
	}
	sortByRating(out)
	return truncate(out, limit), nil
}

// Categories returns the sorted set of non-empty category names.
func (s *Store) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range s.products {
		if p.Category == "" || seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		out = append(out, p.Category)
	}
	sort.Strings(out)
	return out
}

func sortByRating(ps []domain.Product) {
	sort.SliceStable(ps, func(i, j int) bool { return ps[i].Rating > ps[j].Rating })
}

func truncate(ps []domain.Product, limit int) []domain.Product {
	if limit > 0 && len(ps) > limit {
		return ps[:limit]
	}
	return ps
}
