package catalog

import (
	"sort"

	"github.com/CartWise/cartwise-mvp/engine/domain"
)

// topK is the fixed truncation for semantic search. Product search never
// honors a caller-supplied limit.
const topK = 5

// Scored pairs a product with its similarity score for one query.
type Scored struct {
	domain.Product
	Score float32 `json:"similarity"`
}

// Search scores every product against the query vector by plain dot
// product, applies the optional rating/price filters, and returns the top 5
// by score. Vectors are assumed pre-normalized by the embedding provider,
// so the dot product stands in for cosine similarity; re-normalizing here
// would perturb the reference ranking.
func (s *Store) Search(query []float32, minRating, maxPrice *float64) []Scored {
	var out []Scored
	for i, p := range s.products {
		if minRating != nil && p.Rating < *minRating {
			continue
		}
		if maxPrice != nil && p.Price > *maxPrice {
			continue
		}
		out = append(out, Scored{Product: p, Score: dot(s.embeddings[i], query)})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > topK {
		out = out[:topK]
	}
	return out
}

func dot(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float32
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
