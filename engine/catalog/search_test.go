package catalog

import (
	"testing"

	"github.com/CartWise/cartwise-mvp/engine/domain"
)

func TestSearch_TopFiveByScore(t *testing.T) {
	products := make([]domain.Product, 7)
	matrix := make([][]float32, 7)
	for i := range products {
		products[i] = domain.Product{ID: string(rune('a' + i)), Title: "p", Price: 10, Rating: 4}
		matrix[i] = []float32{float32(i)}
	}
	s, err := New(products, matrix)
	if err != nil {
		t.Fatal(err)
	}

	got := s.Search([]float32{1}, nil, nil)
	if len(got) != 5 {
		t.Fatalf("got %d results, want 5", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Score > got[i-1].Score {
			t.Fatalf("results not sorted by score: %v then %v", got[i-1].Score, got[i].Score)
		}
	}
	if got[0].ID != "g" {
		t.Errorf("best match = %s, want g", got[0].ID)
	}
}

func TestSearch_Filters(t *testing.T) {
	products := []domain.Product{
		{ID: "cheap", Price: 10, Rating: 3.0},
		{ID: "good", Price: 60, Rating: 4.5},
		{ID: "both", Price: 40, Rating: 4.8},
	}
	matrix := [][]float32{{1}, {2}, {3}}
	s, err := New(products, matrix)
	if err != nil {
		t.Fatal(err)
	}

	minRating, maxPrice := 4.0, 50.0
	got := s.Search([]float32{1}, &minRating, &maxPrice)
	if len(got) != 1 || got[0].ID != "both" {
		t.Fatalf("got %v, want only 'both'", got)
	}
}

func TestSearch_EmptyAfterFilter(t *testing.T) {
	products := []domain.Product{{ID: "1", Price: 100, Rating: 2}}
	s, err := New(products, [][]float32{{1}})
	if err != nil {
		t.Fatal(err)
	}

	minRating := 4.5
	if got := s.Search([]float32{1}, &minRating, nil); len(got) != 0 {
		t.Errorf("got %v, want empty", got)
	}
}

func TestDot_LengthMismatch(t *testing.T) {
	if got := dot([]float32{1, 2, 3}, []float32{2}); got != 2 {
		t.Errorf("dot = %v, want 2", got)
	}
}
