package catalog

import (
	"errors"
	"testing"

	"github.com/CartWise/cartwise-mvp/engine/domain"
)

func testProducts() []domain.Product {
	return []domain.Product{
		{ID: "1", Title: "Acoustic Guitar", Description: "Full size spruce top", Category: "Musical Instruments", Price: 120, Rating: 4.5},
		{ID: "2", Title: "Electric Guitar", Description: "Solid body, maple neck", Category: "Musical Instruments", Price: 350, Rating: 4.8},
		{ID: "3", Title: "Guitar Strings", Description: "Phosphor bronze, light gauge", Category: "Musical Instruments", Price: 9.99, Rating: 4.2},
		{ID: "4", Title: "Espresso Machine", Description: "15 bar pump", Category: "Kitchen", Price: 199, Rating: 3.9},
		{ID: "5", Title: "French Press", Description: "Borosilicate glass", Category: "Kitchen", Price: 25, Rating: 4.6, RawID: "B00FRENCH"},
		{ID: "6", Title: "Desk Lamp", Description: "LED, adjustable arm", Category: "Home", Price: 35, Rating: 4.0},
	}
}

func testMatrix(n int) [][]float32 {
	m := make([][]float32, n)
	for i := range m {
		m[i] = []float32{float32(i), 1}
	}
	return m
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	ps := testProducts()
	s, err := New(ps, testMatrix(len(ps)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestNew_RowMismatch(t *testing.T) {
	_, err := New(testProducts(), testMatrix(2))
	if err == nil {
		t.Fatal("expected error for mismatched matrix")
	}
}

func TestByID(t *testing.T) {
	s := newTestStore(t)

	p, err := s.ByID("2")
	if err != nil {
		t.Fatalf("ByID: %v", err)
	}
	if p.Title != "Electric Guitar" {
		t.Errorf("got %q", p.Title)
	}

	// Numeric equality: "02" parses to the same integer as "2".
	p, err = s.ByID("02")
	if err != nil {
		t.Fatalf("ByID numeric: %v", err)
	}
	if p.ID != "2" {
		t.Errorf("numeric match got id %s", p.ID)
	}

	// Raw source id fallback.
	p, err = s.ByID("B00FRENCH")
	if err != nil {
		t.Fatalf("ByID raw: %v", err)
	}
	if p.ID != "5" {
		t.Errorf("raw match got id %s", p.ID)
	}

	_, err = s.ByID("nope")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestKeywordSearch(t *testing.T) {
	s := newTestStore(t)

	got, err := s.KeywordSearch("guitar", "", nil, nil, 10)
	if err != nil {
		t.Fatalf("KeywordSearch: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d products, want 3", len(got))
	}
	// Sorted by rating descending.
	if got[0].ID != "2" || got[1].ID != "1" || got[2].ID != "3" {
		t.Errorf("order = %s,%s,%s", got[0].ID, got[1].ID, got[2].ID)
	}

	maxPrice := 100.0
	got, err = s.KeywordSearch("guitar", "", nil, &maxPrice, 10)
	if err != nil {
		t.Fatalf("KeywordSearch filtered: %v", err)
	}
	if len(got) != 1 || got[0].ID != "3" {
		t.Errorf("price filter got %v", got)
	}

	_, err = s.KeywordSearch("zzzz", "", nil, nil, 10)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	_, err = s.KeywordSearch("x", "", nil, nil, 10)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for short query, got %v", err)
	}
}

func TestByCategory(t *testing.T) {
	s := newTestStore(t)

	got, err := s.ByCategory("kitchen", 10, nil)
	if err != nil {
		t.Fatalf("ByCategory: %v", err)
	}
	if len(got) != 2 || got[0].ID != "5" {
		t.Errorf("got %v", got)
	}

	minRating := 4.0
	got, err = s.ByCategory("kitchen", 10, &minRating)
	if err != nil {
		t.Fatalf("ByCategory filtered: %v", err)
	}
	if len(got) != 1 || got[0].ID != "5" {
		t.Errorf("rating filter got %v", got)
	}
}

func TestTopRated(t *testing.T) {
	s := newTestStore(t)

	got, err := s.TopRated(4.5, "", 10)
	if err != nil {
		t.Fatalf("TopRated: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d, want 3", len(got))
	}
	if got[0].ID != "2" {
		t.Errorf("first = %s, want 2", got[0].ID)
	}

	got, err = s.TopRated(4.0, "", 2)
	if err != nil {
		t.Fatalf("TopRated limited: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("limit ignored, got %d", len(got))
	}
}

func TestRecommendations(t *testing.T) {
	s := newTestStore(t)

	got, err := s.Recommendations("1", 10)
	if err != nil {
		t.Fatalf("Recommendations: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d, want 2", len(got))
	}
	for _, p := range got {
		if p.ID == "1" {
			t.Error("recommendations include the product itself")
		}
		if p.Category != "Musical Instruments" {
			t.Errorf("unexpected category %s", p.Category)
		}
	}

	_, err = s.Recommendations("6", 10)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound for lone category, got %v", err)
	}
}

func TestCategories(t *testing.T) {
	s := newTestStore(t)
	got := s.Categories()
	want := []string{"Home", "Kitchen", "Musical Instruments"}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("categories[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}
