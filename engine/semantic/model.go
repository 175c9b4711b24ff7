package semantic

// Hit is one similarity-search result from the mirror.
type Hit struct {
	ProductID string  `json:"product_id"`
	Title     string  `json:"title"`
	Category  string  `json:"category"`
	Price     float64 `json:"price"`
	Rating    float64 `json:"rating"`
	Score     float32 `json:"score"`
}
