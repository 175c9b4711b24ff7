// Package domain defines core domain types, sentinel errors, and validation
// for the CartWise engine. It acts as the validation gate at ingestion and
// request entry points.
package domain

import "time"

// Product is a catalog entry in the canonical in-memory schema.
type Product struct {
	// ID is the primary identifier. It may be an ASIN-style string
	// ("B09RCVDQ8M") or the decimal rendering of a numeric id; both are
	// valid equality keys.
	ID          string   `json:"product_id"`
	Title       string   `json:"product_title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Price       float64  `json:"price"`
	Rating      float64  `json:"rating"`
	RatingCount int      `json:"rating_count"`
	Store       string   `json:"store"`
	Features    []string `json:"feature_list,omitempty"`

	// RawID preserves the source id field (parent_asin) when the catalog
	// was loaded from the raw schema. Empty for processed data.
	RawID string `json:"-"`
}

// CombinedText is the text that gets embedded for semantic search.
func (p Product) CombinedText() string {
	return p.Title + " " + p.Description
}

// Order is a single row of the order ledger in the canonical schema.
type Order struct {
	ID           int       `json:"order_id"`
	CustomerID   int       `json:"customer_id"`
	PlacedAt     time.Time `json:"order_datetime"`
	Product      string    `json:"product"`
	Category     string    `json:"product_category"`
	Quantity     int       `json:"quantity"`
	Sales        float64   `json:"sales"`
	Discount     float64   `json:"discount"`
	Profit       float64   `json:"profit"`
	ShippingCost float64   `json:"shipping_cost"`
	Priority     string    `json:"order_priority"`
	Payment      string    `json:"payment_method"`
	LoginType    string    `json:"customer_login_type"`
	Gender       string    `json:"gender"`
	DeviceType   string    `json:"device_type"`

	// Derived at ingestion.
	TotalAmount float64 `json:"total_amount"`
	NetProfit   float64 `json:"net_profit"`
}
