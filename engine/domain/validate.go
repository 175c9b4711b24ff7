package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

const minQueryLength = 2

// dateLayout is the wire format for date-range parameters.
const dateLayout = "2006-01-02"

// ValidProduct reports whether a product satisfies the retention invariant:
// positive price and rating within [0,5]. Rows failing this are dropped at
// ingestion, never at query time.
func ValidProduct(p Product) bool {
	return p.Price > 0 && p.Rating >= 0 && p.Rating <= 5
}

// ValidOrder reports whether an order satisfies the retention invariant:
// positive sales with a shipping cost present.
func ValidOrder(o Order) bool {
	return o.Sales > 0 && o.ShippingCost >= 0
}

// ValidateQueryText checks the minimum length of a search query.
func ValidateQueryText(text string) error {
	if utf8.RuneCountInString(strings.TrimSpace(text)) < minQueryLength {
		return NewValidationError("query", text, ErrQueryTooShort)
	}
	return nil
}

// ParseDateRange parses optional YYYY-MM-DD bounds. Empty strings yield nil
// bounds. A start later than the end is invalid input.
func ParseDateRange(start, end string) (*time.Time, *time.Time, error) {
	var from, to *time.Time

	if start != "" {
		t, err := time.Parse(dateLayout, start)
		if err != nil {
			return nil, nil, NewValidationError("start_date", start, ErrInvalidInput)
		}
		from = &t
	}
	if end != "" {
		t, err := time.Parse(dateLayout, end)
		if err != nil {
			return nil, nil, NewValidationError("end_date", end, ErrInvalidInput)
		}
		to = &t
	}
	if from != nil && to != nil && from.After(*to) {
		return nil, nil, NewValidationError("start_date", start, ErrBadDateRange)
	}
	return from, to, nil
}
