// Package intent parses a raw user query into a structured retrieval intent
// using keyword and regex heuristics. The parser is deliberately simple:
// first matching rule wins, and failed numeric extractions silently fall back
// to defaults rather than erroring.
package intent

import "strings"

// Kind selects the retrieval strategy for a query.
type Kind int

const (
	// KindProductSearch is the default: semantic search over the catalog.
	KindProductSearch Kind = iota
	// KindCustomerOrders is an exact lookup of the caller's order history.
	KindCustomerOrders
	// KindHighPriorityOrders lists the most recent high-priority orders.
	KindHighPriorityOrders
)

func (k Kind) String() string {
	switch k {
	case KindProductSearch:
		return "product_search"
	case KindCustomerOrders:
		return "customer_orders"
	case KindHighPriorityOrders:
		return "high_priority_orders"
	default:
		return "unknown"
	}
}

// DefaultOrderLimit is used when no usable numeral appears in a
// high-priority-orders query.
const DefaultOrderLimit = 10

// Intent is the structured interpretation of one query string. It is built
// per request and consumed immediately; it is never persisted.
type Intent struct {
	Kind Kind

	// MinRating and MaxPrice apply to product search only, but are extracted
	// unconditionally from the text (cheap, and keeps the rule order simple).
	MinRating *float64
	MaxPrice  *float64

	// Limit applies to high-priority-orders only.
	Limit int
}

// orderKeywords route a query to the customer-orders lookup.
var orderKeywords = []string{"order", "orders", "purchase", "bought"}

// Parse classifies a lower-cased query string. Rules are checked in priority
// order; the first match decides the kind.
func Parse(lowered string) Intent {
	it := Intent{
		Kind:      KindProductSearch,
		MinRating: ExtractMinRating(lowered),
		MaxPrice:  ExtractMaxPrice(lowered),
		Limit:     DefaultOrderLimit,
	}

	if strings.Contains(lowered, "high priority") ||
		(strings.Contains(lowered, "recent") && strings.Contains(lowered, "priority")) {
		it.Kind = KindHighPriorityOrders
		if n, ok := ExtractLimit(lowered); ok {
			it.Limit = n
		}
		return it
	}

	for _, kw := range orderKeywords {
		if strings.Contains(lowered, kw) {
			it.Kind = KindCustomerOrders
			return it
		}
	}

	return it
}
