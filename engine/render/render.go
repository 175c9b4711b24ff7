// Package render converts retrieval results into user-facing HTML fragments.
// Every interpolated text field is entity-escaped; layout and wording are
// stable because the frontend styles the emitted class names directly.
package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/CartWise/cartwise-mvp/engine/domain"
)

const timestampLayout = "2006-01-02 15:04:05"

// CustomerIDPrompt is returned verbatim when an order query arrives without
// a customer id. The ledger is never consulted on that path.
const CustomerIDPrompt = "<p>Could you please provide your Customer ID?</p>"

// Apology is the generic failure message for mid-query upstream errors.
const Apology = "<p>Sorry, something went wrong while processing your request. Please try again.</p>"

// Escape entity-escapes the five HTML-significant characters, ampersand
// first.
func Escape(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, `"`, "&quot;")
	s = strings.ReplaceAll(s, "'", "&#39;")
	return s
}

// SingleOrder renders one order as a short paragraph pair.
func SingleOrder(o domain.Order) string {
	return fmt.Sprintf(
		"<p>Your order was placed on <strong>%s</strong> for <strong>%s</strong>.</p>"+
			"<p>Total amount: <strong>$%.2f</strong><br/>"+
			"Shipping cost: <strong>$%.2f</strong><br/>"+
			"Priority: <strong>%s</strong></p>",
		o.PlacedAt.Format(timestampLayout), Escape(o.Product), o.Sales, o.ShippingCost, Escape(o.Priority))
}

// NoOrdersForCustomer renders the empty customer-lookup message.
func NoOrdersForCustomer(customerID int) string {
	return fmt.Sprintf("<p>No orders found for customer <strong>%d</strong></p>", customerID)
}

// HighPriorityOrders renders the high-priority list with a count header.
func HighPriorityOrders(orders []domain.Order) string {
	if len(orders) == 0 {
		return "<p>No high priority orders found.</p>"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<p><strong>Here are the %d most recent high-priority orders:</strong></p><ul>", len(orders))
	for _, o := range orders {
		fmt.Fprintf(&b,
			"<li>On <strong>%s</strong>, <strong>%s</strong> was ordered for <strong>$%.2f</strong> "+
				"with a shipping cost of <strong>$%.2f</strong>. (Customer ID: %d)</li>",
			o.PlacedAt.Format(timestampLayout), Escape(o.Product), o.Sales, o.ShippingCost, o.CustomerID)
	}
	b.WriteString("</ul>")
	return b.String()
}

// ProductList renders numbered product blocks with an invitational closing
// sentence appended once at the end.
func ProductList(products []domain.Product) string {
	if len(products) == 0 {
		return "<p>No products found matching your criteria.</p>"
	}

	var b strings.Builder
	b.WriteString("<p><strong>Here are some products that might interest you:</strong></p>")
	for i, p := range products {
		desc, truncated := normalizeDescription(p.Description)

		b.WriteString(`<div class="product-item">`)
		fmt.Fprintf(&b, `<div class="product-title">%d. %s</div>`, i+1, Escape(p.Title))
		b.WriteString(`<div class="product-details">`)
		fmt.Fprintf(&b, `<div class="product-detail"><span class="icon">⭐</span> Rating: <strong>%.1f stars</strong></div>`, p.Rating)
		fmt.Fprintf(&b, `<div class="product-detail"><span class="icon">💰</span> Price: <strong>$%.2f</strong></div>`, p.Price)
		if desc != "" {
			display := Escape(desc)
			if truncated {
				display += "..."
			}
			fmt.Fprintf(&b, `<div class="product-detail description-text"><span class="icon">📝</span> %s</div>`, display)
		}
		b.WriteString("</div>")
		b.WriteString("</div>")
	}
	b.WriteString("<p><em>Let me know if you'd like more details!</em></p>")
	return b.String()
}

// NoProducts renders the empty-search message, naming whichever filters
// were active so the user knows what to loosen.
func NoProducts(minRating, maxPrice *float64) string {
	var filters []string
	if minRating != nil {
		filters = append(filters, "rating above "+formatFloat(*minRating))
	}
	if maxPrice != nil {
		filters = append(filters, fmt.Sprintf("price under $%.2f", *maxPrice))
	}

	if len(filters) > 0 {
		return fmt.Sprintf(
			"<p>No products found matching your criteria (<strong>%s</strong>). Try adjusting your filters.</p>",
			strings.Join(filters, ", "))
	}
	return "<p>No products found matching your search. Try different keywords.</p>"
}

// formatFloat prints whole numbers with a trailing .0 (matching the way the
// rating filter echoes back, e.g. "rating above 4.0").
func formatFloat(v float64) string {
	if v == math.Trunc(v) && !math.IsInf(v, 0) {
		return fmt.Sprintf("%.1f", v)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
