package ledger

import "github.com/CartWise/cartwise-mvp/engine/domain"

// Stats summarizes a set of orders.
type Stats struct {
	TotalOrders       int            `json:"total_orders"`
	TotalSales        float64        `json:"total_sales"`
	AverageOrderValue float64        `json:"average_order_value"`
	TotalShippingCost float64        `json:"total_shipping_cost"`
	ByPriority        map[string]int `json:"orders_by_priority"`
	ByCategory        map[string]int `json:"orders_by_category"`
}

// ComputeStats aggregates the given orders. An empty slice yields zeroed
// stats with empty maps.
func ComputeStats(orders []domain.Order) Stats {
	st := Stats{
		TotalOrders: len(orders),
		ByPriority:  make(map[string]int),
		ByCategory:  make(map[string]int),
	}
	for _, o := range orders {
		st.TotalSales += o.Sales
		st.TotalShippingCost += o.ShippingCost
		st.ByPriority[o.Priority]++
		st.ByCategory[o.Category]++
	}
	if len(orders) > 0 {
		st.AverageOrderValue = st.TotalSales / float64(len(orders))
	}
	return st
}

// Stats aggregates the whole ledger.
func (s *Store) Stats() Stats {
	return ComputeStats(s.orders)
}
