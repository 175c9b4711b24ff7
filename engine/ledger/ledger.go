// Package ledger holds the in-memory order table, kept sorted by order
// timestamp descending, and implements customer, priority, and date-range
// lookups. A Store is immutable after construction and safe for concurrent
// readers.
package ledger

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/CartWise/cartwise-mvp/engine/domain"
)

// Store is the order ledger.
type Store struct {
	orders []domain.Order // sorted by PlacedAt descending
}

// New builds a Store, sorting the orders newest-first once.
func New(orders []domain.Order) *Store {
	sorted := make([]domain.Order, len(orders))
	copy(sorted, orders)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PlacedAt.After(sorted[j].PlacedAt)
	})
	return &Store{orders: sorted}
}

// Len returns the number of orders.
func (s *Store) Len() int { return len(s.orders) }

// Orders returns all orders, newest first. Callers must not mutate.
func (s *Store) Orders() []domain.Order { return s.orders }

// CustomerOrders returns a customer's orders, newest first, up to limit
// (limit <= 0 means all). ErrNotFound when the customer has no orders.
func (s *Store) CustomerOrders(customerID, limit int) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range s.orders {
		if o.CustomerID == customerID {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("ledger: customer %d: %w", customerID, domain.ErrNotFound)
	}
	return limitOrders(out, limit), nil
}

// ByPriority returns orders whose priority matches name case-insensitively,
// newest first, up to limit. ErrNotFound when nothing matches.
func (s *Store) ByPriority(name string, limit int) ([]domain.Order, error) {
	out := s.priorityScan(name, limit)
	if len(out) == 0 {
		return nil, fmt.Errorf("ledger: priority %q: %w", name, domain.ErrNotFound)
	}
	return out, nil
}

// HighPriority returns the most recent high-priority orders up to limit.
// An empty result is not an error on this path: the chat renderer has a
// dedicated message for it.
func (s *Store) HighPriority(limit int) []domain.Order {
	return s.priorityScan("high", limit)
}

// Between returns orders placed within the optional [from, to] bounds,
// newest first.
func (s *Store) Between(from, to *time.Time) []domain.Order {
	var out []domain.Order
	for _, o := range s.orders {
		if from != nil && o.PlacedAt.Before(*from) {
			continue
		}
		if to != nil && o.PlacedAt.After(*to) {
			continue
		}
		out = append(out, o)
	}
	return out
}

func (s *Store) priorityScan(name string, limit int) []domain.Order {
	lower := strings.ToLower(name)
	var out []domain.Order
	for _, o := range s.orders {
		if strings.ToLower(o.Priority) == lower {
			out = append(out, o)
			if limit > 0 && len(out) == limit {
				break
			}
		}
	}
	return out
}

func limitOrders(os []domain.Order, limit int) []domain.Order {
	if limit > 0 && len(os) > limit {
		return os[:limit]
	}
	return os
}
