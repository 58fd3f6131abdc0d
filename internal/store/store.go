// Package store holds the working set of expenses for a session.
package store

import (
	"sync"

	"github.com/shopspring/decimal"

	"expensetracker/internal/core"
)

// Store is an ordered, mutable sequence of expenses in insertion order.
type Store struct {
	mu    sync.Mutex
	items []core.Expense
}

func New(items ...core.Expense) *Store {
	s := &Store{}
	s.items = append(s.items, items...)
	return s
}

// Add appends e. Duplicates are allowed.
func (s *Store) Add(e core.Expense) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, e)
}

// Clear removes every record.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
}

// Replace swaps the whole sequence for items in one step.
func (s *Store) Replace(items []core.Expense) {
	cp := append([]core.Expense(nil), items...)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = cp
}

// All returns a copy of the records in insertion order.
func (s *Store) All() []core.Expense {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Expense(nil), s.items...)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Total sums the amounts of the records selected by f. An empty store or a
// filter matching nothing yields zero.
func (s *Store) Total(f core.Filter) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.Sum(s.items, f)
}

// Summary returns the total of f split by category.
func (s *Store) Summary(f core.Filter) core.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.Summarize(s.items, f)
}
