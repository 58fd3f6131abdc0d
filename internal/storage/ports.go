package storage

import (
	"context"

	"expensetracker/internal/core"
)

// Repository persists the whole expense list at once.
type Repository interface {
	// SaveAll replaces the persisted list with items, in order.
	SaveAll(ctx context.Context, items []core.Expense) error
	// LoadAll returns the persisted list in order.
	LoadAll(ctx context.Context) ([]core.Expense, error)
}
