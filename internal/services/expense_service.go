package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"expensetracker/internal/amqp"
	"expensetracker/internal/cache"
	"expensetracker/internal/core"
	applog "expensetracker/internal/log"
	"expensetracker/internal/storage"
	"expensetracker/internal/store"
)

const defaultTotalsCacheSize = 64

// Notifier is told about every successful save.
type Notifier interface {
	PublishSaved(ctx context.Context, msg *amqp.SavedMessage) error
}

// ExpenseService is the application context: it owns the session's store and
// the repository it is saved to and loaded from.
type ExpenseService struct {
	mu       sync.Mutex
	store    *store.Store
	repo     storage.Repository
	backend  string
	notifier Notifier
	totals   cache.Cache[decimal.Decimal]
	logger   *applog.Logger
}

type Option func(*ExpenseService)

func WithNotifier(n Notifier) Option {
	return func(s *ExpenseService) { s.notifier = n }
}

// WithBackendName labels save notifications and logs.
func WithBackendName(name string) Option {
	return func(s *ExpenseService) { s.backend = name }
}

func WithTotalsCacheSize(size int) Option {
	return func(s *ExpenseService) { s.totals = cache.NewLRUCache[decimal.Decimal](size, 0) }
}

func WithLogger(l *applog.Logger) Option {
	return func(s *ExpenseService) { s.logger = l.WithComponent(applog.ComponentExpense) }
}

func NewExpenseService(st *store.Store, repo storage.Repository, opts ...Option) *ExpenseService {
	if st == nil {
		st = store.New()
	}
	s := &ExpenseService{
		store:   st,
		repo:    repo,
		backend: "file",
		totals:  cache.NewLRUCache[decimal.Decimal](defaultTotalsCacheSize, 0),
		logger:  applog.FromContext(context.Background()).WithComponent(applog.ComponentExpense),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add validates e and appends it to the session.
func (s *ExpenseService) Add(ctx context.Context, e core.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.store.Add(e)
	s.totals.Purge()
	s.mu.Unlock()

	s.logger.DebugContext(ctx, "Expense added", applog.NewFields().
		WithExpense(e.Description, e.Amount.String(), e.Category, e.Date.String()).
		WithOperation(applog.OpAdd).ToSlice()...)
	return nil
}

// Expenses returns the session's records in insertion order.
func (s *ExpenseService) Expenses() []core.Expense {
	return s.store.All()
}

// Total returns the unrounded sum selected by f.
func (s *ExpenseService) Total(f core.Filter) decimal.Decimal {
	key := f.Key()
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.totals.Get(key); ok {
		return v
	}
	v := s.store.Total(f)
	s.totals.Set(key, v)
	return v
}

func (s *ExpenseService) Summary(f core.Filter) core.Summary {
	return s.store.Summary(f)
}

// Categories lists the categories offered to users, followed by any other
// category present in the session.
func (s *ExpenseService) Categories() []string {
	out := append([]string(nil), core.Categories...)
	seen := map[string]bool{}
	for _, c := range out {
		seen[c] = true
	}
	for _, e := range s.store.All() {
		if !seen[e.Category] {
			seen[e.Category] = true
			out = append(out, e.Category)
		}
	}
	return out
}

// Save persists the session. The store is never modified.
func (s *ExpenseService) Save(ctx context.Context) error {
	s.mu.Lock()
	items := s.store.All()
	err := s.repo.SaveAll(ctx, items)
	s.mu.Unlock()

	if err != nil {
		s.logger.ErrorContext(ctx, "Save failed", applog.NewFields().
			WithOperation(applog.OpSave).WithError(err).ToSlice()...)
		return fmt.Errorf("save expenses: %w", err)
	}
	s.logger.InfoContext(ctx, "Expenses saved",
		applog.FieldBackend, s.backend, applog.FieldCount, len(items))

	s.notify(ctx, items)
	return nil
}

func (s *ExpenseService) notify(ctx context.Context, items []core.Expense) {
	if s.notifier == nil {
		return
	}
	msg := amqp.NewSavedMessage(s.backend, len(items), core.Sum(items, core.Filter{}))
	if err := s.notifier.PublishSaved(ctx, msg); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish save notification", applog.NewFields().
			WithOperation(applog.OpNotify).WithError(err).ToSlice()...)
	}
}

// Load replaces the session with the persisted list and returns its length.
// On any error the session keeps its previous records.
func (s *ExpenseService) Load(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.repo.LoadAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Load failed", applog.NewFields().
			WithOperation(applog.OpLoad).WithError(err).ToSlice()...)
		return 0, fmt.Errorf("load expenses: %w", err)
	}
	s.store.Replace(items)
	s.totals.Purge()

	s.logger.InfoContext(ctx, "Expenses loaded",
		applog.FieldBackend, s.backend, applog.FieldCount, len(items))
	return len(items), nil
}

// Close releases the repository and notifier when they hold resources.
func (s *ExpenseService) Close() error {
	var errs []error
	if c, ok := s.repo.(interface{ Close() error }); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("repository: %w", err))
		}
	}
	if c, ok := s.notifier.(interface{ Close() error }); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("notifier: %w", err))
		}
	}
	return errors.Join(errs...)
}
