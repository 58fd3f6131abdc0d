package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"expensetracker/internal/codec"
	"expensetracker/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository keeps the expense list in a single SQLite table, one row
// per record, ordered by position.
type SQLiteRepository struct {
	db   *sql.DB
	path string
}

var _ Repository = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, &IOError{Op: "mkdir", Path: dbPath, Err: err}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One writer; SaveAll is a single transaction.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, &IOError{Op: "ping", Path: dbPath, Err: err}
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, path: dbPath}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// SaveAll replaces every row with items inside one transaction.
func (r *SQLiteRepository) SaveAll(ctx context.Context, items []core.Expense) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return &IOError{Op: "begin", Path: r.path, Err: err}
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM expenses`); err != nil {
		return &IOError{Op: "delete", Path: r.path, Err: err}
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO expenses (position, description, amount, category, date) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return &IOError{Op: "prepare", Path: r.path, Err: err}
	}
	defer stmt.Close()

	for i, e := range items {
		if _, err := stmt.ExecContext(ctx, i+1, e.Description, e.Amount.String(), e.Category, e.Date.String()); err != nil {
			return &IOError{Op: "insert", Path: r.path, Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return &IOError{Op: "commit", Path: r.path, Err: err}
	}

	slog.InfoContext(ctx, "Expenses saved to SQLite", "path", r.path, "count", len(items))
	return nil
}

// LoadAll returns every row ordered by position.
func (r *SQLiteRepository) LoadAll(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT position, description, amount, category, date FROM expenses ORDER BY position`)
	if err != nil {
		return nil, &IOError{Op: "query", Path: r.path, Err: err}
	}
	defer rows.Close()

	items := []core.Expense{}
	for rows.Next() {
		var (
			pos                                int
			desc, amountStr, category, dateStr string
		)
		if err := rows.Scan(&pos, &desc, &amountStr, &category, &dateStr); err != nil {
			return nil, &IOError{Op: "scan", Path: r.path, Err: err}
		}
		amount, err := codec.ParseAmount(amountStr)
		if err != nil {
			return nil, codec.AtLine(err, pos)
		}
		date, err := codec.ParseDate(dateStr)
		if err != nil {
			return nil, codec.AtLine(err, pos)
		}
		items = append(items, core.Expense{Description: desc, Amount: amount, Category: category, Date: date})
	}
	if err := rows.Err(); err != nil {
		return nil, &IOError{Op: "read", Path: r.path, Err: err}
	}
	return items, nil
}
