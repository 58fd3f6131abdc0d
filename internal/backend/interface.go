package backend

import (
	"context"

	"expensetracker/internal/storage"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// Result contains the repository and optional cleanup function
type Result struct {
	Repository storage.Repository
	Cleanup    CleanupFunc
}

// Factory creates repositories based on configuration
type Factory interface {
	CreateRepository(ctx context.Context, config Config) (*Result, error)
}

// Config holds configuration for repository creation
type Config struct {
	Type Type

	// File specific
	ExpensesFile string

	// SQLite specific
	SQLiteDBPath string

	// Google Sheets specific
	GoogleSpreadsheetID      string
	GoogleSheetName          string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string
}

// Type represents the kind of repository
type Type string

const (
	FileBackend   Type = "file"
	SQLiteBackend Type = "sqlite"
	SheetsBackend Type = "sheets"
)

func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is valid
func (t Type) IsValid() bool {
	switch t {
	case FileBackend, SQLiteBackend, SheetsBackend:
		return true
	default:
		return false
	}
}
