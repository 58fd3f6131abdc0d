// Package google stores the expense list in a Google Sheets tab, one row per
// expense with a header row: Description, Amount, Category, Date.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"expensetracker/internal/core"
	"expensetracker/internal/storage"
)

// DefaultSheetName is used when Config.SheetName is empty.
const DefaultSheetName = "Expenses"

var header = []any{"Description", "Amount", "Category", "Date"}

type Config struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsJSON string // inline service account JSON
	CredentialsFile string // path to service account JSON
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

var _ storage.Repository = (*Client)(nil)

// New creates a Sheets client authenticated with a service account.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet ID")
	}
	credentialsJSON, err := loadCredentials(cfg)
	if err != nil {
		return nil, err
	}
	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	slog.InfoContext(ctx, "Google Sheets service created", "sheet", cfg.SheetName)
	return NewWithService(svc, cfg.SpreadsheetID, cfg.SheetName), nil
}

// NewWithService wraps an existing service, e.g. one pointed at a test server.
func NewWithService(svc *gsheet.Service, spreadsheetID, sheetName string) *Client {
	if sheetName == "" {
		sheetName = DefaultSheetName
	}
	return &Client{svc: svc, spreadsheetID: spreadsheetID, sheetName: sheetName}
}

func loadCredentials(cfg Config) ([]byte, error) {
	switch {
	case strings.TrimSpace(cfg.CredentialsJSON) != "":
		return []byte(cfg.CredentialsJSON), nil
	case strings.TrimSpace(cfg.CredentialsFile) != "":
		b, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return b, nil
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE)")
	}
}

// SaveAll writes the header and one row per expense starting at A1, then
// clears whatever rows the previous save left below them. Rows are written
// RAW so amounts and dates keep their exact text.
func (c *Client) SaveAll(ctx context.Context, items []core.Expense) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}
	values := make([][]any, 0, len(items)+1)
	values = append(values, header)
	for _, e := range items {
		values = append(values, []any{e.Description, e.Amount.String(), e.Category, e.Date.String()})
	}

	rng := fmt.Sprintf("%s!A1:D%d", c.sheetName, len(values))
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, &gsheet.ValueRange{Values: values}).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return &storage.IOError{Op: "update", Path: rng, Err: err}
	}

	rest := fmt.Sprintf("%s!A%d:D", c.sheetName, len(values)+1)
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, rest, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return &storage.IOError{Op: "clear", Path: rest, Err: err}
	}

	slog.InfoContext(ctx, "Expenses saved to Google Sheets", "sheet", c.sheetName, "count", len(items))
	return nil
}

// LoadAll reads every row below the header.
func (c *Client) LoadAll(ctx context.Context) ([]core.Expense, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	rng := fmt.Sprintf("%s!A:D", c.sheetName)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, &storage.IOError{Op: "read", Path: rng, Err: err}
	}
	return parseRows(resp.Values)
}
