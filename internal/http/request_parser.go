// Package http provides HTTP server and handler implementations.
//
// This file implements utilities for parsing and validating HTTP request data.

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"expensetracker/internal/core"
)

const maxBodyBytes = 1 << 20

// errBadRequest marks bodies and queries that cannot be read at all.
var errBadRequest = errors.New("bad request")

// ExpenseRequest is the body of POST /expenses. Amount accepts a JSON number
// or a string so that "4.50" and 4.50 both work.
type ExpenseRequest struct {
	Description string      `json:"description"`
	Amount      json.Number `json:"amount"`
	Category    string      `json:"category"`
	Date        string      `json:"date"`
}

// parseExpenseRequest reads a JSON or form-encoded expense body.
func parseExpenseRequest(w http.ResponseWriter, r *http.Request) (ExpenseRequest, error) {
	var req ExpenseRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" {
		if err := r.ParseForm(); err != nil {
			return req, fmt.Errorf("%w: %v", errBadRequest, err)
		}
		req.Description = r.PostForm.Get("description")
		req.Amount = json.Number(strings.TrimSpace(r.PostForm.Get("amount")))
		req.Category = r.PostForm.Get("category")
		req.Date = r.PostForm.Get("date")
		return req, nil
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return req, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	if err := unmarshalExpense(body, &req); err != nil {
		return req, fmt.Errorf("%w: invalid JSON body: %v", errBadRequest, err)
	}
	return req, nil
}

func unmarshalExpense(body []byte, req *ExpenseRequest) error {
	// json.Number rejects quoted values, so accept "amount": "4.50" separately.
	var raw struct {
		Description string          `json:"description"`
		Amount      json.RawMessage `json:"amount"`
		Category    string          `json:"category"`
		Date        string          `json:"date"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return err
	}
	req.Description, req.Category, req.Date = raw.Description, raw.Category, raw.Date

	if len(raw.Amount) == 0 || string(raw.Amount) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw.Amount, &s); err == nil {
		req.Amount = json.Number(strings.TrimSpace(s))
		return nil
	}
	return json.Unmarshal(raw.Amount, &req.Amount)
}

// Expense validates the request and converts it to a record.
func (req ExpenseRequest) Expense() (core.Expense, error) {
	amount, err := core.ParseAmount(req.Amount.String())
	if err != nil {
		return core.Expense{}, err
	}
	date, err := core.ParseDate(strings.TrimSpace(req.Date))
	if err != nil {
		return core.Expense{}, core.ErrInvalidDate
	}
	e := core.Expense{
		Description: sanitizeInput(req.Description),
		Amount:      amount,
		Category:    sanitizeInput(req.Category),
		Date:        date,
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	return e, nil
}

// parseFilterQuery reads ?category= and ?date=. An empty or "All" category
// selects every category.
func parseFilterQuery(q url.Values) (core.Filter, error) {
	var f core.Filter
	if c := sanitizeInput(q.Get("category")); c != "" && !strings.EqualFold(c, "all") {
		f.Category = c
	}
	if v := strings.TrimSpace(q.Get("date")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return f, core.ErrInvalidDate
		}
		f.Date = d
	}
	return f.Normalize(), nil
}
