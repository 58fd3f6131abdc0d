package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"expensetracker/internal/codec"
	"expensetracker/internal/core"
	applog "expensetracker/internal/log"
	"expensetracker/internal/storage"
)

type expenseJSON struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Date        string          `json:"date"`
}

func toExpenseJSON(e core.Expense) expenseJSON {
	return expenseJSON{Description: e.Description, Amount: e.Amount, Category: e.Category, Date: e.Date.String()}
}

type totalResponse struct {
	Category  string          `json:"category"`
	Date      string          `json:"date,omitempty"`
	Total     decimal.Decimal `json:"total"`
	Formatted string          `json:"formatted"`
}

type categoryAmountJSON struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

type summaryResponse struct {
	Date       string               `json:"date,omitempty"`
	Count      int                  `json:"count"`
	Total      decimal.Decimal      `json:"total"`
	Formatted  string               `json:"formatted"`
	ByCategory []categoryAmountJSON `json:"by_category"`
}

type errorResponse struct {
	Error string `json:"error"`
	Line  int    `json:"line,omitempty"`
}

func dateString(d core.Date) string {
	if d.IsEmpty() {
		return ""
	}
	return d.String()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps domain and storage errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrEmptyDescription),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrEmptyCategory),
		errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, codec.ErrFormat):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	resp := errorResponse{Error: err.Error()}

	var fe *codec.FormatError
	if errors.As(err, &fe) {
		resp.Line = fe.Line
	}
	if status >= http.StatusInternalServerError {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed", applog.FieldError, err)
		var ioe *storage.IOError
		if !errors.As(err, &ioe) {
			resp.Error = "internal error"
		}
	}
	writeJSON(w, status, resp)
}
