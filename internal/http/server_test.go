package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"expensetracker/internal/services"
	"expensetracker/internal/storage"
	"expensetracker/internal/store"
)

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "expenses.txt")
	svc := services.NewExpenseService(store.New(), storage.NewTextFile(path))
	srv := NewServer(":0", svc, nil)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return srv, path
}

func do(t *testing.T, srv *Server, method, target, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
	return v
}

func TestHealthAndHeaders(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := do(t, srv, http.MethodGet, "/healthz", "", "")
	if rr.Code != http.StatusOK || rr.Body.String() != "ok" {
		t.Fatalf("healthz status=%d body=%q", rr.Code, rr.Body.String())
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID")
	}
	if rr.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("missing security headers")
	}
}

func TestCreateExpenseValidationAndSuccess(t *testing.T) {
	srv, _ := newTestServer(t)
	const jsonCT = "application/json"

	tests := []struct {
		name        string
		method      string
		contentType string
		body        string
		want        int
	}{
		{name: "wrong method", method: http.MethodDelete, want: http.StatusMethodNotAllowed},
		{name: "malformed json", method: http.MethodPost, contentType: jsonCT, body: `{"amount":`, want: http.StatusBadRequest},
		{name: "invalid amount", method: http.MethodPost, contentType: jsonCT, body: `{"description":"x","amount":"abc","category":"Other","date":"2024-03-01"}`, want: http.StatusUnprocessableEntity},
		{name: "negative amount", method: http.MethodPost, contentType: jsonCT, body: `{"description":"x","amount":-2,"category":"Other","date":"2024-03-01"}`, want: http.StatusUnprocessableEntity},
		{name: "missing description", method: http.MethodPost, contentType: jsonCT, body: `{"description":"","amount":1,"category":"Other","date":"2024-03-01"}`, want: http.StatusUnprocessableEntity},
		{name: "bad date", method: http.MethodPost, contentType: jsonCT, body: `{"description":"x","amount":1,"category":"Other","date":"01/03/2024"}`, want: http.StatusUnprocessableEntity},
		{name: "json number", method: http.MethodPost, contentType: jsonCT, body: `{"description":"Coffee","amount":4.50,"category":"Groceries","date":"2024-03-01"}`, want: http.StatusCreated},
		{name: "json string amount", method: http.MethodPost, contentType: jsonCT, body: `{"description":"Train","amount":"12","category":"Transportation","date":"2024-03-01"}`, want: http.StatusCreated},
		{name: "form", method: http.MethodPost, contentType: "application/x-www-form-urlencoded", body: "description=Bread&amount=3,25&category=Groceries&date=2024-03-02", want: http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, srv, tt.method, "/expenses", tt.contentType, tt.body)
			if rr.Code != tt.want {
				t.Fatalf("status = %d, want %d (body %s)", rr.Code, tt.want, rr.Body.String())
			}
		})
	}

	list := decode[[]expenseJSON](t, do(t, srv, http.MethodGet, "/expenses", "", ""))
	if len(list) != 3 || list[0].Description != "Coffee" || list[2].Amount.String() != "3.25" {
		t.Fatalf("unexpected list: %+v", list)
	}
}

func TestTotalAndSummary(t *testing.T) {
	srv, _ := newTestServer(t)
	for _, body := range []string{
		`{"description":"Coffee","amount":"4.50","category":"Groceries","date":"2024-03-01"}`,
		`{"description":"Train","amount":"12","category":"Transportation","date":"2024-03-01"}`,
		`{"description":"Bread","amount":"3.25","category":"Groceries","date":"2024-03-02"}`,
	} {
		if rr := do(t, srv, http.MethodPost, "/expenses", "application/json", body); rr.Code != http.StatusCreated {
			t.Fatalf("create: %d %s", rr.Code, rr.Body.String())
		}
	}

	tests := []struct {
		query string
		want  string
	}{
		{query: "", want: "Total Expenses: $19.75"},
		{query: "?category=Groceries", want: "Total Expenses: $7.75"},
		{query: "?category=All&date=2024-03-01", want: "Total Expenses: $16.50"},
		{query: "?category=groceries", want: "Total Expenses: $0.00"},
		{query: "?date=2024-03-03", want: "Total Expenses: $0.00"},
	}
	for _, tt := range tests {
		rr := do(t, srv, http.MethodGet, "/total"+tt.query, "", "")
		if rr.Code != http.StatusOK {
			t.Fatalf("%s: status %d", tt.query, rr.Code)
		}
		if got := decode[totalResponse](t, rr).Formatted; got != tt.want {
			t.Errorf("/total%s = %q, want %q", tt.query, got, tt.want)
		}
	}

	if rr := do(t, srv, http.MethodGet, "/total?date=yesterday", "", ""); rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("bad date filter: status %d", rr.Code)
	}

	sum := decode[summaryResponse](t, do(t, srv, http.MethodGet, "/summary?date=2024-03-01", "", ""))
	if sum.Count != 2 || len(sum.ByCategory) != 2 || sum.ByCategory[0].Category != "Groceries" {
		t.Fatalf("unexpected summary: %+v", sum)
	}

	cats := decode[[]string](t, do(t, srv, http.MethodGet, "/categories", "", ""))
	if len(cats) != 4 || cats[0] != "Groceries" {
		t.Fatalf("unexpected categories: %v", cats)
	}
}

func TestSaveAndLoad(t *testing.T) {
	srv, path := newTestServer(t)
	do(t, srv, http.MethodPost, "/expenses", "application/json",
		`{"description":"a|b","amount":"1","category":"Other","date":"2024-01-01"}`)

	if rr := do(t, srv, http.MethodPost, "/save", "", ""); rr.Code != http.StatusOK {
		t.Fatalf("save: %d %s", rr.Code, rr.Body.String())
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "a\\|b|1|Other|2024-01-01\n" {
		t.Fatalf("file = %q err=%v", data, err)
	}

	if rr := do(t, srv, http.MethodPost, "/load", "", ""); rr.Code != http.StatusOK {
		t.Fatalf("load: %d %s", rr.Code, rr.Body.String())
	}

	if err := os.WriteFile(path, []byte("only|two\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	rr := do(t, srv, http.MethodPost, "/load", "", "")
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("corrupt load: status %d", rr.Code)
	}
	if resp := decode[errorResponse](t, rr); resp.Line != 1 {
		t.Errorf("error line = %d, want 1", resp.Line)
	}
	if list := decode[[]expenseJSON](t, do(t, srv, http.MethodGet, "/expenses", "", "")); len(list) != 1 {
		t.Fatalf("failed load must keep records, got %d", len(list))
	}
}

func TestSaveIOErrorIs500(t *testing.T) {
	dir := t.TempDir()
	svc := services.NewExpenseService(store.New(), storage.NewTextFile(filepath.Join(dir, "missing", "expenses.txt")))
	srv := NewServer(":0", svc, nil)
	defer srv.Shutdown(context.Background())

	rr := do(t, srv, http.MethodPost, "/save", "", "")
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rr.Code)
	}
}

func TestUnknownRoute(t *testing.T) {
	srv, _ := newTestServer(t)
	if rr := do(t, srv, http.MethodGet, "/nope", "", ""); rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rr.Code)
	}
}
