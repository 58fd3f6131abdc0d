package http

import (
	"net/http"

	"expensetracker/internal/core"
	applog "expensetracker/internal/log"
)

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	items := s.svc.Expenses()
	out := make([]expenseJSON, 0, len(items))
	for _, e := range items {
		out = append(out, toExpenseJSON(e))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	req, err := parseExpenseRequest(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	e, err := req.Expense()
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.svc.Add(r.Context(), e); err != nil {
		writeError(w, r, err)
		return
	}
	applog.FromContext(r.Context()).InfoContext(r.Context(), "Expense created", applog.NewFields().
		WithExpense(e.Description, e.Amount.String(), e.Category, e.Date.String()).ToSlice()...)
	writeJSON(w, http.StatusCreated, toExpenseJSON(e))
}

func (s *Server) handleTotal(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilterQuery(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}
	total := s.svc.Total(f)
	writeJSON(w, http.StatusOK, totalResponse{
		Category:  f.Category,
		Date:      dateString(f.Date),
		Total:     total,
		Formatted: core.FormatTotal(total),
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	q.Del("category")
	f, err := parseFilterQuery(q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	sum := s.svc.Summary(f)
	resp := summaryResponse{
		Date:       dateString(f.Date),
		Count:      sum.Count,
		Total:      sum.Total,
		Formatted:  core.FormatTotal(sum.Total),
		ByCategory: make([]categoryAmountJSON, 0, len(sum.ByCategory)),
	}
	for _, c := range sum.ByCategory {
		resp.ByCategory = append(resp.ByCategory, categoryAmountJSON{Category: c.Name, Amount: c.Amount})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Categories())
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Save(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "saved", "count": len(s.svc.Expenses())})
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	n, err := s.svc.Load(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "loaded", "count": n})
}
