package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"expensetracker/internal/core"
	applog "expensetracker/internal/log"
	"expensetracker/internal/middleware/ratelimit"
	"expensetracker/internal/middleware/security"
)

// Service is the subset of services.ExpenseService the API exposes.
type Service interface {
	Add(ctx context.Context, e core.Expense) error
	Expenses() []core.Expense
	Total(f core.Filter) decimal.Decimal
	Summary(f core.Filter) core.Summary
	Categories() []string
	Save(ctx context.Context) error
	Load(ctx context.Context) (int, error)
}

type Server struct {
	http.Server
	svc     Service
	limiter *ratelimit.Limiter

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, svc Service, logger *applog.Logger) *Server {
	if logger == nil {
		logger = applog.Discard()
	}
	mux := http.NewServeMux()

	s := &Server{
		svc:     svc,
		limiter: ratelimit.NewLimiter(ratelimit.DefaultConfig()),
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /expenses", s.handleListExpenses)
	mux.HandleFunc("POST /expenses", s.handleCreateExpense)
	mux.HandleFunc("GET /total", s.handleTotal)
	mux.HandleFunc("GET /summary", s.handleSummary)
	mux.HandleFunc("GET /categories", s.handleCategories)
	mux.HandleFunc("POST /save", s.handleSave)
	mux.HandleFunc("POST /load", s.handleLoad)

	clientIP := security.NewClientIP()
	var handler http.Handler = mux
	handler = s.limiter.Middleware(clientIP.Extract, func(w http.ResponseWriter, r *http.Request) {
		applog.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded", "client_ip", clientIP.Extract(r))
		writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded"})
	})(handler)
	handler = security.Headers(security.DefaultHeadersConfig())(handler)
	handler = applog.AccessLog(handler)
	handler = applog.RequestIDMiddleware(generateRequestID)(handler)
	handler = applog.Middleware(logger.WithComponent(applog.ComponentHTTP))(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Shutdown gracefully shuts down the server and the rate limiter cleanup.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
