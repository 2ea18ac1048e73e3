// Package http exposes the ledger service as a JSON API.
package http

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"moneymanager/internal/core"
	"moneymanager/internal/log"
	"moneymanager/internal/middleware/ratelimit"
	"moneymanager/internal/middleware/security"
	"moneymanager/internal/middleware/trace"
	"moneymanager/internal/report"
)

// LedgerAPI is the part of services.LedgerService the handlers need.
type LedgerAPI interface {
	Register(ctx context.Context, username, password, confirm string) error
	Login(ctx context.Context, username, password string) (string, error)
	VerifyToken(token string) (string, error)
	State(ctx context.Context, username string) (core.UserLedgerState, error)
	Snapshot(ctx context.Context, username string, asOf core.Date) (report.Snapshot, error)
	SetBaseIncome(ctx context.Context, username string, amount core.Money) error
	AddTransaction(ctx context.Context, username string, tx core.Transaction) (int, error)
	EditTransaction(ctx context.Context, username string, index int, tx core.Transaction) error
	DeleteTransaction(ctx context.Context, username string, index int) error
	AddReminder(ctx context.Context, username string, due core.Date, note string, amount core.Money) (int, error)
	CompleteReminder(ctx context.Context, username string, index int) error
	DeleteReminder(ctx context.Context, username string, index int) error
	AddGoal(ctx context.Context, username, name string, target core.Money, targetDate core.Date) (core.SavingsGoal, error)
	Contribute(ctx context.Context, username, name string, amount core.Money) (bool, error)
}

type Options struct {
	RateLimitPerMinute int
	Logger             *log.Logger
	// Now is the clock used for default report dates.
	Now func() time.Time
}

type Server struct {
	http.Server
	api         LedgerAPI
	logger      *log.Logger
	rateLimiter *ratelimit.Limiter
	clientIP    *security.ClientIPResolver
	csv         report.Renderer
	now         func() time.Time

	shutdownOnce sync.Once
}

type ctxKey string

const usernameKey ctxKey = "username"

// NewServer wires routes and middleware, returning a ready-to-run server.
func NewServer(addr string, api LedgerAPI, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.New(log.DefaultConfig())
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Server{
		api:         api,
		logger:      opts.Logger.WithComponent(log.ComponentHTTP),
		rateLimiter: ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute}),
		clientIP:    security.NewClientIPResolver(),
		csv:         report.CSVRenderer{},
		now:         opts.Now,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("POST /register", s.handleRegister)
	mux.HandleFunc("POST /login", s.handleLogin)

	mux.Handle("GET /api/state", s.withAuth(s.handleState))
	mux.Handle("GET /api/report", s.withAuth(s.handleReport))
	mux.Handle("GET /api/report.csv", s.withAuth(s.handleReportCSV))
	mux.Handle("PUT /api/income", s.withAuth(s.handleSetIncome))
	mux.Handle("POST /api/transactions", s.withAuth(s.handleAddTransaction))
	mux.Handle("PUT /api/transactions/{index}", s.withAuth(s.handleEditTransaction))
	mux.Handle("DELETE /api/transactions/{index}", s.withAuth(s.handleDeleteTransaction))
	mux.Handle("POST /api/reminders", s.withAuth(s.handleAddReminder))
	mux.Handle("POST /api/reminders/{index}/complete", s.withAuth(s.handleCompleteReminder))
	mux.Handle("DELETE /api/reminders/{index}", s.withAuth(s.handleDeleteReminder))
	mux.Handle("POST /api/goals", s.withAuth(s.handleAddGoal))
	mux.Handle("POST /api/goals/contribute", s.withAuth(s.handleContribute))

	var handler http.Handler = mux
	handler = s.rateLimiter.Middleware(s.clientIP.ClientIP, s.onRateLimit)(handler)
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = trace.NewMiddleware(s.clientIP.ClientIP).Middleware(handler)
	handler = log.Middleware(s.logger)(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// Shutdown stops the rate limiter and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func (s *Server) onRateLimit(w http.ResponseWriter, r *http.Request) {
	log.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
		log.FieldClientIP, s.clientIP.ClientIP(r),
		log.FieldMethod, r.Method,
		log.FieldPath, r.URL.Path)
	writeError(w, http.StatusTooManyRequests, "rate limit exceeded, try again later")
}

// withAuth requires a valid "Authorization: Bearer <token>" header and puts
// the token's username in the request context.
func (s *Server) withAuth(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		username, err := s.api.VerifyToken(strings.TrimSpace(token))
		if err != nil {
			s.respondError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), usernameKey, username)
		ctx = log.WithLogger(ctx, log.FromContext(ctx).With(log.FieldUsername, username))
		next(w, r.WithContext(ctx))
	})
}

func usernameFrom(ctx context.Context) string {
	u, _ := ctx.Value(usernameKey).(string)
	return u
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
