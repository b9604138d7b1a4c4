package api

import (
	"dtmoney-server/src/db"
	"dtmoney-server/src/handlers"
	"dtmoney-server/src/middleware"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

type Options struct {
	JWTSecret      string
	AllowedOrigins []string
	DemoMode       bool

	// Admin enables POST /api/auth/login when it has a password hash and JWTSecret is set.
	Admin    handlers.Credentials
	TokenTTL time.Duration
}

// NewRouter serves repo over HTTP. cache may be nil when repo is not cached.
func NewRouter(repo db.TransactionRepository, cache *db.QueryCache, opts Options) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.RequestLogger)
	r.Use(middleware.CORSMiddleware(opts.AllowedOrigins))
	r.Use(middleware.DemoModeMiddleware(opts.DemoMode))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		if opts.JWTSecret != "" && len(opts.Admin.PasswordHash) > 0 {
			r.Post("/auth/login", handlers.Login(opts.Admin, opts.JWTSecret, opts.TokenTTL))
		}
		r.Get("/transactions", handlers.ListTransactions(repo))
		r.Get("/transactions/summary", handlers.GetSummary(repo))

		// Protected routes
		r.With(middleware.JWTAuthMiddleware(opts.JWTSecret)).Group(func(r chi.Router) {
			r.Post("/transactions", handlers.CreateTransaction(repo))
			if cache != nil {
				r.Post("/admin/cache/clear", handlers.ClearCache(cache))
			}
		})
	})

	return r
}
