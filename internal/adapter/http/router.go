package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/kinko-ledger/internal/adapter/http/handler"
	"github.com/iho/kinko-ledger/internal/adapter/http/middleware"
	"github.com/iho/kinko-ledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler   *handler.AccountHandler
	TransferHandler  *handler.TransferHandler
	DepositHandler   *handler.DepositHandler
	WebhookHandler   *handler.WebhookHandler
	LedgerHandler    *handler.LedgerHandler
	HealthHandler    *handler.HealthHandler
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	Logger           zerolog.Logger
	RateLimit        float64
	RateBurst        int
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.NewRecovery(cfg.Logger))
	r.Use(middleware.Metrics)

	if cfg.RateLimit > 0 {
		r.Use(middleware.NewRateLimiter(cfg.RateLimit, cfg.RateBurst).Limit)
	}

	// Operational endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Provider callbacks carry their own durable duplicate guard;
		// the Idempotency-Key middleware does not apply to them.
		r.Post("/webhooks/payments", cfg.WebhookHandler.HandlePayment)

		r.Group(func(r chi.Router) {
			if cfg.IdempotencyStore != nil {
				ttl := cfg.IdempotencyTTL
				if ttl <= 0 {
					ttl = usecase.IdempotencyKeyTTL
				}
				idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, ttl)
				r.Use(idempotencyMiddleware.Wrap)
			}

			// Accounts
			r.Route("/accounts", func(r chi.Router) {
				r.Post("/", cfg.AccountHandler.Create)
				r.Get("/{id}", cfg.AccountHandler.Get)
				r.Get("/{id}/entries", cfg.AccountHandler.ListEntries)
			})

			// Transfers
			r.Post("/transfers", cfg.TransferHandler.Create)

			// Deposits and clearing settlements
			r.Post("/deposits", cfg.DepositHandler.Create)
			r.Post("/clearing/settlements", cfg.DepositHandler.CreateSettlement)

			// Ledger-wide checks
			r.Get("/ledger/consistency", cfg.LedgerHandler.CheckConsistency)
		})
	})

	return r
}
