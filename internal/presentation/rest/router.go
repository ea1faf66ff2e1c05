// Package rest exposes finboard over HTTP/JSON.
package rest

import (
	"log/slog"
	"net/http"

	"github.com/bibbank/finboard/pkg/auth"
)

// RouterConfig collects the handlers and cross-cutting dependencies.
type RouterConfig struct {
	Fraud        *FraudHandler
	Banks        *BankHandler
	Transfers    *TransferHandler
	Health       *HealthHandler
	Metrics      http.Handler
	JWT          *auth.JWTService
	RateLimitRPS float64
	Logger       *slog.Logger
}

// publicPaths bypass authentication.
var publicPaths = []string{"/healthz", "/readyz", "/metrics"}

// NewRouter builds the HTTP handler: logging, then rate limiting, then auth.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	cfg.Health.RegisterRoutes(mux)
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics)
	}
	cfg.Fraud.RegisterRoutes(mux)
	cfg.Banks.RegisterRoutes(mux)
	if cfg.Transfers != nil {
		cfg.Transfers.RegisterRoutes(mux)
	}

	return Chain(mux,
		LoggingMiddleware(cfg.Logger),
		RateLimitMiddleware(NewClientRateLimiter(cfg.RateLimitRPS)),
		auth.HTTPMiddleware(cfg.JWT, publicPaths),
	)
}
