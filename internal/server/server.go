package server

import (
	"net/http"

	"crypto-trade-sim-go/internal/config"
	"golang.org/x/time/rate"
)

// NewMux wires the API routes and wraps them with the rate limiter.
func NewMux(h *APIHandler, cfg *config.Server) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/coins", h.CoinsHandler)
	mux.HandleFunc("/api/auth/signup", h.SignupHandler)
	mux.HandleFunc("/api/user", h.UserHandler)
	mux.HandleFunc("/api/user/coins", h.UserCoinsHandler)
	mux.HandleFunc("/api/user/performance", h.PerformanceHandler)
	mux.HandleFunc("/api/user/history", h.HistoryHandler)
	mux.HandleFunc("/api/health", h.HealthHandler)

	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimitBurst)
	return rateLimit(limiter, mux)
}

// rateLimit rejects requests once the shared limiter is exhausted.
func rateLimit(limiter *rate.Limiter, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			writeError(w, http.StatusTooManyRequests, "Too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}
