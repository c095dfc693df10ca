package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	"github.com/wonny/vega/internal/api/handlers"
	"github.com/wonny/vega/pkg/config"
	"github.com/wonny/vega/pkg/logger"
)

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: 라우팅 설정은 이 함수에서만
func NewRouter(cfg *config.Config, optionsHandler *handlers.OptionsHandler, timelineHandler *handlers.TimelineHandler, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	// API v1
	api := r.PathPrefix("/api/v1").Subrouter()

	// Single-contract endpoints
	api.HandleFunc("/options/price", optionsHandler.Price).Methods("POST")
	api.HandleFunc("/options/greeks", optionsHandler.Greeks).Methods("POST")
	api.HandleFunc("/options/implied-vol", optionsHandler.ImpliedVol).Methods("POST")

	// Portfolio endpoints
	api.HandleFunc("/portfolio/value", optionsHandler.Portfolio).Methods("POST")

	// Scenario endpoints
	api.HandleFunc("/scenario/spot", optionsHandler.SpotScenario).Methods("POST")
	api.HandleFunc("/scenario/vol", optionsHandler.VolScenario).Methods("POST")
	api.HandleFunc("/scenario/time", optionsHandler.TimeScenario).Methods("POST")
	api.HandleFunc("/scenario/crash", optionsHandler.CrashScenario).Methods("POST")
	api.HandleFunc("/scenario/spot-vol-surface", optionsHandler.SpotVolSurface).Methods("POST")
	api.HandleFunc("/scenario/spot-time-surface", optionsHandler.SpotTimeSurface).Methods("POST")
	api.HandleFunc("/scenario/payoff", optionsHandler.Payoff).Methods("POST")

	// Risk endpoints
	api.HandleFunc("/risk/monte-carlo", optionsHandler.MonteCarlo).Methods("POST")

	// Timeline endpoints
	api.HandleFunc("/timeline", timelineHandler.Reconstruct).Methods("POST")
	api.HandleFunc("/timeline/tickers", timelineHandler.Tickers).Methods("GET")

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))
	if cfg.RateLimit.Enabled {
		r.Use(rateLimitMiddleware(rate.NewLimiter(rate.Limit(cfg.RateLimit.RPS), cfg.RateLimit.Burst)))
	}

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "vega-api",
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// rateLimitMiddleware applies a process-wide request rate limit
func rateLimitMiddleware(limiter *rate.Limiter) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(map[string]string{
					"error": "Rate limit exceeded",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
