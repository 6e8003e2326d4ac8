package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/steamflip/internal/api/handlers"
	"github.com/wonny/steamflip/pkg/logger"
)

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: 라우팅 설정은 이 함수에서만
func NewRouter(itemHandler *handlers.ItemHandler, signalHandler *handlers.SignalHandler, backtestHandler *handlers.BacktestHandler, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/healthz", healthCheckHandler).Methods("GET")

	// API v1
	api := r.PathPrefix("/api/v1").Subrouter()

	// Item endpoints
	api.HandleFunc("/items", itemHandler.List).Methods("GET")
	api.HandleFunc("/items/{name}", itemHandler.Get).Methods("GET")

	// Signal endpoints
	api.HandleFunc("/signals/{strategy}", signalHandler.Scan).Methods("GET")

	// Backtest endpoints
	api.HandleFunc("/backtests", backtestHandler.List).Methods("GET")
	api.HandleFunc("/backtests", backtestHandler.Run).Methods("POST")

	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "steamflip-api",
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithField("method", r.Method).
				WithField("path", r.URL.Path).
				WithField("duration", time.Since(start)).
				Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithField("error", err).
						WithField("path", r.URL.Path).
						Error("Panic recovered")

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
