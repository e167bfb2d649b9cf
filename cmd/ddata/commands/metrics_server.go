package commands

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthResponse represents the health check response.
type HealthResponse struct {
	Healthy  bool            `json:"healthy"`
	Breakers []BreakerStatus `json:"breakers"`
}

// BreakerStatus represents the state of one circuit breaker.
type BreakerStatus struct {
	Name string `json:"name"`
	Open bool   `json:"open"`
}

// healthProbe reports whether a dependency's breaker is open.
type healthProbe struct {
	Name string
	Open func() bool
}

// startMetricsServer serves the Prometheus registry while the command runs.
//
// The server exposes:
//   - GET /metrics - Prometheus metrics endpoint
//   - GET /health - breaker states of the store and the REST API; 503 when one is open
//
// When ctx is canceled the server shuts down within 5 seconds.
func startMetricsServer(ctx context.Context, logger *slog.Logger, addr string, c *cli) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", healthHandler(c.healthProbes))

	server := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("metrics server starting", slog.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server error", slog.Any("error", err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("metrics server shutdown error", slog.Any("error", err))
		}
	}()

	return server
}

// healthHandler returns 200 while every breaker is closed and 503 otherwise.
func healthHandler(probes func() []healthProbe) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := HealthResponse{Healthy: true, Breakers: []BreakerStatus{}}
		for _, p := range probes() {
			open := p.Open()
			resp.Breakers = append(resp.Breakers, BreakerStatus{Name: p.Name, Open: open})
			if open {
				resp.Healthy = false
			}
		}

		status := http.StatusOK
		if !resp.Healthy {
			status = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(resp)
	}
}
