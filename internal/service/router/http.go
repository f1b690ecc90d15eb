package router

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const readHeaderTimeout = 5 * time.Second

// connectivity reports whether the bus session is up.
type connectivity interface {
	IsConnected() bool
}

// healthResponse is the body of GET /health.
type healthResponse struct {
	Status          string `json:"status"`
	BrokerConnected bool   `json:"brokerConnected"`
}

// newHTTPServer serves Prometheus metrics and the health check.
func newHTTPServer(addr string, bus connectivity) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", healthHandler(bus))

	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}

// healthHandler answers 200 while the broker is connected and 503 otherwise.
func healthHandler(bus connectivity) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		response := healthResponse{
			Status:          "ok",
			BrokerConnected: bus.IsConnected(),
		}

		code := http.StatusOK
		if !response.BrokerConnected {
			response.Status = "degraded"
			code = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(response)
	}
}
