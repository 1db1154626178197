package monitoring

import (
	"fmt"
	"net/http"

	"vidscope/shared/logger"
)

// HealthServer exposes the monitor over /health and /status for probes.
type HealthServer struct {
	monitor *Monitor
	port    string
	log     *logger.Logger
}

func NewHealthServer(monitor *Monitor, port string, log *logger.Logger) *HealthServer {
	if port == "" {
		port = "8081"
	}
	return &HealthServer{monitor: monitor, port: port, log: log}
}

// Start serves in the background; probe failures are logged, not fatal.
func (h *HealthServer) Start() {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", h.healthHandler)
	mux.HandleFunc("/status", h.statusHandler)

	h.log.Info("health server starting", "port", h.port)
	go func() {
		if err := http.ListenAndServe(":"+h.port, mux); err != nil {
			h.log.Error("health server stopped", "error", err)
		}
	}()
}

func (h *HealthServer) healthHandler(w http.ResponseWriter, r *http.Request) {
	if h.monitor.IsHealthy() {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK - %s", h.monitor.StatusSummary())
		return
	}
	w.WriteHeader(http.StatusServiceUnavailable)
	fmt.Fprintf(w, "unhealthy - %s", h.monitor.StatusSummary())
}

func (h *HealthServer) statusHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, h.monitor.StatusSummary())
}
