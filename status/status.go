// Package status exposes a loopback HTTP endpoint with gateway health
// and runtime metrics.
package status

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/corvidlabs/voicegate/log"
	"github.com/corvidlabs/voicegate/metrics"
	"github.com/corvidlabs/voicegate/system"
)

// Server serves /status and /health on the loopback interface.
type Server struct {
	startTime time.Time
	port      int

	// sessionCount reports the number of active client sessions.
	sessionCount func() int
	// brokerPing checks broker liveness for /health.
	brokerPing func() error
}

// NewServer creates a status server. A port of 0 disables it.
func NewServer(port int, sessionCount func() int, brokerPing func() error) *Server {
	return &Server{
		startTime:    time.Now(),
		port:         port,
		sessionCount: sessionCount,
		brokerPing:   brokerPing,
	}
}

// Start begins serving in the background. No-op when disabled.
func (s *Server) Start() {
	if s.port == 0 {
		return
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/status", s.handleStatus)
	mux.HandleFunc("/health", s.handleHealth)

	addr := fmt.Sprintf("127.0.0.1:%d", s.port)
	log.Info("starting status server on http://%s", addr)

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Error("status server stopped", err)
		}
	}()
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	uptime := time.Since(s.startTime)

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	host := map[string]interface{}{}
	if cpuUsage, err := system.GetCPUUsage(); err == nil {
		host["cpu_percent"] = cpuUsage
	}
	if memUsage, err := system.GetMemoryUsage(); err == nil {
		host["memory_percent"] = memUsage
	}

	status := map[string]interface{}{
		"service":   "voicegate",
		"status":    "operational",
		"uptime":    uptime.String(),
		"timestamp": time.Now().Format(time.RFC3339),
		"sessions":  s.sessionCount(),
		"runtime": map[string]interface{}{
			"goroutines":      runtime.NumGoroutine(),
			"memory_alloc_mb": float64(m.Alloc) / 1024 / 1024,
			"memory_sys_mb":   float64(m.Sys) / 1024 / 1024,
			"gc_runs":         m.NumGC,
		},
		"host":    host,
		"metrics": metrics.Get(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(status); err != nil {
		log.Error("failed to encode status response", err)
	}
}

// handleHealth is the load-balancer probe: ok only while the broker answers.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := s.brokerPing(); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status": "degraded",
			"error":  err.Error(),
		})
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
