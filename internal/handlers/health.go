package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/alws34/DigitalPhotoFrame/internal/startup"
)

const (
	statusHealthy  = "healthy"
	statusStarting = "starting"
)

// HealthResponse contains the health check response.
type HealthResponse struct {
	Status       string `json:"status"`
	Ready        bool   `json:"ready"`
	Version      string `json:"version"`
	Uptime       string `json:"uptime"`
	PhotoCount   int    `json:"photoCount"`
	CurrentPhoto string `json:"currentPhoto,omitempty"`
	FramesServed uint64 `json:"framesServed"`
	GoVersion    string `json:"goVersion"`
	NumCPU       int    `json:"numCpu"`
	NumGoroutine int    `json:"numGoroutine"`
}

// HealthCheck reports overall service health. The frame is considered
// ready once the first frame has been published.
func (h *Handlers) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	frame := h.bus.Latest()
	ready := frame != nil

	response := HealthResponse{
		Ready:        ready,
		Version:      startup.Version,
		Uptime:       time.Since(h.startedAt).Round(time.Second).String(),
		PhotoCount:   h.library.Len(),
		CurrentPhoto: h.scheduler.CurrentPath(),
		GoVersion:    runtime.Version(),
		NumCPU:       runtime.NumCPU(),
		NumGoroutine: runtime.NumGoroutine(),
	}
	if frame != nil {
		response.FramesServed = frame.Seq
	}

	if ready {
		response.Status = statusHealthy
	} else {
		response.Status = statusStarting
	}

	w.Header().Set("Content-Type", "application/json")
	if !ready {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	writeJSON(w, response)
}

// LivenessCheck always returns 200 while the process runs.
func (h *Handlers) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if r.Method != http.MethodHead {
		writeJSON(w, map[string]string{"status": "alive"})
	}
}

// ReadinessCheck returns 200 once frames are being published.
func (h *Handlers) ReadinessCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if h.bus.Latest() != nil {
		w.WriteHeader(http.StatusOK)
		writeJSON(w, map[string]string{"status": "ready"})
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
		writeJSON(w, map[string]string{"status": "not_ready"})
	}
}
