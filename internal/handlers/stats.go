package handlers

import (
	"net/http"
	"time"

	"github.com/alws34/DigitalPhotoFrame/internal/status"
)

// StatsResponse aggregates host, playback, and weather state.
type StatsResponse struct {
	Uptime       string              `json:"uptime"`
	PhotoCount   int                 `json:"photoCount"`
	CurrentPhoto string              `json:"currentPhoto,omitempty"`
	FramesServed uint64              `json:"framesServed"`
	System       *status.SystemStats `json:"system,omitempty"`
	Weather      *status.Weather     `json:"weather,omitempty"`
}

// GetStats returns a combined status snapshot.
func (h *Handlers) GetStats(w http.ResponseWriter, r *http.Request) {
	resp := StatsResponse{
		Uptime:       time.Since(h.startedAt).Round(time.Second).String(),
		PhotoCount:   h.library.Len(),
		CurrentPhoto: h.scheduler.CurrentPath(),
	}
	if frame := h.bus.Latest(); frame != nil {
		resp.FramesServed = frame.Seq
	}
	if h.reporter != nil {
		resp.System = h.reporter.Stats()
		resp.Weather = h.reporter.Weather()
	} else if sys, err := status.ReadSystemStats(r.Context()); err == nil {
		resp.System = sys
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	writeJSON(w, resp)
}
