package handlers

import (
	"net/http"

	"github.com/alws34/DigitalPhotoFrame/internal/logging"
	"github.com/alws34/DigitalPhotoFrame/internal/stream"
)

// GetFrame serves the latest frame as a single JPEG.
func (h *Handlers) GetFrame(w http.ResponseWriter, _ *http.Request) {
	data, err := stream.Snapshot(h.bus, h.encoder)
	if err != nil {
		logging.Error("snapshot encode failed: %v", err)
		writeJSONError(w, "failed to encode frame", http.StatusInternalServerError)
		return
	}
	if data == nil {
		writeJSONError(w, "no frame available yet", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	if _, err := w.Write(data); err != nil {
		logging.Debug("snapshot write failed: %v", err)
	}
}
