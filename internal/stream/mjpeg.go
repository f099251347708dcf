package stream

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/alws34/DigitalPhotoFrame/internal/logging"
	"github.com/alws34/DigitalPhotoFrame/internal/metrics"
	"github.com/alws34/DigitalPhotoFrame/internal/playback"
)

const mjpegBoundary = "photoframe"

// Server streams frames off the playback bus as multipart MJPEG. One
// ServeHTTP call serves one client until it disconnects.
type Server struct {
	bus          *playback.Bus
	encoder      *Encoder
	maxFPS       int
	writeTimeout time.Duration
}

// NewServer creates an MJPEG server. maxFPS caps the per-client frame
// rate; actual delivery also depends on how fast the bus publishes.
func NewServer(bus *playback.Bus, encoder *Encoder, maxFPS int, writeTimeout time.Duration) *Server {
	if maxFPS <= 0 {
		maxFPS = 30
	}
	return &Server{
		bus:          bus,
		encoder:      encoder,
		maxFPS:       maxFPS,
		writeTimeout: writeTimeout,
	}
}

// ServeHTTP implements the MJPEG endpoint.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary="+mjpegBoundary)
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("X-Content-Type-Options", "nosniff")

	tw := NewTimeoutWriter(r.Context(), w, s.writeTimeout)
	defer func() {
		if err := tw.Close(); err != nil {
			logging.Warn("failed to close stream writer: %v", err)
		}
	}()

	metrics.StreamClients.Inc()
	defer metrics.StreamClients.Dec()
	logging.Debug("stream client connected: %s", r.RemoteAddr)

	err := s.streamTo(tw, r)

	bytesWritten, duration := tw.Stats()
	logging.Debug("stream client gone: %s (%d bytes in %v): %v",
		r.RemoteAddr, bytesWritten, duration, err)
}

// streamTo runs the per-client frame loop until a write fails or the
// client disconnects.
func (s *Server) streamTo(tw *TimeoutWriter, r *http.Request) error {
	interval := time.Second / time.Duration(s.maxFPS)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var lastSeq uint64
	for {
		frame := s.bus.Latest()
		if frame != nil && frame.Seq != lastSeq {
			lastSeq = frame.Seq

			data, err := s.encoder.Encode(frame.Image)
			if err != nil {
				logging.Error("frame encode failed: %v", err)
				return err
			}
			if err := writePart(tw, data); err != nil {
				if errors.Is(err, ErrClientGone) {
					return nil
				}
				return err
			}
			tw.Flush()

			metrics.StreamFramesTotal.Inc()
			metrics.StreamBytesTotal.Add(float64(len(data)))
		}

		select {
		case <-r.Context().Done():
			return nil
		case <-ticker.C:
		}
	}
}

// writePart emits one multipart frame: boundary, headers, JPEG bytes.
func writePart(tw *TimeoutWriter, data []byte) error {
	header := fmt.Sprintf("--%s\r\nContent-Type: image/jpeg\r\nContent-Length: %d\r\n\r\n",
		mjpegBoundary, len(data))
	if _, err := tw.Write([]byte(header)); err != nil {
		return err
	}
	if _, err := tw.Write(data); err != nil {
		return err
	}
	_, err := tw.Write([]byte("\r\n"))
	return err
}

// Snapshot encodes the latest frame once, for the still-image endpoint.
// Returns nil bytes when no frame has been published yet.
func Snapshot(bus *playback.Bus, encoder *Encoder) ([]byte, error) {
	frame := bus.Latest()
	if frame == nil {
		return nil, nil
	}
	return encoder.Encode(frame.Image)
}
