package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/alws34/DigitalPhotoFrame/internal/database"
	"github.com/alws34/DigitalPhotoFrame/internal/library"
	"github.com/alws34/DigitalPhotoFrame/internal/playback"
	"github.com/alws34/DigitalPhotoFrame/internal/status"
	"github.com/alws34/DigitalPhotoFrame/internal/stream"
)

// Handlers carries the wired components each endpoint needs.
type Handlers struct {
	library   *library.Library
	db        *database.Database
	scheduler *playback.Scheduler
	bus       *playback.Bus
	encoder   *stream.Encoder
	mjpeg     *stream.Server
	reporter  *status.Reporter
	startedAt time.Time
}

// New assembles the handler set. reporter may be nil when status sources
// are disabled.
func New(lib *library.Library, db *database.Database, sched *playback.Scheduler, bus *playback.Bus, enc *stream.Encoder, mjpeg *stream.Server, reporter *status.Reporter) *Handlers {
	return &Handlers{
		library:   lib,
		db:        db,
		scheduler: sched,
		bus:       bus,
		encoder:   enc,
		mjpeg:     mjpeg,
		reporter:  reporter,
		startedAt: time.Now(),
	}
}

// Router builds the application router. Middleware is applied by the
// caller so tests can exercise bare routes.
func (h *Handlers) Router() *mux.Router {
	r := mux.NewRouter()

	// Frame delivery.
	r.Handle("/stream.mjpg", h.mjpeg).Methods(http.MethodGet)
	r.HandleFunc("/frame.jpg", h.GetFrame).Methods(http.MethodGet)

	// Photo management.
	r.HandleFunc("/api/images", h.ListImages).Methods(http.MethodGet)
	r.HandleFunc("/api/images", h.UploadImage).Methods(http.MethodPost)
	r.HandleFunc("/api/images/{name}", h.DeleteImage).Methods(http.MethodDelete)

	// Guestbook and status.
	r.HandleFunc("/api/photos", h.ListGuestbook).Methods(http.MethodGet)
	r.HandleFunc("/api/stats", h.GetStats).Methods(http.MethodGet)

	// Probes and version.
	r.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)
	r.HandleFunc("/healthz", h.HealthCheck).Methods(http.MethodGet)
	r.HandleFunc("/livez", h.LivenessCheck).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods(http.MethodGet)
	r.HandleFunc("/version", h.GetVersion).Methods(http.MethodGet)

	return r
}
