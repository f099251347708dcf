package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Playback metrics
var (
	FramesPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photoframe_frames_published_total",
			Help: "Total number of frames published to the frame bus",
		},
		[]string{"state"}, // "transition", "idle"
	)

	TransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photoframe_transitions_total",
			Help: "Total number of completed transitions by effect kind",
		},
		[]string{"effect"},
	)

	TransitionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "photoframe_transition_duration_seconds",
			Help:    "Wall-clock duration of a full transition",
			Buckets: []float64{0.5, 1, 2, 3, 5, 8, 13, 21},
		},
	)

	FrameRenderDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "photoframe_frame_render_duration_seconds",
			Help:    "Time spent generating a single transition frame",
			Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		},
	)

	DecodeErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "photoframe_decode_errors_total",
			Help: "Total number of photos skipped due to decode failures",
		},
	)

	CyclesAbortedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "photoframe_cycles_aborted_total",
			Help: "Total number of playback cycles aborted and retried",
		},
	)
)

// Overlay metrics
var (
	OverlayRendersTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "photoframe_overlay_renders_total",
			Help: "Total number of overlay layer regenerations",
		},
	)

	OverlayRenderDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "photoframe_overlay_render_duration_seconds",
			Help:    "Time spent rendering the overlay layer",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05},
		},
	)
)

// Library metrics
var (
	LibrarySize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "photoframe_library_photos",
			Help: "Number of photos currently in the library",
		},
	)

	LibraryReloadsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "photoframe_library_reloads_total",
			Help: "Total number of library rescans",
		},
	)

	WatcherEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photoframe_watcher_events_total",
			Help: "Total number of filesystem watcher events by type",
		},
		[]string{"type"},
	)

	WatcherErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "photoframe_watcher_errors_total",
			Help: "Total number of filesystem watcher errors",
		},
	)
)

// Streaming metrics
var (
	StreamClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "photoframe_stream_clients",
			Help: "Number of connected MJPEG stream clients",
		},
	)

	StreamFramesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "photoframe_stream_frames_total",
			Help: "Total number of frames written to stream clients",
		},
	)

	StreamBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "photoframe_stream_bytes_total",
			Help: "Total number of bytes written to stream clients",
		},
	)

	EncodeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "photoframe_encode_duration_seconds",
			Help:    "JPEG encoding duration by encoder backend",
			Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
		},
		[]string{"backend"}, // "vips", "stdlib"
	)
)

// Status source metrics
var (
	WeatherFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photoframe_weather_fetches_total",
			Help: "Total number of weather fetch attempts",
		},
		[]string{"status"}, // "success", "error"
	)
)

// Guestbook database metrics
var (
	DBQueryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photoframe_db_queries_total",
			Help: "Total number of guestbook database queries",
		},
		[]string{"operation", "status"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "photoframe_db_query_duration_seconds",
			Help:    "Guestbook database query duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photoframe_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "photoframe_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "photoframe_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)
