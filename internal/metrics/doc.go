// Package metrics defines the Prometheus metrics exposed by the photo
// frame: playback loop activity, transition effects, overlay rendering,
// library contents, and the MJPEG streaming surface.
//
// Metrics are registered via promauto at package init and served on a
// dedicated metrics port (see main.go).
package metrics
