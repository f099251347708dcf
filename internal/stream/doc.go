// Package stream serves the rendered slideshow over HTTP. Frames come off
// the playback bus, get JPEG-encoded (libvips when available, image/jpeg
// otherwise), and go out as an MJPEG multipart stream. Writes to clients
// are wrapped in a timeout writer so one stalled viewer cannot pin a
// handler goroutine forever.
package stream
