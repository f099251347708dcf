// Package middleware provides HTTP middleware for the photo frame server.
//
// It includes:
//   - Request logging in W3C Extended Log Format
//   - Prometheus request metrics
//   - Response compression (gzip) for the JSON API
//
// The MJPEG stream endpoint is excluded from all three: its requests are
// long-lived, its bytes are already JPEG-compressed, and its metrics are
// tracked by the stream package itself.
package middleware
