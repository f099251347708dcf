// Package handlers implements the HTTP surface of the photo frame: the
// MJPEG stream and still-frame snapshot, the photo upload/list/delete
// API, the guestbook listing, host statistics, and the health and
// version endpoints.
package handlers
