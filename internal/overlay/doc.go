// Package overlay renders the translucent text layer composited over every
// frame: the clock and date anchored to the bottom-left corner, and any
// status lines (weather, system stats) anchored to the opposite corners.
//
// Rendering is idempotent for identical inputs, and the renderer caches the
// layer keyed on the second-rounded timestamp plus a hash of the status
// text. A low-frequency ticker (Run) keeps the cache warm so the playback
// loop reads a prebuilt layer on almost every frame; both sides go through
// the same lock.
package overlay
