// Package database persists the photo guestbook: per-photo metadata such
// as who uploaded it, an optional caption, a content hash, and display
// counters maintained by the playback loop. Storage is a single SQLite
// file opened in WAL mode.
package database
