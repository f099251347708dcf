// Package library maintains the set of photos available to the slideshow.
// It scans a single flat directory for image files, keeps an in-memory
// snapshot of their paths, and re-scans when fsnotify reports changes so
// uploads and deletions show up without a restart.
package library
