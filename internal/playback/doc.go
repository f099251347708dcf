// Package playback owns the slideshow loop: it picks the next photo, fits
// it to the canvas, drives a transition effect between the outgoing and
// incoming photos, composites the overlay onto every frame, and publishes
// the result to the frame bus.
//
// The Bus is the single-slot publication point between the scheduler (sole
// writer) and any number of readers (the MJPEG stream, the snapshot
// endpoint). Publication is an atomic pointer swap; readers never observe
// a partially written frame and never block the writer.
package playback
