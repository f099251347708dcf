// Package render is the low-level pixel toolkit for the frame pipeline:
// decoding photos, fitting them to the output canvas, the frosted-glass
// backdrop blur for portrait photos, and alpha-compositing the overlay
// layer onto a base frame.
//
// Every canvas in the pipeline is an *image.NRGBA with the configured
// output dimensions; SameSize guards that invariant at package borders.
package render
