// Package effects implements the transition effect family: animated
// interpolations between two same-sized canvases.
//
// The kind set is closed (a fixed enum with a dispatch table), grouped by
// blending rule:
//
//   - cross-fades: AlphaDissolve, PixelDissolve
//   - reveal masks: Checkerboard, Blinds, Wipe, IrisOpen, IrisClose,
//     BarnDoorOpen, BarnDoorClose
//   - geometric: Scroll, ZoomIn, ZoomOut, Shrink, Stretch
//   - Plain: an immediate cut (single frame), also the fallback when a
//     transition cannot run
//
// A Transition is a lazy, finite, non-restartable frame sequence. Masks are
// pure functions of (x, y, progress, width, height), which allows per-row
// parallel composition. The first frame equals the source canvas and the
// last frame equals the destination canvas pixel-for-pixel.
package effects
