package effects

import "fmt"

// Kind identifies one transition effect.
type Kind int

const (
	// AlphaDissolve is a uniform cross-fade.
	AlphaDissolve Kind = iota
	// PixelDissolve reveals the destination pixel-by-pixel in a fixed
	// pseudo-random order.
	PixelDissolve
	// Checkerboard reveals the destination cell-by-cell on an 8x8 grid.
	Checkerboard
	// Blinds reveals the destination through widening horizontal strips.
	Blinds
	// Scroll slides both images in a random cardinal direction.
	Scroll
	// Wipe sweeps a straight boundary across the frame.
	Wipe
	// ZoomOut shrinks the source toward the center, uncovering the
	// destination.
	ZoomOut
	// ZoomIn grows the destination from the center over the source.
	ZoomIn
	// IrisOpen reveals the destination through an expanding circle.
	IrisOpen
	// IrisClose reveals the destination outside a shrinking circle.
	IrisClose
	// BarnDoorOpen reveals the destination through a widening center band.
	BarnDoorOpen
	// BarnDoorClose reveals the destination from both side edges inward.
	BarnDoorClose
	// Shrink collapses the source toward a random edge.
	Shrink
	// Stretch grows the destination from a random edge.
	Stretch
	// Plain is an immediate cut: a single frame equal to the destination.
	Plain
)

var kindNames = map[Kind]string{
	AlphaDissolve: "alpha_dissolve",
	PixelDissolve: "pixel_dissolve",
	Checkerboard:  "checkerboard",
	Blinds:        "blinds",
	Scroll:        "scroll",
	Wipe:          "wipe",
	ZoomOut:       "zoom_out",
	ZoomIn:        "zoom_in",
	IrisOpen:      "iris_open",
	IrisClose:     "iris_close",
	BarnDoorOpen:  "barn_door_open",
	BarnDoorClose: "barn_door_close",
	Shrink:        "shrink",
	Stretch:       "stretch",
	Plain:         "plain",
}

// String returns the snake_case name of the kind (used in logs and metric
// labels).
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", int(k))
}

// Registered returns the kinds the selector rotates through. Plain is
// excluded: it is the no-transition fallback, not part of the slideshow
// rotation.
func Registered() []Kind {
	return []Kind{
		AlphaDissolve, PixelDissolve, Checkerboard, Blinds, Scroll, Wipe,
		ZoomOut, ZoomIn, IrisOpen, IrisClose, BarnDoorOpen, BarnDoorClose,
		Shrink, Stretch,
	}
}
