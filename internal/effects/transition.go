package effects

import (
	"image"
	"math"
	"math/rand"
	"time"

	"github.com/alws34/DigitalPhotoFrame/internal/render"
)

// direction is the sweep direction for directional effects, chosen at
// construction time.
type direction int

const (
	dirLeft direction = iota
	dirRight
	dirUp
	dirDown
)

// Transition lazily generates the frame sequence of one effect between two
// same-sized canvases. It is single-use: create a fresh Transition per
// cycle.
type Transition struct {
	kind Kind
	src  *image.NRGBA
	dst  *image.NRGBA

	n int // total frames
	i int // next frame index

	dir  direction
	seed uint64
}

// New builds a transition of the given kind from src to dst. Frame count is
// max(1, round(duration/1s * fps)); Plain always emits a single frame.
// src and dst must share dimensions, otherwise render.ErrDimensionMismatch
// is returned. rng supplies the sweep direction for directional kinds and
// the dissolve ordering seed; it may be nil for an unseeded default.
func New(kind Kind, src, dst *image.NRGBA, duration time.Duration, fps int, rng *rand.Rand) (*Transition, error) {
	if !render.SameSize(src, dst) {
		return nil, render.ErrDimensionMismatch
	}

	n := int(math.Round(duration.Seconds() * float64(fps)))
	if n < 1 {
		n = 1
	}
	if kind == Plain {
		n = 1
	}

	t := &Transition{
		kind: kind,
		src:  src,
		dst:  dst,
		n:    n,
	}
	if rng != nil {
		t.dir = direction(rng.Intn(4))
		t.seed = rng.Uint64()
	}
	return t, nil
}

// Len returns the total number of frames the transition yields.
func (t *Transition) Len() int {
	return t.n
}

// Next renders and returns the next frame. ok is false once the sequence is
// exhausted. Returned frames are freshly allocated and safe to publish.
func (t *Transition) Next() (frame *image.NRGBA, ok bool) {
	if t.i >= t.n {
		return nil, false
	}
	frame = t.frameAt(t.i)
	t.i++
	return frame, true
}

// frameAt computes frame i from scratch. Endpoint frames are exact copies
// of the source and destination canvases; everything in between is a pure
// function of the progress value.
func (t *Transition) frameAt(i int) *image.NRGBA {
	if i >= t.n-1 {
		return render.Clone(t.dst)
	}
	if i <= 0 {
		return render.Clone(t.src)
	}

	p := float64(i) / float64(t.n-1)

	switch t.kind {
	case AlphaDissolve:
		return alphaDissolve(t.src, t.dst, p)
	case PixelDissolve:
		return composeMask(t.src, t.dst, pixelDissolveMask(p, t.seed))
	case Checkerboard:
		return composeMask(t.src, t.dst, checkerboardMask(t.src, p))
	case Blinds:
		return composeMask(t.src, t.dst, blindsMask(t.src, p))
	case Wipe:
		return composeMask(t.src, t.dst, wipeMask(t.src, p, t.dir))
	case IrisOpen:
		return composeMask(t.src, t.dst, irisMask(t.src, p, true))
	case IrisClose:
		return composeMask(t.src, t.dst, irisMask(t.src, p, false))
	case BarnDoorOpen:
		return composeMask(t.src, t.dst, barnDoorMask(t.src, p, true))
	case BarnDoorClose:
		return composeMask(t.src, t.dst, barnDoorMask(t.src, p, false))
	case Scroll:
		return scroll(t.src, t.dst, p, t.dir)
	case ZoomIn:
		return zoomIn(t.src, t.dst, p)
	case ZoomOut:
		return zoomOut(t.src, t.dst, p)
	case Shrink:
		return shrink(t.src, t.dst, p, t.dir)
	case Stretch:
		return stretch(t.src, t.dst, p, t.dir)
	default: // Plain and anything unknown cut straight to the destination.
		return render.Clone(t.dst)
	}
}
