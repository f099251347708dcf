package effects

import (
	"image"
	"math"

	"github.com/alws34/DigitalPhotoFrame/internal/render"
)

const (
	checkerboardGrid = 8
	blindsStrips     = 16
)

// maskFunc reports whether the destination is revealed at (x, y). Mask
// functions carry no state across frames.
type maskFunc func(x, y int) bool

// composeMask builds a frame by choosing, per pixel, between src and dst.
func composeMask(src, dst *image.NRGBA, mask maskFunc) *image.NRGBA {
	w := src.Bounds().Dx()
	h := src.Bounds().Dy()
	out := image.NewNRGBA(image.Rect(0, 0, w, h))

	render.ParallelRows(h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			i := out.PixOffset(0, y)
			si := src.PixOffset(0, y)
			di := dst.PixOffset(0, y)
			for x := 0; x < w; x++ {
				if mask(x, y) {
					copy(out.Pix[i:i+4], dst.Pix[di:di+4])
				} else {
					copy(out.Pix[i:i+4], src.Pix[si:si+4])
				}
				i += 4
				si += 4
				di += 4
			}
		}
	})

	return out
}

// alphaDissolve is the uniform cross-fade: out = src*(1-p) + dst*p.
func alphaDissolve(src, dst *image.NRGBA, p float64) *image.NRGBA {
	w := src.Bounds().Dx()
	h := src.Bounds().Dy()
	out := image.NewNRGBA(image.Rect(0, 0, w, h))

	a := uint32(p*65536 + 0.5)
	inv := 65536 - a

	render.ParallelRows(h, func(y0, y1 int) {
		lo := out.PixOffset(0, y0)
		hi := out.PixOffset(0, y1-1) + w*4
		for i := lo; i < hi; i++ {
			out.Pix[i] = uint8((uint32(src.Pix[i])*inv + uint32(dst.Pix[i])*a) >> 16)
		}
	})

	return out
}

// pixelDissolveMask reveals pixels once their per-pixel threshold falls
// below the progress value. The threshold is a hash of the coordinates and
// the per-transition seed, so the reveal order is random-looking but stable
// across the frames of one transition.
func pixelDissolveMask(p float64, seed uint64) maskFunc {
	cut := uint32(p * 65536)
	return func(x, y int) bool {
		return dissolveThreshold(x, y, seed) < cut
	}
}

func dissolveThreshold(x, y int, seed uint64) uint32 {
	h := uint64(x)*0x9E3779B97F4A7C15 + uint64(y)*0xC2B2AE3D27D4EB4F + seed
	h ^= h >> 33
	h *= 0xFF51AFD7ED558CCD
	h ^= h >> 29
	return uint32(h & 0xFFFF)
}

// checkerboardMask fills cells top-to-bottom on an 8x8 grid; cells of even
// parity fill during the first half of the transition, odd parity during
// the second half.
func checkerboardMask(canvas *image.NRGBA, p float64) maskFunc {
	w := canvas.Bounds().Dx()
	h := canvas.Bounds().Dy()
	cellW := w / checkerboardGrid
	cellH := h / checkerboardGrid
	if cellW < 1 {
		cellW = 1
	}
	if cellH < 1 {
		cellH = 1
	}

	return func(x, y int) bool {
		cx := x / cellW
		if cx >= checkerboardGrid {
			cx = checkerboardGrid - 1
		}
		cy := y / cellH
		if cy >= checkerboardGrid {
			cy = checkerboardGrid - 1
		}

		start := 0.0
		if (cx+cy)%2 == 1 {
			start = 0.5
		}
		local := (p - start) * 2
		if local <= 0 {
			return false
		}
		if local >= 1 {
			return true
		}

		cellTop := cy * cellH
		cellBottom := cellTop + cellH
		if cy == checkerboardGrid-1 {
			cellBottom = h
		}
		return float64(y-cellTop) < local*float64(cellBottom-cellTop)
	}
}

// blindsMask fills each horizontal strip downward in lockstep.
func blindsMask(canvas *image.NRGBA, p float64) maskFunc {
	h := canvas.Bounds().Dy()
	stripH := h / blindsStrips
	if stripH < 1 {
		stripH = 1
	}

	return func(_, y int) bool {
		sy := y / stripH
		if sy >= blindsStrips {
			sy = blindsStrips - 1
		}
		top := sy * stripH
		bottom := top + stripH
		if sy == blindsStrips-1 {
			bottom = h
		}
		return float64(y-top) < p*float64(bottom-top)
	}
}

// wipeMask sweeps a straight boundary across the frame: at progress p the
// destination covers a p-fraction measured from the leading edge.
func wipeMask(canvas *image.NRGBA, p float64, dir direction) maskFunc {
	w := float64(canvas.Bounds().Dx())
	h := float64(canvas.Bounds().Dy())

	switch dir {
	case dirLeft:
		edge := p * w
		return func(x, _ int) bool { return float64(x) < edge }
	case dirRight:
		edge := (1 - p) * w
		return func(x, _ int) bool { return float64(x) >= edge }
	case dirUp:
		edge := p * h
		return func(_, y int) bool { return float64(y) < edge }
	default: // dirDown
		edge := (1 - p) * h
		return func(_, y int) bool { return float64(y) >= edge }
	}
}

// irisMask reveals the destination inside an expanding circle (open) or
// outside a shrinking one (close). The limit radius reaches the canvas
// corners so the sweep covers the full frame.
func irisMask(canvas *image.NRGBA, p float64, open bool) maskFunc {
	cx := float64(canvas.Bounds().Dx()) / 2
	cy := float64(canvas.Bounds().Dy()) / 2
	maxR := math.Hypot(cx, cy) + 1

	if open {
		r2 := (p * maxR) * (p * maxR)
		return func(x, y int) bool {
			dx := float64(x) + 0.5 - cx
			dy := float64(y) + 0.5 - cy
			return dx*dx+dy*dy <= r2
		}
	}
	r2 := ((1 - p) * maxR) * ((1 - p) * maxR)
	return func(x, y int) bool {
		dx := float64(x) + 0.5 - cx
		dy := float64(y) + 0.5 - cy
		return dx*dx+dy*dy >= r2
	}
}

// barnDoorMask reveals the destination in a widening band from the vertical
// center line (open) or from both side edges inward (close).
func barnDoorMask(canvas *image.NRGBA, p float64, open bool) maskFunc {
	w := canvas.Bounds().Dx()
	c := float64(w) / 2

	if open {
		half := p * c
		return func(x, _ int) bool {
			return math.Abs(float64(x)+0.5-c) <= half
		}
	}
	edge := p * c
	return func(x, _ int) bool {
		return float64(x) < edge || float64(w-1-x) < edge
	}
}
