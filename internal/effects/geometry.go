package effects

import (
	"image"
	"math"

	"github.com/alws34/DigitalPhotoFrame/internal/render"

	"github.com/disintegration/imaging"
)

// scroll slides both images together in one cardinal direction: the source
// moves off one edge while the destination follows it in from the other.
func scroll(src, dst *image.NRGBA, p float64, dir direction) *image.NRGBA {
	w := src.Bounds().Dx()
	h := src.Bounds().Dy()
	out := image.NewNRGBA(image.Rect(0, 0, w, h))

	switch dir {
	case dirLeft, dirRight:
		off := int(math.Round(p * float64(w)))
		render.ParallelRows(h, func(y0, y1 int) {
			for y := y0; y < y1; y++ {
				o := out.PixOffset(0, y)
				s := src.PixOffset(0, y)
				d := dst.PixOffset(0, y)
				if dir == dirLeft {
					// Source slides left; destination enters from the right.
					copy(out.Pix[o:o+(w-off)*4], src.Pix[s+off*4:s+w*4])
					copy(out.Pix[o+(w-off)*4:o+w*4], dst.Pix[d:d+off*4])
				} else {
					// Source slides right; destination enters from the left.
					copy(out.Pix[o:o+off*4], dst.Pix[d+(w-off)*4:d+w*4])
					copy(out.Pix[o+off*4:o+w*4], src.Pix[s:s+(w-off)*4])
				}
			}
		})
	case dirUp:
		off := int(math.Round(p * float64(h)))
		// Source slides up; destination enters from the bottom.
		for y := 0; y < h-off; y++ {
			copyRow(out, src, y, y+off, w)
		}
		for y := h - off; y < h; y++ {
			copyRow(out, dst, y, y-(h-off), w)
		}
	default: // dirDown
		off := int(math.Round(p * float64(h)))
		// Source slides down; destination enters from the top.
		for y := 0; y < off; y++ {
			copyRow(out, dst, y, h-off+y, w)
		}
		for y := off; y < h; y++ {
			copyRow(out, src, y, y-off, w)
		}
	}

	return out
}

// copyRow copies row srcY of from into row dstY of to.
func copyRow(to, from *image.NRGBA, dstY, srcY, w int) {
	o := to.PixOffset(0, dstY)
	s := from.PixOffset(0, srcY)
	copy(to.Pix[o:o+w*4], from.Pix[s:s+w*4])
}

// zoomIn grows the destination from a point at the canvas center until it
// covers the source.
func zoomIn(src, dst *image.NRGBA, p float64) *image.NRGBA {
	w := src.Bounds().Dx()
	h := src.Bounds().Dy()
	cw := scaledSpan(w, p)
	ch := scaledSpan(h, p)

	scaled := imaging.Resize(dst, cw, ch, imaging.Linear)
	return imaging.PasteCenter(src, scaled)
}

// zoomOut shrinks the source toward the canvas center, uncovering the
// destination behind it.
func zoomOut(src, dst *image.NRGBA, p float64) *image.NRGBA {
	w := src.Bounds().Dx()
	h := src.Bounds().Dy()
	cw := scaledSpan(w, 1-p)
	ch := scaledSpan(h, 1-p)

	scaled := imaging.Resize(src, cw, ch, imaging.Linear)
	return imaging.PasteCenter(dst, scaled)
}

// shrink collapses the source along one axis toward an edge, uncovering the
// destination.
func shrink(src, dst *image.NRGBA, p float64, dir direction) *image.NRGBA {
	w := src.Bounds().Dx()
	h := src.Bounds().Dy()

	var scaled *image.NRGBA
	var pos image.Point
	switch dir {
	case dirLeft:
		sw := scaledSpan(w, 1-p)
		scaled = imaging.Resize(src, sw, h, imaging.Linear)
		pos = image.Pt(0, 0)
	case dirRight:
		sw := scaledSpan(w, 1-p)
		scaled = imaging.Resize(src, sw, h, imaging.Linear)
		pos = image.Pt(w-sw, 0)
	case dirUp:
		sh := scaledSpan(h, 1-p)
		scaled = imaging.Resize(src, w, sh, imaging.Linear)
		pos = image.Pt(0, 0)
	default: // dirDown
		sh := scaledSpan(h, 1-p)
		scaled = imaging.Resize(src, w, sh, imaging.Linear)
		pos = image.Pt(0, h-sh)
	}

	return imaging.Paste(dst, scaled, pos)
}

// stretch grows the destination along one axis from an edge over the
// source.
func stretch(src, dst *image.NRGBA, p float64, dir direction) *image.NRGBA {
	w := src.Bounds().Dx()
	h := src.Bounds().Dy()

	var scaled *image.NRGBA
	var pos image.Point
	switch dir {
	case dirLeft:
		dw := scaledSpan(w, p)
		scaled = imaging.Resize(dst, dw, h, imaging.Linear)
		pos = image.Pt(0, 0)
	case dirRight:
		dw := scaledSpan(w, p)
		scaled = imaging.Resize(dst, dw, h, imaging.Linear)
		pos = image.Pt(w-dw, 0)
	case dirUp:
		dh := scaledSpan(h, p)
		scaled = imaging.Resize(dst, w, dh, imaging.Linear)
		pos = image.Pt(0, 0)
	default: // dirDown
		dh := scaledSpan(h, p)
		scaled = imaging.Resize(dst, w, dh, imaging.Linear)
		pos = image.Pt(0, h-dh)
	}

	return imaging.Paste(src, scaled, pos)
}

// scaledSpan converts a progress fraction to a pixel span in [1, full].
func scaledSpan(full int, p float64) int {
	s := int(math.Round(p * float64(full)))
	if s < 1 {
		s = 1
	}
	if s > full {
		s = full
	}
	return s
}
