package render

import "image"

// SameSize reports whether two canvases have identical dimensions.
func SameSize(a, b *image.NRGBA) bool {
	return a.Bounds().Dx() == b.Bounds().Dx() && a.Bounds().Dy() == b.Bounds().Dy()
}

// cloneNRGBA returns a deep copy of src.
func cloneNRGBA(src *image.NRGBA) *image.NRGBA {
	out := image.NewNRGBA(src.Bounds())
	copy(out.Pix, src.Pix)
	return out
}

// Clone returns a deep copy of src. Published frames must never alias a
// buffer the pipeline keeps writing to.
func Clone(src *image.NRGBA) *image.NRGBA {
	return cloneNRGBA(src)
}

// Blend composites overlay onto base and returns a new canvas:
// out = base*(1-a) + overlay*a per pixel. Pixels with zero overlay alpha
// are copied through untouched. Neither input is mutated.
func Blend(base, overlay *image.NRGBA) (*image.NRGBA, error) {
	if !SameSize(base, overlay) {
		return nil, ErrDimensionMismatch
	}

	out := cloneNRGBA(base)
	w := base.Bounds().Dx()
	h := base.Bounds().Dy()

	ParallelRows(h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			bi := base.PixOffset(0, y)
			oi := overlay.PixOffset(0, y)
			for x := 0; x < w; x++ {
				a := uint32(overlay.Pix[oi+3])
				switch a {
				case 0:
					// Transparent overlay pixel, base shows through.
				case 255:
					out.Pix[bi] = overlay.Pix[oi]
					out.Pix[bi+1] = overlay.Pix[oi+1]
					out.Pix[bi+2] = overlay.Pix[oi+2]
				default:
					inv := 255 - a
					out.Pix[bi] = uint8((uint32(base.Pix[bi])*inv + uint32(overlay.Pix[oi])*a + 127) / 255)
					out.Pix[bi+1] = uint8((uint32(base.Pix[bi+1])*inv + uint32(overlay.Pix[oi+1])*a + 127) / 255)
					out.Pix[bi+2] = uint8((uint32(base.Pix[bi+2])*inv + uint32(overlay.Pix[oi+2])*a + 127) / 255)
				}
				bi += 4
				oi += 4
			}
		}
	})

	return out, nil
}
