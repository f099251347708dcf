package render

import "image"

// BoxBlur returns a blurred copy of src. Each output pixel is the unweighted
// mean of all input pixels within a (2*radius+1) square window, clamped at
// the buffer edges (edge pixels average over the smaller intersected
// window).
//
// The mean over the clamped rectangle factorizes into a horizontal pass of
// row means followed by a vertical pass of column means, so this runs in
// O(W*H*radius) with a running sum instead of the naive O(W*H*radius^2).
func BoxBlur(src *image.NRGBA, radius int) *image.NRGBA {
	if radius < 1 {
		return cloneNRGBA(src)
	}

	w := src.Bounds().Dx()
	h := src.Bounds().Dy()

	horizontal := image.NewNRGBA(image.Rect(0, 0, w, h))
	ParallelRows(h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			blurRow(src, horizontal, y, w, radius)
		}
	})

	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	// Column pass; chunk over x by reusing the row splitter.
	ParallelRows(w, func(x0, x1 int) {
		for x := x0; x < x1; x++ {
			blurColumn(horizontal, out, x, h, radius)
		}
	})

	return out
}

// blurRow writes the horizontal running-mean of row y into dst.
func blurRow(src, dst *image.NRGBA, y, w, radius int) {
	var sumR, sumG, sumB, sumA uint32
	// Prime the window for x=0: columns [0, radius].
	hi := radius
	if hi >= w {
		hi = w - 1
	}
	for x := 0; x <= hi; x++ {
		i := src.PixOffset(x, y)
		sumR += uint32(src.Pix[i])
		sumG += uint32(src.Pix[i+1])
		sumB += uint32(src.Pix[i+2])
		sumA += uint32(src.Pix[i+3])
	}
	count := uint32(hi + 1)

	for x := 0; x < w; x++ {
		o := dst.PixOffset(x, y)
		dst.Pix[o] = uint8(sumR / count)
		dst.Pix[o+1] = uint8(sumG / count)
		dst.Pix[o+2] = uint8(sumB / count)
		dst.Pix[o+3] = uint8(sumA / count)

		// Slide the window: add x+radius+1, drop x-radius.
		if add := x + radius + 1; add < w {
			i := src.PixOffset(add, y)
			sumR += uint32(src.Pix[i])
			sumG += uint32(src.Pix[i+1])
			sumB += uint32(src.Pix[i+2])
			sumA += uint32(src.Pix[i+3])
			count++
		}
		if drop := x - radius; drop >= 0 {
			i := src.PixOffset(drop, y)
			sumR -= uint32(src.Pix[i])
			sumG -= uint32(src.Pix[i+1])
			sumB -= uint32(src.Pix[i+2])
			sumA -= uint32(src.Pix[i+3])
			count--
		}
	}
}

// blurColumn writes the vertical running-mean of column x into dst.
func blurColumn(src, dst *image.NRGBA, x, h, radius int) {
	var sumR, sumG, sumB, sumA uint32
	hi := radius
	if hi >= h {
		hi = h - 1
	}
	for y := 0; y <= hi; y++ {
		i := src.PixOffset(x, y)
		sumR += uint32(src.Pix[i])
		sumG += uint32(src.Pix[i+1])
		sumB += uint32(src.Pix[i+2])
		sumA += uint32(src.Pix[i+3])
	}
	count := uint32(hi + 1)

	for y := 0; y < h; y++ {
		o := dst.PixOffset(x, y)
		dst.Pix[o] = uint8(sumR / count)
		dst.Pix[o+1] = uint8(sumG / count)
		dst.Pix[o+2] = uint8(sumB / count)
		dst.Pix[o+3] = uint8(sumA / count)

		if add := y + radius + 1; add < h {
			i := src.PixOffset(x, add)
			sumR += uint32(src.Pix[i])
			sumG += uint32(src.Pix[i+1])
			sumB += uint32(src.Pix[i+2])
			sumA += uint32(src.Pix[i+3])
			count++
		}
		if drop := y - radius; drop >= 0 {
			i := src.PixOffset(x, drop)
			sumR -= uint32(src.Pix[i])
			sumG -= uint32(src.Pix[i+1])
			sumB -= uint32(src.Pix[i+2])
			sumA -= uint32(src.Pix[i+3])
			count--
		}
	}
}
