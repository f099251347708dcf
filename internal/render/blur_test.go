package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
)

func TestBoxBlurSolidColorUnchanged(t *testing.T) {
	src := imaging.New(64, 48, color.NRGBA{R: 10, G: 200, B: 30, A: 255})
	out := BoxBlur(src, 5)

	for _, p := range []image.Point{{0, 0}, {63, 47}, {32, 24}, {0, 47}} {
		if c := out.NRGBAAt(p.X, p.Y); c != (color.NRGBA{R: 10, G: 200, B: 30, A: 255}) {
			t.Errorf("pixel %v = %v, want unchanged solid color", p, c)
		}
	}
}

func TestBoxBlurMatchesNaiveMean(t *testing.T) {
	// Cross-check the separable running-sum implementation against the
	// direct definition: unweighted mean over the edge-clamped window.
	src := image.NewNRGBA(image.Rect(0, 0, 13, 9))
	for y := 0; y < 9; y++ {
		for x := 0; x < 13; x++ {
			src.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x*19 + y*7),
				G: uint8(x * y),
				B: uint8(255 - x*11),
				A: 255,
			})
		}
	}

	const radius = 3
	out := BoxBlur(src, radius)

	naive := func(cx, cy, ch int) uint8 {
		var sum, count uint32
		for y := cy - radius; y <= cy+radius; y++ {
			if y < 0 || y >= 9 {
				continue
			}
			for x := cx - radius; x <= cx+radius; x++ {
				if x < 0 || x >= 13 {
					continue
				}
				sum += uint32(src.Pix[src.PixOffset(x, y)+ch])
				count++
			}
		}
		return uint8(sum / count)
	}

	for y := 0; y < 9; y++ {
		for x := 0; x < 13; x++ {
			for ch := 0; ch < 4; ch++ {
				got := out.Pix[out.PixOffset(x, y)+ch]
				want := naive(x, y, ch)
				// The two-pass mean rounds each pass down; allow one
				// count of truncation drift per pass.
				diff := int(got) - int(want)
				if diff < -2 || diff > 2 {
					t.Fatalf("pixel (%d,%d) ch %d = %d, naive mean %d", x, y, ch, got, want)
				}
			}
		}
	}
}

func TestBoxBlurZeroRadiusCopies(t *testing.T) {
	src := gradientImage(t, 16, 16)
	out := BoxBlur(src, 0)

	if &out.Pix[0] == &src.Pix[0] {
		t.Fatal("BoxBlur(radius=0) returned the input buffer, want a copy")
	}
	for i := range src.Pix {
		if out.Pix[i] != src.Pix[i] {
			t.Fatalf("pixel byte %d differs for radius 0", i)
		}
	}
}
