package render

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
)

func TestBlendDimensionMismatch(t *testing.T) {
	base := imaging.New(100, 100, color.Black)
	overlay := imaging.New(100, 50, color.Transparent)

	if _, err := Blend(base, overlay); err != ErrDimensionMismatch {
		t.Fatalf("Blend error = %v, want ErrDimensionMismatch", err)
	}
}

func TestBlendDoesNotMutateInputs(t *testing.T) {
	base := gradientImage(t, 32, 32)
	overlay := imaging.New(32, 32, color.NRGBA{R: 255, A: 128})

	baseCopy := make([]byte, len(base.Pix))
	copy(baseCopy, base.Pix)
	overlayCopy := make([]byte, len(overlay.Pix))
	copy(overlayCopy, overlay.Pix)

	if _, err := Blend(base, overlay); err != nil {
		t.Fatalf("Blend returned error: %v", err)
	}

	if !bytes.Equal(base.Pix, baseCopy) {
		t.Error("Blend mutated the base canvas")
	}
	if !bytes.Equal(overlay.Pix, overlayCopy) {
		t.Error("Blend mutated the overlay layer")
	}
}

func TestBlendTransparentOverlayIsNoop(t *testing.T) {
	base := gradientImage(t, 32, 32)
	overlay := image.NewNRGBA(image.Rect(0, 0, 32, 32)) // all alpha 0

	out, err := Blend(base, overlay)
	if err != nil {
		t.Fatalf("Blend returned error: %v", err)
	}
	if !bytes.Equal(out.Pix, base.Pix) {
		t.Error("fully transparent overlay changed the frame")
	}
}

func TestBlendAlphaComposite(t *testing.T) {
	base := imaging.New(4, 4, color.NRGBA{R: 100, G: 100, B: 100, A: 255})

	tests := []struct {
		name    string
		overlay color.NRGBA
		want    color.NRGBA
	}{
		{
			name:    "Opaque overlay replaces base",
			overlay: color.NRGBA{R: 200, G: 10, B: 30, A: 255},
			want:    color.NRGBA{R: 200, G: 10, B: 30, A: 255},
		},
		{
			name:    "Half alpha mixes evenly",
			overlay: color.NRGBA{R: 200, G: 100, B: 0, A: 128},
			// 100*(127/255) + 200*(128/255) ~= 150 (rounded)
			want: color.NRGBA{R: 150, G: 100, B: 50, A: 255},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			overlay := imaging.New(4, 4, tt.overlay)
			out, err := Blend(base, overlay)
			if err != nil {
				t.Fatalf("Blend returned error: %v", err)
			}
			got := out.NRGBAAt(2, 2)
			for ch, pair := range map[string][2]uint8{
				"R": {got.R, tt.want.R},
				"G": {got.G, tt.want.G},
				"B": {got.B, tt.want.B},
			} {
				if d := int(pair[0]) - int(pair[1]); d < -1 || d > 1 {
					t.Errorf("channel %s = %d, want %d (+/-1)", ch, pair[0], pair[1])
				}
			}
		})
	}
}
