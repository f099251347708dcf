package render

import (
	"image"
	"image/color"

	"github.com/alws34/DigitalPhotoFrame/internal/logging"

	// Image format decoders
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // BMP format support
	_ "golang.org/x/image/webp" // WebP format support
)

// BackgroundMode selects how the letterbox area around a fitted photo is
// filled.
type BackgroundMode string

const (
	// BackgroundBlack fills the letterbox area with flat black.
	BackgroundBlack BackgroundMode = "black"
	// BackgroundBlur fills the letterbox area with a blurred stretch of the
	// photo itself ("frosted glass"). Only applied to portrait photos.
	BackgroundBlur BackgroundMode = "blur"
)

// DefaultBlurRadius is the box-blur kernel radius for the frosted-glass
// backdrop.
const DefaultBlurRadius = 25

// Fitter scales and letterboxes decoded photos onto a fixed-size canvas.
type Fitter struct {
	width      int
	height     int
	mode       BackgroundMode
	blurRadius int
}

// NewFitter returns a Fitter producing width x height canvases.
func NewFitter(width, height int, mode BackgroundMode) *Fitter {
	if mode != BackgroundBlur {
		mode = BackgroundBlack
	}
	return &Fitter{
		width:      width,
		height:     height,
		mode:       mode,
		blurRadius: DefaultBlurRadius,
	}
}

// SetBlurRadius overrides the frosted-glass backdrop blur radius. Values
// below 1 keep the default.
func (f *Fitter) SetBlurRadius(radius int) {
	if radius >= 1 {
		f.blurRadius = radius
	}
}

// Size returns the output canvas dimensions.
func (f *Fitter) Size() (width, height int) {
	return f.width, f.height
}

// Decode reads and decodes a photo file, honoring EXIF orientation.
// Failures are reported as *DecodeError.
func (f *Fitter) Decode(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	return img, nil
}

// FitFile decodes a photo and fits it to the canvas in one step.
func (f *Fitter) FitFile(path string) (*image.NRGBA, error) {
	img, err := f.Decode(path)
	if err != nil {
		return nil, err
	}
	return f.Fit(img), nil
}

// Fit scales img uniformly (aspect ratio preserved) so it is fully
// contained in the canvas and draws it centered. The letterbox area is
// flat black, or a blurred stretch of the photo for portrait images when
// the fitter is in blur mode.
func (f *Fitter) Fit(img image.Image) *image.NRGBA {
	bounds := img.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()
	if srcW == 0 || srcH == 0 {
		return imaging.New(f.width, f.height, color.Black)
	}

	scale := float64(f.width) / float64(srcW)
	if s := float64(f.height) / float64(srcH); s < scale {
		scale = s
	}
	newW := int(float64(srcW) * scale)
	newH := int(float64(srcH) * scale)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	scaled := imaging.Resize(img, newW, newH, imaging.Lanczos)

	background := f.background(img, srcW, srcH)

	return imaging.PasteCenter(background, scaled)
}

// background builds the canvas the fitted photo is pasted onto.
func (f *Fitter) background(img image.Image, srcW, srcH int) *image.NRGBA {
	portrait := srcH > srcW
	if f.mode == BackgroundBlur && portrait {
		logging.Debug("rendering frosted-glass backdrop for portrait photo (%dx%d)", srcW, srcH)
		stretched := imaging.Resize(img, f.width, f.height, imaging.Linear)
		return BoxBlur(stretched, f.blurRadius)
	}
	return imaging.New(f.width, f.height, color.Black)
}
