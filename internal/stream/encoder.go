package stream

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"sync/atomic"
	"time"

	"github.com/davidbyttow/govips/v2/vips"

	"github.com/alws34/DigitalPhotoFrame/internal/logging"
	"github.com/alws34/DigitalPhotoFrame/internal/metrics"
)

// DefaultJPEGQuality is used when the configured quality is out of range.
const DefaultJPEGQuality = 85

// Encoder turns canvases into JPEG bytes. It prefers libvips and falls
// back to image/jpeg, permanently after the first vips failure. Safe for
// concurrent use by multiple stream clients.
type Encoder struct {
	quality int
	useVips atomic.Bool
}

// NewEncoder creates an encoder with the given JPEG quality (1-100).
func NewEncoder(quality int) *Encoder {
	if quality < 1 || quality > 100 {
		quality = DefaultJPEGQuality
	}
	e := &Encoder{quality: quality}
	e.useVips.Store(VipsAvailable())
	return e
}

// Encode returns img as JPEG bytes.
func (e *Encoder) Encode(img *image.NRGBA) ([]byte, error) {
	if e.useVips.Load() {
		data, err := e.encodeVips(img)
		if err == nil {
			return data, nil
		}
		// One failure means the vips path is broken (bad install, OOM);
		// don't pay for the attempt on every frame.
		logging.Warn("vips encode failed, switching to image/jpeg: %v", err)
		e.useVips.Store(false)
	}
	return e.encodeStdlib(img)
}

func (e *Encoder) encodeVips(img *image.NRGBA) ([]byte, error) {
	start := time.Now()
	defer func() {
		metrics.EncodeDuration.WithLabelValues("vips").Observe(time.Since(start).Seconds())
	}()

	b := img.Bounds()
	ref, err := vips.NewImageFromMemory(img.Pix, b.Dx(), b.Dy(), 4)
	if err != nil {
		return nil, fmt.Errorf("vips import failed: %w", err)
	}
	defer ref.Close()

	// JPEG has no alpha channel; the canvas is always opaque anyway.
	if err := ref.Flatten(&vips.Color{R: 0, G: 0, B: 0}); err != nil {
		return nil, fmt.Errorf("vips flatten failed: %w", err)
	}

	data, _, err := ref.ExportJpeg(&vips.JpegExportParams{
		Quality:        e.quality,
		StripMetadata:  true,
		OptimizeCoding: true,
	})
	if err != nil {
		return nil, fmt.Errorf("vips export failed: %w", err)
	}
	return data, nil
}

func (e *Encoder) encodeStdlib(img *image.NRGBA) ([]byte, error) {
	start := time.Now()
	defer func() {
		metrics.EncodeDuration.WithLabelValues("stdlib").Observe(time.Since(start).Seconds())
	}()

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: e.quality}); err != nil {
		return nil, fmt.Errorf("jpeg encode failed: %w", err)
	}
	return buf.Bytes(), nil
}
