package overlay

import (
	"fmt"
	"hash/fnv"
	"image"
	"image/color"
	"strings"
	"sync"
	"time"

	"github.com/alws34/DigitalPhotoFrame/internal/logging"
	"github.com/alws34/DigitalPhotoFrame/internal/metrics"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// Style configures overlay typography and placement. Zero values fall back
// to the defaults below.
type Style struct {
	// FontPath is an optional TTF file; empty uses the embedded Go Regular.
	FontPath string

	TimeFontSize   float64
	DateFontSize   float64
	StatusFontSize float64

	TimeFormat string
	DateFormat string

	MarginLeft   int
	MarginBottom int
	MarginTop    int
	Spacing      int

	Color color.NRGBA
}

// DefaultStyle mirrors the stock settings.json layout.
func DefaultStyle() Style {
	return Style{
		TimeFontSize:   50,
		DateFontSize:   30,
		StatusFontSize: 20,
		TimeFormat:     "15:04:05",
		DateFormat:     "02/01/06",
		MarginLeft:     50,
		MarginBottom:   50,
		MarginTop:      20,
		Spacing:        10,
		Color:          color.NRGBA{R: 255, G: 255, B: 255, A: 255},
	}
}

// Renderer produces the cached overlay layer.
type Renderer struct {
	width  int
	height int
	style  Style

	timeFace   font.Face
	dateFace   font.Face
	statusFace font.Face

	mu         sync.RWMutex
	statusText []string
	cached     *image.NRGBA
	cachedKey  cacheKey
}

type cacheKey struct {
	second     int64
	statusHash uint64
}

// New creates a renderer for width x height canvases.
func New(width, height int, style Style) (*Renderer, error) {
	def := DefaultStyle()
	if style.TimeFontSize <= 0 {
		style.TimeFontSize = def.TimeFontSize
	}
	if style.DateFontSize <= 0 {
		style.DateFontSize = def.DateFontSize
	}
	if style.StatusFontSize <= 0 {
		style.StatusFontSize = def.StatusFontSize
	}
	if style.TimeFormat == "" {
		style.TimeFormat = def.TimeFormat
	}
	if style.DateFormat == "" {
		style.DateFormat = def.DateFormat
	}
	if style.Color.A == 0 {
		style.Color = def.Color
	}

	r := &Renderer{
		width:  width,
		height: height,
		style:  style,
	}

	var err error
	if style.FontPath != "" {
		r.timeFace, err = gg.LoadFontFace(style.FontPath, style.TimeFontSize)
		if err != nil {
			return nil, fmt.Errorf("load font %s: %w", style.FontPath, err)
		}
		r.dateFace, err = gg.LoadFontFace(style.FontPath, style.DateFontSize)
		if err != nil {
			return nil, fmt.Errorf("load font %s: %w", style.FontPath, err)
		}
		r.statusFace, err = gg.LoadFontFace(style.FontPath, style.StatusFontSize)
		if err != nil {
			return nil, fmt.Errorf("load font %s: %w", style.FontPath, err)
		}
		return r, nil
	}

	parsed, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse embedded font: %w", err)
	}
	r.timeFace = truetype.NewFace(parsed, &truetype.Options{Size: style.TimeFontSize})
	r.dateFace = truetype.NewFace(parsed, &truetype.Options{Size: style.DateFontSize})
	r.statusFace = truetype.NewFace(parsed, &truetype.Options{Size: style.StatusFontSize})
	return r, nil
}

// SetStatusLines replaces the status text. The next Layer call with a
// changed hash regenerates the overlay immediately.
func (r *Renderer) SetStatusLines(lines []string) {
	r.mu.Lock()
	r.statusText = append([]string(nil), lines...)
	r.mu.Unlock()
}

// Layer returns the overlay for the given instant, reusing the cached
// buffer when neither the second nor the status text changed. The returned
// layer is never mutated in place; callers may hold it across the swap.
func (r *Renderer) Layer(now time.Time) *image.NRGBA {
	key := cacheKey{second: now.Unix()}

	r.mu.RLock()
	key.statusHash = hashLines(r.statusText)
	if r.cached != nil && r.cachedKey == key {
		layer := r.cached
		r.mu.RUnlock()
		return layer
	}
	status := append([]string(nil), r.statusText...)
	r.mu.RUnlock()

	layer := r.render(now, status)

	r.mu.Lock()
	r.cached = layer
	r.cachedKey = key
	r.mu.Unlock()

	return layer
}

// Run regenerates the cached layer about once per second until ctx is
// done, so the playback loop almost always hits the cache.
func (r *Renderer) Run(done <-chan struct{}) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			logging.Debug("overlay refresh ticker stopped")
			return
		case now := <-ticker.C:
			r.Layer(now)
		}
	}
}

// render draws the clock, date, and status lines into a transparent layer.
func (r *Renderer) render(now time.Time, status []string) *image.NRGBA {
	start := time.Now()

	dc := gg.NewContext(r.width, r.height)
	dc.SetColor(r.style.Color)

	timeText := now.Format(r.style.TimeFormat)
	dateText := now.Format(r.style.DateFormat)

	// Date sits at the bottom-left margin; the clock is centered above it.
	dc.SetFontFace(r.dateFace)
	dateW, dateH := dc.MeasureString(dateText)
	xDate := float64(r.style.MarginLeft)
	yDate := float64(r.height - r.style.MarginBottom)
	dc.DrawString(dateText, xDate, yDate)

	dc.SetFontFace(r.timeFace)
	timeW, _ := dc.MeasureString(timeText)
	xTime := xDate + (dateW-timeW)/2
	yTime := yDate - dateH - float64(r.style.Spacing)
	dc.DrawString(timeText, xTime, yTime)

	// Status lines stack down from the top-left corner.
	if len(status) > 0 {
		dc.SetFontFace(r.statusFace)
		y := float64(r.style.MarginTop) + r.style.StatusFontSize
		for _, line := range status {
			if line == "" {
				continue
			}
			dc.DrawString(line, float64(r.style.MarginLeft), y)
			y += r.style.StatusFontSize + float64(r.style.Spacing)/2
		}
	}

	layer := imaging.Clone(dc.Image())

	metrics.OverlayRendersTotal.Inc()
	metrics.OverlayRenderDuration.Observe(time.Since(start).Seconds())

	return layer
}

func hashLines(lines []string) uint64 {
	h := fnv.New64a()
	for _, line := range lines {
		_, _ = h.Write([]byte(line))
		_, _ = h.Write([]byte{'\n'})
	}
	return h.Sum64()
}

// Describe returns a short human-readable summary for logs.
func (r *Renderer) Describe() string {
	font := r.style.FontPath
	if font == "" {
		font = "embedded Go Regular"
	}
	return fmt.Sprintf("%dx%d overlay, font %s, formats %q/%q",
		r.width, r.height, font, strings.TrimSpace(r.style.TimeFormat), strings.TrimSpace(r.style.DateFormat))
}
