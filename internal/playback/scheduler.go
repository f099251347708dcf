package playback

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math/rand"
	"sync"
	"time"

	"github.com/alws34/DigitalPhotoFrame/internal/effects"
	"github.com/alws34/DigitalPhotoFrame/internal/logging"
	"github.com/alws34/DigitalPhotoFrame/internal/metrics"
	"github.com/alws34/DigitalPhotoFrame/internal/overlay"
	"github.com/alws34/DigitalPhotoFrame/internal/render"
)

// ErrEmptyLibrary is returned by Run when the photo library holds no
// photos at startup. The caller decides whether that ends the process.
var ErrEmptyLibrary = errors.New("photo library is empty")

// DefaultRepeatThreshold is the library size below which an immediate
// repeat of the current photo is tolerated.
const DefaultRepeatThreshold = 10

// Library supplies the current snapshot of photo file paths.
type Library interface {
	Paths() []string
}

// Recorder is notified when a photo is shown; used to keep per-photo
// metadata (times shown, last shown). May be nil.
type Recorder interface {
	RecordShown(path string, at time.Time)
}

// Config carries the resolved playback settings.
type Config struct {
	TransitionDuration time.Duration
	FPS                int
	// IdleDelay is how long the current photo stays on screen between
	// transitions.
	IdleDelay time.Duration
	// IdleInterval is the republish cadence while idle; the photo is
	// static but the overlay clock keeps advancing.
	IdleInterval time.Duration
	// RepeatThreshold is the minimum library size for repeat avoidance.
	RepeatThreshold int
	// MaxDecodeRetries bounds how many different photos one cycle tries
	// before giving up until the next cycle.
	MaxDecodeRetries int
}

func (c *Config) applyDefaults() {
	if c.FPS <= 0 {
		c.FPS = 30
	}
	if c.TransitionDuration <= 0 {
		c.TransitionDuration = 3 * time.Second
	}
	if c.IdleDelay <= 0 {
		c.IdleDelay = 10 * time.Second
	}
	if c.IdleInterval <= 0 {
		c.IdleInterval = time.Second
	}
	if c.RepeatThreshold <= 0 {
		c.RepeatThreshold = DefaultRepeatThreshold
	}
	if c.MaxDecodeRetries <= 0 {
		c.MaxDecodeRetries = 5
	}
}

// Scheduler runs the Idle -> Transitioning -> Idle loop. It is the sole
// writer of canvas buffers; everything it publishes is freshly allocated.
type Scheduler struct {
	cfg      Config
	library  Library
	fitter   *render.Fitter
	overlay  *overlay.Renderer
	selector *effects.Selector
	bus      *Bus
	rng      *rand.Rand
	recorder Recorder

	// current is touched only by the Run goroutine.
	current *image.NRGBA

	// currentPath is read by HTTP handlers while Run writes it.
	mu          sync.Mutex
	currentPath string
}

// New assembles a scheduler. recorder may be nil.
func New(cfg Config, lib Library, fitter *render.Fitter, ov *overlay.Renderer, sel *effects.Selector, bus *Bus, rng *rand.Rand, recorder Recorder) *Scheduler {
	cfg.applyDefaults()
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Scheduler{
		cfg:      cfg,
		library:  lib,
		fitter:   fitter,
		overlay:  ov,
		selector: sel,
		bus:      bus,
		rng:      rng,
		recorder: recorder,
	}
}

// CurrentPath returns the path of the photo currently on screen. Safe to
// call from any goroutine while Run executes.
func (s *Scheduler) CurrentPath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentPath
}

func (s *Scheduler) setCurrentPath(path string) {
	s.mu.Lock()
	s.currentPath = path
	s.mu.Unlock()
}

// Run drives the loop until ctx is cancelled. It returns ErrEmptyLibrary
// if the library is empty at startup, or an error when no photo can be
// decoded at all; per-cycle failures are logged and retried, never fatal.
func (s *Scheduler) Run(ctx context.Context) error {
	paths := s.library.Paths()
	if len(paths) == 0 {
		return ErrEmptyLibrary
	}

	if err := s.loadInitialPhoto(paths); err != nil {
		return err
	}
	s.publishWithOverlay(s.current, "idle")

	logging.Info("playback started: %d photos, %v transitions at %d fps, %v between photos",
		len(paths), s.cfg.TransitionDuration, s.cfg.FPS, s.cfg.IdleDelay)

	for {
		if ctx.Err() != nil {
			logging.Info("playback stopped")
			return nil
		}

		if err := s.transition(ctx); err != nil {
			// Per-cycle failure: the idle frame keeps showing the last
			// good photo with a live overlay.
			logging.Error("transition cycle aborted: %v", err)
			metrics.CyclesAbortedTotal.Inc()
		}

		if !s.idle(ctx) {
			logging.Info("playback stopped")
			return nil
		}
	}
}

// loadInitialPhoto decodes the first photo, skipping undecodable files.
func (s *Scheduler) loadInitialPhoto(paths []string) error {
	var lastErr error
	attempts := len(paths)
	if attempts > s.cfg.MaxDecodeRetries*4 {
		attempts = s.cfg.MaxDecodeRetries * 4
	}

	for i := 0; i < attempts; i++ {
		path := paths[s.rng.Intn(len(paths))]
		canvas, err := s.fitter.FitFile(path)
		if err == nil {
			s.current = canvas
			s.setCurrentPath(path)
			return nil
		}
		lastErr = err
		metrics.DecodeErrorsTotal.Inc()
		logging.Warn("skipping undecodable photo %s: %v", path, err)
	}
	return fmt.Errorf("no decodable photo in library: %w", lastErr)
}

// transition runs one Transitioning state: pick, decode, animate, publish.
func (s *Scheduler) transition(ctx context.Context) error {
	start := time.Now()

	next, nextPath, err := s.pickAndFitNext()
	if err != nil {
		return err
	}

	kind := s.selector.Choose()
	tr, err := effects.New(kind, s.current, next, s.cfg.TransitionDuration, s.cfg.FPS, s.rng)
	if err != nil {
		// Dimension mismatch is a configuration bug; cut straight to the
		// new photo rather than dropping the cycle.
		logging.Error("effect %s unavailable (%v), falling back to plain cut", kind, err)
		tr, err = effects.New(effects.Plain, s.current, next, 0, s.cfg.FPS, s.rng)
		if err != nil {
			return err
		}
	}

	logging.Debug("transitioning %s -> %s via %s (%d frames)", s.currentPath, nextPath, kind, tr.Len())

	interval := time.Second / time.Duration(s.cfg.FPS)
	for {
		frameStart := time.Now()
		frame, ok := tr.Next()
		if !ok {
			break
		}
		s.publishWithOverlay(frame, "transition")
		metrics.FrameRenderDuration.Observe(time.Since(frameStart).Seconds())

		// The frame that was being emitted is complete; now honor
		// cancellation before starting another one.
		if ctx.Err() != nil {
			return nil
		}
		if remaining := interval - time.Since(frameStart); remaining > 0 {
			if !sleepCtx(ctx, remaining) {
				return nil
			}
		}
	}

	s.current = next
	s.setCurrentPath(nextPath)
	if s.recorder != nil {
		s.recorder.RecordShown(nextPath, time.Now())
	}

	metrics.TransitionsTotal.WithLabelValues(kind.String()).Inc()
	metrics.TransitionDuration.Observe(time.Since(start).Seconds())
	return nil
}

// pickAndFitNext selects the next photo index under the repeat-avoidance
// policy and decodes it, retrying with other photos on decode failure.
func (s *Scheduler) pickAndFitNext() (*image.NRGBA, string, error) {
	var lastErr error

	for attempt := 0; attempt < s.cfg.MaxDecodeRetries; attempt++ {
		paths := s.library.Paths()
		if len(paths) == 0 {
			return nil, "", ErrEmptyLibrary
		}

		path := paths[s.pickNextIndex(paths)]
		canvas, err := s.fitter.FitFile(path)
		if err == nil {
			return canvas, path, nil
		}

		lastErr = err
		metrics.DecodeErrorsTotal.Inc()
		logging.Warn("skipping undecodable photo %s: %v", path, err)
	}

	return nil, "", fmt.Errorf("no decodable photo after %d attempts: %w", s.cfg.MaxDecodeRetries, lastErr)
}

// pickNextIndex draws a uniform index, re-rolling while it lands on the
// current photo. Libraries smaller than the repeat threshold tolerate
// repeats instead of re-rolling forever.
func (s *Scheduler) pickNextIndex(paths []string) int {
	idx := s.rng.Intn(len(paths))
	if len(paths) < s.cfg.RepeatThreshold {
		return idx
	}
	current := s.CurrentPath()
	for paths[idx] == current {
		idx = s.rng.Intn(len(paths))
	}
	return idx
}

// idle republishes the current photo with a live overlay for the
// configured inter-image delay. Returns false when cancelled.
func (s *Scheduler) idle(ctx context.Context) bool {
	deadline := time.Now().Add(s.cfg.IdleDelay)
	for {
		// Cancellation may have been observed mid-transition; don't
		// render another frame after the stop signal.
		if ctx.Err() != nil {
			return false
		}
		s.publishWithOverlay(s.current, "idle")
		if time.Now().After(deadline) {
			return true
		}
		if !sleepCtx(ctx, s.cfg.IdleInterval) {
			return false
		}
	}
}

// publishWithOverlay blends the freshest overlay layer onto base and
// publishes the result. base itself is never mutated or published.
func (s *Scheduler) publishWithOverlay(base *image.NRGBA, state string) {
	layer := s.overlay.Layer(time.Now())
	blended, err := render.Blend(base, layer)
	if err != nil {
		// Overlay layer with wrong dimensions; publish the bare frame
		// rather than nothing.
		logging.Error("overlay blend failed: %v", err)
		blended = render.Clone(base)
	}
	s.bus.Publish(blended)
	metrics.FramesPublishedTotal.WithLabelValues(state).Inc()
}

// sleepCtx sleeps for d unless ctx is done first; shutdown latency is
// bounded by one frame period.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
