package status

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/alws34/DigitalPhotoFrame/internal/logging"
)

// StatusSink receives the formatted status lines; implemented by the
// overlay renderer.
type StatusSink interface {
	SetStatusLines(lines []string)
}

// ReporterConfig carries the polling cadences and what to include.
type ReporterConfig struct {
	WeatherInterval time.Duration
	StatsInterval   time.Duration
	ShowStats       bool
}

func (c *ReporterConfig) applyDefaults() {
	if c.WeatherInterval <= 0 {
		c.WeatherInterval = 10 * time.Minute
	}
	if c.StatsInterval <= 0 {
		c.StatsInterval = 5 * time.Second
	}
}

// Reporter polls weather and host stats and pushes formatted lines to the
// sink. Weather and stats refresh on independent cadences; either source
// failing leaves its previous value on screen.
type Reporter struct {
	cfg     ReporterConfig
	weather *WeatherClient
	sink    StatusSink

	mu        sync.RWMutex
	lastWx    *Weather
	lastStats *SystemStats
}

// NewReporter assembles a reporter. weather may be nil to disable the
// weather line.
func NewReporter(cfg ReporterConfig, weather *WeatherClient, sink StatusSink) *Reporter {
	cfg.applyDefaults()
	return &Reporter{
		cfg:     cfg,
		weather: weather,
		sink:    sink,
	}
}

// Weather returns the most recent successful fetch, or nil.
func (r *Reporter) Weather() *Weather {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastWx
}

// Stats returns the most recent host snapshot, or nil.
func (r *Reporter) Stats() *SystemStats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastStats
}

// Run polls until ctx is cancelled. It fetches both sources once up front
// so the overlay is populated before the first tick.
func (r *Reporter) Run(ctx context.Context) {
	r.refreshWeather(ctx)
	r.refreshStats(ctx)
	r.push()

	wxTicker := time.NewTicker(r.cfg.WeatherInterval)
	defer wxTicker.Stop()
	statsTicker := time.NewTicker(r.cfg.StatsInterval)
	defer statsTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-wxTicker.C:
			r.refreshWeather(ctx)
			r.push()
		case <-statsTicker.C:
			r.refreshStats(ctx)
			r.push()
		}
	}
}

func (r *Reporter) refreshWeather(ctx context.Context) {
	if r.weather == nil {
		return
	}
	w, err := r.weather.Fetch(ctx)
	if err != nil {
		logging.Warn("weather fetch failed: %v", err)
		return
	}
	r.mu.Lock()
	r.lastWx = w
	r.mu.Unlock()
}

func (r *Reporter) refreshStats(ctx context.Context) {
	if !r.cfg.ShowStats {
		return
	}
	s, err := ReadSystemStats(ctx)
	if err != nil {
		logging.Warn("system stats read failed: %v", err)
		return
	}
	r.mu.Lock()
	r.lastStats = s
	r.mu.Unlock()
}

func (r *Reporter) push() {
	r.sink.SetStatusLines(r.Lines())
}

// Lines formats the current state for the overlay. Missing sources are
// simply omitted.
func (r *Reporter) Lines() []string {
	r.mu.RLock()
	wx := r.lastWx
	stats := r.lastStats
	r.mu.RUnlock()

	var lines []string
	if wx != nil {
		lines = append(lines,
			fmt.Sprintf("%.0f°C  %s", wx.Temperature, wx.Description),
			fmt.Sprintf("H %.0f°  L %.0f°  %.0f%% RH", wx.High, wx.Low, wx.Humidity),
		)
	}
	if stats != nil {
		line := fmt.Sprintf("CPU %.0f%%  RAM %.0f%%", stats.CPUPercent, stats.MemoryPercent)
		if stats.CPUTemp > 0 {
			line += fmt.Sprintf("  %.1f°C", stats.CPUTemp)
		}
		lines = append(lines, line)
	}
	return lines
}
