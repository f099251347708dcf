package status

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

const forecastBody = `{
	"current": {
		"temperature_2m": 21.4,
		"relative_humidity_2m": 55,
		"weather_code": 61
	},
	"daily": {
		"temperature_2m_max": [24.1],
		"temperature_2m_min": [14.9]
	}
}`

func TestWeatherFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("latitude") == "" || q.Get("longitude") == "" {
			t.Error("request missing coordinates")
		}
		if !strings.Contains(q.Get("current"), "temperature_2m") {
			t.Error("request missing current temperature field")
		}
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(forecastBody)); err != nil {
			t.Errorf("write response: %v", err)
		}
	}))
	defer srv.Close()

	c := NewWeatherClient(srv.URL, 32.08, 34.78)
	wx, err := c.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if wx.Temperature != 21.4 {
		t.Errorf("Temperature = %v, want 21.4", wx.Temperature)
	}
	if wx.Humidity != 55 {
		t.Errorf("Humidity = %v, want 55", wx.Humidity)
	}
	if wx.Description != "Rain" {
		t.Errorf("Description = %q for code 61, want Rain", wx.Description)
	}
	if wx.High != 24.1 || wx.Low != 14.9 {
		t.Errorf("High/Low = %v/%v, want 24.1/14.9", wx.High, wx.Low)
	}
	if wx.FetchedAt.IsZero() {
		t.Error("FetchedAt not set")
	}
}

func TestWeatherFetchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewWeatherClient(srv.URL, 0, 0)
	if _, err := c.Fetch(context.Background()); err == nil {
		t.Fatal("Fetch succeeded against a 500 response")
	}
}

func TestWeatherDescriptionCodes(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{0, "Clear"},
		{2, "Partly cloudy"},
		{3, "Overcast"},
		{45, "Fog"},
		{53, "Drizzle"},
		{65, "Rain"},
		{73, "Snow"},
		{81, "Showers"},
		{95, "Thunderstorm"},
		{42, "Unknown"},
	}
	for _, tt := range tests {
		if got := weatherDescription(tt.code); got != tt.want {
			t.Errorf("weatherDescription(%d) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestReadSystemStats(t *testing.T) {
	s, err := ReadSystemStats(context.Background())
	if err != nil {
		t.Fatalf("ReadSystemStats: %v", err)
	}
	if s.MemoryTotalMB == 0 {
		t.Error("MemoryTotalMB = 0")
	}
	if s.MemoryPercent <= 0 || s.MemoryPercent > 100 {
		t.Errorf("MemoryPercent = %v, want (0, 100]", s.MemoryPercent)
	}
}

// recordingSink captures the last pushed lines.
type recordingSink struct {
	mu    sync.Mutex
	lines []string
}

func (s *recordingSink) SetStatusLines(lines []string) {
	s.mu.Lock()
	s.lines = lines
	s.mu.Unlock()
}

func (s *recordingSink) last() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lines
}

func TestReporterLines(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte(forecastBody)); err != nil {
			t.Errorf("write response: %v", err)
		}
	}))
	defer srv.Close()

	sink := &recordingSink{}
	r := NewReporter(
		ReporterConfig{ShowStats: true, WeatherInterval: time.Hour, StatsInterval: time.Hour},
		NewWeatherClient(srv.URL, 0, 0),
		sink,
	)

	// Run does its initial fetches immediately, then blocks on the hour
	// tickers until the context expires.
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	r.Run(ctx)

	lines := sink.last()
	if len(lines) < 3 {
		t.Fatalf("got %d status lines, want weather (2) plus stats (1): %v", len(lines), lines)
	}
	if !strings.Contains(lines[0], "21°C") || !strings.Contains(lines[0], "Rain") {
		t.Errorf("weather line = %q", lines[0])
	}
	if !strings.Contains(lines[2], "CPU") || !strings.Contains(lines[2], "RAM") {
		t.Errorf("stats line = %q", lines[2])
	}
}

func TestReporterWithoutSources(t *testing.T) {
	sink := &recordingSink{}
	r := NewReporter(ReporterConfig{}, nil, sink)

	if lines := r.Lines(); len(lines) != 0 {
		t.Errorf("Lines() = %v with no sources, want empty", lines)
	}
}
