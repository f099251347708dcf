package status

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/alws34/DigitalPhotoFrame/internal/metrics"
)

// DefaultWeatherURL is the Open-Meteo forecast endpoint.
const DefaultWeatherURL = "https://api.open-meteo.com/v1/forecast"

// Weather is the subset of the forecast shown in the overlay.
type Weather struct {
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	Code        int       `json:"code"`
	Description string    `json:"description"`
	High        float64   `json:"high"`
	Low         float64   `json:"low"`
	FetchedAt   time.Time `json:"fetched_at"`
}

// WeatherClient fetches the current conditions for a fixed location.
type WeatherClient struct {
	baseURL string
	lat     float64
	lon     float64
	client  *http.Client
}

// NewWeatherClient creates a client for the given coordinates. baseURL is
// overridable for tests; pass "" for the Open-Meteo API.
func NewWeatherClient(baseURL string, lat, lon float64) *WeatherClient {
	if baseURL == "" {
		baseURL = DefaultWeatherURL
	}
	return &WeatherClient{
		baseURL: baseURL,
		lat:     lat,
		lon:     lon,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// openMeteoResponse mirrors the fields we request from the API.
type openMeteoResponse struct {
	Current struct {
		Temperature float64 `json:"temperature_2m"`
		Humidity    float64 `json:"relative_humidity_2m"`
		WeatherCode int     `json:"weather_code"`
	} `json:"current"`
	Daily struct {
		TemperatureMax []float64 `json:"temperature_2m_max"`
		TemperatureMin []float64 `json:"temperature_2m_min"`
	} `json:"daily"`
}

// Fetch retrieves the current conditions and today's range.
func (c *WeatherClient) Fetch(ctx context.Context) (*Weather, error) {
	w, err := c.fetch(ctx)
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.WeatherFetchesTotal.WithLabelValues(status).Inc()
	return w, err
}

func (c *WeatherClient) fetch(ctx context.Context) (*Weather, error) {
	q := url.Values{}
	q.Set("latitude", fmt.Sprintf("%.4f", c.lat))
	q.Set("longitude", fmt.Sprintf("%.4f", c.lon))
	q.Set("current", "temperature_2m,relative_humidity_2m,weather_code")
	q.Set("daily", "temperature_2m_max,temperature_2m_min")
	q.Set("forecast_days", "1")
	q.Set("timezone", "auto")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build weather request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather API returned %s", resp.Status)
	}

	var body openMeteoResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode weather response: %w", err)
	}

	w := &Weather{
		Temperature: body.Current.Temperature,
		Humidity:    body.Current.Humidity,
		Code:        body.Current.WeatherCode,
		Description: weatherDescription(body.Current.WeatherCode),
		FetchedAt:   time.Now(),
	}
	if len(body.Daily.TemperatureMax) > 0 {
		w.High = body.Daily.TemperatureMax[0]
	}
	if len(body.Daily.TemperatureMin) > 0 {
		w.Low = body.Daily.TemperatureMin[0]
	}
	return w, nil
}

// weatherDescription maps WMO weather interpretation codes to short text.
func weatherDescription(code int) string {
	switch {
	case code == 0:
		return "Clear"
	case code <= 2:
		return "Partly cloudy"
	case code == 3:
		return "Overcast"
	case code == 45 || code == 48:
		return "Fog"
	case code >= 51 && code <= 57:
		return "Drizzle"
	case code >= 61 && code <= 67:
		return "Rain"
	case code >= 71 && code <= 77:
		return "Snow"
	case code >= 80 && code <= 82:
		return "Showers"
	case code == 85 || code == 86:
		return "Snow showers"
	case code >= 95:
		return "Thunderstorm"
	default:
		return "Unknown"
	}
}
