package startup

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/alws34/DigitalPhotoFrame/internal/logging"
	"github.com/alws34/DigitalPhotoFrame/internal/render"
)

// Config holds all application configuration.
type Config struct {
	// Directories and ports.
	PhotosDir    string `json:"photos_dir"`
	DatabaseDir  string `json:"database_dir"`
	Port         string `json:"port"`
	MetricsPort  string `json:"metrics_port"`
	MetricsOn    bool   `json:"metrics_enabled"`
	DatabasePath string `json:"-"`

	// Canvas.
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	BackgroundMode string `json:"background_mode"` // "blur" or "black"
	BlurRadius     int    `json:"blur_radius"`

	// Playback.
	FPS                int     `json:"fps"`
	TransitionSeconds  float64 `json:"transition_duration"`
	DelayBetweenImages float64 `json:"delay_between_images"`
	RepeatThreshold    int     `json:"repeat_threshold"`

	// Stream.
	JPEGQuality int `json:"jpeg_quality"`

	// Overlay.
	FontPath string `json:"font_path"`

	// Status sources.
	WeatherEnabled bool    `json:"weather_enabled"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	ShowStats      bool    `json:"show_stats"`
}

// defaultConfig is the baseline before settings.json and env overrides.
func defaultConfig() *Config {
	return &Config{
		PhotosDir:          "/photos",
		DatabaseDir:        "/database",
		Port:               "8080",
		MetricsPort:        "9090",
		MetricsOn:          true,
		Width:              1920,
		Height:             1080,
		BackgroundMode:     "blur",
		BlurRadius:         render.DefaultBlurRadius,
		FPS:                30,
		TransitionSeconds:  3,
		DelayBetweenImages: 10,
		RepeatThreshold:    10,
		JPEGQuality:        85,
		WeatherEnabled:     false,
		ShowStats:          true,
	}
}

// TransitionDuration returns the configured transition length.
func (c *Config) TransitionDuration() time.Duration {
	return time.Duration(c.TransitionSeconds * float64(time.Second))
}

// IdleDelay returns the configured time between photos.
func (c *Config) IdleDelay() time.Duration {
	return time.Duration(c.DelayBetweenImages * float64(time.Second))
}

// Background returns the fitter background mode.
func (c *Config) Background() render.BackgroundMode {
	if c.BackgroundMode == "black" {
		return render.BackgroundBlack
	}
	return render.BackgroundBlur
}

// LoadConfig assembles configuration from defaults, settings.json (path
// from SETTINGS_FILE, default "settings.json"), an optional .env file,
// and environment variables, later sources winning. It also validates
// and prepares the required directories.
func LoadConfig() (*Config, error) {
	printBanner()
	logSystemInfo()

	// .env is developer convenience; missing is the normal case.
	if err := godotenv.Load(); err == nil {
		logging.Debug("loaded environment from .env")
	}

	cfg := defaultConfig()

	settingsPath := getEnv("SETTINGS_FILE", "settings.json")
	if err := loadSettingsFile(cfg, settingsPath); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	logging.Info("------------------------------------------------------------")
	logging.Info("CONFIGURATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  PHOTOS_DIR:            %s", cfg.PhotosDir)
	logging.Info("  DATABASE_DIR:          %s", cfg.DatabaseDir)
	logging.Info("  PORT:                  %s", cfg.Port)
	logging.Info("  METRICS_PORT:          %s (enabled: %v)", cfg.MetricsPort, cfg.MetricsOn)
	logging.Info("  Canvas:                %dx%d, background %s", cfg.Width, cfg.Height, cfg.BackgroundMode)
	logging.Info("  Playback:              %v transitions at %d fps, %v between photos",
		cfg.TransitionDuration(), cfg.FPS, cfg.IdleDelay())
	logging.Info("  JPEG quality:          %d", cfg.JPEGQuality)
	logging.Info("  Weather:               %v", cfg.WeatherEnabled)
	logging.Info("  System stats overlay:  %v", cfg.ShowStats)
	logging.Info("  LOG_LEVEL:             %s", logging.GetLevel())

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if err := prepareDirectories(cfg); err != nil {
		return nil, err
	}
	cfg.DatabasePath = filepath.Join(cfg.DatabaseDir, "guestbook.db")

	return cfg, nil
}

func loadSettingsFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		logging.Info("no settings file at %s, using defaults and environment", path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read settings file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse settings file %s: %w", path, err)
	}
	logging.Info("loaded settings from %s", path)
	return nil
}

func applyEnvOverrides(cfg *Config) {
	cfg.PhotosDir = getEnv("PHOTOS_DIR", cfg.PhotosDir)
	cfg.DatabaseDir = getEnv("DATABASE_DIR", cfg.DatabaseDir)
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.MetricsPort = getEnv("METRICS_PORT", cfg.MetricsPort)
	cfg.MetricsOn = getEnvBool("METRICS_ENABLED", cfg.MetricsOn)
	cfg.Width = getEnvInt("FRAME_WIDTH", cfg.Width)
	cfg.Height = getEnvInt("FRAME_HEIGHT", cfg.Height)
	cfg.BackgroundMode = getEnv("BACKGROUND_MODE", cfg.BackgroundMode)
	cfg.BlurRadius = getEnvInt("BLUR_RADIUS", cfg.BlurRadius)
	cfg.FPS = getEnvInt("FPS", cfg.FPS)
	cfg.TransitionSeconds = getEnvFloat("TRANSITION_DURATION", cfg.TransitionSeconds)
	cfg.DelayBetweenImages = getEnvFloat("DELAY_BETWEEN_IMAGES", cfg.DelayBetweenImages)
	cfg.RepeatThreshold = getEnvInt("REPEAT_THRESHOLD", cfg.RepeatThreshold)
	cfg.JPEGQuality = getEnvInt("JPEG_QUALITY", cfg.JPEGQuality)
	cfg.WeatherEnabled = getEnvBool("WEATHER_ENABLED", cfg.WeatherEnabled)
	cfg.ShowStats = getEnvBool("SHOW_STATS", cfg.ShowStats)
	cfg.FontPath = getEnv("FONT_PATH", cfg.FontPath)
}

func (c *Config) validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid canvas size %dx%d", c.Width, c.Height)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("invalid fps %d", c.FPS)
	}
	if c.BackgroundMode != "blur" && c.BackgroundMode != "black" {
		return fmt.Errorf("invalid background_mode %q (want blur or black)", c.BackgroundMode)
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("invalid jpeg_quality %d", c.JPEGQuality)
	}
	return nil
}

func prepareDirectories(cfg *Config) error {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("DIRECTORY SETUP")
	logging.Info("------------------------------------------------------------")

	var err error
	cfg.PhotosDir, err = filepath.Abs(cfg.PhotosDir)
	if err != nil {
		return fmt.Errorf("failed to resolve photos directory path: %w", err)
	}
	logging.Info("  Photos directory:   %s", cfg.PhotosDir)

	cfg.DatabaseDir, err = filepath.Abs(cfg.DatabaseDir)
	if err != nil {
		return fmt.Errorf("failed to resolve database directory path: %w", err)
	}
	logging.Info("  Database directory: %s", cfg.DatabaseDir)

	if err := ensureDirectory(cfg.PhotosDir); err != nil {
		logging.Warn("  Photos directory issue: %v", err)
	}

	if err := ensureDirectory(cfg.DatabaseDir); err != nil {
		return fmt.Errorf("database directory error: %w", err)
	}
	if err := testWriteAccess(cfg.DatabaseDir); err != nil {
		return fmt.Errorf("database directory is not writable: %w", err)
	}
	logging.Info("  [OK] Database directory is writable")

	return nil
}

func ensureDirectory(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
		logging.Debug("  created directory: %s", path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path exists but is not a directory")
	}
	return nil
}

func testWriteAccess(dir string) error {
	testFile := filepath.Join(dir, ".write-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o644); err != nil {
		return err
	}
	if err := os.Remove(testFile); err != nil {
		logging.Warn("failed to remove write test file %s: %v", testFile, err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		logging.Warn("invalid boolean value for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		logging.Warn("invalid integer value for %s: %q, using default: %d", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		logging.Warn("invalid numeric value for %s: %q, using default: %g", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}
