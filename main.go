package main

import (
	"context"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alws34/DigitalPhotoFrame/internal/database"
	"github.com/alws34/DigitalPhotoFrame/internal/effects"
	"github.com/alws34/DigitalPhotoFrame/internal/handlers"
	"github.com/alws34/DigitalPhotoFrame/internal/library"
	"github.com/alws34/DigitalPhotoFrame/internal/logging"
	"github.com/alws34/DigitalPhotoFrame/internal/memory"
	"github.com/alws34/DigitalPhotoFrame/internal/middleware"
	"github.com/alws34/DigitalPhotoFrame/internal/overlay"
	"github.com/alws34/DigitalPhotoFrame/internal/playback"
	"github.com/alws34/DigitalPhotoFrame/internal/render"
	"github.com/alws34/DigitalPhotoFrame/internal/startup"
	"github.com/alws34/DigitalPhotoFrame/internal/status"
	"github.com/alws34/DigitalPhotoFrame/internal/stream"
)

func main() {
	startTime := time.Now()

	config, err := startup.LoadConfig()
	if err != nil {
		logging.Fatal("Configuration error: %v", err)
	}

	// Frame canvases are large; honor container memory limits before the
	// first one is allocated.
	memory.ConfigureFromEnv()

	// Root context cancels every background loop on shutdown.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// libvips accelerates JPEG encoding; the encoder falls back to
	// image/jpeg without it.
	stream.InitVips()
	defer stream.ShutdownVips()

	// Photo library with live directory watching.
	lib, err := library.New(config.PhotosDir)
	if err != nil {
		logging.Fatal("Failed to open photo library: %v", err)
	}
	go lib.Watch(ctx.Done())

	// Guestbook database.
	db, err := database.New(ctx, config.DatabasePath)
	if err != nil {
		logging.Fatal("Failed to initialize guestbook database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error("failed to close database: %v", err)
		}
	}()

	// Overlay renderer with a 1 Hz clock refresh.
	style := overlay.DefaultStyle()
	style.FontPath = config.FontPath
	ov, err := overlay.New(config.Width, config.Height, style)
	if err != nil {
		logging.Fatal("Failed to initialize overlay: %v", err)
	}
	logging.Info("Overlay ready: %s", ov.Describe())
	go ov.Run(ctx.Done())

	// Status sources feeding the overlay corner.
	var reporter *status.Reporter
	if config.WeatherEnabled || config.ShowStats {
		var weather *status.WeatherClient
		if config.WeatherEnabled {
			weather = status.NewWeatherClient("", config.Latitude, config.Longitude)
		}
		reporter = status.NewReporter(
			status.ReporterConfig{ShowStats: config.ShowStats},
			weather,
			ov,
		)
		go reporter.Run(ctx)
	}

	// The playback loop: fit, transition, overlay, publish.
	bus := playback.NewBus()
	fitter := render.NewFitter(config.Width, config.Height, config.Background())
	fitter.SetBlurRadius(config.BlurRadius)
	scheduler := playback.New(
		playback.Config{
			TransitionDuration: config.TransitionDuration(),
			FPS:                config.FPS,
			IdleDelay:          config.IdleDelay(),
			RepeatThreshold:    config.RepeatThreshold,
		},
		lib,
		fitter,
		ov,
		effects.NewSelector(nil, nil),
		bus,
		rand.New(rand.NewSource(time.Now().UnixNano())),
		db,
	)
	go func() {
		if err := scheduler.Run(ctx); err != nil {
			logging.Error("playback stopped: %v", err)
		}
	}()

	// HTTP surface.
	encoder := stream.NewEncoder(config.JPEGQuality)
	mjpeg := stream.NewServer(bus, encoder, config.FPS, stream.DefaultWriteTimeout)
	h := handlers.New(lib, db, scheduler, bus, encoder, mjpeg, reporter)

	router := h.Router()
	startup.LogHTTPRoutes(router)

	handler := middleware.Logger(middleware.DefaultLoggingConfig())(router)
	handler = middleware.Metrics(middleware.DefaultMetricsConfig())(handler)
	handler = middleware.Compression(middleware.DefaultCompressionConfig())(handler)

	srv := &http.Server{
		Addr:        ":" + config.Port,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		// WriteTimeout stays zero: the MJPEG stream is a deliberately
		// unbounded response; per-write timeouts live in the stream
		// package.
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	var metricsSrv *http.Server
	if config.MetricsOn {
		metricsMux := http.NewServeMux()
		metricsMux.Handle("/metrics", promhttp.Handler())
		metricsSrv = &http.Server{
			Addr:         ":" + config.MetricsPort,
			Handler:      metricsMux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
		}
		go func() {
			if err := metricsSrv.ListenAndServe(); err != http.ErrServerClosed {
				logging.Error("Metrics server error: %v", err)
			}
		}()
	}

	go handleShutdown(srv, metricsSrv, cancel)

	startup.LogServerStarted(startup.ServerConfig{
		Port:            config.Port,
		MetricsPort:     config.MetricsPort,
		MetricsEnabled:  config.MetricsOn,
		StartupDuration: time.Since(startTime),
	})
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		logging.Fatal("Server error: %v", err)
	}
}

func handleShutdown(srv, metricsSrv *http.Server, cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	// Stop the playback loop and all watchers first so no new frames are
	// published while connections drain.
	cancel()
	startup.LogShutdownStepComplete("Background loops stopped")

	ctx, cancelTimeout := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelTimeout()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	if metricsSrv != nil {
		if err := metricsSrv.Shutdown(ctx); err != nil {
			logging.Warn("Metrics server shutdown error: %v", err)
		} else {
			startup.LogShutdownStepComplete("Metrics server stopped")
		}
	}

	startup.LogShutdownComplete()
}
