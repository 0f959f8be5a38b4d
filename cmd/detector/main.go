package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iconidentify/aidentify/internal/analysis"
	"github.com/iconidentify/aidentify/internal/config"
	"github.com/iconidentify/aidentify/internal/detectorapi"
	"github.com/iconidentify/aidentify/pkg/ffmpeg"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("aidentify-detector %s (built %s)\n", Version, BuildTime)
		os.Exit(0)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("starting aidentify detector",
		"version", Version,
		"build_time", BuildTime,
	)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.Storage.TempPath, 0755); err != nil {
		logger.Error("failed to create temp directory", "error", err)
		os.Exit(1)
	}

	// Frame sampling requires ffmpeg; the detector cannot analyze video
	// without it.
	prober, err := ffmpeg.New()
	if err != nil {
		logger.Error("ffmpeg/ffprobe not found", "error", err)
		os.Exit(1)
	}

	// Face detection degrades to a zero count when the cascade is missing.
	faces, err := analysis.NewFaceCounter(cfg.Analysis.CascadePath)
	if err != nil {
		logger.Warn("face cascade unavailable, face signal disabled",
			"path", cfg.Analysis.CascadePath, "error", err)
		faces = nil
	}

	imageAnalyzer := analysis.NewImageAnalyzer(cfg.Analysis)
	videoAnalyzer := analysis.NewVideoAnalyzer(cfg.Analysis, prober, faces)

	analyzeHandler := detectorapi.NewAnalyzeHandler(imageAnalyzer, videoAnalyzer, cfg.Storage.TempPath, logger)
	router := detectorapi.NewRouter(analyzeHandler)

	srv := &http.Server{
		Addr:         cfg.Detector.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("starting HTTP server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
