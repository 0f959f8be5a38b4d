package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/iconidentify/aidentify/internal/acquire"
	"github.com/iconidentify/aidentify/internal/api"
	"github.com/iconidentify/aidentify/internal/api/handler"
	"github.com/iconidentify/aidentify/internal/config"
	"github.com/iconidentify/aidentify/internal/repository"
	"github.com/iconidentify/aidentify/internal/service"
	"github.com/iconidentify/aidentify/internal/sniff"
	"github.com/iconidentify/aidentify/pkg/detector"
	"github.com/iconidentify/aidentify/pkg/ffmpeg"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "", "Path to config file")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("aidentify %s (built %s)\n", Version, BuildTime)
		os.Exit(0)
	}

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("starting aidentify api",
		"version", Version,
		"build_time", BuildTime,
	)

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.Storage.TempPath, 0755); err != nil {
		logger.Error("failed to create temp directory", "error", err)
		os.Exit(1)
	}

	// Video container probing for the sniffer; the API can still classify
	// by extension and image decoding when ffmpeg is absent.
	var prober sniff.VideoProber
	if p, err := ffmpeg.New(); err != nil {
		logger.Warn("ffmpeg not found, video content probing disabled", "error", err)
	} else {
		prober = p
	}

	// Initialize dependencies
	detectorClient := detector.NewClient(detector.Config{
		BaseURL: cfg.Detector.BaseURL,
		Timeout: cfg.Detector.Timeout,
	})
	sniffer := sniff.New(prober)
	acquirer := acquire.New(
		acquire.NewDirectFetcher(cfg.Acquire),
		acquire.NewToolDownloader(cfg.Acquire, logger),
		logger,
	)

	var history repository.AnalysisRepository
	if cfg.History.Enabled {
		if err := os.MkdirAll(filepath.Dir(cfg.History.DBPath), 0755); err != nil {
			logger.Error("failed to create history directory", "error", err)
			os.Exit(1)
		}
		repo, err := repository.NewSQLiteRepository(cfg.History.DBPath)
		if err != nil {
			logger.Error("failed to open history database", "error", err)
			os.Exit(1)
		}
		defer repo.Close()
		history = repo
	}

	// Initialize services
	var recorder service.HistoryRecorder
	if history != nil {
		recorder = history
	}
	analysisSvc := service.NewAnalysisService(
		detectorClient,
		sniffer,
		acquirer,
		recorder,
		cfg.Storage.TempPath,
		logger,
	)

	// Initialize handlers
	analyzeHandler := handler.NewAnalyzeHandler(analysisSvc, cfg.Storage.MaxFileSize, logger)
	healthHandler := handler.NewHealthHandler(analysisSvc)
	var historyHandler *handler.HistoryHandler
	if history != nil {
		historyHandler = handler.NewHistoryHandler(history, logger)
	}

	// Setup router
	router := api.NewRouter(analyzeHandler, healthHandler, historyHandler, cfg.Server.APIKey)

	// Setup HTTP server
	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info("starting HTTP server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
