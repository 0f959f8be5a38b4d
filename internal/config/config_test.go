package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8000 {
		t.Errorf("Server.Port = %d, want 8000", cfg.Server.Port)
	}
	if cfg.Detector.Port != 9000 {
		t.Errorf("Detector.Port = %d, want 9000", cfg.Detector.Port)
	}
	if cfg.Detector.BaseURL != "http://127.0.0.1:9000" {
		t.Errorf("Detector.BaseURL = %q", cfg.Detector.BaseURL)
	}
	if cfg.Detector.Timeout != 60*time.Second {
		t.Errorf("Detector.Timeout = %v, want 60s", cfg.Detector.Timeout)
	}
	if cfg.Acquire.Timeout != 60*time.Second {
		t.Errorf("Acquire.Timeout = %v, want 60s", cfg.Acquire.Timeout)
	}
	if cfg.Acquire.YtdlpPath != "yt-dlp" {
		t.Errorf("Acquire.YtdlpPath = %q, want yt-dlp", cfg.Acquire.YtdlpPath)
	}
	if cfg.Analysis.JPEGQuality != 90 {
		t.Errorf("Analysis.JPEGQuality = %d, want 90", cfg.Analysis.JPEGQuality)
	}
	if cfg.Analysis.MaxFrames != 8 {
		t.Errorf("Analysis.MaxFrames = %d, want 8", cfg.Analysis.MaxFrames)
	}
	if cfg.Analysis.BlurSigma != 1.2 {
		t.Errorf("Analysis.BlurSigma = %v, want 1.2", cfg.Analysis.BlurSigma)
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	// api_key carries no envconfig default, so the file value survives the
	// environment overlay.
	content := "server:\n  api_key: from-file\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.APIKey != "from-file" {
		t.Errorf("Server.APIKey = %q, want %q", cfg.Server.APIKey, "from-file")
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("SERVER_PORT", "9999")
	t.Setenv("DETECTOR_URL", "http://detector:9000")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d, want 9999", cfg.Server.Port)
	}
	if cfg.Detector.BaseURL != "http://detector:9000" {
		t.Errorf("Detector.BaseURL = %q", cfg.Detector.BaseURL)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Detector: DetectorConfig{BaseURL: "http://127.0.0.1:9000"},
			Storage:  StorageConfig{TempPath: "/tmp/aidentify"},
			Analysis: AnalysisConfig{JPEGQuality: 90, MaxFrames: 8},
			History:  HistoryConfig{Enabled: true, DBPath: "/data/history.db"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"empty temp path", func(c *Config) { c.Storage.TempPath = "" }, true},
		{"empty detector url", func(c *Config) { c.Detector.BaseURL = "" }, true},
		{"quality too low", func(c *Config) { c.Analysis.JPEGQuality = 0 }, true},
		{"quality too high", func(c *Config) { c.Analysis.JPEGQuality = 101 }, true},
		{"zero frames", func(c *Config) { c.Analysis.MaxFrames = 0 }, true},
		{"history without path", func(c *Config) { c.History.DBPath = "" }, true},
		{"history disabled without path", func(c *Config) { c.History.Enabled = false; c.History.DBPath = "" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAddress(t *testing.T) {
	s := ServerConfig{Host: "0.0.0.0", Port: 8000}
	if s.Address() != "0.0.0.0:8000" {
		t.Errorf("Address() = %q", s.Address())
	}
	d := DetectorConfig{Host: "127.0.0.1", Port: 9000}
	if d.Address() != "127.0.0.1:9000" {
		t.Errorf("Address() = %q", d.Address())
	}
}
