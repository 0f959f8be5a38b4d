package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Detector DetectorConfig `yaml:"detector"`
	Storage  StorageConfig  `yaml:"storage"`
	Acquire  AcquireConfig  `yaml:"acquire"`
	Analysis AnalysisConfig `yaml:"analysis"`
	History  HistoryConfig  `yaml:"history"`
}

// ServerConfig holds HTTP server configuration for the acquisition API.
type ServerConfig struct {
	Host         string        `yaml:"host" envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port         int           `yaml:"port" envconfig:"SERVER_PORT" default:"8000"`
	APIKey       string        `yaml:"api_key" envconfig:"API_KEY"`
	ReadTimeout  time.Duration `yaml:"read_timeout" envconfig:"SERVER_READ_TIMEOUT" default:"30s"`
	WriteTimeout time.Duration `yaml:"write_timeout" envconfig:"SERVER_WRITE_TIMEOUT" default:"5m"`
}

// DetectorConfig holds the detector service address (for the detector
// binary) and the client-side base URL + timeout (for the acquisition API).
type DetectorConfig struct {
	Host    string        `yaml:"host" envconfig:"DETECTOR_HOST" default:"127.0.0.1"`
	Port    int           `yaml:"port" envconfig:"DETECTOR_PORT" default:"9000"`
	BaseURL string        `yaml:"base_url" envconfig:"DETECTOR_URL" default:"http://127.0.0.1:9000"`
	Timeout time.Duration `yaml:"timeout" envconfig:"DETECTOR_TIMEOUT" default:"60s"`
}

// StorageConfig holds filesystem storage configuration. Everything under
// TempPath is request-scoped and removed when the request finishes.
type StorageConfig struct {
	TempPath    string `yaml:"temp_path" envconfig:"STORAGE_TEMP_PATH" default:"/tmp/aidentify"`
	MaxFileSize int64  `yaml:"max_file_size" envconfig:"MAX_FILE_SIZE" default:"1073741824"` // 1GB
}

// AcquireConfig holds URL acquisition configuration.
type AcquireConfig struct {
	Timeout            time.Duration `yaml:"timeout" envconfig:"ACQUIRE_TIMEOUT" default:"60s"`
	UserAgent          string        `yaml:"user_agent" envconfig:"ACQUIRE_USER_AGENT" default:"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/118.0.0.0 Safari/537.36"`
	YtdlpPath          string        `yaml:"ytdlp_path" envconfig:"ACQUIRE_YTDLP_PATH" default:"yt-dlp"`
	CookiesFromBrowser string        `yaml:"cookies_from_browser" envconfig:"ACQUIRE_COOKIES_FROM_BROWSER" default:"chrome"`
}

// AnalysisConfig holds forensic signal extraction configuration.
type AnalysisConfig struct {
	JPEGQuality int     `yaml:"jpeg_quality" envconfig:"ANALYSIS_JPEG_QUALITY" default:"90"`
	BlurSigma   float64 `yaml:"blur_sigma" envconfig:"ANALYSIS_BLUR_SIGMA" default:"1.2"`
	MaxFrames   int     `yaml:"max_frames" envconfig:"ANALYSIS_MAX_FRAMES" default:"8"`
	CascadePath string  `yaml:"cascade_path" envconfig:"ANALYSIS_CASCADE_PATH" default:"cascade/facefinder"`
}

// HistoryConfig holds analysis history persistence configuration.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled" envconfig:"HISTORY_ENABLED" default:"true"`
	DBPath  string `yaml:"db_path" envconfig:"HISTORY_DB_PATH" default:"/data/aidentify/history.db"`
}

// Load reads configuration from file and environment variables.
// Environment variables override file values.
func Load(configPath string) (*Config, error) {
	cfg := &Config{}

	// Load from YAML file if provided
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	// Override with environment variables
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Validate checks that configuration values are usable.
func (c *Config) Validate() error {
	if c.Storage.TempPath == "" {
		return fmt.Errorf("STORAGE_TEMP_PATH is required")
	}
	if c.Detector.BaseURL == "" {
		return fmt.Errorf("DETECTOR_URL is required")
	}
	if c.Analysis.JPEGQuality < 1 || c.Analysis.JPEGQuality > 100 {
		return fmt.Errorf("ANALYSIS_JPEG_QUALITY must be in [1,100], got %d", c.Analysis.JPEGQuality)
	}
	if c.Analysis.MaxFrames < 1 {
		return fmt.Errorf("ANALYSIS_MAX_FRAMES must be positive, got %d", c.Analysis.MaxFrames)
	}
	if c.History.Enabled && c.History.DBPath == "" {
		return fmt.Errorf("HISTORY_DB_PATH is required when history is enabled")
	}
	return nil
}

// Address returns the acquisition API address in host:port format.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Address returns the detector service address in host:port format.
func (c *DetectorConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
