// Package detector is the HTTP client for the local forensic detector
// service.
package detector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/iconidentify/aidentify/internal/domain"
)

// Client analyzes local media through the detector service.
type Client interface {
	// AnalyzeImage submits a still image for analysis.
	AnalyzeImage(ctx context.Context, data io.Reader, filename string) (*domain.VerdictResult, error)
	// AnalyzeVideo submits a video file for analysis.
	AnalyzeVideo(ctx context.Context, data io.Reader, filename string) (*domain.VerdictResult, error)
	// AnalyzeFile routes a file on disk by media kind.
	AnalyzeFile(ctx context.Context, path string, kind domain.MediaKind) (*domain.VerdictResult, error)
	// Ping reports whether the detector is reachable.
	Ping(ctx context.Context) error
}

// Config for creating a detector client.
type Config struct {
	BaseURL string
	Timeout time.Duration // Optional, defaults to 60 seconds
}

// HTTPClient implements Client over the detector's REST API.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a detector client.
func NewClient(cfg Config) *HTTPClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &HTTPClient{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// AnalyzeImage sends the image bytes to the detector's image endpoint.
func (c *HTTPClient) AnalyzeImage(ctx context.Context, data io.Reader, filename string) (*domain.VerdictResult, error) {
	return c.analyze(ctx, "/analyze/image", data, filename)
}

// AnalyzeVideo sends the video bytes to the detector's video endpoint.
func (c *HTTPClient) AnalyzeVideo(ctx context.Context, data io.Reader, filename string) (*domain.VerdictResult, error) {
	return c.analyze(ctx, "/analyze/video", data, filename)
}

// AnalyzeFile opens path and routes to the endpoint matching kind.
func (c *HTTPClient) AnalyzeFile(ctx context.Context, path string, kind domain.MediaKind) (*domain.VerdictResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open media file: %w", err)
	}
	defer f.Close()

	switch kind {
	case domain.MediaImage:
		return c.AnalyzeImage(ctx, f, filepath.Base(path))
	case domain.MediaVideo:
		return c.AnalyzeVideo(ctx, f, filepath.Base(path))
	default:
		return nil, domain.ErrUnsupportedMedia
	}
}

// Ping hits the detector's liveness endpoint.
func (c *HTTPClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDetectorUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", domain.ErrDetectorUnavailable, resp.StatusCode)
	}
	return nil
}

func (c *HTTPClient) analyze(ctx context.Context, path string, data io.Reader, filename string) (*domain.VerdictResult, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, data); err != nil {
		return nil, fmt.Errorf("copy media data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Connection-level failures mean the detector itself is down, which
		// is the one condition callers escalate to a hard error.
		return nil, fmt.Errorf("%w: %v", domain.ErrDetectorUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("detector error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var result domain.VerdictResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return &result, nil
}
