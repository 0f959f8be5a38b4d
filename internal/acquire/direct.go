package acquire

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/iconidentify/aidentify/internal/config"
	"github.com/iconidentify/aidentify/internal/domain"
)

// mediaExtensions is the allowlist for accepting a direct fetch when the
// server does not declare a media content type.
var mediaExtensions = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".mkv":  true,
	".webm": true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".bmp":  true,
	".gif":  true,
}

// DirectFetcher streams a URL straight to a local file. It accepts the
// response only when the status is 200 and either the content type declares
// image/video or the URL extension is on the media allowlist.
type DirectFetcher struct {
	client    *http.Client
	userAgent string
}

// NewDirectFetcher creates a direct fetcher with the configured timeout.
func NewDirectFetcher(cfg config.AcquireConfig) *DirectFetcher {
	return &DirectFetcher{
		client:    &http.Client{Timeout: cfg.Timeout},
		userAgent: cfg.UserAgent,
	}
}

// Fetch downloads the URL body to destPath. Any rejection reason comes back
// as an error so the caller can fall through to the next strategy.
func (d *DirectFetcher) Fetch(ctx context.Context, rawURL, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", d.userAgent)
	req.Header.Set("Accept", "image/*,video/*;q=0.9,*/*;q=0.8")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	ct := resp.Header.Get("Content-Type")
	if !isMediaContentType(ct) && !hasMediaExtension(rawURL) {
		return fmt.Errorf("not a media response: content-type %q", ct)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer out.Close()

	written, err := io.Copy(out, resp.Body)
	if err != nil {
		return fmt.Errorf("stream body: %w", err)
	}
	if written == 0 {
		return domain.ErrNoMediaFile
	}
	return nil
}

func isMediaContentType(ct string) bool {
	return strings.Contains(ct, "image") || strings.Contains(ct, "video")
}

func hasMediaExtension(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return mediaExtensions[strings.ToLower(path.Ext(u.Path))]
}
