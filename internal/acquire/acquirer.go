// Package acquire turns a remote URL into a local media file, trying a
// direct HTTP fetch before falling back to an external downloader.
package acquire

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"

	"github.com/iconidentify/aidentify/internal/domain"
)

type directFetcher interface {
	Fetch(ctx context.Context, rawURL, destPath string) error
}

type toolDownloader interface {
	Download(ctx context.Context, rawURL, outDir, format string, importCookies bool) (string, error)
}

// Acquirer runs the acquisition chain: direct GET, downloader with the
// preferred format, downloader with the permissive fallback format. The
// first strategy producing a non-empty file wins and later strategies never
// run.
type Acquirer struct {
	direct directFetcher
	tool   toolDownloader
	logger *slog.Logger
}

// New creates an acquirer over the given fetcher and downloader.
func New(direct directFetcher, tool toolDownloader, logger *slog.Logger) *Acquirer {
	return &Acquirer{direct: direct, tool: tool, logger: logger}
}

// Acquire fetches rawURL into workDir. The outcome always reports which
// strategy succeeded, or carries the last failure plus evidence describing
// it; it never panics the caller into a hard error.
func (a *Acquirer) Acquire(ctx context.Context, rawURL, workDir string) domain.AcquisitionOutcome {
	attempts := []struct {
		strategy domain.Strategy
		run      func() (string, error)
	}{
		{domain.StrategyDirectFetch, func() (string, error) {
			dest := filepath.Join(workDir, "media.bin")
			if err := a.direct.Fetch(ctx, rawURL, dest); err != nil {
				return "", err
			}
			return dest, nil
		}},
		{domain.StrategyDownloaderPrimary, func() (string, error) {
			return a.tool.Download(ctx, rawURL, workDir, FormatPreferred, true)
		}},
		{domain.StrategyDownloaderFallback, func() (string, error) {
			return a.tool.Download(ctx, rawURL, workDir, FormatFallback, false)
		}},
	}

	var lastErr *domain.AcquireError
	for _, attempt := range attempts {
		path, err := attempt.run()
		if err != nil {
			lastErr = domain.NewAcquireError(attempt.strategy, err)
			a.logger.Debug("acquisition attempt failed",
				"strategy", string(attempt.strategy), "url", rawURL, "error", err)
			continue
		}
		a.logger.Info("media acquired", "strategy", string(attempt.strategy), "url", rawURL)
		return domain.AcquisitionOutcome{
			Blob:     &domain.MediaBlob{Path: path},
			Strategy: attempt.strategy,
			Evidence: []domain.EvidenceItem{fetchEvidence(attempt.strategy)},
		}
	}

	return domain.AcquisitionOutcome{
		Evidence: []domain.EvidenceItem{failureEvidence(lastErr)},
		Err:      lastErr,
	}
}

func fetchEvidence(strategy domain.Strategy) domain.EvidenceItem {
	if strategy == domain.StrategyDirectFetch {
		return domain.EvidenceItem{Label: "Fetch", Value: "Direct GET"}
	}
	return domain.EvidenceItem{Label: "Fetch", Value: "yt-dlp downloaded"}
}

// failureEvidence renders the terminal failure. A missing-file condition is
// reported as the absence of a downloadable stream; anything else surfaces
// the downloader's own message, stripped of terminal escapes.
func failureEvidence(lastErr *domain.AcquireError) domain.EvidenceItem {
	if lastErr == nil || errors.Is(lastErr, domain.ErrNoMediaFile) {
		return domain.EvidenceItem{Label: "Fetch", Value: "No downloadable video stream"}
	}
	return domain.EvidenceItem{Label: "Fetch", Value: "yt-dlp error: " + SanitizeANSI(lastErr.Err.Error())}
}
