package acquire

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/iconidentify/aidentify/internal/config"
	"github.com/iconidentify/aidentify/internal/domain"
)

// Format selectors for the external downloader. The preferred selector caps
// resolution at 720p and pins mp4 so ffmpeg can always open the result; the
// fallback takes whatever the extractor offers.
const (
	FormatPreferred = "bv*[ext=mp4][height<=720]+ba[ext=m4a]/b[ext=mp4][height<=720]/best[ext=mp4]/best"
	FormatFallback  = "best"
)

// ToolDownloader shells out to yt-dlp for URLs that do not serve media
// directly.
type ToolDownloader struct {
	path               string
	userAgent          string
	cookiesFromBrowser string
	logger             *slog.Logger
}

// NewToolDownloader creates a downloader around the configured yt-dlp binary.
func NewToolDownloader(cfg config.AcquireConfig, logger *slog.Logger) *ToolDownloader {
	return &ToolDownloader{
		path:               cfg.YtdlpPath,
		userAgent:          cfg.UserAgent,
		cookiesFromBrowser: cfg.CookiesFromBrowser,
		logger:             logger,
	}
}

// Download runs yt-dlp against rawURL, writing into outDir, and returns the
// path of the downloaded file. importCookies controls best-effort browser
// cookie import; the fallback pass runs without it so a missing browser
// profile cannot block the retry.
func (t *ToolDownloader) Download(ctx context.Context, rawURL, outDir, format string, importCookies bool) (string, error) {
	args := t.buildArgs(rawURL, outDir, format, importCookies)

	cmd := exec.CommandContext(ctx, t.path, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	t.logger.Debug("running downloader", "url", rawURL, "format", format, "cookies", importCookies)
	if err := cmd.Run(); err != nil {
		msg := lastNonEmptyLine(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("yt-dlp: %s", msg)
	}

	path := t.locateOutput(strings.TrimSpace(stdout.String()), outDir)
	if path == "" {
		return "", domain.ErrNoMediaFile
	}
	return path, nil
}

func (t *ToolDownloader) buildArgs(rawURL, outDir, format string, importCookies bool) []string {
	args := []string{
		"--output", filepath.Join(outDir, "%(id)s.%(ext)s"),
		"--format", format,
		"--merge-output-format", "mp4",
		"--no-playlist",
		"--no-simulate",
		"--print", "after_move:filepath",
		"--quiet",
		"--no-warnings",
		"--no-check-certificates",
		"--geo-bypass",
		"--user-agent", t.userAgent,
		"--extractor-args", "youtube:player_client=web,ios,android,tv",
	}
	if importCookies && t.cookiesFromBrowser != "" {
		args = append(args, "--cookies-from-browser", t.cookiesFromBrowser)
	}
	return append(args, rawURL)
}

// locateOutput resolves the final file. yt-dlp prints the post-merge path on
// stdout; when remuxing renames the container, the printed path can trail the
// actual file, so sibling candidates with an mp4 extension are checked too.
// As a last resort the newest non-empty file in outDir wins.
func (t *ToolDownloader) locateOutput(printed, outDir string) string {
	for _, candidate := range outputCandidates(printed) {
		if nonEmptyFile(candidate) {
			return candidate
		}
	}
	return newestFile(outDir)
}

func outputCandidates(printed string) []string {
	if printed == "" {
		return nil
	}
	printed = lastNonEmptyLine(printed)
	candidates := []string{printed}
	ext := strings.ToLower(filepath.Ext(printed))
	if ext == ".webm" || ext == ".mkv" {
		candidates = append(candidates, strings.TrimSuffix(printed, filepath.Ext(printed))+".mp4")
	}
	return candidates
}

func nonEmptyFile(path string) bool {
	st, err := os.Stat(path)
	return err == nil && st.Mode().IsRegular() && st.Size() > 0
}

func newestFile(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	type fileAge struct {
		path string
		mod  int64
	}
	var files []fileAge
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil || info.Size() == 0 {
			continue
		}
		files = append(files, fileAge{filepath.Join(dir, e.Name()), info.ModTime().UnixNano()})
	}
	if len(files) == 0 {
		return ""
	}
	sort.Slice(files, func(i, j int) bool { return files[i].mod > files[j].mod })
	return files[0].path
}

func lastNonEmptyLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
