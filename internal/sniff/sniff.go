// Package sniff classifies local files as image, video or unknown.
package sniff

import (
	"context"
	"image"
	"mime"
	"os"
	"path/filepath"
	"strings"

	// Still-image decoders used by the content probe.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/iconidentify/aidentify/internal/domain"
)

// VideoProber checks whether a file opens as a video container with at
// least one frame.
type VideoProber interface {
	HasVideoStream(ctx context.Context, path string) bool
}

// extKinds covers media extensions the mime table misses or misreports.
var extKinds = map[string]domain.MediaKind{
	".jpg":  domain.MediaImage,
	".jpeg": domain.MediaImage,
	".png":  domain.MediaImage,
	".gif":  domain.MediaImage,
	".webp": domain.MediaImage,
	".bmp":  domain.MediaImage,
	".mp4":  domain.MediaVideo,
	".mov":  domain.MediaVideo,
	".mkv":  domain.MediaVideo,
	".webm": domain.MediaVideo,
	".m4v":  domain.MediaVideo,
	".avi":  domain.MediaVideo,
}

// Sniffer classifies a local file using extension lookup first, then a
// still-image decode probe, then a video container probe. All checks are
// read-only and idempotent.
type Sniffer struct {
	prober VideoProber
}

// New creates a sniffer. prober may be nil, in which case the video content
// probe is skipped.
func New(prober VideoProber) *Sniffer {
	return &Sniffer{prober: prober}
}

// Detect returns the media kind of the file at path, or MediaUnknown when
// every classification step fails.
func (s *Sniffer) Detect(ctx context.Context, path string) domain.MediaKind {
	if kind := kindFromExtension(path); kind != domain.MediaUnknown {
		return kind
	}

	if decodesAsImage(path) {
		return domain.MediaImage
	}

	if s.prober != nil && s.prober.HasVideoStream(ctx, path) {
		return domain.MediaVideo
	}

	return domain.MediaUnknown
}

func kindFromExtension(path string) domain.MediaKind {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return domain.MediaUnknown
	}
	if kind, ok := extKinds[ext]; ok {
		return kind
	}
	switch mt := mime.TypeByExtension(ext); {
	case strings.HasPrefix(mt, "image/"):
		return domain.MediaImage
	case strings.HasPrefix(mt, "video/"):
		return domain.MediaVideo
	}
	return domain.MediaUnknown
}

func decodesAsImage(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	_, _, err = image.DecodeConfig(f)
	return err == nil
}
