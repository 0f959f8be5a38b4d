// Package ffmpeg wraps the ffmpeg/ffprobe binaries for the two operations
// the analysis pipeline needs: counting decodable frames and extracting a
// small evenly spaced frame sample.
package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Prober runs ffprobe/ffmpeg against local video files.
type Prober struct {
	ffmpegPath  string
	ffprobePath string
}

// New locates ffmpeg and ffprobe in PATH.
func New() (*Prober, error) {
	ffmpegPath, err := exec.LookPath("ffmpeg")
	if err != nil {
		return nil, fmt.Errorf("ffmpeg not found in PATH: %w", err)
	}
	ffprobePath, err := exec.LookPath("ffprobe")
	if err != nil {
		return nil, fmt.Errorf("ffprobe not found in PATH: %w", err)
	}
	return &Prober{ffmpegPath: ffmpegPath, ffprobePath: ffprobePath}, nil
}

// IsAvailable checks whether both binaries are on PATH.
func IsAvailable() bool {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return false
	}
	_, err := exec.LookPath("ffprobe")
	return err == nil
}

// CountFrames returns the number of packets in the first video stream,
// which approximates the decodable frame count without a full decode.
func (p *Prober) CountFrames(ctx context.Context, videoPath string) (int, error) {
	cmd := exec.CommandContext(ctx, p.ffprobePath,
		"-v", "error",
		"-select_streams", "v:0",
		"-count_packets",
		"-show_entries", "stream=nb_read_packets",
		"-of", "csv=p=0",
		videoPath,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return 0, fmt.Errorf("ffprobe: %s", msg)
		}
		return 0, fmt.Errorf("ffprobe: %w", err)
	}

	total, err := strconv.Atoi(strings.TrimSpace(string(output)))
	if err != nil {
		return 0, fmt.Errorf("parse frame count %q: %w", strings.TrimSpace(string(output)), err)
	}
	return total, nil
}

// HasVideoStream reports whether the file opens as a video container with
// at least one frame. Probe failures report false rather than an error so
// callers can use this as a classification check.
func (p *Prober) HasVideoStream(ctx context.Context, videoPath string) bool {
	total, err := p.CountFrames(ctx, videoPath)
	return err == nil && total > 0
}

// SampleFrames extracts up to n frames evenly spaced across the stream into
// outDir as PNG files and returns their paths in frame order. Sampling
// starts at frame 0 with step = max(1, total/n). A video with zero
// decodable frames returns an empty slice and no error.
func (p *Prober) SampleFrames(ctx context.Context, videoPath string, n int, outDir string) ([]string, error) {
	if n < 1 {
		n = 1
	}

	total, err := p.CountFrames(ctx, videoPath)
	if err != nil {
		return nil, fmt.Errorf("count frames: %w", err)
	}
	if total == 0 {
		return nil, nil
	}

	step := total / n
	if step < 1 {
		step = 1
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("create frame dir: %w", err)
	}

	outputPattern := filepath.Join(outDir, "frame_%03d.png")
	cmd := exec.CommandContext(ctx, p.ffmpegPath,
		"-i", videoPath,
		// Keep frames 0, step, 2*step, ... in decode order.
		"-vf", fmt.Sprintf(`select=not(mod(n\,%d))`, step),
		"-vsync", "vfr",
		"-frames:v", strconv.Itoa(n),
		"-y",
		outputPattern,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("extract frames: %s", lastLine(msg))
		}
		return nil, fmt.Errorf("extract frames: %w", err)
	}

	entries, err := os.ReadDir(outDir)
	if err != nil {
		return nil, fmt.Errorf("read frame dir: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var frames []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".png") {
			continue
		}
		frames = append(frames, filepath.Join(outDir, e.Name()))
		if len(frames) >= n {
			break
		}
	}
	return frames, nil
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
