package analysis

import (
	"context"
	"errors"
	"image"
	"os"

	"github.com/iconidentify/aidentify/internal/config"
	"github.com/iconidentify/aidentify/internal/domain"
)

// FrameSampler extracts up to n evenly spaced frames from a video file into
// outDir and returns their paths in frame order.
type FrameSampler interface {
	SampleFrames(ctx context.Context, videoPath string, n int, outDir string) ([]string, error)
}

// VideoAnalyzer samples frames from a video, extracts per-frame signals and
// fuses the averages. A video with zero decodable frames yields all-zero
// averages and an empty face count; by design that fuses to a high
// AI-likely score rather than an error.
type VideoAnalyzer struct {
	cfg     config.AnalysisConfig
	sampler FrameSampler
	faces   *FaceCounter
}

// NewVideoAnalyzer creates a video analyzer. faces may be nil, in which
// case the face signal is always zero.
func NewVideoAnalyzer(cfg config.AnalysisConfig, sampler FrameSampler, faces *FaceCounter) *VideoAnalyzer {
	return &VideoAnalyzer{cfg: cfg, sampler: sampler, faces: faces}
}

// Analyze classifies the video file at path.
func (a *VideoAnalyzer) Analyze(ctx context.Context, path string) (result domain.VerdictResult) {
	defer func() {
		if r := recover(); r != nil {
			result = domain.Inconclusive(domain.Evidencef("Error", "%v", r))
		}
	}()

	frameDir, err := os.MkdirTemp("", "aidentify-frames-")
	if err != nil {
		return domain.Inconclusive(domain.Evidencef("Error", "%v", err))
	}
	defer os.RemoveAll(frameDir)

	framePaths, err := a.sampler.SampleFrames(ctx, path, a.cfg.MaxFrames, frameDir)
	if err != nil && !errors.Is(err, domain.ErrNoFrames) {
		return domain.Inconclusive(domain.Evidencef("Error", "%v", err))
	}

	var laps, hfs []float64
	faceTotal := 0
	for _, fp := range framePaths {
		frame, err := decodeFrame(fp)
		if err != nil {
			// Corrupt frames are skipped, not fatal.
			continue
		}
		gray := ToGray(frame)
		laps = append(laps, LaplacianVar(gray))
		hfs = append(hfs, HighFreqMean(gray, a.cfg.BlurSigma))
		faceTotal += a.faces.Count(gray)
	}

	return FuseVideo(SignalVector{
		SignalLaplacianAvg: mean(laps),
		SignalHighFreqAvg:  mean(hfs),
		SignalFaces:        float64(faceTotal),
	})
}

func decodeFrame(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	return img, err
}

func mean(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}
