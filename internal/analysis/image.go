package analysis

import (
	"bytes"
	"fmt"
	"image"

	// Decoders for the formats the service accepts.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/iconidentify/aidentify/internal/config"
	"github.com/iconidentify/aidentify/internal/domain"
)

// ImageAnalyzer decodes a still image once, extracts all image signals and
// fuses them. Extraction failures never propagate: they degrade to an
// inconclusive result carrying an Error evidence item.
type ImageAnalyzer struct {
	cfg config.AnalysisConfig
}

// NewImageAnalyzer creates an image analyzer.
func NewImageAnalyzer(cfg config.AnalysisConfig) *ImageAnalyzer {
	return &ImageAnalyzer{cfg: cfg}
}

// Analyze classifies raw image bytes.
func (a *ImageAnalyzer) Analyze(data []byte) (result domain.VerdictResult) {
	defer func() {
		if r := recover(); r != nil {
			result = domain.Inconclusive(domain.Evidencef("Error", "%v", r))
		}
	}()

	sv, err := a.extract(data)
	if err != nil {
		return domain.Inconclusive(domain.Evidencef("Error", "%v", err))
	}
	return FuseImage(sv)
}

func (a *ImageAnalyzer) extract(data []byte) (SignalVector, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	ela, err := ELAScore(img, a.cfg.JPEGQuality)
	if err != nil {
		return nil, fmt.Errorf("ela: %w", err)
	}

	gray := ToGray(img)
	return SignalVector{
		SignalELA:       ela,
		SignalLaplacian: LaplacianVar(gray),
		SignalHighFreq:  HighFreqMean(gray, a.cfg.BlurSigma),
	}, nil
}
