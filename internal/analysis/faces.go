package analysis

import (
	"fmt"
	"os"

	pigo "github.com/esimov/pigo/core"
)

// faceQualityThreshold filters low-confidence cascade detections.
const faceQualityThreshold = 5.0

// FaceCounter counts face regions in grayscale frames using a pixel
// intensity comparison cascade. The classifier is loaded once at
// construction and passed explicitly into video analysis; a nil counter is
// valid and always reports zero faces, so a missing cascade file degrades
// the face signal without failing the analyzer.
type FaceCounter struct {
	classifier *pigo.Pigo
}

// NewFaceCounter loads the cascade file and prepares the classifier.
func NewFaceCounter(cascadePath string) (*FaceCounter, error) {
	data, err := os.ReadFile(cascadePath)
	if err != nil {
		return nil, fmt.Errorf("read cascade: %w", err)
	}
	classifier, err := pigo.NewPigo().Unpack(data)
	if err != nil {
		return nil, fmt.Errorf("unpack cascade: %w", err)
	}
	return &FaceCounter{classifier: classifier}, nil
}

// Count returns the number of face regions detected in the frame.
// A nil receiver reports zero.
func (f *FaceCounter) Count(g *Gray) int {
	if f == nil || f.classifier == nil {
		return 0
	}
	if g.W < 32 || g.H < 32 {
		return 0
	}

	maxSize := g.W
	if g.H < maxSize {
		maxSize = g.H
	}

	params := pigo.CascadeParams{
		MinSize:     32,
		MaxSize:     maxSize,
		ShiftFactor: 0.1,
		ScaleFactor: 1.1,
		ImageParams: pigo.ImageParams{
			Pixels: g.Pix,
			Rows:   g.H,
			Cols:   g.W,
			Dim:    g.W,
		},
	}

	dets := f.classifier.RunCascade(params, 0.0)
	dets = f.classifier.ClusterDetections(dets, 0.2)

	count := 0
	for _, det := range dets {
		if det.Q >= faceQualityThreshold {
			count++
		}
	}
	return count
}
