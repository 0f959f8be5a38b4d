package analysis

import (
	"math"

	"github.com/iconidentify/aidentify/internal/domain"
)

// Verdict cutoffs shared by both fusion rule sets.
const (
	scoreBase        = 0.5
	cutoffLikelyAI   = 0.7
	cutoffLikelyReal = 0.3
)

// videoELAPlaceholder is reported for compatibility with earlier response
// consumers. ELA over re-compressed video frames is too noisy to score, so
// the value is informational only and never feeds the fusion rule.
const videoELAPlaceholder = 0.01

// FuseImage applies the image rule set to a signal vector and returns the
// fused verdict with the full evidence trail. Deterministic: identical
// vectors always produce identical results.
func FuseImage(sv SignalVector) domain.VerdictResult {
	ela := sv[SignalELA]
	lap := sv[SignalLaplacian]
	hf := sv[SignalHighFreq]

	evidence := []domain.EvidenceItem{
		domain.Evidencef("ELA", "%.2f", ela),
		domain.Evidencef("Laplacian", "%.1f", lap),
		domain.Evidencef("HighFreq", "%.2f", hf),
	}

	score := scoreBase
	if ela >= 0.60 {
		score += 0.20
	} else if ela >= 0.40 {
		score += 0.10
	}
	if lap < 40 {
		score += 0.10
	}
	if hf < 0.12 {
		score += 0.05
	}

	return verdictFromScore(score, evidence)
}

// FuseVideo applies the video rule set to averaged per-frame signals plus
// the cumulative face count.
func FuseVideo(sv SignalVector) domain.VerdictResult {
	lapAvg := sv[SignalLaplacianAvg]
	hfAvg := sv[SignalHighFreqAvg]
	faces := int(sv[SignalFaces])

	evidence := []domain.EvidenceItem{
		domain.Evidencef("Video ELA avg", "%.2f", videoELAPlaceholder),
		domain.Evidencef("Video HighFreq avg", "%.2f", hfAvg),
		domain.Evidencef("Video Laplacian avg", "%.1f", lapAvg),
		domain.Evidencef("Faces (sum)", "%d", faces),
	}

	score := scoreBase
	if lapAvg < 60 {
		score += 0.15
	}
	if hfAvg < 0.14 {
		score += 0.10
	}
	if faces == 0 {
		score += 0.05
	}

	return verdictFromScore(score, evidence)
}

func verdictFromScore(score float64, evidence []domain.EvidenceItem) domain.VerdictResult {
	score = math.Max(0.0, math.Min(1.0, score))

	verdict := domain.VerdictInconclusive
	if score > cutoffLikelyAI {
		verdict = domain.VerdictLikelyAI
	} else if score < cutoffLikelyReal {
		verdict = domain.VerdictLikelyReal
	}

	return domain.VerdictResult{
		Verdict:    verdict,
		Confidence: round2(math.Abs(score-scoreBase) * 2),
		Evidence:   evidence,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
