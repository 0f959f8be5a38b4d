package domain

import "fmt"

// Verdict is the three-way classification outcome.
type Verdict string

const (
	VerdictLikelyAI     Verdict = "likelyAI"
	VerdictLikelyReal   Verdict = "likelyReal"
	VerdictInconclusive Verdict = "inconclusive"
)

// EvidenceItem is a single labeled observation supporting a verdict.
// Order of evidence items is significant and preserved verbatim in responses:
// acquisition evidence precedes analysis evidence precedes error evidence.
type EvidenceItem struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// VerdictResult is the complete outcome of one analysis. It is fully
// determined by the extracted signals plus the fusion rule; there is no
// hidden state. Every result carries at least one evidence item explaining
// either the signals used or why analysis could not run.
type VerdictResult struct {
	Verdict    Verdict        `json:"verdict"`
	Confidence float64        `json:"confidence"`
	Evidence   []EvidenceItem `json:"evidence"`
}

// Inconclusive returns a zero-confidence result with the given evidence.
func Inconclusive(evidence ...EvidenceItem) VerdictResult {
	return VerdictResult{
		Verdict:    VerdictInconclusive,
		Confidence: 0.0,
		Evidence:   evidence,
	}
}

// WithPrependedEvidence returns a copy of the result with items placed
// before the existing evidence. This is the single place evidence ordering
// across pipeline stages is defined.
func (r VerdictResult) WithPrependedEvidence(items ...EvidenceItem) VerdictResult {
	if len(items) == 0 {
		return r
	}
	merged := make([]EvidenceItem, 0, len(items)+len(r.Evidence))
	merged = append(merged, items...)
	merged = append(merged, r.Evidence...)
	r.Evidence = merged
	return r
}

// WithAppendedEvidence returns a copy of the result with items placed after
// the existing evidence (used for trailing error evidence).
func (r VerdictResult) WithAppendedEvidence(items ...EvidenceItem) VerdictResult {
	if len(items) == 0 {
		return r
	}
	merged := make([]EvidenceItem, 0, len(r.Evidence)+len(items))
	merged = append(merged, r.Evidence...)
	merged = append(merged, items...)
	r.Evidence = merged
	return r
}

// Evidencef builds an evidence item with a formatted value.
func Evidencef(label, format string, args ...any) EvidenceItem {
	return EvidenceItem{Label: label, Value: fmt.Sprintf(format, args...)}
}
