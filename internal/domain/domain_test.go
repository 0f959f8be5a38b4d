package domain

import (
	"errors"
	"testing"
)

func TestWithPrependedEvidence_Order(t *testing.T) {
	res := VerdictResult{
		Verdict:    VerdictInconclusive,
		Confidence: 0.2,
		Evidence: []EvidenceItem{
			{Label: "ELA", Value: "0.12"},
			{Label: "Laplacian", Value: "55.0"},
		},
	}

	merged := res.WithPrependedEvidence(
		EvidenceItem{Label: "Fetch", Value: "Direct GET"},
		EvidenceItem{Label: "Source", Value: "Local detector"},
	)

	want := []string{"Fetch", "Source", "ELA", "Laplacian"}
	if len(merged.Evidence) != len(want) {
		t.Fatalf("evidence count = %d, want %d", len(merged.Evidence), len(want))
	}
	for i, label := range want {
		if merged.Evidence[i].Label != label {
			t.Errorf("evidence[%d].Label = %q, want %q", i, merged.Evidence[i].Label, label)
		}
	}
}

func TestWithPrependedEvidence_DoesNotMutateOriginal(t *testing.T) {
	res := VerdictResult{Evidence: []EvidenceItem{{Label: "ELA", Value: "0.10"}}}
	_ = res.WithPrependedEvidence(EvidenceItem{Label: "Fetch", Value: "Direct GET"})

	if len(res.Evidence) != 1 || res.Evidence[0].Label != "ELA" {
		t.Errorf("original evidence mutated: %+v", res.Evidence)
	}
}

func TestWithPrependedEvidence_Empty(t *testing.T) {
	res := VerdictResult{Evidence: []EvidenceItem{{Label: "ELA", Value: "0.10"}}}
	merged := res.WithPrependedEvidence()
	if len(merged.Evidence) != 1 {
		t.Errorf("evidence count = %d, want 1", len(merged.Evidence))
	}
}

func TestWithAppendedEvidence_Order(t *testing.T) {
	res := VerdictResult{Evidence: []EvidenceItem{{Label: "ELA", Value: "0.10"}}}
	merged := res.WithAppendedEvidence(EvidenceItem{Label: "Error", Value: "decode failed"})

	if len(merged.Evidence) != 2 {
		t.Fatalf("evidence count = %d, want 2", len(merged.Evidence))
	}
	if merged.Evidence[1].Label != "Error" {
		t.Errorf("last label = %q, want Error", merged.Evidence[1].Label)
	}
}

func TestInconclusive(t *testing.T) {
	res := Inconclusive(EvidenceItem{Label: "File", Value: "Unsupported"})
	if res.Verdict != VerdictInconclusive {
		t.Errorf("verdict = %q, want %q", res.Verdict, VerdictInconclusive)
	}
	if res.Confidence != 0.0 {
		t.Errorf("confidence = %v, want 0.0", res.Confidence)
	}
	if len(res.Evidence) != 1 || res.Evidence[0].Value != "Unsupported" {
		t.Errorf("evidence = %+v", res.Evidence)
	}
}

func TestAcquireError(t *testing.T) {
	inner := errors.New("connection refused")
	err := NewAcquireError(StrategyDownloaderPrimary, inner)

	if !errors.Is(err, inner) {
		t.Error("AcquireError should unwrap to inner error")
	}
	want := "downloader-primary: connection refused"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestAcquisitionOutcome_OK(t *testing.T) {
	tests := []struct {
		name    string
		outcome AcquisitionOutcome
		want    bool
	}{
		{"success", AcquisitionOutcome{Blob: &MediaBlob{Path: "/tmp/x.mp4"}}, true},
		{"failure", AcquisitionOutcome{Err: errors.New("boom")}, false},
		{"empty", AcquisitionOutcome{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.outcome.OK(); got != tt.want {
				t.Errorf("OK() = %v, want %v", got, tt.want)
			}
		})
	}
}
