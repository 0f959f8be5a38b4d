// Package service orchestrates acquisition, sniffing and detector calls
// into a single analysis flow.
package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/iconidentify/aidentify/internal/domain"
	"github.com/iconidentify/aidentify/internal/repository"
)

// DetectorClient is the analysis boundary. Unreachability is the one error
// that propagates to the caller as a hard failure.
type DetectorClient interface {
	AnalyzeFile(ctx context.Context, path string, kind domain.MediaKind) (*domain.VerdictResult, error)
	Ping(ctx context.Context) error
}

// Sniffer classifies a local file's media kind.
type Sniffer interface {
	Detect(ctx context.Context, path string) domain.MediaKind
}

// Acquirer turns a URL into a local media file.
type Acquirer interface {
	Acquire(ctx context.Context, rawURL, workDir string) domain.AcquisitionOutcome
}

// HistoryRecorder persists completed analyses.
type HistoryRecorder interface {
	Save(ctx context.Context, rec *repository.Record) error
}

// AnalysisService routes media to the detector and merges acquisition
// evidence ahead of the analysis evidence. Every request gets its own
// working directory that is removed on all exit paths.
type AnalysisService struct {
	detector DetectorClient
	sniffer  Sniffer
	acquirer Acquirer
	history  HistoryRecorder // optional
	tempPath string
	logger   *slog.Logger
}

// NewAnalysisService creates the analysis service. history may be nil to
// disable persistence.
func NewAnalysisService(detector DetectorClient, sniffer Sniffer, acquirer Acquirer, history HistoryRecorder, tempPath string, logger *slog.Logger) *AnalysisService {
	return &AnalysisService{
		detector: detector,
		sniffer:  sniffer,
		acquirer: acquirer,
		history:  history,
		tempPath: tempPath,
		logger:   logger,
	}
}

// AnalyzeUpload classifies an uploaded file.
func (s *AnalysisService) AnalyzeUpload(ctx context.Context, data io.Reader, filename string) (*domain.VerdictResult, error) {
	workDir, cleanup, err := s.workDir()
	if err != nil {
		return nil, err
	}
	defer cleanup()

	path := filepath.Join(workDir, sanitizeFilename(filename))
	if err := writeFile(path, data); err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}

	kind := s.sniffer.Detect(ctx, path)
	if kind == domain.MediaUnknown {
		result := domain.Inconclusive(domain.EvidenceItem{Label: "File", Value: "Unsupported"})
		s.record(ctx, "upload", "", kind, "", &result)
		return &result, nil
	}

	analyzed, err := s.detector.AnalyzeFile(ctx, path, kind)
	if err != nil {
		return nil, err
	}

	result := analyzed.WithPrependedEvidence(domain.EvidenceItem{Label: "Source", Value: "Local detector"})
	s.record(ctx, "upload", "", kind, "", &result)
	return &result, nil
}

// AnalyzeURL acquires the media behind rawURL and classifies it.
// Acquisition failure is not an error: it degrades to an inconclusive
// verdict carrying the acquisition evidence trail.
func (s *AnalysisService) AnalyzeURL(ctx context.Context, rawURL string) (*domain.VerdictResult, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, domain.ErrEmptyURL
	}

	workDir, cleanup, err := s.workDir()
	if err != nil {
		return nil, err
	}
	defer cleanup()

	outcome := s.acquirer.Acquire(ctx, rawURL, workDir)
	if !outcome.OK() {
		evidence := append(append([]domain.EvidenceItem{}, outcome.Evidence...),
			domain.EvidenceItem{Label: "File", Value: "Unsupported"})
		result := domain.Inconclusive(evidence...)
		s.record(ctx, "url", rawURL, domain.MediaUnknown, "", &result)
		return &result, nil
	}

	kind := s.sniffer.Detect(ctx, outcome.Blob.Path)
	if kind == domain.MediaUnknown {
		evidence := append(append([]domain.EvidenceItem{}, outcome.Evidence...),
			domain.EvidenceItem{Label: "File", Value: "Unsupported"})
		result := domain.Inconclusive(evidence...)
		s.record(ctx, "url", rawURL, kind, string(outcome.Strategy), &result)
		return &result, nil
	}

	analyzed, err := s.detector.AnalyzeFile(ctx, outcome.Blob.Path, kind)
	if err != nil {
		return nil, err
	}

	prefix := append(append([]domain.EvidenceItem{}, outcome.Evidence...),
		domain.EvidenceItem{Label: "Source", Value: "Local detector"})
	result := analyzed.WithPrependedEvidence(prefix...)
	s.record(ctx, "url", rawURL, kind, string(outcome.Strategy), &result)
	return &result, nil
}

// Ready reports whether the detector boundary answers.
func (s *AnalysisService) Ready(ctx context.Context) error {
	return s.detector.Ping(ctx)
}

// workDir creates a per-request scratch directory under the temp root.
func (s *AnalysisService) workDir() (string, func(), error) {
	dir := filepath.Join(s.tempPath, uuid.New().String())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", nil, fmt.Errorf("create work dir: %w", err)
	}
	return dir, func() { os.RemoveAll(dir) }, nil
}

// record saves the analysis to history. Persistence failures are logged,
// never surfaced.
func (s *AnalysisService) record(ctx context.Context, source, rawURL string, kind domain.MediaKind, strategy string, result *domain.VerdictResult) {
	if s.history == nil {
		return
	}
	rec := &repository.Record{
		ID:         uuid.New().String(),
		Source:     source,
		URL:        rawURL,
		Kind:       string(kind),
		Verdict:    string(result.Verdict),
		Confidence: result.Confidence,
		Strategy:   strategy,
	}
	if err := s.history.Save(ctx, rec); err != nil {
		s.logger.Warn("history save failed", "error", err)
	}
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	if base == "." || base == string(filepath.Separator) || base == "" {
		return "upload.bin"
	}
	return base
}

func writeFile(path string, data io.Reader) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(f, data)
	return err
}
