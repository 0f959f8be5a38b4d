package handler

import (
	"context"
	"io"
	"log/slog"

	"github.com/iconidentify/aidentify/internal/domain"
	"github.com/iconidentify/aidentify/internal/repository"
)

// testLogger returns a silent logger for tests.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockAnalysisService is a test implementation of AnalysisService.
type mockAnalysisService struct {
	result      *domain.VerdictResult
	uploadErr   error
	urlErr      error
	readyErr    error
	gotFilename string
	gotURL      string
}

func (m *mockAnalysisService) AnalyzeUpload(ctx context.Context, data io.Reader, filename string) (*domain.VerdictResult, error) {
	m.gotFilename = filename
	if m.uploadErr != nil {
		return nil, m.uploadErr
	}
	return m.result, nil
}

func (m *mockAnalysisService) AnalyzeURL(ctx context.Context, rawURL string) (*domain.VerdictResult, error) {
	m.gotURL = rawURL
	if m.urlErr != nil {
		return nil, m.urlErr
	}
	if rawURL == "" {
		return nil, domain.ErrEmptyURL
	}
	return m.result, nil
}

func (m *mockAnalysisService) Ready(ctx context.Context) error { return m.readyErr }

// mockHistoryRepo is a test implementation of repository.AnalysisRepository.
type mockHistoryRepo struct {
	records []*repository.Record
	listErr error
	getErr  error
}

func (m *mockHistoryRepo) Save(ctx context.Context, rec *repository.Record) error {
	m.records = append(m.records, rec)
	return nil
}

func (m *mockHistoryRepo) List(ctx context.Context, limit, offset int) ([]*repository.Record, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	if offset >= len(m.records) {
		return nil, nil
	}
	end := offset + limit
	if end > len(m.records) {
		end = len(m.records)
	}
	return m.records[offset:end], nil
}

func (m *mockHistoryRepo) Get(ctx context.Context, id string) (*repository.Record, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, rec := range m.records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return nil, domain.ErrRecordNotFound
}

func (m *mockHistoryRepo) Count(ctx context.Context) (int, error) {
	return len(m.records), nil
}

func (m *mockHistoryRepo) Close() error { return nil }

func inconclusiveResult() *domain.VerdictResult {
	return &domain.VerdictResult{
		Verdict:    domain.VerdictInconclusive,
		Confidence: 0.2,
		Evidence: []domain.EvidenceItem{
			{Label: "Source", Value: "Local detector"},
			{Label: "ELA", Value: "0.35"},
			{Label: "Laplacian", Value: "120.4"},
			{Label: "HighFreq", Value: "0.18"},
		},
	}
}
