// Package repository persists analysis history.
package repository

import (
	"context"
	"time"
)

// Record is one completed analysis.
type Record struct {
	ID         string    `json:"id"`
	Source     string    `json:"source"` // "upload" or "url"
	URL        string    `json:"url,omitempty"`
	Kind       string    `json:"kind"`
	Verdict    string    `json:"verdict"`
	Confidence float64   `json:"confidence"`
	Strategy   string    `json:"strategy,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// AnalysisRepository stores analysis outcomes for the history endpoints.
type AnalysisRepository interface {
	// Save persists a completed analysis.
	Save(ctx context.Context, rec *Record) error

	// List returns records newest first.
	List(ctx context.Context, limit, offset int) ([]*Record, error)

	// Get retrieves a record by ID. Unknown IDs return
	// domain.ErrRecordNotFound.
	Get(ctx context.Context, id string) (*Record, error)

	// Count returns the total number of records.
	Count(ctx context.Context) (int, error)

	// Close releases the underlying store.
	Close() error
}
