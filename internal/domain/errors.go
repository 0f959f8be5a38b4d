package domain

import "errors"

// Domain errors.
var (
	// ErrNoMediaFile is returned when acquisition produced no usable file.
	ErrNoMediaFile = errors.New("no downloadable media file")

	// ErrUnsupportedMedia is returned when sniffing cannot classify a file.
	ErrUnsupportedMedia = errors.New("unsupported media type")

	// ErrDetectorUnavailable is returned when the detector boundary cannot
	// be reached. This is the one failure that surfaces as a hard HTTP error.
	ErrDetectorUnavailable = errors.New("detector unavailable")

	// ErrEmptyURL is returned when the url form field is missing or blank.
	ErrEmptyURL = errors.New("url must not be empty")

	// ErrNoFrames is returned when a video container opens but yields no
	// decodable frames.
	ErrNoFrames = errors.New("no decodable frames")

	// ErrRecordNotFound is returned when a history record does not exist.
	ErrRecordNotFound = errors.New("analysis record not found")
)

// AcquireError wraps an error with the strategy that raised it.
type AcquireError struct {
	Strategy Strategy
	Err      error
}

func (e *AcquireError) Error() string {
	return string(e.Strategy) + ": " + e.Err.Error()
}

func (e *AcquireError) Unwrap() error {
	return e.Err
}

// NewAcquireError creates a new AcquireError.
func NewAcquireError(strategy Strategy, err error) *AcquireError {
	return &AcquireError{Strategy: strategy, Err: err}
}
