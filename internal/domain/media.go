package domain

// MediaKind is the discovered class of a local media file.
type MediaKind string

const (
	MediaImage   MediaKind = "image"
	MediaVideo   MediaKind = "video"
	MediaUnknown MediaKind = "unknown"
)

// MediaBlob is a local media file scoped to a single request. The owning
// request deletes the file (and its work directory) on every exit path.
type MediaBlob struct {
	Path string
	Kind MediaKind
}

// Strategy identifies one acquisition attempt in the fallback protocol.
type Strategy string

const (
	// StrategyDirectFetch streams the URL body with a plain GET.
	StrategyDirectFetch Strategy = "direct-fetch"

	// StrategyDownloaderPrimary runs the downloader tool with the
	// preferred format selector.
	StrategyDownloaderPrimary Strategy = "downloader-primary"

	// StrategyDownloaderFallback relaxes the format to best-available.
	StrategyDownloaderFallback Strategy = "downloader-fallback"
)

// AcquisitionOutcome is the terminal state of one Acquirer invocation.
// Either Blob is set (success) or Err explains the failure; Evidence holds
// the trail of what was tried in both cases.
type AcquisitionOutcome struct {
	Blob     *MediaBlob
	Strategy Strategy
	Evidence []EvidenceItem
	Err      error
}

// OK reports whether acquisition produced a usable local file.
func (o AcquisitionOutcome) OK() bool {
	return o.Blob != nil && o.Err == nil
}
