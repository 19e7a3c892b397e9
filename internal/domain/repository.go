package domain

import (
	"context"
	"strings"
)

// ExtractionClient defines the interface for the optical extraction
// and web search collaborator service.
type ExtractionClient interface {
	// Extract submits one or two card images under a caller-supplied
	// correlation id and returns the raw extracted fields. Failures
	// are terminal; there is no partial result.
	Extract(ctx context.Context, requestID string, front ImagePayload, back *ImagePayload) (*ExtractionResult, error)

	// SearchWeb runs a free-text query against the global vendor and
	// product directories.
	SearchWeb(ctx context.Context, query string) (*WebSearchResult, error)
}

// StatusUpdate is one advisory message from the progress channel.
type StatusUpdate struct {
	Status string `json:"status"`
}

// IsError reports whether the status text is error-level by the fixed
// prefix convention of the channel.
func (u StatusUpdate) IsError() bool {
	return strings.HasPrefix(u.Status, "Error")
}

// IsTerminal reports whether the status marks the end of the stream.
func (u StatusUpdate) IsTerminal() bool {
	return u.Status == "Complete" || u.IsError()
}

// ProgressStream defines the one-directional advisory status channel
// keyed by an extraction correlation id. The returned channel closes
// when the stream terminates or ctx is cancelled; it carries no
// delivery or backpressure guarantees.
type ProgressStream interface {
	Subscribe(ctx context.Context, requestID string) (<-chan StatusUpdate, error)
}

// VendorStore defines the interface for vendor record persistence.
type VendorStore interface {
	List(ctx context.Context) ([]VendorRecord, error)
	Search(ctx context.Context, query string) ([]VendorRecord, error)
	Create(ctx context.Context, rec *VendorRecord) (*VendorRecord, error)
	Update(ctx context.Context, id string, rec *VendorRecord) (*VendorRecord, error)
	Delete(ctx context.Context, id string) error
}

// ScrapeOutcome is the result of a pricing lookup against a vendor
// website.
type ScrapeOutcome struct {
	Items    []PricingItem
	Products []string
	Status   ScrapeStatus
}

// PricingScraper defines the interface for the web pricing lookup
// collaborator.
type PricingScraper interface {
	ScrapePricing(ctx context.Context, website string) (*ScrapeOutcome, error)
}

// SearchCache holds recent web search responses so repeated queries
// skip the expensive collaborator round trip.
type SearchCache interface {
	Get(ctx context.Context, query string) (*WebSearchResult, bool)
	Set(ctx context.Context, query string, result *WebSearchResult)
}

// ShortlistExporter turns a shortlist into a downloadable artifact.
// It returns the file bytes, a suggested filename and the MIME type.
type ShortlistExporter interface {
	Export(entries []ShortlistEntry) ([]byte, string, string, error)
}
