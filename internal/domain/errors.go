package domain

import "errors"

var (
	// ErrFrontImageRequired is returned when extraction is started without a front image
	ErrFrontImageRequired = errors.New("front image is required")

	// ErrNameRequired is returned when a draft is saved without a vendor name
	ErrNameRequired = errors.New("vendor name is required")

	// ErrEmptyQuery is returned for empty or whitespace-only search queries
	ErrEmptyQuery = errors.New("search query is empty")

	// ErrExtractionInProgress is returned when a new ingestion session is started while one is active
	ErrExtractionInProgress = errors.New("an ingestion session is already active")

	// ErrNoActiveDraft is returned when a review operation runs without a draft under review
	ErrNoActiveDraft = errors.New("no draft is under review")

	// ErrUnknownField is returned when an edit targets a field the draft does not expose
	ErrUnknownField = errors.New("unknown draft field")

	// ErrDraftNotPersisted is returned when delete is requested for a draft without a record id
	ErrDraftNotPersisted = errors.New("draft is not backed by a stored record")

	// ErrDeleteNotRequested is returned when a delete is committed without the confirmation step
	ErrDeleteNotRequested = errors.New("delete has not been requested")

	// ErrVendorNotFound is returned when a store operation targets a missing record
	ErrVendorNotFound = errors.New("vendor record not found")

	// ErrExtractionFailed is returned when the extraction service responded with an error detail
	ErrExtractionFailed = errors.New("extraction service reported a failure")

	// ErrSearchFailed is returned when the web search service responded with an error detail
	ErrSearchFailed = errors.New("web search service reported a failure")

	// ErrServiceUnreachable is returned when a collaborator could not be reached at all
	ErrServiceUnreachable = errors.New("could not reach service")

	// ErrStoreFailure is returned when the vendor store rejects an operation
	ErrStoreFailure = errors.New("vendor store operation failed")

	// ErrShortlistIndex is returned when a shortlist removal targets a position that does not exist
	ErrShortlistIndex = errors.New("shortlist index out of range")

	// ErrInvalidShortlistEntry is returned when a shortlist add carries no usable type or title
	ErrInvalidShortlistEntry = errors.New("invalid shortlist entry")
)
