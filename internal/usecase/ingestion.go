package usecase

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/storytellerz/backend/internal/domain"
)

// State is the ingestion session state.
type State string

const (
	StateIdle       State = "idle"
	StateExtracting State = "extracting"
	StateReviewing  State = "reviewing"
	StateSaving     State = "saving"
)

// IngestionConfig holds configuration for the ingestion service.
type IngestionConfig struct {
	UploadDir string
}

// IngestionService drives the card ingestion workflow:
// upload -> extract (with advisory progress) -> review/edit ->
// persist -> optional delete. At most one draft is active at a time;
// all mutation is serialized behind one mutex, and the shared vendor
// list is an owned snapshot replaced wholesale after every successful
// create, update or delete.
type IngestionService struct {
	mu            sync.Mutex
	state         State
	draft         *domain.ExtractionDraft
	deleteArmed   bool
	vendors       []domain.VendorRecord
	vendorsLoaded bool
	monitor       *ProgressMonitor

	extractor domain.ExtractionClient
	progress  domain.ProgressStream
	store     domain.VendorStore
	scraper   domain.PricingScraper
	uploadDir string
	newID     func() string
}

// NewIngestionService creates the ingestion service. The progress
// stream and pricing scraper are optional; without them extraction
// still works, only without the advisory feed or the local pricing
// fallback.
func NewIngestionService(
	extractor domain.ExtractionClient,
	progress domain.ProgressStream,
	store domain.VendorStore,
	scraper domain.PricingScraper,
	cfg IngestionConfig,
) *IngestionService {
	uploadDir := cfg.UploadDir
	if uploadDir == "" {
		uploadDir = "uploads"
	}
	return &IngestionService{
		state:     StateIdle,
		extractor: extractor,
		progress:  progress,
		store:     store,
		scraper:   scraper,
		uploadDir: uploadDir,
		newID:     uuid.NewString,
	}
}

// State returns the current session state.
func (s *IngestionService) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Draft returns the draft under review, or nil.
func (s *IngestionService) Draft() *domain.ExtractionDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return nil
	}
	copied := *s.draft
	return &copied
}

// ExtractionStatus returns the latest advisory status message for the
// current or most recent extraction.
func (s *IngestionService) ExtractionStatus() (domain.StatusUpdate, bool) {
	s.mu.Lock()
	monitor := s.monitor
	s.mu.Unlock()
	if monitor == nil {
		return domain.StatusUpdate{}, false
	}
	return monitor.Status(), true
}

// BeginExtraction starts a new ingestion session from one or two card
// images. The front image is mandatory. A fresh correlation id ties
// the extraction request to its advisory progress stream; the stream
// is closed the moment the primary call returns, success or not.
func (s *IngestionService) BeginExtraction(ctx context.Context, front *domain.ImagePayload, back *domain.ImagePayload) (*domain.ExtractionDraft, error) {
	if front == nil || len(front.Data) == 0 {
		return nil, domain.ErrFrontImageRequired
	}

	s.mu.Lock()
	if s.state != StateIdle {
		s.mu.Unlock()
		return nil, domain.ErrExtractionInProgress
	}
	s.state = StateExtracting
	s.mu.Unlock()

	imagePath, err := s.storeUpload(front)
	if err != nil {
		s.toIdle()
		return nil, fmt.Errorf("storing upload: %w", err)
	}
	if back != nil && len(back.Data) > 0 {
		if _, err := s.storeUpload(back); err != nil {
			log.Printf("[INGEST] storing back image failed: %v", err)
		}
	}

	requestID := s.newID()
	monitor := StartProgressMonitor(ctx, s.progress, requestID)
	s.mu.Lock()
	s.monitor = monitor
	s.mu.Unlock()

	res, err := s.extractor.Extract(ctx, requestID, *front, back)
	monitor.Close()

	s.mu.Lock()
	if err != nil {
		s.state = StateIdle
		s.mu.Unlock()
		return nil, err
	}

	res.ImagePath = imagePath
	s.mu.Unlock()

	s.enrichPricing(ctx, res)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = DraftFromExtraction(res)
	s.deleteArmed = false
	s.state = StateReviewing
	return s.draft, nil
}

// BeginReview opens an existing vendor record for editing. The record
// id rides along on the draft so the eventual save routes to update.
func (s *IngestionService) BeginReview(ctx context.Context, id string) (*domain.ExtractionDraft, error) {
	vendors, err := s.Vendors(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateIdle {
		return nil, domain.ErrExtractionInProgress
	}
	for i := range vendors {
		if vendors[i].ID == id {
			s.draft = DraftFromRecord(&vendors[i])
			s.deleteArmed = false
			s.state = StateReviewing
			return s.draft, nil
		}
	}
	return nil, domain.ErrVendorNotFound
}

// EditField mutates one editable draft field while reviewing. The
// record id, image path and scrape status are deliberately not
// reachable here.
func (s *IngestionService) EditField(name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateReviewing || s.draft == nil {
		return domain.ErrNoActiveDraft
	}

	switch name {
	case "name":
		s.draft.Name = value
	case "category":
		s.draft.Category = value
	case "website":
		s.draft.Website = value
	case "phone":
		s.draft.Phone = value
	case "email":
		s.draft.Email = value
	case "address":
		s.draft.Address = value
	case "products":
		s.draft.Products = value
	case "tagline":
		s.draft.Tagline = value
	case "socialMedia":
		s.draft.SocialMedia = value
	case "designation":
		s.draft.Designation = value
	case "supplierType":
		s.draft.SupplierType = value
	case "sourceOrigin":
		s.draft.SourceOrigin = value
	default:
		return fmt.Errorf("%w: %s", domain.ErrUnknownField, name)
	}
	return nil
}

// UpdatePricing replaces the draft's pricing guide, preserving the
// given order.
func (s *IngestionService) UpdatePricing(items []domain.PricingItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateReviewing || s.draft == nil {
		return domain.ErrNoActiveDraft
	}
	s.draft.PricingGuide = domain.NormalizePricing(items)
	return nil
}

// Save persists the draft, creating or updating based solely on
// whether the draft carries a record id. A failed save keeps the
// session in reviewing with the draft intact so edits are not lost.
func (s *IngestionService) Save(ctx context.Context) (*domain.VendorRecord, error) {
	s.mu.Lock()
	if s.state != StateReviewing || s.draft == nil {
		s.mu.Unlock()
		return nil, domain.ErrNoActiveDraft
	}
	if strings.TrimSpace(s.draft.Name) == "" {
		s.mu.Unlock()
		return nil, domain.ErrNameRequired
	}
	draft := s.draft
	s.state = StateSaving
	s.mu.Unlock()

	rec := recordFromDraft(draft)

	var saved *domain.VendorRecord
	var err error
	if draft.Persisted() {
		saved, err = s.store.Update(ctx, draft.ID, rec)
	} else {
		saved, err = s.store.Create(ctx, rec)
	}

	s.mu.Lock()
	if err != nil {
		s.state = StateReviewing
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreFailure, err)
	}
	s.draft = nil
	s.deleteArmed = false
	s.state = StateIdle
	s.mu.Unlock()

	s.refreshVendors(ctx)
	return saved, nil
}

// Cancel discards the draft under review.
func (s *IngestionService) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateReviewing || s.draft == nil {
		return domain.ErrNoActiveDraft
	}
	s.draft = nil
	s.deleteArmed = false
	s.state = StateIdle
	return nil
}

// RequestDelete arms deletion of the reviewed record. Deletion is
// two-phase: it must be requested, then confirmed.
func (s *IngestionService) RequestDelete() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateReviewing || s.draft == nil {
		return domain.ErrNoActiveDraft
	}
	if !s.draft.Persisted() {
		return domain.ErrDraftNotPersisted
	}
	s.deleteArmed = true
	return nil
}

// ConfirmDelete commits a previously requested deletion. On success
// the record leaves the owned snapshot and the session returns to
// idle; on failure the session stays in reviewing, still armed, so the
// operator can retry or cancel.
func (s *IngestionService) ConfirmDelete(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateReviewing || s.draft == nil {
		s.mu.Unlock()
		return domain.ErrNoActiveDraft
	}
	if !s.deleteArmed {
		s.mu.Unlock()
		return domain.ErrDeleteNotRequested
	}
	id := s.draft.ID
	s.mu.Unlock()

	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreFailure, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.vendors[:0]
	for _, rec := range s.vendors {
		if rec.ID != id {
			kept = append(kept, rec)
		}
	}
	s.vendors = kept
	s.draft = nil
	s.deleteArmed = false
	s.state = StateIdle
	return nil
}

// Vendors returns the owned vendor-list snapshot, loading it from the
// store on first use.
func (s *IngestionService) Vendors(ctx context.Context) ([]domain.VendorRecord, error) {
	s.mu.Lock()
	loaded := s.vendorsLoaded
	s.mu.Unlock()

	if !loaded {
		list, err := s.store.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrStoreFailure, err)
		}
		s.mu.Lock()
		s.vendors = list
		s.vendorsLoaded = true
		s.mu.Unlock()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.VendorRecord, len(s.vendors))
	copy(out, s.vendors)
	return out, nil
}

// refreshVendors replaces the snapshot wholesale after a successful
// mutation. A failed refresh keeps the previous snapshot; the next
// read retries.
func (s *IngestionService) refreshVendors(ctx context.Context) {
	list, err := s.store.List(ctx)
	if err != nil {
		log.Printf("[INGEST] vendor list refresh failed: %v", err)
		return
	}
	s.mu.Lock()
	s.vendors = list
	s.vendorsLoaded = true
	s.mu.Unlock()
}

// enrichPricing runs the local pricing lookup when extraction returned
// a website but no pricing guide and no scrape verdict of its own.
func (s *IngestionService) enrichPricing(ctx context.Context, res *domain.ExtractionResult) {
	if res.ScrapeStatus != "" {
		return
	}
	if res.Website == "" {
		res.ScrapeStatus = domain.ScrapeNoWebsite
		return
	}
	if len(res.AdditionalInfo.PricingGuide) > 0 {
		res.ScrapeStatus = domain.ScrapeSuccess
		return
	}
	if s.scraper == nil {
		res.ScrapeStatus = domain.ScrapeNoData
		return
	}

	outcome, err := s.scraper.ScrapePricing(ctx, res.Website)
	if err != nil {
		log.Printf("[INGEST] pricing lookup for %s failed: %v", res.Website, err)
		res.ScrapeStatus = domain.ScrapeUnreachable
		return
	}
	res.AdditionalInfo.PricingGuide = domain.NormalizePricing(outcome.Items)
	if res.Products == "" && len(outcome.Products) > 0 {
		res.Products = strings.Join(outcome.Products, ", ")
	}
	res.ScrapeStatus = outcome.Status
}

func (s *IngestionService) storeUpload(img *domain.ImagePayload) (string, error) {
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return "", err
	}
	ext := filepath.Ext(img.Filename)
	if ext == "" {
		ext = ".jpg"
	}
	path := filepath.Join(s.uploadDir, s.newID()+ext)
	if err := os.WriteFile(path, img.Data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func (s *IngestionService) toIdle() {
	s.mu.Lock()
	s.state = StateIdle
	s.mu.Unlock()
}
