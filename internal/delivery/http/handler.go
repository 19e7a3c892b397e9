package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/storytellerz/backend/internal/domain"
	"github.com/storytellerz/backend/internal/usecase"
)

// sessionHeader carries the caller's shortlist session id. The server
// mints one on first contact and echoes it on every shortlist reply.
const sessionHeader = "X-Session-ID"

// Handler holds dependencies for HTTP handlers
type Handler struct {
	ingestion *usecase.IngestionService
	search    *usecase.SearchService
	sessions  *usecase.SessionRegistry
	exporter  domain.ShortlistExporter

	statusPollInterval time.Duration
}

// NewHandler creates a new HTTP handler
func NewHandler(
	ingestion *usecase.IngestionService,
	search *usecase.SearchService,
	sessions *usecase.SessionRegistry,
	exporter domain.ShortlistExporter,
) *Handler {
	return &Handler{
		ingestion:          ingestion,
		search:             search,
		sessions:           sessions,
		exporter:           exporter,
		statusPollInterval: 500 * time.Millisecond,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "storytellerz-backend",
		"version": "1.0.0",
	})
}

// ExtractCard starts an ingestion session from the uploaded card
// images and returns the reviewable draft.
func (h *Handler) ExtractCard(c *gin.Context) {
	front, err := readImage(c, "front_image")
	if err != nil {
		respondError(c, domain.ErrFrontImageRequired)
		return
	}
	back, _ := readImage(c, "back_image")

	draft, err := h.ingestion.BeginExtraction(c.Request.Context(), front, back)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

// GetDraft returns the draft currently under review.
func (h *Handler) GetDraft(c *gin.Context) {
	draft := h.ingestion.Draft()
	if draft == nil {
		respondError(c, domain.ErrNoActiveDraft)
		return
	}
	c.JSON(http.StatusOK, draft)
}

type editFieldRequest struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

// EditDraftField mutates one editable field of the active draft.
func (h *Handler) EditDraftField(c *gin.Context) {
	var req editFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "field is required"})
		return
	}

	if err := h.ingestion.EditField(req.Field, req.Value); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.ingestion.Draft())
}

type updatePricingRequest struct {
	PricingGuide []domain.PricingItem `json:"pricingGuide"`
}

// UpdateDraftPricing replaces the draft's pricing guide.
func (h *Handler) UpdateDraftPricing(c *gin.Context) {
	var req updatePricingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pricing payload"})
		return
	}

	if err := h.ingestion.UpdatePricing(req.PricingGuide); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.ingestion.Draft())
}

// SaveDraft persists the active draft as a vendor record.
func (h *Handler) SaveDraft(c *gin.Context) {
	saved, err := h.ingestion.Save(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

// CancelDraft discards the active draft.
func (h *Handler) CancelDraft(c *gin.Context) {
	if err := h.ingestion.Cancel(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}

// RequestDraftDelete arms deletion of the reviewed record.
func (h *Handler) RequestDraftDelete(c *gin.Context) {
	if err := h.ingestion.RequestDelete(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "delete requested", "confirmationRequired": true})
}

// ConfirmDraftDelete commits a previously requested deletion.
func (h *Handler) ConfirmDraftDelete(c *gin.Context) {
	if err := h.ingestion.ConfirmDelete(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// ListVendors returns the saved vendor archive.
func (h *Handler) ListVendors(c *gin.Context) {
	vendors, err := h.ingestion.Vendors(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vendors": vendors, "count": len(vendors)})
}

// EditVendor opens a saved record for review.
func (h *Handler) EditVendor(c *gin.Context) {
	draft, err := h.ingestion.BeginReview(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

// ExtractionStatus relays the extraction progress feed as server-sent
// events. The relay ends when the status turns terminal or the client
// disconnects.
func (h *Handler) ExtractionStatus(c *gin.Context) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	ticker := time.NewTicker(h.statusPollInterval)
	defer ticker.Stop()

	var lastSent string
	deadline := time.After(5 * time.Minute)

	for {
		update, ok := h.ingestion.ExtractionStatus()
		if ok && update.Status != lastSent {
			lastSent = update.Status
			c.SSEvent("status", update)
			c.Writer.Flush()
			if update.IsTerminal() {
				return
			}
		}

		select {
		case <-c.Request.Context().Done():
			return
		case <-deadline:
			return
		case <-ticker.C:
		}
	}
}

// Search runs one query across the archive and the web directories.
func (h *Handler) Search(c *gin.Context) {
	result, err := h.search.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// session resolves the caller's shortlist session and echoes its id.
func (h *Handler) session(c *gin.Context) *usecase.CatalogSession {
	session := h.sessions.Get(c.GetHeader(sessionHeader))
	c.Header(sessionHeader, session.ID())
	return session
}

// GetShortlist returns the caller's current shortlist.
func (h *Handler) GetShortlist(c *gin.Context) {
	session := h.session(c)
	entries := session.Entries()
	c.JSON(http.StatusOK, gin.H{"entries": entries, "count": len(entries)})
}

// AddShortlistEntry appends one pick to the caller's shortlist.
func (h *Handler) AddShortlistEntry(c *gin.Context) {
	var entry domain.ShortlistEntry
	if err := c.ShouldBindJSON(&entry); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid shortlist entry"})
		return
	}

	session := h.session(c)
	added, err := session.Add(entry)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, added)
}

// RemoveShortlistEntry deletes one entry by its current position.
func (h *Handler) RemoveShortlistEntry(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "index must be a number"})
		return
	}

	session := h.session(c)
	if err := session.Remove(index); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "removed"})
}

// ExportShortlist downloads the caller's shortlist as a spreadsheet.
func (h *Handler) ExportShortlist(c *gin.Context) {
	session := h.session(c)
	data, filename, mime, err := session.Export(h.exporter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, mime, data)
}

// readImage pulls one multipart file field into an ImagePayload.
func readImage(c *gin.Context, field string) (*domain.ImagePayload, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return nil, err
	}
	f, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return &domain.ImagePayload{Filename: fileHeader.Filename, Data: data}, nil
}

// respondError maps domain sentinels to HTTP status codes.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrFrontImageRequired),
		errors.Is(err, domain.ErrNameRequired),
		errors.Is(err, domain.ErrEmptyQuery),
		errors.Is(err, domain.ErrUnknownField),
		errors.Is(err, domain.ErrInvalidShortlistEntry):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNoActiveDraft),
		errors.Is(err, domain.ErrVendorNotFound),
		errors.Is(err, domain.ErrShortlistIndex):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrExtractionInProgress),
		errors.Is(err, domain.ErrDraftNotPersisted),
		errors.Is(err, domain.ErrDeleteNotRequested):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrExtractionFailed),
		errors.Is(err, domain.ErrSearchFailed):
		status = http.StatusBadGateway
	case errors.Is(err, domain.ErrServiceUnreachable):
		status = http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrStoreFailure):
		status = http.StatusInternalServerError
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
