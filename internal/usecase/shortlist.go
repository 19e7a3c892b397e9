package usecase

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/storytellerz/backend/internal/domain"
)

// CatalogSession is one visitor's working state: the shortlist they
// curate while searching. Sessions are independent of any particular
// query; the shortlist survives across searches and is never persisted
// server-side.
type CatalogSession struct {
	mu        sync.Mutex
	id        string
	createdAt time.Time
	entries   []domain.ShortlistEntry
	now       func() time.Time
}

// NewCatalogSession creates a session. An empty id gets a fresh one.
func NewCatalogSession(id string) *CatalogSession {
	if id == "" {
		id = uuid.NewString()
	}
	return &CatalogSession{
		id:        id,
		createdAt: time.Now(),
		now:       time.Now,
	}
}

// ID returns the session identifier.
func (s *CatalogSession) ID() string { return s.id }

// Add appends a shortlist entry stamped with the capture time. Entries
// are deliberately not deduplicated; adding the same item twice records
// two distinct user actions.
func (s *CatalogSession) Add(entry domain.ShortlistEntry) (domain.ShortlistEntry, error) {
	if entry.Type != domain.ShortlistVendor && entry.Type != domain.ShortlistProduct {
		return domain.ShortlistEntry{}, fmt.Errorf("%w: type %q", domain.ErrInvalidShortlistEntry, entry.Type)
	}
	if strings.TrimSpace(entry.Title) == "" {
		return domain.ShortlistEntry{}, fmt.Errorf("%w: missing title", domain.ErrInvalidShortlistEntry)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	entry.AddedAt = s.now()
	s.entries = append(s.entries, entry)
	return entry, nil
}

// Remove deletes exactly one entry by its current position.
func (s *CatalogSession) Remove(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.entries) {
		return fmt.Errorf("%w: %d", domain.ErrShortlistIndex, index)
	}
	s.entries = append(s.entries[:index], s.entries[index+1:]...)
	return nil
}

// Entries returns the ordered shortlist.
func (s *CatalogSession) Entries() []domain.ShortlistEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.ShortlistEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Export hands the current ordered list to the exporter collaborator
// and returns the artifact bytes, filename and MIME type.
func (s *CatalogSession) Export(exporter domain.ShortlistExporter) ([]byte, string, string, error) {
	return exporter.Export(s.Entries())
}

// SessionRegistry tracks catalog sessions by id so the delivery layer
// can hand each caller their own shortlist.
type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*CatalogSession
}

// NewSessionRegistry creates an empty registry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[string]*CatalogSession)}
}

// Get returns the session for id, creating it (and minting an id when
// blank) on first sight.
func (r *SessionRegistry) Get(id string) *CatalogSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id != "" {
		if session, ok := r.sessions[id]; ok {
			return session
		}
	}
	session := NewCatalogSession(id)
	r.sessions[session.ID()] = session
	return session
}
