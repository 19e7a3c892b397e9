package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/storytellerz/backend/internal/domain"
)

// SQLiteStore persists vendor records in a local SQLite database.
// AdditionalInfo rides along as one JSON column; keyword search runs
// over the flat text columns plus that JSON blob.
type SQLiteStore struct {
	conn *sql.DB
}

// Open creates the database file (and its directory) if needed and
// ensures the schema.
func Open(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	s := &SQLiteStore{conn: conn}
	if err := s.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}

func (s *SQLiteStore) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS vendors (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  category TEXT NOT NULL,
  website TEXT NOT NULL DEFAULT '',
  contact TEXT NOT NULL DEFAULT '',
  products TEXT NOT NULL DEFAULT '',
  image_path TEXT NOT NULL DEFAULT '',
  additional_info TEXT NOT NULL DEFAULT '{}',
  created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_vendors_name ON vendors(name);
CREATE INDEX IF NOT EXISTS idx_vendors_category ON vendors(category);
`

	_, err := s.conn.Exec(schema)
	return err
}

const vendorColumns = `id, name, category, website, contact, products, image_path, additional_info, created_at`

// List returns all vendor records, newest first.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.VendorRecord, error) {
	rows, err := s.conn.QueryContext(ctx, `
SELECT `+vendorColumns+`
FROM vendors ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanVendors(rows)
}

// Search matches any space-separated keyword against the textual
// columns and the additional-info JSON. Keywords are ORed; a record
// matches when any keyword appears anywhere.
func (s *SQLiteStore) Search(ctx context.Context, query string) ([]domain.VendorRecord, error) {
	keywords := strings.Fields(query)
	if len(keywords) == 0 {
		return []domain.VendorRecord{}, nil
	}

	var clauses []string
	var args []any
	for _, kw := range keywords {
		pattern := "%" + escapeLike(kw) + "%"
		clauses = append(clauses,
			`(name LIKE ? ESCAPE '\' OR category LIKE ? ESCAPE '\' OR website LIKE ? ESCAPE '\' OR contact LIKE ? ESCAPE '\' OR products LIKE ? ESCAPE '\' OR additional_info LIKE ? ESCAPE '\')`)
		for i := 0; i < 6; i++ {
			args = append(args, pattern)
		}
	}

	rows, err := s.conn.QueryContext(ctx, `
SELECT `+vendorColumns+`
FROM vendors WHERE `+strings.Join(clauses, " OR ")+`
ORDER BY created_at DESC, id DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanVendors(rows)
}

// Create inserts a new record under a fresh id and returns the stored
// form.
func (s *SQLiteStore) Create(ctx context.Context, rec *domain.VendorRecord) (*domain.VendorRecord, error) {
	saved := *rec
	saved.ID = uuid.NewString()
	if saved.CreatedAt.IsZero() {
		saved.CreatedAt = time.Now().UTC()
	}

	infoJSON, err := json.Marshal(saved.AdditionalInfo)
	if err != nil {
		return nil, fmt.Errorf("encoding additional info: %w", err)
	}

	_, err = s.conn.ExecContext(ctx, `
INSERT INTO vendors (id, name, category, website, contact, products, image_path, additional_info, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		saved.ID, saved.Name, saved.Category, saved.Website, saved.Contact,
		saved.Products, saved.ImagePath, string(infoJSON), saved.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// Update rewrites an existing record in place. The stored creation
// time survives; everything else is replaced.
func (s *SQLiteStore) Update(ctx context.Context, id string, rec *domain.VendorRecord) (*domain.VendorRecord, error) {
	infoJSON, err := json.Marshal(rec.AdditionalInfo)
	if err != nil {
		return nil, fmt.Errorf("encoding additional info: %w", err)
	}

	result, err := s.conn.ExecContext(ctx, `
UPDATE vendors
SET name = ?, category = ?, website = ?, contact = ?, products = ?, image_path = ?, additional_info = ?
WHERE id = ?`,
		rec.Name, rec.Category, rec.Website, rec.Contact, rec.Products, rec.ImagePath, string(infoJSON), id)
	if err != nil {
		return nil, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, domain.ErrVendorNotFound
	}

	return s.get(ctx, id)
}

// Delete removes one record by id.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	result, err := s.conn.ExecContext(ctx, `DELETE FROM vendors WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrVendorNotFound
	}
	return nil
}

func (s *SQLiteStore) get(ctx context.Context, id string) (*domain.VendorRecord, error) {
	row := s.conn.QueryRowContext(ctx, `
SELECT `+vendorColumns+`
FROM vendors WHERE id = ?`, id)

	rec, err := scanVendor(row)
	if err == sql.ErrNoRows {
		return nil, domain.ErrVendorNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVendor(row rowScanner) (*domain.VendorRecord, error) {
	var rec domain.VendorRecord
	var infoJSON, createdAt string
	if err := row.Scan(
		&rec.ID, &rec.Name, &rec.Category, &rec.Website, &rec.Contact,
		&rec.Products, &rec.ImagePath, &infoJSON, &createdAt,
	); err != nil {
		return nil, err
	}

	// The unmarshaler tolerates legacy shapes; a corrupt blob decodes
	// to the zero value rather than failing the whole read.
	_ = json.Unmarshal([]byte(infoJSON), &rec.AdditionalInfo)
	rec.CreatedAt = parseTimestamp(createdAt)
	return &rec, nil
}

func scanVendors(rows *sql.Rows) ([]domain.VendorRecord, error) {
	out := []domain.VendorRecord{}
	for rows.Next() {
		rec, err := scanVendor(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

// parseTimestamp accepts both the RFC 3339 form this store writes and
// the bare CURRENT_TIMESTAMP format SQLite defaults to.
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func escapeLike(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(s)
}
