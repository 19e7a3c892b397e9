package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storytellerz/backend/internal/domain"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "vendors.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRecord(name string) *domain.VendorRecord {
	return &domain.VendorRecord{
		Name:     name,
		Category: "Decor",
		Website:  "https://acme.example",
		Contact:  "Ph: 555-0100 | ✉ hello@acme.example",
		Products: "Lanterns, Fairy lights",
		AdditionalInfo: domain.AdditionalInfo{
			Tagline:      "Light up the night",
			SupplierType: "Wholesale",
			PricingGuide: []domain.PricingItem{{Item: "Lantern", Price: "$30"}},
		},
	}
}

func TestCreateAndList(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first, err := s.Create(ctx, sampleRecord("Acme Decor"))
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.False(t, first.CreatedAt.IsZero())

	second, err := s.Create(ctx, sampleRecord("Beta Catering"))
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	records, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)

	var acme *domain.VendorRecord
	for i := range records {
		if records[i].Name == "Acme Decor" {
			acme = &records[i]
		}
	}
	require.NotNil(t, acme)
	assert.Equal(t, "Light up the night", acme.AdditionalInfo.Tagline)
	require.Len(t, acme.AdditionalInfo.PricingGuide, 1)
	assert.Equal(t, "$30", acme.AdditionalInfo.PricingGuide[0].Price)
}

func TestSearch(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.Create(ctx, sampleRecord("Acme Decor"))
	require.NoError(t, err)

	catering := sampleRecord("Beta Catering")
	catering.Category = "Catering"
	catering.Products = "Buffet service"
	_, err = s.Create(ctx, catering)
	require.NoError(t, err)

	t.Run("matches on name", func(t *testing.T) {
		records, err := s.Search(ctx, "acme")
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "Acme Decor", records[0].Name)
	})

	t.Run("matches on products", func(t *testing.T) {
		records, err := s.Search(ctx, "buffet")
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "Beta Catering", records[0].Name)
	})

	t.Run("matches inside additional info", func(t *testing.T) {
		records, err := s.Search(ctx, "wholesale")
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})

	t.Run("keywords are ORed", func(t *testing.T) {
		records, err := s.Search(ctx, "acme buffet")
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})

	t.Run("no match yields an empty list", func(t *testing.T) {
		records, err := s.Search(ctx, "nonexistent")
		require.NoError(t, err)
		assert.NotNil(t, records)
		assert.Empty(t, records)
	})

	t.Run("like wildcards are literal", func(t *testing.T) {
		records, err := s.Search(ctx, "%")
		require.NoError(t, err)
		assert.Empty(t, records)
	})
}

func TestUpdate(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, sampleRecord("Acme Decor"))
	require.NoError(t, err)

	modified := *created
	modified.Name = "Acme Decor & Events"
	modified.AdditionalInfo.Tagline = "Every event, lit"

	updated, err := s.Update(ctx, created.ID, &modified)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Acme Decor & Events", updated.Name)
	assert.Equal(t, "Every event, lit", updated.AdditionalInfo.Tagline)

	records, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1, "update must not create a second record")
}

func TestUpdate_MissingRecord(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Update(context.Background(), "no-such-id", sampleRecord("Ghost"))
	assert.ErrorIs(t, err, domain.ErrVendorNotFound)
}

func TestDelete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, sampleRecord("Acme Decor"))
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, created.ID))

	records, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)

	assert.ErrorIs(t, s.Delete(ctx, created.ID), domain.ErrVendorNotFound)
}

func TestAdditionalInfoLegacyShape(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	// Simulate an old row whose pricing guide is a raw failure string.
	_, err := s.conn.ExecContext(ctx, `
INSERT INTO vendors (id, name, category, additional_info)
VALUES ('legacy-1', 'Old Vendor', 'General', '{"pricingGuide": "Failed to scrape pricing", "legacyKey": 7}')`)
	require.NoError(t, err)

	records, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)

	info := records[0].AdditionalInfo
	assert.Empty(t, info.PricingGuide, "failure markers decode to an empty guide")
	assert.Equal(t, "7", info.Extra["legacyKey"])
}
