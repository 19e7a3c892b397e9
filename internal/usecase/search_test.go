package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/storytellerz/backend/internal/domain"
)

type stubCache struct {
	store map[string]*domain.WebSearchResult
	gets  int
	sets  int
}

func newStubCache() *stubCache {
	return &stubCache{store: make(map[string]*domain.WebSearchResult)}
}

func (c *stubCache) Get(ctx context.Context, query string) (*domain.WebSearchResult, bool) {
	c.gets++
	result, ok := c.store[query]
	return result, ok
}

func (c *stubCache) Set(ctx context.Context, query string, result *domain.WebSearchResult) {
	c.sets++
	c.store[query] = result
}

func TestSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects empty and whitespace queries without calling anyone", func(t *testing.T) {
		extractor := &mockExtractor{}
		store := newMockStore()
		store.searchErr = errors.New("must not be reached")
		svc := NewSearchService(store, extractor, nil, "")

		for _, query := range []string{"", "   ", "\t\n"} {
			_, err := svc.Search(ctx, query)
			if !errors.Is(err, domain.ErrEmptyQuery) {
				t.Errorf("Search(%q) error = %v, want ErrEmptyQuery", query, err)
			}
		}
		if extractor.webCalled != 0 {
			t.Error("web collaborator must not be contacted for an empty query")
		}
	})

	t.Run("empty everywhere is a valid result set", func(t *testing.T) {
		extractor := &mockExtractor{webResult: &domain.WebSearchResult{}}
		svc := NewSearchService(newMockStore(), extractor, nil, "")

		result, err := svc.Search(ctx, "obscurium")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Internal == nil || result.WebVendors == nil || result.WebProducts == nil {
			t.Error("collections must default to empty lists, never nil")
		}
		if want := `No results for "obscurium" in any source.`; result.Summary != want {
			t.Errorf("Summary = %q, want %q", result.Summary, want)
		}
	})

	t.Run("aggregates all three sources with labels", func(t *testing.T) {
		store := newMockStore()
		store.records = []domain.VendorRecord{{
			ID:        "v1",
			Name:      "Acme Decor",
			Category:  "Decor",
			Contact:   "Ph: 555-0100",
			Website:   "https://acme.example",
			ImagePath: "uploads/v1.jpg",
		}}
		extractor := &mockExtractor{webResult: &domain.WebSearchResult{
			Vendors: []domain.VendorSummary{{
				Title:    "Global Decor Co",
				Products: []domain.ProductSummary{{Title: "Lanterns"}},
			}},
			Products: []domain.ProductSummary{{Title: "Fairy lights", Price: "$12"}},
			MarketInsights: &domain.MarketInsight{
				Summary:            "Decor demand is seasonal.",
				TrendingCategories: []string{"Decor"},
			},
		}}
		svc := NewSearchService(store, extractor, nil, "http://localhost:8080")

		result, err := svc.Search(ctx, "decor")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(result.Internal) != 1 {
			t.Fatalf("Internal = %v", result.Internal)
		}
		internal := result.Internal[0]
		if internal.Source != "Internal Database" {
			t.Errorf("internal Source = %q", internal.Source)
		}
		if internal.ImageURL != "http://localhost:8080/uploads/v1.jpg" {
			t.Errorf("ImageURL = %q", internal.ImageURL)
		}
		if !strings.Contains(internal.Description, "Category: Decor") {
			t.Errorf("Description = %q", internal.Description)
		}

		if got := result.WebVendors[0].Source; got != "Global Vendor" {
			t.Errorf("vendor Source = %q", got)
		}
		if got := result.WebVendors[0].Products[0].Source; got != "Global Vendor" {
			t.Errorf("nested product Source = %q", got)
		}
		if got := result.WebProducts[0].Source; got != "Web Product" {
			t.Errorf("product Source = %q", got)
		}
		if result.MarketInsights == nil || result.MarketInsights.Summary == "" {
			t.Error("market insights should pass through")
		}

		want := `Found 3 results for "decor": 1 archive vendors, 1 global suppliers, 1 product leads.`
		if result.Summary != want {
			t.Errorf("Summary = %q, want %q", result.Summary, want)
		}
	})

	t.Run("store failure aborts the search", func(t *testing.T) {
		store := newMockStore()
		store.searchErr = errors.New("db locked")
		svc := NewSearchService(store, &mockExtractor{}, nil, "")

		_, err := svc.Search(ctx, "decor")
		if !errors.Is(err, domain.ErrStoreFailure) {
			t.Errorf("error = %v, want ErrStoreFailure", err)
		}
	})

	t.Run("repeated queries hit the cache", func(t *testing.T) {
		extractor := &mockExtractor{webResult: &domain.WebSearchResult{
			Products: []domain.ProductSummary{{Title: "Lanterns"}},
		}}
		cache := newStubCache()
		svc := NewSearchService(newMockStore(), extractor, cache, "")

		if _, err := svc.Search(ctx, "lanterns"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := svc.Search(ctx, "lanterns"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if extractor.webCalled != 1 {
			t.Errorf("web called %d times, want 1", extractor.webCalled)
		}
		if cache.sets != 1 {
			t.Errorf("cache sets = %d, want 1", cache.sets)
		}
	})
}
