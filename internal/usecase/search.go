package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/storytellerz/backend/internal/domain"
)

const (
	sourceInternal  = "Internal Database"
	sourceWebVendor = "Global Vendor"
	sourceWebItem   = "Web Product"
)

// SearchService aggregates one query across the internal archive and
// the web vendor/product directories into a single uniform result set.
type SearchService struct {
	store   domain.VendorStore
	web     domain.ExtractionClient
	cache   domain.SearchCache
	baseURL string
}

// NewSearchService creates the aggregator. baseURL prefixes stored
// scan paths so internal results carry absolute image links; cache is
// optional.
func NewSearchService(store domain.VendorStore, web domain.ExtractionClient, cache domain.SearchCache, baseURL string) *SearchService {
	return &SearchService{
		store:   store,
		web:     web,
		cache:   cache,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Search runs one query against all three sources. Empty and
// whitespace-only queries are rejected before any collaborator is
// contacted. Missing collections default to empty lists, never nil;
// an all-empty result set is a valid displayable state.
func (s *SearchService) Search(ctx context.Context, query string) (*domain.SearchResultSet, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrEmptyQuery
	}

	internal, err := s.searchInternal(ctx, query)
	if err != nil {
		return nil, err
	}

	web, err := s.searchWeb(ctx, query)
	if err != nil {
		return nil, err
	}

	result := &domain.SearchResultSet{
		Internal:       internal,
		WebVendors:     web.Vendors,
		WebProducts:    web.Products,
		MarketInsights: web.MarketInsights,
	}
	if result.Internal == nil {
		result.Internal = []domain.VendorSummary{}
	}
	if result.WebVendors == nil {
		result.WebVendors = []domain.VendorSummary{}
	}
	if result.WebProducts == nil {
		result.WebProducts = []domain.ProductSummary{}
	}
	result.Summary = summarize(query, result)
	return result, nil
}

func (s *SearchService) searchInternal(ctx context.Context, query string) ([]domain.VendorSummary, error) {
	records, err := s.store.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreFailure, err)
	}

	summaries := make([]domain.VendorSummary, 0, len(records))
	for _, rec := range records {
		summary := domain.VendorSummary{
			Source:      sourceInternal,
			Title:       rec.Name,
			Description: fmt.Sprintf("Category: %s. Contact: %s", rec.Category, rec.Contact),
			Link:        rec.Website,
		}
		if rec.ImagePath != "" && s.baseURL != "" {
			summary.ImageURL = s.baseURL + "/" + strings.TrimLeft(rec.ImagePath, "/")
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (s *SearchService) searchWeb(ctx context.Context, query string) (*domain.WebSearchResult, error) {
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, query); ok {
			return cached, nil
		}
	}

	web, err := s.web.SearchWeb(ctx, query)
	if err != nil {
		return nil, err
	}

	for i := range web.Vendors {
		if web.Vendors[i].Source == "" {
			web.Vendors[i].Source = sourceWebVendor
		}
		for j := range web.Vendors[i].Products {
			if web.Vendors[i].Products[j].Source == "" {
				web.Vendors[i].Products[j].Source = sourceWebVendor
			}
		}
	}
	for i := range web.Products {
		if web.Products[i].Source == "" {
			web.Products[i].Source = sourceWebItem
		}
	}

	if s.cache != nil {
		s.cache.Set(ctx, query, web)
	}
	return web, nil
}

// summarize counts results across all three collections into one
// human-readable line.
func summarize(query string, r *domain.SearchResultSet) string {
	total := len(r.Internal) + len(r.WebVendors) + len(r.WebProducts)
	if total == 0 {
		return fmt.Sprintf("No results for %q in any source.", query)
	}
	return fmt.Sprintf("Found %d results for %q: %d archive vendors, %d global suppliers, %d product leads.",
		total, query, len(r.Internal), len(r.WebVendors), len(r.WebProducts))
}
