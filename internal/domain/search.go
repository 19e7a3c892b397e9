package domain

import "time"

// VendorSummary is one vendor entry in a search result, from either
// the internal archive or the web vendor directory. Web vendors may
// carry a nested product catalog.
type VendorSummary struct {
	Source      string           `json:"source"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	Price       string           `json:"price,omitempty"`
	Link        string           `json:"link,omitempty"`
	ImageURL    string           `json:"imageUrl,omitempty"`
	Products    []ProductSummary `json:"products,omitempty"`
}

// ProductSummary is one ad-hoc product lead in a search result.
type ProductSummary struct {
	Source      string `json:"source"`
	Title       string `json:"title"`
	Price       string `json:"price,omitempty"`
	Link        string `json:"link,omitempty"`
	Description string `json:"description,omitempty"`
}

// MarketInsight is the optional market commentary attached to a web
// search response.
type MarketInsight struct {
	Summary            string   `json:"summary"`
	TrendingCategories []string `json:"trendingCategories,omitempty"`
}

// SearchResultSet aggregates one query's results from the three
// sources. Collections are always non-nil; an all-empty set is a valid
// displayable state.
type SearchResultSet struct {
	Internal       []VendorSummary  `json:"internal"`
	WebVendors     []VendorSummary  `json:"webVendors"`
	WebProducts    []ProductSummary `json:"webProducts"`
	MarketInsights *MarketInsight   `json:"marketInsights,omitempty"`
	Summary        string           `json:"summary"`
}

// WebSearchResult is the raw response of the web search collaborator.
// Any collection may be absent.
type WebSearchResult struct {
	Vendors        []VendorSummary  `json:"vendors"`
	Products       []ProductSummary `json:"products"`
	MarketInsights *MarketInsight   `json:"marketInsights,omitempty"`
}

// ShortlistEntryType tags a shortlist entry as a vendor or a product.
type ShortlistEntryType string

const (
	ShortlistVendor  ShortlistEntryType = "vendor"
	ShortlistProduct ShortlistEntryType = "product"
)

// ShortlistEntry is one user-curated pick from any search source.
// Entries are deliberately not deduplicated; each add is a distinct
// user action (e.g. intent to request two quotes).
type ShortlistEntry struct {
	Type        ShortlistEntryType `json:"type"`
	Title       string             `json:"title"`
	Price       string             `json:"price,omitempty"`
	Link        string             `json:"link,omitempty"`
	Description string             `json:"description,omitempty"`
	Source      string             `json:"source,omitempty"`
	AddedAt     time.Time          `json:"addedAt"`
}
