package domain

import (
	"encoding/json"
	"strings"
)

// PricingItem is one priced line item scraped or entered for a vendor.
type PricingItem struct {
	Item  string `json:"item"`
	Price string `json:"price"`
}

// failureMarkers are the prefixes the pricing lookup emits instead of
// data when a website could not be read ("Failed to access website:
// ...", "Error scraping website: ...").
var failureMarkers = []string{"failed", "error"}

// IsPricingFailure reports whether a raw pricing string is a lookup
// failure marker rather than real pricing text.
func IsPricingFailure(s string) bool {
	lower := strings.ToLower(strings.TrimSpace(s))
	for _, marker := range failureMarkers {
		if strings.HasPrefix(lower, marker) {
			return true
		}
	}
	return false
}

// NormalizePricing coerces whatever shape a pricing guide arrived in
// into a canonical ordered list. Lists pass through, non-empty free
// text becomes a single unpriced item, and everything else (absent,
// empty, failure markers, unrecognized shapes) becomes an empty list.
// The function is idempotent.
func NormalizePricing(raw any) []PricingItem {
	switch v := raw.(type) {
	case nil:
		return []PricingItem{}
	case []PricingItem:
		if v == nil {
			return []PricingItem{}
		}
		return v
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" || IsPricingFailure(trimmed) {
			return []PricingItem{}
		}
		return []PricingItem{{Item: trimmed}}
	case json.RawMessage:
		var decoded any
		if err := json.Unmarshal(v, &decoded); err != nil {
			return []PricingItem{}
		}
		return NormalizePricing(decoded)
	case []any:
		items := make([]PricingItem, 0, len(v))
		for _, elem := range v {
			if item, ok := pricingItemFrom(elem); ok {
				items = append(items, item)
			}
		}
		return items
	case map[string]any:
		// A single stray {item, price} object still counts as one entry.
		if item, ok := pricingItemFrom(v); ok {
			return []PricingItem{item}
		}
		return []PricingItem{}
	default:
		return []PricingItem{}
	}
}

func pricingItemFrom(elem any) (PricingItem, bool) {
	switch e := elem.(type) {
	case PricingItem:
		return e, e.Item != "" || e.Price != ""
	case string:
		trimmed := strings.TrimSpace(e)
		if trimmed == "" {
			return PricingItem{}, false
		}
		return PricingItem{Item: trimmed}, true
	case map[string]any:
		item := PricingItem{
			Item:  stringValue(e["item"]),
			Price: stringValue(e["price"]),
		}
		return item, item.Item != "" || item.Price != ""
	default:
		return PricingItem{}, false
	}
}

func stringValue(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}
