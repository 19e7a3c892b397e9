package domain

import (
	"encoding/json"
	"time"
)

// ScrapeStatus describes the outcome of the automated pricing lookup
// that runs against a vendor's website during extraction.
type ScrapeStatus string

const (
	ScrapeSuccess     ScrapeStatus = "success"
	ScrapeNoWebsite   ScrapeStatus = "no_website"
	ScrapeNoData      ScrapeStatus = "no_data_found"
	ScrapeUnreachable ScrapeStatus = "unreachable"
)

// VendorRecord is the canonical persisted business-contact entity.
// Contact is a single encoded string (see usecase.EncodeContact); the
// presence of ID is the sole signal distinguishing update from create.
type VendorRecord struct {
	ID             string         `json:"id,omitempty"`
	Name           string         `json:"name"`
	Category       string         `json:"category"`
	Website        string         `json:"website,omitempty"`
	Contact        string         `json:"contact"`
	Products       string         `json:"products,omitempty"`
	ImagePath      string         `json:"imagePath,omitempty"`
	AdditionalInfo AdditionalInfo `json:"additionalInfo"`
	CreatedAt      time.Time      `json:"createdAt,omitempty"`
}

// AdditionalInfo is the open bag of secondary vendor fields. The named
// fields are always present in serialized form; unknown keys coming
// from older records or future writers survive round trips in Extra.
type AdditionalInfo struct {
	Tagline      string
	SocialMedia  string
	Designation  string
	SupplierType string
	SourceOrigin string
	PricingGuide []PricingItem
	Extra        map[string]string
}

const (
	defaultCategory     = "General"
	defaultSupplierType = "Unknown"
)

// DefaultCategory is used when extraction or an operator leaves the
// vendor category blank.
func DefaultCategory() string { return defaultCategory }

// DefaultSupplierType is used when no supplier classification is known.
func DefaultSupplierType() string { return defaultSupplierType }

var knownInfoKeys = map[string]bool{
	"tagline":      true,
	"socialMedia":  true,
	"designation":  true,
	"supplierType": true,
	"sourceOrigin": true,
	"pricingGuide": true,
}

// MarshalJSON always emits the six named keys plus any residual ones.
// PricingGuide serializes as a list even when empty so downstream
// readers never see a raw string or null where pricing should be.
func (a AdditionalInfo) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, 6+len(a.Extra))
	for k, v := range a.Extra {
		if !knownInfoKeys[k] {
			out[k] = v
		}
	}
	out["tagline"] = a.Tagline
	out["socialMedia"] = a.SocialMedia
	out["designation"] = a.Designation
	out["supplierType"] = a.SupplierType
	out["sourceOrigin"] = a.SourceOrigin
	if a.PricingGuide == nil {
		out["pricingGuide"] = []PricingItem{}
	} else {
		out["pricingGuide"] = a.PricingGuide
	}
	return json.Marshal(out)
}

// UnmarshalJSON tolerates the shapes extraction and legacy storage
// actually produce: missing keys, null, numeric values where strings
// are expected, and a pricingGuide that may be a list, free text, or a
// failure marker. Pricing is canonicalized on entry so raw scraped
// strings never survive a decode.
func (a *AdditionalInfo) UnmarshalJSON(data []byte) error {
	*a = AdditionalInfo{PricingGuide: []PricingItem{}}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		// Null or a non-object payload decodes to the zero value.
		return nil
	}

	a.Tagline = asString(raw["tagline"])
	a.SocialMedia = asString(raw["socialMedia"])
	a.Designation = asString(raw["designation"])
	a.SupplierType = asString(raw["supplierType"])
	a.SourceOrigin = asString(raw["sourceOrigin"])

	var pricing any
	if msg, ok := raw["pricingGuide"]; ok {
		_ = json.Unmarshal(msg, &pricing)
	}
	a.PricingGuide = NormalizePricing(pricing)

	for k, v := range raw {
		if knownInfoKeys[k] {
			continue
		}
		if a.Extra == nil {
			a.Extra = make(map[string]string)
		}
		a.Extra[k] = asString(v)
	}
	return nil
}

// asString coerces a raw JSON value to text, dropping values that have
// no sensible textual form.
func asString(msg json.RawMessage) string {
	if len(msg) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(msg, &s); err == nil {
		return s
	}
	var v any
	if err := json.Unmarshal(msg, &v); err != nil {
		return ""
	}
	switch t := v.(type) {
	case float64:
		return trimFloat(t)
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

func trimFloat(f float64) string {
	b, _ := json.Marshal(f)
	return string(b)
}

// ExtractionResult is the raw output of the optical extraction
// collaborator. Contact arrives pre-encoded; pricing inside
// AdditionalInfo is canonicalized during JSON decoding.
type ExtractionResult struct {
	Name           string         `json:"name"`
	Category       string         `json:"category"`
	Website        string         `json:"website"`
	Contact        string         `json:"contact"`
	Products       string         `json:"products"`
	AdditionalInfo AdditionalInfo `json:"additionalInfo"`
	ScrapeStatus   ScrapeStatus   `json:"scrapeStatus"`
	ImagePath      string         `json:"imagePath"`
}

// ImagePayload carries one uploaded card side through the ingestion
// boundary.
type ImagePayload struct {
	Filename string
	Data     []byte
}
