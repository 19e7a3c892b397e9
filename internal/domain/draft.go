package domain

// ExtractionDraft is the transient editable record sitting between raw
// extraction output and a persisted VendorRecord. Contact is
// decomposed into three editable sub-fields; each holds a comma-joined
// list when multiple values exist. ID is set only on the edit path and
// is not reachable through field edits; it alone decides whether a
// save creates or updates.
type ExtractionDraft struct {
	ID           string            `json:"id,omitempty"`
	Name         string            `json:"name"`
	Category     string            `json:"category"`
	Website      string            `json:"website"`
	Phone        string            `json:"phone"`
	Email        string            `json:"email"`
	Address      string            `json:"address"`
	Products     string            `json:"products"`
	Tagline      string            `json:"tagline"`
	SocialMedia  string            `json:"socialMedia"`
	Designation  string            `json:"designation"`
	SupplierType string            `json:"supplierType"`
	SourceOrigin string            `json:"sourceOrigin"`
	PricingGuide []PricingItem     `json:"pricingGuide"`
	Extra        map[string]string `json:"extra,omitempty"`
	ImagePath    string            `json:"imagePath"`
	ScrapeStatus ScrapeStatus      `json:"scrapeStatus"`
}

// Persisted reports whether the draft is backed by a stored record.
// A persisted draft must save via update, an unpersisted one via
// create.
func (d *ExtractionDraft) Persisted() bool {
	return d.ID != ""
}
