package usecase

import (
	"github.com/storytellerz/backend/internal/domain"
)

// DraftFromExtraction maps raw extraction output into an editable
// draft. This is the creation path: the draft carries no record id.
func DraftFromExtraction(res *domain.ExtractionResult) *domain.ExtractionDraft {
	phone, email, address := DecodeContact(res.Contact)

	draft := &domain.ExtractionDraft{
		Name:         res.Name,
		Category:     res.Category,
		Website:      res.Website,
		Phone:        phone,
		Email:        email,
		Address:      address,
		Products:     res.Products,
		Tagline:      res.AdditionalInfo.Tagline,
		SocialMedia:  res.AdditionalInfo.SocialMedia,
		Designation:  res.AdditionalInfo.Designation,
		SupplierType: res.AdditionalInfo.SupplierType,
		SourceOrigin: res.AdditionalInfo.SourceOrigin,
		PricingGuide: domain.NormalizePricing(res.AdditionalInfo.PricingGuide),
		Extra:        res.AdditionalInfo.Extra,
		ImagePath:    res.ImagePath,
		ScrapeStatus: res.ScrapeStatus,
	}
	applyDraftDefaults(draft)
	return draft
}

// DraftFromRecord maps a stored vendor record into an editable draft.
// This is the edit path: the record id is preserved so a later save
// routes to update rather than create.
func DraftFromRecord(rec *domain.VendorRecord) *domain.ExtractionDraft {
	phone, email, address := DecodeContact(rec.Contact)

	draft := &domain.ExtractionDraft{
		ID:           rec.ID,
		Name:         rec.Name,
		Category:     rec.Category,
		Website:      rec.Website,
		Phone:        phone,
		Email:        email,
		Address:      address,
		Products:     rec.Products,
		Tagline:      rec.AdditionalInfo.Tagline,
		SocialMedia:  rec.AdditionalInfo.SocialMedia,
		Designation:  rec.AdditionalInfo.Designation,
		SupplierType: rec.AdditionalInfo.SupplierType,
		SourceOrigin: rec.AdditionalInfo.SourceOrigin,
		PricingGuide: domain.NormalizePricing(rec.AdditionalInfo.PricingGuide),
		Extra:        rec.AdditionalInfo.Extra,
		ImagePath:    rec.ImagePath,
	}
	applyDraftDefaults(draft)
	return draft
}

func applyDraftDefaults(d *domain.ExtractionDraft) {
	if d.Category == "" {
		d.Category = domain.DefaultCategory()
	}
	if d.SupplierType == "" {
		d.SupplierType = domain.DefaultSupplierType()
	}
	if d.ScrapeStatus == "" {
		if d.Website == "" {
			d.ScrapeStatus = domain.ScrapeNoWebsite
		} else {
			d.ScrapeStatus = domain.ScrapeSuccess
		}
	}
}

// recordFromDraft reassembles the persistable record shape: contact is
// re-encoded and the pricing guide re-normalized so only canonical
// data reaches the store.
func recordFromDraft(d *domain.ExtractionDraft) *domain.VendorRecord {
	return &domain.VendorRecord{
		ID:        d.ID,
		Name:      d.Name,
		Category:  d.Category,
		Website:   d.Website,
		Contact:   EncodeContact(d.Phone, d.Email, d.Address),
		Products:  d.Products,
		ImagePath: d.ImagePath,
		AdditionalInfo: domain.AdditionalInfo{
			Tagline:      d.Tagline,
			SocialMedia:  d.SocialMedia,
			Designation:  d.Designation,
			SupplierType: d.SupplierType,
			SourceOrigin: d.SourceOrigin,
			PricingGuide: domain.NormalizePricing(d.PricingGuide),
			Extra:        d.Extra,
		},
	}
}
