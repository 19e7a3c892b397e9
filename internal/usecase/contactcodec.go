package usecase

import "strings"

// Contact encoding: a vendor's phone, email and address are stored as
// one annotated string, e.g.
//
//	Ph: 555-0100, 555-0101 | ✉ a@acme.com | 📍 12 Harbor Rd
//
// Segment order is always phone, email, address. Multiple values live
// inside one segment as a comma-joined list. Values containing the
// separator or a tag glyph do not round-trip; that is a known
// limitation of the stored format.
const (
	contactSeparator = " | "
	phoneTag         = "Ph: "
	emailTag         = "✉ "
	addressTag       = "📍 "
)

// EncodeContact builds the stored contact string. Segments whose value
// is blank are omitted; all-blank input yields an empty string.
func EncodeContact(phone, email, address string) string {
	parts := make([]string, 0, 3)
	if strings.TrimSpace(phone) != "" {
		parts = append(parts, phoneTag+phone)
	}
	if strings.TrimSpace(email) != "" {
		parts = append(parts, emailTag+email)
	}
	if strings.TrimSpace(address) != "" {
		parts = append(parts, addressTag+address)
	}
	return strings.Join(parts, contactSeparator)
}

// DecodeContact recovers the three contact fields from the stored
// string. Segments with an unrecognized prefix are dropped so that
// malformed legacy data degrades instead of failing; decode never
// errors.
func DecodeContact(contact string) (phone, email, address string) {
	if contact == "" {
		return "", "", ""
	}
	for _, part := range strings.Split(contact, contactSeparator) {
		switch {
		case strings.HasPrefix(part, phoneTag):
			phone = strings.TrimPrefix(part, phoneTag)
		case strings.HasPrefix(part, emailTag):
			email = strings.TrimPrefix(part, emailTag)
		case strings.HasPrefix(part, addressTag):
			address = strings.TrimPrefix(part, addressTag)
		}
	}
	return phone, email, address
}
