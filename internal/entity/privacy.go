package entity

type PrivacyLevel string

const (
	PrivacyBusinessCard PrivacyLevel = "business_card"
	PrivacyProfessional PrivacyLevel = "professional"
	PrivacyPublicFull   PrivacyLevel = "public_full"
	PrivacyAISafe       PrivacyLevel = "ai_safe"
)

// ParsePrivacyLevel resolves a requested level. Unrecognized or missing values
// fall back to public_full, never an error.
func ParsePrivacyLevel(s string) PrivacyLevel {
	switch PrivacyLevel(s) {
	case PrivacyBusinessCard, PrivacyProfessional, PrivacyPublicFull, PrivacyAISafe:
		return PrivacyLevel(s)
	default:
		return PrivacyPublicFull
	}
}
