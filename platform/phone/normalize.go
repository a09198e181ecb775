// Package phone normalizes customer phone numbers for lead records.
// This is part of the platform layer and contains no business logic.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// Numbers without a country prefix are assumed Saudi, where the showroom is.
const defaultRegion = "SA"

// NormalizeE164 formats a phone number to E.164. Unparseable or invalid
// input comes back trimmed but otherwise untouched; a lead with an odd
// phone number is still a lead.
func NormalizeE164(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return trimmed
	}

	number, err := phonenumbers.Parse(trimmed, defaultRegion)
	if err != nil || !phonenumbers.IsValidNumber(number) {
		return trimmed
	}
	return phonenumbers.Format(number, phonenumbers.E164)
}
