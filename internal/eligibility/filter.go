// Package eligibility prunes leads whose contact fields cannot support the
// selected campaign mode.
package eligibility

import (
	"strings"

	"github.com/badoux/checkmail"

	"github.com/sells-group/outreach-cli/internal/model"
)

const minPhoneDigits = 7

// Filter partitions leads into sendable and excluded for the given mode,
// preserving input order. Manual mode requires a valid email; autopilot
// additionally requires a valid phone, which downstream follow-up depends on.
func Filter(leads []model.Lead, mode model.CampaignMode) (eligible []model.Lead, excludedCount int) {
	for _, lead := range leads {
		if Sendable(lead, mode) {
			eligible = append(eligible, lead)
		} else {
			excludedCount++
		}
	}
	return eligible, excludedCount
}

// Sendable reports whether a single lead satisfies the contact-field rules
// for the given mode.
func Sendable(lead model.Lead, mode model.CampaignMode) bool {
	if !ValidEmail(lead.Email) {
		return false
	}
	if mode == model.ModeAutopilot {
		return ValidPhone(lead.Phone)
	}
	return true
}

// ValidEmail checks that the address has a local@domain.tld shape.
func ValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	if err := checkmail.ValidateFormat(email); err != nil {
		return false
	}
	// checkmail accepts dotless domains; outreach requires a TLD.
	domain := email[strings.LastIndex(email, "@")+1:]
	return strings.Contains(domain, ".")
}

// ValidPhone strips non-digit characters and requires at least seven digits.
func ValidPhone(phone string) bool {
	digits := 0
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits >= minPhoneDigits
}
