// Package pipeline orchestrates schema, business-rule and monetary
// validation for a profile, and keeps the legacy flat-record entry point
// used by the original XRechnung review flow.
package pipeline

import (
	"github.com/rezonia/einvoice-engine/internal/model"
	"github.com/rezonia/einvoice-engine/internal/profile"
)

// ValidateForProfile dispatches to the profile's validator and returns its
// aggregated result. The profile identifier arrives from external input,
// so an unknown value is an error rather than a panic.
func ValidateForProfile(inv *model.CanonicalInvoice, profileID string) (model.ValidationResult, error) {
	v, err := profile.LookupProfile(profileID)
	if err != nil {
		return model.ValidationResult{}, err
	}
	return v.Validate(inv), nil
}
