// Package profile implements the per-format business-rule validators: the
// shared EN 16931 structural rules, one validator per conformance profile,
// and the factory resolving a profile or format identifier to its
// validator. The same canonical invoice can be valid under one profile and
// invalid under another; that asymmetry is the reason the validators exist.
package profile

import (
	"github.com/rezonia/einvoice-engine/internal/format"
	"github.com/rezonia/einvoice-engine/internal/model"
	"github.com/rezonia/einvoice-engine/internal/rules"
)

// Validator checks one conformance profile's business rules.
type Validator interface {
	ProfileID() string
	ProfileName() string
	Validate(inv *model.CanonicalInvoice) model.ValidationResult
}

// Rule is a single pure business-rule check. Rules return violations as
// data and never abort; the validator concatenates their results.
type Rule func(inv *model.CanonicalInvoice) []model.Violation

// validator is the shared implementation: structural rules, then
// profile-specific rules, then the monetary cross-checks, all collected in
// one pass.
type validator struct {
	id    string
	name  string
	rules []Rule
}

func (v *validator) ProfileID() string   { return v.id }
func (v *validator) ProfileName() string { return v.name }

func (v *validator) Validate(inv *model.CanonicalInvoice) model.ValidationResult {
	var violations []model.Violation
	for _, rule := range structuralRules {
		violations = append(violations, rule(inv)...)
	}
	for _, rule := range v.rules {
		violations = append(violations, rule(inv)...)
	}
	violations = append(violations, rules.CrossChecks(inv.LineItems, inv.Totals)...)
	return model.NewValidationResult(v.id, violations)
}

// FormatToProfileID maps an output format to its profile identifier. The
// two Factur-X variants map to their own distinct profiles; routing both
// through one shared profile once shipped as a regression and is pinned
// down by tests.
func FormatToProfileID(f format.Format) string {
	return string(f)
}

// ForProfile resolves a profile identifier to its validator. Construction
// is pure and idempotent, so concurrent callers racing into it is
// harmless. Unknown identifiers are a programming error and panic.
func ForProfile(profileID string) Validator {
	v, ok := table[profileID]
	if !ok {
		panic(model.NewConfigError("profile", profileID))
	}
	return v
}

// LookupProfile is the error-returning variant for identifiers arriving
// from untyped external input.
func LookupProfile(profileID string) (Validator, error) {
	v, ok := table[profileID]
	if !ok {
		return nil, model.NewConfigError("profile", profileID)
	}
	return v, nil
}

// ForFormat resolves an output format to its matching validator.
func ForFormat(f format.Format) Validator {
	return ForProfile(FormatToProfileID(f))
}

var table = map[string]Validator{}

func register(v Validator) {
	table[v.ProfileID()] = v
}

func init() {
	register(newXRechnungCII())
	register(newXRechnungUBL())
	register(newPeppolBIS())
	register(newFacturXEN16931())
	register(newFacturXBasic())
	register(newFatturaPA())
	register(newKSeF())
	register(newNLCIUS())
	register(newCIUSRO())
}
