// Package service is the end-to-end entry point: normalize defaultable
// fields, reconcile totals with the line items, validate, generate, and
// package the result. The flow is strictly sequential with no loops or
// retries; the calling batch worker owns concurrency, timeouts and
// recovery.
package service

import (
	"go.uber.org/zap"

	"github.com/rezonia/einvoice-engine/internal/format"
	"github.com/rezonia/einvoice-engine/internal/generator"
	"github.com/rezonia/einvoice-engine/internal/model"
	"github.com/rezonia/einvoice-engine/internal/money"
	"github.com/rezonia/einvoice-engine/internal/profile"
	"github.com/rezonia/einvoice-engine/internal/rules"
)

// DriftTolerance is the maximum disagreement between stored and recomputed
// totals that is corrected silently. It guards against upstream extraction
// rounding noise, not against large discrepancies; anything beyond it is
// left for the validators to report.
const DriftTolerance = 0.02

// Service converts canonical invoices into release-ready documents.
type Service struct {
	log *zap.Logger
}

// Option configures the service.
type Option func(*Service)

// WithLogger sets the logger used for drift-correction reporting.
func WithLogger(log *zap.Logger) Option {
	return func(s *Service) {
		s.log = log
	}
}

// New creates a service. Without options it logs nowhere.
func New(opts ...Option) *Service {
	s := &Service{log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate runs the full conversion: Normalize, Validate, Generate,
// Package. Rule violations travel inside the result; only configuration
// and date errors abort.
func (s *Service) Generate(inv *model.CanonicalInvoice) (*model.GenerationResult, error) {
	f, err := format.Parse(inv.OutputFormat)
	if err != nil {
		return nil, err
	}

	normalized := s.Normalize(inv)

	return generator.ForFormat(f).Generate(normalized)
}

// Validate normalizes the invoice and runs the profile for its output
// format without producing any document.
func (s *Service) Validate(inv *model.CanonicalInvoice) (*model.ValidationResult, error) {
	f, err := format.Parse(inv.OutputFormat)
	if err != nil {
		return nil, err
	}

	normalized := s.Normalize(inv)
	result := profile.ForFormat(f).Validate(normalized)
	return &result, nil
}

// Normalize returns a copy with defaultable-but-missing fields filled in
// and small monetary drift corrected. The input is never mutated.
func (s *Service) Normalize(inv *model.CanonicalInvoice) *model.CanonicalInvoice {
	out := *inv
	out.LineItems = make([]model.LineItem, len(inv.LineItems))
	copy(out.LineItems, inv.LineItems)

	if out.DocumentTypeCode == "" {
		out.DocumentTypeCode = model.DocTypeInvoice
	}
	if out.Currency == "" {
		out.Currency = "EUR"
	}
	out.Seller = fillElectronicAddress(out.Seller)
	out.Buyer = fillElectronicAddress(out.Buyer)

	s.reconcileTotals(&out)
	return &out
}

// fillElectronicAddress falls back to an available email with scheme EM
// when no electronic address was extracted.
func fillElectronicAddress(p model.Party) model.Party {
	if p.ElectronicAddress == "" && p.ContactEmail != "" {
		p.ElectronicAddress = p.ContactEmail
		p.ElectronicAddressScheme = model.SchemeEmail
	}
	return p
}

// reconcileTotals replaces the stored totals with the recomputed ones when
// they disagree within the drift tolerance. Larger disagreements are left
// alone so the monetary cross-checks report them; correcting those would
// silently cover up bad source data.
func (s *Service) reconcileTotals(inv *model.CanonicalInvoice) {
	if len(inv.LineItems) == 0 {
		return
	}

	recomputed := rules.RecomputeTotals(inv.LineItems, nil)
	if totalsEqual(inv.Totals, recomputed, 0) {
		return
	}
	if !totalsEqual(inv.Totals, recomputed, DriftTolerance) {
		return
	}

	s.log.Info("correcting totals drift",
		zap.String("invoice", inv.InvoiceNumber),
		zap.Float64("storedSubtotal", inv.Totals.Subtotal),
		zap.Float64("recomputedSubtotal", recomputed.Subtotal),
		zap.Float64("storedTax", inv.Totals.TaxAmount),
		zap.Float64("recomputedTax", recomputed.TaxAmount),
		zap.Float64("storedTotal", inv.Totals.TotalAmount),
		zap.Float64("recomputedTotal", recomputed.TotalAmount),
	)
	inv.Totals = recomputed
}

func totalsEqual(a, b model.Totals, tolerance float64) bool {
	return money.Equal(a.Subtotal, b.Subtotal, tolerance) &&
		money.Equal(a.TaxAmount, b.TaxAmount, tolerance) &&
		money.Equal(a.TotalAmount, b.TotalAmount, tolerance)
}
