// Package rules implements the EN 16931 monetary cross-checks: grouping
// line items by tax rate, recomputing document totals, and reporting every
// BR-CO-10/14/15 violation in a single pass.
package rules

import (
	"fmt"

	"github.com/rezonia/einvoice-engine/internal/model"
	"github.com/rezonia/einvoice-engine/internal/money"
)

// Tolerance is the rounding tolerance for the document-level cross-checks.
const Tolerance = 0.01

// Tax category codes per UNTDID 5305.
const (
	TaxCategoryStandard = "S"
	TaxCategoryExempt   = "E"
)

// TaxGroup aggregates the line items sharing one (rate, category) pair.
type TaxGroup struct {
	Rate          float64
	CategoryCode  string
	TaxableAmount float64
	TaxAmount     float64
}

// GroupKey identifies a tax group.
type GroupKey struct {
	Rate     float64
	Category string
}

// CategoryFor derives the tax category for a line item when no explicit
// code is given: positive rate means standard rated, zero means exempt.
func CategoryFor(item model.LineItem) string {
	if item.TaxCategoryCode != "" {
		return item.TaxCategoryCode
	}
	if item.TaxRate > 0 {
		return TaxCategoryStandard
	}
	return TaxCategoryExempt
}

// GroupByTaxRate groups line items by (rate, category). Each group's tax
// amount is computed once on the group's taxable base, rounded to 2
// decimals per group, never as one blended rate.
func GroupByTaxRate(items []model.LineItem) []TaxGroup {
	index := make(map[GroupKey]int)
	var groups []TaxGroup

	for _, item := range items {
		key := GroupKey{Rate: item.TaxRate, Category: CategoryFor(item)}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, TaxGroup{Rate: key.Rate, CategoryCode: key.Category})
		}
		groups[i].TaxableAmount = money.Add(groups[i].TaxableAmount, item.TotalPrice)
	}

	for i := range groups {
		groups[i].TaxAmount = money.ComputeTax(groups[i].TaxableAmount, groups[i].Rate)
	}
	return groups
}

// RecomputeTotals derives the document totals from the line items,
// adjusted by any document-level allowances and charges.
func RecomputeTotals(items []model.LineItem, allowanceCharges []model.AllowanceCharge) model.Totals {
	nets := make([]float64, 0, len(items))
	for _, item := range items {
		nets = append(nets, item.TotalPrice)
	}
	subtotal := money.Sum(nets)

	adjusted := make([]model.LineItem, len(items))
	copy(adjusted, items)
	for _, ac := range allowanceCharges {
		amount := ac.Amount
		if !ac.Charge {
			amount = -amount
		}
		subtotal = money.Add(subtotal, amount)
		adjusted = append(adjusted, model.LineItem{TotalPrice: amount, TaxRate: ac.TaxRate})
	}

	var taxAmount float64
	for _, g := range GroupByTaxRate(adjusted) {
		taxAmount = money.Add(taxAmount, g.TaxAmount)
	}

	return model.Totals{
		Subtotal:    subtotal,
		TaxAmount:   taxAmount,
		TotalAmount: money.Add(subtotal, taxAmount),
	}
}

// CrossChecks validates the stored totals against the line items. All three
// checks always run; a failing subtotal does not suppress the tax or
// grand-total checks.
func CrossChecks(items []model.LineItem, totals model.Totals) []model.Violation {
	var violations []model.Violation

	nets := make([]float64, 0, len(items))
	for _, item := range items {
		nets = append(nets, item.TotalPrice)
	}
	lineSum := money.Sum(nets)

	if !money.Equal(lineSum, totals.Subtotal, Tolerance) {
		violations = append(violations, model.Violation{
			RuleID: "BR-CO-10",
			Message: fmt.Sprintf("sum of line net amounts (%.2f) does not equal invoice subtotal (%.2f)",
				lineSum, totals.Subtotal),
		})
	}

	var expectedTax float64
	for _, g := range GroupByTaxRate(items) {
		expectedTax = money.Add(expectedTax, g.TaxAmount)
	}
	if !money.Equal(expectedTax, totals.TaxAmount, Tolerance) {
		violations = append(violations, model.Violation{
			RuleID: "BR-CO-14",
			Message: fmt.Sprintf("computed VAT total (%.2f) does not equal invoice tax amount (%.2f)",
				expectedTax, totals.TaxAmount),
		})
	}

	// Compared against the recomputed figures so the three checks stay
	// independent: a mis-set subtotal fires BR-CO-10 alone instead of
	// cascading into the grand-total check.
	expectedTotal := money.Add(lineSum, expectedTax)
	if !money.Equal(expectedTotal, totals.TotalAmount, Tolerance) {
		violations = append(violations, model.Violation{
			RuleID: "BR-CO-15",
			Message: fmt.Sprintf("subtotal plus tax (%.2f) does not equal invoice total (%.2f)",
				expectedTotal, totals.TotalAmount),
		})
	}

	return violations
}
