// Package costing computes quotation price breakdowns. Compute is a pure
// function over line items and a costing configuration: no I/O, no clock,
// deterministic output, all arithmetic in decimals.
package costing

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/atlasvoyages/quotation-api/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// ValidationError reports configuration problems field by field. A config
// that fails validation must not be computed or saved.
type ValidationError struct {
	Fields map[string]string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "invalid costing configuration: " + strings.Join(parts, "; ")
}

// ValidateConfig checks a costing configuration before it is computed or
// persisted. Nothing is silently corrected; every problem is reported with
// the field it belongs to.
func ValidateConfig(cfg domain.CostingConfiguration) error {
	fields := map[string]string{}

	if !cfg.MarkupMode.IsValid() {
		fields["markupMode"] = "must be universal or service_wise"
	}
	checkMarkup := func(field string, v domain.MarkupValue) {
		if !v.Kind.IsValid() {
			fields[field+".kind"] = "must be percent or flat"
		}
		if v.Value.IsNegative() {
			fields[field+".value"] = "must not be negative"
		}
	}
	switch cfg.MarkupMode {
	case domain.MarkupModeUniversal:
		checkMarkup("universalMarkup", cfg.UniversalMarkup)
	case domain.MarkupModeServiceWise:
		for st, mv := range cfg.ServiceMarkups {
			checkMarkup("serviceMarkups."+string(st), mv)
		}
	}

	if cfg.CommissionPercent.IsNegative() {
		fields["commissionPercent"] = "must not be negative"
	}
	if cfg.CreditCardFeePercent.IsNegative() {
		fields["creditCardFeePercent"] = "must not be negative"
	}
	if cfg.ClientCommissionPercent.IsNegative() {
		fields["clientCommissionPercent"] = "must not be negative"
	}

	if !cfg.GST.Jurisdiction.IsValid() {
		fields["gst.jurisdiction"] = "must be same_state or other_state"
	}
	if cfg.GST.Percent.IsNegative() {
		fields["gst.percent"] = "must not be negative"
	}
	if !cfg.TCS.Mode.IsValid() {
		fields["tcs.mode"] = "must be inclusive or exclusive"
	}
	if cfg.TCS.Percent.IsNegative() {
		fields["tcs.percent"] = "must not be negative"
	}

	if !cfg.Discount.Kind.IsValid() {
		fields["discount.kind"] = "must be percent or flat"
	}
	if cfg.Discount.Value.IsNegative() {
		fields["discount.value"] = "must not be negative"
	}
	if cfg.Discount.Kind == domain.AmountKindPercent && cfg.Discount.Value.GreaterThan(hundred) {
		fields["discount.value"] = "percent discount cannot exceed 100"
	}

	if strings.TrimSpace(cfg.Currency) == "" {
		fields["currency"] = "currency is required"
	}
	if !cfg.RateOfExchange.IsPositive() {
		fields["rateOfExchange"] = "must be greater than zero"
	}
	if !cfg.Rounding.IsValid() {
		fields["rounding"] = "must be none, nearest, up or down"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Compute derives the full cost breakdown for a set of line items under a
// configuration. The layer order is fixed: bucket sums, markup, commission
// and fees, GST, TCS, discount, currency conversion, and rounding applied
// exactly once to the final converted amount. Every intermediate figure is
// retained in the result.
func Compute(items []domain.LineItem, cfg domain.CostingConfiguration) (*domain.CostBreakdown, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	b := &domain.CostBreakdown{
		Currency:        cfg.Currency,
		RateOfExchange:  cfg.RateOfExchange,
		RoundingApplied: cfg.Rounding,
	}

	// Bucket sums per service type, honoring each item's cost basis.
	sums := map[domain.ServiceType]decimal.Decimal{}
	for _, it := range items {
		sums[it.ServiceType] = sums[it.ServiceType].Add(it.TotalCost())
	}

	for _, st := range domain.AllServiceTypes() {
		raw, ok := sums[st]
		if !ok {
			continue
		}
		fig := domain.BucketFigure{
			ServiceType: st,
			RawCost:     raw,
			PassThrough: isPassThrough(st, cfg.Supplements),
		}
		if !fig.PassThrough {
			fig.MarkupAmount = bucketMarkup(st, raw, cfg)
		}
		fig.MarkedUpCost = fig.RawCost.Add(fig.MarkupAmount)
		b.Buckets = append(b.Buckets, fig)

		b.RawTotal = b.RawTotal.Add(fig.RawCost)
		b.GrossMarkup = b.GrossMarkup.Add(fig.MarkupAmount)
	}

	// A universal flat markup is a single amount on the whole itinerary,
	// not distributed across buckets.
	if len(items) > 0 &&
		cfg.MarkupMode == domain.MarkupModeUniversal &&
		cfg.UniversalMarkup.Kind == domain.AmountKindFlat {
		b.GrossMarkup = b.GrossMarkup.Add(cfg.UniversalMarkup.Value)
	}

	b.PreCommissionSale = b.RawTotal.Add(b.GrossMarkup)

	// Commission, credit card fee and client commission each apply to the
	// same pre-commission base and are summed.
	base := b.PreCommissionSale
	b.CommissionAmount = percentOf(base, cfg.CommissionPercent)
	b.CreditCardFeeAmount = percentOf(base, cfg.CreditCardFeePercent)
	b.ClientCommissionAmount = percentOf(base, cfg.ClientCommissionPercent)
	b.PreTaxSale = base.
		Add(b.CommissionAmount).
		Add(b.CreditCardFeeAmount).
		Add(b.ClientCommissionAmount)

	// GST on the pre-tax sale. Same-state splits the figure into equal
	// CGST and SGST halves; cross-state carries it whole as IGST.
	b.TaxAmount = percentOf(b.PreTaxSale, cfg.GST.Percent)
	if cfg.GST.Jurisdiction == domain.GSTSameState {
		half := b.TaxAmount.Div(decimal.NewFromInt(2))
		b.CGSTAmount = half
		b.SGSTAmount = b.TaxAmount.Sub(half)
	} else {
		b.IGSTAmount = b.TaxAmount
	}
	afterTax := b.PreTaxSale.Add(b.TaxAmount)

	// TCS on the post-tax amount. Exclusive mode adds it to the total;
	// inclusive mode records the figure without changing the amount due.
	b.TCSAmount = percentOf(afterTax, cfg.TCS.Percent)
	if cfg.TCS.Mode == domain.TCSInclusive {
		b.TCSIncluded = true
		b.PostTaxTotal = afterTax
	} else {
		b.PostTaxTotal = afterTax.Add(b.TCSAmount)
	}

	// Discount, floored at zero. The requested amount is kept even when
	// clamped so the breakdown shows what was asked for.
	switch cfg.Discount.Kind {
	case domain.AmountKindPercent:
		b.DiscountAmount = percentOf(b.PostTaxTotal, cfg.Discount.Value)
	case domain.AmountKindFlat:
		b.DiscountAmount = cfg.Discount.Value
	}
	b.NetTotal = b.PostTaxTotal.Sub(b.DiscountAmount)
	if b.NetTotal.IsNegative() {
		b.NetTotal = decimal.Zero
		b.DiscountClamped = true
	}

	b.ConvertedTotal = b.NetTotal.Mul(cfg.RateOfExchange)
	b.FinalAmount = applyRounding(b.ConvertedTotal, cfg.Rounding)

	return b, nil
}

func isPassThrough(st domain.ServiceType, t domain.SupplementToggles) bool {
	switch st {
	case domain.ServiceFlight:
		return !t.Flight
	case domain.ServiceTourEscort:
		return !t.TourEscort
	case domain.ServiceRestaurant:
		return !t.Meal
	}
	return false
}

func bucketMarkup(st domain.ServiceType, raw decimal.Decimal, cfg domain.CostingConfiguration) decimal.Decimal {
	switch cfg.MarkupMode {
	case domain.MarkupModeUniversal:
		if cfg.UniversalMarkup.Kind == domain.AmountKindPercent {
			return percentOf(raw, cfg.UniversalMarkup.Value)
		}
		// Flat universal markup is applied once at the total level.
		return decimal.Zero
	case domain.MarkupModeServiceWise:
		mv, ok := cfg.ServiceMarkups[st]
		if !ok {
			return decimal.Zero
		}
		if mv.Kind == domain.AmountKindPercent {
			return percentOf(raw, mv.Value)
		}
		return mv.Value
	}
	return decimal.Zero
}

func percentOf(base, pct decimal.Decimal) decimal.Decimal {
	if pct.IsZero() || base.IsZero() {
		return decimal.Zero
	}
	return base.Mul(pct).Div(hundred)
}

func applyRounding(amount decimal.Decimal, rule domain.RoundingRule) decimal.Decimal {
	switch rule {
	case domain.RoundingNearest:
		return amount.Round(0)
	case domain.RoundingUp:
		return amount.Ceil()
	case domain.RoundingDown:
		return amount.Floor()
	}
	return amount
}
