package costing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlasvoyages/quotation-api/internal/domain"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func item(st domain.ServiceType, unitCost string, basis domain.CostBasis, pax int) domain.LineItem {
	return domain.LineItem{
		ServiceType: st,
		UnitCost:    dec(unitCost),
		CostBasis:   basis,
		Quantity:    decimal.NewFromInt(1),
		PaxCount:    pax,
	}
}

func assertDecEqual(t *testing.T, expected string, actual decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, dec(expected).Equal(actual), "expected %s, got %s %v", expected, actual, msgAndArgs)
}

func TestComputeZeroConfigIdentity(t *testing.T) {
	items := []domain.LineItem{
		item(domain.ServiceHotel, "100", domain.CostBasisPerPerson, 2),
		item(domain.ServiceGuide, "50", domain.CostBasisGroup, 2),
	}

	b, err := Compute(items, domain.DefaultCostingConfiguration("INR"))
	require.NoError(t, err)

	assertDecEqual(t, "250", b.RawTotal)
	assertDecEqual(t, "0", b.GrossMarkup)
	assertDecEqual(t, "0", b.TaxAmount)
	assertDecEqual(t, "0", b.DiscountAmount)
	assertDecEqual(t, "250", b.FinalAmount)
}

func TestComputeWorkedScenario(t *testing.T) {
	// Two adults: a hotel night at 100 per person and a guide day at a
	// 50 group rate. Hotel marked up 10%, guide 5%, same-state GST 5%.
	items := []domain.LineItem{
		item(domain.ServiceHotel, "100", domain.CostBasisPerPerson, 2),
		item(domain.ServiceGuide, "50", domain.CostBasisGroup, 2),
	}
	cfg := domain.DefaultCostingConfiguration("INR").
		WithServiceMarkup(domain.ServiceHotel, domain.MarkupValue{Kind: domain.AmountKindPercent, Value: dec("10")}).
		WithServiceMarkup(domain.ServiceGuide, domain.MarkupValue{Kind: domain.AmountKindPercent, Value: dec("5")}).
		WithGST(domain.GSTConfig{Jurisdiction: domain.GSTSameState, Percent: dec("5")})

	b, err := Compute(items, cfg)
	require.NoError(t, err)

	assertDecEqual(t, "250", b.RawTotal)
	assertDecEqual(t, "22.5", b.GrossMarkup)
	assertDecEqual(t, "272.5", b.PreTaxSale)
	assertDecEqual(t, "13.625", b.TaxAmount)
	assertDecEqual(t, "6.8125", b.CGSTAmount)
	assertDecEqual(t, "6.8125", b.SGSTAmount)
	assertDecEqual(t, "0", b.IGSTAmount)
	assertDecEqual(t, "286.125", b.FinalAmount)

	require.Len(t, b.Buckets, 2)
	assert.Equal(t, domain.ServiceHotel, b.Buckets[0].ServiceType)
	assertDecEqual(t, "220", b.Buckets[0].MarkedUpCost)
	assert.Equal(t, domain.ServiceGuide, b.Buckets[1].ServiceType)
	assertDecEqual(t, "52.5", b.Buckets[1].MarkedUpCost)
}

func TestComputeIsDeterministic(t *testing.T) {
	items := []domain.LineItem{
		item(domain.ServiceHotel, "123.45", domain.CostBasisPerPerson, 3),
		item(domain.ServiceTransfer, "80", domain.CostBasisGroup, 3),
	}
	cfg := domain.DefaultCostingConfiguration("USD").
		WithUniversalMarkup(domain.MarkupValue{Kind: domain.AmountKindPercent, Value: dec("12.5")}).
		WithGST(domain.GSTConfig{Jurisdiction: domain.GSTOtherState, Percent: dec("18")})
	cfg.CommissionPercent = dec("3")

	first, err := Compute(items, cfg)
	require.NoError(t, err)
	second, err := Compute(items, cfg)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestComputeOtherStateUsesIGST(t *testing.T) {
	items := []domain.LineItem{item(domain.ServiceActivity, "200", domain.CostBasisGroup, 4)}
	cfg := domain.DefaultCostingConfiguration("INR").
		WithGST(domain.GSTConfig{Jurisdiction: domain.GSTOtherState, Percent: dec("5")})

	b, err := Compute(items, cfg)
	require.NoError(t, err)

	assertDecEqual(t, "10", b.IGSTAmount)
	assertDecEqual(t, "0", b.CGSTAmount)
	assertDecEqual(t, "0", b.SGSTAmount)
	assertDecEqual(t, "210", b.FinalAmount)
}

func TestComputeSupplementPassThrough(t *testing.T) {
	items := []domain.LineItem{
		item(domain.ServiceHotel, "100", domain.CostBasisGroup, 2),
		item(domain.ServiceFlight, "500", domain.CostBasisGroup, 2),
	}
	cfg := domain.DefaultCostingConfiguration("INR").
		WithUniversalMarkup(domain.MarkupValue{Kind: domain.AmountKindPercent, Value: dec("10")})
	cfg.Supplements.Flight = false

	b, err := Compute(items, cfg)
	require.NoError(t, err)

	// Flight carried at raw cost; only the hotel bucket is marked up.
	assertDecEqual(t, "10", b.GrossMarkup)
	assertDecEqual(t, "610", b.FinalAmount)

	require.Len(t, b.Buckets, 2)
	flight := b.Buckets[1]
	require.Equal(t, domain.ServiceFlight, flight.ServiceType)
	assert.True(t, flight.PassThrough)
	assertDecEqual(t, "0", flight.MarkupAmount)
	assertDecEqual(t, "500", flight.MarkedUpCost)
}

func TestComputeMealToggleCoversRestaurantBucket(t *testing.T) {
	items := []domain.LineItem{item(domain.ServiceRestaurant, "40", domain.CostBasisPerPerson, 2)}
	cfg := domain.DefaultCostingConfiguration("INR").
		WithUniversalMarkup(domain.MarkupValue{Kind: domain.AmountKindPercent, Value: dec("25")})
	cfg.Supplements.Meal = false

	b, err := Compute(items, cfg)
	require.NoError(t, err)

	assertDecEqual(t, "0", b.GrossMarkup)
	assertDecEqual(t, "80", b.FinalAmount)
}

func TestComputeUniversalFlatMarkupAppliedOnce(t *testing.T) {
	items := []domain.LineItem{
		item(domain.ServiceHotel, "100", domain.CostBasisGroup, 2),
		item(domain.ServiceTransfer, "50", domain.CostBasisGroup, 2),
	}
	cfg := domain.DefaultCostingConfiguration("INR").
		WithUniversalMarkup(domain.MarkupValue{Kind: domain.AmountKindFlat, Value: dec("75")})

	b, err := Compute(items, cfg)
	require.NoError(t, err)

	assertDecEqual(t, "75", b.GrossMarkup)
	assertDecEqual(t, "225", b.PreCommissionSale)
}

func TestComputeCommissionLayersShareBase(t *testing.T) {
	items := []domain.LineItem{item(domain.ServiceHotel, "1000", domain.CostBasisGroup, 2)}
	cfg := domain.DefaultCostingConfiguration("INR")
	cfg.CommissionPercent = dec("5")
	cfg.CreditCardFeePercent = dec("2")
	cfg.ClientCommissionPercent = dec("1")

	b, err := Compute(items, cfg)
	require.NoError(t, err)

	assertDecEqual(t, "50", b.CommissionAmount)
	assertDecEqual(t, "20", b.CreditCardFeeAmount)
	assertDecEqual(t, "10", b.ClientCommissionAmount)
	assertDecEqual(t, "1080", b.PreTaxSale)
}

func TestComputeTCSModes(t *testing.T) {
	items := []domain.LineItem{item(domain.ServiceHotel, "1000", domain.CostBasisGroup, 2)}

	exclusive := domain.DefaultCostingConfiguration("INR")
	exclusive.TCS = domain.TCSConfig{Mode: domain.TCSExclusive, Percent: dec("5")}
	b, err := Compute(items, exclusive)
	require.NoError(t, err)
	assertDecEqual(t, "50", b.TCSAmount)
	assert.False(t, b.TCSIncluded)
	assertDecEqual(t, "1050", b.FinalAmount)

	inclusive := domain.DefaultCostingConfiguration("INR")
	inclusive.TCS = domain.TCSConfig{Mode: domain.TCSInclusive, Percent: dec("5")}
	b, err = Compute(items, inclusive)
	require.NoError(t, err)
	// Inclusive mode records the figure without changing the amount due.
	assertDecEqual(t, "50", b.TCSAmount)
	assert.True(t, b.TCSIncluded)
	assertDecEqual(t, "1000", b.FinalAmount)
}

func TestComputeDiscountFloorsAtZero(t *testing.T) {
	items := []domain.LineItem{item(domain.ServiceGuide, "100", domain.CostBasisGroup, 2)}
	cfg := domain.DefaultCostingConfiguration("INR").
		WithDiscount(domain.DiscountConfig{Kind: domain.AmountKindFlat, Value: dec("500")})

	b, err := Compute(items, cfg)
	require.NoError(t, err)

	assertDecEqual(t, "500", b.DiscountAmount)
	assert.True(t, b.DiscountClamped)
	assertDecEqual(t, "0", b.NetTotal)
	assertDecEqual(t, "0", b.FinalAmount)
}

func TestComputeConversionAndRounding(t *testing.T) {
	items := []domain.LineItem{item(domain.ServiceHotel, "100.4", domain.CostBasisGroup, 2)}

	tests := []struct {
		name     string
		rounding domain.RoundingRule
		roe      string
		want     string
	}{
		{"none keeps fraction", domain.RoundingNone, "1.5", "150.6"},
		{"nearest", domain.RoundingNearest, "1.5", "151"},
		{"up", domain.RoundingUp, "1.5", "151"},
		{"down", domain.RoundingDown, "1.5", "150"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := domain.DefaultCostingConfiguration("EUR").
				WithExchange("EUR", dec(tt.roe)).
				WithRounding(tt.rounding)

			b, err := Compute(items, cfg)
			require.NoError(t, err)

			// Rounding touches only the final amount; the converted
			// total stays exact.
			assertDecEqual(t, "150.6", b.ConvertedTotal)
			assertDecEqual(t, tt.want, b.FinalAmount)
		})
	}
}

func TestComputeEmptyItinerary(t *testing.T) {
	cfg := domain.DefaultCostingConfiguration("INR").
		WithUniversalMarkup(domain.MarkupValue{Kind: domain.AmountKindFlat, Value: dec("100")})

	b, err := Compute(nil, cfg)
	require.NoError(t, err)

	assert.Empty(t, b.Buckets)
	assertDecEqual(t, "0", b.RawTotal)
	assertDecEqual(t, "0", b.GrossMarkup)
	assertDecEqual(t, "0", b.FinalAmount)
}

func TestValidateConfig(t *testing.T) {
	base := domain.DefaultCostingConfiguration("INR")

	tests := []struct {
		name    string
		mutate  func(c domain.CostingConfiguration) domain.CostingConfiguration
		field   string
		wantErr bool
	}{
		{"default is valid", func(c domain.CostingConfiguration) domain.CostingConfiguration { return c }, "", false},
		{"negative markup", func(c domain.CostingConfiguration) domain.CostingConfiguration {
			return c.WithUniversalMarkup(domain.MarkupValue{Kind: domain.AmountKindPercent, Value: dec("-1")})
		}, "universalMarkup.value", true},
		{"negative service markup", func(c domain.CostingConfiguration) domain.CostingConfiguration {
			return c.WithServiceMarkup(domain.ServiceHotel, domain.MarkupValue{Kind: domain.AmountKindFlat, Value: dec("-5")})
		}, "serviceMarkups.hotel.value", true},
		{"negative commission", func(c domain.CostingConfiguration) domain.CostingConfiguration {
			c.CommissionPercent = dec("-2")
			return c
		}, "commissionPercent", true},
		{"discount over 100 percent", func(c domain.CostingConfiguration) domain.CostingConfiguration {
			return c.WithDiscount(domain.DiscountConfig{Kind: domain.AmountKindPercent, Value: dec("110")})
		}, "discount.value", true},
		{"missing currency", func(c domain.CostingConfiguration) domain.CostingConfiguration {
			c.Currency = ""
			return c
		}, "currency", true},
		{"zero exchange rate", func(c domain.CostingConfiguration) domain.CostingConfiguration {
			c.RateOfExchange = decimal.Zero
			return c
		}, "rateOfExchange", true},
		{"bad rounding rule", func(c domain.CostingConfiguration) domain.CostingConfiguration {
			c.Rounding = domain.RoundingRule("banker")
			return c
		}, "rounding", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateConfig(tt.mutate(base))
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.field)
		})
	}
}

func TestValidationErrorBlocksCompute(t *testing.T) {
	cfg := domain.DefaultCostingConfiguration("")
	b, err := Compute(nil, cfg)
	assert.Nil(t, b)
	require.Error(t, err)
}
