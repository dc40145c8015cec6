package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlasvoyages/quotation-api/internal/domain"
	"github.com/atlasvoyages/quotation-api/internal/service"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	date, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return date
}

func (env *testEnv) seedRate(t *testing.T, req domain.CreateCatalogRateRequest) *domain.CatalogRateDTO {
	t.Helper()
	rate, err := env.catalog.AddRate(context.Background(), &req)
	require.NoError(t, err)
	return rate
}

func TestFindRatesEligibility(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.seedRate(t, domain.CreateCatalogRateRequest{
		ServiceType: domain.ServiceHotel, City: "Jaipur", SupplierName: "Amber Palace",
		RateName: "Standard", ValidFrom: "2026-01-01", ValidTo: "2026-06-30",
		FromPax: 1, ToPax: 10, CostBasis: domain.CostBasisPerPerson,
		Currency: "INR", UnitCost: decimalFromString(t, "3500"),
	})
	inWindow := env.seedRate(t, domain.CreateCatalogRateRequest{
		ServiceType: domain.ServiceHotel, City: "Jaipur", SupplierName: "City Haveli",
		RateName: "Deluxe", ValidFrom: "2026-07-01", ValidTo: "2026-12-31",
		FromPax: 2, ToPax: 6, CostBasis: domain.CostBasisPerPerson,
		Currency: "INR", UnitCost: decimalFromString(t, "4200"),
	})
	env.seedRate(t, domain.CreateCatalogRateRequest{
		ServiceType: domain.ServiceHotel, City: "Jaipur", SupplierName: "Big Groups Only",
		RateName: "Group block", ValidFrom: "2026-07-01", ValidTo: "2026-12-31",
		FromPax: 10, ToPax: 40, CostBasis: domain.CostBasisPerPerson,
		Currency: "INR", UnitCost: decimalFromString(t, "2800"),
	})
	env.seedRate(t, domain.CreateCatalogRateRequest{
		ServiceType: domain.ServiceHotel, City: "Udaipur", SupplierName: "Lakeside",
		RateName: "Standard", ValidFrom: "2026-01-01", ValidTo: "2026-12-31",
		FromPax: 1, ToPax: 10, CostBasis: domain.CostBasisPerPerson,
		Currency: "INR", UnitCost: decimalFromString(t, "3900"),
	})

	rates, err := env.catalog.FindRates(ctx, service.RateQuery{
		ServiceType: domain.ServiceHotel,
		City:        "jaipur",
		TravelDate:  mustDate(t, "2026-10-05"),
		PaxCount:    3,
	})
	require.NoError(t, err)

	// Only the rate valid on the date, covering the pax slab, in the city
	require.Len(t, rates, 1)
	assert.Equal(t, inWindow.ID, rates[0].ID)
}

func TestFindRatesExcludesInactive(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	rate := env.seedRate(t, domain.CreateCatalogRateRequest{
		ServiceType: domain.ServiceTransfer, City: "Delhi", SupplierName: "Metro Cabs",
		RateName: "Sedan", ValidFrom: "2026-01-01", ValidTo: "2026-12-31",
		FromPax: 1, ToPax: 4, CostBasis: domain.CostBasisGroup,
		Currency: "INR", UnitCost: decimalFromString(t, "900"),
	})
	require.NoError(t, env.db.Exec("UPDATE catalog_rates SET is_active = ? WHERE id = ?", false, rate.ID).Error)

	rates, err := env.catalog.FindRates(ctx, service.RateQuery{
		ServiceType: domain.ServiceTransfer,
		City:        "Delhi",
		TravelDate:  mustDate(t, "2026-05-01"),
		PaxCount:    2,
	})
	require.NoError(t, err)
	// No eligible rates is a normal outcome, not an error
	assert.Empty(t, rates)
}

func TestFindRatesSortsBySupplierThenCost(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	base := domain.CreateCatalogRateRequest{
		ServiceType: domain.ServiceActivity, City: "Agra",
		RateName: "Tour", ValidFrom: "2026-01-01", ValidTo: "2026-12-31",
		FromPax: 1, ToPax: 20, CostBasis: domain.CostBasisPerPerson, Currency: "INR",
	}

	expensive := base
	expensive.SupplierName = "Alpha Tours"
	expensive.UnitCost = decimalFromString(t, "500")
	env.seedRate(t, expensive)

	cheap := base
	cheap.SupplierName = "Alpha Tours"
	cheap.UnitCost = decimalFromString(t, "300")
	env.seedRate(t, cheap)

	other := base
	other.SupplierName = "Beta Excursions"
	other.UnitCost = decimalFromString(t, "100")
	env.seedRate(t, other)

	rates, err := env.catalog.FindRates(ctx, service.RateQuery{
		ServiceType: domain.ServiceActivity,
		City:        "Agra",
		TravelDate:  mustDate(t, "2026-06-15"),
		PaxCount:    2,
	})
	require.NoError(t, err)
	require.Len(t, rates, 3)

	// Supplier name first, then unit cost; never cheapest-first overall
	assert.Equal(t, "Alpha Tours", rates[0].SupplierName)
	assert.True(t, rates[0].UnitCost.Equal(decimalFromString(t, "300")))
	assert.Equal(t, "Alpha Tours", rates[1].SupplierName)
	assert.True(t, rates[1].UnitCost.Equal(decimalFromString(t, "500")))
	assert.Equal(t, "Beta Excursions", rates[2].SupplierName)
}

func TestFindRatesHotelRefinements(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	base := domain.CreateCatalogRateRequest{
		ServiceType: domain.ServiceHotel, City: "Jaipur", SupplierName: "Amber Palace",
		ValidFrom: "2026-01-01", ValidTo: "2026-12-31",
		FromPax: 1, ToPax: 10, CostBasis: domain.CostBasisPerPerson, Currency: "INR",
	}

	deluxe := base
	deluxe.RateName = "Deluxe CP"
	deluxe.RoomType = "Deluxe"
	deluxe.MealPlan = "CP"
	deluxe.UnitCost = decimalFromString(t, "5000")
	wanted := env.seedRate(t, deluxe)

	standard := base
	standard.RateName = "Standard MAP"
	standard.RoomType = "Standard"
	standard.MealPlan = "MAP"
	standard.UnitCost = decimalFromString(t, "3800")
	env.seedRate(t, standard)

	rates, err := env.catalog.FindRates(ctx, service.RateQuery{
		ServiceType: domain.ServiceHotel,
		City:        "Jaipur",
		TravelDate:  mustDate(t, "2026-06-01"),
		PaxCount:    2,
		RoomType:    "deluxe",
		MealPlan:    "cp",
	})
	require.NoError(t, err)
	require.Len(t, rates, 1)
	assert.Equal(t, wanted.ID, rates[0].ID)
}

func TestAddRateRejectsInvertedValidity(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.catalog.AddRate(context.Background(), &domain.CreateCatalogRateRequest{
		ServiceType: domain.ServiceGuide, City: "Jaipur", SupplierName: "Heritage Walks",
		RateName: "Guide", ValidFrom: "2026-12-31", ValidTo: "2026-01-01",
		FromPax: 1, CostBasis: domain.CostBasisGroup,
		Currency: "INR", UnitCost: decimalFromString(t, "2000"),
	})
	assert.Error(t, err)
}

func TestAddRateRejectsNegativeCost(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.catalog.AddRate(context.Background(), &domain.CreateCatalogRateRequest{
		ServiceType: domain.ServiceGuide, City: "Jaipur", SupplierName: "Heritage Walks",
		RateName: "Guide", ValidFrom: "2026-01-01", ValidTo: "2026-12-31",
		FromPax: 1, CostBasis: domain.CostBasisGroup,
		Currency: "INR", UnitCost: decimalFromString(t, "-2000"),
	})
	assert.Error(t, err)
}

func TestListRatesFilters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.seedRate(t, domain.CreateCatalogRateRequest{
		ServiceType: domain.ServiceHotel, City: "Jaipur", SupplierName: "Amber Palace",
		RateName: "Standard", ValidFrom: "2026-01-01", ValidTo: "2026-12-31",
		FromPax: 1, ToPax: 10, CostBasis: domain.CostBasisPerPerson,
		Currency: "INR", UnitCost: decimalFromString(t, "3500"),
	})
	env.seedRate(t, domain.CreateCatalogRateRequest{
		ServiceType: domain.ServiceTransfer, City: "Jaipur", SupplierName: "Desert Wheels",
		RateName: "Sedan", ValidFrom: "2026-01-01", ValidTo: "2026-12-31",
		FromPax: 1, ToPax: 4, CostBasis: domain.CostBasisGroup,
		Currency: "INR", UnitCost: decimalFromString(t, "1200"),
	})

	hotel := domain.ServiceHotel
	result, err := env.catalog.ListRates(ctx, 1, 20, &hotel, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Total)
	require.Len(t, result.Items, 1)
	assert.Equal(t, domain.ServiceHotel, result.Items[0].ServiceType)
}
