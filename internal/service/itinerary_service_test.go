package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlasvoyages/quotation-api/internal/domain"
	"github.com/atlasvoyages/quotation-api/internal/service"
)

func TestAddDayAppendsToItinerary(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	draft := env.createDraft(t, "2026-10-01", "2026-10-03")

	day, err := env.itinerary.AddDay(ctx, draft.ID, &domain.AddDayRequest{
		Date: "2026-10-04",
		City: "Jaipur",
	})
	require.NoError(t, err)
	assert.Equal(t, 4, day.DayNumber)
	assert.Equal(t, "Jaipur", day.City)

	reloaded := env.reload(t, draft.ID)
	assert.Len(t, reloaded.Days, 4)
	// Structural edits advance the optimistic counter
	assert.Equal(t, draft.Revision+1, reloaded.Revision)
}

func TestUpdateDayEditsCityAndNote(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	draft := env.createDraft(t, "2026-10-01", "2026-10-03")

	city := "Udaipur"
	note := "Lake Pichola boat ride"
	day, err := env.itinerary.UpdateDay(ctx, draft.ID, 2, &domain.UpdateDayRequest{
		City: &city,
		Note: &note,
	})
	require.NoError(t, err)
	assert.Equal(t, "Udaipur", day.City)
	assert.Equal(t, "Lake Pichola boat ride", day.Note)

	_, err = env.itinerary.UpdateDay(ctx, draft.ID, 99, &domain.UpdateDayRequest{City: &city})
	assert.ErrorIs(t, err, service.ErrDayNotFound)
}

func TestRemoveDayRenumbersLaterDays(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	draft := env.createDraft(t, "2026-10-01", "2026-10-04")

	// Mark day 3 so we can track it after renumbering
	city := "Jodhpur"
	_, err := env.itinerary.UpdateDay(ctx, draft.ID, 3, &domain.UpdateDayRequest{City: &city})
	require.NoError(t, err)

	require.NoError(t, env.itinerary.RemoveDay(ctx, draft.ID, 2))

	reloaded := env.reload(t, draft.ID)
	require.Len(t, reloaded.Days, 3)
	for i, day := range reloaded.Days {
		assert.Equal(t, i+1, day.DayNumber)
	}
	// The former day 3 closed the gap and became day 2
	assert.Equal(t, "Jodhpur", reloaded.Days[1].City)
}

func TestRemoveDayDeletesItsItems(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	draft := env.createDraft(t, "2026-10-01", "2026-10-03")
	env.addManualItem(t, draft, domain.ServiceHotel, "100", domain.CostBasisPerPerson)

	require.NoError(t, env.itinerary.RemoveDay(ctx, draft.ID, 1))

	reloaded := env.reload(t, draft.ID)
	require.Len(t, reloaded.Days, 2)
	for _, day := range reloaded.Days {
		assert.Empty(t, day.Items)
	}
}

func TestRegenerateDaysExtendsAndRedates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	draft := env.createDraft(t, "2026-10-01", "2026-10-03")

	city := "Jaisalmer"
	_, err := env.itinerary.UpdateDay(ctx, draft.ID, 2, &domain.UpdateDayRequest{City: &city})
	require.NoError(t, err)

	require.NoError(t, env.itinerary.RegenerateDays(ctx, draft.ID, &domain.RegenerateDaysRequest{
		TravelStart: "2026-11-10",
		TravelEnd:   "2026-11-14",
	}))

	reloaded := env.reload(t, draft.ID)
	require.Len(t, reloaded.Days, 5)
	assert.Equal(t, "2026-11-10", reloaded.Days[0].Date)
	assert.Equal(t, "2026-11-14", reloaded.Days[4].Date)
	// Retained days keep their content under the new dates
	assert.Equal(t, "Jaisalmer", reloaded.Days[1].City)
	assert.Equal(t, "2026-11-11", reloaded.Days[1].Date)
	// The quotation's snapshotted window moves with the itinerary
	assert.Equal(t, "2026-11-10", reloaded.TravelStart)
	assert.Equal(t, "2026-11-14", reloaded.TravelEnd)
}

func TestRegenerateDaysTrimsExcessWithItems(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	draft := env.createDraft(t, "2026-10-01", "2026-10-04")

	unitCost := decimalFromString(t, "75")
	_, err := env.itinerary.AttachLineItem(ctx, draft.ID, 4, &domain.AddLineItemRequest{
		ServiceType: domain.ServiceActivity,
		UnitCost:    &unitCost,
		CostBasis:   domain.CostBasisGroup,
	})
	require.NoError(t, err)

	require.NoError(t, env.itinerary.RegenerateDays(ctx, draft.ID, &domain.RegenerateDaysRequest{
		TravelStart: "2026-10-01",
		TravelEnd:   "2026-10-02",
	}))

	reloaded := env.reload(t, draft.ID)
	require.Len(t, reloaded.Days, 2)
	breakdown, err := env.quotations.GetBreakdown(ctx, draft.ID)
	require.NoError(t, err)
	assert.True(t, breakdown.RawTotal.IsZero())
}

func TestRegenerateDaysRejectsInvertedWindow(t *testing.T) {
	env := newTestEnv(t)
	draft := env.createDraft(t, "2026-10-01", "2026-10-03")

	err := env.itinerary.RegenerateDays(context.Background(), draft.ID, &domain.RegenerateDaysRequest{
		TravelStart: "2026-10-05",
		TravelEnd:   "2026-10-01",
	})
	assert.ErrorIs(t, err, service.ErrInvalidTravelWindow)
}

func TestAttachLineItemManual(t *testing.T) {
	env := newTestEnv(t)
	draft := env.createDraft(t, "2026-10-01", "2026-10-03")

	item := env.addManualItem(t, draft, domain.ServiceHotel, "120.50", domain.CostBasisPerPerson)

	assert.True(t, item.UnitCost.Equal(decimalFromString(t, "120.50")))
	assert.Equal(t, domain.CostBasisPerPerson, item.CostBasis)
	// Pax snapshot from the quotation: 2 adults + 1 child
	assert.Equal(t, 3, item.PaxCount)
	assert.False(t, item.ManualOverride)
	// Currency falls back to the quotation's
	assert.Equal(t, "INR", item.Currency)
	assert.True(t, item.TotalCost.Equal(decimalFromString(t, "361.50")))
}

func TestAttachLineItemManualRequiresCostAndBasis(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	draft := env.createDraft(t, "2026-10-01", "2026-10-03")

	_, err := env.itinerary.AttachLineItem(ctx, draft.ID, 1, &domain.AddLineItemRequest{
		ServiceType: domain.ServiceGuide,
	})
	assert.ErrorIs(t, err, service.ErrInvalidLineItem)

	unitCost := decimalFromString(t, "50")
	_, err = env.itinerary.AttachLineItem(ctx, draft.ID, 1, &domain.AddLineItemRequest{
		ServiceType: domain.ServiceGuide,
		UnitCost:    &unitCost,
	})
	assert.ErrorIs(t, err, service.ErrInvalidLineItem)
}

func TestAttachLineItemRejectsNegativeCost(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	draft := env.createDraft(t, "2026-10-01", "2026-10-03")

	negative := decimalFromString(t, "-100")
	_, err := env.itinerary.AttachLineItem(ctx, draft.ID, 1, &domain.AddLineItemRequest{
		ServiceType: domain.ServiceHotel,
		UnitCost:    &negative,
		CostBasis:   domain.CostBasisPerPerson,
	})
	assert.ErrorIs(t, err, service.ErrInvalidLineItem)

	// A negative override on a catalog-linked item is rejected the same way
	rate, err := env.catalog.AddRate(ctx, &domain.CreateCatalogRateRequest{
		ServiceType:  domain.ServiceHotel,
		City:         "Jaipur",
		SupplierName: "Amber Palace",
		RateName:     "Standard",
		ValidFrom:    "2026-01-01",
		ValidTo:      "2026-12-31",
		FromPax:      1,
		ToPax:        10,
		CostBasis:    domain.CostBasisPerPerson,
		Currency:     "INR",
		UnitCost:     decimalFromString(t, "3500"),
	})
	require.NoError(t, err)

	_, err = env.itinerary.AttachLineItem(ctx, draft.ID, 1, &domain.AddLineItemRequest{
		ServiceType:   domain.ServiceHotel,
		CatalogRateID: &rate.ID,
		UnitCost:      &negative,
	})
	assert.ErrorIs(t, err, service.ErrInvalidLineItem)

	// Nothing was attached, so the draft still prices to zero
	breakdown, err := env.quotations.GetBreakdown(ctx, draft.ID)
	require.NoError(t, err)
	assert.True(t, breakdown.RawTotal.IsZero())
	assert.False(t, breakdown.DiscountClamped)
}

func TestAttachLineItemFromCatalog(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	draft := env.createDraft(t, "2026-10-01", "2026-10-03")

	rate, err := env.catalog.AddRate(ctx, &domain.CreateCatalogRateRequest{
		ServiceType:  domain.ServiceTransfer,
		City:         "Jaipur",
		SupplierName: "Desert Wheels",
		RateName:     "Airport pickup",
		ValidFrom:    "2026-01-01",
		ValidTo:      "2026-12-31",
		FromPax:      1,
		ToPax:        6,
		CostBasis:    domain.CostBasisGroup,
		Currency:     "INR",
		UnitCost:     decimalFromString(t, "1500"),
	})
	require.NoError(t, err)

	item, err := env.itinerary.AttachLineItem(ctx, draft.ID, 1, &domain.AddLineItemRequest{
		ServiceType:   domain.ServiceTransfer,
		CatalogRateID: &rate.ID,
	})
	require.NoError(t, err)

	// Cost, currency and basis resolve from the linked rate
	assert.True(t, item.UnitCost.Equal(decimalFromString(t, "1500")))
	assert.Equal(t, domain.CostBasisGroup, item.CostBasis)
	assert.Equal(t, "INR", item.Currency)
	assert.False(t, item.ManualOverride)
	require.NotNil(t, item.CatalogRateID)
	assert.Equal(t, rate.ID, *item.CatalogRateID)
}

func TestAttachLineItemCatalogOverrideFlagged(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	draft := env.createDraft(t, "2026-10-01", "2026-10-03")

	rate, err := env.catalog.AddRate(ctx, &domain.CreateCatalogRateRequest{
		ServiceType:  domain.ServiceGuide,
		City:         "Jaipur",
		SupplierName: "Heritage Walks",
		RateName:     "Full day guide",
		ValidFrom:    "2026-01-01",
		ValidTo:      "2026-12-31",
		FromPax:      1,
		CostBasis:    domain.CostBasisGroup,
		Currency:     "INR",
		UnitCost:     decimalFromString(t, "2000"),
	})
	require.NoError(t, err)

	negotiated := decimalFromString(t, "1800")
	item, err := env.itinerary.AttachLineItem(ctx, draft.ID, 1, &domain.AddLineItemRequest{
		ServiceType:   domain.ServiceGuide,
		CatalogRateID: &rate.ID,
		UnitCost:      &negotiated,
	})
	require.NoError(t, err)

	assert.True(t, item.UnitCost.Equal(negotiated))
	assert.True(t, item.ManualOverride)
}

func TestRemoveLineItem(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	draft := env.createDraft(t, "2026-10-01", "2026-10-03")
	item := env.addManualItem(t, draft, domain.ServiceEntrance, "25", domain.CostBasisPerPerson)

	require.NoError(t, env.itinerary.RemoveLineItem(ctx, draft.ID, item.ID))

	reloaded := env.reload(t, draft.ID)
	assert.Empty(t, reloaded.Days[0].Items)

	err := env.itinerary.RemoveLineItem(ctx, draft.ID, item.ID)
	assert.ErrorIs(t, err, service.ErrLineItemNotFound)
}

func TestItineraryMutationsRejectedPastDraft(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	draft := env.createDraft(t, "2026-10-01", "2026-10-03")

	_, err := env.quotations.Send(ctx, draft.ID)
	require.NoError(t, err)

	_, err = env.itinerary.AddDay(ctx, draft.ID, &domain.AddDayRequest{Date: "2026-10-04"})
	assert.ErrorIs(t, err, service.ErrQuotationNotDraft)

	err = env.itinerary.RemoveDay(ctx, draft.ID, 1)
	assert.ErrorIs(t, err, service.ErrQuotationNotDraft)

	unitCost := decimalFromString(t, "10")
	_, err = env.itinerary.AttachLineItem(ctx, draft.ID, 1, &domain.AddLineItemRequest{
		ServiceType: domain.ServiceOther,
		UnitCost:    &unitCost,
		CostBasis:   domain.CostBasisGroup,
	})
	assert.ErrorIs(t, err, service.ErrQuotationNotDraft)
}
