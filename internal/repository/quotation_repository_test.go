package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/atlasvoyages/quotation-api/internal/domain"
	"github.com/atlasvoyages/quotation-api/internal/repository"
)

func seedInquiry(t *testing.T, db *gorm.DB) *domain.Inquiry {
	t.Helper()
	inquiry := &domain.Inquiry{
		Code:        "INQ-2026-001",
		ClientName:  "Asha Verma",
		Destination: "Rajasthan",
		TravelStart: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		TravelEnd:   time.Date(2026, 10, 3, 0, 0, 0, 0, time.UTC),
		PaxAdults:   2,
	}
	require.NoError(t, repository.NewInquiryRepository(db).Create(context.Background(), inquiry))
	return inquiry
}

func seedQuotation(t *testing.T, db *gorm.DB, inquiry *domain.Inquiry, letter string) *domain.Quotation {
	t.Helper()
	quotation := &domain.Quotation{
		InquiryID:     inquiry.ID,
		Code:          domain.QuotationCode(inquiry.Code, letter),
		VersionLetter: letter,
		Status:        domain.QuotationStatusDraft,
		Revision:      1,
		ClientName:    inquiry.ClientName,
		Destination:   inquiry.Destination,
		TravelStart:   inquiry.TravelStart,
		TravelEnd:     inquiry.TravelEnd,
		PaxAdults:     inquiry.PaxAdults,
		Currency:      "INR",
		Config:        domain.DefaultCostingConfiguration("INR"),
	}
	require.NoError(t, repository.NewQuotationRepository(db).Create(context.Background(), quotation))
	return quotation
}

func TestUpdateFieldsRevisioned(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewQuotationRepository(db)
	ctx := context.Background()
	quotation := seedQuotation(t, db, seedInquiry(t, db), "A")

	updated, err := repo.UpdateFieldsRevisioned(ctx, quotation.ID, 1, map[string]interface{}{
		"status": domain.QuotationStatusSent,
	})
	require.NoError(t, err)
	assert.True(t, updated)

	reloaded, err := repo.GetByID(ctx, quotation.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.QuotationStatusSent, reloaded.Status)
	assert.Equal(t, 2, reloaded.Revision)

	// A save against the old revision is refused without touching the row
	updated, err = repo.UpdateFieldsRevisioned(ctx, quotation.ID, 1, map[string]interface{}{
		"status": domain.QuotationStatusAccepted,
	})
	require.NoError(t, err)
	assert.False(t, updated)

	reloaded, err = repo.GetByID(ctx, quotation.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.QuotationStatusSent, reloaded.Status)
}

func TestLastVersionLetter(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewQuotationRepository(db)
	ctx := context.Background()
	inquiry := seedInquiry(t, db)

	letter, err := repo.LastVersionLetter(ctx, inquiry.ID)
	require.NoError(t, err)
	assert.Equal(t, "", letter)

	seedQuotation(t, db, inquiry, "A")
	seedQuotation(t, db, inquiry, "B")

	letter, err = repo.LastVersionLetter(ctx, inquiry.ID)
	require.NoError(t, err)
	assert.Equal(t, "B", letter)
}

func TestCountNonDraft(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewQuotationRepository(db)
	ctx := context.Background()
	inquiry := seedInquiry(t, db)

	seedQuotation(t, db, inquiry, "A")
	sent := seedQuotation(t, db, inquiry, "B")

	count, err := repo.CountNonDraft(ctx, inquiry.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	_, err = repo.UpdateFieldsRevisioned(ctx, sent.ID, 1, map[string]interface{}{
		"status": domain.QuotationStatusSent,
	})
	require.NoError(t, err)

	count, err = repo.CountNonDraft(ctx, inquiry.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestListDueForExpiry(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewQuotationRepository(db)
	ctx := context.Background()
	inquiry := seedInquiry(t, db)
	now := time.Now().UTC()

	overdue := seedQuotation(t, db, inquiry, "A")
	_, err := repo.UpdateFieldsRevisioned(ctx, overdue.ID, 1, map[string]interface{}{
		"status":     domain.QuotationStatusSent,
		"expires_at": now.Add(-time.Hour),
	})
	require.NoError(t, err)

	fresh := seedQuotation(t, db, inquiry, "B")
	_, err = repo.UpdateFieldsRevisioned(ctx, fresh.ID, 1, map[string]interface{}{
		"status":     domain.QuotationStatusSent,
		"expires_at": now.Add(24 * time.Hour),
	})
	require.NoError(t, err)

	// Draft with a past expiry must not be swept
	draft := seedQuotation(t, db, inquiry, "C")
	_, err = repo.UpdateFieldsRevisioned(ctx, draft.ID, 1, map[string]interface{}{
		"expires_at": now.Add(-time.Hour),
	})
	require.NoError(t, err)

	due, err := repo.ListDueForExpiry(ctx, now)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, overdue.ID, due[0].ID)
}
