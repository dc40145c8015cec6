package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atlasvoyages/quotation-api/internal/domain"
)

type QuotationRepository struct {
	db *gorm.DB
}

func NewQuotationRepository(db *gorm.DB) *QuotationRepository {
	return &QuotationRepository{db: db}
}

// Create persists a quotation together with its days and line items
func (r *QuotationRepository) Create(ctx context.Context, quotation *domain.Quotation) error {
	return r.db.WithContext(ctx).Create(quotation).Error
}

// GetByID loads a quotation with its inquiry, days in day order, and items
func (r *QuotationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Quotation, error) {
	var quotation domain.Quotation
	err := r.db.WithContext(ctx).
		Preload("Inquiry").
		Preload("Days", func(db *gorm.DB) *gorm.DB {
			return db.Order("itinerary_days.day_number ASC")
		}).
		Preload("Days.Items").
		Where("id = ?", id).
		First(&quotation).Error
	if err != nil {
		return nil, err
	}
	return &quotation, nil
}

// ListByInquiry returns all versions of an inquiry, oldest letter first
func (r *QuotationRepository) ListByInquiry(ctx context.Context, inquiryID uuid.UUID) ([]domain.Quotation, error) {
	var quotations []domain.Quotation
	err := r.db.WithContext(ctx).
		Where("inquiry_id = ?", inquiryID).
		Order("version_letter ASC").
		Find(&quotations).Error
	return quotations, err
}

// LastVersionLetter returns the highest version letter allocated for an
// inquiry, or "" when no version exists yet.
func (r *QuotationRepository) LastVersionLetter(ctx context.Context, inquiryID uuid.UUID) (string, error) {
	var letter string
	err := r.db.WithContext(ctx).
		Model(&domain.Quotation{}).
		Where("inquiry_id = ?", inquiryID).
		Select("COALESCE(MAX(version_letter), '')").
		Scan(&letter).Error
	return letter, err
}

// CountNonDraft counts versions of an inquiry that have left draft.
// A non-zero count locks the inquiry's travel details against edits.
func (r *QuotationRepository) CountNonDraft(ctx context.Context, inquiryID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Quotation{}).
		Where("inquiry_id = ? AND status <> ?", inquiryID, domain.QuotationStatusDraft).
		Count(&count).Error
	return count, err
}

// UpdateFieldsRevisioned applies a field update guarded by the optimistic
// revision counter. The revision is bumped as part of the same statement.
// Returns false when the row was not at the expected revision.
func (r *QuotationRepository) UpdateFieldsRevisioned(ctx context.Context, id uuid.UUID, expectedRevision int, fields map[string]interface{}) (bool, error) {
	fields["revision"] = expectedRevision + 1
	result := r.db.WithContext(ctx).
		Model(&domain.Quotation{}).
		Where("id = ? AND revision = ?", id, expectedRevision).
		Updates(fields)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListDueForExpiry returns sent quotations whose validity window has passed
func (r *QuotationRepository) ListDueForExpiry(ctx context.Context, now time.Time) ([]domain.Quotation, error) {
	var quotations []domain.Quotation
	err := r.db.WithContext(ctx).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at < ?", domain.QuotationStatusSent, now).
		Find(&quotations).Error
	return quotations, err
}
