package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atlasvoyages/quotation-api/internal/domain"
)

// ItineraryRepository handles day and line item persistence for quotations
type ItineraryRepository struct {
	db *gorm.DB
}

func NewItineraryRepository(db *gorm.DB) *ItineraryRepository {
	return &ItineraryRepository{db: db}
}

func (r *ItineraryRepository) ListDays(ctx context.Context, quotationID uuid.UUID) ([]domain.ItineraryDay, error) {
	var days []domain.ItineraryDay
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("quotation_id = ?", quotationID).
		Order("day_number ASC").
		Find(&days).Error
	return days, err
}

func (r *ItineraryRepository) GetDayByNumber(ctx context.Context, quotationID uuid.UUID, dayNumber int) (*domain.ItineraryDay, error) {
	var day domain.ItineraryDay
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("quotation_id = ? AND day_number = ?", quotationID, dayNumber).
		First(&day).Error
	if err != nil {
		return nil, err
	}
	return &day, nil
}

func (r *ItineraryRepository) CreateDay(ctx context.Context, day *domain.ItineraryDay) error {
	return r.db.WithContext(ctx).Create(day).Error
}

func (r *ItineraryRepository) UpdateDay(ctx context.Context, day *domain.ItineraryDay) error {
	return r.db.WithContext(ctx).Save(day).Error
}

// DeleteDayAndRenumber removes a day with its items and closes the gap by
// shifting every later day down one number, in a single transaction.
func (r *ItineraryRepository) DeleteDayAndRenumber(ctx context.Context, quotationID uuid.UUID, dayNumber int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var day domain.ItineraryDay
		if err := tx.Where("quotation_id = ? AND day_number = ?", quotationID, dayNumber).
			First(&day).Error; err != nil {
			return err
		}

		if err := tx.Where("day_id = ?", day.ID).Delete(&domain.LineItem{}).Error; err != nil {
			return fmt.Errorf("failed to delete day items: %w", err)
		}
		if err := tx.Delete(&day).Error; err != nil {
			return fmt.Errorf("failed to delete day: %w", err)
		}

		err := tx.Model(&domain.ItineraryDay{}).
			Where("quotation_id = ? AND day_number > ?", quotationID, dayNumber).
			UpdateColumn("day_number", gorm.Expr("day_number - 1")).Error
		if err != nil {
			return fmt.Errorf("failed to renumber days: %w", err)
		}
		return nil
	})
}

// DeleteDaysAfter trims days past the given number, items included
func (r *ItineraryRepository) DeleteDaysAfter(ctx context.Context, quotationID uuid.UUID, dayNumber int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var dayIDs []uuid.UUID
		err := tx.Model(&domain.ItineraryDay{}).
			Where("quotation_id = ? AND day_number > ?", quotationID, dayNumber).
			Pluck("id", &dayIDs).Error
		if err != nil {
			return err
		}
		if len(dayIDs) == 0 {
			return nil
		}

		if err := tx.Where("day_id IN ?", dayIDs).Delete(&domain.LineItem{}).Error; err != nil {
			return fmt.Errorf("failed to delete trimmed day items: %w", err)
		}
		if err := tx.Where("id IN ?", dayIDs).Delete(&domain.ItineraryDay{}).Error; err != nil {
			return fmt.Errorf("failed to delete trimmed days: %w", err)
		}
		return nil
	})
}

// DayNumbers returns the day numbers of a quotation in ascending order.
// Used to verify the contiguity invariant after mutations.
func (r *ItineraryRepository) DayNumbers(ctx context.Context, quotationID uuid.UUID) ([]int, error) {
	var numbers []int
	err := r.db.WithContext(ctx).
		Model(&domain.ItineraryDay{}).
		Where("quotation_id = ?", quotationID).
		Order("day_number ASC").
		Pluck("day_number", &numbers).Error
	return numbers, err
}

func (r *ItineraryRepository) CreateItem(ctx context.Context, item *domain.LineItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *ItineraryRepository) GetItem(ctx context.Context, quotationID, itemID uuid.UUID) (*domain.LineItem, error) {
	var item domain.LineItem
	err := r.db.WithContext(ctx).
		Where("id = ? AND quotation_id = ?", itemID, quotationID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *ItineraryRepository) DeleteItem(ctx context.Context, quotationID, itemID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND quotation_id = ?", itemID, quotationID).
		Delete(&domain.LineItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
