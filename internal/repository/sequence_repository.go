package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SequenceRepository allocates monotonic sequence numbers per scope/year.
// Inquiry codes draw from scope "inquiry" so numbers stay unique within a year.
type SequenceRepository struct {
	db *gorm.DB
}

// NewSequenceRepository creates a new SequenceRepository
func NewSequenceRepository(db *gorm.DB) *SequenceRepository {
	return &SequenceRepository{db: db}
}

// NextNumber atomically increments and returns the sequence for a scope/year.
// The upsert-returning form makes allocation a single statement, so two
// concurrent callers can never observe the same number.
func (r *SequenceRepository) NextNumber(ctx context.Context, scope string, year int) (int, error) {
	var next int
	now := time.Now().UTC()

	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO sequence_counters (id, scope, year, last_sequence, created_at, updated_at)
		VALUES (?, ?, ?, 1, ?, ?)
		ON CONFLICT (scope, year) DO UPDATE
		SET last_sequence = sequence_counters.last_sequence + 1, updated_at = ?
		RETURNING last_sequence`,
		uuid.New(), scope, year, now, now, now,
	).Scan(&next).Error
	if err != nil {
		return 0, fmt.Errorf("failed to allocate sequence number: %w", err)
	}

	return next, nil
}

// CurrentNumber returns the last allocated number without incrementing.
// Returns 0 if no sequence exists for the scope/year.
func (r *SequenceRepository) CurrentNumber(ctx context.Context, scope string, year int) (int, error) {
	var last int
	err := r.db.WithContext(ctx).
		Table("sequence_counters").
		Where("scope = ? AND year = ?", scope, year).
		Select("COALESCE(MAX(last_sequence), 0)").
		Scan(&last).Error
	if err != nil {
		return 0, fmt.Errorf("failed to read sequence number: %w", err)
	}
	return last, nil
}
