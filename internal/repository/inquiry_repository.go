package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atlasvoyages/quotation-api/internal/domain"
)

type InquiryRepository struct {
	db *gorm.DB
}

func NewInquiryRepository(db *gorm.DB) *InquiryRepository {
	return &InquiryRepository{db: db}
}

func (r *InquiryRepository) Create(ctx context.Context, inquiry *domain.Inquiry) error {
	return r.db.WithContext(ctx).Create(inquiry).Error
}

func (r *InquiryRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Inquiry, error) {
	var inquiry domain.Inquiry
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&inquiry).Error
	if err != nil {
		return nil, err
	}
	return &inquiry, nil
}

func (r *InquiryRepository) Update(ctx context.Context, inquiry *domain.Inquiry) error {
	return r.db.WithContext(ctx).Save(inquiry).Error
}

func (r *InquiryRepository) List(ctx context.Context, page, pageSize int, destination string) ([]domain.Inquiry, int64, error) {
	var inquiries []domain.Inquiry
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Inquiry{})

	if destination != "" {
		pattern := "%" + strings.ToLower(destination) + "%"
		query = query.Where("LOWER(destination) LIKE ?", pattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&inquiries).Error

	return inquiries, total, err
}
