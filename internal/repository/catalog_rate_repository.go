package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atlasvoyages/quotation-api/internal/domain"
)

type CatalogRateRepository struct {
	db *gorm.DB
}

func NewCatalogRateRepository(db *gorm.DB) *CatalogRateRepository {
	return &CatalogRateRepository{db: db}
}

func (r *CatalogRateRepository) Create(ctx context.Context, rate *domain.CatalogRate) error {
	return r.db.WithContext(ctx).Create(rate).Error
}

func (r *CatalogRateRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.CatalogRate, error) {
	var rate domain.CatalogRate
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&rate).Error
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

// FindActive fetches active rates for a service type and city. City matching
// is case-insensitive; date and pax eligibility is applied by the selector.
func (r *CatalogRateRepository) FindActive(ctx context.Context, serviceType domain.ServiceType, city string) ([]domain.CatalogRate, error) {
	var rates []domain.CatalogRate
	err := r.db.WithContext(ctx).
		Where("service_type = ? AND LOWER(city) = LOWER(?) AND is_active = ?", serviceType, city, true).
		Find(&rates).Error
	return rates, err
}

func (r *CatalogRateRepository) List(ctx context.Context, page, pageSize int, serviceType *domain.ServiceType, city string) ([]domain.CatalogRate, int64, error) {
	var rates []domain.CatalogRate
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.CatalogRate{})

	if serviceType != nil {
		query = query.Where("service_type = ?", *serviceType)
	}
	if city != "" {
		query = query.Where("LOWER(city) = LOWER(?)", city)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).
		Order("supplier_name ASC, unit_cost ASC").
		Find(&rates).Error

	return rates, total, err
}
