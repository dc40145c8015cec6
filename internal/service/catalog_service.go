package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/atlasvoyages/quotation-api/internal/domain"
	"github.com/atlasvoyages/quotation-api/internal/mapper"
	"github.com/atlasvoyages/quotation-api/internal/repository"
)

// RateQuery describes what a line item needs from the catalog
type RateQuery struct {
	ServiceType domain.ServiceType
	City        string
	TravelDate  time.Time
	PaxCount    int
	// Hotel refinements; ignored for other service types
	RoomType string
	MealPlan string
}

// CatalogService owns the rate catalog and its eligibility selector
type CatalogService struct {
	rateRepo *repository.CatalogRateRepository
	logger   *zap.Logger
}

func NewCatalogService(rateRepo *repository.CatalogRateRepository, logger *zap.Logger) *CatalogService {
	return &CatalogService{rateRepo: rateRepo, logger: logger}
}

// FindRates returns every catalog rate eligible for the query, ordered by
// supplier name then unit cost. An empty result is a normal outcome and
// routes the caller to manual pricing; the selector never auto-picks the
// cheapest rate on the agent's behalf.
func (s *CatalogService) FindRates(ctx context.Context, query RateQuery) ([]domain.CatalogRateDTO, error) {
	candidates, err := s.rateRepo.FindActive(ctx, query.ServiceType, query.City)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog rates: %w", err)
	}

	eligible := make([]domain.CatalogRate, 0, len(candidates))
	for _, rate := range candidates {
		if !rate.AppliesTo(query.TravelDate, query.PaxCount) {
			continue
		}
		if query.ServiceType == domain.ServiceHotel {
			if query.RoomType != "" && !strings.EqualFold(rate.RoomType, query.RoomType) {
				continue
			}
			if query.MealPlan != "" && !strings.EqualFold(rate.MealPlan, query.MealPlan) {
				continue
			}
		}
		eligible = append(eligible, rate)
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		if eligible[i].SupplierName != eligible[j].SupplierName {
			return eligible[i].SupplierName < eligible[j].SupplierName
		}
		return eligible[i].UnitCost.LessThan(eligible[j].UnitCost)
	})

	dtos := make([]domain.CatalogRateDTO, len(eligible))
	for i := range eligible {
		dtos[i] = mapper.ToCatalogRateDTO(&eligible[i])
	}
	return dtos, nil
}

// AddRate registers a new supplier rate
func (s *CatalogService) AddRate(ctx context.Context, req *domain.CreateCatalogRateRequest) (*domain.CatalogRateDTO, error) {
	if !req.ServiceType.IsValid() {
		return nil, fmt.Errorf("invalid service type: %s", req.ServiceType)
	}
	if req.UnitCost.IsNegative() {
		return nil, fmt.Errorf("unit cost cannot be negative")
	}

	validFrom, err := parseDate(req.ValidFrom)
	if err != nil {
		return nil, fmt.Errorf("invalid validity start date: %w", err)
	}
	validTo, err := parseDate(req.ValidTo)
	if err != nil {
		return nil, fmt.Errorf("invalid validity end date: %w", err)
	}
	if validTo.Before(validFrom) {
		return nil, fmt.Errorf("validity window ends before it starts")
	}

	rate := &domain.CatalogRate{
		ServiceType:  req.ServiceType,
		City:         req.City,
		SupplierName: req.SupplierName,
		RateName:     req.RateName,
		ValidFrom:    validFrom,
		ValidTo:      validTo,
		FromPax:      req.FromPax,
		ToPax:        req.ToPax,
		CostBasis:    req.CostBasis,
		Currency:     req.Currency,
		UnitCost:     req.UnitCost,
		RoomType:     req.RoomType,
		MealPlan:     req.MealPlan,
		IsActive:     true,
	}

	if err := s.rateRepo.Create(ctx, rate); err != nil {
		return nil, fmt.Errorf("failed to create catalog rate: %w", err)
	}

	s.logger.Info("catalog rate added",
		zap.String("rateID", rate.ID.String()),
		zap.String("serviceType", string(rate.ServiceType)),
		zap.String("city", rate.City),
		zap.String("supplier", rate.SupplierName))

	dto := mapper.ToCatalogRateDTO(rate)
	return &dto, nil
}

// ListRates returns a page of catalog rates for administration
func (s *CatalogService) ListRates(ctx context.Context, page, pageSize int, serviceType *domain.ServiceType, city string) (*domain.PaginatedResponse[domain.CatalogRateDTO], error) {
	rates, total, err := s.rateRepo.List(ctx, page, pageSize, serviceType, city)
	if err != nil {
		return nil, fmt.Errorf("failed to list catalog rates: %w", err)
	}

	dtos := make([]domain.CatalogRateDTO, len(rates))
	for i := range rates {
		dtos[i] = mapper.ToCatalogRateDTO(&rates[i])
	}

	return &domain.PaginatedResponse[domain.CatalogRateDTO]{
		Items:    dtos,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}
