package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/atlasvoyages/quotation-api/internal/domain"
	"github.com/atlasvoyages/quotation-api/internal/mapper"
	"github.com/atlasvoyages/quotation-api/internal/repository"
)

// ItineraryService mutates the day/line-item structure of draft quotations.
// Every mutation bumps the quotation's revision under the optimistic guard,
// so concurrent editors get a stale-revision error instead of lost updates.
type ItineraryService struct {
	quotationRepo *repository.QuotationRepository
	itineraryRepo *repository.ItineraryRepository
	rateRepo      *repository.CatalogRateRepository
	logger        *zap.Logger
}

func NewItineraryService(
	quotationRepo *repository.QuotationRepository,
	itineraryRepo *repository.ItineraryRepository,
	rateRepo *repository.CatalogRateRepository,
	logger *zap.Logger,
) *ItineraryService {
	return &ItineraryService{
		quotationRepo: quotationRepo,
		itineraryRepo: itineraryRepo,
		rateRepo:      rateRepo,
		logger:        logger,
	}
}

// draftQuotation loads a quotation and rejects mutations past draft
func (s *ItineraryService) draftQuotation(ctx context.Context, id uuid.UUID) (*domain.Quotation, error) {
	quotation, err := s.quotationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuotationNotFound
		}
		return nil, fmt.Errorf("failed to get quotation: %w", err)
	}
	if quotation.Status != domain.QuotationStatusDraft {
		return nil, ErrQuotationNotDraft
	}
	return quotation, nil
}

// bumpRevision advances the optimistic counter after a structural mutation
func (s *ItineraryService) bumpRevision(ctx context.Context, q *domain.Quotation) error {
	updated, err := s.quotationRepo.UpdateFieldsRevisioned(ctx, q.ID, q.Revision, map[string]interface{}{})
	if err != nil {
		return fmt.Errorf("failed to bump quotation revision: %w", err)
	}
	if !updated {
		return ErrStaleRevision
	}
	return nil
}

// verifyContiguity asserts day numbers run 1..N with no gaps. A violation is
// a data-integrity fault: it is logged loudly and surfaced, never patched.
func (s *ItineraryService) verifyContiguity(ctx context.Context, quotationID uuid.UUID) error {
	numbers, err := s.itineraryRepo.DayNumbers(ctx, quotationID)
	if err != nil {
		return fmt.Errorf("failed to read day numbers: %w", err)
	}
	for i, n := range numbers {
		if n != i+1 {
			s.logger.Error("itinerary day numbering corrupt",
				zap.String("quotationID", quotationID.String()),
				zap.Ints("dayNumbers", numbers))
			return ErrDayNumberingCorrupt
		}
	}
	return nil
}

// AddDay appends a day to the end of a draft's itinerary
func (s *ItineraryService) AddDay(ctx context.Context, quotationID uuid.UUID, req *domain.AddDayRequest) (*domain.ItineraryDayDTO, error) {
	quotation, err := s.draftQuotation(ctx, quotationID)
	if err != nil {
		return nil, err
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid day date: %w", err)
	}

	day := &domain.ItineraryDay{
		QuotationID: quotationID,
		DayNumber:   len(quotation.Days) + 1,
		Date:        date,
		City:        req.City,
		Note:        req.Note,
	}
	if err := s.itineraryRepo.CreateDay(ctx, day); err != nil {
		return nil, fmt.Errorf("failed to add day: %w", err)
	}

	if err := s.verifyContiguity(ctx, quotationID); err != nil {
		return nil, err
	}
	if err := s.bumpRevision(ctx, quotation); err != nil {
		return nil, err
	}

	s.logger.Info("itinerary day added",
		zap.String("quotationID", quotationID.String()),
		zap.Int("dayNumber", day.DayNumber))

	dto := mapper.ToItineraryDayDTO(day)
	return &dto, nil
}

// UpdateDay edits the city/note of a day
func (s *ItineraryService) UpdateDay(ctx context.Context, quotationID uuid.UUID, dayNumber int, req *domain.UpdateDayRequest) (*domain.ItineraryDayDTO, error) {
	quotation, err := s.draftQuotation(ctx, quotationID)
	if err != nil {
		return nil, err
	}

	day, err := s.itineraryRepo.GetDayByNumber(ctx, quotationID, dayNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDayNotFound
		}
		return nil, fmt.Errorf("failed to get day: %w", err)
	}

	if req.City != nil {
		day.City = *req.City
	}
	if req.Note != nil {
		day.Note = *req.Note
	}
	if err := s.itineraryRepo.UpdateDay(ctx, day); err != nil {
		return nil, fmt.Errorf("failed to update day: %w", err)
	}
	if err := s.bumpRevision(ctx, quotation); err != nil {
		return nil, err
	}

	dto := mapper.ToItineraryDayDTO(day)
	return &dto, nil
}

// RemoveDay deletes a day and renumbers the later days down to close the
// gap; their line items move with them untouched.
func (s *ItineraryService) RemoveDay(ctx context.Context, quotationID uuid.UUID, dayNumber int) error {
	quotation, err := s.draftQuotation(ctx, quotationID)
	if err != nil {
		return err
	}

	if err := s.itineraryRepo.DeleteDayAndRenumber(ctx, quotationID, dayNumber); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDayNotFound
		}
		return fmt.Errorf("failed to remove day: %w", err)
	}

	if err := s.verifyContiguity(ctx, quotationID); err != nil {
		return err
	}
	if err := s.bumpRevision(ctx, quotation); err != nil {
		return err
	}

	s.logger.Info("itinerary day removed",
		zap.String("quotationID", quotationID.String()),
		zap.Int("dayNumber", dayNumber))
	return nil
}

// RegenerateDays rewrites the itinerary against a new travel window: retained
// days keep their content and get re-dated from the new start, missing days
// are appended empty, and days past the new length are trimmed with their
// items. The quotation's snapshotted window moves with it.
func (s *ItineraryService) RegenerateDays(ctx context.Context, quotationID uuid.UUID, req *domain.RegenerateDaysRequest) error {
	quotation, err := s.draftQuotation(ctx, quotationID)
	if err != nil {
		return err
	}

	start, err := parseDate(req.TravelStart)
	if err != nil {
		return fmt.Errorf("invalid travel start date: %w", err)
	}
	end, err := parseDate(req.TravelEnd)
	if err != nil {
		return fmt.Errorf("invalid travel end date: %w", err)
	}
	if end.Before(start) {
		return ErrInvalidTravelWindow
	}

	newCount := int(end.Sub(start).Hours()/24) + 1

	if err := s.itineraryRepo.DeleteDaysAfter(ctx, quotationID, newCount); err != nil {
		return fmt.Errorf("failed to trim days: %w", err)
	}

	days, err := s.itineraryRepo.ListDays(ctx, quotationID)
	if err != nil {
		return fmt.Errorf("failed to list days: %w", err)
	}

	// Re-date retained days from the new start
	for i := range days {
		days[i].Date = start.AddDate(0, 0, days[i].DayNumber-1)
		if err := s.itineraryRepo.UpdateDay(ctx, &days[i]); err != nil {
			return fmt.Errorf("failed to re-date day %d: %w", days[i].DayNumber, err)
		}
	}

	// Append the missing tail
	for n := len(days) + 1; n <= newCount; n++ {
		day := &domain.ItineraryDay{
			QuotationID: quotationID,
			DayNumber:   n,
			Date:        start.AddDate(0, 0, n-1),
		}
		if err := s.itineraryRepo.CreateDay(ctx, day); err != nil {
			return fmt.Errorf("failed to append day %d: %w", n, err)
		}
	}

	if err := s.verifyContiguity(ctx, quotationID); err != nil {
		return err
	}

	updated, err := s.quotationRepo.UpdateFieldsRevisioned(ctx, quotationID, quotation.Revision, map[string]interface{}{
		"travel_start": start,
		"travel_end":   end,
	})
	if err != nil {
		return fmt.Errorf("failed to update travel window: %w", err)
	}
	if !updated {
		return ErrStaleRevision
	}

	s.logger.Info("itinerary regenerated",
		zap.String("quotationID", quotationID.String()),
		zap.Int("days", newCount))
	return nil
}

// AttachLineItem adds a service to a day. Catalog-linked items resolve cost,
// currency and basis from the rate; an explicit cost that diverges from the
// linked rate is flagged as a manual override for audit.
func (s *ItineraryService) AttachLineItem(ctx context.Context, quotationID uuid.UUID, dayNumber int, req *domain.AddLineItemRequest) (*domain.LineItemDTO, error) {
	quotation, err := s.draftQuotation(ctx, quotationID)
	if err != nil {
		return nil, err
	}

	if !req.ServiceType.IsValid() {
		return nil, fmt.Errorf("%w: unknown service type %q", ErrInvalidLineItem, req.ServiceType)
	}
	if req.UnitCost != nil && req.UnitCost.IsNegative() {
		return nil, fmt.Errorf("%w: unit cost cannot be negative", ErrInvalidLineItem)
	}

	day, err := s.itineraryRepo.GetDayByNumber(ctx, quotationID, dayNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDayNotFound
		}
		return nil, fmt.Errorf("failed to get day: %w", err)
	}

	item := &domain.LineItem{
		DayID:       day.ID,
		QuotationID: quotationID,
		ServiceType: req.ServiceType,
		Description: req.Description,
		PaxCount:    quotation.PaxCount(),
		Quantity:    decimal.NewFromInt(1),
		Details:     req.Details,
	}
	if req.Quantity != nil && req.Quantity.IsPositive() {
		item.Quantity = *req.Quantity
	}

	if req.CatalogRateID != nil {
		rate, err := s.rateRepo.GetByID(ctx, *req.CatalogRateID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrRateNotFound
			}
			return nil, fmt.Errorf("failed to get catalog rate: %w", err)
		}
		item.CatalogRateID = &rate.ID
		item.UnitCost = rate.UnitCost
		item.Currency = rate.Currency
		item.CostBasis = rate.CostBasis
		if req.UnitCost != nil && !req.UnitCost.Equal(rate.UnitCost) {
			item.UnitCost = *req.UnitCost
			item.ManualOverride = true
		}
	} else {
		if req.UnitCost == nil {
			return nil, fmt.Errorf("%w: unit cost missing", ErrInvalidLineItem)
		}
		if !req.CostBasis.IsValid() {
			return nil, fmt.Errorf("%w: cost basis missing", ErrInvalidLineItem)
		}
		item.UnitCost = *req.UnitCost
		item.CostBasis = req.CostBasis
		item.Currency = req.Currency
		if item.Currency == "" {
			item.Currency = quotation.Currency
		}
	}

	if err := s.itineraryRepo.CreateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to attach line item: %w", err)
	}
	if err := s.bumpRevision(ctx, quotation); err != nil {
		return nil, err
	}

	s.logger.Info("line item attached",
		zap.String("quotationID", quotationID.String()),
		zap.Int("dayNumber", dayNumber),
		zap.String("serviceType", string(item.ServiceType)),
		zap.Bool("manualOverride", item.ManualOverride))

	dto := mapper.ToLineItemDTO(item)
	return &dto, nil
}

// RemoveLineItem detaches a line item from a draft
func (s *ItineraryService) RemoveLineItem(ctx context.Context, quotationID, itemID uuid.UUID) error {
	quotation, err := s.draftQuotation(ctx, quotationID)
	if err != nil {
		return err
	}

	if err := s.itineraryRepo.DeleteItem(ctx, quotationID, itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLineItemNotFound
		}
		return fmt.Errorf("failed to remove line item: %w", err)
	}
	if err := s.bumpRevision(ctx, quotation); err != nil {
		return err
	}

	s.logger.Info("line item removed",
		zap.String("quotationID", quotationID.String()),
		zap.String("itemID", itemID.String()))
	return nil
}
