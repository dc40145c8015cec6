package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/atlasvoyages/quotation-api/internal/costing"
	"github.com/atlasvoyages/quotation-api/internal/domain"
	"github.com/atlasvoyages/quotation-api/internal/mapper"
	"github.com/atlasvoyages/quotation-api/internal/repository"
)

// QuotationService manages quotation versions: reading, configuration edits
// and the lifecycle transitions (see quotation_lifecycle_service.go).
type QuotationService struct {
	quotationRepo *repository.QuotationRepository
	inquiryRepo   *repository.InquiryRepository
	itineraryRepo *repository.ItineraryRepository
	logger        *zap.Logger

	defaultCurrency string
	validityDays    int
}

func NewQuotationService(
	quotationRepo *repository.QuotationRepository,
	inquiryRepo *repository.InquiryRepository,
	itineraryRepo *repository.ItineraryRepository,
	logger *zap.Logger,
	defaultCurrency string,
	validityDays int,
) *QuotationService {
	return &QuotationService{
		quotationRepo:   quotationRepo,
		inquiryRepo:     inquiryRepo,
		itineraryRepo:   itineraryRepo,
		logger:          logger,
		defaultCurrency: defaultCurrency,
		validityDays:    validityDays,
	}
}

// getQuotation loads a quotation mapping the not-found case to a service error
func (s *QuotationService) getQuotation(ctx context.Context, id uuid.UUID) (*domain.Quotation, error) {
	quotation, err := s.quotationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuotationNotFound
		}
		return nil, fmt.Errorf("failed to get quotation: %w", err)
	}
	return quotation, nil
}

// breakdownFor resolves the breakdown to present for a quotation: drafts are
// recomputed on demand, anything past draft returns the frozen snapshot.
func (s *QuotationService) breakdownFor(q *domain.Quotation) *domain.CostBreakdown {
	if q.Status != domain.QuotationStatusDraft {
		return q.SentBreakdown
	}
	breakdown, err := costing.Compute(q.LineItems(), q.Config)
	if err != nil {
		s.logger.Warn("draft breakdown not computable",
			zap.String("quotationID", q.ID.String()),
			zap.Error(err))
		return nil
	}
	return breakdown
}

// GetByID returns a quotation with its days, items and breakdown
func (s *QuotationService) GetByID(ctx context.Context, id uuid.UUID) (*domain.QuotationDTO, error) {
	quotation, err := s.getQuotation(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := mapper.ToQuotationDTO(quotation, s.breakdownFor(quotation))
	return &dto, nil
}

// ListByInquiry returns summaries of every version of an inquiry
func (s *QuotationService) ListByInquiry(ctx context.Context, inquiryID uuid.UUID) ([]domain.QuotationSummaryDTO, error) {
	if _, err := s.inquiryRepo.GetByID(ctx, inquiryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInquiryNotFound
		}
		return nil, fmt.Errorf("failed to get inquiry: %w", err)
	}

	quotations, err := s.quotationRepo.ListByInquiry(ctx, inquiryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotations: %w", err)
	}

	dtos := make([]domain.QuotationSummaryDTO, len(quotations))
	for i := range quotations {
		dtos[i] = mapper.ToQuotationSummaryDTO(&quotations[i])
	}
	return dtos, nil
}

// UpdateConfiguration replaces a draft's costing configuration. The save is
// guarded by the revision the client last saw; a stale save is rejected
// rather than silently overwriting a colleague's edit.
func (s *QuotationService) UpdateConfiguration(ctx context.Context, id uuid.UUID, req *domain.UpdateConfigurationRequest) (*domain.QuotationDTO, error) {
	quotation, err := s.getQuotation(ctx, id)
	if err != nil {
		return nil, err
	}
	if quotation.Status != domain.QuotationStatusDraft {
		return nil, ErrQuotationNotDraft
	}

	if err := costing.ValidateConfig(req.Config); err != nil {
		return nil, err
	}

	updated, err := s.quotationRepo.UpdateFieldsRevisioned(ctx, id, req.Revision, map[string]interface{}{
		"costing_config": req.Config,
		"currency":       req.Config.Currency,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update configuration: %w", err)
	}
	if !updated {
		return nil, ErrStaleRevision
	}

	s.logger.Info("quotation configuration updated",
		zap.String("quotationID", id.String()),
		zap.Int("revision", req.Revision+1))

	quotation, err = s.getQuotation(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := mapper.ToQuotationDTO(quotation, s.breakdownFor(quotation))
	return &dto, nil
}

// GetBreakdown returns the cost breakdown for a quotation. Drafts are
// computed fresh against the live configuration; non-drafts return the
// snapshot frozen at send time.
func (s *QuotationService) GetBreakdown(ctx context.Context, id uuid.UUID) (*domain.CostBreakdown, error) {
	quotation, err := s.getQuotation(ctx, id)
	if err != nil {
		return nil, err
	}

	if quotation.Status != domain.QuotationStatusDraft {
		if quotation.SentBreakdown == nil {
			return nil, fmt.Errorf("quotation %s has no frozen breakdown", quotation.Code)
		}
		return quotation.SentBreakdown, nil
	}

	breakdown, err := costing.Compute(quotation.LineItems(), quotation.Config)
	if err != nil {
		return nil, err
	}
	return breakdown, nil
}
