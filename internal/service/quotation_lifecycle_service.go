package service

// Lifecycle methods for QuotationService: version creation, cloning, and the
// draft -> sent -> accepted/rejected/expired transitions.

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/atlasvoyages/quotation-api/internal/costing"
	"github.com/atlasvoyages/quotation-api/internal/domain"
)

// generateDays pre-builds one itinerary day per date in the travel window
func generateDays(start, end time.Time) []domain.ItineraryDay {
	count := int(end.Sub(start).Hours()/24) + 1
	days := make([]domain.ItineraryDay, 0, count)
	for i := 0; i < count; i++ {
		days = append(days, domain.ItineraryDay{
			DayNumber: i + 1,
			Date:      start.AddDate(0, 0, i),
		})
	}
	return days
}

// CreateVersion cuts a new quotation version from an inquiry. The first
// version gets letter A; later ones take the next free letter. Client and
// travel details are snapshotted so later inquiry edits cannot shift an
// already-priced version.
func (s *QuotationService) CreateVersion(ctx context.Context, inquiryID uuid.UUID) (*domain.QuotationDTO, error) {
	inquiry, err := s.inquiryRepo.GetByID(ctx, inquiryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInquiryNotFound
		}
		return nil, fmt.Errorf("failed to get inquiry: %w", err)
	}

	last, err := s.quotationRepo.LastVersionLetter(ctx, inquiryID)
	if err != nil {
		return nil, fmt.Errorf("failed to determine version letter: %w", err)
	}
	letter, ok := domain.NextVersionLetter(last)
	if !ok {
		return nil, ErrVersionExhausted
	}

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
		PaxChildren:   inquiry.PaxChildren,
		Currency:      s.defaultCurrency,
		Config:        domain.DefaultCostingConfiguration(s.defaultCurrency),
		Days:          generateDays(inquiry.TravelStart, inquiry.TravelEnd),
	}

	if err := s.quotationRepo.Create(ctx, quotation); err != nil {
		return nil, fmt.Errorf("failed to create quotation version: %w", err)
	}

	s.logger.Info("quotation version created",
		zap.String("quotationID", quotation.ID.String()),
		zap.String("code", quotation.Code),
		zap.String("inquiryID", inquiry.ID.String()))

	return s.GetByID(ctx, quotation.ID)
}

// CloneAsNewVersion deep-copies a quotation into a fresh draft under the next
// free letter. The source is never touched; its snapshot, status and items
// stay exactly as they were.
func (s *QuotationService) CloneAsNewVersion(ctx context.Context, id uuid.UUID) (*domain.QuotationDTO, error) {
	source, err := s.getQuotation(ctx, id)
	if err != nil {
		return nil, err
	}

	last, err := s.quotationRepo.LastVersionLetter(ctx, source.InquiryID)
	if err != nil {
		return nil, fmt.Errorf("failed to determine version letter: %w", err)
	}
	letter, ok := domain.NextVersionLetter(last)
	if !ok {
		return nil, ErrVersionExhausted
	}

	inquiryCode := source.Code
	if source.Inquiry != nil {
		inquiryCode = source.Inquiry.Code
	}

	clone := &domain.Quotation{
		InquiryID:     source.InquiryID,
		Code:          domain.QuotationCode(inquiryCode, letter),
		VersionLetter: letter,
		Status:        domain.QuotationStatusDraft,
		Revision:      1,
		ClientName:    source.ClientName,
		Destination:   source.Destination,
		TravelStart:   source.TravelStart,
		TravelEnd:     source.TravelEnd,
		PaxAdults:     source.PaxAdults,
		PaxChildren:   source.PaxChildren,
		Currency:      source.Currency,
		Config:        source.Config,
	}

	days := make([]domain.ItineraryDay, len(source.Days))
	for i, day := range source.Days {
		items := make([]domain.LineItem, len(day.Items))
		for j, item := range day.Items {
			items[j] = domain.LineItem{
				ServiceType:    item.ServiceType,
				Description:    item.Description,
				CatalogRateID:  item.CatalogRateID,
				UnitCost:       item.UnitCost,
				Currency:       item.Currency,
				CostBasis:      item.CostBasis,
				Quantity:       item.Quantity,
				PaxCount:       item.PaxCount,
				ManualOverride: item.ManualOverride,
				Details:        item.Details,
			}
		}
		days[i] = domain.ItineraryDay{
			DayNumber: day.DayNumber,
			Date:      day.Date,
			City:      day.City,
			Note:      day.Note,
			Items:     items,
		}
	}
	clone.Days = days

	if err := s.quotationRepo.Create(ctx, clone); err != nil {
		return nil, fmt.Errorf("failed to create cloned version: %w", err)
	}

	s.logger.Info("quotation cloned as new version",
		zap.String("sourceID", source.ID.String()),
		zap.String("sourceCode", source.Code),
		zap.String("cloneID", clone.ID.String()),
		zap.String("cloneCode", clone.Code))

	return s.GetByID(ctx, clone.ID)
}

// Send transitions a draft to sent. The configuration is validated, the
// breakdown is computed one final time and frozen as the sent snapshot, and
// the validity window starts counting.
func (s *QuotationService) Send(ctx context.Context, id uuid.UUID) (*domain.QuotationDTO, error) {
	quotation, err := s.getQuotation(ctx, id)
	if err != nil {
		return nil, err
	}
	if quotation.Status != domain.QuotationStatusDraft {
		return nil, ErrInvalidTransition
	}

	breakdown, err := costing.Compute(quotation.LineItems(), quotation.Config)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	expiresAt := now.AddDate(0, 0, s.validityDays)

	updated, err := s.quotationRepo.UpdateFieldsRevisioned(ctx, id, quotation.Revision, map[string]interface{}{
		"status":         domain.QuotationStatusSent,
		"sent_breakdown": breakdown,
		"sent_at":        now,
		"expires_at":     expiresAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to send quotation: %w", err)
	}
	if !updated {
		return nil, ErrStaleRevision
	}

	s.logger.Info("quotation sent",
		zap.String("quotationID", id.String()),
		zap.String("code", quotation.Code),
		zap.String("finalAmount", breakdown.FinalAmount.String()),
		zap.Time("expiresAt", expiresAt))

	return s.GetByID(ctx, id)
}

// Accept marks a sent quotation as accepted by the client
func (s *QuotationService) Accept(ctx context.Context, id uuid.UUID) (*domain.QuotationDTO, error) {
	return s.closeFromSent(ctx, id, domain.QuotationStatusAccepted, "")
}

// Reject marks a sent quotation as rejected by the client
func (s *QuotationService) Reject(ctx context.Context, id uuid.UUID, req *domain.RejectQuotationRequest) (*domain.QuotationDTO, error) {
	reason := ""
	if req != nil {
		reason = req.Reason
	}
	return s.closeFromSent(ctx, id, domain.QuotationStatusRejected, reason)
}

// Expire marks a sent quotation as expired
func (s *QuotationService) Expire(ctx context.Context, id uuid.UUID) (*domain.QuotationDTO, error) {
	return s.closeFromSent(ctx, id, domain.QuotationStatusExpired, "")
}

// closeFromSent applies a sent -> terminal transition. The frozen snapshot
// is kept as-is; only the status moves.
func (s *QuotationService) closeFromSent(ctx context.Context, id uuid.UUID, target domain.QuotationStatus, reason string) (*domain.QuotationDTO, error) {
	quotation, err := s.getQuotation(ctx, id)
	if err != nil {
		return nil, err
	}
	if quotation.Status != domain.QuotationStatusSent {
		return nil, ErrInvalidTransition
	}

	updated, err := s.quotationRepo.UpdateFieldsRevisioned(ctx, id, quotation.Revision, map[string]interface{}{
		"status": target,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update quotation status: %w", err)
	}
	if !updated {
		return nil, ErrStaleRevision
	}

	fields := []zap.Field{
		zap.String("quotationID", id.String()),
		zap.String("code", quotation.Code),
		zap.String("from", string(domain.QuotationStatusSent)),
		zap.String("to", string(target)),
	}
	if reason != "" {
		fields = append(fields, zap.String("reason", reason))
	}
	s.logger.Info("quotation status changed", fields...)

	return s.GetByID(ctx, id)
}

// ExpireDue transitions every sent quotation past its validity window to
// expired. Called by the background sweep; returns how many were expired.
func (s *QuotationService) ExpireDue(ctx context.Context, now time.Time) (int, error) {
	due, err := s.quotationRepo.ListDueForExpiry(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to list quotations due for expiry: %w", err)
	}

	expired := 0
	for _, quotation := range due {
		if _, err := s.Expire(ctx, quotation.ID); err != nil {
			s.logger.Warn("failed to expire quotation",
				zap.String("quotationID", quotation.ID.String()),
				zap.Error(err))
			continue
		}
		expired++
	}
	return expired, nil
}
