package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/atlasvoyages/quotation-api/internal/domain"
	"github.com/atlasvoyages/quotation-api/internal/mapper"
	"github.com/atlasvoyages/quotation-api/internal/repository"
)

const (
	dateLayout           = "2006-01-02"
	inquirySequenceScope = "inquiry"
)

// parseDate parses an ISO date string
func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// InquiryService manages inquiries, the intake records that quotation
// versions are snapshotted from.
type InquiryService struct {
	inquiryRepo   *repository.InquiryRepository
	quotationRepo *repository.QuotationRepository
	sequenceRepo  *repository.SequenceRepository
	logger        *zap.Logger
}

func NewInquiryService(
	inquiryRepo *repository.InquiryRepository,
	quotationRepo *repository.QuotationRepository,
	sequenceRepo *repository.SequenceRepository,
	logger *zap.Logger,
) *InquiryService {
	return &InquiryService{
		inquiryRepo:   inquiryRepo,
		quotationRepo: quotationRepo,
		sequenceRepo:  sequenceRepo,
		logger:        logger,
	}
}

// Create registers a new inquiry and allocates its yearly sequenced code
func (s *InquiryService) Create(ctx context.Context, req *domain.CreateInquiryRequest) (*domain.InquiryDTO, error) {
	start, err := parseDate(req.TravelStart)
	if err != nil {
		return nil, fmt.Errorf("invalid travel start date: %w", err)
	}
	end, err := parseDate(req.TravelEnd)
	if err != nil {
		return nil, fmt.Errorf("invalid travel end date: %w", err)
	}
	if end.Before(start) {
		return nil, ErrInvalidTravelWindow
	}

	year := time.Now().UTC().Year()
	seq, err := s.sequenceRepo.NextNumber(ctx, inquirySequenceScope, year)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate inquiry code: %w", err)
	}

	inquiry := &domain.Inquiry{
		Code:        domain.FormatInquiryCode(year, seq),
		ClientName:  req.ClientName,
		ClientEmail: req.ClientEmail,
		ClientPhone: req.ClientPhone,
		Destination: req.Destination,
		TravelStart: start,
		TravelEnd:   end,
		PaxAdults:   req.PaxAdults,
		PaxChildren: req.PaxChildren,
		Notes:       req.Notes,
	}

	if err := s.inquiryRepo.Create(ctx, inquiry); err != nil {
		return nil, fmt.Errorf("failed to create inquiry: %w", err)
	}

	s.logger.Info("inquiry created",
		zap.String("inquiryID", inquiry.ID.String()),
		zap.String("code", inquiry.Code),
		zap.String("destination", inquiry.Destination))

	dto := mapper.ToInquiryDTO(inquiry)
	return &dto, nil
}

// GetByID returns a single inquiry
func (s *InquiryService) GetByID(ctx context.Context, id uuid.UUID) (*domain.InquiryDTO, error) {
	inquiry, err := s.inquiryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInquiryNotFound
		}
		return nil, fmt.Errorf("failed to get inquiry: %w", err)
	}
	dto := mapper.ToInquiryDTO(inquiry)
	return &dto, nil
}

// List returns a page of inquiries, optionally filtered by destination
func (s *InquiryService) List(ctx context.Context, page, pageSize int, destination string) (*domain.PaginatedResponse[domain.InquiryDTO], error) {
	inquiries, total, err := s.inquiryRepo.List(ctx, page, pageSize, destination)
	if err != nil {
		return nil, fmt.Errorf("failed to list inquiries: %w", err)
	}

	dtos := make([]domain.InquiryDTO, len(inquiries))
	for i := range inquiries {
		dtos[i] = mapper.ToInquiryDTO(&inquiries[i])
	}

	return &domain.PaginatedResponse[domain.InquiryDTO]{
		Items:    dtos,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// Update edits an inquiry. Travel and client details are frozen once any
// version of the inquiry has left draft, since sent versions snapshot them.
func (s *InquiryService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateInquiryRequest) (*domain.InquiryDTO, error) {
	inquiry, err := s.inquiryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInquiryNotFound
		}
		return nil, fmt.Errorf("failed to get inquiry: %w", err)
	}

	nonDraft, err := s.quotationRepo.CountNonDraft(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to check quotation statuses: %w", err)
	}
	if nonDraft > 0 {
		return nil, ErrInquiryLocked
	}

	if req.ClientName != nil {
		inquiry.ClientName = *req.ClientName
	}
	if req.ClientEmail != nil {
		inquiry.ClientEmail = *req.ClientEmail
	}
	if req.ClientPhone != nil {
		inquiry.ClientPhone = *req.ClientPhone
	}
	if req.Destination != nil {
		inquiry.Destination = *req.Destination
	}
	if req.TravelStart != nil {
		start, err := parseDate(*req.TravelStart)
		if err != nil {
			return nil, fmt.Errorf("invalid travel start date: %w", err)
		}
		inquiry.TravelStart = start
	}
	if req.TravelEnd != nil {
		end, err := parseDate(*req.TravelEnd)
		if err != nil {
			return nil, fmt.Errorf("invalid travel end date: %w", err)
		}
		inquiry.TravelEnd = end
	}
	if inquiry.TravelEnd.Before(inquiry.TravelStart) {
		return nil, ErrInvalidTravelWindow
	}
	if req.PaxAdults != nil {
		inquiry.PaxAdults = *req.PaxAdults
	}
	if req.PaxChildren != nil {
		inquiry.PaxChildren = *req.PaxChildren
	}
	if req.Notes != nil {
		inquiry.Notes = *req.Notes
	}

	if err := s.inquiryRepo.Update(ctx, inquiry); err != nil {
		return nil, fmt.Errorf("failed to update inquiry: %w", err)
	}

	s.logger.Info("inquiry updated",
		zap.String("inquiryID", inquiry.ID.String()),
		zap.String("code", inquiry.Code))

	dto := mapper.ToInquiryDTO(inquiry)
	return &dto, nil
}
