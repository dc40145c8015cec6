// Package mapper converts domain entities to API DTOs.
package mapper

import (
	"time"

	"github.com/atlasvoyages/quotation-api/internal/domain"
)

const dateLayout = "2006-01-02"

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatTimestampPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTimestamp(*t)
	return &s
}

// ToInquiryDTO converts an Inquiry to its DTO
func ToInquiryDTO(inquiry *domain.Inquiry) domain.InquiryDTO {
	return domain.InquiryDTO{
		ID:          inquiry.ID,
		Code:        inquiry.Code,
		ClientName:  inquiry.ClientName,
		ClientEmail: inquiry.ClientEmail,
		ClientPhone: inquiry.ClientPhone,
		Destination: inquiry.Destination,
		TravelStart: formatDate(inquiry.TravelStart),
		TravelEnd:   formatDate(inquiry.TravelEnd),
		PaxAdults:   inquiry.PaxAdults,
		PaxChildren: inquiry.PaxChildren,
		Notes:       inquiry.Notes,
		CreatedAt:   formatTimestamp(inquiry.CreatedAt),
		UpdatedAt:   formatTimestamp(inquiry.UpdatedAt),
	}
}

// ToQuotationSummaryDTO converts a Quotation to its list representation
func ToQuotationSummaryDTO(q *domain.Quotation) domain.QuotationSummaryDTO {
	return domain.QuotationSummaryDTO{
		ID:            q.ID,
		Code:          q.Code,
		VersionLetter: q.VersionLetter,
		Status:        q.Status,
		Currency:      q.Currency,
		SentAt:        formatTimestampPtr(q.SentAt),
		ExpiresAt:     formatTimestampPtr(q.ExpiresAt),
		CreatedAt:     formatTimestamp(q.CreatedAt),
		UpdatedAt:     formatTimestamp(q.UpdatedAt),
	}
}

// ToQuotationDTO converts a Quotation with days and items to its full DTO.
// The breakdown is attached by the caller: drafts get a fresh computation,
// sent and closed versions get the frozen snapshot.
func ToQuotationDTO(q *domain.Quotation, breakdown *domain.CostBreakdown) domain.QuotationDTO {
	days := make([]domain.ItineraryDayDTO, len(q.Days))
	for i := range q.Days {
		days[i] = ToItineraryDayDTO(&q.Days[i])
	}

	return domain.QuotationDTO{
		ID:            q.ID,
		InquiryID:     q.InquiryID,
		Code:          q.Code,
		VersionLetter: q.VersionLetter,
		Status:        q.Status,
		Revision:      q.Revision,
		ClientName:    q.ClientName,
		Destination:   q.Destination,
		TravelStart:   formatDate(q.TravelStart),
		TravelEnd:     formatDate(q.TravelEnd),
		PaxAdults:     q.PaxAdults,
		PaxChildren:   q.PaxChildren,
		Currency:      q.Currency,
		Config:        q.Config,
		Days:          days,
		Breakdown:     breakdown,
		SentAt:        formatTimestampPtr(q.SentAt),
		ExpiresAt:     formatTimestampPtr(q.ExpiresAt),
		CreatedAt:     formatTimestamp(q.CreatedAt),
		UpdatedAt:     formatTimestamp(q.UpdatedAt),
	}
}

// ToItineraryDayDTO converts an ItineraryDay with its items
func ToItineraryDayDTO(day *domain.ItineraryDay) domain.ItineraryDayDTO {
	items := make([]domain.LineItemDTO, len(day.Items))
	for i := range day.Items {
		items[i] = ToLineItemDTO(&day.Items[i])
	}
	return domain.ItineraryDayDTO{
		ID:        day.ID,
		DayNumber: day.DayNumber,
		Date:      formatDate(day.Date),
		City:      day.City,
		Note:      day.Note,
		Items:     items,
	}
}

// ToLineItemDTO converts a LineItem to its DTO
func ToLineItemDTO(item *domain.LineItem) domain.LineItemDTO {
	return domain.LineItemDTO{
		ID:             item.ID,
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
		TotalCost:      item.TotalCost(),
	}
}

// ToCatalogRateDTO converts a CatalogRate to its DTO
func ToCatalogRateDTO(rate *domain.CatalogRate) domain.CatalogRateDTO {
	return domain.CatalogRateDTO{
		ID:           rate.ID,
		ServiceType:  rate.ServiceType,
		City:         rate.City,
		SupplierName: rate.SupplierName,
		RateName:     rate.RateName,
		ValidFrom:    formatDate(rate.ValidFrom),
		ValidTo:      formatDate(rate.ValidTo),
		FromPax:      rate.FromPax,
		ToPax:        rate.ToPax,
		CostBasis:    rate.CostBasis,
		Currency:     rate.Currency,
		UnitCost:     rate.UnitCost,
		RoomType:     rate.RoomType,
		MealPlan:     rate.MealPlan,
		IsActive:     rate.IsActive,
	}
}
