package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DTOs for API responses. Dates are ISO 8601 strings; money is decimal.

type InquiryDTO struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	ClientName  string    `json:"clientName"`
	ClientEmail string    `json:"clientEmail,omitempty"`
	ClientPhone string    `json:"clientPhone,omitempty"`
	Destination string    `json:"destination"`
	TravelStart string    `json:"travelStart"`
	TravelEnd   string    `json:"travelEnd"`
	PaxAdults   int       `json:"paxAdults"`
	PaxChildren int       `json:"paxChildren"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   string    `json:"createdAt"`
	UpdatedAt   string    `json:"updatedAt"`
}

type QuotationSummaryDTO struct {
	ID            uuid.UUID       `json:"id"`
	Code          string          `json:"code"`
	VersionLetter string          `json:"versionLetter"`
	Status        QuotationStatus `json:"status"`
	Currency      string          `json:"currency"`
	SentAt        *string         `json:"sentAt,omitempty"`
	ExpiresAt     *string         `json:"expiresAt,omitempty"`
	CreatedAt     string          `json:"createdAt"`
	UpdatedAt     string          `json:"updatedAt"`
}

type QuotationDTO struct {
	ID            uuid.UUID            `json:"id"`
	InquiryID     uuid.UUID            `json:"inquiryId"`
	Code          string               `json:"code"`
	VersionLetter string               `json:"versionLetter"`
	Status        QuotationStatus      `json:"status"`
	Revision      int                  `json:"revision"`
	ClientName    string               `json:"clientName"`
	Destination   string               `json:"destination"`
	TravelStart   string               `json:"travelStart"`
	TravelEnd     string               `json:"travelEnd"`
	PaxAdults     int                  `json:"paxAdults"`
	PaxChildren   int                  `json:"paxChildren"`
	Currency      string               `json:"currency"`
	Config        CostingConfiguration `json:"config"`
	Days          []ItineraryDayDTO    `json:"days"`
	Breakdown     *CostBreakdown       `json:"breakdown,omitempty"`
	SentAt        *string              `json:"sentAt,omitempty"`
	ExpiresAt     *string              `json:"expiresAt,omitempty"`
	CreatedAt     string               `json:"createdAt"`
	UpdatedAt     string               `json:"updatedAt"`
}

type ItineraryDayDTO struct {
	ID        uuid.UUID     `json:"id"`
	DayNumber int           `json:"dayNumber"`
	Date      string        `json:"date"`
	City      string        `json:"city,omitempty"`
	Note      string        `json:"note,omitempty"`
	Items     []LineItemDTO `json:"items"`
}

type LineItemDTO struct {
	ID             uuid.UUID       `json:"id"`
	ServiceType    ServiceType     `json:"serviceType"`
	Description    string          `json:"description,omitempty"`
	CatalogRateID  *uuid.UUID      `json:"catalogRateId,omitempty"`
	UnitCost       decimal.Decimal `json:"unitCost"`
	Currency       string          `json:"currency"`
	CostBasis      CostBasis       `json:"costBasis"`
	Quantity       decimal.Decimal `json:"quantity"`
	PaxCount       int             `json:"paxCount"`
	ManualOverride bool            `json:"manualOverride"`
	Details        ServiceDetails  `json:"details,omitempty"`
	TotalCost      decimal.Decimal `json:"totalCost"`
}

type CatalogRateDTO struct {
	ID           uuid.UUID       `json:"id"`
	ServiceType  ServiceType     `json:"serviceType"`
	City         string          `json:"city"`
	SupplierName string          `json:"supplierName"`
	RateName     string          `json:"rateName"`
	ValidFrom    string          `json:"validFrom"`
	ValidTo      string          `json:"validTo"`
	FromPax      int             `json:"fromPax"`
	ToPax        int             `json:"toPax"`
	CostBasis    CostBasis       `json:"costBasis"`
	Currency     string          `json:"currency"`
	UnitCost     decimal.Decimal `json:"unitCost"`
	RoomType     string          `json:"roomType,omitempty"`
	MealPlan     string          `json:"mealPlan,omitempty"`
	IsActive     bool            `json:"isActive"`
}

// PaginatedResponse wraps list endpoints
type PaginatedResponse[T any] struct {
	Items    []T   `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
}

// Request DTOs

type CreateInquiryRequest struct {
	ClientName  string `json:"clientName" validate:"required,max=200"`
	ClientEmail string `json:"clientEmail" validate:"omitempty,email"`
	ClientPhone string `json:"clientPhone" validate:"omitempty,max=50"`
	Destination string `json:"destination" validate:"required,max=200"`
	TravelStart string `json:"travelStart" validate:"required,datetime=2006-01-02"`
	TravelEnd   string `json:"travelEnd" validate:"required,datetime=2006-01-02"`
	PaxAdults   int    `json:"paxAdults" validate:"required,gte=1"`
	PaxChildren int    `json:"paxChildren" validate:"gte=0"`
	Notes       string `json:"notes" validate:"omitempty,max=2000"`
}

type UpdateInquiryRequest struct {
	ClientName  *string `json:"clientName" validate:"omitempty,max=200"`
	ClientEmail *string `json:"clientEmail" validate:"omitempty,email"`
	ClientPhone *string `json:"clientPhone" validate:"omitempty,max=50"`
	Destination *string `json:"destination" validate:"omitempty,max=200"`
	TravelStart *string `json:"travelStart" validate:"omitempty,datetime=2006-01-02"`
	TravelEnd   *string `json:"travelEnd" validate:"omitempty,datetime=2006-01-02"`
	PaxAdults   *int    `json:"paxAdults" validate:"omitempty,gte=1"`
	PaxChildren *int    `json:"paxChildren" validate:"omitempty,gte=0"`
	Notes       *string `json:"notes" validate:"omitempty,max=2000"`
}

// UpdateConfigurationRequest carries the full replacement configuration plus
// the revision the client last saw, for the optimistic save guard.
type UpdateConfigurationRequest struct {
	Revision int                  `json:"revision" validate:"required,gte=1"`
	Config   CostingConfiguration `json:"config" validate:"required"`
}

type RejectQuotationRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=1000"`
}

type AddDayRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
	City string `json:"city" validate:"omitempty,max=120"`
	Note string `json:"note" validate:"omitempty,max=2000"`
}

type UpdateDayRequest struct {
	City *string `json:"city" validate:"omitempty,max=120"`
	Note *string `json:"note" validate:"omitempty,max=2000"`
}

type RegenerateDaysRequest struct {
	TravelStart string `json:"travelStart" validate:"required,datetime=2006-01-02"`
	TravelEnd   string `json:"travelEnd" validate:"required,datetime=2006-01-02"`
}

type AddLineItemRequest struct {
	ServiceType   ServiceType      `json:"serviceType" validate:"required"`
	Description   string           `json:"description" validate:"omitempty,max=500"`
	CatalogRateID *uuid.UUID       `json:"catalogRateId"`
	UnitCost      *decimal.Decimal `json:"unitCost"`
	Currency      string           `json:"currency" validate:"omitempty,len=3"`
	CostBasis     CostBasis        `json:"costBasis" validate:"omitempty,oneof=per_person group"`
	Quantity      *decimal.Decimal `json:"quantity"`
	Details       ServiceDetails   `json:"details"`
}

type CreateCatalogRateRequest struct {
	ServiceType  ServiceType     `json:"serviceType" validate:"required"`
	City         string          `json:"city" validate:"required,max=120"`
	SupplierName string          `json:"supplierName" validate:"required,max=200"`
	RateName     string          `json:"rateName" validate:"required,max=200"`
	ValidFrom    string          `json:"validFrom" validate:"required,datetime=2006-01-02"`
	ValidTo      string          `json:"validTo" validate:"required,datetime=2006-01-02"`
	FromPax      int             `json:"fromPax" validate:"gte=0"`
	ToPax        int             `json:"toPax" validate:"gte=0"`
	CostBasis    CostBasis       `json:"costBasis" validate:"required,oneof=per_person group"`
	Currency     string          `json:"currency" validate:"required,len=3"`
	UnitCost     decimal.Decimal `json:"unitCost" validate:"required"`
	RoomType     string          `json:"roomType" validate:"omitempty,max=120"`
	MealPlan     string          `json:"mealPlan" validate:"omitempty,max=60"`
}
