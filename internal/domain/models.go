package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// BeforeCreate assigns a UUID so the models work on both PostgreSQL and the
// SQLite databases used in tests.
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// ServiceType classifies a line item and selects its markup bucket
// and catalog table.
type ServiceType string

const (
	ServiceHotel      ServiceType = "hotel"
	ServiceGuide      ServiceType = "guide"
	ServiceTourEscort ServiceType = "tour_escort"
	ServiceActivity   ServiceType = "activity"
	ServiceEntrance   ServiceType = "entrance"
	ServiceTransfer   ServiceType = "transfer"
	ServiceTrain      ServiceType = "train"
	ServiceFlight     ServiceType = "flight"
	ServiceRestaurant ServiceType = "restaurant"
	ServiceOther      ServiceType = "other"
)

// AllServiceTypes returns every service type in display order.
// The order is fixed so cost breakdowns render deterministically.
func AllServiceTypes() []ServiceType {
	return []ServiceType{
		ServiceHotel,
		ServiceGuide,
		ServiceTourEscort,
		ServiceActivity,
		ServiceEntrance,
		ServiceTransfer,
		ServiceTrain,
		ServiceFlight,
		ServiceRestaurant,
		ServiceOther,
	}
}

// IsValid checks if the ServiceType is a valid enum value
func (st ServiceType) IsValid() bool {
	switch st {
	case ServiceHotel, ServiceGuide, ServiceTourEscort, ServiceActivity, ServiceEntrance,
		ServiceTransfer, ServiceTrain, ServiceFlight, ServiceRestaurant, ServiceOther:
		return true
	}
	return false
}

// QuotationStatus represents where a quotation version is in its lifecycle
type QuotationStatus string

const (
	QuotationStatusDraft    QuotationStatus = "draft"
	QuotationStatusSent     QuotationStatus = "sent"
	QuotationStatusAccepted QuotationStatus = "accepted"
	QuotationStatusRejected QuotationStatus = "rejected"
	QuotationStatusExpired  QuotationStatus = "expired"
)

// IsValid checks if the QuotationStatus is a valid enum value
func (s QuotationStatus) IsValid() bool {
	switch s {
	case QuotationStatusDraft, QuotationStatusSent, QuotationStatusAccepted,
		QuotationStatusRejected, QuotationStatusExpired:
		return true
	}
	return false
}

// IsTerminal reports whether the status allows no further transitions
func (s QuotationStatus) IsTerminal() bool {
	switch s {
	case QuotationStatusAccepted, QuotationStatusRejected, QuotationStatusExpired:
		return true
	}
	return false
}

// CostBasis determines how a unit cost scales with the travelling party
type CostBasis string

const (
	CostBasisPerPerson CostBasis = "per_person"
	CostBasisGroup     CostBasis = "group"
)

// IsValid checks if the CostBasis is a valid enum value
func (cb CostBasis) IsValid() bool {
	return cb == CostBasisPerPerson || cb == CostBasisGroup
}

// Inquiry is the CRM record a quotation version snapshots from.
// Client and travel details live here until the first version is cut;
// after that each version carries its own frozen copy.
type Inquiry struct {
	BaseModel
	Code        string      `gorm:"type:varchar(50);unique;index"`
	ClientName  string      `gorm:"type:varchar(200);not null"`
	ClientEmail string      `gorm:"type:varchar(255)"`
	ClientPhone string      `gorm:"type:varchar(50)"`
	Destination string      `gorm:"type:varchar(200);not null"`
	TravelStart time.Time   `gorm:"type:date;not null"`
	TravelEnd   time.Time   `gorm:"type:date;not null"`
	PaxAdults   int         `gorm:"not null;default:1"`
	PaxChildren int         `gorm:"not null;default:0"`
	Notes       string      `gorm:"type:text"`
	Quotations  []Quotation `gorm:"foreignKey:InquiryID;constraint:OnDelete:CASCADE"`
}

// PaxCount returns the total travelling party size
func (i *Inquiry) PaxCount() int {
	return i.PaxAdults + i.PaxChildren
}

// DayCount returns the number of itinerary days in the travel window, inclusive
func (i *Inquiry) DayCount() int {
	return int(i.TravelEnd.Sub(i.TravelStart).Hours()/24) + 1
}

// Quotation is one priced version of an inquiry's itinerary.
// Versions are lettered A, B, C... per inquiry; the code is
// "{inquiryCode}/{letter}".
type Quotation struct {
	BaseModel
	InquiryID     uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:idx_quotations_inquiry_version"`
	Inquiry       *Inquiry        `gorm:"foreignKey:InquiryID"`
	Code          string          `gorm:"type:varchar(60);unique;index"`
	VersionLetter string          `gorm:"type:varchar(1);not null;uniqueIndex:idx_quotations_inquiry_version;column:version_letter"`
	Status        QuotationStatus `gorm:"type:varchar(20);not null;default:'draft';index"`
	// Revision is the optimistic-lock counter; every accepted save bumps it.
	Revision    int             `gorm:"not null;default:1"`
	ClientName  string          `gorm:"type:varchar(200);not null"`
	Destination string          `gorm:"type:varchar(200);not null"`
	TravelStart time.Time       `gorm:"type:date;not null"`
	TravelEnd   time.Time       `gorm:"type:date;not null"`
	PaxAdults   int             `gorm:"not null;default:1"`
	PaxChildren int             `gorm:"not null;default:0"`
	Currency    string          `gorm:"type:varchar(3);not null"`
	Config      CostingConfiguration `gorm:"type:jsonb;column:costing_config"`
	Days        []ItineraryDay  `gorm:"foreignKey:QuotationID;constraint:OnDelete:CASCADE"`
	// SentBreakdown is frozen when the quotation leaves draft and is never
	// recomputed afterwards, regardless of later catalog changes.
	SentBreakdown *CostBreakdown `gorm:"type:jsonb;column:sent_breakdown"`
	SentAt        *time.Time     `gorm:"column:sent_at"`
	ExpiresAt     *time.Time     `gorm:"column:expires_at"`
}

// PaxCount returns the total travelling party size snapshotted on the version
func (q *Quotation) PaxCount() int {
	return q.PaxAdults + q.PaxChildren
}

// LineItems flattens every day's line items in day order
func (q *Quotation) LineItems() []LineItem {
	var items []LineItem
	for _, day := range q.Days {
		items = append(items, day.Items...)
	}
	return items
}

// ItineraryDay is one day of a quotation's itinerary.
// Day numbers are contiguous from 1; any gap is a data-integrity fault.
type ItineraryDay struct {
	BaseModel
	QuotationID uuid.UUID  `gorm:"type:uuid;not null;index"`
	DayNumber   int        `gorm:"not null;column:day_number"`
	Date        time.Time  `gorm:"type:date;not null"`
	City        string     `gorm:"type:varchar(100)"`
	Note        string     `gorm:"type:text"`
	Items       []LineItem `gorm:"foreignKey:DayID;constraint:OnDelete:CASCADE"`
}

// TableName overrides the default pluralization
func (ItineraryDay) TableName() string {
	return "itinerary_days"
}

// LineItem is a service attached to an itinerary day.
// Manual entries carry no catalog reference; catalog-linked entries whose
// cost diverges from the catalog rate carry ManualOverride for audit.
type LineItem struct {
	BaseModel
	DayID         uuid.UUID       `gorm:"type:uuid;not null;index;column:day_id"`
	QuotationID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ServiceType   ServiceType     `gorm:"type:varchar(20);not null;index;column:service_type"`
	Description   string          `gorm:"type:varchar(500)"`
	CatalogRateID *uuid.UUID      `gorm:"type:uuid;column:catalog_rate_id"`
	CatalogRate   *CatalogRate    `gorm:"foreignKey:CatalogRateID"`
	UnitCost      decimal.Decimal `gorm:"type:decimal(15,2);not null;column:unit_cost"`
	Currency      string          `gorm:"type:varchar(3);not null"`
	CostBasis     CostBasis       `gorm:"type:varchar(20);not null;column:cost_basis"`
	Quantity      decimal.Decimal `gorm:"type:decimal(10,2);not null;default:1"`
	PaxCount      int             `gorm:"not null;column:pax_count"`
	ManualOverride bool           `gorm:"not null;default:false;column:manual_override"`
	Details       ServiceDetails  `gorm:"type:jsonb"`
}

// TotalCost resolves the raw cost of the item honoring its cost basis
func (li *LineItem) TotalCost() decimal.Decimal {
	total := li.UnitCost.Mul(li.Quantity)
	if li.CostBasis == CostBasisPerPerson {
		total = total.Mul(decimal.NewFromInt(int64(li.PaxCount)))
	}
	return total
}

// CatalogRate is a supplier tariff valid for a city, date window and pax slab.
// Zero matching rates is a normal outcome that routes to manual pricing.
type CatalogRate struct {
	BaseModel
	ServiceType  ServiceType     `gorm:"type:varchar(20);not null;index;column:service_type"`
	City         string          `gorm:"type:varchar(100);not null;index"`
	SupplierName string          `gorm:"type:varchar(200);not null;column:supplier_name"`
	RateName     string          `gorm:"type:varchar(200);column:rate_name"`
	ValidFrom    time.Time       `gorm:"type:date;not null;column:valid_from"`
	ValidTo      time.Time       `gorm:"type:date;not null;column:valid_to"`
	FromPax      int             `gorm:"not null;default:1;column:from_pax"`
	ToPax        int             `gorm:"not null;column:to_pax"`
	CostBasis    CostBasis       `gorm:"type:varchar(20);not null;column:cost_basis"`
	Currency     string          `gorm:"type:varchar(3);not null"`
	UnitCost     decimal.Decimal `gorm:"type:decimal(15,2);not null;column:unit_cost"`
	// Hotel rates only
	RoomType string `gorm:"type:varchar(100);column:room_type"`
	MealPlan string `gorm:"type:varchar(50);column:meal_plan"`
	IsActive bool   `gorm:"not null;default:true;column:is_active"`
}

// AppliesTo reports whether the rate is eligible for the given travel date
// and party size. City matching happens in the repository query; hotel
// room/meal matching happens in the selector.
func (r *CatalogRate) AppliesTo(date time.Time, paxCount int) bool {
	if date.Before(r.ValidFrom) || date.After(r.ValidTo) {
		return false
	}
	if paxCount < r.FromPax {
		return false
	}
	if r.ToPax > 0 && paxCount > r.ToPax {
		return false
	}
	return true
}

// SequenceCounter allocates monotonic sequence numbers per scope and year.
// Used for inquiry codes (scope "inquiry").
type SequenceCounter struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key"`
	Scope        string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_sequence_scope_year"`
	Year         int       `gorm:"not null;uniqueIndex:idx_sequence_scope_year"`
	LastSequence int       `gorm:"not null;default:0;column:last_sequence"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

// TableName overrides the default pluralization
func (SequenceCounter) TableName() string {
	return "sequence_counters"
}

// FormatInquiryCode renders an inquiry code from a year and sequence number.
// Format: INQ-{YYYY}-{NNN}
func FormatInquiryCode(year, sequence int) string {
	return fmt.Sprintf("INQ-%d-%03d", year, sequence)
}

// NextVersionLetter returns the letter following the given one, or false
// when the alphabet is exhausted. The first version of an inquiry is "A".
func NextVersionLetter(last string) (string, bool) {
	if last == "" {
		return "A", true
	}
	if len(last) != 1 || last[0] < 'A' || last[0] >= 'Z' {
		return "", false
	}
	return string(last[0] + 1), true
}

// QuotationCode renders the composite code for a version of an inquiry
func QuotationCode(inquiryCode, versionLetter string) string {
	return inquiryCode + "/" + versionLetter
}
