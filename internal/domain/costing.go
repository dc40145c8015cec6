package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// MarkupMode selects how markup values are applied across service buckets
type MarkupMode string

const (
	MarkupModeUniversal   MarkupMode = "universal"
	MarkupModeServiceWise MarkupMode = "service_wise"
)

// IsValid checks if the MarkupMode is a valid enum value
func (m MarkupMode) IsValid() bool {
	return m == MarkupModeUniversal || m == MarkupModeServiceWise
}

// AmountKind distinguishes percentage values from flat amounts
type AmountKind string

const (
	AmountKindPercent AmountKind = "percent"
	AmountKindFlat    AmountKind = "flat"
)

// IsValid checks if the AmountKind is a valid enum value
func (k AmountKind) IsValid() bool {
	return k == AmountKindPercent || k == AmountKindFlat
}

// GSTJurisdiction selects the same-state CGST+SGST split vs cross-state IGST
type GSTJurisdiction string

const (
	GSTSameState  GSTJurisdiction = "same_state"
	GSTOtherState GSTJurisdiction = "other_state"
)

// IsValid checks if the GSTJurisdiction is a valid enum value
func (j GSTJurisdiction) IsValid() bool {
	return j == GSTSameState || j == GSTOtherState
}

// TCSMode controls whether TCS augments the displayed amount or annotates it
type TCSMode string

const (
	TCSInclusive TCSMode = "inclusive"
	TCSExclusive TCSMode = "exclusive"
)

// IsValid checks if the TCSMode is a valid enum value
func (m TCSMode) IsValid() bool {
	return m == TCSInclusive || m == TCSExclusive
}

// RoundingRule is applied exactly once, to the final converted amount
type RoundingRule string

const (
	RoundingNone    RoundingRule = "none"
	RoundingNearest RoundingRule = "nearest"
	RoundingUp      RoundingRule = "up"
	RoundingDown    RoundingRule = "down"
)

// IsValid checks if the RoundingRule is a valid enum value
func (r RoundingRule) IsValid() bool {
	switch r {
	case RoundingNone, RoundingNearest, RoundingUp, RoundingDown:
		return true
	}
	return false
}

// MarkupValue is a percent or flat markup amount
type MarkupValue struct {
	Kind  AmountKind      `json:"kind"`
	Value decimal.Decimal `json:"value"`
}

// GSTConfig holds the GST jurisdiction and rate
type GSTConfig struct {
	Jurisdiction GSTJurisdiction `json:"jurisdiction"`
	Percent      decimal.Decimal `json:"percent"`
}

// TCSConfig holds the TCS mode and rate
type TCSConfig struct {
	Mode    TCSMode         `json:"mode"`
	Percent decimal.Decimal `json:"percent"`
}

// DiscountConfig is a percent or flat discount applied post-tax
type DiscountConfig struct {
	Kind  AmountKind      `json:"kind"`
	Value decimal.Decimal `json:"value"`
}

// SupplementToggles control whether a bucket participates in markup.
// A toggle switched off carries that bucket at raw cost as a pass-through.
type SupplementToggles struct {
	Flight     bool `json:"flight"`
	TourEscort bool `json:"tourEscort"`
	Meal       bool `json:"meal"`
}

// CostingConfiguration is an immutable value type: edits go through the
// With* setters, which return a modified copy and never mutate in place,
// so breakdown recomputation is always against a complete value.
type CostingConfiguration struct {
	MarkupMode              MarkupMode                  `json:"markupMode"`
	UniversalMarkup         MarkupValue                 `json:"universalMarkup"`
	ServiceMarkups          map[ServiceType]MarkupValue `json:"serviceMarkups,omitempty"`
	CommissionPercent       decimal.Decimal             `json:"commissionPercent"`
	CreditCardFeePercent    decimal.Decimal             `json:"creditCardFeePercent"`
	ClientCommissionPercent decimal.Decimal             `json:"clientCommissionPercent"`
	Supplements             SupplementToggles           `json:"supplements"`
	GST                     GSTConfig                   `json:"gst"`
	TCS                     TCSConfig                   `json:"tcs"`
	Discount                DiscountConfig              `json:"discount"`
	Currency                string                      `json:"currency"`
	RateOfExchange          decimal.Decimal             `json:"rateOfExchange"`
	Rounding                RoundingRule                `json:"rounding"`
}

// DefaultCostingConfiguration returns the configuration a fresh quotation
// version starts with: universal zero markup, all supplements marked up,
// same-state GST at 0%, exclusive TCS at 0%, identity exchange rate.
func DefaultCostingConfiguration(currency string) CostingConfiguration {
	return CostingConfiguration{
		MarkupMode:      MarkupModeUniversal,
		UniversalMarkup: MarkupValue{Kind: AmountKindPercent, Value: decimal.Zero},
		Supplements:     SupplementToggles{Flight: true, TourEscort: true, Meal: true},
		GST:             GSTConfig{Jurisdiction: GSTSameState, Percent: decimal.Zero},
		TCS:             TCSConfig{Mode: TCSExclusive, Percent: decimal.Zero},
		Discount:        DiscountConfig{Kind: AmountKindPercent, Value: decimal.Zero},
		Currency:        currency,
		RateOfExchange:  decimal.NewFromInt(1),
		Rounding:        RoundingNone,
	}
}

// WithUniversalMarkup returns a copy in universal markup mode with the given value
func (c CostingConfiguration) WithUniversalMarkup(v MarkupValue) CostingConfiguration {
	c.MarkupMode = MarkupModeUniversal
	c.UniversalMarkup = v
	return c
}

// WithServiceMarkup returns a copy in service-wise mode with the bucket's markup set
func (c CostingConfiguration) WithServiceMarkup(st ServiceType, v MarkupValue) CostingConfiguration {
	c.MarkupMode = MarkupModeServiceWise
	markups := make(map[ServiceType]MarkupValue, len(c.ServiceMarkups)+1)
	for k, mv := range c.ServiceMarkups {
		markups[k] = mv
	}
	markups[st] = v
	c.ServiceMarkups = markups
	return c
}

// WithDiscount returns a copy with the discount replaced
func (c CostingConfiguration) WithDiscount(d DiscountConfig) CostingConfiguration {
	c.Discount = d
	return c
}

// WithGST returns a copy with the tax configuration replaced
func (c CostingConfiguration) WithGST(g GSTConfig) CostingConfiguration {
	c.GST = g
	return c
}

// WithExchange returns a copy with the quote currency and rate of exchange replaced
func (c CostingConfiguration) WithExchange(currency string, roe decimal.Decimal) CostingConfiguration {
	c.Currency = currency
	c.RateOfExchange = roe
	return c
}

// WithRounding returns a copy with the rounding rule replaced
func (c CostingConfiguration) WithRounding(r RoundingRule) CostingConfiguration {
	c.Rounding = r
	return c
}

// Value implements driver.Valuer so the configuration persists as one jsonb column
func (c CostingConfiguration) Value() (driver.Value, error) {
	return json.Marshal(c)
}

// Scan implements sql.Scanner
func (c *CostingConfiguration) Scan(value interface{}) error {
	if value == nil {
		*c = CostingConfiguration{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, c)
	case string:
		return json.Unmarshal([]byte(v), c)
	default:
		return fmt.Errorf("unsupported costing configuration column type %T", value)
	}
}

// BucketFigure is the per-service-type slice of a cost breakdown
type BucketFigure struct {
	ServiceType  ServiceType     `json:"serviceType"`
	RawCost      decimal.Decimal `json:"rawCost"`
	MarkupAmount decimal.Decimal `json:"markupAmount"`
	MarkedUpCost decimal.Decimal `json:"markedUpCost"`
	// PassThrough buckets are carried at raw cost, excluded from markup
	PassThrough bool `json:"passThrough"`
}

// CostBreakdown is a pure projection of line items and configuration.
// It keeps every intermediate figure so presentation can show a
// line-by-line proof; it is never hand-edited and always recomputable.
type CostBreakdown struct {
	Buckets []BucketFigure `json:"buckets"`

	RawTotal          decimal.Decimal `json:"rawTotal"`
	GrossMarkup       decimal.Decimal `json:"grossMarkup"`
	PreCommissionSale decimal.Decimal `json:"preCommissionSale"`

	CommissionAmount       decimal.Decimal `json:"commissionAmount"`
	CreditCardFeeAmount    decimal.Decimal `json:"creditCardFeeAmount"`
	ClientCommissionAmount decimal.Decimal `json:"clientCommissionAmount"`
	PreTaxSale             decimal.Decimal `json:"preTaxSale"`

	CGSTAmount decimal.Decimal `json:"cgstAmount"`
	SGSTAmount decimal.Decimal `json:"sgstAmount"`
	IGSTAmount decimal.Decimal `json:"igstAmount"`
	TaxAmount  decimal.Decimal `json:"taxAmount"`

	TCSAmount   decimal.Decimal `json:"tcsAmount"`
	TCSIncluded bool            `json:"tcsIncluded"`

	PostTaxTotal decimal.Decimal `json:"postTaxTotal"`

	DiscountAmount  decimal.Decimal `json:"discountAmount"`
	DiscountClamped bool            `json:"discountClamped"`
	NetTotal        decimal.Decimal `json:"netTotal"`

	Currency        string          `json:"currency"`
	RateOfExchange  decimal.Decimal `json:"rateOfExchange"`
	ConvertedTotal  decimal.Decimal `json:"convertedTotal"`
	RoundingApplied RoundingRule    `json:"roundingApplied"`
	FinalAmount     decimal.Decimal `json:"finalAmount"`
}

// Value implements driver.Valuer for the frozen sent_breakdown column
func (b CostBreakdown) Value() (driver.Value, error) {
	return json.Marshal(b)
}

// Scan implements sql.Scanner
func (b *CostBreakdown) Scan(value interface{}) error {
	if value == nil {
		*b = CostBreakdown{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, b)
	case string:
		return json.Unmarshal([]byte(v), b)
	default:
		return fmt.Errorf("unsupported cost breakdown column type %T", value)
	}
}

// HotelDetails carries hotel-specific line item attributes
type HotelDetails struct {
	RoomType string `json:"roomType,omitempty"`
	MealPlan string `json:"mealPlan,omitempty"`
	Rooms    int    `json:"rooms,omitempty"`
}

// FlightDetails carries flight-specific line item attributes
type FlightDetails struct {
	FlightNumber string `json:"flightNumber,omitempty"`
	CabinClass   string `json:"cabinClass,omitempty"`
	Sector       string `json:"sector,omitempty"`
}

// TransferDetails carries transfer-specific line item attributes
type TransferDetails struct {
	Vehicle string `json:"vehicle,omitempty"`
	From    string `json:"from,omitempty"`
	To      string `json:"to,omitempty"`
}

// RestaurantDetails carries dining-specific line item attributes
type RestaurantDetails struct {
	MealType string `json:"mealType,omitempty"`
}

// ServiceDetails is the service-specific payload of a line item: a tagged
// union over ServiceType where at most the matching member is set.
type ServiceDetails struct {
	Hotel      *HotelDetails      `json:"hotel,omitempty"`
	Flight     *FlightDetails     `json:"flight,omitempty"`
	Transfer   *TransferDetails   `json:"transfer,omitempty"`
	Restaurant *RestaurantDetails `json:"restaurant,omitempty"`
}

// IsZero reports whether no payload member is set
func (d ServiceDetails) IsZero() bool {
	return d.Hotel == nil && d.Flight == nil && d.Transfer == nil && d.Restaurant == nil
}

// Value implements driver.Valuer
func (d ServiceDetails) Value() (driver.Value, error) {
	return json.Marshal(d)
}

// Scan implements sql.Scanner
func (d *ServiceDetails) Scan(value interface{}) error {
	if value == nil {
		*d = ServiceDetails{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, d)
	case string:
		return json.Unmarshal([]byte(v), d)
	default:
		return fmt.Errorf("unsupported service details column type %T", value)
	}
}
