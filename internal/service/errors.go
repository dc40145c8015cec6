package service

import "errors"

// Common service errors
var (
	// ErrInquiryNotFound is returned when an inquiry is not found
	ErrInquiryNotFound = errors.New("inquiry not found")

	// ErrInquiryLocked is returned when editing an inquiry whose quotations
	// have already left draft
	ErrInquiryLocked = errors.New("inquiry has non-draft quotations and cannot be edited")

	// ErrQuotationNotFound is returned when a quotation is not found
	ErrQuotationNotFound = errors.New("quotation not found")

	// ErrQuotationNotDraft is returned when mutating a quotation that has left draft
	ErrQuotationNotDraft = errors.New("quotation is not in draft status")

	// ErrInvalidTransition is returned for a status change the lifecycle does not allow
	ErrInvalidTransition = errors.New("invalid quotation status transition")

	// ErrStaleRevision is returned when a save carries an outdated revision counter
	ErrStaleRevision = errors.New("quotation was modified by someone else, reload and retry")

	// ErrVersionExhausted is returned when an inquiry already has version Z
	ErrVersionExhausted = errors.New("no version letters left for inquiry")

	// ErrDayNotFound is returned when an itinerary day is not found
	ErrDayNotFound = errors.New("itinerary day not found")

	// ErrLineItemNotFound is returned when a line item is not found
	ErrLineItemNotFound = errors.New("line item not found")

	// ErrRateNotFound is returned when a catalog rate is not found
	ErrRateNotFound = errors.New("catalog rate not found")

	// ErrInvalidLineItem is returned when a line item request is neither a
	// valid catalog-linked item nor a complete manual one
	ErrInvalidLineItem = errors.New("line item requires a catalog rate or a unit cost with cost basis")

	// ErrInvalidTravelWindow is returned when a travel window ends before it starts
	ErrInvalidTravelWindow = errors.New("travel end date must not be before start date")

	// ErrDayNumberingCorrupt signals non-contiguous day numbers. This is a
	// data-integrity fault, never repaired silently.
	ErrDayNumberingCorrupt = errors.New("itinerary day numbers are not contiguous")
)
