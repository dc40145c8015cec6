package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/atlasvoyages/quotation-api/internal/costing"
	"github.com/atlasvoyages/quotation-api/internal/domain"
	"github.com/atlasvoyages/quotation-api/internal/service"
)

var validate = validator.New()

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// respondValidationError sends a standardized validation error response with specific field messages
func respondValidationError(w http.ResponseWriter, err error) {
	errors := make(map[string]string)
	if ve, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range ve {
			fieldName := toJSONFieldName(fe.Field())
			errors[fieldName] = formatValidationError(fe)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(domain.APIError{
		Type:   domain.ErrorTypeValidation,
		Title:  "Validation Error",
		Status: http.StatusBadRequest,
		Detail: "One or more fields failed validation",
		Errors: errors,
	})
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", toJSONFieldName(fe.Field()))
	case "max":
		return fmt.Sprintf("Must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("Must be at least %s characters", fe.Param())
	case "gte":
		return fmt.Sprintf("Must be greater than or equal to %s", fe.Param())
	case "gt":
		return fmt.Sprintf("Must be greater than %s", fe.Param())
	case "lte":
		return fmt.Sprintf("Must be less than or equal to %s", fe.Param())
	case "lt":
		return fmt.Sprintf("Must be less than %s", fe.Param())
	case "len":
		return fmt.Sprintf("Must be exactly %s characters", fe.Param())
	case "uuid":
		return "Must be a valid UUID"
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", fe.Param())
	case "datetime":
		return fmt.Sprintf("Must be a date in %s format", fe.Param())
	default:
		return domain.GetValidationMessage(fe.Tag())
	}
}

// toJSONFieldName converts a Go struct field name to its JSON equivalent (camelCase)
func toJSONFieldName(field string) string {
	if len(field) == 0 {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

// respondWithError sends a standardized JSON error response
func respondWithError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(domain.APIError{
		Type:   getErrorType(status),
		Title:  http.StatusText(status),
		Status: status,
		Detail: message,
	})
}

// getErrorType returns the appropriate error type for an HTTP status code
func getErrorType(status int) string {
	switch status {
	case http.StatusBadRequest:
		return domain.ErrorTypeBadRequest
	case http.StatusNotFound:
		return domain.ErrorTypeNotFound
	case http.StatusConflict:
		return domain.ErrorTypeConflict
	default:
		return domain.ErrorTypeInternal
	}
}

// respondServiceError maps well-known service errors to HTTP responses.
// Handlers call this after their own endpoint-specific cases.
func respondServiceError(w http.ResponseWriter, err error) {
	var cfgErr *costing.ValidationError
	if errors.As(err, &cfgErr) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(domain.APIError{
			Type:   domain.ErrorTypeValidation,
			Title:  "Validation Error",
			Status: http.StatusBadRequest,
			Detail: "Costing configuration failed validation",
			Errors: cfgErr.Fields,
		})
		return
	}

	switch {
	case errors.Is(err, service.ErrInquiryNotFound):
		respondWithError(w, http.StatusNotFound, "Inquiry not found")
	case errors.Is(err, service.ErrQuotationNotFound):
		respondWithError(w, http.StatusNotFound, "Quotation not found")
	case errors.Is(err, service.ErrDayNotFound):
		respondWithError(w, http.StatusNotFound, "Itinerary day not found")
	case errors.Is(err, service.ErrLineItemNotFound):
		respondWithError(w, http.StatusNotFound, "Line item not found")
	case errors.Is(err, service.ErrRateNotFound):
		respondWithError(w, http.StatusNotFound, "Catalog rate not found")
	case errors.Is(err, service.ErrInquiryLocked):
		respondWithError(w, http.StatusConflict, "Inquiry has quotations beyond draft and can no longer be edited")
	case errors.Is(err, service.ErrQuotationNotDraft):
		respondWithError(w, http.StatusConflict, "Quotation is not in draft status")
	case errors.Is(err, service.ErrInvalidTransition):
		respondWithError(w, http.StatusConflict, "Quotation status does not allow this transition")
	case errors.Is(err, service.ErrStaleRevision):
		respondWithError(w, http.StatusConflict, "Quotation was modified by another request; reload and retry")
	case errors.Is(err, service.ErrVersionExhausted):
		respondWithError(w, http.StatusConflict, "Maximum number of quotation versions reached for this inquiry")
	case errors.Is(err, service.ErrInvalidTravelWindow):
		respondWithError(w, http.StatusBadRequest, "Travel end date must not be before travel start date")
	case errors.Is(err, service.ErrInvalidLineItem):
		respondWithError(w, http.StatusBadRequest, "Line item requires either a catalog rate or a unit cost with a cost basis")
	default:
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
