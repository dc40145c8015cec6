package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/atlasvoyages/quotation-api/internal/domain"
)

// Send godoc
// @Summary Send quotation
// @Description Sends a draft quotation: freezes the breakdown and starts the validity clock
// @Tags Quotation Lifecycle
// @Produce json
// @Param id path string true "Quotation ID"
// @Success 200 {object} domain.QuotationDTO
// @Failure 400 {object} domain.APIError "Invalid ID or configuration"
// @Failure 404 {object} domain.APIError "Quotation not found"
// @Failure 409 {object} domain.APIError "Not in draft status"
// @Failure 500 {object} domain.APIError
// @Router /quotations/{id}/send [post]
func (h *QuotationHandler) Send(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quotation ID: must be a valid UUID")
		return
	}

	quotation, err := h.quotationService.Send(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to send quotation", zap.Error(err), zap.String("quotation_id", id.String()))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, quotation)
}

// Accept godoc
// @Summary Accept quotation
// @Description Marks a sent quotation as accepted by the client
// @Tags Quotation Lifecycle
// @Produce json
// @Param id path string true "Quotation ID"
// @Success 200 {object} domain.QuotationDTO
// @Failure 400 {object} domain.APIError "Invalid ID"
// @Failure 404 {object} domain.APIError "Quotation not found"
// @Failure 409 {object} domain.APIError "Not in sent status"
// @Failure 500 {object} domain.APIError
// @Router /quotations/{id}/accept [post]
func (h *QuotationHandler) Accept(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quotation ID: must be a valid UUID")
		return
	}

	quotation, err := h.quotationService.Accept(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to accept quotation", zap.Error(err), zap.String("quotation_id", id.String()))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, quotation)
}

// Reject godoc
// @Summary Reject quotation
// @Description Marks a sent quotation as rejected, with an optional reason
// @Tags Quotation Lifecycle
// @Accept json
// @Produce json
// @Param id path string true "Quotation ID"
// @Param request body domain.RejectQuotationRequest false "Rejection reason"
// @Success 200 {object} domain.QuotationDTO
// @Failure 400 {object} domain.APIError "Invalid ID"
// @Failure 404 {object} domain.APIError "Quotation not found"
// @Failure 409 {object} domain.APIError "Not in sent status"
// @Failure 500 {object} domain.APIError
// @Router /quotations/{id}/reject [post]
func (h *QuotationHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quotation ID: must be a valid UUID")
		return
	}

	var req domain.RejectQuotationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// An empty body means rejection without a reason
		if err.Error() != "EOF" {
			respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
			return
		}
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	quotation, err := h.quotationService.Reject(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("failed to reject quotation", zap.Error(err), zap.String("quotation_id", id.String()))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, quotation)
}

// Expire godoc
// @Summary Expire quotation
// @Description Manually marks a sent quotation as expired
// @Tags Quotation Lifecycle
// @Produce json
// @Param id path string true "Quotation ID"
// @Success 200 {object} domain.QuotationDTO
// @Failure 400 {object} domain.APIError "Invalid ID"
// @Failure 404 {object} domain.APIError "Quotation not found"
// @Failure 409 {object} domain.APIError "Not in sent status"
// @Failure 500 {object} domain.APIError
// @Router /quotations/{id}/expire [post]
func (h *QuotationHandler) Expire(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quotation ID: must be a valid UUID")
		return
	}

	quotation, err := h.quotationService.Expire(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to expire quotation", zap.Error(err), zap.String("quotation_id", id.String()))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, quotation)
}

// Clone godoc
// @Summary Clone quotation
// @Description Creates a new draft version by deep-copying the quotation's itinerary and configuration
// @Tags Quotation Lifecycle
// @Produce json
// @Param id path string true "Quotation ID"
// @Success 201 {object} domain.QuotationDTO
// @Failure 400 {object} domain.APIError "Invalid ID"
// @Failure 404 {object} domain.APIError "Quotation not found"
// @Failure 409 {object} domain.APIError "Version letters exhausted"
// @Failure 500 {object} domain.APIError
// @Router /quotations/{id}/clone [post]
func (h *QuotationHandler) Clone(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quotation ID: must be a valid UUID")
		return
	}

	quotation, err := h.quotationService.CloneAsNewVersion(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to clone quotation", zap.Error(err), zap.String("quotation_id", id.String()))
		respondServiceError(w, err)
		return
	}

	w.Header().Set("Location", "/api/v1/quotations/"+quotation.ID.String())
	respondJSON(w, http.StatusCreated, quotation)
}
