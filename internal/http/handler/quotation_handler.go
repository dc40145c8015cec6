package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/atlasvoyages/quotation-api/internal/domain"
	"github.com/atlasvoyages/quotation-api/internal/service"
)

// QuotationHandler handles HTTP requests for quotations
type QuotationHandler struct {
	quotationService *service.QuotationService
	logger           *zap.Logger
}

// NewQuotationHandler creates a new QuotationHandler
func NewQuotationHandler(quotationService *service.QuotationService, logger *zap.Logger) *QuotationHandler {
	return &QuotationHandler{
		quotationService: quotationService,
		logger:           logger,
	}
}

// ListByInquiry godoc
// @Summary List quotation versions
// @Description Returns all quotation versions of an inquiry, ordered by version letter
// @Tags Quotations
// @Produce json
// @Param id path string true "Inquiry ID"
// @Success 200 {array} domain.QuotationSummaryDTO
// @Failure 400 {object} domain.APIError "Invalid ID"
// @Failure 404 {object} domain.APIError "Inquiry not found"
// @Failure 500 {object} domain.APIError
// @Router /inquiries/{id}/quotations [get]
func (h *QuotationHandler) ListByInquiry(w http.ResponseWriter, r *http.Request) {
	inquiryID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid inquiry ID: must be a valid UUID")
		return
	}

	quotations, err := h.quotationService.ListByInquiry(r.Context(), inquiryID)
	if err != nil {
		h.logger.Error("failed to list quotations", zap.Error(err), zap.String("inquiry_id", inquiryID.String()))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, quotations)
}

// CreateVersion godoc
// @Summary Create quotation version
// @Description Creates a new draft quotation version for an inquiry with a pre-generated itinerary skeleton
// @Tags Quotations
// @Produce json
// @Param id path string true "Inquiry ID"
// @Success 201 {object} domain.QuotationDTO
// @Failure 400 {object} domain.APIError "Invalid ID"
// @Failure 404 {object} domain.APIError "Inquiry not found"
// @Failure 409 {object} domain.APIError "Version letters exhausted"
// @Failure 500 {object} domain.APIError
// @Router /inquiries/{id}/quotations [post]
func (h *QuotationHandler) CreateVersion(w http.ResponseWriter, r *http.Request) {
	inquiryID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid inquiry ID: must be a valid UUID")
		return
	}

	quotation, err := h.quotationService.CreateVersion(r.Context(), inquiryID)
	if err != nil {
		h.logger.Error("failed to create quotation version", zap.Error(err), zap.String("inquiry_id", inquiryID.String()))
		respondServiceError(w, err)
		return
	}

	w.Header().Set("Location", "/api/v1/quotations/"+quotation.ID.String())
	respondJSON(w, http.StatusCreated, quotation)
}

// GetByID godoc
// @Summary Get quotation
// @Description Returns a quotation with its itinerary and cost breakdown
// @Tags Quotations
// @Produce json
// @Param id path string true "Quotation ID"
// @Success 200 {object} domain.QuotationDTO
// @Failure 400 {object} domain.APIError "Invalid ID"
// @Failure 404 {object} domain.APIError "Quotation not found"
// @Failure 500 {object} domain.APIError
// @Router /quotations/{id} [get]
func (h *QuotationHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quotation ID: must be a valid UUID")
		return
	}

	quotation, err := h.quotationService.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to get quotation", zap.Error(err), zap.String("quotation_id", id.String()))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, quotation)
}

// UpdateConfiguration godoc
// @Summary Update costing configuration
// @Description Replaces the costing configuration of a draft quotation under optimistic locking
// @Tags Quotations
// @Accept json
// @Produce json
// @Param id path string true "Quotation ID"
// @Param request body domain.UpdateConfigurationRequest true "Configuration and expected revision"
// @Success 200 {object} domain.QuotationDTO
// @Failure 400 {object} domain.APIError "Invalid configuration"
// @Failure 404 {object} domain.APIError "Quotation not found"
// @Failure 409 {object} domain.APIError "Not draft or stale revision"
// @Failure 500 {object} domain.APIError
// @Router /quotations/{id}/configuration [put]
func (h *QuotationHandler) UpdateConfiguration(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quotation ID: must be a valid UUID")
		return
	}

	var req domain.UpdateConfigurationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	quotation, err := h.quotationService.UpdateConfiguration(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("failed to update costing configuration", zap.Error(err), zap.String("quotation_id", id.String()))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, quotation)
}

// GetBreakdown godoc
// @Summary Get cost breakdown
// @Description Returns the cost breakdown; recomputed live for drafts, frozen as sent for later statuses
// @Tags Quotations
// @Produce json
// @Param id path string true "Quotation ID"
// @Success 200 {object} domain.CostBreakdown
// @Failure 400 {object} domain.APIError "Invalid ID or configuration"
// @Failure 404 {object} domain.APIError "Quotation not found"
// @Failure 500 {object} domain.APIError
// @Router /quotations/{id}/breakdown [get]
func (h *QuotationHandler) GetBreakdown(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quotation ID: must be a valid UUID")
		return
	}

	breakdown, err := h.quotationService.GetBreakdown(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to compute breakdown", zap.Error(err), zap.String("quotation_id", id.String()))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, breakdown)
}
