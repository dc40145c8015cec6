package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/atlasvoyages/quotation-api/internal/domain"
	"github.com/atlasvoyages/quotation-api/internal/service"
)

// InquiryHandler handles HTTP requests for travel inquiries
type InquiryHandler struct {
	inquiryService *service.InquiryService
	logger         *zap.Logger
}

// NewInquiryHandler creates a new InquiryHandler
func NewInquiryHandler(inquiryService *service.InquiryService, logger *zap.Logger) *InquiryHandler {
	return &InquiryHandler{
		inquiryService: inquiryService,
		logger:         logger,
	}
}

// List godoc
// @Summary List inquiries
// @Description Returns a paginated list of inquiries
// @Tags Inquiries
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Param destination query string false "Filter by destination (substring match)"
// @Success 200 {object} domain.PaginatedResponse[domain.InquiryDTO]
// @Failure 500 {object} domain.APIError
// @Router /inquiries [get]
func (h *InquiryHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := paginationParams(r)
	destination := r.URL.Query().Get("destination")

	result, err := h.inquiryService.List(r.Context(), page, pageSize, destination)
	if err != nil {
		h.logger.Error("failed to list inquiries", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list inquiries")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Create godoc
// @Summary Create inquiry
// @Description Creates a new inquiry and allocates its yearly sequence code
// @Tags Inquiries
// @Accept json
// @Produce json
// @Param request body domain.CreateInquiryRequest true "Inquiry data"
// @Success 201 {object} domain.InquiryDTO
// @Failure 400 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Router /inquiries [post]
func (h *InquiryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateInquiryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	inquiry, err := h.inquiryService.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create inquiry", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	w.Header().Set("Location", "/api/v1/inquiries/"+inquiry.ID.String())
	respondJSON(w, http.StatusCreated, inquiry)
}

// GetByID godoc
// @Summary Get inquiry
// @Description Returns a specific inquiry by ID
// @Tags Inquiries
// @Produce json
// @Param id path string true "Inquiry ID"
// @Success 200 {object} domain.InquiryDTO
// @Failure 400 {object} domain.APIError "Invalid ID"
// @Failure 404 {object} domain.APIError "Inquiry not found"
// @Failure 500 {object} domain.APIError
// @Router /inquiries/{id} [get]
func (h *InquiryHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid inquiry ID: must be a valid UUID")
		return
	}

	inquiry, err := h.inquiryService.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to get inquiry", zap.Error(err), zap.String("inquiry_id", id.String()))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, inquiry)
}

// Update godoc
// @Summary Update inquiry
// @Description Updates inquiry fields; rejected once any quotation has left draft
// @Tags Inquiries
// @Accept json
// @Produce json
// @Param id path string true "Inquiry ID"
// @Param request body domain.UpdateInquiryRequest true "Fields to update"
// @Success 200 {object} domain.InquiryDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError "Inquiry not found"
// @Failure 409 {object} domain.APIError "Inquiry locked"
// @Failure 500 {object} domain.APIError
// @Router /inquiries/{id} [put]
func (h *InquiryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid inquiry ID: must be a valid UUID")
		return
	}

	var req domain.UpdateInquiryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	inquiry, err := h.inquiryService.Update(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("failed to update inquiry", zap.Error(err), zap.String("inquiry_id", id.String()))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, inquiry)
}

// paginationParams reads page/pageSize query params with sane bounds
func paginationParams(r *http.Request) (int, int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 200 {
		pageSize = 200
	}
	return page, pageSize
}
