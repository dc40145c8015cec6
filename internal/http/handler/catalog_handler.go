package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/atlasvoyages/quotation-api/internal/domain"
	"github.com/atlasvoyages/quotation-api/internal/service"
)

// CatalogHandler handles HTTP requests for the rate catalog
type CatalogHandler struct {
	catalogService *service.CatalogService
	logger         *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalogService *service.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// List godoc
// @Summary List catalog rates
// @Description Returns a paginated list of catalog rates, optionally filtered by service type and city
// @Tags Catalog
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Param serviceType query string false "Filter by service type"
// @Param city query string false "Filter by city"
// @Success 200 {object} domain.PaginatedResponse[domain.CatalogRateDTO]
// @Failure 400 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Router /rates [get]
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := paginationParams(r)

	var serviceType *domain.ServiceType
	if st := r.URL.Query().Get("serviceType"); st != "" {
		parsed := domain.ServiceType(st)
		if !parsed.IsValid() {
			respondWithError(w, http.StatusBadRequest, "Invalid service type: "+st)
			return
		}
		serviceType = &parsed
	}

	result, err := h.catalogService.ListRates(r.Context(), page, pageSize, serviceType, r.URL.Query().Get("city"))
	if err != nil {
		h.logger.Error("failed to list catalog rates", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list catalog rates")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Create godoc
// @Summary Create catalog rate
// @Description Adds a supplier rate to the catalog
// @Tags Catalog
// @Accept json
// @Produce json
// @Param request body domain.CreateCatalogRateRequest true "Rate data"
// @Success 201 {object} domain.CatalogRateDTO
// @Failure 400 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Router /rates [post]
func (h *CatalogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateCatalogRateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	rate, err := h.catalogService.AddRate(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create catalog rate", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, rate)
}

// Search godoc
// @Summary Search eligible rates
// @Description Returns catalog rates eligible for a service slot, sorted by supplier then unit cost. An empty list is a valid answer; the caller picks the rate.
// @Tags Catalog
// @Produce json
// @Param serviceType query string true "Service type"
// @Param city query string true "City"
// @Param travelDate query string true "Travel date (YYYY-MM-DD)"
// @Param paxCount query int true "Traveller count"
// @Param roomType query string false "Room type (hotel rates only)"
// @Param mealPlan query string false "Meal plan (hotel rates only)"
// @Success 200 {array} domain.CatalogRateDTO
// @Failure 400 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Router /rates/search [get]
func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	serviceType := domain.ServiceType(q.Get("serviceType"))
	if !serviceType.IsValid() {
		respondWithError(w, http.StatusBadRequest, "Invalid or missing service type")
		return
	}

	city := q.Get("city")
	if city == "" {
		respondWithError(w, http.StatusBadRequest, "City is required")
		return
	}

	travelDate, err := time.Parse("2006-01-02", q.Get("travelDate"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid travel date: must be YYYY-MM-DD")
		return
	}

	paxCount, err := strconv.Atoi(q.Get("paxCount"))
	if err != nil || paxCount < 1 {
		respondWithError(w, http.StatusBadRequest, "Invalid pax count: must be a positive integer")
		return
	}

	rates, err := h.catalogService.FindRates(r.Context(), service.RateQuery{
		ServiceType: serviceType,
		City:        city,
		TravelDate:  travelDate,
		PaxCount:    paxCount,
		RoomType:    q.Get("roomType"),
		MealPlan:    q.Get("mealPlan"),
	})
	if err != nil {
		h.logger.Error("failed to search catalog rates", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to search catalog rates")
		return
	}

	respondJSON(w, http.StatusOK, rates)
}
