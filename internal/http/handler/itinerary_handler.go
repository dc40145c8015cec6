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

// ItineraryHandler handles HTTP requests for the day/line-item structure of draft quotations
type ItineraryHandler struct {
	itineraryService *service.ItineraryService
	logger           *zap.Logger
}

// NewItineraryHandler creates a new ItineraryHandler
func NewItineraryHandler(itineraryService *service.ItineraryService, logger *zap.Logger) *ItineraryHandler {
	return &ItineraryHandler{
		itineraryService: itineraryService,
		logger:           logger,
	}
}

// quotationAndDay parses the quotation ID and day number path params
func quotationAndDay(w http.ResponseWriter, r *http.Request) (uuid.UUID, int, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quotation ID: must be a valid UUID")
		return uuid.Nil, 0, false
	}
	dayNumber, err := strconv.Atoi(chi.URLParam(r, "dayNumber"))
	if err != nil || dayNumber < 1 {
		respondWithError(w, http.StatusBadRequest, "Invalid day number: must be a positive integer")
		return uuid.Nil, 0, false
	}
	return id, dayNumber, true
}

// AddDay godoc
// @Summary Add itinerary day
// @Description Appends a day to the end of a draft quotation's itinerary
// @Tags Itinerary
// @Accept json
// @Produce json
// @Param id path string true "Quotation ID"
// @Param request body domain.AddDayRequest true "Day data"
// @Success 201 {object} domain.ItineraryDayDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError "Quotation not found"
// @Failure 409 {object} domain.APIError "Not in draft status"
// @Failure 500 {object} domain.APIError
// @Router /quotations/{id}/days [post]
func (h *ItineraryHandler) AddDay(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quotation ID: must be a valid UUID")
		return
	}

	var req domain.AddDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	day, err := h.itineraryService.AddDay(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("failed to add day", zap.Error(err), zap.String("quotation_id", id.String()))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, day)
}

// UpdateDay godoc
// @Summary Update itinerary day
// @Description Edits the city or note of a day on a draft quotation
// @Tags Itinerary
// @Accept json
// @Produce json
// @Param id path string true "Quotation ID"
// @Param dayNumber path int true "Day number (1-based)"
// @Param request body domain.UpdateDayRequest true "Fields to update"
// @Success 200 {object} domain.ItineraryDayDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError "Quotation or day not found"
// @Failure 409 {object} domain.APIError "Not in draft status"
// @Failure 500 {object} domain.APIError
// @Router /quotations/{id}/days/{dayNumber} [put]
func (h *ItineraryHandler) UpdateDay(w http.ResponseWriter, r *http.Request) {
	id, dayNumber, ok := quotationAndDay(w, r)
	if !ok {
		return
	}

	var req domain.UpdateDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	day, err := h.itineraryService.UpdateDay(r.Context(), id, dayNumber, &req)
	if err != nil {
		h.logger.Error("failed to update day", zap.Error(err),
			zap.String("quotation_id", id.String()), zap.Int("day_number", dayNumber))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, day)
}

// RemoveDay godoc
// @Summary Remove itinerary day
// @Description Removes a day from a draft quotation and renumbers the later days
// @Tags Itinerary
// @Param id path string true "Quotation ID"
// @Param dayNumber path int true "Day number (1-based)"
// @Success 204 "No Content"
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError "Quotation or day not found"
// @Failure 409 {object} domain.APIError "Not in draft status"
// @Failure 500 {object} domain.APIError
// @Router /quotations/{id}/days/{dayNumber} [delete]
func (h *ItineraryHandler) RemoveDay(w http.ResponseWriter, r *http.Request) {
	id, dayNumber, ok := quotationAndDay(w, r)
	if !ok {
		return
	}

	if err := h.itineraryService.RemoveDay(r.Context(), id, dayNumber); err != nil {
		h.logger.Error("failed to remove day", zap.Error(err),
			zap.String("quotation_id", id.String()), zap.Int("day_number", dayNumber))
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RegenerateDays godoc
// @Summary Regenerate itinerary days
// @Description Rewrites the itinerary against a new travel window, re-dating retained days and trimming or appending the tail
// @Tags Itinerary
// @Accept json
// @Produce json
// @Param id path string true "Quotation ID"
// @Param request body domain.RegenerateDaysRequest true "New travel window"
// @Success 204 "No Content"
// @Failure 400 {object} domain.APIError "Invalid window"
// @Failure 404 {object} domain.APIError "Quotation not found"
// @Failure 409 {object} domain.APIError "Not in draft status"
// @Failure 500 {object} domain.APIError
// @Router /quotations/{id}/days/regenerate [post]
func (h *ItineraryHandler) RegenerateDays(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quotation ID: must be a valid UUID")
		return
	}

	var req domain.RegenerateDaysRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	if err := h.itineraryService.RegenerateDays(r.Context(), id, &req); err != nil {
		h.logger.Error("failed to regenerate days", zap.Error(err), zap.String("quotation_id", id.String()))
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddLineItem godoc
// @Summary Add line item
// @Description Attaches a service line item to a day, either catalog-linked or manually priced
// @Tags Itinerary
// @Accept json
// @Produce json
// @Param id path string true "Quotation ID"
// @Param dayNumber path int true "Day number (1-based)"
// @Param request body domain.AddLineItemRequest true "Line item data"
// @Success 201 {object} domain.LineItemDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError "Quotation, day or rate not found"
// @Failure 409 {object} domain.APIError "Not in draft status"
// @Failure 500 {object} domain.APIError
// @Router /quotations/{id}/days/{dayNumber}/items [post]
func (h *ItineraryHandler) AddLineItem(w http.ResponseWriter, r *http.Request) {
	id, dayNumber, ok := quotationAndDay(w, r)
	if !ok {
		return
	}

	var req domain.AddLineItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	item, err := h.itineraryService.AttachLineItem(r.Context(), id, dayNumber, &req)
	if err != nil {
		h.logger.Error("failed to add line item", zap.Error(err),
			zap.String("quotation_id", id.String()), zap.Int("day_number", dayNumber))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, item)
}

// RemoveLineItem godoc
// @Summary Remove line item
// @Description Detaches a line item from a draft quotation
// @Tags Itinerary
// @Param id path string true "Quotation ID"
// @Param itemId path string true "Line item ID"
// @Success 204 "No Content"
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError "Quotation or item not found"
// @Failure 409 {object} domain.APIError "Not in draft status"
// @Failure 500 {object} domain.APIError
// @Router /quotations/{id}/items/{itemId} [delete]
func (h *ItineraryHandler) RemoveLineItem(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quotation ID: must be a valid UUID")
		return
	}
	itemID, err := uuid.Parse(chi.URLParam(r, "itemId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid line item ID: must be a valid UUID")
		return
	}

	if err := h.itineraryService.RemoveLineItem(r.Context(), id, itemID); err != nil {
		h.logger.Error("failed to remove line item", zap.Error(err),
			zap.String("quotation_id", id.String()), zap.String("item_id", itemID.String()))
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
