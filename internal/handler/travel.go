package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/travelog/travelog/internal/auth"
	"github.com/travelog/travelog/internal/handler/dto"
	"github.com/travelog/travelog/internal/middleware"
	"github.com/travelog/travelog/internal/service"
)

// TravelHandler handles HTTP requests for travel records.
type TravelHandler struct {
	*Handler
	svc *service.TravelService
}

// NewTravelHandler creates a new TravelHandler.
func NewTravelHandler(base *Handler, svc *service.TravelService) *TravelHandler {
	return &TravelHandler{Handler: base, svc: svc}
}

// List handles GET /travels.
func (h *TravelHandler) List(w http.ResponseWriter, r *http.Request) {
	travels, err := h.svc.List(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	dto.WriteJSON(w, http.StatusOK, dto.DataResponse{Success: true, Data: travels})
}

// Create handles POST /travels.
func (h *TravelHandler) Create(w http.ResponseWriter, r *http.Request) {
	body, ok := h.decodeObject(w, r)
	if !ok {
		return
	}

	travel, err := h.svc.Create(r.Context(), service.TravelInput(body))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("travel_created",
		"travel_id", travel.ID,
		"user_id", auth.UserIDFromContext(r.Context()),
		"request_id", middleware.GetRequestID(r.Context()),
	)

	dto.WriteJSON(w, http.StatusCreated, dto.DataResponse{
		Success: true,
		Message: "Travel created successfully",
		Data:    travel,
	})
}

// Get handles GET /travels/{id}.
func (h *TravelHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := travelID(r)
	if !ok {
		h.writeTravelNotFound(w)
		return
	}

	travel, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	dto.WriteJSON(w, http.StatusOK, dto.DataResponse{Success: true, Data: travel})
}

// Update handles PUT /travels/{id}. Only the fields present in the body change.
func (h *TravelHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := travelID(r)
	if !ok {
		h.writeTravelNotFound(w)
		return
	}

	body, ok := h.decodeObject(w, r)
	if !ok {
		return
	}

	travel, err := h.svc.Update(r.Context(), id, service.TravelInput(body))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("travel_updated", "travel_id", travel.ID)

	dto.WriteJSON(w, http.StatusOK, dto.DataResponse{
		Success: true,
		Message: "Travel updated successfully",
		Data:    travel,
	})
}

// Delete handles DELETE /travels/{id}.
func (h *TravelHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := travelID(r)
	if !ok {
		h.writeTravelNotFound(w)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("travel_deleted", "travel_id", id)
	dto.WriteJSON(w, http.StatusOK, dto.MessageResponse{Success: true, Message: "Travel deleted successfully"})
}

// travelID parses the {id} URL parameter. Anything but a positive integer
// cannot name a travel.
func travelID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
