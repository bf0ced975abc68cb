// Package handler provides HTTP request handlers.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/travelog/travelog/internal/handler/dto"
	"github.com/travelog/travelog/internal/middleware"
	"github.com/travelog/travelog/internal/service"
)

// Handler carries what every handler needs to answer with an envelope.
type Handler struct {
	logger        *slog.Logger
	isDevelopment bool
}

// New creates a new Handler instance.
// In development, unexpected errors include the underlying error text.
func New(logger *slog.Logger, isDevelopment bool) *Handler {
	return &Handler{logger: logger, isDevelopment: isDevelopment}
}

// NotFound handles 404 responses.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	dto.WriteError(w, http.StatusNotFound,
		dto.NewError(dto.KindNotFound, dto.CodeRouteNotFound, "Route not found"))
}

// MethodNotAllowed handles 405 responses.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	dto.WriteError(w, http.StatusMethodNotAllowed,
		dto.NewError(dto.KindNotFound, dto.CodeMethodNotAllowed, "Method not allowed"))
}

// handleServiceError maps service errors to envelopes.
func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *service.ValidationError

	switch {
	case errors.As(err, &verr):
		resp := dto.NewError(dto.KindValidation, dto.CodeValidationFailed, "Invalid data")
		resp.Errors = verr.Fields
		dto.WriteError(w, http.StatusUnprocessableEntity, resp)
	case errors.Is(err, service.ErrTravelNotFound):
		h.writeTravelNotFound(w)
	case errors.Is(err, service.ErrInvalidCredentials):
		middleware.WriteUnauthenticated(w, dto.CodeInvalidCredentials, "Invalid credentials")
	case errors.Is(err, service.ErrRefreshDenied):
		middleware.WriteUnauthenticated(w, dto.CodeRefreshDenied, "Token cannot be refreshed")
	case errors.Is(err, service.ErrTokenMissing):
		middleware.WriteUnauthenticated(w, dto.CodeTokenMissing, "Authentication token not provided")
	default:
		h.writeUnexpected(w, r, err)
	}
}

func (h *Handler) writeTravelNotFound(w http.ResponseWriter) {
	dto.WriteError(w, http.StatusNotFound,
		dto.NewError(dto.KindNotFound, dto.CodeTravelNotFound, "Travel not found"))
}

func (h *Handler) writeUnexpected(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("internal_error",
		"error", err,
		"endpoint", r.Method+" "+r.URL.Path,
		"request_id", middleware.GetRequestID(r.Context()),
	)

	resp := dto.NewError(dto.KindUnexpected, dto.CodeInternalError, "Internal server error")
	if h.isDevelopment {
		resp.Error = err.Error()
	}
	dto.WriteError(w, http.StatusInternalServerError, resp)
}

// decodeObject reads a JSON object body. An empty body decodes as an empty
// object so that required-field validation reports what is missing.
// It writes the error response itself and returns false on failure.
func (h *Handler) decodeObject(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	body := make(map[string]any)
	err := json.NewDecoder(r.Body).Decode(&body)
	if err == nil || errors.Is(err, io.EOF) {
		return body, true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		dto.WriteError(w, http.StatusRequestEntityTooLarge,
			dto.NewError(dto.KindValidation, dto.CodeRequestTooLarge, "Request body too large"))
		return nil, false
	}

	resp := dto.NewError(dto.KindValidation, dto.CodeInvalidJSON, "Invalid data")
	if h.isDevelopment {
		resp.Error = err.Error()
	}
	dto.WriteError(w, http.StatusUnprocessableEntity, resp)
	return nil, false
}
