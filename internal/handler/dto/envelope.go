// Package dto defines the JSON bodies exchanged with API clients.
package dto

import (
	"encoding/json"
	"net/http"
)

// Kind classifies an error response.
type Kind string

// Error kinds.
const (
	KindValidation      Kind = "validation"
	KindNotFound        Kind = "not_found"
	KindUnauthenticated Kind = "unauthenticated"
	KindUnexpected      Kind = "unexpected"
)

// Stable machine-readable error codes.
const (
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeInvalidJSON        = "INVALID_JSON"
	CodeRequestTooLarge    = "REQUEST_TOO_LARGE"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeTokenMissing       = "TOKEN_MISSING"
	CodeTokenMalformed     = "TOKEN_MALFORMED"
	CodeTokenExpired       = "TOKEN_EXPIRED"
	CodeTokenRevoked       = "TOKEN_REVOKED"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeRefreshDenied      = "REFRESH_DENIED"
	CodeTravelNotFound     = "TRAVEL_NOT_FOUND"
	CodeRouteNotFound      = "ROUTE_NOT_FOUND"
	CodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	CodeInternalError      = "INTERNAL_ERROR"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Code    string              `json:"code"`
	Kind    Kind                `json:"kind"`
	Error   string              `json:"error,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// DataResponse wraps a successful payload.
type DataResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data"`
}

// MessageResponse is a successful response without payload.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// NewError builds an ErrorResponse.
func NewError(kind Kind, code, message string) *ErrorResponse {
	return &ErrorResponse{Success: false, Message: message, Code: code, Kind: kind}
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteError writes resp with the given status code.
func WriteError(w http.ResponseWriter, status int, resp *ErrorResponse) {
	WriteJSON(w, status, resp)
}
