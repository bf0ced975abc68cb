package handler

import (
	"net/http"

	"github.com/travelog/travelog/internal/auth"
	"github.com/travelog/travelog/internal/handler/dto"
	"github.com/travelog/travelog/internal/middleware"
	"github.com/travelog/travelog/internal/service"
)

// AuthHandler handles login, logout, refresh and the current user.
type AuthHandler struct {
	*Handler
	svc *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(base *Handler, svc *service.AuthService) *AuthHandler {
	return &AuthHandler{Handler: base, svc: svc}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	body, ok := h.decodeObject(w, r)
	if !ok {
		return
	}

	result, err := h.svc.Login(r.Context(), service.LoginInput{
		Email:    body["email"],
		Password: body["password"],
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("login_succeeded",
		"user_id", result.User.ID,
		"request_id", middleware.GetRequestID(r.Context()),
	)

	dto.WriteJSON(w, http.StatusOK, dto.LoginResponse{
		Success: true,
		Message: "Login successful",
		Data: dto.LoginData{
			Token:     result.Token.Token,
			TokenType: result.Token.TokenType,
			ExpiresIn: result.Token.ExpiresIn,
			User:      result.User,
		},
	})
}

// Logout handles POST /auth/logout. Requires the auth middleware.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Logout(r.Context(), auth.TokenIDFromContext(r.Context())); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("logout", "user_id", auth.UserIDFromContext(r.Context()))
	dto.WriteJSON(w, http.StatusOK, dto.MessageResponse{Success: true, Message: "Logout successful"})
}

// Refresh handles POST /auth/refresh. It reads the bearer token itself
// because expired tokens are accepted here.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	issued, err := h.svc.Refresh(r.Context(), middleware.ExtractBearerToken(r))
	if err != nil {
		h.logger.Warn("refresh_denied",
			"error", err,
			"request_id", middleware.GetRequestID(r.Context()),
		)
		h.handleServiceError(w, r, err)
		return
	}

	dto.WriteJSON(w, http.StatusOK, dto.RefreshResponse{
		Success:   true,
		Token:     issued.Token,
		TokenType: issued.TokenType,
		ExpiresIn: issued.ExpiresIn,
	})
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	dto.WriteJSON(w, http.StatusOK, dto.MeResponse{
		Success: true,
		User:    auth.UserFromContext(r.Context()),
	})
}
