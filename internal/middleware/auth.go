package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/travelog/travelog/internal/auth"
	"github.com/travelog/travelog/internal/handler/dto"
	"github.com/travelog/travelog/internal/metrics"
	"github.com/travelog/travelog/internal/model"
	"github.com/travelog/travelog/internal/service"
)

// Authenticator resolves a bearer token to the caller.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.AuthContext, error)
}

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	Logger        *slog.Logger
	Authenticator Authenticator
	Metrics       metrics.Recorder
}

type rejection struct {
	reason  string
	code    string
	message string
}

var rejections = []struct {
	err error
	rejection
}{
	{service.ErrTokenMissing, rejection{metrics.ReasonTokenMissing, dto.CodeTokenMissing, "Authentication token not provided"}},
	{service.ErrTokenMalformed, rejection{metrics.ReasonTokenMalformed, dto.CodeTokenMalformed, "Invalid authentication token"}},
	{service.ErrTokenExpired, rejection{metrics.ReasonTokenExpired, dto.CodeTokenExpired, "Authentication token expired"}},
	{service.ErrTokenRevoked, rejection{metrics.ReasonTokenRevoked, dto.CodeTokenRevoked, "Authentication token revoked"}},
	{service.ErrUserNotFound, rejection{metrics.ReasonUserNotFound, dto.CodeUserNotFound, "User not found"}},
}

// Auth returns a middleware that authenticates API requests.
// It extracts the bearer token from the Authorization header,
// resolves it, and injects the auth context into the request.
// Rejected requests never reach next.
func Auth(cfg AuthConfig) func(http.Handler) http.Handler {
	recorder := cfg.Metrics
	if recorder == nil {
		recorder = metrics.NewNoop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractBearerToken(r)

			authCtx, err := cfg.Authenticator.Authenticate(r.Context(), token)
			if err != nil {
				rej, ok := classify(err)
				if !ok {
					cfg.Logger.Error("authentication unavailable",
						slog.String("error", err.Error()),
						slog.String("endpoint", r.Method+" "+r.URL.Path),
						slog.String("request_id", GetRequestID(r.Context())),
					)
					dto.WriteError(w, http.StatusInternalServerError,
						dto.NewError(dto.KindUnexpected, dto.CodeInternalError, "Internal server error"))
					return
				}

				recorder.IncAuthRejected(rej.reason)
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", rej.reason),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				WriteUnauthenticated(w, rej.code, rej.message)
				return
			}

			cfg.Logger.Debug("authentication successful",
				slog.Int64("user_id", authCtx.UserID()),
				slog.String("endpoint", r.Method+" "+r.URL.Path),
				slog.String("request_id", GetRequestID(r.Context())),
			)

			annotateUser(r.Context(), authCtx.UserID())
			ctx := auth.ContextWithAuth(r.Context(), authCtx)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func classify(err error) (rejection, bool) {
	for _, r := range rejections {
		if errors.Is(err, r.err) {
			return r.rejection, true
		}
	}
	return rejection{}, false
}

// ExtractBearerToken returns the token from "Authorization: Bearer <token>".
// The scheme is matched case-insensitively. Returns "" when absent.
func ExtractBearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// WriteUnauthenticated writes a 401 envelope with the given code.
func WriteUnauthenticated(w http.ResponseWriter, code, message string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="travelog"`)
	dto.WriteError(w, http.StatusUnauthorized, dto.NewError(dto.KindUnauthenticated, code, message))
}
