package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/travelog/travelog/internal/auth"
	"github.com/travelog/travelog/internal/handler/dto"
	"github.com/travelog/travelog/internal/metrics"
	"github.com/travelog/travelog/internal/model"
	"github.com/travelog/travelog/internal/service"
)

type authenticatorFunc func(ctx context.Context, token string) (*model.AuthContext, error)

func (f authenticatorFunc) Authenticate(ctx context.Context, token string) (*model.AuthContext, error) {
	return f(ctx, token)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestExtractBearerToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"missing", "", ""},
		{"bearer", "Bearer abc.def.ghi", "abc.def.ghi"},
		{"lowercase scheme", "bearer abc", "abc"},
		{"extra spaces", "  Bearer   abc  ", "abc"},
		{"basic scheme", "Basic dXNlcjpwYXNz", ""},
		{"scheme only", "Bearer", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			require.Equal(t, tt.want, ExtractBearerToken(req))
		})
	}
}

func TestAuth_Success(t *testing.T) {
	t.Parallel()

	user := &model.User{ID: 7, Email: "admin@admin.com"}
	authn := authenticatorFunc(func(_ context.Context, token string) (*model.AuthContext, error) {
		require.Equal(t, "good-token", token)
		return &model.AuthContext{User: user, TokenID: "01JTESTTOKEN"}, nil
	})

	var seen *model.AuthContext
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = auth.AuthFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	mw := Auth(AuthConfig{Logger: discardLogger(), Authenticator: authn})
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	mw(next).ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, seen)
	require.Equal(t, int64(7), seen.UserID())
	require.Equal(t, "01JTESTTOKEN", seen.TokenID)
}

func TestAuth_Rejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err    error
		code   string
		reason string
	}{
		{service.ErrTokenMissing, dto.CodeTokenMissing, metrics.ReasonTokenMissing},
		{service.ErrTokenMalformed, dto.CodeTokenMalformed, metrics.ReasonTokenMalformed},
		{fmt.Errorf("%w: signature", service.ErrTokenMalformed), dto.CodeTokenMalformed, metrics.ReasonTokenMalformed},
		{service.ErrTokenExpired, dto.CodeTokenExpired, metrics.ReasonTokenExpired},
		{service.ErrTokenRevoked, dto.CodeTokenRevoked, metrics.ReasonTokenRevoked},
		{service.ErrUserNotFound, dto.CodeUserNotFound, metrics.ReasonUserNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			t.Parallel()

			recorder := metrics.NewInMemory()
			authn := authenticatorFunc(func(context.Context, string) (*model.AuthContext, error) {
				return nil, tt.err
			})
			called := false
			next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true })

			mw := Auth(AuthConfig{Logger: discardLogger(), Authenticator: authn, Metrics: recorder})
			rec := httptest.NewRecorder()
			mw(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/me", nil))

			require.False(t, called)
			require.Equal(t, http.StatusUnauthorized, rec.Code)
			require.NotEmpty(t, rec.Header().Get("WWW-Authenticate"))

			var body dto.ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			require.False(t, body.Success)
			require.Equal(t, dto.KindUnauthenticated, body.Kind)
			require.Equal(t, tt.code, body.Code)
			require.Equal(t, uint64(1), recorder.Snapshot().AuthRejected[tt.reason])
		})
	}
}

func TestAuth_UnexpectedError(t *testing.T) {
	t.Parallel()

	authn := authenticatorFunc(func(context.Context, string) (*model.AuthContext, error) {
		return nil, errors.New("redis: connection refused")
	})
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("next must not be called")
	})

	mw := Auth(AuthConfig{Logger: discardLogger(), Authenticator: authn})
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer x")
	rec := httptest.NewRecorder()
	mw(next).ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Equal(t, dto.KindUnexpected, body.Kind)
	require.Equal(t, dto.CodeInternalError, body.Code)
	require.NotContains(t, body.Message, "redis")
}
