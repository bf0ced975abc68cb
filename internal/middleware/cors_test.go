package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

const frontendOrigin = "http://localhost:5173"

func corsRequest(t *testing.T, origins []string, method, origin string) *httptest.ResponseRecorder {
	t.Helper()

	handler := CORS(DefaultCORSConfig(origins...))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(method, "/travels", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name       string
		origins    []string
		origin     string
		method     string
		wantStatus int
		wantHeader string
	}{
		{"nothing configured", nil, frontendOrigin, http.MethodGet, http.StatusOK, ""},
		{"front-end allowed", []string{frontendOrigin}, frontendOrigin, http.MethodGet, http.StatusOK, frontendOrigin},
		{"trailing slash in config", []string{frontendOrigin + "/"}, frontendOrigin, http.MethodGet, http.StatusOK, frontendOrigin},
		{"case insensitive", []string{"HTTP://LOCALHOST:5173"}, frontendOrigin, http.MethodGet, http.StatusOK, frontendOrigin},
		{"other origin preflight", []string{frontendOrigin}, "https://evil.test", http.MethodOptions, http.StatusForbidden, ""},
		{"other origin simple request", []string{frontendOrigin}, "https://evil.test", http.MethodGet, http.StatusOK, ""},
		{"preflight", []string{frontendOrigin}, frontendOrigin, http.MethodOptions, http.StatusNoContent, frontendOrigin},
		{"same origin", []string{frontendOrigin}, "", http.MethodGet, http.StatusOK, ""},
		{"any origin", []string{"*"}, "https://travel.example.org", http.MethodGet, http.StatusOK, "https://travel.example.org"},
		{"subdomain", []string{"*.travelog.app"}, "https://admin.travelog.app", http.MethodGet, http.StatusOK, "https://admin.travelog.app"},
		{"nested subdomain with port", []string{"*.travelog.app"}, "http://a.b.travelog.app:8080", http.MethodGet, http.StatusOK, "http://a.b.travelog.app:8080"},
		{"apex is not a subdomain", []string{"*.travelog.app"}, "https://travelog.app", http.MethodGet, http.StatusOK, ""},
		{"suffix lookalike", []string{"*.travelog.app"}, "https://nottravelog.app", http.MethodGet, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := corsRequest(t, tt.origins, tt.method, tt.origin)

			require.Equal(t, tt.wantStatus, rec.Code)
			require.Equal(t, tt.wantHeader, rec.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestCORSPreflightHeaders(t *testing.T) {
	rec := corsRequest(t, []string{frontendOrigin}, http.MethodOptions, frontendOrigin)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "PUT")
	require.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "DELETE")
	require.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")
	require.Equal(t, "86400", rec.Header().Get("Access-Control-Max-Age"))
	require.Equal(t, "X-Request-ID", rec.Header().Get("Access-Control-Expose-Headers"))
	require.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
	require.Equal(t, "Origin", rec.Header().Get("Vary"))
}
