package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/travelog/travelog/internal/metrics"
)

func TestMetricsHandler_Exposition(t *testing.T) {
	recorder := metrics.NewInMemory()
	recorder.IncLoginSucceeded()
	recorder.IncLoginFailed()
	recorder.IncLoginFailed()
	recorder.IncAuthRejected(metrics.ReasonTokenRevoked)
	recorder.IncAuthRejected(metrics.ReasonTokenExpired)
	recorder.IncTravelCreated()
	recorder.ObserveRequestDuration(1500 * time.Millisecond)

	h := NewMetricsHandler(recorder)
	rec := httptest.NewRecorder()
	h.Metrics(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	body := rec.Body.String()
	want := []string{
		`travelog_logins_total{status="success"} 1`,
		`travelog_logins_total{status="failed"} 2`,
		`travelog_auth_rejected_total{reason="token_expired"} 1`,
		`travelog_auth_rejected_total{reason="token_revoked"} 1`,
		`travelog_travels_created_total 1`,
		`travelog_http_request_duration_seconds_count 1`,
		`travelog_http_request_duration_seconds_sum 1.500000`,
	}
	for _, line := range want {
		if !strings.Contains(body, line) {
			t.Errorf("missing %q in:\n%s", line, body)
		}
	}

	if strings.Index(body, "token_expired") > strings.Index(body, "token_revoked") {
		t.Error("rejection reasons are not sorted")
	}
}

func TestMetricsHandler_NoSnapshotter(t *testing.T) {
	h := NewMetricsHandler(nil)
	rec := httptest.NewRecorder()
	h.Metrics(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", rec.Code)
	}
}
