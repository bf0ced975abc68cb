package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/travelog/travelog/internal/handler/dto"
	"github.com/travelog/travelog/internal/metrics"
)

func TestRecoverer_WritesEnvelope(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})

	rec := httptest.NewRecorder()
	Recoverer(logger, false)(handler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/travels", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}

	var body dto.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Kind != dto.KindUnexpected || body.Code != dto.CodeInternalError {
		t.Errorf("envelope = %+v", body)
	}
	if body.Error != "" {
		t.Errorf("panic value leaked outside development: %q", body.Error)
	}
	if !strings.Contains(buf.String(), "panic recovered") {
		t.Errorf("panic not logged: %s", buf.String())
	}
}

func TestRecoverer_DevelopmentDetail(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))
	handler := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("nil travel")
	})

	rec := httptest.NewRecorder()
	Recoverer(logger, true)(handler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/travels/1", nil))

	var body dto.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error != "nil travel" {
		t.Errorf("error = %q, want panic value", body.Error)
	}
}

func TestRecoverer_ReraisesAbort(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))
	handler := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	})

	defer func() {
		if rvr := recover(); rvr != http.ErrAbortHandler {
			t.Errorf("recovered %v, want http.ErrAbortHandler", rvr)
		}
	}()
	Recoverer(logger, false)(handler).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
}

func TestRecoverer_PassesThrough(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})

	rec := httptest.NewRecorder()
	Recoverer(logger, false)(handler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusAccepted {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusAccepted)
	}
}

func TestMetrics_ObservesDuration(t *testing.T) {
	t.Parallel()

	recorder := metrics.NewInMemory()
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	Metrics(recorder)(handler).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	Metrics(recorder)(handler).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if got := recorder.Snapshot().RequestDurationCount; got != 2 {
		t.Errorf("request count = %d, want 2", got)
	}
}
