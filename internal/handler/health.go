package handler

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/travelog/travelog/internal/handler/dto"
)

const readinessTimeout = 5 * time.Second

// Readiness check results.
const (
	checkOK            = "ok"
	checkUnavailable   = "unavailable"
	checkNotConfigured = "not configured"
)

// HealthChecker defines an interface for checking service health.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthHandler manages health check endpoints.
type HealthHandler struct {
	deps   []dependency
	logger *slog.Logger
	now    func() time.Time
}

type dependency struct {
	name    string
	checker HealthChecker
}

// NewHealthHandler creates a new HealthHandler.
// Pass nil for db or cache if they are not yet initialized.
func NewHealthHandler(db, cache HealthChecker, logger *slog.Logger) *HealthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthHandler{
		deps: []dependency{
			{name: "postgres", checker: db},
			{name: "redis", checker: cache},
		},
		logger: logger,
		now:    time.Now,
	}
}

// ReadinessResponse represents the liveness and readiness probe response.
type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Health reports that the API is up, with the server time.
// Clients use it to test connectivity.
//
// GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	dto.WriteJSON(w, http.StatusOK, dto.HealthResponse{
		Status:    "ok",
		Timestamp: h.now().UTC().Format(time.RFC3339),
	})
}

// Healthz is the liveness probe. It never touches dependencies.
//
// GET /healthz
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	dto.WriteJSON(w, http.StatusOK, ReadinessResponse{Status: "ok"})
}

// Readyz is the readiness probe. Dependencies are pinged concurrently and it
// returns 200 only if all of them answer within the probe timeout. Ping errors
// are logged; the response only says which dependency failed.
//
// GET /readyz
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	results := make([]string, len(h.deps))
	var wg sync.WaitGroup
	for i, dep := range h.deps {
		if dep.checker == nil {
			results[i] = checkNotConfigured
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := dep.checker.Ping(ctx); err != nil {
				h.logger.Warn("readiness check failed",
					"dependency", dep.name,
					"error", err,
				)
				results[i] = checkUnavailable
				return
			}
			results[i] = checkOK
		}()
	}
	wg.Wait()

	checks := make(map[string]string, len(h.deps))
	status, statusCode := "ok", http.StatusOK
	for i, dep := range h.deps {
		checks[dep.name] = results[i]
		if results[i] == checkUnavailable {
			status, statusCode = "unhealthy", http.StatusServiceUnavailable
		}
	}

	dto.WriteJSON(w, statusCode, ReadinessResponse{
		Status: status,
		Checks: checks,
	})
}
