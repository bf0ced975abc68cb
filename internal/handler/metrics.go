package handler

import (
	"fmt"
	"net/http"
	"slices"

	"github.com/travelog/travelog/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "travelog_logins_total{status=\"success\"} %d\n", snap.LoginsSucceeded)
	writeMetric(w, "travelog_logins_total{status=\"failed\"} %d\n", snap.LoginsFailed)
	writeMetric(w, "travelog_token_refreshes_total{status=\"success\"} %d\n", snap.TokensRefreshed)
	writeMetric(w, "travelog_token_refreshes_total{status=\"denied\"} %d\n", snap.RefreshesDenied)
	writeMetric(w, "travelog_logouts_total %d\n", snap.Logouts)

	reasons := make([]string, 0, len(snap.AuthRejected))
	for reason := range snap.AuthRejected {
		reasons = append(reasons, reason)
	}
	slices.Sort(reasons)
	for _, reason := range reasons {
		writeMetric(w, "travelog_auth_rejected_total{reason=%q} %d\n", reason, snap.AuthRejected[reason])
	}

	writeMetric(w, "travelog_travels_created_total %d\n", snap.TravelsCreated)
	writeMetric(w, "travelog_travels_updated_total %d\n", snap.TravelsUpdated)
	writeMetric(w, "travelog_travels_deleted_total %d\n", snap.TravelsDeleted)

	writeMetric(w, "travelog_http_request_duration_seconds_count %d\n", snap.RequestDurationCount)
	writeMetric(w, "travelog_http_request_duration_seconds_sum %.6f\n", float64(snap.RequestDurationTotalNs)/1e9)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
