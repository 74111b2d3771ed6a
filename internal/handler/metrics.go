package handler

import (
	"fmt"
	"net/http"

	"github.com/fitlog/fitlog/internal/metrics"
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

	writeMetric(w, "fitlog_users_registered_total %d\n", snap.UsersRegistered)

	writeMetric(w, "fitlog_logins_total{status=\"success\"} %d\n", snap.LoginsSucceeded)
	writeMetric(w, "fitlog_logins_total{status=\"failure\"} %d\n", snap.LoginsFailed)
	writeMetric(w, "fitlog_logins_total{status=\"rate_limited\"} %d\n", snap.LoginsRateLimited)
	writeMetric(w, "fitlog_logouts_total %d\n", snap.Logouts)
	writeMetric(w, "fitlog_password_check_duration_seconds_count %d\n", snap.PasswordCheckCount)
	writeMetric(w, "fitlog_password_check_duration_seconds_sum %.6f\n", float64(snap.PasswordCheckTotalNs)/1e9)

	writeMetric(w, "fitlog_records_created_total %d\n", snap.RecordsCreated)
	writeMetric(w, "fitlog_records_updated_total %d\n", snap.RecordsUpdated)
	writeMetric(w, "fitlog_records_deleted_total %d\n", snap.RecordsDeleted)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
