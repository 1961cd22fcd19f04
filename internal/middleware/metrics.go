package middleware

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"
)

// Metrics stores application metrics
type Metrics struct {
	RequestsTotal      uint64
	RequestsInProgress uint64
	RequestsSuccess    uint64
	RequestsFailed     uint64
	ValidationsTotal   uint64
	OverridesTotal     uint64
	SubmissionsTotal   uint64
	MachineDownAlerts  uint64
	StartTime          time.Time
}

var globalMetrics = &Metrics{
	StartTime: time.Now(),
}

// IncrementValidations counts quality-gate validation runs
func IncrementValidations() {
	atomic.AddUint64(&globalMetrics.ValidationsTotal, 1)
}

// IncrementOverrides counts supervisor overrides of the quality gate
func IncrementOverrides() {
	atomic.AddUint64(&globalMetrics.OverridesTotal, 1)
}

// IncrementSubmissions counts end-of-day submissions
func IncrementSubmissions() {
	atomic.AddUint64(&globalMetrics.SubmissionsTotal, 1)
}

// IncrementMachineDownAlerts counts machine-down NCA reports
func IncrementMachineDownAlerts() {
	atomic.AddUint64(&globalMetrics.MachineDownAlerts, 1)
}

// GetMetrics returns current metrics
func GetMetrics() map[string]interface{} {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return map[string]interface{}{
		"requests_total":       atomic.LoadUint64(&globalMetrics.RequestsTotal),
		"requests_in_progress": atomic.LoadUint64(&globalMetrics.RequestsInProgress),
		"requests_success":     atomic.LoadUint64(&globalMetrics.RequestsSuccess),
		"requests_failed":      atomic.LoadUint64(&globalMetrics.RequestsFailed),
		"validations_total":    atomic.LoadUint64(&globalMetrics.ValidationsTotal),
		"overrides_total":      atomic.LoadUint64(&globalMetrics.OverridesTotal),
		"submissions_total":    atomic.LoadUint64(&globalMetrics.SubmissionsTotal),
		"machine_down_alerts":  atomic.LoadUint64(&globalMetrics.MachineDownAlerts),
		"uptime_seconds":       time.Since(globalMetrics.StartTime).Seconds(),
		"memory": map[string]interface{}{
			"alloc_bytes":       m.Alloc,
			"total_alloc_bytes": m.TotalAlloc,
			"sys_bytes":         m.Sys,
			"num_gc":            m.NumGC,
		},
		"goroutines": runtime.NumGoroutine(),
	}
}

// MetricsMiddleware tracks request metrics
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddUint64(&globalMetrics.RequestsTotal, 1)
		atomic.AddUint64(&globalMetrics.RequestsInProgress, 1)
		defer atomic.AddUint64(&globalMetrics.RequestsInProgress, ^uint64(0))

		wrapped := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(wrapped, r)

		if wrapped.statusCode >= 200 && wrapped.statusCode < 400 {
			atomic.AddUint64(&globalMetrics.RequestsSuccess, 1)
		} else {
			atomic.AddUint64(&globalMetrics.RequestsFailed, 1)
		}
	})
}

// MetricsHandler returns metrics as JSON
func MetricsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(GetMetrics())
}
