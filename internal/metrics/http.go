package metrics

import (
	"strconv"
	"time"

	"github.com/SC0R9I0N/qr-class-manager/internal/core"

	"github.com/gin-gonic/gin"
)

const (
	resultSuccess = "success"
	resultError   = "error"
)

// HTTPMetricsMiddleware creates a Gin middleware that records HTTP metrics
func HTTPMetricsMiddleware(m core.Recorder) gin.HandlerFunc {
	metrics, ok := m.(*Metrics)
	if !ok {
		// NoopMetrics or an unknown implementation
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		// Skip metrics endpoint to avoid self-recording
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()

		metrics.HTTPRequestsInFlight.Inc()
		defer metrics.HTTPRequestsInFlight.Dec()

		c.Next()

		duration := time.Since(start).Seconds()
		method := c.Request.Method
		path := normalizePath(c.FullPath()) // Use route pattern, not actual path
		status := strconv.Itoa(c.Writer.Status())

		metrics.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
	}
}

// normalizePath converts the actual request path to route pattern
// Returns the route pattern (e.g., "/sessions/:id/qr") or "unknown" if no route matched
func normalizePath(fullPath string) string {
	if fullPath == "" {
		return "unknown"
	}
	return fullPath
}

func resultLabel(success bool) string {
	if success {
		return resultSuccess
	}
	return resultError
}

// RecordTokenRefresh records an identity token refresh attempt
func (m *Metrics) RecordTokenRefresh(success bool) {
	m.TokenRefreshTotal.WithLabelValues(resultLabel(success)).Inc()
}

// RecordIdentityCall records one request to the identity provider
func (m *Metrics) RecordIdentityCall(action string, success bool, duration time.Duration) {
	m.IdentityCallsTotal.WithLabelValues(action, resultLabel(success)).Inc()
	m.IdentityCallDuration.WithLabelValues(action).Observe(duration.Seconds())
}

// RecordSubmission records the classified outcome of an attendance submission
func (m *Metrics) RecordSubmission(outcome string, duration time.Duration) {
	m.SubmissionsTotal.WithLabelValues(outcome).Inc()
	m.SubmissionDuration.Observe(duration.Seconds())
}

// RecordScan records how the backend answered a scan
func (m *Metrics) RecordScan(result string) {
	m.ScansTotal.WithLabelValues(result).Inc()
}

// RecordQRCodeMinted records a generated session QR code
func (m *Metrics) RecordQRCodeMinted() {
	m.QRCodesMintedTotal.Inc()
}

// RecordSessionOpened records a newly created class session
func (m *Metrics) RecordSessionOpened() {
	m.SessionsOpenedTotal.Inc()
	m.SessionsActive.Inc()
}

// RecordSessionClosed records a class session being closed
func (m *Metrics) RecordSessionClosed() {
	m.SessionsClosedTotal.Inc()
	m.SessionsActive.Dec()
}

// RecordAuthFailure records a rejected bearer token
func (m *Metrics) RecordAuthFailure(reason string) {
	m.AuthFailuresTotal.WithLabelValues(reason).Inc()
}

// SetActiveSessionsCount sets the current count of active sessions (for periodic updates)
func (m *Metrics) SetActiveSessionsCount(count int) {
	m.SessionsActive.Set(float64(count))
}

// RecordDatabaseQueryError records a database query error during metric collection
func (m *Metrics) RecordDatabaseQueryError(operation string) {
	m.DatabaseQueryErrorsTotal.WithLabelValues(operation).Inc()
}
