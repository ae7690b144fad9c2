package core

import "time"

// Recorder defines the interface for recording application metrics.
// Implementations include Metrics (Prometheus-based) and NoopMetrics (no-op).
type Recorder interface {
	// Client side
	RecordTokenRefresh(success bool)
	RecordIdentityCall(action string, success bool, duration time.Duration)
	RecordSubmission(outcome string, duration time.Duration)

	// Attendance backend
	RecordScan(result string)
	RecordQRCodeMinted()
	RecordSessionOpened()
	RecordSessionClosed()
	RecordAuthFailure(reason string)

	// Gauge Setters (for periodic updates)
	SetActiveSessionsCount(count int)

	// Database Operations
	RecordDatabaseQueryError(operation string)
}

// MetricsStore defines the DB operations needed by the gauge updater.
type MetricsStore interface {
	CountActiveSessions() (int64, error)
}
