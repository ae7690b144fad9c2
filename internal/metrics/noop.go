package metrics

import (
	"time"

	"github.com/SC0R9I0N/qr-class-manager/internal/core"
)

// NoopMetrics is a no-operation implementation of Recorder
// All methods are empty and do nothing, providing zero overhead when metrics are disabled
type NoopMetrics struct{}

// Ensure NoopMetrics implements Recorder interface at compile time
var _ core.Recorder = (*NoopMetrics)(nil)

// NewNoopMetrics creates a new no-operation metrics recorder
func NewNoopMetrics() core.Recorder {
	return &NoopMetrics{}
}

// Client - noop implementations
func (n *NoopMetrics) RecordTokenRefresh(success bool)                                        {}
func (n *NoopMetrics) RecordIdentityCall(action string, success bool, duration time.Duration) {}
func (n *NoopMetrics) RecordSubmission(outcome string, duration time.Duration)                {}

// Attendance backend - noop implementations
func (n *NoopMetrics) RecordScan(result string)        {}
func (n *NoopMetrics) RecordQRCodeMinted()             {}
func (n *NoopMetrics) RecordSessionOpened()            {}
func (n *NoopMetrics) RecordSessionClosed()            {}
func (n *NoopMetrics) RecordAuthFailure(reason string) {}

// Gauge Setters - noop implementations
func (n *NoopMetrics) SetActiveSessionsCount(count int) {}

// Database Operations - noop implementations
func (n *NoopMetrics) RecordDatabaseQueryError(operation string) {}
