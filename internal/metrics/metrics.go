package metrics

import (
	"sync"

	"github.com/SC0R9I0N/qr-class-manager/internal/core"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Ensure Metrics implements Recorder interface at compile time
var _ core.Recorder = (*Metrics)(nil)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// Client Metrics
	TokenRefreshTotal    *prometheus.CounterVec
	IdentityCallsTotal   *prometheus.CounterVec
	IdentityCallDuration *prometheus.HistogramVec
	SubmissionsTotal     *prometheus.CounterVec
	SubmissionDuration   prometheus.Histogram

	// Attendance Backend Metrics
	ScansTotal          *prometheus.CounterVec
	QRCodesMintedTotal  prometheus.Counter
	SessionsOpenedTotal prometheus.Counter
	SessionsClosedTotal prometheus.Counter
	SessionsActive      prometheus.Gauge
	AuthFailuresTotal   *prometheus.CounterVec

	// HTTP Request Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Database Query Metrics
	DatabaseQueryErrorsTotal *prometheus.CounterVec
}

var (
	defaultMetrics *Metrics
	once           sync.Once
)

// Init initializes metrics based on enabled flag
// If enabled=true, returns Prometheus-based Metrics
// If enabled=false, returns NoopMetrics (zero overhead)
// Uses sync.Once to ensure Prometheus metrics are only registered once
func Init(enabled bool) core.Recorder {
	if !enabled {
		return NewNoopMetrics()
	}

	once.Do(func() {
		defaultMetrics = initMetrics()
	})
	return defaultMetrics
}

// initMetrics creates and registers all Prometheus metrics
func initMetrics() *Metrics {
	m := &Metrics{
		TokenRefreshTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "client_token_refresh_total",
				Help: "Total number of identity token refresh attempts",
			},
			[]string{"result"}, // success, error
		),
		IdentityCallsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "client_identity_calls_total",
				Help: "Total number of identity provider calls",
			},
			[]string{"action", "result"}, // action: InitiateAuth, SignUp, ConfirmSignUp
		),
		IdentityCallDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "client_identity_call_duration_seconds",
				Help:    "Time taken for identity provider calls",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"action"},
		),
		SubmissionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "client_attendance_submissions_total",
				Help: "Total number of attendance submissions by outcome",
			},
			[]string{"outcome"}, // success, conflict, session_expired, application_error, transport_error
		),
		SubmissionDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "client_attendance_submission_duration_seconds",
				Help:    "Time taken to submit an attendance scan",
				Buckets: prometheus.DefBuckets,
			},
		),

		ScansTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "attendance_scans_total",
				Help: "Total number of scans received by result",
			},
			[]string{"result"}, // recorded, duplicate, invalid_qr, session_not_found, session_inactive, mismatch
		),
		QRCodesMintedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "attendance_qr_codes_minted_total",
				Help: "Total number of session QR codes generated",
			},
		),
		SessionsOpenedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "attendance_sessions_opened_total",
				Help: "Total number of class sessions created",
			},
		),
		SessionsClosedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "attendance_sessions_closed_total",
				Help: "Total number of class sessions closed",
			},
		),
		SessionsActive: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "attendance_sessions_active",
				Help: "Current number of active class sessions",
			},
		),
		AuthFailuresTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "attendance_auth_failures_total",
				Help: "Total number of rejected bearer tokens",
			},
			[]string{"reason"}, // missing, invalid, expired, forbidden
		),

		// HTTP Request Metrics
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "http_request_duration_seconds",
				Help: "HTTP request latency in seconds",
				Buckets: []float64{
					0.001,
					0.005,
					0.010,
					0.025,
					0.050,
					0.100,
					0.250,
					0.500,
					1.0,
					2.5,
					5.0,
					10.0,
				},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Current number of HTTP requests being served",
			},
		),

		// Database Query Metrics
		DatabaseQueryErrorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "database_query_errors_total",
				Help: "Total number of database query errors during metric collection",
			},
			[]string{"operation"}, // count_active_sessions
		),
	}

	return m
}
