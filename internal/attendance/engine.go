package attendance

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/SC0R9I0N/qr-class-manager/internal/core"
	"github.com/SC0R9I0N/qr-class-manager/internal/qrpayload"
	"github.com/SC0R9I0N/qr-class-manager/internal/token"

	"github.com/sirupsen/logrus"
)

// DefaultSubmitTimeout bounds one submission when no timeout is configured.
const DefaultSubmitTimeout = 15 * time.Second

// TokenProvider hands out a currently valid identity token.
// token.Manager is the production implementation.
type TokenProvider interface {
	GetValidToken(ctx context.Context) (string, error)
}

// Engine drives the scan workflow: validate the scanned text, fetch a token,
// submit, classify. One engine handles at most one submission at a time.
type Engine struct {
	tokens  TokenProvider
	backend core.AttendanceBackend
	metrics core.Recorder

	location   string
	deviceInfo string
	timeout    time.Duration
	now        func() time.Time

	mu         sync.Mutex
	state      State
	last       *Outcome
	generation uint64
	cancel     context.CancelFunc
}

// Option configures an Engine.
type Option func(*Engine)

// WithLocation sets the free-text location sent with every scan.
func WithLocation(location string) Option {
	return func(e *Engine) {
		e.location = location
	}
}

// WithDeviceInfo overrides the device description sent with every scan.
func WithDeviceInfo(info string) Option {
	return func(e *Engine) {
		if info != "" {
			e.deviceInfo = info
		}
	}
}

// WithSubmitTimeout bounds each submission, token refresh included.
func WithSubmitTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithClock overrides the time source used to stamp duplicate scans.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine creates an engine in the awaiting-login state.
func NewEngine(
	tokens TokenProvider,
	backend core.AttendanceBackend,
	m core.Recorder,
	opts ...Option,
) *Engine {
	e := &Engine{
		tokens:     tokens,
		backend:    backend,
		metrics:    m,
		deviceInfo: DeviceInfo(),
		timeout:    DefaultSubmitTimeout,
		now:        time.Now,
		state:      StateAwaitingLogin,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State returns the current workflow state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// LastOutcome returns the outcome of the most recent finished scan, or nil.
func (e *Engine) LastOutcome() *Outcome {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.last
}

// LoggedIn moves the engine from awaiting-login to awaiting-scan.
func (e *Engine) LoggedIn() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateAwaitingLogin {
		return fmt.Errorf("%w: engine is %s", ErrNotReady, e.state)
	}
	e.state = StateAwaitingScan
	return nil
}

// Resume checks for a usable stored session and, when one exists, moves the
// engine to awaiting-scan without a fresh login.
func (e *Engine) Resume(ctx context.Context) error {
	if _, err := e.tokens.GetValidToken(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrSessionExpired, err)
	}
	return e.LoggedIn()
}

// Reset returns the engine to awaiting-login from any state. An in-flight
// submission is cancelled and its result discarded.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	e.generation++
	e.state = StateAwaitingLogin
	e.last = nil
}

// Scan submits one scanned payload. Text that is not JSON is rejected with
// ErrValidation and the engine keeps awaiting a scan; nothing is sent. Every
// other path ends in a terminal state and returns its Outcome. For a Failed
// outcome the returned error equals Outcome.Err.
func (e *Engine) Scan(ctx context.Context, raw string) (*Outcome, error) {
	payload, err := qrpayload.Validate(raw)

	e.mu.Lock()
	switch e.state {
	case StateAwaitingScan:
	case StateSubmitting:
		e.mu.Unlock()
		return nil, ErrScanInProgress
	default:
		state := e.state
		e.mu.Unlock()
		return nil, fmt.Errorf("%w: engine is %s", ErrNotReady, state)
	}
	if err != nil {
		e.mu.Unlock()
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	e.state = StateSubmitting
	e.cancel = cancel
	generation := e.generation
	e.mu.Unlock()

	start := time.Now()
	outcome := e.submit(ctx, payload)
	e.metrics.RecordSubmission(outcomeLabel(outcome), time.Since(start))

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.generation != generation {
		return nil, ErrScanCancelled
	}
	e.cancel = nil
	e.state = outcome.State
	e.last = outcome

	logrus.WithFields(logrus.Fields{
		"state":  outcome.State.String(),
		"status": outcome.StatusCode,
		"class":  outcome.ClassID,
	}).Info("Attendance scan finished")

	return outcome, outcome.Err
}

func (e *Engine) submit(ctx context.Context, payload *qrpayload.Payload) *Outcome {
	idToken, err := e.tokens.GetValidToken(ctx)
	if err != nil {
		if !errors.Is(err, token.ErrReauthRequired) {
			logrus.WithError(err).Warn("Unexpected token failure")
		}
		return failed(MessageSessionExpired, fmt.Errorf("%w: %v", ErrSessionExpired, err))
	}

	resp, err := e.backend.Submit(ctx, idToken, core.Submission{
		QRCodeData: payload.String(),
		Location:   e.location,
		DeviceInfo: e.deviceInfo,
	})
	if err != nil {
		logrus.WithError(err).Warn("Attendance submission got no response")
		return failed(MessageUnreachable, fmt.Errorf("%w: %v", ErrTransport, err))
	}

	return Classify(resp, e.now())
}

func outcomeLabel(o *Outcome) string {
	switch {
	case o.State == StateRecorded:
		return "success"
	case o.State == StateAlreadyRecorded:
		return "conflict"
	case errors.Is(o.Err, ErrSessionExpired):
		return "session_expired"
	case errors.Is(o.Err, ErrTransport):
		return "transport_error"
	}
	return "application_error"
}
