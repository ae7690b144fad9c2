package attendance

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/SC0R9I0N/qr-class-manager/internal/core"
)

// State is a step of the scan workflow.
type State int

// Workflow states. Recorded, AlreadyRecorded and Failed are terminal.
const (
	StateAwaitingLogin State = iota
	StateAwaitingScan
	StateSubmitting
	StateRecorded
	StateAlreadyRecorded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateAwaitingLogin:
		return "awaiting_login"
	case StateAwaitingScan:
		return "awaiting_scan"
	case StateSubmitting:
		return "submitting"
	case StateRecorded:
		return "recorded"
	case StateAlreadyRecorded:
		return "already_recorded"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Terminal reports whether the state ends a scan.
func (s State) Terminal() bool {
	return s >= StateRecorded
}

// User facing messages used when the backend gives none.
const (
	MessageAlreadyRecorded = "Attendance already recorded for this session"
	MessageFailed          = "Failed to mark attendance"
	MessageSessionExpired  = "session expired, please log in again"
	MessageUnreachable     = "Cannot connect to the attendance server. Check your connection and try again."
)

// Outcome is the classified result of one submission.
type Outcome struct {
	State State

	// Recorded
	AttendanceID  string
	SessionID     string
	ClassID       string
	ClassName     string
	ScanTimestamp string
	DownloadURL   string

	// Message is the backend's text, or a fixed default
	Message    string
	StatusCode int

	// Err is set for Failed outcomes and wraps ErrSessionExpired,
	// ErrTransport or ErrApplication
	Err error
}

// Success reports whether the outcome should render as a success. A
// duplicate scan counts: the student is marked present either way.
func (o *Outcome) Success() bool {
	return o.State == StateRecorded || o.State == StateAlreadyRecorded
}

// scanResponse is the union of the 2xx and error bodies of POST /attendance/scan.
type scanResponse struct {
	AttendanceID  string `json:"attendance_id"`
	SessionID     string `json:"session_id"`
	ClassID       string `json:"class_id"`
	ClassName     string `json:"class_name"`
	ScanTimestamp string `json:"scan_timestamp"`
	DownloadURL   string `json:"download_url"`
	Message       string `json:"message"`
	Error         string `json:"error"`
}

// Classify maps a backend response onto an outcome. now stamps duplicate
// scans, whose responses carry no timestamp.
func Classify(resp *core.BackendResponse, now time.Time) *Outcome {
	var body scanResponse
	parsed := json.Unmarshal(resp.Body, &body) == nil

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return &Outcome{
			State:         StateRecorded,
			AttendanceID:  body.AttendanceID,
			SessionID:     body.SessionID,
			ClassID:       body.ClassID,
			ClassName:     body.ClassName,
			ScanTimestamp: body.ScanTimestamp,
			DownloadURL:   body.DownloadURL,
			Message:       body.Message,
			StatusCode:    resp.StatusCode,
		}

	case resp.StatusCode == http.StatusConflict:
		msg := MessageAlreadyRecorded
		if parsed && body.Message != "" {
			msg = body.Message
		}
		return &Outcome{
			State:         StateAlreadyRecorded,
			ScanTimestamp: now.UTC().Format(time.RFC3339),
			Message:       msg,
			StatusCode:    resp.StatusCode,
		}
	}

	msg := MessageFailed
	switch {
	case parsed && body.Message != "":
		msg = body.Message
	case parsed && body.Error != "":
		msg = body.Error
	case !parsed && len(bytes.TrimSpace(resp.Body)) > 0:
		msg = strings.TrimSpace(string(resp.Body))
	}
	return &Outcome{
		State:      StateFailed,
		Message:    msg,
		StatusCode: resp.StatusCode,
		Err:        fmt.Errorf("%w: HTTP %d - %s", ErrApplication, resp.StatusCode, msg),
	}
}

func failed(msg string, err error) *Outcome {
	return &Outcome{
		State:   StateFailed,
		Message: msg,
		Err:     err,
	}
}
