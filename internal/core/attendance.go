package core

import "context"

// Submission is the body of POST /attendance/scan.
type Submission struct {
	QRCodeData string `json:"qr_code_data"`
	Location   string `json:"location"`
	DeviceInfo string `json:"device_info"`
}

// BackendResponse is the raw HTTP result of a submission. Classification
// into an attendance outcome is left to the caller.
type BackendResponse struct {
	StatusCode int
	Body       []byte
}

// AttendanceBackend submits a scan on behalf of the bearer of idToken.
// A non-nil error means no response was received.
type AttendanceBackend interface {
	Submit(ctx context.Context, idToken string, sub Submission) (*BackendResponse, error)
}
