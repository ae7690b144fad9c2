package services

import "errors"

var (
	ErrUnauthorized      = errors.New("unauthorized")
	ErrNotStudent        = errors.New("only students can scan attendance")
	ErrNotProfessor      = errors.New("only professors can manage sessions")
	ErrInvalidRole       = errors.New("invalid user role")
	ErrQRCodeRequired    = errors.New("qr_code_data is required")
	ErrInvalidQRCode     = errors.New("invalid/expired QR code")
	ErrSessionNotFound   = errors.New("session not found")
	ErrSessionNotActive  = errors.New("session not active")
	ErrQRSessionMismatch = errors.New("QR code does not match session")
	ErrAlreadyRecorded   = errors.New("Attendance already recorded")
	ErrClassNotFound     = errors.New("class not found")
	ErrNotClassOwner     = errors.New("you do not own this class")
)

// AlreadyRecordedMessage accompanies ErrAlreadyRecorded in responses.
const AlreadyRecordedMessage = "you have already marked attendance for this session"
