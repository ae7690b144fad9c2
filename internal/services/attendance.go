package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SC0R9I0N/qr-class-manager/internal/config"
	"github.com/SC0R9I0N/qr-class-manager/internal/core"
	"github.com/SC0R9I0N/qr-class-manager/internal/models"
	"github.com/SC0R9I0N/qr-class-manager/internal/qrpayload"
	"github.com/SC0R9I0N/qr-class-manager/internal/store"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ScanTimestampLayout is how scan times are rendered: naive UTC with
// microseconds.
const ScanTimestampLayout = "2006-01-02T15:04:05.000000"

// ScanRequest is the body of POST /attendance/scan.
type ScanRequest struct {
	QRCodeData string `json:"qr_code_data" validate:"required,max=4096"`
	Location   string `json:"location"     validate:"max=256"`
	DeviceInfo string `json:"device_info"  validate:"max=512"`
}

// ScanResult is returned for a recorded scan.
type ScanResult struct {
	AttendanceID  string  `json:"attendance_id"`
	SessionID     string  `json:"session_id"`
	ClassID       string  `json:"class_id"`
	ClassName     *string `json:"class_name"`
	ScanTimestamp string  `json:"scan_timestamp"`
	Message       string  `json:"message"`
}

// RecordView is one attendance record as listed by GET /attendance.
type RecordView struct {
	AttendanceID  string `json:"attendance_id"`
	SessionID     string `json:"session_id"`
	ClassID       string `json:"class_id"`
	StudentID     string `json:"student_id"`
	ScanTimestamp string `json:"scan_timestamp"`
	Location      string `json:"location,omitempty"`
	DeviceInfo    string `json:"device_info,omitempty"`
}

// ListQuery selects records for GET /attendance.
type ListQuery struct {
	SessionID string `form:"session_id"`
	StudentID string `form:"student_id"`
	ClassID   string `form:"class_id"`
}

type AttendanceService struct {
	store   *store.Store
	config  *config.Config
	metrics core.Recorder
	now     func() time.Time
}

func NewAttendanceService(s *store.Store, cfg *config.Config, m core.Recorder) *AttendanceService {
	return &AttendanceService{store: s, config: cfg, metrics: m, now: time.Now}
}

// Scan records the caller's attendance for the session named in the QR
// payload. Checks run in order: role, payload, session existence, session
// state, class match, duplicate.
func (s *AttendanceService) Scan(
	ctx context.Context,
	caller *models.Caller,
	req ScanRequest,
) (*ScanResult, error) {
	result, err := s.scan(ctx, caller, req)
	s.metrics.RecordScan(scanResultLabel(err))
	return result, err
}

func (s *AttendanceService) scan(
	ctx context.Context,
	caller *models.Caller,
	req ScanRequest,
) (*ScanResult, error) {
	if caller == nil || caller.Subject == "" {
		return nil, ErrUnauthorized
	}
	if !caller.IsStudent() {
		return nil, ErrNotStudent
	}
	if req.QRCodeData == "" {
		return nil, ErrQRCodeRequired
	}

	now := s.now().UTC()
	payload, err := qrpayload.Verify(req.QRCodeData, now, s.config.QRExpiryEnforced)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"student": caller.Subject,
			"error":   err.Error(),
		}).Debug("Rejected QR payload")
		return nil, fmt.Errorf("%w: %v", ErrInvalidQRCode, err)
	}

	session, err := s.store.GetSession(ctx, payload.SessionID)
	if errors.Is(err, store.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		s.metrics.RecordDatabaseQueryError("get_session")
		return nil, err
	}
	if !session.IsActive {
		return nil, ErrSessionNotActive
	}
	if session.ClassID != payload.ClassID {
		return nil, ErrQRSessionMismatch
	}

	record := &models.Attendance{
		ID:            uuid.NewString(),
		SessionID:     session.ID,
		StudentID:     caller.Subject,
		ClassID:       session.ClassID,
		ScanTimestamp: now,
		Location:      req.Location,
		DeviceInfo:    req.DeviceInfo,
	}
	if err := s.store.CreateAttendance(ctx, record); err != nil {
		if errors.Is(err, store.ErrAttendanceExists) {
			return nil, ErrAlreadyRecorded
		}
		s.metrics.RecordDatabaseQueryError("create_attendance")
		return nil, fmt.Errorf("failed to record attendance: %w", err)
	}

	result := &ScanResult{
		AttendanceID:  record.ID,
		SessionID:     record.SessionID,
		ClassID:       record.ClassID,
		ScanTimestamp: now.Format(ScanTimestampLayout),
		Message:       "attendance recorded successfully",
	}
	if class, err := s.store.GetClass(ctx, record.ClassID); err == nil {
		result.ClassName = &class.ClassName
	}

	logrus.WithFields(logrus.Fields{
		"attendance_id": record.ID,
		"session_id":    record.SessionID,
		"student":       record.StudentID,
	}).Info("Attendance recorded")

	return result, nil
}

// List returns records visible to the caller. Professors see records of
// the classes they own; students only ever see their own.
func (s *AttendanceService) List(
	ctx context.Context,
	caller *models.Caller,
	q ListQuery,
) ([]RecordView, error) {
	if caller == nil || caller.Subject == "" {
		return nil, ErrUnauthorized
	}

	filter := store.AttendanceFilter{
		SessionID: q.SessionID,
		ClassID:   q.ClassID,
	}
	switch {
	case caller.IsProfessor():
		if err := s.checkOwnership(ctx, caller, q); err != nil {
			return nil, err
		}
		filter.StudentID = q.StudentID
		filter.ProfessorID = caller.Subject
	case caller.IsStudent():
		filter.StudentID = caller.Subject
	default:
		return nil, ErrInvalidRole
	}

	records, err := s.store.ListAttendance(ctx, filter)
	if err != nil {
		s.metrics.RecordDatabaseQueryError("list_attendance")
		return nil, err
	}

	views := make([]RecordView, 0, len(records))
	for _, r := range records {
		views = append(views, RecordView{
			AttendanceID:  r.ID,
			SessionID:     r.SessionID,
			ClassID:       r.ClassID,
			StudentID:     r.StudentID,
			ScanTimestamp: r.ScanTimestamp.UTC().Format(ScanTimestampLayout),
			Location:      r.Location,
			DeviceInfo:    r.DeviceInfo,
		})
	}
	return views, nil
}

// checkOwnership gives professors a 404 or 403 for a named session or class
// instead of an empty list.
func (s *AttendanceService) checkOwnership(
	ctx context.Context,
	caller *models.Caller,
	q ListQuery,
) error {
	classID := q.ClassID
	if q.SessionID != "" {
		session, err := s.store.GetSession(ctx, q.SessionID)
		if errors.Is(err, store.ErrRecordNotFound) {
			return ErrSessionNotFound
		}
		if err != nil {
			return err
		}
		classID = session.ClassID
	}
	if classID == "" {
		return nil
	}

	class, err := s.store.GetClass(ctx, classID)
	if errors.Is(err, store.ErrRecordNotFound) {
		return ErrClassNotFound
	}
	if err != nil {
		return err
	}
	if !class.OwnedBy(caller.Subject) {
		return ErrNotClassOwner
	}
	return nil
}

func scanResultLabel(err error) string {
	switch {
	case err == nil:
		return "recorded"
	case errors.Is(err, ErrAlreadyRecorded):
		return "duplicate"
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrNotStudent):
		return "forbidden"
	case errors.Is(err, ErrQRCodeRequired), errors.Is(err, ErrInvalidQRCode):
		return "invalid_qr"
	case errors.Is(err, ErrSessionNotFound):
		return "session_not_found"
	case errors.Is(err, ErrSessionNotActive):
		return "session_inactive"
	case errors.Is(err, ErrQRSessionMismatch):
		return "mismatch"
	}
	return "error"
}
