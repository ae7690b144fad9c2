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

// OpenSessionRequest is the body of POST /sessions.
type OpenSessionRequest struct {
	ClassID     string `json:"class_id"     validate:"required,max=128"`
	ClassName   string `json:"class_name"   validate:"max=256"`
	ClassCode   string `json:"class_code"   validate:"max=64"`
	SessionDate string `json:"session_date" validate:"omitempty,datetime=2006-01-02"`
	StartTime   string `json:"start_time"   validate:"max=32"`
	EndTime     string `json:"end_time"     validate:"max=32"`
}

// MintRequest is the optional body of POST /sessions/:id/qr.
type MintRequest struct {
	ExpiryMinutes int `json:"expiry_minutes" validate:"omitempty,min=1,max=1440"`
}

// MintResult is the response of POST /sessions/:id/qr.
type MintResult struct {
	SessionID  string `json:"session_id"`
	QRCodeData string `json:"qr_code_data"`
	ExpiresAt  string `json:"expires_at"`
}

type SessionService struct {
	store   *store.Store
	config  *config.Config
	metrics core.Recorder
	now     func() time.Time
}

func NewSessionService(s *store.Store, cfg *config.Config, m core.Recorder) *SessionService {
	return &SessionService{store: s, config: cfg, metrics: m, now: time.Now}
}

// OpenSession creates an inactive session for a class the caller owns. The
// class is created with the caller as owner when it does not exist yet.
func (s *SessionService) OpenSession(
	ctx context.Context,
	caller *models.Caller,
	req OpenSessionRequest,
) (*models.Session, error) {
	if err := requireProfessor(caller); err != nil {
		return nil, err
	}

	class, err := s.ensureClass(ctx, caller, req)
	if err != nil {
		return nil, err
	}
	if !class.OwnedBy(caller.Subject) {
		return nil, ErrNotClassOwner
	}

	now := s.now().UTC()
	sessionDate := req.SessionDate
	if sessionDate == "" {
		sessionDate = now.Format(time.DateOnly)
	}
	startTime := req.StartTime
	if startTime == "" {
		startTime = now.Format(time.TimeOnly)
	}

	session := &models.Session{
		ID:          uuid.NewString(),
		ClassID:     class.ID,
		SessionDate: sessionDate,
		StartTime:   startTime,
		EndTime:     req.EndTime,
		IsActive:    false,
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		s.metrics.RecordDatabaseQueryError("create_session")
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.metrics.RecordSessionOpened()
	logrus.WithFields(logrus.Fields{
		"session_id": session.ID,
		"class_id":   class.ID,
		"professor":  caller.Subject,
	}).Info("Session opened")

	return session, nil
}

func (s *SessionService) ensureClass(
	ctx context.Context,
	caller *models.Caller,
	req OpenSessionRequest,
) (*models.Class, error) {
	class, err := s.store.GetClass(ctx, req.ClassID)
	if err == nil {
		return class, nil
	}
	if !errors.Is(err, store.ErrRecordNotFound) {
		return nil, err
	}

	name := req.ClassName
	if name == "" {
		name = req.ClassID
	}
	class = &models.Class{
		ID:          req.ClassID,
		ProfessorID: caller.Subject,
		ClassName:   name,
		ClassCode:   req.ClassCode,
	}
	err = s.store.CreateClass(ctx, class)
	if errors.Is(err, store.ErrClassExists) {
		// Created concurrently; the stored owner decides
		return s.store.GetClass(ctx, req.ClassID)
	}
	if err != nil {
		return nil, err
	}
	return class, nil
}

// MintQR generates a fresh payload for the session, stores it and marks the
// session active.
func (s *SessionService) MintQR(
	ctx context.Context,
	caller *models.Caller,
	sessionID string,
	req MintRequest,
) (*MintResult, error) {
	session, err := s.ownedSession(ctx, caller, sessionID)
	if err != nil {
		return nil, err
	}

	ttl := s.config.QRCodeExpiration
	if req.ExpiryMinutes > 0 {
		ttl = time.Duration(req.ExpiryMinutes) * time.Minute
	}

	data, minted, err := qrpayload.Mint(session.ID, session.ClassID, ttl, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.store.ActivateSession(ctx, session.ID, data, minted.Expiry); err != nil {
		s.metrics.RecordDatabaseQueryError("activate_session")
		return nil, fmt.Errorf("failed to activate session: %w", err)
	}

	s.metrics.RecordQRCodeMinted()
	logrus.WithFields(logrus.Fields{
		"session_id": session.ID,
		"expires_at": minted.Expiry,
	}).Info("QR code minted")

	return &MintResult{
		SessionID:  session.ID,
		QRCodeData: data,
		ExpiresAt:  minted.Expiry.Format(time.RFC3339),
	}, nil
}

// CloseSession stops the session from accepting scans.
func (s *SessionService) CloseSession(
	ctx context.Context,
	caller *models.Caller,
	sessionID string,
) (*models.Session, error) {
	session, err := s.ownedSession(ctx, caller, sessionID)
	if err != nil {
		return nil, err
	}

	endTime := s.now().UTC().Format(time.TimeOnly)
	if err := s.store.DeactivateSession(ctx, session.ID, endTime); err != nil {
		s.metrics.RecordDatabaseQueryError("deactivate_session")
		return nil, fmt.Errorf("failed to close session: %w", err)
	}
	if session.IsActive {
		s.metrics.RecordSessionClosed()
	}

	session.IsActive = false
	session.EndTime = endTime
	return session, nil
}

// GetSession returns one session of a class the caller owns.
func (s *SessionService) GetSession(
	ctx context.Context,
	caller *models.Caller,
	sessionID string,
) (*models.Session, error) {
	return s.ownedSession(ctx, caller, sessionID)
}

// ListSessions returns the sessions of a class the caller owns.
func (s *SessionService) ListSessions(
	ctx context.Context,
	caller *models.Caller,
	classID string,
) ([]models.Session, error) {
	if err := requireProfessor(caller); err != nil {
		return nil, err
	}
	if err := s.checkClassOwner(ctx, caller, classID); err != nil {
		return nil, err
	}
	return s.store.ListSessionsByClass(ctx, classID)
}

func (s *SessionService) ownedSession(
	ctx context.Context,
	caller *models.Caller,
	sessionID string,
) (*models.Session, error) {
	if err := requireProfessor(caller); err != nil {
		return nil, err
	}

	session, err := s.store.GetSession(ctx, sessionID)
	if errors.Is(err, store.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.checkClassOwner(ctx, caller, session.ClassID); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *SessionService) checkClassOwner(
	ctx context.Context,
	caller *models.Caller,
	classID string,
) error {
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

func requireProfessor(caller *models.Caller) error {
	if caller == nil || caller.Subject == "" {
		return ErrUnauthorized
	}
	if !caller.IsProfessor() {
		return ErrNotProfessor
	}
	return nil
}
