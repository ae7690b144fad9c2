package services

import (
	"context"
	"testing"
	"time"

	"github.com/SC0R9I0N/qr-class-manager/internal/config"
	"github.com/SC0R9I0N/qr-class-manager/internal/metrics"
	"github.com/SC0R9I0N/qr-class-manager/internal/models"
	"github.com/SC0R9I0N/qr-class-manager/internal/store"

	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

var (
	professor = &models.Caller{Subject: "prof-1", Groups: []string{models.GroupProfessors}}
	otherProf = &models.Caller{Subject: "prof-2", Groups: []string{models.GroupProfessors}}
	student   = &models.Caller{Subject: "student-1", Groups: []string{models.GroupStudents}}
	student2  = &models.Caller{Subject: "student-2", Groups: []string{models.GroupStudents}}
	nobody    = &models.Caller{Subject: "guest"}
)

type testEnv struct {
	store      *store.Store
	cfg        *config.Config
	sessions   *SessionService
	attendance *AttendanceService
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	s, err := store.New(context.Background(), "sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(context.Background()) })

	cfg := &config.Config{
		QRCodeExpiration: time.Hour,
		QRExpiryEnforced: true,
	}
	recorder := metrics.NewNoopMetrics()

	env := &testEnv{
		store:      s,
		cfg:        cfg,
		sessions:   NewSessionService(s, cfg, recorder),
		attendance: NewAttendanceService(s, cfg, recorder),
	}
	env.setClock(testNow)
	return env
}

func (e *testEnv) setClock(now time.Time) {
	clock := func() time.Time { return now }
	e.sessions.now = clock
	e.attendance.now = clock
}

// openActiveSession opens a session for class c1 and mints a QR code for it.
func (e *testEnv) openActiveSession(t *testing.T) (*models.Session, string) {
	t.Helper()
	ctx := context.Background()

	session, err := e.sessions.OpenSession(ctx, professor, OpenSessionRequest{
		ClassID:   "c1",
		ClassName: "Databases",
	})
	require.NoError(t, err)

	minted, err := e.sessions.MintQR(ctx, professor, session.ID, MintRequest{})
	require.NoError(t, err)

	return session, minted.QRCodeData
}
