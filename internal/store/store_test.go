package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/SC0R9I0N/qr-class-manager/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createFreshStore(t *testing.T) *Store {
	t.Helper()

	s, err := New(context.Background(), "sqlite", ":memory:")
	require.NoError(t, err)
	require.NotNil(t, s)
	t.Cleanup(func() { _ = s.Close(context.Background()) })

	return s
}

func seedSession(t *testing.T, s *Store, professorID string) (*models.Class, *models.Session) {
	t.Helper()
	ctx := context.Background()

	class := &models.Class{ID: uuid.NewString(), ProfessorID: professorID, ClassName: "Databases"}
	require.NoError(t, s.CreateClass(ctx, class))

	session := &models.Session{ID: uuid.NewString(), ClassID: class.ID, SessionDate: "2026-03-02"}
	require.NoError(t, s.CreateSession(ctx, session))

	return class, session
}

func TestStore_ClassesAndSessions(t *testing.T) {
	s := createFreshStore(t)
	ctx := context.Background()

	class, session := seedSession(t, s, "prof-1")

	got, err := s.GetClass(ctx, class.ID)
	require.NoError(t, err)
	assert.Equal(t, "Databases", got.ClassName)

	assert.ErrorIs(t, s.CreateClass(ctx, &models.Class{ID: class.ID, ProfessorID: "x", ClassName: "y"}), ErrClassExists)

	_, err = s.GetClass(ctx, "missing")
	assert.ErrorIs(t, err, ErrRecordNotFound)

	classes, err := s.ListClassesByProfessor(ctx, "prof-1")
	require.NoError(t, err)
	assert.Len(t, classes, 1)

	fresh, err := s.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.False(t, fresh.IsActive, "sessions start inactive")

	sessions, err := s.ListSessionsByClass(ctx, class.ID)
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
}

func TestStore_ActivateAndDeactivate(t *testing.T) {
	s := createFreshStore(t)
	ctx := context.Background()
	_, session := seedSession(t, s, "prof-1")

	count, err := s.CountActiveSessions()
	require.NoError(t, err)
	assert.Zero(t, count)

	expires := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	require.NoError(t, s.ActivateSession(ctx, session.ID, `{"session_id":"x"}`, expires))

	got, err := s.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.True(t, got.IsActive)
	assert.Equal(t, `{"session_id":"x"}`, got.QRCodeData)
	require.NotNil(t, got.QRExpiresAt)
	assert.True(t, expires.Equal(*got.QRExpiresAt))

	count, err = s.CountActiveSessions()
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	require.NoError(t, s.DeactivateSession(ctx, session.ID, "10:15"))
	got, err = s.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	assert.Equal(t, "10:15", got.EndTime)

	assert.ErrorIs(t, s.ActivateSession(ctx, "missing", "", expires), ErrRecordNotFound)
	assert.ErrorIs(t, s.DeactivateSession(ctx, "missing", ""), ErrRecordNotFound)
}

func TestStore_DuplicateAttendance(t *testing.T) {
	s := createFreshStore(t)
	ctx := context.Background()
	class, session := seedSession(t, s, "prof-1")

	record := func() *models.Attendance {
		return &models.Attendance{
			ID:            uuid.NewString(),
			SessionID:     session.ID,
			StudentID:     "student-1",
			ClassID:       class.ID,
			ScanTimestamp: time.Now().UTC(),
		}
	}

	require.NoError(t, s.CreateAttendance(ctx, record()))
	assert.ErrorIs(t, s.CreateAttendance(ctx, record()), ErrAttendanceExists)

	// Another student in the same session is fine
	other := record()
	other.StudentID = "student-2"
	assert.NoError(t, s.CreateAttendance(ctx, other))
}

func TestStore_ConcurrentDuplicatesYieldOneRecord(t *testing.T) {
	s := createFreshStore(t)
	ctx := context.Background()
	class, session := seedSession(t, s, "prof-1")

	const devices = 10
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		created   int
		conflicts int
	)
	for range devices {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.CreateAttendance(ctx, &models.Attendance{
				ID:            uuid.NewString(),
				SessionID:     session.ID,
				StudentID:     "student-1",
				ClassID:       class.ID,
				ScanTimestamp: time.Now().UTC(),
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case errors.Is(err, ErrAttendanceExists):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Equal(t, devices-1, conflicts)

	records, err := s.ListAttendance(ctx, AttendanceFilter{SessionID: session.ID})
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestStore_ListAttendance(t *testing.T) {
	s := createFreshStore(t)
	ctx := context.Background()
	classA, sessionA := seedSession(t, s, "prof-a")
	classB, sessionB := seedSession(t, s, "prof-b")

	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	add := func(session *models.Session, classID, student string, offset time.Duration) {
		require.NoError(t, s.CreateAttendance(ctx, &models.Attendance{
			ID:            uuid.NewString(),
			SessionID:     session.ID,
			StudentID:     student,
			ClassID:       classID,
			ScanTimestamp: base.Add(offset),
		}))
	}
	add(sessionA, classA.ID, "s1", time.Minute)
	add(sessionA, classA.ID, "s2", 2*time.Minute)
	add(sessionB, classB.ID, "s1", 3*time.Minute)

	tests := []struct {
		name   string
		filter AttendanceFilter
		want   int
	}{
		{"all", AttendanceFilter{}, 3},
		{"by session", AttendanceFilter{SessionID: sessionA.ID}, 2},
		{"by student", AttendanceFilter{StudentID: "s1"}, 2},
		{"by class", AttendanceFilter{ClassID: classB.ID}, 1},
		{"by professor", AttendanceFilter{ProfessorID: "prof-a"}, 2},
		{"professor and student", AttendanceFilter{ProfessorID: "prof-a", StudentID: "s1"}, 1},
		{"professor owning nothing", AttendanceFilter{ProfessorID: "prof-z"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := s.ListAttendance(ctx, tt.filter)
			require.NoError(t, err)
			assert.Len(t, records, tt.want)
		})
	}

	records, err := s.ListAttendance(ctx, AttendanceFilter{StudentID: "s1"})
	require.NoError(t, err)
	assert.Equal(t, sessionB.ID, records[0].SessionID, "newest scan first")
}

func TestStore_Health(t *testing.T) {
	s := createFreshStore(t)
	assert.NoError(t, s.Health(context.Background()))
}

func TestDriverFactory(t *testing.T) {
	tests := []struct {
		name        string
		driver      string
		dsn         string
		expectError bool
	}{
		{name: "SQLite valid", driver: "sqlite", dsn: ":memory:"},
		{name: "Postgres valid", driver: "postgres", dsn: "host=localhost dbname=attendance"},
		{name: "Unsupported driver", driver: "mysql", dsn: "user:pass@tcp(localhost:3306)/db", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dialector, err := GetDialector(tt.driver, tt.dsn)
			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, dialector)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, dialector)
			}
		})
	}
}

func TestRegisterDriver(t *testing.T) {
	called := false
	RegisterDriver("custom", func(string) gorm.Dialector {
		called = true
		return nil
	})
	t.Cleanup(func() { delete(driverFactories, "custom") })

	dialector, err := GetDialector("custom", "test-dsn")
	assert.NoError(t, err)
	assert.True(t, called)
	assert.Nil(t, dialector)
}

func TestNew_UnsupportedDriver(t *testing.T) {
	_, err := New(context.Background(), "mysql", "x")
	assert.ErrorContains(t, err, "unsupported database driver")
}
