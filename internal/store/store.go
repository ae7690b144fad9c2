package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SC0R9I0N/qr-class-manager/internal/config"
	"github.com/SC0R9I0N/qr-class-manager/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// maxListResults caps a single attendance listing.
const maxListResults = 1000

type Store struct {
	db *gorm.DB
}

// New opens the database and migrates the schema. ctx bounds the
// connection check and migration.
func New(ctx context.Context, driver, dsn string) (*Store, error) {
	dialector, err := GetDialector(driver, dsn)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if driver == config.DatabaseDriverSQLite {
		// One connection keeps :memory: databases shared and writes serialised
		sqlDB.SetMaxOpenConns(1)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	// Auto migrate
	if err := db.WithContext(ctx).AutoMigrate(
		&models.Class{},
		&models.Session{},
		&models.Attendance{},
	); err != nil {
		return nil, err
	}

	return &Store{db: db}, nil
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrRecordNotFound
	}
	return err
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}

// Class operations

func (s *Store) GetClass(ctx context.Context, id string) (*models.Class, error) {
	var class models.Class
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&class).Error; err != nil {
		return nil, translate(err)
	}
	return &class, nil
}

func (s *Store) CreateClass(ctx context.Context, class *models.Class) error {
	err := s.db.WithContext(ctx).Create(class).Error
	if err != nil && isUniqueViolation(err) {
		return ErrClassExists
	}
	return err
}

// ListClassesByProfessor returns the classes a professor owns, newest first.
func (s *Store) ListClassesByProfessor(ctx context.Context, professorID string) ([]models.Class, error) {
	var classes []models.Class
	err := s.db.WithContext(ctx).
		Where("professor_id = ?", professorID).
		Order("created_at DESC").
		Find(&classes).Error
	return classes, err
}

// Session operations

func (s *Store) CreateSession(ctx context.Context, session *models.Session) error {
	return s.db.WithContext(ctx).Create(session).Error
}

func (s *Store) GetSession(ctx context.Context, id string) (*models.Session, error) {
	var session models.Session
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&session).Error; err != nil {
		return nil, translate(err)
	}
	return &session, nil
}

func (s *Store) ListSessionsByClass(ctx context.Context, classID string) ([]models.Session, error) {
	var sessions []models.Session
	err := s.db.WithContext(ctx).
		Where("class_id = ?", classID).
		Order("created_at DESC").
		Find(&sessions).Error
	return sessions, err
}

// ActivateSession stores a freshly minted QR payload and opens the session
// for scanning.
func (s *Store) ActivateSession(
	ctx context.Context,
	id, qrCodeData string,
	expiresAt time.Time,
) error {
	result := s.db.WithContext(ctx).
		Model(&models.Session{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"qr_code_data":  qrCodeData,
			"qr_expires_at": expiresAt,
			"is_active":     true,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// DeactivateSession closes the session; later scans are rejected.
func (s *Store) DeactivateSession(ctx context.Context, id, endTime string) error {
	updates := map[string]any{"is_active": false}
	if endTime != "" {
		updates["end_time"] = endTime
	}
	result := s.db.WithContext(ctx).
		Model(&models.Session{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// CountActiveSessions returns the number of sessions accepting scans.
func (s *Store) CountActiveSessions() (int64, error) {
	var count int64
	err := s.db.Model(&models.Session{}).Where("is_active = ?", true).Count(&count).Error
	return count, err
}

// Attendance operations

// CreateAttendance inserts a record. A second record for the same session
// and student fails with ErrAttendanceExists, however many requests race.
func (s *Store) CreateAttendance(ctx context.Context, record *models.Attendance) error {
	err := s.db.WithContext(ctx).Create(record).Error
	if err != nil && isUniqueViolation(err) {
		return ErrAttendanceExists
	}
	return err
}

// AttendanceFilter narrows ListAttendance. Empty fields match everything.
type AttendanceFilter struct {
	SessionID string
	StudentID string
	ClassID   string
	// ProfessorID limits results to classes the professor owns
	ProfessorID string
}

// ListAttendance returns matching records, newest scan first.
func (s *Store) ListAttendance(ctx context.Context, f AttendanceFilter) ([]models.Attendance, error) {
	query := s.db.WithContext(ctx).Model(&models.Attendance{})
	if f.SessionID != "" {
		query = query.Where("session_id = ?", f.SessionID)
	}
	if f.StudentID != "" {
		query = query.Where("student_id = ?", f.StudentID)
	}
	if f.ClassID != "" {
		query = query.Where("class_id = ?", f.ClassID)
	}
	if f.ProfessorID != "" {
		query = query.Where(
			"class_id IN (?)",
			s.db.Model(&models.Class{}).Select("id").Where("professor_id = ?", f.ProfessorID),
		)
	}

	var records []models.Attendance
	err := query.Order("scan_timestamp DESC").Limit(maxListResults).Find(&records).Error
	return records, err
}

// Health checks the database connection
func (s *Store) Health(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the connection pool.
func (s *Store) Close(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	done := make(chan error, 1)
	go func() { done <- sqlDB.Close() }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// DB returns the underlying GORM database connection (for transactions)
func (s *Store) DB() *gorm.DB {
	return s.db
}
