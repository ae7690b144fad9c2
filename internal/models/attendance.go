package models

import "time"

// Attendance records one student's scan for a session. The composite unique
// index makes a second scan of the same session fail at insert time.
type Attendance struct {
	ID            string    `gorm:"primaryKey"`
	SessionID     string    `gorm:"not null;uniqueIndex:idx_attendance_session_student"`
	StudentID     string    `gorm:"not null;uniqueIndex:idx_attendance_session_student;index"`
	ClassID       string    `gorm:"not null;index"`
	ScanTimestamp time.Time `gorm:"not null"`
	Location      string
	DeviceInfo    string
}

// TableName keeps the table name singular.
func (Attendance) TableName() string {
	return "attendance"
}
