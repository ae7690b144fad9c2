package models

import "time"

// Session is one meeting of a class. It accepts scans only while active,
// which it becomes once a QR code has been minted for it.
type Session struct {
	ID          string `gorm:"primaryKey"`
	ClassID     string `gorm:"not null;index"`
	SessionDate string `gorm:"not null"` // YYYY-MM-DD
	StartTime   string
	EndTime     string
	QRCodeData  string     `gorm:"type:text"`
	QRExpiresAt *time.Time // Expiry of the current QR code
	IsActive    bool       `gorm:"not null;default:false;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
