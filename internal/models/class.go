package models

import "time"

// Class is a course owned by one professor.
type Class struct {
	ID          string `gorm:"primaryKey"`
	ProfessorID string `gorm:"not null;index"`
	ClassName   string `gorm:"not null"`
	ClassCode   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OwnedBy reports whether the professor with the given subject owns the class.
func (c *Class) OwnedBy(professorID string) bool {
	return c.ProfessorID != "" && c.ProfessorID == professorID
}
