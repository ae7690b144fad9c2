package store

import "errors"

var (
	// ErrRecordNotFound wraps GORM's not found error for consistency
	ErrRecordNotFound = errors.New("record not found")

	// ErrAttendanceExists is returned by CreateAttendance when the student
	// already has a record for the session.
	ErrAttendanceExists = errors.New("attendance already recorded")

	// ErrClassExists is returned by CreateClass when the ID is taken.
	ErrClassExists = errors.New("class already exists")
)
