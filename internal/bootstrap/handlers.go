package bootstrap

import (
	"github.com/SC0R9I0N/qr-class-manager/internal/handlers"
	"github.com/SC0R9I0N/qr-class-manager/internal/services"
)

// handlerSet holds all HTTP handlers
type handlerSet struct {
	attendance *handlers.AttendanceHandler
	session    *handlers.SessionHandler
}

func initializeHandlers(
	attendanceService *services.AttendanceService,
	sessionService *services.SessionService,
) handlerSet {
	return handlerSet{
		attendance: handlers.NewAttendanceHandler(attendanceService),
		session:    handlers.NewSessionHandler(sessionService),
	}
}
