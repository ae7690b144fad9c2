package bootstrap

import (
	"github.com/SC0R9I0N/qr-class-manager/internal/config"
	"github.com/SC0R9I0N/qr-class-manager/internal/core"
	"github.com/SC0R9I0N/qr-class-manager/internal/services"
	"github.com/SC0R9I0N/qr-class-manager/internal/store"
)

// initializeServices creates all business services
func initializeServices(
	cfg *config.Config,
	db *store.Store,
	recorder core.Recorder,
) (*services.AttendanceService, *services.SessionService) {
	return services.NewAttendanceService(db, cfg, recorder),
		services.NewSessionService(db, cfg, recorder)
}
