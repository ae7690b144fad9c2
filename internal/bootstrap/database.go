package bootstrap

import (
	"context"
	"fmt"

	"github.com/SC0R9I0N/qr-class-manager/internal/config"
	"github.com/SC0R9I0N/qr-class-manager/internal/store"

	"github.com/sirupsen/logrus"
)

// initializeDatabase opens the attendance database and migrates its schema
func initializeDatabase(ctx context.Context, cfg *config.Config) (*store.Store, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.DBInitTimeout)
	defer cancel()

	db, err := store.New(ctx, cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	logrus.WithField("driver", cfg.DatabaseDriver).Info("Database initialized")
	return db, nil
}
