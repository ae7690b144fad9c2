package store

import (
	"fmt"

	"github.com/SC0R9I0N/qr-class-manager/internal/config"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// DriverFactory builds a gorm.Dialector from a DSN.
type DriverFactory func(dsn string) gorm.Dialector

var driverFactories = map[string]DriverFactory{
	config.DatabaseDriverSQLite:   sqlite.Open,
	config.DatabaseDriverPostgres: postgres.Open,
}

// GetDialector returns a GORM dialector for DATABASE_DRIVER and DATABASE_DSN.
func GetDialector(driver, dsn string) (gorm.Dialector, error) {
	factory, exists := driverFactories[driver]
	if !exists {
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
	return factory(dsn), nil
}

// RegisterDriver makes another dialect available to New.
func RegisterDriver(name string, factory DriverFactory) {
	driverFactories[name] = factory
}
