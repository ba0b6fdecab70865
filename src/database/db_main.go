package database

import (
	"fmt"
	"strings"
	"time"

	"crashwatch/src/model"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// MainDB is the durable crash store connection used by the application.
var MainDB *gorm.DB

// Dialector picks the gorm dialector for the configured driver.
func Dialector(config Config) (gorm.Dialector, error) {
	switch strings.ToLower(config.Driver) {
	case "", "sqlite":
		return sqlite.Open(config.DatabaseURLMain), nil
	case "postgres":
		return postgres.Open(config.DatabaseURLMain), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", config.Driver)
	}
}

// Open connects using config and migrates the crash slot table.
func Open(config Config) (*gorm.DB, error) {
	dialector, err := Dialector(config)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.LogLevel(config.GormLogLevel)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", config.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB from gorm: %w", err)
	}
	if config.Driver == "postgres" {
		sqlDB.SetMaxOpenConns(5)
		sqlDB.SetMaxIdleConns(2)
	} else {
		// one writer keeps sqlite out of "database is locked"
		sqlDB.SetMaxOpenConns(1)
	}
	sqlDB.SetConnMaxLifetime(1 * time.Hour)

	if err := db.AutoMigrate(&model.CrashSlot{}); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, nil
}

// InitMainDB initializes MainDB. Call it once at startup, before any
// repository built with NewCrashSlotRepository is used.
func InitMainDB() error {
	config := GetConfig()

	db, err := Open(config)
	if err != nil {
		return err
	}

	// Assign to the global variable only after a successful connection.
	MainDB = db

	logrus.WithField("driver", config.Driver).Info("[database] MainDB connection established")
	return nil
}
