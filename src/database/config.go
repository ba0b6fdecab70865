package database

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	LogLevel string `envconfig:"LOG_LEVEL" default:"debug"` // Expected to hold values like "debug", "info", "warn", "error"
	// Driver selects the durable store backend: "sqlite" (local file) or "postgres".
	Driver          string `envconfig:"DATABASE_DRIVER" default:"sqlite"`
	DatabaseURLMain string `envconfig:"DATABASE_URL_MAIN" default:"file:crashwatch.db?_busy_timeout=5000"`
	GormLogLevel    int    `envconfig:"GORM_LOG_LEVEL" default:"1"`
	CrashStoreKey   string `envconfig:"CRASH_STORE_KEY" default:"board:lastCrash"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}
