package connectors

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	BaseURL        string        `envconfig:"BOARD_API_URL" default:"http://localhost:8080"`
	Timeout        time.Duration `envconfig:"BOARD_API_TIMEOUT" default:"15s"`
	RetryAttempts  int           `envconfig:"BOARD_API_RETRY_ATTEMPTS" default:"3"`
	RetryBaseDelay time.Duration `envconfig:"BOARD_API_RETRY_DELAY" default:"500ms"`
	RetryMaxDelay  time.Duration `envconfig:"BOARD_API_RETRY_MAX_DELAY" default:"8s"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}
