package console

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	RingCapacity int `envconfig:"CONSOLE_RING_CAPACITY" default:"100"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}
