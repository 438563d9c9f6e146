package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// EnvConfig holds settings read from environment variables
type EnvConfig struct {
	Home          string        `env:"HOME"`
	XDGConfigHome string        `env:"XDG_CONFIG_HOME"`
	StorePath     string        `env:"PROTON_HANDLER_CONFIG"`
	Identifiers   []string      `env:"PROTON_HANDLER_IDENTIFIERS" envSeparator:","`
	ReadTimeout   time.Duration `env:"PROTON_HANDLER_READ_TIMEOUT" envDefault:"2s"`
	ProcRoot      string        `env:"PROTON_HANDLER_PROC_ROOT" envDefault:"/proc"`
	LogLevel      string        `env:"PROTON_HANDLER_LOG_LEVEL" envDefault:"info"`
}

// ParseEnvConfig parses settings from an explicit KEY=VALUE environment list,
// as returned by os.Environ.
func ParseEnvConfig(environ []string) (*EnvConfig, error) {
	var cfg EnvConfig
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: env.ToMap(environ)}); err != nil {
		return nil, fmt.Errorf("failed to parse environment config: %w", err)
	}
	return &cfg, nil
}
