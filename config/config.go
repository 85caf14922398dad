// Package config loads the harness settings from defaults, an optional YAML file and
// CONTRACT_ environment variables.
package config

import (
	"time"

	"github.com/setianjay/api-contract-tests/transport"
)

type Config struct {
	Log     LogConfig     `mapstructure:"log" validate:"required"`
	HTTP    HTTPConfig    `mapstructure:"http" validate:"required"`
	Targets TargetsConfig `mapstructure:"targets" validate:"required"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
}

// HTTPConfig holds the connection settings applied to every suite.
type HTTPConfig struct {
	IdleTimeout    time.Duration `mapstructure:"idle_timeout" validate:"gt=0"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout" validate:"gt=0"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout" validate:"gt=0"`
	MaxConnections int           `mapstructure:"max_connections" validate:"gt=0"`
	MaxPerRoute    int           `mapstructure:"max_per_route" validate:"gt=0,ltefield=MaxConnections"`
	UserAgent      string        `mapstructure:"user_agent" validate:"required"`
}

type TargetsConfig struct {
	BookingURL string `mapstructure:"booking_url" validate:"required,url"`
	ObjectsURL string `mapstructure:"objects_url" validate:"required,url"`
}

// MetricsConfig controls the optional Prometheus listener. An empty Addr disables it.
type MetricsConfig struct {
	Addr string `mapstructure:"addr" validate:"omitempty,hostname_port"`
}

func (h HTTPConfig) Transport() transport.Config {
	return transport.Config{
		IdleTimeout:    h.IdleTimeout,
		ConnectTimeout: h.ConnectTimeout,
		ReadTimeout:    h.ReadTimeout,
		MaxConnections: h.MaxConnections,
		MaxPerRoute:    h.MaxPerRoute,
	}
}
