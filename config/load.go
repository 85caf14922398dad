package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/setianjay/api-contract-tests/request"
	"github.com/setianjay/api-contract-tests/transport"
)

const (
	EnvPrefix = "CONTRACT"

	DefaultBookingURL = "https://restful-booker.herokuapp.com"
	DefaultObjectsURL = "https://api.restful-api.dev"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("http.idle_timeout", transport.DefaultIdleTimeout)
	v.SetDefault("http.connect_timeout", transport.DefaultConnectTimeout)
	v.SetDefault("http.read_timeout", transport.DefaultReadTimeout)
	v.SetDefault("http.max_connections", transport.DefaultMaxConnections)
	v.SetDefault("http.max_per_route", transport.DefaultMaxPerRoute)
	v.SetDefault("http.user_agent", request.DefaultUserAgent)
	v.SetDefault("targets.booking_url", DefaultBookingURL)
	v.SetDefault("targets.objects_url", DefaultObjectsURL)
	v.SetDefault("metrics.addr", "")
}

// Load reads the configuration. Values come from, in increasing precedence: defaults,
// the YAML file at path (skipped when path is empty), and CONTRACT_ environment
// variables such as CONTRACT_HTTP_READ_TIMEOUT.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigType("yaml")
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}
