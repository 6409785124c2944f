// Package config defines the product catalog service configuration.
package config

import (
	"strings"

	"github.com/abgdnv/productcatalog/pkg/config"
	"github.com/abgdnv/productcatalog/pkg/config/configloader"
)

var _ configloader.Validator = (*Config)(nil)

type Config struct {
	HTTPServer config.HTTPConfig           `koanf:"server"`
	Database   config.DatabaseConfig       `koanf:"database"`
	Store      config.StoreConfig          `koanf:"store"`
	Breaker    config.CircuitBreakerConfig `koanf:"circuitbreaker"`
	Log        config.LogConfig            `koanf:"log"`
	PProf      config.PProfConfig          `koanf:"pprof"`
	GRPC       config.GrpcServerConfig     `koanf:"grpc"`
	Metrics    config.MetricsConfig        `koanf:"metrics"`
	Telemetry  config.TelemetryConfig      `koanf:"telemetry"`
	Shutdown   config.ShutdownConfig       `koanf:"shutdown"`
}

// Defaults returns the built-in configuration: an in-memory seeded catalog on port 8000.
func Defaults() map[string]any {
	return map[string]any{
		"server.port":                        8000,
		"server.maxHeaderBytes":              1 << 20,
		"server.timeout.read":                "10s",
		"server.timeout.write":               "10s",
		"server.timeout.idle":                "60s",
		"server.timeout.readHeader":          "5s",
		"database.timeout":                   "10s",
		"database.migrate":                   true,
		"store.driver":                       config.StoreDriverMemory,
		"store.seed":                         true,
		"circuitbreaker.enabled":             true,
		"circuitbreaker.consecutivefailures": 5,
		"circuitbreaker.errorratepercent":    50,
		"circuitbreaker.opentimeout":         "10s",
		"log.level":                          "info",
		"pprof.enabled":                      false,
		"pprof.addr":                         "localhost:6060",
		"grpc.port":                          "9090",
		"grpc.reflection":                    false,
		"grpc.healthInterval":                "10s",
		"metrics.enabled":                    true,
		"telemetry.enabled":                  false,
		"telemetry.traces.otlphttp.endpoint": "localhost:4318",
		"telemetry.traces.otlphttp.insecure": true,
		"telemetry.traces.otlphttp.timeout":  "5s",
		"shutdown.timeout":                   "30s",
	}
}

func (c *Config) String() string {
	var b strings.Builder
	b.WriteString(c.HTTPServer.String())
	b.WriteString(c.Store.String())
	if c.Store.Driver == config.StoreDriverPostgres {
		b.WriteString(c.Database.String())
		b.WriteString(c.Breaker.String())
	}
	b.WriteString(c.GRPC.String())
	b.WriteString(c.Log.String())
	b.WriteString(c.PProf.String())
	b.WriteString(c.Metrics.String())
	b.WriteString(c.Telemetry.String())
	b.WriteString(c.Shutdown.String())
	return b.String()
}

// Validate checks if the configuration values are valid.
// Database settings are only checked when the postgres store is selected.
func (c *Config) Validate() error {
	if err := c.HTTPServer.Validate(); err != nil {
		return err
	}
	if err := c.Store.Validate(); err != nil {
		return err
	}
	if c.Store.Driver == config.StoreDriverPostgres {
		if err := c.Database.Validate(); err != nil {
			return err
		}
		if err := c.Breaker.Validate(); err != nil {
			return err
		}
	}
	if err := c.Log.Validate(); err != nil {
		return err
	}
	if err := c.PProf.Validate(); err != nil {
		return err
	}
	if err := c.Shutdown.Validate(); err != nil {
		return err
	}
	if err := c.GRPC.Validate(); err != nil {
		return err
	}
	if err := c.Telemetry.Validate(); err != nil {
		return err
	}
	return nil
}
