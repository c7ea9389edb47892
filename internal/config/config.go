// Package config holds the configuration of the products service.
package config

import (
	"strings"

	"github.com/abgdnv/products/pkg/config"
	"github.com/abgdnv/products/pkg/config/configloader"
)

// ServiceName prefixes the environment variables read by Load, e.g. PRODUCTS_SERVER_PORT.
const ServiceName = "products"

var _ configloader.Validator = (*Config)(nil)

type Config struct {
	HTTPServer config.HTTPConfig       `koanf:"server"`
	Database   config.DatabaseConfig   `koanf:"database"`
	Log        config.LogConfig        `koanf:"log"`
	PProf      config.PProfConfig      `koanf:"pprof"`
	GRPC       config.GrpcServerConfig `koanf:"grpc"`
	Shutdown   config.ShutdownConfig   `koanf:"shutdown"`
	Telemetry  config.TelemetryConfig  `koanf:"telemetry"`
	NATS       config.NATSConfig       `koanf:"nats"`
	Resilience config.ResilienceConfig `koanf:"resilience"`
}

// Load reads the service configuration from config.yaml, .env and PRODUCTS_* variables.
func Load(opts ...configloader.Option) (*Config, error) {
	return configloader.Load[Config](ServiceName, opts...)
}

func (c *Config) String() string {
	var b strings.Builder
	b.WriteString(c.HTTPServer.String())
	b.WriteString(c.Database.String())
	b.WriteString(c.GRPC.String())
	b.WriteString(c.Log.String())
	b.WriteString(c.PProf.String())
	b.WriteString(c.Telemetry.String())
	b.WriteString(c.NATS.String())
	if c.NATS.Enabled {
		b.WriteString(c.Resilience.String())
	}
	b.WriteString(c.Shutdown.String())
	return b.String()
}

// Validate checks if the configuration values are valid and fills in defaults.
// Resilience settings only apply to event publishing and are checked when NATS is enabled.
func (c *Config) Validate() error {
	validators := []configloader.Validator{
		&c.HTTPServer,
		&c.Database,
		&c.Log,
		&c.PProf,
		&c.GRPC,
		&c.Shutdown,
		&c.Telemetry,
		&c.NATS,
	}
	if c.NATS.Enabled {
		validators = append(validators, &c.Resilience)
	}
	for _, v := range validators {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}
