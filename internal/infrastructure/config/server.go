package config

import "time"

// ServerConfig holds the HTTP API configuration
type ServerConfig struct {
	// Listen host
	Host string `mapstructure:"host"`

	// Listen port
	Port int `mapstructure:"port" validate:"min=1,max=65535"`

	// Per-request read/write timeouts
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`

	// Grace period for in-flight requests on shutdown
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// CacheConfig holds last-good cache configuration
type CacheConfig struct {
	// TTL for last-good lanes and capacity
	TTL time.Duration `mapstructure:"ttl" validate:"required"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	// Enable the Prometheus registry and /metrics endpoint
	Enabled bool `mapstructure:"enabled"`
}
