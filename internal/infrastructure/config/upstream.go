package config

import "time"

// UpstreamConfig holds ferry operations API client configuration
type UpstreamConfig struct {
	// API access code; the single required credential. Its absence is a
	// fatal start-up error.
	AccessCode string `mapstructure:"access_code" validate:"required"`

	// Base URL for the WSDOT ferries REST API
	BaseURL string `mapstructure:"base_url" validate:"required,url"`

	// Request timeout
	Timeout time.Duration `mapstructure:"timeout" validate:"required"`

	// Retry configuration
	Retry RetryConfig `mapstructure:"retry"`

	// IANA zone used to derive the schedule day boundary
	Timezone string `mapstructure:"timezone"`
}

// RetryConfig holds retry configuration for failed upstream requests
type RetryConfig struct {
	// Maximum number of attempts per request
	MaxAttempts int `mapstructure:"max_attempts" validate:"min=1"`

	// Fixed backoff between attempts
	BackoffBase time.Duration `mapstructure:"backoff_base"`
}
