package config

import "time"

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	// Upstream defaults
	if cfg.Upstream.BaseURL == "" {
		cfg.Upstream.BaseURL = "https://www.wsdot.wa.gov"
	}
	if cfg.Upstream.Timeout == 0 {
		cfg.Upstream.Timeout = 8 * time.Second
	}
	if cfg.Upstream.Retry.MaxAttempts == 0 {
		cfg.Upstream.Retry.MaxAttempts = 2
	}
	if cfg.Upstream.Retry.BackoffBase == 0 {
		cfg.Upstream.Retry.BackoffBase = 500 * time.Millisecond
	}
	if cfg.Upstream.Timezone == "" {
		cfg.Upstream.Timezone = "America/Los_Angeles"
	}

	// Server defaults
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 10 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		// Assemblies can sit behind three 8s upstream timeouts plus retries.
		cfg.Server.WriteTimeout = 30 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 5 * time.Second
	}

	// Cache defaults
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = 10 * time.Minute
	}
}
