package config

import (
	"fmt"
	"strings"
)

// Validate checks the configuration for internal consistency. It is called
// after defaults and after environment overrides.
func Validate(cfg *Config) error {
	if cfg.Server.ListenAddress == "" {
		return fmt.Errorf("server.listen_address must not be empty")
	}
	if !strings.Contains(cfg.Server.ListenAddress, ":") {
		return fmt.Errorf("server.listen_address %q must be host:port", cfg.Server.ListenAddress)
	}
	if cfg.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be positive")
	}

	if cfg.Bridge.Timeout <= 0 {
		return fmt.Errorf("bridge.timeout must be positive")
	}
	if cfg.Bridge.Target != "" && !strings.Contains(cfg.Bridge.Target, ":") {
		return fmt.Errorf("bridge.target %q must be <module>:<attribute>", cfg.Bridge.Target)
	}
	if !strings.HasPrefix(cfg.Bridge.BaseURL, "http://") && !strings.HasPrefix(cfg.Bridge.BaseURL, "https://") {
		return fmt.Errorf("bridge.base_url %q must be an http(s) URL", cfg.Bridge.BaseURL)
	}
	for _, candidate := range cfg.Bridge.Candidates {
		if strings.TrimSpace(candidate) == "" {
			return fmt.Errorf("bridge.candidates must not contain empty names")
		}
	}

	switch cfg.Telemetry.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("telemetry.logging.level %q is not one of debug, info, warn, error", cfg.Telemetry.Logging.Level)
	}
	switch cfg.Telemetry.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("telemetry.logging.format %q is not one of json, text", cfg.Telemetry.Logging.Format)
	}

	if !strings.HasPrefix(cfg.Telemetry.Metrics.Path, "/") {
		return fmt.Errorf("telemetry.metrics.path %q must start with /", cfg.Telemetry.Metrics.Path)
	}

	if cfg.Audit.Enabled {
		switch cfg.Audit.Driver {
		case "sqlite", "sqlite3":
		default:
			return fmt.Errorf("audit.driver %q is not one of sqlite, sqlite3", cfg.Audit.Driver)
		}
		if cfg.Audit.Path == "" {
			return fmt.Errorf("audit.path must not be empty when audit is enabled")
		}
		if cfg.Audit.AsyncBuffer <= 0 {
			return fmt.Errorf("audit.async_buffer must be positive")
		}
	}

	return nil
}
