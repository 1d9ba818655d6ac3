package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file, applies defaults, and
// validates the result. Environment variables are not consulted; use
// LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables always take
// precedence over file-based configuration. When path is empty or the file
// does not exist, defaults plus environment overrides are used.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	var cfg *Config

	if path != "" {
		if _, statErr := os.Stat(path); statErr == nil {
			loaded, err := LoadConfig(path)
			if err != nil {
				return nil, err
			}
			cfg = loaded
		}
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}

	ApplyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// ApplyEnvOverrides applies environment variable overrides. The bridge
// options keep the names the embedded engine's operators already know;
// server options use the HERMES_ prefix.
func ApplyEnvOverrides(cfg *Config) {
	if val := strings.TrimSpace(os.Getenv("DEEPEVAL_WRAPPER_IMPORT_PATH")); val != "" {
		cfg.Bridge.ImportPath = val
	}
	if val := strings.TrimSpace(os.Getenv("DEEPEVAL_WRAPPER_TARGET")); val != "" {
		cfg.Bridge.Target = val
	}
	if val := strings.TrimSpace(os.Getenv("DEEPEVAL_HTTP_TIMEOUT")); val != "" {
		if secs, err := strconv.ParseFloat(val, 64); err == nil && secs > 0 {
			cfg.Bridge.Timeout = time.Duration(secs * float64(time.Second))
		}
	}

	// API_KEYS distinguishes "unset" from "set but empty": both leave the
	// key list empty, but an explicit empty value is a deliberate disable.
	if raw, ok := os.LookupEnv("API_KEYS"); ok {
		cfg.Auth.Keys = splitKeys(raw)
	}

	if val := os.Getenv("HERMES_LISTEN_ADDRESS"); val != "" {
		cfg.Server.ListenAddress = val
	}
	if val := os.Getenv("HERMES_LOG_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
}

// splitKeys parses a comma-separated key list, trimming whitespace and
// dropping empty entries.
func splitKeys(raw string) []string {
	var keys []string
	for _, part := range strings.Split(raw, ",") {
		if key := strings.TrimSpace(part); key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}
