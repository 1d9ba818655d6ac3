package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config file failed: %v", err)
	}
	return path
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
server:
  listen_address: "127.0.0.1:9000"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Server.ListenAddress != "127.0.0.1:9000" {
		t.Errorf("ListenAddress = %q", cfg.Server.ListenAddress)
	}
	if cfg.Bridge.Timeout != 30*time.Second {
		t.Errorf("Bridge.Timeout = %v, want 30s", cfg.Bridge.Timeout)
	}
	if cfg.Bridge.Provider != "deepeval" {
		t.Errorf("Bridge.Provider = %q, want deepeval", cfg.Bridge.Provider)
	}
	if cfg.Bridge.BaseURL != "http://deepeval-wrapper.local" {
		t.Errorf("Bridge.BaseURL = %q", cfg.Bridge.BaseURL)
	}
	if cfg.Telemetry.Metrics.Namespace != "hermes" {
		t.Errorf("Metrics.Namespace = %q", cfg.Telemetry.Metrics.Namespace)
	}
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "bad log level",
			content: `
telemetry:
  logging:
    level: loud
`,
		},
		{
			name: "bad target format",
			content: `
bridge:
  target: "no-colon-here"
`,
		},
		{
			name: "bad audit driver",
			content: `
audit:
  enabled: true
  driver: postgres
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfigFile(t, tt.content)
			if _, err := LoadConfig(path); err == nil {
				t.Error("LoadConfig() should reject invalid configuration")
			}
		})
	}
}

func TestEnvOverridesTakePrecedence(t *testing.T) {
	t.Setenv("DEEPEVAL_WRAPPER_IMPORT_PATH", "custom.engine")
	t.Setenv("DEEPEVAL_WRAPPER_TARGET", "custom.engine:handler")
	t.Setenv("DEEPEVAL_HTTP_TIMEOUT", "12.5")
	t.Setenv("API_KEYS", "key-a, key-b,, key-c")
	t.Setenv("HERMES_LISTEN_ADDRESS", "0.0.0.0:9001")

	path := writeConfigFile(t, `
bridge:
  import_path: "file.engine"
  timeout: 5s
`)

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides() error = %v", err)
	}

	if cfg.Bridge.ImportPath != "custom.engine" {
		t.Errorf("ImportPath = %q, want env override", cfg.Bridge.ImportPath)
	}
	if cfg.Bridge.Target != "custom.engine:handler" {
		t.Errorf("Target = %q", cfg.Bridge.Target)
	}
	if cfg.Bridge.Timeout != 12500*time.Millisecond {
		t.Errorf("Timeout = %v, want 12.5s", cfg.Bridge.Timeout)
	}
	if len(cfg.Auth.Keys) != 3 {
		t.Fatalf("Auth.Keys = %v, want 3 keys", cfg.Auth.Keys)
	}
	if cfg.Auth.Keys[0] != "key-a" || cfg.Auth.Keys[2] != "key-c" {
		t.Errorf("Auth.Keys = %v", cfg.Auth.Keys)
	}
	if cfg.Server.ListenAddress != "0.0.0.0:9001" {
		t.Errorf("ListenAddress = %q", cfg.Server.ListenAddress)
	}
}

func TestEmptyAPIKeysDisablesAuth(t *testing.T) {
	t.Setenv("API_KEYS", "")

	cfg, err := LoadConfigWithEnvOverrides("")
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides() error = %v", err)
	}
	if len(cfg.Auth.Keys) != 0 {
		t.Errorf("Auth.Keys = %v, want empty (auth disabled)", cfg.Auth.Keys)
	}
}

func TestLoadConfigWithEnvOverridesMissingFile(t *testing.T) {
	cfg, err := LoadConfigWithEnvOverrides(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("missing file should fall back to defaults, got %v", err)
	}
	if cfg.Server.ListenAddress == "" {
		t.Error("defaults were not applied")
	}
}
