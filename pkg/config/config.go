package config

import "time"

// Config is the root configuration for the Hermes bridge service.
type Config struct {
	// Server contains HTTP server settings for the bridge's own listener.
	Server ServerConfig `yaml:"server"`

	// Bridge contains engine resolution and dispatch settings.
	Bridge BridgeConfig `yaml:"bridge"`

	// Auth contains API-key authentication settings for bridged endpoints.
	Auth AuthConfig `yaml:"auth"`

	// Telemetry contains logging, metrics, and health probe settings.
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Audit contains the bridged-call audit trail settings.
	Audit AuditConfig `yaml:"audit"`
}

// ServerConfig contains settings for the outward-facing HTTP server.
type ServerConfig struct {
	// ListenAddress is the "host:port" the server binds to.
	// Default: "0.0.0.0:8000"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout bounds reading the entire request including the body.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout bounds writing the response. It must leave room for the
	// bridge dispatch timeout.
	// Default: 60s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout bounds keep-alive waits for the next request.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout bounds graceful shutdown; in-flight requests get this
	// long to finish naturally.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes limits request header parsing.
	// Default: 1048576 (1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes"`
}

// BridgeConfig contains engine resolution and in-process dispatch settings.
// Constructed once at startup; read-only thereafter.
type BridgeConfig struct {
	// ImportPath is an explicit engine module name tried before the
	// conventional candidates. Empty means no override.
	ImportPath string `yaml:"import_path"`

	// Target is an explicit "<module>:<attribute>" handler location,
	// evaluated independently of the resolved module. Empty means no
	// override.
	Target string `yaml:"target"`

	// Candidates replaces the conventional module fallback list when set.
	Candidates []string `yaml:"candidates"`

	// Timeout bounds a single dispatch to the engine.
	// Default: 30s
	Timeout time.Duration `yaml:"timeout"`

	// BaseURL is the routing namespace for in-process dispatches. It is
	// never dialed.
	// Default: "http://deepeval-wrapper.local"
	BaseURL string `yaml:"base_url"`

	// Provider is the identifier stamped into response envelopes.
	// Default: "deepeval"
	Provider string `yaml:"provider"`
}

// AuthConfig contains API-key settings. An empty key list disables
// authentication entirely; that state is logged loudly at startup so it is
// distinguishable from a misconfiguration.
type AuthConfig struct {
	// Keys is the set of authorized API keys. Order does not matter and
	// duplicates are harmless.
	Keys []string `yaml:"keys"`
}

// TelemetryConfig groups observability settings.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Health  HealthConfig  `yaml:"health"`
}

// LoggingConfig contains structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error.
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the output format: json or text.
	// Default: "json"
	Format string `yaml:"format"`
}

// MetricsConfig contains Prometheus exposition settings.
type MetricsConfig struct {
	// Disabled turns off metric collection and the exposition endpoint.
	// Metrics are on by default.
	Disabled bool `yaml:"disabled"`

	// Namespace is the metric name prefix.
	// Default: "hermes"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric name subsystem segment.
	// Default: "bridge"
	Subsystem string `yaml:"subsystem"`

	// Path is where the exposition handler is mounted.
	// Default: "/metrics"
	Path string `yaml:"path"`
}

// HealthConfig contains health probe settings.
type HealthConfig struct {
	// ProbeSchedule is a cron expression for the periodic engine liveness
	// probe. Empty disables the scheduled probe.
	// Default: "@every 1m"
	ProbeSchedule string `yaml:"probe_schedule"`

	// CheckTimeout bounds an individual health check.
	// Default: 5s
	CheckTimeout time.Duration `yaml:"check_timeout"`
}

// AuditConfig contains settings for the bridged-call audit trail.
type AuditConfig struct {
	// Enabled toggles audit recording.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Driver selects the SQLite driver: "sqlite" (pure Go) or "sqlite3"
	// (cgo).
	// Default: "sqlite"
	Driver string `yaml:"driver"`

	// Path is the database file path.
	// Default: "data/audit.db"
	Path string `yaml:"path"`

	// AsyncBuffer is the size of the asynchronous write buffer. When the
	// buffer is full, records are dropped rather than blocking requests.
	// Default: 1000
	AsyncBuffer int `yaml:"async_buffer"`
}
