// Package config defines and loads the Hermes bridge configuration.
//
// Configuration comes from an optional YAML file with defaults applied, then
// environment variable overrides, then validation. The loaded Config is
// immutable after startup: nothing in the serving path writes to it, so no
// locking is needed for steady-state traffic. A file watcher can flag on-disk
// changes, but they only take effect on restart.
//
// Recognized environment options:
//
//	DEEPEVAL_WRAPPER_IMPORT_PATH  explicit engine module override
//	DEEPEVAL_WRAPPER_TARGET       explicit "<module>:<attribute>" handler target
//	DEEPEVAL_HTTP_TIMEOUT         dispatch timeout in seconds (default 30)
//	API_KEYS                      comma-separated authorized keys (empty disables auth)
//	HERMES_LISTEN_ADDRESS         HTTP listen address
//	HERMES_LOG_LEVEL              log level (debug, info, warn, error)
package config
