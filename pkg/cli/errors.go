package cli

import (
	"errors"
	"fmt"
)

// Exit codes distinguish configuration problems the operator must fix from
// runtime failures a supervisor may retry.
const (
	ExitFailure = 1
	ExitConfig  = 2
)

// ConfigError reports a configuration problem. Field, when set, names the
// offending config key or flag.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return "invalid configuration: " + e.Message
	}
	return fmt.Sprintf("invalid configuration (%s): %s", e.Field, e.Message)
}

// NewConfigError creates a ConfigError. An empty field is elided from the
// message.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{Field: field, Message: message}
}

// CommandError ties a runtime failure to the subcommand that hit it.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewCommandError wraps err with the failing command's name.
func NewCommandError(command string, err error) *CommandError {
	return &CommandError{Command: command, Err: err}
}

// ExitCode maps a command failure to the process exit code: ExitConfig for
// configuration errors anywhere in the chain, ExitFailure otherwise.
func ExitCode(err error) int {
	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return ExitConfig
	}
	return ExitFailure
}
