// Hermes bridges an embedded evaluation engine into an MCP-style HTTP API.
//
// The engine is an http.Handler registered in-process; Hermes resolves it at
// startup, dispatches to it without a network hop, and wraps its responses
// in result envelopes.
//
// Usage:
//
//	# Start the bridge with default configuration
//	hermes run
//
//	# Start with a custom configuration file
//	hermes run --config /etc/hermes/config.yaml
//
//	# Validate configuration without starting
//	hermes validate
//
//	# Show version information
//	hermes version
package main

func main() {
	Execute()
}
