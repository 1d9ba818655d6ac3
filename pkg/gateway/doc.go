// Package gateway implements the outward HTTP surface of the bridge: the
// /bridge routes that wrap engine responses in result envelopes, the health
// and discovery endpoints, and the mapping from normalized bridge errors to
// HTTP statuses.
package gateway
