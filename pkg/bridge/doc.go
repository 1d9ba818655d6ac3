// Package bridge dispatches protocol-shaped requests to the embedded
// evaluation engine without opening a socket.
//
// Transport adapts a resolved http.Handler into an http.RoundTripper so the
// shared http.Client machinery (request construction, header handling, body
// plumbing) is reused unchanged while every exchange stays in-process. Client
// wraps the transport with JSON encoding, timeout enforcement, and failure
// normalization into the single Error taxonomy consumed by the gateway.
//
// Each dispatch is independent: request and response state is per-call, so
// concurrent dispatches never observe each other's bodies. A timed-out call
// abandons only its own wait.
package bridge
