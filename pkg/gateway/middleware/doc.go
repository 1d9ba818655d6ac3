// Package middleware provides the HTTP middleware chain applied in front of
// the gateway handlers: panic recovery, request correlation, and access
// logging. Ordering matters; recovery sits outermost so a panic anywhere in
// the chain still produces a well-formed error response.
package middleware
