// Package registry holds the process-local catalog of embedded engine
// modules. Go has no runtime module import, so loadable modules are modeled
// as named bundles of exported entries (handlers, factories, plain values)
// that engines publish at wiring time, the way database/sql drivers register
// themselves.
//
// A Module preserves export order so that attribute scans are deterministic.
// Registration happens once during process startup; lookups are read-only and
// safe for concurrent use afterwards.
package registry
