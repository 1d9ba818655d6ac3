// Package lifecycle owns construction and teardown of the resolved engine
// handler and its in-process transport.
//
// Start performs module resolution and handler location exactly once and
// publishes the resulting client for read-only sharing by concurrent request
// handlers. There is no re-resolution mid-flight: the published client lives
// for the remainder of the process. A failed start leaves the manager in a
// degraded state where bridged endpoints report service_unavailable, without
// terminating the hosting process.
package lifecycle
