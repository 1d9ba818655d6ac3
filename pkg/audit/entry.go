package audit

import "time"

// Entry is one bridged-call audit record.
type Entry struct {
	// ID is the storage row identifier, assigned at enqueue time.
	ID string

	// RequestID is the correlation id of the inbound request.
	RequestID string

	// Method and Path identify the gateway route.
	Method string
	Path   string

	// Status is the HTTP status returned to the caller.
	Status int

	// ErrorKind is the normalized failure category, empty on success.
	ErrorKind string

	// Duration is the wall time from receipt to response.
	Duration time.Duration

	// CreatedAt is when the entry was enqueued, in UTC.
	CreatedAt time.Time
}
