// Package clients is the resilient HTTP transport used to reach the remote
// quote source. It knows nothing about quotes; the acl package translates
// its failures into domain errors.
package clients

import "errors"

var (
	// ErrCircuitOpen means the breaker rejected the call without contacting
	// the remote.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrMaxRetriesExceeded wraps the last failure once every attempt is spent.
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
)
