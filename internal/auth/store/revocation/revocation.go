// Package revocation keeps logged-out access tokens listed until they would
// have expired anyway. Every backend treats a blank jti as a no-op and
// rejects a non-positive ttl.
package revocation

import (
	"fmt"
	"time"

	"bloodlink/pkg/platform/sentinel"
)

// Clock returns the current time.
type Clock func() time.Time

// noop reports whether a revocation needs no storage at all. It errors on a
// ttl that would never outlive the token.
func noop(jti string, ttl time.Duration) (bool, error) {
	if jti == "" {
		return true, nil
	}
	if ttl <= 0 {
		return false, fmt.Errorf("revoke %s: ttl must be positive: %w", jti, sentinel.ErrInvalidState)
	}
	return false, nil
}
