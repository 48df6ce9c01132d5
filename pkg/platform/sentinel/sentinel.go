// Package sentinel names the storage facts that services translate into
// domain errors. Stores wrap these; they never return domain errors.
package sentinel

import "errors"

var (
	// ErrNotFound means no row or key matched.
	ErrNotFound = errors.New("not found")
	// ErrConflict means a unique key, such as an email or an organization's
	// blood type row, is already taken.
	ErrConflict = errors.New("conflict")
	// ErrInvalidState means the stored entity cannot take the requested change.
	ErrInvalidState = errors.New("invalid state")
)
