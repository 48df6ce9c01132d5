package models

import "errors"

var (
	errFutureDate = errors.New("date must not be in the future")
	errUnits      = errors.New("units must be greater than 0 and at most 5")
)
