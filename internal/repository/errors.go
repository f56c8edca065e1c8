// Package repository defines data access for the ticket allocation
// core. Error conventions: bad input (blank seat fields, out-of-range
// seat counts, unknown foreign keys) surfaces as ErrValidation so
// handlers can reject the request; "not found or not in the required
// state" is signaled by a false/zero return from the conditional
// update, never an error; anything else is a storage failure and
// propagates unwrapped.
package repository

import (
	"errors"
	"fmt"
	"strings"
)

// ErrValidation marks caller mistakes: malformed identifiers, blank
// required fields, out-of-range values, references to rows that do not
// exist. Handlers translate it into HTTP 400.
var ErrValidation = errors.New("validation error")

// ErrSeatNotFound is returned when a seat lookup yields no rows.
var ErrSeatNotFound = errors.New("seat not found")

// ErrGameNotFound is returned when a game lookup yields no rows.
var ErrGameNotFound = errors.New("game not found")

// validationf builds an ErrValidation with detail text.
func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// isForeignKeyErr reports whether a MySQL error is a foreign key
// constraint failure (errno 1452), meaning the caller referenced a
// seat, game or user that does not exist.
func isForeignKeyErr(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1452")
}
