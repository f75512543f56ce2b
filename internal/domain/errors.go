package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing location, negative rest duration).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrConflict is returned when a trip is locked by another regeneration and
// the lock could not be acquired before the context ended.
// Handlers should map this to HTTP 409 Conflict.
var ErrConflict = errors.New("conflict")
