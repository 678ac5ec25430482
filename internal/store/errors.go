package store

import "errors"

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail is returned when creating a user with an email that
// already exists.
var ErrDuplicateEmail = errors.New("email already registered")
