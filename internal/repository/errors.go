package repository

import "errors"

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// ErrAlreadyConverted is returned when promoting an idea that has already
// been converted into a goal.
var ErrAlreadyConverted = errors.New("idea already converted")
