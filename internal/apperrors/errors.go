package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrConflict indicates that the current state of a resource blocks the
// requested mutation (e.g. deleting an account that still has children).
var ErrConflict = errors.New("conflict with existing state")

// ErrCapacity indicates that the account code space for a scope is exhausted.
var ErrCapacity = errors.New("code capacity exhausted")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")
