// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios without
// inspecting driver-specific error strings themselves.
package repository

import "errors"

// ErrUserExists is returned when an INSERT collides with the unique
// username or email constraint. Handlers translate this into HTTP 409.
var ErrUserExists = errors.New("username or email already exists")

// ErrNotFound is returned when a referenced question or answer does
// not exist. Handlers translate this into HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the owner_only moderation policy is
// active and the caller does not own the resource. Handlers translate
// this into HTTP 403.
var ErrForbidden = errors.New("forbidden")
