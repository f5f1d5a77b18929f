package store

import (
	domainerrors "github.com/iohusni/garaadsom-book-shop/internal/errors"
)

// Sentinel errors surfaced by store operations. They carry domain error
// codes so the API layer can map them to HTTP statuses without the store
// knowing anything about transport.
var (
	ErrNotFound      = domainerrors.ErrNotFound
	ErrAlreadyExists = domainerrors.ErrAlreadyExists

	// ErrActiveBookExists is returned when a write would leave two books
	// active at once. The single-active-book rule is enforced inside the
	// same transaction as the book write, so concurrent creates can't race
	// past it.
	ErrActiveBookExists = domainerrors.Conflict("an active book already exists")

	ErrSessionNotFound = domainerrors.Unauthorized("session not found")
	ErrSessionExpired  = domainerrors.TokenExpired("session expired")
)
