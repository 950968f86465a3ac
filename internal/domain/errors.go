package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness conflict on insert.
	ErrAlreadyExists = errors.New("already exists")
	// ErrUnauthenticated indicates a cart or checkout operation was
	// attempted without an active identity.
	ErrUnauthenticated = errors.New("sign in required")
	// ErrEmptyCart indicates checkout was attempted on an empty cart.
	ErrEmptyCart = errors.New("cart is empty")
)
