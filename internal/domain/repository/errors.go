package repository

import "errors"

// Errors shared by repository implementations so services can branch on
// outcomes without knowing the backing store.
var (
	ErrNotFound           = errors.New("not found")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrDuplicateSKU       = errors.New("sku already exists")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrProductUnavailable = errors.New("product unavailable")
	ErrInvalidTransition  = errors.New("invalid status transition")
)
