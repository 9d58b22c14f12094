package domain

import "errors"

var (
	// Validation Errors
	ErrEmptyName   = errors.New("name cannot be empty")
	ErrNameTooLong = errors.New("name is too long")
	ErrInvalidID   = errors.New("id must be a positive integer")

	// Lookup and conflict errors
	ErrListNotFound      = errors.New("list not found")
	ErrDuplicateListName = errors.New("list name must be unique")

	// Authorization errors
	ErrUnauthorized = errors.New("unauthorized access")
	ErrForbidden    = errors.New("forbidden - insufficient permissions")
)
