// Package repository contains data access layer abstractions.
// Implementations live in subpackages (postgres) inside this directory and
// contain no business logic: strictly persistence operations.
//
// Lookups that match no row return sql.ErrNoRows; callers translate it.
package repository

import "errors"

var (
	// ErrDuplicateEmail is returned when a company email is already taken.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrDuplicateDocument is returned when a patient document number is already taken.
	ErrDuplicateDocument = errors.New("document number already registered")
	// ErrDuplicateUsername is returned when a username is already taken.
	ErrDuplicateUsername = errors.New("username already registered")
)

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}
