// Package repository defines the storage errors shared by every backend.
package repository

import "errors"

var (
	ErrNotFound = errors.New("not found")
	// ErrConflict means the key is already taken.
	ErrConflict = errors.New("conflict: entity already exists")
	// ErrForeignKeyViolation means a referenced row, such as a session's
	// selected project, does not exist.
	ErrForeignKeyViolation = errors.New("referenced entity does not exist")
	ErrInvalidInput        = errors.New("invalid input")
)
