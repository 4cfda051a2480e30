// Package storage provides the state management for user accounts.
package storage

import (
	"context"

	"github.com/groovix/groovix/internal/storage/db"
)

const (
	// ErrNotFound is returned when a user cannot be found.
	ErrNotFound Error = "not found"
	// ErrAlreadyExists is returned if a unique user already exists.
	ErrAlreadyExists Error = "already exists"
	// ErrInvalidEmail is returned when an email address fails validation.
	ErrInvalidEmail Error = "email must contain a single @ with a non-empty local part and domain"
	// ErrInternal is returned for any other type of error.
	ErrInternal Error = "internal error"
)

// Error is an error type returned by the storage implementation.
type Error string

// Error satisfies [error].
func (e Error) Error() string { return string(e) }

// Users are the methods on a storage implementation that are responsible for
// accessing and modifying user accounts.
type Users interface {
	// CreateUser persists a new user and returns it with its assigned ID and
	// creation time. An [ErrAlreadyExists] is returned if the email is
	// already in use.
	CreateUser(ctx context.Context, user db.User) (db.User, error)
	// ListUsers returns all users ordered by creation time, newest first.
	ListUsers(ctx context.Context) ([]db.User, error)
	// GetUser returns a single user with the specified ID. An [ErrNotFound]
	// is returned if the user ID does not exist.
	GetUser(ctx context.Context, userID uint64) (db.User, error)
	// GetUserByEmail returns a single user with the specified email, matched
	// exactly as stored. An [ErrNotFound] is returned if no user has it.
	GetUserByEmail(ctx context.Context, email string) (db.User, error)
	// UpdateUser applies a partial update to the user identified by
	// params.ID. Nil fields are left unchanged. An [ErrNotFound] is returned
	// if the user ID does not exist.
	UpdateUser(ctx context.Context, params UpdateUserParams) error
	// DeleteUser removes a user. Note that this is a hard delete; data is not
	// recoverable.
	DeleteUser(ctx context.Context, userID uint64) error
}

// UpdateUserParams describes a partial user update. Nil pointer fields are
// not modified. The password hash is deliberately absent: credential changes
// go through registration only.
type UpdateUserParams struct {
	ID     uint64
	Email  *string
	Name   *string
	Active *bool
}

// Store is the [Users] interface plus lifecycle management.
type Store interface {
	Users
	// Close releases any resources held by the store. An error is returned if
	// the store cannot be cleanly closed.
	Close() error
}
