package repository

import "errors"

// Sentinel errors returned by the storage layer. Services translate
// these into the application error taxonomy.
var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateUser is returned when a username or email is already taken.
	ErrDuplicateUser = errors.New("username or email already taken")

	// ErrAlreadyFollowing is returned when the actor already follows the target.
	ErrAlreadyFollowing = errors.New("already following")

	// ErrNotFollowing is returned when unfollowing a user who is not followed.
	ErrNotFollowing = errors.New("not following")
)
