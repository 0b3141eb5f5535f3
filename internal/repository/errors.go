package repository

import "errors"

// Repository errors
var (
	// ErrNotFound indicates the requested record was not found.
	// Services translate this into the aggregate-typed not-found error;
	// repositories never raise aggregate errors themselves.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey indicates a unique index rejected a write. This is
	// the storage-level backstop behind the service-level uniqueness
	// check; services translate it into the aggregate-typed
	// already-exists error.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrUnknownColumn indicates a key column that the collection spec
	// does not declare.
	ErrUnknownColumn = errors.New("unknown key column")
)
