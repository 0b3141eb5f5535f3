// Package app defines the application's command and query messages and
// wires them to the services through the mediator. Each aggregate
// instantiation of a generic message is a distinct runtime type, so the
// mediator's exact-type dispatch keeps resources fully isolated.
package app

import (
	"io"

	"github.com/google/uuid"

	"github.com/prn-tf/atlant-cms/internal/domain"
	"github.com/prn-tf/atlant-cms/internal/repository"
)

// CreateCommand persists a new aggregate.
type CreateCommand[T domain.Aggregate] struct {
	Entity T
}

// UpdateCommand replaces an existing aggregate. The stored ID and
// CreatedAt are preserved by the service.
type UpdateCommand[T domain.Aggregate] struct {
	Entity T
}

// UpdateOrderCommand changes only the display order of an aggregate.
type UpdateOrderCommand[T domain.Aggregate] struct {
	ID    uuid.UUID
	Order int
}

// DeleteCommand removes an aggregate, cascading where the aggregate
// owns children.
type DeleteCommand[T domain.Aggregate] struct {
	ID uuid.UUID
}

// GetByIDQuery fetches one aggregate by ID.
type GetByIDQuery[T domain.Aggregate] struct {
	ID uuid.UUID
}

// GetByKeyQuery fetches one aggregate by its natural key value.
type GetByKeyQuery[T domain.Aggregate] struct {
	Key string
}

// ListQuery fetches one page of aggregates plus the filter-wide total.
type ListQuery[T domain.Aggregate] struct {
	Options repository.ListOptions
}

// CountQuery returns the total matching the filters.
type CountQuery[T domain.Aggregate] struct {
	Filters repository.Filters
}

// RegisterUserCommand creates an editor account.
type RegisterUserCommand struct {
	Email    string
	Password string
	Name     string
}

// AuthenticateCommand verifies editor credentials.
type AuthenticateCommand struct {
	Email    string
	Password string
}

// ChangePasswordCommand replaces an account's password.
type ChangePasswordCommand struct {
	ID       uuid.UUID
	Password string
}

// UploadFileCommand stores an uploaded file in the blob backend.
type UploadFileCommand struct {
	Filename    string
	Content     io.Reader
	Size        int64
	ContentType string
}

// DeleteFileCommand removes a stored file by key.
type DeleteFileCommand struct {
	Key string
}
