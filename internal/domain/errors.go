// Package domain contains the core business entities for Atlant CMS.
package domain

import (
	"errors"
	"fmt"
)

// Domain errors - these represent business rule violations.
// They are distinct from infrastructure errors (database, network, etc.).

var (
	// ===========================================
	// Value validation errors
	// ===========================================

	// ErrEmptyTitle indicates a required title was empty or whitespace.
	ErrEmptyTitle = errors.New("title must not be empty")

	// ErrTitleTooLong indicates the title exceeds 255 characters.
	ErrTitleTooLong = errors.New("title must not exceed 255 characters")

	// ErrEmptySlug indicates a required slug was empty.
	ErrEmptySlug = errors.New("slug must not be empty")

	// ErrInvalidSlug indicates the slug is not lowercase-kebab-case.
	ErrInvalidSlug = errors.New("slug must contain only lowercase letters, numbers, and hyphens")

	// ErrEmptyPagePath indicates a required page path was empty.
	ErrEmptyPagePath = errors.New("page path must not be empty")

	// ErrInvalidPagePath indicates the page path does not start with "/".
	ErrInvalidPagePath = errors.New("page path must start with a slash")

	// ErrEmptyEmail indicates a required email was empty.
	ErrEmptyEmail = errors.New("email must not be empty")

	// ErrInvalidEmail indicates the email address format is invalid.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrNegativeOrder indicates a display order below zero.
	ErrNegativeOrder = errors.New("order must not be negative")

	// ErrNegativeSalary indicates a salary below zero.
	ErrNegativeSalary = errors.New("salary must not be negative")

	// ErrEmptyRequirements indicates a vacancy with no requirements.
	ErrEmptyRequirements = errors.New("requirements must contain at least one entry")

	// ErrEmptyExperience indicates a vacancy with no experience entries.
	ErrEmptyExperience = errors.New("experience must contain at least one entry")

	// ErrInvalidSection indicates an unknown certificate section.
	ErrInvalidSection = errors.New("unknown certificate section")

	// ErrInvalidFormType indicates an unknown submission form type.
	ErrInvalidFormType = errors.New("unknown form type")

	// ErrInvalidReviewCategory indicates an unknown review category.
	ErrInvalidReviewCategory = errors.New("unknown review category")

	// ErrInvalidVacancyCategory indicates an unknown vacancy category.
	ErrInvalidVacancyCategory = errors.New("unknown vacancy category")

	// ErrShortPassword indicates a password below the minimum length.
	ErrShortPassword = errors.New("password must be at least 8 characters")

	// ===========================================
	// Not-found / already-exists per aggregate
	// ===========================================

	ErrCertificateGroupNotFound      = errors.New("certificate group not found")
	ErrCertificateGroupAlreadyExists = errors.New("certificate group already exists")

	ErrCertificateItemNotFound      = errors.New("certificate item not found")
	ErrCertificateItemAlreadyExists = errors.New("certificate item already exists")

	ErrCertificateNotFound = errors.New("certificate not found")

	// ErrCertificateParentNotFound indicates a certificate references a
	// parent group or item that does not exist.
	ErrCertificateParentNotFound = errors.New("certificate parent not found")

	ErrMemberNotFound = errors.New("member not found")

	ErrNewsNotFound      = errors.New("news not found")
	ErrNewsAlreadyExists = errors.New("news already exists")

	ErrPortfolioNotFound      = errors.New("portfolio not found")
	ErrPortfolioAlreadyExists = errors.New("portfolio already exists")

	ErrProductNotFound      = errors.New("product not found")
	ErrProductAlreadyExists = errors.New("product already exists")

	// ErrPortfolioReferenceNotFound indicates a product references a
	// portfolio that does not exist.
	ErrPortfolioReferenceNotFound = errors.New("referenced portfolio not found")

	ErrReviewNotFound = errors.New("review not found")

	ErrSeoSettingsNotFound      = errors.New("seo settings not found")
	ErrSeoSettingsAlreadyExists = errors.New("seo settings already exist")

	ErrSubmissionNotFound = errors.New("submission not found")

	ErrVacancyNotFound      = errors.New("vacancy not found")
	ErrVacancyAlreadyExists = errors.New("vacancy already exists")

	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrInvalidCredentials indicates authentication failed.
	// It deliberately does not say which of email/password was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// DomainError wraps a domain error with additional context.
type DomainError struct {
	// Err is the underlying domain error.
	Err error

	// Message provides additional context.
	Message string

	// Resource identifies the affected resource (id, slug, page path).
	Resource string
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Resource != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Err.Error(), e.Message, e.Resource)
	}
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error for errors.Is/errors.As.
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError with context.
func NewDomainError(err error, message, resource string) *DomainError {
	return &DomainError{
		Err:      err,
		Message:  message,
		Resource: resource,
	}
}

// IsValidation reports whether err is a value-validation violation,
// as opposed to a not-found or already-exists condition.
func IsValidation(err error) bool {
	for _, v := range []error{
		ErrEmptyTitle, ErrTitleTooLong, ErrEmptySlug, ErrInvalidSlug,
		ErrEmptyPagePath, ErrInvalidPagePath, ErrEmptyEmail, ErrInvalidEmail,
		ErrNegativeOrder, ErrNegativeSalary, ErrEmptyRequirements,
		ErrEmptyExperience, ErrInvalidSection, ErrInvalidFormType,
		ErrInvalidReviewCategory, ErrInvalidVacancyCategory, ErrShortPassword,
	} {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}
