// Package handler provides the HTTP API for Atlant CMS: a public
// read-only surface for the site and a token-protected admin surface
// for editors. Handlers never call services directly; every request
// becomes a mediator message.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/prn-tf/atlant-cms/internal/domain"
	"github.com/prn-tf/atlant-cms/internal/mediator"
	"github.com/prn-tf/atlant-cms/internal/service"
)

// errorResponse is the JSON error body.
type errorResponse struct {
	Error    string `json:"error"`
	Resource string `json:"resource,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		json.NewEncoder(w).Encode(body)
	}
}

func writeError(w http.ResponseWriter, err error) {
	resp := errorResponse{Error: err.Error()}

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		resp.Error = domainErr.Err.Error()
		resp.Resource = domainErr.Resource
	}

	writeJSON(w, errorStatus(err), resp)
}

var notFoundErrors = []error{
	domain.ErrCertificateGroupNotFound,
	domain.ErrCertificateItemNotFound,
	domain.ErrCertificateNotFound,
	domain.ErrMemberNotFound,
	domain.ErrNewsNotFound,
	domain.ErrPortfolioNotFound,
	domain.ErrProductNotFound,
	domain.ErrReviewNotFound,
	domain.ErrSeoSettingsNotFound,
	domain.ErrSubmissionNotFound,
	domain.ErrVacancyNotFound,
	domain.ErrUserNotFound,
	service.ErrFileNotFound,
}

var conflictErrors = []error{
	domain.ErrCertificateGroupAlreadyExists,
	domain.ErrCertificateItemAlreadyExists,
	domain.ErrNewsAlreadyExists,
	domain.ErrPortfolioAlreadyExists,
	domain.ErrProductAlreadyExists,
	domain.ErrSeoSettingsAlreadyExists,
	domain.ErrVacancyAlreadyExists,
	domain.ErrUserAlreadyExists,
	service.ErrLockContention,
}

// errorStatus maps domain and service errors to HTTP status codes.
// A command or query type nobody registered is a wiring defect and
// surfaces as a plain 500.
func errorStatus(err error) int {
	var notRegistered *mediator.NotRegisteredError
	if errors.As(err, &notRegistered) {
		return http.StatusInternalServerError
	}

	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrCertificateParentNotFound),
		errors.Is(err, domain.ErrPortfolioReferenceNotFound):
		return http.StatusUnprocessableEntity
	case domain.IsValidation(err), errors.Is(err, service.ErrEmptyFilename):
		return http.StatusBadRequest
	}

	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			return http.StatusNotFound
		}
	}
	for _, target := range conflictErrors {
		if errors.Is(err, target) {
			return http.StatusConflict
		}
	}
	return http.StatusInternalServerError
}

// decodeBody decodes a JSON request body into dst.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
