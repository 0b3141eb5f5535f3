package domain

import (
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Value types wrap a single validated primitive. Construction either
// succeeds with an always-valid value or fails with one of the typed
// validation errors from errors.go; there is no partial state.

// maxTitleLength bounds titles, names, and page names.
const maxTitleLength = 255

// slugRegex validates lowercase-kebab-case slugs used as URL fragments.
var slugRegex = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Title is a non-empty string of at most 255 characters.
type Title string

// NewTitle validates and wraps a title.
func NewTitle(s string) (Title, error) {
	if strings.TrimSpace(s) == "" {
		return "", ErrEmptyTitle
	}
	if utf8.RuneCountInString(s) > maxTitleLength {
		return "", ErrTitleTooLong
	}
	return Title(s), nil
}

func (t Title) String() string { return string(t) }

// Slug is a unique lowercase-kebab-case URL fragment.
type Slug string

// NewSlug validates and wraps a slug.
func NewSlug(s string) (Slug, error) {
	if s == "" {
		return "", ErrEmptySlug
	}
	if !slugRegex.MatchString(s) {
		return "", ErrInvalidSlug
	}
	return Slug(s), nil
}

func (s Slug) String() string { return string(s) }

// PagePath is an absolute site path ("/about", "/news/archive").
type PagePath string

// NewPagePath validates and wraps a page path.
func NewPagePath(s string) (PagePath, error) {
	if s == "" {
		return "", ErrEmptyPagePath
	}
	if !strings.HasPrefix(s, "/") {
		return "", ErrInvalidPagePath
	}
	return PagePath(s), nil
}

func (p PagePath) String() string { return string(p) }

// Email is a validated email address.
type Email string

// NewEmail validates and wraps an email address.
func NewEmail(s string) (Email, error) {
	if s == "" {
		return "", ErrEmptyEmail
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return "", ErrInvalidEmail
	}
	return Email(s), nil
}

func (e Email) String() string { return string(e) }

// NewOrder validates a display order.
func NewOrder(n int) (int, error) {
	if n < 0 {
		return 0, ErrNegativeOrder
	}
	return n, nil
}

// NewSalary validates a salary amount.
func NewSalary(n int) (int, error) {
	if n < 0 {
		return 0, ErrNegativeSalary
	}
	return n, nil
}

// nonEmptyList rejects lists that are empty or contain only blank entries.
func nonEmptyList(items []string, emptyErr error) ([]string, error) {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if strings.TrimSpace(it) != "" {
			out = append(out, it)
		}
	}
	if len(out) == 0 {
		return nil, emptyErr
	}
	return out, nil
}

// =============================================================================
// Enumerations
// =============================================================================

// Section identifies which certificates-page block an aggregate belongs to.
type Section string

const (
	SectionCertificates Section = "Сертификаты"
	SectionLicenses     Section = "Лицензии"
	SectionAwards       Section = "Награды"
)

// ParseSection validates a certificate section value.
func ParseSection(s string) (Section, error) {
	switch Section(s) {
	case SectionCertificates, SectionLicenses, SectionAwards:
		return Section(s), nil
	}
	return "", ErrInvalidSection
}

// FormType identifies the site form a submission came from.
type FormType string

const (
	FormTypeContact       FormType = "contact"
	FormTypeCallback      FormType = "callback"
	FormTypeVacancy       FormType = "vacancy"
	FormTypeQuestionnaire FormType = "questionnaire"
)

// ParseFormType validates a submission form type.
func ParseFormType(s string) (FormType, error) {
	switch FormType(s) {
	case FormTypeContact, FormTypeCallback, FormTypeVacancy, FormTypeQuestionnaire:
		return FormType(s), nil
	}
	return "", ErrInvalidFormType
}

// ReviewCategory distinguishes employee reviews from client reviews.
type ReviewCategory string

const (
	ReviewCategoryEmployees ReviewCategory = "Сотрудники"
	ReviewCategoryClients   ReviewCategory = "Клиенты"
)

// ParseReviewCategory validates a review category.
func ParseReviewCategory(s string) (ReviewCategory, error) {
	switch ReviewCategory(s) {
	case ReviewCategoryEmployees, ReviewCategoryClients:
		return ReviewCategory(s), nil
	}
	return "", ErrInvalidReviewCategory
}

// VacancyCategory identifies the department a vacancy belongs to.
type VacancyCategory string

const (
	VacancyCategoryProduction VacancyCategory = "Производство"
	VacancyCategoryOffice     VacancyCategory = "Офис"
	VacancyCategorySales      VacancyCategory = "Продажи"
)

// ParseVacancyCategory validates a vacancy category.
func ParseVacancyCategory(s string) (VacancyCategory, error) {
	switch VacancyCategory(s) {
	case VacancyCategoryProduction, VacancyCategoryOffice, VacancyCategorySales:
		return VacancyCategory(s), nil
	}
	return "", ErrInvalidVacancyCategory
}
