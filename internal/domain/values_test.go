package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestNewTitle(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "valid", input: "Промышленные насосы"},
		{name: "single character", input: "x"},
		{name: "exactly max length", input: strings.Repeat("а", 255)},
		{name: "empty", input: "", wantErr: ErrEmptyTitle},
		{name: "whitespace only", input: "   \t", wantErr: ErrEmptyTitle},
		{name: "too long", input: strings.Repeat("а", 256), wantErr: ErrTitleTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, err := NewTitle(tt.input)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected error %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if title.String() != tt.input {
				t.Errorf("expected %q, got %q", tt.input, title)
			}
		})
	}
}

func TestNewSlug(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "simple", input: "about"},
		{name: "kebab case", input: "industrial-pumps-2024"},
		{name: "digits only", input: "2024"},
		{name: "empty", input: "", wantErr: ErrEmptySlug},
		{name: "uppercase", input: "About", wantErr: ErrInvalidSlug},
		{name: "leading hyphen", input: "-about", wantErr: ErrInvalidSlug},
		{name: "trailing hyphen", input: "about-", wantErr: ErrInvalidSlug},
		{name: "double hyphen", input: "a--b", wantErr: ErrInvalidSlug},
		{name: "cyrillic", input: "насосы", wantErr: ErrInvalidSlug},
		{name: "spaces", input: "a b", wantErr: ErrInvalidSlug},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSlug(tt.input)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected error %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestNewPagePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "root", input: "/"},
		{name: "nested", input: "/news/archive"},
		{name: "empty", input: "", wantErr: ErrEmptyPagePath},
		{name: "relative", input: "about", wantErr: ErrInvalidPagePath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPagePath(tt.input)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected error %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestNewEmail(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "valid", input: "editor@atlant.example"},
		{name: "empty", input: "", wantErr: ErrEmptyEmail},
		{name: "missing domain", input: "editor@", wantErr: ErrInvalidEmail},
		{name: "display name form", input: "Editor <editor@atlant.example>", wantErr: ErrInvalidEmail},
		{name: "spaces", input: "ed itor@atlant.example", wantErr: ErrInvalidEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEmail(tt.input)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected error %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestParseEnums(t *testing.T) {
	if _, err := ParseSection("Лицензии"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := ParseSection("Unknown"); !errors.Is(err, ErrInvalidSection) {
		t.Errorf("expected ErrInvalidSection, got %v", err)
	}

	if _, err := ParseFormType("callback"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := ParseFormType("spam"); !errors.Is(err, ErrInvalidFormType) {
		t.Errorf("expected ErrInvalidFormType, got %v", err)
	}

	if _, err := ParseReviewCategory("Клиенты"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := ParseReviewCategory("Партнеры"); !errors.Is(err, ErrInvalidReviewCategory) {
		t.Errorf("expected ErrInvalidReviewCategory, got %v", err)
	}

	if _, err := ParseVacancyCategory("Офис"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := ParseVacancyCategory("Склад"); !errors.Is(err, ErrInvalidVacancyCategory) {
		t.Errorf("expected ErrInvalidVacancyCategory, got %v", err)
	}
}

func TestNewVacancyValidation(t *testing.T) {
	valid := VacancyInput{
		Title:        "Инженер-технолог",
		Requirements: []string{"Опыт от 3 лет"},
		Experience:   []string{"Производство"},
		Salary:       90000,
		Category:     "Производство",
		IsActive:     true,
	}

	tests := []struct {
		name    string
		mutate  func(*VacancyInput)
		wantErr error
	}{
		{name: "valid", mutate: func(in *VacancyInput) {}},
		{name: "empty title", mutate: func(in *VacancyInput) { in.Title = "" }, wantErr: ErrEmptyTitle},
		{name: "no requirements", mutate: func(in *VacancyInput) { in.Requirements = nil }, wantErr: ErrEmptyRequirements},
		{name: "blank requirements", mutate: func(in *VacancyInput) { in.Requirements = []string{"  "} }, wantErr: ErrEmptyRequirements},
		{name: "no experience", mutate: func(in *VacancyInput) { in.Experience = []string{} }, wantErr: ErrEmptyExperience},
		{name: "negative salary", mutate: func(in *VacancyInput) { in.Salary = -1 }, wantErr: ErrNegativeSalary},
		{name: "bad category", mutate: func(in *VacancyInput) { in.Category = "Другое" }, wantErr: ErrInvalidVacancyCategory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)

			vacancy, err := NewVacancy(in)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected error %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if vacancy.AggregateID() == uuid.Nil {
				t.Error("expected generated id")
			}
			if vacancy.CreatedAt.IsZero() || vacancy.UpdatedAt.IsZero() {
				t.Error("expected timestamps to be set")
			}
		})
	}
}

func TestEntityEqualIsIdentityOnly(t *testing.T) {
	a, err := NewMember(MemberInput{Name: "Иванов Иван", Position: "Директор"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := NewMember(MemberInput{Name: "Иванов Иван", Position: "Директор"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if a.Entity.Equal(&b.Entity) {
		t.Error("distinct entities with equal fields must not be equal")
	}

	// Same identity, different content.
	c := *a
	c.Position = "Заместитель"
	if !a.Entity.Equal(&c.Entity) {
		t.Error("same identity must compare equal regardless of content")
	}
}

func TestIsValidation(t *testing.T) {
	if !IsValidation(ErrEmptySlug) {
		t.Error("ErrEmptySlug should be a validation error")
	}
	if !IsValidation(NewDomainError(ErrInvalidEmail, "", "x")) {
		t.Error("wrapped validation errors should still be recognized")
	}
	if IsValidation(ErrNewsNotFound) {
		t.Error("not-found is not a validation error")
	}
	if IsValidation(ErrVacancyAlreadyExists) {
		t.Error("already-exists is not a validation error")
	}
}
