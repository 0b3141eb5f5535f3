package domain

// Vacancy is an open position published on the careers page.
// The title is the natural key: two vacancies may not share one.
type Vacancy struct {
	Entity
	Title        Title           `json:"title"`
	Requirements []string        `json:"requirements"`
	Experience   []string        `json:"experience"`
	Salary       int             `json:"salary"`
	Category     VacancyCategory `json:"category"`
	IsActive     bool            `json:"is_active"`
}

// VacancyInput carries the raw fields for constructing a Vacancy.
type VacancyInput struct {
	Title        string   `json:"title"`
	Requirements []string `json:"requirements"`
	Experience   []string `json:"experience"`
	Salary       int      `json:"salary"`
	Category     string   `json:"category"`
	IsActive     bool     `json:"is_active"`
}

// NewVacancy validates the input and constructs a Vacancy.
func NewVacancy(in VacancyInput) (*Vacancy, error) {
	title, err := NewTitle(in.Title)
	if err != nil {
		return nil, err
	}
	requirements, err := nonEmptyList(in.Requirements, ErrEmptyRequirements)
	if err != nil {
		return nil, err
	}
	experience, err := nonEmptyList(in.Experience, ErrEmptyExperience)
	if err != nil {
		return nil, err
	}
	salary, err := NewSalary(in.Salary)
	if err != nil {
		return nil, err
	}
	category, err := ParseVacancyCategory(in.Category)
	if err != nil {
		return nil, err
	}

	return &Vacancy{
		Entity:       NewEntity(),
		Title:        title,
		Requirements: requirements,
		Experience:   experience,
		Salary:       salary,
		Category:     category,
		IsActive:     in.IsActive,
	}, nil
}
