package domain

// Submission is a form submission captured from the site.
// Submissions are write-once: the backend never updates them, only
// lists and deletes.
type Submission struct {
	Entity
	FormType      FormType          `json:"form_type"`
	Name          Title             `json:"name"`
	Email         Email             `json:"email,omitempty"`
	Phone         string            `json:"phone,omitempty"`
	Comments      string            `json:"comments,omitempty"`
	Files         []string          `json:"files,omitempty"`
	Questionnaire map[string]string `json:"questionnaire,omitempty"`
}

// SubmissionInput carries the raw fields for constructing a Submission.
type SubmissionInput struct {
	FormType      string            `json:"form_type"`
	Name          string            `json:"name"`
	Email         string            `json:"email,omitempty"`
	Phone         string            `json:"phone,omitempty"`
	Comments      string            `json:"comments,omitempty"`
	Files         []string          `json:"files,omitempty"`
	Questionnaire map[string]string `json:"questionnaire,omitempty"`
}

// NewSubmission validates the input and constructs a Submission.
func NewSubmission(in SubmissionInput) (*Submission, error) {
	formType, err := ParseFormType(in.FormType)
	if err != nil {
		return nil, err
	}
	name, err := NewTitle(in.Name)
	if err != nil {
		return nil, err
	}

	// Email is optional on most forms.
	var email Email
	if in.Email != "" {
		email, err = NewEmail(in.Email)
		if err != nil {
			return nil, err
		}
	}

	return &Submission{
		Entity:        NewEntity(),
		FormType:      formType,
		Name:          name,
		Email:         email,
		Phone:         in.Phone,
		Comments:      in.Comments,
		Files:         in.Files,
		Questionnaire: in.Questionnaire,
	}, nil
}
