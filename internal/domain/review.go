package domain

// Review is a testimonial from an employee or a client.
type Review struct {
	Entity
	Name       Title          `json:"name"`
	Category   ReviewCategory `json:"category"`
	Position   string         `json:"position,omitempty"`
	Image      string         `json:"image,omitempty"`
	Text       string         `json:"text,omitempty"`
	ShortText  string         `json:"short_text,omitempty"`
	ContentURL string         `json:"content_url,omitempty"`
}

// ReviewInput carries the raw fields for constructing a Review.
type ReviewInput struct {
	Name       string `json:"name"`
	Category   string `json:"category"`
	Position   string `json:"position,omitempty"`
	Image      string `json:"image,omitempty"`
	Text       string `json:"text,omitempty"`
	ShortText  string `json:"short_text,omitempty"`
	ContentURL string `json:"content_url,omitempty"`
}

// NewReview validates the input and constructs a Review.
func NewReview(in ReviewInput) (*Review, error) {
	name, err := NewTitle(in.Name)
	if err != nil {
		return nil, err
	}
	category, err := ParseReviewCategory(in.Category)
	if err != nil {
		return nil, err
	}

	return &Review{
		Entity:     NewEntity(),
		Name:       name,
		Category:   category,
		Position:   in.Position,
		Image:      in.Image,
		Text:       in.Text,
		ShortText:  in.ShortText,
		ContentURL: in.ContentURL,
	}, nil
}
