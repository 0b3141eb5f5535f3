package domain

// PortfolioReview is an optional client review block attached to a
// portfolio case. It is owned by the portfolio, not a Review aggregate.
type PortfolioReview struct {
	Author   string `json:"author"`
	Position string `json:"position"`
	Text     string `json:"text"`
	Image    string `json:"image,omitempty"`
}

// Portfolio is a completed project case study. The slug is the natural key.
type Portfolio struct {
	Entity
	Name        Title            `json:"name"`
	Slug        Slug             `json:"slug"`
	Industry    string           `json:"industry"`
	Description string           `json:"description"`
	Goal        string           `json:"goal"`
	Solution    string           `json:"solution"`
	Result      string           `json:"result"`
	ImageURL    string           `json:"image_url"`
	Year        int              `json:"year"`
	Review      *PortfolioReview `json:"review,omitempty"`
}

// PortfolioInput carries the raw fields for constructing a Portfolio.
type PortfolioInput struct {
	Name        string           `json:"name"`
	Slug        string           `json:"slug"`
	Industry    string           `json:"industry"`
	Description string           `json:"description"`
	Goal        string           `json:"goal"`
	Solution    string           `json:"solution"`
	Result      string           `json:"result"`
	ImageURL    string           `json:"image_url"`
	Year        int              `json:"year"`
	Review      *PortfolioReview `json:"review,omitempty"`
}

// NewPortfolio validates the input and constructs a Portfolio.
func NewPortfolio(in PortfolioInput) (*Portfolio, error) {
	name, err := NewTitle(in.Name)
	if err != nil {
		return nil, err
	}
	slug, err := NewSlug(in.Slug)
	if err != nil {
		return nil, err
	}

	return &Portfolio{
		Entity:      NewEntity(),
		Name:        name,
		Slug:        slug,
		Industry:    in.Industry,
		Description: in.Description,
		Goal:        in.Goal,
		Solution:    in.Solution,
		Result:      in.Result,
		ImageURL:    in.ImageURL,
		Year:        in.Year,
		Review:      in.Review,
	}, nil
}
