package domain

// Member is a team member shown on the "about us" page.
type Member struct {
	Entity
	Name     Title  `json:"name"`
	Position string `json:"position"`
	Image    string `json:"image"`
	Order    int    `json:"order"`
	Email    Email  `json:"email,omitempty"`
}

// MemberInput carries the raw fields for constructing a Member.
type MemberInput struct {
	Name     string `json:"name"`
	Position string `json:"position"`
	Image    string `json:"image"`
	Order    int    `json:"order"`
	Email    string `json:"email,omitempty"`
}

// NewMember validates the input and constructs a Member.
func NewMember(in MemberInput) (*Member, error) {
	name, err := NewTitle(in.Name)
	if err != nil {
		return nil, err
	}
	order, err := NewOrder(in.Order)
	if err != nil {
		return nil, err
	}

	// Email is optional for members.
	var email Email
	if in.Email != "" {
		email, err = NewEmail(in.Email)
		if err != nil {
			return nil, err
		}
	}

	return &Member{
		Entity:   NewEntity(),
		Name:     name,
		Position: in.Position,
		Image:    in.Image,
		Order:    order,
		Email:    email,
	}, nil
}

// DisplayOrder implements Orderable.
func (m *Member) DisplayOrder() int { return m.Order }

// SetDisplayOrder implements Orderable.
func (m *Member) SetDisplayOrder(order int) { m.Order = order }
