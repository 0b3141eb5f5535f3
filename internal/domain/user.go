package domain

import "time"

// User is a CMS editor account. The email is the natural key.
type User struct {
	Entity
	Email Email `json:"email"`

	// HashedPassword is the bcrypt hash of the user's password.
	// Never exposed in API responses.
	HashedPassword string `json:"-"`

	Name         Title     `json:"name"`
	LastOnlineAt time.Time `json:"last_online_at"`
}

// UserInput carries the raw fields for constructing a User.
// Password here is already hashed; hashing is the user service's job.
type UserInput struct {
	Email          string `json:"email"`
	HashedPassword string `json:"-"`
	Name           string `json:"name"`
}

// NewUser validates the input and constructs a User.
func NewUser(in UserInput) (*User, error) {
	email, err := NewEmail(in.Email)
	if err != nil {
		return nil, err
	}
	name, err := NewTitle(in.Name)
	if err != nil {
		return nil, err
	}

	return &User{
		Entity:         NewEntity(),
		Email:          email,
		HashedPassword: in.HashedPassword,
		Name:           name,
		LastOnlineAt:   time.Now().UTC(),
	}, nil
}
