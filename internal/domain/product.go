package domain

import "github.com/google/uuid"

// Product is a catalog product. The slug is the natural key. Portfolios
// holds soft references to Portfolio aggregates; the service verifies
// each referenced id exists before a product is written.
type Product struct {
	Entity
	Category        string      `json:"category"`
	Name            Title       `json:"name"`
	Slug            Slug        `json:"slug"`
	Description     string      `json:"description"`
	Characteristics []string    `json:"characteristics"`
	Advantages      []string    `json:"advantages"`
	Descriptions    []string    `json:"descriptions"`
	Documentation   []string    `json:"documentation"`
	Portfolios      []uuid.UUID `json:"portfolios"`
}

// ProductInput carries the raw fields for constructing a Product.
type ProductInput struct {
	Category        string      `json:"category"`
	Name            string      `json:"name"`
	Slug            string      `json:"slug"`
	Description     string      `json:"description"`
	Characteristics []string    `json:"characteristics"`
	Advantages      []string    `json:"advantages"`
	Descriptions    []string    `json:"descriptions"`
	Documentation   []string    `json:"documentation"`
	Portfolios      []uuid.UUID `json:"portfolios"`
}

// NewProduct validates the input and constructs a Product.
func NewProduct(in ProductInput) (*Product, error) {
	name, err := NewTitle(in.Name)
	if err != nil {
		return nil, err
	}
	slug, err := NewSlug(in.Slug)
	if err != nil {
		return nil, err
	}

	return &Product{
		Entity:          NewEntity(),
		Category:        in.Category,
		Name:            name,
		Slug:            slug,
		Description:     in.Description,
		Characteristics: in.Characteristics,
		Advantages:      in.Advantages,
		Descriptions:    in.Descriptions,
		Documentation:   in.Documentation,
		Portfolios:      in.Portfolios,
	}, nil
}
