package domain

import "time"

// News is a published article. The slug is the natural key used in URLs.
type News struct {
	Entity
	Category     string    `json:"category"`
	Title        Title     `json:"title"`
	Slug         Slug      `json:"slug"`
	Content      string    `json:"content"`
	ShortContent string    `json:"short_content"`
	ImageURL     string    `json:"image_url"`
	Alt          string    `json:"alt"`
	ReadingTime  int       `json:"reading_time"`
	Date         time.Time `json:"date"`
}

// NewsInput carries the raw fields for constructing a News article.
type NewsInput struct {
	Category     string    `json:"category"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	Content      string    `json:"content"`
	ShortContent string    `json:"short_content"`
	ImageURL     string    `json:"image_url"`
	Alt          string    `json:"alt"`
	ReadingTime  int       `json:"reading_time"`
	Date         time.Time `json:"date"`
}

// NewNews validates the input and constructs a News article.
func NewNews(in NewsInput) (*News, error) {
	title, err := NewTitle(in.Title)
	if err != nil {
		return nil, err
	}
	slug, err := NewSlug(in.Slug)
	if err != nil {
		return nil, err
	}

	date := in.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}

	return &News{
		Entity:       NewEntity(),
		Category:     in.Category,
		Title:        title,
		Slug:         slug,
		Content:      in.Content,
		ShortContent: in.ShortContent,
		ImageURL:     in.ImageURL,
		Alt:          in.Alt,
		ReadingTime:  in.ReadingTime,
		Date:         date,
	}, nil
}
