package domain

// SeoSettings holds the SEO metadata for one site page.
// The page path is the natural key.
type SeoSettings struct {
	Entity
	PagePath      PagePath `json:"page_path"`
	PageName      string   `json:"page_name"`
	Title         Title    `json:"title"`
	Description   string   `json:"description"`
	OGTitle       string   `json:"og_title,omitempty"`
	OGDescription string   `json:"og_description,omitempty"`
	OGImage       string   `json:"og_image,omitempty"`
	CanonicalURL  string   `json:"canonical_url,omitempty"`
	IsActive      bool     `json:"is_active"`
}

// SeoSettingsInput carries the raw fields for constructing SeoSettings.
type SeoSettingsInput struct {
	PagePath      string `json:"page_path"`
	PageName      string `json:"page_name"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	OGTitle       string `json:"og_title,omitempty"`
	OGDescription string `json:"og_description,omitempty"`
	OGImage       string `json:"og_image,omitempty"`
	CanonicalURL  string `json:"canonical_url,omitempty"`
	IsActive      bool   `json:"is_active"`
}

// NewSeoSettings validates the input and constructs SeoSettings.
func NewSeoSettings(in SeoSettingsInput) (*SeoSettings, error) {
	pagePath, err := NewPagePath(in.PagePath)
	if err != nil {
		return nil, err
	}
	title, err := NewTitle(in.Title)
	if err != nil {
		return nil, err
	}

	return &SeoSettings{
		Entity:        NewEntity(),
		PagePath:      pagePath,
		PageName:      in.PageName,
		Title:         title,
		Description:   in.Description,
		OGTitle:       in.OGTitle,
		OGDescription: in.OGDescription,
		OGImage:       in.OGImage,
		CanonicalURL:  in.CanonicalURL,
		IsActive:      in.IsActive,
	}, nil
}
