package domain

import "github.com/google/uuid"

// CertificateGroup is a titled block of certificates on the
// certificates page. It owns its certificates exclusively: deleting the
// group cascades to every certificate whose ParentID points at it.
type CertificateGroup struct {
	Entity
	Section  Section `json:"section"`
	Title    Title   `json:"title"`
	Content  string  `json:"content"`
	Order    int     `json:"order"`
	IsActive bool    `json:"is_active"`
}

// CertificateGroupInput carries the raw fields for constructing a group.
type CertificateGroupInput struct {
	Section  string `json:"section"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Order    int    `json:"order"`
	IsActive bool   `json:"is_active"`
}

// NewCertificateGroup validates the input and constructs a CertificateGroup.
func NewCertificateGroup(in CertificateGroupInput) (*CertificateGroup, error) {
	section, err := ParseSection(in.Section)
	if err != nil {
		return nil, err
	}
	title, err := NewTitle(in.Title)
	if err != nil {
		return nil, err
	}
	order, err := NewOrder(in.Order)
	if err != nil {
		return nil, err
	}

	return &CertificateGroup{
		Entity:   NewEntity(),
		Section:  section,
		Title:    title,
		Content:  in.Content,
		Order:    order,
		IsActive: in.IsActive,
	}, nil
}

// DisplayOrder implements Orderable.
func (g *CertificateGroup) DisplayOrder() int { return g.Order }

// SetDisplayOrder implements Orderable.
func (g *CertificateGroup) SetDisplayOrder(order int) { g.Order = order }

// CertificateItem is a standalone certificates-page entry that, like a
// group, may own certificates.
type CertificateItem struct {
	Entity
	Section Section `json:"section"`
	Title   Title   `json:"title"`
	Content string  `json:"content"`
	Order   int     `json:"order"`
}

// CertificateItemInput carries the raw fields for constructing an item.
type CertificateItemInput struct {
	Section string `json:"section"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Order   int    `json:"order"`
}

// NewCertificateItem validates the input and constructs a CertificateItem.
func NewCertificateItem(in CertificateItemInput) (*CertificateItem, error) {
	section, err := ParseSection(in.Section)
	if err != nil {
		return nil, err
	}
	title, err := NewTitle(in.Title)
	if err != nil {
		return nil, err
	}
	order, err := NewOrder(in.Order)
	if err != nil {
		return nil, err
	}

	return &CertificateItem{
		Entity:  NewEntity(),
		Section: section,
		Title:   title,
		Content: in.Content,
		Order:   order,
	}, nil
}

// DisplayOrder implements Orderable.
func (i *CertificateItem) DisplayOrder() int { return i.Order }

// SetDisplayOrder implements Orderable.
func (i *CertificateItem) SetDisplayOrder(order int) { i.Order = order }

// Certificate is a single scanned document owned by exactly one
// CertificateGroup or CertificateItem.
type Certificate struct {
	Entity
	ParentID uuid.UUID `json:"parent_id"`
	Title    Title     `json:"title"`
	Link     string    `json:"link"`
	Order    int       `json:"order"`
}

// CertificateInput carries the raw fields for constructing a Certificate.
type CertificateInput struct {
	ParentID uuid.UUID `json:"parent_id"`
	Title    string    `json:"title"`
	Link     string    `json:"link"`
	Order    int       `json:"order"`
}

// NewCertificate validates the input and constructs a Certificate.
func NewCertificate(in CertificateInput) (*Certificate, error) {
	title, err := NewTitle(in.Title)
	if err != nil {
		return nil, err
	}
	order, err := NewOrder(in.Order)
	if err != nil {
		return nil, err
	}

	return &Certificate{
		Entity:   NewEntity(),
		ParentID: in.ParentID,
		Title:    title,
		Link:     in.Link,
		Order:    order,
	}, nil
}

// DisplayOrder implements Orderable.
func (c *Certificate) DisplayOrder() int { return c.Order }

// SetDisplayOrder implements Orderable.
func (c *Certificate) SetDisplayOrder(order int) { c.Order = order }
