package repository

import (
	"encoding/json"

	"github.com/prn-tf/atlant-cms/internal/domain"
)

// Collection specs for every aggregate. Unique keys are the natural
// keys enforced by the services; non-unique keys are the filterable
// columns exposed through FindMany.

// CertificateGroups describes the certificate_groups collection.
func CertificateGroups() CollectionSpec[*domain.CertificateGroup] {
	return CollectionSpec[*domain.CertificateGroup]{
		Table: "certificate_groups",
		Keys: []KeySpec[*domain.CertificateGroup]{
			{Column: "title", Unique: true, Value: func(g *domain.CertificateGroup) string { return g.Title.String() }},
			{Column: "section", Value: func(g *domain.CertificateGroup) string { return string(g.Section) }},
		},
		New: func() *domain.CertificateGroup { return &domain.CertificateGroup{} },
	}
}

// CertificateItems describes the certificate_items collection.
func CertificateItems() CollectionSpec[*domain.CertificateItem] {
	return CollectionSpec[*domain.CertificateItem]{
		Table: "certificate_items",
		Keys: []KeySpec[*domain.CertificateItem]{
			{Column: "title", Unique: true, Value: func(i *domain.CertificateItem) string { return i.Title.String() }},
			{Column: "section", Value: func(i *domain.CertificateItem) string { return string(i.Section) }},
		},
		New: func() *domain.CertificateItem { return &domain.CertificateItem{} },
	}
}

// Certificates describes the certificates collection. parent_id is
// filterable so cascade deletes can find a parent's children.
func Certificates() CollectionSpec[*domain.Certificate] {
	return CollectionSpec[*domain.Certificate]{
		Table: "certificates",
		Keys: []KeySpec[*domain.Certificate]{
			{Column: "parent_id", Value: func(c *domain.Certificate) string { return c.ParentID.String() }},
		},
		New: func() *domain.Certificate { return &domain.Certificate{} },
	}
}

// Members describes the members collection.
func Members() CollectionSpec[*domain.Member] {
	return CollectionSpec[*domain.Member]{
		Table: "members",
		Keys:  nil,
		New:   func() *domain.Member { return &domain.Member{} },
	}
}

// News describes the news collection.
func News() CollectionSpec[*domain.News] {
	return CollectionSpec[*domain.News]{
		Table: "news",
		Keys: []KeySpec[*domain.News]{
			{Column: "slug", Unique: true, Value: func(n *domain.News) string { return n.Slug.String() }},
			{Column: "category", Value: func(n *domain.News) string { return n.Category }},
		},
		New: func() *domain.News { return &domain.News{} },
	}
}

// Portfolios describes the portfolios collection.
func Portfolios() CollectionSpec[*domain.Portfolio] {
	return CollectionSpec[*domain.Portfolio]{
		Table: "portfolios",
		Keys: []KeySpec[*domain.Portfolio]{
			{Column: "slug", Unique: true, Value: func(p *domain.Portfolio) string { return p.Slug.String() }},
			{Column: "industry", Value: func(p *domain.Portfolio) string { return p.Industry }},
		},
		New: func() *domain.Portfolio { return &domain.Portfolio{} },
	}
}

// Products describes the products collection.
func Products() CollectionSpec[*domain.Product] {
	return CollectionSpec[*domain.Product]{
		Table: "products",
		Keys: []KeySpec[*domain.Product]{
			{Column: "slug", Unique: true, Value: func(p *domain.Product) string { return p.Slug.String() }},
			{Column: "category", Value: func(p *domain.Product) string { return p.Category }},
		},
		New: func() *domain.Product { return &domain.Product{} },
	}
}

// Reviews describes the reviews collection.
func Reviews() CollectionSpec[*domain.Review] {
	return CollectionSpec[*domain.Review]{
		Table: "reviews",
		Keys: []KeySpec[*domain.Review]{
			{Column: "category", Value: func(r *domain.Review) string { return string(r.Category) }},
		},
		New: func() *domain.Review { return &domain.Review{} },
	}
}

// SeoSettings describes the seo_settings collection.
func SeoSettings() CollectionSpec[*domain.SeoSettings] {
	return CollectionSpec[*domain.SeoSettings]{
		Table: "seo_settings",
		Keys: []KeySpec[*domain.SeoSettings]{
			{Column: "page_path", Unique: true, Value: func(s *domain.SeoSettings) string { return s.PagePath.String() }},
		},
		New: func() *domain.SeoSettings { return &domain.SeoSettings{} },
	}
}

// Submissions describes the submissions collection.
func Submissions() CollectionSpec[*domain.Submission] {
	return CollectionSpec[*domain.Submission]{
		Table: "submissions",
		Keys: []KeySpec[*domain.Submission]{
			{Column: "form_type", Value: func(s *domain.Submission) string { return string(s.FormType) }},
		},
		New: func() *domain.Submission { return &domain.Submission{} },
	}
}

// Vacancies describes the vacancies collection.
func Vacancies() CollectionSpec[*domain.Vacancy] {
	return CollectionSpec[*domain.Vacancy]{
		Table: "vacancies",
		Keys: []KeySpec[*domain.Vacancy]{
			{Column: "title", Unique: true, Value: func(v *domain.Vacancy) string { return v.Title.String() }},
			{Column: "category", Value: func(v *domain.Vacancy) string { return string(v.Category) }},
		},
		New: func() *domain.Vacancy { return &domain.Vacancy{} },
	}
}

// userDoc is the storage form of a user. The API representation hides
// the password hash (`json:"-"`); the stored document must keep it.
type userDoc struct {
	*domain.User
	HashedPassword string `json:"hashed_password"`
}

// Users describes the users collection.
func Users() CollectionSpec[*domain.User] {
	return CollectionSpec[*domain.User]{
		Table: "users",
		Keys: []KeySpec[*domain.User]{
			{Column: "email", Unique: true, Value: func(u *domain.User) string { return u.Email.String() }},
		},
		New: func() *domain.User { return &domain.User{} },
		Encode: func(u *domain.User) ([]byte, error) {
			return json.Marshal(userDoc{User: u, HashedPassword: u.HashedPassword})
		},
		Decode: func(data []byte) (*domain.User, error) {
			doc := userDoc{User: &domain.User{}}
			if err := json.Unmarshal(data, &doc); err != nil {
				return nil, err
			}
			doc.User.HashedPassword = doc.HashedPassword
			return doc.User, nil
		},
	}
}
