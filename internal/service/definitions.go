package service

import (
	"github.com/rs/zerolog"

	"github.com/prn-tf/atlant-cms/internal/domain"
	"github.com/prn-tf/atlant-cms/internal/lock"
	"github.com/prn-tf/atlant-cms/internal/repository"
)

// Per-aggregate definitions. Key columns must match the collection
// specs in the repository package.

func certificateGroupDefinition() Definition[*domain.CertificateGroup] {
	return Definition[*domain.CertificateGroup]{
		Name:          "certificate_group",
		NotFound:      domain.ErrCertificateGroupNotFound,
		AlreadyExists: domain.ErrCertificateGroupAlreadyExists,
		Key: &NaturalKey[*domain.CertificateGroup]{
			Column: "title",
			Value:  func(g *domain.CertificateGroup) string { return g.Title.String() },
		},
		DefaultSort: "order",
	}
}

func certificateItemDefinition() Definition[*domain.CertificateItem] {
	return Definition[*domain.CertificateItem]{
		Name:          "certificate_item",
		NotFound:      domain.ErrCertificateItemNotFound,
		AlreadyExists: domain.ErrCertificateItemAlreadyExists,
		Key: &NaturalKey[*domain.CertificateItem]{
			Column: "title",
			Value:  func(i *domain.CertificateItem) string { return i.Title.String() },
		},
		DefaultSort: "order",
	}
}

func certificateDefinition() Definition[*domain.Certificate] {
	return Definition[*domain.Certificate]{
		Name:        "certificate",
		NotFound:    domain.ErrCertificateNotFound,
		DefaultSort: "order",
	}
}

func memberDefinition() Definition[*domain.Member] {
	return Definition[*domain.Member]{
		Name:        "member",
		NotFound:    domain.ErrMemberNotFound,
		DefaultSort: "order",
	}
}

func newsDefinition() Definition[*domain.News] {
	return Definition[*domain.News]{
		Name:          "news",
		NotFound:      domain.ErrNewsNotFound,
		AlreadyExists: domain.ErrNewsAlreadyExists,
		Key: &NaturalKey[*domain.News]{
			Column: "slug",
			Value:  func(n *domain.News) string { return n.Slug.String() },
		},
		DefaultSort: "created_at",
	}
}

func portfolioDefinition() Definition[*domain.Portfolio] {
	return Definition[*domain.Portfolio]{
		Name:          "portfolio",
		NotFound:      domain.ErrPortfolioNotFound,
		AlreadyExists: domain.ErrPortfolioAlreadyExists,
		Key: &NaturalKey[*domain.Portfolio]{
			Column: "slug",
			Value:  func(p *domain.Portfolio) string { return p.Slug.String() },
		},
		DefaultSort: "created_at",
	}
}

func productDefinition() Definition[*domain.Product] {
	return Definition[*domain.Product]{
		Name:          "product",
		NotFound:      domain.ErrProductNotFound,
		AlreadyExists: domain.ErrProductAlreadyExists,
		Key: &NaturalKey[*domain.Product]{
			Column: "slug",
			Value:  func(p *domain.Product) string { return p.Slug.String() },
		},
		DefaultSort: "created_at",
	}
}

func reviewDefinition() Definition[*domain.Review] {
	return Definition[*domain.Review]{
		Name:        "review",
		NotFound:    domain.ErrReviewNotFound,
		DefaultSort: "created_at",
	}
}

func seoSettingsDefinition() Definition[*domain.SeoSettings] {
	return Definition[*domain.SeoSettings]{
		Name:          "seo_settings",
		NotFound:      domain.ErrSeoSettingsNotFound,
		AlreadyExists: domain.ErrSeoSettingsAlreadyExists,
		Key: &NaturalKey[*domain.SeoSettings]{
			Column: "page_path",
			Value:  func(s *domain.SeoSettings) string { return s.PagePath.String() },
		},
		DefaultSort: "page_path",
	}
}

func submissionDefinition() Definition[*domain.Submission] {
	return Definition[*domain.Submission]{
		Name:        "submission",
		NotFound:    domain.ErrSubmissionNotFound,
		DefaultSort: "created_at",
	}
}

func vacancyDefinition() Definition[*domain.Vacancy] {
	return Definition[*domain.Vacancy]{
		Name:          "vacancy",
		NotFound:      domain.ErrVacancyNotFound,
		AlreadyExists: domain.ErrVacancyAlreadyExists,
		Key: &NaturalKey[*domain.Vacancy]{
			Column: "title",
			Value:  func(v *domain.Vacancy) string { return v.Title.String() },
		},
		DefaultSort: "created_at",
	}
}

func userDefinition() Definition[*domain.User] {
	return Definition[*domain.User]{
		Name:          "user",
		NotFound:      domain.ErrUserNotFound,
		AlreadyExists: domain.ErrUserAlreadyExists,
		Key: &NaturalKey[*domain.User]{
			Column: "email",
			Value:  func(u *domain.User) string { return u.Email.String() },
		},
		DefaultSort: "created_at",
	}
}

// NewMemberService creates the team member service.
func NewMemberService(repo repository.Repository[*domain.Member], locks lock.Locker, logger zerolog.Logger) *Store[*domain.Member] {
	return NewStore(memberDefinition(), repo, locks, logger)
}

// NewNewsService creates the news service.
func NewNewsService(repo repository.Repository[*domain.News], locks lock.Locker, logger zerolog.Logger) *Store[*domain.News] {
	return NewStore(newsDefinition(), repo, locks, logger)
}

// NewPortfolioService creates the portfolio service.
func NewPortfolioService(repo repository.Repository[*domain.Portfolio], locks lock.Locker, logger zerolog.Logger) *Store[*domain.Portfolio] {
	return NewStore(portfolioDefinition(), repo, locks, logger)
}

// NewReviewService creates the review service.
func NewReviewService(repo repository.Repository[*domain.Review], locks lock.Locker, logger zerolog.Logger) *Store[*domain.Review] {
	return NewStore(reviewDefinition(), repo, locks, logger)
}

// NewSeoSettingsService creates the SEO settings service.
func NewSeoSettingsService(repo repository.Repository[*domain.SeoSettings], locks lock.Locker, logger zerolog.Logger) *Store[*domain.SeoSettings] {
	return NewStore(seoSettingsDefinition(), repo, locks, logger)
}

// NewSubmissionService creates the form submission service.
func NewSubmissionService(repo repository.Repository[*domain.Submission], locks lock.Locker, logger zerolog.Logger) *Store[*domain.Submission] {
	return NewStore(submissionDefinition(), repo, locks, logger)
}

// NewVacancyService creates the vacancy service.
func NewVacancyService(repo repository.Repository[*domain.Vacancy], locks lock.Locker, logger zerolog.Logger) *Store[*domain.Vacancy] {
	return NewStore(vacancyDefinition(), repo, locks, logger)
}
