package app

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/prn-tf/atlant-cms/internal/domain"
	"github.com/prn-tf/atlant-cms/internal/lock"
	"github.com/prn-tf/atlant-cms/internal/mediator"
	"github.com/prn-tf/atlant-cms/internal/repository"
	"github.com/prn-tf/atlant-cms/internal/repository/memory"
	"github.com/prn-tf/atlant-cms/internal/service"
	"github.com/prn-tf/atlant-cms/internal/storage"
)

// newTestMediator wires a frozen mediator over memory-backed services,
// the same shape Bootstrap produces with the memory driver.
func newTestMediator(t *testing.T) *mediator.Mediator {
	t.Helper()

	locks := lock.NewMemoryLocker()
	logger := zerolog.Nop()

	groupRepo := memory.New(repository.CertificateGroups())
	itemRepo := memory.New(repository.CertificateItems())
	certRepo := memory.New(repository.Certificates())
	portfolioRepo := memory.New(repository.Portfolios())

	backend, err := storage.NewLocal(t.TempDir(), "/media")
	if err != nil {
		t.Fatalf("failed to create storage backend: %v", err)
	}

	services := Services{
		CertificateGroups: service.NewCertificateGroupService(groupRepo, certRepo, locks, logger),
		CertificateItems:  service.NewCertificateItemService(itemRepo, certRepo, locks, logger),
		Certificates:      service.NewCertificateService(certRepo, groupRepo, itemRepo, locks, logger),
		Members:           service.NewMemberService(memory.New(repository.Members()), locks, logger),
		News:              service.NewNewsService(memory.New(repository.News()), locks, logger),
		Portfolios:        service.NewPortfolioService(portfolioRepo, locks, logger),
		Products:          service.NewProductService(memory.New(repository.Products()), portfolioRepo, locks, logger),
		Reviews:           service.NewReviewService(memory.New(repository.Reviews()), locks, logger),
		SeoSettings:       service.NewSeoSettingsService(memory.New(repository.SeoSettings()), locks, logger),
		Submissions:       service.NewSubmissionService(memory.New(repository.Submissions()), locks, logger),
		Vacancies:         service.NewVacancyService(memory.New(repository.Vacancies()), locks, logger),
		Users:             service.NewUserService(memory.New(repository.Users()), locks, logger),
		Files:             service.NewFileService(backend, logger),
	}

	m := mediator.New(logger)
	if err := Register(m, services); err != nil {
		t.Fatalf("failed to register handlers: %v", err)
	}
	m.Freeze()
	return m
}

func testNews(t *testing.T, title, slug string) *domain.News {
	t.Helper()
	article, err := domain.NewNews(domain.NewsInput{
		Category: "Компания",
		Title:    title,
		Slug:     slug,
	})
	if err != nil {
		t.Fatalf("failed to build article: %v", err)
	}
	return article
}

func TestNewsRoundTrip(t *testing.T) {
	m := newTestMediator(t)
	ctx := context.Background()

	article := testNews(t, "Запуск новой линии", "new-line")
	results, err := m.Send(ctx, CreateCommand[*domain.News]{Entity: article})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	created, ok := results[0].(*domain.News)
	if !ok {
		t.Fatalf("expected *domain.News, got %T", results[0])
	}

	bySlug, err := mediator.Ask[GetByKeyQuery[*domain.News], *domain.News](
		ctx, m, GetByKeyQuery[*domain.News]{Key: "new-line"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bySlug.AggregateID() != created.AggregateID() {
		t.Errorf("expected id %s, got %s", created.AggregateID(), bySlug.AggregateID())
	}

	listed, err := mediator.Ask[ListQuery[*domain.News], repository.ListResult[*domain.News]](
		ctx, m, ListQuery[*domain.News]{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if listed.Total != 1 || len(listed.Items) != 1 {
		t.Errorf("expected 1 article, got total %d, items %d", listed.Total, len(listed.Items))
	}
}

func TestMessageTypesAreIsolated(t *testing.T) {
	m := newTestMediator(t)
	ctx := context.Background()

	// Vacancies register no key lookup; only the news/portfolio/product/
	// seo/user instantiations of GetByKeyQuery exist.
	_, err := m.Ask(ctx, GetByKeyQuery[*domain.Vacancy]{Key: "Инженер"})
	var notRegistered *mediator.NotRegisteredError
	if !errors.As(err, &notRegistered) {
		t.Errorf("expected NotRegisteredError, got %v", err)
	}

	// Same for ordering on a non-orderable aggregate.
	_, err = m.Send(ctx, UpdateOrderCommand[*domain.Vacancy]{ID: uuid.New(), Order: 1})
	if !errors.As(err, &notRegistered) {
		t.Errorf("expected NotRegisteredError, got %v", err)
	}
}

func TestUpdateOrderThroughMediator(t *testing.T) {
	m := newTestMediator(t)
	ctx := context.Background()

	member, err := domain.NewMember(domain.MemberInput{Name: "Иванов Иван", Position: "Директор"})
	if err != nil {
		t.Fatalf("failed to build member: %v", err)
	}
	if _, err := m.Send(ctx, CreateCommand[*domain.Member]{Entity: member}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	results, err := m.Send(ctx, UpdateOrderCommand[*domain.Member]{ID: member.AggregateID(), Order: 7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	updated, ok := results[0].(*domain.Member)
	if !ok {
		t.Fatalf("expected *domain.Member, got %T", results[0])
	}
	if updated.Order != 7 {
		t.Errorf("expected order 7, got %d", updated.Order)
	}
}

func TestCascadeThroughMediator(t *testing.T) {
	m := newTestMediator(t)
	ctx := context.Background()

	group, err := domain.NewCertificateGroup(domain.CertificateGroupInput{
		Section: "Сертификаты",
		Title:   "ГОСТ",
	})
	if err != nil {
		t.Fatalf("failed to build group: %v", err)
	}
	if _, err := m.Send(ctx, CreateCommand[*domain.CertificateGroup]{Entity: group}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cert, err := domain.NewCertificate(domain.CertificateInput{
		ParentID: group.AggregateID(),
		Title:    "Скан сертификата",
	})
	if err != nil {
		t.Fatalf("failed to build certificate: %v", err)
	}
	if _, err := m.Send(ctx, CreateCommand[*domain.Certificate]{Entity: cert}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := m.Send(ctx, DeleteCommand[*domain.CertificateGroup]{ID: group.AggregateID()}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	remaining, err := mediator.Ask[CountQuery[*domain.Certificate], int64](
		ctx, m, CountQuery[*domain.Certificate]{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if remaining != 0 {
		t.Errorf("expected owned certificates to be removed, %d left", remaining)
	}
}

func TestAccountCommands(t *testing.T) {
	m := newTestMediator(t)
	ctx := context.Background()

	results, err := m.Send(ctx, RegisterUserCommand{
		Email:    "editor@atlant.example",
		Password: "correct-horse",
		Name:     "Редактор",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	registered, ok := results[0].(*domain.User)
	if !ok {
		t.Fatalf("expected *domain.User, got %T", results[0])
	}

	results, err = m.Send(ctx, AuthenticateCommand{
		Email:    "editor@atlant.example",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	authenticated, ok := results[0].(*domain.User)
	if !ok {
		t.Fatalf("expected *domain.User, got %T", results[0])
	}
	if authenticated.AggregateID() != registered.AggregateID() {
		t.Errorf("expected user %s, got %s", registered.AggregateID(), authenticated.AggregateID())
	}

	_, err = m.Send(ctx, AuthenticateCommand{
		Email:    "editor@atlant.example",
		Password: "wrong",
	})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestFileCommands(t *testing.T) {
	m := newTestMediator(t)
	ctx := context.Background()

	results, err := m.Send(ctx, UploadFileCommand{
		Filename:    "cert.pdf",
		Content:     strings.NewReader("scan"),
		Size:        4,
		ContentType: "application/pdf",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	uploaded, ok := results[0].(*service.UploadedFile)
	if !ok {
		t.Fatalf("expected *service.UploadedFile, got %T", results[0])
	}

	if _, err := m.Send(ctx, DeleteFileCommand{Key: uploaded.Key}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := m.Send(ctx, DeleteFileCommand{Key: uploaded.Key}); !errors.Is(err, service.ErrFileNotFound) {
		t.Errorf("expected ErrFileNotFound, got %v", err)
	}
}
