package app

import (
	"context"

	"github.com/google/uuid"

	"github.com/prn-tf/atlant-cms/internal/domain"
	"github.com/prn-tf/atlant-cms/internal/mediator"
	"github.com/prn-tf/atlant-cms/internal/repository"
	"github.com/prn-tf/atlant-cms/internal/service"
)

// Resource is the service surface a registered aggregate exposes.
// *service.Store[T] satisfies it directly; wrapping services satisfy it
// through embedding while shadowing the writes they guard.
type Resource[T domain.Aggregate] interface {
	Create(ctx context.Context, entity T) (T, error)
	GetByID(ctx context.Context, id uuid.UUID) (T, error)
	GetByKey(ctx context.Context, value string) (T, error)
	Update(ctx context.Context, entity T) (T, error)
	UpdateOrder(ctx context.Context, id uuid.UUID, order int) (T, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, opts repository.ListOptions) (repository.ListResult[T], error)
	Count(ctx context.Context, filters repository.Filters) (int64, error)
}

type resourceOptions struct {
	keyLookup bool
	ordering  bool
}

// ResourceOption toggles optional message registrations.
type ResourceOption func(*resourceOptions)

// WithKeyLookup registers GetByKeyQuery for aggregates with a natural
// key exposed to clients (slug, page path, email).
func WithKeyLookup() ResourceOption {
	return func(o *resourceOptions) { o.keyLookup = true }
}

// WithOrdering registers UpdateOrderCommand for orderable aggregates.
func WithOrdering() ResourceOption {
	return func(o *resourceOptions) { o.ordering = true }
}

// RegisterResource binds the standard command and query set of one
// aggregate type to its service.
func RegisterResource[T domain.Aggregate](m *mediator.Mediator, svc Resource[T], opts ...ResourceOption) error {
	var options resourceOptions
	for _, opt := range opts {
		opt(&options)
	}

	if err := mediator.RegisterCommand(m, func(ctx context.Context, cmd CreateCommand[T]) (any, error) {
		return svc.Create(ctx, cmd.Entity)
	}); err != nil {
		return err
	}
	if err := mediator.RegisterCommand(m, func(ctx context.Context, cmd UpdateCommand[T]) (any, error) {
		return svc.Update(ctx, cmd.Entity)
	}); err != nil {
		return err
	}
	if err := mediator.RegisterCommand(m, func(ctx context.Context, cmd DeleteCommand[T]) (any, error) {
		return nil, svc.Delete(ctx, cmd.ID)
	}); err != nil {
		return err
	}
	if options.ordering {
		if err := mediator.RegisterCommand(m, func(ctx context.Context, cmd UpdateOrderCommand[T]) (any, error) {
			return svc.UpdateOrder(ctx, cmd.ID, cmd.Order)
		}); err != nil {
			return err
		}
	}

	if err := mediator.RegisterQuery(m, func(ctx context.Context, q GetByIDQuery[T]) (any, error) {
		return svc.GetByID(ctx, q.ID)
	}); err != nil {
		return err
	}
	if options.keyLookup {
		if err := mediator.RegisterQuery(m, func(ctx context.Context, q GetByKeyQuery[T]) (any, error) {
			return svc.GetByKey(ctx, q.Key)
		}); err != nil {
			return err
		}
	}
	if err := mediator.RegisterQuery(m, func(ctx context.Context, q ListQuery[T]) (any, error) {
		return svc.List(ctx, q.Options)
	}); err != nil {
		return err
	}
	return mediator.RegisterQuery(m, func(ctx context.Context, q CountQuery[T]) (any, error) {
		return svc.Count(ctx, q.Filters)
	})
}

// RegisterUser binds the account commands to the user service. The
// standard resource set is registered too so admins can manage
// accounts like any other aggregate.
func RegisterUser(m *mediator.Mediator, users *service.UserService) error {
	if err := RegisterResource[*domain.User](m, users, WithKeyLookup()); err != nil {
		return err
	}

	if err := mediator.RegisterCommand(m, func(ctx context.Context, cmd RegisterUserCommand) (any, error) {
		return users.Register(ctx, cmd.Email, cmd.Password, cmd.Name)
	}); err != nil {
		return err
	}
	if err := mediator.RegisterCommand(m, func(ctx context.Context, cmd AuthenticateCommand) (any, error) {
		return users.Authenticate(ctx, cmd.Email, cmd.Password)
	}); err != nil {
		return err
	}
	return mediator.RegisterCommand(m, func(ctx context.Context, cmd ChangePasswordCommand) (any, error) {
		return nil, users.ChangePassword(ctx, cmd.ID, cmd.Password)
	})
}

// RegisterFiles binds the upload commands to the file service.
func RegisterFiles(m *mediator.Mediator, files *service.FileService) error {
	if err := mediator.RegisterCommand(m, func(ctx context.Context, cmd UploadFileCommand) (any, error) {
		return files.Upload(ctx, cmd.Filename, cmd.Content, cmd.Size, cmd.ContentType)
	}); err != nil {
		return err
	}
	return mediator.RegisterCommand(m, func(ctx context.Context, cmd DeleteFileCommand) (any, error) {
		return nil, files.Delete(ctx, cmd.Key)
	})
}

// Services bundles every service the application registers.
type Services struct {
	CertificateGroups *service.CertificateGroupService
	CertificateItems  *service.CertificateItemService
	Certificates      *service.CertificateService
	Members           *service.Store[*domain.Member]
	News              *service.Store[*domain.News]
	Portfolios        *service.Store[*domain.Portfolio]
	Products          *service.ProductService
	Reviews           *service.Store[*domain.Review]
	SeoSettings       *service.Store[*domain.SeoSettings]
	Submissions       *service.Store[*domain.Submission]
	Vacancies         *service.Store[*domain.Vacancy]
	Users             *service.UserService
	Files             *service.FileService
}

// Register wires every aggregate and auxiliary command into the
// mediator. The caller freezes the mediator afterwards.
func Register(m *mediator.Mediator, s Services) error {
	if err := RegisterResource[*domain.CertificateGroup](m, s.CertificateGroups, WithOrdering()); err != nil {
		return err
	}
	if err := RegisterResource[*domain.CertificateItem](m, s.CertificateItems, WithOrdering()); err != nil {
		return err
	}
	if err := RegisterResource[*domain.Certificate](m, s.Certificates, WithOrdering()); err != nil {
		return err
	}
	if err := RegisterResource[*domain.Member](m, s.Members, WithOrdering()); err != nil {
		return err
	}
	if err := RegisterResource[*domain.News](m, s.News, WithKeyLookup()); err != nil {
		return err
	}
	if err := RegisterResource[*domain.Portfolio](m, s.Portfolios, WithKeyLookup()); err != nil {
		return err
	}
	if err := RegisterResource[*domain.Product](m, s.Products, WithKeyLookup()); err != nil {
		return err
	}
	if err := RegisterResource[*domain.Review](m, s.Reviews); err != nil {
		return err
	}
	if err := RegisterResource[*domain.SeoSettings](m, s.SeoSettings, WithKeyLookup()); err != nil {
		return err
	}
	if err := RegisterResource[*domain.Submission](m, s.Submissions); err != nil {
		return err
	}
	if err := RegisterResource[*domain.Vacancy](m, s.Vacancies); err != nil {
		return err
	}
	if err := RegisterUser(m, s.Users); err != nil {
		return err
	}
	return RegisterFiles(m, s.Files)
}
