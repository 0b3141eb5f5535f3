package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/prn-tf/atlant-cms/internal/domain"
	"github.com/prn-tf/atlant-cms/internal/lock"
	"github.com/prn-tf/atlant-cms/internal/repository"
)

// CertificateGroupService manages certificate groups. Deleting a group
// cascades to every certificate parented by it.
type CertificateGroupService struct {
	*Store[*domain.CertificateGroup]
}

// NewCertificateGroupService creates the certificate group service.
func NewCertificateGroupService(
	repo repository.Repository[*domain.CertificateGroup],
	certificates repository.Repository[*domain.Certificate],
	locks lock.Locker,
	logger zerolog.Logger,
) *CertificateGroupService {
	cascade := func(ctx context.Context, group *domain.CertificateGroup) error {
		return deleteOwnedCertificates(ctx, certificates, group.AggregateID(), logger)
	}
	return &CertificateGroupService{
		Store: NewStore(certificateGroupDefinition(), repo, locks, logger,
			WithCascadeDelete(cascade)),
	}
}

// CertificateItemService manages standalone certificate items. Deletes
// cascade like group deletes.
type CertificateItemService struct {
	*Store[*domain.CertificateItem]
}

// NewCertificateItemService creates the certificate item service.
func NewCertificateItemService(
	repo repository.Repository[*domain.CertificateItem],
	certificates repository.Repository[*domain.Certificate],
	locks lock.Locker,
	logger zerolog.Logger,
) *CertificateItemService {
	cascade := func(ctx context.Context, item *domain.CertificateItem) error {
		return deleteOwnedCertificates(ctx, certificates, item.AggregateID(), logger)
	}
	return &CertificateItemService{
		Store: NewStore(certificateItemDefinition(), repo, locks, logger,
			WithCascadeDelete(cascade)),
	}
}

// deleteOwnedCertificates removes every certificate whose parent_id is
// parentID. A child that disappears between the find and the delete is
// already in the desired state and is skipped.
func deleteOwnedCertificates(
	ctx context.Context,
	certificates repository.Repository[*domain.Certificate],
	parentID uuid.UUID,
	logger zerolog.Logger,
) error {
	children, err := certificates.FindMany(ctx, repository.ListOptions{
		SortField: "created_at",
		SortOrder: repository.SortAscending,
		Filters:   repository.Filters{"parent_id": parentID.String()},
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	for _, child := range children {
		if err := certificates.Delete(ctx, child.AggregateID()); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return fmt.Errorf("%w: %v", ErrInternalError, err)
		}
	}

	if len(children) > 0 {
		logger.Info().
			Str("parent_id", parentID.String()).
			Int("count", len(children)).
			Msg("cascaded certificate delete")
	}
	return nil
}

// CertificateService manages individual certificates. Every write
// verifies the parent group or item still exists, keeping ownership
// intact.
type CertificateService struct {
	*Store[*domain.Certificate]
	groups repository.Repository[*domain.CertificateGroup]
	items  repository.Repository[*domain.CertificateItem]
}

// NewCertificateService creates the certificate service.
func NewCertificateService(
	repo repository.Repository[*domain.Certificate],
	groups repository.Repository[*domain.CertificateGroup],
	items repository.Repository[*domain.CertificateItem],
	locks lock.Locker,
	logger zerolog.Logger,
) *CertificateService {
	return &CertificateService{
		Store:  NewStore(certificateDefinition(), repo, locks, logger),
		groups: groups,
		items:  items,
	}
}

// Create persists a certificate after verifying its parent exists.
func (s *CertificateService) Create(ctx context.Context, cert *domain.Certificate) (*domain.Certificate, error) {
	if err := s.checkParent(ctx, cert.ParentID); err != nil {
		return nil, err
	}
	return s.Store.Create(ctx, cert)
}

// Update replaces a certificate after verifying its parent exists.
func (s *CertificateService) Update(ctx context.Context, cert *domain.Certificate) (*domain.Certificate, error) {
	if err := s.checkParent(ctx, cert.ParentID); err != nil {
		return nil, err
	}
	return s.Store.Update(ctx, cert)
}

// ListByParent returns all certificates owned by one group or item.
func (s *CertificateService) ListByParent(ctx context.Context, parentID uuid.UUID) ([]*domain.Certificate, error) {
	result, err := s.List(ctx, repository.ListOptions{
		SortOrder: repository.SortAscending,
		Filters:   repository.Filters{"parent_id": parentID.String()},
	})
	if err != nil {
		return nil, err
	}
	return result.Items, nil
}

func (s *CertificateService) checkParent(ctx context.Context, parentID uuid.UUID) error {
	if _, err := s.groups.GetByID(ctx, parentID); err == nil {
		return nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	if _, err := s.items.GetByID(ctx, parentID); err == nil {
		return nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	return domain.NewDomainError(domain.ErrCertificateParentNotFound, "", parentID.String())
}
