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

// ProductService manages catalog products. Portfolio references are
// soft, so every write verifies each referenced portfolio exists; a
// single dangling id rejects the whole write.
type ProductService struct {
	*Store[*domain.Product]
	portfolios repository.Repository[*domain.Portfolio]
}

// NewProductService creates the product service.
func NewProductService(
	repo repository.Repository[*domain.Product],
	portfolios repository.Repository[*domain.Portfolio],
	locks lock.Locker,
	logger zerolog.Logger,
) *ProductService {
	return &ProductService{
		Store:      NewStore(productDefinition(), repo, locks, logger),
		portfolios: portfolios,
	}
}

// Create persists a product after verifying its portfolio references.
func (s *ProductService) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := s.checkPortfolios(ctx, product.Portfolios); err != nil {
		return nil, err
	}
	return s.Store.Create(ctx, product)
}

// Update replaces a product after verifying its portfolio references.
func (s *ProductService) Update(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := s.checkPortfolios(ctx, product.Portfolios); err != nil {
		return nil, err
	}
	return s.Store.Update(ctx, product)
}

func (s *ProductService) checkPortfolios(ctx context.Context, ids []uuid.UUID) error {
	for _, id := range ids {
		if _, err := s.portfolios.GetByID(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return domain.NewDomainError(domain.ErrPortfolioReferenceNotFound, "", id.String())
			}
			return fmt.Errorf("%w: %v", ErrInternalError, err)
		}
	}
	return nil
}
