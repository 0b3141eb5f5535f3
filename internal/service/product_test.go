package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/prn-tf/atlant-cms/internal/domain"
	"github.com/prn-tf/atlant-cms/internal/lock"
	"github.com/prn-tf/atlant-cms/internal/repository"
	"github.com/prn-tf/atlant-cms/internal/repository/memory"
)

func newProductFixture() (*ProductService, *Store[*domain.Portfolio]) {
	portfolioRepo := memory.New(repository.Portfolios())
	locks := lock.NewMemoryLocker()
	logger := zerolog.Nop()

	products := NewProductService(memory.New(repository.Products()), portfolioRepo, locks, logger)
	portfolios := NewPortfolioService(portfolioRepo, locks, logger)
	return products, portfolios
}

func testPortfolio(t *testing.T, name, slug string) *domain.Portfolio {
	t.Helper()
	portfolio, err := domain.NewPortfolio(domain.PortfolioInput{
		Name:     name,
		Slug:     slug,
		Industry: "Энергетика",
	})
	if err != nil {
		t.Fatalf("failed to build portfolio: %v", err)
	}
	return portfolio
}

func testProduct(t *testing.T, slug string, portfolios []uuid.UUID) *domain.Product {
	t.Helper()
	product, err := domain.NewProduct(domain.ProductInput{
		Category:   "Насосы",
		Name:       "Насос центробежный",
		Slug:       slug,
		Portfolios: portfolios,
	})
	if err != nil {
		t.Fatalf("failed to build product: %v", err)
	}
	return product
}

func TestProductCreateChecksPortfolioReferences(t *testing.T) {
	products, portfolios := newProductFixture()
	ctx := context.Background()

	existing, err := portfolios.Create(ctx, testPortfolio(t, "ТЭЦ-1", "tec-1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name    string
		refs    []uuid.UUID
		wantErr error
	}{
		{name: "no references"},
		{name: "valid reference", refs: []uuid.UUID{existing.AggregateID()}},
		{
			name:    "dangling reference",
			refs:    []uuid.UUID{existing.AggregateID(), uuid.New()},
			wantErr: domain.ErrPortfolioReferenceNotFound,
		},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slug := []string{"pump-a", "pump-b", "pump-c"}[i]
			_, err := products.Create(ctx, testProduct(t, slug, tt.refs))

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected error %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestProductUpdateChecksPortfolioReferences(t *testing.T) {
	products, portfolios := newProductFixture()
	ctx := context.Background()

	portfolio, err := portfolios.Create(ctx, testPortfolio(t, "ТЭЦ-1", "tec-1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	product, err := products.Create(ctx, testProduct(t, "pump-a", []uuid.UUID{portfolio.AggregateID()}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	product.Portfolios = append(product.Portfolios, uuid.New())
	_, err = products.Update(ctx, product)
	if !errors.Is(err, domain.ErrPortfolioReferenceNotFound) {
		t.Fatalf("expected ErrPortfolioReferenceNotFound, got %v", err)
	}

	var domainErr *domain.DomainError
	if !errors.As(err, &domainErr) {
		t.Fatalf("expected DomainError, got %T", err)
	}
	if domainErr.Resource != product.Portfolios[1].String() {
		t.Errorf("expected the dangling id in the error, got %q", domainErr.Resource)
	}
}
