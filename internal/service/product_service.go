package service

import (
	"context"
	"fmt"
	"time"

	"catalog-admin/internal/domain"
	"catalog-admin/internal/filter"
	"catalog-admin/internal/repository"

	"github.com/google/uuid"
)

// ProductService defines the interface for product business logic
type ProductService interface {
	List(ctx context.Context, spec *domain.FilterSpec) ([]domain.Product, error)
	Create(ctx context.Context, input domain.ProductInput) (*domain.Product, error)
	Update(ctx context.Context, id string, input domain.ProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}

type productService struct {
	productRepo repository.ProductRepository
	now         func() time.Time
}

// NewProductService creates a new instance of ProductService
func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productService{
		productRepo: productRepo,
		now:         time.Now,
	}
}

// List returns all products, narrowed by spec when one is given
func (s *productService) List(ctx context.Context, spec *domain.FilterSpec) ([]domain.Product, error) {
	products, err := s.productRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	if spec == nil {
		return products, nil
	}

	return filter.Apply(products, *spec), nil
}

// Create stores a new product. Absent fields default to their zero value.
func (s *productService) Create(ctx context.Context, input domain.ProductInput) (*domain.Product, error) {
	now := s.now().UTC()

	product := &domain.Product{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	input.ApplyTo(product)

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

// Update merges input onto the stored product and refreshes UpdatedAt
func (s *productService) Update(ctx context.Context, id string, input domain.ProductInput) (*domain.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	input.ApplyTo(product)
	product.UpdatedAt = s.now().UTC()

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// Delete removes a product
func (s *productService) Delete(ctx context.Context, id string) error {
	return s.productRepo.Delete(ctx, id)
}
