package repository

import (
	"context"
	"errors"
	"sync"

	"catalog-admin/internal/domain"
)

var (
	ErrProductNotFound      = errors.New("product not found")
	ErrProductAlreadyExists = errors.New("product with this id already exists")
)

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
}

type productRepository struct {
	mu       sync.RWMutex
	products []domain.Product
}

// NewProductRepository creates an in-memory ProductRepository holding a copy
// of seed in its original order
func NewProductRepository(seed []domain.Product) ProductRepository {
	products := domain.Clone(seed)
	if products == nil {
		products = []domain.Product{}
	}
	return &productRepository{products: products}
}

// Create appends a new product
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(product.ID) != -1 {
		return ErrProductAlreadyExists
	}

	r.products = append(r.products, *product)
	return nil
}

// Update replaces the stored product with the same ID
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	index := r.indexOf(product.ID)
	if index == -1 {
		return ErrProductNotFound
	}

	r.products[index] = *product
	return nil
}

// Delete removes a product by ID
func (r *productRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	index := r.indexOf(id)
	if index == -1 {
		return ErrProductNotFound
	}

	products := make([]domain.Product, 0, len(r.products)-1)
	products = append(products, r.products[:index]...)
	r.products = append(products, r.products[index+1:]...)
	return nil
}

// FindByID retrieves a product by ID
func (r *productRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	index := r.indexOf(id)
	if index == -1 {
		return nil, ErrProductNotFound
	}

	product := r.products[index]
	return &product, nil
}

// List returns every product in insertion order
func (r *productRepository) List(ctx context.Context) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]domain.Product, len(r.products))
	copy(products, r.products)
	return products, nil
}

func (r *productRepository) indexOf(id string) int {
	for i := range r.products {
		if r.products[i].ID == id {
			return i
		}
	}
	return -1
}
