package apiclient

import (
	"context"
	"net/url"

	"catalog-admin/internal/domain"
)

const productsPath = "/products"

// ListProducts fetches the whole catalog
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := c.Get(ctx, productsPath, &products); err != nil {
		return nil, err
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products, nil
}

// CreateProduct posts input and returns the product the server stored
func (c *Client) CreateProduct(ctx context.Context, input domain.ProductInput) (domain.Product, error) {
	var product domain.Product
	err := c.Post(ctx, productsPath, input, &product)
	return product, err
}

// UpdateProduct merges input onto product id
func (c *Client) UpdateProduct(ctx context.Context, id string, input domain.ProductInput) (domain.Product, error) {
	var product domain.Product
	err := c.Put(ctx, productPath(id), input, &product)
	return product, err
}

// DeleteProduct removes product id
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.Delete(ctx, productPath(id))
}

func productPath(id string) string {
	return productsPath + "/" + url.PathEscape(id)
}
