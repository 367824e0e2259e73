package store

import (
	"strings"

	"catalog-admin/internal/domain"
	"catalog-admin/internal/middleware"
)

// ProductForm is the create/edit form of a product
type ProductForm struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description" validate:"required"`
	Price       float64 `json:"price" validate:"gte=0.01"`
	ImageURL    string  `json:"imageUrl" validate:"omitempty,url"`
	Category    string  `json:"category" validate:"required"`
	Stock       int     `json:"stock" validate:"gte=0"`
}

// FormFromProduct fills a form for editing p
func FormFromProduct(p domain.Product) ProductForm {
	return ProductForm{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		ImageURL:    p.ImageURL,
		Category:    p.Category,
		Stock:       p.Stock,
	}
}

// ValidateForm checks f before it is submitted. Surrounding whitespace does
// not satisfy a required field.
func ValidateForm(f ProductForm) []middleware.ValidationError {
	return middleware.FormatValidationErrors(middleware.ValidateRequest(f.trimmed()))
}

// trimmed strips surrounding whitespace from the text fields
func (f ProductForm) trimmed() ProductForm {
	f.Name = strings.TrimSpace(f.Name)
	f.Description = strings.TrimSpace(f.Description)
	f.Category = strings.TrimSpace(f.Category)
	f.ImageURL = strings.TrimSpace(f.ImageURL)
	return f
}

// Input returns the request body for submitting f. Text fields are sent
// trimmed, matching what ValidateForm checked.
func (f ProductForm) Input() domain.ProductInput {
	f = f.trimmed()
	return domain.ProductInput{
		Name:        &f.Name,
		Description: &f.Description,
		Price:       &f.Price,
		ImageURL:    &f.ImageURL,
		Category:    &f.Category,
		Stock:       &f.Stock,
	}
}
