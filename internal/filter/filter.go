// Package filter derives the visible product list from the full collection.
// Every function here is pure: inputs are never modified.
package filter

import (
	"sort"
	"strings"

	"catalog-admin/internal/domain"
)

// Apply returns the products matching every criterion of spec, in their
// original relative order. The result never aliases items.
func Apply(items []domain.Product, spec domain.FilterSpec) []domain.Product {
	result := make([]domain.Product, 0, len(items))
	search := strings.ToLower(spec.Search)

	for _, item := range items {
		if Matches(item, spec, search) {
			result = append(result, item)
		}
	}

	return result
}

// Matches reports whether item satisfies spec. search must be the lowercased
// spec.Search; callers filtering many items compute it once.
func Matches(item domain.Product, spec domain.FilterSpec, search string) bool {
	return matchesSearch(item, search) &&
		matchesCategory(item, spec.Category) &&
		matchesPrice(item, spec.MinPrice, spec.MaxPrice) &&
		matchesStock(item, spec.StockFilter) &&
		matchesDate(item, spec)
}

func matchesSearch(item domain.Product, search string) bool {
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(item.Name), search) ||
		strings.Contains(strings.ToLower(item.Description), search)
}

func matchesCategory(item domain.Product, category string) bool {
	return category == "" || item.Category == category
}

// A bound of 0 is unset, so 0 can never act as a real lower or upper limit.
func matchesPrice(item domain.Product, minPrice, maxPrice float64) bool {
	if minPrice != 0 && item.Price < minPrice {
		return false
	}
	if maxPrice != 0 && item.Price > maxPrice {
		return false
	}
	return true
}

func matchesStock(item domain.Product, stock domain.StockFilter) bool {
	return stock != domain.StockOutOfStock || item.Stock == 0
}

// An end date without a start date places no restriction.
func matchesDate(item domain.Product, spec domain.FilterSpec) bool {
	if spec.StartDate.IsZero() {
		return true
	}
	if item.CreatedAt.Before(spec.StartDate) {
		return false
	}
	if !spec.EndDate.IsZero() && !item.CreatedAt.Before(spec.EndDate) {
		return false
	}
	return true
}

// Sort returns a copy of items stably ordered by field. SortNone keeps the
// original order.
func Sort(items []domain.Product, field domain.SortField, order domain.SortOrder) []domain.Product {
	sorted := domain.Clone(items)
	if sorted == nil {
		sorted = []domain.Product{}
	}

	var less func(a, b domain.Product) bool
	switch field {
	case domain.SortName:
		less = func(a, b domain.Product) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }
	case domain.SortPrice:
		less = func(a, b domain.Product) bool { return a.Price < b.Price }
	case domain.SortStock:
		less = func(a, b domain.Product) bool { return a.Stock < b.Stock }
	case domain.SortCreatedAt:
		less = func(a, b domain.Product) bool { return a.CreatedAt.Before(b.CreatedAt) }
	default:
		return sorted
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		if order == domain.SortOrderDesc {
			return less(sorted[j], sorted[i])
		}
		return less(sorted[i], sorted[j])
	})

	return sorted
}

// Paginate returns the 1-based page of items. Pages before the first are
// clamped to the first; pages past the last are empty.
func Paginate(items []domain.Product, page, pageSize int) []domain.Product {
	if pageSize <= 0 {
		return domain.Clone(items)
	}
	if page < 1 {
		page = 1
	}

	// compare in pages so a huge page number cannot overflow the offset
	if page-1 >= PageCount(len(items), pageSize) {
		return []domain.Product{}
	}

	offset := (page - 1) * pageSize
	if offset >= len(items) {
		return []domain.Product{}
	}

	end := offset + pageSize
	if end > len(items) {
		end = len(items)
	}

	return domain.Clone(items[offset:end])
}

// PageCount returns the number of pages needed for total items
func PageCount(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 1
	}
	pages := total / pageSize
	if total%pageSize != 0 {
		pages++
	}
	return pages
}
