// Package store holds the product table state and the coordinator that keeps
// it in step with the catalog backend.
package store

import (
	"catalog-admin/internal/domain"
	"catalog-admin/internal/filter"
)

// DefaultPageSize is the page size of a fresh state
const DefaultPageSize = 10

// Pagination tracks the current page of the filtered items. Total always
// equals the number of filtered items.
type Pagination struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
	Total    int `json:"total"`
}

// State is the collection state of the product table.
type State struct {
	Items         []domain.Product  `json:"items"`
	FilteredItems []domain.Product  `json:"filteredItems"`
	Loading       bool              `json:"loading"`
	Error         string            `json:"error,omitempty"` // "" when there is no error
	Filters       domain.FilterSpec `json:"filters"`
	Pagination    Pagination        `json:"pagination"`
	SortField     domain.SortField  `json:"sortField"`
	SortOrder     domain.SortOrder  `json:"sortOrder"`
}

// NewState returns an empty state with neutral filters
func NewState(pageSize int) State {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return State{
		Items:         []domain.Product{},
		FilteredItems: []domain.Product{},
		Filters:       domain.NeutralFilters(),
		Pagination:    Pagination{Page: 1, PageSize: pageSize},
		SortOrder:     domain.SortOrderAsc,
	}
}

// HasError reports whether the last intent failed
func (s State) HasError() bool {
	return s.Error != ""
}

// Clone returns a copy of s that shares no slices with it
func (s State) Clone() State {
	s.Items = domain.Clone(s.Items)
	s.FilteredItems = domain.Clone(s.FilteredItems)
	return s
}

// Action is a state transition understood by Reduce
type Action interface {
	action()
}

type (
	// SetProducts replaces the collection and re-derives the filtered view
	SetProducts struct{ Products []domain.Product }
	SetLoading  struct{ Loading bool }
	// SetError records message; an empty message clears the error
	SetError struct{ Message string }
	// SetFilters merges Patch into the filters and returns to page 1
	SetFilters   struct{ Patch domain.FilterPatch }
	ClearFilters struct{}
	// SetPagination changes page and page size; zero values keep the
	// current setting
	SetPagination struct{ Page, PageSize int }
	SetSort       struct {
		Field domain.SortField
		Order domain.SortOrder
	}
	// AddProduct appends Product to the collection and to the filtered view
	// whether or not it passes the active filters
	AddProduct    struct{ Product domain.Product }
	UpdateProduct struct{ Product domain.Product }
	DeleteProduct struct{ ID string }
)

func (SetProducts) action()   {}
func (SetLoading) action()    {}
func (SetError) action()      {}
func (SetFilters) action()    {}
func (ClearFilters) action()  {}
func (SetPagination) action() {}
func (SetSort) action()       {}
func (AddProduct) action()    {}
func (UpdateProduct) action() {}
func (DeleteProduct) action() {}

// Reduce returns the state that results from applying a to s. It never
// modifies the slices of s.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case SetProducts:
		s.Items = domain.Clone(a.Products)
		if s.Items == nil {
			s.Items = []domain.Product{}
		}
		s = derive(s)

	case SetLoading:
		s.Loading = a.Loading

	case SetError:
		s.Error = a.Message

	case SetFilters:
		s.Filters = s.Filters.Merge(a.Patch)
		s.Pagination.Page = 1
		s = derive(s)

	case ClearFilters:
		s.Filters = domain.NeutralFilters()
		s.Pagination.Page = 1
		s = derive(s)

	case SetPagination:
		if a.Page > 0 {
			s.Pagination.Page = a.Page
		}
		if a.PageSize > 0 {
			s.Pagination.PageSize = a.PageSize
		}

	case SetSort:
		s.SortField = a.Field
		s.SortOrder = a.Order
		if s.SortOrder != domain.SortOrderDesc {
			s.SortOrder = domain.SortOrderAsc
		}

	case AddProduct:
		s.Items = append(domain.Clone(s.Items), a.Product)
		s.FilteredItems = append(domain.Clone(s.FilteredItems), a.Product)
		s.Pagination.Total = len(s.FilteredItems)

	case UpdateProduct:
		items := domain.Clone(s.Items)
		for i := range items {
			if items[i].ID == a.Product.ID {
				items[i] = a.Product
				break
			}
		}
		s.Items = items
		s = derive(s)

	case DeleteProduct:
		s.Items = without(s.Items, a.ID)
		s.FilteredItems = without(s.FilteredItems, a.ID)
		s.Pagination.Total = len(s.FilteredItems)
	}

	return s
}

func derive(s State) State {
	s.FilteredItems = filter.Apply(s.Items, s.Filters)
	s.Pagination.Total = len(s.FilteredItems)
	return s
}

func without(products []domain.Product, id string) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}

// View returns the current page of the filtered items in sort order
func (s State) View() []domain.Product {
	sorted := filter.Sort(s.FilteredItems, s.SortField, s.SortOrder)
	return filter.Paginate(sorted, s.Pagination.Page, s.Pagination.PageSize)
}

// PageCount returns the number of pages of the filtered items
func (s State) PageCount() int {
	return filter.PageCount(s.Pagination.Total, s.Pagination.PageSize)
}
