package domain

import "time"

// StockFilter restricts products by stock level
type StockFilter string

const (
	StockAll        StockFilter = "all"
	StockOutOfStock StockFilter = "outOfStock"
)

// FilterSpec holds the criteria of the product table. The zero value of each
// field is its neutral value, except StockFilter whose neutral value is
// StockAll.
type FilterSpec struct {
	Search      string      `json:"search"`
	Category    string      `json:"category"`
	MinPrice    float64     `json:"minPrice"`
	MaxPrice    float64     `json:"maxPrice"`
	StockFilter StockFilter `json:"stockFilter"`
	StartDate   time.Time   `json:"startDate"`
	EndDate     time.Time   `json:"endDate"`
}

// NeutralFilters returns a FilterSpec that matches every product
func NeutralFilters() FilterSpec {
	return FilterSpec{StockFilter: StockAll}
}

// IsNeutral reports whether f places no restriction on products
func (f FilterSpec) IsNeutral() bool {
	return f.Search == "" &&
		f.Category == "" &&
		f.MinPrice == 0 &&
		f.MaxPrice == 0 &&
		f.StockFilter != StockOutOfStock &&
		f.StartDate.IsZero() &&
		f.EndDate.IsZero()
}

// FilterPatch is a partial FilterSpec. Nil fields keep their prior value;
// non-nil fields overwrite, neutral values included.
type FilterPatch struct {
	Search      *string
	Category    *string
	MinPrice    *float64
	MaxPrice    *float64
	StockFilter *StockFilter
	StartDate   *time.Time
	EndDate     *time.Time
}

// Merge returns f with the present fields of p applied
func (f FilterSpec) Merge(p FilterPatch) FilterSpec {
	if p.Search != nil {
		f.Search = *p.Search
	}
	if p.Category != nil {
		f.Category = *p.Category
	}
	if p.MinPrice != nil {
		f.MinPrice = *p.MinPrice
	}
	if p.MaxPrice != nil {
		f.MaxPrice = *p.MaxPrice
	}
	if p.StockFilter != nil {
		f.StockFilter = *p.StockFilter
	}
	if p.StartDate != nil {
		f.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		f.EndDate = *p.EndDate
	}
	return f
}

// SortField names a sortable product column
type SortField string

const (
	SortNone      SortField = ""
	SortName      SortField = "name"
	SortPrice     SortField = "price"
	SortStock     SortField = "stock"
	SortCreatedAt SortField = "createdAt"
)

// SortOrder represents the sort direction
type SortOrder string

const (
	SortOrderAsc  SortOrder = "asc"
	SortOrderDesc SortOrder = "desc"
)
