package store

import (
	"fmt"
	"time"

	"catalog-admin/internal/domain"
)

// CategoryAll is the category selection meaning any category
const CategoryAll = "all"

// CategoryPatch returns the patch for a category selection
func CategoryPatch(selected string) domain.FilterPatch {
	category := selected
	if category == CategoryAll {
		category = ""
	}
	return domain.FilterPatch{Category: &category}
}

// StockPatch returns the patch for a stock selection
func StockPatch(selected domain.StockFilter) (domain.FilterPatch, error) {
	switch selected {
	case domain.StockAll, domain.StockOutOfStock:
		return domain.FilterPatch{StockFilter: &selected}, nil
	default:
		return domain.FilterPatch{}, fmt.Errorf("unknown stock filter %q", selected)
	}
}

type priceRange struct{ min, max float64 }

// pricePresets maps price selections to bounds; 0 leaves a bound open
var pricePresets = map[string]priceRange{
	"all":       {0, 0},
	"under100":  {0, 100},
	"100to500":  {100, 500},
	"500to1000": {500, 1000},
	"over1000":  {1000, 0},
}

// PricePatch returns the patch for a price preset. Both bounds are always set
// so a previous selection never leaks into the next one.
func PricePatch(preset string) (domain.FilterPatch, error) {
	r, ok := pricePresets[preset]
	if !ok {
		return domain.FilterPatch{}, fmt.Errorf("unknown price preset %q", preset)
	}
	return domain.FilterPatch{MinPrice: &r.min, MaxPrice: &r.max}, nil
}

// DatePatch returns the patch for a creation date preset relative to now.
// "all" starts at the Unix epoch, which matches every product.
func DatePatch(preset string, now time.Time) (domain.FilterPatch, error) {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var start, end time.Time
	switch preset {
	case "all":
		start = time.Unix(0, 0)
	case "today":
		start = midnight
	case "yesterday":
		start = midnight.AddDate(0, 0, -1)
		end = midnight
	case "last7days":
		start = now.AddDate(0, 0, -7)
	case "last30days":
		start = now.AddDate(0, 0, -30)
	case "last90days":
		start = now.AddDate(0, 0, -90)
	default:
		return domain.FilterPatch{}, fmt.Errorf("unknown date preset %q", preset)
	}

	return domain.FilterPatch{StartDate: &start, EndDate: &end}, nil
}

// HasActiveFilters reports whether spec restricts the product list
func HasActiveFilters(spec domain.FilterSpec) bool {
	return !spec.IsNeutral()
}
