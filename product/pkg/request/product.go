package request

import (
	"fmt"

	"github.com/Alturino/perfumery/product/pkg/response"
)

// CategoryFilter selects a catalog view: every product, or one category.
type CategoryFilter uint8

const (
	CategoryFilterAll CategoryFilter = iota
	CategoryFilterWomen
	CategoryFilterMen
	CategoryFilterUnisex
)

var categoryFilterNames = map[CategoryFilter]string{
	CategoryFilterAll:    "all",
	CategoryFilterWomen:  "women",
	CategoryFilterMen:    "men",
	CategoryFilterUnisex: "unisex",
}

var categoryFilterCategories = map[CategoryFilter]response.Category{
	CategoryFilterWomen:  response.CategoryWomen,
	CategoryFilterMen:    response.CategoryMen,
	CategoryFilterUnisex: response.CategoryUnisex,
}

func (f CategoryFilter) String() string {
	if name, ok := categoryFilterNames[f]; ok {
		return name
	}
	return fmt.Sprintf("CategoryFilter(%d)", uint8(f))
}

// ParseCategoryFilter accepts all, women, men or unisex. An empty value selects all.
func ParseCategoryFilter(value string) (CategoryFilter, error) {
	if value == "" {
		return CategoryFilterAll, nil
	}
	for filter, name := range categoryFilterNames {
		if name == value {
			return filter, nil
		}
	}
	return 0, fmt.Errorf("invalid category filter %q", value)
}

func (f CategoryFilter) Matches(category response.Category) bool {
	if f == CategoryFilterAll {
		return true
	}
	want, ok := categoryFilterCategories[f]
	return ok && want == category
}

type FindProducts struct {
	Category CategoryFilter
}

type FindProductById struct {
	ID string `validate:"required"`
}
