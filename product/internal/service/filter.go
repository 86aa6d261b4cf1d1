package service

import (
	"github.com/Alturino/perfumery/product/pkg/request"
	"github.com/Alturino/perfumery/product/pkg/response"
)

// Filter keeps the products of the selected category in their original order.
// CategoryFilterAll returns products as is.
func Filter(products []response.Product, category request.CategoryFilter) []response.Product {
	if category == request.CategoryFilterAll {
		return products
	}
	filtered := make([]response.Product, 0, len(products))
	for _, product := range products {
		if category.Matches(product.Category) {
			filtered = append(filtered, product)
		}
	}
	return filtered
}
