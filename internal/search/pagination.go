package search

import "bookverse/internal/types"

// DefaultPageSize applies when a request leaves the page size unset.
const DefaultPageSize = 20

// PageMeta computes pagination metadata for a page window. Callers must
// have rejected negative page and non-positive size already; this is pure
// arithmetic with no error path.
//
// With zero total elements totalPages is 0 and last is true even on page 0,
// the empty-result convention.
func PageMeta(totalElements int64, page, size int) types.Pagination {
	totalPages := int((totalElements + int64(size) - 1) / int64(size))

	return types.Pagination{
		Page:          page,
		Size:          size,
		TotalElements: totalElements,
		TotalPages:    totalPages,
		First:         page == 0,
		Last:          page+1 >= totalPages,
	}
}

// PageOf wraps ranked items with their pagination metadata.
func PageOf[T any](items []T, totalElements int64, page, size int) types.Page[T] {
	if items == nil {
		items = make([]T, 0)
	}

	return types.Page[T]{
		Items:      items,
		Pagination: PageMeta(totalElements, page, size),
	}
}
