// Package search composes filter predicates, ordering and pagination over
// the book catalog.
package search

import (
	"context"
	"strings"

	"bookverse/internal/storage/catalog"
	"bookverse/internal/types"
)

type Engine struct {
	catalog catalog.Repository
}

func NewEngine(c catalog.Repository) *Engine {
	return &Engine{catalog: c}
}

// Search runs one paginated catalog query. All present filters combine with
// AND; absent filters impose no constraint. The call is a pure read, store
// failures propagate unmodified.
func (e *Engine) Search(ctx context.Context, criteria types.SearchCriteria) (types.Page[types.BookSummary], error) {
	page := criteria.Page
	size := criteria.Size
	if size == 0 {
		size = DefaultPageSize
	}

	filter := catalog.Filter{
		Query:     strings.TrimSpace(criteria.Query),
		Author:    strings.TrimSpace(criteria.Author),
		Genres:    criteria.Genres,
		YearMin:   criteria.YearMin,
		YearMax:   criteria.YearMax,
		MinRating: criteria.MinRating,
	}

	order := ResolveOrder(criteria.SortBy, criteria.SortDirection)

	rows, total, err := e.catalog.FindBooks(ctx, filter, order, page*size, size)
	if err != nil {
		return types.Page[types.BookSummary]{}, err
	}

	return PageOf(rows, total, page, size), nil
}
