package catalog

import (
	"context"

	"bookverse/internal/types"
)

// SortKey is the closed set of orderings the store understands. Anything a
// client sends must be resolved onto one of these before it reaches a query.
type SortKey string

const (
	SortByTitle  SortKey = "title"
	SortByAuthor SortKey = "author"
	SortByYear   SortKey = "year"
	SortByRating SortKey = "rating"
)

// OrderSpec is a resolved, safe sort instruction.
type OrderSpec struct {
	Key  SortKey
	Desc bool
}

// Filter is a conjunction of optional predicates; zero values impose no
// constraint.
type Filter struct {
	// Query matches title or author, case-insensitive substring.
	Query  string
	Author string
	// Genres matches books tagged with any of the listed genres.
	Genres []types.Genre
	// Inclusive year bounds, 0 means unbounded.
	YearMin uint16
	YearMax uint16
	// MinRating is an inclusive threshold on the average rating, 0 means
	// no threshold. Books without reviews never pass a threshold.
	MinRating float64
}

type Repository interface {
	// FindBooks returns one page of matches plus the total match count.
	FindBooks(ctx context.Context, filter Filter, order OrderSpec, offset, limit int) ([]types.BookSummary, int64, error)

	FindTopRated(ctx context.Context, limit int) ([]types.BookSummary, error)
	FindMostReviewed(ctx context.Context, limit int) ([]types.BookSummary, error)

	// FindByIds shall return map with NON-NULLS!
	FindByIds(ctx context.Context, ids ...string) (map[string]types.BookSummary, error)

	Save(ctx context.Context, books ...*types.Book) error
	SetGenres(ctx context.Context, bookId string, genres ...types.Genre) error
}
