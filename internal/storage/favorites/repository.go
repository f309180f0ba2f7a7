package favorites

import (
	"context"
	"time"

	"bookverse/internal/types"
)

// BookFavoriteCount is one row of the platform-wide favorite tally.
type BookFavoriteCount struct {
	BookId string `db:"book_id"`
	Count  int64  `db:"favorites"`
}

type Repository interface {
	// FindForUser returns the user's favorites with book details and genre
	// tags, most recently favorited first. An empty result is normal.
	FindForUser(ctx context.Context, userId string) ([]types.FavoriteBook, error)

	// MostFavoritedBookIds tallies favorites per book across all users,
	// descending.
	MostFavoritedBookIds(ctx context.Context, limit int) ([]BookFavoriteCount, error)

	Add(ctx context.Context, userId, bookId string, at time.Time) error
}
