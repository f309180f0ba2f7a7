package types

import "time"

// Book is the full catalog record as the seeding tools write it. Read paths
// work with BookSummary projections instead.
type Book struct {
	Id            string   `json:"id"`
	Title         string   `json:"title"`
	Author        string   `json:"author"`
	About         string   `json:"about"`
	Year          uint16   `json:"year"`
	Cover         string   `json:"cover_url"`
	AverageRating *float64 `json:"average_rating"`
	ReviewCount   int      `json:"review_count"`
	Genres        []Genre  `json:"genres"`
}

// BookSummary is the flat projection returned by every search and
// recommendation operation. AverageRating is nil for books without reviews;
// the rating aggregates are maintained by the review collaborator and are
// read-only here.
type BookSummary struct {
	Id            string   `json:"id"`
	Title         string   `json:"title"`
	Author        string   `json:"author"`
	Year          uint16   `json:"year"`
	Cover         string   `json:"cover_url"`
	AverageRating *float64 `json:"average_rating"`
	ReviewCount   int      `json:"review_count"`
	Genres        []Genre  `json:"genres"`
}

// FavoriteBook pairs a favorited book with the moment it was favorited.
type FavoriteBook struct {
	Book        BookSummary `json:"book"`
	FavoritedAt time.Time   `json:"favorited_at"`
}
