package types

// Recommendation group types.
const (
	GroupTopRated            = "top-rated"
	GroupGenreBased          = "genre-based"
	GroupFavoritesGenreBased = "favorites-genre-based"
	GroupPopular             = "popular"
)

// RecommendationGroup is a titled bundle of ranked books, produced fresh per
// request and never cached.
type RecommendationGroup struct {
	Type        string        `json:"type"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Books       []BookSummary `json:"books"`
}
