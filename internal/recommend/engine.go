// Package recommend builds typed recommendation groups from the catalog and
// the favorites history. Every call is stateless and recomputes against the
// current clock; nothing here is cached.
package recommend

import (
	"context"
	"sort"
	"time"

	"bookverse/internal/storage/catalog"
	"bookverse/internal/storage/favorites"
	"bookverse/internal/types"
)

// popularGenres is the static genre set behind the genre-based group.
var popularGenres = []types.Genre{
	types.GenreRomance,
	types.GenreMystery,
	types.GenreFantasy,
	types.GenreSciFi,
}

type Engine struct {
	catalog   catalog.Repository
	favorites favorites.Repository

	// now is injectable so tests can pin the recency reference.
	now func() time.Time
}

func NewEngine(c catalog.Repository, f favorites.Repository) *Engine {
	return &Engine{catalog: c, favorites: f, now: time.Now}
}

// TopRated returns the single top-rated group. An empty catalog yields an
// empty group, not a fallback.
func (e *Engine) TopRated(ctx context.Context, limit int) ([]types.RecommendationGroup, error) {
	books, err := e.catalog.FindTopRated(ctx, limit)
	if err != nil {
		return nil, err
	}

	return []types.RecommendationGroup{{
		Type:        types.GroupTopRated,
		Title:       "Top Rated Books",
		Description: "Books with the highest ratings from our community",
		Books:       orEmpty(books),
	}}, nil
}

// GenreBased returns books from the static popular-genre set, rated best
// first.
func (e *Engine) GenreBased(ctx context.Context, limit int) ([]types.RecommendationGroup, error) {
	books, _, err := e.catalog.FindBooks(ctx,
		catalog.Filter{Genres: popularGenres},
		catalog.OrderSpec{Key: catalog.SortByRating, Desc: true},
		0, limit)
	if err != nil {
		return nil, err
	}

	return []types.RecommendationGroup{{
		Type:        types.GroupGenreBased,
		Title:       "Popular Genres",
		Description: "Books from popular genres like Romance, Mystery, Fantasy, and Science Fiction",
		Books:       orEmpty(books),
	}}, nil
}

// GenreBasedFromFavorites recommends books tagged with the user's heaviest
// genres, excluding everything already favorited. A user without favorites,
// or whose favorites are all genreless, gets the popularity fallback group
// instead.
func (e *Engine) GenreBasedFromFavorites(ctx context.Context, userId string, limit int) ([]types.RecommendationGroup, error) {
	favs, err := e.favorites.FindForUser(ctx, userId)
	if err != nil {
		return nil, err
	}

	if len(favs) == 0 {
		return e.popularGroup(ctx, limit)
	}

	weights := Weights(favs, e.now())
	topGenres := TopGenres(weights, TopGenreCount)
	if len(topGenres) == 0 {
		return e.popularGroup(ctx, limit)
	}

	owned := make(map[string]struct{}, len(favs))
	for _, fav := range favs {
		owned[fav.Book.Id] = struct{}{}
	}

	books, err := e.booksFromTopGenres(ctx, weights, topGenres, owned, limit)
	if err != nil {
		return nil, err
	}

	return []types.RecommendationGroup{{
		Type:        types.GroupFavoritesGenreBased,
		Title:       "Based on your favorite genres",
		Description: "Books in genres you love",
		Books:       orEmpty(books),
	}}, nil
}

// UserBased shares the weighted favorites path; both endpoints rank through
// one model.
func (e *Engine) UserBased(ctx context.Context, userId string, limit int) ([]types.RecommendationGroup, error) {
	return e.GenreBasedFromFavorites(ctx, userId, limit)
}

// ForUser is the aggregate endpoint: always the top-rated group, plus the
// user-based group when a user is known.
func (e *Engine) ForUser(ctx context.Context, userId string, limit int) ([]types.RecommendationGroup, error) {
	groups, err := e.TopRated(ctx, limit)
	if err != nil {
		return nil, err
	}

	if userId != "" {
		userGroups, err := e.UserBased(ctx, userId, limit)
		if err != nil {
			return nil, err
		}
		groups = append(groups, userGroups...)
	}

	return groups, nil
}

// booksFromTopGenres fetches twice the target so that excluding
// already-favorited books still leaves enough candidates. Remaining
// candidates rank by their best genre weight, then rating (unrated compares
// as 0), then id. A thin result stays thin; this tier never tops up from
// unrelated genres.
func (e *Engine) booksFromTopGenres(ctx context.Context, weights map[types.Genre]float64,
	topGenres []types.Genre, exclude map[string]struct{}, limit int) ([]types.BookSummary, error) {

	candidates, _, err := e.catalog.FindBooks(ctx,
		catalog.Filter{Genres: topGenres},
		catalog.OrderSpec{Key: catalog.SortByRating, Desc: true},
		0, limit*2)
	if err != nil {
		return nil, err
	}

	ranked := make([]types.BookSummary, 0, len(candidates))
	for _, book := range candidates {
		if _, ok := exclude[book.Id]; ok {
			continue
		}
		ranked = append(ranked, book)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		wi, wj := BestWeight(ranked[i], weights), BestWeight(ranked[j], weights)
		if wi != wj {
			return wi > wj
		}

		ri, rj := ratingOrZero(ranked[i]), ratingOrZero(ranked[j])
		if ri != rj {
			return ri > rj
		}

		return ranked[i].Id < ranked[j].Id
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	return ranked, nil
}

func (e *Engine) popularGroup(ctx context.Context, limit int) ([]types.RecommendationGroup, error) {
	books, err := e.popularBooks(ctx, limit)
	if err != nil {
		return nil, err
	}

	return []types.RecommendationGroup{{
		Type:        types.GroupPopular,
		Title:       "Popular Books",
		Description: "Trending books in our community",
		Books:       orEmpty(books),
	}}, nil
}

// popularTier is one strategy in the popularity fallback chain.
type popularTier struct {
	name  string
	fetch func(ctx context.Context) ([]types.BookSummary, error)
}

// popularTiers is the fallback order: most-favorited books first, then the
// most reviewed slice of the catalog when nobody has favorited anything yet.
// The first tier returning at least one book wins.
func (e *Engine) popularTiers(limit int) []popularTier {
	return []popularTier{
		{
			name: "most-favorited",
			fetch: func(ctx context.Context) ([]types.BookSummary, error) {
				return e.mostFavorited(ctx, limit)
			},
		},
		{
			name: "most-reviewed",
			fetch: func(ctx context.Context) ([]types.BookSummary, error) {
				return e.catalog.FindMostReviewed(ctx, limit)
			},
		},
	}
}

func (e *Engine) popularBooks(ctx context.Context, limit int) ([]types.BookSummary, error) {
	for _, tier := range e.popularTiers(limit) {
		books, err := tier.fetch(ctx)
		if err != nil {
			return nil, err
		}
		if len(books) > 0 {
			return books, nil
		}
	}

	return nil, nil
}

// mostFavorited resolves the platform-wide favorite tally into book
// summaries, preserving tally order.
func (e *Engine) mostFavorited(ctx context.Context, limit int) ([]types.BookSummary, error) {
	counts, err := e.favorites.MostFavoritedBookIds(ctx, limit)
	if err != nil {
		return nil, err
	}

	if len(counts) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(counts))
	for _, c := range counts {
		ids = append(ids, c.BookId)
	}

	byId, err := e.catalog.FindByIds(ctx, ids...)
	if err != nil {
		return nil, err
	}

	books := make([]types.BookSummary, 0, len(counts))
	for _, c := range counts {
		if book, ok := byId[c.BookId]; ok {
			books = append(books, book)
		}
	}

	return books, nil
}

func ratingOrZero(book types.BookSummary) float64 {
	if book.AverageRating == nil {
		return 0
	}

	return *book.AverageRating
}

func orEmpty(books []types.BookSummary) []types.BookSummary {
	if books == nil {
		return make([]types.BookSummary, 0)
	}

	return books
}
