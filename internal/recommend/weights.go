package recommend

import (
	"math"
	"sort"
	"time"

	"bookverse/internal/types"
)

const (
	// Recency decays linearly over this horizon, never below the floor,
	// so an old favorite still carries a minimum signal.
	recencyHorizonDays = 30.0
	recencyFloor       = 0.1

	// TopGenreCount is how many of the heaviest genres feed candidate
	// retrieval.
	TopGenreCount = 3
)

// Weights scores every genre tagged on the user's favorites. Each favorite
// credits all of its book's genres in full (no splitting) with
//
//	1.0 + max(0.1, 1 - days/30) + clamp((avgRating-3)/2, 0, 1)
//
// where days counts whole days between favoriting and now, and the rating
// bonus is 0 for books without reviews. A favorite on a genreless book
// contributes nothing.
func Weights(favorites []types.FavoriteBook, now time.Time) map[types.Genre]float64 {
	weights := make(map[types.Genre]float64)

	for _, fav := range favorites {
		days := math.Floor(now.Sub(fav.FavoritedAt).Hours() / 24)
		recency := math.Max(recencyFloor, 1.0-days/recencyHorizonDays)

		bonus := 0.0
		if fav.Book.AverageRating != nil {
			bonus = math.Min(1.0, math.Max(0.0, (*fav.Book.AverageRating-3.0)/2.0))
		}

		for _, genre := range fav.Book.Genres {
			weights[genre] += 1.0 + recency + bonus
		}
	}

	return weights
}

// TopGenres picks the k heaviest genres. Equal weights resolve by the
// enumeration order of types.AllGenres, so the selection is deterministic.
func TopGenres(weights map[types.Genre]float64, k int) []types.Genre {
	ranked := make([]types.Genre, 0, len(weights))
	for _, genre := range types.AllGenres {
		if weights[genre] > 0 {
			ranked = append(ranked, genre)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return weights[ranked[i]] > weights[ranked[j]]
	})

	if len(ranked) > k {
		ranked = ranked[:k]
	}

	return ranked
}

// BestWeight is the heaviest weight among the book's genre tags, 0 when
// none of them carry weight.
func BestWeight(book types.BookSummary, weights map[types.Genre]float64) float64 {
	best := 0.0
	for _, genre := range book.Genres {
		if w := weights[genre]; w > best {
			best = w
		}
	}

	return best
}
