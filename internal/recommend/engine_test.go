package recommend

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookverse/internal/storage"
	"bookverse/internal/storage/catalog"
	"bookverse/internal/storage/favorites"
	"bookverse/internal/types"
)

type fakeCatalog struct {
	topRated     []types.BookSummary
	mostReviewed []types.BookSummary
	genreBooks   []types.BookSummary
	byId         map[string]types.BookSummary

	gotFilter catalog.Filter
	gotOrder  catalog.OrderSpec
	gotLimit  int

	err error
}

func (f *fakeCatalog) FindBooks(_ context.Context, filter catalog.Filter, order catalog.OrderSpec,
	_, limit int) ([]types.BookSummary, int64, error) {

	f.gotFilter = filter
	f.gotOrder = order
	f.gotLimit = limit

	return f.genreBooks, int64(len(f.genreBooks)), f.err
}

func (f *fakeCatalog) FindTopRated(_ context.Context, _ int) ([]types.BookSummary, error) {
	return f.topRated, f.err
}

func (f *fakeCatalog) FindMostReviewed(_ context.Context, _ int) ([]types.BookSummary, error) {
	return f.mostReviewed, f.err
}

func (f *fakeCatalog) FindByIds(_ context.Context, ids ...string) (map[string]types.BookSummary, error) {
	ret := make(map[string]types.BookSummary, len(ids))
	for _, id := range ids {
		if book, ok := f.byId[id]; ok {
			ret[id] = book
		}
	}

	return ret, f.err
}

func (f *fakeCatalog) Save(_ context.Context, _ ...*types.Book) error {
	return nil
}

func (f *fakeCatalog) SetGenres(_ context.Context, _ string, _ ...types.Genre) error {
	return nil
}

type fakeFavorites struct {
	perUser map[string][]types.FavoriteBook
	counts  []favorites.BookFavoriteCount
	err     error
}

func (f *fakeFavorites) FindForUser(_ context.Context, userId string) ([]types.FavoriteBook, error) {
	return f.perUser[userId], f.err
}

func (f *fakeFavorites) MostFavoritedBookIds(_ context.Context, _ int) ([]favorites.BookFavoriteCount, error) {
	return f.counts, f.err
}

func (f *fakeFavorites) Add(_ context.Context, _, _ string, _ time.Time) error {
	return nil
}

func newTestEngine(c *fakeCatalog, f *fakeFavorites) *Engine {
	e := NewEngine(c, f)
	e.now = func() time.Time { return evalTime }
	return e
}

func book(id string, avgRating *float64, genres ...types.Genre) types.BookSummary {
	return types.BookSummary{Id: id, AverageRating: avgRating, Genres: genres}
}

func TestTopRated(t *testing.T) {
	books := []types.BookSummary{book("b1", rating(4.9)), book("b2", rating(4.5))}
	engine := newTestEngine(&fakeCatalog{topRated: books}, &fakeFavorites{})

	groups, err := engine.TopRated(context.Background(), 10)
	require.NoError(t, err)

	require.Len(t, groups, 1)
	assert.Equal(t, types.GroupTopRated, groups[0].Type)
	assert.NotEmpty(t, groups[0].Title)
	assert.Equal(t, books, groups[0].Books)
}

func TestTopRatedEmptyCatalogYieldsEmptyGroup(t *testing.T) {
	engine := newTestEngine(&fakeCatalog{}, &fakeFavorites{})

	groups, err := engine.TopRated(context.Background(), 10)
	require.NoError(t, err)

	require.Len(t, groups, 1)
	assert.NotNil(t, groups[0].Books)
	assert.Empty(t, groups[0].Books)
}

func TestUserWithoutFavoritesGetsPopularGroup(t *testing.T) {
	cat := &fakeCatalog{
		byId: map[string]types.BookSummary{
			"b1": book("b1", rating(4.0)),
			"b2": book("b2", rating(3.0)),
		},
	}
	favs := &fakeFavorites{
		counts: []favorites.BookFavoriteCount{
			{BookId: "b2", Count: 9},
			{BookId: "b1", Count: 4},
		},
	}
	engine := newTestEngine(cat, favs)

	groups, err := engine.UserBased(context.Background(), "u-empty", 10)
	require.NoError(t, err)

	require.Len(t, groups, 1)
	assert.Equal(t, types.GroupPopular, groups[0].Type)
	// tally order is preserved
	require.Len(t, groups[0].Books, 2)
	assert.Equal(t, "b2", groups[0].Books[0].Id)
	assert.Equal(t, "b1", groups[0].Books[1].Id)
}

func TestPopularFallsBackToMostReviewed(t *testing.T) {
	mostReviewed := []types.BookSummary{book("b9", nil)}
	engine := newTestEngine(&fakeCatalog{mostReviewed: mostReviewed}, &fakeFavorites{})

	groups, err := engine.UserBased(context.Background(), "u-empty", 10)
	require.NoError(t, err)

	require.Len(t, groups, 1)
	assert.Equal(t, types.GroupPopular, groups[0].Type)
	assert.Equal(t, mostReviewed, groups[0].Books)
}

func TestPopularWithEmptyPlatformYieldsEmptyGroup(t *testing.T) {
	engine := newTestEngine(&fakeCatalog{}, &fakeFavorites{})

	groups, err := engine.UserBased(context.Background(), "u-empty", 10)
	require.NoError(t, err)

	require.Len(t, groups, 1)
	assert.Equal(t, types.GroupPopular, groups[0].Type)
	assert.NotNil(t, groups[0].Books)
	assert.Empty(t, groups[0].Books)
}

func TestPopularTierOrder(t *testing.T) {
	engine := newTestEngine(&fakeCatalog{}, &fakeFavorites{})

	tiers := engine.popularTiers(10)

	require.Len(t, tiers, 2)
	assert.Equal(t, "most-favorited", tiers[0].name)
	assert.Equal(t, "most-reviewed", tiers[1].name)
}

func TestGenreBasedFromFavoritesExcludesFavoritedBooks(t *testing.T) {
	owned := book("owned", rating(5.0), types.GenreFantasy)
	candidate := book("cand", rating(4.0), types.GenreFantasy)

	cat := &fakeCatalog{genreBooks: []types.BookSummary{owned, candidate}}
	favs := &fakeFavorites{perUser: map[string][]types.FavoriteBook{
		"u1": {{Book: owned, FavoritedAt: evalTime.AddDate(0, 0, -1)}},
	}}
	engine := newTestEngine(cat, favs)

	groups, err := engine.GenreBasedFromFavorites(context.Background(), "u1", 10)
	require.NoError(t, err)

	require.Len(t, groups, 1)
	assert.Equal(t, types.GroupFavoritesGenreBased, groups[0].Type)
	require.Len(t, groups[0].Books, 1)
	assert.Equal(t, "cand", groups[0].Books[0].Id)
}

func TestGenreBasedFromFavoritesRanking(t *testing.T) {
	// fantasy was favorited yesterday with a great rating, mystery long ago
	// with a mediocre one, so fantasy carries more weight
	favBooks := []types.FavoriteBook{
		{Book: book("f1", rating(4.8), types.GenreFantasy), FavoritedAt: evalTime.AddDate(0, 0, -1)},
		{Book: book("f2", rating(3.2), types.GenreMystery), FavoritedAt: evalTime.AddDate(0, 0, -60)},
	}

	mysteryHighRated := book("c-mystery", rating(4.9), types.GenreMystery)
	fantasyMidRated := book("c-fantasy-mid", rating(3.5), types.GenreFantasy)
	fantasyTopRated := book("c-fantasy-top", rating(4.2), types.GenreFantasy)
	fantasyUnrated := book("c-fantasy-unrated", nil, types.GenreFantasy)

	cat := &fakeCatalog{genreBooks: []types.BookSummary{
		mysteryHighRated, fantasyMidRated, fantasyTopRated, fantasyUnrated,
	}}
	favs := &fakeFavorites{perUser: map[string][]types.FavoriteBook{"u1": favBooks}}
	engine := newTestEngine(cat, favs)

	groups, err := engine.GenreBasedFromFavorites(context.Background(), "u1", 10)
	require.NoError(t, err)

	require.Len(t, groups, 1)
	got := make([]string, 0, len(groups[0].Books))
	for _, b := range groups[0].Books {
		got = append(got, b.Id)
	}

	// genre weight first (all fantasy before mystery), then rating
	// descending with unrated books comparing as 0
	assert.Equal(t, []string{"c-fantasy-top", "c-fantasy-mid", "c-fantasy-unrated", "c-mystery"}, got)
}

func TestGenreBasedFromFavoritesRequestsDoubleLimit(t *testing.T) {
	fantasy := book("f1", rating(4.0), types.GenreFantasy)
	cat := &fakeCatalog{genreBooks: []types.BookSummary{
		book("c1", rating(4.0), types.GenreFantasy),
		book("c2", rating(3.9), types.GenreFantasy),
		book("c3", rating(3.8), types.GenreFantasy),
	}}
	favs := &fakeFavorites{perUser: map[string][]types.FavoriteBook{
		"u1": {{Book: fantasy, FavoritedAt: evalTime}},
	}}
	engine := newTestEngine(cat, favs)

	groups, err := engine.GenreBasedFromFavorites(context.Background(), "u1", 2)
	require.NoError(t, err)

	assert.Equal(t, 4, cat.gotLimit)
	assert.Equal(t, []types.Genre{types.GenreFantasy}, cat.gotFilter.Genres)
	require.Len(t, groups, 1)
	assert.Len(t, groups[0].Books, 2)
}

func TestGenreBasedFromFavoritesThinResultStaysThin(t *testing.T) {
	fantasy := book("f1", rating(4.0), types.GenreFantasy)
	cat := &fakeCatalog{
		genreBooks:   []types.BookSummary{book("c1", rating(4.0), types.GenreFantasy)},
		mostReviewed: []types.BookSummary{book("padding", nil)},
	}
	favs := &fakeFavorites{perUser: map[string][]types.FavoriteBook{
		"u1": {{Book: fantasy, FavoritedAt: evalTime}},
	}}
	engine := newTestEngine(cat, favs)

	groups, err := engine.GenreBasedFromFavorites(context.Background(), "u1", 5)
	require.NoError(t, err)

	// fewer than limit is fine, the tier must not top up from elsewhere
	require.Len(t, groups, 1)
	assert.Equal(t, types.GroupFavoritesGenreBased, groups[0].Type)
	assert.Len(t, groups[0].Books, 1)
}

func TestGenrelessFavoritesFallBackToPopular(t *testing.T) {
	genreless := book("f1", rating(4.0))
	cat := &fakeCatalog{mostReviewed: []types.BookSummary{book("b1", nil)}}
	favs := &fakeFavorites{perUser: map[string][]types.FavoriteBook{
		"u1": {{Book: genreless, FavoritedAt: evalTime}},
	}}
	engine := newTestEngine(cat, favs)

	groups, err := engine.GenreBasedFromFavorites(context.Background(), "u1", 10)
	require.NoError(t, err)

	require.Len(t, groups, 1)
	assert.Equal(t, types.GroupPopular, groups[0].Type)
}

func TestGenreBasedUsesStaticPopularGenres(t *testing.T) {
	cat := &fakeCatalog{genreBooks: []types.BookSummary{book("b1", rating(4.0), types.GenreRomance)}}
	engine := newTestEngine(cat, &fakeFavorites{})

	groups, err := engine.GenreBased(context.Background(), 10)
	require.NoError(t, err)

	assert.Equal(t, popularGenres, cat.gotFilter.Genres)
	require.Len(t, groups, 1)
	assert.Equal(t, types.GroupGenreBased, groups[0].Type)
}

func TestForUserAggregates(t *testing.T) {
	cat := &fakeCatalog{
		topRated:   []types.BookSummary{book("b1", rating(4.9))},
		genreBooks: []types.BookSummary{book("b2", rating(4.0), types.GenreFantasy)},
	}
	favs := &fakeFavorites{perUser: map[string][]types.FavoriteBook{
		"u1": {{Book: book("f1", rating(4.5), types.GenreFantasy), FavoritedAt: evalTime}},
	}}
	engine := newTestEngine(cat, favs)

	groups, err := engine.ForUser(context.Background(), "u1", 10)
	require.NoError(t, err)

	require.Len(t, groups, 2)
	assert.Equal(t, types.GroupTopRated, groups[0].Type)
	assert.Equal(t, types.GroupFavoritesGenreBased, groups[1].Type)
}

func TestForUserAnonymousGetsTopRatedOnly(t *testing.T) {
	cat := &fakeCatalog{topRated: []types.BookSummary{book("b1", rating(4.9))}}
	engine := newTestEngine(cat, &fakeFavorites{})

	groups, err := engine.ForUser(context.Background(), "", 10)
	require.NoError(t, err)

	require.Len(t, groups, 1)
	assert.Equal(t, types.GroupTopRated, groups[0].Type)
}

func TestStoreFailurePropagates(t *testing.T) {
	storeErr := storage.Wrap("favorites.forUser", errors.New("connection reset"))
	engine := newTestEngine(&fakeCatalog{}, &fakeFavorites{err: storeErr})

	_, err := engine.UserBased(context.Background(), "u1", 10)

	var dae *storage.DataAccessError
	require.ErrorAs(t, err, &dae)
	assert.Equal(t, "favorites.forUser", dae.Op)
}
