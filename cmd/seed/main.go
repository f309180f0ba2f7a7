// Seeds a small sample catalog plus favorites for two demo users, enough to
// exercise search and every recommendation tier locally.
package main

import (
	"context"
	"log/slog"
	"os"
	"path"
	"runtime"
	"strings"
	"time"

	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/joho/godotenv/autoload"

	"bookverse/internal/logger"
	"bookverse/internal/storage/catalog"
	"bookverse/internal/storage/favorites"
	"bookverse/internal/types"
)

func getEnvOrDefault(key, default_ string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}

	return default_
}

var (
	logLevel  = strings.ToLower(getEnvOrDefault("LOG_LEVEL", "info"))
	logFormat = getEnvOrDefault("LOG_FORMAT", "text")
	dbConnStr = os.Getenv("DATABASE_URL")
)

func rating(v float64) *float64 {
	return &v
}

type seedBook struct {
	book   types.Book
	genres []types.Genre
}

var seedBooks = []seedBook{
	{
		book: types.Book{
			Id: "b-dune", Title: "Dune", Author: "Frank Herbert", Year: 1965,
			About:         "A noble family becomes embroiled in a war for a desert planet.",
			AverageRating: rating(4.5), ReviewCount: 182,
		},
		genres: []types.Genre{types.GenreSciFi, types.GenreAdventure},
	},
	{
		book: types.Book{
			Id: "b-hobbit", Title: "The Hobbit", Author: "J.R.R. Tolkien", Year: 1937,
			About:         "Bilbo Baggins is swept into a quest to reclaim a dwarf kingdom.",
			AverageRating: rating(4.7), ReviewCount: 240,
		},
		genres: []types.Genre{types.GenreFantasy, types.GenreAdventure, types.GenreChildren},
	},
	{
		book: types.Book{
			Id: "b-gone-girl", Title: "Gone Girl", Author: "Gillian Flynn", Year: 2012,
			About:         "A woman disappears on her fifth wedding anniversary.",
			AverageRating: rating(4.1), ReviewCount: 95,
		},
		genres: []types.Genre{types.GenreMystery, types.GenreThriller},
	},
	{
		book: types.Book{
			Id: "b-pride", Title: "Pride and Prejudice", Author: "Jane Austen", Year: 1813,
			About:         "Elizabeth Bennet navigates manners, upbringing and marriage.",
			AverageRating: rating(4.4), ReviewCount: 210,
		},
		genres: []types.Genre{types.GenreRomance, types.GenreFiction},
	},
	{
		book: types.Book{
			Id: "b-sapiens", Title: "Sapiens", Author: "Yuval Noah Harari", Year: 2011,
			About:         "A brief history of humankind.",
			AverageRating: rating(4.2), ReviewCount: 130,
		},
		genres: []types.Genre{types.GenreNonFiction, types.GenreHistory, types.GenreScience},
	},
	{
		book: types.Book{
			Id: "b-name-wind", Title: "The Name of the Wind", Author: "Patrick Rothfuss", Year: 2007,
			About:         "The legend of Kvothe, told in his own voice.",
			AverageRating: rating(4.6), ReviewCount: 160,
		},
		genres: []types.Genre{types.GenreFantasy},
	},
	{
		book: types.Book{
			Id: "b-big-sleep", Title: "The Big Sleep", Author: "Raymond Chandler", Year: 1939,
			About:         "Philip Marlowe takes a blackmail case in Los Angeles.",
			AverageRating: rating(4.0), ReviewCount: 58,
		},
		genres: []types.Genre{types.GenreCrime, types.GenreMystery},
	},
	{
		book: types.Book{
			Id: "b-unrated", Title: "Draft Without Readers", Author: "A. Nobody", Year: 2024,
			About: "Fresh in the catalog, not reviewed yet.",
		},
		genres: []types.Genre{types.GenrePoetry},
	},
}

// favorite(user, book, daysAgo)
var seedFavorites = []struct {
	userId  string
	bookId  string
	daysAgo int
}{
	{"u-alice", "b-hobbit", 2},
	{"u-alice", "b-name-wind", 12},
	{"u-alice", "b-dune", 45},
	{"u-bob", "b-gone-girl", 5},
	{"u-bob", "b-big-sleep", 20},
}

func main() {
	_, thisFile, _, _ := runtime.Caller(0)

	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(logLevel)); err != nil {
		lvl = slog.LevelInfo
	}

	if err := logger.SetupSLog(lvl, logFormat, path.Dir(path.Dir(path.Dir(thisFile))), nil); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}

	pg, err := pgxpool.New(context.Background(), dbConnStr)
	if err != nil {
		slog.Error("failed to create postgres pool: " + err.Error())
		os.Exit(1)
	}

	ctx := context.Background()
	catalogRepo := catalog.NewPGXRepository(pg, slog.Default())
	favoritesRepo := favorites.NewPGXRepository(pg, slog.Default())

	books := make([]*types.Book, 0, len(seedBooks))
	for i := range seedBooks {
		books = append(books, &seedBooks[i].book)
	}

	if err := catalogRepo.Save(ctx, books...); err != nil {
		slog.Error("failed to seed books: " + err.Error())
		os.Exit(1)
	}

	for _, sb := range seedBooks {
		if err := catalogRepo.SetGenres(ctx, sb.book.Id, sb.genres...); err != nil {
			slog.Error("failed to tag " + sb.book.Id + ": " + err.Error())
			os.Exit(1)
		}
	}

	now := time.Now()
	for _, f := range seedFavorites {
		at := now.AddDate(0, 0, -f.daysAgo)
		if err := favoritesRepo.Add(ctx, f.userId, f.bookId, at); err != nil {
			slog.Error("failed to seed favorite " + f.userId + "/" + f.bookId + ": " + err.Error())
			os.Exit(1)
		}
	}

	slog.Info("seeded catalog", slog.Int("books", len(seedBooks)), slog.Int("favorites", len(seedFavorites)))
}
