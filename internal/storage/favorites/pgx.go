package favorites

import (
	"context"
	"log/slog"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookverse/internal/storage"
	"bookverse/internal/types"
)

var subGenres = goqu.Select(goqu.L("array_agg(genre order by genre)")).
	From("book_genre").
	Where(goqu.C("book_id").Eq(goqu.C("id").Table("book")))

func NewPGXRepository(pg *pgxpool.Pool, l *slog.Logger) Repository {
	return &pgxRepo{pg: pg, g: goqu.Dialect("postgres"), l: l}
}

type pgxRepo struct {
	pg *pgxpool.Pool
	g  goqu.DialectWrapper
	l  *slog.Logger
}

type pgxFavoriteBook struct {
	Id          string    `db:"id"`
	Title       string    `db:"title"`
	Author      string    `db:"author"`
	About       string    `db:"about"`
	Year        uint16    `db:"year"`
	CoverUrl    string    `db:"cover_url"`
	AvgRating   *float64  `db:"avg_rating"`
	ReviewCount int       `db:"review_count"`
	Genres      []string  `db:"genres"`
	FavoritedAt time.Time `db:"favorited_at"`
}

func (r *pgxFavoriteBook) intoCommon() types.FavoriteBook {
	genres := make([]types.Genre, 0, len(r.Genres))
	for _, g := range r.Genres {
		genres = append(genres, types.Genre(g))
	}

	return types.FavoriteBook{
		Book: types.BookSummary{
			Id:            r.Id,
			Title:         r.Title,
			Author:        r.Author,
			Year:          r.Year,
			Cover:         r.CoverUrl,
			AverageRating: r.AvgRating,
			ReviewCount:   r.ReviewCount,
			Genres:        genres,
		},
		FavoritedAt: r.FavoritedAt,
	}
}

func (p *pgxRepo) FindForUser(ctx context.Context, userId string) ([]types.FavoriteBook, error) {
	sql, params, err := p.g.From("favorite").
		Join(goqu.T("book"), goqu.On(
			goqu.C("book_id").Table("favorite").
				Eq(goqu.C("id").Table("book")),
		)).
		Select("book.*",
			subGenres.As("genres"),
			goqu.C("created_at").Table("favorite").As("favorited_at")).
		Where(goqu.C("user_id").Eq(userId)).
		Order(goqu.C("created_at").Table("favorite").Desc()).
		ToSQL()
	if err != nil {
		return nil, storage.Wrap("favorites.forUser", err)
	}

	var rows []pgxFavoriteBook
	if err = pgxscan.Select(ctx, p.pg, &rows, sql, params...); err != nil {
		return nil, storage.Wrap("favorites.forUser", err)
	}

	ret := make([]types.FavoriteBook, 0, len(rows))
	for i := range rows {
		ret = append(ret, rows[i].intoCommon())
	}

	return ret, nil
}

func (p *pgxRepo) MostFavoritedBookIds(ctx context.Context, limit int) ([]BookFavoriteCount, error) {
	sql, params, err := p.g.From("favorite").
		Select(goqu.C("book_id"), goqu.COUNT(goqu.Star()).As("favorites")).
		GroupBy(goqu.C("book_id")).
		Order(goqu.C("favorites").Desc(), goqu.C("book_id").Asc()).
		Limit(uint(limit)).
		ToSQL()
	if err != nil {
		return nil, storage.Wrap("favorites.mostFavorited", err)
	}

	var rows []BookFavoriteCount
	if err = pgxscan.Select(ctx, p.pg, &rows, sql, params...); err != nil {
		return nil, storage.Wrap("favorites.mostFavorited", err)
	}

	return rows, nil
}

func (p *pgxRepo) Add(ctx context.Context, userId, bookId string, at time.Time) error {
	type row struct {
		UserId    string    `db:"user_id"`
		BookId    string    `db:"book_id"`
		CreatedAt time.Time `db:"created_at"`
	}

	sql, params, err := p.g.Insert("favorite").
		Rows(row{UserId: userId, BookId: bookId, CreatedAt: at}).
		OnConflict(goqu.DoNothing()).
		ToSQL()
	if err != nil {
		return storage.Wrap("favorites.add", err)
	}

	_, err = p.pg.Exec(ctx, sql, params...)
	return storage.Wrap("favorites.add", err)
}
