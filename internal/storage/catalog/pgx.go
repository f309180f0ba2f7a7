package catalog

import (
	"context"
	"log/slog"
	"strings"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
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

type pgxBook struct {
	Id          string   `db:"id"`
	Title       string   `db:"title"`
	Author      string   `db:"author"`
	About       string   `db:"about"`
	Year        uint16   `db:"year"`
	CoverUrl    string   `db:"cover_url"`
	AvgRating   *float64 `db:"avg_rating"`
	ReviewCount int      `db:"review_count"`
	Genres      []string `db:"genres"`
}

func (b *pgxBook) intoSummary() types.BookSummary {
	genres := make([]types.Genre, 0, len(b.Genres))
	for _, g := range b.Genres {
		genres = append(genres, types.Genre(g))
	}

	return types.BookSummary{
		Id:            b.Id,
		Title:         b.Title,
		Author:        b.Author,
		Year:          b.Year,
		Cover:         b.CoverUrl,
		AverageRating: b.AvgRating,
		ReviewCount:   b.ReviewCount,
		Genres:        genres,
	}
}

func intoSummaries(rows []pgxBook) []types.BookSummary {
	ret := make([]types.BookSummary, 0, len(rows))
	for i := range rows {
		ret = append(ret, rows[i].intoSummary())
	}

	return ret
}

func escapeLike(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(strings.ReplaceAll(strings.TrimSpace(s),
		"\\", "\\\\"),
		"_", "\\_"),
		"%", "\\%")
}

func applyFilter(qb *goqu.SelectDataset, f Filter) *goqu.SelectDataset {
	if q := escapeLike(f.Query); q != "" {
		pattern := "%" + q + "%"
		qb = qb.Where(goqu.Or(
			goqu.C("title").ILike(pattern),
			goqu.C("author").ILike(pattern),
		))
	}

	if a := escapeLike(f.Author); a != "" {
		qb = qb.Where(goqu.C("author").ILike("%" + a + "%"))
	}

	if len(f.Genres) > 0 {
		genres := make([]string, 0, len(f.Genres))
		for _, g := range f.Genres {
			genres = append(genres, string(g))
		}

		qb = qb.Where(goqu.C("id").In(
			goqu.Select("book_id").
				From("book_genre").
				Where(goqu.C("genre").In(genres)),
		))
	}

	if f.YearMin > 0 {
		qb = qb.Where(goqu.C("year").Gte(f.YearMin))
	}

	if f.YearMax > 0 {
		qb = qb.Where(goqu.C("year").Lte(f.YearMax))
	}

	if f.MinRating > 0 {
		qb = qb.Where(goqu.C("avg_rating").Gte(f.MinRating))
	}

	return qb
}

// appendOrder maps the resolved key onto its real column. Rating orders by
// the materialized avg_rating aggregate, with NULLS LAST on descending so
// unrated books sink (Postgres already sorts nulls last on ascending).
// Title then id break ties, keeping every ordering fully stable.
func appendOrder(qb *goqu.SelectDataset, order OrderSpec) *goqu.SelectDataset {
	col := goqu.C("title")
	switch order.Key {
	case SortByAuthor:
		col = goqu.C("author")
	case SortByYear:
		col = goqu.C("year")
	case SortByRating:
		col = goqu.C("avg_rating")
	}

	var ordered exp.OrderedExpression
	if order.Desc {
		ordered = col.Desc()
		if order.Key == SortByRating {
			ordered = ordered.NullsLast()
		}
	} else {
		ordered = col.Asc()
	}

	qb = qb.OrderAppend(ordered)
	if order.Key != SortByTitle {
		qb = qb.OrderAppend(goqu.C("title").Asc())
	}

	return qb.OrderAppend(goqu.C("id").Asc())
}

func (p *pgxRepo) FindBooks(ctx context.Context, filter Filter, order OrderSpec,
	offset, limit int) ([]types.BookSummary, int64, error) {

	base := applyFilter(p.g.From("book"), filter)

	sql, params, err := base.Select(goqu.COUNT(goqu.Star())).ToSQL()
	if err != nil {
		return nil, 0, storage.Wrap("catalog.count", err)
	}

	var total int64
	if err = pgxscan.Get(ctx, p.pg, &total, sql, params...); err != nil {
		return nil, 0, storage.Wrap("catalog.count", err)
	}

	qb := base.
		Select("book.*", subGenres.As("genres")).
		Limit(uint(limit))

	if offset != 0 {
		qb = qb.Offset(uint(offset))
	}

	sql, params, err = appendOrder(qb, order).ToSQL()
	if err != nil {
		return nil, 0, storage.Wrap("catalog.search", err)
	}

	var rows []pgxBook
	if err = pgxscan.Select(ctx, p.pg, &rows, sql, params...); err != nil {
		return nil, 0, storage.Wrap("catalog.search", err)
	}

	return intoSummaries(rows), total, nil
}

func (p *pgxRepo) FindTopRated(ctx context.Context, limit int) ([]types.BookSummary, error) {
	sql, params, err := p.g.From("book").
		Select("book.*", subGenres.As("genres")).
		Order(
			goqu.C("avg_rating").Desc().NullsLast(),
			goqu.C("review_count").Desc(),
			goqu.C("id").Asc(),
		).
		Limit(uint(limit)).
		ToSQL()
	if err != nil {
		return nil, storage.Wrap("catalog.topRated", err)
	}

	var rows []pgxBook
	if err = pgxscan.Select(ctx, p.pg, &rows, sql, params...); err != nil {
		return nil, storage.Wrap("catalog.topRated", err)
	}

	return intoSummaries(rows), nil
}

func (p *pgxRepo) FindMostReviewed(ctx context.Context, limit int) ([]types.BookSummary, error) {
	sql, params, err := p.g.From("book").
		Select("book.*", subGenres.As("genres")).
		Order(goqu.C("review_count").Desc(), goqu.C("id").Asc()).
		Limit(uint(limit)).
		ToSQL()
	if err != nil {
		return nil, storage.Wrap("catalog.mostReviewed", err)
	}

	var rows []pgxBook
	if err = pgxscan.Select(ctx, p.pg, &rows, sql, params...); err != nil {
		return nil, storage.Wrap("catalog.mostReviewed", err)
	}

	return intoSummaries(rows), nil
}

func (p *pgxRepo) FindByIds(ctx context.Context, ids ...string) (map[string]types.BookSummary, error) {
	if len(ids) == 0 {
		return make(map[string]types.BookSummary), nil
	}

	sql, params, err := p.g.From("book").
		Select("book.*", subGenres.As("genres")).
		Where(goqu.C("id").In(ids)).
		ToSQL()
	if err != nil {
		return nil, storage.Wrap("catalog.byIds", err)
	}

	var rows []pgxBook
	if err = pgxscan.Select(ctx, p.pg, &rows, sql, params...); err != nil {
		return nil, storage.Wrap("catalog.byIds", err)
	}

	ret := make(map[string]types.BookSummary, len(rows))
	for i := range rows {
		ret[rows[i].Id] = rows[i].intoSummary()
	}

	return ret, nil
}

func (p *pgxRepo) Save(ctx context.Context, books ...*types.Book) error {
	if len(books) == 0 {
		return nil
	}

	type row struct {
		Id          string   `db:"id"`
		Title       string   `db:"title"`
		Author      string   `db:"author"`
		About       string   `db:"about"`
		Year        uint16   `db:"year"`
		CoverUrl    string   `db:"cover_url"`
		AvgRating   *float64 `db:"avg_rating"`
		ReviewCount int      `db:"review_count"`
	}

	rows := make([]any, 0, len(books))
	for _, book := range books {
		rows = append(rows, row{
			Id:          book.Id,
			Title:       book.Title,
			Author:      book.Author,
			About:       book.About,
			Year:        book.Year,
			CoverUrl:    book.Cover,
			AvgRating:   book.AverageRating,
			ReviewCount: book.ReviewCount,
		})
	}

	sql, params, err := p.g.Insert("book").
		Rows(rows...).
		OnConflict(goqu.DoUpdate("id", map[string]any{
			"title":        goqu.L("excluded.title"),
			"author":       goqu.L("excluded.author"),
			"about":        goqu.L("excluded.about"),
			"year":         goqu.L("excluded.year"),
			"cover_url":    goqu.L("excluded.cover_url"),
			"avg_rating":   goqu.L("excluded.avg_rating"),
			"review_count": goqu.L("excluded.review_count"),
		})).
		ToSQL()
	if err != nil {
		return storage.Wrap("catalog.save", err)
	}

	_, err = p.pg.Exec(ctx, sql, params...)
	return storage.Wrap("catalog.save", err)
}

func (p *pgxRepo) SetGenres(ctx context.Context, bookId string, genres ...types.Genre) error {
	sql, params, err := p.g.Delete("book_genre").
		Where(goqu.C("book_id").Eq(bookId)).
		ToSQL()
	if err != nil {
		return storage.Wrap("catalog.setGenres", err)
	}

	if _, err = p.pg.Exec(ctx, sql, params...); err != nil {
		return storage.Wrap("catalog.setGenres", err)
	}

	if len(genres) == 0 {
		return nil
	}

	type row struct {
		BookId string `db:"book_id"`
		Genre  string `db:"genre"`
	}

	rows := make([]any, 0, len(genres))
	for _, genre := range genres {
		rows = append(rows, row{BookId: bookId, Genre: string(genre)})
	}

	sql, params, err = p.g.Insert("book_genre").
		Rows(rows...).
		ToSQL()
	if err != nil {
		return storage.Wrap("catalog.setGenres", err)
	}

	_, err = p.pg.Exec(ctx, sql, params...)
	return storage.Wrap("catalog.setGenres", err)
}
