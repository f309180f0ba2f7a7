package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"bookverse/internal/recommend"
	"bookverse/internal/response"
	"bookverse/internal/search"
	"bookverse/internal/types"
)

const (
	defaultRecommendLimit = 10
	maxRecommendLimit     = 50
)

func Handler(se *search.Engine, re *recommend.Engine, rr *response.Responder) http.Handler {
	r := chi.NewRouter()

	r.Get("/genres", func(w http.ResponseWriter, r *http.Request) {
		rr.SendJson(w, r.Context(), struct {
			Genres []types.Genre `json:"genres"`
		}{Genres: types.AllGenres})
	})

	r.Get("/books", func(w http.ResponseWriter, r *http.Request) {
		criteria, err := parseCriteria(r.URL.Query())
		if err != nil {
			rr.RespondInvalid(w, r.Context(), err)
			return
		}

		page, err := se.Search(r.Context(), criteria)
		if err != nil {
			rr.RespondError(w, r.Context(), err)
			return
		}

		rr.SendJson(w, r.Context(), page)
	})

	r.Get("/recommendations", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		limit, err := parseLimit(q)
		if err != nil {
			rr.RespondInvalid(w, r.Context(), err)
			return
		}

		groups, err := re.ForUser(r.Context(), q.Get("user"), limit)
		if err != nil {
			rr.RespondError(w, r.Context(), err)
			return
		}

		rr.SendJson(w, r.Context(), groups)
	})

	r.Get("/recommendations/top-rated", func(w http.ResponseWriter, r *http.Request) {
		limit, err := parseLimit(r.URL.Query())
		if err != nil {
			rr.RespondInvalid(w, r.Context(), err)
			return
		}

		groups, err := re.TopRated(r.Context(), limit)
		if err != nil {
			rr.RespondError(w, r.Context(), err)
			return
		}

		rr.SendJson(w, r.Context(), groups)
	})

	r.Get("/recommendations/genres", func(w http.ResponseWriter, r *http.Request) {
		limit, err := parseLimit(r.URL.Query())
		if err != nil {
			rr.RespondInvalid(w, r.Context(), err)
			return
		}

		groups, err := re.GenreBased(r.Context(), limit)
		if err != nil {
			rr.RespondError(w, r.Context(), err)
			return
		}

		rr.SendJson(w, r.Context(), groups)
	})

	r.Get("/recommendations/favorites", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		user := q.Get("user")
		if user == "" {
			rr.RespondInvalid(w, r.Context(), errMissingUser)
			return
		}

		limit, err := parseLimit(q)
		if err != nil {
			rr.RespondInvalid(w, r.Context(), err)
			return
		}

		groups, err := re.GenreBasedFromFavorites(r.Context(), user, limit)
		if err != nil {
			rr.RespondError(w, r.Context(), err)
			return
		}

		rr.SendJson(w, r.Context(), groups)
	})

	r.Get("/opds/catalog", opdsCatalog(se, rr))

	return r
}
