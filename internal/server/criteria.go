package server

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"bookverse/internal/search"
	"bookverse/internal/types"
)

const maxPageSize = 100

var errMissingUser = errors.New("user parameter is required")

// parseCriteria validates the search query string. Malformed values are
// rejected here so the engines below only ever see well-formed criteria;
// unknown sort keys are not an error, the resolver falls back to title.
func parseCriteria(q url.Values) (types.SearchCriteria, error) {
	criteria := types.SearchCriteria{
		Query:         q.Get("search"),
		Author:        q.Get("author"),
		SortBy:        q.Get("sort"),
		SortDirection: q.Get("direction"),
	}

	for _, raw := range getMulti("genre", q) {
		genre, err := types.ParseGenre(raw)
		if err != nil {
			return criteria, err
		}
		criteria.Genres = append(criteria.Genres, genre)
	}

	var err error

	if criteria.Page, err = intParam(q, "page", 0, 0, 1<<30); err != nil {
		return criteria, err
	}

	if criteria.Size, err = intParam(q, "size", search.DefaultPageSize, 1, maxPageSize); err != nil {
		return criteria, err
	}

	yearMin, err := intParam(q, "year_min", 0, 0, 9999)
	if err != nil {
		return criteria, err
	}

	yearMax, err := intParam(q, "year_max", 0, 0, 9999)
	if err != nil {
		return criteria, err
	}

	if yearMax != 0 && yearMin > yearMax {
		return criteria, fmt.Errorf("year_min %d exceeds year_max %d", yearMin, yearMax)
	}

	criteria.YearMin = uint16(yearMin)
	criteria.YearMax = uint16(yearMax)

	if criteria.MinRating, err = floatParam(q, "min_rating", 0, 0, 5); err != nil {
		return criteria, err
	}

	return criteria, nil
}

func parseLimit(q url.Values) (int, error) {
	return intParam(q, "limit", defaultRecommendLimit, 1, maxRecommendLimit)
}

func intParam(q url.Values, key string, default_, min, max int) (int, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return default_, nil
	}

	val, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", key)
	}

	if val < min || val > max {
		return 0, fmt.Errorf("%s must be between %d and %d", key, min, max)
	}

	return val, nil
}

func floatParam(q url.Values, key string, default_, min, max float64) (float64, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return default_, nil
	}

	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number", key)
	}

	if val < min || val > max {
		return 0, fmt.Errorf("%s must be between %g and %g", key, min, max)
	}

	return val, nil
}

func getMulti(key string, q url.Values) []string {
	raw, ok := q[key]
	if !ok {
		return nil
	}

	vals := make([]string, 0, len(raw))
	for _, val := range raw {
		val = strings.TrimSpace(val)
		if val != "" {
			vals = append(vals, val)
		}
	}

	return vals
}
