package search

import (
	"strings"

	"bookverse/internal/storage/catalog"
)

// ResolveOrder maps client-supplied sort parameters onto the closed set of
// orderings the catalog store understands. Unknown or absent keys fall back
// to title, deterministically: "bogus" and "" resolve identically, so the
// observed order never depends on unvalidated input. "date" is the public
// name for the published-year ordering.
//
// Direction "desc" (case-insensitive) reverses the key's natural order;
// anything else, including absence, sorts ascending.
func ResolveOrder(sortBy, direction string) catalog.OrderSpec {
	key := catalog.SortByTitle
	switch strings.ToLower(strings.TrimSpace(sortBy)) {
	case "author":
		key = catalog.SortByAuthor
	case "date", "year":
		key = catalog.SortByYear
	case "rating":
		key = catalog.SortByRating
	}

	return catalog.OrderSpec{
		Key:  key,
		Desc: strings.EqualFold(strings.TrimSpace(direction), "desc"),
	}
}
