package types

import (
	"fmt"
	"strings"
)

// Genre is a value from the closed genre enumeration. Books carry zero or
// more genre tags through the book_genre relation.
type Genre string

const (
	GenreFantasy    Genre = "FANTASY"
	GenreSciFi      Genre = "SCI_FI"
	GenreMystery    Genre = "MYSTERY"
	GenreThriller   Genre = "THRILLER"
	GenreRomance    Genre = "ROMANCE"
	GenreFiction    Genre = "FICTION"
	GenreNonFiction Genre = "NON_FICTION"
	GenreBiography  Genre = "BIOGRAPHY"
	GenreHistory    Genre = "HISTORY"
	GenreScience    Genre = "SCIENCE"
	GenreTechnology Genre = "TECHNOLOGY"
	GenrePhilosophy Genre = "PHILOSOPHY"
	GenrePoetry     Genre = "POETRY"
	GenreDrama      Genre = "DRAMA"
	GenreHorror     Genre = "HORROR"
	GenreAdventure  Genre = "ADVENTURE"
	GenreCrime      Genre = "CRIME"
	GenreHumor      Genre = "HUMOR"
	GenreChildren   Genre = "CHILDREN"
	GenreYoungAdult Genre = "YOUNG_ADULT"
)

// AllGenres fixes the enumeration order of the genre set. Weight tie-breaks
// and the /genres listing rely on this order being stable.
var AllGenres = []Genre{
	GenreFantasy,
	GenreSciFi,
	GenreMystery,
	GenreThriller,
	GenreRomance,
	GenreFiction,
	GenreNonFiction,
	GenreBiography,
	GenreHistory,
	GenreScience,
	GenreTechnology,
	GenrePhilosophy,
	GenrePoetry,
	GenreDrama,
	GenreHorror,
	GenreAdventure,
	GenreCrime,
	GenreHumor,
	GenreChildren,
	GenreYoungAdult,
}

var genreSet = func() map[Genre]struct{} {
	s := make(map[Genre]struct{}, len(AllGenres))
	for _, g := range AllGenres {
		s[g] = struct{}{}
	}
	return s
}()

// ParseGenre matches a genre value case-insensitively, with "sci-fi" and
// "non-fiction" accepted alongside the canonical underscore spelling.
func ParseGenre(raw string) (Genre, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, "-", "_")

	g := Genre(s)
	if _, ok := genreSet[g]; !ok {
		return "", fmt.Errorf("unknown genre %q", raw)
	}

	return g, nil
}
