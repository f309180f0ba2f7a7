package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGenre(t *testing.T) {
	cases := []struct {
		raw  string
		want Genre
	}{
		{"FANTASY", GenreFantasy},
		{"fantasy", GenreFantasy},
		{" romance ", GenreRomance},
		{"Sci-Fi", GenreSciFi},
		{"sci_fi", GenreSciFi},
		{"non-fiction", GenreNonFiction},
		{"young_adult", GenreYoungAdult},
	}

	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			got, err := ParseGenre(tc.raw)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseGenreRejectsUnknown(t *testing.T) {
	for _, raw := range []string{"", "western", "FANTASY;DROP TABLE"} {
		_, err := ParseGenre(raw)
		assert.Error(t, err, "raw=%q", raw)
	}
}

func TestAllGenresHasNoDuplicates(t *testing.T) {
	seen := make(map[Genre]struct{}, len(AllGenres))
	for _, g := range AllGenres {
		_, dup := seen[g]
		assert.False(t, dup, "duplicate genre %s", g)
		seen[g] = struct{}{}
	}

	assert.Len(t, AllGenres, 20)
}
