package directory

import (
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"company-directory/internal/core"
)

// newCollator compares at base strength: case and accents are ignored.
// A Collator is not safe for concurrent use, so each Sort builds its own.
func newCollator() *collate.Collator {
	return collate.New(language.Und, collate.IgnoreCase, collate.IgnoreDiacritics)
}

// Sort returns a stably sorted copy of records ordered by the selected
// field. Missing values sort as the empty string. Descending negates the
// comparison, so records that compare equal keep their input order in both
// directions.
func Sort(records []core.Company, s core.SortState) []core.Company {
	out := slices.Clone(records)
	if len(out) < 2 {
		return out
	}

	key := s.Key
	if !key.IsValid() {
		key = core.SortByName
	}
	sign := 1
	if s.Direction == core.Descending {
		sign = -1
	}

	col := newCollator()
	slices.SortStableFunc(out, func(a, b core.Company) int {
		return sign * col.CompareString(a.Field(key), b.Field(key))
	})
	return out
}
