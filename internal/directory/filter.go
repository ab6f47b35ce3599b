package directory

import (
	"strings"

	"company-directory/internal/core"
)

// Filter keeps the records that satisfy every active predicate. The query
// predicate is active when the trimmed query is non-empty and matches a
// case-insensitive substring of name, location or industry. Location and
// industry predicates are exact and case-sensitive.
func Filter(records []core.Company, f core.FilterState) []core.Company {
	out := make([]core.Company, 0, len(records))

	needle := ""
	if strings.TrimSpace(f.Query) != "" {
		needle = strings.ToLower(f.Query)
	}

	for _, c := range records {
		if needle != "" && !matchesQuery(c, needle) {
			continue
		}
		if f.Location != "" && (c.Location == nil || *c.Location != f.Location) {
			continue
		}
		if f.Industry != "" && (c.Industry == nil || *c.Industry != f.Industry) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func matchesQuery(c core.Company, needle string) bool {
	return containsFold(&c.Name, needle) ||
		containsFold(c.Location, needle) ||
		containsFold(c.Industry, needle)
}

// containsFold treats a nil or empty field as non-matching.
func containsFold(field *string, needle string) bool {
	if field == nil || *field == "" {
		return false
	}
	return strings.Contains(strings.ToLower(*field), needle)
}
