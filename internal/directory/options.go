package directory

import (
	"slices"

	"company-directory/internal/core"
)

// AllOption is the choice-list sentinel meaning "no filter".
const AllOption = ""

// Options returns the distinct non-empty locations and industries of the
// unfiltered dataset, sorted, each led by AllOption. An empty dataset yields
// empty lists.
func Options(records []core.Company) (locations, industries []string) {
	if len(records) == 0 {
		return []string{}, []string{}
	}
	return distinct(records, core.Company.LocationValue),
		distinct(records, core.Company.IndustryValue)
}

func distinct(records []core.Company, field func(core.Company) string) []string {
	seen := make(map[string]struct{})
	values := make([]string, 0)
	for _, c := range records {
		v := field(c)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	slices.Sort(values)
	return append([]string{AllOption}, values...)
}
