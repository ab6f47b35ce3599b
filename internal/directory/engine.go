// Package directory computes the visible slice of the company directory from
// the full dataset and a snapshot of the filter, sort and page controls.
//
// Everything here is a pure function of its arguments: no state is kept
// between calls and the input slice is never modified.
package directory

import (
	"company-directory/internal/core"
)

// Query bundles the control snapshots the engine reads.
type Query struct {
	Filter core.FilterState `json:"filter"`
	Sort   core.SortState   `json:"sort"`
	Page   core.PageState   `json:"page"`
}

// View is the engine output for one Query.
type View struct {
	Rows       []core.Company `json:"rows"`
	Total      int            `json:"total"`
	Locations  []string       `json:"locations"`
	Industries []string       `json:"industries"`
	Page       Pagination     `json:"page"`
}

// Empty reports whether no record survived filtering.
func (v View) Empty() bool {
	return v.Total == 0
}

// Compute runs filter → sort → paginate and derives the choice lists.
func Compute(records []core.Company, q Query) View {
	filtered := Filter(records, q.Filter)
	sorted := Sort(filtered, q.Sort)
	locations, industries := Options(records)

	return View{
		Rows:       Paginate(sorted, q.Page),
		Total:      len(sorted),
		Locations:  locations,
		Industries: industries,
		Page:       NewPagination(q.Page, len(sorted)),
	}
}
