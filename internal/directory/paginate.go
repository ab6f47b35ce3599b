package directory

import (
	"company-directory/internal/core"
)

// Pagination is the metadata the table footer needs.
type Pagination struct {
	Index     int  `json:"index"`
	Size      int  `json:"size"`
	PageCount int  `json:"page_count"`
	Start     int  `json:"start"` // zero-based, inclusive
	End       int  `json:"end"`   // exclusive
	HasPrev   bool `json:"has_prev"`
	HasNext   bool `json:"has_next"`
}

// Paginate returns the contiguous slice [index*size, index*size+size).
// An out-of-range start or a non-positive size yields an empty slice.
func Paginate(records []core.Company, p core.PageState) []core.Company {
	start, end := bounds(p, len(records))
	if start >= end {
		return []core.Company{}
	}
	out := make([]core.Company, end-start)
	copy(out, records[start:end])
	return out
}

// NewPagination describes page p of a sequence of total items.
func NewPagination(p core.PageState, total int) Pagination {
	start, end := bounds(p, total)
	pages := PageCount(total, p.Size)
	return Pagination{
		Index:     p.Index,
		Size:      p.Size,
		PageCount: pages,
		Start:     start,
		End:       end,
		HasPrev:   p.Index > 0 && pages > 0,
		HasNext:   p.Index >= 0 && p.Index < pages-1,
	}
}

// PageCount is ceil(total/size), 0 for an empty sequence.
func PageCount(total, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

func bounds(p core.PageState, total int) (int, int) {
	if p.Size <= 0 || p.Index < 0 {
		return 0, 0
	}
	// Checked before multiplying so huge indexes cannot overflow.
	if p.Index >= PageCount(total, p.Size) {
		return total, total
	}
	start := p.Index * p.Size
	end := start + p.Size
	if end > total {
		end = total
	}
	return start, end
}
