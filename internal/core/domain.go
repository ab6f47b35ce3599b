package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// CompanyID is the opaque record identifier. The dataset may carry numbers
// or strings; both are kept in their textual form.
type CompanyID string

// UnmarshalJSON accepts a JSON string or number.
func (id *CompanyID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = CompanyID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("company id must be a string or number: %w", err)
	}
	*id = CompanyID(n.String())
	return nil
}

// MarshalJSON writes numeric ids back as numbers so a served dataset
// round-trips unchanged.
func (id CompanyID) MarshalJSON() ([]byte, error) {
	s := string(id)
	if s != "" && isNumeric(s) {
		return []byte(s), nil
	}
	return json.Marshal(s)
}

func isNumeric(s string) bool {
	var n json.Number
	return json.Unmarshal([]byte(s), &n) == nil
}

// Company is one directory entry.
type Company struct {
	ID       CompanyID `json:"id"`
	Name     string    `json:"name"`
	Location *string   `json:"location"` // Optional
	Industry *string   `json:"industry"` // Optional
}

// LocationValue returns the location or "" when absent.
func (c Company) LocationValue() string {
	if c.Location == nil {
		return ""
	}
	return *c.Location
}

// IndustryValue returns the industry or "" when absent.
func (c Company) IndustryValue() string {
	if c.Industry == nil {
		return ""
	}
	return *c.Industry
}

// Field returns the value of the given sort field, "" when absent.
func (c Company) Field(key SortKey) string {
	switch key {
	case SortByLocation:
		return c.LocationValue()
	case SortByIndustry:
		return c.IndustryValue()
	default:
		return c.Name
	}
}

// ValidateSet enforces the only dataset invariant: ids are unique.
func ValidateSet(companies []Company) error {
	seen := make(map[CompanyID]struct{}, len(companies))
	for _, c := range companies {
		if _, ok := seen[c.ID]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateID, string(c.ID))
		}
		seen[c.ID] = struct{}{}
	}
	return nil
}

// SortKey constants for the sortable columns
type SortKey string

const (
	SortByName     SortKey = "name"
	SortByLocation SortKey = "location"
	SortByIndustry SortKey = "industry"
)

// SortKeys lists the keys in selector order.
var SortKeys = []SortKey{SortByName, SortByLocation, SortByIndustry}

// IsValid reports whether k is a known sort key.
func (k SortKey) IsValid() bool {
	switch k {
	case SortByName, SortByLocation, SortByIndustry:
		return true
	}
	return false
}

// Label is the column heading for the key.
func (k SortKey) Label() string {
	switch k {
	case SortByLocation:
		return "Location"
	case SortByIndustry:
		return "Industry"
	default:
		return "Name"
	}
}

// Next returns the key after k in selector order, wrapping around.
func (k SortKey) Next() SortKey {
	for i, key := range SortKeys {
		if key == k {
			return SortKeys[(i+1)%len(SortKeys)]
		}
	}
	return SortByName
}

// ParseSortKey is case-insensitive; "" yields the default key.
func ParseSortKey(s string) (SortKey, error) {
	if s == "" {
		return SortByName, nil
	}
	k := SortKey(strings.ToLower(strings.TrimSpace(s)))
	if !k.IsValid() {
		return "", fmt.Errorf("%w: %s", ErrInvalidSortKey, s)
	}
	return k, nil
}

// SortDirection is ascending or descending.
type SortDirection string

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

// Toggle flips the direction.
func (d SortDirection) Toggle() SortDirection {
	if d == Descending {
		return Ascending
	}
	return Descending
}

// Label is the human-readable order name.
func (d SortDirection) Label() string {
	if d == Descending {
		return "Descending"
	}
	return "Ascending"
}

// ParseSortDirection is case-insensitive; "" yields ascending.
func ParseSortDirection(s string) (SortDirection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	}
	return "", fmt.Errorf("%w: %s", ErrInvalidSortDirection, s)
}

// FilterState is a snapshot of the filter controls. Empty Location or
// Industry means no filter on that field.
type FilterState struct {
	Query    string `json:"query"`
	Location string `json:"location"`
	Industry string `json:"industry"`
}

// SortState is the active sort column and direction.
type SortState struct {
	Key       SortKey       `json:"key"`
	Direction SortDirection `json:"direction"`
}

// DefaultSort orders by name ascending.
func DefaultSort() SortState {
	return SortState{Key: SortByName, Direction: Ascending}
}

// PageSizeOptions are the selectable rows-per-page values.
var PageSizeOptions = []int{5, 10, 25}

// DefaultPageSize is the initial rows per page.
const DefaultPageSize = 5

// NormalizePageSize maps any size outside PageSizeOptions to the default.
func NormalizePageSize(size int) int {
	for _, opt := range PageSizeOptions {
		if opt == size {
			return size
		}
	}
	return DefaultPageSize
}

// NextPageSize cycles through PageSizeOptions.
func NextPageSize(size int) int {
	for i, opt := range PageSizeOptions {
		if opt == size {
			return PageSizeOptions[(i+1)%len(PageSizeOptions)]
		}
	}
	return DefaultPageSize
}

// PageState is the zero-based page index and rows per page.
type PageState struct {
	Index int `json:"index"`
	Size  int `json:"size"`
}

// LoadPhase is the fetch sequencer state.
type LoadPhase string

const (
	PhaseLoading LoadPhase = "loading"
	PhaseError   LoadPhase = "error"
	PhaseReady   LoadPhase = "ready"
)

// FetchErrorMessage is shown to the user when the dataset cannot be loaded.
const FetchErrorMessage = "Error fetching companies. Try again later."

// LoadState is one of loading, error(Message) or ready(Records).
type LoadState struct {
	Phase   LoadPhase
	Records []Company
	Message string
	Err     error
}
