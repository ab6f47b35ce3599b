package browser

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"company-directory/internal/core"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func strPtr(s string) *string {
	return &s
}

// dataset returns n companies alternating between two locations and
// industries.
func dataset(n int) []core.Company {
	out := make([]core.Company, n)
	for i := range out {
		loc, ind := "NY", "Tech"
		if i%2 == 1 {
			loc, ind = "LA", "Auto"
		}
		out[i] = core.Company{
			ID:       core.CompanyID(fmt.Sprint(i + 1)),
			Name:     fmt.Sprintf("Company %02d", i+1),
			Location: strPtr(loc),
			Industry: strPtr(ind),
		}
	}
	return out
}

type snapshots struct {
	mu   sync.Mutex
	list []Snapshot
}

func (s *snapshots) observe(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.list = append(s.list, snap)
}

func (s *snapshots) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.list)
}

func (s *snapshots) last() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list[len(s.list)-1]
}

func newSession(t *testing.T, records []core.Company, opts ...Option) (*Session, *snapshots) {
	t.Helper()
	s := NewSession(records, opts...)
	t.Cleanup(s.Close)
	obs := &snapshots{}
	s.Subscribe(obs.observe)
	return s, obs
}

func TestNewSession_Defaults(t *testing.T) {
	s, _ := newSession(t, dataset(12))

	snap := s.Snapshot()
	assert.Equal(t, core.DefaultSort(), snap.Sort)
	assert.Equal(t, core.PageState{Index: 0, Size: 5}, snap.Page)
	assert.Equal(t, 12, snap.View.Total)
	assert.Len(t, snap.View.Rows, 5)
	assert.Equal(t, []string{"", "LA", "NY"}, snap.View.Locations)
	assert.NotEqual(t, s.ID().String(), "")
}

func TestSession_FilterAndSortChangesResetPage(t *testing.T) {
	tests := []struct {
		name   string
		change func(s *Session)
	}{
		{"location", func(s *Session) { s.SetLocation("NY") }},
		{"industry", func(s *Session) { s.SetIndustry("Auto") }},
		{"sort key", func(s *Session) { s.SetSortKey(core.SortByLocation) }},
		{"sort direction", func(s *Session) { s.SetSortDirection(core.Descending) }},
		{"toggle direction", func(s *Session) { s.ToggleSortDirection() }},
		{"query", func(s *Session) { s.SetQueryText("company"); s.FlushQuery() }},
		{"page size", func(s *Session) { s.SetPageSize(10) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newSession(t, dataset(20), WithDebounce(time.Hour))
			s.SetPage(2)
			require.Equal(t, 2, s.Snapshot().Page.Index)

			tt.change(s)

			assert.Equal(t, 0, s.Snapshot().Page.Index)
		})
	}
}

func TestSession_UnchangedInputDoesNotNotify(t *testing.T) {
	s, obs := newSession(t, dataset(4))

	s.SetLocation("")
	s.SetIndustry("")
	s.SetSortKey(core.SortByName)
	s.SetSortDirection(core.Ascending)
	s.SetPage(0)
	s.SetPageSize(5)
	s.SetQueryText("")
	s.PrevPage()
	s.SetSortKey("bogus")

	assert.Equal(t, 0, obs.len())
}

func TestSession_QueryIsDebounced(t *testing.T) {
	s, obs := newSession(t, dataset(10), WithDebounce(30*time.Millisecond))

	for _, text := range []string{"c", "co", "com", "company 0", "company 03"} {
		s.SetQueryText(text)
	}

	// Raw text updates immediately, the effective query does not.
	snap := s.Snapshot()
	assert.Equal(t, "company 03", snap.RawQuery)
	assert.Equal(t, "", snap.Filter.Query)
	assert.Equal(t, 10, snap.View.Total)

	require.Eventually(t, func() bool {
		return s.Snapshot().Filter.Query == "company 03"
	}, time.Second, 5*time.Millisecond)

	snap = s.Snapshot()
	assert.Equal(t, 1, snap.View.Total)
	require.Len(t, snap.View.Rows, 1)
	assert.Equal(t, core.CompanyID("3"), snap.View.Rows[0].ID)

	// Five raw-text notifications plus exactly one effective update.
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, 6, obs.len())
	assert.Equal(t, "company 03", obs.last().Filter.Query)
}

func TestSession_Pagination(t *testing.T) {
	s, _ := newSession(t, dataset(12))

	s.NextPage()
	snap := s.Snapshot()
	assert.Equal(t, 1, snap.Page.Index)
	assert.Equal(t, "Company 06", snap.View.Rows[0].Name)

	s.NextPage()
	s.NextPage() // no page 3
	snap = s.Snapshot()
	assert.Equal(t, 2, snap.Page.Index)
	assert.Len(t, snap.View.Rows, 2)
	assert.False(t, snap.View.Page.HasNext)

	s.PrevPage()
	assert.Equal(t, 1, s.Snapshot().Page.Index)

	s.SetPage(-4)
	assert.Equal(t, 0, s.Snapshot().Page.Index)

	s.SetPage(9)
	snap = s.Snapshot()
	assert.Equal(t, 9, snap.Page.Index)
	assert.Empty(t, snap.View.Rows)
	assert.Equal(t, 12, snap.View.Total)
}

func TestSession_PageSizeNormalized(t *testing.T) {
	s, _ := newSession(t, dataset(30), WithPageSize(25))
	assert.Equal(t, 25, s.Snapshot().Page.Size)

	s.SetPageSize(7)
	assert.Equal(t, core.DefaultPageSize, s.Snapshot().Page.Size)
	assert.Len(t, s.Snapshot().View.Rows, 5)
}

func TestSession_SetRecords(t *testing.T) {
	s, obs := newSession(t, nil)
	assert.True(t, s.Snapshot().View.Empty())

	s.SetRecords(dataset(3))

	assert.Equal(t, 1, obs.len())
	assert.Equal(t, 3, obs.last().View.Total)
}

func TestSession_Unsubscribe(t *testing.T) {
	s := NewSession(dataset(3))
	defer s.Close()

	obs := &snapshots{}
	unsubscribe := s.Subscribe(obs.observe)
	unsubscribe()

	s.SetLocation("NY")
	assert.Equal(t, 0, obs.len())
}

func TestSession_CloseCancelsPendingQuery(t *testing.T) {
	s := NewSession(dataset(3), WithDebounce(20*time.Millisecond))
	s.SetQueryText("zzz")
	s.Close()

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, "", s.Snapshot().Filter.Query)
}
