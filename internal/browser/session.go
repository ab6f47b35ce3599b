// Package browser owns the mutable state behind the directory controls and
// recomputes the visible page whenever one of the engine inputs changes.
package browser

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"company-directory/internal/core"
	"company-directory/internal/debounce"
	"company-directory/internal/directory"
)

// Snapshot is what observers receive after each recompute.
type Snapshot struct {
	// RawQuery is the search text as typed; Filter.Query lags behind it by
	// the debounce delay.
	RawQuery string
	Filter   core.FilterState
	Sort     core.SortState
	Page     core.PageState
	View     directory.View
}

// Observer is notified with a fresh snapshot after every recompute.
type Observer func(Snapshot)

// Option configures a Session.
type Option func(*Session)

// WithDebounce sets the quiet period for the search text.
func WithDebounce(d time.Duration) Option {
	return func(s *Session) { s.delay = d }
}

// WithPageSize sets the initial rows per page.
func WithPageSize(size int) Option {
	return func(s *Session) { s.page.Size = core.NormalizePageSize(size) }
}

// WithLogger sets the session logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// Session holds the filter, sort and page state for one browsing session.
type Session struct {
	id     uuid.UUID
	logger *zap.Logger
	delay  time.Duration
	query  *debounce.Debouncer[string]

	mu        sync.Mutex
	records   []core.Company
	rawQuery  string
	filter    core.FilterState
	sort      core.SortState
	page      core.PageState
	view      directory.View
	observers map[int]Observer
	nextObs   int
}

// NewSession creates a session over records with default controls: no
// filters, name ascending, first page of core.DefaultPageSize rows.
func NewSession(records []core.Company, opts ...Option) *Session {
	s := &Session{
		id:        uuid.New(),
		logger:    zap.NewNop(),
		delay:     debounce.DefaultDelay,
		records:   records,
		sort:      core.DefaultSort(),
		page:      core.PageState{Size: core.DefaultPageSize},
		observers: make(map[int]Observer),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(zap.String("session", s.id.String()))
	s.query = debounce.New(s.delay, s.applyQuery)
	s.view = directory.Compute(s.records, s.queryLocked())
	return s
}

// ID identifies the session in logs.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Subscribe registers an observer and returns a function that removes it.
func (s *Session) Subscribe(o Observer) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextObs
	s.nextObs++
	s.observers[id] = o
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.observers, id)
	}
}

// Snapshot returns the current state and view.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// SetRecords replaces the dataset, e.g. once the loader becomes ready.
func (s *Session) SetRecords(records []core.Company) {
	s.update(func() bool {
		s.records = records
		s.page.Index = 0
		return true
	})
}

// SetQueryText records the raw search text immediately and schedules the
// effective query update after the debounce delay.
func (s *Session) SetQueryText(text string) {
	s.mu.Lock()
	changed := s.rawQuery != text
	s.rawQuery = text
	s.mu.Unlock()

	if changed {
		s.query.Trigger(text)
		s.notify()
	}
}

// FlushQuery applies any pending search text now.
func (s *Session) FlushQuery() {
	s.query.Flush()
}

func (s *Session) applyQuery(text string) {
	s.update(func() bool {
		if s.filter.Query == text {
			return false
		}
		s.logger.Debug("Query applied", zap.String("query", text))
		s.filter.Query = text
		s.page.Index = 0
		return true
	})
}

// SetLocation selects a location; "" clears the filter.
func (s *Session) SetLocation(location string) {
	s.update(func() bool {
		if s.filter.Location == location {
			return false
		}
		s.filter.Location = location
		s.page.Index = 0
		return true
	})
}

// SetIndustry selects an industry; "" clears the filter.
func (s *Session) SetIndustry(industry string) {
	s.update(func() bool {
		if s.filter.Industry == industry {
			return false
		}
		s.filter.Industry = industry
		s.page.Index = 0
		return true
	})
}

// SetSortKey changes the sort column. Unknown keys are ignored.
func (s *Session) SetSortKey(key core.SortKey) {
	if !key.IsValid() {
		return
	}
	s.update(func() bool {
		if s.sort.Key == key {
			return false
		}
		s.sort.Key = key
		s.page.Index = 0
		return true
	})
}

// SetSortDirection changes the sort direction.
func (s *Session) SetSortDirection(dir core.SortDirection) {
	if dir != core.Ascending && dir != core.Descending {
		return
	}
	s.update(func() bool {
		if s.sort.Direction == dir {
			return false
		}
		s.sort.Direction = dir
		s.page.Index = 0
		return true
	})
}

// ToggleSortDirection flips between ascending and descending.
func (s *Session) ToggleSortDirection() {
	s.update(func() bool {
		s.sort.Direction = s.sort.Direction.Toggle()
		s.page.Index = 0
		return true
	})
}

// SetPage moves to a zero-based page index. Negative indexes clamp to 0;
// an index past the end shows an empty page.
func (s *Session) SetPage(index int) {
	if index < 0 {
		index = 0
	}
	s.update(func() bool {
		if s.page.Index == index {
			return false
		}
		s.page.Index = index
		return true
	})
}

// NextPage advances one page if there is one.
func (s *Session) NextPage() {
	s.update(func() bool {
		if !s.view.Page.HasNext {
			return false
		}
		s.page.Index++
		return true
	})
}

// PrevPage goes back one page if there is one.
func (s *Session) PrevPage() {
	s.update(func() bool {
		if s.page.Index == 0 {
			return false
		}
		s.page.Index--
		return true
	})
}

// SetPageSize changes rows per page and returns to the first page. Sizes
// outside core.PageSizeOptions fall back to the default.
func (s *Session) SetPageSize(size int) {
	size = core.NormalizePageSize(size)
	s.update(func() bool {
		if s.page.Size == size {
			return false
		}
		s.page.Size = size
		s.page.Index = 0
		return true
	})
}

// Close cancels any pending search update and drops observers.
func (s *Session) Close() {
	s.query.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = make(map[int]Observer)
}

// update applies mutate under the lock and, when it reports a change,
// recomputes the view and notifies observers outside the lock.
func (s *Session) update(mutate func() bool) {
	s.mu.Lock()
	if !mutate() {
		s.mu.Unlock()
		return
	}
	s.view = directory.Compute(s.records, s.queryLocked())
	s.mu.Unlock()

	s.notify()
}

func (s *Session) notify() {
	s.mu.Lock()
	snap := s.snapshotLocked()
	observers := make([]Observer, 0, len(s.observers))
	for _, o := range s.observers {
		observers = append(observers, o)
	}
	s.mu.Unlock()

	for _, o := range observers {
		o(snap)
	}
}

func (s *Session) queryLocked() directory.Query {
	return directory.Query{Filter: s.filter, Sort: s.sort, Page: s.page}
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		RawQuery: s.rawQuery,
		Filter:   s.filter,
		Sort:     s.sort,
		Page:     s.page,
		View:     s.view,
	}
}
