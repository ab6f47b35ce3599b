package loader

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"company-directory/internal/core"
)

// Sequencer runs a single fetch and publishes its state transitions:
// loading, then exactly one of error or ready. There are no retries.
type Sequencer struct {
	fetcher core.Fetcher
	logger  *zap.Logger

	mu      sync.Mutex
	state   core.LoadState
	subs    map[int]func(core.LoadState)
	nextSub int
	started bool
	closed  bool
	done    chan struct{}
}

// NewSequencer creates a sequencer in the loading state.
func NewSequencer(fetcher core.Fetcher, logger *zap.Logger) *Sequencer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sequencer{
		fetcher: fetcher,
		logger:  logger,
		state:   core.LoadState{Phase: core.PhaseLoading},
		subs:    make(map[int]func(core.LoadState)),
		done:    make(chan struct{}),
	}
}

// State returns the current state.
func (s *Sequencer) State() core.LoadState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn for state changes and returns a function that
// removes it. fn is called on the fetch goroutine.
func (s *Sequencer) Subscribe(fn func(core.LoadState)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// Start launches the fetch in the background. Calls after the first are
// no-ops.
func (s *Sequencer) Start(ctx context.Context) {
	s.mu.Lock()
	if s.started || s.closed {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()

	go s.run(ctx)
}

// Load starts the fetch if needed and blocks until it completes or ctx is
// done.
func (s *Sequencer) Load(ctx context.Context) core.LoadState {
	s.Start(ctx)

	s.mu.Lock()
	started := s.started
	s.mu.Unlock()
	if !started {
		return s.State()
	}

	select {
	case <-s.done:
	case <-ctx.Done():
	}
	return s.State()
}

// Wait blocks until a started fetch completes. It returns at once if Start
// was never called.
func (s *Sequencer) Wait() {
	s.mu.Lock()
	started := s.started
	s.mu.Unlock()
	if !started {
		return
	}
	<-s.done
}

// Close detaches the sequencer: a fetch still in flight completes but its
// result is discarded and subscribers are not called.
func (s *Sequencer) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.subs = make(map[int]func(core.LoadState))
}

func (s *Sequencer) run(ctx context.Context) {
	defer close(s.done)

	records, err := s.fetcher.Fetch(ctx)

	var next core.LoadState
	if err != nil {
		s.logger.Error("Failed to fetch companies", zap.Error(err))
		next = core.LoadState{Phase: core.PhaseError, Message: core.FetchErrorMessage, Err: err}
	} else {
		if records == nil {
			records = []core.Company{}
		}
		s.logger.Info("Companies loaded", zap.Int("count", len(records)))
		next = core.LoadState{Phase: core.PhaseReady, Records: records}
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.logger.Debug("Discarding fetch result after close")
		return
	}
	s.state = next
	subs := make([]func(core.LoadState), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(next)
	}
}
