package debounce

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) record(v string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, v)
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func TestDebouncer_CoalescesBurst(t *testing.T) {
	rec := &recorder{}
	d := New(40*time.Millisecond, rec.record)
	defer d.Stop()

	for _, v := range []string{"a", "ac", "acm", "acme"} {
		d.Trigger(v)
		time.Sleep(5 * time.Millisecond)
	}

	require.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, time.Second, 5*time.Millisecond)

	// Nothing else arrives after the window.
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, []string{"acme"}, rec.snapshot())
	assert.False(t, d.Pending())
}

func TestDebouncer_SeparateBursts(t *testing.T) {
	rec := &recorder{}
	d := New(20*time.Millisecond, rec.record)
	defer d.Stop()

	d.Trigger("first")
	require.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, time.Second, 5*time.Millisecond)

	d.Trigger("second")
	require.Eventually(t, func() bool { return len(rec.snapshot()) == 2 }, time.Second, 5*time.Millisecond)

	assert.Equal(t, []string{"first", "second"}, rec.snapshot())
}

func TestDebouncer_Flush(t *testing.T) {
	rec := &recorder{}
	d := New(time.Hour, rec.record)
	defer d.Stop()

	assert.False(t, d.Flush(), "nothing pending")

	d.Trigger("x")
	assert.True(t, d.Pending())
	assert.True(t, d.Flush())

	assert.Equal(t, []string{"x"}, rec.snapshot())
	assert.False(t, d.Pending())
}

func TestDebouncer_Stop(t *testing.T) {
	rec := &recorder{}
	d := New(20*time.Millisecond, rec.record)

	d.Trigger("never")
	d.Stop()
	d.Trigger("ignored")

	time.Sleep(60 * time.Millisecond)
	assert.Empty(t, rec.snapshot())
	assert.False(t, d.Pending())
	assert.False(t, d.Flush())
}

func TestDebouncer_ZeroDelay(t *testing.T) {
	rec := &recorder{}
	d := New(-time.Second, rec.record)
	defer d.Stop()

	d.Trigger("now")
	require.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, time.Second, time.Millisecond)
}
