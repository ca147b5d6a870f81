package live_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/chosenvessel/vesselhub/internal/app/system/live"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type msg struct {
	Seq  int
	Text string
}

// memSource is an in-memory collection with a change feed.
type memSource struct {
	mu       sync.Mutex
	items    []msg
	changes  chan struct{}
	queryErr error
	watchErr error
	watches  int
}

func newMemSource() *memSource {
	return &memSource{changes: make(chan struct{}, 1024)}
}

func (s *memSource) insert(m msg) {
	s.mu.Lock()
	s.items = append(s.items, m)
	s.mu.Unlock()
	s.changes <- struct{}{}
}

func (s *memSource) setQueryErr(err error) {
	s.mu.Lock()
	s.queryErr = err
	s.mu.Unlock()
}

func (s *memSource) Query(ctx context.Context) ([]msg, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	return append([]msg(nil), s.items...), nil
}

func (s *memSource) Watch(ctx context.Context) (live.Stream, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watches++
	if s.watchErr != nil {
		err := s.watchErr
		s.watchErr = nil
		return nil, err
	}
	return &memStream{changes: s.changes}, nil
}

type memStream struct {
	changes chan struct{}
}

func (m *memStream) Next(ctx context.Context) bool {
	select {
	case <-m.changes:
		return true
	case <-ctx.Done():
		return false
	}
}

func (m *memStream) Err() error                    { return nil }
func (m *memStream) Close(ctx context.Context) error { return nil }

// recorder collects emissions.
type recorder struct {
	mu    sync.Mutex
	snaps [][]msg
}

func (r *recorder) emit(items []msg) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snaps = append(r.snaps, items)
}

func (r *recorder) all() [][]msg {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][]msg(nil), r.snaps...)
}

func (r *recorder) last() []msg {
	all := r.all()
	if len(all) == 0 {
		return nil
	}
	return all[len(all)-1]
}

func TestOpen_EmitsInitialSnapshot(t *testing.T) {
	src := newMemSource()
	src.items = []msg{{Seq: 1, Text: "hello"}}
	rec := &recorder{}

	sub := live.Open[msg](context.Background(), src, live.Options[msg]{Feed: "test"}, rec.emit)
	defer sub.Close()

	require.Eventually(t, func() bool { return len(rec.all()) >= 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []msg{{Seq: 1, Text: "hello"}}, rec.all()[0])
}

func TestOpen_EveryWriteAppearsInOrder(t *testing.T) {
	src := newMemSource()
	rec := &recorder{}
	sub := live.Open[msg](context.Background(), src, live.Options[msg]{Feed: "test"}, rec.emit)
	defer sub.Close()

	const n = 25
	for i := 1; i <= n; i++ {
		src.insert(msg{Seq: i})
	}

	require.Eventually(t, func() bool { return len(rec.last()) == n }, 2*time.Second, 5*time.Millisecond)

	prevLen := -1
	for _, snap := range rec.all() {
		assert.GreaterOrEqual(t, len(snap), prevLen, "snapshots never shrink when only inserts happen")
		prevLen = len(snap)
		for i, m := range snap {
			assert.Equal(t, i+1, m.Seq, "snapshot is in store order")
		}
	}
}

func TestClose_StopsEmissions(t *testing.T) {
	src := newMemSource()
	rec := &recorder{}
	sub := live.Open[msg](context.Background(), src, live.Options[msg]{Feed: "test"}, rec.emit)

	src.insert(msg{Seq: 1})
	require.Eventually(t, func() bool { return len(rec.last()) == 1 }, time.Second, 5*time.Millisecond)

	sub.Close()
	count := len(rec.all())

	src.insert(msg{Seq: 2})
	src.insert(msg{Seq: 3})

	select {
	case <-sub.Done():
	case <-time.After(time.Second):
		t.Fatal("subscription goroutine did not exit")
	}
	assert.Equal(t, count, len(rec.all()), "no emission after Close")

	// Reopening observes the same state a continuous listener would.
	rec2 := &recorder{}
	sub2 := live.Open[msg](context.Background(), src, live.Options[msg]{Feed: "test"}, rec2.emit)
	defer sub2.Close()
	require.Eventually(t, func() bool { return len(rec2.all()) >= 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []msg{{Seq: 1}, {Seq: 2}, {Seq: 3}}, rec2.all()[0])
}

func TestQueryError_KeepsLastSnapshot(t *testing.T) {
	src := newMemSource()
	src.items = []msg{{Seq: 1}}
	rec := &recorder{}
	sub := live.Open[msg](context.Background(), src, live.Options[msg]{Feed: "test"}, rec.emit)
	defer sub.Close()

	require.Eventually(t, func() bool { return len(rec.all()) == 1 }, time.Second, 5*time.Millisecond)

	src.setQueryErr(errors.New("permission denied"))
	src.insert(msg{Seq: 2})
	time.Sleep(50 * time.Millisecond)

	assert.Len(t, rec.all(), 1, "a failed query emits nothing")
	last, ok := sub.Last()
	assert.True(t, ok)
	assert.Equal(t, []msg{{Seq: 1}}, last)

	src.setQueryErr(nil)
	src.insert(msg{Seq: 3})
	require.Eventually(t, func() bool { return len(rec.last()) == 3 }, time.Second, 5*time.Millisecond)
}

func TestWatchError_Retries(t *testing.T) {
	src := newMemSource()
	src.watchErr = errors.New("not a replica set")
	rec := &recorder{}
	sub := live.Open[msg](context.Background(), src, live.Options[msg]{Feed: "test", Backoff: 10 * time.Millisecond}, rec.emit)
	defer sub.Close()

	require.Eventually(t, func() bool {
		src.mu.Lock()
		defer src.mu.Unlock()
		return src.watches >= 2
	}, time.Second, 5*time.Millisecond)

	src.insert(msg{Seq: 7})
	require.Eventually(t, func() bool { return len(rec.last()) == 1 }, time.Second, 5*time.Millisecond)
}

func TestFallback_FiltersAndSorts(t *testing.T) {
	src := newMemSource()
	src.items = []msg{{Seq: 3, Text: "public"}, {Seq: 1, Text: "private"}, {Seq: 2, Text: "public"}}
	rec := &recorder{}

	fb := &live.Fallback[msg]{
		Filter: func(m msg) bool { return m.Text == "public" },
		Less:   func(a, b msg) bool { return a.Seq > b.Seq },
	}
	sub := live.Open[msg](context.Background(), src, live.Options[msg]{Feed: "test", Fallback: fb}, rec.emit)
	defer sub.Close()

	require.Eventually(t, func() bool { return len(rec.all()) >= 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []msg{{Seq: 3, Text: "public"}, {Seq: 2, Text: "public"}}, rec.all()[0])
}

func TestFallback_NilIsIdentity(t *testing.T) {
	var fb *live.Fallback[int]
	assert.Equal(t, []int{3, 1, 2}, fb.Apply([]int{3, 1, 2}))
}

func TestFallback_MaxAppliesAfterFilter(t *testing.T) {
	fb := &live.Fallback[int]{
		Filter: func(n int) bool { return n%2 == 0 },
		Less:   func(a, b int) bool { return a > b },
		Max:    2,
	}
	assert.Equal(t, []int{8, 6}, fb.Apply([]int{1, 2, 3, 6, 5, 8, 4}))
}

func TestFallback_MapRewritesKeptItems(t *testing.T) {
	raw := []int{1, 2, 3, 4}
	fb := &live.Fallback[int]{
		Filter: func(n int) bool { return n > 1 },
		Map:    func(n int) int { return n * 10 },
	}
	assert.Equal(t, []int{20, 30, 40}, fb.Apply(raw))
	assert.Equal(t, []int{1, 2, 3, 4}, raw, "input must not be rewritten")
}
