// Package live keeps a query result up to date while a viewer is watching.
//
// A Subscription emits the complete, ordered result of its query once on
// open and again after every change reported by the source. Emissions
// replace the previous list wholesale. When the query or the change stream
// fails, the error is logged and the last list stays in place; nothing empty
// is emitted in its stead.
package live

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/chosenvessel/vesselhub/internal/app/system/metrics"
	"go.uber.org/zap"
)

// Stream reports that the underlying data changed. *mongo.ChangeStream
// satisfies it.
type Stream interface {
	Next(ctx context.Context) bool
	Err() error
	Close(ctx context.Context) error
}

// Source runs the subscription query and opens the change stream.
type Source[T any] interface {
	Query(ctx context.Context) ([]T, error)
	Watch(ctx context.Context) (Stream, error)
}

// Fallback filters and orders query results on the server when the store
// cannot evaluate the full filter and sort itself. Applying it to the raw
// result must give the same list the compound query would. Map, when set,
// rewrites each kept item before it is emitted.
type Fallback[T any] struct {
	Filter func(T) bool
	Less   func(a, b T) bool
	Max    int // keep at most Max items after filtering and sorting; 0 keeps all
	Map    func(T) T
}

// Apply returns the filtered, stably sorted, mapped copy of items.
func (f *Fallback[T]) Apply(items []T) []T {
	if f == nil {
		return items
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		if f.Filter == nil || f.Filter(it) {
			out = append(out, it)
		}
	}
	if f.Less != nil {
		sort.SliceStable(out, func(i, j int) bool { return f.Less(out[i], out[j]) })
	}
	if f.Max > 0 && len(out) > f.Max {
		out = out[:f.Max]
	}
	if f.Map != nil {
		for i := range out {
			out[i] = f.Map(out[i])
		}
	}
	return out
}

// Options configure a subscription.
type Options[T any] struct {
	Feed     string // metrics label
	Fallback *Fallback[T]
	Backoff  time.Duration // wait before reopening a failed stream
	Log      *zap.Logger
}

// DefaultBackoff is used when Options.Backoff is zero.
const DefaultBackoff = 2 * time.Second

// Subscription is one open listener.
type Subscription[T any] struct {
	src    Source[T]
	opts   Options[T]
	emit   func([]T)
	cancel context.CancelFunc
	done   chan struct{}

	mu     sync.Mutex
	closed bool
	last   []T
	seen   bool
}

// Open starts a subscription. emit is called from a single goroutine, in
// store order. emit must not call Close.
func Open[T any](ctx context.Context, src Source[T], opts Options[T], emit func([]T)) *Subscription[T] {
	if opts.Backoff <= 0 {
		opts.Backoff = DefaultBackoff
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.Feed == "" {
		opts.Feed = "unnamed"
	}

	ctx, cancel := context.WithCancel(ctx)
	s := &Subscription[T]{
		src:    src,
		opts:   opts,
		emit:   emit,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	metrics.LiveSubscriptions.WithLabelValues(opts.Feed).Inc()
	go s.run(ctx)
	return s
}

// Close detaches the listener. No emission is delivered after Close returns.
// It is safe to call more than once.
func (s *Subscription[T]) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.cancel()
}

// Done is closed when the background goroutine has exited.
func (s *Subscription[T]) Done() <-chan struct{} { return s.done }

// Last returns the last emitted list and whether anything was emitted yet.
func (s *Subscription[T]) Last() ([]T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.seen
}

func (s *Subscription[T]) run(ctx context.Context) {
	defer close(s.done)
	defer metrics.LiveSubscriptions.WithLabelValues(s.opts.Feed).Dec()

	s.refresh(ctx)

	for ctx.Err() == nil {
		stream, err := s.src.Watch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.fail("watch", err)
			if !s.wait(ctx) {
				return
			}
			continue
		}

		for stream.Next(ctx) {
			s.refresh(ctx)
		}
		err = stream.Err()
		_ = stream.Close(context.Background())

		if ctx.Err() != nil {
			return
		}
		if err != nil {
			s.fail("stream", err)
		}
		if !s.wait(ctx) {
			return
		}
		// Changes may have happened while the stream was down.
		s.refresh(ctx)
	}
}

func (s *Subscription[T]) refresh(ctx context.Context) {
	items, err := s.src.Query(ctx)
	if err != nil {
		if ctx.Err() == nil {
			s.fail("query", err)
		}
		return
	}
	items = s.opts.Fallback.Apply(items)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.last = items
	s.seen = true
	metrics.LiveEmissions.WithLabelValues(s.opts.Feed).Inc()
	s.emit(items)
}

func (s *Subscription[T]) fail(stage string, err error) {
	metrics.LiveErrors.WithLabelValues(s.opts.Feed, stage).Inc()
	s.opts.Log.Warn("live subscription error; keeping last snapshot",
		zap.String("feed", s.opts.Feed),
		zap.String("stage", stage),
		zap.Error(err))
}

func (s *Subscription[T]) wait(ctx context.Context) bool {
	t := time.NewTimer(s.opts.Backoff)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
