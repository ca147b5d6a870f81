package toasts

import (
	"context"

	"github.com/chosenvessel/vesselhub/internal/app/system/live"
	"github.com/chosenvessel/vesselhub/internal/app/system/notify"
)

// centerSource adapts one viewer's toasts to live.Source so the toast feed
// shares the SSE transport with the collection feeds.
type centerSource struct {
	center *notify.Center
	viewer string
}

func (s centerSource) Query(context.Context) ([]notify.Toast, error) {
	return s.center.Active(s.viewer), nil
}

func (s centerSource) Watch(context.Context) (live.Stream, error) {
	ch, cancel := s.center.Subscribe(s.viewer)
	return &centerStream{ch: ch, cancel: cancel}, nil
}

type centerStream struct {
	ch     <-chan struct{}
	cancel func()
}

func (c *centerStream) Next(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	case <-c.ch:
		return true
	}
}

func (c *centerStream) Err() error { return nil }

func (c *centerStream) Close(context.Context) error {
	c.cancel()
	return nil
}
