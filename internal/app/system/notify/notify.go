// Package notify is the transient feedback surface: toasts that dismiss
// themselves and a single pending confirmation per viewer.
//
// State is kept per viewer (the signed-in user id) in memory.
package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Severities.
const (
	Info    = "info"
	Success = "success"
	Error   = "error"
)

// DefaultTTL is how long a toast stays visible.
const DefaultTTL = 3 * time.Second

var (
	// ErrStaleConfirm is returned when a confirmation was replaced or already resolved.
	ErrStaleConfirm = errors.New("confirmation is no longer pending")
	// ErrDenied is returned when a gated confirmation is accepted by a viewer
	// who no longer passes its gate.
	ErrDenied = errors.New("confirmation denied")
)

// Toast is one transient message.
type Toast struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Severity  string    `json:"severity"`
	CreatedAt time.Time `json:"created_at"`
}

// Prompt is a pending confirmation.
type Prompt struct {
	Token   string
	Message string
}

// Action runs when a confirmation is accepted.
type Action func(ctx context.Context) error

// Gate reports whether the viewer resolving a confirmation may still run its
// action. It sees the resolving request's context.
type Gate func(ctx context.Context) bool

type pending struct {
	prompt Prompt
	gate   Gate
	action Action
}

// Center holds toasts and confirmations for all viewers.
type Center struct {
	clock Clock
	ttl   time.Duration

	mu       sync.Mutex
	toasts   map[string][]Toast
	timers   map[string]Timer
	confirms map[string]pending
	subs     map[string]map[chan struct{}]struct{}
}

// NewCenter builds a center. A zero ttl means DefaultTTL.
func NewCenter(clock Clock, ttl time.Duration) *Center {
	if clock == nil {
		clock = SystemClock{}
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Center{
		clock:    clock,
		ttl:      ttl,
		toasts:   make(map[string][]Toast),
		timers:   make(map[string]Timer),
		confirms: make(map[string]pending),
		subs:     make(map[string]map[chan struct{}]struct{}),
	}
}

// Show adds a toast for viewer. Each toast gets its own timer, so several
// toasts shown close together each leave ttl after they appeared.
func (c *Center) Show(viewer, message, severity string) Toast {
	if viewer == "" {
		return Toast{}
	}
	switch severity {
	case Info, Success, Error:
	default:
		severity = Info
	}
	t := Toast{
		ID:        uuid.NewString(),
		Message:   message,
		Severity:  severity,
		CreatedAt: c.clock.Now(),
	}

	c.mu.Lock()
	c.toasts[viewer] = append(c.toasts[viewer], t)
	c.timers[t.ID] = c.clock.AfterFunc(c.ttl, func() { c.Dismiss(viewer, t.ID) })
	c.notifyLocked(viewer)
	c.mu.Unlock()
	return t
}

// Dismiss removes a toast early or on expiry.
func (c *Center) Dismiss(viewer, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	list := c.toasts[viewer]
	for i, t := range list {
		if t.ID != id {
			continue
		}
		c.toasts[viewer] = append(list[:i:i], list[i+1:]...)
		if len(c.toasts[viewer]) == 0 {
			delete(c.toasts, viewer)
		}
		if tm, ok := c.timers[id]; ok {
			tm.Stop()
			delete(c.timers, id)
		}
		c.notifyLocked(viewer)
		return
	}
}

// Active returns viewer's visible toasts, oldest first.
func (c *Center) Active(viewer string) []Toast {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Toast(nil), c.toasts[viewer]...)
}

// Confirm registers a confirmation for viewer and returns its token. A
// second call before the first is resolved replaces it; the earlier token
// becomes stale and its action never runs.
func (c *Center) Confirm(viewer, message string, action Action) string {
	return c.ConfirmGated(viewer, message, nil, action)
}

// ConfirmGated is Confirm with a gate checked when the prompt is accepted.
// A nil gate always passes.
func (c *Center) ConfirmGated(viewer, message string, gate Gate, action Action) string {
	p := Prompt{Token: uuid.NewString(), Message: message}

	c.mu.Lock()
	c.confirms[viewer] = pending{prompt: p, gate: gate, action: action}
	c.notifyLocked(viewer)
	c.mu.Unlock()
	return p.Token
}

// Pending returns viewer's open confirmation, if any.
func (c *Center) Pending(viewer string) (Prompt, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.confirms[viewer]
	return p.prompt, ok
}

// Resolve closes viewer's confirmation. The action runs only when accepted
// is true, token names the current confirmation and the gate, if any, still
// passes for ctx; a failing gate closes the prompt and returns ErrDenied.
func (c *Center) Resolve(ctx context.Context, viewer, token string, accepted bool) error {
	c.mu.Lock()
	p, ok := c.confirms[viewer]
	if !ok || p.prompt.Token != token {
		c.mu.Unlock()
		return ErrStaleConfirm
	}
	delete(c.confirms, viewer)
	c.notifyLocked(viewer)
	c.mu.Unlock()

	if !accepted || p.action == nil {
		return nil
	}
	if p.gate != nil && !p.gate(ctx) {
		return ErrDenied
	}
	return p.action(ctx)
}

// Subscribe returns a channel that receives a signal whenever viewer's
// toasts or confirmation change. Call cancel when done.
func (c *Center) Subscribe(viewer string) (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	c.mu.Lock()
	if c.subs[viewer] == nil {
		c.subs[viewer] = make(map[chan struct{}]struct{})
	}
	c.subs[viewer][ch] = struct{}{}
	c.mu.Unlock()

	return ch, func() {
		c.mu.Lock()
		delete(c.subs[viewer], ch)
		if len(c.subs[viewer]) == 0 {
			delete(c.subs, viewer)
		}
		c.mu.Unlock()
	}
}

func (c *Center) notifyLocked(viewer string) {
	for ch := range c.subs[viewer] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
