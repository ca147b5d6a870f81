package ratelimit

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNow struct{ t time.Time }

func (f *fakeNow) now() time.Time { return f.t }

func newTestLimiter(limit int, d time.Duration) (*Limiter, *fakeNow) {
	clk := &fakeNow{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	l := New(limit, d)
	l.now = clk.now
	return l, clk
}

func TestLimiter_AllowWithinWindow(t *testing.T) {
	l, _ := newTestLimiter(2, time.Minute)

	assert.True(t, l.Allow("a"))
	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))
	assert.True(t, l.Allow("b"), "keys are independent")
	assert.Equal(t, 0, l.Remaining("a"))
	assert.Equal(t, 1, l.Remaining("b"))
}

func TestLimiter_WindowExpires(t *testing.T) {
	l, clk := newTestLimiter(1, time.Minute)

	require.True(t, l.Allow("a"))
	require.False(t, l.Allow("a"))

	clk.t = clk.t.Add(61 * time.Second)
	assert.True(t, l.Allow("a"))
}

func TestLimiter_ResetAndSweep(t *testing.T) {
	l, clk := newTestLimiter(1, time.Minute)

	l.Allow("a")
	l.Allow("b")
	l.Reset("a")
	assert.True(t, l.Allow("a"))

	clk.t = clk.t.Add(2 * time.Minute)
	assert.Equal(t, 2, l.Sweep())
	assert.Equal(t, 1, l.Remaining("a"))
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "10.0.0.1", ClientIP(r))

	r.Header.Set("X-Real-IP", "192.168.1.9")
	assert.Equal(t, "192.168.1.9", ClientIP(r))

	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.2")
	assert.Equal(t, "203.0.113.7", ClientIP(r))
}

func TestLoginLimiter_EmailLimit(t *testing.T) {
	ll := NewLoginLimiterWithConfig(100, time.Minute, 2, time.Minute)
	r := httptest.NewRequest("POST", "/login", nil)

	ok, _ := ll.Check(r, "Ada@Example.com")
	assert.True(t, ok)
	ok, _ = ll.Check(r, " ada@example.com ")
	assert.True(t, ok)
	ok, reason := ll.Check(r, "ADA@example.com")
	assert.False(t, ok)
	assert.Contains(t, reason, "this account")

	ll.ResetEmail("ada@example.com")
	ok, _ = ll.Check(r, "ada@example.com")
	assert.True(t, ok)
}

func TestLoginLimiter_IPLimit(t *testing.T) {
	ll := NewLoginLimiterWithConfig(1, time.Minute, 10, time.Minute)
	r := httptest.NewRequest("POST", "/login", nil)

	ok, _ := ll.Check(r, "a@b.co")
	require.True(t, ok)
	ok, reason := ll.Check(r, "c@d.co")
	assert.False(t, ok)
	assert.Contains(t, reason, "wait a minute")
}

func TestActionLimiter_ScopedByTarget(t *testing.T) {
	a := NewActionLimiter(1, time.Minute)

	assert.True(t, a.AllowAction("pray", "u1", "p1"))
	assert.False(t, a.AllowAction("pray", "u1", "p1"))
	assert.True(t, a.AllowAction("pray", "u1", "p2"))
	assert.True(t, a.AllowAction("pray", "u2", "p1"))
}
