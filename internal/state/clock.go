// Package state holds the domain state managers of the simulated platform:
// chats, memberships, invite links, polls, files, sticker sets, business
// connections, payments, and passport submissions. Each manager owns one
// slice of platform state behind its own mutex and reads "now" exclusively
// from the shared simulated clock.
package state

import (
	"sync"
	"time"

	"github.com/gotd/neo"
)

// Clock is the simulated time source shared by every manager. It only moves
// when the harness advances it; no manager reads the wall clock.
type Clock struct {
	mu    sync.Mutex
	inner *neo.Time
}

// NewClock creates a clock frozen at start.
func NewClock(start time.Time) *Clock {
	return &Clock{inner: neo.NewTime(start)}
}

// Now returns the current simulated instant.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.inner.Now()
}

// Unix returns the current simulated instant as a Unix timestamp.
func (c *Clock) Unix() int64 {
	return c.Now().Unix()
}

// Advance moves the clock forward by d and returns the new instant. The move
// is visible to every manager as soon as Advance returns.
func (c *Clock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.inner.Travel(d)
}

// Set jumps the clock to t.
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.inner.Set(t)
}
