package testutil

import (
	"strconv"
	"sync"
	"time"

	"ft-go/internal/ft"
)

// Epoch is the instant every FixedClock starts at.
var Epoch = time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

// StubClock is a manually advanced ft.Clock. Safe for concurrent use, since
// the fake backend reads it from handler goroutines.
type StubClock struct {
	mu  sync.Mutex
	now time.Time
}

var _ ft.Clock = (*StubClock)(nil)

func NewStubClock(t time.Time) *StubClock {
	return &StubClock{now: t}
}

// FixedClock returns a StubClock set to Epoch.
func FixedClock() *StubClock { return NewStubClock(Epoch) }

func (c *StubClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d and returns the new time.
func (c *StubClock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return c.now
}

// StubIDGenerator hands out "id-1", "id-2", ... so X-Request-ID headers can be
// asserted exactly.
type StubIDGenerator struct {
	mu   sync.Mutex
	next int
}

var _ ft.IDGenerator = (*StubIDGenerator)(nil)

func NewStubIDGenerator() *StubIDGenerator { return &StubIDGenerator{} }

func (g *StubIDGenerator) New() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return "id-" + strconv.Itoa(g.next)
}
