package clock

import (
	"context"
	"sync"
	"time"
)

// Clock abstracts the current time so services and jobs can run against
// either the wall clock or a controllable one.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// AdjustableClock is a controllable clock. It starts at a fixed instant and
// only moves when told to; subscribers are notified after every change.
// Safe for concurrent use.
type AdjustableClock struct {
	mu     sync.Mutex
	now    time.Time
	subs   map[int]func(time.Time)
	nextID int
}

func NewAdjustableClock(start time.Time) *AdjustableClock {
	return &AdjustableClock{
		now:  start,
		subs: make(map[int]func(time.Time)),
	}
}

func (c *AdjustableClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d. A non-positive d is ignored.
func (c *AdjustableClock) Advance(d time.Duration) {
	if d <= 0 {
		return
	}
	c.mu.Lock()
	c.now = c.now.Add(d)
	now := c.now
	subs := c.snapshot()
	c.mu.Unlock()

	for _, fn := range subs {
		fn(now)
	}
}

// Set jumps the clock to t. Moving backwards is ignored.
func (c *AdjustableClock) Set(t time.Time) {
	c.mu.Lock()
	if !t.After(c.now) {
		c.mu.Unlock()
		return
	}
	c.now = t
	now := c.now
	subs := c.snapshot()
	c.mu.Unlock()

	for _, fn := range subs {
		fn(now)
	}
}

// OnTimeChanged registers fn to run after every clock movement. The returned
// cancel func removes the subscription.
func (c *AdjustableClock) OnTimeChanged(fn func(time.Time)) (cancel func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs, id)
	}
}

// AutoAdvance advances the clock by step every interval until ctx is done.
func (c *AdjustableClock) AutoAdvance(ctx context.Context, interval, step time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Advance(step)
		}
	}
}

// snapshot copies the subscriber set; callers hold the lock. Notifications
// run outside the lock so a subscriber may read the clock.
func (c *AdjustableClock) snapshot() []func(time.Time) {
	subs := make([]func(time.Time), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	return subs
}
