package timer

import (
	"sync"
	"time"
)

// Countdown is a fixed session lifetime. While active, a one-shot deadline
// fires onExpire once after the budget, and a one-second tick lowers
// Remaining, never below zero. Activity elsewhere does not extend it.
type Countdown struct {
	mu       sync.Mutex
	clock    Clock
	budget   int
	left     int
	active   bool
	gen      uint64
	onExpire func()
	onTick   func(remaining int)

	stopTick     func()
	stopDeadline func()
}

type Option func(*Countdown)

func WithClock(c Clock) Option {
	return func(cd *Countdown) { cd.clock = c }
}

// WithTick registers fn to run after every tick with the new remaining
// seconds.
func WithTick(fn func(remaining int)) Option {
	return func(cd *Countdown) { cd.onTick = fn }
}

// NewCountdown builds an inactive countdown. Budgets are whole seconds;
// anything shorter than a second is rounded up to one.
func NewCountdown(budget time.Duration, onExpire func(), opts ...Option) *Countdown {
	secs := int((budget + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	c := &Countdown{clock: System, budget: secs, left: secs, onExpire: onExpire}
	for _, o := range opts {
		o(c)
	}
	return c
}

// SetActive arms or tears down the countdown. Repeating the current state
// is a no-op; deactivation resets Remaining to the budget.
func (c *Countdown) SetActive(active bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if active == c.active {
		return
	}
	if !active {
		c.teardown()
		return
	}

	c.active = true
	c.gen++
	c.left = c.budget
	gen := c.gen
	// The tick is scheduled first so the last tick lands before the deadline
	// when both fall due together.
	c.stopTick = c.clock.Every(time.Second, func() { c.tick(gen) })
	c.stopDeadline = c.clock.AfterFunc(time.Duration(c.budget)*time.Second, func() { c.expire(gen) })
}

// teardown expects c.mu held.
func (c *Countdown) teardown() {
	if c.stopDeadline != nil {
		c.stopDeadline()
		c.stopDeadline = nil
	}
	if c.stopTick != nil {
		c.stopTick()
		c.stopTick = nil
	}
	c.active = false
	c.gen++
	c.left = c.budget
}

func (c *Countdown) tick(gen uint64) {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return
	}
	if c.left > 0 {
		c.left--
	}
	left := c.left
	fn := c.onTick
	c.mu.Unlock()

	if fn != nil {
		fn(left)
	}
}

func (c *Countdown) expire(gen uint64) {
	c.mu.Lock()
	if gen != c.gen || c.stopDeadline == nil {
		c.mu.Unlock()
		return
	}
	c.stopDeadline = nil
	fn := c.onExpire
	c.mu.Unlock()

	if fn != nil {
		fn()
	}
}

func (c *Countdown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.left
}

func (c *Countdown) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Close stops both timers.
func (c *Countdown) Close() {
	c.SetActive(false)
}
