package signal

import (
	"sync"
	"time"
)

// Controller owns the active phase and the timer of that phase.
// Advance is the only mutation; Current and Snapshot may be called from any
// goroutine.
type Controller struct {
	mutex     sync.RWMutex
	phase     Phase
	duration  time.Duration
	enteredAt time.Time
	sequence  uint64
	timings   Timings

	now       func() time.Time
	observers *ObserverManager
}

// Option configures a Controller
type Option func(*Controller)

// WithNow injects the time source used for phase timers
func WithNow(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// WithInitialPhase starts the cycle somewhere other than RedHorizontal
func WithInitialPhase(p Phase) Option {
	return func(c *Controller) {
		if p.Valid() {
			c.phase = p
		}
	}
}

// WithObserver registers an observer before the initial phase is entered
func WithObserver(observer Observer) Option {
	return func(c *Controller) {
		c.observers.AddObserver(observer)
	}
}

// NewController creates a controller in RedHorizontal using timings
func NewController(timings Timings, opts ...Option) (*Controller, error) {
	if err := timings.Validate(); err != nil {
		return nil, err
	}

	c := &Controller{
		phase:     RedHorizontal,
		timings:   timings,
		now:       time.Now,
		observers: NewObserverManager(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.duration = timings.Duration(c.phase)
	c.enteredAt = c.now()

	c.observers.NotifyPhaseEnter(c.Snapshot())
	return c, nil
}

// Current returns the active phase
func (c *Controller) Current() Phase {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.phase
}

// Advance moves to the next phase of the cycle and restarts the phase timer.
// Observers are notified after the lock is released.
func (c *Controller) Advance() Phase {
	c.mutex.Lock()
	now := c.now()
	exited := c.stateLocked(now)

	from := c.phase
	c.phase = from.Next()
	c.duration = c.timings.Duration(c.phase)
	c.enteredAt = now
	c.sequence++

	tr := Transition{
		From:     from,
		To:       c.phase,
		Sequence: c.sequence,
		At:       now,
		Elapsed:  now.Sub(exited.EnteredAt),
		Duration: c.duration,
	}
	entered := c.stateLocked(now)
	c.mutex.Unlock()

	c.observers.NotifyPhaseExit(exited)
	c.observers.NotifyTransition(tr)
	c.observers.NotifyPhaseEnter(entered)
	return tr.To
}

// Snapshot returns phase, timer and sequence read under one lock
func (c *Controller) Snapshot() State {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.stateLocked(c.now())
}

// Remaining returns how long the active phase has left, floored at zero
func (c *Controller) Remaining() time.Duration {
	return c.Snapshot().Remaining
}

// Timings returns the configured durations
func (c *Controller) Timings() Timings {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.timings
}

// SetTimings replaces the configured durations. The active phase keeps the
// duration it was entered with; the change applies from the next phase.
func (c *Controller) SetTimings(timings Timings) error {
	if err := timings.Validate(); err != nil {
		return err
	}
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.timings = timings
	return nil
}

// AddObserver registers an observer
func (c *Controller) AddObserver(observer Observer) {
	c.observers.AddObserver(observer)
}

// RemoveObserver unregisters an observer
func (c *Controller) RemoveObserver(observer Observer) {
	c.observers.RemoveObserver(observer)
}

// Observers exposes the manager so drivers can publish lifecycle events
func (c *Controller) Observers() *ObserverManager {
	return c.observers
}

func (c *Controller) stateLocked(now time.Time) State {
	remaining := c.duration - now.Sub(c.enteredAt)
	if remaining < 0 {
		remaining = 0
	}
	return State{
		Phase:     c.phase,
		Duration:  c.duration,
		EnteredAt: c.enteredAt,
		Remaining: remaining,
		Sequence:  c.sequence,
	}
}
