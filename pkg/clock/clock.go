// Package clock drives a signal controller through its cycle in the
// background, sleeping for each phase's configured duration.
package clock

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/anggasct/crossroads/pkg/signal"
	"github.com/anggasct/crossroads/pkg/utils"
)

// Sleeper blocks for d or until ctx is done, returning ctx.Err() in the latter case
type Sleeper func(ctx context.Context, d time.Duration) error

// Sleep is the default Sleeper backed by a timer
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// PhaseClock advances a controller whenever the active phase's duration elapses
type PhaseClock struct {
	controller *signal.Controller
	sleep      Sleeper
	logger     *logrus.Entry

	mutex   sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
	ticks   uint64
}

// Option configures a PhaseClock
type Option func(*PhaseClock)

// WithSleeper replaces the timer based sleep, mainly for tests
func WithSleeper(sleep Sleeper) Option {
	return func(c *PhaseClock) {
		if sleep != nil {
			c.sleep = sleep
		}
	}
}

// WithLogger sets the entry used for lifecycle logs
func WithLogger(logger *logrus.Entry) Option {
	return func(c *PhaseClock) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a clock for controller
func New(controller *signal.Controller, opts ...Option) *PhaseClock {
	c := &PhaseClock{
		controller: controller,
		sleep:      Sleep,
		logger:     logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.WithField("component", "clock")
	return c
}

// Run drives the controller until ctx is cancelled. It returns nil on
// cooperative shutdown and ErrClockRunning if the clock is already running.
func (c *PhaseClock) Run(ctx context.Context) error {
	c.mutex.Lock()
	if c.running {
		c.mutex.Unlock()
		return utils.ErrClockRunning
	}
	c.running = true
	c.mutex.Unlock()

	defer func() {
		c.mutex.Lock()
		c.running = false
		c.mutex.Unlock()
	}()

	return c.loop(ctx)
}

func (c *PhaseClock) loop(ctx context.Context) error {
	observers := c.controller.Observers()
	observers.NotifyClockStarted(c.controller.Snapshot())
	c.logger.WithField("phase", c.controller.Current()).Debug("phase clock started")

	defer func() {
		state := c.controller.Snapshot()
		observers.NotifyClockStopped(state)
		c.logger.WithFields(logrus.Fields{
			"phase": state.Phase,
			"ticks": c.Ticks(),
		}).Debug("phase clock stopped")
	}()

	for {
		// The duration is read before sleeping, so timing changes only
		// affect phases entered afterwards.
		state := c.controller.Snapshot()
		if err := c.sleep(ctx, state.Remaining); err != nil {
			return nil
		}
		if ctx.Err() != nil {
			return nil
		}

		next := c.controller.Advance()

		c.mutex.Lock()
		c.ticks++
		c.mutex.Unlock()

		c.logger.WithFields(logrus.Fields{
			"from": state.Phase,
			"to":   next,
		}).Trace("phase advanced")
	}
}

// Start launches Run on its own goroutine. Stop cancels and joins it.
func (c *PhaseClock) Start(ctx context.Context) error {
	c.mutex.Lock()
	if c.running {
		c.mutex.Unlock()
		return utils.ErrClockRunning
	}
	c.running = true
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.wg.Add(1)
	c.mutex.Unlock()

	go func() {
		defer c.wg.Done()
		defer func() {
			c.mutex.Lock()
			c.running = false
			c.mutex.Unlock()
		}()
		_ = c.loop(ctx)
	}()
	return nil
}

// Stop cancels a clock launched with Start and waits for it to exit.
// Calling Stop more than once, or on a clock that never started, is a no-op.
func (c *PhaseClock) Stop() {
	c.mutex.Lock()
	cancel := c.cancel
	c.cancel = nil
	c.mutex.Unlock()

	if cancel != nil {
		cancel()
	}
	c.wg.Wait()
}

// Running reports whether the clock loop is active
func (c *PhaseClock) Running() bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.running
}

// Ticks returns the number of advances issued so far
func (c *PhaseClock) Ticks() uint64 {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.ticks
}
