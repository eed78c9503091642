package sim

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/anggasct/crossroads/pkg/clock"
	"github.com/anggasct/crossroads/pkg/spawn"
)

// FrameHook receives a frame after a step
type FrameHook func(Frame)

// Runner is the update loop: it drains spawn requests, steps the
// simulation on a ticker and hands frames to hooks. The phase clock runs
// beside it and is joined when the loop returns.
type Runner struct {
	sim    *Simulation
	clock  *clock.PhaseClock
	logger *logrus.Entry

	tick       time.Duration
	maxAgents  int
	maxSteps   uint64
	frameEvery uint64
	spawns     <-chan spawn.Request
	hooks      []FrameHook

	dropped uint64
	failed  uint64
}

// RunnerOption configures a Runner
type RunnerOption func(*Runner)

// WithTick sets the interval between steps
func WithTick(d time.Duration) RunnerOption {
	return func(r *Runner) {
		if d > 0 {
			r.tick = d
		}
	}
}

// WithSpawns sets the channel spawn requests are read from
func WithSpawns(spawns <-chan spawn.Request) RunnerOption {
	return func(r *Runner) {
		r.spawns = spawns
	}
}

// WithMaxAgents caps the live agents; requests beyond the cap are dropped.
// Zero means no cap.
func WithMaxAgents(n int) RunnerOption {
	return func(r *Runner) {
		r.maxAgents = n
	}
}

// WithMaxSteps stops the loop after n steps. Zero runs until cancelled.
func WithMaxSteps(n uint64) RunnerOption {
	return func(r *Runner) {
		r.maxSteps = n
	}
}

// WithFrameHook registers a hook called with a frame every few steps
func WithFrameHook(hook FrameHook) RunnerOption {
	return func(r *Runner) {
		if hook != nil {
			r.hooks = append(r.hooks, hook)
		}
	}
}

// WithFrameEvery sets how many steps pass between frames
func WithFrameEvery(n uint64) RunnerOption {
	return func(r *Runner) {
		if n > 0 {
			r.frameEvery = n
		}
	}
}

// WithRunnerLogger sets the entry used for lifecycle logs
func WithRunnerLogger(logger *logrus.Entry) RunnerOption {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRunner creates a runner stepping sim while clk drives its controller
func NewRunner(sim *Simulation, clk *clock.PhaseClock, opts ...RunnerOption) *Runner {
	r := &Runner{
		sim:        sim,
		clock:      clk,
		logger:     logrus.NewEntry(logrus.StandardLogger()),
		tick:       time.Millisecond,
		frameEvery: 1,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.WithField("component", "runner")
	return r
}

// Run starts the phase clock and steps the simulation until ctx is cancelled
// or the step limit is reached. It returns nil on either.
func (r *Runner) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if r.clock != nil {
		if err := r.clock.Start(ctx); err != nil {
			return err
		}
		defer r.clock.Stop()
	}

	r.logger.WithFields(logrus.Fields{
		"tick":       r.tick,
		"max_agents": r.maxAgents,
		"max_steps":  r.maxSteps,
	}).Info("simulation started")

	ticker := time.NewTicker(r.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.finish("cancelled")
			return nil
		case <-ticker.C:
			if r.RunStep() {
				r.finish("step limit reached")
				return nil
			}
		}
	}
}

// RunStep performs one iteration of the loop body and reports whether the
// step limit has been reached.
func (r *Runner) RunStep() bool {
	r.drain()
	r.sim.Step()

	tick := r.sim.Tick()
	if len(r.hooks) > 0 && tick%r.frameEvery == 0 {
		frame := r.sim.Frame()
		for _, hook := range r.hooks {
			hook(frame)
		}
	}

	return r.maxSteps > 0 && tick >= r.maxSteps
}

func (r *Runner) drain() {
	for r.spawns != nil {
		select {
		case req, ok := <-r.spawns:
			if !ok {
				r.spawns = nil
				return
			}
			r.spawn(req)
		default:
			return
		}
	}
}

func (r *Runner) spawn(req spawn.Request) {
	if r.maxAgents > 0 && r.sim.Len() >= r.maxAgents {
		r.dropped++
		r.logger.WithField("request", req.String()).Debug("agent cap reached, request dropped")
		return
	}
	a, err := r.sim.Spawn(req)
	if err != nil {
		r.failed++
		r.logger.WithError(err).WithField("request", req.String()).Warn("spawn rejected")
		r.sim.Controller().Observers().NotifyError(err)
		return
	}
	r.logger.WithFields(logrus.Fields{
		"id":      a.ID(),
		"kind":    a.Kind(),
		"heading": a.Heading(),
		"turn":    a.TurnIntent(),
	}).Debug("agent spawned")
}

func (r *Runner) finish(reason string) {
	census := r.sim.Census()
	r.logger.WithFields(logrus.Fields{
		"reason":  reason,
		"steps":   r.sim.Tick(),
		"active":  census.Total,
		"exited":  census.Exited,
		"dropped": r.dropped,
		"failed":  r.failed,
	}).Info("simulation stopped")
}

// Dropped returns the number of requests discarded by the agent cap
func (r *Runner) Dropped() uint64 {
	return r.dropped
}

// Failed returns the number of requests the factory rejected
func (r *Runner) Failed() uint64 {
	return r.failed
}

// Simulation returns the simulation being stepped
func (r *Runner) Simulation() *Simulation {
	return r.sim
}
