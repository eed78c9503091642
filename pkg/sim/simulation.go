// Package sim composes the signal controller and the agents into a
// simulation step, and runs that step on a fixed tick.
package sim

import (
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/anggasct/crossroads/pkg/agent"
	"github.com/anggasct/crossroads/pkg/layout"
	"github.com/anggasct/crossroads/pkg/signal"
	"github.com/anggasct/crossroads/pkg/spawn"
	"github.com/anggasct/crossroads/pkg/utils"
)

// Simulation owns the agent collection. It is driven by a single goroutine;
// only the controller it reads from is shared.
type Simulation struct {
	controller *signal.Controller
	factory    *agent.Factory
	world      layout.World
	logger     *logrus.Entry

	agents []*agent.Agent
	tick   uint64
	exited uint64
}

// Option configures a Simulation
type Option func(*Simulation)

// WithLogger sets the entry used for simulation logs
func WithLogger(logger *logrus.Entry) Option {
	return func(s *Simulation) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a simulation over controller, building agents with factory
func New(controller *signal.Controller, factory *agent.Factory, world layout.World, opts ...Option) (*Simulation, error) {
	if controller == nil {
		return nil, utils.NewMisconfiguredError("controller")
	}
	if factory == nil {
		return nil, utils.NewMisconfiguredError("factory")
	}

	s := &Simulation{
		controller: controller,
		factory:    factory,
		world:      world,
		logger:     logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithField("component", "sim")
	return s, nil
}

// Step reads the phase once, moves every agent under it and drops the agents
// that left the world. It returns the phase used.
func (s *Simulation) Step() signal.Phase {
	phase := s.controller.Current()

	for _, a := range s.agents {
		a.Move(phase)
	}
	s.prune()
	s.tick++

	return phase
}

func (s *Simulation) prune() {
	before := len(s.agents)
	s.agents = lo.Filter(s.agents, func(a *agent.Agent, _ int) bool {
		return s.world.Contains(a.Position(), s.world.ExitMargin+a.Extent())
	})

	if removed := before - len(s.agents); removed > 0 {
		s.exited += uint64(removed)
		s.logger.WithFields(logrus.Fields{
			"tick":    s.tick,
			"removed": removed,
			"active":  len(s.agents),
		}).Trace("agents left the world")
	}
}

// Spawn creates an agent for req and adds it
func (s *Simulation) Spawn(req spawn.Request) (*agent.Agent, error) {
	a, err := s.factory.FromRequest(req)
	if err != nil {
		return nil, err
	}
	s.Add(a)
	return a, nil
}

// Add appends an already built agent
func (s *Simulation) Add(a *agent.Agent) {
	if a == nil {
		return
	}
	s.agents = append(s.agents, a)
}

// Agents returns a copy of the agent slice
func (s *Simulation) Agents() []*agent.Agent {
	out := make([]*agent.Agent, len(s.agents))
	copy(out, s.agents)
	return out
}

// Len returns the number of live agents
func (s *Simulation) Len() int {
	return len(s.agents)
}

// Tick returns the number of steps taken
func (s *Simulation) Tick() uint64 {
	return s.tick
}

// Exited returns how many agents were pruned so far
func (s *Simulation) Exited() uint64 {
	return s.exited
}

// Controller returns the signal controller the simulation reads from
func (s *Simulation) Controller() *signal.Controller {
	return s.controller
}

// World returns the world rectangle
func (s *Simulation) World() layout.World {
	return s.world
}

// Census counts live agents
type Census struct {
	Total     int
	ByKind    map[layout.Kind]int
	Stopped   int
	Committed int
	Exited    uint64
}

// Census summarises the live agents
func (s *Simulation) Census() Census {
	byKind := lo.MapValues(
		lo.GroupBy(s.agents, func(a *agent.Agent) layout.Kind { return a.Kind() }),
		func(group []*agent.Agent, _ layout.Kind) int { return len(group) },
	)
	return Census{
		Total:     len(s.agents),
		ByKind:    byKind,
		Stopped:   lo.CountBy(s.agents, func(a *agent.Agent) bool { return a.Stopped() }),
		Committed: lo.CountBy(s.agents, func(a *agent.Agent) bool { return a.Committed() }),
		Exited:    s.exited,
	}
}
