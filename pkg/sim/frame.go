package sim

import (
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/anggasct/crossroads/pkg/agent"
	"github.com/anggasct/crossroads/pkg/layout"
	"github.com/anggasct/crossroads/pkg/signal"
)

// AgentView is the read-only state of one agent handed to renderers
type AgentView struct {
	ID      uuid.UUID
	Kind    layout.Kind
	X       float64
	Y       float64
	Width   float64
	Height  float64
	Heading layout.Heading
	Facing  float64
	Stopped bool
}

// Frame is an immutable snapshot of the simulation after a step
type Frame struct {
	Tick      uint64
	Phase     signal.Phase
	Lamps     signal.Lamps
	Remaining time.Duration
	World     layout.World
	Agents    []AgentView
}

// Frame captures the current state
func (s *Simulation) Frame() Frame {
	state := s.controller.Snapshot()
	return Frame{
		Tick:      s.tick,
		Phase:     state.Phase,
		Lamps:     state.Lamps(),
		Remaining: state.Remaining,
		World:     s.world,
		Agents:    lo.Map(s.agents, func(a *agent.Agent, _ int) AgentView { return viewOf(a) }),
	}
}

func viewOf(a *agent.Agent) AgentView {
	pose := a.Pose()
	size := a.Size()
	// sprites are drawn facing east; vertical agents are rotated
	if !pose.Horizontal {
		size.Width, size.Height = size.Height, size.Width
	}
	return AgentView{
		ID:      a.ID(),
		Kind:    a.Kind(),
		X:       pose.X,
		Y:       pose.Y,
		Width:   size.Width,
		Height:  size.Height,
		Heading: pose.Heading,
		Facing:  pose.Facing,
		Stopped: a.Stopped(),
	}
}
