// Package agent implements road users and the per-tick motion rule they
// share. Every kind runs the same procedure over its own geometry record.
package agent

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/anggasct/crossroads/pkg/layout"
	"github.com/anggasct/crossroads/pkg/signal"
)

// Agent is one road user. It is owned by the update loop and must not be
// shared across goroutines.
type Agent struct {
	id   uuid.UUID
	kind layout.Kind
	geom *layout.KindGeometry

	pos        layout.Point
	horizontal bool
	positive   bool

	nominal float64
	speed   float64

	turn      layout.Turn
	hasTurned bool
	stopped   bool
}

// Pose is the position and orientation of an agent
type Pose struct {
	X          float64
	Y          float64
	Horizontal bool
	Positive   bool
	Heading    layout.Heading
	Facing     float64
}

// Move applies one tick of motion under phase.
//
// A pending turn is taken first and consumes the tick. Otherwise the agent
// advances when its axis has the right of way; on a stop signal it waits only
// while inside a stop zone of its heading and keeps going everywhere else.
func (a *Agent) Move(phase signal.Phase) {
	heading := a.Heading()
	along := a.pos.Along(heading)

	if !a.hasTurned && a.turn != layout.Straight {
		target := a.turn.Apply(heading)
		if window, ok := a.geom.TurnWindow(target); ok && window.ContainsOpen(along) {
			a.horizontal = target.Horizontal()
			a.positive = target.Positive()
			a.hasTurned = true
			return
		}
	}

	if phase.Permits(a.horizontal) {
		a.stopped = false
		a.speed = a.nominal
		a.advance()
		return
	}

	if a.geom.InStopZone(along, heading) {
		a.speed = a.nominal / 2
		a.stopped = true
		return
	}

	a.speed = a.nominal
	a.stopped = false
	a.advance()
}

func (a *Agent) advance() {
	step := a.speed
	if !a.positive {
		step = -step
	}
	if a.horizontal {
		a.pos.X += step
	} else {
		a.pos.Y += step
	}
}

// ID returns the agent's unique identifier
func (a *Agent) ID() uuid.UUID {
	return a.id
}

// Kind returns the agent's kind
func (a *Agent) Kind() layout.Kind {
	return a.kind
}

// Position returns the current position
func (a *Agent) Position() layout.Point {
	return a.pos
}

// Heading returns the current travel direction
func (a *Agent) Heading() layout.Heading {
	return layout.HeadingOf(a.horizontal, a.positive)
}

// Pose returns position and orientation
func (a *Agent) Pose() Pose {
	heading := a.Heading()
	return Pose{
		X:          a.pos.X,
		Y:          a.pos.Y,
		Horizontal: a.horizontal,
		Positive:   a.positive,
		Heading:    heading,
		Facing:     heading.Facing(),
	}
}

// IsHorizontal reports whether the agent travels along x
func (a *Agent) IsHorizontal() bool {
	return a.horizontal
}

// GoingPositive reports whether the agent's axis coordinate increases
func (a *Agent) GoingPositive() bool {
	return a.positive
}

// Speed returns the current speed
func (a *Agent) Speed() float64 {
	return a.speed
}

// NominalSpeed returns the kind's configured speed
func (a *Agent) NominalSpeed() float64 {
	return a.nominal
}

// Stopped reports whether the agent waited at a stop zone on its last tick
func (a *Agent) Stopped() bool {
	return a.stopped
}

// HasTurned reports whether the agent's turn has been taken
func (a *Agent) HasTurned() bool {
	return a.hasTurned
}

// TurnIntent returns the manoeuvre fixed at creation
func (a *Agent) TurnIntent() layout.Turn {
	return a.turn
}

// Size returns the kind's sprite footprint
func (a *Agent) Size() layout.Size {
	return a.geom.Size
}

// Extent returns the largest sprite dimension
func (a *Agent) Extent() float64 {
	return a.geom.Extent()
}

// Committed reports whether the agent is past every stop zone of its heading
func (a *Agent) Committed() bool {
	heading := a.Heading()
	return a.geom.PastStopZones(a.pos.Along(heading), heading)
}

func (a *Agent) String() string {
	return fmt.Sprintf("%s %s (%.2f, %.2f) %s", a.kind, a.id.String()[:8], a.pos.X, a.pos.Y, a.Heading())
}
