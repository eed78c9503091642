package agent

import (
	"github.com/google/uuid"

	"github.com/anggasct/crossroads/pkg/layout"
	"github.com/anggasct/crossroads/pkg/spawn"
	"github.com/anggasct/crossroads/pkg/utils"
)

// Options describes an agent to create
type Options struct {
	Kind       layout.Kind
	Position   layout.Point
	Horizontal bool
	Positive   bool
	TurnLeft   bool
	TurnRight  bool

	// ID is generated when zero
	ID uuid.UUID
}

// Factory builds agents bound to a geometry table
type Factory struct {
	table layout.Table
}

// NewFactory creates a factory over table. The table is read-only from here on.
func NewFactory(table layout.Table) *Factory {
	return &Factory{table: table}
}

// Table returns the geometry table agents are bound to
func (f *Factory) Table() layout.Table {
	return f.table
}

// Create builds an agent. It fails for a kind missing from the table and for
// an agent asked to turn both ways.
func (f *Factory) Create(opts Options) (*Agent, error) {
	geom, ok := f.table.Lookup(opts.Kind)
	if !ok {
		return nil, utils.NewUnknownKindError(opts.Kind.String()).WithComponent("agent")
	}
	if opts.TurnLeft && opts.TurnRight {
		return nil, utils.NewConflictingTurnError(opts.Kind.String()).WithComponent("agent")
	}

	turn := layout.Straight
	switch {
	case opts.TurnLeft:
		turn = layout.TurnLeft
	case opts.TurnRight:
		turn = layout.TurnRight
	}

	id := opts.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	return &Agent{
		id:         id,
		kind:       opts.Kind,
		geom:       geom,
		pos:        opts.Position,
		horizontal: opts.Horizontal,
		positive:   opts.Positive,
		nominal:    geom.Speed,
		speed:      geom.Speed,
		turn:       turn,
	}, nil
}

// MustCreate is like Create but panics on error
func (f *Factory) MustCreate(opts Options) *Agent {
	a, err := f.Create(opts)
	if err != nil {
		panic(err)
	}
	return a
}

// FromRequest places a new agent at the spawn point of the requested edge
func (f *Factory) FromRequest(req spawn.Request) (*Agent, error) {
	heading, ok := layout.HeadingFromDirection(req.Direction)
	if !ok {
		return nil, utils.NewInvalidDirectionError(req.Direction).WithComponent("agent")
	}
	geom, ok := f.table.Lookup(req.Kind)
	if !ok {
		return nil, utils.NewUnknownKindError(req.Kind.String()).WithComponent("agent")
	}

	return f.Create(Options{
		Kind:       req.Kind,
		Position:   geom.Approaches[heading].Spawn,
		Horizontal: heading.Horizontal(),
		Positive:   heading.Positive(),
		TurnLeft:   req.Turn == layout.TurnLeft,
		TurnRight:  req.Turn == layout.TurnRight,
	})
}
