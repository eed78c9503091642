// Package crossroads simulates a four-way intersection: a timed signal
// controller cycling through four phases and road users (cars, buses,
// bicycles, pedestrians) that advance, wait at stop lines and turn once at
// the centre according to the active phase.
package crossroads

import (
	"github.com/sirupsen/logrus"

	"github.com/anggasct/crossroads/pkg/agent"
	"github.com/anggasct/crossroads/pkg/clock"
	"github.com/anggasct/crossroads/pkg/config"
	"github.com/anggasct/crossroads/pkg/layout"
	"github.com/anggasct/crossroads/pkg/observers"
	"github.com/anggasct/crossroads/pkg/signal"
	"github.com/anggasct/crossroads/pkg/sim"
	"github.com/anggasct/crossroads/pkg/spawn"
	"github.com/anggasct/crossroads/pkg/utils"
)

// Signal types
type (
	// Phase is one of the four signal states
	Phase = signal.Phase

	// Timings holds the duration of every phase
	Timings = signal.Timings

	// Lamps is what each axis' signal heads display
	Lamps = signal.Lamps

	// Controller owns the active phase
	Controller = signal.Controller

	// Transition records one phase change
	Transition = signal.Transition

	// Observer observes the signal cycle
	Observer = signal.Observer

	// ExtendedObserver adds exit, error and clock lifecycle callbacks
	ExtendedObserver = signal.ExtendedObserver

	// PhaseClock advances a controller in the background
	PhaseClock = clock.PhaseClock
)

// Agent and layout types
type (
	// Agent is one road user
	Agent = agent.Agent

	// AgentOptions describes an agent to create
	AgentOptions = agent.Options

	// Factory builds agents bound to a geometry table
	Factory = agent.Factory

	// Kind identifies a class of road user
	Kind = layout.Kind

	// Heading is a travel direction
	Heading = layout.Heading

	// Turn is the manoeuvre taken at the centre
	Turn = layout.Turn

	// GeometryTable maps kinds to their geometry
	GeometryTable = layout.Table

	// SpawnRequest asks for one agent
	SpawnRequest = spawn.Request
)

// Simulation types
type (
	// Simulation owns the agents and steps them under the current phase
	Simulation = sim.Simulation

	// Runner is the update loop
	Runner = sim.Runner

	// Frame is an immutable snapshot for renderers
	Frame = sim.Frame

	// Config is the resolved configuration
	Config = config.Config
)

// Observer types
type (
	// LoggingObserver logs signal events through logrus
	LoggingObserver = observers.LoggingObserver

	// MetricsObserver collects metrics about the signal cycle
	MetricsObserver = observers.MetricsObserver

	// CycleValidator checks the fixed phase order
	CycleValidator = observers.CycleValidator
)

// Error types
type (
	// SimulationError is the typed error returned by every package
	SimulationError = utils.SimulationError

	// ErrorCollector gathers validation failures
	ErrorCollector = utils.ErrorCollector
)

// Re-export constants
const (
	RedHorizontal               = signal.RedHorizontal
	GreenHorizontal             = signal.GreenHorizontal
	OrangeHorizontal            = signal.OrangeHorizontal
	RedHorizontalOrangeVertical = signal.RedHorizontalOrangeVertical

	Car        = layout.Car
	Bus        = layout.Bus
	Bicycle    = layout.Bicycle
	Pedestrian = layout.Pedestrian

	Straight  = layout.Straight
	TurnLeft  = layout.TurnLeft
	TurnRight = layout.TurnRight
)

// Re-export constructors
var (
	// NewController creates a controller in RedHorizontal
	NewController = signal.NewController

	// DefaultTimings returns the 30/5/5/30 second cycle
	DefaultTimings = signal.DefaultTimings

	// NewPhaseClock creates a clock for a controller
	NewPhaseClock = clock.New

	// NewFactory creates an agent factory over a geometry table
	NewFactory = agent.NewFactory

	// NewSimulation creates a simulation
	NewSimulation = sim.New

	// NewRunner creates the update loop
	NewRunner = sim.NewRunner

	// NewGenerator creates a seeded spawn generator
	NewGenerator = spawn.NewGenerator

	// LoadConfig reads a YAML file over the defaults
	LoadConfig = config.Load

	// DefaultConfig returns the embedded configuration
	DefaultConfig = config.Default

	// NewLoggingObserver creates a logrus backed observer
	NewLoggingObserver = observers.NewLoggingObserver

	// NewMetricsObserver creates a metrics observer
	NewMetricsObserver = observers.NewMetricsObserver

	// NewCycleValidator creates a cycle validator
	NewCycleValidator = observers.NewCycleValidator
)

// Re-export sentinel errors
var (
	ErrUnknownKind             = utils.ErrUnknownKind
	ErrConflictingTurnIntent   = utils.ErrConflictingTurnIntent
	ErrInvalidDirection        = utils.ErrInvalidDirection
	ErrInvalidGeometry         = utils.ErrInvalidGeometry
	ErrInvalidTiming           = utils.ErrInvalidTiming
	ErrClockRunning            = utils.ErrClockRunning
	ErrSimulationMisconfigured = utils.ErrSimulationMisconfigured
)

// Intersection bundles the collaborators built from one configuration
type Intersection struct {
	Config     *config.Config
	Controller *signal.Controller
	Clock      *clock.PhaseClock
	Factory    *agent.Factory
	Simulation *sim.Simulation
}

// Build wires a controller, clock, factory and simulation from cfg. The
// signal timings are divided by the configured speedup.
func Build(cfg *config.Config, logger *logrus.Logger, watchers ...signal.Observer) (*Intersection, error) {
	if cfg == nil {
		return nil, utils.NewMisconfiguredError("config")
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	entry := logrus.NewEntry(logger)

	opts := make([]signal.Option, 0, len(watchers))
	for _, o := range watchers {
		opts = append(opts, signal.WithObserver(o))
	}
	controller, err := signal.NewController(cfg.Timings(), opts...)
	if err != nil {
		return nil, err
	}

	factory := agent.NewFactory(cfg.Kinds)
	simulation, err := sim.New(controller, factory, cfg.World, sim.WithLogger(entry))
	if err != nil {
		return nil, err
	}

	return &Intersection{
		Config:     cfg,
		Controller: controller,
		Clock:      clock.New(controller, clock.WithLogger(entry)),
		Factory:    factory,
		Simulation: simulation,
	}, nil
}
