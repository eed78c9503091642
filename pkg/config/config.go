// Package config loads the intersection configuration from YAML.
// The embedded defaults describe the stock intersection; user files are
// overlaid on top of them.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/anggasct/crossroads/pkg/layout"
	"github.com/anggasct/crossroads/pkg/signal"
	"github.com/anggasct/crossroads/pkg/utils"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config is the resolved configuration of one simulation
type Config struct {
	World  layout.World
	Signal signal.Timings
	Run    Run
	Kinds  layout.Table
}

// Run holds the update loop settings
type Run struct {
	Tick       time.Duration `yaml:"tick"`
	SpawnEvery time.Duration `yaml:"spawn_every"`
	MaxAgents  int           `yaml:"max_agents"`
	Seed       int64         `yaml:"seed"`
	Speedup    float64       `yaml:"speedup"`
}

// Timings returns the signal timings divided by the run speedup
func (c *Config) Timings() signal.Timings {
	return c.Signal.Scale(c.Run.Speedup)
}

// Default returns the embedded configuration
func Default() (*Config, error) {
	return Parse(nil)
}

// MustDefault is like Default but panics on error
func MustDefault() *Config {
	cfg, err := Default()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads path and overlays it on the defaults
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, utils.NewConfigurationError("cannot read configuration file").
			WithField(path).
			WithCause(err)
	}
	return Parse(data)
}

// Parse overlays data on the defaults and validates the result.
// Scalar sections merge field by field; an entry under kinds replaces the
// default record for that kind.
func Parse(data []byte) (*Config, error) {
	var f file
	if err := yaml.Unmarshal(defaultsYAML, &f); err != nil {
		return nil, utils.NewConfigurationError("embedded defaults are malformed").WithCause(err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, utils.NewConfigurationError("malformed configuration").WithCause(err)
		}
	}

	cfg, err := f.resolve()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every problem in the configuration at once
func (c *Config) Validate() error {
	ec := utils.NewErrorCollector()

	if c.World.Width <= 0 || c.World.Height <= 0 {
		ec.Add(utils.NewConfigurationError("world must have a positive size").
			WithComponent("world").
			WithDetail("width", c.World.Width).
			WithDetail("height", c.World.Height))
	}
	if c.World.ExitMargin < 0 {
		ec.Add(utils.NewConfigurationError("exit margin cannot be negative").
			WithComponent("world").
			WithField("exit_margin"))
	}

	ec.Add(c.Signal.Validate())

	if c.Run.Tick <= 0 {
		ec.Add(utils.NewConfigurationError("tick must be positive").WithComponent("run").WithField("tick"))
	}
	if c.Run.SpawnEvery <= 0 {
		ec.Add(utils.NewConfigurationError("spawn interval must be positive").WithComponent("run").WithField("spawn_every"))
	}
	if c.Run.MaxAgents < 0 {
		ec.Add(utils.NewConfigurationError("max agents cannot be negative").WithComponent("run").WithField("max_agents"))
	}
	if c.Run.Speedup < 0 {
		ec.Add(utils.NewConfigurationError("speedup cannot be negative").WithComponent("run").WithField("speedup"))
	}

	for _, k := range layout.Kinds {
		if _, ok := c.Kinds.Lookup(k); !ok {
			ec.Add(utils.NewUnknownKindError(k.String()).WithComponent("kinds"))
		}
	}
	ec.Add(c.Kinds.Validate())

	return ec.Err()
}

type file struct {
	World  layout.World        `yaml:"world"`
	Signal signal.Timings      `yaml:"signal"`
	Run    Run                 `yaml:"run"`
	Kinds  map[string]kindFile `yaml:"kinds"`
}

type kindFile struct {
	Speed       float64                 `yaml:"speed"`
	Size        layout.Size             `yaml:"size"`
	Approaches  map[string]approachFile `yaml:"approaches"`
	TurnWindows map[string][]float64    `yaml:"turn_windows"`
}

type approachFile struct {
	Spawn     layout.Point `yaml:"spawn"`
	StopZones [][]float64  `yaml:"stop_zones"`
}

func (f *file) resolve() (*Config, error) {
	ec := utils.NewErrorCollector()
	table := make(layout.Table, len(f.Kinds))

	names := make([]string, 0, len(f.Kinds))
	for name := range f.Kinds {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		kind, ok := layout.ParseKind(name)
		if !ok {
			ec.Add(utils.NewUnknownKindError(name).WithComponent("kinds"))
			continue
		}
		geom, err := f.Kinds[name].resolve(kind)
		if err != nil {
			ec.Add(err)
			continue
		}
		table[kind] = geom
	}

	if err := ec.Err(); err != nil {
		return nil, err
	}
	return &Config{
		World:  f.World,
		Signal: f.Signal,
		Run:    f.Run,
		Kinds:  table,
	}, nil
}

func (k kindFile) resolve(kind layout.Kind) (*layout.KindGeometry, error) {
	ec := utils.NewErrorCollector()
	geom := &layout.KindGeometry{
		Kind:        kind,
		Speed:       k.Speed,
		Size:        k.Size,
		Approaches:  make(map[layout.Heading]layout.Approach, len(k.Approaches)),
		TurnWindows: make(map[layout.Heading]layout.Interval, len(k.TurnWindows)),
	}

	for name, a := range k.Approaches {
		heading, ok := layout.ParseHeading(name)
		if !ok {
			ec.Add(unknownHeading(kind, "approaches", name))
			continue
		}
		approach := layout.Approach{Spawn: a.Spawn}
		for i, raw := range a.StopZones {
			field := fmt.Sprintf("approaches.%s.stop_zones[%d]", name, i)
			zone, err := interval(raw, kind, field)
			if err != nil {
				ec.Add(err)
				continue
			}
			approach.StopZones = append(approach.StopZones, zone)
		}
		geom.Approaches[heading] = approach
	}

	for name, raw := range k.TurnWindows {
		heading, ok := layout.ParseHeading(name)
		if !ok {
			ec.Add(unknownHeading(kind, "turn_windows", name))
			continue
		}
		window, err := interval(raw, kind, "turn_windows."+name)
		if err != nil {
			ec.Add(err)
			continue
		}
		geom.TurnWindows[heading] = window
	}

	if err := ec.Err(); err != nil {
		return nil, err
	}
	return geom, nil
}

func interval(raw []float64, kind layout.Kind, field string) (layout.Interval, error) {
	if len(raw) != 2 {
		return layout.Interval{}, utils.NewGeometryError("interval must be a [min, max] pair", kind.String(), field).
			WithDetail("values", len(raw))
	}
	return layout.Interval{Min: raw[0], Max: raw[1]}, nil
}

func unknownHeading(kind layout.Kind, section, name string) error {
	return utils.NewGeometryError(fmt.Sprintf("unknown heading %q", name), kind.String(), section+"."+name)
}
