package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anggasct/crossroads/pkg/layout"
	"github.com/anggasct/crossroads/pkg/signal"
	"github.com/anggasct/crossroads/pkg/utils"
)

func TestDefault(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)

	assert.Equal(t, layout.World{Width: 800, Height: 600, ExitMargin: 20}, cfg.World)
	assert.Equal(t, signal.DefaultTimings(), cfg.Signal)
	assert.Equal(t, 3*time.Second, cfg.Run.SpawnEvery)
	assert.Equal(t, time.Millisecond, cfg.Run.Tick)
	assert.Len(t, cfg.Kinds, 4)
	require.NoError(t, cfg.Validate())
}

func TestDefault_Geometry(t *testing.T) {
	cfg := MustDefault()

	tests := []struct {
		kind  layout.Kind
		speed float64
		size  layout.Size
		east  layout.Point
		north layout.Point
	}{
		{layout.Car, 0.1, layout.Size{Width: 40, Height: 20}, layout.Point{X: 0, Y: 315}, layout.Point{X: 440, Y: 600}},
		{layout.Bus, 0.075, layout.Size{Width: 60, Height: 30}, layout.Point{X: 0, Y: 360}, layout.Point{X: 490, Y: 600}},
		{layout.Bicycle, 0.05, layout.Size{Width: 30, Height: 15}, layout.Point{X: 0, Y: 405}, layout.Point{X: 535, Y: 600}},
		{layout.Pedestrian, 0.03, layout.Size{Width: 15, Height: 30}, layout.Point{X: 0, Y: 440}, layout.Point{X: 565, Y: 600}},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			g, ok := cfg.Kinds.Lookup(tt.kind)
			require.True(t, ok)
			assert.Equal(t, tt.kind, g.Kind)
			assert.Equal(t, tt.speed, g.Speed)
			assert.Equal(t, tt.size, g.Size)
			assert.Equal(t, tt.east, g.Approaches[layout.East].Spawn)
			assert.Equal(t, tt.north, g.Approaches[layout.North].Spawn)
			assert.Len(t, g.TurnWindows, 4)
		})
	}

	bus, _ := cfg.Kinds.Lookup(layout.Bus)
	assert.Equal(t, layout.Interval{Min: 305, Max: 315}, bus.TurnWindows[layout.South])
	assert.Equal(t, []layout.Interval{{Min: 0, Max: 30}, {Min: 100, Max: 130}}, bus.StopZones(layout.East))
}

// Each turn window sits within one sprite of the lane it leads into.
func TestDefault_TurnWindowsNearLanes(t *testing.T) {
	cfg := MustDefault()

	for _, kind := range layout.Kinds {
		g, _ := cfg.Kinds.Lookup(kind)
		for _, target := range layout.Headings {
			window := g.TurnWindows[target]
			lane := g.Approaches[target].Spawn
			across := lane.X
			if target.Horizontal() {
				across = lane.Y
			}
			centre := (window.Min + window.Max) / 2
			assert.InDelta(t, across, centre, g.Extent(), "%s turning %s", kind, target)
		}
	}
}

func TestParse_Overlay(t *testing.T) {
	cfg, err := Parse([]byte(`
world:
  exit_margin: 50
signal:
  green_horizontal: 10s
run:
  speedup: 5
kinds:
  bike:
    speed: 0.2
    size: {width: 10, height: 10}
    approaches:
      east: {spawn: {x: 0, y: 1}, stop_zones: [[10, 20]]}
      west: {spawn: {x: 800, y: 2}}
      south: {spawn: {x: 3, y: 0}}
      north: {spawn: {x: 4, y: 600}}
    turn_windows:
      east: [0, 5]
      west: [0, 5]
      south: [0, 5]
      north: [0, 5]
`))
	require.NoError(t, err)

	assert.Equal(t, 800.0, cfg.World.Width, "unset fields keep their default")
	assert.Equal(t, 50.0, cfg.World.ExitMargin)
	assert.Equal(t, 10*time.Second, cfg.Signal.GreenHorizontal)
	assert.Equal(t, 30*time.Second, cfg.Signal.RedHorizontal)
	assert.Equal(t, 2*time.Second, cfg.Timings().GreenHorizontal)

	bike, ok := cfg.Kinds.Lookup(layout.Bicycle)
	require.True(t, ok)
	assert.Equal(t, 0.2, bike.Speed)
	assert.Empty(t, bike.StopZones(layout.West))

	car, ok := cfg.Kinds.Lookup(layout.Car)
	require.True(t, ok)
	assert.Equal(t, 0.1, car.Speed)
}

func TestParse_CollectsErrors(t *testing.T) {
	_, err := Parse([]byte(`
world:
  width: 0
signal:
  orange_horizontal: 0s
run:
  tick: 0s
`))
	require.Error(t, err)

	collector, ok := err.(*utils.ErrorCollector)
	require.True(t, ok)
	assert.Len(t, collector.GetErrors(), 3)
	assert.True(t, errors.Is(err, utils.ErrInvalidTiming))
	assert.True(t, utils.IsConfigurationError(err))
}

func TestParse_BadGeometry(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "unknown kind",
			yaml: "kinds:\n  tram: {speed: 1}\n",
		},
		{
			name: "unknown heading",
			yaml: "kinds:\n  car:\n    speed: 0.1\n    approaches:\n      up: {spawn: {x: 0, y: 0}}\n",
		},
		{
			name: "short interval",
			yaml: "kinds:\n  car:\n    speed: 0.1\n    turn_windows:\n      east: [1]\n",
		},
		{
			name: "incomplete kind",
			yaml: "kinds:\n  car:\n    speed: 0.1\n    size: {width: 1, height: 1}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.True(t, utils.IsConfigurationError(err), "got %v", err)
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse([]byte("world: [not, a, map"))
	require.Error(t, err)
	assert.Equal(t, utils.CodeInvalidConfiguration, utils.GetErrorCode(err))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crossroads.yaml")
	require.NoError(t, os.WriteFile(path, []byte("run:\n  seed: 99\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(99), cfg.Run.Seed)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
