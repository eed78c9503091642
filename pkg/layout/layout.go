// Package layout holds the static intersection geometry: spawn points,
// stop zones and turn windows for every agent kind and heading.
//
// The table is data, not behaviour. Agents bind one KindGeometry at
// construction and the motion procedure reads it without locking.
package layout

import (
	"fmt"
	"strings"
)

// Kind identifies a class of road user
type Kind uint8

const (
	// Car is the default vehicle
	Car Kind = iota
	// Bus is the large, slow vehicle
	Bus
	// Bicycle rides in its own lane
	Bicycle
	// Pedestrian walks on the crossing lanes
	Pedestrian
)

// Kinds lists every kind in spawn-code order
var Kinds = []Kind{Car, Bus, Bicycle, Pedestrian}

var kindNames = map[Kind]string{
	Car:        "car",
	Bus:        "bus",
	Bicycle:    "bicycle",
	Pedestrian: "pedestrian",
}

// String returns the configuration name of the kind
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ParseKind resolves a configuration name to a Kind
func ParseKind(name string) (Kind, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range kindNames {
		if n == name {
			return k, true
		}
	}
	// "bike" is accepted as shorthand
	if name == "bike" {
		return Bicycle, true
	}
	return 0, false
}

// Heading is the travel direction of an agent
type Heading uint8

const (
	// East travels along x towards larger values
	East Heading = iota
	// West travels along x towards smaller values
	West
	// South travels along y towards larger values (screen coordinates)
	South
	// North travels along y towards smaller values
	North
)

// Headings lists every heading in spawn-direction order
var Headings = []Heading{East, West, South, North}

var headingNames = map[Heading]string{
	East:  "east",
	West:  "west",
	South: "south",
	North: "north",
}

// String returns the configuration name of the heading
func (h Heading) String() string {
	if name, ok := headingNames[h]; ok {
		return name
	}
	return fmt.Sprintf("heading(%d)", uint8(h))
}

// ParseHeading resolves a configuration name to a Heading
func ParseHeading(name string) (Heading, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for h, n := range headingNames {
		if n == name {
			return h, true
		}
	}
	return 0, false
}

// HeadingFromDirection maps a spawn direction code to a heading.
// 0 enters from the left, 1 from the right, 2 from the top, 3 from the bottom.
func HeadingFromDirection(direction int) (Heading, bool) {
	if direction < 0 || direction > 3 {
		return 0, false
	}
	return Headings[direction], true
}

// HeadingOf returns the heading for an axis and sign
func HeadingOf(horizontal, positive bool) Heading {
	switch {
	case horizontal && positive:
		return East
	case horizontal:
		return West
	case positive:
		return South
	default:
		return North
	}
}

// Horizontal reports whether the heading travels along x
func (h Heading) Horizontal() bool {
	return h == East || h == West
}

// Positive reports whether the heading increases its axis coordinate
func (h Heading) Positive() bool {
	return h == East || h == South
}

// Left returns the heading after a left turn.
// In screen coordinates this rotates east into south.
func (h Heading) Left() Heading {
	switch h {
	case East:
		return South
	case South:
		return West
	case West:
		return North
	default:
		return East
	}
}

// Right returns the heading after a right turn
func (h Heading) Right() Heading {
	switch h {
	case East:
		return North
	case North:
		return West
	case West:
		return South
	default:
		return East
	}
}

// Facing returns the sprite rotation in degrees
func (h Heading) Facing() float64 {
	switch h {
	case South:
		return 90
	case West:
		return 180
	case North:
		return 270
	default:
		return 0
	}
}

// Point is a position on the continuous plane
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Along returns the coordinate on the axis travelled by h
func (p Point) Along(h Heading) float64 {
	if h.Horizontal() {
		return p.X
	}
	return p.Y
}

// Size is the drawn footprint of a kind
type Size struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Interval is a span of positions along one axis
type Interval struct {
	Min float64
	Max float64
}

// Width returns the length of the interval
func (i Interval) Width() float64 {
	return i.Max - i.Min
}

// ContainsEntry reports whether p lies in the interval closed on the side an
// agent with heading h enters from.
func (i Interval) ContainsEntry(p float64, h Heading) bool {
	if h.Positive() {
		return p >= i.Min && p < i.Max
	}
	return p > i.Min && p <= i.Max
}

// ContainsOpen reports whether p lies strictly inside the interval
func (i Interval) ContainsOpen(p float64) bool {
	return p > i.Min && p < i.Max
}

// Passed reports whether an agent at p with heading h is beyond the interval
func (i Interval) Passed(p float64, h Heading) bool {
	if h.Positive() {
		return p >= i.Max
	}
	return p <= i.Min
}

// Approach describes how a kind enters the intersection with one heading
type Approach struct {
	Spawn     Point
	StopZones []Interval
}

// KindGeometry is the per-kind constant record bound into agents
type KindGeometry struct {
	Kind  Kind
	Speed float64
	Size  Size

	Approaches map[Heading]Approach

	// TurnWindows is keyed by the heading the agent turns into.
	TurnWindows map[Heading]Interval
}

// StopZones returns the stop zones for heading h
func (g *KindGeometry) StopZones(h Heading) []Interval {
	return g.Approaches[h].StopZones
}

// InStopZone reports whether p is inside any stop zone of heading h
func (g *KindGeometry) InStopZone(p float64, h Heading) bool {
	for _, zone := range g.Approaches[h].StopZones {
		if zone.ContainsEntry(p, h) {
			return true
		}
	}
	return false
}

// PastStopZones reports whether p is beyond every stop zone of heading h
func (g *KindGeometry) PastStopZones(p float64, h Heading) bool {
	for _, zone := range g.Approaches[h].StopZones {
		if !zone.Passed(p, h) {
			return false
		}
	}
	return true
}

// TurnWindow returns the window used to turn into heading target
func (g *KindGeometry) TurnWindow(target Heading) (Interval, bool) {
	w, ok := g.TurnWindows[target]
	return w, ok
}

// Extent returns the largest sprite dimension
func (g *KindGeometry) Extent() float64 {
	if g.Size.Width > g.Size.Height {
		return g.Size.Width
	}
	return g.Size.Height
}

// Table maps every kind to its geometry
type Table map[Kind]*KindGeometry

// Lookup returns the geometry for kind k
func (t Table) Lookup(k Kind) (*KindGeometry, bool) {
	g, ok := t[k]
	return g, ok && g != nil
}

// World is the drawable rectangle agents live in
type World struct {
	Width      float64 `yaml:"width"`
	Height     float64 `yaml:"height"`
	ExitMargin float64 `yaml:"exit_margin"`
}

// Contains reports whether p is within the world grown by margin
func (w World) Contains(p Point, margin float64) bool {
	return p.X >= -margin && p.X <= w.Width+margin &&
		p.Y >= -margin && p.Y <= w.Height+margin
}
