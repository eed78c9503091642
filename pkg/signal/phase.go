// Package signal implements the intersection's signal controller: a fixed
// four-phase cycle guarded for one writer and any number of readers.
package signal

import (
	"fmt"
	"strings"
)

// Phase is one of the four signal states governing which axis may move
type Phase uint8

const (
	// RedHorizontal stops the horizontal axis while the vertical lamps show orange
	RedHorizontal Phase = iota
	// GreenHorizontal lets the horizontal axis move
	GreenHorizontal
	// OrangeHorizontal warns the horizontal axis before red
	OrangeHorizontal
	// RedHorizontalOrangeVertical stops the horizontal axis and lets the vertical axis move
	RedHorizontalOrangeVertical
)

// Phases lists the cycle in order, starting from the initial phase
var Phases = []Phase{RedHorizontal, GreenHorizontal, OrangeHorizontal, RedHorizontalOrangeVertical}

var phaseNames = [...]string{
	RedHorizontal:               "red_horizontal",
	GreenHorizontal:             "green_horizontal",
	OrangeHorizontal:            "orange_horizontal",
	RedHorizontalOrangeVertical: "red_horizontal_orange_vertical",
}

// Valid reports whether p is one of the four phases
func (p Phase) Valid() bool {
	return p <= RedHorizontalOrangeVertical
}

// String returns the snake_case name of the phase
func (p Phase) String() string {
	if p.Valid() {
		return phaseNames[p]
	}
	return fmt.Sprintf("phase(%d)", uint8(p))
}

// ParsePhase resolves a phase name
func ParsePhase(name string) (Phase, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range phaseNames {
		if n == name {
			return Phase(i), nil
		}
	}
	return 0, fmt.Errorf("unknown phase %q", name)
}

// Next returns the successor in the fixed cycle
func (p Phase) Next() Phase {
	switch p {
	case RedHorizontal:
		return GreenHorizontal
	case GreenHorizontal:
		return OrangeHorizontal
	case OrangeHorizontal:
		return RedHorizontalOrangeVertical
	default:
		return RedHorizontal
	}
}

// Permits reports whether agents on the given axis may move freely
func (p Phase) Permits(horizontal bool) bool {
	if horizontal {
		return p == GreenHorizontal
	}
	return p == RedHorizontalOrangeVertical
}

// Color is a lamp colour
type Color uint8

const (
	// Red lamp
	Red Color = iota
	// Orange lamp
	Orange
	// Green lamp
	Green
)

// String returns the colour name
func (c Color) String() string {
	switch c {
	case Red:
		return "red"
	case Orange:
		return "orange"
	case Green:
		return "green"
	default:
		return fmt.Sprintf("color(%d)", uint8(c))
	}
}

// Lamps is what each axis' signal heads display during a phase
type Lamps struct {
	Horizontal Color
	Vertical   Color
}

// Lamps returns the lamp colours shown for the phase
func (p Phase) Lamps() Lamps {
	switch p {
	case GreenHorizontal:
		return Lamps{Horizontal: Green, Vertical: Red}
	case OrangeHorizontal:
		return Lamps{Horizontal: Orange, Vertical: Red}
	case RedHorizontalOrangeVertical:
		return Lamps{Horizontal: Red, Vertical: Green}
	default:
		return Lamps{Horizontal: Red, Vertical: Orange}
	}
}
