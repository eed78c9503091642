package layout

import "strings"

// Turn is the manoeuvre an agent performs once at the centre of the intersection
type Turn uint8

const (
	// Straight keeps the spawn heading
	Straight Turn = iota
	// TurnLeft rotates the heading left once
	TurnLeft
	// TurnRight rotates the heading right once
	TurnRight
)

// Turns lists every manoeuvre
var Turns = []Turn{Straight, TurnLeft, TurnRight}

func (t Turn) String() string {
	switch t {
	case TurnLeft:
		return "left"
	case TurnRight:
		return "right"
	default:
		return "straight"
	}
}

// ParseTurn resolves "left", "right", "straight" or "none"
func ParseTurn(name string) (Turn, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "left":
		return TurnLeft, true
	case "right":
		return TurnRight, true
	case "straight", "none", "":
		return Straight, true
	}
	return Straight, false
}

// Apply returns the heading reached from h after the manoeuvre
func (t Turn) Apply(h Heading) Heading {
	switch t {
	case TurnLeft:
		return h.Left()
	case TurnRight:
		return h.Right()
	default:
		return h
	}
}
