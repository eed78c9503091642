package signal

import (
	"fmt"
	"time"
)

// Transition records one phase change
type Transition struct {
	From     Phase
	To       Phase
	Sequence uint64
	At       time.Time

	// Elapsed is the time actually spent in From
	Elapsed time.Duration
	// Duration is the configured length of To
	Duration time.Duration
}

// String returns a compact description of the transition
func (t Transition) String() string {
	return fmt.Sprintf("#%d %s -> %s (%s)", t.Sequence, t.From, t.To, t.Duration)
}

// State is a consistent snapshot of the controller
type State struct {
	Phase     Phase
	Duration  time.Duration
	EnteredAt time.Time
	Remaining time.Duration
	Sequence  uint64
}

// Lamps returns the lamp colours for the snapshot's phase
func (s State) Lamps() Lamps {
	return s.Phase.Lamps()
}
