package observers

import (
	"fmt"
	"sync"

	"github.com/anggasct/crossroads/pkg/signal"
)

// CycleValidator checks that the controller follows the fixed phase cycle
type CycleValidator struct {
	signal.BaseObserver
	visited      map[signal.Phase]bool
	lastSequence uint64
	violations   []string
	mutex        sync.RWMutex
}

// NewCycleValidator creates a new cycle validator
func NewCycleValidator() *CycleValidator {
	return &CycleValidator{
		visited:    make(map[signal.Phase]bool),
		violations: make([]string, 0),
	}
}

// OnPhaseEnter marks the phase as visited
func (o *CycleValidator) OnPhaseEnter(state signal.State) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.visited[state.Phase] = true
}

// OnTransition records transitions that skip a phase or a sequence number
func (o *CycleValidator) OnTransition(t signal.Transition) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	if t.To != t.From.Next() {
		o.violations = append(o.violations, fmt.Sprintf(
			"invalid transition from '%s' to '%s', expected '%s'",
			t.From, t.To, t.From.Next()))
	}
	if o.lastSequence != 0 && t.Sequence != o.lastSequence+1 {
		o.violations = append(o.violations, fmt.Sprintf(
			"transition #%d follows #%d", t.Sequence, o.lastSequence))
	}
	o.lastSequence = t.Sequence
}

// OnError records the error as a violation
func (o *CycleValidator) OnError(err error) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.violations = append(o.violations, fmt.Sprintf("error occurred: %v", err))
}

// GetViolations returns all violations
func (o *CycleValidator) GetViolations() []string {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	result := make([]string, len(o.violations))
	copy(result, o.violations)
	return result
}

// GetUnvisitedPhases returns the phases never entered, in cycle order
func (o *CycleValidator) GetUnvisitedPhases() []signal.Phase {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	var unvisited []signal.Phase
	for _, phase := range signal.Phases {
		if !o.visited[phase] {
			unvisited = append(unvisited, phase)
		}
	}
	return unvisited
}

// HasViolations returns whether any violations occurred
func (o *CycleValidator) HasViolations() bool {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return len(o.violations) > 0
}

// Reset clears the recorded state
func (o *CycleValidator) Reset() {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	o.visited = make(map[signal.Phase]bool)
	o.lastSequence = 0
	o.violations = make([]string, 0)
}
