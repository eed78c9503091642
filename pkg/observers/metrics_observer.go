package observers

import (
	"sync"
	"time"

	"github.com/anggasct/crossroads/pkg/signal"
)

// MetricsObserver collects metrics about the signal cycle
type MetricsObserver struct {
	signal.BaseObserver
	phaseVisits      map[signal.Phase]int
	phaseTimeSpent   map[signal.Phase]time.Duration
	transitionCounts map[string]int
	errorCount       int
	mutex            sync.RWMutex
}

// NewMetricsObserver creates a new metrics observer
func NewMetricsObserver() *MetricsObserver {
	return &MetricsObserver{
		phaseVisits:      make(map[signal.Phase]int),
		phaseTimeSpent:   make(map[signal.Phase]time.Duration),
		transitionCounts: make(map[string]int),
	}
}

// OnPhaseEnter records a visit
func (o *MetricsObserver) OnPhaseEnter(state signal.State) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.phaseVisits[state.Phase]++
}

// OnTransition records the transition and the time spent in the phase left
func (o *MetricsObserver) OnTransition(t signal.Transition) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	o.transitionCounts[t.From.String()+"->"+t.To.String()]++
	o.phaseTimeSpent[t.From] += t.Elapsed
}

// OnError records error metrics
func (o *MetricsObserver) OnError(err error) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.errorCount++
}

// GetPhaseVisitCounts returns the number of times each phase was entered
func (o *MetricsObserver) GetPhaseVisitCounts() map[signal.Phase]int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	result := make(map[signal.Phase]int, len(o.phaseVisits))
	for phase, count := range o.phaseVisits {
		result[phase] = count
	}
	return result
}

// GetPhaseTimeSpent returns the time spent in each completed phase
func (o *MetricsObserver) GetPhaseTimeSpent() map[signal.Phase]time.Duration {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	result := make(map[signal.Phase]time.Duration, len(o.phaseTimeSpent))
	for phase, d := range o.phaseTimeSpent {
		result[phase] = d
	}
	return result
}

// GetTransitionCounts returns the number of times each transition occurred
func (o *MetricsObserver) GetTransitionCounts() map[string]int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	result := make(map[string]int, len(o.transitionCounts))
	for transition, count := range o.transitionCounts {
		result[transition] = count
	}
	return result
}

// GetErrorCount returns the number of errors
func (o *MetricsObserver) GetErrorCount() int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return o.errorCount
}

// Reset resets all metrics
func (o *MetricsObserver) Reset() {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	o.phaseVisits = make(map[signal.Phase]int)
	o.phaseTimeSpent = make(map[signal.Phase]time.Duration)
	o.transitionCounts = make(map[string]int)
	o.errorCount = 0
}
