package signal

import (
	"fmt"
	"sync"
)

// Observer represents an entity that observes the signal cycle
type Observer interface {
	// OnTransition is called after the controller moved to a new phase
	OnTransition(t Transition)

	// OnPhaseEnter is called when a phase becomes active, including the initial one
	OnPhaseEnter(state State)
}

// ExtendedObserver provides additional optional observation methods
type ExtendedObserver interface {
	Observer

	// OnPhaseExit is called when a phase is left
	OnPhaseExit(state State)

	// OnError is called when an observer or the driver reports a failure
	OnError(err error)

	// OnClockStarted is called when a phase clock starts driving the controller
	OnClockStarted(state State)

	// OnClockStopped is called when a phase clock has been joined
	OnClockStopped(state State)
}

// BaseObserver provides a default implementation with no-op methods
type BaseObserver struct{}

// OnTransition implements the required Observer method
func (o *BaseObserver) OnTransition(t Transition) {}

// OnPhaseEnter implements the required Observer method
func (o *BaseObserver) OnPhaseEnter(state State) {}

// OnPhaseExit implements the optional ExtendedObserver method
func (o *BaseObserver) OnPhaseExit(state State) {}

// OnError implements the optional ExtendedObserver method
func (o *BaseObserver) OnError(err error) {}

// OnClockStarted implements the optional ExtendedObserver method
func (o *BaseObserver) OnClockStarted(state State) {}

// OnClockStopped implements the optional ExtendedObserver method
func (o *BaseObserver) OnClockStopped(state State) {}

// ObserverManager manages a collection of observers.
// Notifications run on the caller's goroutine, usually the phase clock.
type ObserverManager struct {
	mutex     sync.RWMutex
	observers []Observer
}

// NewObserverManager creates a new observer manager
func NewObserverManager() *ObserverManager {
	return &ObserverManager{
		observers: make([]Observer, 0),
	}
}

// AddObserver adds an observer to the manager
func (om *ObserverManager) AddObserver(observer Observer) {
	om.mutex.Lock()
	defer om.mutex.Unlock()
	om.observers = append(om.observers, observer)
}

// RemoveObserver removes an observer from the manager
func (om *ObserverManager) RemoveObserver(observer Observer) {
	om.mutex.Lock()
	defer om.mutex.Unlock()
	for i, obs := range om.observers {
		if obs == observer {
			om.observers = append(om.observers[:i], om.observers[i+1:]...)
			break
		}
	}
}

// Len returns the number of registered observers
func (om *ObserverManager) Len() int {
	om.mutex.RLock()
	defer om.mutex.RUnlock()
	return len(om.observers)
}

func (om *ObserverManager) snapshot() []Observer {
	om.mutex.RLock()
	defer om.mutex.RUnlock()
	observers := make([]Observer, len(om.observers))
	copy(observers, om.observers)
	return observers
}

// guard runs fn and turns a panic into an OnError notification on the same observer
func guard(observer Observer, method string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			if extObs, ok := observer.(ExtendedObserver); ok {
				func() {
					defer func() { recover() }()
					extObs.OnError(fmt.Errorf("observer panic in %s: %v", method, r))
				}()
			}
		}
	}()
	fn()
}

// NotifyTransition notifies all observers of a phase change
func (om *ObserverManager) NotifyTransition(t Transition) {
	for _, observer := range om.snapshot() {
		observer := observer
		guard(observer, "OnTransition", func() { observer.OnTransition(t) })
	}
}

// NotifyPhaseEnter notifies all observers of phase entry
func (om *ObserverManager) NotifyPhaseEnter(state State) {
	for _, observer := range om.snapshot() {
		observer := observer
		guard(observer, "OnPhaseEnter", func() { observer.OnPhaseEnter(state) })
	}
}

// NotifyPhaseExit notifies extended observers of phase exit
func (om *ObserverManager) NotifyPhaseExit(state State) {
	for _, observer := range om.snapshot() {
		if extObs, ok := observer.(ExtendedObserver); ok {
			guard(observer, "OnPhaseExit", func() { extObs.OnPhaseExit(state) })
		}
	}
}

// NotifyError notifies extended observers of errors
func (om *ObserverManager) NotifyError(err error) {
	for _, observer := range om.snapshot() {
		if extObs, ok := observer.(ExtendedObserver); ok {
			func() {
				defer func() { recover() }()
				extObs.OnError(err)
			}()
		}
	}
}

// NotifyClockStarted notifies extended observers that a clock took over the controller
func (om *ObserverManager) NotifyClockStarted(state State) {
	for _, observer := range om.snapshot() {
		if extObs, ok := observer.(ExtendedObserver); ok {
			guard(observer, "OnClockStarted", func() { extObs.OnClockStarted(state) })
		}
	}
}

// NotifyClockStopped notifies extended observers that the clock was joined
func (om *ObserverManager) NotifyClockStopped(state State) {
	for _, observer := range om.snapshot() {
		if extObs, ok := observer.(ExtendedObserver); ok {
			guard(observer, "OnClockStopped", func() { extObs.OnClockStopped(state) })
		}
	}
}
