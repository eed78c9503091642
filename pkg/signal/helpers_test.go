package signal

import (
	"sync"
	"testing"
	"time"
)

// TestObserver is a mock observer for testing that captures all observer events
type TestObserver struct {
	mutex       sync.RWMutex
	Transitions []Transition
	Enters      []State
	Exits       []State
	Errors      []error
	Started     []State
	Stopped     []State
}

// NewTestObserver creates a new test observer
func NewTestObserver() *TestObserver {
	return &TestObserver{}
}

func (o *TestObserver) OnTransition(t Transition) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Transitions = append(o.Transitions, t)
}

func (o *TestObserver) OnPhaseEnter(state State) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Enters = append(o.Enters, state)
}

func (o *TestObserver) OnPhaseExit(state State) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Exits = append(o.Exits, state)
}

func (o *TestObserver) OnError(err error) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Errors = append(o.Errors, err)
}

func (o *TestObserver) OnClockStarted(state State) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Started = append(o.Started, state)
}

func (o *TestObserver) OnClockStopped(state State) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Stopped = append(o.Stopped, state)
}

func (o *TestObserver) TransitionCount() int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return len(o.Transitions)
}

func (o *TestObserver) ErrorCount() int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return len(o.Errors)
}

// fakeNow is a controllable time source
type fakeNow struct {
	mutex sync.Mutex
	t     time.Time
}

func newFakeNow() *fakeNow {
	return &fakeNow{t: time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)}
}

func (f *fakeNow) Now() time.Time {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.t
}

func (f *fakeNow) Advance(d time.Duration) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.t = f.t.Add(d)
}

func newTestController(t *testing.T, opts ...Option) *Controller {
	t.Helper()
	c, err := NewController(DefaultTimings(), opts...)
	if err != nil {
		t.Fatalf("Expected no error creating controller, got: %v", err)
	}
	return c
}
