package signal

import (
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anggasct/crossroads/pkg/utils"
)

func TestPhase_Cycle(t *testing.T) {
	expected := []Phase{GreenHorizontal, OrangeHorizontal, RedHorizontalOrangeVertical, RedHorizontal}

	p := RedHorizontal
	for i, want := range expected {
		p = p.Next()
		assert.Equal(t, want, p, "step %d", i+1)
	}

	for _, start := range Phases {
		p := start
		for i := 0; i < 4; i++ {
			p = p.Next()
		}
		assert.Equal(t, start, p, "four steps from %s return to it", start)
	}
}

func TestPhase_Permits(t *testing.T) {
	tests := []struct {
		phase      Phase
		horizontal bool
		vertical   bool
	}{
		{RedHorizontal, false, false},
		{GreenHorizontal, true, false},
		{OrangeHorizontal, false, false},
		{RedHorizontalOrangeVertical, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.phase.String(), func(t *testing.T) {
			assert.Equal(t, tt.horizontal, tt.phase.Permits(true))
			assert.Equal(t, tt.vertical, tt.phase.Permits(false))
		})
	}
}

func TestPhase_Lamps(t *testing.T) {
	assert.Equal(t, Lamps{Horizontal: Red, Vertical: Orange}, RedHorizontal.Lamps())
	assert.Equal(t, Lamps{Horizontal: Green, Vertical: Red}, GreenHorizontal.Lamps())
	assert.Equal(t, Lamps{Horizontal: Orange, Vertical: Red}, OrangeHorizontal.Lamps())
	assert.Equal(t, Lamps{Horizontal: Red, Vertical: Green}, RedHorizontalOrangeVertical.Lamps())
}

func TestParsePhase(t *testing.T) {
	for _, p := range Phases {
		parsed, err := ParsePhase(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, parsed)
	}

	_, err := ParsePhase("blue")
	assert.Error(t, err)
	assert.Equal(t, "phase(9)", Phase(9).String())
}

func TestTimings(t *testing.T) {
	timings := DefaultTimings()

	assert.Equal(t, 30*time.Second, timings.Duration(RedHorizontal))
	assert.Equal(t, 5*time.Second, timings.Duration(GreenHorizontal))
	assert.Equal(t, 5*time.Second, timings.Duration(OrangeHorizontal))
	assert.Equal(t, 30*time.Second, timings.Duration(RedHorizontalOrangeVertical))
	assert.Equal(t, 70*time.Second, timings.Cycle())

	fast := timings.Scale(10)
	assert.Equal(t, 3*time.Second, fast.RedHorizontal)
	assert.Equal(t, 500*time.Millisecond, fast.GreenHorizontal)
	assert.Equal(t, timings, timings.Scale(0))

	bad := timings
	bad.OrangeHorizontal = 0
	bad.GreenHorizontal = -time.Second
	err := bad.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, utils.ErrInvalidTiming))
	assert.Len(t, err.(*utils.ErrorCollector).GetErrors(), 2)
}

func TestController_StartsRed(t *testing.T) {
	observer := NewTestObserver()
	c := newTestController(t, WithObserver(observer))

	assert.Equal(t, RedHorizontal, c.Current())
	require.Len(t, observer.Enters, 1)
	assert.Equal(t, RedHorizontal, observer.Enters[0].Phase)
}

func TestController_RejectsInvalidTimings(t *testing.T) {
	_, err := NewController(Timings{})
	require.Error(t, err)
	assert.True(t, utils.IsConfigurationError(err))
}

func TestController_AdvanceCycle(t *testing.T) {
	observer := NewTestObserver()
	c := newTestController(t)
	c.AddObserver(observer)

	sequence := []Phase{GreenHorizontal, OrangeHorizontal, RedHorizontalOrangeVertical, RedHorizontal}
	for _, want := range sequence {
		assert.Equal(t, want, c.Advance())
		assert.Equal(t, want, c.Current())
	}

	require.Equal(t, 4, observer.TransitionCount())
	for i, tr := range observer.Transitions {
		assert.Equal(t, uint64(i+1), tr.Sequence)
		assert.Equal(t, tr.From.Next(), tr.To)
		assert.Equal(t, DefaultTimings().Duration(tr.To), tr.Duration)
	}
	assert.Len(t, observer.Exits, 4)
	assert.Equal(t, uint64(4), c.Snapshot().Sequence)
}

func TestController_RemainingResetsOnAdvance(t *testing.T) {
	clock := newFakeNow()
	c := newTestController(t, WithNow(clock.Now))

	assert.Equal(t, 30*time.Second, c.Remaining())

	clock.Advance(12 * time.Second)
	assert.Equal(t, 18*time.Second, c.Remaining())

	clock.Advance(time.Minute)
	assert.Equal(t, time.Duration(0), c.Remaining(), "remaining is floored at zero")

	c.Advance()
	state := c.Snapshot()
	assert.Equal(t, GreenHorizontal, state.Phase)
	assert.Equal(t, 5*time.Second, state.Remaining)
	assert.Equal(t, clock.Now(), state.EnteredAt)
}

func TestController_TransitionElapsed(t *testing.T) {
	clock := newFakeNow()
	observer := NewTestObserver()
	c := newTestController(t, WithNow(clock.Now), WithObserver(observer))

	clock.Advance(31 * time.Second)
	c.Advance()

	require.Equal(t, 1, observer.TransitionCount())
	assert.Equal(t, 31*time.Second, observer.Transitions[0].Elapsed)
}

func TestController_SetTimingsNotRetroactive(t *testing.T) {
	c := newTestController(t)

	updated := DefaultTimings()
	updated.RedHorizontal = time.Second
	updated.GreenHorizontal = 2 * time.Second
	require.NoError(t, c.SetTimings(updated))

	assert.Equal(t, 30*time.Second, c.Snapshot().Duration, "active phase keeps its duration")

	c.Advance()
	assert.Equal(t, 2*time.Second, c.Snapshot().Duration)

	assert.Error(t, c.SetTimings(Timings{}))
	assert.Equal(t, updated, c.Timings())
}

func TestController_InitialPhaseOption(t *testing.T) {
	c := newTestController(t, WithInitialPhase(OrangeHorizontal))
	assert.Equal(t, OrangeHorizontal, c.Current())
	assert.Equal(t, 5*time.Second, c.Snapshot().Duration)

	c = newTestController(t, WithInitialPhase(Phase(42)))
	assert.Equal(t, RedHorizontal, c.Current())
}

func TestController_ConcurrentReadersOneWriter(t *testing.T) {
	c := newTestController(t)

	const readers = 8
	const advances = 2000
	const minReads = readers * 200

	var wg sync.WaitGroup
	var started sync.WaitGroup
	var invalid atomic.Int64
	var reads atomic.Int64
	var overlapped atomic.Int64
	var writing atomic.Bool
	done := make(chan struct{})

	read := func() {
		p := c.Current()
		if !p.Valid() {
			invalid.Add(1)
		}
		s := c.Snapshot()
		if !s.Phase.Valid() || s.Duration != DefaultTimings().Duration(s.Phase) {
			invalid.Add(1)
		}
		if writing.Load() {
			overlapped.Add(1)
		}
		reads.Add(1)
	}

	for i := 0; i < readers; i++ {
		wg.Add(1)
		started.Add(1)
		go func() {
			defer wg.Done()
			read()
			started.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				read()
				runtime.Gosched()
			}
		}()
	}

	started.Wait()
	writing.Store(true)
	for i := 0; i < advances; i++ {
		c.Advance()
		runtime.Gosched()
	}
	writing.Store(false)
	for reads.Load() < minReads {
		runtime.Gosched()
	}
	close(done)
	wg.Wait()

	assert.Zero(t, invalid.Load(), "readers observed a torn phase")
	assert.GreaterOrEqual(t, reads.Load(), int64(minReads))
	assert.Positive(t, overlapped.Load(), "no read ran while the writer was active")
	assert.Equal(t, RedHorizontal, c.Current(), "2000 advances is a whole number of cycles")
	assert.Equal(t, uint64(advances), c.Snapshot().Sequence)
}

func TestController_ConcurrentWriters(t *testing.T) {
	c := newTestController(t)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Advance()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(400), c.Snapshot().Sequence)
	assert.Equal(t, RedHorizontal, c.Current())
}

type panickingObserver struct {
	TestObserver
}

func (o *panickingObserver) OnTransition(t Transition) {
	panic("boom")
}

func TestObserverManager_RecoversPanics(t *testing.T) {
	bad := &panickingObserver{}
	good := NewTestObserver()
	c := newTestController(t)
	c.AddObserver(bad)
	c.AddObserver(good)

	assert.NotPanics(t, func() { c.Advance() })
	assert.Equal(t, 1, bad.ErrorCount())
	assert.Contains(t, bad.Errors[0].Error(), "OnTransition")
	assert.Equal(t, 1, good.TransitionCount())

	c.RemoveObserver(bad)
	assert.Equal(t, 1, c.Observers().Len())
}

func TestObserverManager_NotifyError(t *testing.T) {
	plain := &plainObserver{}
	extended := NewTestObserver()
	om := NewObserverManager()
	om.AddObserver(plain)
	om.AddObserver(extended)

	failure := errors.New("spawn rejected")
	assert.NotPanics(t, func() { om.NotifyError(failure) })
	require.Equal(t, 1, extended.ErrorCount())
	assert.Equal(t, failure, extended.Errors[0])
}

type plainObserver struct{}

func (o *plainObserver) OnTransition(t Transition) {}
func (o *plainObserver) OnPhaseEnter(state State)  {}
