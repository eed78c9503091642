package spawn

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anggasct/crossroads/pkg/layout"
)

func TestGenerator_Deterministic(t *testing.T) {
	a := NewGenerator(42)
	b := NewGenerator(42)

	for i := 0; i < 50; i++ {
		assert.Equal(t, a.Next(), b.Next())
	}
}

func TestGenerator_Ranges(t *testing.T) {
	g := NewGenerator(7)

	seenKinds := map[layout.Kind]bool{}
	seenDirs := map[int]bool{}
	seenTurns := map[layout.Turn]bool{}
	for i := 0; i < 500; i++ {
		req := g.Next()
		require.GreaterOrEqual(t, req.Direction, 0)
		require.LessOrEqual(t, req.Direction, 3)
		seenKinds[req.Kind] = true
		seenDirs[req.Direction] = true
		seenTurns[req.Turn] = true
	}

	assert.Len(t, seenKinds, 4)
	assert.Len(t, seenDirs, 4)
	assert.Len(t, seenTurns, 3)
}

func TestGenerator_Options(t *testing.T) {
	g := NewGenerator(1, WithKinds(layout.Bus), WithTurns(layout.TurnLeft))

	for i := 0; i < 20; i++ {
		req := g.Next()
		assert.Equal(t, layout.Bus, req.Kind)
		assert.Equal(t, layout.TurnLeft, req.Turn)
	}
}

func TestGenerator_Run(t *testing.T) {
	g := NewGenerator(3)
	out := make(chan Request)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- g.Run(ctx, time.Millisecond, out) }()

	for i := 0; i < 3; i++ {
		select {
		case req := <-out:
			assert.True(t, req.Kind <= layout.Pedestrian)
		case <-time.After(time.Second):
			t.Fatal("no request published")
		}
	}

	cancel()
	require.NoError(t, <-done)

	_, open := <-out
	assert.False(t, open, "out is closed when Run returns")
}

func TestRequest_String(t *testing.T) {
	req := Request{Kind: layout.Bicycle, Direction: 2, Turn: layout.TurnRight}
	assert.Equal(t, "bicycle dir=2 turn=right", req.String())
}
