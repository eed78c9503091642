// Package spawn produces requests for new agents at the edges of the world
package spawn

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/anggasct/crossroads/pkg/layout"
)

// Request asks for one agent. Direction is the edge code 0..3
// (left, right, top, bottom), see layout.HeadingFromDirection.
type Request struct {
	Kind      layout.Kind
	Direction int
	Turn      layout.Turn
}

func (r Request) String() string {
	return fmt.Sprintf("%s dir=%d turn=%s", r.Kind, r.Direction, r.Turn)
}

// Generator draws requests uniformly over kinds, directions and turns
type Generator struct {
	mutex sync.Mutex
	rng   *rand.Rand
	kinds []layout.Kind
	turns []layout.Turn
}

// GeneratorOption configures a Generator
type GeneratorOption func(*Generator)

// WithKinds restricts the kinds drawn
func WithKinds(kinds ...layout.Kind) GeneratorOption {
	return func(g *Generator) {
		if len(kinds) > 0 {
			g.kinds = append([]layout.Kind(nil), kinds...)
		}
	}
}

// WithTurns restricts the manoeuvres drawn
func WithTurns(turns ...layout.Turn) GeneratorOption {
	return func(g *Generator) {
		if len(turns) > 0 {
			g.turns = append([]layout.Turn(nil), turns...)
		}
	}
}

// NewGenerator creates a generator seeded with seed
func NewGenerator(seed int64, opts ...GeneratorOption) *Generator {
	g := &Generator{
		rng:   rand.New(rand.NewSource(seed)),
		kinds: layout.Kinds,
		turns: layout.Turns,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Next draws one request
func (g *Generator) Next() Request {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	return Request{
		Kind:      g.kinds[g.rng.Intn(len(g.kinds))],
		Direction: g.rng.Intn(len(layout.Headings)),
		Turn:      g.turns[g.rng.Intn(len(g.turns))],
	}
}

// Run publishes a request every interval until ctx is cancelled, then closes out.
// A send blocks until the consumer is ready or ctx is done.
func (g *Generator) Run(ctx context.Context, every time.Duration, out chan<- Request) error {
	defer close(out)

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			select {
			case out <- g.Next():
			case <-ctx.Done():
				return nil
			}
		}
	}
}
