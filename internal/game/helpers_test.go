package game

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// recordingSink keeps every event for assertions.
type recordingSink struct {
	starts       []MatchStart
	hits         []HitEvent
	eliminations []EliminationEvent
	results      []Result
}

func (s *recordingSink) MatchStarted(e MatchStart)     { s.starts = append(s.starts, e) }
func (s *recordingSink) Hit(e HitEvent)                { s.hits = append(s.hits, e) }
func (s *recordingSink) Eliminated(e EliminationEvent) { s.eliminations = append(s.eliminations, e) }
func (s *recordingSink) MatchEnded(r Result)           { s.results = append(s.results, r) }

func (s *recordingSink) hitsBy(name string) int {
	n := 0
	for _, h := range s.hits {
		if h.Attacker == name {
			n++
		}
	}
	return n
}

func roster(n int) []Participant {
	out := make([]Participant, n)
	for i := range out {
		out[i] = Participant{Name: fmt.Sprintf("fighter%02d", i)}
	}
	return out
}

func newTestMatch(t *testing.T, participants []Participant, opts ...Option) (*Match, *recordingSink) {
	t.Helper()
	sink := &recordingSink{}
	opts = append([]Option{WithSeed(42), WithSink(sink)}, opts...)
	m, err := NewMatch(participants, opts...)
	require.NoError(t, err)
	return m, sink
}

// placeAt pins a combatant at p with no velocity.
func placeAt(c *Combatant, x, y float64) {
	c.Pos = Vec2{X: x, Y: y}
	c.Vel = Vec2{}
}
