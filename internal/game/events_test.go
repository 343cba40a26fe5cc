package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSinksFanOutInOrder(t *testing.T) {
	first, second := &recordingSink{}, &recordingSink{}
	m, err := NewMatch(roster(2), WithSeed(9), WithSink(Sinks{first, NopSink{}, second}))
	require.NoError(t, err)

	a, b := m.all[0], m.all[1]
	b.Health = 1
	placeAt(a, 600, 360)
	placeAt(b, 610, 360)
	require.NoError(t, m.Step())

	for _, sink := range []*recordingSink{first, second} {
		require.Len(t, sink.starts, 1)
		assert.Equal(t, int64(9), sink.starts[0].Seed)
		assert.Len(t, sink.hits, 1)
		require.Len(t, sink.eliminations, 1)
		assert.Equal(t, EliminationEvent{Frame: 1, Killer: "fighter00", Victim: "fighter01", Placement: 2}, sink.eliminations[0])
		require.Len(t, sink.results, 1)
		assert.Equal(t, "fighter00", sink.results[0].Winner)
	}
}
