package game

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyRosterIsNoContest(t *testing.T) {
	assert.ErrorIs(t, ValidateRoster(nil), ErrEmptyRoster)

	m, sink := newTestMatch(t, nil)
	assert.Equal(t, PhaseEnded, m.Phase())

	result, ok := m.Result()
	require.True(t, ok)
	assert.True(t, result.Draw)
	assert.Empty(t, result.Winner)

	require.NoError(t, m.Step())
	assert.Equal(t, 0, m.Frame(), "an ended match does not advance")
	assert.Len(t, sink.starts, 1)
	assert.Len(t, sink.results, 1)
}

func TestRosterValidation(t *testing.T) {
	_, err := NewMatch([]Participant{{Name: "a"}, {Name: "a"}})
	assert.ErrorIs(t, err, ErrDuplicateName)

	_, err = NewMatch([]Participant{{Name: "a"}, {Name: "   "}})
	assert.ErrorIs(t, err, ErrBlankName)

	assert.NoError(t, ValidateRoster(roster(3)))
}

func TestInvalidTuningIsRejected(t *testing.T) {
	tuning := DefaultTuning()
	tuning.TickRate = 0
	_, err := NewMatch(roster(2), WithTuning(tuning))
	assert.ErrorIs(t, err, ErrInvalidTuning)
}

func TestSingleCombatantWinsImmediately(t *testing.T) {
	m, sink := newTestMatch(t, roster(1))

	result, ok := m.Result()
	require.True(t, ok)
	assert.Equal(t, "fighter00", result.Winner)
	assert.False(t, result.Draw)
	require.Len(t, result.Standings, 1)
	assert.Equal(t, 1, result.Standings[0].Placement)
	assert.Len(t, sink.results, 1)
}

func TestTwoCombatantDuelIsDeterministic(t *testing.T) {
	m, sink := newTestMatch(t, roster(2))
	require.Equal(t, PhaseFinalTwo, m.Phase())
	a, b := m.all[0], m.all[1]

	// Keep the pair overlapping in the middle of the arena so that every
	// frame is a contact and only the cooldown gates the exchanges.
	for m.Phase() != PhaseEnded && m.Frame() < 10000 {
		placeAt(a, 630, 360)
		placeAt(b, 640, 360)
		require.NoError(t, m.Step())
	}

	result, ok := m.Result()
	require.True(t, ok)

	// 19 full exchanges leave both on 5 health; the 20th is mutually lethal
	// and the tie goes to the earlier registered fighter.
	assert.Equal(t, "fighter00", result.Winner)
	assert.Equal(t, 20, sink.hitsBy("fighter00"))
	assert.Equal(t, 19, sink.hitsBy("fighter01"))
	assert.Equal(t, 5.0, a.Health)
	assert.True(t, b.Eliminated)
	assert.Equal(t, 1, m.Alive())
	assert.Equal(t, 1, m.Eliminations())

	require.Len(t, result.Standings, 2)
	assert.Equal(t, Standing{Placement: 1, Name: "fighter00", Tally: a.Tally}, result.Standings[0])
	assert.Equal(t, 2, result.Standings[1].Placement)
	assert.Equal(t, 100.0, result.Standings[0].Tally.DamageDealt)
}

func TestMatchesAlwaysEndWithExactlyOneWinner(t *testing.T) {
	for _, n := range []int{2, 3, 5, 8, 16, 30} {
		for seed := int64(1); seed <= 3; seed++ {
			t.Run(fmt.Sprintf("n=%d/seed=%d", n, seed), func(t *testing.T) {
				m, sink := newTestMatch(t, roster(n), WithSeed(seed))

				result, err := m.Simulate(500000)
				require.NoError(t, err)

				assert.Equal(t, 1, m.Alive())
				assert.NotEmpty(t, result.Winner)
				assert.False(t, result.Draw)
				assert.Equal(t, n-1, result.Eliminations)
				assert.Len(t, sink.eliminations, n-1)

				placements := make(map[int]bool, n)
				for _, s := range result.Standings {
					placements[s.Placement] = true
				}
				for p := 1; p <= n; p++ {
					assert.True(t, placements[p], "placement %d missing", p)
				}
			})
		}
	}
}

func TestSpeedMultiplierRespectsPhaseCaps(t *testing.T) {
	m, _ := newTestMatch(t, roster(12), WithSeed(7))
	tuning := m.Tuning()

	for m.Phase() != PhaseEnded {
		require.NoError(t, m.Step())
		for _, c := range m.active {
			if m.Alive() > tuning.FinalStretchThreshold {
				require.LessOrEqual(t, c.SpeedMultiplier, tuning.SpeedCap)
			}
			require.LessOrEqual(t, c.SpeedMultiplier, tuning.EndgameSpeedCap)
		}
		require.Less(t, m.Frame(), 500000)
	}
}

func TestEliminationsAreRemovedAtEndOfFrame(t *testing.T) {
	m, sink := newTestMatch(t, roster(4))
	a, b := m.all[0], m.all[1]
	a.Health = 1

	for i, c := range m.all {
		placeAt(c, 200+float64(i)*300, 360)
	}
	placeAt(b, 215, 360)

	require.NoError(t, m.Step())

	assert.True(t, a.Eliminated)
	assert.Equal(t, 3, m.Alive())
	assert.Equal(t, 1, m.Eliminations())
	require.Len(t, sink.eliminations, 1)
	assert.Equal(t, 4, a.Tally.Placement)
	assert.Equal(t, 1, b.Tally.Kills)
	for _, c := range m.active {
		assert.InDelta(t, InitialSize+8*0.6931471805599453, c.Size, 1e-9, "survivors grow with the elimination count")
	}
}

func TestEndgameSteersAwayFromCorners(t *testing.T) {
	m, _ := newTestMatch(t, roster(3))
	c := m.all[0]
	c.Pos = Vec2{X: 60, Y: 60}
	c.Vel = Vec2{X: -3, Y: 0}
	for i, other := range m.all[1:] {
		placeAt(other, 600+float64(i)*200, 360)
		other.Vel = Vec2{X: 0, Y: 3}
	}

	m.applyEndgame()

	assert.Greater(t, c.Vel.X, -3.0)
	assert.Greater(t, c.Vel.Y, 0.0)
	assert.Greater(t, c.SpeedMultiplier, 1.0)
	assert.Equal(t, InitialSize+m.tuning.EndgameGrowth, c.Size)
}

func TestZeroSurvivorsIsAnError(t *testing.T) {
	m, _ := newTestMatch(t, roster(2))
	for _, c := range m.all {
		c.Eliminated = true
	}

	err := m.Step()
	assert.ErrorIs(t, err, ErrNoSurvivors)
	_, ok := m.Result()
	assert.False(t, ok, "a broken match never reports a draw")
}

func TestRunStopsOnCancel(t *testing.T) {
	m, _ := newTestMatch(t, roster(10))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.Run(ctx, nil)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRunPublishesUntilWinner(t *testing.T) {
	tuning := DefaultTuning()
	tuning.TickRate = 1000
	m, _ := newTestMatch(t, roster(2), WithTuning(tuning))
	m.all[1].Health = 1
	placeAt(m.all[0], 630, 360)
	placeAt(m.all[1], 640, 360)

	var published []Snapshot
	result, err := m.Run(context.Background(), func(s Snapshot) { published = append(published, s) })
	require.NoError(t, err)

	assert.Equal(t, "fighter00", result.Winner)
	require.GreaterOrEqual(t, len(published), 2)
	last := published[len(published)-1]
	assert.Equal(t, "ended", last.Phase)
	assert.Equal(t, "fighter00", last.Winner)
}
