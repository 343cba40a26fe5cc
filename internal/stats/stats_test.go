package stats

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"fightclub/internal/game"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "stats.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func record(winner string, players ...PlayerRecord) MatchRecord {
	start := time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC)
	return MatchRecord{
		ID:        uuid.NewString(),
		StartedAt: start,
		EndedAt:   start.Add(90 * time.Second),
		Seed:      7,
		Frames:    5400,
		Winner:    winner,
		Players:   players,
		Kills:     []game.EliminationEvent{{Frame: 100, Killer: winner, Victim: "x", Placement: 2}},
	}
}

func player(name string, placement, kills int, damage float64) PlayerRecord {
	return PlayerRecord{Standing: game.Standing{
		Placement: placement,
		Name:      name,
		Tally:     game.Tally{Kills: kills, DamageDealt: damage, Placement: placement},
	}}
}

// exerciseStore runs the behaviour every backend must share.
func exerciseStore(t *testing.T, store Store) {
	ctx := context.Background()

	require.NoError(t, store.SaveMatch(ctx, record("ana", player("ana", 1, 2, 40), player("bo", 2, 0, 15), player("cy", 3, 0, 5))))
	require.NoError(t, store.SaveMatch(ctx, record("bo", player("bo", 1, 1, 30), player("ana", 2, 0, 20))))
	require.NoError(t, store.SaveMatch(ctx, record("ana", player("ana", 1, 1, 10), player("cy", 2, 0, 0))))

	board, err := store.Leaderboard(ctx, 10)
	require.NoError(t, err)
	require.Len(t, board, 3)
	assert.Equal(t, LeaderboardEntry{Name: "ana", Matches: 3, Wins: 2, Kills: 3, DamageDealt: 70, AvgPlacement: 4.0 / 3}, board[0])
	assert.Equal(t, "bo", board[1].Name)
	assert.Equal(t, "cy", board[2].Name)
	assert.Equal(t, 2.5, board[2].AvgPlacement)

	top, err := store.Leaderboard(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, top, 1)

	dup := record("ana", player("ana", 1, 0, 0))
	require.NoError(t, store.SaveMatch(ctx, dup))
	assert.Error(t, store.SaveMatch(ctx, dup), "match ids are unique")

	bonuses, err := store.Bonuses(ctx)
	require.NoError(t, err)
	assert.Empty(t, bonuses)

	require.NoError(t, store.SetBonuses(ctx, "ana", game.Bonuses{HP: 10, Luck: 5}))
	require.NoError(t, store.SetBonuses(ctx, "ana", game.Bonuses{HP: 20}))
	require.NoError(t, store.SetBonuses(ctx, "bo", game.Bonuses{Armor: 30}))

	bonuses, err = store.Bonuses(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]game.Bonuses{
		"ana": {HP: 20},
		"bo":  {Armor: 30},
	}, bonuses)
}

func TestSQLiteStore(t *testing.T) {
	exerciseStore(t, openTestSQLite(t))
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("FIGHTCLUB_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("FIGHTCLUB_TEST_POSTGRES_DSN not set")
	}

	store, err := Open(context.Background(), dsn)
	require.NoError(t, err)
	defer store.Close()

	pg := store.(*PostgresStore)
	for _, table := range []string{"kills", "match_players", "matches", "player_attributes"} {
		_, err := pg.Pool.Exec(context.Background(), "DELETE FROM "+table)
		require.NoError(t, err)
	}
	exerciseStore(t, store)
}

func TestOpenPicksSQLiteForPaths(t *testing.T) {
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "stats.db"))
	require.NoError(t, err)
	defer store.Close()
	assert.IsType(t, &SQLiteStore{}, store)
}

func TestRecorderSavesFinishedMatch(t *testing.T) {
	store := openTestSQLite(t)
	rec := NewRecorder(context.Background(), store)

	m, err := game.NewMatch([]game.Participant{
		{Name: "ana", Bonuses: game.Bonuses{Strength: 50}},
		{Name: "bo"},
		{Name: "cy"},
	}, game.WithSeed(3), game.WithSink(rec))
	require.NoError(t, err)

	result, err := m.Simulate(500000)
	require.NoError(t, err)
	require.NoError(t, rec.Wait())

	board, err := store.Leaderboard(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, board, 3)
	assert.Equal(t, result.Winner, board[0].Name)
	assert.Equal(t, 1, board[0].Wins)

	var kills int
	require.NoError(t, store.db.QueryRow(`SELECT COUNT(*) FROM kills`).Scan(&kills))
	assert.Equal(t, 2, kills)

	var strength int
	require.NoError(t, store.db.QueryRow(`SELECT bonus_strength FROM match_players WHERE name = 'ana'`).Scan(&strength))
	assert.Equal(t, 50, strength)
}

func TestRecorderWithoutMatch(t *testing.T) {
	rec := NewRecorder(context.Background(), openTestSQLite(t))
	rec.Eliminated(game.EliminationEvent{Victim: "nobody"})
	rec.MatchEnded(game.Result{})
	assert.NoError(t, rec.Wait())
}
