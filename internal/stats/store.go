package stats

import (
	"context"
	"strings"
	"time"

	"fightclub/internal/game"
)

// MatchRecord is everything persisted about one finished match.
type MatchRecord struct {
	ID        string
	StartedAt time.Time
	EndedAt   time.Time
	Seed      int64
	Frames    int
	Winner    string
	Draw      bool
	Players   []PlayerRecord
	Kills     []game.EliminationEvent
}

// PlayerRecord is one participant's final line.
type PlayerRecord struct {
	game.Standing
	Bonuses game.Bonuses
}

// LeaderboardEntry aggregates a participant over every stored match.
type LeaderboardEntry struct {
	Name         string  `json:"name"`
	Matches      int     `json:"matches"`
	Wins         int     `json:"wins"`
	Kills        int     `json:"kills"`
	DamageDealt  float64 `json:"damageDealt"`
	AvgPlacement float64 `json:"avgPlacement"`
}

// Store persists match results and participant attribute bonuses.
type Store interface {
	SaveMatch(ctx context.Context, rec MatchRecord) error
	Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error)
	Bonuses(ctx context.Context) (map[string]game.Bonuses, error)
	SetBonuses(ctx context.Context, name string, b game.Bonuses) error
	Close() error
}

// Open picks a backend from the DSN: postgres:// and postgresql:// URLs go
// to Postgres, anything else is a SQLite file path.
func Open(ctx context.Context, dsn string) (Store, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		store, err := OpenPostgres(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return store, nil
	}

	store, err := OpenSQLite(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return store, nil
}
