package stats

import (
	"context"
	"database/sql"
	"fmt"

	"fightclub/internal/game"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps stats in a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens or creates the stats database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("pragma %s: %w", pragma, err)
		}
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	for _, ddl := range []string{
		`CREATE TABLE IF NOT EXISTS matches (
			id TEXT PRIMARY KEY,
			started_at DATETIME NOT NULL,
			ended_at DATETIME NOT NULL,
			seed INTEGER NOT NULL,
			frames INTEGER NOT NULL,
			total_players INTEGER NOT NULL,
			winner TEXT,
			draw INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS match_players (
			match_id TEXT NOT NULL REFERENCES matches(id),
			name TEXT NOT NULL,
			placement INTEGER NOT NULL,
			kills INTEGER NOT NULL DEFAULT 0,
			hits INTEGER NOT NULL DEFAULT 0,
			crits INTEGER NOT NULL DEFAULT 0,
			damage_dealt REAL NOT NULL DEFAULT 0,
			damage_taken REAL NOT NULL DEFAULT 0,
			eliminated_at INTEGER NOT NULL DEFAULT 0,
			bonus_hp INTEGER NOT NULL DEFAULT 0,
			bonus_strength INTEGER NOT NULL DEFAULT 0,
			bonus_armor INTEGER NOT NULL DEFAULT 0,
			bonus_luck INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (match_id, name)
		)`,
		`CREATE TABLE IF NOT EXISTS kills (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			match_id TEXT NOT NULL REFERENCES matches(id),
			frame INTEGER NOT NULL,
			killer TEXT NOT NULL,
			victim TEXT NOT NULL,
			placement INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS player_attributes (
			name TEXT PRIMARY KEY,
			bonus_hp INTEGER NOT NULL DEFAULT 0,
			bonus_strength INTEGER NOT NULL DEFAULT 0,
			bonus_armor INTEGER NOT NULL DEFAULT 0,
			bonus_luck INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_match_players_name ON match_players(name)`,
	} {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			db.Close()
			return nil, fmt.Errorf("create tables: %w", err)
		}
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) SaveMatch(ctx context.Context, rec MatchRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO matches (id, started_at, ended_at, seed, frames, total_players, winner, draw)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.StartedAt.UTC(), rec.EndedAt.UTC(), rec.Seed, rec.Frames, len(rec.Players), nullString(rec.Winner), rec.Draw)
	if err != nil {
		return fmt.Errorf("insert match: %w", err)
	}

	for _, p := range rec.Players {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO match_players
			 (match_id, name, placement, kills, hits, crits, damage_dealt, damage_taken, eliminated_at,
			  bonus_hp, bonus_strength, bonus_armor, bonus_luck)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			rec.ID, p.Name, p.Placement, p.Tally.Kills, p.Tally.HitsLanded, p.Tally.Crits,
			p.Tally.DamageDealt, p.Tally.DamageTaken, p.Tally.EliminatedAt,
			p.Bonuses.HP, p.Bonuses.Strength, p.Bonuses.Armor, p.Bonuses.Luck)
		if err != nil {
			return fmt.Errorf("insert player %s: %w", p.Name, err)
		}
	}

	for _, k := range rec.Kills {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO kills (match_id, frame, killer, victim, placement) VALUES (?, ?, ?, ?, ?)`,
			rec.ID, k.Frame, k.Killer, k.Victim, k.Placement)
		if err != nil {
			return fmt.Errorf("insert kill: %w", err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	rows, err := s.db.QueryContext(ctx, leaderboardQuery("?"), limit)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []LeaderboardEntry
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.Name, &e.Matches, &e.Wins, &e.Kills, &e.DamageDealt, &e.AvgPlacement); err != nil {
			return nil, fmt.Errorf("scan leaderboard: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *SQLiteStore) Bonuses(ctx context.Context) (map[string]game.Bonuses, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, bonus_hp, bonus_strength, bonus_armor, bonus_luck FROM player_attributes`)
	if err != nil {
		return nil, fmt.Errorf("query bonuses: %w", err)
	}
	defer rows.Close()

	bonuses := make(map[string]game.Bonuses)
	for rows.Next() {
		var name string
		var b game.Bonuses
		if err := rows.Scan(&name, &b.HP, &b.Strength, &b.Armor, &b.Luck); err != nil {
			return nil, fmt.Errorf("scan bonuses: %w", err)
		}
		bonuses[name] = b
	}
	return bonuses, rows.Err()
}

func (s *SQLiteStore) SetBonuses(ctx context.Context, name string, b game.Bonuses) error {
	_, err := s.db.ExecContext(ctx, upsertBonusesQuery("?, ?, ?, ?, ?"),
		name, b.HP, b.Strength, b.Armor, b.Luck)
	if err != nil {
		return fmt.Errorf("set bonuses for %s: %w", name, err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// leaderboardQuery is shared by both backends, only the placeholder differs.
func leaderboardQuery(limit string) string {
	return `SELECT name,
		COUNT(*),
		SUM(CASE WHEN placement = 1 THEN 1 ELSE 0 END),
		SUM(kills),
		SUM(damage_dealt),
		CAST(AVG(placement) AS DOUBLE PRECISION)
	FROM match_players
	GROUP BY name
	ORDER BY 3 DESC, 4 DESC, name
	LIMIT ` + limit
}

func upsertBonusesQuery(values string) string {
	return `INSERT INTO player_attributes (name, bonus_hp, bonus_strength, bonus_armor, bonus_luck)
		VALUES (` + values + `)
		ON CONFLICT (name) DO UPDATE SET
			bonus_hp = excluded.bonus_hp,
			bonus_strength = excluded.bonus_strength,
			bonus_armor = excluded.bonus_armor,
			bonus_luck = excluded.bonus_luck`
}
