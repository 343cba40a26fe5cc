package stats

import (
	"context"
	"fmt"

	"fightclub/internal/game"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps stats in a shared Postgres database.
type PostgresStore struct {
	Pool *pgxpool.Pool
}

// OpenPostgres connects to dsn and creates the tables when missing.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	for _, ddl := range []string{
		`CREATE TABLE IF NOT EXISTS matches (
			id UUID PRIMARY KEY,
			started_at TIMESTAMPTZ NOT NULL,
			ended_at TIMESTAMPTZ NOT NULL,
			seed BIGINT NOT NULL,
			frames INTEGER NOT NULL,
			total_players INTEGER NOT NULL,
			winner TEXT,
			draw BOOLEAN NOT NULL DEFAULT FALSE
		)`,
		`CREATE TABLE IF NOT EXISTS match_players (
			match_id UUID NOT NULL REFERENCES matches(id),
			name TEXT NOT NULL,
			placement INTEGER NOT NULL,
			kills INTEGER NOT NULL DEFAULT 0,
			hits INTEGER NOT NULL DEFAULT 0,
			crits INTEGER NOT NULL DEFAULT 0,
			damage_dealt DOUBLE PRECISION NOT NULL DEFAULT 0,
			damage_taken DOUBLE PRECISION NOT NULL DEFAULT 0,
			eliminated_at INTEGER NOT NULL DEFAULT 0,
			bonus_hp INTEGER NOT NULL DEFAULT 0,
			bonus_strength INTEGER NOT NULL DEFAULT 0,
			bonus_armor INTEGER NOT NULL DEFAULT 0,
			bonus_luck INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (match_id, name)
		)`,
		`CREATE TABLE IF NOT EXISTS kills (
			id SERIAL PRIMARY KEY,
			match_id UUID NOT NULL REFERENCES matches(id),
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
		if _, err := pool.Exec(ctx, ddl); err != nil {
			pool.Close()
			return nil, fmt.Errorf("create tables: %w", err)
		}
	}

	return &PostgresStore{Pool: pool}, nil
}

func (s *PostgresStore) SaveMatch(ctx context.Context, rec MatchRecord) error {
	id, err := uuid.Parse(rec.ID)
	if err != nil {
		return fmt.Errorf("match id: %w", err)
	}

	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var winner *string
	if rec.Winner != "" {
		winner = &rec.Winner
	}

	batch := &pgx.Batch{}
	batch.Queue(
		`INSERT INTO matches (id, started_at, ended_at, seed, frames, total_players, winner, draw)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		id, rec.StartedAt, rec.EndedAt, rec.Seed, rec.Frames, len(rec.Players), winner, rec.Draw)
	for _, p := range rec.Players {
		batch.Queue(
			`INSERT INTO match_players
			 (match_id, name, placement, kills, hits, crits, damage_dealt, damage_taken, eliminated_at,
			  bonus_hp, bonus_strength, bonus_armor, bonus_luck)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
			id, p.Name, p.Placement, p.Tally.Kills, p.Tally.HitsLanded, p.Tally.Crits,
			p.Tally.DamageDealt, p.Tally.DamageTaken, p.Tally.EliminatedAt,
			p.Bonuses.HP, p.Bonuses.Strength, p.Bonuses.Armor, p.Bonuses.Luck)
	}
	for _, k := range rec.Kills {
		batch.Queue(
			`INSERT INTO kills (match_id, frame, killer, victim, placement) VALUES ($1, $2, $3, $4, $5)`,
			id, k.Frame, k.Killer, k.Victim, k.Placement)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("save match %s: %w", rec.ID, err)
	}
	return tx.Commit(ctx)
}

func (s *PostgresStore) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	rows, err := s.Pool.Query(ctx, leaderboardQuery("$1"), limit)
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

func (s *PostgresStore) Bonuses(ctx context.Context) (map[string]game.Bonuses, error) {
	rows, err := s.Pool.Query(ctx,
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

func (s *PostgresStore) SetBonuses(ctx context.Context, name string, b game.Bonuses) error {
	_, err := s.Pool.Exec(ctx, upsertBonusesQuery("$1, $2, $3, $4, $5"),
		name, b.HP, b.Strength, b.Armor, b.Luck)
	if err != nil {
		return fmt.Errorf("set bonuses for %s: %w", name, err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.Pool.Close()
	return nil
}
