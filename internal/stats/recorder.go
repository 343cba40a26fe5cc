package stats

import (
	"context"
	"log"
	"strings"
	"time"

	"fightclub/internal/game"

	"github.com/google/uuid"
)

// Recorder is a game.EventSink that collects a match in memory and saves it
// to a Store once the match ends. Saving happens on its own goroutine so the
// simulation never waits on the database.
type Recorder struct {
	ctx   context.Context
	store Store
	now   func() time.Time

	current *MatchRecord
	bonuses map[string]game.Bonuses

	done chan struct{}
	err  error
}

// NewRecorder returns a recorder that saves through store. ctx bounds every
// save.
func NewRecorder(ctx context.Context, store Store) *Recorder {
	return &Recorder{ctx: ctx, store: store, now: time.Now}
}

func (r *Recorder) MatchStarted(e game.MatchStart) {
	r.current = &MatchRecord{
		ID:        uuid.NewString(),
		StartedAt: r.now(),
		Seed:      e.Seed,
	}
	r.bonuses = make(map[string]game.Bonuses, len(e.Roster))
	for _, p := range e.Roster {
		r.bonuses[strings.TrimSpace(p.Name)] = p.Bonuses.Clamped()
	}
}

func (r *Recorder) Hit(game.HitEvent) {}

func (r *Recorder) Eliminated(e game.EliminationEvent) {
	if r.current == nil {
		return
	}
	r.current.Kills = append(r.current.Kills, e)
}

func (r *Recorder) MatchEnded(result game.Result) {
	if r.current == nil {
		return
	}

	rec := *r.current
	r.current = nil
	rec.EndedAt = r.now()
	rec.Frames = result.Frames
	rec.Winner = result.Winner
	rec.Draw = result.Draw
	rec.Players = make([]PlayerRecord, 0, len(result.Standings))
	for _, s := range result.Standings {
		rec.Players = append(rec.Players, PlayerRecord{Standing: s, Bonuses: r.bonuses[s.Name]})
	}

	done := make(chan struct{})
	r.done = done
	go func() {
		defer close(done)
		if err := r.store.SaveMatch(r.ctx, rec); err != nil {
			log.Printf("Error saving match %s: %v", rec.ID, err)
			r.err = err
			return
		}
		log.Printf("Saved match %s (%d players)", rec.ID, len(rec.Players))
	}()
}

// Wait blocks until the last finished match has been saved and returns the
// save error, if any. It must be called from the goroutine that drives the
// match.
func (r *Recorder) Wait() error {
	if r.done == nil {
		return nil
	}
	<-r.done
	return r.err
}
