package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"fightclub/internal/config"
	"fightclub/internal/game"
	"fightclub/internal/roster"
	"fightclub/internal/server"
	"fightclub/internal/stats"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Config error: ", err)
	}

	tuning, err := config.LoadTuning(cfg.TuningPath)
	if err != nil {
		log.Fatal("Tuning error: ", err)
	}

	participants, err := roster.Load(cfg.RosterPath)
	if err != nil {
		log.Fatal("Roster error: ", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sinks := game.Sinks{}
	var store stats.Store
	var recorder *stats.Recorder
	if cfg.StatsDSN != "" {
		store, err = stats.Open(ctx, cfg.StatsDSN)
		if err != nil {
			log.Fatal("Stats store error: ", err)
		}
		defer store.Close()

		stored, err := store.Bonuses(ctx)
		if err != nil {
			log.Fatal("Loading stored bonuses failed: ", err)
		}
		participants = roster.ApplyBonuses(participants, stored)

		recorder = stats.NewRecorder(context.WithoutCancel(ctx), store)
		sinks = append(sinks, recorder)
	}

	hub := server.NewHub()
	if !cfg.Headless {
		sinks = append(sinks, hub)
	}

	opts := []game.Option{game.WithTuning(tuning), game.WithSink(sinks)}
	if cfg.Seed != 0 {
		opts = append(opts, game.WithSeed(cfg.Seed))
	}

	match, err := game.NewMatch(participants, opts...)
	if err != nil {
		log.Fatal("Match setup failed: ", err)
	}

	var result game.Result
	if cfg.Headless {
		log.Printf("Running headless match with %d combatants", len(participants))
		result, err = match.Simulate(cfg.MaxFrames)
	} else {
		srv := server.NewServer(hub, cfg.StaticDir)
		go func() {
			if err := srv.Start(cfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal("Server failed to start: ", err)
			}
		}()

		log.Println("Starting Fight Club arena...")
		result, err = match.Run(ctx, hub.PublishSnapshot)
	}
	if err != nil {
		log.Fatal("Match aborted: ", err)
	}

	if recorder != nil {
		if err := recorder.Wait(); err != nil {
			log.Printf("Match result was not saved: %v", err)
		}
	}
	if store != nil {
		board, err := store.Leaderboard(context.WithoutCancel(ctx), 5)
		if err != nil {
			log.Printf("Leaderboard unavailable: %v", err)
		}
		for i, e := range board {
			log.Printf("All time #%d %s: %d wins in %d matches, %d kills", i+1, e.Name, e.Wins, e.Matches, e.Kills)
		}
	}

	for _, s := range result.Standings {
		log.Printf("#%d %s: %d kills, %.0f damage dealt", s.Placement, s.Name, s.Tally.Kills, s.Tally.DamageDealt)
	}

	if !cfg.Headless {
		log.Println("Match over, serving results until interrupted")
		<-ctx.Done()
	}
}
