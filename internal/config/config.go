package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"

	"fightclub/internal/game"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables read by Load.
const (
	EnvAddr      = "FIGHTCLUB_ADDR"
	EnvRoster    = "FIGHTCLUB_ROSTER"
	EnvTuning    = "FIGHTCLUB_TUNING"
	EnvStatsDSN  = "FIGHTCLUB_STATS_DSN"
	EnvSeed      = "FIGHTCLUB_SEED"
	EnvHeadless  = "FIGHTCLUB_HEADLESS"
	EnvMaxFrames = "FIGHTCLUB_MAX_FRAMES"
	EnvStaticDir = "FIGHTCLUB_STATIC_DIR"
)

// Config is the process configuration.
type Config struct {
	Addr       string
	RosterPath string
	TuningPath string
	StatsDSN   string // sqlite file path or postgres:// URL, empty disables stats
	Seed       int64  // Zero picks a time based seed
	Headless   bool
	MaxFrames  int
	StaticDir  string
}

// Default returns the configuration used when no variables are set.
func Default() Config {
	return Config{
		Addr:       ":8080",
		RosterPath: "roster.yaml",
		MaxFrames:  500000,
		StaticDir:  "./static",
	}
}

// Load reads the environment, after merging a .env file when one exists.
func Load(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load env file: %w", err)
		}
	} else {
		log.Println("Successfully loaded environment variables")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a variable lookup function.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Default()

	if v := getenv(EnvAddr); v != "" {
		cfg.Addr = v
	}
	if v := getenv(EnvRoster); v != "" {
		cfg.RosterPath = v
	}
	cfg.TuningPath = getenv(EnvTuning)
	cfg.StatsDSN = getenv(EnvStatsDSN)
	if v := getenv(EnvStaticDir); v != "" {
		cfg.StaticDir = v
	}

	if v := getenv(EnvSeed); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvSeed, err)
		}
		cfg.Seed = seed
	}
	if v := getenv(EnvHeadless); v != "" {
		headless, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvHeadless, err)
		}
		cfg.Headless = headless
	}
	if v := getenv(EnvMaxFrames); v != "" {
		frames, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvMaxFrames, err)
		}
		cfg.MaxFrames = frames
	}

	return cfg, nil
}

// LoadTuning overlays a YAML file onto the default tuning. An empty path
// returns the defaults.
func LoadTuning(path string) (game.Tuning, error) {
	tuning := game.DefaultTuning()
	if path == "" {
		return tuning, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return game.Tuning{}, fmt.Errorf("read tuning: %w", err)
	}
	return ParseTuning(data)
}

// ParseTuning decodes YAML tuning over the defaults and validates the result.
// Durations are written as Go duration strings, e.g. hit_cooldown: 750ms.
func ParseTuning(data []byte) (game.Tuning, error) {
	tuning := game.DefaultTuning()
	if err := yaml.Unmarshal(data, &tuning); err != nil {
		return game.Tuning{}, fmt.Errorf("parse tuning: %w", err)
	}
	if err := tuning.Validate(); err != nil {
		return game.Tuning{}, err
	}
	return tuning, nil
}
