package game

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Bonuses are the purchasable stat points of a participant. Each point is a
// one percent bonus over the base value.
type Bonuses struct {
	HP       int `json:"hp" yaml:"hp" msgpack:"hp"`
	Strength int `json:"strength" yaml:"strength" msgpack:"strength"`
	Armor    int `json:"armor" yaml:"armor" msgpack:"armor"`
	Luck     int `json:"luck" yaml:"luck" msgpack:"luck"`
}

// Clamped returns a copy with negative values raised to zero.
func (b Bonuses) Clamped() Bonuses {
	return Bonuses{
		HP:       max(b.HP, 0),
		Strength: max(b.Strength, 0),
		Armor:    max(b.Armor, 0),
		Luck:     max(b.Luck, 0),
	}
}

// Participant is one roster entry handed to the simulation.
type Participant struct {
	Name    string  `json:"name" msgpack:"name"`
	Avatar  string  `json:"avatar,omitempty" msgpack:"avatar,omitempty"` // Opaque visual handle, may be empty
	Bonuses Bonuses `json:"bonuses" msgpack:"bonuses"`
}

// Phase is the match state machine position.
type Phase int

const (
	PhaseRunning Phase = iota
	PhaseFinalTwo
	PhaseEnded
)

func (p Phase) String() string {
	switch p {
	case PhaseRunning:
		return "running"
	case PhaseFinalTwo:
		return "finalTwo"
	case PhaseEnded:
		return "ended"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Combatant is a single participant inside a running match.
type Combatant struct {
	Name   string
	Avatar string
	Color  string
	Index  int // Registration order, used for stable scans and tie-breaks

	Pos  Vec2
	Vel  Vec2
	Size float64

	MaxHealth  float64
	Health     float64
	Attack     float64
	Armor      float64 // Fraction of incoming damage negated
	CritChance float64

	SpeedMultiplier float64
	LastHit         time.Duration // Logical match time of the last landed hit
	Eliminated      bool

	Tally Tally
}

// Tally accumulates what a combatant did during the match.
type Tally struct {
	Kills        int     `msgpack:"kills"`
	HitsLanded   int     `msgpack:"hitsLanded"`
	Crits        int     `msgpack:"crits"`
	DamageDealt  float64 `msgpack:"damageDealt"`
	DamageTaken  float64 `msgpack:"damageTaken"`
	EliminatedAt int     `msgpack:"eliminatedAt"` // Frame, zero while alive
	Placement    int     `msgpack:"placement"`
}

// Radius is half of the current size.
func (c *Combatant) Radius() float64 {
	return c.Size / 2
}

// Standing is one line of the final results table.
type Standing struct {
	Placement int    `msgpack:"placement"`
	Name      string `msgpack:"name"`
	Tally     Tally  `msgpack:"tally"`
}

// Result is the terminal outcome of a match.
type Result struct {
	Winner       string     `msgpack:"winner"`
	Draw         bool       `msgpack:"draw"` // Only when the roster was empty
	Frames       int        `msgpack:"frames"`
	Eliminations int        `msgpack:"eliminations"`
	Standings    []Standing `msgpack:"standings"`
}

var (
	ErrEmptyRoster   = errors.New("roster is empty")
	ErrBlankName     = errors.New("participant name is blank")
	ErrDuplicateName = errors.New("duplicate participant name")
	ErrNoSurvivors   = errors.New("match ended without survivors")
)

// ValidateRoster checks a roster before a match is started.
func ValidateRoster(roster []Participant) error {
	if len(roster) == 0 {
		return ErrEmptyRoster
	}
	return checkNames(roster)
}

func checkNames(roster []Participant) error {
	seen := make(map[string]struct{}, len(roster))
	for i, p := range roster {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			return fmt.Errorf("entry %d: %w", i, ErrBlankName)
		}
		if _, ok := seen[name]; ok {
			return fmt.Errorf("%q: %w", name, ErrDuplicateName)
		}
		seen[name] = struct{}{}
	}
	return nil
}
