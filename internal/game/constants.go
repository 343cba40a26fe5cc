package game

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Arena constants
const (
	ArenaWidth  = 1280.0
	ArenaHeight = 720.0
	TickRate    = 60 // Simulation frames per second
)

// Combatant base values
const (
	BaseHealth  = 100.0
	BaseDamage  = 5.0
	InitialSize = 40.0
	MaxSize     = 80.0
	StatCap     = 0.5 // Armor and luck never exceed 50%
	HitCooldown = 500 * time.Millisecond
)

// Message types for spectator communication
const (
	MsgTypeSnapshot   = "snapshot"
	MsgTypeHit        = "hit"
	MsgTypeEliminated = "eliminated"
	MsgTypeMatchStart = "matchStart"
	MsgTypeMatchEnd   = "matchEnd"
)

// Tuning holds every constant that shapes a match. The zero value is not
// usable; start from DefaultTuning.
type Tuning struct {
	ArenaWidth  float64 `yaml:"arena_width"`
	ArenaHeight float64 `yaml:"arena_height"`
	TickRate    int     `yaml:"tick_rate"`
	SpawnMargin float64 `yaml:"spawn_margin"`

	BaseHealth     float64       `yaml:"base_health"`
	BaseDamage     float64       `yaml:"base_damage"`
	MinDamage      float64       `yaml:"min_damage"`
	CritMultiplier float64       `yaml:"crit_multiplier"`
	StatCap        float64       `yaml:"stat_cap"`
	HitCooldown    time.Duration `yaml:"hit_cooldown"`

	InitialSize float64 `yaml:"initial_size"`
	MaxSize     float64 `yaml:"max_size"`
	GrowthScale float64 `yaml:"growth_scale"` // size += scale * ln(eliminations+1)

	InitialSpeedMin float64 `yaml:"initial_speed_min"`
	InitialSpeedMax float64 `yaml:"initial_speed_max"`
	MinSpeed        float64 `yaml:"min_speed"`     // below this a combatant is re-launched
	RelaunchSpeed   float64 `yaml:"relaunch_speed"`
	MaxSpeed        float64 `yaml:"max_speed"` // velocity cap before the multiplier

	SpeedIncrement  float64 `yaml:"speed_increment"` // per elimination past max size
	SpeedCap        float64 `yaml:"speed_cap"`
	EndgameSpeedCap float64 `yaml:"endgame_speed_cap"`
	WallNudge       float64 `yaml:"wall_nudge"`
	CollisionNudge  float64 `yaml:"collision_nudge"`

	CollisionMinSpeed        float64 `yaml:"collision_min_speed"`
	EndgameCollisionMinSpeed float64 `yaml:"endgame_collision_min_speed"`
	SeparationMargin         float64 `yaml:"separation_margin"`

	EndgameThreshold      int     `yaml:"endgame_threshold"`
	EndgameGrowth         float64 `yaml:"endgame_growth"`     // size per frame
	EndgameSizeBonus      float64 `yaml:"endgame_size_bonus"` // on top of MaxSize
	FinalStretchThreshold int     `yaml:"final_stretch_threshold"`
	EndgameSpeedRamp      float64 `yaml:"endgame_speed_ramp"`
	EndgameVelocityFloor  float64 `yaml:"endgame_velocity_floor"`
	CornerThreshold       float64 `yaml:"corner_threshold"`
	CornerPush            float64 `yaml:"corner_push"`
}

// DefaultTuning returns the stock match tuning.
func DefaultTuning() Tuning {
	return Tuning{
		ArenaWidth:  ArenaWidth,
		ArenaHeight: ArenaHeight,
		TickRate:    TickRate,
		SpawnMargin: InitialSize,

		BaseHealth:     BaseHealth,
		BaseDamage:     BaseDamage,
		MinDamage:      1,
		CritMultiplier: 2,
		StatCap:        StatCap,
		HitCooldown:    HitCooldown,

		InitialSize: InitialSize,
		MaxSize:     MaxSize,
		GrowthScale: 8,

		InitialSpeedMin: 2,
		InitialSpeedMax: 4,
		MinSpeed:        2,
		RelaunchSpeed:   3,
		MaxSpeed:        10,

		SpeedIncrement:  0.02,
		SpeedCap:        3.0,
		EndgameSpeedCap: 4.0,
		WallNudge:       1.01,
		CollisionNudge:  1.005,

		CollisionMinSpeed:        2,
		EndgameCollisionMinSpeed: 3,
		SeparationMargin:         1,

		EndgameThreshold:      5,
		EndgameGrowth:         0.5,
		EndgameSizeBonus:      20,
		FinalStretchThreshold: 3,
		EndgameSpeedRamp:      1.002,
		EndgameVelocityFloor:  3,
		CornerThreshold:       150,
		CornerPush:            0.5,
	}
}

// ErrInvalidTuning is wrapped by every Validate failure.
var ErrInvalidTuning = errors.New("invalid tuning")

// Validate reports the first nonsensical value in t.
func (t Tuning) Validate() error {
	switch {
	case t.ArenaWidth <= 0 || t.ArenaHeight <= 0:
		return fmt.Errorf("%w: arena must be positive, got %gx%g", ErrInvalidTuning, t.ArenaWidth, t.ArenaHeight)
	case t.TickRate <= 0:
		return fmt.Errorf("%w: tick rate %d", ErrInvalidTuning, t.TickRate)
	case t.BaseHealth <= 0 || t.BaseDamage <= 0:
		return fmt.Errorf("%w: base health and damage must be positive", ErrInvalidTuning)
	case t.MinDamage <= 0:
		return fmt.Errorf("%w: min damage %g", ErrInvalidTuning, t.MinDamage)
	case t.StatCap < 0 || t.StatCap >= 1:
		return fmt.Errorf("%w: stat cap %g outside [0,1)", ErrInvalidTuning, t.StatCap)
	case t.InitialSize <= 0 || t.MaxSize < t.InitialSize:
		return fmt.Errorf("%w: size range %g..%g", ErrInvalidTuning, t.InitialSize, t.MaxSize)
	case t.MaxSize+t.EndgameSizeBonus >= math.Min(t.ArenaWidth, t.ArenaHeight):
		return fmt.Errorf("%w: combatants would not fit the arena", ErrInvalidTuning)
	case t.GrowthScale <= 0:
		return fmt.Errorf("%w: growth scale %g", ErrInvalidTuning, t.GrowthScale)
	case t.InitialSpeedMin <= 0 || t.InitialSpeedMax < t.InitialSpeedMin:
		return fmt.Errorf("%w: initial speed range %g..%g", ErrInvalidTuning, t.InitialSpeedMin, t.InitialSpeedMax)
	case t.MaxSpeed < t.RelaunchSpeed || t.RelaunchSpeed < t.MinSpeed:
		return fmt.Errorf("%w: speed bounds must satisfy min <= relaunch <= max", ErrInvalidTuning)
	case t.SpeedCap < 1 || t.EndgameSpeedCap < t.SpeedCap:
		return fmt.Errorf("%w: speed caps %g/%g", ErrInvalidTuning, t.SpeedCap, t.EndgameSpeedCap)
	case t.HitCooldown < 0:
		return fmt.Errorf("%w: negative hit cooldown", ErrInvalidTuning)
	}
	return nil
}

// FrameDuration is the logical time that passes per simulated frame.
func (t Tuning) FrameDuration() time.Duration {
	return time.Second / time.Duration(t.TickRate)
}

// sizeCapEliminations is the elimination count at which the logarithmic
// growth curve first reaches MaxSize.
func (t Tuning) sizeCapEliminations() int {
	return int(math.Ceil(math.Exp((t.MaxSize-t.InitialSize)/t.GrowthScale))) - 1
}
