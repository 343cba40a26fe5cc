package game

import (
	"hash/fnv"
	"math"
	"math/rand"
	"strings"
	"time"
)

var fallbackColors = []string{"#FF6B6B", "#4ECDC4", "#45B7D1", "#96CEB4", "#FFEAA7", "#DDA0DD", "#98D8C8", "#F7DC6F"}

// NewCombatant derives a combatant from a roster entry and places it at a
// random spot in the arena with a random heading.
func NewCombatant(p Participant, index int, t Tuning, rng *rand.Rand) *Combatant {
	b := p.Bonuses.Clamped()

	c := &Combatant{
		Name:            strings.TrimSpace(p.Name),
		Avatar:          p.Avatar,
		Index:           index,
		Size:            t.InitialSize,
		MaxHealth:       t.BaseHealth * (1 + float64(b.HP)/100),
		Attack:          t.BaseDamage * (1 + float64(b.Strength)/100),
		Armor:           math.Min(t.StatCap, float64(b.Armor)/100),
		CritChance:      math.Min(t.StatCap, float64(b.Luck)/100),
		SpeedMultiplier: 1.0,
		LastHit:         -t.HitCooldown,
	}
	c.Health = c.MaxHealth
	c.Color = fallbackColor(c.Name)

	margin := math.Max(t.SpawnMargin, c.Radius())
	c.Pos = Vec2{
		X: margin + rng.Float64()*math.Max(0, t.ArenaWidth-2*margin),
		Y: margin + rng.Float64()*math.Max(0, t.ArenaHeight-2*margin),
	}
	speed := t.InitialSpeedMin + rng.Float64()*(t.InitialSpeedMax-t.InitialSpeedMin)
	c.Vel = polar(rng.Float64()*2*math.Pi, speed)

	return c
}

// fallbackColor picks a stable colour for combatants without an avatar.
func fallbackColor(name string) string {
	h := fnv.New32a()
	h.Write([]byte(name))
	return fallbackColors[h.Sum32()%uint32(len(fallbackColors))]
}

// integrate advances the combatant by one frame and bounces it off the arena walls.
func (c *Combatant) integrate(t Tuning, rng *rand.Rand) {
	c.Pos = c.Pos.Add(c.Vel.Scale(c.SpeedMultiplier))

	r := c.Radius()
	hitWall := false
	// Reflected components always point back into the arena so a body pushed
	// against a wall by a collision cannot get trapped bouncing in place.
	switch {
	case c.Pos.X-r <= 0:
		c.Vel.X = math.Abs(c.Vel.X)
		hitWall = true
	case c.Pos.X+r >= t.ArenaWidth:
		c.Vel.X = -math.Abs(c.Vel.X)
		hitWall = true
	}
	switch {
	case c.Pos.Y-r <= 0:
		c.Vel.Y = math.Abs(c.Vel.Y)
		hitWall = true
	case c.Pos.Y+r >= t.ArenaHeight:
		c.Vel.Y = -math.Abs(c.Vel.Y)
		hitWall = true
	}
	c.Pos.X = clamp(c.Pos.X, r, t.ArenaWidth-r)
	c.Pos.Y = clamp(c.Pos.Y, r, t.ArenaHeight-r)

	if hitWall && c.Size >= t.MaxSize {
		c.raiseSpeed(c.SpeedMultiplier*t.WallNudge, t.SpeedCap)
	}

	if c.Vel.Len() < t.MinSpeed {
		c.Vel = polar(rng.Float64()*2*math.Pi, t.RelaunchSpeed)
	}
	if c.Vel.Len() > t.MaxSpeed {
		c.Vel = c.Vel.ScaleTo(t.MaxSpeed)
	}
}

// grow applies the population driven size curve. Size follows a logarithm of
// the elimination count until MaxSize; past that point every elimination adds
// a linear speed bonus instead.
func (c *Combatant) grow(totalEliminations int, t Tuning) {
	target := t.InitialSize + t.GrowthScale*math.Log(float64(totalEliminations)+1)
	if target >= t.MaxSize {
		target = t.MaxSize
		extra := totalEliminations - t.sizeCapEliminations()
		if extra > 0 {
			c.raiseSpeed(1.0+float64(extra)*t.SpeedIncrement, t.SpeedCap)
		}
	}
	c.Size = math.Max(c.Size, target)
}

// raiseSpeed moves the multiplier toward want without crossing limit. It
// never lowers the multiplier.
func (c *Combatant) raiseSpeed(want, limit float64) {
	c.SpeedMultiplier = math.Max(c.SpeedMultiplier, math.Min(want, limit))
}

// ready reports whether the hit cooldown has elapsed at logical time now.
func (c *Combatant) ready(now, cooldown time.Duration) bool {
	return now-c.LastHit >= cooldown
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		return (lo + hi) / 2
	}
	return math.Max(lo, math.Min(hi, v))
}
