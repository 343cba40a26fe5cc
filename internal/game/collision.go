package game

import (
	"math"
	"math/rand"
)

// contact describes an overlapping pair found during the pair scan.
type contact struct {
	normal   Vec2 // Unit vector from a to b
	distance float64
	overlap  float64
}

// detectContact reports whether the circles of a and b overlap.
func detectContact(a, b *Combatant, rng *rand.Rand) (contact, bool) {
	sum := a.Radius() + b.Radius()
	distance := a.Pos.Dist(b.Pos)
	if distance >= sum {
		return contact{}, false
	}

	normal := b.Pos.Sub(a.Pos)
	if distance == 0 {
		// Exactly stacked, separate in a random direction
		normal = polar(rng.Float64()*2*math.Pi, 1)
	} else {
		normal = normal.Scale(1 / distance)
	}

	return contact{normal: normal, distance: distance, overlap: sum - distance}, true
}

// resolveCollision applies the equal-mass elastic response for a contact and
// pushes the two bodies apart so they no longer overlap.
func resolveCollision(a, b *Combatant, hit contact, t Tuning) {
	n := hit.normal
	approach := a.Vel.Sub(b.Vel).Dot(n)

	// A negative approach speed means the pair is already separating
	if approach >= 0 {
		a.Vel = a.Vel.Sub(n.Scale(approach))
		b.Vel = b.Vel.Add(n.Scale(approach))

		enforceMinSpeed(a, t)
		enforceMinSpeed(b, t)

		if a.Size >= t.MaxSize {
			a.raiseSpeed(a.SpeedMultiplier*t.CollisionNudge, t.SpeedCap)
		}
		if b.Size >= t.MaxSize {
			b.raiseSpeed(b.SpeedMultiplier*t.CollisionNudge, t.SpeedCap)
		}
	}

	separateCombatants(a, b, hit, t)
}

// enforceMinSpeed keeps a body moving after a collision drained its velocity.
func enforceMinSpeed(c *Combatant, t Tuning) {
	floor := t.CollisionMinSpeed
	if c.Size > t.MaxSize {
		floor = t.EndgameCollisionMinSpeed
	}
	if c.Vel.Len() >= floor {
		return
	}
	if c.Vel.Len() == 0 {
		// Fully stopped, relaunch toward the arena centre
		c.Vel = Vec2{X: t.ArenaWidth/2 - c.Pos.X, Y: t.ArenaHeight/2 - c.Pos.Y}
		if c.Vel.Len() == 0 {
			c.Vel = Vec2{X: 1}
		}
	}
	c.Vel = c.Vel.ScaleTo(floor)
}

// separateCombatants pushes two overlapping combatants apart along the contact normal.
func separateCombatants(a, b *Combatant, hit contact, t Tuning) {
	push := hit.normal.Scale(hit.overlap/2 + t.SeparationMargin)
	a.Pos = a.Pos.Sub(push)
	b.Pos = b.Pos.Add(push)
}
