package game

import (
	"log"
	"math"
)

// pendingHit is a rolled hit that has not been applied yet.
type pendingHit struct {
	attacker *Combatant
	defender *Combatant
	damage   float64
	critical bool
}

func (h pendingHit) lethal() bool {
	return h.damage >= h.defender.Health
}

// rollHit computes the damage attacker would deal to defender right now. It
// reports false while the attacker's hit cooldown is running.
func (m *Match) rollHit(attacker, defender *Combatant) (pendingHit, bool) {
	if !attacker.ready(m.now, m.tuning.HitCooldown) {
		return pendingHit{}, false
	}

	damage := attacker.Attack
	critical := attacker.CritChance > 0 && m.rng.Float64() < attacker.CritChance
	if critical {
		damage *= m.tuning.CritMultiplier
	}
	damage *= 1 - defender.Armor
	damage = math.Max(m.tuning.MinDamage, damage)

	return pendingHit{attacker: attacker, defender: defender, damage: damage, critical: critical}, true
}

// resolveCombat runs the damage exchange for a colliding pair. a is always
// the earlier combatant of the pair scan.
func (m *Match) resolveCombat(a, b *Combatant) {
	if m.live == 2 {
		m.resolveFinalTwo(a, b)
		return
	}

	// Both sides strike independently and may both fall
	if hit, ok := m.rollHit(a, b); ok {
		m.landHit(hit)
	}
	if hit, ok := m.rollHit(b, a); ok {
		m.landHit(hit)
	}
}

// resolveFinalTwo lets at most one combatant fall per exchange.
func (m *Match) resolveFinalTwo(a, b *Combatant) {
	hitA, okA := m.rollHit(a, b)
	hitB, okB := m.rollHit(b, a)

	if okA && okB && hitA.lethal() && hitB.lethal() {
		m.breakMutualKill(hitA, hitB)
		return
	}

	if okA && m.landHit(hitA) {
		return
	}
	if okB {
		m.landHit(hitB)
	}
}

// breakMutualKill resolves an exchange in which both hits would be lethal.
// The healthier combatant survives; on equal health the earlier registered
// one does.
func (m *Match) breakMutualKill(first, second pendingHit) {
	a, b := first.attacker, second.attacker
	survivorIsFirst := a.Health > b.Health || (a.Health == b.Health && a.Index < b.Index)

	if survivorIsFirst {
		first.damage = math.Max(first.damage, b.Health)
		m.landHit(first)
		return
	}

	// The instigator still strikes first but cannot take the survivor below one health
	capped := math.Min(first.damage, b.Health-1)
	if capped >= m.tuning.MinDamage {
		first.damage = capped
		m.landHit(first)
	} else {
		a.LastHit = m.now
	}

	second.damage = math.Max(second.damage, a.Health)
	m.landHit(second)
}

// landHit applies a hit and reports whether it eliminated the defender.
func (m *Match) landHit(h pendingHit) bool {
	attacker, victim := h.attacker, h.defender
	attacker.LastHit = m.now

	victim.Health -= h.damage
	attacker.Tally.HitsLanded++
	attacker.Tally.DamageDealt += h.damage
	victim.Tally.DamageTaken += h.damage
	if h.critical {
		attacker.Tally.Crits++
		log.Printf("Critical hit by %s on %s (%.1f)", attacker.Name, victim.Name, h.damage)
	}

	m.sink.Hit(HitEvent{
		Frame:        m.frame,
		Attacker:     attacker.Name,
		Victim:       victim.Name,
		Damage:       h.damage,
		Critical:     h.critical,
		VictimHealth: math.Max(0, victim.Health),
	})

	if victim.Health > 0 || victim.Eliminated {
		return false
	}

	m.handleElimination(victim, attacker)
	return true
}

// handleElimination marks victim as out. Removal from the active set waits
// until the end of the frame so the pair scan stays stable.
func (m *Match) handleElimination(victim, killer *Combatant) {
	victim.Health = 0
	victim.Eliminated = true
	victim.Tally.EliminatedAt = m.frame
	victim.Tally.Placement = m.live
	m.live--

	killer.Tally.Kills++

	log.Printf("%s was eliminated by %s (%d remaining)", victim.Name, killer.Name, m.live)

	m.sink.Eliminated(EliminationEvent{
		Frame:     m.frame,
		Killer:    killer.Name,
		Victim:    victim.Name,
		Placement: victim.Tally.Placement,
	})
}
