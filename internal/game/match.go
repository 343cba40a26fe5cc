package game

import (
	"fmt"
	"log"
	"math"
	"math/rand"
	"sort"
	"time"
)

// Match owns the active combatant set and advances it frame by frame. It is
// not safe for concurrent use.
type Match struct {
	tuning Tuning
	rng    *rand.Rand
	seed   int64
	sink   EventSink

	all    []*Combatant // Registration order, including eliminated combatants
	active []*Combatant // Registration order
	live   int          // Active combatants not yet marked eliminated this frame

	eliminations int
	frame        int
	now          time.Duration
	phase        Phase
	result       *Result
}

// Option configures a Match.
type Option func(*Match)

// WithTuning replaces the default tuning.
func WithTuning(t Tuning) Option {
	return func(m *Match) { m.tuning = t }
}

// WithSeed seeds the match random source.
func WithSeed(seed int64) Option {
	return func(m *Match) {
		m.seed = seed
		m.rng = rand.New(rand.NewSource(seed))
	}
}

// WithSink routes match events to sink.
func WithSink(sink EventSink) Option {
	return func(m *Match) { m.sink = sink }
}

// NewMatch spawns one combatant per roster entry. An empty roster yields a
// match that has already ended in a draw; callers that treat an empty roster
// as a configuration error should check ValidateRoster first.
func NewMatch(roster []Participant, opts ...Option) (*Match, error) {
	seed := time.Now().UnixNano()
	m := &Match{
		tuning: DefaultTuning(),
		rng:    rand.New(rand.NewSource(seed)),
		seed:   seed,
		sink:   NopSink{},
	}
	for _, opt := range opts {
		opt(m)
	}

	if err := m.tuning.Validate(); err != nil {
		return nil, err
	}
	if err := checkNames(roster); err != nil {
		return nil, err
	}

	m.all = make([]*Combatant, 0, len(roster))
	for i, p := range roster {
		m.all = append(m.all, NewCombatant(p, i, m.tuning, m.rng))
	}
	m.active = append([]*Combatant(nil), m.all...)
	m.live = len(m.active)

	log.Printf("Match started with %d combatants (seed %d)", len(m.all), m.seed)
	m.sink.MatchStarted(MatchStart{Roster: append([]Participant(nil), roster...), Seed: m.seed})

	if err := m.checkTermination(); err != nil {
		return nil, err
	}
	return m, nil
}

// Step advances the match by one frame. It is a no-op once the match ended.
func (m *Match) Step() error {
	if m.phase == PhaseEnded {
		return nil
	}

	m.frame++
	m.now += m.tuning.FrameDuration()

	for _, c := range m.active {
		c.integrate(m.tuning, m.rng)
	}

	m.applyEndgame()
	m.scanPairs()

	if removed := m.removeEliminated(); removed > 0 {
		for _, c := range m.active {
			c.grow(m.eliminations, m.tuning)
		}
		log.Printf("Eliminations: %d, survivors: %d", m.eliminations, len(m.active))
	}

	return m.checkTermination()
}

// scanPairs checks every unordered pair of live combatants once.
func (m *Match) scanPairs() {
	for i := 0; i < len(m.active); i++ {
		for j := i + 1; j < len(m.active); j++ {
			a, b := m.active[i], m.active[j]
			if a.Eliminated || b.Eliminated {
				continue
			}

			hit, ok := detectContact(a, b, m.rng)
			if !ok {
				continue
			}

			resolveCollision(a, b, hit, m.tuning)
			m.resolveCombat(a, b)
		}
	}
}

// applyEndgame escalates size, speed and steering once few combatants remain.
func (m *Match) applyEndgame() {
	n := len(m.active)
	t := m.tuning
	if n < 2 || n > t.EndgameThreshold {
		return
	}

	sizeLimit := t.MaxSize + t.EndgameSizeBonus
	center := Vec2{X: t.ArenaWidth / 2, Y: t.ArenaHeight / 2}

	for _, c := range m.active {
		if c.Size < sizeLimit {
			c.Size = math.Min(c.Size+t.EndgameGrowth, sizeLimit)
		}

		if n > t.FinalStretchThreshold {
			continue
		}

		c.raiseSpeed(c.SpeedMultiplier*t.EndgameSpeedRamp, t.EndgameSpeedCap)
		if c.Vel.Len() < t.EndgameVelocityFloor {
			if c.Vel.Len() == 0 {
				c.Vel = polar(m.rng.Float64()*2*math.Pi, t.EndgameVelocityFloor)
			} else {
				c.Vel = c.Vel.ScaleTo(t.EndgameVelocityFloor)
			}
		}

		if m.nearCorner(c) {
			if toCenter := center.Sub(c.Pos); toCenter.Len() > 0 {
				c.Vel = c.Vel.Add(toCenter.Normalize().Scale(t.CornerPush))
			}
		}
	}
}

// nearCorner reports whether c is close to both a vertical and a horizontal wall.
func (m *Match) nearCorner(c *Combatant) bool {
	t := m.tuning
	nearX := c.Pos.X < t.CornerThreshold || c.Pos.X > t.ArenaWidth-t.CornerThreshold
	nearY := c.Pos.Y < t.CornerThreshold || c.Pos.Y > t.ArenaHeight-t.CornerThreshold
	return nearX && nearY
}

// removeEliminated drops combatants marked during this frame and returns how many.
func (m *Match) removeEliminated() int {
	kept := m.active[:0]
	removed := 0
	for _, c := range m.active {
		if c.Eliminated {
			removed++
			continue
		}
		kept = append(kept, c)
	}
	for i := len(kept); i < len(m.active); i++ {
		m.active[i] = nil
	}
	m.active = kept
	m.live = len(kept)
	m.eliminations += removed
	return removed
}

// checkTermination moves the state machine according to the active count.
func (m *Match) checkTermination() error {
	switch len(m.active) {
	case 0:
		if len(m.all) == 0 {
			m.finish(nil)
			return nil
		}
		m.phase = PhaseEnded
		return fmt.Errorf("frame %d: %w", m.frame, ErrNoSurvivors)
	case 1:
		m.finish(m.active[0])
	case 2:
		if m.phase == PhaseRunning {
			log.Println("Final showdown!")
		}
		m.phase = PhaseFinalTwo
	}
	return nil
}

func (m *Match) finish(winner *Combatant) {
	m.phase = PhaseEnded

	result := Result{
		Draw:         winner == nil,
		Frames:       m.frame,
		Eliminations: m.eliminations,
		Standings:    make([]Standing, 0, len(m.all)),
	}
	if winner != nil {
		winner.Tally.Placement = 1
		result.Winner = winner.Name
	}

	for _, c := range m.all {
		result.Standings = append(result.Standings, Standing{Placement: c.Tally.Placement, Name: c.Name, Tally: c.Tally})
	}
	sort.SliceStable(result.Standings, func(i, j int) bool {
		return result.Standings[i].Placement < result.Standings[j].Placement
	})

	m.result = &result
	if winner != nil {
		log.Printf("%s wins after %d frames, defeating %d opponents", winner.Name, m.frame, len(m.all)-1)
	} else {
		log.Println("Match ended in a draw, nobody entered")
	}
	m.sink.MatchEnded(result)
}

// Phase returns the current state machine phase.
func (m *Match) Phase() Phase { return m.phase }

// Frame returns the number of simulated frames.
func (m *Match) Frame() int { return m.frame }

// Eliminations returns the total number of removed combatants.
func (m *Match) Eliminations() int { return m.eliminations }

// Seed returns the seed of the match random source.
func (m *Match) Seed() int64 { return m.seed }

// Tuning returns the tuning the match runs with.
func (m *Match) Tuning() Tuning { return m.tuning }

// Alive returns the number of active combatants.
func (m *Match) Alive() int { return len(m.active) }

// Result returns the terminal result once the match has a winner or a draw.
func (m *Match) Result() (Result, bool) {
	if m.result == nil {
		return Result{}, false
	}
	return *m.result, true
}

// Combatant looks up a combatant by name, eliminated or not.
func (m *Match) Combatant(name string) (*Combatant, bool) {
	for _, c := range m.all {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}
