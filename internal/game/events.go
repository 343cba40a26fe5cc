package game

// MatchStart is emitted once when a match is created.
type MatchStart struct {
	Roster []Participant `msgpack:"roster"`
	Seed   int64         `msgpack:"seed"`
}

// HitEvent is emitted for every landed hit.
type HitEvent struct {
	Frame        int     `msgpack:"frame"`
	Attacker     string  `msgpack:"attacker"`
	Victim       string  `msgpack:"victim"`
	Damage       float64 `msgpack:"damage"`
	Critical     bool    `msgpack:"critical"`
	VictimHealth float64 `msgpack:"victimHealth"`
}

// EliminationEvent is emitted when a hit drops a combatant to zero health.
type EliminationEvent struct {
	Frame     int    `msgpack:"frame"`
	Killer    string `msgpack:"killer"`
	Victim    string `msgpack:"victim"`
	Placement int    `msgpack:"placement"`
}

// EventSink consumes match events. Calls happen on the simulation goroutine
// in the middle of a frame, so implementations must not block.
type EventSink interface {
	MatchStarted(MatchStart)
	Hit(HitEvent)
	Eliminated(EliminationEvent)
	MatchEnded(Result)
}

// NopSink discards every event.
type NopSink struct{}

func (NopSink) MatchStarted(MatchStart)     {}
func (NopSink) Hit(HitEvent)                {}
func (NopSink) Eliminated(EliminationEvent) {}
func (NopSink) MatchEnded(Result)           {}

// Sinks fans events out to several sinks in order.
type Sinks []EventSink

func (s Sinks) MatchStarted(e MatchStart) {
	for _, sink := range s {
		sink.MatchStarted(e)
	}
}

func (s Sinks) Hit(e HitEvent) {
	for _, sink := range s {
		sink.Hit(e)
	}
}

func (s Sinks) Eliminated(e EliminationEvent) {
	for _, sink := range s {
		sink.Eliminated(e)
	}
}

func (s Sinks) MatchEnded(r Result) {
	for _, sink := range s {
		sink.MatchEnded(r)
	}
}
