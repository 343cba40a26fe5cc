package game

import (
	"math"

	"github.com/vmihailenco/msgpack/v5"
)

// CombatantView is the read-only per-frame state of one combatant.
type CombatantView struct {
	Name            string  `msgpack:"name"`
	Avatar          string  `msgpack:"avatar,omitempty"`
	Color           string  `msgpack:"color"`
	X               float64 `msgpack:"x"`
	Y               float64 `msgpack:"y"`
	Radius          float64 `msgpack:"radius"`
	Health          float64 `msgpack:"health"` // Fraction of max health in [0,1]
	SpeedMultiplier float64 `msgpack:"speed"`
	Alive           bool    `msgpack:"alive"`
}

// Snapshot is the state handed to presentation layers after each frame.
type Snapshot struct {
	Type       string          `msgpack:"type"`
	Frame      int             `msgpack:"frame"`
	Phase      string          `msgpack:"phase"`
	Alive      int             `msgpack:"alive"`
	Total      int             `msgpack:"total"`
	Width      float64         `msgpack:"width"`
	Height     float64         `msgpack:"height"`
	Winner     string          `msgpack:"winner,omitempty"`
	Combatants []CombatantView `msgpack:"combatants"`
}

// Snapshot copies the current frame state. Combatants are listed in
// registration order, eliminated ones included with Alive unset.
func (m *Match) Snapshot() Snapshot {
	snapshot := Snapshot{
		Type:       MsgTypeSnapshot,
		Frame:      m.frame,
		Phase:      m.phase.String(),
		Alive:      len(m.active),
		Total:      len(m.all),
		Width:      m.tuning.ArenaWidth,
		Height:     m.tuning.ArenaHeight,
		Combatants: make([]CombatantView, 0, len(m.all)),
	}
	if m.result != nil {
		snapshot.Winner = m.result.Winner
	}

	for _, c := range m.all {
		health := 0.0
		if c.MaxHealth > 0 {
			health = math.Max(0, math.Min(1, c.Health/c.MaxHealth))
		}
		snapshot.Combatants = append(snapshot.Combatants, CombatantView{
			Name:            c.Name,
			Avatar:          c.Avatar,
			Color:           c.Color,
			X:               c.Pos.X,
			Y:               c.Pos.Y,
			Radius:          c.Radius(),
			Health:          health,
			SpeedMultiplier: c.SpeedMultiplier,
			Alive:           !c.Eliminated,
		})
	}

	return snapshot
}

// EncodeSnapshot marshals a snapshot for the wire.
func EncodeSnapshot(s Snapshot) ([]byte, error) {
	return msgpack.Marshal(s)
}

// DecodeSnapshot is the inverse of EncodeSnapshot.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	err := msgpack.Unmarshal(data, &s)
	return s, err
}
