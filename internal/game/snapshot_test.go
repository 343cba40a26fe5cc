package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotReflectsFrameState(t *testing.T) {
	m, _ := newTestMatch(t, []Participant{
		{Name: "pictured", Avatar: "profiles/pictured.png"},
		{Name: "faceless"},
		{Name: "gone"},
	})
	m.all[0].Health = 25
	m.all[2].Eliminated = true
	m.all[2].Health = 0

	s := m.Snapshot()

	assert.Equal(t, MsgTypeSnapshot, s.Type)
	assert.Equal(t, "running", s.Phase)
	assert.Equal(t, 3, s.Total)
	require.Len(t, s.Combatants, 3)

	assert.Equal(t, "profiles/pictured.png", s.Combatants[0].Avatar)
	assert.Equal(t, 0.25, s.Combatants[0].Health)
	assert.Empty(t, s.Combatants[1].Avatar)
	assert.NotEmpty(t, s.Combatants[1].Color, "combatants without avatars get a fallback colour")
	assert.Equal(t, InitialSize/2, s.Combatants[1].Radius)
	assert.False(t, s.Combatants[2].Alive)
	assert.Equal(t, 0.0, s.Combatants[2].Health)
}

func TestSnapshotWireFormat(t *testing.T) {
	m, _ := newTestMatch(t, roster(2))
	require.NoError(t, m.Step())

	data, err := EncodeSnapshot(m.Snapshot())
	require.NoError(t, err)

	decoded, err := DecodeSnapshot(data)
	require.NoError(t, err)
	assert.Equal(t, m.Snapshot(), decoded)
}
