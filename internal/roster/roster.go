package roster

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fightclub/internal/game"

	"gopkg.in/yaml.v3"
)

// Entry is one line of a roster file.
type Entry struct {
	Name    string       `json:"name" yaml:"name"`
	Avatar  string       `json:"avatar" yaml:"avatar"`
	Active  *bool        `json:"active" yaml:"active"` // Missing means active
	Bonuses game.Bonuses `json:"bonuses" yaml:"bonuses"`
}

func (e Entry) active() bool {
	return e.Active == nil || *e.Active
}

// Load reads a roster file. The format follows the extension: .json, or
// .yaml/.yml. Inactive entries are skipped and the result is validated.
func Load(path string) ([]game.Participant, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}

	var entries []Entry
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		entries, err = decodeJSON(data)
	case ".yaml", ".yml":
		entries, err = decodeYAML(data)
	default:
		return nil, fmt.Errorf("roster %s: unsupported format %q", path, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("roster %s: %w", path, err)
	}

	participants := Participants(entries)
	if err := game.ValidateRoster(participants); err != nil {
		return nil, fmt.Errorf("roster %s: %w", path, err)
	}
	return participants, nil
}

func decodeJSON(data []byte) ([]Entry, error) {
	var entries []Entry
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&entries); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return entries, nil
}

func decodeYAML(data []byte) ([]Entry, error) {
	var entries []Entry
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&entries); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return entries, nil
}

// Participants converts active entries, trimming names.
func Participants(entries []Entry) []game.Participant {
	participants := make([]game.Participant, 0, len(entries))
	for _, e := range entries {
		if !e.active() {
			continue
		}
		participants = append(participants, game.Participant{
			Name:    strings.TrimSpace(e.Name),
			Avatar:  strings.TrimSpace(e.Avatar),
			Bonuses: e.Bonuses,
		})
	}
	return participants
}

// ApplyBonuses replaces the bonuses of every participant found in stored.
// Participants without a stored entry keep the bonuses from the roster file.
func ApplyBonuses(participants []game.Participant, stored map[string]game.Bonuses) []game.Participant {
	out := make([]game.Participant, len(participants))
	for i, p := range participants {
		if b, ok := stored[p.Name]; ok {
			p.Bonuses = b
		}
		out[i] = p
	}
	return out
}
