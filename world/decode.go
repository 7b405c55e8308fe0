package world

import (
	"encoding/json"
	"fmt"
)

// DecodeSnapshot parses a JSON game state, fills player ids from their map
// keys and validates the result.
func DecodeSnapshot(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("world: decode snapshot: %w", err)
	}
	for id, p := range s.Players {
		if p.ID == "" {
			p.ID = id
			s.Players[id] = p
		}
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}
