package session

import (
	"encoding/json"
	"fmt"
	"strings"

	"bombview/world"
)

// Wire message types.
const (
	TypeViewGame     = "ViewGame"
	TypeJoinGame     = "JoinGame"
	TypeLeaveGame    = "LeaveGame"
	TypePlayerAction = "PlayerAction"

	TypeViewingGame = "ViewingGame"
	TypeJoined      = "Joined"
	TypeGameState   = "GameState"
	TypeError       = "Error"
)

// Kind says which message carried a snapshot.
type Kind string

const (
	KindViewing Kind = TypeViewingGame
	KindJoined  Kind = TypeJoined
	KindState   Kind = TypeGameState
)

// Initial reports whether the snapshot starts a new view and should
// replace the registry rather than be reconciled into it.
func (k Kind) Initial() bool {
	return k == KindViewing || k == KindJoined
}

// Envelope frames every message in both directions.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// JoinGame asks the server to make this connection a player.
type JoinGame struct {
	PlayerID string `json:"playerId"`
}

// PlayerAction carries a changed action vector.
type PlayerAction struct {
	PlayerID string             `json:"playerId"`
	Actions  world.ActionVector `json:"actions"`
}

// ErrorMessage is a server-side failure shown to the user.
type ErrorMessage struct {
	Message string `json:"message"`
}

func encode(typ string, payload any) ([]byte, error) {
	env := Envelope{Type: typ}
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", typ, err)
		}
		env.Payload = b
	}
	return json.Marshal(env)
}

// decodeError accepts either a bare string or an ErrorMessage object.
func decodeError(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var em ErrorMessage
	if err := json.Unmarshal(raw, &em); err == nil {
		return strings.TrimSpace(em.Message)
	}
	return strings.TrimSpace(string(raw))
}
