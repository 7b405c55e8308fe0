package session

import (
	"encoding/json"

	"github.com/invopop/jsonschema"

	"bombview/world"
)

// envelopeDoc documents Envelope with an open payload.
type envelopeDoc struct {
	Type    string `json:"type" jsonschema:"enum=ViewGame,enum=JoinGame,enum=LeaveGame,enum=PlayerAction,enum=ViewingGame,enum=Joined,enum=GameState,enum=Error"`
	Payload any    `json:"payload,omitempty" jsonschema:"description=Message body; absent for ViewGame and LeaveGame"`
}

// wireDoc lists every payload on the wire.
type wireDoc struct {
	Envelope     envelopeDoc    `json:"envelope"`
	JoinGame     JoinGame       `json:"JoinGame"`
	PlayerAction PlayerAction   `json:"PlayerAction"`
	GameState    world.Snapshot `json:"GameState" jsonschema:"description=Payload of ViewingGame and Joined as well"`
	Error        ErrorMessage   `json:"Error"`
}

// Schema returns the JSON Schema of the wire protocol.
func Schema() ([]byte, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
	}
	schema := reflector.Reflect(new(wireDoc))
	schema.Title = "bombview wire protocol"
	schema.Description = "Websocket messages exchanged with the game server, each framed in an envelope."
	return json.MarshalIndent(schema, "", "  ")
}
