package ws

import "encoding/json"

// Frame types
const (
	MsgView = "view" // client: change filter and/or search
	MsgPing = "ping" // client: application-level keepalive

	MsgBoard = "board" // server: full board view for this client
	MsgPong  = "pong"
	MsgError = "error"
)

// Envelope is the server → client frame.
type Envelope struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// client → server
type inbound struct {
	Type   string  `json:"type"`
	Filter string  `json:"filter,omitempty"`
	Search *string `json:"search,omitempty"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

func encode(msgType string, payload any) []byte {
	b, err := json.Marshal(Envelope{Type: msgType, Payload: payload})
	if err != nil {
		b, _ = json.Marshal(Envelope{Type: MsgError, Payload: ErrorPayload{Message: "encode failed"}})
	}
	return b
}
