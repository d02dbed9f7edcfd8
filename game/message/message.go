// Package message defines the JSON envelopes passed between clients and the
// lobby, and decodes inbound envelopes into typed payloads.
package message

import (
	"encoding/json"
	"fmt"
)

type (
	// Type is the purpose of a message.  Types are part of the wire protocol.
	Type string

	// Envelope wraps every message on the wire.
	Envelope struct {
		// Type is the purpose of the message.
		Type Type `json:"type"`
		// Payload is the type-specific body.
		Payload json.RawMessage `json:"payload,omitempty"`
	}
)

// Inbound message types, sent by clients.
const (
	// CreateRoomType opens a new room.
	CreateRoomType Type = "createRoom"
	// JoinRoomType joins an existing room.
	JoinRoomType Type = "joinRoom"
	// ReconnectType rebinds a returning player to their room.
	ReconnectType Type = "reconnect"
	// ToggleReadyType sets a player's ready flag.
	ToggleReadyType Type = "toggleReady"
	// StartGameType starts the room's game (host only).
	StartGameType Type = "startGame"
	// PlayMoveType submits a move for the active player.
	PlayMoveType Type = "playMove"
	// LeaveRoomType removes the player from their room.
	LeaveRoomType Type = "leaveRoom"
)

// Outbound message types, sent by the server.
const (
	// FullStateType carries the complete room and game view for one player.
	FullStateType Type = "fullState"
	// RoomUpdateType broadcasts the public room summary.
	RoomUpdateType Type = "roomUpdate"
	// GameStateType carries a personalized game snapshot.
	GameStateType Type = "gameState"
	// TurnUpdateType announces whose turn it is and when it ends.
	TurnUpdateType Type = "turnUpdate"
	// MoveAcceptedType broadcasts an accepted move.
	MoveAcceptedType Type = "moveAccepted"
	// InvalidMoveType tells the submitter why their move was rejected.
	InvalidMoveType Type = "invalidMove"
	// GameEndedType broadcasts final scores, stats, and winners.
	GameEndedType Type = "gameEnded"
	// ErrorType reports a failed request on the offending connection.
	ErrorType Type = "error"
)

// NewEnvelope marshals a payload into an envelope of the given type.
func NewEnvelope(t Type, payload interface{}) (Envelope, error) {
	if payload == nil {
		return Envelope{Type: t}, nil
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshalling %v payload: %w", t, err)
	}
	return Envelope{Type: t, Payload: b}, nil
}
