package message

import (
	"encoding/json"
	"strings"

	"github.com/tilewire/squabble/game"
	"github.com/tilewire/squabble/game/tile"
)

type (
	// Inbound is a decoded client payload.  The lobby switches on the
	// concrete type to dispatch.
	Inbound interface {
		validate() error
		inbound()
	}

	// CreateRoom opens a new room with the sender as host.
	CreateRoom struct {
		Nickname   string        `json:"nickname"`
		MaxPlayers int           `json:"maxPlayers,omitempty"`
		PlayerID   game.PlayerID `json:"playerId,omitempty"`
	}

	// JoinRoom adds the sender to an existing room.
	JoinRoom struct {
		RoomID   game.RoomCode `json:"roomId"`
		Nickname string        `json:"nickname"`
		PlayerID game.PlayerID `json:"playerId,omitempty"`
	}

	// Reconnect rebinds a returning player to the room they were in.
	Reconnect struct {
		PlayerID   game.PlayerID `json:"playerId"`
		LastRoomID game.RoomCode `json:"lastRoomId"`
	}

	// ToggleReady sets the sender's ready flag.
	ToggleReady struct {
		RoomID   game.RoomCode `json:"roomId"`
		Ready    bool          `json:"ready"`
		PlayerID game.PlayerID `json:"playerId,omitempty"`
	}

	// StartGame asks the host to start the room's game.
	StartGame struct {
		RoomID   game.RoomCode `json:"roomId"`
		PlayerID game.PlayerID `json:"playerId,omitempty"`
	}

	// PlayMove submits the active player's move.
	PlayMove struct {
		RoomID            game.RoomCode    `json:"roomId"`
		Action            game.MoveAction  `json:"action"`
		Placements        []tile.Placement `json:"placements,omitempty"`
		TileIDsToExchange []tile.ID        `json:"tileIdsToExchange,omitempty"`
	}

	// LeaveRoom removes the sender from their room.
	LeaveRoom struct {
		RoomID game.RoomCode `json:"roomId"`
	}
)

func (*CreateRoom) inbound()  {}
func (*JoinRoom) inbound()    {}
func (*Reconnect) inbound()   {}
func (*ToggleReady) inbound() {}
func (*StartGame) inbound()   {}
func (*PlayMove) inbound()    {}
func (*LeaveRoom) inbound()   {}

// Decode turns an envelope into its typed payload, rejecting unknown types
// and malformed payloads before they reach any room.
func (e Envelope) Decode() (Inbound, error) {
	var p Inbound
	switch e.Type {
	case CreateRoomType:
		p = &CreateRoom{}
	case JoinRoomType:
		p = &JoinRoom{}
	case ReconnectType:
		p = &Reconnect{}
	case ToggleReadyType:
		p = &ToggleReady{}
	case StartGameType:
		p = &StartGame{}
	case PlayMoveType:
		p = &PlayMove{}
	case LeaveRoomType:
		p = &LeaveRoom{}
	default:
		return nil, game.NewError(game.ErrUnknownType, "unknown message type %q", e.Type)
	}
	if len(e.Payload) > 0 {
		if err := json.Unmarshal(e.Payload, p); err != nil {
			return nil, game.NewError(game.ErrBadPayload, "decoding %v payload: %v", e.Type, err)
		}
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (m *CreateRoom) validate() error {
	m.Nickname = strings.TrimSpace(m.Nickname)
	if m.Nickname == "" {
		return game.NewError(game.ErrBadPayload, "nickname required")
	}
	if m.MaxPlayers < 0 {
		return game.NewError(game.ErrBadPayload, "maxPlayers must not be negative")
	}
	return nil
}

func (m *JoinRoom) validate() error {
	m.Nickname = strings.TrimSpace(m.Nickname)
	switch {
	case m.RoomID == "":
		return game.NewError(game.ErrBadPayload, "roomId required")
	case m.Nickname == "":
		return game.NewError(game.ErrBadPayload, "nickname required")
	}
	return nil
}

func (m *Reconnect) validate() error {
	switch {
	case m.PlayerID == "":
		return game.NewError(game.ErrBadPayload, "playerId required")
	case m.LastRoomID == "":
		return game.NewError(game.ErrBadPayload, "lastRoomId required")
	}
	return nil
}

func (m *ToggleReady) validate() error {
	if m.RoomID == "" {
		return game.NewError(game.ErrBadPayload, "roomId required")
	}
	return nil
}

func (m *StartGame) validate() error {
	if m.RoomID == "" {
		return game.NewError(game.ErrBadPayload, "roomId required")
	}
	return nil
}

func (m *PlayMove) validate() error {
	switch {
	case m.RoomID == "":
		return game.NewError(game.ErrBadPayload, "roomId required")
	case !m.Action.Valid():
		return game.NewError(game.ErrBadPayload, "action must be play, pass, or exchange")
	}
	for _, p := range m.Placements {
		if p.Letter != "" && !p.Letter.Valid() {
			return game.NewError(game.ErrBadPayload, "placement letter %q must be a single A-Z character", p.Letter)
		}
	}
	return nil
}

func (m *LeaveRoom) validate() error {
	if m.RoomID == "" {
		return game.NewError(game.ErrBadPayload, "roomId required")
	}
	return nil
}
