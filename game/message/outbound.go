package message

import (
	"github.com/tilewire/squabble/game"
)

type (
	// FullState answers createRoom, joinRoom, and reconnect with everything
	// the requester needs to render their room.
	FullState struct {
		Room      game.RoomInfo  `json:"room"`
		GameState *game.GameInfo `json:"gameState,omitempty"`
	}

	// RoomUpdate broadcasts the public room summary after membership or
	// readiness changes.
	RoomUpdate struct {
		Room game.RoomInfo `json:"room"`
	}

	// GameState carries one player's personalized view of the running game.
	GameState struct {
		RoomID    game.RoomCode `json:"roomId"`
		GameState game.GameInfo `json:"gameState"`
	}

	// TurnUpdate announces the active player and the turn deadline.
	TurnUpdate struct {
		RoomID         game.RoomCode `json:"roomId"`
		ActivePlayerID game.PlayerID `json:"activePlayerId"`
		TurnEndsAt     int64         `json:"turnEndsAt,omitempty"`
		Version        uint64        `json:"version"`
	}

	// MoveAccepted broadcasts an accepted move's summary.
	MoveAccepted struct {
		RoomID game.RoomCode    `json:"roomId"`
		Move   game.MoveSummary `json:"move"`
	}

	// InvalidMove tells the submitter why their move was rejected.
	InvalidMove struct {
		RoomID game.RoomCode  `json:"roomId"`
		Reason game.ErrorCode `json:"reason"`
		// Word is the offending word when Reason is INVALID_WORD.
		Word    string `json:"word,omitempty"`
		Message string `json:"message,omitempty"`
	}

	// GameEnded broadcasts the final standings.
	GameEnded struct {
		RoomID        game.RoomCode               `json:"roomId"`
		Scores        map[game.PlayerID]int       `json:"scores"`
		StatsByPlayer map[game.PlayerID]game.Stats `json:"statsByPlayer"`
		WinnerIDs     []game.PlayerID             `json:"winnerIds"`
	}

	// Error reports a failed request on the offending connection, which
	// stays open.
	Error struct {
		Code    game.ErrorCode `json:"code"`
		Message string         `json:"message"`
	}
)
