// Package game contains identifiers and summary structures shared by the
// rules engine, the room registry, the lobby, and the wire protocol.
package game

import (
	"github.com/tilewire/squabble/game/tile"
)

type (
	// PlayerID is the stable identity of a player.  It survives disconnects
	// and reconnects; clients may supply their own or let the server mint one.
	PlayerID string

	// SessionID identifies a single websocket connection.  A session is bound
	// to at most one player at a time.
	SessionID string

	// RoomCode is the join code of a room, drawn from an alphabet that omits
	// the easily confused characters 0, O, 1, and I.
	RoomCode string

	// MoveAction is the kind of move a player submits on their turn.
	MoveAction string

	// MoveSummary describes one accepted move for the room's move log.
	MoveSummary struct {
		// PlayerID is the player who made the move.
		PlayerID PlayerID `json:"playerId"`
		// Action is what kind of move it was.
		Action MoveAction `json:"action"`
		// Words lists the words formed by a play, main word first.
		Words []string `json:"words,omitempty"`
		// Score is the total points the move earned, including any bonus.
		Score int `json:"score"`
		// Placements are the board positions a play covered.
		Placements []tile.Placement `json:"placements,omitempty"`
		// Turn is the 1-based sequence number of the move.
		Turn int `json:"turn"`
		// CreatedAt is when the move was accepted, in unix milliseconds.
		CreatedAt int64 `json:"createdAt"`
	}

	// Stats are the per-player counters kept for the duration of one game.
	Stats struct {
		// WordsPlayed counts words formed by the player's accepted plays.
		WordsPlayed int `json:"wordsPlayed"`
		// BestWordScore is the highest-scoring single word so far.
		BestWordScore int `json:"bestWordScore"`
		// BestWord is the word that earned BestWordScore.
		BestWord string `json:"bestWord,omitempty"`
		// TotalTurns counts the player's successful plays.
		TotalTurns int `json:"totalTurns"`
		// Passes counts passes and exchanges, both non-scoring actions.
		Passes int `json:"passes"`
	}
)

const (
	// ActionPlay places tiles on the board to form words.
	ActionPlay MoveAction = "play"
	// ActionPass forfeits the turn.
	ActionPass MoveAction = "pass"
	// ActionExchange swaps rack tiles with the bag and forfeits the turn.
	ActionExchange MoveAction = "exchange"
)

// Valid reports whether the action is one a player may submit.
func (a MoveAction) Valid() bool {
	switch a {
	case ActionPlay, ActionPass, ActionExchange:
		return true
	}
	return false
}
