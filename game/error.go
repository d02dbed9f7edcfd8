package game

import (
	"errors"
	"fmt"
)

// ErrorCode is a stable, machine-readable reason for a rejected request.
// Codes are part of the wire protocol; clients key retry and display logic
// off of them, so existing codes must never be renamed.
type ErrorCode string

const (
	// ErrBadPayload rejects a message whose payload is malformed.
	ErrBadPayload ErrorCode = "BAD_PAYLOAD"
	// ErrUnknownType rejects a message whose type is not recognized.
	ErrUnknownType ErrorCode = "UNKNOWN_TYPE"
	// ErrRoomNotFound rejects a request naming a room that does not exist.
	ErrRoomNotFound ErrorCode = "ROOM_NOT_FOUND"
	// ErrRoomFull rejects a join when the room is at capacity.
	ErrRoomFull ErrorCode = "ROOM_FULL"
	// ErrRoomNotJoinable rejects a join when the room is not waiting for players.
	ErrRoomNotJoinable ErrorCode = "ROOM_NOT_JOINABLE"
	// ErrNicknameTaken rejects a join reusing a connected player's nickname.
	ErrNicknameTaken ErrorCode = "NICKNAME_TAKEN"
	// ErrNotInRoom rejects a request from a player who is not in the room.
	ErrNotInRoom ErrorCode = "NOT_IN_ROOM"
	// ErrNotHost rejects a host-only request from a non-host.
	ErrNotHost ErrorCode = "NOT_HOST"
	// ErrMinPlayers rejects a game start with fewer than two players.
	ErrMinPlayers ErrorCode = "MIN_PLAYERS"
	// ErrNotAllReady rejects a game start while a player is not ready.
	ErrNotAllReady ErrorCode = "NOT_ALL_READY"
	// ErrInvalidState rejects a request the room's lifecycle state forbids.
	ErrInvalidState ErrorCode = "INVALID_STATE"
	// ErrNotYourTurn rejects a move from a player who is not the active player.
	ErrNotYourTurn ErrorCode = "NOT_YOUR_TURN"
	// ErrOutOfBounds rejects a placement outside the board.
	ErrOutOfBounds ErrorCode = "OUT_OF_BOUNDS"
	// ErrCellOccupied rejects a placement on a cell that already has a tile.
	ErrCellOccupied ErrorCode = "CELL_OCCUPIED"
	// ErrTileNotInRack rejects a move using a tile the player does not hold.
	ErrTileNotInRack ErrorCode = "TILE_NOT_IN_RACK"
	// ErrDuplicateTile rejects a move using the same tile twice.
	ErrDuplicateTile ErrorCode = "DUPLICATE_TILE"
	// ErrNotAligned rejects placements that do not share a row or column.
	ErrNotAligned ErrorCode = "NOT_ALIGNED"
	// ErrMustCoverCenter rejects a first play that misses the center cell.
	ErrMustCoverCenter ErrorCode = "MUST_COVER_CENTER"
	// ErrNotContiguous rejects placements that leave a gap in their line.
	ErrNotContiguous ErrorCode = "NOT_CONTIGUOUS"
	// ErrNotConnected rejects a play that touches no existing tile.
	ErrNotConnected ErrorCode = "NOT_CONNECTED"
	// ErrNoWordFormed rejects a play that forms no word of two or more letters.
	ErrNoWordFormed ErrorCode = "NO_WORD_FORMED"
	// ErrInvalidWord rejects a play forming a word the dictionary does not know.
	ErrInvalidWord ErrorCode = "INVALID_WORD"
	// ErrNoTilesToExchange rejects an exchange naming no tiles.
	ErrNoTilesToExchange ErrorCode = "NO_TILES_TO_EXCHANGE"
	// ErrBagTooSmall rejects an exchange larger than the bag.
	ErrBagTooSmall ErrorCode = "BAG_TOO_SMALL"
	// ErrServer reports an unexpected internal failure.
	ErrServer ErrorCode = "SERVER_ERROR"
)

// Error is a rejection caused by a player's request rather than by a server
// fault.  Handlers answer an *Error with a protocol response on the offending
// connection and keep the connection open; any other error is logged and
// reported as ErrServer.
type Error struct {
	// Code is the stable reason for the rejection.
	Code ErrorCode
	// Message is a human-readable explanation.
	Message string
	// Word is the offending word when Code is ErrInvalidWord.
	Word string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewError creates an Error with a formatted message.
func NewError(code ErrorCode, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// AsError unwraps err into an *Error, or returns nil if err was not caused by
// a player's request.
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}
