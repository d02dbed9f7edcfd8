package game

import (
	"github.com/tilewire/squabble/game/tile"
)

type (
	// PlayerInfo is the public summary of a player in a room.  Rack contents
	// stay private; only the rack size is shared.
	PlayerInfo struct {
		ID        PlayerID `json:"playerId"`
		Nickname  string   `json:"nickname"`
		Connected bool     `json:"connected"`
		Ready     bool     `json:"ready"`
		Score     int      `json:"score"`
		RackSize  int      `json:"rackSize"`
		Stats     Stats    `json:"stats"`
	}

	// RoomInfo is the public summary of a room.
	RoomInfo struct {
		RoomID     RoomCode     `json:"roomId"`
		HostID     PlayerID     `json:"hostId"`
		Status     Status       `json:"status"`
		MaxPlayers int          `json:"maxPlayers"`
		Players    []PlayerInfo `json:"players"`
	}

	// CellInfo is an occupied board cell in a game snapshot.
	CellInfo struct {
		X    int       `json:"x"`
		Y    int       `json:"y"`
		Tile tile.Tile `json:"tile"`
	}

	// GameInfo is a personalized snapshot of a running game.  Rack holds the
	// recipient's own tiles and is omitted for everyone else; opponents are
	// visible only through the public player summaries.
	GameInfo struct {
		Cells             []CellInfo    `json:"cells"`
		BagSize           int           `json:"bagSize"`
		Rack              []tile.Tile   `json:"rack,omitempty"`
		Players           []PlayerInfo  `json:"players"`
		ActivePlayerID    PlayerID      `json:"activePlayerId"`
		TurnEndsAt        int64         `json:"turnEndsAt,omitempty"`
		TurnDurationMs    int64         `json:"turnDurationMs"`
		Version           uint64        `json:"version"`
		ConsecutivePasses int           `json:"consecutivePasses"`
		Moves             []MoveSummary `json:"moves,omitempty"`
		StartedAt         int64         `json:"startedAt,omitempty"`
	}
)
