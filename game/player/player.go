// Package player tracks one player's membership, rack, score, and per-game
// counters.  All mutation happens under the owning room's serialization.
package player

import (
	"fmt"

	"github.com/tilewire/squabble/game"
	"github.com/tilewire/squabble/game/tile"
)

// RackSize is the number of tiles a player holds when the bag can fill it.
const RackSize = 7

// Player is a member of a room.  Identity survives disconnects; Connected
// only tracks whether a session is currently bound to the player.
type Player struct {
	ID        game.PlayerID
	Nickname  string
	Connected bool
	Ready     bool
	Score     int
	Rack      []tile.Tile
	Stats     game.Stats
}

// New creates a connected, not-ready player with an empty rack.
func New(id game.PlayerID, nickname string) *Player {
	return &Player{
		ID:        id,
		Nickname:  nickname,
		Connected: true,
	}
}

// ResetForGame clears the score, rack, ready flag, and stats for a new game.
func (p *Player) ResetForGame() {
	p.Ready = false
	p.Score = 0
	p.Rack = nil
	p.Stats = game.Stats{}
}

// TileByID finds a rack tile.
func (p *Player) TileByID(id tile.ID) (tile.Tile, bool) {
	for _, t := range p.Rack {
		if t.ID == id {
			return t, true
		}
	}
	return tile.Tile{}, false
}

// RemoveTiles takes the named tiles out of the rack, preserving the order of
// the rest.  The rack is unchanged if any id is missing.
func (p *Player) RemoveTiles(ids []tile.ID) ([]tile.Tile, error) {
	want := make(map[tile.ID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := p.TileByID(id); !ok {
			return nil, fmt.Errorf("player %v does not hold tile %v", p.ID, id)
		}
		want[id] = struct{}{}
	}
	if len(want) != len(ids) {
		return nil, fmt.Errorf("duplicate tile ids: %v", ids)
	}
	removed := make([]tile.Tile, 0, len(ids))
	kept := p.Rack[:0]
	for _, t := range p.Rack {
		if _, ok := want[t.ID]; ok {
			removed = append(removed, t)
			continue
		}
		kept = append(kept, t)
	}
	p.Rack = kept
	return removed, nil
}

// AddTiles appends tiles to the rack.
func (p *Player) AddTiles(tiles ...tile.Tile) {
	p.Rack = append(p.Rack, tiles...)
}

// RackValue sums the face values of the rack, for end-of-game deductions.
func (p *Player) RackValue() int {
	return tile.Points(p.Rack)
}

// Info builds the public summary of the player.  The rack stays private;
// only its size is shared.
func (p *Player) Info() game.PlayerInfo {
	return game.PlayerInfo{
		ID:        p.ID,
		Nickname:  p.Nickname,
		Connected: p.Connected,
		Ready:     p.Ready,
		Score:     p.Score,
		RackSize:  len(p.Rack),
		Stats:     p.Stats,
	}
}
