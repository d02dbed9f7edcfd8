// Package board models the 15x15 play grid: premium cells, placed tiles, and
// the adjacency queries the placement rules are built on.
package board

import (
	"fmt"

	"github.com/tilewire/squabble/game"
	"github.com/tilewire/squabble/game/tile"
)

const (
	// Size is the width and height of the grid.
	Size = 15
	// Center is the coordinate of the start cell on both axes.
	Center = 7
)

type (
	// Premium is a cell's score bonus.  It applies only to tiles placed on
	// the cell while it is unconsumed, never to tiles already on the board.
	Premium int

	// Cell is one square of the grid.
	Cell struct {
		// Premium is the cell's printed bonus.
		Premium Premium
		// Tile is the tile on the cell, nil while the cell is empty.
		Tile *tile.Tile
		// BonusUsed is set once a tile lands on a premium cell; the bonus
		// never applies again.
		BonusUsed bool
		// PlacedBy is the player whose play covered the cell.
		PlacedBy game.PlayerID
		// TurnPlayed is the move number that covered the cell.
		TurnPlayed int
	}

	// Board is the grid of cells.
	Board struct {
		cells  [Size][Size]Cell
		placed int
	}
)

const (
	// NoPremium marks a plain cell.
	NoPremium Premium = iota
	// DoubleLetter doubles the value of the tile placed on it.
	DoubleLetter
	// TripleLetter triples the value of the tile placed on it.
	TripleLetter
	// DoubleWord doubles every word using the cell.
	DoubleWord
	// TripleWord triples every word using the cell.
	TripleWord
)

// LetterMultiplier is the factor the premium applies to a single tile.
func (p Premium) LetterMultiplier() int {
	switch p {
	case DoubleLetter:
		return 2
	case TripleLetter:
		return 3
	}
	return 1
}

// WordMultiplier is the factor the premium applies to a whole word.
func (p Premium) WordMultiplier() int {
	switch p {
	case DoubleWord:
		return 2
	case TripleWord:
		return 3
	}
	return 1
}

func (p Premium) String() string {
	switch p {
	case DoubleLetter:
		return "DL"
	case TripleLetter:
		return "TL"
	case DoubleWord:
		return "DW"
	case TripleWord:
		return "TW"
	}
	return ""
}

// New creates an empty board with the standard premium pattern.
func New() *Board {
	var b Board
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			b.cells[y][x].Premium = premiumFor(standardLayout[y][x])
		}
	}
	return &b
}

// InBounds reports whether the coordinates are on the grid.
func (b *Board) InBounds(x, y int) bool {
	return x >= 0 && x < Size && y >= 0 && y < Size
}

// At returns the cell at the coordinates, or nil when out of bounds.
func (b *Board) At(x, y int) *Cell {
	if !b.InBounds(x, y) {
		return nil
	}
	return &b.cells[y][x]
}

// TileAt returns the tile at the coordinates, or nil when the cell is empty
// or out of bounds.
func (b *Board) TileAt(x, y int) *tile.Tile {
	c := b.At(x, y)
	if c == nil {
		return nil
	}
	return c.Tile
}

// HasTileAt reports whether an in-bounds cell holds a tile.
func (b *Board) HasTileAt(x, y int) bool {
	return b.TileAt(x, y) != nil
}

// Empty reports whether no tile has been placed yet.
func (b *Board) Empty() bool {
	return b.placed == 0
}

// TileCount is the number of tiles on the board.
func (b *Board) TileCount() int {
	return b.placed
}

// HasNeighbor reports whether a cell orthogonally adjacent to (x, y) holds a
// tile.
func (b *Board) HasNeighbor(x, y int) bool {
	return b.HasTileAt(x-1, y) || b.HasTileAt(x+1, y) ||
		b.HasTileAt(x, y-1) || b.HasTileAt(x, y+1)
}

// Place puts a tile on an empty cell, consuming the cell's premium and
// recording who covered it on which move.  The placement rules must have
// accepted the play first.
func (b *Board) Place(t tile.Tile, x, y int, by game.PlayerID, turn int) error {
	c := b.At(x, y)
	switch {
	case c == nil:
		return fmt.Errorf("placing tile %v: (%v,%v) is out of bounds", t.ID, x, y)
	case c.Tile != nil:
		return fmt.Errorf("placing tile %v: (%v,%v) is occupied", t.ID, x, y)
	}
	c.Tile = &t
	c.BonusUsed = c.Premium != NoPremium
	c.PlacedBy = by
	c.TurnPlayed = turn
	b.placed++
	return nil
}

// Each calls fn for every cell in row-major order.
func (b *Board) Each(fn func(x, y int, c *Cell)) {
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			fn(x, y, &b.cells[y][x])
		}
	}
}
