// Package tile defines the letter tiles games are played with, the
// language-specific tile distributions, and the bag tiles are drawn from.
package tile

import "fmt"

type (
	// ID uniquely identifies a tile within one game.  Ids are assigned
	// sequentially when the tile set is built and never reused.
	ID int

	// Letter is an uppercase letter on a tile.  A joker's letter is empty
	// until the player who places it chooses one.
	Letter string

	// Tile is a game piece.
	Tile struct {
		// ID identifies the tile within its game.
		ID ID `json:"id"`
		// Letter is the face of the tile, or the chosen letter of a placed joker.
		Letter Letter `json:"letter,omitempty"`
		// Points is the face value.  Jokers are always worth zero.
		Points int `json:"points"`
		// Joker marks a blank tile that can stand in for any letter.
		Joker bool `json:"joker,omitempty"`
	}

	// Placement puts one rack tile on one board cell as part of a play.
	Placement struct {
		// TileID names the rack tile being placed.
		TileID ID `json:"tileId"`
		// X is the zero-based column.
		X int `json:"x"`
		// Y is the zero-based row.
		Y int `json:"y"`
		// Letter is the letter a joker should stand for.  It must be set when
		// placing a joker and must match the face of a normal tile if set.
		Letter Letter `json:"letter,omitempty"`
	}
)

// Valid reports whether the letter is a single uppercase A-Z character.
func (l Letter) Valid() bool {
	return len(l) == 1 && l[0] >= 'A' && l[0] <= 'Z'
}

func (t Tile) String() string {
	if t.Joker {
		return fmt.Sprintf("[%v?]", t.Letter)
	}
	return fmt.Sprintf("[%v]", t.Letter)
}

// Points sums the face values of the tiles.
func Points(tiles []Tile) int {
	sum := 0
	for _, t := range tiles {
		sum += t.Points
	}
	return sum
}
