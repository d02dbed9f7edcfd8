package tile

// Bag is the pool of undrawn tiles, kept as an ordered sequence so that a
// draw pops from the end and a return appends before reshuffling.
type Bag struct {
	tiles   []Tile
	shuffle func([]Tile)
}

// NewBag fills a bag with the tiles and shuffles it.
func NewBag(tiles []Tile, shuffle func([]Tile)) *Bag {
	b := Bag{
		tiles:   make([]Tile, len(tiles)),
		shuffle: shuffle,
	}
	copy(b.tiles, tiles)
	b.shuffle(b.tiles)
	return &b
}

// Len is the number of tiles left in the bag.
func (b *Bag) Len() int {
	return len(b.tiles)
}

// Draw removes up to n tiles from the bag.  Fewer are returned when the bag
// runs out.
func (b *Bag) Draw(n int) []Tile {
	if n > len(b.tiles) {
		n = len(b.tiles)
	}
	if n <= 0 {
		return nil
	}
	drawn := make([]Tile, n)
	copy(drawn, b.tiles[len(b.tiles)-n:])
	b.tiles = b.tiles[:len(b.tiles)-n]
	return drawn
}

// Return puts tiles back into the bag and reshuffles it.
func (b *Bag) Return(tiles []Tile) {
	b.tiles = append(b.tiles, tiles...)
	b.shuffle(b.tiles)
}
