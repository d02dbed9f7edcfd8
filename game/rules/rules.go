// Package rules validates and scores plays.  The engine is pure: it reads
// the board and rack without mutating them, so a rejected move leaves no
// trace and identical inputs always produce identical verdicts and scores.
// Dictionary lookups and committing accepted plays belong to the caller.
package rules

import (
	"strings"

	"github.com/tilewire/squabble/game"
	"github.com/tilewire/squabble/game/board"
	"github.com/tilewire/squabble/game/tile"
	"github.com/tilewire/squabble/game/word"
)

// BingoBonus is awarded for playing all seven rack tiles in one move.
const BingoBonus = 50

type (
	// Word is one word formed by a play.
	Word struct {
		// Text is the word as it reads on the board, jokers showing their
		// chosen letters.
		Text string
		// Query is the dictionary form: newly placed jokers become wildcards
		// so any letter satisfies them.
		Query string
		// Score is the word's points with premiums applied.
		Score int
	}

	// Play is a validated placement set, scored and ready to commit.  Every
	// structural rule has passed; the caller still owes the dictionary check
	// on each word's Query before committing.
	Play struct {
		// Words lists the formed words, main word first.
		Words []Word
		// Score is the total for the move, including the bingo bonus.
		Score int
		// Bingo is set when all seven rack tiles were used.
		Bingo bool
		// Tiles are the resolved rack tiles by placement, jokers carrying
		// their chosen letters.
		Tiles []tile.Tile
	}

	// cellKey addresses one board cell.
	cellKey struct {
		x, y int
	}

	// overlay reads the board as if the pending placements were already on
	// it, without touching the board itself.
	overlay struct {
		b     *board.Board
		fresh map[cellKey]tile.Tile
	}

	// runCell is one cell of an occupied run.
	runCell struct {
		t         tile.Tile
		fresh     bool
		premium   board.Premium
		bonusUsed bool
	}
)

// CheckPlay validates placements against the board and rack, applying the
// placement rules in a fixed order so clients always see the same rejection
// for the same mistake.  On success it returns the formed words and score.
func CheckPlay(b *board.Board, rack []tile.Tile, placements []tile.Placement) (*Play, error) {
	if len(placements) == 0 {
		return nil, game.NewError(game.ErrNoWordFormed, "a play must place at least one tile")
	}
	fresh := make(map[cellKey]tile.Tile, len(placements))
	for _, p := range placements {
		switch {
		case !b.InBounds(p.X, p.Y):
			return nil, game.NewError(game.ErrOutOfBounds, "(%v,%v) is off the board", p.X, p.Y)
		case b.HasTileAt(p.X, p.Y):
			return nil, game.NewError(game.ErrCellOccupied, "(%v,%v) already holds a tile", p.X, p.Y)
		}
		if _, ok := fresh[cellKey{p.X, p.Y}]; ok {
			return nil, game.NewError(game.ErrCellOccupied, "(%v,%v) is targeted twice", p.X, p.Y)
		}
		fresh[cellKey{p.X, p.Y}] = tile.Tile{} // reserved, resolved below
	}
	rackByID := make(map[tile.ID]tile.Tile, len(rack))
	for _, t := range rack {
		rackByID[t.ID] = t
	}
	used := make(map[tile.ID]struct{}, len(placements))
	resolved := make([]tile.Tile, len(placements))
	for i, p := range placements {
		t, ok := rackByID[p.TileID]
		if !ok {
			return nil, game.NewError(game.ErrTileNotInRack, "tile %v is not in your rack", p.TileID)
		}
		if _, ok := used[p.TileID]; ok {
			return nil, game.NewError(game.ErrDuplicateTile, "tile %v is placed twice", p.TileID)
		}
		used[p.TileID] = struct{}{}
		switch {
		case t.Joker:
			if !p.Letter.Valid() {
				return nil, game.NewError(game.ErrBadPayload, "placing a joker requires choosing a letter A-Z")
			}
			t.Letter = p.Letter
		case p.Letter != "" && p.Letter != t.Letter:
			return nil, game.NewError(game.ErrBadPayload, "tile %v shows %v, not %v", p.TileID, t.Letter, p.Letter)
		}
		fresh[cellKey{p.X, p.Y}] = t
		resolved[i] = t
	}
	sameRow, sameCol := true, true
	for _, p := range placements[1:] {
		sameRow = sameRow && p.Y == placements[0].Y
		sameCol = sameCol && p.X == placements[0].X
	}
	if !sameRow && !sameCol {
		return nil, game.NewError(game.ErrNotAligned, "placed tiles must share a row or a column")
	}
	if b.Empty() {
		if _, ok := fresh[cellKey{board.Center, board.Center}]; !ok {
			return nil, game.NewError(game.ErrMustCoverCenter, "the first play must cover the center cell")
		}
	}
	o := overlay{b: b, fresh: fresh}
	dx, dy := playAxis(o, placements, sameRow)
	if err := o.checkContiguous(placements, dx, dy); err != nil {
		return nil, err
	}
	main := o.runThrough(placements[0].X, placements[0].Y, dx, dy)
	if !b.Empty() && !connected(b, main, placements) {
		return nil, game.NewError(game.ErrNotConnected, "the play must touch an existing tile")
	}
	var words []Word
	if len(main) >= 2 {
		words = append(words, scoreRun(main))
	}
	for _, p := range placements {
		cross := o.runThrough(p.X, p.Y, dy, dx)
		if len(cross) >= 2 {
			words = append(words, scoreRun(cross))
		}
	}
	if len(words) == 0 {
		return nil, game.NewError(game.ErrNoWordFormed, "the play forms no word of two or more letters")
	}
	score := 0
	for _, w := range words {
		score += w.Score
	}
	bingo := len(placements) == 7
	if bingo {
		score += BingoBonus
	}
	play := Play{
		Words: words,
		Score: score,
		Bingo: bingo,
		Tiles: resolved,
	}
	return &play, nil
}

// playAxis picks the direction of the main word.  Multi-tile plays follow
// their shared line.  A single tile joins whichever axis runs two or more
// cells through it, preferring horizontal; the perpendicular word, if any,
// is picked up as a cross.
func playAxis(o overlay, placements []tile.Placement, sameRow bool) (dx, dy int) {
	if len(placements) > 1 {
		if sameRow {
			return 1, 0
		}
		return 0, 1
	}
	if len(o.runThrough(placements[0].X, placements[0].Y, 1, 0)) >= 2 {
		return 1, 0
	}
	return 0, 1
}

// connected reports whether the play touches the rest of the board: an
// existing tile inside the main run, or a placement orthogonally adjacent to
// an existing tile.
func connected(b *board.Board, main []runCell, placements []tile.Placement) bool {
	for _, c := range main {
		if !c.fresh {
			return true
		}
	}
	for _, p := range placements {
		if b.HasNeighbor(p.X, p.Y) {
			return true
		}
	}
	return false
}

func (o overlay) has(x, y int) bool {
	if _, ok := o.fresh[cellKey{x, y}]; ok {
		return true
	}
	return o.b.HasTileAt(x, y)
}

// cellAt reads a cell through the overlay.  ok is false for empty cells.
func (o overlay) cellAt(x, y int) (c runCell, ok bool) {
	bc := o.b.At(x, y)
	if bc == nil {
		return runCell{}, false
	}
	if t, fresh := o.fresh[cellKey{x, y}]; fresh {
		return runCell{t: t, fresh: true, premium: bc.Premium, bonusUsed: bc.BonusUsed}, true
	}
	if bc.Tile == nil {
		return runCell{}, false
	}
	return runCell{t: *bc.Tile, premium: bc.Premium, bonusUsed: bc.BonusUsed}, true
}

// checkContiguous verifies the placements leave no gap between the extremes
// of their line.
func (o overlay) checkContiguous(placements []tile.Placement, dx, dy int) error {
	if len(placements) < 2 {
		return nil
	}
	minX, minY := placements[0].X, placements[0].Y
	maxX, maxY := minX, minY
	for _, p := range placements[1:] {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}
	for x, y := minX, minY; x <= maxX && y <= maxY; x, y = x+dx, y+dy {
		if !o.has(x, y) {
			return game.NewError(game.ErrNotContiguous, "the play leaves a gap at (%v,%v)", x, y)
		}
	}
	return nil
}

// runThrough collects the unbroken occupied run containing (x, y) along the
// axis, walking back to the run's start first.
func (o overlay) runThrough(x, y, dx, dy int) []runCell {
	for o.has(x-dx, y-dy) {
		x, y = x-dx, y-dy
	}
	var run []runCell
	for {
		c, ok := o.cellAt(x, y)
		if !ok {
			break
		}
		run = append(run, c)
		x, y = x+dx, y+dy
	}
	return run
}

// scoreRun turns an occupied run into a scored word.  Letter and word
// premiums apply only to freshly placed tiles on unconsumed cells; tiles
// already on the board count face value.
func scoreRun(run []runCell) Word {
	var text, query strings.Builder
	sum, mult := 0, 1
	for _, c := range run {
		text.WriteString(string(c.t.Letter))
		if c.fresh && c.t.Joker {
			query.WriteRune(word.Wildcard)
		} else {
			query.WriteString(string(c.t.Letter))
		}
		points := c.t.Points
		if c.fresh && !c.bonusUsed {
			points *= c.premium.LetterMultiplier()
			mult *= c.premium.WordMultiplier()
		}
		sum += points
	}
	return Word{
		Text:  text.String(),
		Query: query.String(),
		Score: sum * mult,
	}
}
