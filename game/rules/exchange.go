package rules

import (
	"github.com/tilewire/squabble/game"
	"github.com/tilewire/squabble/game/tile"
)

// CheckExchange validates swapping the named rack tiles with the bag.  The
// bag must hold at least as many tiles as are being returned to it.
func CheckExchange(bagSize int, rack []tile.Tile, ids []tile.ID) error {
	if len(ids) == 0 {
		return game.NewError(game.ErrNoTilesToExchange, "an exchange must name at least one tile")
	}
	rackIDs := make(map[tile.ID]struct{}, len(rack))
	for _, t := range rack {
		rackIDs[t.ID] = struct{}{}
	}
	seen := make(map[tile.ID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return game.NewError(game.ErrDuplicateTile, "tile %v is named twice", id)
		}
		seen[id] = struct{}{}
		if _, ok := rackIDs[id]; !ok {
			return game.NewError(game.ErrTileNotInRack, "tile %v is not in your rack", id)
		}
	}
	if bagSize < len(ids) {
		return game.NewError(game.ErrBagTooSmall, "the bag has only %v tiles", bagSize)
	}
	return nil
}
