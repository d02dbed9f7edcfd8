// Package controller runs one game: dealing, turn order, applying moves, and
// end-of-game scoring.  A Game holds no locks; the owning room's
// serialization guards every call, including the dictionary lookups made
// while validating a play.
package controller

import (
	"fmt"
	"time"

	"github.com/samber/lo"

	"github.com/tilewire/squabble/game"
	"github.com/tilewire/squabble/game/board"
	"github.com/tilewire/squabble/game/player"
	"github.com/tilewire/squabble/game/rules"
	"github.com/tilewire/squabble/game/tile"
	"github.com/tilewire/squabble/game/word"
)

type (
	// Config holds the shared settings games are created with.
	Config struct {
		// Checker answers whether formed words may be played.
		Checker word.Checker
		// Lang picks the tile distribution.
		Lang tile.Language
		// TurnDuration is how long a player has before a pass is forced.
		TurnDuration time.Duration
		// MaxConsecutivePasses ends a stalled game when reached.
		MaxConsecutivePasses int
		// ExchangeCountsAsPass counts exchanges toward the stall limit.
		ExchangeCountsAsPass bool
		// ShuffleFunc randomizes the bag.  Tests inject a deterministic one.
		ShuffleFunc func([]tile.Tile)
		// TimeFunc supplies the current time.
		TimeFunc func() time.Time
	}

	// Game is one running game over the room's players.
	Game struct {
		cfg               Config
		board             *board.Board
		bag               *tile.Bag
		players           []*player.Player
		turnIndex         int
		turnEndsAt        time.Time
		startedAt         time.Time
		version           uint64
		consecutivePasses int
		moves             []game.MoveSummary
		finished          bool
		winners           []game.PlayerID
	}

	// Result is what one accepted move changed.
	Result struct {
		// Move is the accepted move's summary, already appended to the log.
		Move game.MoveSummary
		// Ended is set when the move finished the game.
		Ended bool
	}
)

func (cfg Config) validate() error {
	switch {
	case cfg.Checker == nil:
		return fmt.Errorf("word checker required")
	case cfg.TurnDuration <= 0:
		return fmt.Errorf("positive turn duration required")
	case cfg.MaxConsecutivePasses <= 0:
		return fmt.Errorf("positive max consecutive passes required")
	case cfg.ShuffleFunc == nil:
		return fmt.Errorf("shuffle function required")
	case cfg.TimeFunc == nil:
		return fmt.Errorf("time function required")
	}
	return nil
}

// NewGame starts a game over the players in their room order: racks, scores,
// and stats reset, the bag shuffled, seven tiles dealt to each player, and
// the first player put on the clock.
func (cfg Config) NewGame(players []*player.Player) (*Game, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("creating game: validation: %w", err)
	}
	if len(players) < 2 {
		return nil, fmt.Errorf("creating game: at least two players required, got %v", len(players))
	}
	set, err := tile.NewSet(cfg.Lang)
	if err != nil {
		return nil, fmt.Errorf("creating game: %w", err)
	}
	now := cfg.TimeFunc()
	g := Game{
		cfg:        cfg,
		board:      board.New(),
		bag:        tile.NewBag(set, cfg.ShuffleFunc),
		players:    players,
		startedAt:  now,
		turnEndsAt: now.Add(cfg.TurnDuration),
		version:    1,
	}
	for _, p := range players {
		p.ResetForGame()
		p.AddTiles(g.bag.Draw(player.RackSize)...)
	}
	return &g, nil
}

// ActivePlayerID is the player on the clock.
func (g *Game) ActivePlayerID() game.PlayerID {
	return g.players[g.turnIndex].ID
}

// Deadline is when the current turn is forcibly passed.  It is zero once the
// game has finished.
func (g *Game) Deadline() time.Time {
	return g.turnEndsAt
}

// Version counts accepted moves; every move bumps it by exactly one.
func (g *Game) Version() uint64 {
	return g.version
}

// Finished reports whether the game has ended.
func (g *Game) Finished() bool {
	return g.finished
}

// Winners lists the players with the highest final score.  Ties share the
// win.  It is empty until the game finishes.
func (g *Game) Winners() []game.PlayerID {
	return g.winners
}

// TurnExpired reports whether the active player's deadline has passed.
func (g *Game) TurnExpired(now time.Time) bool {
	return !g.finished && now.After(g.turnEndsAt)
}

// ForcePass passes on behalf of the active player when their clock runs out.
func (g *Game) ForcePass() (*Result, error) {
	return g.HandleMove(g.ActivePlayerID(), game.ActionPass, nil, nil)
}

// HandleMove validates and applies one move for the player.  A *game.Error
// return means the move was rejected and nothing changed; any other error is
// an internal fault.
func (g *Game) HandleMove(id game.PlayerID, action game.MoveAction, placements []tile.Placement, exchange []tile.ID) (*Result, error) {
	if g.finished {
		return nil, game.NewError(game.ErrInvalidState, "the game is over")
	}
	active := g.players[g.turnIndex]
	if active.ID != id {
		return nil, game.NewError(game.ErrNotYourTurn, "it is %v's turn", active.Nickname)
	}
	summary := game.MoveSummary{
		PlayerID:  id,
		Action:    action,
		Turn:      len(g.moves) + 1,
		CreatedAt: g.cfg.TimeFunc().UnixMilli(),
	}
	switch action {
	case game.ActionPass:
		g.applyPass(active)
	case game.ActionExchange:
		if err := g.applyExchange(active, exchange); err != nil {
			return nil, err
		}
	case game.ActionPlay:
		play, err := g.applyPlay(active, placements, summary.Turn)
		if err != nil {
			return nil, err
		}
		summary.Words = lo.Map(play.Words, func(w rules.Word, _ int) string { return w.Text })
		summary.Score = play.Score
		summary.Placements = placements
	default:
		return nil, game.NewError(game.ErrBadPayload, "action must be play, pass, or exchange")
	}
	g.moves = append(g.moves, summary)
	ended := g.ended()
	if ended {
		g.finish()
	} else {
		g.advanceTurn()
	}
	return &Result{Move: summary, Ended: ended}, nil
}

func (g *Game) applyPass(active *player.Player) {
	active.Stats.Passes++
	g.consecutivePasses++
}

func (g *Game) applyExchange(active *player.Player, exchange []tile.ID) error {
	if err := rules.CheckExchange(g.bag.Len(), active.Rack, exchange); err != nil {
		return err
	}
	removed, err := active.RemoveTiles(exchange)
	if err != nil {
		return fmt.Errorf("removing exchanged tiles: %w", err)
	}
	g.bag.Return(removed)
	active.AddTiles(g.bag.Draw(len(exchange))...)
	active.Stats.Passes++
	if g.cfg.ExchangeCountsAsPass {
		g.consecutivePasses++
	}
	return nil
}

func (g *Game) applyPlay(active *player.Player, placements []tile.Placement, turn int) (*rules.Play, error) {
	play, err := rules.CheckPlay(g.board, active.Rack, placements)
	if err != nil {
		return nil, err
	}
	for _, w := range play.Words {
		// Awaiting the checker is the one blocking call made under the
		// room's serialization; no other room mutation can interleave.
		if !g.cfg.Checker.IsValid(w.Query) {
			e := game.NewError(game.ErrInvalidWord, "%v is not a playable word", w.Text)
			e.Word = w.Text
			return nil, e
		}
	}
	ids := lo.Map(placements, func(p tile.Placement, _ int) tile.ID { return p.TileID })
	if _, err := active.RemoveTiles(ids); err != nil {
		return nil, fmt.Errorf("removing played tiles: %w", err)
	}
	for i, p := range placements {
		if err := g.board.Place(play.Tiles[i], p.X, p.Y, active.ID, turn); err != nil {
			return nil, fmt.Errorf("committing play: %w", err)
		}
	}
	active.AddTiles(g.bag.Draw(player.RackSize - len(active.Rack))...)
	active.Score += play.Score
	active.Stats.WordsPlayed += len(play.Words)
	active.Stats.TotalTurns++
	for _, w := range play.Words {
		if w.Score > active.Stats.BestWordScore {
			active.Stats.BestWordScore = w.Score
			active.Stats.BestWord = w.Text
		}
	}
	g.consecutivePasses = 0
	return play, nil
}

// advanceTurn rotates to the next player and resets their clock.
func (g *Game) advanceTurn() {
	g.turnIndex = (g.turnIndex + 1) % len(g.players)
	g.turnEndsAt = g.cfg.TimeFunc().Add(g.cfg.TurnDuration)
	g.version++
}

// ended reports whether the game is over: the bag is empty and a rack is
// empty, or the players have stalled out.
func (g *Game) ended() bool {
	if g.consecutivePasses >= g.cfg.MaxConsecutivePasses {
		return true
	}
	if g.bag.Len() > 0 {
		return false
	}
	return lo.SomeBy(g.players, func(p *player.Player) bool { return len(p.Rack) == 0 })
}

// finish freezes the game and settles scores: everyone loses their remaining
// rack value, and a player who emptied their rack also gains the sum of the
// others' racks.
func (g *Game) finish() {
	g.finished = true
	g.turnEndsAt = time.Time{}
	g.version++
	rackValues := make(map[game.PlayerID]int, len(g.players))
	total := 0
	var emptied []*player.Player
	for _, p := range g.players {
		v := p.RackValue()
		rackValues[p.ID] = v
		total += v
		if len(p.Rack) == 0 {
			emptied = append(emptied, p)
		}
		p.Score -= v
	}
	if len(emptied) == 1 {
		emptied[0].Score += total - rackValues[emptied[0].ID]
	}
	best := g.players[0].Score
	for _, p := range g.players[1:] {
		if p.Score > best {
			best = p.Score
		}
	}
	winners := lo.Filter(g.players, func(p *player.Player, _ int) bool { return p.Score == best })
	g.winners = lo.Map(winners, func(p *player.Player, _ int) game.PlayerID { return p.ID })
}

// RemovePlayer drops a player who left the room from the rotation, keeping
// the turn pointer on the same active player.  Their placed tiles stay on
// the board; their rack leaves the game with them.
func (g *Game) RemovePlayer(id game.PlayerID) {
	idx := -1
	for i, p := range g.players {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	g.players = append(g.players[:idx], g.players[idx+1:]...)
	if len(g.players) == 0 {
		g.turnIndex = 0
		return
	}
	if idx < g.turnIndex {
		g.turnIndex--
	}
	if g.turnIndex >= len(g.players) {
		g.turnIndex = 0
	}
}

// Scores maps each player to their current score.
func (g *Game) Scores() map[game.PlayerID]int {
	scores := make(map[game.PlayerID]int, len(g.players))
	for _, p := range g.players {
		scores[p.ID] = p.Score
	}
	return scores
}

// StatsByPlayer maps each player to their per-game counters.
func (g *Game) StatsByPlayer() map[game.PlayerID]game.Stats {
	stats := make(map[game.PlayerID]game.Stats, len(g.players))
	for _, p := range g.players {
		stats[p.ID] = p.Stats
	}
	return stats
}

// Info builds the game snapshot personalized for one player: only their own
// rack is populated.  Slices are copied so the snapshot can be sent after
// the room's lock is released.
func (g *Game) Info(forPlayer game.PlayerID) game.GameInfo {
	var cells []game.CellInfo
	g.board.Each(func(x, y int, c *board.Cell) {
		if c.Tile != nil {
			cells = append(cells, game.CellInfo{X: x, Y: y, Tile: *c.Tile})
		}
	})
	info := game.GameInfo{
		Cells:             cells,
		BagSize:           g.bag.Len(),
		Players:           lo.Map(g.players, func(p *player.Player, _ int) game.PlayerInfo { return p.Info() }),
		ActivePlayerID:    g.ActivePlayerID(),
		TurnDurationMs:    g.cfg.TurnDuration.Milliseconds(),
		Version:           g.version,
		ConsecutivePasses: g.consecutivePasses,
		Moves:             append([]game.MoveSummary(nil), g.moves...),
		StartedAt:         g.startedAt.UnixMilli(),
	}
	if !g.turnEndsAt.IsZero() {
		info.TurnEndsAt = g.turnEndsAt.UnixMilli()
	}
	for _, p := range g.players {
		if p.ID == forPlayer {
			info.Rack = append([]tile.Tile(nil), p.Rack...)
			break
		}
	}
	return info
}
