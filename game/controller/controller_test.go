package controller

import (
	"testing"
	"time"

	"github.com/tilewire/squabble/game"
	"github.com/tilewire/squabble/game/player"
	"github.com/tilewire/squabble/game/tile"
)

// checkerFunc adapts a function to the word.Checker interface.
type checkerFunc func(string) bool

func (f checkerFunc) IsValid(word string) bool {
	return f(word)
}

var (
	acceptAllChecker = checkerFunc(func(string) bool { return true })
	rejectAllChecker = checkerFunc(func(string) bool { return false })
)

func noShuffle([]tile.Tile) {}

var testTime = time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

func testConfig() Config {
	return Config{
		Checker:              acceptAllChecker,
		Lang:                 tile.English,
		TurnDuration:         2 * time.Minute,
		MaxConsecutivePasses: 6,
		ExchangeCountsAsPass: true,
		ShuffleFunc:          noShuffle,
		TimeFunc:             func() time.Time { return testTime },
	}
}

func testPlayers() []*player.Player {
	return []*player.Player{
		player.New("p1", "alice"),
		player.New("p2", "bob"),
	}
}

func newTile(id tile.ID, l tile.Letter, points int) tile.Tile {
	return tile.Tile{ID: id, Letter: l, Points: points}
}

// rackOf replaces a player's rack with custom tiles so scores are predictable.
func rackOf(tiles ...tile.Tile) []tile.Tile {
	return tiles
}

func retinasRack() []tile.Tile {
	return rackOf(
		newTile(901, "R", 1),
		newTile(902, "E", 1),
		newTile(903, "T", 1),
		newTile(904, "I", 1),
		newTile(905, "N", 1),
		newTile(906, "A", 1),
		newTile(907, "S", 1),
	)
}

func retinasPlacements() []tile.Placement {
	return []tile.Placement{
		{TileID: 901, X: 4, Y: 7},
		{TileID: 902, X: 5, Y: 7},
		{TileID: 903, X: 6, Y: 7},
		{TileID: 904, X: 7, Y: 7},
		{TileID: 905, X: 8, Y: 7},
		{TileID: 906, X: 9, Y: 7},
		{TileID: 907, X: 10, Y: 7},
	}
}

func TestConfigValidate(t *testing.T) {
	configValidateTests := []struct {
		name   string
		mutate func(*Config)
		wantOk bool
	}{
		{"valid", func(*Config) {}, true},
		{"no checker", func(cfg *Config) { cfg.Checker = nil }, false},
		{"no turn duration", func(cfg *Config) { cfg.TurnDuration = 0 }, false},
		{"no pass limit", func(cfg *Config) { cfg.MaxConsecutivePasses = 0 }, false},
		{"no shuffle", func(cfg *Config) { cfg.ShuffleFunc = nil }, false},
		{"no time", func(cfg *Config) { cfg.TimeFunc = nil }, false},
	}
	for _, test := range configValidateTests {
		cfg := testConfig()
		test.mutate(&cfg)
		_, err := cfg.NewGame(testPlayers())
		switch {
		case test.wantOk && err != nil:
			t.Errorf("%v: unwanted error: %v", test.name, err)
		case !test.wantOk && err == nil:
			t.Errorf("%v: wanted error", test.name)
		}
	}
}

func TestNewGame(t *testing.T) {
	players := testPlayers()
	players[0].Ready = true
	players[0].Score = 33
	g, err := testConfig().NewGame(players)
	if err != nil {
		t.Fatalf("unwanted error: %v", err)
	}
	// The English set holds 102 tiles; two full deals leave 88.
	if want, got := 88, g.bag.Len(); want != got {
		t.Errorf("wanted %v tiles left in the bag, got %v", want, got)
	}
	for _, p := range players {
		switch {
		case len(p.Rack) != player.RackSize:
			t.Errorf("wanted %v dealt %v tiles, got %v", p.ID, player.RackSize, len(p.Rack))
		case p.Score != 0, p.Ready, p.Stats != (game.Stats{}):
			t.Errorf("wanted %v reset for the new game", p.ID)
		}
	}
	switch {
	case g.Version() != 1:
		t.Errorf("wanted version 1, got %v", g.Version())
	case g.ActivePlayerID() != "p1":
		t.Errorf("wanted the first player on the clock, got %v", g.ActivePlayerID())
	case !g.Deadline().Equal(testTime.Add(2 * time.Minute)):
		t.Errorf("wanted deadline %v, got %v", testTime.Add(2*time.Minute), g.Deadline())
	case g.Finished():
		t.Error("wanted a new game to not be finished")
	}
	if _, err := testConfig().NewGame(players[:1]); err == nil {
		t.Error("wanted error for a single-player game")
	}
}

func TestHandleMoveRejections(t *testing.T) {
	players := testPlayers()
	g, err := testConfig().NewGame(players)
	if err != nil {
		t.Fatalf("unwanted error: %v", err)
	}
	handleMoveRejections := []struct {
		name     string
		playerID game.PlayerID
		action   game.MoveAction
		wantCode game.ErrorCode
	}{
		{"not your turn", "p2", game.ActionPass, game.ErrNotYourTurn},
		{"unknown player", "p9", game.ActionPass, game.ErrNotYourTurn},
		{"unknown action", "p1", "dance", game.ErrBadPayload},
	}
	for _, test := range handleMoveRejections {
		_, err := g.HandleMove(test.playerID, test.action, nil, nil)
		switch gotErr := game.AsError(err); {
		case gotErr == nil:
			t.Errorf("%v: wanted %v, got %v", test.name, test.wantCode, err)
		case gotErr.Code != test.wantCode:
			t.Errorf("%v: wanted %v, got %v", test.name, test.wantCode, gotErr.Code)
		}
	}
	if g.Version() != 1 {
		t.Errorf("wanted rejected moves to not bump the version, got %v", g.Version())
	}
}

func TestHandleMovePlayBingo(t *testing.T) {
	players := testPlayers()
	g, err := testConfig().NewGame(players)
	if err != nil {
		t.Fatalf("unwanted error: %v", err)
	}
	players[0].Rack = retinasRack()
	result, err := g.HandleMove("p1", game.ActionPlay, retinasPlacements(), nil)
	if err != nil {
		t.Fatalf("unwanted error: %v", err)
	}
	// Seven one-point letters doubled by the center cell, plus the bingo.
	if want, got := 64, result.Move.Score; want != got {
		t.Errorf("wanted move score %v, got %v", want, got)
	}
	p1 := players[0]
	switch {
	case result.Ended:
		t.Error("wanted the game to continue")
	case len(result.Move.Words) != 1 || result.Move.Words[0] != "RETINAS":
		t.Errorf("wanted the single word RETINAS, got %v", result.Move.Words)
	case result.Move.Turn != 1:
		t.Errorf("wanted turn 1, got %v", result.Move.Turn)
	case p1.Score != 64:
		t.Errorf("wanted player score 64, got %v", p1.Score)
	case p1.Stats.WordsPlayed != 1, p1.Stats.TotalTurns != 1:
		t.Errorf("wanted play stats updated, got %+v", p1.Stats)
	case p1.Stats.BestWord != "RETINAS", p1.Stats.BestWordScore != 64:
		t.Errorf("wanted RETINAS as the best word, got %+v", p1.Stats)
	case len(p1.Rack) != player.RackSize:
		t.Errorf("wanted the rack refilled to %v, got %v", player.RackSize, len(p1.Rack))
	case g.ActivePlayerID() != "p2":
		t.Errorf("wanted the turn to advance to p2, got %v", g.ActivePlayerID())
	case g.Version() != 2:
		t.Errorf("wanted version 2, got %v", g.Version())
	case g.board.TileCount() != 7:
		t.Errorf("wanted 7 tiles on the board, got %v", g.board.TileCount())
	case g.consecutivePasses != 0:
		t.Errorf("wanted the stall counter reset, got %v", g.consecutivePasses)
	}
}

func TestHandleMovePlayInvalidWord(t *testing.T) {
	players := testPlayers()
	cfg := testConfig()
	cfg.Checker = rejectAllChecker
	g, err := cfg.NewGame(players)
	if err != nil {
		t.Fatalf("unwanted error: %v", err)
	}
	players[0].Rack = retinasRack()
	_, err = g.HandleMove("p1", game.ActionPlay, retinasPlacements(), nil)
	gotErr := game.AsError(err)
	switch {
	case gotErr == nil:
		t.Fatalf("wanted %v, got %v", game.ErrInvalidWord, err)
	case gotErr.Code != game.ErrInvalidWord:
		t.Errorf("wanted %v, got %v", game.ErrInvalidWord, gotErr.Code)
	case gotErr.Word != "RETINAS":
		t.Errorf("wanted the offending word RETINAS, got %q", gotErr.Word)
	}
	switch {
	case g.board.TileCount() != 0:
		t.Error("wanted a rejected play to leave the board empty")
	case len(players[0].Rack) != player.RackSize:
		t.Error("wanted a rejected play to leave the rack intact")
	case g.Version() != 1:
		t.Errorf("wanted version 1 after a rejected play, got %v", g.Version())
	case g.ActivePlayerID() != "p1":
		t.Errorf("wanted p1 to stay on the clock, got %v", g.ActivePlayerID())
	}
}

func TestHandleMovePass(t *testing.T) {
	players := testPlayers()
	g, err := testConfig().NewGame(players)
	if err != nil {
		t.Fatalf("unwanted error: %v", err)
	}
	bagLen := g.bag.Len()
	result, err := g.HandleMove("p1", game.ActionPass, nil, nil)
	if err != nil {
		t.Fatalf("unwanted error: %v", err)
	}
	switch {
	case result.Move.Score != 0:
		t.Errorf("wanted a pass to score 0, got %v", result.Move.Score)
	case players[0].Stats.Passes != 1:
		t.Errorf("wanted the pass counted, got %+v", players[0].Stats)
	case players[0].Stats.TotalTurns != 0:
		t.Errorf("wanted totalTurns to only count plays, got %+v", players[0].Stats)
	case g.consecutivePasses != 1:
		t.Errorf("wanted the stall counter at 1, got %v", g.consecutivePasses)
	case g.bag.Len() != bagLen:
		t.Error("wanted a pass to leave the bag alone")
	case g.ActivePlayerID() != "p2":
		t.Errorf("wanted the turn to advance, got %v", g.ActivePlayerID())
	case g.Version() != 2:
		t.Errorf("wanted version 2, got %v", g.Version())
	}
}

func TestHandleMoveExchange(t *testing.T) {
	for _, countsAsPass := range []bool{true, false} {
		players := testPlayers()
		cfg := testConfig()
		cfg.ExchangeCountsAsPass = countsAsPass
		g, err := cfg.NewGame(players)
		if err != nil {
			t.Fatalf("unwanted error: %v", err)
		}
		bagLen := g.bag.Len()
		ids := []tile.ID{players[0].Rack[0].ID, players[0].Rack[2].ID}
		if _, err := g.HandleMove("p1", game.ActionExchange, nil, ids); err != nil {
			t.Fatalf("unwanted error: %v", err)
		}
		switch {
		case len(players[0].Rack) != player.RackSize:
			t.Errorf("wanted the rack size unchanged, got %v", len(players[0].Rack))
		case g.bag.Len() != bagLen:
			t.Errorf("wanted the bag size unchanged, got %v", g.bag.Len())
		case players[0].Stats.Passes != 1:
			t.Errorf("wanted the exchange counted as a non-scoring action, got %+v", players[0].Stats)
		}
		wantStall := 0
		if countsAsPass {
			wantStall = 1
		}
		if got := g.consecutivePasses; got != wantStall {
			t.Errorf("countsAsPass=%v: wanted stall counter %v, got %v", countsAsPass, wantStall, got)
		}
	}
}

func TestHandleMoveExchangeRejected(t *testing.T) {
	players := testPlayers()
	g, err := testConfig().NewGame(players)
	if err != nil {
		t.Fatalf("unwanted error: %v", err)
	}
	_, err = g.HandleMove("p1", game.ActionExchange, nil, nil)
	if gotErr := game.AsError(err); gotErr == nil || gotErr.Code != game.ErrNoTilesToExchange {
		t.Errorf("wanted %v, got %v", game.ErrNoTilesToExchange, err)
	}
	if g.Version() != 1 {
		t.Errorf("wanted version 1 after a rejected exchange, got %v", g.Version())
	}
}

func TestEndBySixPasses(t *testing.T) {
	players := testPlayers()
	g, err := testConfig().NewGame(players)
	if err != nil {
		t.Fatalf("unwanted error: %v", err)
	}
	players[0].Rack = rackOf(newTile(901, "A", 1), newTile(902, "B", 3))  // worth 4
	players[1].Rack = rackOf(newTile(903, "Q", 10), newTile(904, "Z", 10)) // worth 20
	var result *Result
	for i := 0; i < 6; i++ {
		id := g.ActivePlayerID()
		if result, err = g.HandleMove(id, game.ActionPass, nil, nil); err != nil {
			t.Fatalf("pass %v: unwanted error: %v", i+1, err)
		}
		if wantEnded := i == 5; result.Ended != wantEnded {
			t.Fatalf("pass %v: wanted ended=%v", i+1, wantEnded)
		}
	}
	switch {
	case !g.Finished():
		t.Fatal("wanted the game finished after six passes")
	case players[0].Score != -4:
		t.Errorf("wanted p1 to lose their rack value, got %v", players[0].Score)
	case players[1].Score != -20:
		t.Errorf("wanted p2 to lose their rack value, got %v", players[1].Score)
	case len(g.Winners()) != 1 || g.Winners()[0] != "p1":
		t.Errorf("wanted p1 to win, got %v", g.Winners())
	case !g.Deadline().IsZero():
		t.Errorf("wanted no deadline after the game finished, got %v", g.Deadline())
	}
	if _, err := g.HandleMove("p1", game.ActionPass, nil, nil); game.AsError(err) == nil {
		t.Error("wanted moves after the end to be rejected")
	}
}

func TestEndByEmptyRack(t *testing.T) {
	players := testPlayers()
	g, err := testConfig().NewGame(players)
	if err != nil {
		t.Fatalf("unwanted error: %v", err)
	}
	g.bag = tile.NewBag(nil, noShuffle)
	players[0].Rack = rackOf(newTile(901, "A", 1), newTile(902, "T", 1))
	players[1].Rack = rackOf(newTile(903, "Q", 10), newTile(904, "J", 8))
	placements := []tile.Placement{
		{TileID: 901, X: 7, Y: 7},
		{TileID: 902, X: 8, Y: 7},
	}
	result, err := g.HandleMove("p1", game.ActionPlay, placements, nil)
	if err != nil {
		t.Fatalf("unwanted error: %v", err)
	}
	if !result.Ended {
		t.Fatal("wanted the game to end when the bag and a rack empty out")
	}
	// AT doubled on the center is 4; the finisher also gains the 18 points
	// stranded on p2's rack.
	switch {
	case players[0].Score != 22:
		t.Errorf("wanted p1 to finish with 22, got %v", players[0].Score)
	case players[1].Score != -18:
		t.Errorf("wanted p2 to finish with -18, got %v", players[1].Score)
	case len(g.Winners()) != 1 || g.Winners()[0] != "p1":
		t.Errorf("wanted p1 to win, got %v", g.Winners())
	}
}

func TestWinnersShareTies(t *testing.T) {
	players := testPlayers()
	g, err := testConfig().NewGame(players)
	if err != nil {
		t.Fatalf("unwanted error: %v", err)
	}
	players[0].Rack = nil
	players[1].Rack = nil
	g.consecutivePasses = g.cfg.MaxConsecutivePasses - 1
	if _, err := g.HandleMove("p1", game.ActionPass, nil, nil); err != nil {
		t.Fatalf("unwanted error: %v", err)
	}
	if want, got := 2, len(g.Winners()); want != got {
		t.Errorf("wanted %v tied winners, got %v", want, got)
	}
}

func TestTurnExpiredForcePass(t *testing.T) {
	players := testPlayers()
	g, err := testConfig().NewGame(players)
	if err != nil {
		t.Fatalf("unwanted error: %v", err)
	}
	switch {
	case g.TurnExpired(testTime):
		t.Error("wanted a fresh turn to not be expired")
	case !g.TurnExpired(testTime.Add(2*time.Minute + time.Second)):
		t.Error("wanted the turn expired after the deadline")
	}
	result, err := g.ForcePass()
	if err != nil {
		t.Fatalf("unwanted error: %v", err)
	}
	switch {
	case result.Move.PlayerID != "p1":
		t.Errorf("wanted the pass on behalf of p1, got %v", result.Move.PlayerID)
	case players[0].Stats.Passes != 1:
		t.Errorf("wanted the forced pass counted, got %+v", players[0].Stats)
	case g.consecutivePasses != 1:
		t.Errorf("wanted the stall counter at 1, got %v", g.consecutivePasses)
	case g.ActivePlayerID() != "p2":
		t.Errorf("wanted the turn to advance, got %v", g.ActivePlayerID())
	}
}

func TestRemovePlayer(t *testing.T) {
	players := []*player.Player{
		player.New("p1", "alice"),
		player.New("p2", "bob"),
		player.New("p3", "carol"),
	}
	g, err := testConfig().NewGame(players)
	if err != nil {
		t.Fatalf("unwanted error: %v", err)
	}
	if _, err := g.HandleMove("p1", game.ActionPass, nil, nil); err != nil {
		t.Fatalf("unwanted error: %v", err)
	}
	// p2 is active; removing p1 must not move the clock off of p2.
	g.RemovePlayer("p1")
	if want, got := game.PlayerID("p2"), g.ActivePlayerID(); want != got {
		t.Errorf("wanted %v to stay active, got %v", want, got)
	}
	// Removing the last player in the rotation wraps the pointer.
	if _, err := g.HandleMove("p2", game.ActionPass, nil, nil); err != nil {
		t.Fatalf("unwanted error: %v", err)
	}
	g.RemovePlayer("p3")
	if want, got := game.PlayerID("p2"), g.ActivePlayerID(); want != got {
		t.Errorf("wanted the pointer to wrap to %v, got %v", want, got)
	}
	g.RemovePlayer("p9") // not in the game, no-op
}

func TestInfoPersonalized(t *testing.T) {
	players := testPlayers()
	g, err := testConfig().NewGame(players)
	if err != nil {
		t.Fatalf("unwanted error: %v", err)
	}
	info := g.Info("p2")
	switch {
	case len(info.Rack) != player.RackSize:
		t.Errorf("wanted the recipient's rack populated, got %v tiles", len(info.Rack))
	case info.Rack[0] != players[1].Rack[0]:
		t.Error("wanted the recipient's own tiles")
	case info.ActivePlayerID != "p1":
		t.Errorf("wanted p1 active, got %v", info.ActivePlayerID)
	case info.Version != 1:
		t.Errorf("wanted version 1, got %v", info.Version)
	case info.BagSize != 88:
		t.Errorf("wanted bag size 88, got %v", info.BagSize)
	}
	for _, p := range info.Players {
		if p.RackSize != player.RackSize {
			t.Errorf("wanted only rack sizes in player summaries, got %+v", p)
		}
	}
	if info := g.Info("p9"); info.Rack != nil {
		t.Error("wanted no rack for a player not in the game")
	}
}

func TestTileConservation(t *testing.T) {
	players := testPlayers()
	g, err := testConfig().NewGame(players)
	if err != nil {
		t.Fatalf("unwanted error: %v", err)
	}
	count := func() int {
		n := g.bag.Len() + g.board.TileCount()
		for _, p := range players {
			n += len(p.Rack)
		}
		return n
	}
	const setSize = 102
	if got := count(); got != setSize {
		t.Fatalf("wanted %v tiles after the deal, got %v", setSize, got)
	}
	moves := []struct {
		action   game.MoveAction
		exchange bool
	}{
		{action: game.ActionPass},
		{action: game.ActionExchange, exchange: true},
		{action: game.ActionPass},
	}
	for i, m := range moves {
		id := g.ActivePlayerID()
		var ids []tile.ID
		if m.exchange {
			for _, t := range g.players[g.turnIndex].Rack[:3] {
				ids = append(ids, t.ID)
			}
		}
		if _, err := g.HandleMove(id, m.action, nil, ids); err != nil {
			t.Fatalf("move %v: unwanted error: %v", i, err)
		}
		if got := count(); got != setSize {
			t.Errorf("move %v: wanted %v tiles everywhere, got %v", i, setSize, got)
		}
	}
}
