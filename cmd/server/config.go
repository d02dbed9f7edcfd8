package main

import (
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"time"

	"lukechampine.com/frand"

	"github.com/tilewire/squabble/game"
	"github.com/tilewire/squabble/game/controller"
	"github.com/tilewire/squabble/game/lobby"
	"github.com/tilewire/squabble/game/room"
	"github.com/tilewire/squabble/game/tile"
	"github.com/tilewire/squabble/game/word"
	"github.com/tilewire/squabble/server"
	"github.com/tilewire/squabble/server/socket"
	"github.com/tilewire/squabble/server/socket/gorilla"
)

// defaultWordsFiles are tried in order when no words file is configured.
var defaultWordsFiles = []string{"words.txt", "/usr/share/dict/words"}

// createServer builds the whole server from the flags: word checker, room
// registry, lobby, and the http front end.
func (m mainFlags) createServer(log *log.Logger) (*server.Server, error) {
	lang, err := tile.ParseLanguage(m.lang)
	if err != nil {
		return nil, fmt.Errorf("reading game language: %w", err)
	}
	registryCfg := room.Config{
		Log:      log,
		Intn:     frand.Intn,
		TimeFunc: time.Now,
	}
	registry, err := registryCfg.NewRegistry()
	if err != nil {
		return nil, fmt.Errorf("creating room registry: %w", err)
	}
	lobbyCfg := lobby.Config{
		Debug:         m.debug,
		Log:           log,
		Registry:      registry,
		GameCfg:       m.gameConfig(log, lang),
		TurnTick:      m.turnTick,
		SweepInterval: m.sweepEvery,
		IdleAfter:     m.idleAfter,
	}
	l, err := lobbyCfg.NewLobby()
	if err != nil {
		return nil, fmt.Errorf("creating lobby: %w", err)
	}
	serverCfg := server.Config{
		Addr:         m.addr,
		StopDur:      5 * time.Second,
		SocketCfg:    m.socketConfig(log),
		NewSessionID: newSessionID,
	}
	return serverCfg.NewServer(log, l, gorilla.NewUpgrader(m.origin))
}

// gameConfig creates the base configuration for all games.
func (m mainFlags) gameConfig(log *log.Logger, lang tile.Language) controller.Config {
	return controller.Config{
		Checker:              m.wordChecker(log),
		Lang:                 lang,
		TurnDuration:         time.Duration(m.turnSeconds) * time.Second,
		MaxConsecutivePasses: m.maxPasses,
		ExchangeCountsAsPass: m.exchangeIsPass,
		ShuffleFunc:          shuffleTiles,
		TimeFunc:             time.Now,
	}
}

// socketConfig creates the configuration for each connection's socket.
func (m mainFlags) socketConfig(log *log.Logger) socket.Config {
	return socket.Config{
		Debug:      m.debug,
		Log:        log,
		TimeFunc:   time.Now,
		ReadWait:   60 * time.Second,
		WriteWait:  10 * time.Second,
		PingPeriod: 54 * time.Second, // readWait * 0.9
		QueueSize:  32,
	}
}

// wordChecker loads the first word list that can be opened, falling back to
// accepting every word so games stay playable on machines with no list.
func (m mainFlags) wordChecker(log *log.Logger) word.Checker {
	paths := defaultWordsFiles
	if len(m.wordsFile) != 0 {
		paths = append([]string{m.wordsFile}, paths...)
	}
	for _, path := range paths {
		d, err := loadDictionary(path)
		if err != nil {
			log.Printf("skipping word list %v: %v", path, err)
			continue
		}
		log.Printf("loaded %v words from %v", d.Len(), path)
		return word.WithTimeout(d, m.wordTimeout, log)
	}
	log.Print("no word list found, every word will be accepted")
	return word.AcceptAll{}
}

func loadDictionary(path string) (*word.Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return word.NewDictionary(f)
}

// shuffleTiles randomizes the bag with a fast cryptographic generator.
func shuffleTiles(tiles []tile.Tile) {
	frand.Shuffle(len(tiles), func(i, j int) {
		tiles[i], tiles[j] = tiles[j], tiles[i]
	})
}

// newSessionID mints an id for a new websocket connection.
func newSessionID() game.SessionID {
	return game.SessionID("S-" + hex.EncodeToString(frand.Bytes(8)))
}
