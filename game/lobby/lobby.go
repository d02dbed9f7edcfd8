// Package lobby binds websocket sessions to players and routes their messages
// to rooms.  Handlers run on the session's read goroutine: they lock the one
// room the message concerns, mutate, snapshot the views to send, and unlock
// before sending, so each room's state changes strictly one message at a time
// while rooms stay independent of each other.
package lobby

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/tilewire/squabble/game"
	"github.com/tilewire/squabble/game/controller"
	"github.com/tilewire/squabble/game/message"
	"github.com/tilewire/squabble/game/room"
)

type (
	// Config contains the properties to create a lobby.
	Config struct {
		// Debug is a flag that causes the lobby to log the types of messages
		// that are read.
		Debug bool
		// Log is used to log errors and other information.
		Log *log.Logger
		// Registry owns the rooms.
		Registry *room.Registry
		// GameCfg is used to create new games.
		GameCfg controller.Config
		// TurnTick is how often turn deadlines are checked.
		TurnTick time.Duration
		// SweepInterval is how often idle rooms are looked for.
		SweepInterval time.Duration
		// IdleAfter is how long an unconnected room may sit before the sweep
		// deletes it.
		IdleAfter time.Duration
	}

	// Lobby routes messages between sessions and rooms.
	Lobby struct {
		debug    bool
		log      *log.Logger
		registry *room.Registry
		gameCfg  controller.Config
		timeFunc func() time.Time

		turnTick      time.Duration
		sweepInterval time.Duration
		idleAfter     time.Duration

		mu       sync.Mutex
		sessions map[game.SessionID]*session
	}

	// session is one websocket connection's binding.  The lobby's mutex
	// guards the playerID and roomID fields.
	session struct {
		id       game.SessionID
		send     chan<- message.Envelope
		playerID game.PlayerID
		roomID   game.RoomCode
	}

	// sessionRef is an immutable copy of a session taken under the lobby's
	// mutex so messages can be sent without holding it.
	sessionRef struct {
		id       game.SessionID
		send     chan<- message.Envelope
		playerID game.PlayerID
	}
)

// validate ensures the configuration has no errors.
func (cfg Config) validate() error {
	switch {
	case cfg.Log == nil:
		return fmt.Errorf("log required")
	case cfg.Registry == nil:
		return fmt.Errorf("room registry required")
	case cfg.GameCfg.TimeFunc == nil:
		return fmt.Errorf("game time function required")
	case cfg.TurnTick <= 0:
		return fmt.Errorf("positive turn tick required")
	case cfg.SweepInterval <= 0:
		return fmt.Errorf("positive sweep interval required")
	case cfg.IdleAfter <= 0:
		return fmt.Errorf("positive idle threshold required")
	}
	return nil
}

// NewLobby creates a lobby with no sessions.
func (cfg Config) NewLobby() (*Lobby, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("creating lobby: validation: %w", err)
	}
	l := Lobby{
		debug:         cfg.Debug,
		log:           cfg.Log,
		registry:      cfg.Registry,
		gameCfg:       cfg.GameCfg,
		timeFunc:      cfg.GameCfg.TimeFunc,
		turnTick:      cfg.TurnTick,
		sweepInterval: cfg.SweepInterval,
		idleAfter:     cfg.IdleAfter,
		sessions:      make(map[game.SessionID]*session),
	}
	return &l, nil
}

// Run starts the turn-timeout and idle-sweep tickers.  They stop when the
// context is cancelled.
func (l *Lobby) Run(ctx context.Context, wg *sync.WaitGroup) {
	wg.Add(2)
	go l.runTurnTicks(ctx, wg)
	go l.runSweeps(ctx, wg)
}

// Connect registers a session.  Messages for the session are written to send,
// which the socket's write pump drains.
func (l *Lobby) Connect(id game.SessionID, send chan<- message.Envelope) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sessions[id] = &session{id: id, send: send}
}

// Disconnect clears the session's binding and marks its player disconnected.
// The player stays in their room for a possible reconnect.
func (l *Lobby) Disconnect(id game.SessionID) {
	l.mu.Lock()
	s, ok := l.sessions[id]
	delete(l.sessions, id)
	l.mu.Unlock()
	if !ok || s.roomID == "" {
		return
	}
	rm, ok := l.registry.Get(s.roomID)
	if !ok {
		return
	}
	others := l.roomSessions(s.roomID)
	rm.Lock()
	if p, ok := rm.PlayerByID(s.playerID); ok {
		p.Connected = false
	}
	rm.Touch(l.timeFunc())
	info := rm.Info()
	rm.Unlock()
	l.broadcast(others, message.RoomUpdateType, message.RoomUpdate{Room: info})
}

// Counts reports the number of rooms and connected sessions, for monitoring.
func (l *Lobby) Counts() (rooms, sessions int) {
	l.mu.Lock()
	sessions = len(l.sessions)
	l.mu.Unlock()
	return l.registry.Len(), sessions
}

// Handle decodes and dispatches one message from a session.  Rule violations
// from a move are answered as invalidMove; every other player-caused error is
// answered as an error message; internal faults are logged and answered as
// SERVER_ERROR without mutating the room.
func (l *Lobby) Handle(id game.SessionID, e message.Envelope) {
	if l.debug {
		l.log.Printf("lobby reading message with type %v", e.Type)
	}
	in, err := e.Decode()
	if err != nil {
		l.sendError(id, err)
		return
	}
	switch m := in.(type) {
	case *message.CreateRoom:
		err = l.handleCreateRoom(id, m)
	case *message.JoinRoom:
		err = l.handleJoinRoom(id, m)
	case *message.Reconnect:
		err = l.handleReconnect(id, m)
	case *message.ToggleReady:
		err = l.handleToggleReady(id, m)
	case *message.StartGame:
		err = l.handleStartGame(id, m)
	case *message.PlayMove:
		err = l.handlePlayMove(id, m)
	case *message.LeaveRoom:
		err = l.handleLeaveRoom(id, m)
	default:
		err = game.NewError(game.ErrUnknownType, "unhandled message type %q", e.Type)
	}
	if err != nil {
		l.sendError(id, err)
	}
}

func (l *Lobby) handleCreateRoom(id game.SessionID, m *message.CreateRoom) error {
	maxPlayers := m.MaxPlayers
	if maxPlayers == 0 {
		maxPlayers = room.MaxPlayers
	}
	rm, err := l.registry.Create(maxPlayers, m.Nickname, m.PlayerID)
	if err != nil {
		return fmt.Errorf("creating room: %w", err)
	}
	rm.Lock()
	hostID := rm.HostID
	full := message.FullState{Room: rm.Info()}
	rm.Unlock()
	l.bind(id, hostID, rm.Code)
	l.sendTo(id, message.FullStateType, full)
	l.broadcast(l.roomSessions(rm.Code), message.RoomUpdateType, message.RoomUpdate{Room: full.Room})
	return nil
}

func (l *Lobby) handleJoinRoom(id game.SessionID, m *message.JoinRoom) error {
	rm, ok := l.registry.Get(m.RoomID)
	if !ok {
		return game.NewError(game.ErrRoomNotFound, "no room with code %v", m.RoomID)
	}
	rm.Lock()
	p, err := rm.Join(m.Nickname, m.PlayerID)
	if err != nil {
		rm.Unlock()
		return err
	}
	p.Connected = true
	rm.Touch(l.timeFunc())
	full := message.FullState{Room: rm.Info()}
	if rm.Game != nil {
		info := rm.Game.Info(p.ID)
		full.GameState = &info
	}
	rm.Unlock()
	l.bind(id, p.ID, rm.Code)
	l.sendTo(id, message.FullStateType, full)
	l.broadcast(l.roomSessions(rm.Code), message.RoomUpdateType, message.RoomUpdate{Room: full.Room})
	return nil
}

func (l *Lobby) handleReconnect(id game.SessionID, m *message.Reconnect) error {
	rm, ok := l.registry.Get(m.LastRoomID)
	if !ok {
		return game.NewError(game.ErrRoomNotFound, "no room with code %v", m.LastRoomID)
	}
	rm.Lock()
	p, ok := rm.PlayerByID(m.PlayerID)
	if !ok {
		rm.Unlock()
		return game.NewError(game.ErrNotInRoom, "player %v is not in room %v", m.PlayerID, m.LastRoomID)
	}
	p.Connected = true
	rm.Touch(l.timeFunc())
	full := message.FullState{Room: rm.Info()}
	if rm.Game != nil {
		info := rm.Game.Info(p.ID)
		full.GameState = &info
	}
	rm.Unlock()
	l.bind(id, p.ID, rm.Code)
	l.sendTo(id, message.FullStateType, full)
	l.broadcast(l.roomSessions(rm.Code), message.RoomUpdateType, message.RoomUpdate{Room: full.Room})
	return nil
}

func (l *Lobby) handleToggleReady(id game.SessionID, m *message.ToggleReady) error {
	rm, playerID, err := l.resolve(id, m.RoomID, m.PlayerID)
	if err != nil {
		return err
	}
	rm.Lock()
	p, ok := rm.PlayerByID(playerID)
	if !ok {
		rm.Unlock()
		return game.NewError(game.ErrNotInRoom, "player %v is not in room %v", playerID, m.RoomID)
	}
	p.Ready = m.Ready
	rm.Touch(l.timeFunc())
	info := rm.Info()
	rm.Unlock()
	l.broadcast(l.roomSessions(m.RoomID), message.RoomUpdateType, message.RoomUpdate{Room: info})
	return nil
}

func (l *Lobby) handleStartGame(id game.SessionID, m *message.StartGame) error {
	rm, playerID, err := l.resolve(id, m.RoomID, m.PlayerID)
	if err != nil {
		return err
	}
	targets := l.roomSessions(m.RoomID)
	rm.Lock()
	if _, ok := rm.PlayerByID(playerID); !ok {
		rm.Unlock()
		return game.NewError(game.ErrNotInRoom, "player %v is not in room %v", playerID, m.RoomID)
	}
	switch {
	case rm.HostID != playerID:
		rm.Unlock()
		return game.NewError(game.ErrNotHost, "only the host can start the game")
	case rm.Status != game.Waiting:
		rm.Unlock()
		return game.NewError(game.ErrInvalidState, "room %v is %v", m.RoomID, rm.Status)
	case len(rm.Players) < 2:
		rm.Unlock()
		return game.NewError(game.ErrMinPlayers, "at least two players are needed, have %v", len(rm.Players))
	case len(rm.Players) > rm.MaxPlayers:
		rm.Unlock()
		return game.NewError(game.ErrInvalidState, "room %v has more players than its capacity", m.RoomID)
	case !rm.AllReady():
		rm.Unlock()
		return game.NewError(game.ErrNotAllReady, "everyone must be ready to start")
	}
	g, err := l.gameCfg.NewGame(rm.Players)
	if err != nil {
		rm.Unlock()
		return fmt.Errorf("starting game in room %v: %w", m.RoomID, err)
	}
	rm.Game = g
	rm.Status = game.Playing
	rm.Touch(l.timeFunc())
	info := rm.Info()
	states := l.personalStates(rm, targets)
	turn := turnUpdate(rm.Code, g)
	rm.Unlock()
	l.broadcast(targets, message.RoomUpdateType, message.RoomUpdate{Room: info})
	l.sendStates(rm.Code, targets, states)
	l.broadcast(targets, message.TurnUpdateType, turn)
	return nil
}

func (l *Lobby) handlePlayMove(id game.SessionID, m *message.PlayMove) error {
	rm, playerID, err := l.resolve(id, m.RoomID, "")
	if err != nil {
		return err
	}
	targets := l.roomSessions(m.RoomID)
	rm.Lock()
	if rm.Game == nil {
		rm.Unlock()
		return game.NewError(game.ErrInvalidState, "room %v has no running game", m.RoomID)
	}
	if _, ok := rm.PlayerByID(playerID); !ok {
		rm.Unlock()
		return game.NewError(game.ErrNotInRoom, "player %v is not in room %v", playerID, m.RoomID)
	}
	// The move, including its dictionary lookups, applies under the room's
	// lock so no other mutation interleaves.
	result, err := rm.Game.HandleMove(playerID, m.Action, m.Placements, m.TileIDsToExchange)
	if err != nil {
		rm.Unlock()
		if gameErr := game.AsError(err); gameErr != nil {
			l.sendTo(id, message.InvalidMoveType, message.InvalidMove{
				RoomID:  m.RoomID,
				Reason:  gameErr.Code,
				Word:    gameErr.Word,
				Message: gameErr.Message,
			})
			return nil
		}
		l.log.Printf("move in room %v failed: %v", m.RoomID, err)
		return fmt.Errorf("applying move: %w", err)
	}
	rm.Touch(l.timeFunc())
	if result.Ended {
		rm.Status = game.Finished
	}
	accepted := message.MoveAccepted{RoomID: rm.Code, Move: result.Move}
	states := l.personalStates(rm, targets)
	turn := turnUpdate(rm.Code, rm.Game)
	var ended *message.GameEnded
	if result.Ended {
		ended = &message.GameEnded{
			RoomID:        rm.Code,
			Scores:        rm.Game.Scores(),
			StatsByPlayer: rm.Game.StatsByPlayer(),
			WinnerIDs:     rm.Game.Winners(),
		}
	}
	rm.Unlock()
	l.broadcast(targets, message.MoveAcceptedType, accepted)
	l.sendStates(rm.Code, targets, states)
	l.broadcast(targets, message.TurnUpdateType, turn)
	if ended != nil {
		l.broadcast(targets, message.GameEndedType, *ended)
	}
	return nil
}

func (l *Lobby) handleLeaveRoom(id game.SessionID, m *message.LeaveRoom) error {
	rm, playerID, err := l.resolve(id, m.RoomID, "")
	if err != nil {
		return err
	}
	targets := l.roomSessions(m.RoomID)
	rm.Lock()
	if _, ok := rm.PlayerByID(playerID); !ok {
		rm.Unlock()
		return game.NewError(game.ErrNotInRoom, "player %v is not in room %v", playerID, m.RoomID)
	}
	// A leaver on the clock forfeits their turn before going.
	forced := false
	if rm.Game != nil && !rm.Game.Finished() && rm.Game.ActivePlayerID() == playerID {
		result, err := rm.Game.ForcePass()
		switch {
		case err != nil:
			l.log.Printf("forcing pass for leaving player %v: %v", playerID, err)
		case result.Ended:
			rm.Status = game.Finished
		}
		forced = err == nil
	}
	empty := rm.RemovePlayer(playerID)
	rm.Touch(l.timeFunc())
	if empty {
		l.registry.Delete(rm.Code)
		rm.Unlock()
		l.unbind(id)
		return nil
	}
	info := rm.Info()
	var states map[game.SessionID]game.GameInfo
	var turn *message.TurnUpdate
	if forced && rm.Game != nil {
		states = l.personalStates(rm, targets)
		t := turnUpdate(rm.Code, rm.Game)
		turn = &t
	}
	rm.Unlock()
	l.unbind(id)
	remaining := l.roomSessions(m.RoomID)
	l.broadcast(remaining, message.RoomUpdateType, message.RoomUpdate{Room: info})
	if turn != nil {
		l.sendStates(rm.Code, remaining, states)
		l.broadcast(remaining, message.TurnUpdateType, *turn)
	}
	return nil
}

// runTurnTicks periodically forces a pass in every room whose active player
// overran their deadline.  Failures are logged, never surfaced to clients.
func (l *Lobby) runTurnTicks(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()
	ticker := time.NewTicker(l.turnTick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.forceExpiredTurns(l.timeFunc())
		}
	}
}

// runSweeps periodically deletes idle, unconnected rooms.
func (l *Lobby) runSweeps(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()
	ticker := time.NewTicker(l.sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.registry.Sweep(l.timeFunc(), l.idleAfter)
		}
	}
}

// forceExpiredTurns passes on behalf of every player whose clock ran out.
func (l *Lobby) forceExpiredTurns(now time.Time) {
	for _, code := range l.registry.Codes() {
		rm, ok := l.registry.Get(code)
		if !ok {
			continue
		}
		targets := l.roomSessions(code)
		rm.Lock()
		if rm.Status != game.Playing || rm.Game == nil || !rm.Game.TurnExpired(now) {
			rm.Unlock()
			continue
		}
		result, err := rm.Game.ForcePass()
		if err != nil {
			l.log.Printf("forcing pass in room %v: %v", code, err)
			rm.Unlock()
			continue
		}
		rm.Touch(now)
		if result.Ended {
			rm.Status = game.Finished
		}
		states := l.personalStates(rm, targets)
		turn := turnUpdate(code, rm.Game)
		var ended *message.GameEnded
		if result.Ended {
			ended = &message.GameEnded{
				RoomID:        code,
				Scores:        rm.Game.Scores(),
				StatsByPlayer: rm.Game.StatsByPlayer(),
				WinnerIDs:     rm.Game.Winners(),
			}
		}
		rm.Unlock()
		l.broadcast(targets, message.TurnUpdateType, turn)
		l.sendStates(rm.Code, targets, states)
		if ended != nil {
			l.broadcast(targets, message.GameEndedType, *ended)
		}
	}
}

// resolve finds the room and the player id the session speaks for.  The
// session's binding wins; the payload's optional player id is a fallback for
// sessions that have not created or joined through this connection.
func (l *Lobby) resolve(id game.SessionID, code game.RoomCode, fallback game.PlayerID) (*room.Room, game.PlayerID, error) {
	rm, ok := l.registry.Get(code)
	if !ok {
		return nil, "", game.NewError(game.ErrRoomNotFound, "no room with code %v", code)
	}
	l.mu.Lock()
	s, ok := l.sessions[id]
	var playerID game.PlayerID
	if ok {
		playerID = s.playerID
	}
	l.mu.Unlock()
	if playerID == "" {
		playerID = fallback
	}
	if playerID == "" {
		return nil, "", game.NewError(game.ErrNotInRoom, "this connection is not bound to a player")
	}
	return rm, playerID, nil
}

// bind points the session at a player and room.
func (l *Lobby) bind(id game.SessionID, playerID game.PlayerID, code game.RoomCode) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if s, ok := l.sessions[id]; ok {
		s.playerID = playerID
		s.roomID = code
	}
}

// unbind detaches the session from its player but keeps the connection.
func (l *Lobby) unbind(id game.SessionID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if s, ok := l.sessions[id]; ok {
		s.playerID = ""
		s.roomID = ""
	}
}

// roomSessions snapshots the sessions bound to the room.
func (l *Lobby) roomSessions(code game.RoomCode) []sessionRef {
	l.mu.Lock()
	defer l.mu.Unlock()
	bound := lo.Filter(lo.Values(l.sessions), func(s *session, _ int) bool {
		return s.roomID == code
	})
	return lo.Map(bound, func(s *session, _ int) sessionRef {
		return sessionRef{id: s.id, send: s.send, playerID: s.playerID}
	})
}

// personalStates builds each target session's personalized game snapshot.
// The caller holds the room's lock.
func (l *Lobby) personalStates(rm *room.Room, targets []sessionRef) map[game.SessionID]game.GameInfo {
	states := make(map[game.SessionID]game.GameInfo, len(targets))
	for _, ref := range targets {
		states[ref.id] = rm.Game.Info(ref.playerID)
	}
	return states
}

// sendStates delivers each session its own snapshot.
func (l *Lobby) sendStates(code game.RoomCode, targets []sessionRef, states map[game.SessionID]game.GameInfo) {
	for _, ref := range targets {
		state, ok := states[ref.id]
		if !ok {
			continue
		}
		l.send(ref, message.GameStateType, message.GameState{RoomID: code, GameState: state})
	}
}

// broadcast sends the same payload to every target session.
func (l *Lobby) broadcast(targets []sessionRef, t message.Type, payload interface{}) {
	for _, ref := range targets {
		l.send(ref, t, payload)
	}
}

// sendTo sends a payload to one session by id.
func (l *Lobby) sendTo(id game.SessionID, t message.Type, payload interface{}) {
	l.mu.Lock()
	s, ok := l.sessions[id]
	l.mu.Unlock()
	if !ok {
		return
	}
	l.send(sessionRef{id: s.id, send: s.send, playerID: s.playerID}, t, payload)
}

// send writes an envelope to the session's buffered queue without blocking.
// A session too slow to drain its queue loses messages rather than stalling
// the room that produced them.
func (l *Lobby) send(ref sessionRef, t message.Type, payload interface{}) {
	e, err := message.NewEnvelope(t, payload)
	if err != nil {
		l.log.Printf("building %v message: %v", t, err)
		return
	}
	if l.debug {
		l.log.Printf("lobby writing message with type %v to session %v", t, ref.id)
	}
	select {
	case ref.send <- e:
	default:
		l.log.Printf("dropping %v message for slow session %v", t, ref.id)
	}
}

// sendError answers a failed request on the offending session.
func (l *Lobby) sendError(id game.SessionID, err error) {
	gameErr := game.AsError(err)
	if gameErr == nil {
		l.log.Printf("handling message for session %v: %v", id, err)
		gameErr = game.NewError(game.ErrServer, "something went wrong, please try again")
	}
	l.sendTo(id, message.ErrorType, message.Error{Code: gameErr.Code, Message: gameErr.Message})
}

// turnUpdate builds the whose-turn-is-it announcement.  The caller holds the
// room's lock.
func turnUpdate(code game.RoomCode, g *controller.Game) message.TurnUpdate {
	t := message.TurnUpdate{
		RoomID:  code,
		Version: g.Version(),
	}
	if !g.Finished() {
		t.ActivePlayerID = g.ActivePlayerID()
		t.TurnEndsAt = g.Deadline().UnixMilli()
	}
	return t
}
