// Package room tracks the rooms players gather in and the registry they are
// looked up through.  A room's embedded mutex serializes every mutation of
// the room and its game; callers lock the room, mutate, snapshot what they
// need to send, and unlock before sending.
package room

import (
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/tilewire/squabble/game"
	"github.com/tilewire/squabble/game/controller"
	"github.com/tilewire/squabble/game/player"
)

const (
	// MaxPlayers is the largest capacity a room can be created with.
	MaxPlayers = 4
	// MaxNicknameLength is the longest nickname kept; longer ones are cut.
	MaxNicknameLength = 15
)

// Room is a container for players and at most one game.  All fields are
// guarded by Lock; only Code never changes after creation.
type Room struct {
	sync.Mutex

	// Code is the join code players share out of band.
	Code game.RoomCode
	// HostID is the player allowed to start the game.  It transfers to the
	// next player in join order when the host leaves.
	HostID game.PlayerID
	// Status is the room's lifecycle state.
	Status game.Status
	// MaxPlayers is the room's capacity.
	MaxPlayers int
	// Players are the members in join order, which is also turn order.
	Players []*player.Player
	// Game is the running or finished game, nil before the first start.
	Game *controller.Game
	// LastActivityAt is bumped by every mutating call so the idle sweep can
	// find abandoned rooms.
	LastActivityAt time.Time

	closed bool
}

// Join adds a player, or re-attaches one whose id is already present.  The
// caller holds the lock.
func (r *Room) Join(nickname string, id game.PlayerID) (*player.Player, error) {
	if r.closed {
		return nil, game.NewError(game.ErrRoomNotFound, "room %v no longer exists", r.Code)
	}
	if id != "" {
		if p, ok := r.PlayerByID(id); ok {
			p.Connected = true
			return p, nil
		}
	}
	nickname = truncateNickname(nickname)
	switch {
	case r.Status != game.Waiting:
		return nil, game.NewError(game.ErrRoomNotJoinable, "room %v has already started", r.Code)
	case len(r.Players) >= r.MaxPlayers:
		return nil, game.NewError(game.ErrRoomFull, "room %v is full", r.Code)
	case r.nicknameTaken(nickname):
		return nil, game.NewError(game.ErrNicknameTaken, "someone in room %v is already called %v", r.Code, nickname)
	}
	p := player.New(id, nickname)
	r.Players = append(r.Players, p)
	return p, nil
}

// PlayerByID finds a member.  The caller holds the lock.
func (r *Room) PlayerByID(id game.PlayerID) (*player.Player, bool) {
	for _, p := range r.Players {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// RemovePlayer drops a member, transferring the host role to the next player
// in join order if the host left.  It reports whether the room emptied out;
// the caller then deletes the room from the registry.  The caller holds the
// lock.
func (r *Room) RemovePlayer(id game.PlayerID) (empty bool) {
	idx := -1
	for i, p := range r.Players {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return len(r.Players) == 0
	}
	r.Players = append(r.Players[:idx], r.Players[idx+1:]...)
	if r.Game != nil {
		r.Game.RemovePlayer(id)
	}
	if len(r.Players) == 0 {
		return true
	}
	if r.HostID == id {
		r.HostID = r.Players[0].ID
	}
	return false
}

// Touch records activity so the idle sweep leaves the room alone.  The caller
// holds the lock.
func (r *Room) Touch(now time.Time) {
	r.LastActivityAt = now
}

// AllReady reports whether every member is ready.  The caller holds the lock.
func (r *Room) AllReady() bool {
	return lo.EveryBy(r.Players, func(p *player.Player) bool { return p.Ready })
}

// AnyConnected reports whether a session is bound to any member.  The caller
// holds the lock.
func (r *Room) AnyConnected() bool {
	return lo.SomeBy(r.Players, func(p *player.Player) bool { return p.Connected })
}

// Closed reports whether the room was deleted from the registry while the
// caller was waiting for the lock.
func (r *Room) Closed() bool {
	return r.closed
}

// Info builds the public room summary.  The caller holds the lock; the
// summary contains no shared state and can be sent after unlocking.
func (r *Room) Info() game.RoomInfo {
	return game.RoomInfo{
		RoomID:     r.Code,
		HostID:     r.HostID,
		Status:     r.Status,
		MaxPlayers: r.MaxPlayers,
		Players:    lo.Map(r.Players, func(p *player.Player, _ int) game.PlayerInfo { return p.Info() }),
	}
}

func (r *Room) nicknameTaken(nickname string) bool {
	return lo.SomeBy(r.Players, func(p *player.Player) bool {
		return strings.EqualFold(p.Nickname, nickname)
	})
}

func truncateNickname(nickname string) string {
	if len(nickname) > MaxNicknameLength {
		return nickname[:MaxNicknameLength]
	}
	return nickname
}
