package room

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/tilewire/squabble/game"
)

// codeAlphabet is what room codes and minted player ids are drawn from.  The
// visually ambiguous characters 0, O, 1, and I are left out so codes survive
// being read aloud.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const (
	codeLength        = 4
	longCodeLength    = 6
	codeAttempts      = 1000
	playerIDLength    = 12
	initialMaxPlayers = 1
)

type (
	// Config holds the shared settings the registry is created with.
	Config struct {
		// Log is used to log sweep results and code generation trouble.
		Log *log.Logger
		// Intn returns a random int in [0, n).  Tests inject a deterministic
		// one.
		Intn func(n int) int
		// TimeFunc supplies the current time.
		TimeFunc func() time.Time
	}

	// Registry owns the map of room codes to rooms.  Map operations are
	// atomic with respect to each other; the rooms themselves carry their own
	// locks.
	Registry struct {
		cfg   Config
		mu    sync.RWMutex
		rooms map[game.RoomCode]*Room
	}
)

func (cfg Config) validate() error {
	switch {
	case cfg.Log == nil:
		return fmt.Errorf("log required")
	case cfg.Intn == nil:
		return fmt.Errorf("random int function required")
	case cfg.TimeFunc == nil:
		return fmt.Errorf("time function required")
	}
	return nil
}

// NewRegistry creates an empty registry.
func (cfg Config) NewRegistry() (*Registry, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("creating registry: validation: %w", err)
	}
	r := Registry{
		cfg:   cfg,
		rooms: make(map[game.RoomCode]*Room),
	}
	return &r, nil
}

// Create makes a room with the requesting player as host and inserts it under
// a fresh code.  The capacity is clamped to [1, MaxPlayers] and the nickname
// is truncated.  A supplied player id is kept; an empty one gets a minted id.
func (r *Registry) Create(maxPlayers int, nickname string, playerID game.PlayerID) (*Room, error) {
	if maxPlayers < initialMaxPlayers {
		maxPlayers = initialMaxPlayers
	}
	if maxPlayers > MaxPlayers {
		maxPlayers = MaxPlayers
	}
	if playerID == "" {
		playerID = game.PlayerID("P-" + r.randomCode(playerIDLength))
	}
	now := r.cfg.TimeFunc()
	r.mu.Lock()
	defer r.mu.Unlock()
	code, err := r.newCode()
	if err != nil {
		return nil, err
	}
	rm := Room{
		Code:           code,
		HostID:         playerID,
		Status:         game.Waiting,
		MaxPlayers:     maxPlayers,
		LastActivityAt: now,
	}
	if _, err := rm.Join(nickname, playerID); err != nil {
		return nil, fmt.Errorf("adding host to new room: %w", err)
	}
	r.rooms[code] = &rm
	return &rm, nil
}

// Get looks up a room by code.
func (r *Registry) Get(code game.RoomCode) (*Room, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rm, ok := r.rooms[code]
	return rm, ok
}

// Delete removes a room from the map and marks it closed so members waiting
// on the room's lock see it is gone.  The caller holds the room's lock.
func (r *Registry) Delete(code game.RoomCode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rm, ok := r.rooms[code]; ok {
		rm.closed = true
		delete(r.rooms, code)
	}
}

// Len is the number of rooms.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

// Codes snapshots the room codes so sweeps can iterate without holding the
// map against concurrent creates and deletes.
func (r *Registry) Codes() []game.RoomCode {
	r.mu.RLock()
	defer r.mu.RUnlock()
	codes := make([]game.RoomCode, 0, len(r.rooms))
	for code := range r.rooms {
		codes = append(codes, code)
	}
	return codes
}

// Sweep deletes rooms with no connected players and no activity since the
// cutoff, returning how many were deleted.
func (r *Registry) Sweep(now time.Time, idleAfter time.Duration) int {
	deleted := 0
	for _, code := range r.Codes() {
		rm, ok := r.Get(code)
		if !ok {
			continue
		}
		rm.Lock()
		if !rm.AnyConnected() && now.Sub(rm.LastActivityAt) > idleAfter {
			r.Delete(code)
			deleted++
		}
		rm.Unlock()
	}
	if deleted > 0 {
		r.cfg.Log.Printf("idle sweep deleted %v room(s), %v left", deleted, r.Len())
	}
	return deleted
}

// newCode generates an unused room code, retrying at a longer length if the
// short codes are crowded.  The caller holds the map lock.
func (r *Registry) newCode() (game.RoomCode, error) {
	for _, length := range []int{codeLength, longCodeLength} {
		for attempt := 0; attempt < codeAttempts; attempt++ {
			code := game.RoomCode(r.randomCode(length))
			if _, ok := r.rooms[code]; !ok {
				return code, nil
			}
		}
		r.cfg.Log.Printf("no free %v-character room code after %v attempts", length, codeAttempts)
	}
	return "", fmt.Errorf("generating room code: no free code found")
}

func (r *Registry) randomCode(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = codeAlphabet[r.cfg.Intn(len(codeAlphabet))]
	}
	return string(b)
}
