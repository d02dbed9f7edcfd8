// Package socket pumps messages between one websocket connection and the
// lobby.  The read pump hands each inbound envelope to the lobby on the
// socket's goroutine; the write pump is the only goroutine that writes to the
// connection, draining the session's buffered queue and keeping the
// connection alive with pings.
package socket

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/tilewire/squabble/game"
	"github.com/tilewire/squabble/game/message"
)

type (
	// Socket pumps messages for one session.
	Socket struct {
		Config
		id    game.SessionID
		conn  Conn
		lobby Lobby
		send  chan message.Envelope
	}

	// Config contains commonly shared Socket properties.
	Config struct {
		// Debug is a flag that causes the socket to log the types of messages
		// that are read and written.
		Debug bool
		// Log is used to log errors and other information.
		Log *log.Logger
		// TimeFunc supplies the current time, used to set read/write deadlines.
		TimeFunc func() time.Time
		// ReadWait is the amount of time that can pass between receiving
		// client messages or pongs before the connection times out.
		ReadWait time.Duration
		// WriteWait is the amount of time the socket can take to write a
		// message.
		WriteWait time.Duration
		// PingPeriod is how often ping messages are sent.  Should be less
		// than ReadWait.
		PingPeriod time.Duration
		// QueueSize is the outbound queue's capacity.  The lobby drops
		// messages rather than block when the queue is full.
		QueueSize int
	}

	// Conn is the connection that backs the socket.
	Conn interface {
		// ReadMessage reads the next envelope from the connection.
		ReadMessage(m *message.Envelope) error
		// WriteMessage writes the envelope as json to the connection.
		WriteMessage(m message.Envelope) error
		// SetReadDeadline sets how long a read can block.
		SetReadDeadline(t time.Time) error
		// SetWriteDeadline sets how long a write can block.
		SetWriteDeadline(t time.Time) error
		// SetPongHandler registers the function called when pongs arrive.
		SetPongHandler(h func(appData string) error)
		// WritePing writes a ping message on the connection.
		WritePing() error
		// WriteClose writes a close message on the connection.
		WriteClose(reason string) error
		// IsNormalClose determines if the error is an expected close.
		IsNormalClose(err error) bool
		// Close closes the connection.
		Close() error
		// RemoteAddr gets the remote network address of the connection.
		RemoteAddr() net.Addr
	}

	// Upgrader turns a http request into a websocket connection.
	Upgrader interface {
		Upgrade(w http.ResponseWriter, r *http.Request) (Conn, error)
	}

	// Lobby is what the socket feeds.  Connect registers the session's
	// outbound queue, Handle processes one inbound envelope, and Disconnect
	// releases the session when the connection dies.
	Lobby interface {
		Connect(id game.SessionID, send chan<- message.Envelope)
		Handle(id game.SessionID, e message.Envelope)
		Disconnect(id game.SessionID)
	}
)

// NewSocket creates a socket for the session over the connection.
func (cfg Config) NewSocket(id game.SessionID, conn Conn, lobby Lobby) (*Socket, error) {
	if err := cfg.validate(id, conn, lobby); err != nil {
		return nil, fmt.Errorf("creating socket: validation: %w", err)
	}
	s := Socket{
		Config: cfg,
		id:     id,
		conn:   conn,
		lobby:  lobby,
		send:   make(chan message.Envelope, cfg.QueueSize),
	}
	return &s, nil
}

// validate ensures the configuration has no errors.
func (cfg Config) validate(id game.SessionID, conn Conn, lobby Lobby) error {
	switch {
	case cfg.Log == nil:
		return fmt.Errorf("log required")
	case cfg.TimeFunc == nil:
		return fmt.Errorf("time function required")
	case len(id) == 0:
		return fmt.Errorf("session id required")
	case conn == nil:
		return fmt.Errorf("websocket connection required")
	case lobby == nil:
		return fmt.Errorf("lobby required")
	case cfg.ReadWait <= 0:
		return fmt.Errorf("positive read wait required")
	case cfg.WriteWait <= 0:
		return fmt.Errorf("positive write wait required")
	case cfg.PingPeriod <= 0:
		return fmt.Errorf("positive ping period required")
	case cfg.PingPeriod >= cfg.ReadWait:
		return fmt.Errorf("ping period must be less than read wait")
	case cfg.QueueSize <= 0:
		return fmt.Errorf("positive queue size required")
	}
	return nil
}

// Run registers the session with the lobby and starts the read and write
// pumps.  It blocks until the connection dies or the context is cancelled,
// then disconnects the session and closes the connection.
func (s *Socket) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	s.lobby.Connect(s.id, s.send)
	var wg sync.WaitGroup
	wg.Add(2)
	go s.readMessages(ctx, cancel, &wg)
	go s.writeMessages(ctx, cancel, &wg)
	wg.Wait()
	s.lobby.Disconnect(s.id)
	s.conn.Close()
}

// readMessages hands envelopes from the connection to the lobby until the
// connection dies.  Handling runs on this goroutine, so a session's messages
// apply strictly in the order they arrive.
func (s *Socket) readMessages(ctx context.Context, cancel context.CancelFunc, wg *sync.WaitGroup) {
	defer wg.Done()
	defer cancel()
	s.refreshReadDeadline("")
	s.conn.SetPongHandler(s.refreshReadDeadline)
	for { // BLOCKING
		var m message.Envelope
		err := s.conn.ReadMessage(&m)
		select {
		case <-ctx.Done():
			return
		default:
		}
		if err != nil {
			if !s.conn.IsNormalClose(err) {
				s.Log.Printf("reading socket messages stopped for session %v: %v", s.id, err)
			}
			return
		}
		if s.Debug {
			s.Log.Printf("socket reading message with type %v", m.Type)
		}
		s.lobby.Handle(s.id, m)
	}
}

// writeMessages drains the session's queue onto the connection and pings to
// keep it alive.  It is the only writer to the connection.
func (s *Socket) writeMessages(ctx context.Context, cancel context.CancelFunc, wg *sync.WaitGroup) {
	pingTicker := time.NewTicker(s.PingPeriod)
	defer func() {
		pingTicker.Stop()
		cancel()
		wg.Done()
	}()
	for { // BLOCKING
		var err error
		select {
		case <-ctx.Done():
			s.conn.WriteClose("server shutting down")
			return
		case m := <-s.send:
			err = s.writeMessage(m)
		case <-pingTicker.C:
			err = s.writePing()
		}
		if err != nil {
			s.Log.Printf("writing socket messages stopped for session %v: %v", s.id, err)
			return
		}
	}
}

// writeMessage writes an envelope to the connection.
func (s *Socket) writeMessage(m message.Envelope) error {
	if s.Debug {
		s.Log.Printf("socket writing message with type %v", m.Type)
	}
	if err := s.refreshWriteDeadline(); err != nil {
		return err
	}
	if err := s.conn.WriteMessage(m); err != nil {
		return fmt.Errorf("writing socket message: %v", err)
	}
	return nil
}

func (s *Socket) writePing() error {
	if err := s.refreshWriteDeadline(); err != nil {
		return err
	}
	return s.conn.WritePing()
}

func (s *Socket) refreshReadDeadline(appData string) error {
	return s.conn.SetReadDeadline(s.TimeFunc().Add(s.ReadWait))
}

func (s *Socket) refreshWriteDeadline() error {
	return s.conn.SetWriteDeadline(s.TimeFunc().Add(s.WriteWait))
}
