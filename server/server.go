// Package server runs the http server that players open websockets to.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/tilewire/squabble/game"
	"github.com/tilewire/squabble/server/socket"
)

type (
	// Server accepts websocket connections and feeds them to the lobby.
	Server struct {
		wg         sync.WaitGroup
		log        *log.Logger
		lobby      Lobby
		upgrader   socket.Upgrader
		httpServer *http.Server
		ctx        context.Context
		startedAt  time.Time
		Config
	}

	// Config contains fields which describe the server.
	Config struct {
		// Addr is the TCP address the server listens on.
		Addr string
		// StopDur is how long a graceful shutdown may take.
		StopDur time.Duration
		// SocketCfg is used to create a socket for each connection.
		SocketCfg socket.Config
		// NewSessionID mints the id for each new connection.
		NewSessionID func() game.SessionID
	}

	// Lobby is the destination the server's sockets pump messages to.
	Lobby interface {
		socket.Lobby
		// Run starts the lobby's background tickers until the context is
		// cancelled.
		Run(ctx context.Context, wg *sync.WaitGroup)
		// Counts reports the number of rooms and connected sessions.
		Counts() (rooms, sessions int)
	}
)

// NewServer creates a Server from the Config.
func (cfg Config) NewServer(log *log.Logger, lobby Lobby, upgrader socket.Upgrader) (*Server, error) {
	if err := cfg.validate(log, lobby, upgrader); err != nil {
		return nil, fmt.Errorf("creating server: validation: %w", err)
	}
	s := Server{
		log:      log,
		lobby:    lobby,
		upgrader: upgrader,
		ctx:      context.Background(),
		Config:   cfg,
	}
	r := mux.NewRouter()
	r.HandleFunc("/ws", s.handleSocket).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleMonitor).Methods(http.MethodGet)
	s.httpServer = &http.Server{
		Addr:    cfg.Addr,
		Handler: r,
	}
	return &s, nil
}

// validate ensures the configuration has no errors.
func (cfg Config) validate(log *log.Logger, lobby Lobby, upgrader socket.Upgrader) error {
	switch {
	case log == nil:
		return fmt.Errorf("log required")
	case lobby == nil:
		return fmt.Errorf("lobby required")
	case upgrader == nil:
		return fmt.Errorf("websocket upgrader required")
	case len(cfg.Addr) == 0:
		return fmt.Errorf("listen address required")
	case cfg.StopDur <= 0:
		return fmt.Errorf("stop timeout duration required")
	case cfg.NewSessionID == nil:
		return fmt.Errorf("session id function required")
	}
	return nil
}

// Run starts the lobby and the http server asynchronously until the server is
// stopped.  The listener's terminal error is reported on the returned channel.
func (s *Server) Run(ctx context.Context) <-chan error {
	errC := make(chan error, 1)
	ctx, cancel := context.WithCancel(ctx)
	s.ctx = ctx
	s.startedAt = s.SocketCfg.TimeFunc()
	s.lobby.Run(ctx, &s.wg)
	s.httpServer.RegisterOnShutdown(cancel)
	s.log.Printf("starting server at http://127.0.0.1%v", s.httpServer.Addr)
	go func() {
		errC <- s.httpServer.ListenAndServe()
	}()
	return errC
}

// Stop asks the server to shut down and waits for open sockets and the lobby
// to finish.  An error is returned if the shutdown times out.
func (s *Server) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.StopDur)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}
	s.wg.Wait()
	return nil
}

// handleSocket upgrades the request and pumps the connection until it dies.
// Each connection gets a fresh session id and its own pair of goroutines.
func (s *Server) handleSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r)
	if err != nil {
		// the gorilla upgrader has already answered the request
		s.log.Printf("upgrading to websocket connection: %v", err)
		return
	}
	id := s.NewSessionID()
	sock, err := s.SocketCfg.NewSocket(id, conn, s.lobby)
	if err != nil {
		s.log.Printf("creating socket for %v: %v", conn.RemoteAddr(), err)
		conn.Close()
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		sock.Run(s.ctx)
	}()
}
