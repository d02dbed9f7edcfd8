package server

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/tilewire/squabble/game"
	"github.com/tilewire/squabble/game/message"
	"github.com/tilewire/squabble/server/socket"
)

// mockAddr implements the net.Addr interface
type mockAddr string

func (m mockAddr) Network() string {
	return string(m) + "_NETWORK"
}

func (m mockAddr) String() string {
	return string(m)
}

type mockLobby struct {
	ConnectFunc    func(id game.SessionID, send chan<- message.Envelope)
	HandleFunc     func(id game.SessionID, e message.Envelope)
	DisconnectFunc func(id game.SessionID)
	RunFunc        func(ctx context.Context, wg *sync.WaitGroup)
	CountsFunc     func() (rooms, sessions int)
}

func (m *mockLobby) Connect(id game.SessionID, send chan<- message.Envelope) {
	m.ConnectFunc(id, send)
}

func (m *mockLobby) Handle(id game.SessionID, e message.Envelope) {
	m.HandleFunc(id, e)
}

func (m *mockLobby) Disconnect(id game.SessionID) {
	m.DisconnectFunc(id)
}

func (m *mockLobby) Run(ctx context.Context, wg *sync.WaitGroup) {
	m.RunFunc(ctx, wg)
}

func (m *mockLobby) Counts() (rooms, sessions int) {
	return m.CountsFunc()
}

type mockUpgrader struct {
	UpgradeFunc func(w http.ResponseWriter, r *http.Request) (socket.Conn, error)
}

func (m *mockUpgrader) Upgrade(w http.ResponseWriter, r *http.Request) (socket.Conn, error) {
	return m.UpgradeFunc(w, r)
}

type mockConn struct {
	ReadMessageFunc   func(m *message.Envelope) error
	WriteMessageFunc  func(m message.Envelope) error
	WriteCloseFunc    func(reason string) error
	IsNormalCloseFunc func(err error) bool
	CloseFunc         func() error
}

func (m *mockConn) ReadMessage(msg *message.Envelope) error {
	return m.ReadMessageFunc(msg)
}

func (m *mockConn) WriteMessage(msg message.Envelope) error {
	return m.WriteMessageFunc(msg)
}

func (*mockConn) SetReadDeadline(t time.Time) error {
	return nil
}

func (*mockConn) SetWriteDeadline(t time.Time) error {
	return nil
}

func (*mockConn) SetPongHandler(h func(appData string) error) {
}

func (*mockConn) WritePing() error {
	return nil
}

func (m *mockConn) WriteClose(reason string) error {
	return m.WriteCloseFunc(reason)
}

func (m *mockConn) IsNormalClose(err error) bool {
	return m.IsNormalCloseFunc(err)
}

func (m *mockConn) Close() error {
	return m.CloseFunc()
}

func (*mockConn) RemoteAddr() net.Addr {
	return mockAddr("selene.pc")
}
