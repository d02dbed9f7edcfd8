package socket

import (
	"net"
	"time"

	"github.com/tilewire/squabble/game"
	"github.com/tilewire/squabble/game/message"
)

// mockAddr implements the net.Addr interface
type mockAddr string

func (m mockAddr) Network() string {
	return string(m) + "_NETWORK"
}

func (m mockAddr) String() string {
	return string(m)
}

type mockConn struct {
	ReadMessageFunc      func(m *message.Envelope) error
	WriteMessageFunc     func(m message.Envelope) error
	SetReadDeadlineFunc  func(t time.Time) error
	SetWriteDeadlineFunc func(t time.Time) error
	SetPongHandlerFunc   func(h func(appData string) error)
	WritePingFunc        func() error
	WriteCloseFunc       func(reason string) error
	IsNormalCloseFunc    func(err error) bool
	CloseFunc            func() error
	RemoteAddrFunc       func() net.Addr
}

func (m *mockConn) ReadMessage(msg *message.Envelope) error {
	return m.ReadMessageFunc(msg)
}

func (m *mockConn) WriteMessage(msg message.Envelope) error {
	return m.WriteMessageFunc(msg)
}

func (m *mockConn) SetReadDeadline(t time.Time) error {
	return m.SetReadDeadlineFunc(t)
}

func (m *mockConn) SetWriteDeadline(t time.Time) error {
	return m.SetWriteDeadlineFunc(t)
}

func (m *mockConn) SetPongHandler(h func(appData string) error) {
	m.SetPongHandlerFunc(h)
}

func (m *mockConn) WritePing() error {
	return m.WritePingFunc()
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

func (m *mockConn) RemoteAddr() net.Addr {
	return m.RemoteAddrFunc()
}

type mockLobby struct {
	ConnectFunc    func(id game.SessionID, send chan<- message.Envelope)
	HandleFunc     func(id game.SessionID, e message.Envelope)
	DisconnectFunc func(id game.SessionID)
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
