package main

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"arena-server/sim"
)

// wsConn is the subset of *websocket.Conn a session needs
type wsConn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Conn manages a single WebSocket player session
type Conn struct {
	ID      string
	ws      wsConn
	codec   Codec
	session *Session
	mu      sync.Mutex // protects ws writes and closed
	closed  bool
}

// NewConn creates a new connection wrapper bound to its own session
func NewConn(ws wsConn, codec Codec, session *Session) *Conn {
	return &Conn{
		ID:      uuid.New().String(),
		ws:      ws,
		codec:   codec,
		session: session,
	}
}

// Session returns the arena this connection plays in
func (c *Conn) Session() *Session {
	return c.session
}

// Send serializes msg with the connection codec and writes it to the WebSocket
func (c *Conn) Send(msg interface{}) error {
	frame, data, err := c.codec.Encode(msg)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	return c.ws.WriteMessage(frame, data)
}

// Close marks connection closed
func (c *Conn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.ws.Close()
}

// ConnManager manages all active connections
type ConnManager struct {
	mu    sync.RWMutex
	conns map[string]*Conn
}

// NewConnManager creates an empty connection manager
func NewConnManager() *ConnManager {
	return &ConnManager{conns: make(map[string]*Conn)}
}

// Add registers a connection
func (m *ConnManager) Add(c *Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conns[c.ID] = c
}

// Remove unregisters a connection
func (m *ConnManager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.conns, id)
}

// Count returns the number of active connections
func (m *ConnManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.conns)
}

// Snapshot returns a copy of all current connections
func (m *ConnManager) Snapshot() []*Conn {
	m.mu.RLock()
	defer m.mu.RUnlock()
	list := make([]*Conn, 0, len(m.conns))
	for _, c := range m.conns {
		list = append(list, c)
	}
	return list
}

// ReadLoop handles incoming messages for a connection until it disconnects:
// "j" starts the game, "i" updates the aim, "r" respawns.
// Rejected triggers are answered with an error message; the socket stays open.
// onDisconnect is called when the connection closes.
func (c *Conn) ReadLoop(onDisconnect func(conn *Conn)) {
	defer func() {
		onDisconnect(c)
		c.Close()
	}()

	for {
		frame, raw, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("ws read error", "conn", c.ID, "error", err)
			}
			return
		}

		msg, err := DecodeClient(frame, raw)
		if err != nil {
			slog.Debug("bad message", "conn", c.ID, "error", err)
			continue
		}

		switch msg.Type {
		case MsgJoin:
			if err := c.session.Start(msg.Name); err != nil {
				c.reject(err)
				continue
			}
			slog.Info("game started", "conn", c.ID, "name", msg.Name)

		case MsgRespawn:
			if err := c.session.Respawn(); err != nil {
				c.reject(err)
				continue
			}
			slog.Info("player respawned", "conn", c.ID)

		case MsgInput:
			c.session.SetAim(msg.X, msg.Y)
		}
	}
}

// reject reports a refused trigger to the client
func (c *Conn) reject(err error) {
	text := "request rejected"
	switch {
	case errors.Is(err, sim.ErrAlreadyStarted):
		text = "game already started"
	case errors.Is(err, sim.ErrNotStarted):
		text = "game not started"
	case errors.Is(err, sim.ErrStillAlive):
		text = "player is still alive"
	}
	slog.Debug("trigger rejected", "conn", c.ID, "error", err)
	_ = c.Send(ErrorMsg{Type: MsgError, Message: text})
}
