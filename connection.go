package main

import (
	"encoding/json"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

// writeWait bounds a single WebSocket write. A member that stops
// reading makes the write time out instead of wedging the room
// goroutine; the broadcast path then evicts it.
const writeWait = 2 * time.Second

// Input is the latest movement intent from a client. It is read fresh by
// the room every tick rather than queued, so stale moves never pile up.
type Input struct {
	HasDir    bool
	DirX      float64
	DirY      float64
	HasTarget bool
	TX        float64
	TY        float64
}

// Conn manages a single WebSocket player session.
type Conn struct {
	ID     string
	ws     *websocket.Conn
	mu     sync.Mutex // protects input, room, ws writes, closed
	input  Input
	room   *Room
	closed bool
}

// NewConn creates a new connection wrapper with a fresh id.
func NewConn(ws *websocket.Conn) *Conn {
	return &Conn{
		ID: uuid.New().String(),
		ws: ws,
	}
}

// Send serializes msg to JSON and writes it to the WebSocket.
func (c *Conn) Send(msg interface{}) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return c.SendBytes(data)
}

// SendBytes writes a pre-marshaled frame. Broadcasts marshal once and
// fan out through this.
func (c *Conn) SendBytes(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteMessage(websocket.TextMessage, data)
}

// Input returns the current movement input snapshot.
func (c *Conn) Input() Input {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.input
}

// setInput stores movement intent. Non-finite coordinates are dropped —
// a NaN fed into the integrator would poison the position for good.
func (c *Conn) setInput(in Input) {
	if in.HasDir && (!finite(in.DirX) || !finite(in.DirY)) {
		return
	}
	if in.HasTarget && (!finite(in.TX) || !finite(in.TY)) {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.input = in
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Room returns the room this connection currently belongs to, if any.
func (c *Conn) Room() *Room {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.room
}

func (c *Conn) setRoom(r *Room) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.room = r
}

// Close marks the connection closed and closes the socket.
func (c *Conn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.ws.Close()
}

// ConnManager tracks all active connections.
type ConnManager struct {
	mu    sync.RWMutex
	conns map[string]*Conn
}

// NewConnManager creates an empty connection manager.
func NewConnManager() *ConnManager {
	return &ConnManager{conns: make(map[string]*Conn)}
}

// Add registers a connection.
func (m *ConnManager) Add(c *Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conns[c.ID] = c
}

// Remove unregisters a connection.
func (m *ConnManager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.conns, id)
}

// Count returns the number of active connections.
func (m *ConnManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.conns)
}

// ReadLoop handles incoming messages until the client disconnects.
// Events for a connection with no active player are silently ignored;
// that is the expected shape of a disconnect race, not an error.
func (c *Conn) ReadLoop(reg *Registry, conns *ConnManager) {
	defer func() {
		if room := c.Room(); room != nil {
			room.Leave(c.ID)
			c.setRoom(nil)
		}
		conns.Remove(c.ID)
		c.Close()
		log.WithField("conn", c.ID).Info("client disconnected")
	}()

	for {
		_, raw, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.WithField("conn", c.ID).Warnf("ws read error: %v", err)
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			log.WithField("conn", c.ID).Debugf("bad message: %v", err)
			continue
		}

		switch msg.Type {
		case MsgGetServers:
			_ = c.Send(ServersMsg{Type: MsgServers, Servers: reg.Descriptors()})

		case MsgJoinServer:
			var data PlayerData
			if msg.PlayerData != nil {
				data = *msg.PlayerData
			}
			state, err := c.joinRoom(reg, msg.ServerID, data)
			if err != nil {
				// Invalid room reference terminates the connection.
				_ = c.Send(ErrorMsg{Type: MsgError, Message: err.Error()})
				return
			}
			_ = c.Send(state)

		case MsgJoin:
			name := ""
			if msg.Name != nil {
				name = *msg.Name
			}
			defaultID := reg.DefaultRoomID()
			if _, err := c.joinRoom(reg, &defaultID, PlayerData{Name: name}); err != nil {
				_ = c.Send(ErrorMsg{Type: MsgError, Message: err.Error()})
				return
			}
			_ = c.Send(InitMsg{Type: MsgInit, ID: c.ID, MapSize: reg.cfg.WorldSize})

		case MsgMove:
			var in Input
			switch {
			case msg.TX != nil && msg.TY != nil:
				in = Input{HasTarget: true, TX: *msg.TX, TY: *msg.TY}
			case msg.X != nil && msg.Y != nil:
				in = Input{HasDir: true, DirX: *msg.X, DirY: *msg.Y}
			default:
				continue
			}
			c.setInput(in)

		case MsgChat:
			if room := c.Room(); room != nil && msg.Text != "" {
				room.Chat(c.ID, msg.Text)
			}

		case MsgUpdatePlayer:
			if room := c.Room(); room != nil {
				room.Patch(c.ID, PlayerPatch{Name: msg.Name, Color: msg.Color})
			}
		}
	}
}

// joinRoom routes the connection into the requested room, leaving any
// previous room first. Returns the room's current state snapshot.
func (c *Conn) joinRoom(reg *Registry, serverID *int, data PlayerData) (StateMsg, error) {
	if serverID == nil {
		return StateMsg{}, errUnknownRoom
	}
	room, ok := reg.Room(*serverID)
	if !ok {
		return StateMsg{}, errUnknownRoom
	}
	if prev := c.Room(); prev != nil {
		prev.LeaveWait(c.ID)
	}
	c.setInput(Input{}) // stale intent must not leak into the new room
	state := room.Join(c, data.Name, data.Color)
	c.setRoom(room)
	log.WithFields(log.Fields{"conn": c.ID, "room": room.Desc.ID}).Info("player joined room")
	return state, nil
}
