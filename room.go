package main

import (
	"encoding/json"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"
)

// Room is one isolated simulation instance: its own world, its own tick
// loop, its own broadcast group. All world mutation happens on the room
// goroutine; connections talk to it through the inbox.
type Room struct {
	Desc    RoomDescriptor
	cfg     *Config
	world   *World
	members map[string]*Conn
	inbox   chan roomCmd
	quit    chan struct{}
	count   atomic.Int32 // live player count, readable off-goroutine
}

type roomCmd interface{}

type joinCmd struct {
	conn  *Conn
	name  string
	color string
	reply chan StateMsg
}

type leaveCmd struct {
	id   string
	done chan struct{} // closed once the leave is applied, if non-nil
}

type chatCmd struct {
	id   string
	text string
}

type patchCmd struct {
	id    string
	patch PlayerPatch
}

// NewRoom creates a room with a freshly populated world.
func NewRoom(cfg *Config, desc RoomDescriptor) *Room {
	return &Room{
		Desc:    desc,
		cfg:     cfg,
		world:   NewWorld(cfg),
		members: make(map[string]*Conn),
		inbox:   make(chan roomCmd, 256),
		quit:    make(chan struct{}),
	}
}

// Run drives the room: commands are applied between ticks by the same
// goroutine that simulates, so the world never sees concurrent writers.
// Blocks until Stop.
func (r *Room) Run() {
	ticker := time.NewTicker(r.cfg.TickInterval)
	defer ticker.Stop()
	log.WithFields(log.Fields{"room": r.Desc.ID, "interval": r.cfg.TickInterval}).Info("room loop started")

	for {
		select {
		case <-r.quit:
			return
		case cmd := <-r.inbox:
			r.handle(cmd)
		case <-ticker.C:
			r.safeTick()
		}
	}
}

// Stop terminates the room loop.
func (r *Room) Stop() {
	close(r.quit)
}

// PlayerCount returns the current number of players in the room.
func (r *Room) PlayerCount() int {
	return int(r.count.Load())
}

// Join adds the connection's player to the room and returns the room's
// state as of the join. Blocks until the room goroutine has applied it,
// so the caller's next broadcast already includes the new player.
func (r *Room) Join(c *Conn, name, color string) StateMsg {
	reply := make(chan StateMsg, 1)
	select {
	case r.inbox <- joinCmd{conn: c, name: name, color: color, reply: reply}:
		// the room may stop after accepting the command but before
		// handling it, so the reply wait also watches quit
		select {
		case state := <-reply:
			return state
		case <-r.quit:
			return StateMsg{Type: MsgState}
		}
	case <-r.quit:
		return StateMsg{Type: MsgState}
	}
}

// Leave removes the player. Safe to call more than once and safe to call
// for an id the room never saw.
func (r *Room) Leave(id string) {
	select {
	case r.inbox <- leaveCmd{id: id}:
	case <-r.quit:
	}
}

// LeaveWait removes the player and blocks until the room has applied it.
// A connection switching rooms uses this so it is never a member of two
// rooms at once.
func (r *Room) LeaveWait(id string) {
	done := make(chan struct{})
	select {
	case r.inbox <- leaveCmd{id: id, done: done}:
		select {
		case <-done:
		case <-r.quit:
		}
	case <-r.quit:
	}
}

// Chat relays a chat line from the given player to the whole room.
func (r *Room) Chat(id, text string) {
	select {
	case r.inbox <- chatCmd{id: id, text: text}:
	case <-r.quit:
	}
}

// Patch applies a partial player update and re-broadcasts the delta.
func (r *Room) Patch(id string, patch PlayerPatch) {
	select {
	case r.inbox <- patchCmd{id: id, patch: patch}:
	case <-r.quit:
	}
}

func (r *Room) handle(cmd roomCmd) {
	switch c := cmd.(type) {
	case joinCmd:
		r.world.UpsertPlayer(c.conn.ID, c.name, c.color)
		r.members[c.conn.ID] = c.conn
		r.count.Store(int32(len(r.world.Players)))
		c.reply <- r.world.Snapshot()
		r.broadcastPlayerCount()

	case leaveCmd:
		removed := r.world.RemovePlayer(c.id)
		delete(r.members, c.id)
		r.count.Store(int32(len(r.world.Players)))
		if removed {
			r.broadcastPlayerCount()
		}
		if c.done != nil {
			close(c.done)
		}

	case chatCmd:
		p, ok := r.world.Players[c.id]
		if !ok {
			return // sender raced a disconnect, drop silently
		}
		r.broadcast(ChatMsg{Type: MsgChat, Sender: p.Name, Text: c.text})

	case patchCmd:
		applied, ok := r.world.ApplyPatch(c.id, c.patch)
		if !ok {
			return
		}
		r.broadcastExcept(c.id, PlayerPatchMsg{
			Type:  MsgPlayerPatch,
			ID:    c.id,
			Name:  applied.Name,
			Color: applied.Color,
		})
	}
}

// safeTick isolates a tick fault to this room: a panicking step is
// logged and the next tick runs normally.
func (r *Room) safeTick() {
	defer func() {
		if rec := recover(); rec != nil {
			log.WithFields(log.Fields{"room": r.Desc.ID, "panic": rec}).Error("tick fault recovered")
		}
	}()
	r.tick()
}

// tick runs one simulation step: bots, player movement from the latest
// inputs, collision resolution, then the snapshot broadcast.
func (r *Room) tick() {
	r.world.StepBots()

	for _, id := range r.world.sortedPlayerIDs() {
		conn, ok := r.members[id]
		if !ok {
			continue
		}
		p := r.world.Players[id]
		in := conn.Input()
		switch {
		case in.HasTarget:
			p.MoveToward(r.cfg, in.TX, in.TY)
		case in.HasDir:
			p.MoveVector(r.cfg, in.DirX, in.DirY)
		}
	}

	r.world.ResolveCollisions()

	r.broadcast(r.world.Snapshot())
}

// broadcast marshals once and fans out to every member. Failed sends
// drop the member so a dead socket cannot stall the loop.
func (r *Room) broadcast(msg interface{}) {
	r.broadcastExcept("", msg)
}

func (r *Room) broadcastExcept(skipID string, msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.WithField("room", r.Desc.ID).Errorf("marshal broadcast: %v", err)
		return
	}

	var failed []string
	for id, c := range r.members {
		if id == skipID {
			continue
		}
		if err := c.SendBytes(data); err != nil {
			failed = append(failed, id)
		}
	}
	for _, id := range failed {
		log.WithFields(log.Fields{"room": r.Desc.ID, "conn": id}).Warn("dropping unreachable member")
		if c, ok := r.members[id]; ok {
			c.Close()
		}
		r.world.RemovePlayer(id)
		delete(r.members, id)
		r.count.Store(int32(len(r.world.Players)))
	}
	if len(failed) > 0 {
		r.broadcastPlayerCount()
	}
}

func (r *Room) broadcastPlayerCount() {
	r.broadcast(PlayerCountMsg{
		Type:   MsgPlayerCount,
		Counts: map[int]int{r.Desc.ID: len(r.world.Players)},
	})
}
