package main

import (
	"testing"
	"time"
)

// stubConn returns a Conn that swallows writes, for driving the room
// actor synchronously without a socket.
func stubConn(id string) *Conn {
	return &Conn{ID: id, closed: true}
}

func joinRoom(t *testing.T, r *Room, c *Conn, name string) StateMsg {
	t.Helper()
	reply := make(chan StateMsg, 1)
	r.handle(joinCmd{conn: c, name: name, reply: reply})
	return <-reply
}

func TestJoinAndLeaveTrackPlayerCount(t *testing.T) {
	cfg := testConfig()
	r := NewRoom(cfg, staticRooms[0])

	state := joinRoom(t, r, stubConn("c1"), "Ann")
	if len(state.Players) != 1 || state.Players[0].Name != "Ann" {
		t.Fatalf("join reply players = %v", state.Players)
	}
	if r.PlayerCount() != 1 {
		t.Fatalf("player count after first join = %d", r.PlayerCount())
	}

	joinRoom(t, r, stubConn("c2"), "Bob")
	if r.PlayerCount() != 2 {
		t.Fatalf("player count after second join = %d", r.PlayerCount())
	}

	r.handle(leaveCmd{id: "c1"})
	if r.PlayerCount() != 1 {
		t.Fatalf("player count after leave = %d", r.PlayerCount())
	}

	// leaving twice must be harmless
	r.handle(leaveCmd{id: "c1"})
	if r.PlayerCount() != 1 {
		t.Fatalf("player count after duplicate leave = %d", r.PlayerCount())
	}
}

func TestTickAppliesLatestInput(t *testing.T) {
	cfg := testConfig()
	r := NewRoom(cfg, staticRooms[0])
	c := stubConn("c1")
	joinRoom(t, r, c, "Ann")

	p := r.world.Players["c1"]
	p.X, p.Y = 1000, 1000
	c.setInput(Input{HasTarget: true, TX: 3000, TY: 1000})

	r.tick()

	if p.X <= 1000 {
		t.Fatalf("player did not move toward target: x=%f", p.X)
	}
	if p.Y != 1000 {
		t.Fatalf("player drifted off axis: y=%f", p.Y)
	}
}

func TestTickIgnoresMemberWithoutInput(t *testing.T) {
	cfg := testConfig()
	r := NewRoom(cfg, staticRooms[0])
	c := stubConn("c1")
	joinRoom(t, r, c, "Ann")

	p := r.world.Players["c1"]
	x, y := p.X, p.Y

	r.tick()

	if p.X != x || p.Y != y {
		t.Fatalf("player moved without input: (%f,%f) -> (%f,%f)", x, y, p.X, p.Y)
	}
}

func TestChatFromUnknownSenderDropped(t *testing.T) {
	cfg := testConfig()
	r := NewRoom(cfg, staticRooms[0])
	// must not panic or broadcast anything
	r.handle(chatCmd{id: "ghost", text: "hello"})
}

func TestPatchFromUnknownSenderDropped(t *testing.T) {
	cfg := testConfig()
	r := NewRoom(cfg, staticRooms[0])
	name := "Bob"
	r.handle(patchCmd{id: "ghost", patch: PlayerPatch{Name: &name}})
}

func TestSafeTickRecoversFromFault(t *testing.T) {
	cfg := testConfig()
	r := NewRoom(cfg, staticRooms[0])
	r.world = nil // force a panic inside the tick body

	defer func() {
		if rec := recover(); rec != nil {
			t.Fatalf("tick fault escaped the room: %v", rec)
		}
	}()
	r.safeTick()
}

func TestJoinReturnsWhenRoomStops(t *testing.T) {
	cfg := testConfig()
	r := NewRoom(cfg, staticRooms[0])
	// the room loop never runs, so the accepted command is never handled

	done := make(chan StateMsg, 1)
	go func() { done <- r.Join(stubConn("c1"), "Ann", "") }()

	time.Sleep(20 * time.Millisecond) // let the command land in the inbox
	r.Stop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Join still blocked after the room stopped")
	}
}

func TestLeaveWaitAppliedBeforeReturn(t *testing.T) {
	cfg := testConfig()
	r := NewRoom(cfg, staticRooms[0])
	go r.Run()
	defer r.Stop()

	r.Join(stubConn("c1"), "Ann", "")
	if r.PlayerCount() != 1 {
		t.Fatalf("player count after join = %d", r.PlayerCount())
	}

	r.LeaveWait("c1")

	// membership must already be gone, not merely enqueued
	if r.PlayerCount() != 0 {
		t.Fatalf("player count after LeaveWait = %d", r.PlayerCount())
	}
}

func TestRoomsAreIsolated(t *testing.T) {
	cfg := testConfig()
	r1 := NewRoom(cfg, staticRooms[0])
	r2 := NewRoom(cfg, staticRooms[1])

	joinRoom(t, r1, stubConn("c1"), "Ann")

	if len(r2.world.Players) != 0 {
		t.Fatalf("join to room 1 leaked into room 2: %v", r2.world.Players)
	}
	if r2.PlayerCount() != 0 {
		t.Fatalf("room 2 player count = %d", r2.PlayerCount())
	}
}
