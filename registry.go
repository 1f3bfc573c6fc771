package main

import "errors"

// errUnknownRoom rejects joins that reference a room id the registry
// does not hold. Per policy the offending connection is then closed.
var errUnknownRoom = errors.New("unknown server id")

// staticRooms is the room list the server ships with.
var staticRooms = []RoomDescriptor{
	{
		ID: 1, Name: "EU #1", Map: "Procedural", PlayersMax: 70,
		State: "online", Ping: 45,
		Tags:  []string{"PVE", "PREMIUM"},
		Flags: map[string]bool{"DAILY": true, "PREMIUM": true},
		Desc:  "Premium daily server.",
	},
	{
		ID: 2, Name: "EU #2", Map: "Custom", PlayersMax: 70,
		State: "online", Ping: 78,
		Tags:  []string{"PVP"},
		Flags: map[string]bool{"WEEKLY": true},
		Desc:  "Weekly PvP.",
	},
	{
		ID: 3, Name: "EU #3", Map: "Procedural", PlayersMax: 70,
		State: "downloading", Ping: 32,
		Tags:  []string{"PVE_ONLY"},
		Flags: map[string]bool{"MONTHLY": true},
		Desc:  "Monthly PVE.",
	},
}

// Registry owns the full set of rooms. Rooms are created at startup from
// the static list and live for the process lifetime; they never merge.
type Registry struct {
	cfg   *Config
	rooms map[int]*Room
	order []int
}

// NewRegistry builds the registry and its rooms. Rooms do not tick until
// Start is called.
func NewRegistry(cfg *Config) *Registry {
	reg := &Registry{
		cfg:   cfg,
		rooms: make(map[int]*Room),
	}
	for _, desc := range staticRooms {
		reg.rooms[desc.ID] = NewRoom(cfg, desc)
		reg.order = append(reg.order, desc.ID)
	}
	return reg
}

// Start launches every room's simulation loop.
func (reg *Registry) Start() {
	for _, id := range reg.order {
		go reg.rooms[id].Run()
	}
}

// Stop terminates every room loop.
func (reg *Registry) Stop() {
	for _, id := range reg.order {
		reg.rooms[id].Stop()
	}
}

// Room returns the room for the given id.
func (reg *Registry) Room(id int) (*Room, bool) {
	r, ok := reg.rooms[id]
	return r, ok
}

// DefaultRoomID is the room a plain join lands in.
func (reg *Registry) DefaultRoomID() int {
	return reg.order[0]
}

// Descriptors returns the server list with live player counts.
func (reg *Registry) Descriptors() []RoomDescriptor {
	out := make([]RoomDescriptor, 0, len(reg.order))
	for _, id := range reg.order {
		r := reg.rooms[id]
		desc := r.Desc
		desc.PlayersCur = r.PlayerCount()
		out = append(out, desc)
	}
	return out
}
