package main

// Wire protocol: one JSON object per WebSocket message, dispatched on the
// "type" field. Coordinates in outbound DTOs are rounded to 1 decimal
// place to keep snapshots small.
//
// Client → Server:
//   {"type":"getServers"}
//   {"type":"joinServer","serverId":1,"playerData":{"name":"Ann","color":"#f00"}}
//   {"type":"join","name":"Ann"}                       joins the default room
//   {"type":"move","x":0.7,"y":-0.7}                   raw direction vector
//   {"type":"move","tx":1203.5,"ty":88.0}              target point
//   {"type":"chat","text":"hi"}
//   {"type":"updatePlayer","name":"Bob","color":"#0f0"}
// Server → Client:
//   {"type":"servers","servers":[...]}
//   {"type":"init","id":"...","mapSize":4000}
//   {"type":"state","players":[...],"bots":[...],"pellets":[...],"leaderboard":[...]}
//   {"type":"playerCountUpdate","counts":{"1":2}}
//   {"type":"playerUpdate","id":"...","name":"Bob"}
//   {"type":"chat","sender":"Ann","text":"hi"}
//   {"type":"error","message":"..."}

// Message type identifiers
const (
	MsgGetServers   = "getServers"
	MsgJoinServer   = "joinServer"
	MsgJoin         = "join"
	MsgMove         = "move"
	MsgChat         = "chat"
	MsgUpdatePlayer = "updatePlayer"

	MsgServers     = "servers"
	MsgInit        = "init"
	MsgState       = "state"
	MsgPlayerCount = "playerCountUpdate"
	MsgPlayerPatch = "playerUpdate"
	MsgError       = "error"
)

// PlayerData is the client-supplied initial attributes on join.
type PlayerData struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// ClientMessage is the single inbound envelope. Optional fields are
// pointers so absent and zero can be told apart; anything the current
// message type does not recognize is simply never read.
type ClientMessage struct {
	Type       string      `json:"type"`
	ServerID   *int        `json:"serverId,omitempty"`
	PlayerData *PlayerData `json:"playerData,omitempty"`
	Name       *string     `json:"name,omitempty"`
	Color      *string     `json:"color,omitempty"`
	X          *float64    `json:"x,omitempty"`
	Y          *float64    `json:"y,omitempty"`
	TX         *float64    `json:"tx,omitempty"`
	TY         *float64    `json:"ty,omitempty"`
	Text       string      `json:"text,omitempty"`
}

// RoomDescriptor is one entry of the server list.
type RoomDescriptor struct {
	ID         int             `json:"id"`
	Name       string          `json:"name"`
	Map        string          `json:"map"`
	PlayersCur int             `json:"playersCur"`
	PlayersMax int             `json:"playersMax"`
	State      string          `json:"state"`
	Ping       int             `json:"ping"`
	Tags       []string        `json:"tags"`
	Flags      map[string]bool `json:"flags"`
	Desc       string          `json:"desc"`
}

// ServersMsg carries the room list.
type ServersMsg struct {
	Type    string           `json:"type"`
	Servers []RoomDescriptor `json:"servers"`
}

// InitMsg is the reply to a plain join: assigned id plus world size.
type InitMsg struct {
	Type    string  `json:"type"`
	ID      string  `json:"id"`
	MapSize float64 `json:"mapSize"`
}

// PlayerDTO is a player entry in the per-tick snapshot.
type PlayerDTO struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Mass  float64 `json:"mass"`
	Color string  `json:"color"`
}

// BotDTO is a bot entry in the per-tick snapshot.
type BotDTO struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Mass  float64 `json:"mass"`
	Color string  `json:"color"`
}

// PelletDTO is a pellet entry in the per-tick snapshot.
type PelletDTO struct {
	ID    string  `json:"id"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Mass  float64 `json:"mass"`
	Color string  `json:"color"`
}

// LeaderboardEntry is a single leaderboard row.
type LeaderboardEntry struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Mass float64 `json:"mass"`
}

// StateMsg is the full room snapshot broadcast every tick.
type StateMsg struct {
	Type        string             `json:"type"`
	Players     []PlayerDTO        `json:"players"`
	Bots        []BotDTO           `json:"bots"`
	Pellets     []PelletDTO        `json:"pellets"`
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
}

// PlayerCountMsg notifies room members of the room's player count.
type PlayerCountMsg struct {
	Type   string      `json:"type"`
	Counts map[int]int `json:"counts"`
}

// PlayerPatchMsg re-broadcasts an applied updatePlayer delta to the rest
// of the room. Only the fields that were actually applied are present.
type PlayerPatchMsg struct {
	Type  string  `json:"type"`
	ID    string  `json:"id"`
	Name  *string `json:"name,omitempty"`
	Color *string `json:"color,omitempty"`
}

// ChatMsg is a chat line relayed to all members of the sender's room.
type ChatMsg struct {
	Type   string `json:"type"`
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

// ErrorMsg is sent before the server closes a connection it rejected.
type ErrorMsg struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
