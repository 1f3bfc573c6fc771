package main

import "sort"

// World is the entity store for one room: players, bots, and pellets.
// It has no lock — a World is owned by its room's goroutine and must
// only be touched from there (tests drive it directly, single-threaded).
type World struct {
	cfg       *Config
	Players   map[string]*Player
	Bots      map[string]*Bot
	Pellets   map[string]*Pellet
	Grid      *PelletGrid
	pelletSeq int
}

// NewWorld creates a world pre-populated with the configured bot and
// pellet counts.
func NewWorld(cfg *Config) *World {
	w := &World{
		cfg:     cfg,
		Players: make(map[string]*Player),
		Bots:    make(map[string]*Bot),
		Pellets: make(map[string]*Pellet),
		Grid:    NewPelletGrid(cfg.GridCellSize),
	}
	for i := 0; i < cfg.BotCount; i++ {
		b := NewBot(cfg, i)
		w.Bots[b.ID] = b
	}
	for i := 0; i < cfg.PelletCount; i++ {
		w.spawnPellet()
	}
	return w
}

// UpsertPlayer creates (or replaces) the player entry for a connection.
func (w *World) UpsertPlayer(id, name, color string) *Player {
	p := NewPlayer(w.cfg, id, name, color)
	w.Players[id] = p
	return p
}

// RemovePlayer deletes a player entry. Removing an absent id is a no-op,
// so a disconnect racing an in-flight tick stays harmless.
func (w *World) RemovePlayer(id string) bool {
	if _, ok := w.Players[id]; !ok {
		return false
	}
	delete(w.Players, id)
	return true
}

// PlayerPatch is the validated partial update for updatePlayer. Fields
// are enumerated here on purpose: anything a client sends outside this
// set never reaches the store.
type PlayerPatch struct {
	Name  *string
	Color *string
}

// ApplyPatch merges recognized fields into the player and returns the
// delta that was actually applied. Unknown ids are a no-op.
func (w *World) ApplyPatch(id string, patch PlayerPatch) (PlayerPatch, bool) {
	p, ok := w.Players[id]
	if !ok {
		return PlayerPatch{}, false
	}
	var applied PlayerPatch
	if patch.Name != nil && *patch.Name != "" {
		name := truncateName(w.cfg, *patch.Name)
		p.Name = name
		applied.Name = &name
	}
	if patch.Color != nil && validColor(*patch.Color) {
		color := *patch.Color
		p.Color = color
		applied.Color = &color
	}
	return applied, applied.Name != nil || applied.Color != nil
}

// validColor bounds what a client may set as its color attribute.
func validColor(c string) bool {
	return c != "" && len(c) <= 32
}

// spawnPellet adds a fresh pellet with a room-unique id.
func (w *World) spawnPellet() *Pellet {
	w.pelletSeq++
	p := newPellet(w.cfg, w.pelletSeq)
	w.Pellets[p.ID] = p
	return p
}

// RespawnPellet removes a consumed pellet and spawns a replacement in
// the same pass, keeping the pellet count invariant across ticks.
func (w *World) RespawnPellet(id string) {
	delete(w.Pellets, id)
	w.spawnPellet()
}

// RebuildGrid re-indexes all pellets into the spatial grid.
func (w *World) RebuildGrid() {
	w.Grid.Clear()
	for _, p := range w.Pellets {
		w.Grid.Insert(p)
	}
}

// sortedPlayerIDs returns player ids in stable order so a tick's
// resolution sweep is reproducible.
func (w *World) sortedPlayerIDs() []string {
	ids := make([]string, 0, len(w.Players))
	for id := range w.Players {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// sortedBotIDs returns bot ids in stable order.
func (w *World) sortedBotIDs() []string {
	ids := make([]string, 0, len(w.Bots))
	for id := range w.Bots {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Leaderboard ranks all players and bots by mass, descending, truncated
// to the configured size. Pure: same state always yields the same rows
// (ties break on id).
func (w *World) Leaderboard() []LeaderboardEntry {
	entries := make([]LeaderboardEntry, 0, len(w.Players)+len(w.Bots))
	for _, p := range w.Players {
		entries = append(entries, LeaderboardEntry{ID: p.ID, Name: p.Name, Mass: p.Mass})
	}
	for _, b := range w.Bots {
		entries = append(entries, LeaderboardEntry{ID: b.ID, Name: b.Name, Mass: b.Mass})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Mass != entries[j].Mass {
			return entries[i].Mass > entries[j].Mass
		}
		return entries[i].ID < entries[j].ID
	})
	if len(entries) > w.cfg.LeaderboardSize {
		entries = entries[:w.cfg.LeaderboardSize]
	}
	return entries
}

// Snapshot builds the full state broadcast for this world.
func (w *World) Snapshot() StateMsg {
	players := make([]PlayerDTO, 0, len(w.Players))
	for _, id := range w.sortedPlayerIDs() {
		players = append(players, w.Players[id].ToDTO())
	}
	bots := make([]BotDTO, 0, len(w.Bots))
	for _, id := range w.sortedBotIDs() {
		bots = append(bots, w.Bots[id].ToDTO())
	}
	pellets := make([]PelletDTO, 0, len(w.Pellets))
	for _, p := range w.Pellets {
		pellets = append(pellets, p.ToDTO())
	}
	return StateMsg{
		Type:        MsgState,
		Players:     players,
		Bots:        bots,
		Pellets:     pellets,
		Leaderboard: w.Leaderboard(),
	}
}
