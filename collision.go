package main

import "math"

// ResolveCollisions runs one tick's absorption pass: pellet pickup,
// player-vs-player absorption, player-vs-bot absorption.
//
// Players are swept in sorted id order and every dominance check reads
// mass values captured before the sweep, so a tick resolves the same way
// no matter how the maps iterate. Mutations (mass gain, respawns) land
// on the live entities immediately; only the comparison inputs are
// frozen.
func (w *World) ResolveCollisions() {
	cfg := w.cfg
	w.RebuildGrid()

	playerMass := make(map[string]float64, len(w.Players))
	for id, p := range w.Players {
		playerMass[id] = p.Mass
	}
	botMass := make(map[string]float64, len(w.Bots))
	for id, b := range w.Bots {
		botMass[id] = b.Mass
	}

	playerIDs := w.sortedPlayerIDs()
	botIDs := w.sortedBotIDs()

	for _, id := range playerIDs {
		p := w.Players[id]
		pm := playerMass[id]

		// Pellets: anything within sqrt(mass)+PelletRadius is consumed
		// and replaced in the same pass, keeping the count invariant.
		reach := math.Sqrt(pm) + cfg.PelletRadius
		for _, pid := range w.Grid.Nearby(p.X, p.Y, reach) {
			pellet, ok := w.Pellets[pid]
			if !ok {
				continue // already eaten earlier in this sweep
			}
			p.Mass += pellet.Mass
			w.RespawnPellet(pid)
		}

		// Other players: winner takes half the loser's mass, loser is
		// halved and respawns if that put it at the floor.
		for _, oid := range playerIDs {
			if oid == id {
				continue
			}
			o := w.Players[oid]
			om := playerMass[oid]
			dist := math.Hypot(o.X-p.X, o.Y-p.Y)
			if dist >= math.Sqrt(pm)+math.Sqrt(om) {
				continue
			}
			if pm <= om*cfg.DominanceRatio {
				continue // non-dominant overlap, nothing happens
			}
			p.Mass += math.Floor(om * 0.5)
			half := om / 2
			if half < cfg.MassFloor {
				o.Respawn(cfg)
			} else {
				o.Mass = half
			}
		}

		// Bots: full mass transfer, bot resets at the floor.
		for _, bid := range botIDs {
			b := w.Bots[bid]
			bm := botMass[bid]
			dist := math.Hypot(b.X-p.X, b.Y-p.Y)
			if dist >= math.Sqrt(pm)+math.Sqrt(bm) {
				continue
			}
			if pm <= bm*cfg.DominanceRatio {
				continue
			}
			p.Mass += bm
			b.Reset(cfg)
		}
	}
}
