package main

import (
	"fmt"
	"math/rand"
)

// Pellet is a stationary consumable worth a fixed mass gain.
type Pellet struct {
	ID    string
	X     float64
	Y     float64
	Mass  float64
	Color string
}

var pelletColors = []string{
	"#ff6b6b", "#ffd93d", "#6bcb77", "#4d96ff", "#ff922b",
	"#cc5de8", "#20c997", "#f06595", "#74c0fc", "#a9e34b",
}

// newPellet creates a pellet at a random position. The caller supplies a
// room-scoped sequence number so pellet ids stay unique per room.
func newPellet(cfg *Config, n int) *Pellet {
	x, y := randomPoint(cfg)
	return &Pellet{
		ID:    fmt.Sprintf("p-%d", n),
		X:     x,
		Y:     y,
		Mass:  cfg.PelletValue,
		Color: pelletColors[rand.Intn(len(pelletColors))],
	}
}

// ToDTO converts the pellet to its snapshot form.
func (p *Pellet) ToDTO() PelletDTO {
	return PelletDTO{
		ID:    p.ID,
		X:     roundTo1(p.X),
		Y:     roundTo1(p.Y),
		Mass:  p.Mass,
		Color: p.Color,
	}
}
