package main

import (
	"math"
	"math/rand"
)

// Player is a connection-owned blob. It lives in exactly one room's
// World and is mutated only on that room's goroutine.
type Player struct {
	ID    string
	Name  string
	X     float64
	Y     float64
	Mass  float64
	Color string
	Speed float64 // fixed per-player speed for raw-vector movement
}

// NewPlayer creates a player at a random position with mass at the floor.
func NewPlayer(cfg *Config, id, name, color string) *Player {
	x, y := randomPoint(cfg)
	if color == "" {
		color = randomColor()
	}
	return &Player{
		ID:    id,
		Name:  truncateName(cfg, name),
		X:     x,
		Y:     y,
		Mass:  cfg.MassFloor,
		Color: color,
		Speed: cfg.VectorSpeed,
	}
}

// MoveVector advances the player along a raw direction vector at the
// player's fixed speed. A zero-length vector is a no-op.
func (p *Player) MoveVector(cfg *Config, dx, dy float64) {
	mag := math.Hypot(dx, dy)
	if mag == 0 {
		return
	}
	p.X += dx / mag * p.Speed
	p.Y += dy / mag * p.Speed
	p.X, p.Y = applyBoundary(cfg, p.X, p.Y)
}

// MoveToward advances the player toward a target point. Speed shrinks
// with mass: min(SpeedBase + SpeedK/mass, SpeedCap).
func (p *Player) MoveToward(cfg *Config, tx, ty float64) {
	dx := tx - p.X
	dy := ty - p.Y
	mag := math.Hypot(dx, dy)
	if mag == 0 {
		return
	}
	speed := cfg.SpeedBase + cfg.SpeedK/p.Mass
	if speed > cfg.SpeedCap {
		speed = cfg.SpeedCap
	}
	if speed > mag {
		speed = mag // don't overshoot the target
	}
	p.X += dx / mag * speed
	p.Y += dy / mag * speed
	p.X, p.Y = applyBoundary(cfg, p.X, p.Y)
}

// Respawn resets the player to the mass floor at a fresh random position.
func (p *Player) Respawn(cfg *Config) {
	p.X, p.Y = randomPoint(cfg)
	p.Mass = cfg.MassFloor
}

// ToDTO converts the player to its snapshot form.
func (p *Player) ToDTO() PlayerDTO {
	return PlayerDTO{
		ID:    p.ID,
		Name:  p.Name,
		X:     roundTo1(p.X),
		Y:     roundTo1(p.Y),
		Mass:  roundTo1(p.Mass),
		Color: p.Color,
	}
}

// applyBoundary enforces the configured world-edge policy.
func applyBoundary(cfg *Config, x, y float64) (float64, float64) {
	if cfg.BoundaryMode == BoundaryWrap {
		return wrapCoord(x, cfg.WorldSize), wrapCoord(y, cfg.WorldSize)
	}
	lo := cfg.EdgeMargin
	hi := cfg.WorldSize - cfg.EdgeMargin
	return clamp(x, lo, hi), clamp(y, lo, hi)
}

func wrapCoord(v, size float64) float64 {
	v = math.Mod(v, size)
	if v < 0 {
		v += size
	}
	return v
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// randomPoint returns a uniformly random in-bounds position.
func randomPoint(cfg *Config) (float64, float64) {
	lo := cfg.EdgeMargin
	span := cfg.WorldSize - 2*cfg.EdgeMargin
	return lo + rand.Float64()*span, lo + rand.Float64()*span
}

// randomColor picks a random color from the palette.
func randomColor() string {
	return PlayerColors[rand.Intn(len(PlayerColors))]
}

// truncateName bounds a display name; empty names get a default.
func truncateName(cfg *Config, name string) string {
	if name == "" {
		return "Player"
	}
	runes := []rune(name)
	if len(runes) > cfg.MaxNameLen {
		runes = runes[:cfg.MaxNameLen]
	}
	return string(runes)
}

// roundTo1 rounds a float64 to 1 decimal place to save protocol bytes.
func roundTo1(v float64) float64 {
	return math.Round(v*10) / 10
}
