package main

import (
	"fmt"
	"math"
	"math/rand"
)

// botNames is the pool of display names for bots.
var botNames = []string{
	"Gobbler", "Muncher", "Chomper", "Blobby", "Gulper",
	"Nibbler", "Slurp", "Wobble", "Squish", "Gloop",
	"Pudge", "Chunk", "Morsel", "Globule", "Drifter",
	"Vortex", "Maw", "Snacker", "Devourer", "Bubbles",
}

// Bot is a non-player blob. Bots live for the lifetime of the room and
// are reset rather than destroyed when absorbed.
type Bot struct {
	ID    string
	Name  string
	X     float64
	Y     float64
	Mass  float64
	Color string
}

// NewBot creates bot number n at a random position with mass at the floor.
func NewBot(cfg *Config, n int) *Bot {
	x, y := randomPoint(cfg)
	return &Bot{
		ID:    fmt.Sprintf("bot-%d", n),
		Name:  botNames[n%len(botNames)],
		X:     x,
		Y:     y,
		Mass:  cfg.MassFloor,
		Color: randomColor(),
	}
}

// Step moves the bot one tick of random walk: a fresh uniform heading
// every tick, speed shrinking with mass. No state carries across ticks.
func (b *Bot) Step(cfg *Config) {
	heading := rand.Float64() * 2 * math.Pi
	speed := cfg.BotSpeedBase + cfg.BotSpeedK/b.Mass
	b.X += math.Cos(heading) * speed
	b.Y += math.Sin(heading) * speed
	b.X, b.Y = applyBoundary(cfg, b.X, b.Y)
}

// Reset puts the bot back at the mass floor at a fresh random position.
// Called after the bot is absorbed.
func (b *Bot) Reset(cfg *Config) {
	b.X, b.Y = randomPoint(cfg)
	b.Mass = cfg.MassFloor
}

// StepBots advances every bot one random-walk tick, in stable id order.
func (w *World) StepBots() {
	for _, id := range w.sortedBotIDs() {
		w.Bots[id].Step(w.cfg)
	}
}

// ToDTO converts the bot to its snapshot form.
func (b *Bot) ToDTO() BotDTO {
	return BotDTO{
		ID:    b.ID,
		Name:  b.Name,
		X:     roundTo1(b.X),
		Y:     roundTo1(b.Y),
		Mass:  roundTo1(b.Mass),
		Color: b.Color,
	}
}
