package main

import (
	"testing"
	"time"
)

func TestDefaultConfigTuning(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.WorldSize != 4000 {
		t.Fatalf("world size = %f", cfg.WorldSize)
	}
	if cfg.TickInterval != 25*time.Millisecond {
		t.Fatalf("tick interval = %v", cfg.TickInterval)
	}
	if cfg.MassFloor != 64 {
		t.Fatalf("mass floor = %f", cfg.MassFloor)
	}
	if cfg.DominanceRatio != 1.15 {
		t.Fatalf("dominance ratio = %f", cfg.DominanceRatio)
	}
	if cfg.BoundaryMode != BoundaryClamp {
		t.Fatalf("boundary mode = %q", cfg.BoundaryMode)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("WORLD_SIZE", "2000")
	t.Setenv("TICK_MS", "50")
	t.Setenv("BOT_COUNT", "3")
	t.Setenv("PELLET_COUNT", "0")
	t.Setenv("MAX_PLAYERS", "10")
	t.Setenv("BOUNDARY_MODE", "wrap")

	cfg := LoadConfig()

	if cfg.Port != ":9090" {
		t.Fatalf("port = %q", cfg.Port)
	}
	if cfg.WorldSize != 2000 {
		t.Fatalf("world size = %f", cfg.WorldSize)
	}
	if cfg.TickInterval != 50*time.Millisecond {
		t.Fatalf("tick interval = %v", cfg.TickInterval)
	}
	if cfg.BotCount != 3 {
		t.Fatalf("bot count = %d", cfg.BotCount)
	}
	if cfg.PelletCount != 0 {
		t.Fatalf("pellet count = %d", cfg.PelletCount)
	}
	if cfg.MaxPlayers != 10 {
		t.Fatalf("max players = %d", cfg.MaxPlayers)
	}
	if cfg.BoundaryMode != BoundaryWrap {
		t.Fatalf("boundary mode = %q", cfg.BoundaryMode)
	}
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	t.Setenv("WORLD_SIZE", "banana")
	t.Setenv("TICK_MS", "-5")
	t.Setenv("BOUNDARY_MODE", "bounce")

	cfg := LoadConfig()

	if cfg.WorldSize != 4000 {
		t.Fatalf("bad WORLD_SIZE changed world size: %f", cfg.WorldSize)
	}
	if cfg.TickInterval != 25*time.Millisecond {
		t.Fatalf("negative TICK_MS changed tick interval: %v", cfg.TickInterval)
	}
	if cfg.BoundaryMode != BoundaryClamp {
		t.Fatalf("unknown BOUNDARY_MODE accepted: %q", cfg.BoundaryMode)
	}
}
