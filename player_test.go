package main

import (
	"math"
	"testing"
)

func TestMoveVectorNormalizesDirection(t *testing.T) {
	cfg := testConfig()
	p := NewPlayer(cfg, "p1", "Ann", "")
	p.X, p.Y = 100, 100

	p.MoveVector(cfg, 3, 4) // magnitude 5, speed 5

	if math.Abs(p.X-103) > 1e-9 || math.Abs(p.Y-104) > 1e-9 {
		t.Fatalf("after move got (%f,%f), want (103,104)", p.X, p.Y)
	}
}

func TestMoveVectorZeroIsNoop(t *testing.T) {
	cfg := testConfig()
	p := NewPlayer(cfg, "p1", "Ann", "")
	p.X, p.Y = 100, 100

	p.MoveVector(cfg, 0, 0)

	if p.X != 100 || p.Y != 100 {
		t.Fatalf("zero vector moved player to (%f,%f)", p.X, p.Y)
	}
}

func TestMoveVectorClampsAtEdge(t *testing.T) {
	cfg := testConfig()
	p := NewPlayer(cfg, "p1", "Ann", "")
	p.X, p.Y = 1, 1

	p.MoveVector(cfg, -1, -1)

	if p.X != 0 || p.Y != 0 {
		t.Fatalf("expected clamp to (0,0), got (%f,%f)", p.X, p.Y)
	}
}

func TestMoveTowardMassSlowsSpeed(t *testing.T) {
	cfg := testConfig()
	light := NewPlayer(cfg, "p1", "L", "")
	heavy := NewPlayer(cfg, "p2", "H", "")
	light.X, light.Y = 1000, 1000
	heavy.X, heavy.Y = 1000, 1000
	light.Mass = 64
	heavy.Mass = 1000

	light.MoveToward(cfg, 3000, 1000)
	heavy.MoveToward(cfg, 3000, 1000)

	// speed = min(6 + 100/mass, 12): 7.5625 for mass 64, 6.1 for mass 1000
	if math.Abs(light.X-1007.5625) > 1e-9 {
		t.Fatalf("light player x = %f, want 1007.5625", light.X)
	}
	if math.Abs(heavy.X-1006.1) > 1e-9 {
		t.Fatalf("heavy player x = %f, want 1006.1", heavy.X)
	}
	if heavy.X >= light.X {
		t.Fatalf("heavier player moved at least as fast: %f vs %f", heavy.X, light.X)
	}
}

func TestMoveTowardSpeedCap(t *testing.T) {
	cfg := testConfig()
	p := NewPlayer(cfg, "p1", "Ann", "")
	p.X, p.Y = 1000, 1000
	p.Mass = 10 // 6 + 100/10 = 16, capped at 12

	p.MoveToward(cfg, 3000, 1000)

	if math.Abs(p.X-1012) > 1e-9 {
		t.Fatalf("capped speed x = %f, want 1012", p.X)
	}
}

func TestMoveTowardDoesNotOvershoot(t *testing.T) {
	cfg := testConfig()
	p := NewPlayer(cfg, "p1", "Ann", "")
	p.X, p.Y = 1000, 1000
	p.Mass = 64

	p.MoveToward(cfg, 1003, 1000) // closer than one tick of speed

	if math.Abs(p.X-1003) > 1e-9 || math.Abs(p.Y-1000) > 1e-9 {
		t.Fatalf("overshot target: (%f,%f)", p.X, p.Y)
	}
}

func TestMoveTowardAtTargetIsNoop(t *testing.T) {
	cfg := testConfig()
	p := NewPlayer(cfg, "p1", "Ann", "")
	p.X, p.Y = 1000, 1000

	p.MoveToward(cfg, 1000, 1000)

	if p.X != 1000 || p.Y != 1000 {
		t.Fatalf("zero-length target moved player to (%f,%f)", p.X, p.Y)
	}
}

func TestWrapBoundaryMode(t *testing.T) {
	cfg := testConfig()
	cfg.BoundaryMode = BoundaryWrap
	p := NewPlayer(cfg, "p1", "Ann", "")
	p.X, p.Y = 2, 2

	p.MoveVector(cfg, -1, 0) // x goes to -3, wraps to 3997

	if p.X != 3997 || p.Y != 2 {
		t.Fatalf("wrap gave (%f,%f), want (3997,2)", p.X, p.Y)
	}
}

func TestWrapCoord(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{-1, 3999},
		{4001, 1},
		{4000, 0},
		{0, 0},
		{1234, 1234},
	}
	for _, c := range cases {
		if got := wrapCoord(c.in, 4000); got != c.want {
			t.Fatalf("wrapCoord(%f) = %f, want %f", c.in, got, c.want)
		}
	}
}

func TestTruncateName(t *testing.T) {
	cfg := testConfig()
	if got := truncateName(cfg, ""); got != "Player" {
		t.Fatalf("empty name got %q", got)
	}
	long := "abcdefghijklmnopqrstuvwxyz"
	if got := truncateName(cfg, long); got != "abcdefghijklmnopqrst" {
		t.Fatalf("truncated name got %q", got)
	}
	if got := truncateName(cfg, "Ann"); got != "Ann" {
		t.Fatalf("short name got %q", got)
	}
}

func TestNewPlayerSpawnsInBoundsAtFloor(t *testing.T) {
	cfg := testConfig()
	for i := 0; i < 100; i++ {
		p := NewPlayer(cfg, "p", "Ann", "")
		if p.X < 0 || p.X > cfg.WorldSize || p.Y < 0 || p.Y > cfg.WorldSize {
			t.Fatalf("spawn out of bounds: (%f,%f)", p.X, p.Y)
		}
		if p.Mass != cfg.MassFloor {
			t.Fatalf("spawn mass = %f, want %f", p.Mass, cfg.MassFloor)
		}
	}
}

func TestBotStepDisplacementMatchesSpeed(t *testing.T) {
	cfg := testConfig()
	b := &Bot{ID: "bot-0", X: 2000, Y: 2000, Mass: 64}

	b.Step(cfg)

	// heading is random but displacement magnitude is 1 + 100/64 = 2.5625
	d := math.Hypot(b.X-2000, b.Y-2000)
	if math.Abs(d-2.5625) > 1e-9 {
		t.Fatalf("bot displacement = %f, want 2.5625", d)
	}
}

func TestBotStepStaysInBounds(t *testing.T) {
	cfg := testConfig()
	b := &Bot{ID: "bot-0", X: 0, Y: 0, Mass: 64}
	for i := 0; i < 500; i++ {
		b.Step(cfg)
		if b.X < 0 || b.X > cfg.WorldSize || b.Y < 0 || b.Y > cfg.WorldSize {
			t.Fatalf("bot out of bounds after step %d: (%f,%f)", i, b.X, b.Y)
		}
	}
}
