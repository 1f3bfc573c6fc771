package main

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Boundary policy for the world edge.
// Clamp is the canonical policy; wrap keeps the toroidal map some
// deployments prefer as a config option instead of a second code path.
const (
	BoundaryClamp = "clamp"
	BoundaryWrap  = "wrap"
)

// Config holds every tunable the server reads. The network / resource
// side comes from the environment; gameplay tuning has defaults here and
// is overridden in tests rather than via env.
type Config struct {
	// Server
	Port          string
	StaticDir     string
	WebSocketPath string
	MaxPlayers    int
	IPCooldownSec int

	// World — square map, coordinates in [0, WorldSize]
	WorldSize    float64
	EdgeMargin   float64 // clamp keeps positions in [EdgeMargin, WorldSize-EdgeMargin]
	BoundaryMode string  // BoundaryClamp or BoundaryWrap

	// Tick
	TickInterval time.Duration

	// Populations per room
	BotCount    int
	PelletCount int

	// Movement — target mode: speed = min(SpeedBase + SpeedK/mass, SpeedCap).
	// Larger mass moves slower; this is the core balancing mechanic.
	SpeedBase   float64
	SpeedK      float64
	SpeedCap    float64
	VectorSpeed float64 // fixed speed for raw-vector movement input

	// Bots move at BotSpeedBase + BotSpeedK/mass along a fresh random heading each tick
	BotSpeedBase float64
	BotSpeedK    float64

	// Mass rules
	MassFloor      float64 // no live entity ever sits below this
	DominanceRatio float64 // attacker must exceed defender mass by this factor
	PelletRadius   float64 // added to sqrt(mass) for the pellet pickup range
	PelletValue    float64 // mass gained per pellet

	// Presentation
	LeaderboardSize int
	MaxNameLen      int

	// Spatial grid cell size for pellet lookups
	GridCellSize float64
}

// DefaultConfig returns the tuning the game shipped with.
func DefaultConfig() *Config {
	return &Config{
		Port:          ":8080",
		StaticDir:     "./public",
		WebSocketPath: "/ws",
		MaxPlayers:    70,
		IPCooldownSec: 30,

		WorldSize:    4000,
		EdgeMargin:   0,
		BoundaryMode: BoundaryClamp,

		TickInterval: 25 * time.Millisecond,

		BotCount:    10,
		PelletCount: 200,

		SpeedBase:   6,
		SpeedK:      100,
		SpeedCap:    12,
		VectorSpeed: 5,

		BotSpeedBase: 1,
		BotSpeedK:    100,

		MassFloor:      64,
		DominanceRatio: 1.15,
		PelletRadius:   5,
		PelletValue:    1,

		LeaderboardSize: 10,
		MaxNameLen:      20,

		GridCellSize: 200,
	}
}

// LoadConfig builds the config from defaults plus environment overrides.
// A .env file is loaded first if present (a missing file is not an error).
func LoadConfig() *Config {
	if err := godotenv.Load(); err == nil {
		log.Debug("loaded .env file")
	}

	cfg := DefaultConfig()

	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = ":" + v
	}
	if v := os.Getenv("STATIC_DIR"); v != "" {
		cfg.StaticDir = v
	}
	if v, ok := envFloat("WORLD_SIZE"); ok && v > 0 {
		cfg.WorldSize = v
	}
	if v, ok := envInt("TICK_MS"); ok && v > 0 {
		cfg.TickInterval = time.Duration(v) * time.Millisecond
	}
	if v, ok := envInt("BOT_COUNT"); ok && v >= 0 {
		cfg.BotCount = v
	}
	if v, ok := envInt("PELLET_COUNT"); ok && v >= 0 {
		cfg.PelletCount = v
	}
	if v, ok := envInt("MAX_PLAYERS"); ok && v > 0 {
		cfg.MaxPlayers = v
	}
	if v, ok := envInt("IP_COOLDOWN_SEC"); ok && v >= 0 {
		cfg.IPCooldownSec = v
	}
	switch mode := os.Getenv("BOUNDARY_MODE"); mode {
	case "":
	case BoundaryClamp, BoundaryWrap:
		cfg.BoundaryMode = mode
	default:
		log.Warnf("unknown BOUNDARY_MODE %q, using %s", mode, cfg.BoundaryMode)
	}

	return cfg
}

func envInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Warnf("invalid %s=%q: %v", key, v, err)
		return 0, false
	}
	return n, true
}

func envFloat(key string) (float64, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Warnf("invalid %s=%q: %v", key, v, err)
		return 0, false
	}
	return f, true
}

// PlayerColors is the palette players and bots spawn with.
var PlayerColors = []string{
	"#e74c3c", "#3498db", "#2ecc71", "#f39c12", "#9b59b6",
	"#1abc9c", "#e67e22", "#e91e63", "#00bcd4", "#8bc34a",
	"#ff5722", "#607d8b", "#795548", "#673ab7", "#03a9f4",
	"#4caf50", "#ffeb3b", "#ff9800", "#f44336", "#9c27b0",
}
