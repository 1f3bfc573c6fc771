package main

import "math"

// cellKey uniquely identifies a grid cell
type cellKey struct {
	cx, cy int
}

// pelletRef is a pellet's position recorded in a cell
type pelletRef struct {
	id   string
	x, y float64
}

// PelletGrid is a hash grid for fast pellet proximity queries. Player
// and bot populations are small enough for pairwise checks, so only
// pellets (the large population) go through the grid.
type PelletGrid struct {
	cells    map[cellKey][]pelletRef
	cellSize float64
}

// NewPelletGrid creates an empty grid with the given cell size.
func NewPelletGrid(cellSize float64) *PelletGrid {
	return &PelletGrid{
		cells:    make(map[cellKey][]pelletRef),
		cellSize: cellSize,
	}
}

// Clear resets all cells.
func (g *PelletGrid) Clear() {
	g.cells = make(map[cellKey][]pelletRef)
}

func (g *PelletGrid) keyFor(x, y float64) cellKey {
	return cellKey{
		cx: int(math.Floor(x / g.cellSize)),
		cy: int(math.Floor(y / g.cellSize)),
	}
}

// Insert adds a pellet to the grid.
func (g *PelletGrid) Insert(p *Pellet) {
	k := g.keyFor(p.X, p.Y)
	g.cells[k] = append(g.cells[k], pelletRef{id: p.ID, x: p.X, y: p.Y})
}

// Nearby returns ids of pellets within radius of (x,y). Entries may be
// stale within a tick; callers must re-check against the live pellet map.
func (g *PelletGrid) Nearby(x, y, radius float64) []string {
	results := []string{}
	minCX := int(math.Floor((x - radius) / g.cellSize))
	maxCX := int(math.Floor((x + radius) / g.cellSize))
	minCY := int(math.Floor((y - radius) / g.cellSize))
	maxCY := int(math.Floor((y + radius) / g.cellSize))

	r2 := radius * radius
	for cx := minCX; cx <= maxCX; cx++ {
		for cy := minCY; cy <= maxCY; cy++ {
			for _, ref := range g.cells[cellKey{cx, cy}] {
				dx := ref.x - x
				dy := ref.y - y
				if dx*dx+dy*dy <= r2 {
					results = append(results, ref.id)
				}
			}
		}
	}
	return results
}
