package server

import (
	"math"

	"github.com/lab1702/solpilot/game"
)

// obstacle is a circle indexed by the grid. Rocks carry game.NoShip.
type obstacle struct {
	id     game.ShipID
	pos    game.Vec
	radius float64
}

// SpatialGrid buckets obstacles into square cells so ray casts only test the
// circles near the probed segment. Positions outside the covered area are
// clamped into the border cells.
type SpatialGrid struct {
	cellSize  float64
	origin    game.Vec
	cols      int
	rows      int
	cells     [][]int // Each cell holds indexes into items
	items     []obstacle
	maxRadius float64
}

// GridCellSize is the size of each grid cell in world units. It should exceed
// the longest avoidance probe so most casts touch a handful of cells.
const GridCellSize = 4.0

// NewSpatialGrid covers the rectangle from min to max.
func NewSpatialGrid(min, max game.Vec, cellSize float64) *SpatialGrid {
	if cellSize <= 0 {
		cellSize = GridCellSize
	}
	cols := int(math.Ceil((max.X - min.X) / cellSize))
	rows := int(math.Ceil((max.Y - min.Y) / cellSize))
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	cells := make([][]int, cols*rows)
	for i := range cells {
		cells[i] = make([]int, 0, 4)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		origin:   min,
		cols:     cols,
		rows:     rows,
		cells:    cells,
	}
}

// Clear resets the grid for a new tick
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
	g.items = g.items[:0]
	g.maxRadius = 0
}

func (g *SpatialGrid) cellCoords(pos game.Vec) (col, row int) {
	col = int(math.Floor((pos.X - g.origin.X) / g.cellSize))
	row = int(math.Floor((pos.Y - g.origin.Y) / g.cellSize))

	// Clamp to valid range
	if col < 0 {
		col = 0
	} else if col >= g.cols {
		col = g.cols - 1
	}
	if row < 0 {
		row = 0
	} else if row >= g.rows {
		row = g.rows - 1
	}
	return col, row
}

// Insert adds a circle to the grid.
func (g *SpatialGrid) Insert(id game.ShipID, pos game.Vec, radius float64) {
	col, row := g.cellCoords(pos)
	idx := row*g.cols + col
	g.cells[idx] = append(g.cells[idx], len(g.items))
	g.items = append(g.items, obstacle{id: id, pos: pos, radius: radius})
	if radius > g.maxRadius {
		g.maxRadius = radius
	}
}

// Len is the number of indexed obstacles.
func (g *SpatialGrid) Len() int {
	return len(g.items)
}

// RayCast reports whether the segment from-to touches any indexed circle
// other than those belonging to ignore.
func (g *SpatialGrid) RayCast(from, to game.Vec, ignore game.ShipID) bool {
	pad := g.maxRadius
	minCol, minRow := g.cellCoords(game.Vec{X: math.Min(from.X, to.X) - pad, Y: math.Min(from.Y, to.Y) - pad})
	maxCol, maxRow := g.cellCoords(game.Vec{X: math.Max(from.X, to.X) + pad, Y: math.Max(from.Y, to.Y) + pad})

	for r := minRow; r <= maxRow; r++ {
		for c := minCol; c <= maxCol; c++ {
			for _, i := range g.cells[r*g.cols+c] {
				o := g.items[i]
				if o.id != game.NoShip && o.id == ignore {
					continue
				}
				if segmentHitsCircle(from, to, o.pos, o.radius) {
					return true
				}
			}
		}
	}
	return false
}

// segmentHitsCircle reports whether the closest point of segment a-b lies
// within r of center.
func segmentHitsCircle(a, b, center game.Vec, r float64) bool {
	abX, abY := b.X-a.X, b.Y-a.Y
	lenSq := abX*abX + abY*abY
	t := 0.0
	if lenSq > 0 {
		t = ((center.X-a.X)*abX + (center.Y-a.Y)*abY) / lenSq
		t = math.Max(0, math.Min(1, t))
	}
	closest := game.Vec{X: a.X + t*abX, Y: a.Y + t*abY}
	return game.Dist(closest, center) < r
}
