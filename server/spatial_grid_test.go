package server

import (
	"testing"

	"github.com/lab1702/solpilot/game"
)

func TestSpatialGridRayCast(t *testing.T) {
	grid := NewSpatialGrid(game.Vec{X: -50, Y: -50}, game.Vec{X: 50, Y: 50}, GridCellSize)
	grid.Insert(1, game.Vec{X: 10, Y: 0}, 1)
	grid.Insert(game.NoShip, game.Vec{X: -10, Y: 5}, 2)
	grid.Insert(2, game.Vec{X: 200, Y: 200}, 1) // clamped into the corner cell

	tests := []struct {
		name   string
		from   game.Vec
		to     game.Vec
		ignore game.ShipID
		want   bool
	}{
		{"through ship", game.Vec{X: 0, Y: 0}, game.Vec{X: 20, Y: 0}, game.NoShip, true},
		{"stops short", game.Vec{X: 0, Y: 0}, game.Vec{X: 8.5, Y: 0}, game.NoShip, false},
		{"passes beside", game.Vec{X: 0, Y: 2}, game.Vec{X: 20, Y: 2}, game.NoShip, false},
		{"own hull ignored", game.Vec{X: 0, Y: 0}, game.Vec{X: 20, Y: 0}, 1, false},
		{"rock never ignored", game.Vec{X: -20, Y: 5}, game.Vec{X: 0, Y: 5}, game.NoShip, true},
		{"outside bounds", game.Vec{X: 190, Y: 200}, game.Vec{X: 210, Y: 200}, game.NoShip, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := grid.RayCast(tt.from, tt.to, tt.ignore); got != tt.want {
				t.Errorf("RayCast(%v, %v, %d) = %v, want %v", tt.from, tt.to, tt.ignore, got, tt.want)
			}
		})
	}
}

func TestSpatialGridClear(t *testing.T) {
	grid := NewSpatialGrid(game.Vec{}, game.Vec{X: 20, Y: 20}, GridCellSize)
	grid.Insert(1, game.Vec{X: 10, Y: 10}, 1)
	if grid.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", grid.Len())
	}

	grid.Clear()
	if grid.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", grid.Len())
	}
	if grid.RayCast(game.Vec{X: 0, Y: 10}, game.Vec{X: 20, Y: 10}, game.NoShip) {
		t.Error("RayCast hit an obstacle after Clear")
	}
}

func TestSegmentHitsCircle(t *testing.T) {
	center := game.Vec{X: 5, Y: 0}
	if !segmentHitsCircle(game.Vec{X: 5, Y: 0}, game.Vec{X: 5, Y: 0}, center, 1) {
		t.Error("degenerate segment at the centre should hit")
	}
	if segmentHitsCircle(game.Vec{X: 0, Y: 0}, game.Vec{X: 3, Y: 0}, center, 1) {
		t.Error("segment ending before the circle should miss")
	}
	if !segmentHitsCircle(game.Vec{X: 0, Y: .5}, game.Vec{X: 10, Y: .5}, center, 1) {
		t.Error("segment crossing the circle should hit")
	}
}
