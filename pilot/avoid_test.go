package pilot

import (
	"testing"

	"github.com/lab1702/solpilot/game"
)

func TestBigObjAvoider(t *testing.T) {
	tests := []struct {
		name   string
		planet *game.Planet
		star   game.Star
		dest   game.Vec
		want   float64
	}{
		{
			name:   "ClearCorridor",
			planet: &game.Planet{Pos: game.Vec{X: 20, Y: 40}, GroundHeight: 5},
			star:   game.Star{Pos: game.Vec{X: -50}, Radius: 10},
			dest:   game.Vec{X: 60},
			want:   0,
		},
		{
			name:   "PlanetLeftOfTrack",
			planet: &game.Planet{Pos: game.Vec{X: 20, Y: 1}, GroundHeight: 5},
			star:   game.Star{Pos: game.Vec{X: -50}, Radius: 10},
			dest:   game.Vec{X: 60},
			want:   -45,
		},
		{
			name:   "PlanetRightOfTrack",
			planet: &game.Planet{Pos: game.Vec{X: 20, Y: -1}, GroundHeight: 5},
			star:   game.Star{Pos: game.Vec{X: -50}, Radius: 10},
			dest:   game.Vec{X: 60},
			want:   45,
		},
		{
			name:   "PlanetBehindDestination",
			planet: &game.Planet{Pos: game.Vec{X: 50}, GroundHeight: 5},
			star:   game.Star{Pos: game.Vec{X: -50}, Radius: 10},
			dest:   game.Vec{X: 20},
			want:   0,
		},
		{
			name:   "LandingUsesGroundRadius",
			planet: &game.Planet{Pos: game.Vec{X: 20, Y: 8}, GroundHeight: 5},
			star:   game.Star{Pos: game.Vec{X: -50}, Radius: 10},
			dest:   game.Vec{X: 20, Y: 2},
			want:   game.AngleTo(game.Vec{}, game.Vec{X: 20, Y: 2}),
		},
		{
			name:   "StarAhead",
			planet: &game.Planet{Pos: game.Vec{X: 20, Y: 400}, GroundHeight: 5},
			star:   game.Star{Pos: game.Vec{X: 30, Y: 2}, Radius: 5},
			dest:   game.Vec{X: 60},
			want:   -45,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newStubWorld()
			w.planet = tt.planet
			w.star = tt.star
			heading := game.AngleTo(game.Vec{}, tt.dest)

			got := BigObjAvoider{}.Avoid(w, game.Vec{}, tt.dest, heading)
			if !near(got, tt.want) {
				t.Errorf("Avoid = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBigObjAvoiderIdentityWithoutBodies(t *testing.T) {
	w := newStubWorld()
	for _, heading := range []float64{-170, -90, 0, 33.3, 179} {
		dest := game.FromAngle(heading, 40)
		if got := (BigObjAvoider{}).Avoid(w, game.Vec{}, dest, heading); got != heading {
			t.Errorf("Avoid(%v) = %v, want input unchanged", heading, got)
		}
	}
}

func TestSmallObjAvoiderFallbackOrder(t *testing.T) {
	ship := testShip(1, game.Vec{}, 0)
	planet := &game.Planet{Pos: game.Vec{X: 1000}, GroundHeight: 10}

	tests := []struct {
		name    string
		blocked int // number of leading probes that hit
		want    float64
	}{
		{"Clear", 0, 30},
		{"FirstBlocked", 1, 75},
		{"FirstTwoBlocked", 2, -15},
		{"AllBlockedInSpace", 3, -15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newStubWorld()
			w.blocked = func(i int, _, _ game.Vec) bool { return i < tt.blocked }

			got := SmallObjAvoider{}.Avoid(w, ship, 30, planet)
			if !near(got, tt.want) {
				t.Errorf("Avoid = %v, want %v", got, tt.want)
			}
			wantCasts := tt.blocked + 1
			if wantCasts > 3 {
				wantCasts = 3
			}
			if w.casts != wantCasts {
				t.Errorf("ray casts = %d, want %d", w.casts, wantCasts)
			}
		})
	}
}

func TestSmallObjAvoiderInsideAtmosphere(t *testing.T) {
	planet := &game.Planet{Pos: game.Vec{}, GroundHeight: 10}
	ship := testShip(1, game.Vec{X: 0, Y: 12}, 0)
	w := newStubWorld()
	w.blocked = func(int, game.Vec, game.Vec) bool { return true }

	got := SmallObjAvoider{}.Avoid(w, ship, 0, planet)
	if !near(got, 90) {
		t.Errorf("Avoid = %v, want 90 (away from planet centre)", got)
	}
}

func TestSmallObjAvoiderProbeLength(t *testing.T) {
	ship := testShip(1, game.Vec{}, 0)
	ship.Vel = game.Vec{X: 2}
	var probe float64
	w := newStubWorld()
	w.blocked = func(_ int, from, to game.Vec) bool {
		probe = game.Dist(from, to)
		return false
	}

	SmallObjAvoider{}.Avoid(w, ship, 0, nil)
	// speed 2 * (45/90 turn time + maneuver time)
	want := 2 * (.5 + ManeuverTime)
	if !near(probe, want) {
		t.Errorf("probe length = %v, want %v", probe, want)
	}

	ship.Vel = game.Vec{}
	SmallObjAvoider{}.Avoid(w, ship, 0, nil)
	if !near(probe, MinRaycastLen) {
		t.Errorf("probe length = %v, want floor %v", probe, MinRaycastLen)
	}
}
