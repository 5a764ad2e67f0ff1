package pilot

import (
	"math"
	"math/rand"

	"github.com/lab1702/solpilot/game"
)

const tolerance = 1e-6

// stubWorld is a scriptable World. The default planet and star are far away.
type stubWorld struct {
	ts, now float64
	planet  *game.Planet
	star    game.Star
	ships   map[game.ShipID]Tracked

	// blocked decides each ray cast; index counts casts from zero.
	blocked func(index int, from, to game.Vec) bool
	casts   int
}

func newStubWorld() *stubWorld {
	return &stubWorld{
		ts:     game.TimeStep,
		planet: &game.Planet{Name: "far", Pos: game.Vec{X: 10000, Y: 10000}, GroundHeight: 10},
		star:   game.Star{Pos: game.Vec{X: -10000, Y: -10000}, Radius: game.SunHotRadius},
		ships:  map[game.ShipID]Tracked{},
	}
}

func (w *stubWorld) TimeStep() float64                   { return w.ts }
func (w *stubWorld) Time() float64                       { return w.now }
func (w *stubWorld) NearestPlanet(game.Vec) *game.Planet { return w.planet }
func (w *stubWorld) NearestStar(game.Vec) game.Star      { return w.star }
func (w *stubWorld) FindShip(id game.ShipID) (Tracked, bool) {
	t, ok := w.ships[id]
	return t, ok
}

func (w *stubWorld) RayCast(from, to game.Vec, _ game.ShipID) bool {
	i := w.casts
	w.casts++
	if w.blocked == nil {
		return false
	}
	return w.blocked(i, from, to)
}

func testHull() *game.HullConfig {
	return &game.HullConfig{Name: "fighter", Type: game.HullStd, Size: 1, ApproxRadius: .5, MaxHealth: 100}
}

func testEngine() *game.EngineConfig {
	return &game.EngineConfig{Acc: 2, MaxRotationSpeed: 90, RotationAcc: 180}
}

func fixedGun(speed float64) *Gun {
	return &Gun{
		Config: &game.GunConfig{Name: "blaster", Fixed: true, ClipSize: 10, Projectile: game.ProjectileConfig{Speed: speed}},
		Ammo:   10,
	}
}

func testShip(id game.ShipID, pos game.Vec, angle float64) *Ship {
	return &Ship{
		ID:     id,
		Pos:    pos,
		Angle:  angle,
		Hull:   testHull(),
		Engine: testEngine(),
		Health: 100,
	}
}

func testRand() *rand.Rand {
	return testRandSeed(7)
}

func testRandSeed(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func near(a, b float64) bool {
	return math.Abs(a-b) < tolerance
}

func nearVec(a, b game.Vec) bool {
	return game.Dist(a, b) < 1e-4
}

// fakeFar is an in-memory FarShip.
type fakeFar struct {
	pos, vel game.Vec
	angle    float64
	hull     *game.HullConfig
	engine   *game.EngineConfig
}

func (f *fakeFar) Pos() game.Vec              { return f.pos }
func (f *fakeFar) Vel() game.Vec              { return f.vel }
func (f *fakeFar) Angle() float64             { return f.angle }
func (f *fakeFar) Hull() *game.HullConfig     { return f.hull }
func (f *fakeFar) Engine() *game.EngineConfig { return f.engine }
func (f *fakeFar) SetPos(p game.Vec)          { f.pos = p }
func (f *fakeFar) SetVel(v game.Vec)          { f.vel = v }
func (f *fakeFar) SetAngle(a float64)         { f.angle = a }

func nan() float64 {
	return math.NaN()
}
