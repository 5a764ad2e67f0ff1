package server

import (
	"math"
	"testing"

	"github.com/rs/zerolog"

	"github.com/lab1702/solpilot/game"
	"github.com/lab1702/solpilot/pilot"
)

const tolerance = 1e-6

func near(a, b float64) bool {
	return math.Abs(a-b) < tolerance
}

func newTestSim(t *testing.T, cfg SimConfig) *Sim {
	t.Helper()
	sim, err := NewSim(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewSim: %v", err)
	}
	return sim
}

func testHull() *game.HullConfig {
	return &game.HullConfig{Name: "fighter", Size: 1, ApproxRadius: .5, MaxHealth: 10, Mass: 1}
}

func testEngine() *game.EngineConfig {
	return &game.EngineConfig{Acc: 2, MaxRotationSpeed: 90, RotationAcc: 180}
}

func testGun() *game.GunConfig {
	return &game.GunConfig{
		Name:       "blaster",
		Fixed:      true,
		Cooldown:   .5,
		ReloadTime: 2,
		ClipSize:   3,
		Projectile: game.ProjectileConfig{Speed: 20, Damage: 4, Lifetime: 2},
	}
}

// scriptedPilot returns fixed controls and counts its ticks.
type scriptedPilot struct {
	out       pilot.ControlOutput
	player    bool
	faction   game.Faction
	panics    bool
	ticks     int
	farTicks  int
	lastEnemy *pilot.Ship
}

func (p *scriptedPilot) Tick(_ pilot.World, _ *pilot.Ship, enemy *pilot.Ship) pilot.ControlOutput {
	p.ticks++
	p.lastEnemy = enemy
	if p.panics {
		panic("scripted failure")
	}
	return p.out
}

func (p *scriptedPilot) TickFar(pilot.World, pilot.FarShip) { p.farTicks++ }
func (p *scriptedPilot) Faction() game.Faction              { return p.faction }
func (p *scriptedPilot) DetectionDist() float64             { return game.AIDetectionDist }
func (p *scriptedPilot) ShootsAtObstacles() bool            { return false }
func (p *scriptedPilot) CollectsItems() bool                { return false }
func (p *scriptedPilot) MapHint() string                    { return "" }
func (p *scriptedPilot) IsPlayer() bool                     { return p.player }
func (p *scriptedPilot) String() string                     { return "scripted" }
