package pilot

import (
	"math"

	"github.com/lab1702/solpilot/game"
)

// Gun slots
const (
	Primary   = 0
	Secondary = 1
)

// Gun is the per-tick state of one mounted weapon.
type Gun struct {
	Config *game.GunConfig
	Ammo   int
	// Cooldown is the time left before the gun may fire again.
	Cooldown float64
	// Detected is set for turrets that track a hostile within auto-shoot range.
	Detected bool
}

// Loaded reports whether the gun has a round to fire.
func (g *Gun) Loaded() bool {
	return g != nil && g.Config != nil && g.Ammo > 0
}

// Ability is the per-tick state of a ship's special ability.
type Ability struct {
	Config  *game.AbilityConfig
	Charges int
	// Recharge is the time left before the ability may be used again.
	Recharge float64
}

// Ship is a read-only snapshot of a fully simulated ship for one tick.
type Ship struct {
	ID            game.ShipID
	Faction       game.Faction
	Pos           game.Vec
	Vel           game.Vec
	Angle         float64
	RotationSpeed float64
	Hull          *game.HullConfig
	Engine        *game.EngineConfig // nil for ships without propulsion
	Health        float64
	Guns          [2]*Gun
	Ability       *Ability
}

// Acc is the ship's linear acceleration, 0 without an engine.
func (s *Ship) Acc() float64 {
	if s.Engine == nil {
		return 0
	}
	return s.Engine.Acc
}

// RotationAcc is the ship's angular acceleration, 0 without an engine.
func (s *Ship) RotationAcc() float64 {
	if s.Engine == nil {
		return 0
	}
	return s.Engine.RotationAcc
}

// TimeToTurn estimates how long it takes to face angle at full rotation speed.
func (s *Ship) TimeToTurn(angle float64) float64 {
	if s.Engine == nil || s.Engine.MaxRotationSpeed == 0 {
		return math.Inf(1)
	}
	return game.AngleDiff(s.Angle, angle) / s.Engine.MaxRotationSpeed
}

// ApproxRadius is the hull bounding radius, 0 if the hull is unknown.
func (s *Ship) ApproxRadius() float64 {
	if s.Hull == nil {
		return 0
	}
	return s.Hull.ApproxRadius
}

// GunPos returns the world position of a gun mount.
func (s *Ship) GunPos(slot int) game.Vec {
	if s.Hull == nil {
		return s.Pos
	}
	return game.ToWorld(s.Hull.GunMounts[slot], s.Angle, s.Pos)
}

// FarShip is a ship outside full simulation detail. TickFar integrates it
// directly through the setters.
type FarShip interface {
	Pos() game.Vec
	Vel() game.Vec
	Angle() float64
	Hull() *game.HullConfig
	Engine() *game.EngineConfig
	SetPos(game.Vec)
	SetVel(game.Vec)
	SetAngle(float64)
}
