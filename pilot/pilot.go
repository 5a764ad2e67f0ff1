// Package pilot turns a ship's situation into per-tick control signals.
//
// Every pilot is driven synchronously from the simulation step: Tick for ships
// simulated in full detail, TickFar for ships outside the focus area. Pilots own
// all of their mutable state, so distinct pilots may run on different goroutines
// as long as each one is ticked from a single goroutine.
package pilot

import (
	"errors"

	"github.com/lab1702/solpilot/game"
)

// ErrEvadeUnsupported is the panic value raised when a destination provider asks
// for an evasive maneuver. No provider may return ManeuverEvade yet.
var ErrEvadeUnsupported = errors.New("pilot: evade maneuver is not implemented")

// ControlOutput is the immutable result of one pilot tick.
type ControlOutput struct {
	Thrust        bool `json:"thrust" csv:"thrust"`
	TurnLeft      bool `json:"turnLeft" csv:"turn_left"`
	TurnRight     bool `json:"turnRight" csv:"turn_right"`
	FirePrimary   bool `json:"firePrimary" csv:"fire_primary"`
	FireSecondary bool `json:"fireSecondary" csv:"fire_secondary"`
	UseAbility    bool `json:"useAbility" csv:"use_ability"`
}

// Turning reports whether either turn flag is set.
func (c ControlOutput) Turning() bool {
	return c.TurnLeft || c.TurnRight
}

// Turn is a rotation decision. Right rotates toward increasing angles.
type Turn int

const (
	TurnNone Turn = iota
	TurnLeft
	TurnRight
)

func (t Turn) String() string {
	switch t {
	case TurnLeft:
		return "left"
	case TurnRight:
		return "right"
	}
	return "none"
}

// Maneuver is a destination provider's verdict about a hostile.
type Maneuver int

const (
	// ManeuverNone ignores the hostile and keeps moving normally.
	ManeuverNone Maneuver = iota
	// ManeuverFight orbits the hostile at engagement range.
	ManeuverFight
	// ManeuverEvade flees. Reaching it panics with ErrEvadeUnsupported.
	ManeuverEvade
)

func (m Maneuver) String() string {
	switch m {
	case ManeuverFight:
		return "fight"
	case ManeuverEvade:
		return "evade"
	}
	return "none"
}

// World is the read-only view of the simulation a pilot consults.
type World interface {
	// TimeStep is the duration of the current tick in seconds.
	TimeStep() float64
	// Time is the simulated time in seconds.
	Time() float64
	NearestPlanet(pos game.Vec) *game.Planet
	NearestStar(pos game.Vec) game.Star
	// RayCast reports whether a solid obstacle other than ignore blocks the
	// segment from-to.
	RayCast(from, to game.Vec, ignore game.ShipID) bool
	// FindShip locates a ship by identity, in full detail or far.
	FindShip(id game.ShipID) (Tracked, bool)
}

// Tracked is what another pilot may know about a ship it follows.
type Tracked struct {
	ID           game.ShipID
	Pos          game.Vec
	Vel          game.Vec
	ApproxRadius float64
	Far          bool
}

// Pilot is the decision maker of one ship.
type Pilot interface {
	// Tick decides the controls of a fully simulated ship. enemy may be nil.
	Tick(w World, ship *Ship, enemy *Ship) ControlOutput
	// TickFar moves a ship outside full simulation detail in place.
	TickFar(w World, ship FarShip)
	Faction() game.Faction
	DetectionDist() float64
	ShootsAtObstacles() bool
	CollectsItems() bool
	MapHint() string
	IsPlayer() bool
	String() string
}

func mergeTurn(primary, fallback ControlOutput) (left, right bool) {
	if primary.Turning() {
		return primary.TurnLeft, primary.TurnRight
	}
	return fallback.TurnLeft, fallback.TurnRight
}

func applyTurn(out *ControlOutput, t Turn) {
	switch t {
	case TurnLeft:
		out.TurnLeft = true
	case TurnRight:
		out.TurnRight = true
	}
}
