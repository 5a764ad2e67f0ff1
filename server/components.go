package server

import (
	"github.com/lab1702/solpilot/game"
	"github.com/lab1702/solpilot/pilot"
)

// Body is the kinematic state of a ship.
type Body struct {
	Pos           game.Vec
	Vel           game.Vec
	Angle         float64
	RotationSpeed float64
}

// Hull is a ship's static equipment and remaining health.
type Hull struct {
	Config *game.HullConfig
	Engine *game.EngineConfig
	Health float64
}

// Armament holds the live state of a ship's guns and ability.
type Armament struct {
	Guns    [2]*pilot.Gun
	Ability *pilot.Ability
}

// Control binds a ship to its pilot and records the last decision.
type Control struct {
	ID      game.ShipID
	Faction game.Faction
	Pilot   pilot.Pilot
	Out     pilot.ControlOutput
	Far     bool
}

// Projectile is a round in flight.
type Projectile struct {
	Pos     game.Vec
	Vel     game.Vec
	Angle   float64
	Owner   game.ShipID
	Faction game.Faction
	Config  *game.ProjectileConfig
	Life    float64
}

// Rock is an inert obstacle that blocks ray casts and projectiles.
type Rock struct {
	Pos    game.Vec `json:"pos"`
	Vel    game.Vec `json:"vel"`
	Radius float64  `json:"radius"`
}
