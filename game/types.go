package game

import (
	"fmt"
	"time"
)

// World scale and pacing constants
const (
	AtmHeight       = 14.0                              // Atmosphere thickness above the ground
	MaxGroundHeight = 25.0                              // Largest planet ground radius
	SunRadius       = 2 * (MaxGroundHeight + AtmHeight) // Visual radius of a star
	SunHotRadius    = .75 * SunRadius                   // Ships avoid this disc around a star
	MaxMoveSpeed    = 8.0                               // Hard speed cap for every ship
	DefaultAISpeed  = 4.0                               // Cruise speed of standard hulls
	BigAISpeed      = 2.0                               // Cruise speed of big hulls

	CamViewDistSpace   = 8.0
	CamViewDistGround  = 3.5
	CamViewDistJourney = 30.0
	AIDetectionDist    = 1.2 * CamViewDistJourney // Range at which pilots notice hostiles
	AutoShootSpace     = .6 * CamViewDistSpace    // Turret auto-aim range in space
	AutoShootGround    = .6 * CamViewDistGround   // Turret auto-aim range near ground

	// Game timing
	FPS            = 60
	TimeStep       = 1.0 / FPS
	UpdateInterval = time.Second / FPS
)

// ShipID identifies a ship for its whole lifetime, including while it is far.
type ShipID uint32

// NoShip is the zero ShipID, never handed out.
const NoShip ShipID = 0

// Faction is the allegiance of a ship.
type Faction int

const (
	FactionNone Faction = iota
	FactionLaani
	FactionEhar
)

func (f Faction) String() string {
	switch f {
	case FactionLaani:
		return "laani"
	case FactionEhar:
		return "ehar"
	case FactionNone:
		return "none"
	}
	return fmt.Sprintf("faction(%d)", int(f))
}

// ParseFaction maps a faction name to its value.
func ParseFaction(s string) (Faction, error) {
	switch s {
	case "laani":
		return FactionLaani, nil
	case "ehar":
		return FactionEhar, nil
	case "", "none":
		return FactionNone, nil
	}
	return FactionNone, fmt.Errorf("unknown faction %q", s)
}

// Hostile reports whether two factions fight each other.
func (f Faction) Hostile(other Faction) bool {
	return f != FactionNone && other != FactionNone && f != other
}
