package pilot

import "github.com/lab1702/solpilot/game"

// Pilot tuning constants.
// Angles are degrees, distances are world units, times are seconds.

const (
	// Movement
	MinMoveAngleDiff       = 2.0 // Turn tolerance while correcting velocity
	MinAngleToAccelerate   = 5.0 // Thrust only when the velocity correction is this close to the nose
	MinPlanetMoveAngleDiff = 2.0 // Turn tolerance when settling on a planet surface
	MaxAbsSpeedDeviation   = .1  // Velocity error ignored below this magnitude
	MaxRelSpeedDeviation   = .05 // Velocity error ignored below this fraction of current speed

	// Weapons
	EnemySpeedFactor  = .6 // Fraction of target velocity trusted when leading a shot
	MinShootAngleDiff = 2.0
	ShootAngleMargin  = 10.0 // Added to the target's angular width when deciding to fire

	// Orchestration
	MinIdleDist        = .8  // Smallest arrival radius
	MaxGroundBattleSpd = .7  // Battle speed ceiling near ground
	MaxBattleSpdBig    = 1.0 // Battle speed ceiling for big hulls
	MaxBattleSpd       = 2.0 // Battle speed ceiling otherwise
	MaxBindAwait       = .25 // Delay between planet bind attempts on the far path
	FarIdleDistHack    = .05 // Far still guards settle inside this radius so they do not sink into the ground

	// Avoidance
	ManeuverTime  = 2.0 // Reaction time budget added to the small-body probe
	MinRaycastLen = .5
	AvoidDeflect  = 45.0

	// Abilities
	MinAbilityThreshold = .3
	MaxAbilityThreshold = .7
	MinChargesToKeep    = 1
	MaxChargesToKeep    = 2

	// Battle positioning
	MinDirChangeAwait = 10.0
	MaxDirChangeAwait = 15.0

	// Destination providers
	GuardianDist       = 1.5 // Gap kept between guardian and guarded hulls
	MaxAwaitOnPlanet   = 30.0
	LastPlanetsToAvoid = 2
	OrbitAngleStep     = 5.0 // Lead of the orbit target ahead of the ship
	BeaconStopAwait    = .1  // A fresh waypoint is chased without braking for this long
)

// MaxAvoidProbeLen caps how far ahead large-body avoidance looks.
const MaxAvoidProbeLen = 2 * (game.MaxGroundHeight + game.AtmHeight)
