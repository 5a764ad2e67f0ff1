package pilot

import "github.com/rs/zerolog"

// Debug enables per-decision trace events.
var Debug = false

var logger = zerolog.Nop()

// SetLogger installs the logger used for debug traces.
func SetLogger(l zerolog.Logger) {
	logger = l.With().Str("component", "pilot").Logger()
}

// logManeuver traces a combat verdict when debugging is enabled
func logManeuver(ship *Ship, enemy *Ship, m Maneuver, nearGround bool) {
	if !Debug || enemy == nil {
		return
	}
	logger.Debug().
		Uint32("ship", uint32(ship.ID)).
		Uint32("enemy", uint32(enemy.ID)).
		Stringer("maneuver", m).
		Bool("nearGround", nearGround).
		Float64("dist", distance(ship.Pos, enemy.Pos)).
		Msg("maneuver verdict")
}

// logShot traces a firing solution when debugging is enabled
func logShot(ship *Ship, shootAngle, maxDiff float64, fire bool) {
	if !Debug {
		return
	}
	logger.Debug().
		Uint32("ship", uint32(ship.ID)).
		Float64("shootAngle", shootAngle).
		Float64("shipAngle", ship.Angle).
		Float64("tolerance", maxDiff).
		Bool("fire", fire).
		Msg("firing solution")
}
