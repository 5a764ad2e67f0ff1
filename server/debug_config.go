package server

import "github.com/rs/zerolog"

// Debug flags for various subsystems
var (
	DebugWeapons = false // Set to true to log every round fired and every hit
)

// logShot logs a round leaving a gun when weapon debugging is enabled
func logShot(log zerolog.Logger, owner uint32, slot int, angle float64) {
	if DebugWeapons {
		log.Debug().Uint32("ship", owner).Int("slot", slot).Float64("angle", angle).Msg("round fired")
	}
}

// logHit logs a round striking a ship when weapon debugging is enabled
func logHit(log zerolog.Logger, owner, target uint32, damage, health float64) {
	if DebugWeapons {
		log.Debug().
			Uint32("ship", owner).
			Uint32("target", target).
			Float64("damage", damage).
			Float64("health", health).
			Msg("round hit")
	}
}
