package server

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/lab1702/solpilot/game"
	"github.com/lab1702/solpilot/pilot"
)

// Handler data structures

// ControlsData sets the inputs of an externally piloted ship
type ControlsData struct {
	Ship     uint32              `json:"ship"`
	Controls pilot.ControlOutput `json:"controls"`
}

// BeaconData moves or clears the waypoint of a beacon-following ship
type BeaconData struct {
	Ship   uint32    `json:"ship"`
	Pos    *game.Vec `json:"pos,omitempty"` // nil clears the waypoint
	Vel    game.Vec  `json:"vel"`
	Action string    `json:"action"` // "move", "attack" or "clear"
}

var (
	errBadVector = errors.New("vector must be finite")
	errBadAction = errors.New("unknown beacon action")
	errNoShip    = errors.New("ship is required")
)

func errUnknownMessage(kind string) error {
	return fmt.Errorf("unknown message type %q", kind)
}

// Utility functions

// validateVec rejects vectors a client could use to poison the simulation
func validateVec(v game.Vec) error {
	if math.IsNaN(v.X) || math.IsNaN(v.Y) || math.IsInf(v.X, 0) || math.IsInf(v.Y, 0) {
		return errBadVector
	}
	return nil
}

// parseBeaconAction maps the wire action name. reset reports a clear request.
func parseBeaconAction(s string) (action pilot.BeaconAction, reset bool, err error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "move":
		return pilot.BeaconMove, false, nil
	case "attack":
		return pilot.BeaconAttack, false, nil
	case "clear":
		return pilot.BeaconMove, true, nil
	}
	return pilot.BeaconMove, false, fmt.Errorf("%w: %q", errBadAction, s)
}
