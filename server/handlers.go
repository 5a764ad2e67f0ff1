package server

import (
	"encoding/json"
	"fmt"

	"github.com/lab1702/solpilot/game"
)

// handleControls feeds a client's inputs to an externally piloted ship
func (c *Client) handleControls(data json.RawMessage) error {
	var req ControlsData
	if err := json.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("decoding controls: %w", err)
	}
	if req.Ship == 0 {
		return errNoShip
	}

	return c.server.withSim(func(s *Sim) error {
		return s.SetControls(game.ShipID(req.Ship), req.Controls)
	})
}

// handleBeacon places or clears the waypoint of a beacon-following ship
func (c *Client) handleBeacon(data json.RawMessage) error {
	var req BeaconData
	if err := json.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("decoding beacon: %w", err)
	}
	if req.Ship == 0 {
		return errNoShip
	}
	action, reset, err := parseBeaconAction(req.Action)
	if err != nil {
		return err
	}
	if reset {
		req.Pos = nil
	}
	if req.Pos != nil {
		if err := validateVec(*req.Pos); err != nil {
			return err
		}
	}
	if err := validateVec(req.Vel); err != nil {
		return err
	}

	return c.server.withSim(func(s *Sim) error {
		return s.SetWaypoint(game.ShipID(req.Ship), req.Pos, req.Vel, action)
	})
}
