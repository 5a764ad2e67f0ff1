package server

import (
	"errors"
	"sort"

	"github.com/lab1702/solpilot/game"
	"github.com/lab1702/solpilot/pilot"
)

var (
	// ErrUnknownShip is returned for commands addressed to a ship that does not exist.
	ErrUnknownShip = errors.New("server: unknown ship")
	// ErrNotSteerable is returned when a command does not match the ship's pilot.
	ErrNotSteerable = errors.New("server: ship does not accept this command")
)

// ShipState is the public view of a ship.
type ShipState struct {
	ID        uint32              `json:"id"`
	Faction   string              `json:"faction"`
	Pos       game.Vec            `json:"pos"`
	Vel       game.Vec            `json:"vel"`
	Angle     float64             `json:"angle"`
	Health    float64             `json:"health"`
	MaxHealth float64             `json:"maxHealth"`
	Hull      string              `json:"hull"`
	Pilot     string              `json:"pilot"`
	Hint      string              `json:"hint,omitempty"`
	Player    bool                `json:"player"`
	Far       bool                `json:"far"`
	Controls  pilot.ControlOutput `json:"controls"`
}

// ProjectileState is the public view of a round in flight.
type ProjectileState struct {
	Pos   game.Vec `json:"pos"`
	Angle float64  `json:"angle"`
	Owner uint32   `json:"owner"`
}

// Frame is a full snapshot of the world for one tick.
type Frame struct {
	Tick        int64             `json:"tick"`
	Time        float64           `json:"time"`
	Focus       game.Vec          `json:"focus"`
	Ships       []ShipState       `json:"ships"`
	Projectiles []ProjectileState `json:"projectiles"`
	Rocks       []Rock            `json:"rocks"`
	Planets     []game.Planet     `json:"planets"`
	Stars       []game.Star       `json:"stars"`
}

// Ships returns the state of every live ship ordered by identity.
func (s *Sim) Ships() []ShipState {
	ships := make([]ShipState, 0, len(s.handles))
	query := s.shipFilter.Query()
	for query.Next() {
		body, hull, _, ctl := query.Get()
		st := ShipState{
			ID:       uint32(ctl.ID),
			Faction:  ctl.Faction.String(),
			Pos:      body.Pos,
			Vel:      body.Vel,
			Angle:    body.Angle,
			Health:   hull.Health,
			Far:      ctl.Far,
			Controls: ctl.Out,
		}
		if hull.Config != nil {
			st.MaxHealth = hull.Config.MaxHealth
			st.Hull = hull.Config.Name
		}
		if ctl.Pilot != nil {
			st.Pilot = ctl.Pilot.String()
			st.Hint = ctl.Pilot.MapHint()
			st.Player = ctl.Pilot.IsPlayer()
		}
		ships = append(ships, st)
	}
	sort.Slice(ships, func(i, j int) bool { return ships[i].ID < ships[j].ID })
	return ships
}

// Snapshot copies the world state so it can be serialized without holding
// the simulation.
func (s *Sim) Snapshot() Frame {
	f := Frame{
		Tick:  s.tick,
		Time:  s.time,
		Focus: s.focus,
		Ships: s.Ships(),
	}

	pq := s.projFilter.Query()
	for pq.Next() {
		p := pq.Get()
		f.Projectiles = append(f.Projectiles, ProjectileState{Pos: p.Pos, Angle: p.Angle, Owner: uint32(p.Owner)})
	}
	rq := s.rockFilter.Query()
	for rq.Next() {
		f.Rocks = append(f.Rocks, *rq.Get())
	}
	for _, sys := range s.systems {
		f.Stars = append(f.Stars, sys.Star())
		for _, p := range sys.Planets {
			f.Planets = append(f.Planets, *p)
		}
	}
	return f
}

// SetControls feeds inputs to an externally piloted ship.
func (s *Sim) SetControls(id game.ShipID, c pilot.ControlOutput) error {
	p, ok := s.Pilot(id)
	if !ok {
		return ErrUnknownShip
	}
	ext, ok := p.(*pilot.ExternalPilot)
	if !ok {
		return ErrNotSteerable
	}
	ext.SetControls(c)
	return nil
}

// SetWaypoint moves the beacon of a ship that follows one. A nil pos clears it.
func (s *Sim) SetWaypoint(id game.ShipID, pos *game.Vec, vel game.Vec, action pilot.BeaconAction) error {
	p, ok := s.Pilot(id)
	if !ok {
		return ErrUnknownShip
	}
	ai, ok := p.(*pilot.AiPilot)
	if !ok {
		return ErrNotSteerable
	}
	beacon, ok := ai.DestProvider().(*pilot.Beacon)
	if !ok {
		return ErrNotSteerable
	}
	if pos == nil {
		beacon.Clear()
		return nil
	}
	beacon.SetWaypoint(*pos, vel, action, s.time)
	return nil
}
