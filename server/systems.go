package server

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/lab1702/solpilot/game"
	"github.com/lab1702/solpilot/pilot"
)

// rechargeSystems counts down gun cooldowns and the ability recharge.
func rechargeSystems(arm *Armament, ts float64) {
	for _, g := range arm.Guns {
		if g != nil {
			g.Cooldown = math.Max(0, g.Cooldown-ts)
		}
	}
	if a := arm.Ability; a != nil {
		a.Recharge = math.Max(0, a.Recharge-ts)
	}
}

// detectTargets marks turrets whose hostile is within auto-shoot range.
func (s *Sim) detectTargets(r shipRef, enemy *pilot.Ship) {
	rng := game.AutoShootSpace
	if p := s.NearestPlanet(r.body.Pos); p != nil && p.IsNearGround(r.body.Pos) {
		rng = game.AutoShootGround
	}
	for _, g := range r.arm.Guns {
		if g == nil || g.Config == nil {
			continue
		}
		g.Detected = !g.Config.Fixed && enemy != nil && game.Dist(r.body.Pos, enemy.Pos) < rng
	}
}

// useAbility fires the ship's ability when requested and ready. The ability
// knocks every other ship within its radius away from the user.
func (s *Sim) useAbility(r shipRef, refs []shipRef) {
	a := r.arm.Ability
	if !r.ctl.Out.UseAbility || a == nil || a.Config == nil || a.Recharge > 0 {
		return
	}
	if a.Config.ConsumesCharge {
		if a.Charges <= 0 {
			return
		}
		a.Charges--
	}
	a.Recharge = a.Config.Recharge

	for _, o := range refs {
		if o.ctl.ID == r.ctl.ID {
			continue
		}
		d := game.Dist(r.body.Pos, o.body.Pos)
		if d == 0 || d > a.Config.Radius {
			continue
		}
		mass := 1.0
		if o.hull.Config != nil && o.hull.Config.Mass > 0 {
			mass = o.hull.Config.Mass
		}
		push := game.FromAngle(game.AngleTo(r.body.Pos, o.body.Pos), a.Config.Force/mass)
		o.body.Vel = r2.Add(o.body.Vel, push)
	}
	s.log.Debug().Uint32("ship", uint32(r.ctl.ID)).Str("ability", a.Config.Name).Int("charges", a.Charges).Msg("ability used")
}
