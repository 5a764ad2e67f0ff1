package server

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/lab1702/solpilot/game"
	"github.com/lab1702/solpilot/pilot"
)

// integrateShip applies one tick of controls and environment to a body.
// Turning right increases the angle.
func integrateShip(b *Body, h *Hull, out pilot.ControlOutput, planet *game.Planet, ts float64) {
	if e := h.Engine; e != nil {
		switch {
		case out.TurnRight && !out.TurnLeft:
			b.RotationSpeed += e.RotationAcc * ts
		case out.TurnLeft && !out.TurnRight:
			b.RotationSpeed -= e.RotationAcc * ts
		default:
			// Engines damp any spin when no turn is requested
			b.RotationSpeed = game.Approach(b.RotationSpeed, 0, e.RotationAcc*ts)
		}
		b.RotationSpeed = math.Max(-e.MaxRotationSpeed, math.Min(e.MaxRotationSpeed, b.RotationSpeed))

		if out.Thrust {
			b.Vel = r2.Add(b.Vel, game.FromAngle(b.Angle, e.Acc*ts))
		}
	}
	b.Angle = game.Norm(b.Angle + b.RotationSpeed*ts)

	if planet != nil {
		applyGravity(b, planet, ts)
	}
	if speed := game.Len(b.Vel); speed > game.MaxMoveSpeed {
		b.Vel = r2.Scale(game.MaxMoveSpeed/speed, b.Vel)
	}
	b.Pos = r2.Add(b.Pos, r2.Scale(ts, b.Vel))

	if planet != nil {
		radius := 0.0
		if h.Config != nil {
			radius = h.Config.ApproxRadius
		}
		landOnGround(b, planet, radius)
	}
}

// applyGravity pulls a body toward the planet while it is inside the atmosphere.
func applyGravity(b *Body, planet *game.Planet, ts float64) {
	toPlanet := r2.Sub(planet.Pos, b.Pos)
	d := game.Len(toPlanet)
	if d == 0 || d > planet.FullHeight() {
		return
	}
	g := planet.GravConst() / (d * d)
	b.Vel = r2.Add(b.Vel, r2.Scale(g*ts/d, toPlanet))
}

// landOnGround keeps a body above the surface and makes it ride the planet
// rotation once it touches down.
func landOnGround(b *Body, planet *game.Planet, radius float64) {
	fromPlanet := r2.Sub(b.Pos, planet.Pos)
	d := game.Len(fromPlanet)
	floor := planet.GroundHeight + radius
	if d >= floor {
		return
	}
	if d == 0 {
		fromPlanet = game.FromAngle(b.Angle, 1)
		d = 1
	}
	b.Pos = r2.Add(planet.Pos, r2.Scale(floor/d, fromPlanet))

	// Drop the inward part of the velocity relative to the surface
	surface := planet.SpeedAt(b.Pos)
	rel := r2.Sub(b.Vel, surface)
	normal := r2.Scale(1/d, fromPlanet)
	if inward := r2.Dot(rel, normal); inward < 0 {
		rel = r2.Sub(rel, r2.Scale(inward, normal))
	}
	b.Vel = r2.Add(surface, rel)
}
