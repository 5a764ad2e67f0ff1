package pilot

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/lab1702/solpilot/game"
)

// PlanetBind pins a point and a heading to a rotating planet surface.
type PlanetBind struct {
	planet   *game.Planet
	relPos   game.Vec
	relAngle float64
}

// NewPlanetBind binds pos and angle to the planet's current frame.
func NewPlanetBind(p *game.Planet, pos game.Vec, angle float64) *PlanetBind {
	return &PlanetBind{
		planet:   p,
		relPos:   game.ToRel(pos, p.Angle, p.Pos),
		relAngle: angle - p.Angle,
	}
}

// TryBind binds to the nearest planet when pos is near its ground, nil otherwise.
func TryBind(w World, pos game.Vec, angle float64) *PlanetBind {
	p := w.NearestPlanet(pos)
	if p == nil || !p.IsNearGround(pos) {
		return nil
	}
	return NewPlanetBind(p, pos, angle)
}

// Diff returns how far pos has to move to stay on the bound surface point.
func (b *PlanetBind) Diff(pos game.Vec) game.Vec {
	return r2.Sub(game.ToWorld(b.relPos, b.planet.Angle, b.planet.Pos), pos)
}

// DesiredAngle is the bound heading in world space.
func (b *PlanetBind) DesiredAngle() float64 {
	return game.Norm(b.planet.Angle + b.relAngle)
}

// Planet is the body the bind follows.
func (b *PlanetBind) Planet() *game.Planet {
	return b.planet
}
