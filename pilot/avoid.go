package pilot

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/lab1702/solpilot/game"
)

func distance(a, b game.Vec) float64 {
	return game.Dist(a, b)
}

// BigObjAvoider deflects a heading around the nearest planet and star.
type BigObjAvoider struct{}

// Avoid returns heading, or heading turned 45 degrees away from a planet or star
// that lies in the travel corridor toward dest.
func (BigObjAvoider) Avoid(w World, from, dest game.Vec, heading float64) float64 {
	travel := math.Min(distance(from, dest), MaxAvoidProbeLen)
	res := heading

	if p := w.NearestPlanet(from); p != nil {
		radius := p.FullHeight()
		if distance(dest, p.Pos) < radius {
			radius = p.GroundHeight
		}
		proj := game.Rotate(r2.Sub(p.Pos, from), -heading)
		if 0 < proj.X && proj.X < travel && math.Abs(proj.Y) < radius {
			travel = proj.X
			res = heading + AvoidDeflect*game.Sign(proj.Y < 0)
		}
	}

	star := w.NearestStar(from)
	proj := game.Rotate(r2.Sub(star.Pos, from), -heading)
	if 0 < proj.X && proj.X < travel && math.Abs(proj.Y) < star.Radius {
		res = heading + AvoidDeflect*game.Sign(proj.Y < 0)
	}
	return res
}

// SmallObjAvoider probes for small obstacles with ray casts. It is greedy and
// looks one step ahead: it never plans around several obstacles at once.
type SmallObjAvoider struct{}

// Avoid returns the first unobstructed of heading, heading+45 and heading-45.
// When all three are blocked it keeps heading-45 in open space, or heads
// straight away from the planet centre inside the atmosphere.
func (SmallObjAvoider) Avoid(w World, ship *Ship, heading float64, planet *game.Planet) float64 {
	probeLen := game.Len(ship.Vel) * (ship.TimeToTurn(heading+AvoidDeflect) + ManeuverTime)
	if math.IsNaN(probeLen) || math.IsInf(probeLen, 0) || probeLen < MinRaycastLen {
		probeLen = MinRaycastLen
	}

	for _, candidate := range [...]float64{heading, heading + AvoidDeflect, heading - AvoidDeflect} {
		to := r2.Add(ship.Pos, game.FromAngle(candidate, probeLen))
		if !w.RayCast(ship.Pos, to, ship.ID) {
			return candidate
		}
	}

	if planet == nil || planet.FullHeight() < distance(planet.Pos, ship.Pos) {
		return heading - AvoidDeflect
	}
	return game.AngleTo(planet.Pos, ship.Pos)
}
