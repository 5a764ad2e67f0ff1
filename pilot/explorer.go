package pilot

import (
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/lab1702/solpilot/game"
)

// Explorer wanders between landing places on the planets of one system.
type Explorer struct {
	rng        *rand.Rand
	sys        *game.SolarSystem
	aggressive bool
	speed      float64

	planet    *game.Planet
	relDest   game.Vec
	landing   bool
	await     float64
	dest      game.Vec
	destVel   game.Vec
	hasPlanet bool
}

// NewExplorer starts at the allowed planet closest to pos. An aggressive
// explorer fights whenever it can shoot.
func NewExplorer(rng *rand.Rand, sys *game.SolarSystem, pos game.Vec, aggressive bool, hull *game.HullConfig) *Explorer {
	e := &Explorer{
		rng:        rng,
		sys:        sys,
		aggressive: aggressive,
		speed:      cruiseSpeed(hull),
		await:      MaxAwaitOnPlanet,
	}

	best := -1.0
	for _, p := range e.allowed() {
		if d := distance(p.Pos, pos); best < 0 || d < best {
			best = d
			e.planet = p
		}
	}
	if e.planet != nil {
		e.hasPlanet = true
		e.calcRelDest(hull)
		e.place()
	}
	return e
}

// allowed returns the planets the explorer may visit. Easy systems keep their
// outermost planets off limits.
func (e *Explorer) allowed() []*game.Planet {
	if e.sys == nil {
		return nil
	}
	ps := e.sys.Planets
	n := len(ps)
	if !e.sys.Hard && n > LastPlanetsToAvoid {
		n -= LastPlanetsToAvoid
	}
	return ps[:n]
}

func (e *Explorer) calcRelDest(hull *game.HullConfig) {
	if lps := e.planet.LandingPlaces; len(lps) > 0 {
		lp := lps[e.rng.Intn(len(lps))]
		l := game.Len(lp)
		above := .75 * game.AtmHeight
		if hull == nil || hull.Type != game.HullBig {
			above = 0
			if hull != nil {
				above = .75 * hull.Size
			}
		}
		if l > 0 {
			lp = r2.Scale((l+above)/l, lp)
		}
		e.relDest = lp
		e.landing = true
		return
	}
	angle := e.rng.Float64()*360 - 180
	e.relDest = game.FromAngle(angle, e.planet.GroundHeight+.3*game.AtmHeight)
	e.landing = false
}

func (e *Explorer) place() {
	e.dest = game.ToWorld(e.relDest, e.planet.Angle, e.planet.Pos)
	e.destVel = e.planet.SpeedAt(e.dest)
}

func (e *Explorer) Update(w World, shipPos game.Vec, maxIdleDist float64, hull *game.HullConfig, _ *Ship) {
	if !e.hasPlanet {
		return
	}
	if distance(e.dest, shipPos) < maxIdleDist {
		if e.await > 0 {
			e.await -= w.TimeStep()
		} else {
			ps := e.allowed()
			e.planet = ps[e.rng.Intn(len(ps))]
			e.calcRelDest(hull)
			e.await = MaxAwaitOnPlanet
		}
	}
	if !e.landing && len(e.planet.LandingPlaces) > 0 {
		e.calcRelDest(hull)
	}
	e.place()
}

func (e *Explorer) Dest() (game.Vec, bool) { return e.dest, e.hasPlanet }
func (e *Explorer) DestVel() game.Vec      { return e.destVel }
func (e *Explorer) DesiredSpeed() float64  { return e.speed }
func (e *Explorer) StopNearDest() bool     { return true }
func (e *Explorer) AvoidBigObjects() bool  { return true }

func (e *Explorer) ShouldManeuver(canShoot bool, _ *Ship, _ bool) Maneuver {
	if e.aggressive && canShoot {
		return ManeuverFight
	}
	return ManeuverNone
}

// Planet is the planet currently being visited.
func (e *Explorer) Planet() *game.Planet { return e.planet }
