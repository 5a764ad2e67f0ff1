package pilot

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/lab1702/solpilot/game"
)

// DestProvider chooses where a ship wants to be. Update is called once per tick
// before any accessor.
type DestProvider interface {
	Update(w World, shipPos game.Vec, maxIdleDist float64, hull *game.HullConfig, enemy *Ship)
	// Dest returns the target point, ok=false when the ship has nowhere to go.
	Dest() (pos game.Vec, ok bool)
	DestVel() game.Vec
	DesiredSpeed() float64
	StopNearDest() bool
	AvoidBigObjects() bool
	ShouldManeuver(canShoot bool, enemy *Ship, nearGround bool) Maneuver
}

func cruiseSpeed(hull *game.HullConfig) float64 {
	if hull != nil && hull.Type == game.HullBig {
		return game.BigAISpeed
	}
	return game.DefaultAISpeed
}

// BeaconAction is the order attached to a beacon waypoint.
type BeaconAction int

const (
	BeaconMove BeaconAction = iota
	BeaconAttack
)

// Beacon follows an externally placed waypoint.
type Beacon struct {
	pos    game.Vec
	vel    game.Vec
	set    bool
	action BeaconAction
	setAt  float64

	stop     bool
	maneuver Maneuver
}

// NewBeacon returns a beacon with no waypoint.
func NewBeacon() *Beacon {
	return &Beacon{}
}

// SetWaypoint places the waypoint. now is the simulated time of the order.
func (b *Beacon) SetWaypoint(pos, vel game.Vec, action BeaconAction, now float64) {
	b.pos, b.vel, b.action, b.setAt, b.set = pos, vel, action, now, true
}

// Clear removes the waypoint.
func (b *Beacon) Clear() {
	b.set = false
}

func (b *Beacon) Update(w World, shipPos game.Vec, _ float64, _ *game.HullConfig, enemy *Ship) {
	b.maneuver = ManeuverNone
	b.stop = false
	if !b.set {
		return
	}
	// Only engage a hostile that sits around the waypoint, not one far off to the side.
	if enemy != nil && b.action == BeaconAttack &&
		distance(b.pos, enemy.Pos) < distance(shipPos, b.pos)+enemy.ApproxRadius() {
		b.maneuver = ManeuverFight
	}
	b.stop = BeaconStopAwait < w.Time()-b.setAt
}

func (b *Beacon) Dest() (game.Vec, bool) { return b.pos, b.set }
func (b *Beacon) DestVel() game.Vec      { return b.vel }
func (b *Beacon) DesiredSpeed() float64  { return game.MaxMoveSpeed }
func (b *Beacon) StopNearDest() bool     { return b.stop }
func (b *Beacon) AvoidBigObjects() bool  { return true }

func (b *Beacon) ShouldManeuver(canShoot bool, _ *Ship, _ bool) Maneuver {
	if !canShoot {
		return ManeuverNone
	}
	return b.maneuver
}

// StillGuard holds a fixed point, riding the planet surface when placed near ground.
type StillGuard struct {
	dest    game.Vec
	destVel game.Vec
	speed   float64
	bind    *PlanetBind
}

// NewStillGuard guards target with a ship of the given hull.
func NewStillGuard(w World, target game.Vec, hull *game.HullConfig) *StillGuard {
	return &StillGuard{
		dest:  target,
		speed: cruiseSpeed(hull),
		bind:  TryBind(w, target, 0),
	}
}

func (g *StillGuard) Update(World, game.Vec, float64, *game.HullConfig, *Ship) {
	if g.bind == nil {
		return
	}
	g.dest = r2.Add(g.dest, g.bind.Diff(g.dest))
	g.destVel = g.bind.Planet().SpeedAt(g.dest)
}

func (g *StillGuard) Dest() (game.Vec, bool) { return g.dest, true }
func (g *StillGuard) DestVel() game.Vec      { return g.destVel }
func (g *StillGuard) DesiredSpeed() float64  { return g.speed }
func (g *StillGuard) StopNearDest() bool     { return true }
func (g *StillGuard) AvoidBigObjects() bool  { return true }

// Bound reports whether the guarded point rides a planet surface.
func (g *StillGuard) Bound() bool { return g.bind != nil }

func (g *StillGuard) ShouldManeuver(bool, *Ship, bool) Maneuver {
	return ManeuverFight
}

// Guardian escorts another ship, keeping a fixed bearing just outside its hull.
// It holds only the escorted ship's identity and looks it up every tick.
type Guardian struct {
	target   game.ShipID
	relAngle float64

	dest    game.Vec
	tracked Tracked
	found   bool
}

// NewGuardian escorts target from relAngle degrees off its position.
func NewGuardian(w World, hull *game.HullConfig, target game.ShipID, targetPos game.Vec, targetHull *game.HullConfig, relAngle float64) *Guardian {
	g := &Guardian{target: target, relAngle: relAngle}
	targetRadius := 0.0
	if targetHull != nil {
		targetRadius = targetHull.ApproxRadius
	}
	g.setDest(w, targetPos, targetRadius, hull)
	return g
}

func (g *Guardian) Update(w World, shipPos game.Vec, _ float64, hull *game.HullConfig, _ *Ship) {
	g.tracked, g.found = w.FindShip(g.target)
	g.dest = shipPos
	if !g.found {
		return
	}
	g.setDest(w, g.tracked.Pos, g.tracked.ApproxRadius, hull)
}

func (g *Guardian) setDest(w World, targetPos game.Vec, targetRadius float64, hull *game.HullConfig) {
	angle := g.relAngle
	if p := w.NearestPlanet(targetPos); p != nil && p.IsNearGround(targetPos) {
		angle = game.AngleTo(p.Pos, targetPos)
	}
	ownRadius := 0.0
	if hull != nil {
		ownRadius = hull.ApproxRadius
	}
	g.dest = r2.Add(targetPos, game.FromAngle(angle, targetRadius+GuardianDist+ownRadius))
}

func (g *Guardian) Dest() (game.Vec, bool) { return g.dest, true }
func (g *Guardian) DesiredSpeed() float64  { return game.MaxMoveSpeed }
func (g *Guardian) StopNearDest() bool     { return true }
func (g *Guardian) AvoidBigObjects() bool  { return false }

// DestVel matches the escorted ship's velocity. Far ships report none.
func (g *Guardian) DestVel() game.Vec {
	if !g.found || g.tracked.Far {
		return game.Vec{}
	}
	return g.tracked.Vel
}

// ShouldManeuver fights only hostiles near the escorted ship.
func (g *Guardian) ShouldManeuver(canShoot bool, enemy *Ship, nearGround bool) Maneuver {
	if !canShoot {
		return ManeuverNone
	}
	view := game.CamViewDistSpace
	if nearGround {
		view = game.CamViewDistGround
	}
	if g.found && enemy != nil && 2*view < distance(g.tracked.Pos, enemy.Pos) {
		return ManeuverNone
	}
	return ManeuverFight
}

// Target is the identity of the escorted ship.
func (g *Guardian) Target() game.ShipID { return g.target }

// RelAngle is the escort bearing in degrees.
func (g *Guardian) RelAngle() float64 { return g.relAngle }

// Orbiter circles a planet at a fixed height with circular orbit speed.
type Orbiter struct {
	planet *game.Planet
	height float64
	cw     bool
	speed  float64

	dest    game.Vec
	destVel game.Vec
}

// NewOrbiter orbits planet at height from its centre. cw orbits toward decreasing angles.
func NewOrbiter(planet *game.Planet, height float64, cw bool) *Orbiter {
	return &Orbiter{
		planet: planet,
		height: height,
		cw:     cw,
		speed:  math.Sqrt(planet.GravConst() / height),
	}
}

func (o *Orbiter) Update(_ World, shipPos game.Vec, _ float64, _ *game.HullConfig, _ *Ship) {
	dir := game.Sign(!o.cw)
	angle := game.AngleTo(o.planet.Pos, shipPos) + OrbitAngleStep*dir
	o.dest = r2.Add(o.planet.Pos, game.FromAngle(angle, o.height))
	o.destVel = r2.Add(o.planet.Vel, game.FromAngle(angle+90*dir, o.speed))
}

func (o *Orbiter) Dest() (game.Vec, bool) { return o.dest, true }
func (o *Orbiter) DestVel() game.Vec      { return o.destVel }
func (o *Orbiter) DesiredSpeed() float64  { return o.speed }
func (o *Orbiter) StopNearDest() bool     { return false }
func (o *Orbiter) AvoidBigObjects() bool  { return false }

func (o *Orbiter) ShouldManeuver(canShoot bool, _ *Ship, _ bool) Maneuver {
	if canShoot {
		return ManeuverFight
	}
	return ManeuverNone
}

// NoDest never goes anywhere and ignores hostiles.
type NoDest struct{}

func (NoDest) Update(World, game.Vec, float64, *game.HullConfig, *Ship) {}
func (NoDest) Dest() (game.Vec, bool)                                   { return game.Vec{}, false }
func (NoDest) DestVel() game.Vec                                        { return game.Vec{} }
func (NoDest) DesiredSpeed() float64                                    { return 0 }
func (NoDest) StopNearDest() bool                                       { return false }
func (NoDest) AvoidBigObjects() bool                                    { return false }
func (NoDest) ShouldManeuver(bool, *Ship, bool) Maneuver                { return ManeuverNone }
