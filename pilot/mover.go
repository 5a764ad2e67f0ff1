package pilot

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/lab1702/solpilot/game"
)

// NeedsToTurn decides which way to rotate from angle toward dest. It returns
// TurnNone when already within allowedDiff or when the ship cannot rotate.
// The decision anticipates the angle reached after braking the current
// rotation, so a ship spinning past its target counter-steers early.
func NeedsToTurn(angle, dest, rotationSpeed, rotationAcc, allowedDiff float64) Turn {
	if math.IsNaN(dest) || game.AngleDiff(dest, angle) < allowedDiff || rotationAcc == 0 {
		return TurnNone
	}

	brakeWay := rotationSpeed * rotationSpeed / rotationAcc / 2
	afterBrake := angle + brakeWay*game.Sign(rotationSpeed > 0)
	rel := game.Norm(angle - dest)
	relAfterBrake := game.Norm(afterBrake - dest)

	var right bool
	if (rel > 0) == (relAfterBrake > 0) {
		right = rel < 0
	} else {
		right = rel > 0
	}
	if right {
		return TurnRight
	}
	return TurnLeft
}

// MoveOrder is everything the mover needs to know about where to go this tick.
type MoveOrder struct {
	Dest            game.Vec
	HasDest         bool
	DestVel         game.Vec
	DesiredSpeed    float64
	StopNearDest    bool
	AvoidBigObjects bool
	MaxIdleDist     float64
}

// Mover steers a ship toward a destination with predictive braking.
type Mover struct {
	big   BigObjAvoider
	small SmallObjAvoider

	out        ControlOutput
	desiredVel game.Vec
}

// Update computes thrust and turn flags for this tick.
func (m *Mover) Update(w World, ship *Ship, planet *game.Planet, order MoveOrder) {
	m.out = ControlOutput{}
	if ship.Engine == nil || !order.HasDest {
		return
	}

	toDestLen := distance(ship.Pos, order.Dest)
	if toDestLen < order.MaxIdleDist {
		if !order.StopNearDest {
			return
		}
		m.desiredVel = order.DestVel
	} else {
		m.desiredVel = m.cruiseVelocity(w, ship, planet, order, toDestLen)
	}

	deviation := distance(ship.Vel, m.desiredVel)
	if deviation < MaxAbsSpeedDeviation || deviation < MaxRelSpeedDeviation*game.Len(ship.Vel) {
		return
	}

	desiredAngle := game.Angle(r2.Sub(m.desiredVel, ship.Vel))
	m.out.Thrust = game.AngleDiff(desiredAngle, ship.Angle) < MinAngleToAccelerate
	applyTurn(&m.out, NeedsToTurn(ship.Angle, desiredAngle, ship.RotationSpeed, ship.RotationAcc(), MinMoveAngleDiff))
}

// cruiseVelocity is the velocity to hold while still away from the destination.
func (m *Mover) cruiseVelocity(w World, ship *Ship, planet *game.Planet, order MoveOrder, toDestLen float64) game.Vec {
	heading := m.destHeading(w, ship, planet, order)
	if order.StopNearDest {
		tangentSpeed := game.Project(ship.Vel, heading)
		turnWay := tangentSpeed * ship.TimeToTurn(heading+180)
		brakeWay := 0.0
		if acc := ship.Acc(); acc > 0 {
			brakeWay = tangentSpeed * tangentSpeed / acc / 2
		}
		if toDestLen < .5*tangentSpeed+turnWay+brakeWay {
			return order.DestVel
		}
	}
	return game.FromAngle(heading, order.DesiredSpeed)
}

// destHeading is the direction to the destination after obstacle avoidance.
func (m *Mover) destHeading(w World, ship *Ship, planet *game.Planet, order MoveOrder) float64 {
	heading := game.AngleTo(ship.Pos, order.Dest)
	if order.AvoidBigObjects {
		heading = m.big.Avoid(w, ship.Pos, order.Dest, heading)
	}
	return m.small.Avoid(w, ship, heading, planet)
}

// RotateOnIdle orients an idle ship: toward the planet normal when parked on
// the ground, along its velocity when drifting in open space. Near an
// atmosphere boundary it leaves the heading alone.
func (m *Mover) RotateOnIdle(ship *Ship, planet *game.Planet, order MoveOrder) {
	if m.Active() || !order.HasDest || planet == nil {
		return
	}

	var desired, allowed float64
	nearFinalDest := order.StopNearDest && distance(ship.Pos, order.Dest) < order.MaxIdleDist
	toPlanet := distance(planet.Pos, ship.Pos)
	if nearFinalDest {
		if planet.FullHeight() < toPlanet {
			return
		}
		desired = game.AngleTo(planet.Pos, ship.Pos)
		allowed = MinPlanetMoveAngleDiff
	} else {
		if toPlanet < planet.FullHeight()+game.AtmHeight {
			return
		}
		desired = game.Angle(ship.Vel)
		allowed = MinMoveAngleDiff
	}
	applyTurn(&m.out, NeedsToTurn(ship.Angle, desired, ship.RotationSpeed, ship.RotationAcc(), allowed))
}

// Active reports whether the mover issued any thrust or turn this tick.
func (m *Mover) Active() bool {
	return m.out.Thrust || m.out.Turning()
}

// Output returns the mover's flags for this tick.
func (m *Mover) Output() ControlOutput {
	return m.out
}

// BigObjAvoider exposes the large-body avoider for the far path.
func (m *Mover) BigObjAvoider() BigObjAvoider {
	return m.big
}
