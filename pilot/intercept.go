package pilot

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/lab1702/solpilot/game"
)

// InterceptSolution contains the result of an intercept calculation
type InterceptSolution struct {
	Angle           float64  // Direction to fire in degrees
	TimeToIntercept float64  // Seconds until the projectile reaches the target
	InterceptPoint  game.Vec // Where the intercept will occur, relative to the gun's motion
}

// Intercept solves for the direction a projectile must be fired from gunPos so
// that it meets a target at targetPos.
//
// The target velocity is trusted only partially (EnemySpeedFactor) unless sharp
// is set, since pilots rarely keep a straight line. The problem is solved in a
// frame aligned with the relative target velocity v, where the target
// starts at (x, y) and the intercept time t satisfies
//
//	(v² - projSpeed²)·t² + 2·x·v·t + (x² + y²) = 0
//
// Returns ok=false when no non-negative root exists (target too fast) or the
// geometry is degenerate.
func Intercept(gunPos, gunVel, targetPos, targetVel game.Vec, projSpeed float64, sharp bool) (InterceptSolution, bool) {
	if projSpeed <= 0 || math.IsNaN(projSpeed) {
		return InterceptSolution{}, false
	}

	if !sharp {
		targetVel = r2.Scale(EnemySpeedFactor, targetVel)
	}
	relVel := r2.Sub(targetVel, gunVel)
	frame := game.Angle(relVel)
	v := game.Len(relVel)

	toTarget := game.Rotate(r2.Sub(targetPos, gunPos), -frame)
	x, y := toTarget.X, toTarget.Y

	t := game.SolveQuadratic(v*v-projSpeed*projSpeed, 2*x*v, x*x+y*y)
	if math.IsNaN(t) {
		return InterceptSolution{}, false
	}

	meet := game.Vec{X: x + t*v, Y: y}
	angle := game.Norm(game.Angle(meet) + frame)
	if math.IsNaN(angle) {
		return InterceptSolution{}, false
	}
	return InterceptSolution{
		Angle:           angle,
		TimeToIntercept: t,
		InterceptPoint:  r2.Add(gunPos, game.Rotate(meet, frame)),
	}, true
}

// ShootAngle returns the lead angle in degrees, or NaN when no shot is possible.
func ShootAngle(gunPos, gunVel, targetPos, targetVel game.Vec, projSpeed float64, sharp bool) float64 {
	sol, ok := Intercept(gunPos, gunVel, targetPos, targetVel, projSpeed, sharp)
	if !ok {
		return math.NaN()
	}
	return sol.Angle
}
