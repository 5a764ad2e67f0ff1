package game

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Vec is a 2D world vector.
type Vec = r2.Vec

const (
	radToDeg = 180 / math.Pi
	degToRad = math.Pi / 180

	quadEpsilon = 1e-9
)

// Norm normalizes an angle in degrees to the range (-180, 180].
// NaN stays NaN so callers can detect a degenerate input.
func Norm(a float64) float64 {
	a = math.Mod(a, 360)
	if a > 180 {
		a -= 360
	} else if a <= -180 {
		a += 360
	}
	return a
}

// AngleDiff returns the unsigned shortest angular distance between two angles.
func AngleDiff(a, b float64) float64 {
	return math.Abs(Norm(a - b))
}

// Angle returns the direction of v in degrees.
func Angle(v Vec) float64 {
	return math.Atan2(v.Y, v.X) * radToDeg
}

// AngleTo returns the direction from one point to another in degrees.
func AngleTo(from, to Vec) float64 {
	return Angle(r2.Sub(to, from))
}

// FromAngle builds a vector of the given length pointing at angle degrees.
func FromAngle(angle, length float64) Vec {
	s, c := math.Sincos(angle * degToRad)
	return Vec{X: c * length, Y: s * length}
}

// Rotate rotates v around the origin by angle degrees (counter-clockwise positive).
func Rotate(v Vec, angle float64) Vec {
	return r2.Rotate(v, angle*degToRad, Vec{})
}

// Project returns the scalar projection of v onto the direction angle.
func Project(v Vec, angle float64) float64 {
	l := Len(v)
	if l == 0 {
		return 0
	}
	return l * math.Cos((angle-Angle(v))*degToRad)
}

// Len is the euclidean length of v.
func Len(v Vec) float64 {
	return r2.Norm(v)
}

// Dist is the euclidean distance between two points.
func Dist(a, b Vec) float64 {
	return r2.Norm(r2.Sub(a, b))
}

// SolveQuadratic returns the smallest non-negative real root of a*t² + b*t + c = 0,
// or NaN if there is none. A vanishing leading coefficient degrades to the linear case.
func SolveQuadratic(a, b, c float64) float64 {
	if math.Abs(a) < quadEpsilon {
		if math.Abs(b) < quadEpsilon {
			return math.NaN()
		}
		t := -c / b
		if t < 0 {
			return math.NaN()
		}
		return t
	}

	disc := b*b - 4*a*c
	if disc < 0 {
		return math.NaN()
	}
	s := math.Sqrt(disc)
	t1 := (-b - s) / (2 * a)
	t2 := (-b + s) / (2 * a)
	if t1 > t2 {
		t1, t2 = t2, t1
	}
	if t1 >= 0 {
		return t1
	}
	if t2 >= 0 {
		return t2
	}
	return math.NaN()
}

// Approach moves val toward dest by at most step.
func Approach(val, dest, step float64) float64 {
	if val < dest {
		return math.Min(val+step, dest)
	}
	return math.Max(val-step, dest)
}

// ApproachAngle turns angle toward dest by at most step degrees along the shorter arc.
func ApproachAngle(angle, dest, step float64) float64 {
	diff := Norm(dest - angle)
	if math.Abs(diff) <= step {
		return dest
	}
	if diff > 0 {
		return Norm(angle + step)
	}
	return Norm(angle - step)
}

// AngularWidthOfSphere returns the half-angle in degrees under which a sphere of
// radius r is seen from distance d. Inside the sphere it is 90.
func AngularWidthOfSphere(r, d float64) float64 {
	if d <= r {
		return 90
	}
	return math.Asin(r/d) * radToDeg
}

// ArcToAngle converts an arc length on a circle of radius r to degrees.
func ArcToAngle(arc, r float64) float64 {
	return 180 * arc / (math.Pi * r)
}

// AngleToArc converts degrees on a circle of radius r to an arc length.
func AngleToArc(angle, r float64) float64 {
	return angle * math.Pi * r / 180
}

// ToWorld maps a position relative to a rotated base frame into world space.
func ToWorld(rel Vec, baseAngle float64, basePos Vec) Vec {
	return r2.Add(Rotate(rel, baseAngle), basePos)
}

// ToRel maps a world position into a base frame positioned at basePos and rotated by baseAngle.
func ToRel(world Vec, baseAngle float64, basePos Vec) Vec {
	return Rotate(r2.Sub(world, basePos), -baseAngle)
}

// Sign converts a flag to +1 or -1.
func Sign(b bool) float64 {
	if b {
		return 1
	}
	return -1
}
