package game

import (
	"math"
	"testing"
)

const eps = 1e-6

func TestNorm(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{180, 180},
		{-180, 180},
		{190, -170},
		{-190, 170},
		{360, 0},
		{540, 180},
		{725, 5},
	}
	for _, tt := range tests {
		if got := Norm(tt.in); math.Abs(got-tt.want) > eps {
			t.Errorf("Norm(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestAngleDiff(t *testing.T) {
	if got := AngleDiff(350, 10); math.Abs(got-20) > eps {
		t.Errorf("AngleDiff(350, 10) = %v, want 20", got)
	}
	if got := AngleDiff(-90, 90); math.Abs(got-180) > eps {
		t.Errorf("AngleDiff(-90, 90) = %v, want 180", got)
	}
}

func TestAngleAndFromAngle(t *testing.T) {
	v := FromAngle(90, 3)
	if math.Abs(v.X) > eps || math.Abs(v.Y-3) > eps {
		t.Errorf("FromAngle(90, 3) = %v, want (0, 3)", v)
	}
	if got := AngleTo(Vec{X: 1, Y: 1}, Vec{X: 1, Y: 5}); math.Abs(got-90) > eps {
		t.Errorf("AngleTo = %v, want 90", got)
	}
}

func TestRotateAndFrames(t *testing.T) {
	r := Rotate(Vec{X: 1, Y: 0}, 90)
	if math.Abs(r.X) > eps || math.Abs(r.Y-1) > eps {
		t.Errorf("Rotate((1,0), 90) = %v, want (0, 1)", r)
	}

	base := Vec{X: 10, Y: -4}
	world := Vec{X: 3, Y: 7}
	back := ToWorld(ToRel(world, 37, base), 37, base)
	if Dist(back, world) > eps {
		t.Errorf("ToWorld(ToRel(p)) = %v, want %v", back, world)
	}
}

func TestProject(t *testing.T) {
	tests := []struct {
		name  string
		v     Vec
		angle float64
		want  float64
	}{
		{"Aligned", Vec{X: 2, Y: 0}, 0, 2},
		{"Perpendicular", Vec{X: 2, Y: 0}, 90, 0},
		{"Opposite", Vec{X: 0, Y: 3}, -90, -3},
		{"Zero", Vec{}, 45, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Project(tt.v, tt.angle); math.Abs(got-tt.want) > eps {
				t.Errorf("Project = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSolveQuadratic(t *testing.T) {
	tests := []struct {
		name    string
		a, b, c float64
		want    float64 // NaN means no root
	}{
		{"InterceptStationary", -25, 0, 100, 2},
		{"TwoPositiveRoots", 1, -5, 6, 2},
		{"OneNegativeRoot", 1, -1, -6, 3},
		{"BothNegative", 1, 5, 6, math.NaN()},
		{"NoRealRoots", 1, 0, 1, math.NaN()},
		{"Linear", 0, -2, 4, 2},
		{"LinearPast", 0, 2, 4, math.NaN()},
		{"Degenerate", 0, 0, 4, math.NaN()},
		{"ZeroRoot", 1, -3, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SolveQuadratic(tt.a, tt.b, tt.c)
			if math.IsNaN(tt.want) {
				if !math.IsNaN(got) {
					t.Errorf("SolveQuadratic = %v, want NaN", got)
				}
				return
			}
			if math.Abs(got-tt.want) > eps {
				t.Errorf("SolveQuadratic = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestApproach(t *testing.T) {
	if got := Approach(1, 5, 2); got != 3 {
		t.Errorf("Approach(1, 5, 2) = %v, want 3", got)
	}
	if got := Approach(4.5, 5, 2); got != 5 {
		t.Errorf("Approach(4.5, 5, 2) = %v, want 5", got)
	}
	if got := Approach(5, 1, 1); got != 4 {
		t.Errorf("Approach(5, 1, 1) = %v, want 4", got)
	}
	if got := ApproachAngle(170, -170, 5); math.Abs(got-175) > eps {
		t.Errorf("ApproachAngle(170, -170, 5) = %v, want 175", got)
	}
	if got := ApproachAngle(10, 12, 5); got != 12 {
		t.Errorf("ApproachAngle(10, 12, 5) = %v, want 12", got)
	}
}

func TestAngularWidthOfSphere(t *testing.T) {
	if got := AngularWidthOfSphere(1, 2); math.Abs(got-30) > eps {
		t.Errorf("AngularWidthOfSphere(1, 2) = %v, want 30", got)
	}
	if got := AngularWidthOfSphere(3, 2); got != 90 {
		t.Errorf("AngularWidthOfSphere inside = %v, want 90", got)
	}
}

func TestArcConversions(t *testing.T) {
	if got := ArcToAngle(AngleToArc(42, 7), 7); math.Abs(got-42) > eps {
		t.Errorf("ArcToAngle(AngleToArc(42)) = %v, want 42", got)
	}
}
