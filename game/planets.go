package game

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Planet is a rotating body orbiting its system centre. Angles are degrees,
// speeds are degrees per second.
type Planet struct {
	Name          string  `json:"name"`
	Pos           Vec     `json:"pos"`
	Vel           Vec     `json:"vel"`
	Angle         float64 `json:"angle"`
	GroundHeight  float64 `json:"groundHeight"`
	Gravity       float64 `json:"-"`
	RotationSpeed float64 `json:"-"`
	OrbitRadius   float64 `json:"-"`
	OrbitAngle    float64 `json:"-"`
	OrbitSpeed    float64 `json:"-"`
	// LandingPlaces are surface points in the planet's rotating frame.
	LandingPlaces []Vec `json:"-"`

	System *SolarSystem `json:"-"`
}

// FullHeight is the radius of the planet including its atmosphere.
func (p *Planet) FullHeight() float64 {
	return p.GroundHeight + AtmHeight
}

// IsNearGround reports whether pos is in the lowest quarter of the atmosphere (or below).
func (p *Planet) IsNearGround(pos Vec) bool {
	return Dist(p.Pos, pos)-p.GroundHeight < .25*AtmHeight
}

// GravConst is the gravitational parameter used for circular orbit speeds.
func (p *Planet) GravConst() float64 {
	return p.Gravity * p.GroundHeight * p.GroundHeight
}

// SpeedAt returns the velocity of a point co-rotating with the planet surface at pos.
func (p *Planet) SpeedAt(pos Vec) Vec {
	toPos := r2.Sub(pos, p.Pos)
	r := Len(toPos)
	if r == 0 {
		return p.Vel
	}
	tangent := FromAngle(Angle(toPos)+90, AngleToArc(p.RotationSpeed, r))
	return r2.Add(p.Vel, tangent)
}

// Update advances the planet's orbit and rotation by dt seconds.
func (p *Planet) Update(dt float64) {
	p.Angle = Norm(p.Angle + p.RotationSpeed*dt)
	if p.OrbitRadius == 0 || dt <= 0 {
		return
	}
	center := Vec{}
	if p.System != nil {
		center = p.System.Pos
	}
	p.OrbitAngle = Norm(p.OrbitAngle + p.OrbitSpeed*dt)
	next := r2.Add(center, FromAngle(p.OrbitAngle, p.OrbitRadius))
	p.Vel = r2.Scale(1/dt, r2.Sub(next, p.Pos))
	p.Pos = next
}

// Star is the hot centre of a system.
type Star struct {
	Pos    Vec     `json:"pos"`
	Radius float64 `json:"radius"`
}

// SolarSystem groups a star with its planets. Hard systems allow explorers to
// visit every planet.
type SolarSystem struct {
	Name    string    `json:"name"`
	Pos     Vec       `json:"pos"`
	Hard    bool      `json:"hard"`
	Planets []*Planet `json:"planets"`
}

// Star returns the system's central star.
func (s *SolarSystem) Star() Star {
	return Star{Pos: s.Pos, Radius: SunHotRadius}
}

// AddPlanet attaches p to the system and places it on its orbit.
func (s *SolarSystem) AddPlanet(p *Planet) {
	p.System = s
	if p.OrbitRadius > 0 {
		p.Pos = r2.Add(s.Pos, FromAngle(p.OrbitAngle, p.OrbitRadius))
	}
	s.Planets = append(s.Planets, p)
}

// NearestPlanet returns the planet in systems whose centre is closest to pos.
func NearestPlanet(systems []*SolarSystem, pos Vec) *Planet {
	var best *Planet
	bestDist := math.Inf(1)
	for _, s := range systems {
		for _, p := range s.Planets {
			if d := Dist(p.Pos, pos); d < bestDist {
				bestDist = d
				best = p
			}
		}
	}
	return best
}

// NearestSystem returns the system whose centre is closest to pos.
func NearestSystem(systems []*SolarSystem, pos Vec) *SolarSystem {
	var best *SolarSystem
	bestDist := math.Inf(1)
	for _, s := range systems {
		if d := Dist(s.Pos, pos); d < bestDist {
			bestDist = d
			best = s
		}
	}
	return best
}
