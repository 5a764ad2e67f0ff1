package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math/rand"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lab1702/solpilot/game"
	"github.com/lab1702/solpilot/pilot"
	"github.com/lab1702/solpilot/server"
)

//go:embed default_scenario.yaml
var defaultScenarioYAML []byte

var (
	// ErrUnknownProvider is returned for a pilot kind no provider implements.
	ErrUnknownProvider = errors.New("config: unknown pilot kind")
	// ErrUnknownHull is returned when a ship names a hull the scenario does not define.
	ErrUnknownHull = errors.New("config: unknown hull")
	// ErrUnknownRef is returned for any other dangling name: engines, guns,
	// abilities, systems, planets or escorted ships.
	ErrUnknownRef = errors.New("config: unknown reference")
)

// Pilot kinds
const (
	KindStillGuard = "still_guard"
	KindGuardian   = "guardian"
	KindOrbiter    = "orbiter"
	KindExplorer   = "explorer"
	KindBeacon     = "beacon"
	KindExternal   = "external"
	KindIdle       = "idle"
)

// Point is a position written as [x, y].
type Point [2]float64

// Vec converts the point to a world vector.
func (p Point) Vec() game.Vec {
	return game.Vec{X: p[0], Y: p[1]}
}

// Scenario is a complete initial world: systems, equipment catalogues and ships.
type Scenario struct {
	Name      string                `yaml:"name"`
	Systems   []SystemDef           `yaml:"systems"`
	Hulls     map[string]HullDef    `yaml:"hulls"`
	Engines   map[string]EngineDef  `yaml:"engines"`
	Guns      map[string]GunDef     `yaml:"guns"`
	Abilities map[string]AbilityDef `yaml:"abilities"`
	Rocks     []RockDef             `yaml:"rocks"`
	Ships     []ShipDef             `yaml:"ships"`
}

// SystemDef is a star and its planets.
type SystemDef struct {
	Name    string      `yaml:"name"`
	Pos     Point       `yaml:"pos"`
	Hard    bool        `yaml:"hard"` // Explorers may visit every planet
	Planets []PlanetDef `yaml:"planets"`
}

// PlanetDef is a planet orbiting its system centre. Angles are degrees.
type PlanetDef struct {
	Name          string  `yaml:"name"`
	GroundHeight  float64 `yaml:"ground_height"`
	Gravity       float64 `yaml:"gravity"`
	RotationSpeed float64 `yaml:"rotation_speed"` // Degrees per second
	OrbitRadius   float64 `yaml:"orbit_radius"`
	OrbitAngle    float64 `yaml:"orbit_angle"`
	OrbitSpeed    float64 `yaml:"orbit_speed"` // Degrees per second
	// LandingPlaces are surface points relative to the planet centre.
	LandingPlaces []Point `yaml:"landing_places"`
}

// HullDef describes a ship body.
type HullDef struct {
	Type         string   `yaml:"type"` // std, big or station
	Size         float64  `yaml:"size"`
	ApproxRadius float64  `yaml:"approx_radius"`
	MaxHealth    float64  `yaml:"max_health"`
	Mass         float64  `yaml:"mass"`
	GunMounts    [2]Point `yaml:"gun_mounts"`
}

// EngineDef describes propulsion.
type EngineDef struct {
	Acc              float64 `yaml:"acc"`
	MaxRotationSpeed float64 `yaml:"max_rotation_speed"`
	RotationAcc      float64 `yaml:"rotation_acc"`
}

// ProjectileDef describes what a gun fires.
type ProjectileDef struct {
	Speed              float64 `yaml:"speed"`
	Acc                float64 `yaml:"acc"`
	GuideRotationSpeed float64 `yaml:"guide_rotation_speed"`
	ZeroAbsSpeed       bool    `yaml:"zero_abs_speed"`
	Damage             float64 `yaml:"damage"`
	Lifetime           float64 `yaml:"lifetime"`
}

// GunDef describes a weapon.
type GunDef struct {
	Fixed      bool          `yaml:"fixed"`
	ReloadTime float64       `yaml:"reload_time"`
	Cooldown   float64       `yaml:"cooldown"`
	ClipSize   int           `yaml:"clip_size"`
	Projectile ProjectileDef `yaml:"projectile"`
}

// AbilityDef describes a special ability.
type AbilityDef struct {
	Radius         float64 `yaml:"radius"`
	Recharge       float64 `yaml:"recharge"`
	ConsumesCharge bool    `yaml:"consumes_charge"`
	Force          float64 `yaml:"force"`
}

// RockDef is an inert obstacle.
type RockDef struct {
	Pos    Point   `yaml:"pos"`
	Vel    Point   `yaml:"vel"`
	Radius float64 `yaml:"radius"`
}

// ShipDef is a ship to spawn. Equipment fields name catalogue entries.
type ShipDef struct {
	Name    string   `yaml:"name"`
	Faction string   `yaml:"faction"`
	Hull    string   `yaml:"hull"`
	Engine  string   `yaml:"engine"` // Empty for ships without propulsion
	Guns    []string `yaml:"guns"`   // Primary then secondary
	Ability string   `yaml:"ability"`
	Charges int      `yaml:"charges"`
	Pos     Point    `yaml:"pos"`
	Vel     Point    `yaml:"vel"`
	Angle   float64  `yaml:"angle"`
	Pilot   PilotDef `yaml:"pilot"`
}

// PilotDef selects and parameterizes a pilot. Which fields apply depends on Kind.
type PilotDef struct {
	Kind string `yaml:"kind"`

	// still_guard: point held, defaults to the spawn position
	Guard *Point `yaml:"guard"`
	// guardian: escorted ship name and bearing off it
	Target   string  `yaml:"target"`
	RelAngle float64 `yaml:"rel_angle"`
	// orbiter: planet name, height from its centre, direction
	Planet    string  `yaml:"planet"`
	Height    float64 `yaml:"height"`
	Clockwise bool    `yaml:"clockwise"`
	// explorer: system name, defaults to the nearest system
	System     string `yaml:"system"`
	Aggressive bool   `yaml:"aggressive"`
	// beacon: optional initial waypoint
	Waypoint *Point `yaml:"waypoint"`
	Attack   bool   `yaml:"attack"`

	CollectsItems     bool    `yaml:"collects_items"`
	ShootsAtObstacles bool    `yaml:"shoots_at_obstacles"`
	MapHint           string  `yaml:"map_hint"`
	DetectionDist     float64 `yaml:"detection_dist"`
}

// DefaultScenario returns the built-in scenario.
func DefaultScenario() (*Scenario, error) {
	return ParseScenario(defaultScenarioYAML)
}

// LoadScenario reads a scenario file. An empty path selects the built-in one.
func LoadScenario(path string) (*Scenario, error) {
	if path == "" {
		return DefaultScenario()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes a scenario document.
func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	return &sc, nil
}

func parseHullType(s string) (game.HullType, error) {
	switch s {
	case "", "std":
		return game.HullStd, nil
	case "big":
		return game.HullBig, nil
	case "station":
		return game.HullStation, nil
	}
	return game.HullStd, fmt.Errorf("unknown hull type %q", s)
}

// catalog holds the resolved equipment shared by every ship that names it.
type catalog struct {
	hulls     map[string]*game.HullConfig
	engines   map[string]*game.EngineConfig
	guns      map[string]*game.GunConfig
	abilities map[string]*game.AbilityConfig
}

func (sc *Scenario) buildCatalog() (*catalog, error) {
	c := &catalog{
		hulls:     make(map[string]*game.HullConfig, len(sc.Hulls)),
		engines:   make(map[string]*game.EngineConfig, len(sc.Engines)),
		guns:      make(map[string]*game.GunConfig, len(sc.Guns)),
		abilities: make(map[string]*game.AbilityConfig, len(sc.Abilities)),
	}
	for name, h := range sc.Hulls {
		typ, err := parseHullType(h.Type)
		if err != nil {
			return nil, fmt.Errorf("hull %q: %w", name, err)
		}
		c.hulls[name] = &game.HullConfig{
			Name:         name,
			Type:         typ,
			Size:         h.Size,
			ApproxRadius: h.ApproxRadius,
			MaxHealth:    h.MaxHealth,
			Mass:         h.Mass,
			GunMounts:    [2]game.Vec{h.GunMounts[0].Vec(), h.GunMounts[1].Vec()},
		}
	}
	for name, e := range sc.Engines {
		c.engines[name] = &game.EngineConfig{Acc: e.Acc, MaxRotationSpeed: e.MaxRotationSpeed, RotationAcc: e.RotationAcc}
	}
	for name, g := range sc.Guns {
		c.guns[name] = &game.GunConfig{
			Name:       name,
			Fixed:      g.Fixed,
			ReloadTime: g.ReloadTime,
			Cooldown:   g.Cooldown,
			ClipSize:   g.ClipSize,
			Projectile: game.ProjectileConfig{
				Speed:              g.Projectile.Speed,
				Acc:                g.Projectile.Acc,
				GuideRotationSpeed: g.Projectile.GuideRotationSpeed,
				ZeroAbsSpeed:       g.Projectile.ZeroAbsSpeed,
				Damage:             g.Projectile.Damage,
				Lifetime:           g.Projectile.Lifetime,
			},
		}
	}
	for name, a := range sc.Abilities {
		c.abilities[name] = &game.AbilityConfig{
			Name:           name,
			Radius:         a.Radius,
			Recharge:       a.Recharge,
			ConsumesCharge: a.ConsumesCharge,
			Force:          a.Force,
		}
	}
	return c, nil
}

// spawned remembers a ship for guardians defined after it.
type spawned struct {
	id   game.ShipID
	pos  game.Vec
	hull *game.HullConfig
}

// Apply populates sim with the scenario. Ships spawn in document order, so a
// guardian must come after the ship it escorts. seed makes pilot randomness
// reproducible.
func (sc *Scenario) Apply(sim *server.Sim, seed int64) error {
	cat, err := sc.buildCatalog()
	if err != nil {
		return err
	}

	systems := make(map[string]*game.SolarSystem, len(sc.Systems))
	planets := make(map[string]*game.Planet)
	for _, sd := range sc.Systems {
		sys := &game.SolarSystem{Name: sd.Name, Pos: sd.Pos.Vec(), Hard: sd.Hard}
		for _, pd := range sd.Planets {
			p := &game.Planet{
				Name:          pd.Name,
				GroundHeight:  pd.GroundHeight,
				Gravity:       pd.Gravity,
				RotationSpeed: pd.RotationSpeed,
				OrbitRadius:   pd.OrbitRadius,
				OrbitAngle:    pd.OrbitAngle,
				OrbitSpeed:    pd.OrbitSpeed,
			}
			for _, lp := range pd.LandingPlaces {
				p.LandingPlaces = append(p.LandingPlaces, lp.Vec())
			}
			sys.AddPlanet(p)
			planets[pd.Name] = p
		}
		systems[sd.Name] = sys
		sim.AddSystem(sys)
	}

	for _, rd := range sc.Rocks {
		sim.AddRock(rd.Pos.Vec(), rd.Vel.Vec(), rd.Radius)
	}

	ships := make(map[string]spawned, len(sc.Ships))
	for i, sd := range sc.Ships {
		spec, err := sc.shipSpec(sd, cat)
		if err != nil {
			return fmt.Errorf("ship %q: %w", sd.Name, err)
		}
		rng := rand.New(rand.NewSource(seed + int64(i)))
		spec.Pilot, err = buildPilot(sim, sd, spec, rng, systems, planets, ships)
		if err != nil {
			return fmt.Errorf("ship %q: %w", sd.Name, err)
		}
		id := sim.AddShip(spec)
		if sd.Name != "" {
			ships[sd.Name] = spawned{id: id, pos: spec.Pos, hull: spec.Hull}
		}
	}
	return nil
}

func (sc *Scenario) shipSpec(sd ShipDef, cat *catalog) (server.ShipSpec, error) {
	faction, err := game.ParseFaction(sd.Faction)
	if err != nil {
		return server.ShipSpec{}, err
	}
	hull, ok := cat.hulls[sd.Hull]
	if !ok {
		return server.ShipSpec{}, fmt.Errorf("%w %q", ErrUnknownHull, sd.Hull)
	}
	spec := server.ShipSpec{
		Pos:            sd.Pos.Vec(),
		Vel:            sd.Vel.Vec(),
		Angle:          sd.Angle,
		Faction:        faction,
		Hull:           hull,
		AbilityCharges: sd.Charges,
	}
	if sd.Engine != "" {
		if spec.Engine, ok = cat.engines[sd.Engine]; !ok {
			return server.ShipSpec{}, fmt.Errorf("%w: engine %q", ErrUnknownRef, sd.Engine)
		}
	}
	if len(sd.Guns) > len(spec.Guns) {
		return server.ShipSpec{}, fmt.Errorf("at most %d guns, got %d", len(spec.Guns), len(sd.Guns))
	}
	for slot, name := range sd.Guns {
		if spec.Guns[slot], ok = cat.guns[name]; !ok {
			return server.ShipSpec{}, fmt.Errorf("%w: gun %q", ErrUnknownRef, name)
		}
	}
	if sd.Ability != "" {
		if spec.Ability, ok = cat.abilities[sd.Ability]; !ok {
			return server.ShipSpec{}, fmt.Errorf("%w: ability %q", ErrUnknownRef, sd.Ability)
		}
	}
	return spec, nil
}

func buildPilot(
	sim *server.Sim,
	sd ShipDef,
	spec server.ShipSpec,
	rng *rand.Rand,
	systems map[string]*game.SolarSystem,
	planets map[string]*game.Planet,
	ships map[string]spawned,
) (pilot.Pilot, error) {
	pd := sd.Pilot
	if pd.Kind == KindExternal {
		name := sd.Name
		if name == "" {
			name = "player"
		}
		return pilot.NewExternalPilot(spec.Faction, name), nil
	}

	var dest pilot.DestProvider
	switch pd.Kind {
	case KindStillGuard:
		target := spec.Pos
		if pd.Guard != nil {
			target = pd.Guard.Vec()
		}
		dest = pilot.NewStillGuard(sim, target, spec.Hull)

	case KindGuardian:
		t, ok := ships[pd.Target]
		if !ok {
			return nil, fmt.Errorf("%w: escorted ship %q", ErrUnknownRef, pd.Target)
		}
		dest = pilot.NewGuardian(sim, spec.Hull, t.id, t.pos, t.hull, pd.RelAngle)

	case KindOrbiter:
		p, ok := planets[pd.Planet]
		if !ok {
			return nil, fmt.Errorf("%w: planet %q", ErrUnknownRef, pd.Planet)
		}
		height := pd.Height
		if height <= 0 {
			height = p.GroundHeight + .5*game.AtmHeight
		}
		dest = pilot.NewOrbiter(p, height, pd.Clockwise)

	case KindExplorer:
		var sys *game.SolarSystem
		if pd.System == "" {
			sys = game.NearestSystem(sim.Systems(), spec.Pos)
		} else if sys = systems[pd.System]; sys == nil {
			return nil, fmt.Errorf("%w: system %q", ErrUnknownRef, pd.System)
		}
		dest = pilot.NewExplorer(rng, sys, spec.Pos, pd.Aggressive, spec.Hull)

	case KindBeacon:
		b := pilot.NewBeacon()
		if pd.Waypoint != nil {
			action := pilot.BeaconMove
			if pd.Attack {
				action = pilot.BeaconAttack
			}
			b.SetWaypoint(pd.Waypoint.Vec(), game.Vec{}, action, sim.Time())
		}
		dest = b

	case KindIdle, "":
		dest = pilot.NoDest{}

	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownProvider, pd.Kind)
	}

	cfg := pilot.AiPilotConfig{
		Faction:           spec.Faction,
		CollectsItems:     pd.CollectsItems,
		ShootsAtObstacles: pd.ShootsAtObstacles,
		MapHint:           pd.MapHint,
		DetectionDist:     pd.DetectionDist,
	}
	return pilot.NewAiPilot(dest, cfg, rng), nil
}
