package server

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/mlange-42/ark/ecs"
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/lab1702/solpilot/game"
	"github.com/lab1702/solpilot/pilot"
)

// Simulation tuning
const (
	DefaultFocusRadius = 2 * game.CamViewDistJourney // Ships beyond this from the focus run the far path
	DefaultWorldHalf   = 600.0                       // Half extent of the indexed area when none is configured
	DefaultRoundLife   = 3.0                         // Seconds a round lives when its config leaves it unset
)

// SimConfig holds the fixed parameters of a simulation.
type SimConfig struct {
	TimeStep    float64
	FocusRadius float64 // 0 simulates every ship in full detail
	Focus       game.Vec
	// Bounds is the area covered by the obstacle index. Zero means a square of
	// DefaultWorldHalf around the origin.
	Bounds [2]game.Vec
}

// ShipSpec describes a ship to spawn.
type ShipSpec struct {
	Pos            game.Vec
	Vel            game.Vec
	Angle          float64
	Faction        game.Faction
	Hull           *game.HullConfig
	Engine         *game.EngineConfig
	Guns           [2]*game.GunConfig
	Ability        *game.AbilityConfig
	AbilityCharges int
	Pilot          pilot.Pilot
}

// Sim is the sandbox that hosts pilots. Ships, rounds and rocks live in an ECS
// world. Sim is not safe for concurrent use; the Server serializes access.
type Sim struct {
	world       *ecs.World
	ships       *ecs.Map4[Body, Hull, Armament, Control]
	shipFilter  *ecs.Filter4[Body, Hull, Armament, Control]
	bodies      *ecs.Map1[Body]
	hulls       *ecs.Map1[Hull]
	controls    *ecs.Map1[Control]
	projectiles *ecs.Map1[Projectile]
	projFilter  *ecs.Filter1[Projectile]
	rocks       *ecs.Map1[Rock]
	rockFilter  *ecs.Filter1[Rock]

	handles map[game.ShipID]ecs.Entity
	systems []*game.SolarSystem
	grid    *SpatialGrid

	cfg    SimConfig
	time   float64
	tick   int64
	nextID game.ShipID
	focus  game.Vec

	metrics   *simMetrics
	telemetry *Telemetry
	log       zerolog.Logger

	pending []Projectile
	records []ControlRecord
}

// shipRef points into the component storage of one ship for a single step.
type shipRef struct {
	entity ecs.Entity
	body   *Body
	hull   *Hull
	arm    *Armament
	ctl    *Control
}

func (r shipRef) snapshot() *pilot.Ship {
	return &pilot.Ship{
		ID:            r.ctl.ID,
		Faction:       r.ctl.Faction,
		Pos:           r.body.Pos,
		Vel:           r.body.Vel,
		Angle:         r.body.Angle,
		RotationSpeed: r.body.RotationSpeed,
		Hull:          r.hull.Config,
		Engine:        r.hull.Engine,
		Health:        r.hull.Health,
		Guns:          r.arm.Guns,
		Ability:       r.arm.Ability,
	}
}

// NewSim creates an empty simulation.
func NewSim(cfg SimConfig, logger zerolog.Logger) (*Sim, error) {
	if cfg.TimeStep <= 0 {
		cfg.TimeStep = game.TimeStep
	}
	if cfg.Bounds[0] == cfg.Bounds[1] {
		cfg.Bounds = [2]game.Vec{{X: -DefaultWorldHalf, Y: -DefaultWorldHalf}, {X: DefaultWorldHalf, Y: DefaultWorldHalf}}
	}

	metrics, err := newSimMetrics()
	if err != nil {
		return nil, fmt.Errorf("creating sim metrics: %w", err)
	}

	world := ecs.NewWorld()
	return &Sim{
		world:       world,
		ships:       ecs.NewMap4[Body, Hull, Armament, Control](world),
		shipFilter:  ecs.NewFilter4[Body, Hull, Armament, Control](world),
		bodies:      ecs.NewMap1[Body](world),
		hulls:       ecs.NewMap1[Hull](world),
		controls:    ecs.NewMap1[Control](world),
		projectiles: ecs.NewMap1[Projectile](world),
		projFilter:  ecs.NewFilter1[Projectile](world),
		rocks:       ecs.NewMap1[Rock](world),
		rockFilter:  ecs.NewFilter1[Rock](world),
		handles:     make(map[game.ShipID]ecs.Entity),
		grid:        NewSpatialGrid(cfg.Bounds[0], cfg.Bounds[1], GridCellSize),
		cfg:         cfg,
		focus:       cfg.Focus,
		metrics:     metrics,
		log:         logger.With().Str("component", "sim").Logger(),
	}, nil
}

// SetTelemetry installs the decision recorder. nil disables recording.
func (s *Sim) SetTelemetry(t *Telemetry) {
	s.telemetry = t
}

// AddSystem adds a solar system to the world.
func (s *Sim) AddSystem(sys *game.SolarSystem) {
	s.systems = append(s.systems, sys)
}

// Systems returns the solar systems of the world.
func (s *Sim) Systems() []*game.SolarSystem {
	return s.systems
}

// AddShip spawns a ship and returns its identity.
func (s *Sim) AddShip(spec ShipSpec) game.ShipID {
	s.nextID++
	id := s.nextID

	body := Body{Pos: spec.Pos, Vel: spec.Vel, Angle: game.Norm(spec.Angle)}
	hull := Hull{Config: spec.Hull, Engine: spec.Engine}
	if spec.Hull != nil {
		hull.Health = spec.Hull.MaxHealth
	}
	var arm Armament
	for slot, gc := range spec.Guns {
		if gc != nil {
			arm.Guns[slot] = &pilot.Gun{Config: gc, Ammo: gc.ClipSize}
		}
	}
	if spec.Ability != nil {
		arm.Ability = &pilot.Ability{Config: spec.Ability, Charges: spec.AbilityCharges}
	}
	ctl := Control{ID: id, Faction: spec.Faction, Pilot: spec.Pilot}

	s.handles[id] = s.ships.NewEntity(&body, &hull, &arm, &ctl)
	s.log.Debug().Uint32("ship", uint32(id)).Stringer("faction", spec.Faction).Str("pilot", spec.Pilot.String()).Msg("ship spawned")
	return id
}

// AddRock places an inert obstacle.
func (s *Sim) AddRock(pos, vel game.Vec, radius float64) {
	rock := Rock{Pos: pos, Vel: vel, Radius: radius}
	s.rocks.NewEntity(&rock)
}

// Pilot returns the pilot of a live ship.
func (s *Sim) Pilot(id game.ShipID) (pilot.Pilot, bool) {
	e, ok := s.entity(id)
	if !ok {
		return nil, false
	}
	return s.controls.Get(e).Pilot, true
}

// Tick is the number of completed steps.
func (s *Sim) Tick() int64 {
	return s.tick
}

// ShipCount is the number of live ships.
func (s *Sim) ShipCount() int {
	return len(s.handles)
}

func (s *Sim) entity(id game.ShipID) (ecs.Entity, bool) {
	e, ok := s.handles[id]
	if !ok || !s.world.Alive(e) {
		return ecs.Entity{}, false
	}
	return e, true
}

// Step advances the simulation by one time step.
func (s *Sim) Step(ctx context.Context) {
	start := time.Now()
	ts := s.cfg.TimeStep
	s.time += ts
	s.tick++

	for _, sys := range s.systems {
		for _, p := range sys.Planets {
			p.Update(ts)
		}
	}

	refs := s.collectShips()
	s.indexObstacles(refs)
	s.focus = s.focusPoint(refs)

	snaps := make([]*pilot.Ship, len(refs))
	for i, r := range refs {
		snaps[i] = r.snapshot()
	}

	// Decide
	enemies := make([]*pilot.Ship, len(refs))
	near, far := 0, 0
	s.records = s.records[:0]
	for i, r := range refs {
		r.ctl.Far = s.isFar(r)
		if r.ctl.Far {
			r.ctl.Out = pilot.ControlOutput{}
			s.tickFar(ctx, r)
			far++
		} else {
			enemies[i] = s.nearestHostile(i, refs, snaps)
			s.detectTargets(r, enemies[i])
			r.ctl.Out = s.tickNear(ctx, r, snaps[i], enemies[i])
			near++
		}
		s.record(r)
	}

	// Act
	for i, r := range refs {
		if !r.ctl.Far {
			integrateShip(r.body, r.hull, r.ctl.Out, s.NearestPlanet(r.body.Pos), ts)
			s.fireGuns(r, enemies[i])
			s.useAbility(r, refs)
		}
		rechargeSystems(r.arm, ts)
	}

	s.moveRocks(ts)
	s.updateProjectiles(refs, ts)
	dead := s.deadShips(refs)
	s.flushProjectiles()
	s.removeShips(dead)

	if err := s.telemetry.Write(s.records); err != nil {
		s.log.Error().Err(err).Msg("telemetry write failed")
	}
	s.metrics.recordStep(ctx, near, far, time.Since(start))
}

func (s *Sim) collectShips() []shipRef {
	refs := make([]shipRef, 0, len(s.handles))
	query := s.shipFilter.Query()
	for query.Next() {
		body, hull, arm, ctl := query.Get()
		refs = append(refs, shipRef{entity: query.Entity(), body: body, hull: hull, arm: arm, ctl: ctl})
	}
	return refs
}

func (s *Sim) indexObstacles(refs []shipRef) {
	s.grid.Clear()
	for _, r := range refs {
		radius := 0.0
		if r.hull.Config != nil {
			radius = r.hull.Config.ApproxRadius
		}
		s.grid.Insert(r.ctl.ID, r.body.Pos, radius)
	}
	query := s.rockFilter.Query()
	for query.Next() {
		rock := query.Get()
		s.grid.Insert(game.NoShip, rock.Pos, rock.Radius)
	}
}

// focusPoint follows the first player ship, or keeps the previous focus.
func (s *Sim) focusPoint(refs []shipRef) game.Vec {
	var best *shipRef
	for i := range refs {
		r := &refs[i]
		if r.ctl.Pilot == nil || !r.ctl.Pilot.IsPlayer() {
			continue
		}
		if best == nil || r.ctl.ID < best.ctl.ID {
			best = r
		}
	}
	if best == nil {
		return s.focus
	}
	return best.body.Pos
}

func (s *Sim) isFar(r shipRef) bool {
	if s.cfg.FocusRadius <= 0 || r.ctl.Pilot == nil || r.ctl.Pilot.IsPlayer() {
		return false
	}
	return game.Dist(r.body.Pos, s.focus) > s.cfg.FocusRadius
}

// nearestHostile picks the closest ship of a hostile faction within the
// pilot's detection distance.
func (s *Sim) nearestHostile(i int, refs []shipRef, snaps []*pilot.Ship) *pilot.Ship {
	self := refs[i]
	if self.ctl.Pilot == nil {
		return nil
	}
	maxDist := self.ctl.Pilot.DetectionDist()
	var best *pilot.Ship
	bestDist := math.Inf(1)
	for j, o := range refs {
		if j == i || !self.ctl.Faction.Hostile(o.ctl.Faction) {
			continue
		}
		d := game.Dist(self.body.Pos, o.body.Pos)
		if d < maxDist && d < bestDist {
			best, bestDist = snaps[j], d
		}
	}
	return best
}

func (s *Sim) tickNear(ctx context.Context, r shipRef, ship, enemy *pilot.Ship) (out pilot.ControlOutput) {
	if r.ctl.Pilot == nil {
		return pilot.ControlOutput{}
	}
	defer func() {
		if rec := recover(); rec != nil {
			s.pilotPanicked(ctx, r, rec)
			out = pilot.ControlOutput{}
		}
	}()
	return r.ctl.Pilot.Tick(s, ship, enemy)
}

func (s *Sim) tickFar(ctx context.Context, r shipRef) {
	if r.ctl.Pilot == nil {
		return
	}
	defer func() {
		if rec := recover(); rec != nil {
			s.pilotPanicked(ctx, r, rec)
		}
	}()
	r.ctl.Pilot.TickFar(s, farBody{body: r.body, hull: r.hull})
}

func (s *Sim) pilotPanicked(ctx context.Context, r shipRef, rec interface{}) {
	kind := fmt.Sprintf("%T", r.ctl.Pilot)
	s.log.Error().
		Uint32("ship", uint32(r.ctl.ID)).
		Int64("tick", s.tick).
		Str("pilot", kind).
		Interface("panic", rec).
		Msg("pilot tick panicked")
	s.metrics.recordPanic(ctx, kind)
}

func (s *Sim) record(r shipRef) {
	if s.telemetry == nil {
		return
	}
	name := ""
	if r.ctl.Pilot != nil {
		name = r.ctl.Pilot.String()
	}
	out := r.ctl.Out
	s.records = append(s.records, ControlRecord{
		Tick:          s.tick,
		Time:          s.time,
		Ship:          uint32(r.ctl.ID),
		Pilot:         name,
		Far:           r.ctl.Far,
		PosX:          r.body.Pos.X,
		PosY:          r.body.Pos.Y,
		Angle:         r.body.Angle,
		Thrust:        out.Thrust,
		TurnLeft:      out.TurnLeft,
		TurnRight:     out.TurnRight,
		FirePrimary:   out.FirePrimary,
		FireSecondary: out.FireSecondary,
		UseAbility:    out.UseAbility,
	})
}

func (s *Sim) moveRocks(ts float64) {
	query := s.rockFilter.Query()
	for query.Next() {
		rock := query.Get()
		rock.Pos = r2.Add(rock.Pos, r2.Scale(ts, rock.Vel))
	}
}

func (s *Sim) deadShips(refs []shipRef) []shipRef {
	var dead []shipRef
	for _, r := range refs {
		if r.hull.Config != nil && r.hull.Config.MaxHealth > 0 && r.hull.Health <= 0 {
			dead = append(dead, r)
		}
	}
	return dead
}

func (s *Sim) removeShips(dead []shipRef) {
	for _, r := range dead {
		id := r.ctl.ID
		delete(s.handles, id)
		s.world.RemoveEntity(r.entity)
		s.log.Info().Uint32("ship", uint32(id)).Int64("tick", s.tick).Msg("ship destroyed")
	}
}

// World view for pilots

func (s *Sim) TimeStep() float64 { return s.cfg.TimeStep }
func (s *Sim) Time() float64     { return s.time }

func (s *Sim) NearestPlanet(pos game.Vec) *game.Planet {
	return game.NearestPlanet(s.systems, pos)
}

// NearestStar returns the star of the closest system, or an empty star that
// blocks nothing when the world has no systems.
func (s *Sim) NearestStar(pos game.Vec) game.Star {
	sys := game.NearestSystem(s.systems, pos)
	if sys == nil {
		return game.Star{}
	}
	return sys.Star()
}

func (s *Sim) RayCast(from, to game.Vec, ignore game.ShipID) bool {
	return s.grid.RayCast(from, to, ignore)
}

func (s *Sim) FindShip(id game.ShipID) (pilot.Tracked, bool) {
	e, ok := s.entity(id)
	if !ok {
		return pilot.Tracked{}, false
	}
	body := s.bodies.Get(e)
	hull := s.hulls.Get(e)
	t := pilot.Tracked{
		ID:  id,
		Pos: body.Pos,
		Vel: body.Vel,
		Far: s.controls.Get(e).Far,
	}
	if hull.Config != nil {
		t.ApproxRadius = hull.Config.ApproxRadius
	}
	return t, true
}

// farBody exposes a ship's components to the far path.
type farBody struct {
	body *Body
	hull *Hull
}

func (f farBody) Pos() game.Vec              { return f.body.Pos }
func (f farBody) Vel() game.Vec              { return f.body.Vel }
func (f farBody) Angle() float64             { return f.body.Angle }
func (f farBody) Hull() *game.HullConfig     { return f.hull.Config }
func (f farBody) Engine() *game.EngineConfig { return f.hull.Engine }
func (f farBody) SetPos(p game.Vec)          { f.body.Pos = p }
func (f farBody) SetVel(v game.Vec)          { f.body.Vel = v }
func (f farBody) SetAngle(a float64)         { f.body.Angle = game.Norm(a) }
