package pilot

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/lab1702/solpilot/game"
)

// AiPilotConfig holds the fixed traits of an AI pilot.
type AiPilotConfig struct {
	Faction           game.Faction
	CollectsItems     bool
	ShootsAtObstacles bool
	MapHint           string
	DetectionDist     float64
}

// AiPilot composes a destination provider with movement, weapon, ability and
// battle positioning controllers.
type AiPilot struct {
	cfg  AiPilotConfig
	dest DestProvider

	mover   Mover
	shooter Shooter
	battle  *BattleDestProvider
	ability *AbilityUpdater

	bindAwait float64
	bind      *PlanetBind
}

// NewAiPilot builds a pilot. rng seeds the per-pilot randomized tunables and is
// retained by the battle positioning strategy.
func NewAiPilot(dest DestProvider, cfg AiPilotConfig, rng *rand.Rand) *AiPilot {
	if cfg.DetectionDist == 0 {
		cfg.DetectionDist = game.AIDetectionDist
	}
	return &AiPilot{
		cfg:     cfg,
		dest:    dest,
		battle:  NewBattleDestProvider(rng),
		ability: NewAbilityUpdater(rng),
	}
}

func maxIdleDist(hull *game.HullConfig) float64 {
	if hull == nil {
		return MinIdleDist
	}
	return math.Max(hull.ApproxRadius, MinIdleDist)
}

// canShoot reports whether any gun is loaded, and whether the first loaded gun is
// a turret that aims independently of the hull.
func canShoot(ship *Ship) (can, unfixed bool) {
	for _, g := range ship.Guns {
		if g.Loaded() {
			return true, !g.Config.Fixed
		}
	}
	return false, false
}

// Tick runs one full-detail decision step. It panics with ErrEvadeUnsupported
// if the destination provider requests an evasive maneuver.
func (p *AiPilot) Tick(w World, ship *Ship, enemy *Ship) ControlOutput {
	p.ability.Update(ship, enemy)
	p.bind = nil

	idle := maxIdleDist(ship.Hull)
	p.dest.Update(w, ship.Pos, idle, ship.Hull, enemy)

	shoot, unfixed := canShoot(ship)
	planet := w.NearestPlanet(ship.Pos)
	nearGround := planet != nil && planet.IsNearGround(ship.Pos)

	order := MoveOrder{MaxIdleDist: idle, DesiredSpeed: p.dest.DesiredSpeed()}
	if ship.Engine != nil {
		m := ManeuverNone
		if enemy != nil && enemy.Engine != nil {
			m = p.dest.ShouldManeuver(shoot, enemy, nearGround)
			logManeuver(ship, enemy, m, nearGround)
		}
		if m != ManeuverNone {
			dest, err := p.battle.Dest(ship, enemy, planet, m, w.TimeStep(), unfixed, nearGround)
			if err != nil {
				panic(err)
			}
			order.Dest, order.HasDest = dest, true
			order.StopNearDest = p.battle.StopNearDest()
			order.DestVel = enemy.Vel
			order.DesiredSpeed = battleSpeed(ship, enemy, order.DesiredSpeed, nearGround)
		} else {
			order.Dest, order.HasDest = p.dest.Dest()
			order.DestVel = p.dest.DestVel()
			order.StopNearDest = p.dest.StopNearDest()
			order.AvoidBigObjects = p.dest.AvoidBigObjects()
		}
	}

	p.mover.Update(w, ship, planet, order)
	moverActive := p.mover.Active()
	p.shooter.Update(ship, enemy, moverActive, shoot)
	if ship.Engine != nil && !moverActive && !p.shooter.Rotating() {
		p.mover.RotateOnIdle(ship, planet, order)
	}
	return p.merge()
}

// battleSpeed caps the cruise speed while fighting. Standard hulls add the
// hostile's speed so they can keep up with it.
func battleSpeed(ship, enemy *Ship, desired float64, nearGround bool) float64 {
	big := ship.Hull != nil && ship.Hull.Type == game.HullBig
	ceiling := MaxBattleSpd
	if nearGround {
		ceiling = MaxGroundBattleSpd
	} else if big {
		ceiling = MaxBattleSpdBig
	}
	desired = math.Min(desired, ceiling)
	if !big {
		desired += game.Len(enemy.Vel)
	}
	return desired
}

// merge combines the controllers. When the shooter turns, its direction wins
// over the mover's so the output never carries both turn flags.
func (p *AiPilot) merge() ControlOutput {
	mv, sh := p.mover.Output(), p.shooter.Output()
	out := ControlOutput{
		Thrust:        mv.Thrust,
		FirePrimary:   sh.FirePrimary,
		FireSecondary: sh.FireSecondary,
		UseAbility:    p.ability.Use(),
	}
	out.TurnLeft, out.TurnRight = mergeTurn(sh, mv)
	return out
}

// TickFar moves a far ship along closed-form approach curves instead of
// producing control flags. Idle ships near a planet ride its surface.
func (p *AiPilot) TickFar(w World, far FarShip) {
	pos := far.Pos()
	hull := far.Hull()
	p.dest.Update(w, pos, maxIdleDist(hull), hull, nil)
	dest, hasDest := p.dest.Dest()

	vel := far.Vel()
	angle := far.Angle()
	engine := far.Engine()
	ts := w.TimeStep()

	if !hasDest || engine == nil {
		if p.bind == nil {
			if p.bindAwait > 0 {
				p.bindAwait -= ts
			} else {
				p.bind = TryBind(w, pos, angle)
				p.bindAwait = MaxBindAwait
			}
		}
		if p.bind != nil && ts > 0 {
			vel = r2.Scale(1/ts, p.bind.Diff(pos))
			angle = p.bind.DesiredAngle()
		}
	} else {
		toDestLen := distance(pos, dest)
		var desiredAngle float64
		if p.dest.StopNearDest() && toDestLen < FarIdleDistHack {
			vel = p.dest.DestVel()
			desiredAngle = angle
		} else {
			desiredAngle = game.AngleTo(pos, dest)
			if p.dest.AvoidBigObjects() {
				desiredAngle = p.mover.BigObjAvoider().Avoid(w, pos, dest, desiredAngle)
			}
			speed := game.Approach(game.Len(vel), p.dest.DesiredSpeed(), engine.Acc*ts)
			if toDestLen < speed {
				speed = toDestLen
			}
			vel = game.FromAngle(desiredAngle, speed)
		}
		angle = game.ApproachAngle(angle, desiredAngle, engine.MaxRotationSpeed*ts)
	}

	far.SetVel(vel)
	far.SetAngle(angle)
	far.SetPos(r2.Add(pos, r2.Scale(ts, vel)))
}

// DestProvider exposes the pilot's destination strategy.
func (p *AiPilot) DestProvider() DestProvider { return p.dest }

// AbilityUpdater exposes the pilot's ability controller.
func (p *AiPilot) AbilityUpdater() *AbilityUpdater { return p.ability }

func (p *AiPilot) Faction() game.Faction   { return p.cfg.Faction }
func (p *AiPilot) DetectionDist() float64  { return p.cfg.DetectionDist }
func (p *AiPilot) ShootsAtObstacles() bool { return p.cfg.ShootsAtObstacles }
func (p *AiPilot) CollectsItems() bool     { return p.cfg.CollectsItems }
func (p *AiPilot) MapHint() string         { return p.cfg.MapHint }

// IsPlayer reports whether the pilot follows an externally placed beacon.
func (p *AiPilot) IsPlayer() bool {
	_, ok := p.dest.(*Beacon)
	return ok
}

func (p *AiPilot) String() string {
	return fmt.Sprintf("ai(%T) moverActive: %v", p.dest, p.mover.Active())
}
