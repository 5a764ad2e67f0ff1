package server

import (
	"math"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/lab1702/solpilot/game"
	"github.com/lab1702/solpilot/pilot"
)

// fireGuns spawns a round for every requested gun that is ready. Fixed guns
// fire along the hull, turrets lead the hostile on their own.
func (s *Sim) fireGuns(r shipRef, enemy *pilot.Ship) {
	triggers := [2]bool{r.ctl.Out.FirePrimary, r.ctl.Out.FireSecondary}
	for slot, g := range r.arm.Guns {
		if !triggers[slot] || !g.Loaded() || g.Cooldown > 0 {
			continue
		}
		cfg := g.Config

		gunPos := r.body.Pos
		if r.hull.Config != nil {
			gunPos = game.ToWorld(r.hull.Config.GunMounts[slot], r.body.Angle, r.body.Pos)
		}
		angle := r.body.Angle
		if !cfg.Fixed && enemy != nil {
			if a := pilot.ShootAngle(gunPos, r.body.Vel, enemy.Pos, enemy.Vel, cfg.Projectile.Speed, false); !math.IsNaN(a) {
				angle = a
			}
		}

		round := Projectile{
			Pos:     gunPos,
			Angle:   angle,
			Owner:   r.ctl.ID,
			Faction: r.ctl.Faction,
			Config:  &cfg.Projectile,
			Life:    cfg.Projectile.Lifetime,
		}
		if round.Life <= 0 {
			round.Life = DefaultRoundLife
		}
		if !cfg.Projectile.ZeroAbsSpeed {
			round.Vel = r2.Add(r.body.Vel, game.FromAngle(angle, cfg.Projectile.Speed))
		}
		s.pending = append(s.pending, round)
		logShot(s.log, uint32(r.ctl.ID), slot, angle)

		g.Ammo--
		g.Cooldown = cfg.Cooldown
		if g.Ammo <= 0 {
			// Reload the clip
			g.Ammo = cfg.ClipSize
			g.Cooldown = cfg.ReloadTime
		}
	}
}

// flushProjectiles creates the rounds fired this step.
func (s *Sim) flushProjectiles() {
	for i := range s.pending {
		s.projectiles.NewEntity(&s.pending[i])
	}
	s.pending = s.pending[:0]
}

// updateProjectiles moves rounds, steers guided ones and resolves hits against
// ships, rocks and planet ground.
func (s *Sim) updateProjectiles(refs []shipRef, ts float64) {
	var spent []ecs.Entity

	query := s.projFilter.Query()
	for query.Next() {
		p := query.Get()
		p.Life -= ts
		if p.Life <= 0 {
			spent = append(spent, query.Entity())
			continue
		}

		if p.Config.Guided() {
			if target := nearestTarget(p, refs); target != nil {
				desired := game.AngleTo(p.Pos, target.body.Pos)
				p.Angle = game.ApproachAngle(p.Angle, desired, p.Config.GuideRotationSpeed*ts)
				p.Vel = game.FromAngle(p.Angle, game.Len(p.Vel))
			}
		}
		if p.Config.Acc > 0 {
			p.Vel = r2.Add(p.Vel, game.FromAngle(p.Angle, p.Config.Acc*ts))
		}
		p.Pos = r2.Add(p.Pos, r2.Scale(ts, p.Vel))

		if s.hitShip(p, refs) || s.hitRock(p) || s.hitGround(p) {
			spent = append(spent, query.Entity())
		}
	}

	// Remove after the query completes
	for _, e := range spent {
		s.world.RemoveEntity(e)
	}
}

// canHit reports whether a round may damage ship r.
func canHit(p *Projectile, r shipRef) bool {
	if r.ctl.ID == p.Owner {
		return false
	}
	return p.Faction == game.FactionNone || r.ctl.Faction != p.Faction
}

func nearestTarget(p *Projectile, refs []shipRef) *shipRef {
	var best *shipRef
	bestDist := math.Inf(1)
	for i := range refs {
		r := &refs[i]
		if !canHit(p, *r) || !p.Faction.Hostile(r.ctl.Faction) {
			continue
		}
		if d := game.Dist(p.Pos, r.body.Pos); d < bestDist {
			best, bestDist = r, d
		}
	}
	return best
}

func (s *Sim) hitShip(p *Projectile, refs []shipRef) bool {
	for _, r := range refs {
		if !canHit(p, r) || r.hull.Config == nil {
			continue
		}
		if game.Dist(p.Pos, r.body.Pos) < r.hull.Config.ApproxRadius {
			r.hull.Health -= p.Config.Damage
			logHit(s.log, uint32(p.Owner), uint32(r.ctl.ID), p.Config.Damage, r.hull.Health)
			return true
		}
	}
	return false
}

func (s *Sim) hitRock(p *Projectile) bool {
	for _, o := range s.grid.items {
		if o.id == game.NoShip && game.Dist(p.Pos, o.pos) < o.radius {
			return true
		}
	}
	return false
}

func (s *Sim) hitGround(p *Projectile) bool {
	planet := s.NearestPlanet(p.Pos)
	return planet != nil && game.Dist(p.Pos, planet.Pos) < planet.GroundHeight
}
