package pilot

import (
	"math"

	"github.com/lab1702/solpilot/game"
)

// Shooter decides weapon fire and aiming rotation.
type Shooter struct {
	out ControlOutput
}

// Update computes fire and turn flags against enemy. With dontRotate set the
// shooter never turns, leaving rotation to the mover.
func (s *Shooter) Update(ship *Ship, enemy *Ship, dontRotate, canShoot bool) {
	s.out = ControlOutput{}
	if enemy == nil || !canShoot {
		return
	}

	primary := s.processGun(ship, Primary)
	secondary := s.processGun(ship, Secondary)
	if primary == nil && secondary == nil {
		return
	}

	slot, gun, projSpeed := Primary, primary, 0.0
	if primary != nil {
		projSpeed = effectiveSpeed(primary)
	}
	if secondary != nil {
		if sp := effectiveSpeed(secondary); projSpeed < sp {
			slot, gun, projSpeed = Secondary, secondary, sp
		}
	}

	gunPos := ship.GunPos(slot)
	shootAngle := ShootAngle(gunPos, ship.Vel, enemy.Pos, enemy.Vel, projSpeed, false)
	if math.IsNaN(shootAngle) {
		return
	}
	// The solution is for the mount, but the hull turns around its centre.
	shootAngle += game.AngleTo(enemy.Pos, gunPos) - game.AngleTo(enemy.Pos, ship.Pos)

	toEnemy := distance(enemy.Pos, ship.Pos)
	maxDiff := game.AngularWidthOfSphere(enemy.ApproxRadius(), toEnemy) + ShootAngleMargin
	if proj := gun.Config.Projectile; proj.Guided() && projSpeed > 0 {
		maxDiff += proj.GuideRotationSpeed * toEnemy / projSpeed
	}

	fire := game.AngleDiff(shootAngle, ship.Angle) < maxDiff
	logShot(ship, shootAngle, maxDiff, fire)
	if fire {
		s.out.FirePrimary = true
		s.out.FireSecondary = true
		return
	}

	if dontRotate {
		return
	}
	applyTurn(&s.out, NeedsToTurn(ship.Angle, shootAngle, ship.RotationSpeed, ship.RotationAcc(), MinShootAngleDiff))
}

// processGun returns the gun when it is fixed and loaded. Guided, mine-like and
// tracking turret guns set their fire flag directly and return nil.
func (s *Shooter) processGun(ship *Ship, slot int) *Gun {
	g := ship.Guns[slot]
	if !g.Loaded() {
		return nil
	}

	proj := g.Config.Projectile
	if proj.ZeroAbsSpeed || proj.Guided() {
		s.setFire(slot)
		return nil
	}
	if g.Config.Fixed {
		return g
	}
	if g.Detected {
		s.setFire(slot)
	}
	return nil
}

func (s *Shooter) setFire(slot int) {
	if slot == Secondary {
		s.out.FireSecondary = true
	} else {
		s.out.FirePrimary = true
	}
}

func effectiveSpeed(g *Gun) float64 {
	return g.Config.Projectile.Speed + g.Config.Projectile.Acc
}

// Output returns the shooter's flags for this tick.
func (s *Shooter) Output() ControlOutput {
	return s.out
}

// Rotating reports whether the shooter issued a turn this tick.
func (s *Shooter) Rotating() bool {
	return s.out.Turning()
}
