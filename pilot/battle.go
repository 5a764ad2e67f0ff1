package pilot

import (
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/lab1702/solpilot/game"
)

// orbitBias is the preferred side to circle a hostile on.
type orbitBias int

const (
	biasUndecided orbitBias = iota
	biasCW
	biasCCW
)

// BattleDestProvider picks a standoff point around a hostile.
type BattleDestProvider struct {
	rng         *rand.Rand
	bias        orbitBias
	changeAwait float64
}

// NewBattleDestProvider returns a provider whose first Dest call rolls the bias.
func NewBattleDestProvider(rng *rand.Rand) *BattleDestProvider {
	return &BattleDestProvider{rng: rng}
}

// Dest returns the point to hold while fighting enemy. It fails with
// ErrEvadeUnsupported for any maneuver other than ManeuverFight.
func (b *BattleDestProvider) Dest(ship, enemy *Ship, planet *game.Planet, m Maneuver, dt float64, canShootUnfixed, nearGround bool) (game.Vec, error) {
	b.changeAwait -= dt
	if b.changeAwait <= 0 {
		b.bias = orbitBias(b.rng.Intn(3))
		b.changeAwait = MinDirChangeAwait + b.rng.Float64()*(MaxDirChangeAwait-MinDirChangeAwait)
	}
	if m != ManeuverFight {
		return game.Vec{}, ErrEvadeUnsupported
	}

	radii := ship.ApproxRadius() + enemy.ApproxRadius()
	if nearGround && planet != nil {
		dist := .75 * game.CamViewDistGround
		if canShootUnfixed {
			dist = .9 * game.AutoShootGround
		}
		angle := game.AngleTo(planet.Pos, enemy.Pos)
		return r2.Add(enemy.Pos, game.FromAngle(angle, dist+radii)), nil
	}

	angle := game.AngleTo(enemy.Pos, ship.Pos)
	switch b.bias {
	case biasCW:
		angle += 90
	case biasCCW:
		angle -= 90
	}
	dist := .5 * game.CamViewDistSpace
	if canShootUnfixed {
		dist = .9 * game.AutoShootSpace
	}
	return r2.Add(enemy.Pos, game.FromAngle(angle, dist+radii)), nil
}

// StopNearDest is always false: battle positions are chased, never parked at.
func (b *BattleDestProvider) StopNearDest() bool {
	return false
}
