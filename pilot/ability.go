package pilot

import "math/rand"

// AbilityUpdater triggers a ship's special ability once it is hurt badly enough.
type AbilityUpdater struct {
	threshold     float64 // Fraction of max health below which the ability may fire
	chargesToKeep int

	use bool
}

// NewAbilityUpdater rolls the per-pilot threshold and charge reserve.
func NewAbilityUpdater(rng *rand.Rand) *AbilityUpdater {
	return &AbilityUpdater{
		threshold:     MinAbilityThreshold + rng.Float64()*(MaxAbilityThreshold-MinAbilityThreshold),
		chargesToKeep: MinChargesToKeep + rng.Intn(MaxChargesToKeep-MinChargesToKeep+1),
	}
}

// Update decides whether to use the ability this tick.
func (a *AbilityUpdater) Update(ship *Ship, enemy *Ship) {
	a.use = false
	if enemy == nil || ship.Ability == nil || ship.Ability.Config == nil || ship.Hull == nil {
		return
	}
	if ship.Health >= ship.Hull.MaxHealth*a.threshold {
		return
	}
	cfg := ship.Ability.Config
	if cfg.ConsumesCharge && ship.Ability.Charges <= a.chargesToKeep {
		return
	}
	if cfg.Radius < distance(enemy.Pos, ship.Pos) {
		return
	}
	a.use = true
}

// Use reports the decision of the last Update.
func (a *AbilityUpdater) Use() bool {
	return a.use
}

// Threshold is the health fraction below which the ability may trigger.
func (a *AbilityUpdater) Threshold() float64 {
	return a.threshold
}

// ChargesToKeep is the number of charges this pilot never spends.
func (a *AbilityUpdater) ChargesToKeep() int {
	return a.chargesToKeep
}
