package game

// HullType classifies hulls for speed caps and positioning.
type HullType int

const (
	HullStd HullType = iota
	HullBig
	HullStation
)

// HullConfig describes the static body of a ship class.
type HullConfig struct {
	Name         string
	Type         HullType
	Size         float64 // Visual size, used for hover height above landing places
	ApproxRadius float64 // Bounding radius for standoff and angular size
	MaxHealth    float64
	Mass         float64
	// GunMounts are mount positions in the hull frame, primary first.
	GunMounts [2]Vec
}

// EngineConfig is the propulsion of a ship.
type EngineConfig struct {
	Acc              float64 // Linear acceleration
	MaxRotationSpeed float64 // Degrees per second
	RotationAcc      float64 // Degrees per second squared
}

// ProjectileConfig describes what a gun fires.
type ProjectileConfig struct {
	Speed              float64
	Acc                float64
	GuideRotationSpeed float64 // Degrees per second, 0 means unguided
	ZeroAbsSpeed       bool    // Mine-like: spawns with zero absolute speed
	Damage             float64
	Lifetime           float64
}

// Guided reports whether the projectile steers toward its target.
func (p ProjectileConfig) Guided() bool {
	return p.GuideRotationSpeed > 0
}

// GunConfig describes a weapon class.
type GunConfig struct {
	Name       string
	Fixed      bool // Fixed guns fire along the hull heading, turrets aim themselves
	ReloadTime float64
	Cooldown   float64
	ClipSize   int
	Projectile ProjectileConfig
}

// AbilityConfig describes a ship special ability.
type AbilityConfig struct {
	Name           string
	Radius         float64 // Effective range against a hostile
	Recharge       float64 // Seconds between uses
	ConsumesCharge bool    // Each use spends one charge item
	Force          float64 // Knockback impulse applied to ships within Radius
}
