package pilot

import (
	"math"
	"testing"

	"github.com/lab1702/solpilot/game"
)

func TestIntercept(t *testing.T) {
	tests := []struct {
		name          string
		gunPos        game.Vec
		gunVel        game.Vec
		targetPos     game.Vec
		targetVel     game.Vec
		projSpeed     float64
		sharp         bool
		wantAngle     float64
		wantTime      float64
		shouldSucceed bool
	}{
		{
			name:          "StationaryTarget",
			targetPos:     game.Vec{X: 10},
			projSpeed:     5,
			wantAngle:     0,
			wantTime:      2,
			shouldSucceed: true,
		},
		{
			name:          "PerpendicularCrossingSharp",
			targetPos:     game.Vec{X: 100},
			targetVel:     game.Vec{Y: 30},
			projSpeed:     50,
			sharp:         true,
			wantAngle:     math.Atan(30.0/40.0) * 180 / math.Pi,
			wantTime:      2.5,
			shouldSucceed: true,
		},
		{
			name:          "HeadOnSharp",
			targetPos:     game.Vec{X: 100},
			targetVel:     game.Vec{X: -25},
			projSpeed:     50,
			sharp:         true,
			wantAngle:     0,
			wantTime:      100.0 / 75.0,
			shouldSucceed: true,
		},
		{
			name:          "AttenuatedTargetSpeed",
			targetPos:     game.Vec{X: 100},
			targetVel:     game.Vec{X: -25 / EnemySpeedFactor},
			projSpeed:     50,
			wantAngle:     0,
			wantTime:      100.0 / 75.0,
			shouldSucceed: true,
		},
		{
			name:          "ShooterMovingWithTarget",
			gunVel:        game.Vec{Y: 30},
			targetPos:     game.Vec{X: 10},
			targetVel:     game.Vec{Y: 30},
			projSpeed:     5,
			sharp:         true,
			wantAngle:     0,
			wantTime:      2,
			shouldSucceed: true,
		},
		{
			name:      "FleeingTooFast",
			targetPos: game.Vec{X: 10},
			targetVel: game.Vec{X: 20},
			projSpeed: 5,
		},
		{
			name:      "ZeroProjectileSpeed",
			targetPos: game.Vec{X: 10},
			projSpeed: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sol, ok := Intercept(tt.gunPos, tt.gunVel, tt.targetPos, tt.targetVel, tt.projSpeed, tt.sharp)
			if ok != tt.shouldSucceed {
				t.Fatalf("Intercept ok = %v, want %v", ok, tt.shouldSucceed)
			}
			angle := ShootAngle(tt.gunPos, tt.gunVel, tt.targetPos, tt.targetVel, tt.projSpeed, tt.sharp)
			if !ok {
				if !math.IsNaN(angle) {
					t.Errorf("ShootAngle = %v, want NaN", angle)
				}
				return
			}
			if math.Abs(sol.TimeToIntercept-tt.wantTime) > 1e-6 {
				t.Errorf("time = %v, want %v", sol.TimeToIntercept, tt.wantTime)
			}
			if game.AngleDiff(sol.Angle, tt.wantAngle) > 1e-6 {
				t.Errorf("angle = %v, want %v", sol.Angle, tt.wantAngle)
			}
			if angle != sol.Angle {
				t.Errorf("ShootAngle = %v, want %v", angle, sol.Angle)
			}
		})
	}
}

func TestShooterFiresWhenAligned(t *testing.T) {
	ship := testShip(1, game.Vec{}, 0)
	ship.Guns[Primary] = fixedGun(5)
	enemy := testShip(2, game.Vec{X: 10}, 180)

	var s Shooter
	s.Update(ship, enemy, false, true)
	out := s.Output()
	if !out.FirePrimary || !out.FireSecondary {
		t.Errorf("output = %+v, want both fire flags", out)
	}
	if out.Turning() {
		t.Error("should not turn while firing")
	}
}

func TestShooterTurnsTowardLead(t *testing.T) {
	ship := testShip(1, game.Vec{}, 0)
	ship.Guns[Primary] = fixedGun(5)
	enemy := testShip(2, game.Vec{Y: 10}, 0)

	var s Shooter
	s.Update(ship, enemy, false, true)
	out := s.Output()
	if out.FirePrimary || out.FireSecondary {
		t.Errorf("output = %+v, want no fire 90 degrees off target", out)
	}
	if !out.TurnRight {
		t.Errorf("output = %+v, want right turn toward 90", out)
	}

	s.Update(ship, enemy, true, true)
	if s.Output() != (ControlOutput{}) {
		t.Errorf("output = %+v, want nothing when rotation is suppressed", s.Output())
	}
}

func TestShooterNoSolution(t *testing.T) {
	ship := testShip(1, game.Vec{}, 90)
	ship.Guns[Primary] = fixedGun(5)
	enemy := testShip(2, game.Vec{X: 10}, 0)
	enemy.Vel = game.Vec{X: 20}

	var s Shooter
	s.Update(ship, enemy, false, true)
	if s.Output() != (ControlOutput{}) {
		t.Errorf("output = %+v, want no fire and no turn", s.Output())
	}
}

func TestShooterGates(t *testing.T) {
	ship := testShip(1, game.Vec{}, 0)
	ship.Guns[Primary] = fixedGun(5)
	enemy := testShip(2, game.Vec{X: 10}, 0)

	var s Shooter
	s.Update(ship, nil, false, true)
	if s.Output() != (ControlOutput{}) {
		t.Error("no enemy should produce no output")
	}
	s.Update(ship, enemy, false, false)
	if s.Output() != (ControlOutput{}) {
		t.Error("cannot shoot should produce no output")
	}

	ship.Guns[Primary].Ammo = 0
	s.Update(ship, enemy, false, true)
	if s.Output() != (ControlOutput{}) {
		t.Error("empty gun should produce no output")
	}
}

func TestShooterSelfAimingGuns(t *testing.T) {
	enemy := testShip(2, game.Vec{Y: 10}, 0)

	t.Run("GuidedSecondary", func(t *testing.T) {
		ship := testShip(1, game.Vec{}, 0)
		ship.Guns[Secondary] = &Gun{
			Config: &game.GunConfig{Fixed: true, Projectile: game.ProjectileConfig{Speed: 3, GuideRotationSpeed: 90}},
			Ammo:   1,
		}
		var s Shooter
		s.Update(ship, enemy, false, true)
		out := s.Output()
		if !out.FireSecondary || out.FirePrimary || out.Turning() {
			t.Errorf("output = %+v, want secondary fire only", out)
		}
	})

	t.Run("TurretDetected", func(t *testing.T) {
		ship := testShip(1, game.Vec{}, 0)
		ship.Guns[Primary] = &Gun{
			Config:   &game.GunConfig{Fixed: false, Projectile: game.ProjectileConfig{Speed: 3}},
			Ammo:     1,
			Detected: true,
		}
		var s Shooter
		s.Update(ship, enemy, false, true)
		if out := s.Output(); !out.FirePrimary || out.Turning() {
			t.Errorf("output = %+v, want primary fire only", out)
		}
	})

	t.Run("TurretIdle", func(t *testing.T) {
		ship := testShip(1, game.Vec{}, 0)
		ship.Guns[Primary] = &Gun{
			Config: &game.GunConfig{Fixed: false, Projectile: game.ProjectileConfig{Speed: 3}},
			Ammo:   1,
		}
		var s Shooter
		s.Update(ship, enemy, false, true)
		if s.Output() != (ControlOutput{}) {
			t.Errorf("output = %+v, want nothing from an undetected turret", s.Output())
		}
	})
}

func TestShooterPicksFasterGun(t *testing.T) {
	ship := testShip(1, game.Vec{}, 0)
	ship.Hull.GunMounts = [2]game.Vec{{X: 0, Y: 0}, {X: 0, Y: 0}}
	ship.Guns[Primary] = fixedGun(1)
	ship.Guns[Secondary] = fixedGun(50)
	// Slow rounds cannot catch a target crossing at 3, fast ones can.
	enemy := testShip(2, game.Vec{X: 10}, 0)
	enemy.Vel = game.Vec{Y: 3 / EnemySpeedFactor}

	var s Shooter
	s.Update(ship, enemy, false, true)
	if out := s.Output(); !out.FirePrimary || !out.FireSecondary {
		t.Errorf("output = %+v, want fire using the faster gun's solution", out)
	}
}
