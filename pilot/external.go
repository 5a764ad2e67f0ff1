package pilot

import (
	"fmt"
	"sync"

	"github.com/lab1702/solpilot/game"
)

// ExternalPilot passes through controls set by an outside source such as a
// connected client. SetControls may be called from any goroutine.
type ExternalPilot struct {
	mu       sync.Mutex
	controls ControlOutput

	faction game.Faction
	name    string
}

// NewExternalPilot returns a pilot with all controls released.
func NewExternalPilot(faction game.Faction, name string) *ExternalPilot {
	return &ExternalPilot{faction: faction, name: name}
}

// SetControls replaces the controls returned by subsequent ticks.
func (p *ExternalPilot) SetControls(c ControlOutput) {
	p.mu.Lock()
	p.controls = c
	p.mu.Unlock()
}

// Tick returns the last controls set.
func (p *ExternalPilot) Tick(World, *Ship, *Ship) ControlOutput {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.controls
}

// TickFar does nothing: externally controlled ships are always simulated in full.
func (p *ExternalPilot) TickFar(World, FarShip) {}

func (p *ExternalPilot) Faction() game.Faction   { return p.faction }
func (p *ExternalPilot) DetectionDist() float64  { return game.AIDetectionDist }
func (p *ExternalPilot) ShootsAtObstacles() bool { return false }
func (p *ExternalPilot) CollectsItems() bool     { return true }
func (p *ExternalPilot) MapHint() string         { return p.name }
func (p *ExternalPilot) IsPlayer() bool          { return true }

func (p *ExternalPilot) String() string {
	return fmt.Sprintf("external(%s)", p.name)
}
