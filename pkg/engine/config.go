package engine

// Simulation constants. These were tuned against the four-phase schedule and
// are not meant to be configured per run; canvas size and tick budget are the
// knobs exposed through [Config].
const (
	// DefaultMaxTicks is the tick count after which the layout freezes.
	DefaultMaxTicks = 500

	// Phase boundaries on the tick counter.
	phaseLeafRetract = 250
	phaseNonOverlap  = 350
	phaseFinalSnap   = 450

	// Structural (non-leaf) springs keep the same geometry in every phase.
	structuralIdealLength = 120.0
	structuralStiffness   = 0.2

	// Coulomb repulsion base strength; every unordered pair contributes
	// F = strength/d.
	repulsionStrength = 8000.0

	// Leaves contribute and receive only 2% of normal repulsion so they can
	// tuck in against their parent instead of shoving the whole layout.
	leafRepulsionFactor = 0.02

	// Extra repulsion multiplier between two hubs that both own leaf fans,
	// applied as 1 + hubRepulsionBoost·sqrt(leafCountA·leafCountB).
	hubRepulsionBoost = 0.5

	// Hub gravity pulls each node toward its highest-degree neighbor with a
	// force proportional to distance.
	hubGravity = 0.05

	// damping scales the clamped per-tick displacement.
	damping = 0.6

	// baseRadius is the collision radius of a size-1 node. The hard minimum
	// pair distance is 2·(rA+rB), i.e. 4·baseRadius (240px) at default size.
	baseRadius = 60.0

	// Drag-mode relaxation parameters for the dragged node's neighbors.
	dragIdealLength = 150.0
	dragStiffness   = 0.12
	dragDamping     = 0.4
	dragMaxPasses   = 5
)

// phaseParams are the force parameters that vary across the four phases.
type phaseParams struct {
	LeafIdealLength float64 // ideal length of springs with a leaf endpoint
	LeafStiffness   float64 // stiffness of those springs
	LeafPull        float64 // direct leaf→parent attraction, ∝ distance
	StrictCollision bool    // whether leaves participate in collision
}

// phaseAt returns the force parameters for tick t.
func phaseAt(t int) phaseParams {
	switch {
	case t < phaseLeafRetract:
		return phaseParams{LeafIdealLength: 60, LeafStiffness: 0.5}
	case t < phaseNonOverlap:
		return phaseParams{LeafIdealLength: 40, LeafStiffness: 2.0, LeafPull: 1.5}
	case t < phaseFinalSnap:
		return phaseParams{LeafIdealLength: 20, LeafStiffness: 8.0, LeafPull: 5.0, StrictCollision: true}
	default:
		return phaseParams{LeafIdealLength: 5, LeafStiffness: 20.0, LeafPull: 10.0, StrictCollision: true}
	}
}

// Config holds the per-run simulator configuration.
type Config struct {
	// Width and Height are the canvas dimensions in pixels. They feed the
	// annealing temperature, not a boundary - nodes may leave the canvas.
	Width  float64
	Height float64

	// MaxTicks caps the simulation; 0 means DefaultMaxTicks.
	MaxTicks int
}

// withDefaults returns cfg with zero fields replaced by defaults.
func (c Config) withDefaults() Config {
	if c.Width == 0 {
		c.Width = 800
	}
	if c.Height == 0 {
		c.Height = 600
	}
	if c.MaxTicks == 0 {
		c.MaxTicks = DefaultMaxTicks
	}
	return c
}
