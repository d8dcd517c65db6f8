package engine

// Body is the position and last-applied displacement of a single node. Bodies
// are mutated only by the simulator and by drag input; they are ephemeral and
// never persisted by the engine.
type Body struct {
	X  float64 `json:"x" bson:"x"`
	Y  float64 `json:"y" bson:"y"`
	VX float64 `json:"vx" bson:"vx"`
	VY float64 `json:"vy" bson:"vy"`
}

// Pos returns the body's position as a vector.
func (b *Body) Pos() Vec { return Vec{b.X, b.Y} }

// State is the complete mutable simulation state: one body per node ID plus
// the tick counter and drag target. It is a plain value that the host loop
// threads through [Simulator.Step]; copying the map reference is enough to
// hand a frame to a reader because mutation only ever happens inside the next
// Step call.
type State struct {
	Bodies map[string]*Body
	Tick   int

	dragID   string
	dragX    float64
	dragY    float64
}

// NewState creates a state holding the given bodies at tick zero.
func NewState(bodies map[string]*Body) *State {
	if bodies == nil {
		bodies = make(map[string]*Body)
	}
	return &State{Bodies: bodies}
}

// Drag pins the node with the given ID to the pointer position. While a drag
// is active the simulator never moves the dragged node itself; its neighbors
// receive a localized spring relaxation instead. Unknown IDs are ignored on
// the next Step.
func (s *State) Drag(id string, x, y float64) {
	s.dragID = id
	s.dragX = x
	s.dragY = y
}

// Release ends the active drag, if any.
func (s *State) Release() { s.dragID = "" }

// Dragging returns the ID of the node currently being dragged, or "".
func (s *State) Dragging() string { return s.dragID }

// Positions returns a snapshot of the current positions, keyed by node ID.
// The returned map is a copy and safe to hand to a renderer.
func (s *State) Positions() map[string]Vec {
	out := make(map[string]Vec, len(s.Bodies))
	for id, b := range s.Bodies {
		out[id] = Vec{b.X, b.Y}
	}
	return out
}

// SizeProvider supplies a per-node size multiplier used to compute collision
// radii. The engine depends on nothing else from the styling subsystem - a
// template that doubles a node's rendered size doubles its collision radius
// through this single method.
type SizeProvider interface {
	SizeMultiplier(id string) float64
}

// UnitSize is the default SizeProvider: every node has multiplier 1.
type UnitSize struct{}

// SizeMultiplier returns 1 for every node.
func (UnitSize) SizeMultiplier(string) float64 { return 1 }

// SizeFunc adapts a function to the SizeProvider interface.
type SizeFunc func(id string) float64

// SizeMultiplier calls f.
func (f SizeFunc) SizeMultiplier(id string) float64 { return f(id) }
