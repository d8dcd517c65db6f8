// Package engine implements the physics-based node positioning simulator.
//
// The engine advances an explicit [State] (positions, velocities, tick
// counter) one tick at a time through [Simulator.Step]. The host render loop
// owns scheduling: one Step call per frame, with the resulting snapshot handed
// wholesale to the read-only rendering side. There is exactly one writer per
// tick, so no locking is required anywhere in this package.
//
// # Simulation phases
//
// The simulation is a state machine over four phases keyed by the tick
// counter, hard-capped at [DefaultMaxTicks]:
//
//  1. Explosion (t < 250): weak leaf springs, full repulsion, leaves may pass
//     through other nodes.
//  2. Leaf retraction (250 ≤ t < 350): leaf springs tighten and leaves gain a
//     direct distance-proportional pull toward their parent.
//  3. Non-overlap enforcement (350 ≤ t < 450): very tight leaf springs;
//     collision enforcement becomes strict for all nodes.
//  4. Final snap (450 ≤ t < 500): near-zero leaf spring lengths lock leaves
//     against their parents.
//
// After the final tick the layout is frozen; the only remaining motion is
// drag input ([State.Drag]) with a localized relaxation around the dragged
// node.
//
// # Force model
//
// Per tick, every non-dragged node accumulates: spring attraction along
// incident edges (phase-dependent for leaf edges, fixed for structural ones),
// Coulomb-style pairwise repulsion F = strength/d with a deterministic
// per-pair jitter factor for organic spacing, and a weak hub gravity pull
// toward the node's highest-degree neighbor. There is no global centering
// force - spread is governed entirely by repulsion.
//
// Displacement per tick is clamped by an annealing temperature
// T = k_opt·(1−t/max)² with k_opt = sqrt(canvasArea/nodeCount), then damped.
// Any zero-distance pair is skipped for that force term, so NaN never enters
// position state.
package engine
