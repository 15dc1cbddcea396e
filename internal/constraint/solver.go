// Package constraint drives dynamic bodies toward a target pose with bounded per-tick impulses.
//
// A PointConstraint is solved once per fixed tick: the position tracker turns the gap to the
// target into a velocity, bends it away from current contacts, then clamps the change; the
// rotation tracker does the same for angular velocity. Bodies that drift past BreakDistance
// either teleport to the target or report ErrConstraintBroken, depending on the constraint.
package constraint

import (
	"errors"
	"iter"

	"carry-engine/internal/physics"
)

const (
	// BreakDistance is the gap beyond which normal tracking gives up.
	BreakDistance float32 = 2.0
	// ClampDistance is the gap within which recovery is complete.
	ClampDistance float32 = 0.07

	// contactDeflection is the share of the into-surface velocity removed per contact.
	contactDeflection float32 = 0.7
	// recoveryLerp is the fraction of the remaining gap closed per recovery step.
	recoveryLerp float32 = 0.01
)

var (
	ErrConstraintBroken  = errors.New("constraint broken: target out of reach")
	ErrInvalidObject     = errors.New("constrained object no longer exists")
	ErrNegativeImpulse   = errors.New("impulse limit must not be negative")
	ErrUnknownConstraint = errors.New("unknown constraint")
)

// ObjectSource resolves handles to rigid bodies.
type ObjectSource interface {
	Body(h physics.Handle) (*physics.Body, bool)
}

// ContactSource yields the contact manifolds currently involving an object.
// The sequence must be restartable: each call starts from the first manifold.
type ContactSource interface {
	Touching(h physics.Handle) iter.Seq[*physics.Manifold]
}

// Solver tracks targets for bodies of one simulation. Timestep is the fixed tick length in seconds.
// Contacts may be nil, in which case no contact deflection is applied.
type Solver struct {
	Objects  ObjectSource
	Contacts ContactSource
	Timestep float32
}

// NewSolver returns a solver reading bodies from objects and manifolds from contacts.
// *physics.World satisfies both.
func NewSolver(objects ObjectSource, contacts ContactSource, timestep float32) *Solver {
	return &Solver{Objects: objects, Contacts: contacts, Timestep: timestep}
}

// Solve tracks c's target position and then its target rotation. When position tracking fails
// the rotation is left alone for this tick.
func (s *Solver) Solve(c *PointConstraint) (State, error) {
	state, err := s.TrackPosition(c.Object, c.TargetPos, c.MaxPosImpulse, c.TeleportOnBreak, c.MovementScale)
	if err != nil {
		return state, err
	}
	body, _ := s.Objects.Body(c.Object)
	s.TrackRotation(body, c.TargetRot, c.MaxRotImpulse)
	return state, nil
}
