package constraint

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"carry-engine/internal/physics"
)

// State is how a position tracker treated a body on one tick.
type State int

const (
	// Tracking steers velocity toward the target through deflection and clamping.
	Tracking State = iota
	// Recovering pulled the body to within ClampDistance and gave it a settling velocity.
	Recovering
	// BrokenTeleport snapped the body onto the target.
	BrokenTeleport
	// BrokenFail left the body alone because the target was out of reach.
	BrokenFail
)

func (s State) String() string {
	switch s {
	case Tracking:
		return "tracking"
	case Recovering:
		return "recovering"
	case BrokenTeleport:
		return "broken-teleport"
	case BrokenFail:
		return "broken-fail"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Classify returns the tracking state for a body distance away from its target.
func Classify(distance float32, teleportOnBreak bool) State {
	switch {
	case distance > BreakDistance && teleportOnBreak:
		return BrokenTeleport
	case distance > BreakDistance:
		return BrokenFail
	case teleportOnBreak && distance > ClampDistance:
		return Recovering
	}
	return Tracking
}

// TrackPosition updates the body behind h so it heads for target this tick.
//
// Out of reach (further than BreakDistance) the body is either placed on the target when
// teleportOnBreak is set, or left untouched with ErrConstraintBroken. Bodies that teleport on
// break are also pulled in to ClampDistance when they lag behind. Otherwise the velocity needed
// to reach the target in one tick is deflected away from contacts and clamped by maxImpulse.
// Unless it failed, a body away from its target is woken.
func (s *Solver) TrackPosition(h physics.Handle, target mgl32.Vec3, maxImpulse float32, teleportOnBreak bool, scale float32) (State, error) {
	body, ok := s.Objects.Body(h)
	if !ok {
		return BrokenFail, ErrInvalidObject
	}

	offset := target.Sub(body.Position)
	state := Classify(offset.Len(), teleportOnBreak)
	if state == BrokenFail {
		return state, ErrConstraintBroken
	}
	// A body still short of its target must stay simulated, even when contacts have stopped it.
	if offset != (mgl32.Vec3{}) {
		body.Activate()
	}
	switch state {
	case BrokenTeleport:
		body.Position = target
	case Recovering:
		body.Position = recoverToward(body.Position, target)
		body.Velocity = target.Sub(body.Position).Mul(0.5 / s.Timestep)
	default:
		v := s.deflect(h, offset.Mul(1/s.Timestep))
		ClampVelocityTowardTarget(body, v, maxImpulse, scale)
	}
	return state, nil
}

// recoverToward returns the point reached by repeatedly closing recoveryLerp of the gap from
// pos to target until the gap is no more than ClampDistance. The step count is solved in
// closed form so the cost does not depend on how close the start is to the threshold.
func recoverToward(pos, target mgl32.Vec3) mgl32.Vec3 {
	gap := target.Sub(pos)
	dist := gap.Len()
	if dist <= ClampDistance {
		return pos
	}
	keep := 1 - recoveryLerp
	steps := math32.Ceil(math32.Log(ClampDistance/dist) / math32.Log(keep))
	remaining := math32.Pow(keep, steps)
	if dist*remaining > ClampDistance {
		remaining *= keep
	}
	return target.Sub(gap.Mul(remaining))
}
