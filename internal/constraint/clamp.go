package constraint

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"carry-engine/internal/physics"
)

// ClampVelocityTowardTarget moves body's velocity toward target by at most maxImpulse.
// When the target is already within reach the velocity becomes target scaled by scale,
// which softens the approach instead of locking onto the target.
func ClampVelocityTowardTarget(body *physics.Body, target mgl32.Vec3, maxImpulse, scale float32) {
	v, reached := impulseToward(body.Velocity, target, maxImpulse)
	if reached {
		v = target.Mul(scale)
	}
	body.Velocity = v
}

// impulseToward returns current moved toward target by maxImpulse, or target itself when
// the remaining change is smaller than maxImpulse (reached is then true).
func impulseToward(current, target mgl32.Vec3, maxImpulse float32) (v mgl32.Vec3, reached bool) {
	delta := target.Sub(current)
	d2 := delta.Dot(delta)
	if d2 < maxImpulse*maxImpulse {
		return target, true
	}
	if d2 == 0 {
		// maxImpulse is zero and there is nothing to change.
		return current, false
	}
	return current.Add(delta.Mul(maxImpulse / math32.Sqrt(d2))), false
}
