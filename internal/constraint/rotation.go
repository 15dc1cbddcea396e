package constraint

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"carry-engine/internal/physics"
)

// minAxisLength below which a rotation delta is treated as no rotation.
const minAxisLength = 1e-6

// TrackRotation steers body's angular velocity toward target along the shortest arc.
// Unlike the linear clamp, a target within maxImpulse is adopted exactly. A body not yet at
// the target orientation is woken.
func (s *Solver) TrackRotation(body *physics.Body, target mgl32.Quat, maxImpulse float32) {
	delta := target.Mul(body.Rotation.Conjugate())
	if delta.W < 0 {
		delta = delta.Scale(-1)
	}
	axis, angle := axisAngle(delta)
	if angle != 0 {
		body.Activate()
	}
	want := axis.Mul(angle / s.Timestep)
	body.AngularVelocity, _ = impulseToward(body.AngularVelocity, want, maxImpulse)
}

// axisAngle decomposes q into a unit axis and an angle in radians.
// Degenerate or identity rotations return a zero axis and angle.
func axisAngle(q mgl32.Quat) (mgl32.Vec3, float32) {
	q = q.Normalize()
	s := q.V.Len()
	if s < minAxisLength {
		return mgl32.Vec3{}, 0
	}
	angle := 2 * math32.Atan2(s, q.W)
	return q.V.Mul(1 / s), angle
}
