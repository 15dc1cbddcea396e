package physics

import "github.com/go-gl/mathgl/mgl32"

// IdleSleepFrames is how many consecutive slow ticks a body must see before it may sleep.
const IdleSleepFrames = 30

// Body is a 3D rigid body with position, orientation, velocities, and an AABB (from scale).
// Static bodies do not move and are not affected by gravity.
type Body struct {
	Position        mgl32.Vec3
	Rotation        mgl32.Quat
	Velocity        mgl32.Vec3
	AngularVelocity mgl32.Vec3
	Scale           mgl32.Vec3
	Mass            float32
	Static          bool

	// Sleeping bodies are skipped by integration until activated.
	Sleeping bool
	// SleepFrames counts down while the body is slow; sleep is permitted at zero.
	SleepFrames int
}

// NewBody returns an awake body with the given position and scale, identity rotation and zero velocity.
// mass is used for collision response; use 1 for default.
func NewBody(position, scale mgl32.Vec3, mass float32, static bool) Body {
	if mass <= 0 {
		mass = 1
	}
	return Body{
		Position:    position,
		Rotation:    mgl32.QuatIdent(),
		Scale:       scale,
		Mass:        mass,
		Static:      static,
		SleepFrames: IdleSleepFrames,
	}
}

// Activate wakes the body and resets its sleep countdown.
func (b *Body) Activate() {
	b.Sleeping = false
	b.SleepFrames = IdleSleepFrames
}

// Sleep puts the body to sleep and zeroes its velocities.
func (b *Body) Sleep() {
	b.Sleeping = true
	b.SleepFrames = 0
	b.Velocity = mgl32.Vec3{}
	b.AngularVelocity = mgl32.Vec3{}
}

// halfExtents treats a zero scale component as 1, like an unscaled unit cube.
func (b *Body) halfExtents() mgl32.Vec3 {
	h := b.Scale
	for i := range h {
		if h[i] == 0 {
			h[i] = 1
		}
		h[i] *= 0.5
	}
	return h
}
