package constraint

import (
	"github.com/go-gl/mathgl/mgl32"

	"carry-engine/internal/physics"
)

// Options are the tuning values of a PointConstraint.
type Options struct {
	// MaxPosImpulse caps the change in linear velocity per tick.
	MaxPosImpulse float32
	// MaxRotImpulse caps the change in angular velocity per tick.
	MaxRotImpulse float32
	// TeleportOnBreak snaps the body to the target instead of failing when it is out of reach,
	// and pulls a lagging body back within ClampDistance.
	TeleportOnBreak bool
	// MovementScale multiplies the target velocity once it is within MaxPosImpulse.
	MovementScale float32
}

// DefaultOptions suits a carried prop: firm pull, no teleport, undamped approach.
func DefaultOptions() Options {
	return Options{
		MaxPosImpulse: 3,
		MaxRotImpulse: 3,
		MovementScale: 1,
	}
}

func (o Options) validate() error {
	if o.MaxPosImpulse < 0 || o.MaxRotImpulse < 0 {
		return ErrNegativeImpulse
	}
	return nil
}

// PointConstraint pulls one object toward a target position and rotation.
type PointConstraint struct {
	Object    physics.Handle
	TargetPos mgl32.Vec3
	TargetRot mgl32.Quat
	Options
}

// Init binds c to the object h with the given body, targeting the body's current pose.
// The body is woken so it is simulated while constrained.
func (c *PointConstraint) Init(h physics.Handle, body *physics.Body, opts Options) error {
	if err := opts.validate(); err != nil {
		return err
	}
	*c = PointConstraint{
		Object:    h,
		TargetPos: body.Position,
		TargetRot: body.Rotation,
		Options:   opts,
	}
	body.Activate()
	return nil
}

// UpdateTarget sets a new target pose and keeps body awake to follow it.
func (c *PointConstraint) UpdateTarget(body *physics.Body, pos mgl32.Vec3, rot mgl32.Quat) {
	c.TargetPos = pos
	c.TargetRot = rot
	body.Activate()
}
