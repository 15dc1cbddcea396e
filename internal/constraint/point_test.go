package constraint

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"carry-engine/internal/physics"
)

func sleepingBody() physics.Body {
	b := physics.NewBody(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{1, 1, 1}, 1, false)
	b.Rotation = mgl32.QuatRotate(0.5, mgl32.Vec3{0, 1, 0})
	b.Sleep()
	return b
}

func TestPointConstraint_InitSeedsTargetAndWakes(t *testing.T) {
	body := sleepingBody()
	opts := Options{MaxPosImpulse: 0.2, MaxRotImpulse: 0.4, TeleportOnBreak: true, MovementScale: 0.8}

	var c PointConstraint
	if err := c.Init(physics.Handle{}, &body, opts); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	if c.TargetPos != body.Position {
		t.Errorf("TargetPos = %v, want %v", c.TargetPos, body.Position)
	}
	if c.TargetRot != body.Rotation {
		t.Errorf("TargetRot = %v, want %v", c.TargetRot, body.Rotation)
	}
	if c.Options != opts {
		t.Errorf("Options = %+v, want %+v", c.Options, opts)
	}
	if body.Sleeping {
		t.Error("body still sleeping after Init")
	}
	if body.SleepFrames != physics.IdleSleepFrames {
		t.Errorf("SleepFrames = %d, want %d", body.SleepFrames, physics.IdleSleepFrames)
	}
}

func TestPointConstraint_InitRejectsNegativeImpulse(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"negative position impulse", Options{MaxPosImpulse: -1, MaxRotImpulse: 1}},
		{"negative rotation impulse", Options{MaxPosImpulse: 1, MaxRotImpulse: -0.1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := sleepingBody()
			var c PointConstraint
			if err := c.Init(physics.Handle{}, &body, tt.opts); !errors.Is(err, ErrNegativeImpulse) {
				t.Errorf("Init() error = %v, want ErrNegativeImpulse", err)
			}
			if !body.Sleeping {
				t.Error("rejected Init woke the body")
			}
		})
	}
}

func TestPointConstraint_UpdateTargetWakes(t *testing.T) {
	body := sleepingBody()
	var c PointConstraint
	if err := c.Init(physics.Handle{}, &body, DefaultOptions()); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	body.Sleep()

	pos := mgl32.Vec3{4, 5, 6}
	rot := mgl32.QuatRotate(1, mgl32.Vec3{1, 0, 0})
	c.UpdateTarget(&body, pos, rot)

	if c.TargetPos != pos || c.TargetRot != rot {
		t.Errorf("target = %v %v, want %v %v", c.TargetPos, c.TargetRot, pos, rot)
	}
	if body.Sleeping || body.SleepFrames != physics.IdleSleepFrames {
		t.Errorf("body not woken: Sleeping=%v SleepFrames=%d", body.Sleeping, body.SleepFrames)
	}
}
