package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	rl "github.com/gen2brain/raylib-go/raylib"

	"carry-engine/internal/constraint"
	"carry-engine/internal/physics"
	"carry-engine/internal/simulation"
)

const (
	gridExtent     = 20
	gridMinorStep  = 1
	gridMajorStep  = 5
	gridMinorAlpha = 50
	gridMajorAlpha = 120
	axisLineAlpha  = 220
	targetRadius   = 0.06
	contactLength  = 0.5
)

// Scene holds a 3D camera and draws a simulation: bodies, constraint targets and contacts.
type Scene struct {
	Camera       rl.Camera3D
	GridVisible  bool
	ShowContacts bool
}

// New returns a scene with a perspective camera looking at the origin.
// Camera: position (8,6,8), target (0,1,0), up (0,1,0), fovy 45°. Grid is visible by default.
func New() *Scene {
	s := &Scene{}
	s.Camera.Position = rl.NewVector3(8, 6, 8)
	s.Camera.Target = rl.NewVector3(0, 1, 0)
	s.Camera.Up = rl.NewVector3(0, 1, 0)
	s.Camera.Fovy = 45
	s.Camera.Projection = rl.CameraPerspective
	s.GridVisible = true
	return s
}

// SetGridVisible sets whether the editor grid is drawn.
func (s *Scene) SetGridVisible(visible bool) {
	s.GridVisible = visible
}

// SetShowContacts sets whether contact normals are drawn.
func (s *Scene) SetShowContacts(show bool) {
	s.ShowContacts = show
}

// Update runs once per frame; the camera slowly orbits the target.
func (s *Scene) Update() {
	rl.UpdateCamera(&s.Camera, rl.CameraOrbital)
}

// Draw renders the simulation in 3D. Call between BeginDrawing and EndDrawing, before any 2D overlay.
func (s *Scene) Draw(sim *simulation.Simulation) {
	rl.BeginMode3D(s.Camera)
	if s.GridVisible {
		drawEditorGrid()
	}
	sim.World.Objects.Each(func(_ physics.Handle, obj *physics.Object) {
		drawBody(&obj.Body)
	})
	if s.ShowContacts {
		for _, m := range sim.World.Contacts.All() {
			drawContact(sim.World, m)
		}
	}
	sim.Constraints.Each(func(_ constraint.ID, c *constraint.PointConstraint) {
		drawTarget(sim.World, c)
	})
	rl.EndMode3D()
}

func vec(v mgl32.Vec3) rl.Vector3 {
	return rl.NewVector3(v[0], v[1], v[2])
}

// drawBody draws the body's AABB and its local X axis so rotation is visible.
func drawBody(b *physics.Body) {
	c := rl.SkyBlue
	switch {
	case b.Static:
		c = rl.Gray
	case b.Sleeping:
		c = rl.DarkBlue
	}
	pos := vec(b.Position)
	size := vec(b.Scale)
	if !b.Static {
		rl.DrawCubeV(pos, size, rl.Fade(c, 0.3))
	}
	rl.DrawCubeWiresV(pos, size, c)

	axis := b.Rotation.Rotate(mgl32.Vec3{b.Scale[0] * 0.5, 0, 0})
	rl.DrawLine3D(pos, vec(b.Position.Add(axis)), rl.Red)
}

// drawContact draws the manifold normal from the A body's center.
func drawContact(w *physics.World, m physics.Manifold) {
	a, ok := w.Body(m.A)
	if !ok {
		return
	}
	end := a.Position.Add(m.Normal.Mul(contactLength))
	rl.DrawLine3D(vec(a.Position), vec(end), rl.Yellow)
}

// drawTarget draws the target point and a line from the body to it, red when out of reach.
func drawTarget(w *physics.World, c *constraint.PointConstraint) {
	b, ok := w.Body(c.Object)
	if !ok {
		return
	}
	col := rl.Green
	if constraint.Classify(c.TargetPos.Sub(b.Position).Len(), c.TeleportOnBreak) == constraint.BrokenFail {
		col = rl.Red
	}
	rl.DrawSphere(vec(c.TargetPos), targetRadius, col)
	rl.DrawLine3D(vec(b.Position), vec(c.TargetPos), col)
}

// drawEditorGrid draws a grid on the XZ plane with major/minor lines and axis lines.
// Reuses start/end vectors to avoid per-frame allocations in the hot loop.
func drawEditorGrid() {
	minor := rl.NewColor(128, 128, 128, gridMinorAlpha)
	major := rl.NewColor(160, 160, 160, gridMajorAlpha)
	axisX := rl.NewColor(220, 80, 80, axisLineAlpha)
	axisZ := rl.NewColor(80, 80, 220, axisLineAlpha)

	var start, end rl.Vector3
	for i := -gridExtent; i <= gridExtent; i += gridMinorStep {
		c := major
		if i%gridMajorStep != 0 {
			c = minor
		}
		start.X, start.Y, start.Z = float32(i), 0, float32(-gridExtent)
		end.X, end.Y, end.Z = float32(i), 0, float32(gridExtent)
		rl.DrawLine3D(start, end, c)
		start.X, start.Y, start.Z = float32(-gridExtent), 0, float32(i)
		end.X, end.Y, end.Z = float32(gridExtent), 0, float32(i)
		rl.DrawLine3D(start, end, c)
	}

	// Axis lines through origin (X=red, Z=blue)
	start.X, start.Y, start.Z = float32(-gridExtent), 0, 0
	end.X, end.Y, end.Z = float32(gridExtent), 0, 0
	rl.DrawLine3D(start, end, axisX)
	start.X, start.Y, start.Z = 0, 0, float32(-gridExtent)
	end.X, end.Y, end.Z = 0, 0, float32(gridExtent)
	rl.DrawLine3D(start, end, axisZ)
}
