package physics

import (
	"iter"

	"github.com/go-gl/mathgl/mgl32"
)

// DefaultSleepVelocity is the speed below which a body counts down toward sleep.
const DefaultSleepVelocity = 0.05

// World holds a set of objects and runs a simple 3D physics step: gravity, integration, sleep,
// AABB collision. Overlaps found during a step are recorded in Contacts for the next tick's solvers.
type World struct {
	Gravity       mgl32.Vec3
	SleepVelocity float32
	Objects       *Pool
	Contacts      *ContactRegistry
}

// NewWorld returns a new physics world with default gravity (0, -9.8, 0); the scene is Y-up.
func NewWorld() *World {
	return &World{
		Gravity:       mgl32.Vec3{0, -9.8, 0},
		SleepVelocity: DefaultSleepVelocity,
		Objects:       NewPool(),
		Contacts:      NewContactRegistry(),
	}
}

// SetGravity sets the gravity vector (e.g. (0, -9.8, 0) for down in -Y).
func (w *World) SetGravity(g mgl32.Vec3) {
	w.Gravity = g
}

// AddBody adds a named body to the world and returns its handle.
func (w *World) AddBody(name string, b Body) Handle {
	return w.Objects.Add(Object{Name: name, Body: b})
}

// RemoveBody removes the object behind h. Handles to it become invalid.
func (w *World) RemoveBody(h Handle) bool {
	return w.Objects.Remove(h)
}

// Object returns the object behind h.
func (w *World) Object(h Handle) (*Object, bool) {
	return w.Objects.Get(h)
}

// Body returns the rigid body behind h.
func (w *World) Body(h Handle) (*Body, bool) {
	obj, ok := w.Objects.Get(h)
	if !ok {
		return nil, false
	}
	return &obj.Body, true
}

// Touching yields the manifolds from the last step that involve h.
func (w *World) Touching(h Handle) iter.Seq[*Manifold] {
	return w.Contacts.Touching(h)
}

type aabb struct {
	min, max mgl32.Vec3
}

// bodyAABB returns the AABB for a body (center position, half extents from scale).
// Rotation is ignored; the world only resolves axis-aligned boxes.
func bodyAABB(b *Body) aabb {
	half := b.halfExtents()
	return aabb{min: b.Position.Sub(half), max: b.Position.Add(half)}
}

// penetrationAxis returns the overlap amount and axis index (0=X, 1=Y, 2=Z) for the minimum penetration.
// If no overlap, returns (0, -1).
func penetrationAxis(a, b aabb) (depth float32, axis int) {
	axis = -1
	for i := 0; i < 3; i++ {
		overlap := min(a.max[i], b.max[i]) - max(a.min[i], b.min[i])
		if overlap <= 0 {
			return 0, -1
		}
		if axis < 0 || overlap < depth {
			depth = overlap
			axis = i
		}
	}
	return depth, axis
}

type entry struct {
	h Handle
	b *Body
}

// Step advances the simulation by dt seconds: apply gravity, integrate, resolve AABB overlaps
// (rebuilding the contact registry), then count down sleep.
// No global floor: dynamic bodies can fall until they hit another body (e.g. a static plane).
func (w *World) Step(dt float32) {
	var bodies []entry
	w.Objects.Each(func(h Handle, obj *Object) {
		bodies = append(bodies, entry{h: h, b: &obj.Body})
	})

	for _, e := range bodies {
		b := e.b
		if b.Static || b.Sleeping {
			continue
		}
		b.Velocity = b.Velocity.Add(w.Gravity.Mul(dt))
		b.Position = b.Position.Add(b.Velocity.Mul(dt))
		b.Rotation = integrateRotation(b.Rotation, b.AngularVelocity, dt)
	}

	w.Contacts.Reset()
	for i := 0; i < len(bodies); i++ {
		bi := bodies[i].b
		for j := i + 1; j < len(bodies); j++ {
			bj := bodies[j].b
			if bi.Static && bj.Static {
				continue
			}
			depth, axis := penetrationAxis(bodyAABB(bi), bodyAABB(bj))
			if axis < 0 {
				continue
			}
			// Normal from i toward j along the separating axis.
			var normal mgl32.Vec3
			normal[axis] = 1
			if bj.Position[axis] < bi.Position[axis] {
				normal[axis] = -1
			}
			w.Contacts.Add(Manifold{A: bodies[i].h, B: bodies[j].h, Normal: normal, Depth: depth})
			separate(bi, bj, normal, depth, axis)
			wakeTouched(bi, bj)
		}
	}

	// Sleep is judged after contacts so a body resting on a floor is not kept awake by gravity.
	for _, e := range bodies {
		if !e.b.Static && !e.b.Sleeping {
			w.countdownSleep(e.b)
		}
	}
}

// separate pushes a pair apart along axis, split by mass. Static bodies don't move.
func separate(bi, bj *Body, normal mgl32.Vec3, depth float32, axis int) {
	var moveI, moveJ float32
	switch {
	case bi.Static:
		moveJ = depth
	case bj.Static:
		moveI = depth
	default:
		total := bi.Mass + bj.Mass
		moveI = depth * (bj.Mass / total)
		moveJ = depth * (bi.Mass / total)
	}
	bi.Position = bi.Position.Sub(normal.Mul(moveI))
	bj.Position = bj.Position.Add(normal.Mul(moveJ))
	if !bi.Static {
		bi.Velocity[axis] = 0
	}
	if !bj.Static {
		bj.Velocity[axis] = 0
	}
}

// wakeTouched activates a sleeping body that an awake dynamic body ran into.
func wakeTouched(bi, bj *Body) {
	if bi.Sleeping && !bj.Sleeping && !bj.Static {
		bi.Activate()
	}
	if bj.Sleeping && !bi.Sleeping && !bi.Static {
		bj.Activate()
	}
}

func (w *World) countdownSleep(b *Body) {
	threshold := w.SleepVelocity
	if b.Velocity.Len() >= threshold || b.AngularVelocity.Len() >= threshold {
		b.SleepFrames = IdleSleepFrames
		return
	}
	b.SleepFrames--
	if b.SleepFrames <= 0 {
		b.Sleep()
	}
}

// integrateRotation advances q by angular velocity w over dt using the quaternion derivative.
func integrateRotation(q mgl32.Quat, w mgl32.Vec3, dt float32) mgl32.Quat {
	if w.Dot(w) == 0 {
		return q
	}
	spin := mgl32.Quat{W: 0, V: w}.Mul(q).Scale(0.5 * dt)
	return q.Add(spin).Normalize()
}
