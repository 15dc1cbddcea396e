package constraint

import (
	"github.com/go-gl/mathgl/mgl32"

	"carry-engine/internal/physics"
)

// deflect removes part of the velocity that would push h into the things it is touching.
// The overlap test uses the normal pointing from the other body toward h; the correction is
// applied along the manifold's stored A-to-B normal.
func (s *Solver) deflect(h physics.Handle, v mgl32.Vec3) mgl32.Vec3 {
	if s.Contacts == nil {
		return v
	}
	for m := range s.Contacts.Touching(h) {
		normal := m.Normal
		if m.A == h {
			normal = normal.Mul(-1)
		}
		overlap := normal.Dot(v)
		if overlap < 0 {
			v = v.Add(m.Normal.Mul(-overlap * contactDeflection))
		}
	}
	return v
}
