package physics

import (
	"iter"

	"github.com/go-gl/mathgl/mgl32"
)

// Manifold records an overlapping pair. Normal points from A toward B.
type Manifold struct {
	A, B   Handle
	Normal mgl32.Vec3
	Depth  float32
}

// Involves reports whether h is either side of the manifold.
func (m *Manifold) Involves(h Handle) bool {
	return m.A == h || m.B == h
}

// ContactRegistry holds the manifolds found during the last world step.
// It owns the storage; iteration hands out pointers into it that are valid until the next Reset.
type ContactRegistry struct {
	manifolds []Manifold
}

// NewContactRegistry returns an empty registry.
func NewContactRegistry() *ContactRegistry {
	return &ContactRegistry{}
}

// Reset drops all manifolds, keeping capacity.
func (r *ContactRegistry) Reset() {
	r.manifolds = r.manifolds[:0]
}

// Add records a manifold.
func (r *ContactRegistry) Add(m Manifold) {
	r.manifolds = append(r.manifolds, m)
}

// Len returns the number of manifolds recorded.
func (r *ContactRegistry) Len() int {
	return len(r.manifolds)
}

// All returns every recorded manifold.
func (r *ContactRegistry) All() []Manifold {
	return r.manifolds
}

// Next returns the manifold touching h that follows prev, or nil when there are no more.
// Passing a nil prev restarts from the beginning.
func (r *ContactRegistry) Next(h Handle, prev *Manifold) *Manifold {
	start := 0
	if prev != nil {
		start = r.indexOf(prev) + 1
		if start == 0 {
			return nil
		}
	}
	for i := start; i < len(r.manifolds); i++ {
		if r.manifolds[i].Involves(h) {
			return &r.manifolds[i]
		}
	}
	return nil
}

// Touching yields the manifolds involving h. The sequence is lazy and may be ranged over again.
func (r *ContactRegistry) Touching(h Handle) iter.Seq[*Manifold] {
	return func(yield func(*Manifold) bool) {
		for i := range r.manifolds {
			m := &r.manifolds[i]
			if m.Involves(h) && !yield(m) {
				return
			}
		}
	}
}

// indexOf returns the slot of m within the registry storage, or -1 if m does not point into it.
func (r *ContactRegistry) indexOf(m *Manifold) int {
	for i := range r.manifolds {
		if &r.manifolds[i] == m {
			return i
		}
	}
	return -1
}
