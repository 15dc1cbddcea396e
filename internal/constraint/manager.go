package constraint

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"

	"carry-engine/internal/physics"
)

// ID refers to a constraint held by a Manager. The zero ID is never valid.
type ID struct {
	index uint32
	gen   uint32
}

type managed struct {
	c     PointConstraint
	gen   uint32
	alive bool
}

// Result reports what happened to one constraint during Solve.
type Result struct {
	ID     ID
	Object physics.Handle
	State  State
	Err    error
}

// Manager owns the point constraints of a simulation and solves them each tick.
type Manager struct {
	solver *Solver
	slots  []managed
	free   []uint32
	count  int
}

// NewManager returns an empty manager that solves with solver.
func NewManager(solver *Solver) *Manager {
	return &Manager{solver: solver}
}

// Solver returns the solver used by Solve.
func (m *Manager) Solver() *Solver {
	return m.solver
}

// Add creates a constraint on object h, targeting its current pose.
func (m *Manager) Add(h physics.Handle, opts Options) (ID, error) {
	body, ok := m.solver.Objects.Body(h)
	if !ok {
		return ID{}, ErrInvalidObject
	}
	var c PointConstraint
	if err := c.Init(h, body, opts); err != nil {
		return ID{}, err
	}

	var idx uint32
	if n := len(m.free); n > 0 {
		idx = m.free[n-1]
		m.free = m.free[:n-1]
	} else {
		idx = uint32(len(m.slots))
		m.slots = append(m.slots, managed{})
	}
	s := &m.slots[idx]
	s.gen++
	s.c = c
	s.alive = true
	m.count++
	return ID{index: idx, gen: s.gen}, nil
}

// Get returns the constraint for id.
func (m *Manager) Get(id ID) (*PointConstraint, bool) {
	if id.gen == 0 || int(id.index) >= len(m.slots) {
		return nil, false
	}
	s := &m.slots[id.index]
	if !s.alive || s.gen != id.gen {
		return nil, false
	}
	return &s.c, true
}

// UpdateTarget moves the target of constraint id and wakes its body.
func (m *Manager) UpdateTarget(id ID, pos mgl32.Vec3, rot mgl32.Quat) error {
	c, ok := m.Get(id)
	if !ok {
		return ErrUnknownConstraint
	}
	body, ok := m.solver.Objects.Body(c.Object)
	if !ok {
		return ErrInvalidObject
	}
	c.UpdateTarget(body, pos, rot)
	return nil
}

// Remove deletes constraint id. Returns false if it was already gone.
func (m *Manager) Remove(id ID) bool {
	if _, ok := m.Get(id); !ok {
		return false
	}
	s := &m.slots[id.index]
	s.alive = false
	s.c = PointConstraint{}
	m.free = append(m.free, id.index)
	m.count--
	return true
}

// Len returns the number of live constraints.
func (m *Manager) Len() int {
	return m.count
}

// Each calls f for every live constraint.
func (m *Manager) Each(f func(ID, *PointConstraint)) {
	for i := range m.slots {
		s := &m.slots[i]
		if s.alive {
			f(ID{index: uint32(i), gen: s.gen}, &s.c)
		}
	}
}

// Find returns the constraint attached to object h, if any.
func (m *Manager) Find(h physics.Handle) (ID, bool) {
	for i := range m.slots {
		s := &m.slots[i]
		if s.alive && s.c.Object == h {
			return ID{index: uint32(i), gen: s.gen}, true
		}
	}
	return ID{}, false
}

// Solve runs every constraint once. Constraints whose object was destroyed are removed;
// broken constraints are kept and retried next tick.
func (m *Manager) Solve() []Result {
	results := make([]Result, 0, m.count)
	var dropped []ID
	m.Each(func(id ID, c *PointConstraint) {
		state, err := m.solver.Solve(c)
		results = append(results, Result{ID: id, Object: c.Object, State: state, Err: err})
		if errors.Is(err, ErrInvalidObject) {
			dropped = append(dropped, id)
		}
	})
	for _, id := range dropped {
		m.Remove(id)
	}
	return results
}
