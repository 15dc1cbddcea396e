// Package simulation advances a physics world and its point constraints in fixed ticks.
package simulation

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/jinzhu/copier"

	"carry-engine/internal/constraint"
	"carry-engine/internal/engineconfig"
	"carry-engine/internal/logger"
	"carry-engine/internal/physics"
)

// Simulation owns a world and the constraints acting on it. Every Step solves each constraint
// once against the contacts of the previous step, then integrates the world.
type Simulation struct {
	World       *physics.World
	Constraints *constraint.Manager

	log      *logger.Logger
	timestep float32
	tick     uint64
	states   map[constraint.ID]constraint.State
}

// Report summarizes one Step.
type Report struct {
	Tick     uint64
	Results  []constraint.Result
	Contacts int
}

// BodyState is a copy of the public pose and motion of one body.
type BodyState struct {
	Name            string
	Handle          physics.Handle
	Position        mgl32.Vec3
	Rotation        mgl32.Quat
	Velocity        mgl32.Vec3
	AngularVelocity mgl32.Vec3
	Sleeping        bool
}

// New returns an empty simulation configured by cfg. log may be nil.
func New(cfg engineconfig.Config, log *logger.Logger) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.New("")
	}
	w := physics.NewWorld()
	w.SetGravity(mgl32.Vec3(cfg.Physics.Gravity))
	w.SleepVelocity = cfg.Physics.SleepVelocity

	return &Simulation{
		World:       w,
		Constraints: constraint.NewManager(constraint.NewSolver(w, w, cfg.Physics.Timestep)),
		log:         log,
		timestep:    cfg.Physics.Timestep,
		states:      make(map[constraint.ID]constraint.State),
	}, nil
}

// Timestep returns the seconds simulated per Step.
func (s *Simulation) Timestep() float32 {
	return s.timestep
}

// Tick returns the number of completed steps.
func (s *Simulation) Tick() uint64 {
	return s.tick
}

// Log returns the simulation's logger.
func (s *Simulation) Log() *logger.Logger {
	return s.log
}

// Spawn adds a named body.
func (s *Simulation) Spawn(name string, body physics.Body) physics.Handle {
	return s.World.AddBody(name, body)
}

// Despawn removes a body. Constraints on it are dropped during the next Step.
func (s *Simulation) Despawn(h physics.Handle) bool {
	return s.World.RemoveBody(h)
}

// Grab attaches a point constraint to h, holding it at its current pose.
func (s *Simulation) Grab(h physics.Handle, opts constraint.Options) (constraint.ID, error) {
	obj, ok := s.World.Object(h)
	if !ok {
		return constraint.ID{}, constraint.ErrInvalidObject
	}
	id, err := s.Constraints.Add(h, opts)
	if err != nil {
		return id, fmt.Errorf("grab %s: %w", obj.Name, err)
	}
	s.states[id] = constraint.Tracking
	s.log.Logf("tick %d: grabbed %s", s.tick, obj.Name)
	return id, nil
}

// MoveTarget sets the pose the constraint id pulls toward.
func (s *Simulation) MoveTarget(id constraint.ID, pos mgl32.Vec3, rot mgl32.Quat) error {
	return s.Constraints.UpdateTarget(id, pos, rot)
}

// Release removes constraint id.
func (s *Simulation) Release(id constraint.ID) bool {
	c, ok := s.Constraints.Get(id)
	if !ok {
		return false
	}
	s.log.Logf("tick %d: released %s", s.tick, s.name(c.Object))
	delete(s.states, id)
	return s.Constraints.Remove(id)
}

// State returns the state constraint id reached on the last Step.
func (s *Simulation) State(id constraint.ID) (constraint.State, bool) {
	st, ok := s.states[id]
	return st, ok
}

// Step solves all constraints and advances the world by one timestep.
func (s *Simulation) Step() Report {
	results := s.Constraints.Solve()
	s.World.Step(s.timestep)
	s.tick++

	for _, r := range results {
		s.record(r)
	}
	return Report{Tick: s.tick, Results: results, Contacts: s.World.Contacts.Len()}
}

// record logs a constraint whenever its state differs from the previous tick.
func (s *Simulation) record(r constraint.Result) {
	if errors.Is(r.Err, constraint.ErrInvalidObject) {
		s.log.Logf("tick %d: dropped constraint, object destroyed", s.tick)
		delete(s.states, r.ID)
		return
	}
	prev, seen := s.states[r.ID]
	s.states[r.ID] = r.State
	if seen && prev == r.State && r.State != constraint.BrokenTeleport {
		return
	}
	s.log.Logf("tick %d: %s %s", s.tick, s.name(r.Object), r.State)
}

func (s *Simulation) name(h physics.Handle) string {
	if obj, ok := s.World.Object(h); ok {
		return obj.Name
	}
	return "<destroyed>"
}

// Snapshot copies the state of every body in the world.
func (s *Simulation) Snapshot() ([]BodyState, error) {
	out := make([]BodyState, 0, s.World.Objects.Len())
	var err error
	s.World.Objects.Each(func(h physics.Handle, obj *physics.Object) {
		if err != nil {
			return
		}
		var st BodyState
		if err = copier.Copy(&st, &obj.Body); err != nil {
			err = fmt.Errorf("snapshot %s: %w", obj.Name, err)
			return
		}
		st.Name = obj.Name
		st.Handle = h
		out = append(out, st)
	})
	return out, err
}
