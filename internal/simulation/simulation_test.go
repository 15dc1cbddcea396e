package simulation

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"carry-engine/internal/constraint"
	"carry-engine/internal/engineconfig"
	"carry-engine/internal/logger"
	"carry-engine/internal/physics"
)

func newTestSim(t *testing.T) *Simulation {
	t.Helper()
	sim, err := New(engineconfig.Default(), logger.New(""))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return sim
}

func spawnFloorAndBox(sim *Simulation) (floor, box physics.Handle) {
	floor = sim.Spawn("floor", physics.NewBody(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{20, 1, 20}, 1, true))
	box = sim.Spawn("box", physics.NewBody(mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 1, 1}, 1, false))
	return floor, box
}

func hasLine(lines []string, substr string) bool {
	for _, l := range lines {
		if strings.Contains(l, substr) {
			return true
		}
	}
	return false
}

func TestNew_RejectsBadTimestep(t *testing.T) {
	cfg := engineconfig.Default()
	cfg.Physics.Timestep = 0
	if _, err := New(cfg, nil); !errors.Is(err, engineconfig.ErrInvalidTimestep) {
		t.Errorf("New() error = %v, want ErrInvalidTimestep", err)
	}
}

func TestSimulation_CarriesBodyToTarget(t *testing.T) {
	sim := newTestSim(t)
	_, box := spawnFloorAndBox(sim)

	id, err := sim.Grab(box, constraint.DefaultOptions())
	if err != nil {
		t.Fatalf("Grab() error = %v", err)
	}
	target := mgl32.Vec3{0.5, 1.8, -0.5}
	if err := sim.MoveTarget(id, target, mgl32.QuatRotate(0.5, mgl32.Vec3{0, 1, 0})); err != nil {
		t.Fatalf("MoveTarget() error = %v", err)
	}

	for i := 0; i < 120; i++ {
		report := sim.Step()
		for _, r := range report.Results {
			if r.Err != nil {
				t.Fatalf("tick %d: %v", report.Tick, r.Err)
			}
		}
	}

	b, _ := sim.World.Body(box)
	if d := target.Sub(b.Position).Len(); d > 0.05 {
		t.Errorf("box at %v, %v from target", b.Position, d)
	}
	if sim.Tick() != 120 {
		t.Errorf("Tick() = %d, want 120", sim.Tick())
	}
}

func TestSimulation_BrokenConstraintIsLoggedOnce(t *testing.T) {
	sim := newTestSim(t)
	_, box := spawnFloorAndBox(sim)
	id, _ := sim.Grab(box, constraint.DefaultOptions())
	sim.MoveTarget(id, mgl32.Vec3{0, 10, 0}, mgl32.QuatIdent())

	for i := 0; i < 5; i++ {
		report := sim.Step()
		if len(report.Results) != 1 || !errors.Is(report.Results[0].Err, constraint.ErrConstraintBroken) {
			t.Fatalf("tick %d results = %+v", report.Tick, report.Results)
		}
	}

	n := 0
	for _, l := range sim.Log().Lines() {
		if strings.Contains(l, "box broken-fail") {
			n++
		}
	}
	if n != 1 {
		t.Errorf("broken-fail logged %d times, want 1", n)
	}
	if st, ok := sim.State(id); !ok || st != constraint.BrokenFail {
		t.Errorf("State() = %v, %v; want broken-fail", st, ok)
	}
}

func TestSimulation_TeleportOnBreak(t *testing.T) {
	sim := newTestSim(t)
	_, box := spawnFloorAndBox(sim)
	opts := constraint.DefaultOptions()
	opts.TeleportOnBreak = true
	id, _ := sim.Grab(box, opts)
	target := mgl32.Vec3{0, 10, 0}
	sim.MoveTarget(id, target, mgl32.QuatIdent())

	report := sim.Step()
	if report.Results[0].State != constraint.BrokenTeleport {
		t.Fatalf("state = %v, want broken-teleport", report.Results[0].State)
	}
	if !hasLine(sim.Log().Lines(), "box broken-teleport") {
		t.Error("teleport not logged")
	}
	b, _ := sim.World.Body(box)
	// Teleported onto the target, then one tick of gravity.
	if d := target.Sub(b.Position).Len(); d > 0.01 {
		t.Errorf("box at %v after teleport", b.Position)
	}
}

func TestSimulation_DespawnDropsConstraint(t *testing.T) {
	sim := newTestSim(t)
	_, box := spawnFloorAndBox(sim)
	id, _ := sim.Grab(box, constraint.DefaultOptions())

	if !sim.Despawn(box) {
		t.Fatal("Despawn() = false")
	}
	sim.Step()

	if _, ok := sim.Constraints.Get(id); ok {
		t.Error("constraint survived its object")
	}
	if !hasLine(sim.Log().Lines(), "dropped constraint") {
		t.Error("drop not logged")
	}
	if _, err := sim.Grab(box, constraint.DefaultOptions()); !errors.Is(err, constraint.ErrInvalidObject) {
		t.Errorf("Grab() on despawned body error = %v, want ErrInvalidObject", err)
	}
}

func TestSimulation_HeldBodyPressedIntoFloorStaysAwake(t *testing.T) {
	sim := newTestSim(t)
	floor, box := spawnFloorAndBox(sim)
	id, _ := sim.Grab(box, constraint.DefaultOptions())
	target := mgl32.Vec3{0, 0, 0}
	if err := sim.MoveTarget(id, target, mgl32.QuatIdent()); err != nil {
		t.Fatalf("MoveTarget() error = %v", err)
	}

	for i := 0; i < 2*physics.IdleSleepFrames; i++ {
		sim.Step()
	}
	b, _ := sim.World.Body(box)
	if b.Sleeping {
		t.Fatalf("box asleep at %v while held %v from its target", b.Position, target.Sub(b.Position).Len())
	}

	// With the floor gone nothing stops the box reaching its target.
	sim.Despawn(floor)
	for i := 0; i < 120; i++ {
		sim.Step()
	}
	if d := target.Sub(b.Position).Len(); d > 0.05 {
		t.Errorf("box at %v, %v from target", b.Position, d)
	}
}

func TestSimulation_Release(t *testing.T) {
	sim := newTestSim(t)
	_, box := spawnFloorAndBox(sim)
	id, _ := sim.Grab(box, constraint.DefaultOptions())

	if !sim.Release(id) {
		t.Fatal("Release() = false")
	}
	if sim.Release(id) {
		t.Error("second Release() = true")
	}
	if sim.Constraints.Len() != 0 {
		t.Errorf("Constraints.Len() = %d, want 0", sim.Constraints.Len())
	}
	if !hasLine(sim.Log().Lines(), "released box") {
		t.Error("release not logged")
	}
}

func TestSimulation_Snapshot(t *testing.T) {
	sim := newTestSim(t)
	floor, box := spawnFloorAndBox(sim)
	b, _ := sim.World.Body(box)
	b.Velocity = mgl32.Vec3{1, 2, 3}

	states, err := sim.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if len(states) != 2 {
		t.Fatalf("Snapshot() = %d states, want 2", len(states))
	}
	if states[0].Name != "floor" || states[0].Handle != floor {
		t.Errorf("states[0] = %+v", states[0])
	}
	got := states[1]
	if got.Name != "box" || got.Handle != box || got.Position != b.Position || got.Velocity != b.Velocity || got.Rotation != b.Rotation {
		t.Errorf("states[1] = %+v, body = %+v", got, b)
	}

	// Snapshots are copies.
	b.Position = mgl32.Vec3{9, 9, 9}
	if got.Position == b.Position {
		t.Error("snapshot aliases the body")
	}
}
