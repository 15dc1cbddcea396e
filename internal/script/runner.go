// Package script plays scenario scripts against a simulation, one command or one tick at a time.
package script

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"

	"github.com/go-gl/mathgl/mgl32"

	"carry-engine/internal/commands"
	"carry-engine/internal/constraint"
	"carry-engine/internal/physics"
	"carry-engine/internal/scenario"
	"carry-engine/internal/simulation"
)

// Runner plays a scenario script against a simulation, one command or one tick per Advance.
// Command output such as status and flag usage goes to the writer given to NewRunner.
type Runner struct {
	sim     *simulation.Simulation
	cmds    *commands.Registry
	out     io.Writer
	script  []string
	pc      int
	pending int
	bodies  map[string]physics.Handle
	grabs   map[string]constraint.ID
}

// NewRunner spawns the scenario bodies into sim and prepares its script.
func NewRunner(sim *simulation.Simulation, sc scenario.Scenario, out io.Writer) *Runner {
	r := &Runner{
		sim:    sim,
		cmds:   commands.NewRegistry(),
		out:    out,
		script: sc.Script,
		bodies: make(map[string]physics.Handle),
		grabs:  make(map[string]constraint.ID),
	}
	for _, def := range sc.Bodies {
		r.bodies[def.Name] = sim.Spawn(def.Name, def.Body())
	}
	r.register()
	return r
}

// Done reports whether the script has finished and no ticks are pending.
func (r *Runner) Done() bool {
	return r.pending == 0 && r.pc >= len(r.script)
}

// Advance runs one pending tick, or else the next script command.
func (r *Runner) Advance() error {
	if r.pending > 0 {
		r.pending--
		r.sim.Step()
		return nil
	}
	for r.pc < len(r.script) {
		line := r.script[r.pc]
		r.pc++
		args, ok := commands.Parse(line)
		if !ok {
			continue
		}
		if err := r.cmds.Execute(args); err != nil {
			return fmt.Errorf("line %d %q: %w", r.pc, line, err)
		}
		return nil
	}
	return nil
}

// RunAll advances until the script is finished.
func (r *Runner) RunAll() error {
	for !r.Done() {
		if err := r.Advance(); err != nil {
			return err
		}
	}
	return nil
}

func newFlagSet(name string, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)
	return fs
}

func (r *Runner) register() {
	grab := newFlagSet("grab", r.out)
	defaults := constraint.DefaultOptions()
	posImpulse := grab.Float64("pos-impulse", float64(defaults.MaxPosImpulse), "max linear velocity change per tick")
	rotImpulse := grab.Float64("rot-impulse", float64(defaults.MaxRotImpulse), "max angular velocity change per tick")
	teleport := grab.Bool("teleport", defaults.TeleportOnBreak, "snap to target instead of breaking")
	scale := grab.Float64("scale", float64(defaults.MovementScale), "velocity scale once the target is within reach")
	r.cmds.Register("grab", grab, func() error {
		name, h, err := r.body(grab.Args())
		if err != nil {
			return err
		}
		if _, held := r.grabs[name]; held {
			return fmt.Errorf("%s is already held", name)
		}
		id, err := r.sim.Grab(h, constraint.Options{
			MaxPosImpulse:   float32(*posImpulse),
			MaxRotImpulse:   float32(*rotImpulse),
			TeleportOnBreak: *teleport,
			MovementScale:   float32(*scale),
		})
		if err != nil {
			return err
		}
		r.grabs[name] = id
		return nil
	})

	target := newFlagSet("target", r.out)
	yaw := target.Float64("yaw", 0, "target rotation about +Y in degrees")
	r.cmds.Register("target", target, func() error {
		args := target.Args()
		if len(args) != 4 {
			return errors.New("usage: target [-yaw deg] <body> x y z")
		}
		id, err := r.grab(args[0])
		if err != nil {
			return err
		}
		pos, err := parseVec3(args[1:])
		if err != nil {
			return err
		}
		rot := mgl32.QuatRotate(mgl32.DegToRad(float32(*yaw)), mgl32.Vec3{0, 1, 0})
		return r.sim.MoveTarget(id, pos, rot)
	})

	release := newFlagSet("release", r.out)
	r.cmds.Register("release", release, func() error {
		if release.NArg() != 1 {
			return errors.New("usage: release <body>")
		}
		name := release.Arg(0)
		id, err := r.grab(name)
		if err != nil {
			return err
		}
		r.sim.Release(id)
		delete(r.grabs, name)
		return nil
	})

	step := newFlagSet("step", r.out)
	n := step.Int("n", 1, "ticks to simulate")
	r.cmds.Register("step", step, func() error {
		if *n < 0 {
			return fmt.Errorf("step count %d is negative", *n)
		}
		r.pending += *n
		return nil
	})

	despawn := newFlagSet("despawn", r.out)
	r.cmds.Register("despawn", despawn, func() error {
		name, h, err := r.body(despawn.Args())
		if err != nil {
			return err
		}
		r.sim.Despawn(h)
		delete(r.bodies, name)
		delete(r.grabs, name)
		return nil
	})

	r.cmds.Register("status", newFlagSet("status", r.out), r.status)
}

func (r *Runner) body(args []string) (string, physics.Handle, error) {
	if len(args) != 1 {
		return "", physics.Handle{}, errors.New("expected one body name")
	}
	h, ok := r.bodies[args[0]]
	if !ok {
		return "", physics.Handle{}, fmt.Errorf("no body named %q", args[0])
	}
	return args[0], h, nil
}

func (r *Runner) grab(name string) (constraint.ID, error) {
	id, ok := r.grabs[name]
	if !ok {
		return constraint.ID{}, fmt.Errorf("%s is not held", name)
	}
	return id, nil
}

func (r *Runner) status() error {
	states, err := r.sim.Snapshot()
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "tick %d (%.3fs)\n", r.sim.Tick(), float32(r.sim.Tick())*r.sim.Timestep())
	for _, st := range states {
		sleep := ""
		if st.Sleeping {
			sleep = " asleep"
		}
		held := ""
		if _, ok := r.grabs[st.Name]; ok {
			held = " held"
		}
		p, v := st.Position, st.Velocity
		fmt.Fprintf(r.out, "  %-10s pos (%.3f, %.3f, %.3f) vel (%.3f, %.3f, %.3f)%s%s\n",
			st.Name, p[0], p[1], p[2], v[0], v[1], v[2], held, sleep)
	}
	return nil
}

func parseVec3(args []string) (mgl32.Vec3, error) {
	var v mgl32.Vec3
	for i, s := range args {
		f, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return v, fmt.Errorf("coordinate %q: %w", s, err)
		}
		v[i] = float32(f)
	}
	return v, nil
}
