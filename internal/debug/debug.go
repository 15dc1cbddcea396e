package debug

import (
	"fmt"
	"runtime"

	rl "github.com/gen2brain/raylib-go/raylib"

	"carry-engine/internal/constraint"
	"carry-engine/internal/simulation"
)

const (
	fontSize   = 20
	padding    = 12
	lineHeight = fontSize + 4
	logLines   = 6
	// updateInterval: only refresh FPS/Mem text every N frames to reduce allocations.
	updateInterval = 30
)

// Overlay draws simulation counters in the top-left corner and FPS/memory at the top-right.
type Overlay struct {
	ShowFPS      bool
	ShowMemAlloc bool
	ShowLog      bool
	frameCount   uint32
	lastFpsText  string
	lastMemText  string
	lastMemStats runtime.MemStats
}

// New returns an overlay with only the simulation counters and log tail visible.
func New() *Overlay {
	return &Overlay{ShowLog: true}
}

// Draw renders the overlay. Call after the 3D scene in the draw loop.
func (o *Overlay) Draw(sim *simulation.Simulation) {
	o.drawRuntime()

	y := int32(padding)
	line := func(text string, c rl.Color) {
		rl.DrawText(text, padding, y, fontSize, c)
		y += lineHeight
	}

	line(fmt.Sprintf("Tick: %d", sim.Tick()), rl.RayWhite)
	line(fmt.Sprintf("Bodies: %d  Contacts: %d", sim.World.Objects.Len(), sim.World.Contacts.Len()), rl.RayWhite)

	broken := 0
	sim.Constraints.Each(func(id constraint.ID, _ *constraint.PointConstraint) {
		if st, ok := sim.State(id); ok && st == constraint.BrokenFail {
			broken++
		}
	})
	col := rl.RayWhite
	if broken > 0 {
		col = rl.Red
	}
	line(fmt.Sprintf("Constraints: %d  broken: %d", sim.Constraints.Len(), broken), col)

	if !o.ShowLog {
		return
	}
	lines := sim.Log().Lines()
	if len(lines) > logLines {
		lines = lines[len(lines)-logLines:]
	}
	for _, l := range lines {
		line(l, rl.LightGray)
	}
}

// drawRuntime draws FPS and heap size right-aligned. Text is only recomputed every
// updateInterval frames.
func (o *Overlay) drawRuntime() {
	o.frameCount++
	update := o.frameCount%updateInterval == 0
	if (o.ShowFPS && o.lastFpsText == "") || (o.ShowMemAlloc && o.lastMemText == "") {
		update = true
	}

	screenW := int32(rl.GetScreenWidth())
	y := int32(padding)
	right := func(text string) {
		w := rl.MeasureText(text, fontSize)
		rl.DrawText(text, screenW-w-padding, y, fontSize, rl.Green)
		y += lineHeight
	}

	if o.ShowFPS {
		if update {
			o.lastFpsText = fmt.Sprintf("FPS: %d", rl.GetFPS())
		}
		right(o.lastFpsText)
	}
	if o.ShowMemAlloc {
		if update {
			runtime.ReadMemStats(&o.lastMemStats)
			o.lastMemText = fmt.Sprintf("Mem: %.2f MiB", float64(o.lastMemStats.Alloc)/(1024*1024))
		}
		right(o.lastMemText)
	}
}
