package graphics

import rl "github.com/gen2brain/raylib-go/raylib"

const (
	windowWidth  = 1280
	windowHeight = 720
	targetFPS    = 60
)

// Run opens a window and runs the main loop. Each frame it calls update (e.g. advance the simulation),
// then clears the screen and calls draw. The loop ends when the window is closed or ESC is pressed.
func Run(title string, update, draw func()) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(windowWidth, windowHeight, title)
	defer rl.CloseWindow()

	// One simulation tick per frame keeps playback at real time for a 60 Hz timestep.
	rl.SetTargetFPS(targetFPS)

	for !rl.WindowShouldClose() {
		update()

		rl.BeginDrawing()
		rl.ClearBackground(rl.Black)
		draw()
		rl.EndDrawing()
	}
}
