package main

import (
	"flag"
	"fmt"
	"os"

	"carry-engine/internal/debug"
	"carry-engine/internal/engineconfig"
	"carry-engine/internal/graphics"
	"carry-engine/internal/logger"
	"carry-engine/internal/scenario"
	"carry-engine/internal/scene"
	"carry-engine/internal/script"
	"carry-engine/internal/simulation"
)

func main() {
	configPath := flag.String("config", engineconfig.DefaultPath, "engine config file (defaults used when missing)")
	scenarioPath := flag.String("scenario", "", "scenario file (built-in demo when empty)")
	view := flag.Bool("view", false, "open a window and play the scenario one tick per frame")
	flag.Parse()

	if err := run(*configPath, *scenarioPath, *view); err != nil {
		fmt.Fprintln(os.Stderr, "carry:", err)
		os.Exit(1)
	}
}

func run(configPath, scenarioPath string, view bool) error {
	cfg, err := engineconfig.Load(configPath)
	if err != nil {
		return err
	}
	log := logger.New(cfg.Log.Path)
	sim, err := simulation.New(cfg, log)
	if err != nil {
		return err
	}

	sc := scenario.Demo()
	if scenarioPath != "" {
		if sc, err = scenario.Load(scenarioPath); err != nil {
			return err
		}
	}
	r := script.NewRunner(sim, sc, os.Stdout)

	if !view {
		if err := r.RunAll(); err != nil {
			return err
		}
		for _, line := range log.Lines() {
			fmt.Println(line)
		}
		return nil
	}

	scn := scene.New()
	scn.SetGridVisible(cfg.View.GridVisible)
	scn.SetShowContacts(cfg.View.ShowContacts)
	overlay := debug.New()
	overlay.ShowFPS = cfg.View.ShowFPS
	overlay.ShowMemAlloc = cfg.View.ShowMemAlloc
	var scriptErr error
	update := func() {
		scn.Update()
		if scriptErr != nil || r.Done() {
			return
		}
		if scriptErr = r.Advance(); scriptErr != nil {
			log.Logf("script stopped: %v", scriptErr)
		}
	}
	draw := func() {
		scn.Draw(sim)
		overlay.Draw(sim)
	}
	graphics.Run("carry - "+sc.Name, update, draw)
	return scriptErr
}
