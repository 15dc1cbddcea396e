package engineconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the path to the engine config file, relative to the process working directory.
const DefaultPath = "config/engine.yaml"

// Config holds simulation settings shared by every body and constraint of a run.
type Config struct {
	Physics Physics `yaml:"physics"`
	Log     Log     `yaml:"log"`
	View    View    `yaml:"view"`
}

// Physics configures the fixed-step world.
type Physics struct {
	// Timestep is the simulated time per tick in seconds.
	Timestep float32 `yaml:"timestep"`
	// Gravity is applied to awake dynamic bodies every tick.
	Gravity [3]float32 `yaml:"gravity"`
	// SleepVelocity is the speed under which a body counts down toward sleep.
	SleepVelocity float32 `yaml:"sleep_velocity"`
}

// Log configures the run log. An empty Path keeps the log in memory only.
type Log struct {
	Path string `yaml:"path,omitempty"`
}

// View holds viewer preferences. Headless runs ignore it.
type View struct {
	ShowFPS      bool `yaml:"show_fps"`
	ShowMemAlloc bool `yaml:"show_memalloc"`
	GridVisible  bool `yaml:"grid_visible"`
	ShowContacts bool `yaml:"show_contacts"`
}

var ErrInvalidTimestep = errors.New("physics.timestep must be positive")

// Default returns 60 Hz ticks, Y-down gravity, an in-memory log, and a viewer with FPS and grid shown.
func Default() Config {
	return Config{
		Physics: Physics{
			Timestep:      1.0 / 60.0,
			Gravity:       [3]float32{0, -9.8, 0},
			SleepVelocity: 0.05,
		},
		View: View{ShowFPS: true, GridVisible: true},
	}
}

// Validate reports settings the simulation cannot run with.
func (c Config) Validate() error {
	if !(c.Physics.Timestep > 0) {
		return fmt.Errorf("%w: got %v", ErrInvalidTimestep, c.Physics.Timestep)
	}
	return nil
}

// Load reads the config at path. A missing file yields Default() without error; fields absent
// from the file keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path, creating the parent directory if needed.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
