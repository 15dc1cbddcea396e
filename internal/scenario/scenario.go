package scenario

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"

	"carry-engine/internal/physics"
)

//go:embed demo.yaml
var demoYAML []byte

// BodyDef is the YAML definition of a body placed in the world at start.
type BodyDef struct {
	Name     string     `yaml:"name"`
	Position [3]float32 `yaml:"position"`
	Scale    [3]float32 `yaml:"scale,omitempty"`
	Mass     float32    `yaml:"mass,omitempty"`
	Static   bool       `yaml:"static,omitempty"`
}

// Body builds the rigid body for d. A zero scale means a unit cube.
func (d BodyDef) Body() physics.Body {
	scale := mgl32.Vec3(d.Scale)
	if scale == (mgl32.Vec3{}) {
		scale = mgl32.Vec3{1, 1, 1}
	}
	return physics.NewBody(mgl32.Vec3(d.Position), scale, d.Mass, d.Static)
}

// Scenario is a starting world plus a script of commands run against it.
type Scenario struct {
	Name   string    `yaml:"name,omitempty"`
	Bodies []BodyDef `yaml:"bodies"`
	Script []string  `yaml:"script"`
}

// Parse decodes a scenario and checks that every body has a unique name.
func Parse(data []byte) (Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Scenario{}, fmt.Errorf("parse scenario: %w", err)
	}
	seen := make(map[string]bool, len(s.Bodies))
	for i, b := range s.Bodies {
		if b.Name == "" {
			return Scenario{}, fmt.Errorf("body %d has no name", i)
		}
		if seen[b.Name] {
			return Scenario{}, fmt.Errorf("duplicate body name %q", b.Name)
		}
		seen[b.Name] = true
	}
	return s, nil
}

// Load reads and parses the scenario file at path.
func Load(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, err
	}
	s, err := Parse(data)
	if err != nil {
		return Scenario{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Demo returns the built-in scenario: a crate carried over a wall and dropped.
func Demo() Scenario {
	s, err := Parse(demoYAML)
	if err != nil {
		panic("embedded demo scenario: " + err.Error())
	}
	return s
}
