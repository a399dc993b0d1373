// Package runstats writes a YAML manifest summarizing one run: the
// parameters it used and the shape of its output, for the --stats CLI
// flag and for archival alongside a render. Grounded on the teacher's
// internal/ext.Config (gopkg.in/yaml.v3 struct tags over a plain Go
// struct), repurposed from a dependency manifest to a run manifest.
package runstats

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest is the full YAML document written for one run.
type Manifest struct {
	Source string `yaml:"source"`
	Seed   int64  `yaml:"seed"`

	Generations int `yaml:"generations"`

	TurnAngle float64 `yaml:"turn_angle"`
	Width     float64 `yaml:"width"`
	Distance  float64 `yaml:"distance"`

	ModuleCount int    `yaml:"module_count"`
	Bounds      Bounds `yaml:"bounds"`

	Format  string `yaml:"format,omitempty"`
	Elapsed string `yaml:"elapsed,omitempty"`
}

// Bounds mirrors geom.BoundingBox without importing internal/geom, so
// callers building a Manifest stay in control of the exact fields
// serialized (and this package stays independent of the turtle stack).
type Bounds struct {
	Min [3]float64 `yaml:"min"`
	Max [3]float64 `yaml:"max"`
}

// Write marshals m as YAML and writes it to path.
func Write(path string, m Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Render marshals m as YAML to a string, for printing to stderr with
// --stats when no --stats-file path is given.
func Render(m Manifest) (string, error) {
	data, err := yaml.Marshal(m)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
