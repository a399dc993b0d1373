package runstats_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/lsysgo/lsys/internal/runstats"
	"gopkg.in/yaml.v3"
)

func sampleManifest() runstats.Manifest {
	return runstats.Manifest{
		Source:      "koch.lsys",
		Seed:        42,
		Generations: 3,
		TurnAngle:   90,
		Width:       1,
		Distance:    1,
		ModuleCount: 49,
		Bounds: runstats.Bounds{
			Min: [3]float64{-1, -1, 0},
			Max: [3]float64{1, 1, 0},
		},
		Format: "generic",
	}
}

func TestRenderProducesValidYAML(t *testing.T) {
	m := sampleManifest()
	out, err := runstats.Render(m)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if !strings.Contains(out, "source: koch.lsys") {
		t.Fatalf("Render() output missing source field: %q", out)
	}

	var roundTrip runstats.Manifest
	if err := yaml.Unmarshal([]byte(out), &roundTrip); err != nil {
		t.Fatalf("Render() output did not parse as YAML: %v", err)
	}
	if roundTrip != m {
		t.Fatalf("round-tripped manifest = %+v; want %+v", roundTrip, m)
	}
}

func TestRenderOmitsEmptyElapsed(t *testing.T) {
	m := sampleManifest()
	m.Elapsed = ""
	out, err := runstats.Render(m)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if strings.Contains(out, "elapsed") {
		t.Fatalf("Render() output should omit an empty elapsed field: %q", out)
	}
}

func TestWriteCreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")
	if err := runstats.Write(path, sampleManifest()); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
}
