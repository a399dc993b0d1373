package driver_test

import (
	"context"
	"testing"

	"github.com/lsysgo/lsys/internal/driver"
	"github.com/lsysgo/lsys/internal/generator"
	"github.com/lsysgo/lsys/internal/names"
)

const kochSource = `#define maxgen 2
F
F -> F+F-F-F+F
`

func TestRunRewritesAndReportsBounds(t *testing.T) {
	result, err := driver.Run(context.Background(), driver.Options{
		Source: kochSource,
		NewGenerator: func(*names.Interner) generator.Generator {
			return generator.Nop{}
		},
		Seed:   1,
		MaxGen: driver.Unset,
	})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if result.Generations != 2 {
		t.Fatalf("Generations = %d; want 2 (from #define maxgen)", result.Generations)
	}
	// gen1 = 9 modules (5 F, 4 passthrough); gen2 replaces each of the 5
	// F's with 9 more and passes the 4 non-F modules through unchanged:
	// 5*9 + 4 = 49.
	if result.FinalModuleCount != 49 {
		t.Fatalf("FinalModuleCount = %d; want 49", result.FinalModuleCount)
	}
}

func TestRunOverridesMaxGen(t *testing.T) {
	result, err := driver.Run(context.Background(), driver.Options{
		Source: kochSource,
		NewGenerator: func(*names.Interner) generator.Generator {
			return generator.Nop{}
		},
		Seed:   1,
		MaxGen: 1,
	})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if result.Generations != 1 {
		t.Fatalf("Generations = %d; want 1 (CLI override beats #define)", result.Generations)
	}
}

func TestRunRequiresNewGenerator(t *testing.T) {
	_, err := driver.Run(context.Background(), driver.Options{Source: kochSource})
	if err == nil {
		t.Fatal("expected an error when Options.NewGenerator is nil")
	}
}

func TestRunPropagatesParseErrors(t *testing.T) {
	_, err := driver.Run(context.Background(), driver.Options{
		Source: "",
		NewGenerator: func(*names.Interner) generator.Generator {
			return generator.Nop{}
		},
	})
	if err == nil {
		t.Fatal("expected an error for a source with no axiom")
	}
}

func TestRunRespectsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := driver.Run(ctx, driver.Options{
		Source: kochSource,
		NewGenerator: func(*names.Interner) generator.Generator {
			return generator.Nop{}
		},
		Seed:   1,
		MaxGen: driver.Unset,
	})
	if err == nil {
		t.Fatal("expected Run() to report the already-cancelled context")
	}
}

func TestRewriteDerivesWithoutInterpreting(t *testing.T) {
	generations, _, err := driver.Rewrite(context.Background(), kochSource, 1, driver.Unset, nil)
	if err != nil {
		t.Fatalf("Rewrite() error: %v", err)
	}
	// index 0 is the axiom ("F"); two more generations follow.
	if len(generations) != 3 {
		t.Fatalf("len(generations) = %d; want 3 (axiom + 2 derived)", len(generations))
	}
	if len(generations[0]) != 1 {
		t.Fatalf("len(generations[0]) = %d; want 1 (bare axiom)", len(generations[0]))
	}
	final := generations[len(generations)-1]
	if len(final) != 49 {
		t.Fatalf("len(final) = %d; want 49", len(final))
	}
}
