// Package driver wires the core pipeline together: parse an lsys source
// file, rewrite it for the model's (or an override) generation count,
// then interpret the final module string against a caller-supplied
// Generator. Grounded on original_source/src/interpret.h's top-level
// driving loop and the teacher's context-cancellable run-loop style
// (funvibe-funxy/internal/engine — check ctx.Err() once per unit of
// work rather than plumbing cancellation through every inner call).
package driver

import (
	"context"
	"fmt"

	"github.com/lsysgo/lsys/internal/ast"
	"github.com/lsysgo/lsys/internal/diag"
	"github.com/lsysgo/lsys/internal/engine"
	"github.com/lsysgo/lsys/internal/generator"
	"github.com/lsysgo/lsys/internal/geom"
	"github.com/lsysgo/lsys/internal/interpreter"
	"github.com/lsysgo/lsys/internal/modules"
	"github.com/lsysgo/lsys/internal/names"
	"github.com/lsysgo/lsys/internal/parser"
	"github.com/lsysgo/lsys/internal/rewrite"
	"github.com/lsysgo/lsys/internal/turtle"
)

// Unset is the sentinel meaning "no CLI override"; Model defaults or
// config fallbacks win instead (model.Model's Effective* methods).
const Unset = -1

// Options configures one run of the pipeline. Source is raw lsys
// source text; NewGenerator builds the Generator once this run's name
// interner exists (a Generator may need it to resolve a drawn module's
// name back to text, e.g. the "~" DrawObject action) and must be
// non-nil (use func(*names.Interner) generator.Generator returning
// generator.Nop{} for a rewrite-only run).
type Options struct {
	Source       string
	NewGenerator func(*names.Interner) generator.Generator
	Diag         diag.Sink

	Seed            int64
	MaxGen          int     // Unset: use the model's "maxgen" global, else 0
	TurnAngle       float64 // Unset: use the model's "delta" global
	Width           float64 // Unset: use the model's "width" global
	Distance        float64 // Unset: use the model's "distance" global
	MaxPolygonDepth int     // <=0: interpreter.DefaultMaxPolygonDepth

	Name string // carried to Generator.SetName
}

// Result summarizes a completed run for reporting (--stats, run
// manifests).
type Result struct {
	Generations      int
	FinalModuleCount int
	Bounds           geom.BoundingBox
}

// Run executes the full parse/rewrite/interpret pipeline. ctx is
// checked once per generation boundary (spec §5): a cancelled context
// stops derivation before starting the next generation and returns
// ctx.Err(), never mid-generation.
func Run(ctx context.Context, opts Options) (Result, error) {
	if opts.Diag == nil {
		opts.Diag = diag.Discard
	}
	if opts.NewGenerator == nil {
		return Result{}, fmt.Errorf("driver: Options.NewGenerator must not be nil")
	}

	eng := engine.New(opts.Seed)
	gen := opts.NewGenerator(eng.Names)

	model, err := parser.Parse(opts.Source, eng, opts.Diag)
	if err != nil {
		return Result{}, fmt.Errorf("parsing source: %w", err)
	}

	maxGen := model.EffectiveMaxGen(eng.Names, opts.MaxGen)
	turnAngle := model.EffectiveTurnAngle(eng.Names, opts.TurnAngle)
	width := model.EffectiveWidth(eng.Names, opts.Width)
	distance := model.EffectiveDistance(eng.Names, opts.Distance)

	baseEnv := ast.Env{Symbols: model.Globals, Engine: eng, Diag: opts.Diag}
	current := model.Start
	rules := rewrite.Rules(model.Rules)

	gensDone := 0
	for gensDone < maxGen {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		current = rewrite.Generation(current, rules, model.Globals, eng.Names, baseEnv)
		gensDone++
	}

	t := turtle.New(turnAngle, width)
	t.SetDefaultDistance(distance)

	ip := interpreter.New(t, gen, opts.Diag, eng.Names, width)
	if opts.MaxPolygonDepth > 0 {
		ip.MaxPolygonDepth = opts.MaxPolygonDepth
	}

	if err := gen.SetName(opts.Name); err != nil {
		return Result{}, fmt.Errorf("setting output name: %w", err)
	}
	if err := gen.SetHeader(model.Header); err != nil {
		return Result{}, fmt.Errorf("setting output header: %w", err)
	}

	if err := ip.Start(); err != nil {
		return Result{}, fmt.Errorf("starting interpretation: %w", err)
	}
	if err := ip.InterpretAll(current, baseEnv); err != nil {
		return Result{}, fmt.Errorf("interpreting: %w", err)
	}
	if err := ip.Finish(); err != nil {
		return Result{}, fmt.Errorf("finishing interpretation: %w", err)
	}

	return Result{
		Generations:      gensDone,
		FinalModuleCount: len(current),
		Bounds:           t.Bounds(),
	}, nil
}

// Rewrite runs only the derivation stage, for callers that only want
// the rewritten module string(s) rather than a rendered drawing (e.g.
// --display, or tests that assert on the rewritten string without
// interpreting it). The returned slice holds every generation's module
// list in order, starting with the axiom at index 0, so a caller
// wanting "each generation's module list" (not just the final one) can
// walk it directly; the final generation is the last entry.
func Rewrite(ctx context.Context, source string, seed int64, maxGenOverride int, sink diag.Sink) ([]modules.List, *names.Interner, error) {
	if sink == nil {
		sink = diag.Discard
	}
	eng := engine.New(seed)
	model, err := parser.Parse(source, eng, sink)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing source: %w", err)
	}
	maxGen := model.EffectiveMaxGen(eng.Names, maxGenOverride)
	baseEnv := ast.Env{Symbols: model.Globals, Engine: eng, Diag: sink}
	current := model.Start
	rules := rewrite.Rules(model.Rules)

	generations := make([]modules.List, 0, maxGen+1)
	generations = append(generations, current)

	gensDone := 0
	for gensDone < maxGen {
		if err := ctx.Err(); err != nil {
			return generations, eng.Names, err
		}
		current = rewrite.Generation(current, rules, model.Globals, eng.Names, baseEnv)
		generations = append(generations, current)
		gensDone++
	}
	return generations, eng.Names, nil
}
