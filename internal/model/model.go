// Package model holds Model, the in-memory result of parsing an lsys
// source file: everything the core (spec §6 "Input grammar") needs to
// start deriving and interpreting. Grounded on
// original_source/src/l_sys_model.h's LSysModel (start list, symbol
// table, rule list) plus parsed_model.cpp's GetFinalProperties default-
// fallback pattern for the global scalar symbols.
package model

import (
	"github.com/lsysgo/lsys/internal/config"
	"github.com/lsysgo/lsys/internal/modules"
	"github.com/lsysgo/lsys/internal/names"
	"github.com/lsysgo/lsys/internal/productions"
	"github.com/lsysgo/lsys/internal/symbols"
	"github.com/lsysgo/lsys/internal/values"
)

// Model is everything a parsed lsys source file contributes to a run.
type Model struct {
	Start   modules.List
	Ignore  *symbols.Set
	Globals *symbols.Table[values.Value]
	Rules   []productions.Production

	// Header collects leading comment lines, carried through to a
	// Generator's SetHeader.
	Header string
}

// New returns an empty Model ready for a parser to populate.
func New() *Model {
	return &Model{
		Ignore:  symbols.NewSet(),
		Globals: symbols.New[values.Value](),
	}
}

// GlobalFloat looks up name in Globals, falling back to fallback if
// absent or not a number. Mirrors GetFinalProperties's
// symbolTable.Lookup + GetFloatValue fallback chain for "delta",
// "width", "distance".
func (m *Model) GlobalFloat(in *names.Interner, name string, fallback float64) float64 {
	id, ok := in.TryIntern(name)
	if !ok {
		return fallback
	}
	v, ok := m.Globals.Lookup(id)
	if !ok {
		return fallback
	}
	f, ok := v.Float()
	if !ok {
		return fallback
	}
	return f
}

// GlobalInt is GlobalFloat's integer-result counterpart, used for
// "maxgen".
func (m *Model) GlobalInt(in *names.Interner, name string, fallback int) int {
	id, ok := in.TryIntern(name)
	if !ok {
		return fallback
	}
	v, ok := m.Globals.Lookup(id)
	if !ok {
		return fallback
	}
	i, ok := v.Int()
	if !ok {
		return fallback
	}
	return i
}

// EffectiveMaxGen resolves the "maxgen" global against a CLI
// override: an override value >= 0 wins outright; otherwise fall back to the symbol table, then to
// 0 (the original's "just do sanity checking" default).
func (m *Model) EffectiveMaxGen(in *names.Interner, override int) int {
	if override >= 0 {
		return override
	}
	return m.GlobalInt(in, config.MaxGenSymbol, 0)
}

// EffectiveTurnAngle resolves "delta".
func (m *Model) EffectiveTurnAngle(in *names.Interner, override float64) float64 {
	if override >= 0 {
		return override
	}
	return m.GlobalFloat(in, config.DeltaSymbol, config.DefaultTurnAngleDegrees)
}

// EffectiveWidth resolves "width".
func (m *Model) EffectiveWidth(in *names.Interner, override float64) float64 {
	if override >= 0 {
		return override
	}
	return m.GlobalFloat(in, config.WidthSymbol, config.DefaultWidth)
}

// EffectiveDistance resolves "distance".
func (m *Model) EffectiveDistance(in *names.Interner, override float64) float64 {
	if override >= 0 {
		return override
	}
	return m.GlobalFloat(in, config.DistanceSymbol, config.DefaultDistance)
}
