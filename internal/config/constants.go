// Package config holds process-wide constants and small runtime flags
// shared across the lsys tree: source file conventions, build-time
// version stamping, and default derivation/turtle parameters.
package config

// Version is the current lsys version.
// Set at build time via -ldflags, or left at the placeholder below.
var Version = "0.1.0-dev"

// SourceFileExt is the canonical L-system source file extension.
const SourceFileExt = ".lsys"

// SourceFileExtensions are all recognized L-system source extensions.
var SourceFileExtensions = []string{".lsys", ".l"}

// TrimSourceExt removes any recognized source extension from a filename.
// Returns the original string if no extension matches.
func TrimSourceExt(name string) string {
	for _, ext := range SourceFileExtensions {
		if len(name) >= len(ext) && name[len(name)-len(ext):] == ext {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}

// HasSourceExt returns true if path ends with any recognized source extension.
func HasSourceExt(path string) bool {
	for _, ext := range SourceFileExtensions {
		if len(path) >= len(ext) && path[len(path)-len(ext):] == ext {
			return true
		}
	}
	return false
}

// IsTestMode indicates the program is running under the test harness.
// It defaults to false; no code in this module sets it.
var IsTestMode = false

// Default turtle/derivation parameters, used when neither the CLI nor
// the model's global symbol table supplies a value (spec §6).
const (
	DefaultTurnAngleDegrees = 90.0
	DefaultDistance         = 1.0
	DefaultWidth            = 1.0
	DefaultMaxPolygonDepth  = 100
)

// DebugEnvVar re-panics instead of recovering in cmd/lsys, to get a stack trace.
const DebugEnvVar = "LSYS_DEBUG"

// Built-in global symbol names recognized in a model's symbol table.
const (
	MaxGenSymbol   = "maxgen"
	DeltaSymbol    = "delta"
	WidthSymbol    = "width"
	DistanceSymbol = "distance"
)
