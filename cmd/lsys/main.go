// Command lsys parses an L-system source file, rewrites it for some
// number of generations, interprets the result with a 3D turtle, and
// renders the output with a pluggable Generator backend. Grounded on
// cmd/funxy/main.go's manual os.Args flag loop and top-level panic
// recovery (LSYS_DEBUG re-panics for a stack trace instead of printing
// a friendly one-liner).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/lsysgo/lsys/internal/ast"
	"github.com/lsysgo/lsys/internal/config"
	"github.com/lsysgo/lsys/internal/diag"
	"github.com/lsysgo/lsys/internal/driver"
	"github.com/lsysgo/lsys/internal/generator"
	"github.com/lsysgo/lsys/internal/history"
	"github.com/lsysgo/lsys/internal/names"
	"github.com/lsysgo/lsys/internal/runstats"
	"github.com/lsysgo/lsys/internal/symbols"
	"github.com/lsysgo/lsys/internal/values"
)

const usage = `usage: lsys [options] <source.lsys>

options:
  -m, --maxgen N          number of generations to derive (default: from source, else 0)
  -d, --delta N            turn angle in degrees (default: from source, else 90)
      --distance N         default move distance (default: from source, else 1)
  -w, --width N             default line width (default: from source, else 1)
  -s, --seed N              PRNG seed (default: current time)
  -o PATH                   output file (required unless --display)
  -b PATH                   bounds output file (default: bounds.txt; radiance format only)
      --format NAME         output format: generic (default) or radiance
      --max-polygon-depth N cap on nested '{' polygon depth (default: 100)
      --display             print the rewritten module string instead of rendering
      --stats               print a YAML run manifest to stderr after rendering
      --stats-file PATH     write the YAML run manifest to PATH instead of stderr
      --history PATH        record this run in a SQLite ledger at PATH
  -?, -H, --help             show this message
`

type options struct {
	source          string
	maxGen          int
	turnAngle       float64
	width           float64
	distance        float64
	seed            int64
	outPath         string
	boundsPath      string
	format          string
	maxPolygonDepth int
	display         bool
	stats           bool
	statsFile       string
	historyPath     string
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv(config.DebugEnvVar) == "1" {
				panic(r)
			}
			fmt.Fprintf(os.Stderr, "lsys: internal error: %v\n", r)
			os.Exit(1)
		}
	}()

	opts, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if opts == nil {
		fmt.Print(usage)
		return
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "lsys: %v\n", err)
		os.Exit(1)
	}
}

func parseArgs(args []string) (*options, error) {
	opts := &options{
		maxGen:          driver.Unset,
		turnAngle:       driver.Unset,
		width:           driver.Unset,
		distance:        driver.Unset,
		seed:            time.Now().UnixNano(),
		boundsPath:      "bounds.txt",
		format:          "generic",
		maxPolygonDepth: 0,
	}

	next := func(i int, flag string) (string, int, error) {
		if i+1 >= len(args) {
			return "", i, fmt.Errorf("lsys: %s requires an argument", flag)
		}
		return args[i+1], i + 1, nil
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "-?", "-H", "--help", "-help":
			return nil, nil
		case "-m", "--maxgen":
			v, ni, err := next(i, arg)
			if err != nil {
				return nil, err
			}
			n, err := strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("lsys: %s: invalid integer %q", arg, v)
			}
			opts.maxGen, i = n, ni
		case "-d", "--delta":
			v, ni, err := next(i, arg)
			if err != nil {
				return nil, err
			}
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("lsys: %s: invalid number %q", arg, v)
			}
			opts.turnAngle, i = f, ni
		case "--distance":
			v, ni, err := next(i, arg)
			if err != nil {
				return nil, err
			}
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("lsys: %s: invalid number %q", arg, v)
			}
			opts.distance, i = f, ni
		case "-w", "--width":
			v, ni, err := next(i, arg)
			if err != nil {
				return nil, err
			}
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("lsys: %s: invalid number %q", arg, v)
			}
			opts.width, i = f, ni
		case "-s", "--seed":
			v, ni, err := next(i, arg)
			if err != nil {
				return nil, err
			}
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("lsys: %s: invalid integer %q", arg, v)
			}
			opts.seed, i = n, ni
		case "-o":
			v, ni, err := next(i, arg)
			if err != nil {
				return nil, err
			}
			opts.outPath, i = v, ni
		case "-b":
			v, ni, err := next(i, arg)
			if err != nil {
				return nil, err
			}
			opts.boundsPath, i = v, ni
		case "--format":
			v, ni, err := next(i, arg)
			if err != nil {
				return nil, err
			}
			opts.format, i = v, ni
		case "--max-polygon-depth":
			v, ni, err := next(i, arg)
			if err != nil {
				return nil, err
			}
			n, err := strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("lsys: %s: invalid integer %q", arg, v)
			}
			opts.maxPolygonDepth, i = n, ni
		case "--display":
			opts.display = true
		case "--stats":
			opts.stats = true
		case "--stats-file":
			v, ni, err := next(i, arg)
			if err != nil {
				return nil, err
			}
			opts.statsFile, i = v, ni
		case "--history":
			v, ni, err := next(i, arg)
			if err != nil {
				return nil, err
			}
			opts.historyPath, i = v, ni
		default:
			if len(arg) > 0 && arg[0] == '-' {
				return nil, fmt.Errorf("lsys: unrecognized option %q", arg)
			}
			if opts.source != "" {
				return nil, fmt.Errorf("lsys: unexpected argument %q", arg)
			}
			opts.source = arg
		}
	}

	if opts.source == "" {
		return nil, fmt.Errorf("lsys: missing source file")
	}
	return opts, nil
}

func run(opts *options) error {
	if !opts.display && opts.outPath == "" {
		return fmt.Errorf("missing output file: -o PATH is required")
	}
	raw, err := os.ReadFile(opts.source)
	if err != nil {
		return fmt.Errorf("reading %s: %w", opts.source, err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	sink := diag.NewWriter(os.Stderr)
	name := config.TrimSourceExt(filepath.Base(opts.source))

	if opts.display {
		return runDisplay(ctx, string(raw), opts, sink)
	}
	return runRender(ctx, string(raw), opts, name, sink)
}

func runDisplay(ctx context.Context, src string, opts *options, sink diag.Sink) error {
	generations, in, err := driver.Rewrite(ctx, src, opts.seed, opts.maxGen, sink)
	if err != nil {
		return err
	}
	final := generations[len(generations)-1]
	renderEnv := ast.Env{Symbols: symbols.New[values.Value]()}
	for i, list := range generations {
		fmt.Printf("gen %d: %s\n", i, list.String(renderEnv, in))
	}
	fmt.Fprintf(os.Stderr, "lsys: %d generation(s), %s modules\n", len(generations)-1, humanize.Comma(int64(len(final))))
	return nil
}

func runRender(ctx context.Context, src string, opts *options, name string, sink diag.Sink) error {
	out, closeOut, err := openOutput(opts.outPath)
	if err != nil {
		return err
	}
	defer closeOut()

	var boundsOut *os.File
	if opts.format == "radiance" {
		var closeBounds func()
		boundsOut, closeBounds, err = openOutput(opts.boundsPath)
		if err != nil {
			return err
		}
		defer closeBounds()
	}

	newGenerator := func(in *names.Interner) generator.Generator {
		switch opts.format {
		case "radiance":
			return generator.NewRadiance(out, boundsOut, in)
		default:
			return generator.NewGeneric(out, in)
		}
	}
	if opts.format != "generic" && opts.format != "" && opts.format != "radiance" {
		return fmt.Errorf("unknown --format %q (want generic or radiance)", opts.format)
	}

	start := time.Now()
	result, err := driver.Run(ctx, driver.Options{
		Source:          src,
		NewGenerator:    newGenerator,
		Diag:            sink,
		Seed:            opts.seed,
		MaxGen:          opts.maxGen,
		TurnAngle:       opts.turnAngle,
		Width:           opts.width,
		Distance:        opts.distance,
		MaxPolygonDepth: opts.maxPolygonDepth,
		Name:            name,
	})
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	if opts.historyPath != "" {
		if err := recordHistory(ctx, opts, name, result, elapsed); err != nil {
			fmt.Fprintf(os.Stderr, "lsys: warning: recording history: %v\n", err)
		}
	}

	if opts.stats || opts.statsFile != "" {
		if err := printStats(opts, result, elapsed); err != nil {
			fmt.Fprintf(os.Stderr, "lsys: warning: writing stats: %v\n", err)
		}
	}
	return nil
}

func openOutput(path string) (*os.File, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("creating %s: %w", path, err)
	}
	return f, func() { f.Close() }, nil
}

func printStats(opts *options, result driver.Result, elapsed time.Duration) error {
	manifest := runstats.Manifest{
		Source:      opts.source,
		Seed:        opts.seed,
		Generations: result.Generations,
		TurnAngle:   opts.turnAngle,
		Width:       opts.width,
		Distance:    opts.distance,
		ModuleCount: result.FinalModuleCount,
		Bounds: runstats.Bounds{
			Min: [3]float64{result.Bounds.Min.X, result.Bounds.Min.Y, result.Bounds.Min.Z},
			Max: [3]float64{result.Bounds.Max.X, result.Bounds.Max.Y, result.Bounds.Max.Z},
		},
		Format:  opts.format,
		Elapsed: elapsed.String(),
	}

	if opts.statsFile != "" {
		return runstats.Write(opts.statsFile, manifest)
	}
	if !opts.stats {
		return nil
	}

	rendered, err := runstats.Render(manifest)
	if err != nil {
		return fmt.Errorf("rendering stats: %w", err)
	}
	if isatty.IsTerminal(os.Stderr.Fd()) {
		fmt.Fprintln(os.Stderr, "--- run stats ---")
	}
	fmt.Fprint(os.Stderr, rendered)
	return nil
}

func recordHistory(ctx context.Context, opts *options, name string, result driver.Result, elapsed time.Duration) error {
	store, err := history.Open(opts.historyPath)
	if err != nil {
		return err
	}
	defer store.Close()

	_, err = store.Record(ctx, history.Run{
		SourcePath:  opts.source,
		Seed:        opts.seed,
		Generations: result.Generations,
		TurnAngle:   opts.turnAngle,
		Width:       opts.width,
		Distance:    opts.distance,
		ModuleCount: result.FinalModuleCount,
		Format:      opts.format,
	})
	return err
}
