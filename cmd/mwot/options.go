package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"slices"

	"github.com/chazu/mwot"
	"github.com/chazu/mwot/decompiler"
	"github.com/chazu/mwot/manifest"
	"github.com/chazu/mwot/vm"
)

type action uint8

const (
	actionNone action = iota
	actionCompile
	actionDecompile
	actionInterpret
	actionExecute
)

func (a action) String() string {
	switch a {
	case actionCompile:
		return "compile"
	case actionDecompile:
		return "decompile"
	case actionInterpret:
		return "interpret"
	case actionExecute:
		return "execute"
	default:
		return "none"
	}
}

// options holds the parsed command line. Fields backed by a manifest
// setting only take effect when the flag was given, which set records.
type options struct {
	action   action
	format   mwot.Format
	srcfiles []string
	source   *string

	outfile       string
	shebangOut    bool
	executableOut bool

	decompiler string
	vocab      decompiler.Vocab
	width      intValue
	cols       intValue

	shebangIn  bool
	inputFile  string
	input      *string
	cellsize   intValue
	eof        intValue
	totalcells intValue
	wraparound boolWordValue

	configDir   string
	dumpState   string
	disassemble bool
	trace       bool
	verbose     bool
	lsp         bool
	initConfig  bool
	version     bool

	set map[string]bool
}

// newFlagSet registers every flag on a new FlagSet. The returned function
// folds the action and format switches into o once parsing is done.
func newFlagSet(o *options, output io.Writer) (*flag.FlagSet, func() error) {
	fs := flag.NewFlagSet("mwot", flag.ContinueOnError)
	fs.SetOutput(output)

	var compile, decompile, interpret, execute, brainfuck, binary bool
	boolVar(fs, &compile, "compile MWOT", "c", "compile")
	boolVar(fs, &decompile, "decompile to MWOT", "d", "decompile")
	boolVar(fs, &interpret, "(with -b) execute MWOT as brainfuck", "i", "interpret")
	boolVar(fs, &execute, "(with -b) execute brainfuck", "x", "execute")
	boolVar(fs, &brainfuck, "use brainfuck format", "b", "brainfuck", "bf")
	boolVar(fs, &binary, "use bytes format", "B", "bytes", "binary")
	fs.Func("source", "take source code as an argument; don't accept SRCFILE", func(s string) error {
		o.source = &s
		return nil
	})

	fs.StringVar(&o.outfile, "o", "-", "output file `pattern` ('-' for stdout)")
	boolVar(fs, &o.shebangOut, "(with -b) include a shebang in output", "S", "shebang-out")
	boolVar(fs, &o.executableOut, "(with -b, or -c -B) make output files executable", "X", "executable-out")

	fs.StringVar(&o.decompiler, "D", "rand", "`decompiler` to use: basic, guide or rand")
	fs.Func("vocab", "(basic, guide) words for zero and one (default: 'zz x')", func(s string) error {
		v, err := decompiler.ParseVocab(s)
		o.vocab = v
		return err
	})
	o.width.min = 0
	fs.Var(&o.width, "width", "(basic, rand) wrap width, 0 or none to disable (default: 72 basic, 80 rand)")
	o.cols.min = 1
	fs.Var(&o.cols, "cols", "(guide) bits per row (default: 8)")

	o.shebangIn = true
	fs.BoolVar(&o.shebangIn, "shebang-in", true, "skip over any shebang in brainfuck source")
	fs.Var(newNotBoolValue(false, &o.shebangIn), "no-shebang-in", "treat any shebang in source as literal brainfuck")

	fs.StringVar(&o.inputFile, "input-file", "-", "read program input from `file` ('-' for stdin)")
	fs.Func("input", "take program input as an argument", func(s string) error {
		o.input = &s
		return nil
	})
	o.cellsize.min = 0
	fs.Var(&o.cellsize, "cellsize", "bits per cell, 0 or none for unbounded (default: 8)")
	o.eof.min = math.MinInt64
	fs.Var(&o.eof, "eof", "value read after end of input, or none to leave the cell unchanged (default: none)")
	o.totalcells.min = 0
	fs.Var(&o.totalcells, "totalcells", "total cells, 0 for a dynamic tape (default: 30000)")
	fs.Var(&o.wraparound, "wraparound", "whether the pointer wraps around the tape, or may go negative on a dynamic tape (default: true)")

	fs.StringVar(&o.configDir, "config", "", "`dir`ectory holding mwot.toml (default: search upward from the working directory)")
	fs.StringVar(&o.dumpState, "dump-state", "", "write the final VM state to `file` as CBOR")
	fs.BoolVar(&o.disassemble, "disassemble", false, "(with -i or -x) list the program instead of running it")
	fs.BoolVar(&o.trace, "trace", false, "log every executed instruction")
	fs.BoolVar(&o.verbose, "v", false, "verbose output")
	fs.BoolVar(&o.lsp, "lsp", false, "start the language server on stdio")
	fs.BoolVar(&o.initConfig, "init", false, "write a mwot.toml with the default settings to the working directory")
	fs.BoolVar(&o.version, "version", false, "show version info and exit")

	fs.Usage = func() {
		fmt.Fprintf(output, "Usage:\n")
		fmt.Fprintf(output, "  mwot -c|-d -b|-B [options] [SRCFILE...]\n")
		fmt.Fprintf(output, "  mwot -i|-x -b [options] [SRCFILE]\n")
		fmt.Fprintf(output, "  mwot --lsp | --init | --version\n\n")
		fmt.Fprintf(output, "MWOT encodes one bit per word: the parity of its letter count.\n\n")
		fmt.Fprintf(output, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(output, "\nOutput file patterns may use {name} {stem} {suffix} {path} {dir};\n")
		fmt.Fprintf(output, "write {{ and }} for literal braces.\n")
	}

	o.set = map[string]bool{}
	fold := func() error {
		actions := map[action]bool{
			actionCompile:   compile,
			actionDecompile: decompile,
			actionInterpret: interpret,
			actionExecute:   execute,
		}
		for a, on := range actions {
			if !on {
				continue
			}
			if o.action != actionNone {
				return errors.New("only one of -c, -d, -i, -x may be given")
			}
			o.action = a
		}
		if brainfuck && binary {
			return errors.New("only one of -b, -B may be given")
		}
		if binary {
			o.format = mwot.FormatBinary
		} else if !brainfuck && o.needsFormat() {
			return errors.New("one of -b, -B is required")
		}
		return nil
	}
	return fs, fold
}

func (o *options) needsFormat() bool {
	return o.action != actionNone
}

// parseArgs parses and validates the command line.
func parseArgs(args []string, output io.Writer) (*options, error) {
	o := &options{}
	fs, fold := newFlagSet(o, output)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) { o.set[f.Name] = true })
	o.srcfiles = fs.Args()

	if err := fold(); err != nil {
		return nil, err
	}
	if err := o.validate(); err != nil {
		return nil, err
	}
	return o, nil
}

func (o *options) validate() error {
	if o.lsp || o.initConfig || o.version {
		return nil
	}
	if o.action == actionNone {
		return errors.New("one of -c, -d, -i, -x is required")
	}
	if _, err := decompiler.ParseStrategy(o.decompiler); err != nil {
		return err
	}
	if o.source != nil && len(o.srcfiles) > 0 {
		return errors.New("--source is not allowed with SRCFILE")
	}
	if o.input != nil && o.set["input-file"] {
		return errors.New("--input is not allowed with --input-file")
	}
	if len(o.srcfiles) == 0 {
		o.srcfiles = []string{"-"}
	}

	if o.action == actionInterpret || o.action == actionExecute {
		if o.format != mwot.FormatBrainfuck {
			return fmt.Errorf("cannot execute %s", o.format)
		}
		if len(o.srcfiles) > 1 {
			return errors.New("cannot execute multiple source files")
		}
	}
	n := 0
	for _, f := range o.srcfiles {
		if f == "-" {
			n++
		}
	}
	if n > 1 {
		return errors.New("cannot open stdin multiple times")
	}
	return nil
}

// loadManifest returns the manifest in --config, or the nearest one above
// the working directory. It returns nil when there is none.
func (o *options) loadManifest() (*manifest.Manifest, error) {
	if o.configDir != "" {
		return manifest.Load(o.configDir)
	}
	return manifest.FindAndLoad(".")
}

// vmConfig layers the flags over the manifest over the defaults.
func (o *options) vmConfig(m *manifest.Manifest) vm.Config {
	cfg := vm.DefaultConfig()
	if m != nil {
		m.ApplyVM(&cfg)
	}
	if o.set["cellsize"] {
		cfg.CellSize = int(o.cellsize.n)
	}
	if o.set["eof"] {
		if o.eof.none {
			cfg.EOF, cfg.EOFValue = vm.EOFUnchanged, 0
		} else {
			cfg.EOF, cfg.EOFValue = vm.EOFFill, o.eof.n
		}
	}
	if o.set["totalcells"] {
		cfg.TotalCells = int(o.totalcells.n)
	}
	if o.set["wraparound"] {
		cfg.Wraparound = bool(o.wraparound)
	}
	cfg.Trace = o.trace
	return cfg
}

// decompileOptions layers the flags over the manifest over the defaults.
func (o *options) decompileOptions(m *manifest.Manifest) (decompiler.Strategy, decompiler.Options) {
	strategy := decompiler.StrategyRand
	opts := decompiler.DefaultOptions()
	if m != nil {
		m.ApplyDecompile(&strategy, &opts)
	}
	if o.set["D"] {
		strategy, _ = decompiler.ParseStrategy(o.decompiler)
	}
	if o.set["vocab"] {
		opts.Basic.Vocab = o.vocab
		opts.Guide.Vocab = o.vocab
	}
	if o.set["width"] {
		opts.Basic.Width = int(o.width.n)
		opts.Rand.Width = int(o.width.n)
	}
	if o.set["cols"] && !o.cols.none {
		opts.Guide.Cols = int(o.cols.n)
	}
	return strategy, opts
}

// output returns the outfile pattern and output switches, taking the
// manifest's when no flag overrides them.
func (o *options) output(m *manifest.Manifest) (pattern string, shebang, executable bool) {
	pattern, shebang, executable = o.outfile, o.shebangOut, o.executableOut
	if m == nil {
		return pattern, shebang, executable
	}
	if !o.set["o"] && m.Output.Pattern != "" {
		pattern = m.Output.Pattern
	}
	return pattern, shebang || m.Output.Shebang, executable || m.Output.Executable
}

func (o *options) stdinUsedBySource() bool {
	return o.source == nil && slices.Contains(o.srcfiles, "-")
}
