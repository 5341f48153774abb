package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chazu/mwot"
	"github.com/chazu/mwot/compiler"
	"github.com/chazu/mwot/manifest"
	"github.com/chazu/mwot/pkg/bytecode"
	"github.com/chazu/mwot/vm"
)

// Shebangs written by -S. A compiled program runs with -x; a decompiled
// one is MWOT source and runs with -i.
const (
	compiledShebang   = "#!/usr/bin/env -S mwot -x -b\n"
	decompiledShebang = "#!/usr/bin/env -S mwot -i -b\n"
)

// command carries what every action needs.
type command struct {
	opts     *options
	manifest *manifest.Manifest
	stdin    io.Reader
	stdout   io.Writer
}

// source is one program to read: a file, stdin ("-"), or the --source text.
type source struct {
	path string
	text *string
}

func (c *command) sources() []source {
	if c.opts.source != nil {
		return []source{{path: "-", text: c.opts.source}}
	}
	srcs := make([]source, len(c.opts.srcfiles))
	for i, p := range c.opts.srcfiles {
		srcs[i] = source{path: p}
	}
	return srcs
}

// open returns a reader over the source and a function closing it.
func (c *command) open(s source) (io.Reader, func() error, error) {
	switch {
	case s.text != nil:
		return strings.NewReader(*s.text), func() error { return nil }, nil
	case s.path == "-":
		return c.stdin, func() error { return nil }, nil
	default:
		f, err := os.Open(s.path)
		if err != nil {
			return nil, nil, err
		}
		return f, f.Close, nil
	}
}

func (c *command) readAll(s source) ([]byte, error) {
	r, closeFn, err := c.open(s)
	if err != nil {
		return nil, err
	}
	defer closeFn()
	return io.ReadAll(r)
}

// ---------------------------------------------------------------------------
// Transpiling
// ---------------------------------------------------------------------------

func (c *command) compile() error {
	return c.transpile(func(s source) ([]byte, error) {
		r, closeFn, err := c.open(s)
		if err != nil {
			return nil, err
		}
		defer closeFn()

		res, err := mwot.Compile(compiler.Text(r), c.opts.format)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.path, err)
		}
		for _, d := range res.Diagnostics {
			log.Warningf("%s: %s", s.path, d)
		}
		if c.opts.format == mwot.FormatBrainfuck {
			return append(res.Output, '\n'), nil
		}
		return res.Output, nil
	}, compiledShebang, true)
}

func (c *command) decompile() error {
	strategy, opts := c.opts.decompileOptions(c.manifest)
	return c.transpile(func(s source) ([]byte, error) {
		r, closeFn, err := c.open(s)
		if err != nil {
			return nil, err
		}
		defer closeFn()

		text, err := mwot.DecompileReader(r, c.opts.format, c.opts.shebangIn, strategy, opts)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.path, err)
		}
		return []byte(text), nil
	}, decompiledShebang, c.opts.format == mwot.FormatBrainfuck)
}

// transpile converts every source and writes each result to stdout or to
// the file named by the output pattern. The shebang is only written for
// brainfuck; executable is whether -X applies to this format.
func (c *command) transpile(convert func(source) ([]byte, error), shebang string, executable bool) error {
	pattern, shebangOut, executableOut := c.opts.output(c.manifest)
	srcs := c.sources()
	if pattern == "-" && len(srcs) > 1 {
		return errors.New("cannot transpile multiple source files to stdout")
	}
	if c.opts.format != mwot.FormatBrainfuck {
		shebangOut = false
	}

	for _, s := range srcs {
		out, err := convert(s)
		if err != nil {
			return err
		}

		var buf bytes.Buffer
		if shebangOut {
			buf.WriteString(shebang)
		}
		buf.Write(out)

		if pattern == "-" {
			if _, err := c.stdout.Write(buf.Bytes()); err != nil {
				return err
			}
			continue
		}

		path, err := formatOutfile(pattern, s.path)
		if err != nil {
			return err
		}
		if err := writeOutfile(path, buf.Bytes(), executable && executableOut); err != nil {
			return err
		}
		log.Infof("%s -> %s", s.path, path)
	}
	return nil
}

func writeOutfile(path string, data []byte, executable bool) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if executable {
		if err := makeExecutable(f); err != nil {
			f.Close()
			return err
		}
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ---------------------------------------------------------------------------
// Running
// ---------------------------------------------------------------------------

func (c *command) interpret() error {
	s := c.sources()[0]
	r, closeFn, err := c.open(s)
	if err != nil {
		return err
	}
	defer closeFn()

	if c.opts.disassemble {
		res, err := mwot.Compile(compiler.Text(r), mwot.FormatBrainfuck)
		if err != nil {
			return err
		}
		return c.disassemble(bytecode.Parse(string(res.Output), false), s.path)
	}

	return c.runVM(func(cfg vm.Config) (*vm.State, error) {
		return mwot.RunSource(compiler.Text(r), cfg)
	})
}

func (c *command) execute() error {
	s := c.sources()[0]
	data, err := c.readAll(s)
	if err != nil {
		return err
	}

	if c.opts.disassemble {
		return c.disassemble(bytecode.Parse(string(data), c.opts.shebangIn), s.path)
	}

	return c.runVM(func(cfg vm.Config) (*vm.State, error) {
		return mwot.RunBrainfuck(string(data), c.opts.shebangIn, cfg)
	})
}

func (c *command) disassemble(prog bytecode.Program, name string) error {
	_, err := io.WriteString(c.stdout, vm.DisassembleWithName(prog, name))
	return err
}

// runVM wires program input and output, runs, and dumps the final state
// when asked.
func (c *command) runVM(runFn func(vm.Config) (*vm.State, error)) error {
	cfg := c.opts.vmConfig(c.manifest)
	cfg.Output = c.stdout

	in, closeFn, err := c.programInput()
	if err != nil {
		return err
	}
	defer closeFn()
	cfg.Input = in

	st, err := runFn(cfg)
	if err != nil {
		return err
	}
	log.Debugf("%d steps, %d bytes written", st.Steps, st.BytesWritten)

	if c.opts.dumpState == "" {
		return nil
	}
	data, err := vm.MarshalState(st)
	if err != nil {
		return err
	}
	return os.WriteFile(c.opts.dumpState, data, 0o644)
}

// programInput picks the bytes read by ','. When the program itself came
// from stdin and no input was named, the program sees an empty input.
func (c *command) programInput() (io.Reader, func() error, error) {
	noClose := func() error { return nil }
	switch {
	case c.opts.input != nil:
		return strings.NewReader(*c.opts.input), noClose, nil
	case c.opts.inputFile != "-":
		f, err := os.Open(c.opts.inputFile)
		if err != nil {
			return nil, nil, err
		}
		return f, f.Close, nil
	case c.opts.stdinUsedBySource():
		return strings.NewReader(""), noClose, nil
	default:
		return c.stdin, noClose, nil
	}
}
