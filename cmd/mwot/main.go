// MWOT CLI - compile, decompile and run MWOT programs
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/tliron/commonlog"

	"github.com/chazu/mwot/manifest"
	"github.com/chazu/mwot/server"

	_ "github.com/tliron/commonlog/simple"
)

const version = "0.1.0"

var log = commonlog.GetLogger("mwot")

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run executes one command line. stdin feeds source read from "-" and
// program input; stdout receives compiled output and program output.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	o, err := parseArgs(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}

	switch {
	case o.trace:
		commonlog.Configure(2, nil)
	case o.verbose:
		commonlog.Configure(1, nil)
	default:
		commonlog.Configure(0, nil)
	}

	switch {
	case o.version:
		fmt.Fprintf(stdout, "mwot %s\n", version)
		return nil
	case o.lsp:
		return server.NewLSP(version).Run()
	case o.initConfig:
		if err := manifest.Write(".", manifest.Default()); err != nil {
			return err
		}
		log.Infof("wrote %s", manifest.FileName)
		return nil
	}

	m, err := o.loadManifest()
	if err != nil {
		return err
	}
	if m != nil {
		log.Infof("using %s in %s", manifest.FileName, m.Dir)
	}

	c := &command{opts: o, manifest: m, stdin: stdin, stdout: stdout}
	switch o.action {
	case actionCompile:
		return c.compile()
	case actionDecompile:
		return c.decompile()
	case actionInterpret:
		return c.interpret()
	default:
		return c.execute()
	}
}
