package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	fluentschema "github.com/reoring/fluentschema"
	"github.com/reoring/fluentschema/dsl"
	js "github.com/reoring/fluentschema/jsonschema"
	"github.com/reoring/fluentschema/loader"
	"github.com/reoring/fluentschema/shape"
)

// Exit codes.
const (
	exitOK      = 0
	exitInvalid = 1 // data failed validation
	exitUsage   = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// cli carries what every subcommand shares. The compiler is built once here
// and handed to the commands that need it.
type cli struct {
	stdout   io.Writer
	logger   *log.Logger
	compiler func(js.CompilerOptions) fluentschema.Compiler
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		usage(stderr)
		return exitUsage
	}
	c := &cli{
		stdout:   stdout,
		logger:   log.NewWithOptions(stderr, log.Options{Prefix: "fluentschema"}),
		compiler: js.NewCompiler,
	}
	var err error
	code := exitOK
	switch args[0] {
	case "export":
		err = c.exportCmd(args[1:])
	case "validate":
		code, err = c.validateCmd(args[1:])
	case "help", "-h", "--help":
		usage(stdout)
		return exitOK
	default:
		usage(stderr)
		return exitUsage
	}
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		c.logger.Error(err.Error())
		return exitUsage
	}
	return code
}

func usage(w io.Writer) {
	fmt.Fprintln(w, `fluentschema CLI

Usage:
  fluentschema export   -f def.yaml [--format jsonschema|shapes] [--encoding json|yaml] [--name N] [-o out]
  fluentschema validate -f def.yaml --name N [--assert-format] data.json...

Notes:
  - Definitions are YAML or JSON documents read by the loader package.
  - validate exits 1 when any data file is invalid.`)
}

func (c *cli) newFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(c.stdout)
	return fs
}

func (c *cli) setVerbose(v bool) {
	if v {
		c.logger.SetLevel(log.DebugLevel)
	}
}

func (c *cli) load(path string) (dsl.Node, error) {
	if path == "" {
		return nil, errors.New("-f is required")
	}
	c.logger.Debug("loading definition", "file", path)
	return loader.LoadFile(path)
}

func (c *cli) exportCmd(args []string) error {
	fs := c.newFlagSet("export")
	file := fs.StringP("file", "f", "", "definition file (YAML or JSON)")
	format := fs.String("format", "jsonschema", "output format: jsonschema or shapes")
	encoding := fs.String("encoding", "json", "output encoding: json or yaml")
	name := fs.String("name", "", "root shape name when the definition has no title")
	out := fs.StringP("output", "o", "", "output file (default stdout)")
	verbose := fs.BoolP("verbose", "v", false, "enable debug logs")
	if err := fs.Parse(args); err != nil {
		return err
	}
	c.setVerbose(*verbose)

	node, err := c.load(*file)
	if err != nil {
		return err
	}

	var doc any
	switch *format {
	case "jsonschema":
		d, err := node.JSONSchema()
		if err != nil {
			return err
		}
		doc = d
	case "shapes":
		reg := shape.NewRegistry()
		root, err := shape.Export(node, reg, shape.Options{Name: *name})
		if err != nil {
			return err
		}
		c.logger.Debug("exported shapes", "root", root, "count", len(reg.Names()))
		doc = reg.Shapes()
	default:
		return fmt.Errorf("unknown format %q", *format)
	}

	var b []byte
	switch *encoding {
	case "json":
		b, err = js.MarshalJSON(doc)
	case "yaml":
		b, err = js.MarshalYAML(doc)
	default:
		return fmt.Errorf("unknown encoding %q", *encoding)
	}
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	if *out == "" {
		_, err = c.stdout.Write(b)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	if err := os.WriteFile(*out, b, 0o644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	c.logger.Debug("wrote output", "file", *out, "bytes", len(b))
	return nil
}

func (c *cli) validateCmd(args []string) (int, error) {
	fs := c.newFlagSet("validate")
	file := fs.StringP("file", "f", "", "definition file (YAML or JSON)")
	name := fs.String("name", "", "schema name used in reports")
	assertFormat := fs.Bool("assert-format", false, "enforce format keywords")
	verbose := fs.BoolP("verbose", "v", false, "enable debug logs")
	if err := fs.Parse(args); err != nil {
		return exitUsage, err
	}
	c.setVerbose(*verbose)
	if fs.NArg() == 0 {
		return exitUsage, errors.New("no data files given")
	}

	node, err := c.load(*file)
	if err != nil {
		return exitUsage, err
	}
	compiled, err := node.Compile(*name, c.compiler(js.CompilerOptions{AssertFormat: *assertFormat}))
	if err != nil {
		return exitUsage, err
	}

	code := exitOK
	for _, path := range fs.Args() {
		data, err := os.ReadFile(path)
		if err != nil {
			return exitUsage, err
		}
		v, err := js.DecodeJSON(data)
		if err != nil {
			return exitUsage, fmt.Errorf("%s: %w", path, err)
		}
		if err := compiled.Validate(v); err != nil {
			ve, ok := fluentschema.AsValidationError(err)
			if !ok {
				return exitUsage, err
			}
			code = exitInvalid
			fmt.Fprintf(c.stdout, "%s: invalid\n", path)
			for _, d := range ve.Diagnostics {
				at := d.InstancePath
				if at == "" {
					at = "/"
				}
				fmt.Fprintf(c.stdout, "  %s: %s\n", at, d.Message)
			}
			continue
		}
		fmt.Fprintf(c.stdout, "%s: ok\n", path)
	}
	return code, nil
}
