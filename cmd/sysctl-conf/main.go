// Command sysctl-conf parses a sysctl.conf style file (or stdin) into a
// nested tree and prints it. An optional schema file declares expected value
// types; -i drops into an interactive session.
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	sysctlconf "github.com/mosson/sysctl-conf"
)

const (
	appName     = "sysctl-conf"
	historyFile = ".sysctl_conf_history"
	promptMain  = "==> "
)

type config struct {
	file        string
	schemaFile  string
	interactive bool
}

func main() {
	var cfg config
	flag.StringVar(&cfg.schemaFile, "s", "", "schema `file` (\"-\" for stdin)")
	flag.BoolVar(&cfg.interactive, "i", false, "interactive mode")
	flag.Usage = usage
	flag.Parse()

	cfg.file = "-"
	if flag.NArg() > 0 {
		cfg.file = flag.Arg(0)
	}

	if err := run(cfg, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [-s SCHEMA_FILE] [-i] [FILE]\n\n", appName)
	fmt.Fprintln(os.Stderr, "Parses a sysctl.conf style FILE (default \"-\", stdin) into a nested tree.")
	flag.PrintDefaults()
}

func run(cfg config, out io.Writer) error {
	if cfg.file == "-" && cfg.schemaFile == "-" {
		return errors.New("the schema and the input cannot both be stdin")
	}

	var schema sysctlconf.Schema
	if cfg.schemaFile != "" {
		s, err := parseSchema(cfg.schemaFile)
		if err != nil {
			return err
		}
		schema = s
	}

	if cfg.interactive {
		return repl(schema)
	}

	statements, err := parseSource(cfg.file)
	if err != nil {
		return err
	}

	value, err := sysctlconf.Evaluate(statements, schema)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, value.Format())
	return nil
}

// parseSource parses the directive file. File input is held in memory so
// syntax errors render with a caret snippet; stdin streams and propagates
// errors plain.
func parseSource(name string) ([]sysctlconf.Statement[sysctlconf.Value], error) {
	if name == "-" {
		return sysctlconf.NewValueParser(os.Stdin).Parse()
	}

	src, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	statements, err := sysctlconf.NewValueParser(bytes.NewReader(src)).Parse()
	if err != nil {
		return nil, sysctlconf.WrapErrorWithName(err, name, string(src))
	}
	return statements, nil
}

func parseSchema(name string) (sysctlconf.Schema, error) {
	if name == "-" {
		statements, err := sysctlconf.NewSchemaParser(os.Stdin).Parse()
		if err != nil {
			return nil, err
		}
		return sysctlconf.SchemaFrom(statements), nil
	}

	src, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	statements, err := sysctlconf.NewSchemaParser(bytes.NewReader(src)).Parse()
	if err != nil {
		return nil, sysctlconf.WrapErrorWithName(err, name, string(src))
	}
	return sysctlconf.SchemaFrom(statements), nil
}

// repl reads directive lines interactively, folding each accepted statement
// into the accumulated tree. Rejected lines (syntax or schema errors) leave
// the tree untouched.
func repl(schema sysctlconf.Schema) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	histPath := ""
	if home, err := os.UserHomeDir(); err == nil {
		histPath = filepath.Join(home, historyFile)
		if f, err := os.Open(histPath); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
	}
	defer func() {
		if histPath == "" {
			return
		}
		if f, err := os.Create(histPath); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Printf("%s interactive mode. :show prints the tree, :reset clears it, :quit exits.\n", appName)

	var statements []sysctlconf.Statement[sysctlconf.Value]
	for {
		input, err := line.Prompt(promptMain)
		if err == liner.ErrPromptAborted {
			continue
		}
		if err == io.EOF {
			fmt.Println()
			return nil
		}
		if err != nil {
			return err
		}

		switch strings.TrimSpace(input) {
		case "":
			continue
		case ":quit":
			return nil
		case ":reset":
			statements = nil
			continue
		case ":show":
			value, err := sysctlconf.Evaluate(statements, schema)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				continue
			}
			fmt.Println(value.Format())
			continue
		}

		line.AppendHistory(input)

		parsed, err := sysctlconf.NewValueParser(strings.NewReader(input)).Parse()
		if err != nil {
			fmt.Fprintln(os.Stderr, sysctlconf.WrapErrorWithSource(err, input))
			continue
		}

		next := append(append([]sysctlconf.Statement[sysctlconf.Value]{}, statements...), parsed...)
		value, err := sysctlconf.Evaluate(next, schema)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		statements = next
		fmt.Println(value.Format())
	}
}
