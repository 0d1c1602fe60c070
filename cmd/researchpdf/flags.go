package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

var (
	// ErrUsage marks invalid command-line usage.
	ErrUsage = errors.New("invalid usage")

	// errHelpRequested ends a command after -h printed its usage.
	errHelpRequested = errors.New("help requested")
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// renderFlags holds flags for the render command.
type renderFlags struct {
	common   commonFlags
	output   string
	filename string
	title    string
	timeout  string
	html     bool // write HTML alongside the PDF
	htmlOnly bool // write HTML only, skip PDF
}

// serveFlags holds flags for the serve command.
type serveFlags struct {
	common  commonFlags
	addr    string
	workers int
}

// httpFromConfig is the value of a bare --http: listen on mcp.addr.
const httpFromConfig = "config"

// mcpFlags holds flags for the mcp command.
type mcpFlags struct {
	common commonFlags
	http   string // empty = stdio
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "enable debug logging")
}

func newFlagSet(name string, usage func(io.Writer), stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() { usage(stderr) }
	return fs
}

// parse runs fs.Parse and turns pflag errors into ErrUsage.
func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fs.Usage()
			return errHelpRequested
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return nil
}

// parseRenderFlags parses render command flags and returns positional args.
func parseRenderFlags(args []string, stderr io.Writer) (*renderFlags, []string, error) {
	f := &renderFlags{}
	fs := newFlagSet("render", printRenderUsage, stderr)

	fs.StringVarP(&f.output, "output", "o", "", "output directory")
	fs.StringVarP(&f.filename, "filename", "f", "", "output file name (default: from title and time)")
	fs.StringVarP(&f.title, "title", "t", "", "report title, shown as the query")
	fs.StringVar(&f.timeout, "timeout", "", "PDF generation timeout (e.g., 30s, 2m)")
	fs.BoolVar(&f.html, "html", false, "write HTML alongside PDF")
	fs.BoolVar(&f.htmlOnly, "html-only", false, "write HTML only, skip PDF")
	addCommonFlags(fs, &f.common)

	if err := parse(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseServeFlags parses serve command flags.
func parseServeFlags(args []string, stderr io.Writer) (*serveFlags, error) {
	f := &serveFlags{}
	fs := newFlagSet("serve", printServeUsage, stderr)

	fs.StringVarP(&f.addr, "addr", "a", "", "listen address (default :8000)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel PDF renderers (0 = auto)")
	addCommonFlags(fs, &f.common)

	if err := parse(fs, args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: serve takes no arguments, got %q", ErrUsage, fs.Args())
	}
	return f, nil
}

// parseMCPFlags parses mcp command flags.
func parseMCPFlags(args []string, stderr io.Writer) (*mcpFlags, error) {
	f := &mcpFlags{}
	fs := newFlagSet("mcp", printMCPUsage, stderr)

	fs.StringVar(&f.http, "http", "", "serve streamable HTTP on this address instead of stdio")
	fs.Lookup("http").NoOptDefVal = httpFromConfig
	addCommonFlags(fs, &f.common)

	if err := parse(fs, args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: mcp takes no arguments, got %q", ErrUsage, fs.Args())
	}
	return f, nil
}
