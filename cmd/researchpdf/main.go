package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"

	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

// commands lists the recognized subcommands.
var commands = []string{"render", "serve", "mcp", "version", "help"}

func main() {
	os.Exit(runMain(os.Args, DefaultDeps()))
}

// runMain dispatches to a subcommand and maps its error to an exit code.
func runMain(args []string, deps *Dependencies) int {
	if len(args) < 2 {
		printUsage(deps.Stderr)
		return ExitUsage
	}

	cmd, rest := args[1], args[2:]
	switch cmd {
	case "version", "--version", "-V":
		fmt.Fprintf(deps.Stdout, "go-researchpdf %s\n", Version)
		return ExitSuccess
	case "help", "--help", "-h":
		return runHelp(rest, deps)
	}

	if !isCommand(cmd) {
		fmt.Fprintf(deps.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage(deps.Stderr)
		return ExitUsage
	}

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply.
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))

	ctx, stop := notifyContext(context.Background())
	defer stop()

	var err error
	switch cmd {
	case "render":
		err = runRender(ctx, rest, deps)
	case "serve":
		err = runServe(ctx, rest, deps)
	case "mcp":
		err = runMCP(ctx, rest, deps)
	}

	if err == nil {
		return ExitSuccess
	}
	if errors.Is(err, errHelpRequested) {
		return ExitSuccess
	}
	fmt.Fprintf(deps.Stderr, "error: %v%s\n", err, hintFor(err))
	return exitCodeFor(err)
}

func isCommand(name string) bool {
	return slices.Contains(commands, name)
}
