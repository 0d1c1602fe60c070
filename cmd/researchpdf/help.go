package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: researchpdf <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  render     Render a markdown research report to PDF")
	fmt.Fprintln(w, "  serve      Run the HTTP API (query, report, metrics)")
	fmt.Fprintln(w, "  mcp        Run the MCP search/fetch server")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'researchpdf help <command>' for details on a specific command.")
}

func printCommonUsage(w io.Writer) {
	fmt.Fprintln(w, "Common:")
	fmt.Fprintln(w, "  -c, --config <path>       Config file (default: ./researchpdf.yaml)")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Enable debug logging")
}

// printRenderUsage prints usage for the render command.
func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: researchpdf render <file.md | -> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render a markdown report with numbered citations and a reference list.")
	fmt.Fprintln(w, "Use - to read markdown from stdin.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <dir>        Output directory (default: reports)")
	fmt.Fprintln(w, "  -f, --filename <name>     File name; .pdf is appended if missing")
	fmt.Fprintln(w, "  -t, --title <s>           Report title, shown as the query")
	fmt.Fprintln(w, "      --timeout <d>         PDF generation timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w, "      --html                Also write the HTML document")
	fmt.Fprintln(w, "      --html-only           Write the HTML document only, skip PDF")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: researchpdf serve [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run the HTTP API:")
	fmt.Fprintln(w, "  GET  /ping      health check")
	fmt.Fprintln(w, "  POST /query     {\"query\", \"save_pdf\"} forwarded to the research agency")
	fmt.Fprintln(w, "  POST /report    {\"content\", \"title\", \"filename\"} rendered to PDF")
	fmt.Fprintln(w, "  GET  /metrics   Prometheus metrics")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Server:")
	fmt.Fprintln(w, "  -a, --addr <addr>         Listen address (default :8000)")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel PDF renderers (0 = auto)")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printMCPUsage prints usage for the mcp command.
func printMCPUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: researchpdf mcp [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run the MCP server exposing search and fetch over an OpenAI vector store.")
	fmt.Fprintln(w, "Requires OPENAI_API_KEY; VECTOR_STORE_ID defaults to the first store found.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Transport:")
	fmt.Fprintln(w, "      --http[=<addr>]       Serve streamable HTTP instead of stdio")
	fmt.Fprintln(w, "                            (default address: mcp.addr, 127.0.0.1:8001)")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// runHelp prints help for a specific command.
func runHelp(args []string, deps *Dependencies) int {
	if len(args) == 0 {
		printUsage(deps.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "render":
		printRenderUsage(deps.Stdout)
	case "serve":
		printServeUsage(deps.Stdout)
	case "mcp":
		printMCPUsage(deps.Stdout)
	case "version":
		fmt.Fprintln(deps.Stdout, "Usage: researchpdf version")
		fmt.Fprintln(deps.Stdout)
		fmt.Fprintln(deps.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(deps.Stdout, "Usage: researchpdf help [command]")
		fmt.Fprintln(deps.Stdout)
		fmt.Fprintln(deps.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(deps.Stderr, "Unknown command: %s\n", args[0])
		printUsage(deps.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
