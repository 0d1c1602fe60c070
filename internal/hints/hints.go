// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-researchpdf/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv, which Docker creates automatically. Tests replace it.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForBrowserConnect returns hints for browser connection errors.
// Detects CI/Docker environments, where Chrome usually needs its sandbox
// disabled, and suggests the relevant environment variables.
func ForBrowserConnect() string {
	var hints []string

	// Detect CI environment
	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	// Suggest ROD_NO_SANDBOX for container/CI environments
	if (inCI || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}
	// Suggest ROD_BROWSER_BIN if not set
	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use a local Chrome")
	}

	return formatHints(hints)
}

// ForTimeout returns a hint about increasing the render timeout.
func ForTimeout() string {
	return format("for long reports, raise --timeout or RESEARCHPDF_TIMEOUT")
}

// ForConfigNotFound suggests --config or creating a user config file.
// searchedPaths comes from config.SearchPaths; only the per-user location is
// worth suggesting, since ./researchpdf.yaml is already obvious.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/researchpdf.yaml"
	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/go-researchpdf") {
			hint += " or create " + p
			break
		}
	}
	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForVectorStore returns hints when the vector store backend is not usable.
// A missing API key is reported first because no other call can succeed
// without it.
func ForVectorStore() string {
	if os.Getenv("OPENAI_API_KEY") == "" {
		return format("set OPENAI_API_KEY (a .env file in the working directory is loaded)")
	}
	return format("set VECTOR_STORE_ID or create a vector store in the OpenAI dashboard")
}

// ForAgencyScript returns hints when the research agency cannot be started.
func ForAgencyScript(command string) string {
	return format("check that " + strings.TrimSpace(command) + " runs; override with RESEARCHPDF_AGENCY_SCRIPT")
}

// format prefixes a non-empty hint with the standard "\n  hint: " marker.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins several hints into one line.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
