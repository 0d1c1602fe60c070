package main

import (
	"errors"
	"os"

	researchpdf "github.com/alnah/go-researchpdf"
	"github.com/alnah/go-researchpdf/internal/config"
	"github.com/alnah/go-researchpdf/internal/vectorstore"
)

// Exit codes for the researchpdf CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful run
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, researchpdf.ErrBrowserConnect) ||
		errors.Is(err, researchpdf.ErrPageCreate) ||
		errors.Is(err, researchpdf.ErrPageLoad) ||
		errors.Is(err, researchpdf.ErrPDFGeneration) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadMarkdown) ||
		errors.Is(err, ErrWriteHTML) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, researchpdf.ErrCreateOutputDir) ||
		errors.Is(err, researchpdf.ErrWritePDF) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, researchpdf.ErrStyleNotFound) ||
		errors.Is(err, researchpdf.ErrTemplateNotFound) ||
		errors.Is(err, researchpdf.ErrInvalidAssetPath) ||
		errors.Is(err, vectorstore.ErrMissingAPIKey) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrUsage) {
		return ExitUsage
	}

	return ExitGeneral
}
