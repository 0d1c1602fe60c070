package researchpdf

import (
	"errors"

	"github.com/alnah/go-researchpdf/internal/pipeline"
)

// Sentinel errors for library operations.
var (
	ErrHTMLConversion  = pipeline.ErrHTMLConversion
	ErrPDFGeneration   = errors.New("PDF generation failed")
	ErrBrowserConnect  = errors.New("failed to connect to browser")
	ErrPageCreate      = errors.New("failed to create browser page")
	ErrPageLoad        = errors.New("failed to load page")
	ErrCreateOutputDir = errors.New("failed to create output directory")
	ErrWritePDF        = errors.New("failed to write PDF file")
	ErrRendererClosed  = errors.New("renderer is closed")
	ErrPoolClosed      = errors.New("renderer pool is closed")

	// Asset loading errors.
	ErrInvalidAssetPath = errors.New("invalid asset path")
	ErrStyleNotFound    = errors.New("style not found")
	ErrTemplateNotFound = errors.New("template not found")
)
