package main

import (
	"context"
	"errors"

	researchpdf "github.com/alnah/go-researchpdf"
	"github.com/alnah/go-researchpdf/internal/agency"
	"github.com/alnah/go-researchpdf/internal/config"
	"github.com/alnah/go-researchpdf/internal/hints"
	"github.com/alnah/go-researchpdf/internal/vectorstore"
)

// hintFor returns an actionable hint for err, or "".
func hintFor(err error) string {
	switch {
	case errors.Is(err, researchpdf.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, researchpdf.ErrPageLoad):
		return hints.ForTimeout()
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(config.SearchPaths())
	case errors.Is(err, researchpdf.ErrCreateOutputDir):
		return hints.ForOutputDirectory()
	case errors.Is(err, vectorstore.ErrMissingAPIKey),
		errors.Is(err, vectorstore.ErrNoVectorStore),
		errors.Is(err, vectorstore.ErrVectorStoreRequest):
		return hints.ForVectorStore()
	case errors.Is(err, agency.ErrEmptyCommand):
		return hints.ForAgencyScript(agency.DefaultCommand)
	}
	return ""
}
