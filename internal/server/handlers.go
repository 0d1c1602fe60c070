package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	researchpdf "github.com/alnah/go-researchpdf"
	"github.com/alnah/go-researchpdf/internal/metrics"
)

// MinReportLength is the trimmed answer length above which /query renders a report.
const MinReportLength = 100

type queryRequest struct {
	Query   string `json:"query"`
	SavePDF bool   `json:"save_pdf"`
}

type queryResponse struct {
	Input       string          `json:"input"`
	Output      string          `json:"output"`
	Report      *reportResponse `json:"report,omitempty"`
	ReportError string          `json:"report_error,omitempty"`
}

type reportRequest struct {
	Content  string `json:"content"`
	Title    string `json:"title"`
	Filename string `json:"filename"`
}

type reportResponse struct {
	Path       string                  `json:"path"`
	References []researchpdf.Reference `json:"references"`
}

func (s *Server) ping(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) query(c echo.Context) error {
	var req queryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Query) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query is required")
	}

	ctx := c.Request().Context()
	output, err := s.agency.Ask(ctx, req.Query)
	s.recorder.IncQuery(metrics.OutcomeOf(err))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "research agency failed").SetInternal(err)
	}

	resp := queryResponse{Input: req.Query, Output: output}
	if req.SavePDF && len(strings.TrimSpace(output)) > MinReportLength {
		report, err := s.render(ctx, researchpdf.Input{Content: output, Title: req.Query})
		if err != nil {
			s.logger.Error("report rendering failed", "query", req.Query, "error", err)
			resp.ReportError = err.Error()
		} else {
			resp.Report = report
		}
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) report(c echo.Context) error {
	var req reportRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Content) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "content is required")
	}

	report, err := s.render(c.Request().Context(), researchpdf.Input{
		Content:  req.Content,
		Title:    req.Title,
		Filename: req.Filename,
	})
	if err != nil {
		return echo.NewHTTPError(renderStatus(err), "report rendering failed").SetInternal(err)
	}
	return c.JSON(http.StatusOK, report)
}

func (s *Server) render(ctx context.Context, input researchpdf.Input) (*reportResponse, error) {
	start := time.Now()
	res, err := s.renderer.Render(ctx, input)
	refs := 0
	if res != nil {
		refs = len(res.References)
	}
	s.recorder.ObserveRender(time.Since(start), metrics.OutcomeOf(err), refs)
	if err != nil {
		return nil, err
	}

	references := res.References
	if references == nil {
		references = []researchpdf.Reference{}
	}
	return &reportResponse{Path: res.Path, References: references}, nil
}

func renderStatus(err error) int {
	switch {
	case errors.Is(err, researchpdf.ErrPoolClosed),
		errors.Is(err, researchpdf.ErrRendererClosed),
		errors.Is(err, researchpdf.ErrBrowserConnect),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
