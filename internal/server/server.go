package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	researchpdf "github.com/alnah/go-researchpdf"
	"github.com/alnah/go-researchpdf/internal/agency"
	"github.com/alnah/go-researchpdf/internal/metrics"
)

// DefaultAddr is the listen address when none is configured.
const DefaultAddr = ":8000"

const shutdownTimeout = 10 * time.Second

// ReportRenderer renders a markdown report. *researchpdf.RendererPool satisfies it.
type ReportRenderer interface {
	Render(ctx context.Context, input researchpdf.Input) (*researchpdf.Result, error)
}

var _ ReportRenderer = (*researchpdf.RendererPool)(nil)

// Deps are the collaborators of the server. Recorder, MetricsHandler and
// Logger are optional.
type Deps struct {
	Renderer       ReportRenderer
	Agency         agency.Runner
	Recorder       metrics.Recorder
	MetricsHandler http.Handler
	Logger         *slog.Logger
}

// Server serves the HTTP API.
type Server struct {
	echo     *echo.Echo
	renderer ReportRenderer
	agency   agency.Runner
	recorder metrics.Recorder
	logger   *slog.Logger
}

// New builds the server and registers its routes.
func New(deps Deps) (*Server, error) {
	if deps.Renderer == nil {
		return nil, errors.New("server: renderer is required")
	}
	if deps.Agency == nil {
		return nil, errors.New("server: agency runner is required")
	}

	s := &Server{
		echo:     echo.New(),
		renderer: deps.Renderer,
		agency:   deps.Agency,
		recorder: deps.Recorder,
		logger:   deps.Logger,
	}
	if s.recorder == nil {
		s.recorder = metrics.NoopRecorder{}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	e := s.echo
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.handleError

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			s.logger.Info("request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"request_id", v.RequestID,
			)
			return nil
		},
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{"*"},
	}))

	e.GET("/ping", s.ping)
	e.POST("/query", s.query)
	e.POST("/report", s.report)
	if deps.MetricsHandler != nil {
		e.GET("/metrics", echo.WrapHandler(deps.MetricsHandler))
	}

	return s, nil
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", addr)
		errCh <- s.echo.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		s.logger.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.echo.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown: %w", err)
		}
		return nil
	}
}

// handleError writes every error as {"error": msg}.
func (s *Server) handleError(err error, c echo.Context) {
	code := http.StatusInternalServerError
	msg := err.Error()
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if he.Message != nil {
			msg = fmt.Sprint(he.Message)
		}
	}

	req := c.Request()
	level := slog.LevelWarn
	if code >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	s.logger.Log(req.Context(), level, "request failed",
		"method", req.Method,
		"path", req.URL.Path,
		"status", code,
		"error", err,
	)

	if !c.Response().Committed {
		_ = c.JSON(code, map[string]string{"error": msg})
	}
}
