package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	researchpdf "github.com/alnah/go-researchpdf"
	"github.com/alnah/go-researchpdf/internal/config"
)

// environment is what every long-running command needs after startup.
type environment struct {
	cfg    *config.Config
	logger *slog.Logger
}

// setup loads .env and the configuration, warns about unknown variables and
// builds the logger.
func setup(common commonFlags, deps *Dependencies) (*environment, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, err
	}

	if !common.quiet {
		for _, name := range config.UnknownEnvVars(deps.Environ()) {
			fmt.Fprintf(deps.Stderr, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}

	cfg, source, err := config.Load(common.config)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logger := newLogger(cfg.Log, common, deps.Stderr)
	if source != "" {
		logger.Debug("config loaded", "path", source)
	}
	slog.SetDefault(logger)

	return &environment{cfg: cfg, logger: logger}, nil
}

// newLogger builds the slog logger from config. --verbose forces debug and
// --quiet forces error.
func newLogger(lc config.LogConfig, common commonFlags, w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(lc.Level)); err != nil {
		level = slog.LevelInfo
	}
	switch {
	case common.verbose:
		level = slog.LevelDebug
	case common.quiet:
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(lc.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// rendererOptions maps configuration onto renderer options.
func rendererOptions(cfg *config.Config, logger *slog.Logger, deps *Dependencies) []researchpdf.Option {
	return []researchpdf.Option{
		researchpdf.WithTimeout(cfg.PDFTimeout()),
		researchpdf.WithStyle(cfg.Assets.Style),
		researchpdf.WithTemplate(cfg.Assets.Template),
		researchpdf.WithAssetPath(cfg.Assets.BasePath),
		researchpdf.WithDocumentTitle(cfg.Document.Title),
		researchpdf.WithDefaultTitle(cfg.Document.DefaultQuery),
		researchpdf.WithOutputDir(cfg.Output.Dir),
		researchpdf.WithTimestampFormat(cfg.Document.TimestampFormat),
		researchpdf.WithLogger(logger),
		researchpdf.WithClock(deps.Now),
	}
}

// parseTimeoutFlag validates a --timeout value and stores it in cfg.
func parseTimeoutFlag(cfg *config.Config, value string) error {
	if value == "" {
		return nil
	}
	prev := cfg.PDF.Timeout
	cfg.PDF.Timeout = value
	if err := cfg.Validate(); err != nil {
		cfg.PDF.Timeout = prev
		if errors.Is(err, config.ErrInvalidValue) {
			return fmt.Errorf("%w: --timeout %q", ErrUsage, value)
		}
		return err
	}
	return nil
}
