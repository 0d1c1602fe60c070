package main

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	researchpdf "github.com/alnah/go-researchpdf"
	"github.com/alnah/go-researchpdf/internal/agency"
	"github.com/alnah/go-researchpdf/internal/config"
	"github.com/alnah/go-researchpdf/internal/hints"
	"github.com/alnah/go-researchpdf/internal/metrics"
	"github.com/alnah/go-researchpdf/internal/server"
)

// ErrInvalidWorkerCount is returned for --workers outside 0..MaxWorkers.
var ErrInvalidWorkerCount = errors.New("invalid worker count")

// runServe runs the HTTP API until the context is cancelled.
func runServe(ctx context.Context, args []string, deps *Dependencies) error {
	flags, err := parseServeFlags(args, deps.Stderr)
	if err != nil {
		return err
	}
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	env, err := setup(flags.common, deps)
	if err != nil {
		return err
	}
	cfg, logger := env.cfg, env.logger

	addr := flags.addr
	if addr == "" {
		addr = cfg.Server.Addr
	}
	workers := flags.workers
	if workers == 0 {
		workers = cfg.Server.Workers
	}

	runner, err := agency.NewSubprocessRunner(cfg.Agency.Command,
		agency.WithTimeout(cfg.AgencyTimeout()),
		agency.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	if _, err := exec.LookPath(runner.Command()[0]); err != nil {
		logger.Warn("research agency not runnable, /query will fail",
			"command", cfg.Agency.Command, "error", err, "hint", hints.ForAgencyScript(cfg.Agency.Command))
	}

	poolSize := researchpdf.ResolvePoolSize(workers)
	logger.Debug("renderer pool", "size", poolSize)
	pool := researchpdf.NewRendererPool(poolSize, rendererOptions(cfg, logger, deps)...)
	defer func() {
		if err := pool.Close(); err != nil {
			logger.Warn("closing renderer pool", "error", err)
		}
	}()

	recorder := metrics.NewPrometheusRecorder(nil)
	srv, err := server.New(server.Deps{
		Renderer:       pool,
		Agency:         runner,
		Recorder:       recorder,
		MetricsHandler: recorder.Handler(),
		Logger:         logger,
	})
	if err != nil {
		return err
	}
	return srv.Run(ctx, addr)
}

// validateWorkers checks the --workers flag range.
func validateWorkers(n int) error {
	if n < 0 || n > config.MaxWorkers {
		return fmt.Errorf("%w: %d (must be 0..%d)", ErrInvalidWorkerCount, n, config.MaxWorkers)
	}
	return nil
}
