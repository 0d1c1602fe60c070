package main

import (
	"context"

	"github.com/alnah/go-researchpdf/internal/mcpserver"
	"github.com/alnah/go-researchpdf/internal/metrics"
	"github.com/alnah/go-researchpdf/internal/vectorstore"
)

// runMCP runs the MCP server over stdio, or streamable HTTP with --http.
func runMCP(ctx context.Context, args []string, deps *Dependencies) error {
	flags, err := parseMCPFlags(args, deps.Stderr)
	if err != nil {
		return err
	}

	env, err := setup(flags.common, deps)
	if err != nil {
		return err
	}
	cfg, logger := env.cfg, env.logger

	client, err := vectorstore.NewClient(cfg.VectorStore.APIKey)
	if err != nil {
		return err
	}
	storeID, err := vectorstore.DetectVectorStoreID(ctx, client, cfg.VectorStore.ID)
	if err != nil {
		return err
	}
	logger.Info("using vector store", "id", storeID)

	recorder := metrics.NewPrometheusRecorder(nil)
	srv, err := mcpserver.New(vectorstore.NewOpenAIStore(client, storeID, logger),
		mcpserver.WithLogger(logger),
		mcpserver.WithRecorder(recorder),
		mcpserver.WithMetricsHandler(recorder.Handler()),
		mcpserver.WithVersion(Version),
	)
	if err != nil {
		return err
	}

	switch flags.http {
	case "":
		return srv.Run(ctx)
	case httpFromConfig:
		return srv.RunHTTP(ctx, cfg.MCP.Addr)
	default:
		return srv.RunHTTP(ctx, flags.http)
	}
}
