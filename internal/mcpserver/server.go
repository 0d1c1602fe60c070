package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/alnah/go-researchpdf/internal/metrics"
	"github.com/alnah/go-researchpdf/internal/vectorstore"
)

// Name is the implementation name announced to clients.
const Name = "Deep Research MCP Server"

// DefaultAddr is where the HTTP transport listens unless configured.
const DefaultAddr = "127.0.0.1:8001"

const instructions = `This server provides search and document retrieval for deep research.
Use the search tool to find relevant documents by keywords, then use the fetch
tool to retrieve complete document content with citations.`

// ErrNilStore is returned by New when no store is given.
var ErrNilStore = errors.New("vector store is required")

// Server is the MCP server backed by a vector store.
type Server struct {
	store    vectorstore.Store
	recorder metrics.Recorder
	logger   *slog.Logger
	version  string
	server   *mcp.Server

	metricsHandler http.Handler
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger for tool calls and transports.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRecorder records tool call outcomes.
func WithRecorder(r metrics.Recorder) Option {
	return func(s *Server) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithMetricsHandler serves h at /metrics next to the HTTP transport.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) { s.metricsHandler = h }
}

// WithVersion sets the version announced to clients.
func WithVersion(v string) Option {
	return func(s *Server) {
		if v != "" {
			s.version = v
		}
	}
}

// New creates a Server with search and fetch registered.
func New(store vectorstore.Store, opts ...Option) (*Server, error) {
	if store == nil {
		return nil, ErrNilStore
	}

	s := &Server{
		store:    store,
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
		version:  "dev",
	}
	for _, opt := range opts {
		opt(s)
	}

	s.server = mcp.NewServer(&mcp.Implementation{
		Name:    Name,
		Version: s.version,
	}, &mcp.ServerOptions{
		Instructions: instructions,
		Logger:       s.logger,
	})
	s.registerTools()

	return s, nil
}

// Run serves over stdio until ctx is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("starting MCP server", "transport", "stdio")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Handler returns the streamable HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.server
	}, nil)
}

// RunHTTP serves streamable HTTP on addr until ctx is cancelled.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}

	mux := http.NewServeMux()
	mux.Handle("/", s.Handler())
	if s.metricsHandler != nil {
		mux.Handle("/metrics", s.metricsHandler)
	}

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	s.logger.Info("starting MCP server", "transport", "http", "addr", addr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("mcp http server: %w", err)
	}
	return nil
}
