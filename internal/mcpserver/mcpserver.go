package mcpserver

import (
	"context"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/panbanda/codestat/pkg/config"
)

// Server wraps the MCP server and registers the codestat tools.
type Server struct {
	server  *mcp.Server
	config  *config.Config
	logger  *slog.Logger
	version string
}

// Option configures a Server.
type Option func(*Server)

// WithConfig sets the configuration tools analyze with.
func WithConfig(cfg *config.Config) Option {
	return func(s *Server) {
		s.config = cfg
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// NewServer creates a new MCP server with all codestat tools registered.
func NewServer(version string, opts ...Option) *Server {
	if version == "" {
		version = "dev"
	}
	s := &Server{
		config:  config.DefaultConfig(),
		logger:  slog.Default(),
		version: version,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.server = mcp.NewServer(
		&mcp.Implementation{
			Name:    "codestat",
			Version: version,
		},
		nil,
	)
	s.registerTools()
	s.registerPrompts()
	return s
}

// Run starts the MCP server over stdio transport.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze_project",
		Description: describeAnalyzeProject(),
	}, s.handleAnalyzeProject)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "project_summary",
		Description: describeProjectSummary(),
	}, s.handleProjectSummary)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "merge_results",
		Description: describeMergeResults(),
	}, s.handleMergeResults)
}
