package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

// Version is set by build flags, defaults to "dev" for development builds.
var Version = "dev"

// ServerName is the implementation name reported to MCP clients.
const ServerName = "vanish-email"

// Server wraps the MCP SDK server with the Vanish tools registered.
type Server struct {
	mcpServer *mcp.Server
	logger    *zap.Logger
}

// ServerOptions configures the MCP server.
type ServerOptions struct {
	// Logger receives startup and per-tool failure logs. Defaults to a no-op logger.
	Logger *zap.Logger
	// Transport overrides STDIO (for testing).
	Transport mcp.Transport
}

// NewServer creates a server whose tools forward to provider.
func NewServer(provider Provider, opts *ServerOptions) (*Server, error) {
	if provider == nil {
		return nil, errors.New("mcp: provider is required")
	}
	if opts == nil {
		opts = &ServerOptions{}
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    ServerName,
		Version: Version,
	}, nil)

	s := &Server{
		mcpServer: mcpServer,
		logger:    logger,
	}

	registerTools(mcpServer, &toolset{provider: provider, logger: logger})

	return s, nil
}

// Run serves MCP on STDIO (or opts.Transport) until the client disconnects
// or ctx is cancelled. Cancellation is reported as context.Canceled.
func (s *Server) Run(ctx context.Context, opts *ServerOptions) error {
	var transport mcp.Transport = &mcp.StdioTransport{}
	if opts != nil && opts.Transport != nil {
		transport = opts.Transport
	}

	s.logger.Info("Vanish MCP Server running on stdio")

	if err := s.mcpServer.Run(ctx, transport); err != nil {
		// Don't log context.Canceled as an error - it's normal shutdown
		if !errors.Is(err, context.Canceled) {
			s.logger.Error("server stopped", zap.Error(err))
			return fmt.Errorf("mcp server: %w", err)
		}
		return err
	}

	return nil
}

// MCPServer returns the underlying MCP SDK server.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcpServer
}

// Logger returns the server's logger.
func (s *Server) Logger() *zap.Logger {
	return s.logger
}
