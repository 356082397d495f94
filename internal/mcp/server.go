// Package mcp exposes the journal to agents as Model Context Protocol tools
// over stdio.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/julianstephens/murmur/internal/constants"
	"github.com/julianstephens/murmur/internal/journal"
	"github.com/julianstephens/murmur/internal/quota"
	"github.com/julianstephens/murmur/internal/utils"
)

// Deps are the services the tools operate on.
type Deps struct {
	Journal *journal.Journal
	Gate    *quota.Gate
	Clock   utils.Clock
}

type Server struct {
	deps      Deps
	mcpServer *server.MCPServer
}

// New builds the MCP server with every journal tool registered.
func New(deps Deps) *Server {
	s := &Server{
		deps: deps,
		mcpServer: server.NewMCPServer(
			constants.AppName,
			constants.Version,
			server.WithLogging(),
			server.WithRecovery(),
		),
	}
	s.registerTools()
	return s
}

// Serve runs the stdio loop until stdin closes.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}
