package system

import (
	"github.com/julianstephens/murmur/internal/cli"
	"github.com/julianstephens/murmur/internal/logger"
	"github.com/julianstephens/murmur/internal/mcp"
)

// McpCmd serves the journal to MCP clients over stdin/stdout.
type McpCmd struct{}

func (c *McpCmd) Run(ctx *cli.Context) error {
	if err := ctx.LoadJournal(); err != nil {
		return err
	}

	logger.Info("Starting MCP server")
	srv := mcp.New(mcp.Deps{
		Journal: ctx.Journal,
		Gate:    ctx.Gate,
		Clock:   ctx.Clock,
	})
	return srv.Serve()
}
