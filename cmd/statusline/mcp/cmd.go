// Package mcpcmd implements the `statusline mcp` command.
package mcpcmd

import (
	"github.com/spf13/cobra"

	"github.com/go-ports/ai-architect/cmd/statusline/shared"
	internalmcp "github.com/go-ports/ai-architect/internal/mcp"
)

// Command implements `statusline mcp`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the mcp command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "mcp",
		Short: "Start the statusline MCP server (stdio transport)",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	opts, err := c.ctx.Options()
	if err != nil {
		return err
	}
	return internalmcp.Serve(cmd.Context(), opts)
}
