// Package setupcmd implements the `statusline setup` command.
package setupcmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/go-ports/ai-architect/cmd/statusline/shared"
	"github.com/go-ports/ai-architect/internal/setup"
)

// Command implements `statusline setup`.
type Command struct {
	ctx     *shared.Context
	cmd     *cobra.Command
	command string
}

// New creates the setup command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "setup",
		Short: "Register the statusline MCP server in the project's .mcp.json",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}
	c.cmd.Flags().StringVar(&c.command, "command", "", "Server command to register (default: this executable)")
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	opts, err := c.ctx.Options()
	if err != nil {
		return err
	}

	command := c.command
	if command == "" {
		if command, err = os.Executable(); err != nil {
			return err
		}
	}

	res, err := setup.Install(opts.ProjectDir, command)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), res.Message)
	return nil
}
