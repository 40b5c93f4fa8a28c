// Package rendercmd implements the `statusline render` command, which prints
// the same role line as the plugin's statusline script so it can be checked or
// used as a statusline command directly.
package rendercmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/ai-architect/cmd/statusline/shared"
	"github.com/go-ports/ai-architect/internal/render"
	"github.com/go-ports/ai-architect/internal/settings"
)

// Command implements `statusline render`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the render command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "render",
		Short: "Print the enabled ai-architect roles as a status line",
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
	fmt.Fprint(cmd.OutOrStdout(), render.Line(settings.Load(opts.SettingsPath)))
	return nil
}
