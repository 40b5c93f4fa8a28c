// Package rolescmd implements the `statusline roles` command group.
package rolescmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/ai-architect/cmd/statusline/shared"
	"github.com/go-ports/ai-architect/internal/roles"
	"github.com/go-ports/ai-architect/internal/settings"
)

// Command implements `statusline roles`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the roles command group. Without a subcommand it lists the
// effective roles and providers.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "roles",
		Short: "Show or change which roles run and on which provider",
		Args:  cobra.NoArgs,
		RunE:  c.runList,
	}
	c.cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List roles and providers",
			Args:  cobra.NoArgs,
			RunE:  c.runList,
		},
		&cobra.Command{
			Use:   "enable <role>",
			Short: "Turn a role on",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.update(cmd, func(doc *settings.Document) error {
					return roles.SetEnabled(doc, args[0], true)
				})
			},
		},
		&cobra.Command{
			Use:   "disable <role>",
			Short: "Turn a role off",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.update(cmd, func(doc *settings.Document) error {
					return roles.SetEnabled(doc, args[0], false)
				})
			},
		},
		&cobra.Command{
			Use:   "set-provider <role> <provider>",
			Short: "Assign a provider to a role",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.update(cmd, func(doc *settings.Document) error {
					return roles.SetProvider(doc, args[0], args[1])
				})
			},
		},
	)
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) runList(cmd *cobra.Command, _ []string) error {
	opts, err := c.ctx.Options()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), roles.Read(settings.Load(opts.SettingsPath)).Summary())
	return nil
}

// update applies fn to the project settings and prints the resulting summary.
func (c *Command) update(cmd *cobra.Command, fn func(*settings.Document) error) error {
	opts, err := c.ctx.Options()
	if err != nil {
		return err
	}
	if err := roles.Update(opts.SettingsPath, fn); err != nil {
		return err
	}
	return c.runList(cmd, nil)
}
