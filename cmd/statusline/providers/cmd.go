// Package providerscmd implements the `statusline providers` command group.
package providerscmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/ai-architect/cmd/statusline/shared"
	"github.com/go-ports/ai-architect/internal/roles"
	"github.com/go-ports/ai-architect/internal/settings"
)

// Command implements `statusline providers`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the providers command group.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "providers",
		Short: "Show, add or remove role providers",
		Args:  cobra.NoArgs,
		RunE:  c.runList,
	}
	c.cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List providers",
			Args:  cobra.NoArgs,
			RunE:  c.runList,
		},
		c.newAdd(),
		&cobra.Command{
			Use:   "remove <name>",
			Short: "Remove a provider that no role uses",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := c.update(func(doc *settings.Document) error {
					return roles.RemoveProvider(doc, args[0])
				}); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed provider %s\n", args[0])
				return nil
			},
		},
	)
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) newAdd() *cobra.Command {
	var p roles.Provider
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add or replace a provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p.Name = args[0]
			if err := c.update(func(doc *settings.Document) error {
				return roles.AddProvider(doc, p)
			}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved provider %s (%s)\n", p.Name, p.Kind)
			return nil
		},
	}
	cmd.Flags().StringVar(&p.Kind, "kind", roles.KindCommand, "Provider kind: codex, gemini or command")
	cmd.Flags().StringVar(&p.Model, "model", "", "Model for codex and gemini providers")
	cmd.Flags().StringVar(&p.Command, "command", "", "Shell command for command providers")
	return cmd
}

func (c *Command) runList(cmd *cobra.Command, _ []string) error {
	opts, err := c.ctx.Options()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, p := range roles.Read(settings.Load(opts.SettingsPath)).Providers {
		line := fmt.Sprintf("%s\t%s", p.Name, p.Kind)
		switch {
		case p.Model != "":
			line += "\t" + p.Model
		case p.Command != "":
			line += "\t" + p.Command
		}
		fmt.Fprintln(out, line)
	}
	return nil
}

func (c *Command) update(fn func(*settings.Document) error) error {
	opts, err := c.ctx.Options()
	if err != nil {
		return err
	}
	return roles.Update(opts.SettingsPath, fn)
}
