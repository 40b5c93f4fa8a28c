// Package rootcmd wires the root cobra.Command for the statusline CLI binary.
package rootcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	configcmd "github.com/go-ports/ai-architect/cmd/statusline/config"
	mcpcmd "github.com/go-ports/ai-architect/cmd/statusline/mcp"
	providerscmd "github.com/go-ports/ai-architect/cmd/statusline/providers"
	rendercmd "github.com/go-ports/ai-architect/cmd/statusline/render"
	rolescmd "github.com/go-ports/ai-architect/cmd/statusline/roles"
	setupcmd "github.com/go-ports/ai-architect/cmd/statusline/setup"
	"github.com/go-ports/ai-architect/cmd/statusline/shared"
	statuscmd "github.com/go-ports/ai-architect/cmd/statusline/status"
	uninstallcmd "github.com/go-ports/ai-architect/cmd/statusline/uninstall"
	versioncmd "github.com/go-ports/ai-architect/cmd/statusline/version"
	"github.com/go-ports/ai-architect/internal/statusline"
)

// New creates and returns the root cobra.Command for the statusline CLI.
// Without a subcommand it toggles the statusline: the first argument selects
// the action, anything other than "disable" enables.
func New() *cobra.Command {
	ctx := &shared.Context{}

	root := &cobra.Command{
		Use:           "statusline [enable|disable]",
		Short:         "Toggle the ai-architect statusline in .claude/settings.json",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runToggle(cmd, ctx, args)
		},
	}

	root.PersistentFlags().StringVar(
		&ctx.ProjectDir, "project-dir", "",
		"Project root containing .claude/ (default: $CLAUDE_PROJECT_DIR env → working directory)",
	)
	root.PersistentFlags().StringVar(
		&ctx.ConfigPath, "config", "",
		"Tool config file (default: $AI_ARCHITECT_CONFIG env → ~/.config/ai-architect/config.yaml)",
	)

	root.AddCommand(
		statuscmd.New(ctx).Cmd(),
		rendercmd.New(ctx).Cmd(),
		rolescmd.New(ctx).Cmd(),
		providerscmd.New(ctx).Cmd(),
		configcmd.New(ctx).Cmd(),
		setupcmd.New(ctx).Cmd(),
		uninstallcmd.New(ctx).Cmd(),
		mcpcmd.New(ctx).Cmd(),
		versioncmd.New(ctx).Cmd(),
	)

	return root
}

func runToggle(cmd *cobra.Command, ctx *shared.Context, args []string) error {
	opts, err := ctx.Options()
	if err != nil {
		return err
	}

	var arg string
	if len(args) > 0 {
		arg = args[0]
	}

	res, err := statusline.Apply(opts.SettingsPath, opts.Template, statusline.ParseAction(arg))
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), res.Message)
	return nil
}
