// Package configcmd implements the `statusline config` command group.
package configcmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/go-ports/ai-architect/cmd/statusline/shared"
	"github.com/go-ports/ai-architect/internal/config"
)

const configTemplate = `# ai-architect statusline configuration

# How the managed statusline command runs the renderer.
fragment:
  interpreter: node                               # bare names are resolved on PATH
  plugin_root_env: CLAUDE_PLUGIN_ROOT             # env var set by Claude Code for plugins
  script: scripts/statusline/statusline.js        # relative to the plugin root
`

// Command implements `statusline config`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the config command group.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "config",
		Short: "Show the resolved configuration",
		Args:  cobra.NoArgs,
		RunE:  c.runShow,
	}
	c.cmd.AddCommand(newConfigInit(ctx))
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) runShow(cmd *cobra.Command, _ []string) error {
	opts, err := c.ctx.Options()
	if err != nil {
		return err
	}

	built, err := opts.Template.Build()
	if err != nil {
		built = "<invalid: " + err.Error() + ">"
	}

	data := map[string]any{
		"fragment": map[string]any{
			"interpreter":     opts.Config.Fragment.Interpreter,
			"plugin_root_env": opts.Config.Fragment.PluginRootEnv,
			"script":          opts.Config.Fragment.Script,
			"command":         built,
		},
		"project_dir":        opts.ProjectDir,
		"project_dir_source": opts.ProjectDirSource,
		"settings_path":      opts.SettingsPath,
		"config_path":        opts.ConfigPath,
		"config_source":      opts.ConfigSource,
	}
	b, err := yaml.Marshal(data)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), string(b))
	return nil
}

// ---------------------------------------------------------------------------
// config init
// ---------------------------------------------------------------------------

func newConfigInit(ctx *shared.Context) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a starter config.yaml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfgPath, _, err := config.ConfigPathFor(ctx.ConfigPath)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if _, err := os.Stat(cfgPath); err == nil && !force {
				fmt.Fprintf(out, "Config already exists at %s\n", cfgPath)
				fmt.Fprintln(out, "Use --force to overwrite.")
				return nil
			}
			if err := os.MkdirAll(filepath.Dir(cfgPath), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(cfgPath, []byte(configTemplate), 0o600); err != nil {
				return err
			}
			fmt.Fprintf(out, "Created %s\n", cfgPath)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing config")
	return cmd
}
