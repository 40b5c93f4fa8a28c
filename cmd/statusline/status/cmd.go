// Package statuscmd implements the `statusline status` command.
package statuscmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/go-ports/ai-architect/cmd/statusline/shared"
	"github.com/go-ports/ai-architect/internal/fragment"
	"github.com/go-ports/ai-architect/internal/statusline"
)

// stateColors maps states to ANSI colors; states without an entry print plain.
var stateColors = map[statusline.State]lipgloss.Color{
	statusline.StateEnabled: lipgloss.Color("2"),
	statusline.StateLegacy:  lipgloss.Color("3"),
	statusline.StateForeign: lipgloss.Color("6"),
	statusline.StateInvalid: lipgloss.Color("1"),
}

// Command implements `statusline status`.
type Command struct {
	ctx     *shared.Context
	cmd     *cobra.Command
	verbose bool
}

// New creates the status command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "status",
		Short: "Report whether the statusline is enabled for the project",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}
	c.cmd.Flags().BoolVarP(&c.verbose, "verbose", "v", false, "Also print the settings path and current command")
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	opts, err := c.ctx.Options()
	if err != nil {
		return err
	}

	st := statusline.Check(opts.SettingsPath)
	out := cmd.OutOrStdout()
	msg := st.Message()
	if color, ok := stateColors[st.State]; ok {
		msg = lipgloss.NewRenderer(out).NewStyle().Foreground(color).Render(msg)
	}
	fmt.Fprintln(out, msg)
	if c.verbose {
		fmt.Fprintf(out, "  settings: %s\n", opts.SettingsPath)
		fmt.Fprintf(out, "  state:    %s\n", st.State)
		if st.Kind != fragment.None {
			fmt.Fprintf(out, "  fragment: %s\n", st.Kind)
		}
		if st.Command != "" {
			fmt.Fprintf(out, "  command:  %s\n", st.Command)
		}
	}
	return nil
}
