// Package shared holds the context passed to all CLI commands.
package shared

import "github.com/go-ports/ai-architect/internal/config"

// Context carries global CLI state (flags set on the root command).
type Context struct {
	// ProjectDir overrides the project root.
	// When empty, resolution falls through to CLAUDE_PROJECT_DIR env var → working directory.
	ProjectDir string

	// ConfigPath overrides the tool config file.
	// When empty, resolution falls through to AI_ARCHITECT_CONFIG env var → ~/.config/ai-architect/config.yaml.
	ConfigPath string
}

// Options resolves the flags against the environment.
func (c *Context) Options() (*config.Options, error) {
	return config.Resolve(c.ProjectDir, c.ConfigPath)
}
