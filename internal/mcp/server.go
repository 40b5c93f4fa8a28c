// Package mcp provides the stdio MCP server that lets a coding agent toggle
// and inspect the project statusline.
package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/go-ports/ai-architect/internal/buildinfo"
	"github.com/go-ports/ai-architect/internal/config"
	"github.com/go-ports/ai-architect/internal/statusline"
)

const enableDescription = `Enable the ai-architect statusline for a project. Adds the managed statusline command to .claude/settings.json, upgrading commands written by older releases and keeping any other statusline commands. Safe to call repeatedly.`

const disableDescription = `Disable the ai-architect statusline for a project. Removes the managed command from .claude/settings.json and keeps any other statusline commands. Safe to call when it is not enabled.`

const statusDescription = `Report whether the ai-architect statusline is enabled for a project, enabled by an older release, or replaced by another command.`

// NewServer creates and registers the statusline tools on a new MCP server.
// opts supplies the default project and fragment template; every tool accepts
// a project_dir argument that overrides the project.
func NewServer(opts *config.Options) *mcpserver.MCPServer {
	s := mcpserver.NewMCPServer("ai-architect-statusline", buildinfo.Version)
	registerTools(s, opts)
	return s
}

// Serve starts the stdio MCP server, blocking until stdin closes.
func Serve(_ context.Context, opts *config.Options) error {
	return mcpserver.ServeStdio(NewServer(opts))
}

func registerTools(s *mcpserver.MCPServer, opts *config.Options) {
	projectArg := mcp.WithString("project_dir",
		mcp.Description("Project root containing .claude/. Defaults to the server's project."),
	)

	s.AddTool(mcp.NewTool("statusline_enable",
		mcp.WithDescription(enableDescription),
		projectArg,
	), func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleApply(opts, statusline.ActionEnable, req)
	})

	s.AddTool(mcp.NewTool("statusline_disable",
		mcp.WithDescription(disableDescription),
		projectArg,
	), func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleApply(opts, statusline.ActionDisable, req)
	})

	s.AddTool(mcp.NewTool("statusline_status",
		mcp.WithDescription(statusDescription),
		projectArg,
	), func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleStatus(opts, req)
	})
}

// ---------------------------------------------------------------------------
// Tool handlers
// ---------------------------------------------------------------------------

func handleApply(opts *config.Options, action statusline.Action, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	scoped, err := scope(opts, req.GetString("project_dir", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res, err := statusline.Apply(scoped.SettingsPath, scoped.Template, action)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(map[string]any{
		"action":        res.Action.String(),
		"changed":       res.Changed,
		"message":       res.Message,
		"settings_path": scoped.SettingsPath,
	})
}

func handleStatus(opts *config.Options, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	scoped, err := scope(opts, req.GetString("project_dir", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	st := statusline.Check(scoped.SettingsPath)
	return jsonResult(map[string]any{
		"state":         st.State.String(),
		"fragment":      st.Kind.String(),
		"message":       st.Message(),
		"settings_path": scoped.SettingsPath,
	})
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func scope(opts *config.Options, projectDir string) (*config.Options, error) {
	if projectDir == "" {
		return opts, nil
	}
	return opts.WithProjectDir(projectDir)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
