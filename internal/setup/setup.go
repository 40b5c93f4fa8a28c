// Package setup registers the statusline MCP server with Claude Code for a
// project by editing the project's .mcp.json.
package setup

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-ports/ai-architect/internal/settings"
)

// ServerName is the key of the statusline entry under mcpServers.
const ServerName = "ai-architect-statusline"

const serversKey = "mcpServers"

// Result is the return value from Install and Uninstall.
type Result struct {
	Changed bool
	Message string
}

func result(changed bool, f string, a ...any) Result {
	return Result{Changed: changed, Message: fmt.Sprintf(f, a...)}
}

// MCPPath returns the project-scoped MCP config file below root.
func MCPPath(root string) string {
	return filepath.Join(root, ".mcp.json")
}

func serverEntry(command string) (*settings.Document, error) {
	entry := settings.New()
	if err := entry.SetString("type", "stdio"); err != nil {
		return nil, err
	}
	if err := entry.SetString("command", command); err != nil {
		return nil, err
	}
	args, err := json.Marshal([]string{"mcp"})
	if err != nil {
		return nil, err
	}
	entry.Set("args", args)
	return entry, nil
}

// Install adds the statusline server to the .mcp.json of the project at root.
// command is the statusline binary; an existing entry is left untouched.
func Install(root, command string) (Result, error) {
	path := MCPPath(root)
	doc := settings.Load(path)

	servers, ok := doc.Object(serversKey)
	if !ok {
		servers = settings.New()
	}
	if _, exists := servers.Get(ServerName); exists {
		return result(false, "Already installed in %s", path), nil
	}

	entry, err := serverEntry(command)
	if err != nil {
		return Result{}, fmt.Errorf("setup: install: %w", err)
	}
	servers.SetObject(ServerName, entry)
	doc.SetObject(serversKey, servers)

	if err := settings.Save(path, doc); err != nil {
		return Result{}, fmt.Errorf("setup: install: %w", err)
	}
	return result(true, "Installed: mcpServers.%s in %s", ServerName, path), nil
}

// Uninstall removes the statusline server from the project's .mcp.json. The
// file is deleted when nothing else is left in it.
func Uninstall(root string) (Result, error) {
	path := MCPPath(root)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return result(false, "Nothing to remove"), nil
	}
	doc := settings.Load(path)

	servers, ok := doc.Object(serversKey)
	if !ok || !servers.Delete(ServerName) {
		return result(false, "Nothing to remove"), nil
	}
	if servers.Len() == 0 {
		doc.Delete(serversKey)
	} else {
		doc.SetObject(serversKey, servers)
	}

	if doc.Len() == 0 {
		if err := os.Remove(path); err != nil {
			return Result{}, fmt.Errorf("setup: uninstall: %w", err)
		}
		return result(true, "Removed: %s", path), nil
	}
	if err := settings.Save(path, doc); err != nil {
		return Result{}, fmt.Errorf("setup: uninstall: %w", err)
	}
	return result(true, "Removed: mcpServers.%s from %s", ServerName, path), nil
}
