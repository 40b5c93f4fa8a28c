// Tests run the statusline CLI in-process against a temporary project
// directory. Output is captured via cobra's SetOut so tests can run
// concurrently without affecting os.Stdout.
package rootcmd_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"

	rootcmd "github.com/go-ports/ai-architect/cmd/statusline/root"
	"github.com/go-ports/ai-architect/internal/checkers"
	"github.com/go-ports/ai-architect/internal/config"
	"github.com/go-ports/ai-architect/internal/fragment"
	"github.com/go-ports/ai-architect/internal/statusline"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// runCmd executes the root command with the provided args and returns the
// captured stdout output along with any execution error.
func runCmd(c *qt.C, args ...string) (string, error) {
	c.TB.Helper()

	var buf bytes.Buffer
	root := rootcmd.New()
	root.SetOut(&buf)
	root.SetArgs(args)
	execErr := root.ExecuteContext(context.Background())

	return buf.String(), execErr
}

// newProject isolates the test from the caller's environment and returns a
// fresh project directory with its settings path.
func newProject(c *qt.C) (string, string) {
	c.TB.Helper()

	c.Setenv(config.ProjectDirEnv, "")
	c.Setenv(config.ConfigPathEnv, filepath.Join(c.TB.TempDir(), "config.yaml"))

	dir := c.TB.TempDir()
	return dir, config.SettingsPath(dir)
}

func readFile(c *qt.C, path string) string {
	c.TB.Helper()
	data, err := os.ReadFile(path)
	c.Assert(err, qt.IsNil)
	return string(data)
}

// ---------------------------------------------------------------------------
// Help
// ---------------------------------------------------------------------------

func TestHelp_HappyPath(t *testing.T) {
	c := qt.New(t)

	out, err := runCmd(c, "--help")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, "statusline [enable|disable]")
	c.Assert(out, qt.Contains, "--project-dir")
}

// ---------------------------------------------------------------------------
// Toggle
// ---------------------------------------------------------------------------

func TestToggle_Scenario(t *testing.T) {
	c := qt.New(t)
	dir, settingsPath := newProject(c)

	out, err := runCmd(c, "--project-dir", dir, "disable")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Equals, statusline.MsgNotEnabled+"\n")
	_, err = os.Stat(settingsPath)
	c.Assert(os.IsNotExist(err), qt.IsTrue)

	out, err = runCmd(c, "--project-dir", dir)
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Equals, statusline.MsgEnabled+"\n")

	first := readFile(c, settingsPath)
	c.Assert(first, checkers.JSONPathEquals("$.statusLine.type"), "command")
	c.Assert(first, qt.Contains, "# "+fragment.Marker)

	out, err = runCmd(c, "--project-dir", dir, "enable")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Equals, statusline.MsgEnabled+"\n")
	c.Assert(readFile(c, settingsPath), qt.Equals, first)

	out, err = runCmd(c, "--project-dir", dir, "disable")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Equals, statusline.MsgDisabled+"\n")
	c.Assert(readFile(c, settingsPath), qt.Equals, "{}\n")
}

func TestToggle_ActionParsing(t *testing.T) {
	c := qt.New(t)

	cases := []struct {
		name string
		arg  string
		want string
	}{
		{"upper case disable", "DISABLE", statusline.MsgNotEnabled},
		{"mixed case enable", "Enable", statusline.MsgEnabled},
		{"unknown action enables", "toggle", statusline.MsgEnabled},
	}
	for _, tc := range cases {
		c.Run(tc.name, func(c *qt.C) {
			dir, _ := newProject(c)
			out, err := runCmd(c, "--project-dir", dir, tc.arg)
			c.Assert(err, qt.IsNil)
			c.Assert(out, qt.Equals, tc.want+"\n")
		})
	}
}

func TestToggle_ProjectDirFromEnv(t *testing.T) {
	c := qt.New(t)
	dir, settingsPath := newProject(c)
	c.Setenv(config.ProjectDirEnv, dir)

	_, err := runCmd(c, "enable")
	c.Assert(err, qt.IsNil)
	c.Assert(readFile(c, settingsPath), checkers.JSONPathEquals("$.statusLine.type"), "command")
}

func TestToggle_KeepsUserCommand(t *testing.T) {
	c := qt.New(t)
	dir, settingsPath := newProject(c)

	c.Assert(os.MkdirAll(filepath.Dir(settingsPath), 0o755), qt.IsNil)
	c.Assert(os.WriteFile(settingsPath, []byte(`{"model":"opus","statusLine":{"type":"command","command":"echo hi"}}`), 0o600), qt.IsNil)

	_, err := runCmd(c, "--project-dir", dir, "enable")
	c.Assert(err, qt.IsNil)
	_, err = runCmd(c, "--project-dir", dir, "disable")
	c.Assert(err, qt.IsNil)

	got := readFile(c, settingsPath)
	c.Assert(got, checkers.JSONPathEquals("$.model"), "opus")
	c.Assert(got, checkers.JSONPathEquals("$.statusLine.command"), "echo hi")
}

func TestToggle_WriteFailure(t *testing.T) {
	c := qt.New(t)
	dir, _ := newProject(c)

	// A regular file where the .claude directory should be.
	c.Assert(os.WriteFile(filepath.Join(dir, ".claude"), nil, 0o600), qt.IsNil)

	_, err := runCmd(c, "--project-dir", dir, "enable")
	c.Assert(err, qt.ErrorMatches, `statusline: enable: .*`)
}

// ---------------------------------------------------------------------------
// Status
// ---------------------------------------------------------------------------

func TestStatus_HappyPath(t *testing.T) {
	c := qt.New(t)
	dir, settingsPath := newProject(c)

	_, err := runCmd(c, "--project-dir", dir, "enable")
	c.Assert(err, qt.IsNil)

	out, err := runCmd(c, "--project-dir", dir, "status", "--verbose")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, "Statusline is enabled for this project.\n")
	c.Assert(out, qt.Contains, "state:    enabled")
	c.Assert(out, qt.Contains, "fragment: current")
	c.Assert(out, qt.Contains, settingsPath)
}

func TestStatus_Absent(t *testing.T) {
	c := qt.New(t)
	dir, _ := newProject(c)

	out, err := runCmd(c, "--project-dir", dir, "status")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Equals, statusline.Status{}.Message()+"\n")
}

// ---------------------------------------------------------------------------
// Render
// ---------------------------------------------------------------------------

func TestRender_HappyPath(t *testing.T) {
	c := qt.New(t)
	dir, settingsPath := newProject(c)

	c.Assert(os.MkdirAll(filepath.Dir(settingsPath), 0o755), qt.IsNil)
	c.Assert(os.WriteFile(settingsPath, []byte(`{"aiArchitect":{"roles":{
		"tech-lead":{"provider":"codex"},
		"qa":{},
		"docs_writer":{"enabled":false}
	}}}`), 0o600), qt.IsNil)

	out, err := runCmd(c, "--project-dir", dir, "render")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Equals, "Tech Lead [Codex] | QA [Claude]")
}

func TestRender_NoSettings(t *testing.T) {
	c := qt.New(t)
	dir, _ := newProject(c)

	out, err := runCmd(c, "--project-dir", dir, "render")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Equals, "")
}

// ---------------------------------------------------------------------------
// Roles / Providers
// ---------------------------------------------------------------------------

func TestRoles_SetProviderAndRender(t *testing.T) {
	c := qt.New(t)
	dir, settingsPath := newProject(c)

	out, err := runCmd(c, "--project-dir", dir, "roles")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, "- planning: on (provider: claude)\n")

	out, err = runCmd(c, "--project-dir", dir, "roles", "set-provider", "planning", "codex")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, "- planning: on (provider: codex)\n")

	_, err = runCmd(c, "--project-dir", dir, "roles", "enable", "qa")
	c.Assert(err, qt.IsNil)
	_, err = runCmd(c, "--project-dir", dir, "roles", "disable", "architect")
	c.Assert(err, qt.IsNil)

	got := readFile(c, settingsPath)
	c.Assert(got, checkers.JSONPathEquals("$.aiArchitect.roles.planning.provider"), "codex")
	c.Assert(got, checkers.JSONPathEquals("$.aiArchitect.roles.architect.enabled"), false)

	out, err = runCmd(c, "--project-dir", dir, "render")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Equals, "Planning [Codex] | QA [Claude]")
}

func TestRoles_UnknownRole(t *testing.T) {
	c := qt.New(t)
	dir, settingsPath := newProject(c)

	_, err := runCmd(c, "--project-dir", dir, "roles", "enable", "intern")
	c.Assert(err, qt.ErrorMatches, `roles: unknown role: "intern".*`)
	_, err = os.Stat(settingsPath)
	c.Assert(os.IsNotExist(err), qt.IsTrue)
}

func TestProviders_AddAssignRemove(t *testing.T) {
	c := qt.New(t)
	dir, settingsPath := newProject(c)

	out, err := runCmd(c, "--project-dir", dir, "providers", "add", "local", "--command", "llm -m mini")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Equals, "Saved provider local (command)\n")
	c.Assert(readFile(c, settingsPath), checkers.JSONPathEquals("$.aiArchitect.providers.local.command"), "llm -m mini")

	out, err = runCmd(c, "--project-dir", dir, "providers")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, "local\tcommand\tllm -m mini\n")

	_, err = runCmd(c, "--project-dir", dir, "roles", "set-provider", "review", "local")
	c.Assert(err, qt.IsNil)
	_, err = runCmd(c, "--project-dir", dir, "providers", "remove", "local")
	c.Assert(err, qt.ErrorMatches, `roles: provider is assigned to a role: .*`)

	_, err = runCmd(c, "--project-dir", dir, "roles", "set-provider", "review", "gemini")
	c.Assert(err, qt.IsNil)
	out, err = runCmd(c, "--project-dir", dir, "providers", "remove", "local")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Equals, "Removed provider local\n")
	c.Assert(readFile(c, settingsPath), checkers.JSONPathAbsent("$.aiArchitect.providers"))
}

// ---------------------------------------------------------------------------
// Config
// ---------------------------------------------------------------------------

func TestConfig_Show(t *testing.T) {
	c := qt.New(t)
	dir, settingsPath := newProject(c)

	out, err := runCmd(c, "--project-dir", dir, "config")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, "project_dir_source: flag")
	c.Assert(out, qt.Contains, "settings_path: "+settingsPath)
	c.Assert(out, qt.Contains, "plugin_root_env: "+fragment.DefaultPluginRootEnv)
	c.Assert(out, qt.Contains, "config_source: env")
}

func TestConfigInit_HappyPath(t *testing.T) {
	c := qt.New(t)
	newProject(c)
	cfgPath := filepath.Join(t.TempDir(), "nested", "config.yaml")

	out, err := runCmd(c, "--config", cfgPath, "config", "init")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, "Created "+cfgPath)

	cfg, err := config.Load(cfgPath)
	c.Assert(err, qt.IsNil)
	c.Assert(cfg, qt.DeepEquals, config.Default())

	out, err = runCmd(c, "--config", cfgPath, "config", "init")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, "already exists")
}

func TestConfigInit_TildePathIsReadBack(t *testing.T) {
	c := qt.New(t)
	dir, _ := newProject(c)
	home := t.TempDir()
	c.Setenv("HOME", home)

	out, err := runCmd(c, "--config", "~/ai/config.yaml", "config", "init")
	c.Assert(err, qt.IsNil)
	written := filepath.Join(home, "ai", "config.yaml")
	c.Assert(out, qt.Contains, "Created "+written)

	out, err = runCmd(c, "--project-dir", dir, "--config", "~/ai/config.yaml", "config")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, "config_path: "+written)
	c.Assert(out, qt.Contains, "config_source: flag")
}

func TestConfig_CustomScript(t *testing.T) {
	c := qt.New(t)
	dir, settingsPath := newProject(c)

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	c.Assert(os.WriteFile(cfgPath, []byte("fragment:\n  interpreter: /opt/node/bin/node\n  script: bin/status.js\n"), 0o600), qt.IsNil)

	_, err := runCmd(c, "--project-dir", dir, "--config", cfgPath, "enable")
	c.Assert(err, qt.IsNil)

	got := readFile(c, settingsPath)
	c.Assert(got, qt.Contains, `/opt/node/bin/node`)
	c.Assert(got, qt.Contains, `bin/status.js`)
}

// ---------------------------------------------------------------------------
// Setup / Uninstall
// ---------------------------------------------------------------------------

func TestSetupUninstall_HappyPath(t *testing.T) {
	c := qt.New(t)
	dir, _ := newProject(c)
	mcpPath := filepath.Join(dir, ".mcp.json")

	out, err := runCmd(c, "--project-dir", dir, "setup", "--command", "/usr/local/bin/statusline")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, "Installed")
	c.Assert(readFile(c, mcpPath), checkers.JSONPathEquals(`$.mcpServers["ai-architect-statusline"].command`), "/usr/local/bin/statusline")

	out, err = runCmd(c, "--project-dir", dir, "uninstall")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, "Removed")
	_, err = os.Stat(mcpPath)
	c.Assert(os.IsNotExist(err), qt.IsTrue)
}

// ---------------------------------------------------------------------------
// Version
// ---------------------------------------------------------------------------

func TestVersion_HappyPath(t *testing.T) {
	c := qt.New(t)

	out, err := runCmd(c, "version")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, "statusline dev")
}
