// Package config resolves the project settings location and the inputs of the
// managed statusline fragment.
package config

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/go-ports/ai-architect/internal/fragment"
)

// Environment variables consulted during resolution.
const (
	ProjectDirEnv = "CLAUDE_PROJECT_DIR"
	ConfigPathEnv = "AI_ARCHITECT_CONFIG"
)

// ---------------------------------------------------------------------------
// Config types
// ---------------------------------------------------------------------------

// FragmentConfig controls how the managed fragment is rendered.
type FragmentConfig struct {
	Interpreter   string `yaml:"interpreter"`     // bare names are looked up on PATH
	PluginRootEnv string `yaml:"plugin_root_env"` // env var holding the plugin root at render time
	Script        string `yaml:"script"`          // relative to the plugin root
}

// ToolConfig is the root of the optional config.yaml.
type ToolConfig struct {
	Fragment FragmentConfig `yaml:"fragment"`
}

// Default returns a ToolConfig populated with the built-in values.
func Default() *ToolConfig {
	return &ToolConfig{
		Fragment: FragmentConfig{
			Interpreter:   fragment.DefaultInterpreter,
			PluginRootEnv: fragment.DefaultPluginRootEnv,
			Script:        fragment.DefaultScript,
		},
	}
}

// Load reads config.yaml from path.
// If the file does not exist it returns Default() with no error.
// Missing or empty keys retain their default values.
func Load(path string) (*ToolConfig, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	if frag, ok := raw["fragment"].(map[string]any); ok {
		if v, ok := frag["interpreter"].(string); ok && v != "" {
			cfg.Fragment.Interpreter = v
		}
		if v, ok := frag["plugin_root_env"].(string); ok && v != "" {
			cfg.Fragment.PluginRootEnv = v
		}
		if v, ok := frag["script"].(string); ok && v != "" {
			cfg.Fragment.Script = v
		}
	}

	return cfg, nil
}

// Template converts the fragment settings into a fragment.Template, resolving
// a bare interpreter name to its absolute path when it is on PATH.
func (c *ToolConfig) Template() fragment.Template {
	return fragment.Template{
		PluginRootEnv: c.Fragment.PluginRootEnv,
		Interpreter:   resolveInterpreter(c.Fragment.Interpreter, exec.LookPath),
		Script:        c.Fragment.Script,
	}
}

func resolveInterpreter(name string, lookPath func(string) (string, error)) string {
	if name == "" || strings.ContainsRune(name, filepath.Separator) {
		return name
	}
	if p, err := lookPath(name); err == nil {
		if abs, err := filepath.Abs(p); err == nil {
			return abs
		}
	}
	return name
}

// ---------------------------------------------------------------------------
// Path resolution
// ---------------------------------------------------------------------------

// ResolveConfigPath returns the config.yaml location and the source of the
// resolution. Priority: AI_ARCHITECT_CONFIG env → ~/.config/ai-architect/config.yaml.
// source is one of "env" or "default".
func ResolveConfigPath() (path, source string) {
	if env := os.Getenv(ConfigPathEnv); env != "" {
		if p, err := normalizePath(env); err == nil {
			return p, "env"
		}
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "ai-architect", "config.yaml"), "default"
}

// ConfigPathFor resolves the config.yaml location for an explicit --config
// value, falling back to ResolveConfigPath when flag is empty. source is one
// of "flag", "env" or "default".
func ConfigPathFor(flag string) (path, source string, err error) {
	if flag == "" {
		path, source = ResolveConfigPath()
		return path, source, nil
	}
	p, err := normalizePath(flag)
	if err != nil {
		return "", "", err
	}
	return p, "flag", nil
}

// ResolveProjectDir returns the project directory and the source of the
// resolution. Priority: CLAUDE_PROJECT_DIR env → working directory.
// source is one of "env" or "cwd".
func ResolveProjectDir() (path, source string) {
	if env := os.Getenv(ProjectDirEnv); env != "" {
		if p, err := normalizePath(env); err == nil {
			return p, "env"
		}
	}
	cwd, _ := os.Getwd()
	return cwd, "cwd"
}

// SettingsPath returns the project settings file below root.
func SettingsPath(root string) string {
	return filepath.Join(root, ".claude", "settings.json")
}

// normalizePath expands ~ and makes the path absolute.
func normalizePath(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, path[2:])
	}
	return filepath.Abs(os.ExpandEnv(path))
}

// ---------------------------------------------------------------------------
// Options
// ---------------------------------------------------------------------------

// Options is everything a statusline operation needs from the environment,
// resolved once so the operations themselves never consult process state.
type Options struct {
	ProjectDir       string
	ProjectDirSource string // "flag" | "env" | "cwd"
	SettingsPath     string
	ConfigPath       string
	ConfigSource     string // "flag" | "env" | "default"
	Config           *ToolConfig
	Template         fragment.Template
}

// Resolve builds Options. Non-empty projectDir and configPath take precedence
// over the environment.
func Resolve(projectDir, configPath string) (*Options, error) {
	opts := &Options{}

	if projectDir != "" {
		p, err := normalizePath(projectDir)
		if err != nil {
			return nil, err
		}
		opts.ProjectDir, opts.ProjectDirSource = p, "flag"
	} else {
		opts.ProjectDir, opts.ProjectDirSource = ResolveProjectDir()
	}
	opts.SettingsPath = SettingsPath(opts.ProjectDir)

	var err error
	opts.ConfigPath, opts.ConfigSource, err = ConfigPathFor(configPath)
	if err != nil {
		return nil, err
	}

	cfg, err := Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	opts.Config = cfg
	opts.Template = cfg.Template()
	return opts, nil
}

// WithProjectDir returns a copy of o rooted at dir.
func (o *Options) WithProjectDir(dir string) (*Options, error) {
	p, err := normalizePath(dir)
	if err != nil {
		return nil, err
	}
	cp := *o
	cp.ProjectDir, cp.ProjectDirSource = p, "flag"
	cp.SettingsPath = SettingsPath(p)
	return &cp, nil
}
