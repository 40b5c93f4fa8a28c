// Package fragment builds, recognizes and splices the shell fragment that the
// ai-architect plugin installs into a Claude statusLine command.
package fragment

import (
	"errors"
	"strings"
)

// Marker is the trailing comment token that identifies the current fragment
// regardless of the resolved interpreter or plugin path.
const Marker = "ai-architect-statusline"

// Defaults used when a Template field is left empty.
const (
	DefaultPluginRootEnv = "CLAUDE_PLUGIN_ROOT"
	DefaultInterpreter   = "node"
	DefaultScript        = "scripts/statusline/statusline.js"
)

// ErrUnquotable is returned by Build when a template value cannot be embedded
// in the single-quoted bash -lc argument.
var ErrUnquotable = errors.New("fragment: value contains a quote or newline")

// Template holds the runtime-resolved inputs of the managed fragment.
type Template struct {
	// PluginRootEnv names the environment variable holding the plugin root
	// at statusline execution time.
	PluginRootEnv string
	// Interpreter is the binary that runs Script, usually an absolute path.
	Interpreter string
	// Script is relative to the plugin root.
	Script string
}

// withDefaults fills empty fields.
func (t Template) withDefaults() Template {
	if t.PluginRootEnv == "" {
		t.PluginRootEnv = DefaultPluginRootEnv
	}
	if t.Interpreter == "" {
		t.Interpreter = DefaultInterpreter
	}
	if t.Script == "" {
		t.Script = DefaultScript
	}
	return t
}

// Build renders the fragment. Identical templates always render identical
// strings, which is what keeps Merge idempotent.
func (t Template) Build() (string, error) {
	t = t.withDefaults()
	for _, v := range []string{t.PluginRootEnv, t.Interpreter, t.Script} {
		if strings.ContainsAny(v, "'\"\n") {
			return "", ErrUnquotable
		}
	}
	script := strings.Join([]string{
		`plugin_dir="${` + t.PluginRootEnv + `:-}"`,
		`if [ -z "$plugin_dir" ]; then exit 0; fi`,
		`"` + t.Interpreter + `" "${plugin_dir}` + t.Script + `" # ` + Marker,
	}, "; ")
	return "bash -lc '" + script + "'", nil
}

// MustBuild is Build for templates known to be valid, such as test fixtures.
func (t Template) MustBuild() string {
	s, err := t.Build()
	if err != nil {
		panic(err)
	}
	return s
}
