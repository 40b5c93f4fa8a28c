// Package render formats the aiArchitect role assignments stored in the
// project settings as a single status line.
package render

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/buger/jsonparser"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/go-ports/ai-architect/internal/settings"
)

// ConfigKey is the settings field holding the plugin's role configuration.
const ConfigKey = "aiArchitect"

// DefaultProvider is assumed for roles that do not name one.
const DefaultProvider = "claude"

// RoleTitles and ProviderTitles override the generated display names.
var (
	RoleTitles = map[string]string{
		"qa": "QA",
	}
	ProviderTitles = map[string]string{
		"claude": "Claude",
		"codex":  "Codex",
		"gemini": "Gemini",
	}
)

var wordSep = regexp.MustCompile(`[-_]+`)

// Titleize turns a kebab or snake case name into space separated words with
// an upper-case first letter. An entry in overrides wins.
func Titleize(name string, overrides map[string]string) string {
	if t, ok := overrides[name]; ok {
		return t
	}
	// Caser values keep state between calls, so each call gets its own.
	caser := cases.Title(language.Und, cases.NoLower)
	var words []string
	for _, part := range wordSep.Split(name, -1) {
		if part != "" {
			words = append(words, caser.String(part))
		}
	}
	return strings.Join(words, " ")
}

// Entry is one enabled role and the provider it runs on.
type Entry struct {
	Role     string
	Provider string
}

func (e Entry) String() string {
	return Titleize(e.Role, RoleTitles) + " [" + Titleize(e.Provider, ProviderTitles) + "]"
}

// Entries lists the enabled roles in document order. Any role value that is
// not false, null, 0 or "" counts, and object roles are enabled unless they set
// "enabled": false. Only object roles can name a provider.
func Entries(doc *settings.Document) []Entry {
	cfg, ok := doc.Object(ConfigKey)
	if !ok {
		return nil
	}
	roles, ok := cfg.Object("roles")
	if !ok {
		return nil
	}
	var entries []Entry
	for _, name := range roles.Keys() {
		raw, _ := roles.Get(name)
		if !truthy(raw) {
			continue
		}
		provider := DefaultProvider
		if role, ok := roles.Object(name); ok {
			if enabled, set := role.GetBool("enabled"); set && !enabled {
				continue
			}
			if p, _ := role.GetString("provider"); p != "" {
				provider = p
			}
		}
		entries = append(entries, Entry{Role: name, Provider: provider})
	}
	return entries
}

// truthy reports whether a raw JSON value is truthy the way a script
// evaluating the settings would see it.
func truthy(raw json.RawMessage) bool {
	value, dataType, _, err := jsonparser.Get(raw)
	if err != nil {
		return false
	}
	switch dataType {
	case jsonparser.Null:
		return false
	case jsonparser.Boolean:
		b, _ := jsonparser.ParseBoolean(value)
		return b
	case jsonparser.Number:
		f, err := jsonparser.ParseFloat(value)
		return err == nil && f != 0
	case jsonparser.String:
		return len(value) > 0
	default:
		return true
	}
}

// Line renders the enabled roles joined by " | ". It is empty when no role is
// enabled.
func Line(doc *settings.Document) string {
	entries := Entries(doc)
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		parts = append(parts, e.String())
	}
	return strings.Join(parts, " | ")
}
