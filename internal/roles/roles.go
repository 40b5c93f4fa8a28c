// Package roles reads and edits the aiArchitect role and provider assignments
// kept in a project's Claude settings.
package roles

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/go-ports/ai-architect/internal/render"
	"github.com/go-ports/ai-architect/internal/settings"
)

// Names lists the roles the plugin routes, in display order.
var Names = []string{"planning", "architect", "review", "qa"}

// Provider kinds.
const (
	KindClaude  = "claude"
	KindCodex   = "codex"
	KindGemini  = "gemini"
	KindCommand = "command"
)

// Errors returned by the edit functions.
var (
	ErrUnknownRole     = errors.New("roles: unknown role")
	ErrUnknownProvider = errors.New("roles: unknown provider")
	ErrBuiltinProvider = errors.New("roles: built-in provider cannot be changed")
	ErrProviderInUse   = errors.New("roles: provider is assigned to a role")
	ErrInvalidProvider = errors.New("roles: invalid provider")
)

const (
	rolesKey     = "roles"
	providersKey = "providers"
)

// Provider is one entry of the providers map.
type Provider struct {
	Name    string
	Kind    string
	Model   string
	Command string
}

// Builtins are the providers every project has, merged under whatever the
// settings define for the same names.
var Builtins = []Provider{
	{Name: "claude", Kind: KindClaude},
	{Name: "codex", Kind: KindCodex, Model: "gpt-5.2-codex"},
	{Name: "gemini", Kind: KindGemini, Model: "gemini-1.5-pro"},
}

func builtin(name string) (Provider, bool) {
	i := slices.IndexFunc(Builtins, func(p Provider) bool { return p.Name == name })
	if i < 0 {
		return Provider{}, false
	}
	return Builtins[i], true
}

// Role is the effective state of one role.
type Role struct {
	Name     string
	Enabled  bool
	Provider string
}

// Config is the effective role configuration: built-in defaults overlaid with
// the settings.
type Config struct {
	Roles     []Role
	Providers []Provider
}

// Read returns the effective configuration of doc. Built-in roles come first
// in Names order, followed by any other object roles in document order.
func Read(doc *settings.Document) Config {
	cfg, _ := doc.Object(render.ConfigKey)
	roles := child(cfg, rolesKey)
	providers := child(cfg, providersKey)

	var out Config
	names := slices.Clone(Names)
	if roles != nil {
		for _, k := range roles.Keys() {
			if _, ok := roles.Object(k); ok && !slices.Contains(names, k) {
				names = append(names, k)
			}
		}
	}
	for _, name := range names {
		r := Role{Name: name, Enabled: true, Provider: render.DefaultProvider}
		if obj := child(roles, name); obj != nil {
			if b, ok := obj.GetBool("enabled"); ok {
				r.Enabled = b
			}
			if p, _ := obj.GetString("provider"); p != "" {
				r.Provider = p
			}
		}
		out.Roles = append(out.Roles, r)
	}

	for _, b := range Builtins {
		out.Providers = append(out.Providers, overlay(b, child(providers, b.Name)))
	}
	if providers != nil {
		for _, k := range providers.Keys() {
			if _, ok := builtin(k); ok {
				continue
			}
			if obj := child(providers, k); obj != nil {
				out.Providers = append(out.Providers, overlay(Provider{Name: k, Kind: "custom"}, obj))
			}
		}
	}
	return out
}

func child(doc *settings.Document, key string) *settings.Document {
	if doc == nil {
		return nil
	}
	obj, ok := doc.Object(key)
	if !ok {
		return nil
	}
	return obj
}

func overlay(p Provider, obj *settings.Document) Provider {
	if obj == nil {
		return p
	}
	if v, _ := obj.GetString("kind"); v != "" {
		p.Kind = v
	}
	if v, _ := obj.GetString("model"); v != "" {
		p.Model = v
	}
	if v, _ := obj.GetString("command"); v != "" {
		p.Command = v
	}
	return p
}

// Provider returns the effective provider called name.
func (c Config) Provider(name string) (Provider, bool) {
	i := slices.IndexFunc(c.Providers, func(p Provider) bool { return p.Name == name })
	if i < 0 {
		return Provider{}, false
	}
	return c.Providers[i], true
}

// Summary renders c as the human-readable listing printed by the CLI.
func (c Config) Summary() string {
	lines := []string{"Roles:"}
	for _, r := range c.Roles {
		state := "off"
		if r.Enabled {
			state = "on"
		}
		lines = append(lines, fmt.Sprintf("- %s: %s (provider: %s)", r.Name, state, r.Provider))
	}
	lines = append(lines, "Providers:")
	for _, p := range c.Providers {
		var extra []string
		if p.Model != "" {
			extra = append(extra, "model="+p.Model)
		}
		if p.Command != "" {
			extra = append(extra, "command="+p.Command)
		}
		line := fmt.Sprintf("- %s (%s)", p.Name, p.Kind)
		if len(extra) > 0 {
			line += " (" + strings.Join(extra, ", ") + ")"
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// ---------------------------------------------------------------------------
// Edits
// ---------------------------------------------------------------------------

func roleName(role string) (string, error) {
	name := strings.ToLower(strings.TrimSpace(role))
	if !slices.Contains(Names, name) {
		return "", fmt.Errorf("%w: %q (want one of %s)", ErrUnknownRole, role, strings.Join(Names, ", "))
	}
	return name, nil
}

// section returns the object under key, or a new one when key is missing or
// holds something else.
func section(doc *settings.Document, key string) *settings.Document {
	if obj, ok := doc.Object(key); ok {
		return obj
	}
	return settings.New()
}

// edit runs fn on aiArchitect.<group>.<name> and writes the chain back.
func edit(doc *settings.Document, group, name string, fn func(*settings.Document) error) error {
	cfg := section(doc, render.ConfigKey)
	grp := section(cfg, group)
	entry := section(grp, name)
	if err := fn(entry); err != nil {
		return err
	}
	grp.SetObject(name, entry)
	cfg.SetObject(group, grp)
	doc.SetObject(render.ConfigKey, cfg)
	return nil
}

// SetEnabled turns a built-in role on or off.
func SetEnabled(doc *settings.Document, role string, enabled bool) error {
	name, err := roleName(role)
	if err != nil {
		return err
	}
	return edit(doc, rolesKey, name, func(r *settings.Document) error {
		r.SetBool("enabled", enabled)
		return nil
	})
}

// SetProvider assigns a known provider to a built-in role.
func SetProvider(doc *settings.Document, role, provider string) error {
	name, err := roleName(role)
	if err != nil {
		return err
	}
	if _, ok := Read(doc).Provider(provider); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownProvider, provider)
	}
	return edit(doc, rolesKey, name, func(r *settings.Document) error {
		return r.SetString("provider", provider)
	})
}

// AddProvider stores p, replacing any provider of the same name. Codex and
// Gemini providers default to the built-in model; command providers need a
// command.
func AddProvider(doc *settings.Document, p Provider) error {
	if p.Name == "" {
		return fmt.Errorf("%w: name required", ErrInvalidProvider)
	}
	if p.Name == KindClaude {
		return fmt.Errorf("%w: %q", ErrBuiltinProvider, p.Name)
	}

	fields := [][2]string{{"kind", p.Kind}}
	switch p.Kind {
	case KindCodex, KindGemini:
		if p.Model == "" {
			def, _ := builtin(p.Kind)
			p.Model = def.Model
		}
		fields = append(fields, [2]string{"model", p.Model})
	case KindCommand:
		if strings.TrimSpace(p.Command) == "" {
			return fmt.Errorf("%w: command required", ErrInvalidProvider)
		}
		fields = append(fields, [2]string{"command", p.Command})
	default:
		return fmt.Errorf("%w: kind %q (want codex, gemini or command)", ErrInvalidProvider, p.Kind)
	}

	cfg := section(doc, render.ConfigKey)
	grp := section(cfg, providersKey)
	entry := settings.New()
	for _, f := range fields {
		if err := entry.SetString(f[0], f[1]); err != nil {
			return err
		}
	}
	grp.SetObject(p.Name, entry)
	cfg.SetObject(providersKey, grp)
	doc.SetObject(render.ConfigKey, cfg)
	return nil
}

// RemoveProvider deletes a provider added to the settings. Built-in providers
// and providers still assigned to a role are kept.
func RemoveProvider(doc *settings.Document, name string) error {
	if _, ok := builtin(name); ok {
		return fmt.Errorf("%w: %q", ErrBuiltinProvider, name)
	}
	cfg, ok := doc.Object(render.ConfigKey)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
	grp, ok := cfg.Object(providersKey)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
	if _, present := grp.Get(name); !present {
		return fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
	for _, r := range Read(doc).Roles {
		if r.Provider == name {
			return fmt.Errorf("%w: %q is used by %s", ErrProviderInUse, name, r.Name)
		}
	}

	grp.Delete(name)
	if grp.Len() == 0 {
		cfg.Delete(providersKey)
	} else {
		cfg.SetObject(providersKey, grp)
	}
	doc.SetObject(render.ConfigKey, cfg)
	return nil
}

// Update loads the settings at path, applies fn and saves the result. Nothing
// is written when fn fails.
func Update(path string, fn func(*settings.Document) error) error {
	doc := settings.Load(path)
	if err := fn(doc); err != nil {
		return err
	}
	if err := settings.Save(path, doc); err != nil {
		return fmt.Errorf("roles: %w", err)
	}
	return nil
}
