// Package statusline enables and disables the ai-architect statusline command
// in a project's Claude settings without disturbing anything else stored in
// the statusLine field.
package statusline

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-ports/ai-architect/internal/fragment"
	"github.com/go-ports/ai-architect/internal/settings"
)

// Key is the settings field owned by this package.
const Key = "statusLine"

const commandType = "command"

// Outcome messages.
const (
	MsgEnabled         = "Statusline enabled for this project."
	MsgDisabled        = "Statusline disabled for this project."
	MsgNotEnabled      = "Statusline was not enabled."
	MsgNotEnabledByUs  = "Statusline was not enabled by this plugin."
	msgSkippedNoChange = "statusline: settings unchanged, skipping write"
)

// Action selects what Apply does.
type Action int

const (
	ActionEnable Action = iota
	ActionDisable
)

func (a Action) String() string {
	if a == ActionDisable {
		return "disable"
	}
	return "enable"
}

// ParseAction maps a user-supplied action name to an Action. Matching is
// case-insensitive and anything other than "disable" means enable, since
// enabling is idempotent and never destroys content.
func ParseAction(s string) Action {
	if strings.EqualFold(strings.TrimSpace(s), "disable") {
		return ActionDisable
	}
	return ActionEnable
}

// Result describes the outcome of Enable, Disable or Apply.
type Result struct {
	Action  Action
	Changed bool // the document differs from what was loaded
	Message string
}

// ---------------------------------------------------------------------------
// Document transforms
// ---------------------------------------------------------------------------

// Enable makes the statusLine command contain exactly one copy of built.
//
// A missing statusLine, or one whose type is not "command", is replaced by a
// fresh command record: free text cannot be merged with a command. Otherwise
// the existing command is merged with fragment.Merge and any other keys of the
// record are kept.
func Enable(doc *settings.Document, built string) (Result, error) {
	res := Result{Action: ActionEnable, Message: MsgEnabled}

	rec, ok := doc.Object(Key)
	if typ, _ := typeOf(rec, ok); typ != commandType {
		fresh := settings.New()
		if err := fresh.SetString("type", commandType); err != nil {
			return Result{}, err
		}
		if err := fresh.SetString("command", built); err != nil {
			return Result{}, err
		}
		doc.SetObject(Key, fresh)
		res.Changed = true
		return res, nil
	}

	current, hasCommand := rec.GetString("command")
	merged := fragment.Merge(current, built)
	if hasCommand && merged == current {
		return res, nil
	}
	if err := rec.SetString("command", merged); err != nil {
		return Result{}, err
	}
	doc.SetObject(Key, rec)
	res.Changed = true
	return res, nil
}

// Disable removes every recognized fragment from the statusLine command.
// When nothing else is left the whole statusLine field is removed. Disabling
// a status line that was never enabled is not an error.
func Disable(doc *settings.Document) (Result, error) {
	res := Result{Action: ActionDisable}

	rec, ok := doc.Object(Key)
	if !ok {
		res.Message = MsgNotEnabled
		return res, nil
	}
	current, ok := rec.GetString("command")
	if !ok || current == "" {
		res.Message = MsgNotEnabled
		return res, nil
	}

	stripped, found := fragment.Strip(current)
	if !found {
		res.Message = MsgNotEnabledByUs
		return res, nil
	}

	if stripped == "" {
		doc.Delete(Key)
	} else {
		if err := rec.SetString("command", stripped); err != nil {
			return Result{}, err
		}
		doc.SetObject(Key, rec)
	}
	res.Changed = true
	res.Message = MsgDisabled
	return res, nil
}

func typeOf(rec *settings.Document, ok bool) (string, bool) {
	if !ok {
		return "", false
	}
	return rec.GetString("type")
}

// ---------------------------------------------------------------------------
// File-level entry point
// ---------------------------------------------------------------------------

// Apply loads the settings file at path, runs action and writes the file back
// only when the document changed. Read problems are recovered by starting
// from an empty document; write problems are returned.
func Apply(path string, tmpl fragment.Template, action Action) (Result, error) {
	doc := settings.Load(path)

	var (
		res Result
		err error
	)
	switch action {
	case ActionDisable:
		res, err = Disable(doc)
	default:
		var built string
		built, err = tmpl.Build()
		if err != nil {
			return Result{}, fmt.Errorf("statusline: build fragment: %w", err)
		}
		res, err = Enable(doc, built)
	}
	if err != nil {
		return Result{}, fmt.Errorf("statusline: %s: %w", action, err)
	}

	if !res.Changed {
		slog.Debug(msgSkippedNoChange, "path", path, "action", action.String())
		return res, nil
	}
	if err := settings.Save(path, doc); err != nil {
		return Result{}, fmt.Errorf("statusline: %s: %w", action, err)
	}
	return res, nil
}
