package statusline

import (
	"github.com/go-ports/ai-architect/internal/fragment"
	"github.com/go-ports/ai-architect/internal/settings"
)

// State summarizes what the statusLine field currently holds.
type State int

const (
	StateAbsent  State = iota // no statusLine field
	StateInvalid              // statusLine is not an object
	StateText                 // statusLine of a type other than "command"
	StateForeign              // command without any recognized fragment
	StateLegacy               // command with a fragment from an older release
	StateEnabled              // command with the current fragment
)

func (s State) String() string {
	switch s {
	case StateInvalid:
		return "invalid"
	case StateText:
		return "text"
	case StateForeign:
		return "foreign"
	case StateLegacy:
		return "legacy"
	case StateEnabled:
		return "enabled"
	default:
		return "absent"
	}
}

// Status is the result of Inspect.
type Status struct {
	State   State
	Kind    fragment.Kind
	Type    string
	Command string
}

// Message is a one-line human description of s.
func (s Status) Message() string {
	switch s.State {
	case StateEnabled:
		return "Statusline is enabled for this project."
	case StateLegacy:
		return "Statusline is enabled by an older release (" + s.Kind.String() + "); run enable to upgrade."
	case StateForeign:
		return "Statusline runs a command not managed by this plugin."
	case StateText:
		return "Statusline is not a command; it is not managed by this plugin."
	case StateInvalid:
		return "Statusline setting is not an object."
	default:
		return "Statusline is not configured."
	}
}

// Inspect classifies the statusLine field of doc without modifying it.
func Inspect(doc *settings.Document) Status {
	if _, present := doc.Get(Key); !present {
		return Status{State: StateAbsent}
	}
	rec, ok := doc.Object(Key)
	if !ok {
		return Status{State: StateInvalid}
	}
	typ, _ := rec.GetString("type")
	if typ != commandType {
		return Status{State: StateText, Type: typ}
	}
	command, _ := rec.GetString("command")
	st := Status{State: StateForeign, Type: typ, Command: command}
	m, found := fragment.Recognize(command)
	if !found {
		return st
	}
	st.Kind = m.Kind
	if m.Kind.Legacy() {
		st.State = StateLegacy
	} else {
		st.State = StateEnabled
	}
	return st
}

// Check loads the settings file at path and inspects it.
func Check(path string) Status {
	return Inspect(settings.Load(path))
}
