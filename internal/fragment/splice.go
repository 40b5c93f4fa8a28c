package fragment

import (
	"regexp"
	"strings"
)

// Separator joins the managed fragment to other statements in a command.
const Separator = " ; "

// hole stands in for an excised fragment until the command is normalized.
const hole = "\x00"

// sep is one shell separator: a statement list operator or a pipe.
const sep = `(?:;|&&|\|\||\|)`

var (
	// holeRun matches a hole together with the separators and further holes
	// adjacent to it. Runs away from a hole belong to the user and are kept.
	holeRun = regexp.MustCompile(`(?:\s*` + sep + `)*\s*\x00(?:\s*(?:` + sep + `|\x00))*\s*`)
	// edgeSeps matches dangling separators at either end of a command.
	edgeSeps = regexp.MustCompile(`^(?:\s*` + sep + `)+\s*|(?:\s*` + sep + `)+\s*$`)
	// trailingSemis matches statement separators ending a command.
	trailingSemis = regexp.MustCompile(`(?:\s*;)+\s*$`)
)

// Backslash-escaped characters are swapped for private-use runes while the
// separator patterns run, so `\;` or `\ ` in a user command is never taken for
// a separator or for whitespace.
var (
	escapes = map[byte]string{
		';':  "\uE000",
		'|':  "\uE001",
		'&':  "\uE002",
		' ':  "\uE003",
		'\t': "\uE004",
		'\\': "\uE005",
	}
	standIns  = "\uE000\uE001\uE002\uE003\uE004\uE005"
	unescaper = strings.NewReplacer(
		"\uE000", `\;`,
		"\uE001", `\|`,
		"\uE002", `\&`,
		"\uE003", `\ `,
		"\uE004", "\\\t",
		"\uE005", `\\`,
	)
)

// protect hides escaped characters from the separator patterns. It reports
// false, leaving command as is, when command already holds a stand-in rune.
func protect(command string) (string, bool) {
	if strings.ContainsAny(command, standIns) {
		return command, false
	}
	var b strings.Builder
	b.Grow(len(command))
	for i := 0; i < len(command); i++ {
		if command[i] == '\\' && i+1 < len(command) {
			if r, ok := escapes[command[i+1]]; ok {
				b.WriteString(r)
				i++
				continue
			}
		}
		b.WriteByte(command[i])
	}
	return b.String(), true
}

// rewrite runs fn over command with escaped characters protected.
func rewrite(command string, fn func(string) string) string {
	protected, ok := protect(command)
	if !ok {
		return fn(command)
	}
	return unescaper.Replace(fn(protected))
}

// Merge returns command with exactly one copy of built. An existing fragment
// is replaced in place; otherwise built is appended. Extra fragments left by
// older installs are removed.
func Merge(command, built string) string {
	primary, ok := Recognize(command)
	if !ok {
		base := rewrite(command, func(s string) string {
			return trailingSemis.ReplaceAllString(s, "")
		})
		if strings.TrimSpace(base) == "" {
			return built
		}
		return base + Separator + built
	}

	all := FindAll(command)
	if len(all) == 1 {
		return command[:primary.Start] + built + command[primary.End:]
	}

	var b strings.Builder
	prev := 0
	for _, m := range all {
		b.WriteString(command[prev:m.Start])
		if m == primary {
			b.WriteString(built)
		} else {
			b.WriteString(hole)
		}
		prev = m.End
	}
	b.WriteString(command[prev:])
	return normalize(b.String())
}

// Strip removes every recognized fragment from command. It reports false and
// returns command unchanged when there is nothing to remove. The result may be
// empty.
func Strip(command string) (string, bool) {
	all := FindAll(command)
	if len(all) == 0 {
		return command, false
	}
	var b strings.Builder
	prev := 0
	for _, m := range all {
		b.WriteString(command[prev:m.Start])
		b.WriteString(hole)
		prev = m.End
	}
	b.WriteString(command[prev:])
	return normalize(b.String()), true
}

// normalize collapses each hole and its neighbouring separators into one
// Separator, then trims separators and whitespace from both ends.
func normalize(command string) string {
	return rewrite(command, func(s string) string {
		s = holeRun.ReplaceAllString(s, Separator)
		s = edgeSeps.ReplaceAllString(s, "")
		return strings.TrimSpace(s)
	})
}
