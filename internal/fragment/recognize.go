package fragment

import (
	"regexp"
	"slices"
)

// Kind classifies a recognized fragment.
type Kind int

// Kinds in recognition priority order.
const (
	None Kind = iota
	Current
	LegacyCacheGlob
	LegacyScript
)

func (k Kind) String() string {
	switch k {
	case Current:
		return "current"
	case LegacyCacheGlob:
		return "legacy-cache-glob"
	case LegacyScript:
		return "legacy-script"
	default:
		return "none"
	}
}

// Legacy reports whether k is a shape written by a superseded version.
func (k Kind) Legacy() bool { return k == LegacyCacheGlob || k == LegacyScript }

// Match is the span of one recognized fragment within a command.
type Match struct {
	Start, End int
	Kind       Kind
}

// Text returns the matched fragment.
func (m Match) Text(command string) string { return command[m.Start:m.End] }

func (m Match) overlaps(o Match) bool { return m.Start < o.End && o.Start < m.End }

type classifier struct {
	kind Kind
	re   *regexp.Regexp
}

// classifiers are evaluated in order. The marker shape comes first so an
// up-to-date install is never taken for a legacy one; legacy shapes run from
// the most specific to the broadest.
var classifiers = []classifier{
	{Current, regexp.MustCompile(`bash\s+-lc\s+'[^']*#\s*` + regexp.QuoteMeta(Marker) + `[^']*'`)},
	// First-generation setup scripts: plugin root found by globbing the
	// marketplace cache directory.
	{LegacyCacheGlob, regexp.MustCompile(`bash\s+-lc\s+'[^']*ls\s+-td[^']*cc-distribution[^']*'`)},
	// Env-resolved root but no marker comment.
	{LegacyScript, regexp.MustCompile(`bash\s+-lc\s+'[^']*scripts/statusline/statusline\.js[^']*'`)},
}

// Recognize returns the first match of the highest-priority classifier that
// matches command.
func Recognize(command string) (Match, bool) {
	for _, c := range classifiers {
		if loc := c.re.FindStringIndex(command); loc != nil {
			return Match{Start: loc[0], End: loc[1], Kind: c.kind}, true
		}
	}
	return Match{}, false
}

// FindAll returns every non-overlapping fragment in command ordered by
// position. Where spans from two classifiers overlap, the higher-priority one
// is kept.
func FindAll(command string) []Match {
	var found []Match
	for _, c := range classifiers {
		for _, loc := range c.re.FindAllStringIndex(command, -1) {
			m := Match{Start: loc[0], End: loc[1], Kind: c.kind}
			if !slices.ContainsFunc(found, m.overlaps) {
				found = append(found, m)
			}
		}
	}
	slices.SortFunc(found, func(a, b Match) int { return a.Start - b.Start })
	return found
}
