package naming

import (
	"fmt"
	"regexp"
	"strings"
)

// MatchReplaceSpec is a filename filter with an optional rename rule, parsed
// from "MATCH" or "MATCH/REPLACE". The string is split on the first "/", so
// the replacement itself may contain slashes.
type MatchReplaceSpec interface {
	// Pattern returns the compiled match expression.
	Pattern() *regexp.Regexp
	// Apply reports whether stem matches and, if so, the stem to use.
	Apply(stem string) (string, bool)
	// String returns the spec in its command-line form.
	String() string
}

// FilterOnly keeps files whose stem matches the pattern and leaves the stem unchanged.
type FilterOnly struct {
	re *regexp.Regexp
}

// FilterReplace keeps files whose stem matches the pattern and rewrites every
// match with the replacement template.
type FilterReplace struct {
	re          *regexp.Regexp
	replacement string // Go expansion template
	raw         string // as given on the command line
}

// ParseMatchReplace parses a match/replace argument. An empty argument
// yields a nil spec (no filtering).
func ParseMatchReplace(arg string) (MatchReplaceSpec, error) {
	if arg == "" {
		return nil, nil
	}

	match, replace, hasReplace := strings.Cut(arg, "/")
	re, err := regexp.Compile(match)
	if err != nil {
		return nil, fmt.Errorf("invalid regex pattern %q: %w", match, err)
	}

	if !hasReplace {
		return &FilterOnly{re: re}, nil
	}
	return &FilterReplace{
		re:          re,
		replacement: translateGroupRefs(replace),
		raw:         replace,
	}, nil
}

// Pattern implements MatchReplaceSpec.
func (f *FilterOnly) Pattern() *regexp.Regexp { return f.re }

// Apply implements MatchReplaceSpec.
func (f *FilterOnly) Apply(stem string) (string, bool) {
	return stem, f.re.MatchString(stem)
}

func (f *FilterOnly) String() string { return f.re.String() }

// Pattern implements MatchReplaceSpec.
func (f *FilterReplace) Pattern() *regexp.Regexp { return f.re }

// Apply implements MatchReplaceSpec.
func (f *FilterReplace) Apply(stem string) (string, bool) {
	if !f.re.MatchString(stem) {
		return stem, false
	}
	return f.re.ReplaceAllString(stem, f.replacement), true
}

func (f *FilterReplace) String() string { return f.re.String() + "/" + f.raw }

// translateGroupRefs rewrites backslash group references (\1, \g<name>,
// \g<1>) into Go's ${1} form. "$" references pass through untouched and
// "\\" becomes a literal backslash.
func translateGroupRefs(repl string) string {
	if !strings.Contains(repl, `\`) {
		return repl
	}

	var b strings.Builder
	for i := 0; i < len(repl); i++ {
		c := repl[i]
		if c != '\\' || i+1 == len(repl) {
			b.WriteByte(c)
			continue
		}

		next := repl[i+1]
		switch {
		case next >= '0' && next <= '9':
			j := i + 1
			for j < len(repl) && j < i+3 && repl[j] >= '0' && repl[j] <= '9' {
				j++
			}
			b.WriteString("${" + repl[i+1:j] + "}")
			i = j - 1
		case next == 'g' && i+2 < len(repl) && repl[i+2] == '<':
			end := strings.IndexByte(repl[i+3:], '>')
			if end < 0 {
				b.WriteByte(c)
				continue
			}
			b.WriteString("${" + repl[i+3:i+3+end] + "}")
			i = i + 3 + end
		case next == '\\':
			b.WriteByte('\\')
			i++
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
