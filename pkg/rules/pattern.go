package rules

import (
	"fmt"
	"regexp"
	"strings"
)

// Kind is the variant of a Pattern.
type Kind int

const (
	Wildcard Kind = iota
	Literal
	Substitution
)

func (k Kind) String() string {
	switch k {
	case Wildcard:
		return "wildcard"
	case Literal:
		return "literal"
	case Substitution:
		return "substitution"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Pattern is one field of a rule. The zero value is the wildcard.
type Pattern struct {
	kind        Kind
	raw         string
	literal     string
	re          *regexp.Regexp
	replacement string
}

// Any is the wildcard pattern.
var Any = Pattern{}

// ParsePattern parses a single rule token.
func ParsePattern(tok string) (Pattern, error) {
	switch {
	case tok == "" || tok == "*":
		return Any, nil
	case strings.HasPrefix(tok, "s/"):
		return parseSubstitution(tok)
	default:
		return Pattern{kind: Literal, raw: tok, literal: tok}, nil
	}
}

// MustParsePattern is like ParsePattern but panics on error.
func MustParsePattern(tok string) Pattern {
	p, err := ParsePattern(tok)
	if err != nil {
		panic(err)
	}
	return p
}

func parseSubstitution(tok string) (Pattern, error) {
	parts := splitUnescaped(tok[2:], '/')
	if len(parts) != 3 || parts[2] != "" {
		return Pattern{}, fmt.Errorf("substitution %q must have the form s/regex/replacement/", tok)
	}
	expr := strings.ReplaceAll(parts[0], `\/`, "/")
	re, err := regexp.Compile(expr)
	if err != nil {
		return Pattern{}, fmt.Errorf("substitution %q: %w", tok, err)
	}
	return Pattern{
		kind:        Substitution,
		raw:         tok,
		re:          re,
		replacement: goReplacement(strings.ReplaceAll(parts[1], `\/`, "/")),
	}, nil
}

// splitUnescaped splits s on sep, ignoring separators preceded by a backslash.
func splitUnescaped(s string, sep byte) []string {
	var parts []string
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case sep:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

// goReplacement rewrites back-references written as \1 or $1 into the ${1}
// form understood by regexp.Expand, so "$1x" keeps meaning group 1 then "x".
func goReplacement(repl string) string {
	var b strings.Builder
	for i := 0; i < len(repl); i++ {
		c := repl[i]
		if (c == '\\' || c == '$') && i+1 < len(repl) && isDigit(repl[i+1]) {
			j := i + 1
			for j < len(repl) && isDigit(repl[j]) {
				j++
			}
			b.WriteString("${" + repl[i+1:j] + "}")
			i = j - 1
			continue
		}
		if c == '$' && (i+1 >= len(repl) || repl[i+1] != '{') {
			b.WriteString("$$")
			continue
		}
		if c == '\\' && i+1 < len(repl) {
			i++
			c = repl[i]
		}
		b.WriteByte(c)
	}
	return b.String()
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// Kind returns the pattern variant.
func (p Pattern) Kind() Kind { return p.kind }

// Match reports whether value satisfies the pattern.
func (p Pattern) Match(value string) bool {
	switch p.kind {
	case Literal:
		return value == p.literal
	case Substitution:
		return p.re.MatchString(value)
	default:
		return true
	}
}

// Apply returns the rewritten value. Only substitutions rewrite.
func (p Pattern) Apply(value string) string {
	if p.kind != Substitution {
		return value
	}
	return p.re.ReplaceAllString(value, p.replacement)
}

// String returns the token the pattern was parsed from.
func (p Pattern) String() string {
	if p.kind == Wildcard {
		return "*"
	}
	return p.raw
}
