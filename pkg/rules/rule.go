package rules

import (
	"fmt"
	"strings"

	"github.com/matzehuels/pomrewrite/pkg/pom"
)

const fieldCount = 6

// Rule is an immutable pattern over the fields of a dependency.
type Rule struct {
	group, artifact, typ, version, classifier, scope Pattern
}

// NewRule builds a rule from up to six tokens in the order group, artifact,
// type, version, classifier, scope. Missing tokens are wildcards.
func NewRule(tokens ...string) (Rule, error) {
	if len(tokens) > fieldCount {
		return Rule{}, fmt.Errorf("rule has %d fields, at most %d allowed", len(tokens), fieldCount)
	}
	var fields [fieldCount]Pattern
	for i, tok := range tokens {
		p, err := ParsePattern(tok)
		if err != nil {
			return Rule{}, err
		}
		fields[i] = p
	}
	return Rule{
		group:      fields[0],
		artifact:   fields[1],
		typ:        fields[2],
		version:    fields[3],
		classifier: fields[4],
		scope:      fields[5],
	}, nil
}

// ParseRule parses one rule line.
func ParseRule(line string) (Rule, error) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return Rule{}, fmt.Errorf("empty rule")
	}
	return NewRule(tokens...)
}

// MustParseRule is like ParseRule but panics on error.
func MustParseRule(line string) Rule {
	r, err := ParseRule(line)
	if err != nil {
		panic(err)
	}
	return r
}

func (r Rule) fields() [fieldCount]Pattern {
	return [fieldCount]Pattern{r.group, r.artifact, r.typ, r.version, r.classifier, r.scope}
}

// Group returns the group pattern; the other accessors follow the same shape.
func (r Rule) Group() Pattern      { return r.group }
func (r Rule) Artifact() Pattern   { return r.artifact }
func (r Rule) Type() Pattern       { return r.typ }
func (r Rule) Version() Pattern    { return r.version }
func (r Rule) Classifier() Pattern { return r.classifier }
func (r Rule) Scope() Pattern      { return r.scope }

// Matches reports whether every pattern accepts the corresponding field of d.
func (r Rule) Matches(d pom.Dependency) bool {
	d = d.WithDefaults()
	return r.group.Match(d.GroupID) &&
		r.artifact.Match(d.ArtifactID) &&
		r.typ.Match(d.Type) &&
		r.version.Match(d.Version) &&
		r.classifier.Match(d.Classifier) &&
		r.scope.Match(d.Scope)
}

// Apply rewrites every field of d through its pattern. Callers check Matches
// first; Apply itself does not.
func (r Rule) Apply(d pom.Dependency) pom.Dependency {
	d = d.WithDefaults()
	d.GroupID = r.group.Apply(d.GroupID)
	d.ArtifactID = r.artifact.Apply(d.ArtifactID)
	d.Type = r.typ.Apply(d.Type)
	d.Version = r.version.Apply(d.Version)
	d.Classifier = r.classifier.Apply(d.Classifier)
	d.Scope = r.scope.Apply(d.Scope)
	return d
}

// Generic reports whether the rule matches on nothing but wildcards and
// substitutions, i.e. it names no literal coordinate.
func (r Rule) Generic() bool {
	for _, p := range r.fields() {
		if p.kind == Literal {
			return false
		}
	}
	return true
}

// String returns the canonical rule line: all tokens, with trailing wildcards
// after the version dropped. Rules with the same canonical line are duplicates.
func (r Rule) String() string {
	f := r.fields()
	n := fieldCount
	for n > 4 && f[n-1].kind == Wildcard {
		n--
	}
	tokens := make([]string, n)
	for i := range n {
		tokens[i] = f[i].String()
	}
	return strings.Join(tokens, " ")
}

// Equal reports whether two rules are duplicates.
func (r Rule) Equal(o Rule) bool {
	return r.String() == o.String()
}
