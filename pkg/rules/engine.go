package rules

import (
	"fmt"

	"github.com/matzehuels/pomrewrite/pkg/pom"
)

// Outcome is what the engine decided for one dependency.
type Outcome int

const (
	// Unmatched means no rule applied; the dependency is emitted unchanged.
	Unmatched Outcome = iota
	// Rewritten means a rewrite rule matched; its field rewrites were applied.
	Rewritten
	// Ignored means an ignore rule matched; the dependency is dropped.
	Ignored
)

func (o Outcome) String() string {
	switch o {
	case Unmatched:
		return "unmatched"
	case Rewritten:
		return "rewritten"
	case Ignored:
		return "ignored"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Result describes the engine's decision for one dependency.
type Result struct {
	Original   pom.Dependency
	Dependency pom.Dependency // rewritten value; equals Original unless Rewritten
	Outcome    Outcome
	Rule       Rule // the deciding rule, zero when Unmatched
}

// Changed reports whether the emitted dependency differs from the input.
func (r Result) Changed() bool {
	return r.Outcome == Ignored || r.Dependency != r.Original
}

// Apply runs the engine over a single dependency. Ignore rules are searched
// first and take precedence; a dropped dependency is never rewritten.
func (s *Set) Apply(d pom.Dependency) Result {
	if r, ok := s.Match(Ignore, d); ok {
		return Result{Original: d, Dependency: d, Outcome: Ignored, Rule: r}
	}
	return s.Rewrite(d)
}

// Rewrite applies only the rewrite category, for references that cannot be
// dropped such as a parent or the project's own coordinate.
func (s *Set) Rewrite(d pom.Dependency) Result {
	res := Result{Original: d, Dependency: d}
	if r, ok := s.Match(Rewrite, d); ok {
		res.Outcome = Rewritten
		res.Rule = r
		res.Dependency = r.Apply(d)
	}
	return res
}
