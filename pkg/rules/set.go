package rules

import (
	"slices"

	"github.com/matzehuels/pomrewrite/pkg/pom"
)

// Set is a named collection of ordered rule lists, one per category.
//
// A Set is not safe for concurrent mutation. Once built it may be shared
// read-only between goroutines; use Clone to derive an independent copy.
type Set struct {
	name  string
	rules [categoryCount][]Rule
	seeds [categoryCount][]Rule
}

// NewSet returns an empty rule set.
func NewSet(name string) *Set {
	return &Set{name: name}
}

// Name returns the set name.
func (s *Set) Name() string { return s.name }

// Add appends r to category cat and reports whether it was new.
// Duplicates of an existing explicit rule are skipped.
func (s *Set) Add(cat Category, r Rule) bool {
	if slices.ContainsFunc(s.rules[cat], r.Equal) {
		return false
	}
	s.rules[cat] = append(s.rules[cat], r)
	return true
}

// AddLine parses line and adds the resulting rule.
func (s *Set) AddLine(cat Category, line string) error {
	r, err := ParseRule(line)
	if err != nil {
		return err
	}
	s.Add(cat, r)
	return nil
}

// SeedDefaults attaches the seed rules for the target package. Seeds replace
// any earlier seeding and always rank after the explicit rules.
func (s *Set) SeedDefaults(d *Defaults, pkg string) {
	for _, cat := range Categories() {
		s.seeds[cat] = nil
		if d != nil {
			s.seeds[cat] = d.For(pkg, cat)
		}
	}
}

// Rules returns the effective rule list for cat: explicit rules in
// declaration order followed by seeds that are not already declared.
func (s *Set) Rules(cat Category) []Rule {
	out := slices.Clone(s.rules[cat])
	for _, r := range s.seeds[cat] {
		out = appendUnique(out, r)
	}
	return out
}

// Explicit returns only the rules added to cat, without seeds.
func (s *Set) Explicit(cat Category) []Rule {
	return slices.Clone(s.rules[cat])
}

// Len returns the number of effective rules in cat.
func (s *Set) Len(cat Category) int {
	return len(s.Rules(cat))
}

// Clone returns an independent copy.
func (s *Set) Clone() *Set {
	c := &Set{name: s.name}
	for i := range s.rules {
		c.rules[i] = slices.Clone(s.rules[i])
		c.seeds[i] = slices.Clone(s.seeds[i])
	}
	return c
}

// Match returns the first rule of cat that matches d.
func (s *Set) Match(cat Category, d pom.Dependency) (Rule, bool) {
	return firstMatch(d, s.rules[cat], s.seeds[cat])
}

func firstMatch(d pom.Dependency, lists ...[]Rule) (Rule, bool) {
	for _, list := range lists {
		for _, r := range list {
			if r.Matches(d) {
				return r, true
			}
		}
	}
	return Rule{}, false
}
