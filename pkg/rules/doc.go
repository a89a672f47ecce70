// Package rules implements the dependency rule language and its engine.
//
// # Rule Language
//
// A rule is one line of up to six whitespace-separated patterns:
//
//	group artifact type version classifier scope
//
// Trailing patterns may be omitted and default to the wildcard "*". Each
// pattern is one of:
//
//   - "*": matches anything and never rewrites
//   - a literal: matches only that exact value
//   - "s/regex/replacement/": matches when regex is found in the value and
//     rewrites it with the regex replacement (sed-style \1 back-references
//     are accepted)
//
// Examples:
//
//	junit junit jar s/3\..*/3.x/
//	s/org.apache.maven.shared/org.apache.maven.plugin-testing/ maven-plugin-testing * s/.*/debian/
//	com.google.inject guice * s/.*/debianx/ s/no_aop// *
//
// # Rule Sets
//
// A [Set] keeps one ordered rule list per [Category]. Matching is a linear
// scan and the first matching rule wins; authors declare specific rules
// before general ones. Seed rules from [Defaults] are always consulted after
// the explicit rules of the same category.
//
// [Set.Apply] combines the categories: a dependency matching an [Ignore] rule
// is dropped, otherwise the first matching [Rewrite] rule rewrites it.
package rules
