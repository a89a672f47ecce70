// Package pkg provides the libraries behind pomrewrite.
//
// # Overview
//
// pomrewrite rewrites Maven POM descriptors so a Java library can be built
// and installed against the artifacts of a local, distribution-managed
// repository. Dependency coordinates are mapped by ordered rules, unwanted
// dependencies are dropped, parent chains are checked and missing versions
// are filled from the repository.
//
// # Architecture
//
// The typical data flow:
//
//	pom.xml ──[pomxml]──▶ pom.Info ──[transform]──▶ pom.Info ──[pomxml]──▶ pom.xml
//	                                    ▲     ▲
//	                             [rules]     [repository]
//
// [batch] runs the same flow over every descriptor listed in a manifest.
//
// # Quick Start
//
//	set := rules.NewSet("libfoo-java")
//	_ = rules.LoadDir("debian", set)
//
//	t := transform.New(set, transform.WithDefaults(rules.BuiltinDefaults()))
//	res, err := t.TransformFile(ctx, "pom.xml", "pom.xml", transform.Options{
//	    ApplyDependencyRules: true,
//	    ResolveParentChain:   true,
//	})
//
// # Main Packages
//
//   - [pom]: dependency, role and descriptor value types
//   - [rules]: rule patterns, rule sets, default seeds and rule files
//   - [pomxml]: comment-preserving POM parsing and serialization
//   - [transform]: the descriptor transformer and ignore-module registry
//   - [repository]: the local repository index and its cached snapshots
//   - [batch]: manifest parsing and the parallel batch driver
//   - [config]: pomrewrite.toml loading
//
// Supporting packages are [cache], [errors], [observability] and [buildinfo].
package pkg
