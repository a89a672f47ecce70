// Package transform rewrites a descriptor's typed view with a rule set.
//
// A [Transformer] holds everything that is shared across descriptors (the
// rule set, optional package default rules, the repository index, the
// ignore-module registry and the parent loader) and is safe to use from
// several goroutines once configured. Each call to [Transformer.Transform]
// works on a clone of its input and returns a fresh [Result]:
//
//	t := transform.New(set,
//	    transform.WithRepository(index),
//	    transform.WithIgnoreModules(ignored),
//	)
//	res, err := t.Transform(ctx, doc.Info(), "pom.xml", transform.Options{
//	    ApplyDependencyRules: true,
//	    ResolveParentChain:   true,
//	})
//
// Resolution gaps, such as a parent descriptor that cannot be found or a
// version the repository does not know, are reported as [Warning] values on
// the result. Only configuration problems, such as a circular parent chain,
// are returned as errors.
package transform
