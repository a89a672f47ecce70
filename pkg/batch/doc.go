// Package batch transforms every descriptor listed in a manifest.
//
// A manifest (conventionally debian/<package>.poms) lists one descriptor per
// line, relative to a base directory, optionally followed by flags:
//
//	# comments and blank lines are ignored
//	pom.xml --no-parent --has-package-version
//	runtime/pom.xml --package=libantlr3-runtime-java
//	gunit/pom.xml --ignore
//	tool/pom.xml --ignore-modules=gunit,gunit-maven-plugin --set-version=3.2
//
// [Driver.Run] processes entries concurrently. A failure on one entry is
// recorded in its [EntryResult] and never stops the others.
package batch
