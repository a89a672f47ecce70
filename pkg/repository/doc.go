// Package repository indexes the descriptors found in a local artifact
// repository.
//
// An [Index] walks a directory tree once, reads every *.pom (and pom.xml)
// descriptor it finds, and records which versions exist for each
// group:artifact pair. The transformer consults it to fill plugin and
// dependency versions that a project leaves unspecified, and to locate parent
// descriptors that are not reachable through a relative path.
//
// Descriptors that cannot be parsed still contribute when their location
// follows the standard layout:
//
//	<group as path>/<artifact>/<version>/<artifact>-<version>.pom
//
// A scan replaces the whole index atomically, so lookups running on other
// goroutines never see a half-built index. Scan results can be persisted with
// [Index.Save] and restored with [Index.Load].
package repository
