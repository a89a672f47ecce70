// Package pom defines the typed model of a Maven project descriptor.
//
// # Overview
//
// A descriptor is represented by [Info]: the project's own coordinates, an
// optional parent reference, the ordered module list, build properties and one
// ordered [Dependency] slice per [Role]. Roles distinguish where an entry lives
// inside the document (plain dependency, build plugin, plugin management, ...).
//
// [Dependency] is a comparable value: two entries are equal when all their
// fields are equal, so they can be used as map keys and compared with ==.
//
// This package holds no parsing logic; see the pomxml package for reading and
// writing documents.
//
//	info := &pom.Info{GroupID: "org.example", ArtifactID: "app", Version: "1.0"}
//	info.Append(pom.Plugins, pom.NewPlugin("", "maven-compiler-plugin", ""))
//	d, ok := info.Find(pom.Plugins, pom.DefaultPluginGroup, "maven-compiler-plugin")
package pom
