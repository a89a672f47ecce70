package pom

import (
	"maps"
	"slices"
)

// Info is the typed view of one descriptor.
//
// Origins maps each role to the index, in the source document, of every entry
// currently in Dependencies[role]. It lets a serializer drop the elements of
// entries that were filtered out. A nil Origins means entries still line up
// with the document one to one.
type Info struct {
	GroupID            string
	ArtifactID         string
	Version            string
	Packaging          string
	Parent             *Dependency
	ParentRelativePath string
	Modules            []string
	Dependencies       map[Role][]Dependency
	Properties         map[string]string
	Origins            map[Role][]int
}

// NewInfo returns an empty descriptor for the given coordinates.
func NewInfo(groupID, artifactID, version string) *Info {
	return &Info{
		GroupID:      groupID,
		ArtifactID:   artifactID,
		Version:      version,
		Packaging:    TypeJar,
		Dependencies: make(map[Role][]Dependency),
		Properties:   make(map[string]string),
	}
}

// Coordinate returns the project itself as a dependency whose type is the
// packaging.
func (i *Info) Coordinate() Dependency {
	return NewDependency(i.GroupID, i.ArtifactID, i.packaging(), i.Version)
}

func (i *Info) packaging() string {
	if i.Packaging == "" {
		return TypeJar
	}
	return i.Packaging
}

// NoOrigin marks an entry that does not come from the source document.
const NoOrigin = -1

// Append adds d to the collection for role.
func (i *Info) Append(role Role, d Dependency) {
	if i.Dependencies == nil {
		i.Dependencies = make(map[Role][]Dependency)
	}
	i.Dependencies[role] = append(i.Dependencies[role], d)
	if i.Origins != nil {
		i.Origins[role] = append(i.Origins[role], NoOrigin)
	}
}

// Find returns the first entry of role with the given group and artifact.
func (i *Info) Find(role Role, groupID, artifactID string) (Dependency, bool) {
	for _, d := range i.Dependencies[role] {
		if d.GroupID == groupID && d.ArtifactID == artifactID {
			return d, true
		}
	}
	return Dependency{}, false
}

// Clone returns a deep copy.
func (i *Info) Clone() *Info {
	c := *i
	if i.Parent != nil {
		p := *i.Parent
		c.Parent = &p
	}
	c.Modules = slices.Clone(i.Modules)
	c.Properties = maps.Clone(i.Properties)
	if i.Dependencies != nil {
		c.Dependencies = make(map[Role][]Dependency, len(i.Dependencies))
		for r, deps := range i.Dependencies {
			c.Dependencies[r] = slices.Clone(deps)
		}
	}
	if i.Origins != nil {
		c.Origins = make(map[Role][]int, len(i.Origins))
		for r, idx := range i.Origins {
			c.Origins[r] = slices.Clone(idx)
		}
	}
	return &c
}

// Equal compares two descriptors field by field, ignoring Origins. Nil and
// empty collections compare equal.
func (i *Info) Equal(o *Info) bool {
	if i == nil || o == nil {
		return i == o
	}
	if i.GroupID != o.GroupID || i.ArtifactID != o.ArtifactID || i.Version != o.Version ||
		i.packaging() != o.packaging() || i.ParentRelativePath != o.ParentRelativePath {
		return false
	}
	if (i.Parent == nil) != (o.Parent == nil) || (i.Parent != nil && *i.Parent != *o.Parent) {
		return false
	}
	if !slices.Equal(i.Modules, o.Modules) || !maps.Equal(i.Properties, o.Properties) {
		return false
	}
	for _, r := range Roles() {
		if !slices.Equal(i.Dependencies[r], o.Dependencies[r]) {
			return false
		}
	}
	return true
}

// Count returns the total number of entries across all roles.
func (i *Info) Count() int {
	n := 0
	for _, deps := range i.Dependencies {
		n += len(deps)
	}
	return n
}

// EffectiveGroupID returns the project's groupId, inherited from the parent
// reference when the project does not declare one.
func (i *Info) EffectiveGroupID() string {
	if i.GroupID == "" && i.Parent != nil {
		return i.Parent.GroupID
	}
	return i.GroupID
}

// EffectiveVersion returns the project's version, inherited from the parent
// reference when the project does not declare one.
func (i *Info) EffectiveVersion() string {
	if i.Version == "" && i.Parent != nil {
		return i.Parent.Version
	}
	return i.Version
}
