package pom

import (
	"strings"

	perrors "github.com/matzehuels/pomrewrite/pkg/errors"
)

// Well-known artifact types and defaults.
const (
	TypeJar    = "jar"
	TypePOM    = "pom"
	TypePlugin = "maven-plugin"

	// DefaultPluginGroup is the groupId Maven assumes for plugins that omit one.
	DefaultPluginGroup = "org.apache.maven.plugins"
)

// Dependency is one artifact coordinate as declared in a descriptor.
// Classifier and Scope are empty when not declared.
type Dependency struct {
	GroupID    string
	ArtifactID string
	Type       string
	Version    string
	Classifier string
	Scope      string
	Optional   bool
}

// NewDependency returns a dependency with the type defaulted to jar.
func NewDependency(groupID, artifactID, typ, version string) Dependency {
	if typ == "" {
		typ = TypeJar
	}
	return Dependency{GroupID: groupID, ArtifactID: artifactID, Type: typ, Version: version}
}

// NewPlugin returns a build plugin coordinate. A missing groupId falls back to
// org.apache.maven.plugins, as Maven does.
func NewPlugin(groupID, artifactID, version string) Dependency {
	if groupID == "" {
		groupID = DefaultPluginGroup
	}
	return Dependency{GroupID: groupID, ArtifactID: artifactID, Type: TypePlugin, Version: version}
}

// Validate checks the required fields.
func (d Dependency) Validate() error {
	if err := perrors.ValidateCoordinate("groupId", d.GroupID); err != nil {
		return err
	}
	return perrors.ValidateCoordinate("artifactId", d.ArtifactID)
}

// Key returns "groupId:artifactId".
func (d Dependency) Key() string {
	return d.GroupID + ":" + d.ArtifactID
}

// WithDefaults fills the default type.
func (d Dependency) WithDefaults() Dependency {
	if d.Type == "" {
		d.Type = TypeJar
	}
	return d
}

// String renders group:artifact:type:version with the classifier appended
// when present.
func (d Dependency) String() string {
	var b strings.Builder
	b.WriteString(d.GroupID)
	b.WriteByte(':')
	b.WriteString(d.ArtifactID)
	b.WriteByte(':')
	b.WriteString(d.Type)
	b.WriteByte(':')
	b.WriteString(d.Version)
	if d.Classifier != "" {
		b.WriteByte(':')
		b.WriteString(d.Classifier)
	}
	return b.String()
}
