package transform

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/pomrewrite/pkg/repository"
	"github.com/matzehuels/pomrewrite/pkg/rules"
)

// DefaultMaxParentDepth bounds parent chain walks.
const DefaultMaxParentDepth = 32

// HasPackageVersionProperty is set on descriptors whose package carries its
// own version.
const HasPackageVersionProperty = "debian.hasPackageVersion"

// Options selects the steps of one transformation.
type Options struct {
	// ApplyDependencyRules runs the rule engine over every dependency role
	// and over the project's own coordinate.
	ApplyDependencyRules bool
	// ResolveParentChain loads the parent descriptor, checks its ancestry for
	// cycles and clears references that cannot be located.
	ResolveParentChain bool
	// UseRepositoryVersions fills empty managed and plugin versions from the
	// repository index.
	UseRepositoryVersions bool
	// FilterIgnoredModules drops modules registered for the descriptor.
	FilterIgnoredModules bool
	// Verbose logs every rule decision at info level instead of debug.
	Verbose bool
	// TargetPackageName selects package-specific default rules.
	TargetPackageName string

	// NoParent removes the parent reference.
	NoParent bool
	// KeepPOMVersion leaves the project's own version untouched.
	KeepPOMVersion bool
	// KeepParentVersion leaves the parent reference's version untouched.
	KeepParentVersion bool
	// SetVersion forces the project's version when non-empty.
	SetVersion string
	// HasPackageVersion adds the debian.hasPackageVersion property.
	HasPackageVersion bool
	// MaxParentDepth bounds the parent chain; zero means DefaultMaxParentDepth.
	MaxParentDepth int
}

func (o Options) maxParentDepth() int {
	if o.MaxParentDepth > 0 {
		return o.MaxParentDepth
	}
	return DefaultMaxParentDepth
}

// Option configures a Transformer.
type Option func(*Transformer)

// WithRepository sets the index used for version fill-in and parent lookup.
func WithRepository(x *repository.Index) Option {
	return func(t *Transformer) {
		t.repo = x
	}
}

// WithParentLoader replaces the default file and repository parent loader.
func WithParentLoader(l ParentLoader) Option {
	return func(t *Transformer) {
		t.parents = l
	}
}

// WithLogger sets the logger for rule decisions and warnings.
func WithLogger(l *log.Logger) Option {
	return func(t *Transformer) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithIgnoreModules sets the ignore-module registry.
func WithIgnoreModules(m *IgnoreModules) Option {
	return func(t *Transformer) {
		if m != nil {
			t.ignore = m
		}
	}
}

// WithDefaults seeds every transformation with d, using the package-specific
// seeds selected by Options.TargetPackageName.
func WithDefaults(d *rules.Defaults) Option {
	return func(t *Transformer) {
		t.defaults = d
	}
}
