// Package config loads pomrewrite.toml.
//
// A configuration file carries the defaults a packager would otherwise
// repeat on every invocation:
//
//	[rules]
//	dir = "debian"
//	builtin_defaults = true
//
//	[transform]
//	apply_dependency_rules = true
//	resolve_parent_chain = true
//	package = "libantlr3-java"
//
//	[repository]
//	root = "/usr/share/maven-repo"
//	excludes = ["*-sources.pom"]
//	cache_ttl = "24h"
//
//	[batch]
//	concurrency = 4
//
// Command-line flags override file values.
package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	perrors "github.com/matzehuels/pomrewrite/pkg/errors"
	"github.com/matzehuels/pomrewrite/pkg/rules"
	"github.com/matzehuels/pomrewrite/pkg/transform"
)

// FileName is the configuration file searched for by Find.
const FileName = "pomrewrite.toml"

// Config is the parsed configuration file.
type Config struct {
	Rules      Rules      `toml:"rules"`
	Transform  Transform  `toml:"transform"`
	Repository Repository `toml:"repository"`
	Batch      Batch      `toml:"batch"`
}

// Rules names the rule files to load.
type Rules struct {
	// Dir holds maven.rules, maven.ignoreRules and maven.publishedRules.
	Dir       string   `toml:"dir"`
	Rewrite   []string `toml:"rewrite"`
	Ignore    []string `toml:"ignore"`
	Published []string `toml:"published"`
	// PackageDefaults holds one subdirectory of rule files per package.
	PackageDefaults string `toml:"package_defaults"`
	BuiltinDefaults bool   `toml:"builtin_defaults"`
}

// Transform holds default transformer flags.
type Transform struct {
	ApplyDependencyRules  bool   `toml:"apply_dependency_rules"`
	ResolveParentChain    bool   `toml:"resolve_parent_chain"`
	UseRepositoryVersions bool   `toml:"use_repository_versions"`
	FilterIgnoredModules  bool   `toml:"filter_ignored_modules"`
	KeepPOMVersion        bool   `toml:"keep_pom_version"`
	KeepParentVersion     bool   `toml:"keep_parent_version"`
	HasPackageVersion     bool   `toml:"has_package_version"`
	MaxParentDepth        int    `toml:"max_parent_depth"`
	Package               string `toml:"package"`
}

// Repository configures the repository index.
type Repository struct {
	Root     string   `toml:"root"`
	Excludes []string `toml:"excludes"`
	CacheTTL Duration `toml:"cache_ttl"`
}

// Batch configures manifest runs.
type Batch struct {
	Concurrency int  `toml:"concurrency"`
	WriteBack   bool `toml:"write_back"`
}

// Duration is a time.Duration written as a string such as "24h".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	return &Config{
		Rules: Rules{BuiltinDefaults: true},
		Transform: Transform{
			ApplyDependencyRules: true,
			ResolveParentChain:   true,
			FilterIgnoredModules: true,
			MaxParentDepth:       transform.DefaultMaxParentDepth,
		},
		Repository: Repository{
			Root:     "/usr/share/maven-repo",
			CacheTTL: Duration{24 * time.Hour},
		},
		Batch: Batch{Concurrency: 4},
	}
}

// Load reads the file at path over the defaults. Unknown keys are errors.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, perrors.Wrap(perrors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return nil, perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	cfg, err := Parse(string(data))
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "%s", path)
	}
	cfg.resolve(filepath.Dir(path))
	return cfg, nil
}

// Parse decodes TOML text over the defaults.
func Parse(text string) (*Config, error) {
	cfg := Default()
	meta, err := toml.Decode(text, cfg)
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, perrors.New(perrors.ErrCodeInvalidConfig, "unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolve makes rule paths relative to the configuration file's directory.
func (c *Config) resolve(dir string) {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}
	c.Rules.Dir = abs(c.Rules.Dir)
	c.Rules.PackageDefaults = abs(c.Rules.PackageDefaults)
	for _, list := range [][]string{c.Rules.Rewrite, c.Rules.Ignore, c.Rules.Published} {
		for i := range list {
			list[i] = abs(list[i])
		}
	}
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Transform.MaxParentDepth < 0 {
		return perrors.New(perrors.ErrCodeInvalidConfig, "transform.max_parent_depth must not be negative")
	}
	if c.Batch.Concurrency < 0 {
		return perrors.New(perrors.ErrCodeInvalidConfig, "batch.concurrency must not be negative")
	}
	if c.Repository.CacheTTL.Duration < 0 {
		return perrors.New(perrors.ErrCodeInvalidConfig, "repository.cache_ttl must not be negative")
	}
	if c.Transform.UseRepositoryVersions && c.Repository.Root == "" {
		return perrors.New(perrors.ErrCodeInvalidConfig, "transform.use_repository_versions needs repository.root")
	}
	return nil
}

// Options returns the transformer flags.
func (c *Config) Options() transform.Options {
	t := c.Transform
	return transform.Options{
		ApplyDependencyRules:  t.ApplyDependencyRules,
		ResolveParentChain:    t.ResolveParentChain,
		UseRepositoryVersions: t.UseRepositoryVersions,
		FilterIgnoredModules:  t.FilterIgnoredModules,
		KeepPOMVersion:        t.KeepPOMVersion,
		KeepParentVersion:     t.KeepParentVersion,
		HasPackageVersion:     t.HasPackageVersion,
		MaxParentDepth:        t.MaxParentDepth,
		TargetPackageName:     t.Package,
	}
}

// LoadRules builds the rule set and the seed defaults described by the
// configuration.
func (c *Config) LoadRules() (*rules.Set, *rules.Defaults, error) {
	set := rules.NewSet(c.Transform.Package)
	if c.Rules.Dir != "" {
		if err := rules.LoadDir(c.Rules.Dir, set); err != nil {
			return nil, nil, err
		}
	}
	files := []struct {
		cat   rules.Category
		paths []string
	}{
		{rules.Rewrite, c.Rules.Rewrite},
		{rules.Ignore, c.Rules.Ignore},
		{rules.Publish, c.Rules.Published},
	}
	for _, f := range files {
		for _, p := range f.paths {
			if _, err := rules.LoadFile(p, f.cat, set); err != nil {
				return nil, nil, err
			}
		}
	}

	defaults := rules.NewDefaults()
	if c.Rules.BuiltinDefaults {
		defaults = rules.BuiltinDefaults()
	}
	if c.Rules.PackageDefaults != "" {
		if err := rules.LoadPackageDefaults(c.Rules.PackageDefaults, defaults); err != nil {
			return nil, nil, err
		}
	}
	return set, defaults, nil
}

// Find returns the first configuration file found in the working
// directory, ./.config, or the user configuration directory.
func Find() (string, bool) {
	var dirs []string
	dirs = append(dirs, ".", ".config")
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		dirs = append(dirs, filepath.Join(xdg, "pomrewrite"))
	} else if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".config", "pomrewrite"))
	}
	for _, d := range dirs {
		p := filepath.Join(d, FileName)
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			return p, true
		}
	}
	return "", false
}
