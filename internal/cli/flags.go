package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/matzehuels/pomrewrite/pkg/config"
	perrors "github.com/matzehuels/pomrewrite/pkg/errors"
	"github.com/matzehuels/pomrewrite/pkg/repository"
	"github.com/matzehuels/pomrewrite/pkg/rules"
	"github.com/matzehuels/pomrewrite/pkg/transform"
)

// optionFlags are the transformer switches shared by transform and batch.
// Each one overrides the configuration file only when given.
type optionFlags struct {
	noRules           bool
	noParentChain     bool
	repoVersions      bool
	noModuleFilter    bool
	noParent          bool
	keepPOMVersion    bool
	keepParentVersion bool
	hasPackageVersion bool
	explain           bool
	pkg               string
	setVersion        string
	maxParentDepth    int
}

func (f *optionFlags) register(fs *pflag.FlagSet, single bool) {
	fs.BoolVar(&f.noRules, "no-rules", false, "do not apply dependency rules")
	fs.BoolVar(&f.noParentChain, "no-parent-chain", false, "do not resolve the parent chain")
	fs.BoolVar(&f.repoVersions, "repo-versions", false, "fill missing managed and plugin versions from the repository")
	fs.BoolVar(&f.noModuleFilter, "no-module-filter", false, "keep modules registered as ignored")
	fs.BoolVar(&f.keepParentVersion, "keep-parent-version", false, "leave the parent version untouched")
	fs.BoolVar(&f.explain, "explain", false, "log every rule decision")
	fs.StringVarP(&f.pkg, "package", "p", "", "target package selecting package-specific default rules")
	fs.IntVar(&f.maxParentDepth, "max-parent-depth", 0, "maximum parent chain length")
	if single {
		// Manifest entries carry these per descriptor.
		fs.BoolVar(&f.noParent, "no-parent", false, "remove the parent reference")
		fs.BoolVar(&f.keepPOMVersion, "keep-pom-version", false, "leave the project version untouched")
		fs.BoolVar(&f.hasPackageVersion, "has-package-version", false, "mark the descriptor as carrying the package version")
		fs.StringVar(&f.setVersion, "set-version", "", "force the project version")
	}
}

// options returns the configured options with the given flags applied.
func (f *optionFlags) options(fs *pflag.FlagSet, cfg config.Config) transform.Options {
	opts := cfg.Options()
	if fs.Changed("no-rules") {
		opts.ApplyDependencyRules = !f.noRules
	}
	if fs.Changed("no-parent-chain") {
		opts.ResolveParentChain = !f.noParentChain
	}
	if fs.Changed("repo-versions") {
		opts.UseRepositoryVersions = f.repoVersions
	}
	if fs.Changed("no-module-filter") {
		opts.FilterIgnoredModules = !f.noModuleFilter
	}
	if fs.Changed("keep-parent-version") {
		opts.KeepParentVersion = f.keepParentVersion
	}
	if fs.Changed("package") {
		opts.TargetPackageName = f.pkg
	}
	if fs.Changed("max-parent-depth") {
		opts.MaxParentDepth = f.maxParentDepth
	}
	opts.Verbose = f.explain
	opts.NoParent = f.noParent
	opts.HasPackageVersion = opts.HasPackageVersion || f.hasPackageVersion
	if fs.Changed("keep-pom-version") {
		opts.KeepPOMVersion = f.keepPOMVersion
	}
	opts.SetVersion = f.setVersion
	return opts
}

// sourceFlags select the rule files and the repository index.
type sourceFlags struct {
	rules       []string
	ignoreRules []string
	rulesDir    string
	noDefaults  bool
	repo        string
	excludes    []string
	cached      bool
}

func (f *sourceFlags) register(fs *pflag.FlagSet) {
	fs.StringSliceVar(&f.rules, "rules", nil, "rewrite rule file (repeatable)")
	fs.StringSliceVar(&f.ignoreRules, "ignore-rules", nil, "ignore rule file (repeatable)")
	fs.StringVar(&f.rulesDir, "rules-dir", "", "directory holding maven.rules and maven.ignoreRules")
	fs.BoolVar(&f.noDefaults, "no-defaults", false, "do not seed the built-in default rules")
	fs.StringVar(&f.repo, "repo", "", "local Maven repository root")
	fs.StringSliceVar(&f.excludes, "exclude", nil, "gitignore-style pattern excluded from the repository scan")
	fs.BoolVar(&f.cached, "cached", false, "reuse a cached repository snapshot")
}

// apply merges the flags into cfg.
func (f *sourceFlags) apply(cfg *config.Config) {
	cfg.Rules.Rewrite = append(cfg.Rules.Rewrite, f.rules...)
	cfg.Rules.Ignore = append(cfg.Rules.Ignore, f.ignoreRules...)
	if f.rulesDir != "" {
		cfg.Rules.Dir = f.rulesDir
	}
	if f.noDefaults {
		cfg.Rules.BuiltinDefaults = false
	}
	if f.repo != "" {
		cfg.Repository.Root = f.repo
	}
	cfg.Repository.Excludes = append(cfg.Repository.Excludes, f.excludes...)
}

// wantsRepository reports whether an index must be built for opts.
func (f *sourceFlags) wantsRepository(opts transform.Options) bool {
	return opts.UseRepositoryVersions || f.repo != ""
}

// openRepository builds and fills the index for cfg. With cached set the
// snapshot cache is consulted first and refreshed after a scan.
func openRepository(ctx context.Context, cfg config.Config, cached bool, logger *log.Logger) (*repository.Index, bool, error) {
	idx := repository.New(cfg.Repository.Root,
		repository.WithExcludes(cfg.Repository.Excludes...),
		repository.WithLogger(logger),
	)
	c, err := newCache(!cached)
	if err != nil {
		return nil, false, err
	}
	defer c.Close()
	ttl := cfg.Repository.CacheTTL.Duration
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	hit, err := idx.ScanCached(ctx, c, ttl)
	if err != nil {
		return nil, false, err
	}
	return idx, hit, nil
}

// newTransformer loads rules and, when needed, the repository index.
func newTransformer(ctx context.Context, cfg config.Config, src *sourceFlags, opts transform.Options, logger *log.Logger) (*transform.Transformer, error) {
	src.apply(&cfg)
	cfg.Transform.Package = opts.TargetPackageName
	set, defaults, err := cfg.LoadRules()
	if err != nil {
		return nil, err
	}
	logger.Debug("rules loaded",
		"rules", set.Len(rules.Rewrite),
		"ignore", set.Len(rules.Ignore),
		"published", set.Len(rules.Publish))

	var idx *repository.Index
	switch {
	case src.wantsRepository(opts):
		idx, _, err = openRepository(ctx, cfg, src.cached, logger)
		if err != nil {
			return nil, err
		}
	case opts.ResolveParentChain && cfg.Repository.Root != "":
		// Parents are looked up in the configured repository when present.
		idx, _, err = openRepository(ctx, cfg, src.cached, logger)
		if perrors.Is(err, perrors.ErrCodeFileNotFound) || perrors.Is(err, perrors.ErrCodeInvalidPath) {
			logger.Warn("repository unavailable, parents resolve by path only", "root", cfg.Repository.Root, "err", err)
			idx, err = nil, nil
		}
		if err != nil {
			return nil, err
		}
	}
	return transform.New(set,
		transform.WithDefaults(defaults),
		transform.WithRepository(idx),
		transform.WithLogger(logger),
	), nil
}
