package transform

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	perrors "github.com/matzehuels/pomrewrite/pkg/errors"
	"github.com/matzehuels/pomrewrite/pkg/observability"
	"github.com/matzehuels/pomrewrite/pkg/pom"
	"github.com/matzehuels/pomrewrite/pkg/pomxml"
	"github.com/matzehuels/pomrewrite/pkg/repository"
	"github.com/matzehuels/pomrewrite/pkg/rules"
)

// Transformer rewrites descriptors with a shared rule set.
type Transformer struct {
	rules    *rules.Set
	defaults *rules.Defaults
	repo     *repository.Index
	parents  ParentLoader
	ignore   *IgnoreModules
	logger   *log.Logger
}

// New returns a transformer for set. A nil set behaves as an empty one.
func New(set *rules.Set, opts ...Option) *Transformer {
	if set == nil {
		set = rules.NewSet("")
	}
	t := &Transformer{
		rules:  set,
		ignore: NewIgnoreModules(),
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.parents == nil {
		t.parents = &FileParentLoader{Repository: t.repo}
	}
	return t
}

// IgnoreModules returns the registry consulted by FilterIgnoredModules.
func (t *Transformer) IgnoreModules() *IgnoreModules {
	return t.ignore
}

// ruleSet returns the set to use for pkg, seeded with the package defaults
// when the transformer has any.
func (t *Transformer) ruleSet(pkg string) *rules.Set {
	if t.defaults == nil {
		return t.rules
	}
	set := t.rules.Clone()
	set.SeedDefaults(t.defaults, pkg)
	return set
}

// Transform returns a rewritten copy of in. path identifies the descriptor
// for the ignore-module registry and for relative parent lookup.
func (t *Transformer) Transform(ctx context.Context, in *pom.Info, path string, opts Options) (res *Result, err error) {
	start := time.Now()
	observability.Transform().OnTransformStart(ctx, path)
	defer func() {
		changes := 0
		if res != nil {
			changes = res.Changes.Total()
		}
		observability.Transform().OnTransformComplete(ctx, path, changes, time.Since(start), err)
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if in == nil {
		return nil, perrors.New(perrors.ErrCodeInvalidInput, "no descriptor to transform")
	}
	if opts.UseRepositoryVersions && t.repo == nil {
		return nil, perrors.New(perrors.ErrCodeInvalidConfig, "repository versions requested without a repository index")
	}

	r := &run{
		t:      t,
		ctx:    ctx,
		set:    t.ruleSet(opts.TargetPackageName),
		opts:   opts,
		path:   path,
		in:     in,
		out:    in.Clone(),
		result: &Result{},
		logger: t.logger.With("pom", path),
	}
	if err := r.transform(); err != nil {
		return nil, err
	}
	r.result.Info = r.out
	return r.result, nil
}

// TransformDocument transforms doc in place.
func (t *Transformer) TransformDocument(ctx context.Context, doc *pomxml.Document, path string, opts Options) (*Result, error) {
	res, err := t.Transform(ctx, doc.Info(), path, opts)
	if err != nil {
		return nil, err
	}
	if err := doc.Apply(res.Info); err != nil {
		return nil, err
	}
	return res, nil
}

// TransformFile reads the descriptor at src, transforms it and writes the
// result to dst. src and dst may be the same file.
func (t *Transformer) TransformFile(ctx context.Context, src, dst string, opts Options) (*Result, error) {
	doc, err := pomxml.ReadFile(src)
	if err != nil {
		return nil, err
	}
	res, err := t.TransformDocument(ctx, doc, src, opts)
	if err != nil {
		return nil, err
	}
	if err := doc.WriteFile(dst); err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidPath, err, "write %s", dst)
	}
	return res, nil
}
