package transform

import (
	"context"

	"github.com/charmbracelet/log"

	perrors "github.com/matzehuels/pomrewrite/pkg/errors"
	"github.com/matzehuels/pomrewrite/pkg/observability"
	"github.com/matzehuels/pomrewrite/pkg/pom"
	"github.com/matzehuels/pomrewrite/pkg/rules"
)

// run holds the state of a single transformation.
type run struct {
	t      *Transformer
	ctx    context.Context
	set    *rules.Set
	opts   Options
	path   string
	in     *pom.Info
	out    *pom.Info
	result *Result
	logger *log.Logger
}

func (r *run) transform() error {
	if r.opts.FilterIgnoredModules {
		r.filterModules()
	}
	if r.opts.ApplyDependencyRules {
		r.applyRules()
	}
	if err := r.handleParent(); err != nil {
		return err
	}
	r.rewriteCoordinate()
	if r.opts.UseRepositoryVersions {
		r.fillVersions()
	}
	if r.opts.HasPackageVersion {
		if r.out.Properties == nil {
			r.out.Properties = make(map[string]string)
		}
		r.out.Properties[HasPackageVersionProperty] = "true"
	}
	return nil
}

func (r *run) filterModules() {
	kept := r.t.ignore.filter(r.path, r.out.Modules)
	if removed := len(r.out.Modules) - len(kept); removed > 0 {
		r.logger.Debug("removed ignored modules", "count", removed)
		r.result.Changes.ModulesRemoved += removed
		r.out.Modules = kept
	}
}

// applyRules runs the engine over every role, keeping Origins aligned with
// the surviving entries.
func (r *run) applyRules() {
	for _, role := range pom.Roles() {
		deps := r.out.Dependencies[role]
		if len(deps) == 0 {
			continue
		}
		origins := r.out.Origins[role]
		kept := make([]pom.Dependency, 0, len(deps))
		var keptOrigins []int
		for i, d := range deps {
			res := r.set.Apply(d)
			r.report(role.String(), res)
			if res.Outcome == rules.Ignored {
				r.result.Changes.Dropped++
				continue
			}
			next := res.Dependency
			// rules never invent a version; the repository fills missing ones
			if d.Version == "" {
				next.Version = ""
			}
			if next != d {
				r.result.Changes.Rewritten++
			}
			kept = append(kept, next)
			if origins != nil {
				keptOrigins = append(keptOrigins, origins[i])
			}
		}
		r.out.Dependencies[role] = kept
		if origins != nil {
			r.out.Origins[role] = keptOrigins
		}
	}
}

func (r *run) report(where string, res rules.Result) {
	if res.Outcome == rules.Unmatched {
		return
	}
	cat := rules.Rewrite
	if res.Outcome == rules.Ignored {
		cat = rules.Ignore
	}
	observability.Transform().OnRuleMatch(r.ctx, cat.String(), res.Rule.String())

	logf := r.logger.Debug
	if r.opts.Verbose {
		logf = r.logger.Info
	}
	logf(res.Outcome.String(), "in", where, "dependency", res.Original, "rule", res.Rule.String(), "result", res.Dependency)
}

// handleParent drops, resolves and rewrites the parent reference.
func (r *run) handleParent() error {
	if r.out.Parent == nil {
		return nil
	}
	if r.opts.NoParent {
		r.out.Parent = nil
		r.out.ParentRelativePath = ""
		return nil
	}

	ref := *r.out.Parent
	if r.opts.ResolveParentChain {
		parent, parentPath, err := r.t.parents.LoadParent(r.ctx, r.path, ref, r.out.ParentRelativePath)
		if err != nil {
			if ctxErr := r.ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			r.logger.Warn("parent not found, removing reference", "parent", ref, "err", err)
			r.result.warn(perrors.ErrCodeParentNotFound, ref.String(), "parent descriptor not found, reference removed")
			r.out.Parent = nil
			r.out.ParentRelativePath = ""
			return nil
		}
		if err := r.checkChain(parent, parentPath); err != nil {
			return err
		}
		ref = pom.Dependency{
			GroupID:    parent.EffectiveGroupID(),
			ArtifactID: parent.ArtifactID,
			Type:       pom.TypePOM,
			Version:    parent.EffectiveVersion(),
		}
	}

	if !r.opts.ApplyDependencyRules && !r.opts.ResolveParentChain {
		return nil
	}
	res := r.set.Rewrite(ref)
	r.report("parent", res)
	next := res.Dependency
	if r.opts.KeepParentVersion {
		next.Version = ref.Version
	}
	next.Type = pom.TypePOM
	next.Classifier, next.Scope, next.Optional = "", "", false
	if next != *r.out.Parent {
		r.result.Changes.Rewritten++
	}
	r.out.Parent = &next
	return nil
}

// checkChain walks the ancestors of parent and fails on a loop or a chain
// deeper than the configured limit. Ancestors that cannot be located end
// the walk.
func (r *run) checkChain(parent *pom.Info, parentPath string) error {
	self := r.in.Coordinate()
	self.GroupID = r.in.EffectiveGroupID()
	visited := map[string]bool{self.Key(): true}

	cur, curPath := parent, parentPath
	for depth := 1; ; depth++ {
		key := cur.EffectiveGroupID() + ":" + cur.ArtifactID
		if visited[key] {
			return perrors.New(perrors.ErrCodeParentCycle, "parent chain of %s loops back to %s", self.Key(), key)
		}
		visited[key] = true
		if cur.Parent == nil {
			return nil
		}
		if depth >= r.opts.maxParentDepth() {
			return perrors.New(perrors.ErrCodeParentCycle, "parent chain of %s is deeper than %d", self.Key(), r.opts.maxParentDepth())
		}
		next, nextPath, err := r.t.parents.LoadParent(r.ctx, curPath, *cur.Parent, cur.ParentRelativePath)
		if err != nil {
			if ctxErr := r.ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			r.logger.Debug("ancestor not found", "parent", cur.Parent, "err", err)
			return nil
		}
		cur, curPath = next, nextPath
	}
}

// rewriteCoordinate rewrites the project's own coordinate. Inherited values
// stay implicit unless they no longer match the parent reference.
func (r *run) rewriteCoordinate() {
	own := pom.NewDependency(r.in.EffectiveGroupID(), r.in.ArtifactID, r.in.Coordinate().Type, r.in.EffectiveVersion())
	next := own
	if r.opts.ApplyDependencyRules {
		res := r.set.Rewrite(own)
		r.report("project", res)
		next = res.Dependency
		if r.opts.KeepPOMVersion || own.Version == "" {
			next.Version = own.Version
		}
	}
	if r.opts.SetVersion != "" {
		next.Version = r.opts.SetVersion
	}

	parent := r.out.Parent
	if r.in.GroupID != "" || parent == nil || next.GroupID != parent.GroupID {
		r.out.GroupID = next.GroupID
	}
	r.out.ArtifactID = next.ArtifactID
	if r.in.Version != "" || parent == nil || next.Version != parent.Version {
		r.out.Version = next.Version
	}
	if r.out.GroupID != r.in.GroupID || r.out.ArtifactID != r.in.ArtifactID || r.out.Version != r.in.Version {
		r.result.Changes.Rewritten++
	}
}

// fillVersions sets empty managed and plugin versions from the repository.
func (r *run) fillVersions() {
	for _, role := range pom.Roles() {
		if !role.Managed() {
			continue
		}
		deps := r.out.Dependencies[role]
		for i, d := range deps {
			if d.Version != "" {
				continue
			}
			v, ok := r.t.repo.Lookup(d.GroupID, d.ArtifactID)
			if !ok {
				r.result.warn(perrors.ErrCodeVersionNotFound, d.Key(), "no version in repository")
				continue
			}
			r.logger.Debug("filled version from repository", "role", role, "dependency", d.Key(), "version", v)
			deps[i].Version = v
			r.result.Changes.Filled++
		}
	}
}
