package repository

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	ignore "github.com/sabhiram/go-gitignore"

	perrors "github.com/matzehuels/pomrewrite/pkg/errors"
	"github.com/matzehuels/pomrewrite/pkg/observability"
	"github.com/matzehuels/pomrewrite/pkg/pomxml"
)

// Artifact is one descriptor found in the repository.
type Artifact struct {
	GroupID    string `json:"group_id"`
	ArtifactID string `json:"artifact_id"`
	Version    string `json:"version"`
	Path       string `json:"path"`
}

// Key returns "groupId:artifactId".
func (a Artifact) Key() string {
	return a.GroupID + ":" + a.ArtifactID
}

// Index maps group:artifact pairs to the versions present in a repository.
// It is safe for concurrent use.
type Index struct {
	root     string
	excludes []string
	logger   *log.Logger

	mu        sync.RWMutex
	artifacts []Artifact
	versions  map[string][]string
	paths     map[string]string
}

// Option configures an Index.
type Option func(*Index)

// WithExcludes skips paths matching any of the gitignore-style patterns.
func WithExcludes(patterns ...string) Option {
	return func(x *Index) {
		x.excludes = append(x.excludes, patterns...)
	}
}

// WithLogger sets the logger used while scanning.
func WithLogger(l *log.Logger) Option {
	return func(x *Index) {
		if l != nil {
			x.logger = l
		}
	}
}

// New returns an empty index rooted at root.
func New(root string, opts ...Option) *Index {
	x := &Index{
		root:     filepath.Clean(root),
		logger:   log.New(io.Discard),
		versions: make(map[string][]string),
		paths:    make(map[string]string),
	}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// Root returns the repository root directory.
func (x *Index) Root() string {
	return x.root
}

// Scan walks the repository and replaces the index contents.
func (x *Index) Scan(ctx context.Context) (err error) {
	start := time.Now()
	observability.Scan().OnScanStart(ctx, x.root)
	var found []Artifact
	defer func() {
		observability.Scan().OnScanComplete(ctx, x.root, len(found), time.Since(start), err)
	}()

	info, err := os.Stat(x.root)
	if err != nil {
		if os.IsNotExist(err) {
			return perrors.Wrap(perrors.ErrCodeFileNotFound, err, "repository %s", x.root)
		}
		return perrors.Wrap(perrors.ErrCodeInvalidPath, err, "repository %s", x.root)
	}
	if !info.IsDir() {
		return perrors.New(perrors.ErrCodeInvalidPath, "repository %s is not a directory", x.root)
	}

	var gi *ignore.GitIgnore
	if len(x.excludes) > 0 {
		gi = ignore.CompileIgnoreLines(x.excludes...)
	}

	err = filepath.WalkDir(x.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			x.logger.Debug("skip unreadable path", "path", path, "err", err)
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if path == x.root {
			return nil
		}

		rel, err := filepath.Rel(x.root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if gi != nil && gi.MatchesPath(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !isDescriptor(d.Name()) {
			return nil
		}

		a, ok := x.read(path, rel)
		if !ok {
			return nil
		}
		found = append(found, a)
		return nil
	})
	if err != nil {
		return err
	}

	x.replace(found)
	x.logger.Debug("scanned repository", "root", x.root, "artifacts", len(found))
	return nil
}

func isDescriptor(name string) bool {
	return name == "pom.xml" || strings.HasSuffix(name, ".pom")
}

// read derives the coordinates of the descriptor at path, preferring its
// content and falling back to its location.
func (x *Index) read(path, rel string) (Artifact, bool) {
	doc, err := pomxml.ReadFile(path)
	if err == nil {
		info := doc.Info()
		a := Artifact{
			GroupID:    info.EffectiveGroupID(),
			ArtifactID: info.ArtifactID,
			Version:    info.EffectiveVersion(),
			Path:       path,
		}
		if a.GroupID != "" && a.ArtifactID != "" && a.Version != "" {
			return a, true
		}
	} else {
		x.logger.Debug("unreadable descriptor", "path", path, "err", err)
	}

	a, ok := layoutArtifact(rel)
	if !ok {
		x.logger.Warn("cannot determine coordinates", "path", path)
		return Artifact{}, false
	}
	a.Path = path
	return a, true
}

// layoutArtifact derives coordinates from a repository-relative path of the
// form group/path/artifact/version/artifact-version.pom.
func layoutArtifact(rel string) (Artifact, bool) {
	parts := strings.Split(rel, "/")
	n := len(parts)
	if n < 4 || !strings.HasSuffix(parts[n-1], ".pom") {
		return Artifact{}, false
	}
	version, artifact := parts[n-2], parts[n-3]
	if !strings.HasPrefix(parts[n-1], artifact+"-"+version) {
		return Artifact{}, false
	}
	return Artifact{
		GroupID:    strings.Join(parts[:n-3], "."),
		ArtifactID: artifact,
		Version:    version,
	}, true
}

// Add records a single artifact. It is mainly used to seed an index without
// a filesystem scan.
func (x *Index) Add(a Artifact) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.add(a)
}

func (x *Index) add(a Artifact) {
	key := a.Key()
	x.artifacts = append(x.artifacts, a)
	x.versions[key] = append(x.versions[key], a.Version)
	x.paths[key+":"+a.Version] = a.Path
}

// replace swaps the index contents for found.
func (x *Index) replace(found []Artifact) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.artifacts = nil
	x.versions = make(map[string][]string, len(found))
	x.paths = make(map[string]string, len(found))
	for _, a := range found {
		x.add(a)
	}
}

// Lookup returns the most recently discovered version of group:artifact.
func (x *Index) Lookup(groupID, artifactID string) (string, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	vs := x.versions[groupID+":"+artifactID]
	if len(vs) == 0 {
		return "", false
	}
	return vs[len(vs)-1], true
}

// Versions returns every version of group:artifact in discovery order.
func (x *Index) Versions(groupID, artifactID string) []string {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return append([]string(nil), x.versions[groupID+":"+artifactID]...)
}

// Path returns the descriptor file for the given coordinates.
func (x *Index) Path(groupID, artifactID, version string) (string, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	p, ok := x.paths[groupID+":"+artifactID+":"+version]
	return p, ok && p != ""
}

// Artifacts returns every indexed artifact in discovery order.
func (x *Index) Artifacts() []Artifact {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return append([]Artifact(nil), x.artifacts...)
}

// Len returns the number of indexed descriptors.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.artifacts)
}
