package transform

import (
	"context"
	"os"
	"path/filepath"

	perrors "github.com/matzehuels/pomrewrite/pkg/errors"
	"github.com/matzehuels/pomrewrite/pkg/pom"
	"github.com/matzehuels/pomrewrite/pkg/pomxml"
	"github.com/matzehuels/pomrewrite/pkg/repository"
)

// DefaultRelativePath is where Maven looks for a parent descriptor when the
// reference does not say.
const DefaultRelativePath = "../pom.xml"

// ParentLoader locates the descriptor a parent reference points to.
//
// childPath is the file of the descriptor holding the reference, or empty
// when unknown. Implementations return an error with code PARENT_NOT_FOUND
// when the parent cannot be located. The returned path is used to resolve
// the next level of the chain.
type ParentLoader interface {
	LoadParent(ctx context.Context, childPath string, ref pom.Dependency, relativePath string) (*pom.Info, string, error)
}

// ParentLoaderFunc adapts a function to ParentLoader.
type ParentLoaderFunc func(ctx context.Context, childPath string, ref pom.Dependency, relativePath string) (*pom.Info, string, error)

// LoadParent calls f.
func (f ParentLoaderFunc) LoadParent(ctx context.Context, childPath string, ref pom.Dependency, relativePath string) (*pom.Info, string, error) {
	return f(ctx, childPath, ref, relativePath)
}

// FileParentLoader looks for parents next to the child first and in the
// repository index second.
type FileParentLoader struct {
	Repository *repository.Index
}

// LoadParent implements ParentLoader.
func (l *FileParentLoader) LoadParent(ctx context.Context, childPath string, ref pom.Dependency, relativePath string) (*pom.Info, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	if childPath != "" {
		if info, path, ok := loadRelative(childPath, ref, relativePath); ok {
			return info, path, nil
		}
	}
	if l.Repository != nil {
		if info, path, ok := loadFromRepository(l.Repository, ref); ok {
			return info, path, nil
		}
	}
	return nil, "", perrors.New(perrors.ErrCodeParentNotFound, "parent %s not found", ref)
}

func loadRelative(childPath string, ref pom.Dependency, relativePath string) (*pom.Info, string, bool) {
	if relativePath == "" {
		relativePath = DefaultRelativePath
	}
	path := filepath.Join(filepath.Dir(childPath), filepath.FromSlash(relativePath))
	if st, err := os.Stat(path); err == nil && st.IsDir() {
		path = filepath.Join(path, "pom.xml")
	}
	info, ok := readDescriptor(path)
	if !ok || info.EffectiveGroupID() != ref.GroupID || info.ArtifactID != ref.ArtifactID {
		return nil, "", false
	}
	return info, path, true
}

func loadFromRepository(x *repository.Index, ref pom.Dependency) (*pom.Info, string, bool) {
	path, ok := x.Path(ref.GroupID, ref.ArtifactID, ref.Version)
	if !ok {
		v, found := x.Lookup(ref.GroupID, ref.ArtifactID)
		if !found {
			return nil, "", false
		}
		if path, ok = x.Path(ref.GroupID, ref.ArtifactID, v); !ok {
			return nil, "", false
		}
	}
	info, ok := readDescriptor(path)
	if !ok {
		return nil, "", false
	}
	return info, path, true
}

func readDescriptor(path string) (*pom.Info, bool) {
	doc, err := pomxml.ReadFile(path)
	if err != nil {
		return nil, false
	}
	return doc.Info(), true
}
