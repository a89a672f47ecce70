package batch

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	perrors "github.com/matzehuels/pomrewrite/pkg/errors"
)

// Entry is one manifest line.
type Entry struct {
	Line              int
	Path              string
	Package           string
	IgnoreModules     []string
	NoParent          bool
	HasPackageVersion bool
	KeepPOMVersion    bool
	SetVersion        string
	Ignore            bool
}

// ListOfPOMs is a parsed manifest.
type ListOfPOMs struct {
	source  string
	baseDir string
	entries []Entry
}

// Load reads the manifest at path. The base directory defaults to the
// directory that contains the manifest's parent directory, so that
// debian/foo.poms resolves against the source tree root.
func Load(path string) (*ListOfPOMs, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, perrors.Wrap(perrors.ErrCodeFileNotFound, err, "manifest %s", path)
		}
		return nil, perrors.Wrap(perrors.ErrCodeInvalidManifest, err, "open manifest %s", path)
	}
	defer f.Close()

	l, err := Parse(f, path)
	if err != nil {
		return nil, err
	}
	l.baseDir = filepath.Dir(filepath.Dir(filepath.Clean(path)))
	return l, nil
}

// Parse reads manifest lines from r. source names the input in errors. The
// base directory defaults to the working directory.
func Parse(r io.Reader, source string) (*ListOfPOMs, error) {
	l := &ListOfPOMs{source: source, baseDir: "."}
	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		e, err := parseEntry(strings.Fields(line), n)
		if err != nil {
			return nil, perrors.Wrap(perrors.ErrCodeInvalidManifest, err, "%s:%d: %q", source, n, line)
		}
		l.entries = append(l.entries, e)
	}
	if err := sc.Err(); err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidManifest, err, "read manifest %s", source)
	}
	return l, nil
}

// Installation options of the Debian .poms format. They are accepted so
// that a packaging manifest can be read as is, and have no effect here.
var (
	installOptions  = []string{"artifact", "classifier", "dest-jar", "relocate", "site-xml", "usj-name", "usj-version"}
	installSwitches = []string{"ignore-pom", "java-lib", "no-usj-versionless"}
)

func parseEntry(fields []string, line int) (Entry, error) {
	e := Entry{Line: line, Path: fields[0]}
	if err := perrors.ValidatePath(e.Path); err != nil {
		return Entry{}, err
	}

	fs := pflag.NewFlagSet(e.Path, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&e.Package, "package", "", "target package")
	fs.StringSliceVar(&e.IgnoreModules, "ignore-modules", nil, "modules to drop")
	fs.BoolVar(&e.NoParent, "no-parent", false, "remove the parent reference")
	fs.BoolVar(&e.HasPackageVersion, "has-package-version", false, "mark the package as versioned")
	fs.BoolVar(&e.KeepPOMVersion, "keep-pom-version", false, "keep the project version")
	fs.StringVar(&e.SetVersion, "set-version", "", "force the project version")
	fs.BoolVar(&e.Ignore, "ignore", false, "skip this descriptor")
	for _, name := range installOptions {
		fs.String(name, "", "ignored")
	}
	for _, name := range installSwitches {
		fs.Bool(name, false, "ignored")
	}
	if err := fs.Parse(fields[1:]); err != nil {
		return Entry{}, err
	}
	if fs.NArg() > 0 {
		return Entry{}, perrors.New(perrors.ErrCodeInvalidManifest, "unexpected argument %q", fs.Arg(0))
	}
	return e, nil
}

// SetBaseDir sets the directory entries are resolved against.
func (l *ListOfPOMs) SetBaseDir(dir string) error {
	if err := checkDir(dir); err != nil {
		return err
	}
	l.baseDir = dir
	return nil
}

func checkDir(dir string) error {
	st, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return perrors.Wrap(perrors.ErrCodeFileNotFound, err, "base directory %s", dir)
		}
		return perrors.Wrap(perrors.ErrCodeInvalidPath, err, "base directory %s", dir)
	}
	if !st.IsDir() {
		return perrors.New(perrors.ErrCodeInvalidPath, "base directory %s is not a directory", dir)
	}
	return nil
}

// BaseDir returns the directory entries are resolved against.
func (l *ListOfPOMs) BaseDir() string {
	return l.baseDir
}

// Source returns the manifest name.
func (l *ListOfPOMs) Source() string {
	return l.source
}

// Entries returns the manifest entries in file order.
func (l *ListOfPOMs) Entries() []Entry {
	return append([]Entry(nil), l.entries...)
}

// Resolve returns the file path of e.
func (l *ListOfPOMs) Resolve(e Entry) string {
	return filepath.Join(l.baseDir, filepath.FromSlash(e.Path))
}
