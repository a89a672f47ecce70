package rules

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	perrors "github.com/matzehuels/pomrewrite/pkg/errors"
)

// Conventional rule file names inside a rules directory.
var categoryFiles = map[Category]string{
	Rewrite: "maven.rules",
	Ignore:  "maven.ignoreRules",
	Publish: "maven.publishedRules",
}

// FileName returns the conventional file name for cat.
func FileName(cat Category) string {
	return categoryFiles[cat]
}

// ReadRules reads one rule per line from r into category cat of set.
// Blank lines and lines starting with # are skipped. source names the input
// in error messages.
func ReadRules(r io.Reader, source string, cat Category, set *Set) (int, error) {
	sc := bufio.NewScanner(r)
	added, lineNo := 0, 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rule, err := ParseRule(line)
		if err != nil {
			return added, perrors.Wrap(perrors.ErrCodeInvalidRule, err, "%s:%d: %q", source, lineNo, line)
		}
		if set.Add(cat, rule) {
			added++
		}
	}
	if err := sc.Err(); err != nil {
		return added, perrors.Wrap(perrors.ErrCodeInvalidRule, err, "read %s", source)
	}
	return added, nil
}

// LoadFile reads a rule file into category cat of set.
func LoadFile(path string, cat Category, set *Set) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, perrors.Wrap(perrors.ErrCodeFileNotFound, err, "rule file %s", path)
		}
		return 0, perrors.Wrap(perrors.ErrCodeInvalidRule, err, "open rule file %s", path)
	}
	defer f.Close()
	return ReadRules(f, path, cat, set)
}

// LoadDir loads the conventional rule files found in dir. Missing files are
// skipped; a missing directory is an error.
func LoadDir(dir string, set *Set) error {
	st, err := os.Stat(dir)
	if err != nil {
		return perrors.Wrap(perrors.ErrCodeFileNotFound, err, "rules directory %s", dir)
	}
	if !st.IsDir() {
		return perrors.New(perrors.ErrCodeInvalidPath, "%s is not a directory", dir)
	}
	for _, cat := range Categories() {
		path := filepath.Join(dir, categoryFiles[cat])
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}
		if _, err := LoadFile(path, cat, set); err != nil {
			return err
		}
	}
	return nil
}

// LoadPackageDefaults reads package-specific seeds from dir, where each
// subdirectory is named after a target package and holds conventional rule
// files.
func LoadPackageDefaults(dir string, d *Defaults) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return perrors.Wrap(perrors.ErrCodeFileNotFound, err, "defaults directory %s", dir)
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		pkg := e.Name()
		tmp := NewSet(pkg)
		if err := LoadDir(filepath.Join(dir, pkg), tmp); err != nil {
			return err
		}
		for _, cat := range Categories() {
			for _, r := range tmp.Explicit(cat) {
				d.AddForPackage(pkg, cat, r)
			}
		}
	}
	return nil
}

// WriteRules writes the effective rules of cat, one per line.
func WriteRules(w io.Writer, set *Set, cat Category) error {
	for _, r := range set.Rules(cat) {
		if _, err := fmt.Fprintln(w, r.String()); err != nil {
			return err
		}
	}
	return nil
}
