package rules

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	perrors "github.com/matzehuels/pomrewrite/pkg/errors"
	"github.com/matzehuels/pomrewrite/pkg/pom"
)

func TestSetFirstMatchWins(t *testing.T) {
	specific := MustParseRule("junit junit jar s/.*/A/")
	general := MustParseRule("* * * s/.*/B/")
	d := dep("junit", "junit", "jar", "4.8")

	s := NewSet("t")
	s.Add(Rewrite, specific)
	s.Add(Rewrite, general)
	if got := s.Apply(d).Dependency.Version; got != "A" {
		t.Errorf("specific-first: version = %q, want A", got)
	}

	s = NewSet("t")
	s.Add(Rewrite, general)
	s.Add(Rewrite, specific)
	if got := s.Apply(d).Dependency.Version; got != "B" {
		t.Errorf("general-first: version = %q, want B", got)
	}
}

func TestSetOrderOfDisjointRulesIrrelevant(t *testing.T) {
	a := MustParseRule("junit junit jar s/.*/4.x/")
	b := MustParseRule("antlr antlr jar s/2\\..*/2.x/")
	deps := []pom.Dependency{
		dep("junit", "junit", "jar", "4.8"),
		dep("antlr", "antlr", "jar", "2.7.7"),
		dep("other", "other", "jar", "1"),
	}

	ab, ba := NewSet("ab"), NewSet("ba")
	ab.Add(Rewrite, a)
	ab.Add(Rewrite, b)
	ba.Add(Rewrite, b)
	ba.Add(Rewrite, a)

	for _, d := range deps {
		if x, y := ab.Apply(d), ba.Apply(d); x.Dependency != y.Dependency || x.Outcome != y.Outcome {
			t.Errorf("%v: %v vs %v", d, x.Dependency, y.Dependency)
		}
	}
}

func TestSetIgnoreWins(t *testing.T) {
	s := NewSet("t")
	s.Add(Rewrite, MustParseRule("org.codehaus.mojo findbugs-maven-plugin maven-plugin s/.*/9/"))
	s.Add(Ignore, MustParseRule("org.codehaus.mojo findbugs-maven-plugin maven-plugin *"))

	d := dep("org.codehaus.mojo", "findbugs-maven-plugin", pom.TypePlugin, "1.2")
	res := s.Apply(d)
	if res.Outcome != Ignored {
		t.Fatalf("Outcome = %v, want ignored", res.Outcome)
	}
	if res.Dependency != d {
		t.Error("an ignored dependency must not be rewritten")
	}
	if !res.Changed() {
		t.Error("ignored result counts as a change")
	}
}

func TestSetUnmatched(t *testing.T) {
	s := NewSet("t")
	d := dep("g", "a", "jar", "1")
	res := s.Apply(d)
	if res.Outcome != Unmatched || res.Changed() || res.Dependency != d {
		t.Errorf("empty set result = %+v", res)
	}
}

func TestSetAddSkipsDuplicates(t *testing.T) {
	s := NewSet("t")
	if !s.Add(Rewrite, MustParseRule("junit junit")) {
		t.Error("first add should report new")
	}
	if s.Add(Rewrite, MustParseRule("junit junit * * * *")) {
		t.Error("duplicate add should report false")
	}
	if s.Len(Rewrite) != 1 {
		t.Errorf("Len = %d, want 1", s.Len(Rewrite))
	}
}

func TestSetDefaultsRankLast(t *testing.T) {
	s := NewSet("t")
	s.SeedDefaults(BuiltinDefaults(), "")
	s.Add(Rewrite, MustParseRule(`junit junit jar s/3\..*/3.x/`))

	tests := []struct {
		in   pom.Dependency
		want string
	}{
		{dep("junit", "junit", "jar", "3.8.1"), "3.x"},
		{dep("commons-lang", "commons-lang", "jar", "2.4"), "debian"},
		{dep("org.apache.maven.plugins", "maven-compiler-plugin", pom.TypePlugin, "2.0"), "2.0"},
		{dep("org.apache.maven.plugins", "maven-compiler-plugin", pom.TypePlugin, ""), ""},
	}
	for _, tt := range tests {
		if got := s.Apply(tt.in).Dependency.Version; got != tt.want {
			t.Errorf("%v: version = %q, want %q", tt.in, got, tt.want)
		}
	}

	if got := len(s.Explicit(Rewrite)); got != 1 {
		t.Errorf("Explicit = %d rules, want 1", got)
	}
	if got := s.Rules(Rewrite); len(got) != 3 || !got[0].Equal(MustParseRule(`junit junit jar s/3\..*/3.x/`)) {
		t.Errorf("Rules = %v", got)
	}
}

func TestSetPackageDefaults(t *testing.T) {
	d := BuiltinDefaults()
	d.AddForPackage("libantlr3-java", Rewrite, MustParseRule("org.antlr stringtemplate * s/3\\..*/3.x/"))

	s := NewSet("t")
	s.SeedDefaults(d, "libantlr3-java")
	if got := s.Apply(dep("org.antlr", "stringtemplate", "jar", "3.2.1")).Dependency.Version; got != "3.x" {
		t.Errorf("package seed: version = %q, want 3.x", got)
	}

	other := NewSet("o")
	other.SeedDefaults(d, "libother-java")
	if got := other.Apply(dep("org.antlr", "stringtemplate", "jar", "3.2.1")).Dependency.Version; got != "debian" {
		t.Errorf("other package: version = %q, want debian", got)
	}
}

func TestSetCloneIsIndependent(t *testing.T) {
	s := NewSet("t")
	s.Add(Rewrite, MustParseRule("junit junit"))
	c := s.Clone()
	c.Add(Rewrite, MustParseRule("antlr antlr"))
	c.Add(Ignore, MustParseRule("x y"))

	if s.Len(Rewrite) != 1 || s.Len(Ignore) != 0 {
		t.Error("mutating a clone changed the original")
	}
	if c.Name() != "t" {
		t.Errorf("Name = %q", c.Name())
	}
}

func TestSetIdempotentWithNormalizingRules(t *testing.T) {
	s := NewSet("t")
	s.SeedDefaults(BuiltinDefaults(), "")
	s.Add(Rewrite, MustParseRule(`junit junit jar s/4\..*/4.x/`))

	once := s.Apply(dep("junit", "junit", "jar", "4.8.2")).Dependency
	twice := s.Apply(once).Dependency
	if once != twice {
		t.Errorf("second pass changed %v to %v", once, twice)
	}
}

func TestReadRules(t *testing.T) {
	input := `# comment
junit junit jar s/3\..*/3.x/

org.codehaus.plexus plexus-container-default jar s/1\.0-alpha-.*/1.0-alpha/
junit junit jar s/3\..*/3.x/
`
	s := NewSet("t")
	n, err := ReadRules(strings.NewReader(input), "maven.rules", Rewrite, s)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("added %d rules, want 2", n)
	}

	var buf bytes.Buffer
	if err := WriteRules(&buf, s, Rewrite); err != nil {
		t.Fatal(err)
	}
	if lines := strings.Count(buf.String(), "\n"); lines != 2 {
		t.Errorf("WriteRules wrote %d lines, want 2", lines)
	}
}

func TestReadRulesReportsLine(t *testing.T) {
	_, err := ReadRules(strings.NewReader("junit junit\ns/(/x/\n"), "bad.rules", Rewrite, NewSet("t"))
	if err == nil {
		t.Fatal("expected error")
	}
	if !perrors.Is(err, perrors.ErrCodeInvalidRule) {
		t.Errorf("code = %v, want %v", perrors.GetCode(err), perrors.ErrCodeInvalidRule)
	}
	if !strings.Contains(err.Error(), "bad.rules:2") {
		t.Errorf("error %q should name file and line", err)
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	write(FileName(Rewrite), "junit junit jar s/4\\..*/4.x/\n")
	write(FileName(Ignore), "org.codehaus.mojo findbugs-maven-plugin maven-plugin *\n")

	s := NewSet("t")
	if err := LoadDir(dir, s); err != nil {
		t.Fatal(err)
	}
	if s.Len(Rewrite) != 1 || s.Len(Ignore) != 1 || s.Len(Publish) != 0 {
		t.Errorf("lens = %d/%d/%d", s.Len(Rewrite), s.Len(Ignore), s.Len(Publish))
	}

	if err := LoadDir(filepath.Join(dir, "missing"), s); !perrors.Is(err, perrors.ErrCodeFileNotFound) {
		t.Errorf("missing dir error = %v", err)
	}
}

func TestLoadPackageDefaults(t *testing.T) {
	dir := t.TempDir()
	pkgDir := filepath.Join(dir, "libfoo-java")
	if err := os.MkdirAll(pkgDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(pkgDir, FileName(Rewrite)), []byte("foo foo * s/.*/1.x/\n"), 0644); err != nil {
		t.Fatal(err)
	}

	d := NewDefaults()
	if err := LoadPackageDefaults(dir, d); err != nil {
		t.Fatal(err)
	}
	if got := d.For("libfoo-java", Rewrite); len(got) != 1 {
		t.Errorf("For(libfoo-java) = %v", got)
	}
	if got := d.For("other", Rewrite); len(got) != 0 {
		t.Errorf("For(other) = %v", got)
	}
}

func TestCategoryRoundTrip(t *testing.T) {
	for _, c := range Categories() {
		got, err := ParseCategory(c.String())
		if err != nil || got != c {
			t.Errorf("ParseCategory(%q) = %v, %v", c.String(), got, err)
		}
	}
}
