package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	perrors "github.com/matzehuels/pomrewrite/pkg/errors"
	"github.com/matzehuels/pomrewrite/pkg/pom"
	"github.com/matzehuels/pomrewrite/pkg/rules"
	"github.com/matzehuels/pomrewrite/pkg/transform"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	opts := cfg.Options()
	if !opts.ApplyDependencyRules || !opts.ResolveParentChain || !opts.FilterIgnoredModules {
		t.Errorf("Options() = %+v, want default steps enabled", opts)
	}
	if opts.UseRepositoryVersions {
		t.Error("UseRepositoryVersions should default to false")
	}
	if opts.MaxParentDepth != transform.DefaultMaxParentDepth {
		t.Errorf("MaxParentDepth = %d", opts.MaxParentDepth)
	}
	if cfg.Repository.CacheTTL.Duration != 24*time.Hour {
		t.Errorf("CacheTTL = %v", cfg.Repository.CacheTTL)
	}
}

func TestParse(t *testing.T) {
	cfg, err := Parse(`
[transform]
resolve_parent_chain = false
use_repository_versions = true
package = "libantlr3-java"
max_parent_depth = 8

[repository]
root = "/srv/maven"
excludes = ["*-sources.pom", "tmp/"]
cache_ttl = "90m"

[batch]
concurrency = 2
write_back = true
`)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if cfg.Transform.ResolveParentChain {
		t.Error("resolve_parent_chain not applied")
	}
	if !cfg.Transform.ApplyDependencyRules {
		t.Error("unset keys should keep their defaults")
	}
	if got := cfg.Options().TargetPackageName; got != "libantlr3-java" {
		t.Errorf("TargetPackageName = %q", got)
	}
	if cfg.Repository.Root != "/srv/maven" || len(cfg.Repository.Excludes) != 2 {
		t.Errorf("Repository = %+v", cfg.Repository)
	}
	if cfg.Repository.CacheTTL.Duration != 90*time.Minute {
		t.Errorf("CacheTTL = %v", cfg.Repository.CacheTTL)
	}
	if cfg.Batch.Concurrency != 2 || !cfg.Batch.WriteBack {
		t.Errorf("Batch = %+v", cfg.Batch)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"syntax", "[transform\n"},
		{"unknown key", "[transform]\nresolve_parents = true\n"},
		{"unknown table", "[server]\nport = 1\n"},
		{"bad duration", "[repository]\ncache_ttl = \"soon\"\n"},
		{"negative depth", "[transform]\nmax_parent_depth = -1\n"},
		{"negative concurrency", "[batch]\nconcurrency = -3\n"},
		{"repository versions without root", "[transform]\nuse_repository_versions = true\n[repository]\nroot = \"\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.text)
			if !perrors.Is(err, perrors.ErrCodeInvalidConfig) {
				t.Errorf("Parse() error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	text := "[rules]\nrewrite = [\"extra.rules\"]\ndir = \"debian\"\n"
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if want := filepath.Join(dir, "debian"); cfg.Rules.Dir != want {
		t.Errorf("Rules.Dir = %q, want %q", cfg.Rules.Dir, want)
	}
	if want := filepath.Join(dir, "extra.rules"); cfg.Rules.Rewrite[0] != want {
		t.Errorf("Rules.Rewrite[0] = %q, want %q", cfg.Rules.Rewrite[0], want)
	}

	_, err = Load(filepath.Join(dir, "missing.toml"))
	if !perrors.Is(err, perrors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestLoadRules(t *testing.T) {
	dir := t.TempDir()
	write := func(rel, content string) {
		p := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("debian/"+rules.FileName(rules.Rewrite), "junit junit * s/3\\..*/3.x/ * *\n")
	write("extra.ignore", "org.codehaus.mojo findbugs-maven-plugin * * * *\n")
	write("defaults/libfoo-java/"+rules.FileName(rules.Rewrite), "org.foo * * s/.*/foo/ * *\n")

	cfg := Default()
	cfg.Rules.Dir = filepath.Join(dir, "debian")
	cfg.Rules.Ignore = []string{filepath.Join(dir, "extra.ignore")}
	cfg.Rules.PackageDefaults = filepath.Join(dir, "defaults")

	set, defaults, err := cfg.LoadRules()
	if err != nil {
		t.Fatalf("LoadRules() error: %v", err)
	}
	if n := set.Len(rules.Rewrite); n != 1 {
		t.Errorf("rewrite rules = %d, want 1", n)
	}
	if n := set.Len(rules.Ignore); n != 1 {
		t.Errorf("ignore rules = %d, want 1", n)
	}

	// Builtin seeds plus the package-specific one.
	if got := len(defaults.For("libfoo-java", rules.Rewrite)); got != 3 {
		t.Errorf("defaults for libfoo-java = %d, want 3", got)
	}

	set.SeedDefaults(defaults, "libfoo-java")
	r := set.Rewrite(pom.Dependency{GroupID: "org.foo", ArtifactID: "bar", Type: "jar", Version: "1.2"})
	if r.Dependency.Version != "foo" {
		t.Errorf("package seed not applied: %+v", r.Dependency)
	}

	cfg.Rules.Dir = filepath.Join(dir, "nope")
	if _, _, err := cfg.LoadRules(); !perrors.Is(err, perrors.ErrCodeFileNotFound) {
		t.Errorf("LoadRules(missing dir) error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestFind(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	if _, ok := Find(); ok {
		t.Fatal("Find() found a file in an empty tree")
	}

	user := filepath.Join(xdg, "pomrewrite", FileName)
	if err := os.MkdirAll(filepath.Dir(user), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(user, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if got, ok := Find(); !ok || got != user {
		t.Errorf("Find() = %q, %v, want %q", got, ok, user)
	}

	if err := os.WriteFile(FileName, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if got, ok := Find(); !ok || got != FileName {
		t.Errorf("Find() = %q, %v, want working directory file", got, ok)
	}
}
