package rules

import (
	"testing"

	"github.com/matzehuels/pomrewrite/pkg/pom"
)

func dep(g, a, typ, v string) pom.Dependency {
	return pom.NewDependency(g, a, typ, v)
}

func TestParseRule(t *testing.T) {
	r, err := ParseRule(`org.codehaus.plexus plexus-container-default jar s/1\.0-alpha-.*/1.0-alpha/`)
	if err != nil {
		t.Fatal(err)
	}
	if r.Group().Kind() != Literal || r.Version().Kind() != Substitution || r.Classifier().Kind() != Wildcard {
		t.Errorf("unexpected pattern kinds in %v", r)
	}

	if _, err := ParseRule(""); err == nil {
		t.Error("empty rule should fail")
	}
	if _, err := ParseRule("a b c d e f g"); err == nil {
		t.Error("seven fields should fail")
	}
	if _, err := ParseRule("junit junit jar s/(/x/"); err == nil {
		t.Error("bad regex should fail")
	}
}

func TestRuleCanonicalString(t *testing.T) {
	tests := []struct{ in, want string }{
		{"junit junit", "junit junit * *"},
		{"* * maven-plugin * * *", "* * maven-plugin *"},
		{"com.google.inject guice * s/.*/debianx/ s/no_aop// *", "com.google.inject guice * s/.*/debianx/ s/no_aop//"},
	}
	for _, tt := range tests {
		if got := MustParseRule(tt.in).String(); got != tt.want {
			t.Errorf("String(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if !MustParseRule("junit junit").Equal(MustParseRule("junit junit * * * *")) {
		t.Error("rules differing only by trailing wildcards are duplicates")
	}
}

func TestRuleStripsClassifier(t *testing.T) {
	r := MustParseRule("* guice * s/.*/debianx/ s/no_aop//")
	in := dep("com.google.inject", "guice", "jar", "2.0")
	in.Classifier = "no_aop"

	if !r.Matches(in) {
		t.Fatal("rule should match guice with no_aop classifier")
	}
	got := r.Apply(in)
	want := dep("com.google.inject", "guice", "jar", "debianx")
	if got != want {
		t.Errorf("Apply() = %+v, want %+v", got, want)
	}
	if got.String() != "com.google.inject:guice:jar:debianx" {
		t.Errorf("String() = %q", got.String())
	}

	plain := dep("com.google.inject", "guice", "jar", "2.0")
	if r.Matches(plain) {
		t.Error("classifier substitution should not match an empty classifier")
	}
}

func TestRuleRenamesGroup(t *testing.T) {
	r := MustParseRule("s/org.apache.maven.shared/org.apache.maven.plugin-testing/ maven-plugin-testing-harness * s/.*/debian/ *")
	got := r.Apply(dep("org.apache.maven.shared", "maven-plugin-testing-harness", "jar", "1.1"))
	want := dep("org.apache.maven.plugin-testing", "maven-plugin-testing-harness", "jar", "debian")
	if got != want {
		t.Errorf("Apply() = %v, want %v", got, want)
	}
}

func TestRuleLiteralVersionIsStrict(t *testing.T) {
	r := MustParseRule("org.codehaus.mojo clirr-maven-plugin * 2.2")
	if !r.Matches(dep("org.codehaus.mojo", "clirr-maven-plugin", "maven-plugin", "2.2")) {
		t.Error("exact version should match")
	}
	if r.Matches(dep("org.codehaus.mojo", "clirr-maven-plugin", "maven-plugin", "2.2.1")) {
		t.Error("literal version must not match a different version")
	}
}

func TestRuleTypeDefaultsToJar(t *testing.T) {
	r := MustParseRule("junit junit jar")
	d := pom.Dependency{GroupID: "junit", ArtifactID: "junit", Version: "4.8"}
	if !r.Matches(d) {
		t.Error("an undeclared type should match jar")
	}
}

func TestRuleGeneric(t *testing.T) {
	if !DebianVersionRule.Generic() {
		t.Error("debian version rule should be generic")
	}
	if MustParseRule("junit junit").Generic() {
		t.Error("literal rule is not generic")
	}
}
