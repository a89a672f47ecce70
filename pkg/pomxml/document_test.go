package pomxml

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	perrors "github.com/matzehuels/pomrewrite/pkg/errors"
	"github.com/matzehuels/pomrewrite/pkg/pom"
)

const samplePOM = `<?xml version="1.0" encoding="UTF-8"?>
<project xmlns="http://maven.apache.org/POM/4.0.0">
  <modelVersion>4.0.0</modelVersion>
  <parent>
    <groupId>org.antlr</groupId>
    <artifactId>antlr-master</artifactId>
    <version>3.2</version>
  </parent>
  <artifactId>antlr</artifactId>
  <packaging>jar</packaging>
  <!-- keep this comment -->
  <modules>
    <module>runtime</module>
    <module>gunit</module>
    <module>tool</module>
  </modules>
  <properties>
    <project.build.sourceEncoding>UTF-8</project.build.sourceEncoding>
  </properties>
  <dependencies>
    <dependency>
      <groupId>org.antlr</groupId>
      <artifactId>stringtemplate</artifactId>
      <version>3.2.1</version>
    </dependency>
    <dependency>
      <groupId>com.google.inject</groupId>
      <artifactId>guice</artifactId>
      <version>2.0</version>
      <classifier>no_aop</classifier>
      <scope>compile</scope>
    </dependency>
  </dependencies>
  <build>
    <extensions>
      <extension>
        <groupId>org.apache.maven.wagon</groupId>
        <artifactId>wagon-ssh-external</artifactId>
        <version>1.0-beta-2</version>
      </extension>
    </extensions>
    <plugins>
      <plugin>
        <artifactId>maven-compiler-plugin</artifactId>
        <dependencies>
          <dependency>
            <groupId>junit</groupId>
            <artifactId>junit</artifactId>
            <version>4.8</version>
          </dependency>
        </dependencies>
      </plugin>
      <plugin>
        <groupId>org.codehaus.mojo</groupId>
        <artifactId>findbugs-maven-plugin</artifactId>
        <version>1.2</version>
      </plugin>
    </plugins>
  </build>
</project>
`

func mustParse(t *testing.T, data string) *Document {
	t.Helper()
	doc, err := Parse([]byte(data))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return doc
}

func TestParseInfo(t *testing.T) {
	info := mustParse(t, samplePOM).Info()

	if info.GroupID != "" || info.ArtifactID != "antlr" || info.Packaging != "jar" {
		t.Errorf("coordinates = %q:%q:%q", info.GroupID, info.ArtifactID, info.Packaging)
	}
	if info.EffectiveGroupID() != "org.antlr" || info.EffectiveVersion() != "3.2" {
		t.Errorf("effective = %s:%s", info.EffectiveGroupID(), info.EffectiveVersion())
	}
	if info.Parent == nil || info.Parent.String() != "org.antlr:antlr-master:pom:3.2" {
		t.Errorf("Parent = %v", info.Parent)
	}
	if got := strings.Join(info.Modules, ","); got != "runtime,gunit,tool" {
		t.Errorf("Modules = %q", got)
	}
	if info.Properties["project.build.sourceEncoding"] != "UTF-8" {
		t.Errorf("Properties = %v", info.Properties)
	}

	tests := []struct {
		role pom.Role
		want []string
	}{
		{pom.Dependencies, []string{"org.antlr:stringtemplate:jar:3.2.1", "com.google.inject:guice:jar:2.0:no_aop"}},
		{pom.Extensions, []string{"org.apache.maven.wagon:wagon-ssh-external:jar:1.0-beta-2"}},
		{pom.Plugins, []string{"org.apache.maven.plugins:maven-compiler-plugin:maven-plugin:", "org.codehaus.mojo:findbugs-maven-plugin:maven-plugin:1.2"}},
		{pom.PluginDependencies, []string{"junit:junit:jar:4.8"}},
		{pom.PluginManagement, nil},
	}
	for _, tt := range tests {
		var got []string
		for _, d := range info.Dependencies[tt.role] {
			got = append(got, d.String())
		}
		if strings.Join(got, " ") != strings.Join(tt.want, " ") {
			t.Errorf("%v = %v, want %v", tt.role, got, tt.want)
		}
	}

	guice := info.Dependencies[pom.Dependencies][1]
	if guice.Scope != "compile" {
		t.Errorf("guice scope = %q", guice.Scope)
	}
}

func TestParseRejectsNonProject(t *testing.T) {
	_, err := Parse([]byte(`<settings/>`))
	if !perrors.Is(err, perrors.ErrCodeInvalidPOM) {
		t.Errorf("err = %v, want INVALID_POM", err)
	}
	_, err = Parse([]byte(`not xml at all <`))
	if !perrors.Is(err, perrors.ErrCodeInvalidPOM) {
		t.Errorf("err = %v, want INVALID_POM", err)
	}
}

func TestParseByteOrderMark(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, samplePOM...)
	doc, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse with BOM: %v", err)
	}
	out, err := doc.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(out, []byte{0xEF, 0xBB, 0xBF}) {
		t.Error("BOM should be written back")
	}
}

func TestParseLatin1(t *testing.T) {
	data := []byte("<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n<project><groupId>g</groupId><artifactId>a</artifactId><name>caf\xe9</name></project>")
	doc, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse latin1: %v", err)
	}
	if got := doc.Info().Coordinate().Key(); got != "g:a" {
		t.Errorf("Key() = %q", got)
	}

	if err := doc.Apply(doc.Info()); err != nil {
		t.Fatal(err)
	}
	out, err := doc.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out, data) {
		t.Errorf("latin1 round trip changed the document:\n%q", out)
	}
	again, err := Parse(out)
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if got := childText(again.root(), "name"); got != "café" {
		t.Errorf("name after round trip = %q, want %q", got, "café")
	}
}

func TestWriteSwitchesToUTF8WhenCharsetTooNarrow(t *testing.T) {
	data := []byte("<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n<project><groupId>g</groupId><artifactId>a</artifactId><name>caf\xe9</name></project>")
	doc, err := Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	info := doc.Info()
	info.Properties["check"] = "\u2713"
	if err := doc.Apply(info); err != nil {
		t.Fatal(err)
	}
	out, err := doc.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(out, []byte(`encoding="UTF-8"`)) {
		t.Errorf("declaration should switch to UTF-8:\n%s", out)
	}
	again, err := Parse(out)
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if got := childText(again.root(), "name"); got != "café" {
		t.Errorf("name = %q", got)
	}
	if got := again.Info().Properties["check"]; got != "\u2713" {
		t.Errorf("property = %q", got)
	}
}

func TestWriteFileReplacesAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pom.xml")
	if err := os.WriteFile(path, []byte(samplePOM), 0640); err != nil {
		t.Fatal(err)
	}

	doc := mustParse(t, samplePOM)
	info := doc.Info()
	info.Parent.Version = "debian"
	if err := doc.Apply(info); err != nil {
		t.Fatal(err)
	}
	if err := doc.WriteFile(path); err != nil {
		t.Fatal(err)
	}

	got, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if v := got.Info().Parent.Version; v != "debian" {
		t.Errorf("parent version = %q", v)
	}
	fi, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if fi.Mode().Perm() != 0640 {
		t.Errorf("mode = %v, want 0640", fi.Mode().Perm())
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("temporary files left behind: %d entries", len(entries))
	}
}

func TestApplyUnchangedRoundTrips(t *testing.T) {
	doc := mustParse(t, samplePOM)
	if err := doc.Apply(doc.Info()); err != nil {
		t.Fatal(err)
	}
	out, err := doc.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != samplePOM {
		t.Errorf("round trip changed the document:\n%s", out)
	}
}

func TestApplyRewrites(t *testing.T) {
	doc := mustParse(t, samplePOM)
	info := doc.Info()

	info.Parent.Version = "debian"
	info.Modules = []string{"runtime", "tool"}
	info.Properties["debian.hasPackageVersion"] = "true"

	deps := info.Dependencies[pom.Dependencies]
	deps[0].Version = "3.x"
	deps[1].Version = "debianx"
	deps[1].Classifier = ""

	// drop findbugs, fill the compiler plugin version
	info.Dependencies[pom.Plugins] = info.Dependencies[pom.Plugins][:1]
	info.Origins[pom.Plugins] = info.Origins[pom.Plugins][:1]
	info.Dependencies[pom.Plugins][0].Version = "2.0.2"

	if err := doc.Apply(info); err != nil {
		t.Fatal(err)
	}
	out, err := doc.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	text := string(out)

	for _, want := range []string{"<!-- keep this comment -->", "<version>3.x</version>", "<version>debianx</version>", "<debian.hasPackageVersion>true</debian.hasPackageVersion>"} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q", want)
		}
	}
	for _, gone := range []string{"findbugs-maven-plugin", "<module>gunit</module>", "no_aop"} {
		if strings.Contains(text, gone) {
			t.Errorf("output still contains %q", gone)
		}
	}

	again := mustParse(t, text).Info()
	if !again.Equal(info) {
		t.Errorf("reparsed info differs:\n got %+v\nwant %+v", again, info)
	}
	if v := again.Dependencies[pom.Plugins][0].Version; v != "2.0.2" {
		t.Errorf("plugin version = %q", v)
	}
}

const profilePOM = `<project>
  <groupId>g</groupId>
  <artifactId>a</artifactId>
  <version>1</version>
  <profiles>
    <profile>
      <id>extra</id>
      <dependencyManagement>
        <dependencies>
          <dependency><groupId>log4j</groupId><artifactId>log4j</artifactId><version>1.2.14</version></dependency>
        </dependencies>
      </dependencyManagement>
      <build>
        <plugins>
          <plugin>
            <artifactId>maven-antrun-plugin</artifactId>
            <dependencies>
              <dependency><groupId>ant</groupId><artifactId>ant-nodeps</artifactId><version>1.6.5</version></dependency>
            </dependencies>
          </plugin>
        </plugins>
        <pluginManagement>
          <plugins>
            <plugin><artifactId>maven-jar-plugin</artifactId><version>2.2</version></plugin>
          </plugins>
        </pluginManagement>
      </build>
    </profile>
  </profiles>
  <reporting>
    <plugins>
      <plugin>
        <artifactId>maven-javadoc-plugin</artifactId>
        <dependencies>
          <dependency><groupId>commons-lang</groupId><artifactId>commons-lang</artifactId><version>2.1</version></dependency>
        </dependencies>
      </plugin>
    </plugins>
  </reporting>
</project>
`

func TestProfileAndReportingRoles(t *testing.T) {
	doc := mustParse(t, profilePOM)
	info := doc.Info()

	tests := []struct {
		role pom.Role
		want string
	}{
		{pom.ProfileDependencyManagement, "log4j:log4j:jar:1.2.14"},
		{pom.ProfilePluginDependencies, "ant:ant-nodeps:jar:1.6.5"},
		{pom.ProfilePluginManagement, "org.apache.maven.plugins:maven-jar-plugin:maven-plugin:2.2"},
		{pom.ReportingPluginDependencies, "commons-lang:commons-lang:jar:2.1"},
	}
	for _, tt := range tests {
		deps := info.Dependencies[tt.role]
		if len(deps) != 1 || deps[0].String() != tt.want {
			t.Errorf("%v = %v, want [%s]", tt.role, deps, tt.want)
			continue
		}
		info.Dependencies[tt.role][0].Version = "debian"
	}

	if err := doc.Apply(info); err != nil {
		t.Fatal(err)
	}
	out, err := doc.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(out), "<version>debian</version>"); n != len(tests) {
		t.Errorf("rewrote %d versions, want %d:\n%s", n, len(tests), out)
	}
}

func TestApplyRemovesParent(t *testing.T) {
	doc := mustParse(t, samplePOM)
	info := doc.Info()
	info.Parent = nil
	if err := doc.Apply(info); err != nil {
		t.Fatal(err)
	}
	if doc.Info().Parent != nil {
		t.Error("parent should be removed")
	}
}

func TestApplyAppendsNewEntry(t *testing.T) {
	doc := mustParse(t, `<project><groupId>g</groupId><artifactId>a</artifactId></project>`)
	info := doc.Info()
	info.Append(pom.DependencyManagement, pom.NewDependency("junit", "junit", "", "4.x"))
	if err := doc.Apply(info); err != nil {
		t.Fatal(err)
	}
	got := doc.Info().Dependencies[pom.DependencyManagement]
	if len(got) != 1 || got[0].String() != "junit:junit:jar:4.x" {
		t.Errorf("DependencyManagement = %v", got)
	}
}

func TestReadWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pom.xml")
	if err := os.WriteFile(path, []byte(samplePOM), 0644); err != nil {
		t.Fatal(err)
	}
	doc, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "out.xml")
	if err := doc.WriteFile(out); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != samplePOM {
		t.Error("WriteFile should reproduce the input")
	}

	if _, err := ReadFile(filepath.Join(dir, "missing.xml")); !perrors.Is(err, perrors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v", err)
	}
}
