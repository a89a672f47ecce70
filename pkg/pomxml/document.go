package pomxml

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"

	perrors "github.com/matzehuels/pomrewrite/pkg/errors"
	"github.com/matzehuels/pomrewrite/pkg/pom"
)

var (
	utf8BOM      = []byte{0xEF, 0xBB, 0xBF}
	encodingDecl = regexp.MustCompile(`encoding\s*=\s*["']([^"']*)["']`)
)

// Document is a parsed descriptor.
type Document struct {
	tree  *etree.Document
	bom   bool
	enc   encoding.Encoding // declared charset when not UTF-8
	info  *pom.Info
	elems map[pom.Role][]*etree.Element
}

// Parse reads a descriptor from data.
func Parse(data []byte) (*Document, error) {
	d := &Document{tree: etree.NewDocument()}
	if bytes.HasPrefix(data, utf8BOM) {
		d.bom = true
		data = data[len(utf8BOM):]
	}
	d.tree.ReadSettings.CharsetReader = charset.NewReaderLabel
	if err := d.tree.ReadFromBytes(data); err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidPOM, err, "parse descriptor")
	}
	d.enc = declaredEncoding(d.declaration())
	if err := d.index(); err != nil {
		return nil, err
	}
	return d, nil
}

// Read parses a descriptor from r.
func Read(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidPOM, err, "read descriptor")
	}
	return Parse(data)
}

// ReadFile parses the descriptor at path.
func ReadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, perrors.Wrap(perrors.ErrCodeFileNotFound, err, "descriptor %s", path)
		}
		return nil, perrors.Wrap(perrors.ErrCodeInvalidPOM, err, "read descriptor %s", path)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidPOM, err, "%s", path)
	}
	return doc, nil
}

// Info returns a copy of the typed view of the document.
func (d *Document) Info() *pom.Info {
	return d.info.Clone()
}

// WriteTo serializes the document in the charset it was read in. When the
// content no longer fits that charset the declaration is switched to UTF-8.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	if d.bom {
		buf.Write(utf8BOM)
	}
	if _, err := d.tree.WriteTo(&buf); err != nil {
		return 0, err
	}
	data := buf.Bytes()
	if d.enc != nil {
		encoded, err := d.enc.NewEncoder().Bytes(data)
		if err != nil {
			d.declareUTF8()
			return d.WriteTo(w)
		}
		data = encoded
	}
	n, err := w.Write(data)
	return int64(n), err
}

// Bytes serializes the document to a byte slice.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := d.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile serializes the document to path. The content is written to a
// temporary file in the same directory and renamed over path, so readers
// never observe a partially written descriptor.
func (d *Document) WriteFile(path string) error {
	data, err := d.Bytes()
	if err != nil {
		return err
	}
	mode := os.FileMode(0644)
	if fi, err := os.Stat(path); err == nil {
		mode = fi.Mode().Perm()
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), mode); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func (d *Document) declaration() *etree.ProcInst {
	for _, t := range d.tree.Child {
		if p, ok := t.(*etree.ProcInst); ok && p.Target == "xml" {
			return p
		}
	}
	return nil
}

func (d *Document) declareUTF8() {
	d.enc = nil
	if p := d.declaration(); p != nil {
		p.Inst = encodingDecl.ReplaceAllString(p.Inst, `encoding="UTF-8"`)
	}
}

// declaredEncoding returns the encoding named by the XML declaration, or
// nil for UTF-8 and unknown labels.
func declaredEncoding(p *etree.ProcInst) encoding.Encoding {
	if p == nil {
		return nil
	}
	m := encodingDecl.FindStringSubmatch(p.Inst)
	if m == nil {
		return nil
	}
	enc, err := htmlindex.Get(m[1])
	if err != nil {
		return nil
	}
	if name, _ := htmlindex.Name(enc); name == "utf-8" {
		return nil
	}
	return enc
}

func (d *Document) root() *etree.Element {
	return d.tree.Root()
}

// index rebuilds the typed view and element table from the tree.
func (d *Document) index() error {
	root := d.root()
	if root == nil || root.Tag != "project" {
		return perrors.New(perrors.ErrCodeInvalidPOM, "root element is not <project>")
	}

	info := &pom.Info{
		GroupID:      childText(root, "groupId"),
		ArtifactID:   childText(root, "artifactId"),
		Version:      childText(root, "version"),
		Packaging:    childText(root, "packaging"),
		Dependencies: make(map[pom.Role][]pom.Dependency),
		Properties:   make(map[string]string),
		Origins:      make(map[pom.Role][]int),
	}
	if info.Packaging == "" {
		info.Packaging = pom.TypeJar
	}

	if p := root.SelectElement("parent"); p != nil {
		info.Parent = &pom.Dependency{
			GroupID:    childText(p, "groupId"),
			ArtifactID: childText(p, "artifactId"),
			Type:       pom.TypePOM,
			Version:    childText(p, "version"),
		}
		info.ParentRelativePath = childText(p, "relativePath")
	}

	if mods := root.SelectElement("modules"); mods != nil {
		for _, m := range mods.SelectElements("module") {
			info.Modules = append(info.Modules, strings.TrimSpace(m.Text()))
		}
	}

	if props := root.SelectElement("properties"); props != nil {
		for _, p := range props.ChildElements() {
			info.Properties[p.FullTag()] = strings.TrimSpace(p.Text())
		}
	}

	d.elems = make(map[pom.Role][]*etree.Element)
	for _, role := range pom.Roles() {
		elems := root.FindElements(rolePaths[role])
		d.elems[role] = elems
		for i, el := range elems {
			info.Dependencies[role] = append(info.Dependencies[role], readEntry(role, el))
			info.Origins[role] = append(info.Origins[role], i)
		}
	}

	d.info = info
	return nil
}

func readEntry(role pom.Role, el *etree.Element) pom.Dependency {
	if role.IsPlugin() {
		d := pom.NewPlugin(childText(el, "groupId"), childText(el, "artifactId"), childText(el, "version"))
		return d
	}
	d := pom.NewDependency(
		childText(el, "groupId"),
		childText(el, "artifactId"),
		childText(el, "type"),
		childText(el, "version"),
	)
	d.Classifier = childText(el, "classifier")
	d.Scope = childText(el, "scope")
	d.Optional = childText(el, "optional") == "true"
	return d
}

func childText(el *etree.Element, tag string) string {
	c := el.SelectElement(tag)
	if c == nil {
		return ""
	}
	return strings.TrimSpace(c.Text())
}
