package pomxml

import (
	"slices"
	"sort"
	"strings"

	"github.com/beevik/etree"

	perrors "github.com/matzehuels/pomrewrite/pkg/errors"
	"github.com/matzehuels/pomrewrite/pkg/pom"
)

// Apply writes the fields of info that differ from the document back into
// the tree. Entries are matched to elements through info.Origins; elements
// whose index no longer appears are removed. After Apply the document's
// Info reflects the new content.
func (d *Document) Apply(info *pom.Info) error {
	root := d.root()
	old := d.info

	setOrRemove(root, "groupId", old.GroupID, info.GroupID)
	setOrRemove(root, "artifactId", old.ArtifactID, info.ArtifactID)
	setOrRemove(root, "version", old.Version, info.Version)
	if info.Packaging != old.Packaging {
		setChild(root, "packaging", info.Packaging)
	}

	d.applyParent(old, info)
	d.applyModules(old, info)
	d.applyProperties(old, info)

	for _, role := range pom.Roles() {
		if err := d.applyRole(role, info); err != nil {
			return err
		}
	}
	return d.index()
}

func (d *Document) applyParent(old, info *pom.Info) {
	root := d.root()
	el := root.SelectElement("parent")
	switch {
	case info.Parent == nil:
		if el != nil {
			removeElement(el)
		}
	case el == nil:
		el = etree.NewElement("parent")
		insertAfter(root, anchorOf(root, "modelVersion"), el)
		setChild(el, "groupId", info.Parent.GroupID)
		setChild(el, "artifactId", info.Parent.ArtifactID)
		setChild(el, "version", info.Parent.Version)
	default:
		prev := pom.Dependency{}
		if old.Parent != nil {
			prev = *old.Parent
		}
		setOrRemove(el, "groupId", prev.GroupID, info.Parent.GroupID)
		setOrRemove(el, "artifactId", prev.ArtifactID, info.Parent.ArtifactID)
		setOrRemove(el, "version", prev.Version, info.Parent.Version)
		setOrRemove(el, "relativePath", old.ParentRelativePath, info.ParentRelativePath)
	}
}

func (d *Document) applyModules(old, info *pom.Info) {
	if slices.Equal(old.Modules, info.Modules) {
		return
	}
	root := d.root()
	mods := root.SelectElement("modules")
	if mods == nil {
		mods = etree.NewElement("modules")
		appendElement(root, mods)
	}
	want := make(map[string]int)
	for _, m := range info.Modules {
		want[m]++
	}
	for _, el := range mods.SelectElements("module") {
		name := strings.TrimSpace(el.Text())
		if want[name] > 0 {
			want[name]--
			continue
		}
		removeElement(el)
	}
	for _, m := range info.Modules {
		if want[m] > 0 {
			want[m]--
			appendChild(mods, "module", m)
		}
	}
}

func (d *Document) applyProperties(old, info *pom.Info) {
	var keys []string
	for k, v := range info.Properties {
		if ov, ok := old.Properties[k]; !ok || ov != v {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return
	}
	sort.Strings(keys)
	root := d.root()
	props := root.SelectElement("properties")
	if props == nil {
		props = etree.NewElement("properties")
		appendElement(root, props)
	}
	for _, k := range keys {
		if c := props.SelectElement(k); c != nil {
			c.SetText(info.Properties[k])
			continue
		}
		appendChild(props, k, info.Properties[k])
	}
}

func (d *Document) applyRole(role pom.Role, info *pom.Info) error {
	elems := d.elems[role]
	prev := d.info.Dependencies[role]
	entries := info.Dependencies[role]

	origins := info.Origins[role]
	if info.Origins == nil {
		if len(entries) != len(elems) {
			return perrors.New(perrors.ErrCodeInternal,
				"%s: %d entries for %d elements and no origins", role, len(entries), len(elems))
		}
		origins = make([]int, len(entries))
		for i := range origins {
			origins[i] = i
		}
	}
	if len(origins) != len(entries) {
		return perrors.New(perrors.ErrCodeInternal, "%s: origins out of sync with entries", role)
	}

	kept := make(map[int]bool, len(origins))
	for i, o := range origins {
		switch {
		case o == pom.NoOrigin:
			if err := d.appendEntry(role, entries[i]); err != nil {
				return err
			}
		case o < 0 || o >= len(elems):
			return perrors.New(perrors.ErrCodeInternal, "%s: origin %d out of range", role, o)
		default:
			kept[o] = true
			writeEntry(role, elems[o], prev[o], entries[i])
		}
	}
	for i, el := range elems {
		if !kept[i] {
			removeElement(el)
		}
	}
	return nil
}

func (d *Document) appendEntry(role pom.Role, dep pom.Dependency) error {
	chain, ok := containerPaths[role]
	if !ok {
		return perrors.New(perrors.ErrCodeInternal, "cannot add new %s entry %s", role, dep)
	}
	parent := d.root()
	for _, tag := range chain {
		c := parent.SelectElement(tag)
		if c == nil {
			c = etree.NewElement(tag)
			appendElement(parent, c)
		}
		parent = c
	}
	el := etree.NewElement(entryTag(role))
	appendElement(parent, el)
	writeEntry(role, el, pom.Dependency{}, dep)
	return nil
}

// writeEntry updates the children of el that differ between prev and next.
func writeEntry(role pom.Role, el *etree.Element, prev, next pom.Dependency) {
	setOrRemove(el, "groupId", prev.GroupID, next.GroupID)
	setOrRemove(el, "artifactId", prev.ArtifactID, next.ArtifactID)
	setOrRemove(el, "version", prev.Version, next.Version)
	if role.IsPlugin() {
		return
	}
	prev, next = prev.WithDefaults(), next.WithDefaults()
	// jar is implied when <type> is absent
	if prev.Type != next.Type && (next.Type != pom.TypeJar || el.SelectElement("type") != nil) {
		setChild(el, "type", next.Type)
	}
	setOrRemove(el, "classifier", prev.Classifier, next.Classifier)
	setOrRemove(el, "scope", prev.Scope, next.Scope)
	if prev.Optional != next.Optional {
		if next.Optional {
			setChild(el, "optional", "true")
		} else if c := el.SelectElement("optional"); c != nil {
			removeElement(c)
		}
	}
}

// setOrRemove sets child tag to next when it differs from prev, removing the
// child when next is empty.
func setOrRemove(el *etree.Element, tag, prev, next string) {
	if prev == next {
		return
	}
	if next == "" {
		if c := el.SelectElement(tag); c != nil {
			removeElement(c)
		}
		return
	}
	setChild(el, tag, next)
}

// coordinateOrder is the conventional order of coordinate children; new
// children are inserted after the last existing predecessor.
var coordinateOrder = []string{"modelVersion", "parent", "groupId", "artifactId", "version", "type", "classifier", "scope"}

func setChild(el *etree.Element, tag, value string) {
	if c := el.SelectElement(tag); c != nil {
		c.SetText(value)
		return
	}
	c := etree.NewElement(tag)
	c.SetText(value)

	var anchor *etree.Element
	if i := slices.Index(coordinateOrder, tag); i > 0 {
		anchor = anchorOf(el, coordinateOrder[:i]...)
	}
	insertAfter(el, anchor, c)
}

func appendChild(el *etree.Element, tag, value string) {
	c := etree.NewElement(tag)
	c.SetText(value)
	appendElement(el, c)
}

// appendElement adds c after the last child element of el.
func appendElement(el, c *etree.Element) {
	kids := el.ChildElements()
	if len(kids) == 0 {
		el.AddChild(c)
		return
	}
	insertAfter(el, kids[len(kids)-1], c)
}

// anchorOf returns the existing child that comes last among tags.
func anchorOf(el *etree.Element, tags ...string) *etree.Element {
	for i := len(tags) - 1; i >= 0; i-- {
		if c := el.SelectElement(tags[i]); c != nil {
			return c
		}
	}
	return nil
}

// insertAfter inserts c after anchor, reusing the whitespace that precedes
// anchor so indentation is kept. A nil anchor inserts c as the first element.
func insertAfter(parent, anchor, c *etree.Element) {
	if anchor == nil {
		kids := parent.ChildElements()
		if len(kids) == 0 {
			parent.AddChild(c)
			return
		}
		anchor = kids[0]
		idx := anchor.Index()
		ws := precedingSpace(parent, idx)
		parent.InsertChildAt(idx, c)
		if ws != "" {
			parent.InsertChildAt(idx+1, etree.NewText(ws))
		}
		return
	}
	idx := anchor.Index()
	ws := precedingSpace(parent, idx)
	parent.InsertChildAt(idx+1, c)
	if ws != "" {
		parent.InsertChildAt(idx+1, etree.NewText(ws))
	}
}

func precedingSpace(parent *etree.Element, idx int) string {
	if idx <= 0 {
		return ""
	}
	if cd, ok := parent.Child[idx-1].(*etree.CharData); ok && strings.TrimSpace(cd.Data) == "" {
		return cd.Data
	}
	return ""
}

// removeElement detaches el together with the whitespace in front of it.
func removeElement(el *etree.Element) {
	parent := el.Parent()
	if parent == nil {
		return
	}
	idx := el.Index()
	parent.RemoveChildAt(idx)
	if idx > 0 {
		if cd, ok := parent.Child[idx-1].(*etree.CharData); ok && strings.TrimSpace(cd.Data) == "" {
			parent.RemoveChildAt(idx - 1)
		}
	}
}
