// Package pomxml reads and writes Maven descriptors.
//
// A [Document] keeps the full XML tree (comments and whitespace included)
// next to the typed [pom.Info] view. Writing a transformed Info back through
// [Document.Apply] only edits the elements whose values changed, so content
// the transformer does not touch round-trips unchanged.
//
//	doc, err := pomxml.ReadFile("pom.xml")
//	info := doc.Info()
//	// ... transform info ...
//	if err := doc.Apply(out); err != nil { ... }
//	err = doc.WriteFile("pom.xml")
//
// Parsing tolerates a leading UTF-8 byte-order mark and decodes documents
// declared in other encodings.
package pomxml
