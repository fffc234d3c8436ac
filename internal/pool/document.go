package pool

import (
	"strings"

	language "github.com/gqlkit/typedefs/internal/language"
)

// Document is an ordered list of definitions parsed from one source. It
// unifies type-system documents and executable documents so that import
// resolution and closure can treat both uniformly.
type Document struct {
	Definitions []Definition
}

// Parse parses SDL text into a Document. Type-system documents are tried
// first; on a parse failure the text is retried as an executable document
// so that operation and fragment files load too. If both fail, the
// type-system parse error is returned.
func Parse(name, input string) (*Document, error) {
	sdoc, serr := language.ParseSchema(name, input)
	if serr == nil {
		return FromSchemaDocument(sdoc), nil
	}
	qdoc, qerr := language.ParseQuery(name, input)
	if qerr == nil {
		return FromQueryDocument(qdoc), nil
	}
	return nil, serr
}

// FromSchemaDocument flattens a parsed type-system document, preserving a
// schema-first, definitions-then-directives order.
func FromSchemaDocument(doc *language.SchemaDocument) *Document {
	out := &Document{}
	for _, s := range doc.Schema {
		out.Definitions = append(out.Definitions, Definition{Schema: s})
	}
	for _, s := range doc.SchemaExtension {
		out.Definitions = append(out.Definitions, Definition{Schema: s})
	}
	for _, def := range doc.Definitions {
		out.Definitions = append(out.Definitions, Definition{Type: def})
	}
	for _, def := range doc.Extensions {
		out.Definitions = append(out.Definitions, Definition{Type: def})
	}
	for _, def := range doc.Directives {
		out.Definitions = append(out.Definitions, Definition{Directive: def})
	}
	return out
}

// FromQueryDocument flattens a parsed executable document.
func FromQueryDocument(doc *language.QueryDocument) *Document {
	out := &Document{}
	for _, op := range doc.Operations {
		out.Definitions = append(out.Definitions, Definition{Operation: op})
	}
	for _, frag := range doc.Fragments {
		out.Definitions = append(out.Definitions, Definition{Fragment: frag})
	}
	return out
}

// FilterKinds removes definitions whose kind appears in the denylist.
func (d *Document) FilterKinds(kinds []string) {
	if len(kinds) == 0 {
		return
	}
	denied := make(map[string]bool, len(kinds))
	for _, k := range kinds {
		denied[k] = true
	}
	kept := d.Definitions[:0]
	for _, def := range d.Definitions {
		if denied[def.Kind()] {
			continue
		}
		kept = append(kept, def)
	}
	d.Definitions = kept
}

// Print renders the document back to SDL text. Type-system definitions are
// rendered first, then any executable definitions.
func (d *Document) Print() string {
	sdoc := &language.SchemaDocument{}
	qdoc := &language.QueryDocument{}
	for _, def := range d.Definitions {
		switch {
		case def.Schema != nil:
			sdoc.Schema = append(sdoc.Schema, def.Schema)
		case def.Type != nil:
			sdoc.Definitions = append(sdoc.Definitions, def.Type)
		case def.Directive != nil:
			sdoc.Directives = append(sdoc.Directives, def.Directive)
		case def.Operation != nil:
			qdoc.Operations = append(qdoc.Operations, def.Operation)
		case def.Fragment != nil:
			qdoc.Fragments = append(qdoc.Fragments, def.Fragment)
		}
	}
	var b strings.Builder
	if len(sdoc.Schema) > 0 || len(sdoc.Definitions) > 0 || len(sdoc.Directives) > 0 {
		language.FormatSchemaDocument(&b, sdoc)
	}
	if len(qdoc.Operations) > 0 || len(qdoc.Fragments) > 0 {
		language.FormatQueryDocument(&b, qdoc)
	}
	return b.String()
}
